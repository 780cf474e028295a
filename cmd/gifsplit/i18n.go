// Package main provides localization for the gifsplit CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Split animated GIF files into per-frame PNG images.": "アニメーションGIFをフレームごとのPNG画像に分割します。",

		// Split command
		"Split an animated GIF into per-frame PNG files.": "アニメーションGIFをフレームごとのPNGファイルに分割",

		// Probe command
		"Print container and frame metadata without writing files.": "ファイルを書き出さずにコンテナとフレームのメタデータを表示",

		// Sheet command
		"Render a labeled contact sheet of every frame.": "全フレームのラベル付きコンタクトシートを描画",

		// Version command
		"Show version information.": "バージョン情報を表示",
		"gifsplit (Go) version %s":  "gifsplit (Go版) バージョン %s",

		// Argument help
		"Input GIF file path, or - for standard input.":            "入力GIFファイルパス（- で標準入力）",
		"Output prefix; frame n is written to <prefix>nnnnnn.png.": "出力プレフィックス（フレームnは <prefix>nnnnnn.png に書き出し）",
		"Output PNG file path.":                                    "出力PNGファイルパス",

		// Export flags
		"Resample every frame by this factor (default: 1.0).": "各フレームの拡縮率（デフォルト: 1.0）",
		"Number of concurrent frame encodes (default: 1).":    "同時エンコード数（デフォルト: 1）",
		"YAML configuration file.":                            "YAML設定ファイル",

		// Summary flags
		"Write a run summary to this file.": "実行サマリーをこのファイルに出力",
		"Summary format (text, markdown).":  "サマリー形式（text, markdown）",

		// Sheet flags
		"Number of grid columns (default: 4).":              "グリッドのカラム数（デフォルト: 4）",
		"Width each frame is scaled to fit (default: 160).": "各フレームを収める幅（デフォルト: 160）",

		// Logging flags
		"Log level (debug, info, warn, error).": "ログレベル（debug, info, warn, error）",
		"Suppress all log output.":              "全てのログ出力を抑制",
		"Suppress decode warnings.":             "デコード警告を抑制",

		// Runtime messages
		"Splitting %s...":                  "%s を分割中...",
		"Rendering contact sheet of %s...": "%s のコンタクトシートを描画中...",
		"Output saved to %s":               "出力を %s に保存しました",
		"Output saved to %s*.png":          "出力を %s*.png に保存しました",
		"Interrupted, shutting down...":    "中断されました。シャットダウン中...",

		// Summary messages
		"Summary saved to %s":         "サマリーを %s に保存しました",
		"Failed to write summary: %s": "サマリーの書き込みに失敗しました: %s",

		// Pipeline messages
		"Exported %d frames":           "%d フレームを書き出しました",
		"Error while processing input": "入力の処理中にエラーが発生しました",

		// Decode warnings
		"Frame %d has an empty palette, skipping": "フレーム %d のパレットが空のためスキップします",
		"Frame %d escapes the canvas, clipping":   "フレーム %d がキャンバスをはみ出すためクリップします",
	})
}
