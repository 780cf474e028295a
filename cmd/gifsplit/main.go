// Package main provides the CLI entry point for gifsplit.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/elvisoliveira/gifsplit/pkg/adapters/gifsource"
	"github.com/elvisoliveira/gifsplit/pkg/adapters/logger"
	"github.com/elvisoliveira/gifsplit/pkg/adapters/osfilesystem"
	"github.com/elvisoliveira/gifsplit/pkg/adapters/pngencoder"
	"github.com/elvisoliveira/gifsplit/pkg/config"
	"github.com/elvisoliveira/gifsplit/pkg/orchestrator"
	"github.com/elvisoliveira/gifsplit/pkg/pipeline"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
	"github.com/elvisoliveira/gifsplit/pkg/stages/export"
	"github.com/elvisoliveira/gifsplit/pkg/stages/sheet"
	"github.com/elvisoliveira/gifsplit/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Split   SplitCmd   `cmd:"" help:"Split an animated GIF into per-frame PNG files."`
	Probe   ProbeCmd   `cmd:"" help:"Print container and frame metadata without writing files."`
	Sheet   SheetCmd   `cmd:"" help:"Render a labeled contact sheet of every frame."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// SplitCmd defines the split subcommand.
type SplitCmd struct {
	// Required arguments
	Input      string `arg:"" help:"Input GIF file path, or - for standard input."`
	OutputBase string `arg:"" help:"Output prefix; frame n is written to <prefix>nnnnnn.png."`

	// Export options (override config file)
	Scale   *float64 `short:"s" help:"Resample every frame by this factor (default: 1.0)."`
	Workers *int     `short:"j" help:"Number of concurrent frame encodes (default: 1)."`

	// Configuration
	Config string `short:"c" help:"YAML configuration file."`

	// Summary options
	Summary       string  `help:"Write a run summary to this file."`
	SummaryFormat *string `help:"Summary format (text, markdown)."`

	// Logging options
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Input string `arg:"" help:"Input GIF file path, or - for standard input."`

	Quiet bool `short:"Q" help:"Suppress decode warnings."`
}

// SheetCmd defines the sheet subcommand.
type SheetCmd struct {
	Input  string `arg:"" help:"Input GIF file path, or - for standard input."`
	Output string `short:"o" required:"" help:"Output PNG file path."`

	// Layout options (override config file)
	Columns   *int `short:"c" help:"Number of grid columns (default: 4)."`
	CellWidth *int `short:"w" help:"Width each frame is scaled to fit (default: 160)."`

	// Logging options
	LogLevel *string `short:"l" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("gifsplit"),
		kong.Description("Split animated GIF files into per-frame PNG images."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the split command.
func (cmd *SplitCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log := newLogger(cmd.Quiet, cfg.LogLevel)

	ctx, cancel := signalContext(log)
	defer cancel()

	src, label, err := openSource(cmd.Input, log)
	if err != nil {
		return err
	}
	defer src.Close()

	// Every worker gets its own encoder; the scratch buffer inside is
	// not safe for concurrent encodes.
	fs := osfilesystem.New()
	orch := orchestrator.New(func() pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult] {
		return export.NewStage(pngencoder.New(), log)
	}, fs, log)

	log.Info(l10n.F("Splitting %s...", label))

	result, runErr := orch.Run(ctx, src, cfg.ToOrchestratorConfig(cmd.OutputBase))

	// Frames already on disk are worth summarizing even when the run
	// as a whole failed on decode anomalies.
	if cfg.Summary.Path != "" && len(result.Frames) > 0 {
		if err := writeSummary(cfg, label, cmd.OutputBase, src.Bounds(), result); err != nil {
			log.Error(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", cfg.Summary.Path))
		}
	}

	if runErr != nil {
		return runErr
	}

	log.Info(l10n.F("Output saved to %s*.png", cmd.OutputBase))
	return nil
}

// buildConfig creates a Config from the config file and CLI overrides.
func (cmd *SplitCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()

	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Scale != nil {
		cfg.Scale = *cmd.Scale
	}
	if cmd.Workers != nil {
		cfg.Workers = *cmd.Workers
	}
	if cmd.Summary != "" {
		cfg.Summary.Path = cmd.Summary
	}
	if cmd.SummaryFormat != nil {
		cfg.Summary.Format = *cmd.SummaryFormat
	}
	if cmd.LogLevel != nil {
		cfg.LogLevel = *cmd.LogLevel
	}

	return cfg, nil
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	log := newLogger(cmd.Quiet, "warn")

	src, _, err := openSource(cmd.Input, log)
	if err != nil {
		return err
	}
	defer src.Close()

	for index := 0; ; index++ {
		frame, err := src.NextFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		fmt.Printf("%06d: %dx%d (%s) delay=%dcs\n",
			index, frame.Width, frame.Height, describeColors(frame), frame.DelayCS)
	}

	info, err := src.Info()
	if err != nil {
		return err
	}

	bounds := src.Bounds()
	fmt.Printf("canvas: %dx%d\n", bounds.Dx(), bounds.Dy())
	fmt.Printf("frames: %d\n", src.FrameCount())
	switch {
	case !info.HasLoopCount:
		fmt.Println("loops: none")
	case info.LoopCount == 0:
		fmt.Println("loops: forever")
	default:
		fmt.Printf("loops: %d\n", info.LoopCount)
	}
	if info.HasErrors {
		fmt.Println("errors: yes")
	}
	return nil
}

// describeColors renders the frame's color representation for probe
// output.
func describeColors(frame *ports.FrameRecord) string {
	if frame.Truecolor {
		return "truecolor"
	}
	desc := fmt.Sprintf("%d colors, %d bpp", len(frame.ColorTable), frame.BitsPerPixel)
	if frame.LocalPalette {
		desc += ", local palette"
	}
	if frame.TransparentIndex >= 0 {
		desc += fmt.Sprintf(", transparent=%d", frame.TransparentIndex)
	}
	return desc
}

// Run executes the sheet command.
func (cmd *SheetCmd) Run() error {
	cfg := config.Defaults()
	if cmd.Columns != nil {
		cfg.Sheet.Columns = *cmd.Columns
	}
	if cmd.CellWidth != nil {
		cfg.Sheet.CellWidth = *cmd.CellWidth
	}
	if cmd.LogLevel != nil {
		cfg.LogLevel = *cmd.LogLevel
	}

	log := newLogger(cmd.Quiet, cfg.LogLevel)

	ctx, cancel := signalContext(log)
	defer cancel()

	src, label, err := openSource(cmd.Input, log)
	if err != nil {
		return err
	}
	defer src.Close()

	var (
		frames []image.Image
		delays []int
	)
	for {
		frame, err := src.NextFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		img, ok := frame.Image()
		if !ok {
			return fmt.Errorf("frame %d: malformed frame record", len(frames))
		}
		frames = append(frames, img)
		delays = append(delays, frame.DelayCS)
	}

	log.Info(l10n.F("Rendering contact sheet of %s...", label))

	stage := sheet.NewStage(log)
	result, err := stage.Execute(ctx, pipeline.SheetInput{
		Frames:    frames,
		Delays:    delays,
		Columns:   cfg.Sheet.Columns,
		CellWidth: cfg.Sheet.CellWidth,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result.Image); err != nil {
		return fmt.Errorf("encode sheet: %w", err)
	}

	fs := osfilesystem.New()
	if err := fs.WriteFile(cmd.Output, buf.Bytes()); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	log.Info(l10n.F("Output saved to %s", cmd.Output))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("gifsplit (Go) version %s", version))
	return nil
}

// newLogger builds the logger shared by a command's run.
func newLogger(quiet bool, level string) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	return ctx, cancel
}

// openSource opens the input container, reading standard input when
// the path is "-". The returned label names the input in log and
// summary output.
func openSource(input string, log ports.Logger) (*gifsource.Source, string, error) {
	label := input
	if input == "-" {
		label = "stdin"
	}
	src, err := gifsource.Open(input, log)
	if err != nil {
		return nil, "", err
	}
	return src, label, nil
}

// writeSummary formats and writes the run summary.
func writeSummary(cfg config.Config, input, outputBase string, bounds image.Rectangle, result orchestrator.RunResult) error {
	frames := make([]summarizer.FrameInfo, len(result.Frames))
	for i, fr := range result.Frames {
		frames[i] = summarizer.FrameInfo{
			Index:   fr.Index,
			DelayCS: fr.DelayCS,
			Bytes:   fr.Bytes,
			Path:    fr.Path,
		}
	}

	summary := summarizer.NewBuilder().
		WithInput(input, bounds.Dx(), bounds.Dy(), len(result.Frames)).
		WithLoop(result.LoopCount, result.HasLoopCount).
		WithFrames(frames).
		WithOutput(outputBase, result.TotalBytes).
		Build()

	var formatter summarizer.Formatter
	switch cfg.Summary.Format {
	case "markdown":
		formatter = summarizer.NewMarkdownFormatter()
	default:
		formatter = summarizer.NewTextFormatter()
	}

	return summarizer.NewWriter(formatter).Write(cfg.Summary.Path, summary)
}
