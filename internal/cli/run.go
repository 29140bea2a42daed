package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kelora-dev/kelora/internal/config"
	"github.com/kelora-dev/kelora/internal/pipeline"
	"github.com/kelora-dev/kelora/internal/reader"
	"github.com/kelora-dev/kelora/internal/sink"
	"github.com/kelora-dev/kelora/internal/stats"
)

// NewRunCmd creates the run command.
func NewRunCmd(cfgFile, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process a log stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(cmd, cfgFile, logLevel)
		},
	}

	// Input flags
	cmd.Flags().StringP("input-format", "f", "", "input format (logfmt, jsonl, syslog)")
	cmd.Flags().StringSlice("file", nil, "input files, doublestar globs allowed (default: stdin)")
	cmd.Flags().Bool("follow", false, "keep reading as the input file grows")

	// Output flags
	cmd.Flags().StringP("output-format", "o", "", "output format (default, jsonl)")
	cmd.Flags().String("output", "", "write rendered events to this file instead of stdout")

	// Filter flags
	cmd.Flags().StringSliceP("levels", "l", nil, "only show events whose level is in this set")
	cmd.Flags().StringSliceP("keys", "k", nil, "field keys of interest")
	cmd.Flags().BoolP("include-only", "i", false, "drop all fields except --keys")
	cmd.Flags().Bool("common", false, "show only the timestamp/level/message fields")

	// Stats flag
	cmd.Flags().BoolP("stats", "s", false, "print run statistics to stderr at end of stream")

	return cmd
}

func runStream(cmd *cobra.Command, cfgFile, logLevel *string) error {
	log := SetupLogging(*logLevel)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyCLIOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	out := buildSink(cfg)
	defer out.Close()

	p, err := pipeline.New(cfg, out, log)
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	log.Debugf("starting run: input=%s output=%s", cfg.Input.Format, cfg.Output.Format)

	report, err := p.Run(ctx, src)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if cfg.Stats.Enabled {
		renderReport(os.Stderr, report)
	}
	return nil
}

// buildSource assembles the line source from configuration.
func buildSource(ctx context.Context, cfg *config.Config) (reader.Source, error) {
	if len(cfg.Input.Paths) == 0 {
		return reader.NewScanner(os.Stdin), nil
	}

	paths, err := reader.Expand(cfg.Input.Paths)
	if err != nil {
		return nil, err
	}

	if cfg.Input.Follow {
		if len(paths) != 1 {
			return nil, fmt.Errorf("follow mode requires exactly one file, got %d", len(paths))
		}
		return reader.NewFollow(ctx, paths[0])
	}

	sources := make([]reader.Source, 0, len(paths))
	for _, path := range paths {
		s, err := reader.Open(path)
		if err != nil {
			for _, open := range sources {
				open.Close()
			}
			return nil, err
		}
		sources = append(sources, s)
	}
	return reader.NewMulti(sources...), nil
}

// buildSink assembles the output sink from configuration.
func buildSink(cfg *config.Config) sink.Sink {
	if cfg.Output.File.Enabled {
		return sink.NewFile(sink.RotatingFileConfig{
			Path:       cfg.Output.File.Path,
			MaxSizeMB:  cfg.Output.File.MaxSizeMB,
			MaxBackups: cfg.Output.File.MaxBackups,
			MaxAgeDays: cfg.Output.File.MaxAgeDays,
			Compress:   cfg.Output.File.Compress,
		})
	}
	return sink.NewStdout()
}

// renderReport prints the final statistics snapshot. Layout is a
// presentation concern of this layer; the numbers come from the core.
func renderReport(w io.Writer, r stats.Report) {
	fmt.Fprintln(w, r.Summary())
	fmt.Fprintf(w, "Time span: %s\n", r.SpanString())
	if len(r.Levels) > 0 {
		fmt.Fprintln(w, "Levels:")
		for _, lc := range r.Levels {
			fmt.Fprintf(w, "  %s: %d\n", lc.Level, lc.Count)
		}
	}
}

// applyCLIOverrides layers run-command flags on top of the loaded config.
// Only flags the user actually set participate, so an explicit --follow=false
// can override a config-file true.
func applyCLIOverrides(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("input-format") {
		cfg.Input.Format, _ = fl.GetString("input-format")
	}
	if fl.Changed("file") {
		cfg.Input.Paths, _ = fl.GetStringSlice("file")
	}
	if fl.Changed("follow") {
		cfg.Input.Follow, _ = fl.GetBool("follow")
	}
	if fl.Changed("output-format") {
		cfg.Output.Format, _ = fl.GetString("output-format")
	}
	if fl.Changed("output") {
		path, _ := fl.GetString("output")
		cfg.Output.File.Path = path
		cfg.Output.File.Enabled = path != ""
	}
	if fl.Changed("levels") {
		cfg.Filter.Levels, _ = fl.GetStringSlice("levels")
	}
	if fl.Changed("keys") {
		cfg.Filter.Keys, _ = fl.GetStringSlice("keys")
	}
	if fl.Changed("include-only") {
		cfg.Filter.IncludeOnly, _ = fl.GetBool("include-only")
	}
	if fl.Changed("common") {
		cfg.Filter.CommonOnly, _ = fl.GetBool("common")
	}
	if fl.Changed("stats") {
		cfg.Stats.Enabled, _ = fl.GetBool("stats")
	}
}
