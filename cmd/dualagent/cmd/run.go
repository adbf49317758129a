package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sreeduggirala/checkmate/internal/config"
	"github.com/sreeduggirala/checkmate/internal/cycle"
	"github.com/sreeduggirala/checkmate/internal/events"
	"github.com/sreeduggirala/checkmate/internal/llm"
	"github.com/sreeduggirala/checkmate/internal/tracing"
	"github.com/sreeduggirala/checkmate/internal/workspace"
)

var (
	traceExporter     string
	traceFile         string
	traceOTLPEndpoint string
	traceSampleRate   float64
)

var runCmd = &cobra.Command{
	Use:   "run [request...]",
	Short: "Run one cycle: turn a change request into validated patches and reviews",
	Long: `run drives one cycle to completion: it invokes the Builder and
Reviewer (and, when enabled, the Moderator) against the workspace,
streaming one JSON-encoded event per line to stdout until it emits a
single terminal cycle_complete or error event.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&traceExporter, "trace", "none", "tracing exporter: none, file, stdout, otlp")
	runCmd.Flags().StringVar(&traceFile, "trace-file", "", "output path for the file trace exporter")
	runCmd.Flags().StringVar(&traceOTLPEndpoint, "trace-otlp-endpoint", "localhost:4317", "collector endpoint for the otlp trace exporter")
	runCmd.Flags().Float64Var(&traceSampleRate, "trace-sample-rate", 1.0, "fraction of cycles to trace (1.0 = all)")
}

func runRun(c *cobra.Command, args []string) error {
	root, err := resolveWorkspaceRoot()
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if err := config.ValidateEnv(cfg); err != nil {
		return err
	}

	builder, err := llm.New(llm.ProviderType(cfg.BuilderProvider))
	if err != nil {
		return fmt.Errorf("builder provider: %w", err)
	}
	reviewer, err := llm.New(llm.ProviderType(cfg.ReviewerProvider))
	if err != nil {
		return fmt.Errorf("reviewer provider: %w", err)
	}
	var moderator llm.Provider
	if cfg.EnableModerator {
		moderator, err = llm.New(llm.ProviderType(cfg.ModeratorProvider))
		if err != nil {
			return fmt.Errorf("moderator provider: %w", err)
		}
	}

	tp, err := tracing.NewProvider(tracing.Config{
		Enabled:      traceExporter != "none",
		Exporter:     traceExporter,
		FilePath:     traceFile,
		OTLPEndpoint: traceOTLPEndpoint,
		SampleRate:   traceSampleRate,
		ServiceName:  "dualagent-cycle",
	})
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = tp.Shutdown(c.Context()) }()

	ws := workspace.New(root, cfg.AllowPaths)
	sink := events.SinkFunc(func(e events.Event) {
		enc := json.NewEncoder(os.Stdout)
		_ = enc.Encode(e)
	})

	cy := cycle.New(cfg, ws, sink, builder, reviewer, moderator)
	cy.Tracer = tp.Tracer()

	ctx := context.Background()
	cy.Run(ctx, strings.Join(args, " "))
	return nil
}
