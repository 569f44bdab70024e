package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BryceLarsen/Requestwave-sub001/internal/config"
	"github.com/BryceLarsen/Requestwave-sub001/internal/harness"
	"github.com/BryceLarsen/Requestwave-sub001/internal/history"
	"github.com/BryceLarsen/Requestwave-sub001/internal/report"
	"github.com/BryceLarsen/Requestwave-sub001/internal/scenarios"
)

func newRunCmd(g *globals) *cobra.Command {
	var pushJob string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scenario catalogue and report the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if !cfg.HasCredentials() {
				return errors.New("REQUESTQA_EMAIL and REQUESTQA_PASSWORD are required")
			}
			suite := scenarios.Catalogue()
			if len(cfg.Groups) > 0 {
				if suite, err = suite.Filter(cfg.Groups...); err != nil {
					return err
				}
			}

			c, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			log.Info().
				Str("base_url", cfg.BaseURL).
				Int("scenarios", len(suite.Scenarios())).
				Strs("groups", suite.Groups()).
				Msg("starting run")

			sess := harness.NewSession(c, sessionParams(cfg), log.Logger, harness.NewRecorder(log.Logger))
			sum := suite.RunAll(cmd.Context(), sess)

			if err := writeReport(cmd.OutOrStdout(), cfg, sum); err != nil {
				return err
			}
			recordRun(cmd.Context(), cfg, sum)
			pushMetrics(cmd.Context(), cfg, pushJob)

			log.Info().
				Int("passed", sum.Passed).
				Int("failed", sum.Failed).
				Dur("elapsed", sum.Elapsed).
				Msg("run completed")
			if harness.ExitCode(sum) != 0 {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pushJob, "push-job", "requestqa", "Pushgateway job name")
	return cmd
}

func writeReport(stdout io.Writer, cfg *config.Config, sum harness.Summary) error {
	if cfg.ReportPath == "" {
		return report.Write(stdout, cfg.ReportFormat, sum)
	}
	f, err := os.Create(cfg.ReportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(f, cfg.ReportFormat, sum); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Info().Str("path", cfg.ReportPath).Str("format", cfg.ReportFormat).Msg("report written")
	// Console readers still get the summary.
	if cfg.ReportFormat != report.Console {
		return report.WriteConsole(stdout, sum)
	}
	return nil
}

// recordRun stores sum in the configured history. Failures are logged only.
func recordRun(ctx context.Context, cfg *config.Config, sum harness.Summary) {
	if cfg.HistoryDriver == "" || cfg.HistoryDriver == config.HistoryNone {
		return
	}
	store, err := history.Open(ctx, cfg.HistoryDriver, cfg.HistoryDSN)
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.HistoryDriver).Msg("history unavailable")
		return
	}
	defer func() { _ = store.Close() }()
	run := history.NewRun(cfg.BaseURL, sum)
	if err := store.SaveRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("history save failed")
		return
	}
	log.Info().Str("run_id", run.ID).Str("driver", cfg.HistoryDriver).Msg("run recorded")
}

// pushMetrics sends the process metrics to the configured Pushgateway, if
// any. Failures are logged only.
func pushMetrics(ctx context.Context, cfg *config.Config, job string) {
	if cfg.PushgatewayURL == "" {
		return
	}
	if err := report.Push(ctx, cfg.PushgatewayURL, job); err != nil {
		log.Warn().Err(err).Str("job", job).Msg("metrics push failed")
		return
	}
	log.Debug().Str("url", cfg.PushgatewayURL).Str("job", job).Msg("metrics pushed")
}
