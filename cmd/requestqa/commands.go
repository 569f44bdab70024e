package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BryceLarsen/Requestwave-sub001/internal/config"
	"github.com/BryceLarsen/Requestwave-sub001/internal/fakeapi"
	"github.com/BryceLarsen/Requestwave-sub001/internal/history"
	"github.com/BryceLarsen/Requestwave-sub001/internal/loadtest"
	"github.com/BryceLarsen/Requestwave-sub001/internal/platform/logger"
	"github.com/BryceLarsen/Requestwave-sub001/internal/scenarios"
	"github.com/BryceLarsen/Requestwave-sub001/internal/webhook"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenario groups and scenarios in run order",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			group := ""
			for _, sc := range scenarios.Catalogue().Scenarios() {
				if sc.Group != group {
					group = sc.Group
					fmt.Fprintf(out, "%s\n", group)
				}
				fmt.Fprintf(out, "  %s\n", sc.Name)
			}
			return nil
		},
	}
}

func newLoginCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Check that the configured credentials can log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			c, err := login(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			id := c.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in: %s (%s)\n", id.Slug, id.MusicianID)
			fmt.Fprintf(cmd.OutOrStdout(), "Audience page: %s\n", cfg.AudienceURL(id.Slug))
			return nil
		},
	}
}

func newLoadtestCmd(g *globals) *cobra.Command {
	var songs, concurrency, retries int
	var asJSON bool
	var pushJob string

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Create songs then delete them concurrently and report latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("songs") {
				songs = cfg.LoadtestSongs
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = cfg.LoadtestConcurrency
			}
			c, err := login(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			rep, err := loadtest.DeleteSongs(cmd.Context(), c, loadtest.Options{
				Songs:       songs,
				Concurrency: concurrency,
				Retries:     retries,
				Log:         log.Logger,
			})
			if err != nil {
				return err
			}
			pushMetrics(cmd.Context(), cfg, pushJob)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else {
				printLoadReport(cmd, rep)
			}
			if rep.Failed > 0 || len(rep.Errors) > 0 {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&songs, "songs", 10, "Songs to create and delete")
	cmd.Flags().IntVar(&concurrency, "concurrency", 5, "Parallel delete workers")
	cmd.Flags().IntVar(&retries, "retries", 0, "Extra attempts for transient delete failures")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&pushJob, "push-job", "requestqa-loadtest", "Pushgateway job name")
	return cmd
}

func printLoadReport(cmd *cobra.Command, rep *loadtest.Report) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", rep.Total)
	fmt.Fprintf(tw, "Succeeded\t%d\n", rep.Succeeded)
	fmt.Fprintf(tw, "Failed\t%d\n", rep.Failed)
	fmt.Fprintf(tw, "Elapsed\t%s\n", rep.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(tw, "Throughput\t%.1f/s\n", rep.Throughput)
	fmt.Fprintf(tw, "p50 / p95 / max\t%s / %s / %s\n",
		rep.P50.Round(time.Microsecond), rep.P95.Round(time.Microsecond), rep.Max.Round(time.Microsecond))
	codes := make([]int, 0, len(rep.StatusCounts))
	for code := range rep.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(tw, "HTTP %d\t%d\n", code, rep.StatusCounts[code])
	}
	_ = tw.Flush()
	for _, e := range rep.Errors {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", e)
	}
}

func newHistoryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect stored runs",
	}
	var limit, window int

	openStore := func(ctx context.Context) (history.Store, error) {
		cfg, err := g.config()
		if err != nil {
			return nil, err
		}
		if cfg.HistoryDriver == "" || cfg.HistoryDriver == config.HistoryNone {
			return nil, errors.New("REQUESTQA_HISTORY_DRIVER is not set")
		}
		return history.Open(ctx, cfg.HistoryDriver, cfg.HistoryDSN)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tPASSED\tFAILED\tELAPSED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.StartedAt.Local().Format(time.DateTime),
					r.Passed, r.Failed, r.Elapsed.Round(time.Millisecond))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "Maximum runs to show")

	show := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Show the checks of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s against %s: %d passed, %d failed\n", run.ID, run.BaseURL, run.Passed, run.Failed)
			for _, r := range run.Results {
				mark := "PASS"
				if !r.Success {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "  %s  %s: %s  %s\n", mark, r.Group, r.Name, r.Message)
			}
			return nil
		},
	}

	flaky := &cobra.Command{
		Use:   "flaky",
		Short: "List checks that both passed and failed in recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			checks, err := store.FlakyChecks(cmd.Context(), window)
			if err != nil {
				return err
			}
			if len(checks) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No flaky checks in the last %d runs.\n", window)
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tCHECK\tPASSES\tFAILURES")
			for _, fc := range checks {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", fc.Group, fc.Name, fc.Passes, fc.Failures)
			}
			return tw.Flush()
		},
	}
	flaky.Flags().IntVar(&window, "runs", 10, "Number of recent runs to consider")

	cmd.AddCommand(list, show, flaky)
	return cmd
}

func newWebhookCmd(g *globals) *cobra.Command {
	var eventType, musicianID, secret string
	var unsigned bool

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Deliver a Stripe-format webhook event to the deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.config()
			if err != nil {
				return err
			}
			if secret == "" {
				secret = cfg.WebhookSecret
			}
			ev := webhook.NewEvent(eventType, map[string]any{
				"id":                  "cs_qa_" + uuid.NewString()[:8],
				"client_reference_id": musicianID,
				"metadata":            map[string]string{"musician_id": musicianID},
			})
			sender := webhook.NewSender(cfg.BaseURL, secret, cfg.HTTPTimeout)

			var res *webhook.Result
			if unsigned {
				payload, err := json.Marshal(ev)
				if err != nil {
					return err
				}
				res, err = sender.SendUnsigned(cmd.Context(), payload)
				if err != nil {
					return err
				}
			} else {
				if secret == "" {
					return errors.New("a webhook secret is required for signed delivery (--secret or REQUESTQA_WEBHOOK_SECRET)")
				}
				if res, err = sender.Send(cmd.Context(), ev); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s -> HTTP %d %s\n", ev.Type, ev.ID, res.StatusCode, strings.TrimSpace(res.Body))
			if res.StatusCode >= http.StatusBadRequest {
				return errChecksFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&eventType, "type", "checkout.session.completed", "Event type")
	cmd.Flags().StringVar(&musicianID, "musician-id", "", "Musician the event refers to")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to REQUESTQA_WEBHOOK_SECRET)")
	cmd.Flags().BoolVar(&unsigned, "unsigned", false, "Send without a Stripe-Signature header")
	return cmd
}

func newFakeServerCmd() *cobra.Command {
	var addr, secret, audienceDomain string
	var allowSuggestions bool

	cmd := &cobra.Command{
		Use:   "fake-server",
		Short: "Serve an in-memory Requestwave API for local dry runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			lg := logger.New("requestqa-fake")
			fake := fakeapi.New(fakeapi.Options{
				AudienceDomain:   audienceDomain,
				WebhookSecret:    secret,
				AllowSuggestions: allowSuggestions,
				Logger:           &lg,
			})
			srv := &http.Server{
				Addr:              addr,
				Handler:           fake.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			lg.Info().
				Str("addr", addr).
				Str("email", fakeapi.SeedEmail).
				Str("password", fakeapi.SeedPassword).
				Str("webhook_secret", fake.WebhookSecret()).
				Msg("fake API listening")

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			lg.Info().Msg("fake API shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "Listen address")
	cmd.Flags().StringVar(&secret, "webhook-secret", fakeapi.DefaultWebhookSecret, "Secret webhooks must be signed with")
	cmd.Flags().StringVar(&audienceDomain, "audience-domain", "", "Domain used in audience URLs")
	cmd.Flags().BoolVar(&allowSuggestions, "allow-suggestions", false, "Enable audience song suggestions for the seeded musician")
	return cmd
}
