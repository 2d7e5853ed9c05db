package main

import (
	"context"
	"errors"
	"log/slog"

	"spicetracker/lib/chrono"
	"spicetracker/lib/serviceutil"
	"spicetracker/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	schedule  string
	runAtOnce bool
)

func init() {
	watchCmd.Flags().StringVar(&schedule, "cron", "0 */6 * * *", "cron schedule of the runs")
	watchCmd.Flags().BoolVar(&runAtOnce, "now", false, "run once immediately before waiting for the schedule")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest the configured archetypes on a schedule until interrupted.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		config, err := readConfig(configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		t, err := telemetry.SetupFromEnv(ctx, "spice")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		app, err := newApp(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer app.Close()

		run := func() {
			err := app.ingest(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("scheduled ingestion failed", "err", err)
			}
		}

		scheduler := chrono.NewCron(nil)
		err = scheduler.Add(schedule, run)
		if err != nil {
			serviceutil.Fatal("failed to schedule ingestion", err)
		}
		if runAtOnce {
			run()
		}

		slog.Info("watching archetypes", "schedule", schedule, "archetypes", len(config.Archetypes))
		scheduler.Run(ctx)
	},
}
