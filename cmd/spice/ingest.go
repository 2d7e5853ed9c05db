package main

import (
	"context"
	"errors"
	"log/slog"

	"spicetracker/lib/restyutil"
	"spicetracker/lib/scrapers/mtgtop8"
	"spicetracker/lib/serviceutil"
	"spicetracker/lib/telemetry"
	"spicetracker/services/spice"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ingestCmd)
}

var errAllFailed = errors.New("no archetype listing could be read")

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest every configured archetype once and report the new cards.",
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

		app, err := newApp(ctx, config)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer app.Close()

		err = app.ingest(ctx)
		if errors.Is(err, context.Canceled) {
			slog.Warn("ingestion was interrupted")
			return
		}
		if err != nil {
			serviceutil.Fatal("ingestion failed", err)
		}
	},
}

// app holds everything a run needs, it is reused across runs in watch mode.
type app struct {
	config    Config
	store     store
	ingester  *spice.Ingester
	notifiers []spice.Notifier
	close     func()
}

func newApp(ctx context.Context, config Config) (app, error) {
	opts := config.clientOptions()
	if dumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(dumpHttp)
		if err != nil {
			return app{}, err
		}
		opts.InstrumentOutput = output
	}
	client := mtgtop8.NewClient(opts)

	s, closeStore, err := openStore(ctx, config)
	if err != nil {
		return app{}, err
	}
	ingester, err := spice.NewIngester(client, s, spice.Options{
		Concurrency: config.Concurrency,
	})
	if err != nil {
		closeStore()
		return app{}, err
	}
	notifiers, err := notifiers(config)
	if err != nil {
		closeStore()
		return app{}, err
	}

	return app{
		config:    config,
		store:     s,
		ingester:  ingester,
		notifiers: notifiers,
		close:     closeStore,
	}, nil
}

func (a app) Close() {
	a.close()
}

func (a app) ingest(ctx context.Context) error {
	result, runErr := a.ingester.Run(ctx, a.config.archetypes())
	if result.RunID == "" {
		return runErr
	}

	// a cancelled run still reports what it stored
	notifyCtx := context.WithoutCancel(ctx)
	for _, n := range a.notifiers {
		err := n.Notify(notifyCtx, result)
		if err != nil {
			slog.Error("failed to send report", "run_id", result.RunID, "err", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	if result.AllFailed() {
		return errAllFailed
	}
	return nil
}
