package chrono

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron runs jobs on cron schedules, a job is never started again while
// its previous run is still going.
type Cron struct {
	cron *cron.Cron
}

func NewCron(location *time.Location) Cron {
	if location == nil {
		location = time.Local
	}
	logger := cronLogger{}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(logger)),
	)
	return Cron{cron: cronner}
}

// Add schedules callback according to spec, spec is the standard 5 field
// format or a descriptor like "@hourly".
func (s Cron) Add(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s Cron) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

type cronLogger struct{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug(fmt.Sprintf("cron: %s", msg), keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error(fmt.Sprintf("cron: %s", msg), append(keysAndValues, "err", err)...)
}
