package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 2 * time.Minute

// Reloader is the part of Store the refresher drives.
type Reloader interface {
	Reload(ctx context.Context, overrideURL string) (*Snapshot, error)
}

// Refresher reloads the dataset on a cron schedule.
type Refresher struct {
	spec     string
	reloader Reloader
	cron     *cron.Cron
}

// NewRefresher validates the standard five-field cron spec and registers the reload job.
func NewRefresher(spec string, reloader Reloader) (*Refresher, error) {
	if reloader == nil {
		panic("ingestion: reloader must not be nil")
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	r := &Refresher{spec: spec, reloader: reloader, cron: c}

	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		r.refresh(ctx)
	}); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

// Run starts the schedule and blocks until ctx is cancelled, then waits for a running reload.
func (r *Refresher) Run(ctx context.Context) error {
	slog.Info("[Refresher] Starting scheduled dataset refresh", "schedule", r.spec)
	r.cron.Start()

	<-ctx.Done()
	slog.Info("[Refresher] Stopping (context cancelled)")
	<-r.cron.Stop().Done()
	return nil
}

// refresh runs one reload; a failure keeps the active snapshot and is only logged.
func (r *Refresher) refresh(ctx context.Context) {
	started := time.Now()
	snap, err := r.reloader.Reload(ctx, "")
	if err != nil {
		slog.Warn("[Refresher] Scheduled reload failed, keeping active dataset", "error", err)
		return
	}
	slog.Info("[Refresher] Scheduled reload complete",
		"version", snap.Version,
		"records", snap.Series.Len(),
		"duration", time.Since(started))
}
