package core

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"panelfiles/logging"
)

const refreshTimeout = 30 * time.Second

// Runner reloads the listing on a cron schedule. Ticks that land while a
// rename is in flight are skipped; the rename reloads on its own when it
// settles.
type Runner struct {
	Spec        string
	Listing     *Listing
	Coordinator *Coordinator
	Cron        *cron.Cron
	// OnRefresh runs after every successful scheduled reload.
	OnRefresh func()
}

func NewRunner(spec string, listing *Listing, coord *Coordinator) *Runner {
	return &Runner{
		Spec:        spec,
		Listing:     listing,
		Coordinator: coord,
		Cron:        cron.New(),
	}
}

// Start schedules the refresh and runs the first one right away. Without a
// spec nothing runs; the UI loads the listing itself.
func (r *Runner) Start() error {
	if r.Spec == "" {
		return nil
	}
	_, err := r.Cron.AddFunc(r.Spec, r.refresh)
	if err != nil {
		logging.Error("failed to schedule refresh", logging.String("cron", r.Spec), logging.Err(err))
		return err
	}
	logging.Info("scheduled listing refresh", logging.String("cron", r.Spec))

	// Run immediately in background
	go r.refresh()
	r.Cron.Start()
	return nil
}

func (r *Runner) Stop() {
	<-r.Cron.Stop().Done()
}

func (r *Runner) refresh() {
	if r.Coordinator != nil && r.Coordinator.Busy() {
		logging.Debug("refresh skipped, rename in flight")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if err := r.Listing.Reload(ctx); err != nil {
		return
	}
	if r.OnRefresh != nil {
		r.OnRefresh()
	}
}
