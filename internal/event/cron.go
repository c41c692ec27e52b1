package event

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshScheduler posts Refresh events into the source on a cron
// schedule, decoupling the full-refresh cadence (quotes and candles)
// from the tick-driven quote refresh.
type RefreshScheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewRefreshScheduler registers the schedule. spec uses the 6-field
// (seconds-first) cron syntax.
func NewRefreshScheduler(spec string, src *Source, logger *zap.Logger) (*RefreshScheduler, error) {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(spec, func() {
		logger.Debug("scheduled refresh", zap.String("cron", spec))
		src.Post(Event{Type: TypeRefresh})
	}); err != nil {
		return nil, fmt.Errorf("register refresh schedule: %w", err)
	}
	return &RefreshScheduler{cron: c, logger: logger}, nil
}

// Start starts the scheduler.
func (r *RefreshScheduler) Start() {
	r.cron.Start()
	r.logger.Info("refresh scheduler started")
}

// Stop stops the scheduler gracefully.
func (r *RefreshScheduler) Stop() {
	r.cron.Stop()
	r.logger.Info("refresh scheduler stopped")
}
