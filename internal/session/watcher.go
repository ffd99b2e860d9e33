package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jask/expensetracker/internal/logger"
)

// Watcher periodically expires the session and tells the UI when it did.
type Watcher struct {
	cron    *cron.Cron
	manager *Manager
	log     zerolog.Logger
	expired func()
}

// NewWatcher checks the session every interval. onExpired runs on the cron
// goroutine after an automatic logout.
func NewWatcher(m *Manager, interval time.Duration, log zerolog.Logger, onExpired func()) (*Watcher, error) {
	if interval <= 0 {
		interval = time.Minute
	}
	w := &Watcher{
		cron:    cron.New(),
		manager: m,
		log:     logger.Component(log, "session.watcher"),
		expired: onExpired,
	}
	if _, err := w.cron.AddFunc(fmt.Sprintf("@every %s", interval), w.Check); err != nil {
		return nil, fmt.Errorf("schedule expiry check: %w", err)
	}
	return w, nil
}

// OnExpired replaces the expiry callback. Call it before Start.
func (w *Watcher) OnExpired(fn func()) {
	w.expired = fn
}

// Check runs one expiry check.
func (w *Watcher) Check() {
	expired, err := w.manager.CheckExpiry()
	if err != nil {
		w.log.Error().Err(err).Msg("expiry check")
	}
	if expired && w.expired != nil {
		w.expired()
	}
}

func (w *Watcher) Start() {
	w.cron.Start()
	w.log.Debug().Msg("started")
}

// Stop waits for a running check to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.log.Debug().Msg("stopped")
}
