// Package actions implements the mutate-then-refetch dispatchers behind every
// administrative and user action.
package actions

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/vishnuvijayan0005/jobtracker-web/internal/api"
	"github.com/vishnuvijayan0005/jobtracker-web/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// SetLogger installs a logger for the actions package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Dispatcher runs actions against the backend and keeps the stores in step.
type Dispatcher struct {
	backend  Backend
	stores   *store.Stores
	notifier Notifier
}

// NewDispatcher creates a Dispatcher. A nil notifier discards notifications.
func NewDispatcher(backend Backend, stores *store.Stores, notifier Notifier) *Dispatcher {
	if notifier == nil {
		notifier = NotifierFunc(func(Notification) {})
	}
	return &Dispatcher{backend: backend, stores: stores, notifier: notifier}
}

// Stores returns the stores the dispatcher invalidates.
func (d *Dispatcher) Stores() *store.Stores {
	return d.stores
}

// Run issues the action's single mutating call. On success the affected
// caches are invalidated and the list refetched, whatever the backend said;
// on failure nothing local changes and the error is returned. Failed
// actions are not retried.
func (d *Dispatcher) Run(ctx context.Context, a Action) error {
	log := logger.With(slog.String("action", a.Name))

	if a.Check != nil {
		if err := a.Check(); err != nil {
			d.notifier.Notify(Notification{Level: LevelError, Message: api.Message(err)})
			return fmt.Errorf("%s: %w", a.Name, err)
		}
	}

	msg, err := a.Mutate(ctx, d.backend)
	if err != nil {
		log.Warn("action failed", slog.Any("err", err))
		d.notifier.Notify(Notification{Level: LevelError, Message: api.Message(err)})
		return fmt.Errorf("%s: %w", a.Name, err)
	}

	if d.stores != nil {
		invalidated := d.stores.InvalidateTags(a.Tags...)
		log.Debug("invalidated caches", slog.Any("caches", invalidated))
		if a.Refetch != nil {
			if err := a.Refetch(ctx, d.stores); err != nil {
				// The mutation stands; the list reloads on its next read.
				log.Warn("refetch after action failed", slog.Any("err", err))
			}
		}
	}

	if msg == "" {
		msg = a.Success
	}
	d.notifier.Notify(Notification{Level: LevelSuccess, Message: msg})
	log.Info("action succeeded")
	return nil
}
