package dataset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meudayhegde/sprint-summary-chatbot/internal/events"
)

// LoadFunc produces a fresh table from the configured source.
type LoadFunc func(ctx context.Context) (*Table, error)

// Reloader periodically reloads the dataset and swaps the store's snapshot.
// In-flight analytical calls keep the snapshot they captured; subscribers
// of the reload event drop anything cached against the old one.
type Reloader struct {
	store      *Store
	load       LoadFunc
	interval   time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
	stop       chan struct{}
	done       chan struct{}
}

// NewReloader constructs a reloader. A zero or negative interval disables it.
func NewReloader(store *Store, load LoadFunc, interval time.Duration, dispatcher events.Dispatcher, logger *zap.Logger) *Reloader {
	return &Reloader{
		store:      store,
		load:       load,
		interval:   interval,
		dispatcher: dispatcher,
		logger:     logger,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the reload loop in a goroutine. No-op when disabled.
func (r *Reloader) Start(ctx context.Context) {
	if r.interval <= 0 {
		close(r.done)
		return
	}
	go r.run(ctx)
}

// Stop terminates the loop and waits for it to exit.
func (r *Reloader) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Reloader) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reload(ctx)
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (r *Reloader) reload(ctx context.Context) {
	if _, err := r.ReloadNow(ctx); err != nil {
		// Keep serving the previous snapshot on a failed reload.
		r.logger.Warn("dataset reload failed", zap.Error(err))
	}
}

// ReloadNow loads the source once and swaps the snapshot on success.
func (r *Reloader) ReloadNow(ctx context.Context) (*Snapshot, error) {
	table, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	snap := r.store.Replace(table)
	r.logger.Info("dataset reloaded",
		zap.String("snapshot_id", snap.ID.String()),
		zap.Int("rows", table.Len()),
	)
	if r.dispatcher != nil {
		_ = r.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventSnapshotReloaded,
			SnapshotID: snap.ID.String(),
			Rows:       table.Len(),
			Timestamp:  time.Now(),
		})
	}
	return snap, nil
}
