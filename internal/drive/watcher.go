package drive

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Watcher polls the ingest folder and loads a snapshot whenever the newest file changes.
type Watcher struct {
	ingest   *IngestService
	interval time.Duration
	last     string
}

func NewWatcher(ingest *IngestService, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Watcher{ingest: ingest, interval: interval}
}

// Run polls once immediately and then on every tick until ctx is cancelled. Poll
// failures are logged and retried on the next tick.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("drive: watching snapshot folder")
	for {
		if _, err := w.poll(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("drive: poll failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll ingests the newest snapshot if it differs from the last one ingested.
func (w *Watcher) poll(ctx context.Context) (bool, error) {
	f, err := w.ingest.Latest(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	version := f.ID + "@" + f.ModifiedTime
	if version == w.last {
		return false, nil
	}

	if _, err := w.ingest.IngestFile(ctx, f); err != nil {
		return false, err
	}
	w.last = version
	return true, nil
}
