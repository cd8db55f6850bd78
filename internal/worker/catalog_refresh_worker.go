package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheRefresher reloads the catalog snapshot cache from GitHub.
type CacheRefresher interface {
	RefreshCache(ctx context.Context) error
}

// CatalogRefreshWorker periodically refreshes the cached catalog snapshot so
// reads stay close to the file on GitHub even when it is edited elsewhere.
type CatalogRefreshWorker struct {
	refresher CacheRefresher
	interval  time.Duration
}

// NewCatalogRefreshWorker constructs a CatalogRefreshWorker.
func NewCatalogRefreshWorker(refresher CacheRefresher, interval time.Duration) *CatalogRefreshWorker {
	return &CatalogRefreshWorker{
		refresher: refresher,
		interval:  interval,
	}
}

// Start begins the periodic refresh loop and listens for context cancellation.
func (w *CatalogRefreshWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting catalog refresh worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Catalog refresh worker stopped")
			return
		}
	}
}

func (w *CatalogRefreshWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.refresher.RefreshCache(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to refresh catalog cache")
		return
	}

	log.Debug().Dur("duration", time.Since(start)).Msg("Catalog cache refreshed")
}
