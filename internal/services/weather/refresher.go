package weather

import (
	"context"
	"time"

	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const DefaultRefreshInterval = 5 * time.Minute

// Looker is the part of WeatherService the refresher needs.
type Looker interface {
	Lookup(ctx context.Context, sel models.LocationSelection) (models.Conditions, error)
}

// Refresher re-fetches the weather of one location on a fixed interval.
type Refresher struct {
	service  Looker
	interval time.Duration
	l        *logger.Logger
}

func NewRefresher(service Looker, interval time.Duration, l *logger.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{service: service, interval: interval, l: l}
}

// Run looks up immediately, then on every tick until ctx is done. Each result
// is handed to onUpdate, including failures.
func (r *Refresher) Run(ctx context.Context, sel models.LocationSelection, onUpdate func(models.Conditions, error)) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx, sel, onUpdate)

	for {
		select {
		case <-ctx.Done():
			r.l.Debug("refresher stopped", map[string]any{"location": sel.Label})
			return
		case <-ticker.C:
			r.refresh(ctx, sel, onUpdate)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context, sel models.LocationSelection, onUpdate func(models.Conditions, error)) {
	conditions, err := r.service.Lookup(ctx, sel)
	if ctx.Err() != nil {
		return
	}
	onUpdate(conditions, err)
}
