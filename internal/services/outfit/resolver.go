package outfit

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"weather-outfit/internal/cache"
	"weather-outfit/internal/generative"
	"weather-outfit/internal/models"
	"weather-outfit/pkg/logger"
)

const (
	DefaultPendingTTL   = 2 * time.Minute
	DefaultWaitInterval = 250 * time.Millisecond
)

type Source string

const (
	SourceGenerated Source = "generated"
	SourceCache     Source = "cache"
	SourceStatic    Source = "static"
)

type Result struct {
	Key        RequestKey
	Hash       string
	Suggestion models.Suggestion
	Source     Source
	// Static is set when the suggestion came from the local catalog.
	Static *StaticOutfit
}

type Options struct {
	// TTL of complete suggestions; zero keeps them for the store's lifetime.
	TTL time.Duration
	// PartialTTL applies to text-only suggestions so a missing image is retried sooner.
	PartialTTL time.Duration
	// PendingTTL bounds how long an abandoned reservation blocks other callers.
	PendingTTL time.Duration
	// WaitInterval is how often a caller re-checks a key reserved by someone else.
	WaitInterval time.Duration
	// OfflineFallback serves the static catalog when the backend is unreachable.
	OfflineFallback bool
}

// Resolver turns weather and preferences into a suggestion, generating at
// most once per key.
type Resolver struct {
	client  generative.SuggestionClient
	store   cache.Store
	catalog *StaticCatalog
	opts    Options
	l       *logger.Logger
}

// NewResolver accepts a nil client; every request is then served statically.
func NewResolver(client generative.SuggestionClient, store cache.Store, catalog *StaticCatalog, opts Options, l *logger.Logger) *Resolver {
	if store == nil {
		store = cache.NewMemoryStore()
	}
	if catalog == nil {
		catalog = NewStaticCatalog(CatalogOptions{})
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = DefaultPendingTTL
	}
	if opts.WaitInterval <= 0 {
		opts.WaitInterval = DefaultWaitInterval
	}
	return &Resolver{client: client, store: store, catalog: catalog, opts: opts, l: l}
}

func (r *Resolver) Suggest(ctx context.Context, in Input) (Result, error) {
	key := NewRequestKey(in)
	result := Result{Key: key, Hash: key.Hash()}

	if r.client == nil {
		return r.static(result, in), nil
	}

	owned, err := r.acquire(ctx, &result)
	if err != nil {
		return result, err
	}
	if result.Source == SourceCache {
		return result, nil
	}

	suggestion, err := r.client.Suggest(ctx, generative.Request{
		Key:         result.Hash,
		TextPrompt:  TextPrompt(in.Weather, in.Preferences, in.Unit),
		ImagePrompt: ImagePrompt(in.Weather, in.Preferences),
		Weather:     in.Weather,
		Unit:        in.Unit,
		Preferences: in.Preferences,
		Location:    in.Location,
	})
	if err != nil {
		if owned {
			if relErr := r.store.Release(context.WithoutCancel(ctx), result.Hash); relErr != nil {
				r.l.Warning("failed to release suggestion reservation", map[string]any{"key": key.String(), "err": relErr.Error()})
			}
		}
		if r.opts.OfflineFallback && generative.IsTransport(err) {
			r.l.Warning("generative backend unreachable, serving static outfit", map[string]any{"key": key.String(), "err": err.Error()})
			return r.static(result, in), nil
		}
		return result, errors.WithMessage(err, "outfit suggestion failed")
	}

	ttl := r.opts.TTL
	if !suggestion.HasImage() && r.opts.PartialTTL > 0 && (ttl == 0 || r.opts.PartialTTL < ttl) {
		ttl = r.opts.PartialTTL
	}
	if err := r.store.Set(context.WithoutCancel(ctx), result.Hash, suggestion, ttl); err != nil {
		r.l.Warning("failed to cache suggestion", map[string]any{"key": key.String(), "err": err.Error()})
	}

	r.l.Info("outfit suggestion generated", map[string]any{
		"key":      key.String(),
		"hasImage": suggestion.HasImage(),
		"ttl":      ttl.String(),
	})

	result.Suggestion = suggestion
	result.Source = SourceGenerated
	return result, nil
}

// acquire returns a cached suggestion in result, or reserves the key for this
// caller. While another caller holds the key it waits. Store failures degrade
// to generating without a reservation.
func (r *Resolver) acquire(ctx context.Context, result *Result) (bool, error) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		suggestion, found, err := r.store.Get(ctx, result.Hash)
		if err != nil {
			r.l.Warning("suggestion cache unavailable", map[string]any{"key": result.Key.String(), "err": err.Error()})
			return false, nil
		}
		if found {
			result.Suggestion = suggestion
			result.Source = SourceCache
			return false, nil
		}

		reserved, err := r.store.Reserve(ctx, result.Hash, r.opts.PendingTTL)
		if err != nil {
			r.l.Warning("suggestion reservation failed", map[string]any{"key": result.Key.String(), "err": err.Error()})
			return false, nil
		}
		if reserved {
			return true, nil
		}

		if timer == nil {
			timer = time.NewTimer(r.opts.WaitInterval)
		} else {
			timer.Reset(r.opts.WaitInterval)
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Resolver) static(result Result, in Input) Result {
	suggestion, outfit, err := r.catalog.Suggest(in.Weather, in.Preferences, in.Unit)
	if err != nil {
		r.l.Debug("static outfit image fallback", map[string]any{"key": result.Key.String(), "err": err.Error()})
	}
	result.Suggestion = suggestion
	result.Source = SourceStatic
	result.Static = &outfit
	return result
}
