package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"weather-outfit/internal/models"
)

// pendingMarker is stored under a reserved key until the suggestion lands.
const pendingMarker = "__pending__"

// ValkeyStore shares suggestions between relay replicas.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "outfit"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// NewValkeyClient connects to addr, which may be host:port or a redis:// URL.
func NewValkeyClient(ctx context.Context, addr string) (valkey.Client, error) {
	opt, err := valkey.ParseURL(addr)
	if err != nil {
		opt = valkey.ClientOption{InitAddress: []string{addr}}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (models.Suggestion, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return models.Suggestion{}, false, nil
		}
		return models.Suggestion{}, false, err
	}
	if payload == pendingMarker {
		return models.Suggestion{}, false, nil
	}

	var suggestion models.Suggestion
	if err := json.Unmarshal([]byte(payload), &suggestion); err != nil {
		return models.Suggestion{}, false, err
	}
	return suggestion, true, nil
}

func (s *ValkeyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	builder := s.client.B().Set().Key(s.key(key)).Value(pendingMarker).Nx()
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(atLeastSecond(ttl)).Build()
	} else {
		cmd = builder.Build()
	}

	err := s.client.Do(ctx, cmd).Error()
	if err != nil {
		// NX answers nil when the key already exists.
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key string, suggestion models.Suggestion, ttl time.Duration) error {
	payload, err := json.Marshal(suggestion)
	if err != nil {
		return err
	}

	builder := s.client.B().Set().Key(s.key(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = builder.Ex(atLeastSecond(ttl)).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// releaseScript deletes the key only while it still holds the pending marker.
var releaseScript = valkey.NewLuaScript(`if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`)

func (s *ValkeyStore) Release(ctx context.Context, key string) error {
	return releaseScript.Exec(ctx, s.client, []string{s.key(key)}, []string{pendingMarker}).Error()
}

func (s *ValkeyStore) key(key string) string {
	return s.prefix + ":" + key
}

func atLeastSecond(ttl time.Duration) time.Duration {
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
