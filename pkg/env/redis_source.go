package env

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ferrost/appkit/pkg/contracts"
)

// HashClient is the slice of the redis client surface the source needs.
// Satisfied by *redis.Client, *redis.ClusterClient and redis.UniversalClient.
type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// RedisSource serves properties from a Redis hash. Hash fields use either
// dotted paths directly or "__" separators ("server__port"). The hash is
// snapshotted on construction; Reload refreshes the snapshot.
type RedisSource struct {
	name    string
	client  HashClient
	key     string
	timeout time.Duration
	values  map[string]any
}

var _ contracts.PropertySource = (*RedisSource)(nil)

func NewRedisSource(client HashClient, key string) (*RedisSource, error) {
	s := &RedisSource{
		name:    "redis:" + key,
		client:  client,
		key:     key,
		timeout: 5 * time.Second,
	}
	if err := s.Reload(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RedisSource) Name() string {
	return s.name
}

func (s *RedisSource) Lookup(key string) (any, bool) {
	return findPath(s.values, key)
}

func (s *RedisSource) Reload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return ErrRedisFetch.
			WithDetail("key", s.key).
			WithCause(err)
	}

	values := make(map[string]any, len(fields))
	for field, raw := range fields {
		key := strings.ReplaceAll(field, "__", ".")
		setPath(values, key, parseScalar(raw))
	}
	s.values = values
	return nil
}
