package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

// DefaultRedisPrefix namespaces archgraph keys in a shared Redis.
const DefaultRedisPrefix = "archgraph:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	// URL is a redis:// connection URL. When set it takes precedence over
	// Addr, Password and DB.
	URL      string `toml:"url"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// Prefix is prepended to every key. Defaults to DefaultRedisPrefix.
	Prefix string `toml:"prefix"`
}

// RedisStore keeps each graph as a JSON snapshot under <prefix>graph:<id>
// and tracks IDs in the set <prefix>graphs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts := &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse redis url")
		}
		opts = parsed
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageErr(err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStoreWithClient(client, cfg.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + "graph:" + id }
func (s *RedisStore) indexKey() string     { return s.prefix + "graphs" }

func (s *RedisStore) Get(ctx context.Context, id string) (*arch.Graph, error) {
	if err := apperrors.ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "redis get %s", id)
	}
	return graph.UnmarshalGraph(data)
}

func (s *RedisStore) Put(ctx context.Context, g *arch.Graph) error {
	if err := checkGraph(g); err != nil {
		return err
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(g.ID), data, 0)
	pipe.SAdd(ctx, s.indexKey(), g.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "redis put %s", g.ID)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "redis delete %s", id)
	}
	return nil
}

// List loads every indexed graph. IDs whose value has disappeared are
// skipped.
func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, storageErr(err, "redis list")
	}
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr(err, "redis list")
	}

	out := make([]Summary, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		g, err := graph.UnmarshalGraph([]byte(str))
		if err != nil {
			continue
		}
		out = append(out, Summarize(g))
	}
	sortSummaries(out)
	return out, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

// Client returns the underlying client so other components, such as the
// export cache, can share the connection.
func (s *RedisStore) Client() *redis.Client { return s.client }

var _ Store = (*RedisStore)(nil)
