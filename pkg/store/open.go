package store

import (
	"context"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// Open creates the configured backend. An empty backend selects the file
// store. The returned store reports loads and saves to the registered
// observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	switch backend {
	case "", BackendFile:
		backend = BackendFile
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}

// Instrument wraps s so that Get and Put emit store hooks tagged with
// backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

// Pinger is implemented by backends with a remote connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks the backend behind s. Local backends always succeed.
func Ping(ctx context.Context, s Store) error {
	if p, ok := Unwrap(s).(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Unwrap returns the backend behind an instrumented store.
func Unwrap(s Store) Store {
	if i, ok := s.(*instrumented); ok {
		return i.Store
	}
	return s
}

type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, id string) (*arch.Graph, error) {
	start := time.Now()
	g, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return g, err
}

func (s *instrumented) Put(ctx context.Context, g *arch.Graph) error {
	start := time.Now()
	err := s.Store.Put(ctx, g)
	id := ""
	if g != nil {
		id = g.ID
	}
	observability.Store().OnSave(ctx, s.backend, id, time.Since(start), err)
	return err
}
