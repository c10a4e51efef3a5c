// Package app wires configuration, storage, the remote mirror and the
// content generator into one handle used by the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/vocabz/internal/config"
	"github.com/abhisek/vocabz/internal/generate"
	"github.com/abhisek/vocabz/internal/kv"
	"github.com/abhisek/vocabz/internal/llm"
	"github.com/abhisek/vocabz/internal/logger"
	"github.com/abhisek/vocabz/internal/progress"
	"github.com/abhisek/vocabz/internal/remote"
)

// Options holds the dependencies for Open. Zero values are built from
// Config.
type Options struct {
	Config config.Config

	// DBPath overrides Config.DBPath and the default location.
	DBPath string

	// KV replaces the SQLite snapshot store.
	KV kv.KV

	// Remote replaces the Postgres mirror built from the DSN.
	Remote remote.Gateway

	// Provider replaces the configured LLM provider.
	Provider llm.Provider

	Sink   progress.DiagnosticsSink
	Logger *logger.Logger
}

// App is an opened vocabz runtime.
type App struct {
	Config config.Config
	Store  *progress.Store
	Log    *logger.Logger

	opts Options
	db   *kv.SQLite

	mu  sync.Mutex
	pg  *remote.Postgres
	gen *generate.Service
}

// ErrNoProvider is returned by Generator when no LLM provider is usable.
var ErrNoProvider = errors.New("LLM provider not configured")

// Open loads the snapshot and connects the mirror when one is configured.
func Open(ctx context.Context, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	a := &App{Config: opts.Config, Log: log, opts: opts}

	store := opts.KV
	if store == nil {
		path := opts.DBPath
		if path == "" {
			path = opts.Config.DBPath
		}
		db, err := openSQLite(path)
		if err != nil {
			return nil, err
		}
		a.db = db
		store = db
	}

	st, err := progress.Open(ctx, progress.Options{
		KV:     store,
		Remote: opts.Remote,
		Sink:   opts.Sink,
		Prices: opts.Config.Prices(),
		Logger: log,
	})
	if err != nil {
		a.closeDB()
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	a.Store = st
	st.SetModel(a.ProviderConfig().ActiveModel())

	if opts.Remote == nil {
		if err := a.connectRemote(st.Snapshot().Settings); err != nil {
			log.Warn("remote mirror disabled: %v", err)
		}
	}
	return a, nil
}

func openSQLite(path string) (*kv.SQLite, error) {
	if path == "" {
		p, err := kv.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := kv.EnsureDir(path); err != nil {
		return nil, err
	}
	db, err := kv.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}

// RemoteTarget returns the DSN and table the mirror should use. Persisted
// settings win over configuration.
func (a *App) RemoteTarget(s progress.Settings) (dsn, table string) {
	dsn, table = a.Config.Remote.DSN, a.Config.Remote.Table
	if s.RemoteDSN != "" {
		dsn = s.RemoteDSN
	}
	if s.RemoteTable != "" {
		table = s.RemoteTable
	}
	return dsn, table
}

func (a *App) connectRemote(s progress.Settings) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pg != nil {
		a.Store.SetRemote(nil)
		_ = a.pg.Close()
		a.pg = nil
	}
	dsn, table := a.RemoteTarget(s)
	if dsn == "" {
		return nil
	}
	pg, err := remote.OpenPostgres(dsn, table)
	if err != nil {
		return err
	}
	a.pg = pg
	a.Store.SetRemote(pg)
	return nil
}

// HasRemote reports whether a mirror is attached.
func (a *App) HasRemote() bool {
	if a.opts.Remote != nil {
		return true
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pg != nil
}

// ProviderConfig resolves the LLM configuration with persisted settings
// applied on top.
func (a *App) ProviderConfig() llm.Config {
	lc := a.Config.ProviderConfig()
	s := a.Store.Snapshot().Settings
	if s.Provider != "" {
		lc.Provider = s.Provider
	}
	return lc.WithModel(s.Model).WithAPIKey(s.APIKey)
}

// Generator returns the content generator, building the provider on first
// use. Every reply's usage is charged to the store.
func (a *App) Generator(ctx context.Context) (*generate.Service, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != nil {
		return a.gen, nil
	}

	p := a.opts.Provider
	if p == nil {
		var err error
		p, err = llm.NewProvider(ctx, a.ProviderConfig(), a.Log)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoProvider, err)
		}
	}

	cfg := generate.DefaultConfig()
	cfg.ChunkSize = a.Config.Generation.ChunkSize
	cfg.ChunkDelay = a.Config.Generation.ChunkDelay
	a.gen = generate.NewService(llm.WithUsage(p, a.Store), cfg)
	return a.gen, nil
}

// UpdateSettings applies fn to the persisted settings, then rebuilds the
// mirror connection and drops the cached generator. The store's fallback
// pricing model follows the resolved provider model.
func (a *App) UpdateSettings(fn func(s *progress.Settings)) error {
	s := a.Store.Snapshot().Settings
	fn(&s)
	a.Store.SetSettings(s)
	a.Store.SetModel(a.ProviderConfig().ActiveModel())

	a.mu.Lock()
	a.gen = nil
	a.mu.Unlock()

	if a.opts.Remote != nil {
		return nil
	}
	return a.connectRemote(s)
}

// Close waits for background mirror writes, then releases connections.
func (a *App) Close(ctx context.Context) error {
	err := a.Store.Close(ctx)

	a.mu.Lock()
	if a.pg != nil {
		if cerr := a.pg.Close(); err == nil {
			err = cerr
		}
		a.pg = nil
	}
	a.mu.Unlock()

	if cerr := a.closeDB(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) closeDB() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
