package cli

import (
	"context"
	"fmt"

	"github.com/loomhq/loom/internal/config"
	"github.com/loomhq/loom/internal/llm"
	"github.com/loomhq/loom/internal/logging"
	"github.com/loomhq/loom/internal/runner"
	"github.com/loomhq/loom/internal/store"
)

// App bundles the wired-up stores, provider registry, and runner that the
// commands operate on. State is loaded on open and flushed on close.
type App struct {
	Config        config.Config
	Workspaces    *store.WorkspaceStore
	Agents        *store.AgentStore
	Conversations *store.ConversationStore
	Registry      *llm.Registry
	Persister     *store.Persister
	Runner        *runner.Runner

	db  *store.DB
	log *logging.Logger
}

// openApp loads config, opens the configured persistence backend, and
// rehydrates the stores.
func openApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, err
	}
	if issues := config.Validate(&cfg); len(issues) > 0 {
		return nil, fmt.Errorf("invalid config: %s", issues[0])
	}

	var (
		blob store.BlobStore
		db   *store.DB
	)
	switch cfg.Store.Driver {
	case "memory":
		blob = store.NewMemoryBlobStore()
	default:
		if err := paths.EnsureDirs(); err != nil {
			return nil, err
		}
		db, err = store.Open(paths.DatabasePath(cfg.Store), log)
		if err != nil {
			return nil, err
		}
		blob = store.NewSQLiteBlobStore(db)
	}

	workspaces := store.NewWorkspaceStore(log)
	agents := store.NewAgentStore(store.NewPalette(cfg.Palette...), log)
	conversations := store.NewConversationStore(log)

	persister := store.NewPersister(blob, workspaces, agents, conversations, log)
	if err := persister.Load(ctx); err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	// Real provider adapters plug in from outside the module; the scripted
	// mock keeps every command usable offline.
	registry := llm.NewRegistry(log)
	registry.Register("mock", &llm.MockClient{Deltas: []string{"(no provider adapter registered)"}})
	registry.SetFallback("mock")

	return &App{
		Config:        cfg,
		Workspaces:    workspaces,
		Agents:        agents,
		Conversations: conversations,
		Registry:      registry,
		Persister:     persister,
		Runner:        runner.New(agents, conversations, registry, persister, log),
		db:            db,
		log:           log,
	}, nil
}

// Close flushes state and releases the database.
func (a *App) Close(ctx context.Context) error {
	err := a.Persister.Flush(ctx)
	if a.db != nil {
		if cerr := a.db.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// activeWorkspaceID resolves the explicit flag value or falls back to the
// stored active workspace.
func (a *App) activeWorkspaceID(flag string) (string, error) {
	if flag != "" {
		if a.Workspaces.Get(flag) == nil {
			return "", fmt.Errorf("workspace not found: %s", flag)
		}
		return flag, nil
	}
	if id := a.Workspaces.ActiveID(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no active workspace; create one with 'loom workspace create'")
}
