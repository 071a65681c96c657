// Package cli is the terminal front end of clientbook: a small REPL over
// the identity cache, the record store, and the inline edit controller.
// It renders whatever state the containers publish and translates typed
// commands into intents; all decisions live below it.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/client/config"
	"github.com/avramovs/clientbook/internal/client/localdb"
	"github.com/avramovs/clientbook/internal/client/repositories/metadata"
	"github.com/avramovs/clientbook/internal/client/state"
	"github.com/avramovs/clientbook/internal/logging"
)

type App struct {
	config   *config.Config
	api      api.Client
	identity *state.Cache
	records  *state.Store
	editor   *state.Editor
	logger   logging.Logger

	db      *sql.DB
	reader  *bufio.Reader
	listCh  chan state.ListState
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := localdb.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("local db init error: %w", err)
	}

	tokens := metadata.NewTokenStore(metadata.NewSQLiteRepository(db))
	apiClient := api.NewHTTPClient(cfg.ServerURL, &http.Client{Timeout: cfg.RequestTimeout})

	identity := state.NewCache(apiClient, tokens, logger)
	records := state.NewStore(apiClient, identity, logger, cfg.RequestTimeout)
	editor := state.NewEditor(apiClient, records, identity, logger, cfg.RequestTimeout)

	a := &App{
		config:   cfg,
		api:      apiClient,
		identity: identity,
		records:  records,
		editor:   editor,
		logger:   logger,
		db:       db,
		reader:   bufio.NewReader(os.Stdin),
		listCh:   make(chan state.ListState, 64),
	}
	records.OnChange(func(st state.ListState) {
		select {
		case a.listCh <- st:
		default:
		}
	})
	return a, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.identity.ProbeSession(ctx); err != nil {
		printlnFn("Could not reach the server to resume the session:", err)
	}
	if ident := a.identity.Current(); ident != nil {
		printlnFn("Welcome back,", ident.Name)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) Close() {
	_ = a.api.Close()
	_ = a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.identity.IsAuthenticated()
}

func (a *App) status() string {
	if ident := a.identity.Current(); ident != nil {
		return ident.Email
	}
	return "logged out"
}

// listSettleGrace is how long awaitList waits for a follow-up state after
// a non-loading one. An optimistic mutation publishes its local result a
// beat before the reconciling fetch starts; the grace window keeps those
// from being mistaken for the settled state.
const listSettleGrace = 50 * time.Millisecond

// awaitList drains published list states until the store settles: the last
// state is not loading and no newer state arrives within the grace window.
func (a *App) awaitList(ctx context.Context) (state.ListState, error) {
	deadline := time.After(a.config.RequestTimeout + time.Second)
	var settled *state.ListState
	for {
		var grace <-chan time.Time
		if settled != nil {
			grace = time.After(listSettleGrace)
		}
		select {
		case st := <-a.listCh:
			if st.Loading {
				settled = nil
			} else {
				settled = &st
			}
		case <-grace:
			return *settled, nil
		case <-deadline:
			return state.ListState{}, fmt.Errorf("timed out waiting for the record list")
		case <-ctx.Done():
			return state.ListState{}, ctx.Err()
		}
	}
}
