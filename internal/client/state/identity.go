package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/models"
)

// TokenStore persists the session token across runs. Load returns "" with a
// nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// logoutTimeout bounds the fire-and-forget server-side session invalidation.
const logoutTimeout = 3 * time.Second

// Cache is the single identity slot: it holds the authenticated identity or
// nothing. Login, registration and the startup session probe fill it; logout
// and a session-invalidation reply clear it.
type Cache struct {
	api    api.Client
	tokens TokenStore
	logger logging.Logger

	mu        sync.Mutex
	ident     *models.Identity
	token     string
	authErr   error
	listeners []func()
}

func NewCache(client api.Client, tokens TokenStore, logger logging.Logger) *Cache {
	return &Cache{api: client, tokens: tokens, logger: logger}
}

// OnChange registers fn to run after every identity transition.
func (c *Cache) OnChange(fn func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Cache) notify() {
	c.mu.Lock()
	fns := append(([]func())(nil), c.listeners...)
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Current returns the identity, or nil when logged out.
func (c *Cache) Current() *models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ident == nil {
		return nil
	}
	ident := *c.ident
	return &ident
}

// IsAuthenticated is the predicate the presentation layer's routing guard
// depends on.
func (c *Cache) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ident != nil
}

// Err returns the last auth failure, cleared by any successful transition.
func (c *Cache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authErr
}

// ProbeSession tries to resume a previous session from the persisted token.
// No stored token, or a token the server no longer accepts, leaves the cache
// empty without recording an error: that is the logged-out state, not a
// failure. Transport trouble is returned so the caller can report it.
func (c *Cache) ProbeSession(ctx context.Context) error {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "loading stored session token failed", "err", err)
		return nil
	}
	if token == "" {
		return nil
	}

	c.api.SetSessionToken(token)
	ident, err := c.api.CurrentIdentity(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			c.api.SetSessionToken("")
			return nil
		}
		return err
	}

	c.setSession(ident, token)
	return nil
}

// Login authenticates and, on success, stores the identity and persists the
// session token. On failure the identity stays absent, the failure is kept
// as the auth error, and any previously persisted token is left untouched.
func (c *Cache) Login(ctx context.Context, creds models.Credentials) error {
	result, err := c.api.Login(ctx, creds)
	if err != nil {
		c.setAuthError(err)
		return err
	}
	c.installSession(ctx, result)
	return nil
}

// Register creates an account and logs it in; failure handling matches Login.
func (c *Cache) Register(ctx context.Context, profile models.Profile) error {
	result, err := c.api.Register(ctx, profile)
	if err != nil {
		c.setAuthError(err)
		return err
	}
	c.installSession(ctx, result)
	return nil
}

// LogOut clears the identity, the installed transport token and the
// persisted token synchronously. Server-side invalidation is fired off
// best-effort with the old token passed explicitly, so a login happening
// while it is in flight can never have its fresh token wiped.
func (c *Cache) LogOut(ctx context.Context) {
	c.mu.Lock()
	token := c.token
	c.ident = nil
	c.token = ""
	c.authErr = nil
	c.mu.Unlock()

	c.api.SetSessionToken("")

	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "clearing stored session token failed", "err", err)
	}

	if token != "" {
		go func() {
			logoutCtx, cancel := context.WithTimeout(context.Background(), logoutTimeout)
			defer cancel()
			if err := c.api.Logout(logoutCtx, token); err != nil {
				c.logger.Debug(logoutCtx, "server-side logout failed", "err", err)
			}
		}()
	}

	c.notify()
}

func (c *Cache) setSession(ident *models.Identity, token string) {
	c.mu.Lock()
	c.ident = ident
	c.token = token
	c.authErr = nil
	c.mu.Unlock()
	c.notify()
}

func (c *Cache) setAuthError(err error) {
	c.mu.Lock()
	c.ident = nil
	c.token = ""
	c.authErr = err
	c.mu.Unlock()
	c.notify()
}

func (c *Cache) installSession(ctx context.Context, result *api.AuthResult) {
	c.api.SetSessionToken(result.Token)
	if err := c.tokens.Save(ctx, result.Token); err != nil {
		c.logger.Warn(ctx, "persisting session token failed", "err", err)
	}
	ident := result.Identity
	c.setSession(&ident, result.Token)
}
