package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/models"
)

func TestProbeSession_NoStoredToken(t *testing.T) {
	f := &fakeAPI{}
	c := NewCache(f, &fakeTokens{}, testLogger())

	require.NoError(t, c.ProbeSession(context.Background()))
	require.False(t, c.IsAuthenticated())
	require.Nil(t, c.Current())
	require.NoError(t, c.Err())
	require.Empty(t, f.tokens(), "no token to install")
}

func TestProbeSession_ValidTokenRestoresIdentity(t *testing.T) {
	f := &fakeAPI{MeRet: &models.Identity{ID: "u1", Email: "ann@example.com"}}
	c := NewCache(f, &fakeTokens{token: "stored"}, testLogger())

	require.NoError(t, c.ProbeSession(context.Background()))
	require.True(t, c.IsAuthenticated())
	require.Equal(t, "u1", c.Current().ID)
	require.Equal(t, []string{"stored"}, f.tokens())
}

func TestProbeSession_RejectedTokenIsLoggedOutNotError(t *testing.T) {
	f := &fakeAPI{MeErr: api.ErrUnauthenticated}
	c := NewCache(f, &fakeTokens{token: "expired"}, testLogger())

	require.NoError(t, c.ProbeSession(context.Background()))
	require.False(t, c.IsAuthenticated())
	require.NoError(t, c.Err(), "logged out is a state, not a failure")
	// The dead token must be dropped from the transport.
	require.Equal(t, []string{"expired", ""}, f.tokens())
}

func TestProbeSession_TransportFailureSurfaces(t *testing.T) {
	f := &fakeAPI{MeErr: api.ErrUnavailable}
	c := NewCache(f, &fakeTokens{token: "stored"}, testLogger())

	require.ErrorIs(t, c.ProbeSession(context.Background()), api.ErrUnavailable)
	require.False(t, c.IsAuthenticated())
}

func TestLogin_SuccessStoresIdentityAndPersistsToken(t *testing.T) {
	f := &fakeAPI{LoginRet: &api.AuthResult{
		Identity: models.Identity{ID: "u1", Name: "Ann"},
		Token:    "fresh-token",
	}}
	tokens := &fakeTokens{}
	c := NewCache(f, tokens, testLogger())

	err := c.Login(context.Background(), models.Credentials{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	require.True(t, c.IsAuthenticated())
	require.Equal(t, "fresh-token", tokens.current())
	require.Equal(t, []string{"fresh-token"}, f.tokens())
	require.NoError(t, c.Err())
}

func TestLogin_FailureLeavesIdentityAbsentAndTokenUntouched(t *testing.T) {
	f := &fakeAPI{LoginErr: api.ErrAuth}
	tokens := &fakeTokens{token: "previous"}
	c := NewCache(f, tokens, testLogger())

	err := c.Login(context.Background(), models.Credentials{Email: "x", Password: "bad"})
	require.ErrorIs(t, err, api.ErrAuth)
	require.False(t, c.IsAuthenticated())
	require.ErrorIs(t, c.Err(), api.ErrAuth)
	require.Equal(t, "previous", tokens.current(), "persisted token untouched")
	require.Zero(t, tokens.SaveCalls)
}

func TestRegister_SuccessLogsIn(t *testing.T) {
	f := &fakeAPI{RegisterRet: &api.AuthResult{
		Identity: models.Identity{ID: "u9"},
		Token:    "reg-token",
	}}
	tokens := &fakeTokens{}
	c := NewCache(f, tokens, testLogger())

	err := c.Register(context.Background(), models.Profile{Email: "new@example.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "u9", c.Current().ID)
	require.Equal(t, "reg-token", tokens.current())
}

func TestLogOut_ClearsEverythingLocallyAndFiresInvalidation(t *testing.T) {
	f := &fakeAPI{LoginRet: &api.AuthResult{Identity: models.Identity{ID: "u1"}, Token: "tok"}}
	tokens := &fakeTokens{}
	c := NewCache(f, tokens, testLogger())
	require.NoError(t, c.Login(context.Background(), models.Credentials{}))

	c.LogOut(context.Background())

	require.False(t, c.IsAuthenticated())
	require.Empty(t, tokens.current())
	require.Equal(t, 1, tokens.ClearCalls)

	// The transport token is dropped synchronously.
	require.Equal(t, []string{"tok", ""}, f.tokens())

	// Server-side invalidation is best-effort and asynchronous, carrying
	// the token that was just dropped.
	require.Eventually(t, func() bool { return f.logoutCalls() == 1 },
		time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"tok"}, f.logoutTokens())
}

func TestLogOut_DoesNotWipeANewerSessionsToken(t *testing.T) {
	f := &fakeAPI{
		LoginRet:   &api.AuthResult{Identity: models.Identity{ID: "u1"}, Token: "first"},
		logoutGate: make(chan chan error, 1),
	}
	tokens := &fakeTokens{}
	c := NewCache(f, tokens, testLogger())
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, models.Credentials{}))
	c.LogOut(ctx)
	release := <-f.logoutGate // invalidation parked on the wire

	// A new session starts while the old one's invalidation is in flight.
	f.mu.Lock()
	f.LoginRet = &api.AuthResult{Identity: models.Identity{ID: "u2"}, Token: "second"}
	f.mu.Unlock()
	require.NoError(t, c.Login(ctx, models.Credentials{}))

	release <- nil
	require.Never(t, func() bool {
		installs := f.tokens()
		return installs[len(installs)-1] != "second"
	}, 200*time.Millisecond, 20*time.Millisecond,
		"a late invalidation must not touch the installed token")

	require.Equal(t, []string{"first", "", "second"}, f.tokens())
	require.True(t, c.IsAuthenticated())
	require.Equal(t, "u2", c.Current().ID)
	require.Equal(t, "second", tokens.current())
	require.Equal(t, []string{"first"}, f.logoutTokens())
}

func TestOnChange_FiresOnTransitions(t *testing.T) {
	f := &fakeAPI{LoginRet: &api.AuthResult{Identity: models.Identity{ID: "u1"}, Token: "t"}}
	c := NewCache(f, &fakeTokens{}, testLogger())

	var transitions int
	c.OnChange(func() { transitions++ })

	require.NoError(t, c.Login(context.Background(), models.Credentials{}))
	c.LogOut(context.Background())
	require.Equal(t, 2, transitions)
}
