package state

import (
	"context"
	"sync"

	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/models"
)

// listCall is one in-flight ListRecords exchange a test can resolve at will.
type listCall struct {
	query   string
	release chan listResult
}

type listResult struct {
	records []models.Record
	err     error
}

func (c *listCall) resolve(records []models.Record, err error) {
	c.release <- listResult{records: records, err: err}
}

// fakeAPI implements api.Client for unit tests. When gate is non-nil every
// ListRecords call parks on it until the test resolves it, which lets tests
// interleave fetch completions deterministically. Without a gate the
// configured return values are used directly.
type fakeAPI struct {
	mu sync.Mutex

	gate chan *listCall

	// Optional gates parking DeleteRecord/Logout calls the same way, for
	// tests that interleave a mutation with other traffic. Each parked
	// call sends a release channel; the test pushes the error to return.
	deleteGate chan chan error
	logoutGate chan chan error

	ListRet []models.Record
	ListErr error

	GetRet *models.Record
	GetErr error

	UpdateRet *models.Record
	UpdateErr error

	DeleteErr error

	LoginRet    *api.AuthResult
	LoginErr    error
	RegisterRet *api.AuthResult
	RegisterErr error

	MeRet *models.Identity
	MeErr error

	LogoutErr error

	// Argument capture for assertions.
	ListCalls    []string
	LastGetID    string
	LastUpdateID string
	LastUpdate   models.RecordFields
	LastDeleteID string
	LastLogin    models.Credentials
	Tokens       []string
	LogoutCalls  int
	LogoutTokens []string
}

func (f *fakeAPI) ListRecords(ctx context.Context, query string) ([]models.Record, error) {
	f.mu.Lock()
	f.ListCalls = append(f.ListCalls, query)
	gate := f.gate
	ret := append([]models.Record(nil), f.ListRet...)
	err := f.ListErr
	f.mu.Unlock()

	if gate != nil {
		call := &listCall{query: query, release: make(chan listResult, 1)}
		gate <- call
		res := <-call.release
		return res.records, res.err
	}
	return ret, err
}

func (f *fakeAPI) listCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ListCalls...)
}

func (f *fakeAPI) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastGetID = id
	return f.GetRet, f.GetErr
}

func (f *fakeAPI) UpdateRecord(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdateID = id
	f.LastUpdate = fields
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeAPI) DeleteRecord(ctx context.Context, id string) error {
	f.mu.Lock()
	f.LastDeleteID = id
	gate := f.deleteGate
	err := f.DeleteErr
	f.mu.Unlock()

	if gate != nil {
		release := make(chan error, 1)
		gate <- release
		return <-release
	}
	return err
}

func (f *fakeAPI) Login(ctx context.Context, creds models.Credentials) (*api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastLogin = creds
	return f.LoginRet, f.LoginErr
}

func (f *fakeAPI) Register(ctx context.Context, profile models.Profile) (*api.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAPI) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MeRet, f.MeErr
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	f.LogoutCalls++
	f.LogoutTokens = append(f.LogoutTokens, token)
	gate := f.logoutGate
	err := f.LogoutErr
	f.mu.Unlock()

	if gate != nil {
		release := make(chan error, 1)
		gate <- release
		return <-release
	}
	return err
}

func (f *fakeAPI) logoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LogoutCalls
}

func (f *fakeAPI) logoutTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.LogoutTokens...)
}

func (f *fakeAPI) SetSessionToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tokens = append(f.Tokens, token)
}

func (f *fakeAPI) tokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Tokens...)
}

func (f *fakeAPI) Close() error { return nil }

// fakeTokens is an in-memory TokenStore.
type fakeTokens struct {
	mu         sync.Mutex
	token      string
	loadErr    error
	saveErr    error
	clearErr   error
	SaveCalls  int
	ClearCalls int
}

func (s *fakeTokens) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.loadErr
}

func (s *fakeTokens) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = token
	return nil
}

func (s *fakeTokens) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	if s.clearErr != nil {
		return s.clearErr
	}
	s.token = ""
	return nil
}

func (s *fakeTokens) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// fixedIdentity satisfies IdentityProvider with a constant value.
type fixedIdentity struct {
	ident *models.Identity
}

func (f *fixedIdentity) Current() *models.Identity { return f.ident }
