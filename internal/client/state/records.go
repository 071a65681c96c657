// Package state holds the client-side state containers: the identity cache,
// the record store, and the inline edit controller. Each container owns one
// piece of state, mutates it only under its own lock, and publishes copies
// to subscribers on every change.
package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/avramovs/clientbook/internal/client/access"
	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/models"
)

// IdentityProvider yields the currently authenticated identity, or nil.
// *Cache satisfies it.
type IdentityProvider interface {
	Current() *models.Identity
}

// ListState is the record store's published state: the current filtered
// view plus its loading/error status.
type ListState struct {
	Records []models.Record
	Loading bool
	Err     error
	Query   string
}

// Store owns the list of records shown to the user. Searches are issued
// asynchronously; every fetch carries a sequence number and a completion is
// applied only when its fetch is still the most recently issued one, so a
// slow response to an old query can never overwrite a newer query's result.
type Store struct {
	api     api.Client
	who     IdentityProvider
	logger  logging.Logger
	timeout time.Duration

	mu        sync.Mutex
	state     ListState
	fetchSeq  uint64
	listeners []func(ListState)
}

// NewStore builds a Store. timeout bounds every transport call the store
// issues; expiry surfaces as api.ErrUnavailable.
func NewStore(client api.Client, who IdentityProvider, logger logging.Logger, timeout time.Duration) *Store {
	return &Store{api: client, who: who, logger: logger, timeout: timeout}
}

// OnChange registers fn to be called with a state copy after every change.
// Callbacks run on the goroutine that performed the change.
func (s *Store) OnChange(fn func(ListState)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current list state.
func (s *Store) Snapshot() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Record finds a record in the current snapshot by id.
func (s *Store) Record(id string) (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.state.Records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

func (s *Store) snapshotLocked() ListState {
	st := s.state
	st.Records = append([]models.Record(nil), s.state.Records...)
	return st
}

func (s *Store) notify(st ListState) {
	s.mu.Lock()
	fns := append(([]func(ListState))(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}

// Search lower-cases query, marks the list loading and fetches the matching
// records in the background. The list keeps showing its previous rows until
// the fetch resolves; on failure they are kept as well (stale but displayed)
// with the error set alongside.
func (s *Store) Search(ctx context.Context, query string) {
	query = strings.ToLower(query)

	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.state.Loading = true
	s.state.Err = nil
	s.state.Query = query
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(st)

	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		records, err := s.api.ListRecords(fetchCtx, query)
		s.apply(ctx, seq, records, err)
	}()
}

// Refresh re-issues the active query.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	query := s.state.Query
	s.mu.Unlock()
	s.Search(ctx, query)
}

// apply installs a fetch result unless a newer fetch has been issued since.
func (s *Store) apply(ctx context.Context, seq uint64, records []models.Record, err error) {
	s.mu.Lock()
	if seq != s.fetchSeq {
		s.mu.Unlock()
		s.logger.Debug(ctx, "discarding stale list fetch", "seq", seq)
		return
	}
	s.state.Loading = false
	if err != nil {
		s.state.Err = err
	} else {
		s.state.Records = records
		s.state.Err = nil
	}
	st := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, "list fetch failed", "err", err)
	}
	s.notify(st)
}

// Delete removes a record. The access policy is re-verified here rather than
// trusting the caller. The row is removed optimistically before the request
// is sent; if the server rejects the delete the row is re-inserted at its
// prior position and the error is set. On success the store reconciles by
// re-issuing the active query.
func (s *Store) Delete(ctx context.Context, id string) error {
	record, ok := s.Record(id)
	if !ok {
		return api.ErrNotFound
	}
	if !access.PermittedActions(&record, s.who.Current()).CanDelete {
		return api.ErrForbidden
	}

	idx := s.removeRecord(id)
	if idx < 0 {
		return api.ErrNotFound
	}

	deleteCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.api.DeleteRecord(deleteCtx, id); err != nil {
		s.restoreRecord(record, idx, err)
		return err
	}

	s.Refresh(ctx)
	return nil
}

// removeRecord takes the record out of the list and reports its position,
// or -1 when it is not present.
func (s *Store) removeRecord(id string) int {
	s.mu.Lock()
	idx := -1
	for i, r := range s.state.Records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return idx
	}
	s.state.Records = append(s.state.Records[:idx], s.state.Records[idx+1:]...)
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(st)
	return idx
}

// restoreRecord rolls an optimistic removal back after a failed delete.
// A list fetch that resolved in the meantime has already put the row back
// (the server still holds it); in that case only the error is recorded,
// otherwise the re-insert would duplicate the id in the list.
func (s *Store) restoreRecord(record models.Record, idx int, cause error) {
	s.mu.Lock()
	present := false
	for _, r := range s.state.Records {
		if r.ID == record.ID {
			present = true
			break
		}
	}
	if !present {
		if idx > len(s.state.Records) {
			idx = len(s.state.Records)
		}
		s.state.Records = append(s.state.Records[:idx],
			append([]models.Record{record}, s.state.Records[idx:]...)...)
	}
	s.state.Err = cause
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(st)
}

// Update is the PATCH passthrough used by the edit controller. The caller
// is responsible for reconciling the list afterwards.
func (s *Store) Update(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error) {
	updateCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.api.UpdateRecord(updateCtx, id, fields)
}
