package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avramovs/clientbook/internal/client/access"
	"github.com/avramovs/clientbook/internal/client/api"
	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/models"
)

// Phase is the inline edit session's lifecycle stage.
type Phase string

const (
	// PhaseViewing: no session. Initial and terminal.
	PhaseViewing Phase = "viewing"
	// PhaseFetching: the authoritative single-record fetch is in flight.
	PhaseFetching Phase = "fetching"
	// PhaseEditing: the draft is live and editable.
	PhaseEditing Phase = "editing"
	// PhaseCommitting: the patch is in flight.
	PhaseCommitting Phase = "committing"
)

var (
	// ErrEditInProgress: a session is already active; resolve it first.
	ErrEditInProgress = errors.New("another edit is already in progress")

	// ErrNotPermitted: the policy denies editing this record. The request
	// is a no-op; the editor stays in Viewing.
	ErrNotPermitted = errors.New("editing this record is not permitted")

	// ErrNotEditing: the operation requires a live draft.
	ErrNotEditing = errors.New("no active edit session")
)

// Session is the published edit state. At most one session exists across
// the whole view at any time.
type Session struct {
	RecordID string
	Draft    models.RecordFields
	Phase    Phase
	Err      error
}

// Editor is the inline edit controller. A session begins with a fresh fetch
// of the target record so the draft is seeded from data the server actually
// holds, not from the possibly stale list snapshot.
type Editor struct {
	api     api.Client
	store   *Store
	who     IdentityProvider
	logger  logging.Logger
	timeout time.Duration

	mu        sync.Mutex
	session   Session
	listeners []func(Session)
}

func NewEditor(client api.Client, store *Store, who IdentityProvider, logger logging.Logger, timeout time.Duration) *Editor {
	return &Editor{
		api:     client,
		store:   store,
		who:     who,
		logger:  logger,
		timeout: timeout,
		session: Session{Phase: PhaseViewing},
	}
}

// OnChange registers fn to run with a session copy after every transition.
func (e *Editor) OnChange(fn func(Session)) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

// Session returns a copy of the current session state.
func (e *Editor) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *Editor) notify(s Session) {
	e.mu.Lock()
	fns := append(([]func(Session))(nil), e.listeners...)
	e.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (e *Editor) transition(s Session) {
	e.mu.Lock()
	e.session = s
	e.mu.Unlock()
	e.notify(s)
}

// Begin starts an edit session for the given record. It refuses when another
// session is active, when the record is not in the current list, or when the
// access policy denies editing; in all three cases the state stays Viewing.
// On a fetch failure the session is dropped and the error returned.
func (e *Editor) Begin(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.session.Phase != PhaseViewing {
		e.mu.Unlock()
		return ErrEditInProgress
	}
	record, ok := e.store.Record(id)
	if !ok {
		e.mu.Unlock()
		return api.ErrNotFound
	}
	if !access.PermittedActions(&record, e.who.Current()).CanEdit {
		e.mu.Unlock()
		return ErrNotPermitted
	}
	e.session = Session{RecordID: id, Phase: PhaseFetching}
	fetching := e.session
	e.mu.Unlock()
	e.notify(fetching)

	fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	fresh, err := e.api.GetRecord(fetchCtx, id)

	e.mu.Lock()
	if e.session.Phase != PhaseFetching || e.session.RecordID != id {
		// The session was cancelled while the fetch ran; drop the result.
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.session = Session{Phase: PhaseViewing}
		dropped := e.session
		e.mu.Unlock()
		e.logger.Warn(ctx, "edit fetch failed", "record", id, "err", err)
		e.notify(dropped)
		return err
	}
	e.session.Draft = fresh.RecordFields
	e.session.Phase = PhaseEditing
	editing := e.session
	e.mu.Unlock()
	e.notify(editing)
	return nil
}

// SetField updates one draft field. Valid names are the JSON field names of
// the record: iban, fullName, city, email, phone, secret.
func (e *Editor) SetField(name, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Phase != PhaseEditing {
		return ErrNotEditing
	}
	switch name {
	case "iban":
		e.session.Draft.IBAN = value
	case "fullName":
		e.session.Draft.FullName = value
	case "city":
		e.session.Draft.City = value
	case "email":
		e.session.Draft.Email = value
	case "phone":
		e.session.Draft.Phone = value
	case "secret":
		e.session.Draft.Secret = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Confirm commits the draft. The list is refetched with the active query in
// either outcome so the view tracks the server's canonical state. On success
// the session ends; on failure it stays in Editing with the error attached
// so the user can retry or cancel.
func (e *Editor) Confirm(ctx context.Context) error {
	e.mu.Lock()
	if e.session.Phase != PhaseEditing {
		e.mu.Unlock()
		return ErrNotEditing
	}
	id := e.session.RecordID
	draft := e.session.Draft
	e.session.Phase = PhaseCommitting
	e.session.Err = nil
	committing := e.session
	e.mu.Unlock()
	e.notify(committing)

	_, err := e.store.Update(ctx, id, draft)
	e.store.Refresh(ctx)

	if err != nil {
		e.mu.Lock()
		e.session.Phase = PhaseEditing
		e.session.Err = err
		failed := e.session
		e.mu.Unlock()
		e.notify(failed)
		return err
	}

	e.transition(Session{Phase: PhaseViewing})
	return nil
}

// Cancel discards the session without a network call. Cancelling during a
// commit is refused; a cancel during the seed fetch makes its result moot.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	switch e.session.Phase {
	case PhaseViewing:
		e.mu.Unlock()
		return nil
	case PhaseCommitting:
		e.mu.Unlock()
		return fmt.Errorf("commit in flight: %w", ErrEditInProgress)
	}
	e.session = Session{Phase: PhaseViewing}
	cancelled := e.session
	e.mu.Unlock()
	e.notify(cancelled)
	return nil
}
