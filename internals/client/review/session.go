// Package review drives the per-question review lifecycle on the client:
// selection, draft generation, in-place editing, acceptance toggling, and
// optimistic cache mutation reconciled against server confirmation.
package review

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"soalklinis_backend/internals/features/questions/dto"
	"soalklinis_backend/internals/features/questions/model"
)

type State string

const (
	StateIdle           State = "idle"
	StateViewing        State = "viewing"
	StateGenerating     State = "generating"
	StateReviewingDraft State = "reviewing_draft"
	StateEditing        State = "editing"
)

var (
	ErrInvalidState = errors.New("operation not valid in current state")
	ErrNoSelection  = errors.New("no question selected")
	// ErrBusy rejects a second in-flight generate/commit; the underlying
	// server call is not idempotent against partial application, so there
	// is no queuing.
	ErrBusy = errors.New("another request is already in flight")
)

// API is the slice of the server contract the session needs. The typed
// HTTP client satisfies it.
type API interface {
	FetchQuestionByID(ctx context.Context, id int64) (*model.QuestionModel, error)
	FetchQuestions(ctx context.Context, systemID int64, page int) ([]dto.QuestionListItem, error)
	UpdateQuestion(ctx context.Context, id int64, draft dto.DraftQuestion) error
	UpdateIsAccepted(ctx context.Context, id int64, accepted bool) error
}

// Generator produces a candidate replacement for the identified question.
// The server builds the prompt from the live row, so only the id travels.
type Generator interface {
	GenerateQuestion(ctx context.Context, id int64) (*dto.DraftQuestion, error)
}

// notFounder is how API errors advertise a missing question.
type notFounder interface{ NotFound() bool }

func isNotFound(err error) bool {
	var nf notFounder
	return errors.As(err, &nf) && nf.NotFound()
}

// Session is the client-resident review state machine for one operator.
// Methods are safe for concurrent use, but the intended model is one
// logical task per user action; every server call releases the lock and
// revalidates the selection epoch afterwards, so a result that raced a
// selection change is discarded instead of applied to the wrong question.
type Session struct {
	mu  sync.Mutex
	api API
	gen Generator

	state      State
	systemID   int64
	selectedID int64
	epoch      uint64

	item  *model.QuestionModel
	list  []dto.QuestionListItem
	page  int
	draft *dto.DraftQuestion

	generating bool
	committing bool
}

func NewSession(api API, gen Generator, systemID int64) *Session {
	return &Session{
		api:      api,
		gen:      gen,
		state:    StateIdle,
		systemID: systemID,
		page:     1,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SelectedID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Item returns a copy of the cached question, possibly carrying an
// unconfirmed optimistic mutation.
func (s *Session) Item() *model.QuestionModel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.item == nil {
		return nil
	}
	cp := *s.item
	return &cp
}

func (s *Session) Draft() *dto.DraftQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	cp := *s.draft
	return &cp
}

func (s *Session) List() []dto.QuestionListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]dto.QuestionListItem, len(s.list))
	copy(out, s.list)
	return out
}

// LoadList refreshes the sidebar cache for the session's system.
func (s *Session) LoadList(ctx context.Context, page int) error {
	s.mu.Lock()
	e := s.epoch
	systemID := s.systemID
	s.mu.Unlock()

	items, err := s.api.FetchQuestions(ctx, systemID, page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != e {
		return nil
	}
	s.list = items
	s.page = page
	return nil
}

// SelectItem switches the session to a different question. Any in-flight
// generation keeps running, but its eventual result is discarded because
// the selection epoch has moved on.
func (s *Session) SelectItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.epoch++
	e := s.epoch
	s.selectedID = id
	s.draft = nil
	s.generating = false
	s.mu.Unlock()

	item, err := s.api.FetchQuestionByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != e {
		return nil // selection changed again while loading
	}
	if err != nil {
		s.selectedID = 0
		s.item = nil
		s.state = StateIdle
		return fmt.Errorf("load question %d: %w", id, err)
	}
	s.item = item
	s.state = StateViewing
	return nil
}

// Next moves the selection to id+1; Prev to id-1. The source data has
// contiguous ids inside a system but neither endpoint guarantees the
// neighbor exists, so a missing neighbor is a no-op rather than an error
// and the current selection stays put.
func (s *Session) Next(ctx context.Context) error { return s.step(ctx, +1) }
func (s *Session) Prev(ctx context.Context) error { return s.step(ctx, -1) }

func (s *Session) step(ctx context.Context, delta int64) error {
	s.mu.Lock()
	if s.selectedID == 0 {
		s.mu.Unlock()
		return ErrNoSelection
	}
	e := s.epoch
	target := s.selectedID + delta
	s.mu.Unlock()

	item, err := s.api.FetchQuestionByID(ctx, target)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != e {
		return nil
	}
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("load question %d: %w", target, err)
	}
	s.epoch++
	s.selectedID = target
	s.item = item
	s.draft = nil
	s.generating = false
	s.state = StateViewing
	return nil
}

// Generate asks for a machine draft of the selected question. Only one
// generation may be in flight; the result is dropped if the selection
// changed while it was pending.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state != StateViewing || s.item == nil {
		s.mu.Unlock()
		return ErrInvalidState
	}
	e := s.epoch
	id := s.selectedID
	s.generating = true
	s.state = StateGenerating
	s.mu.Unlock()

	draft, err := s.gen.GenerateQuestion(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != e {
		return nil // stale result, selection moved on
	}
	s.generating = false
	if err != nil {
		s.state = StateViewing
		return fmt.Errorf("generate question %d: %w", id, err)
	}
	s.draft = draft
	s.state = StateReviewingDraft
	return nil
}

// SkipToManual starts an all-blank draft and opens the editor directly.
func (s *Session) SkipToManual() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateViewing {
		return ErrInvalidState
	}
	s.draft = &dto.DraftQuestion{}
	s.state = StateEditing
	return nil
}

// EditDraft opens the current draft in the editor without altering it.
func (s *Session) EditDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewingDraft {
		return ErrInvalidState
	}
	s.state = StateEditing
	return nil
}

// CancelDraft discards the draft and returns to viewing.
func (s *Session) CancelDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewingDraft && s.state != StateEditing {
		return ErrInvalidState
	}
	s.draft = nil
	s.state = StateViewing
	return nil
}

// Commit applies the payload optimistically to the local item and list
// caches, then asks the server to persist it. Whatever the outcome, the
// authoritative row is re-fetched afterwards: on success to reconcile, on
// failure to roll the optimistic write back instead of leaving it stale.
func (s *Session) Commit(ctx context.Context, payload dto.DraftQuestion) error {
	s.mu.Lock()
	if s.committing {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.state != StateReviewingDraft && s.state != StateEditing {
		s.mu.Unlock()
		return ErrInvalidState
	}
	e := s.epoch
	id := s.selectedID
	s.committing = true

	// optimistic mutation, server not yet confirmed
	if s.item != nil {
		payload.ToReplaceRequest().ApplyTo(s.item)
		s.item.AlreadyUpdated = true
	}
	s.markListUpdated(id)
	s.mu.Unlock()

	commitErr := s.api.UpdateQuestion(ctx, id, payload)

	fresh, fetchErr := s.api.FetchQuestionByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false
	if s.epoch != e {
		return commitErr
	}

	if fetchErr == nil {
		s.item = fresh
		s.syncListEntry(id, fresh.AlreadyUpdated)
	}

	if commitErr != nil {
		// optimistic write already rolled back by the refetch above;
		// stay where the operator was so the form is not lost
		return fmt.Errorf("commit question %d: %w", id, commitErr)
	}

	s.draft = nil
	s.state = StateViewing
	return nil
}

// ToggleAccepted optimistically flips is_accepted and confirms with the
// server. Two rapid toggles settle on the second call's intended value
// because each call targets the negation of the cache at call time.
func (s *Session) ToggleAccepted(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateViewing || s.item == nil {
		s.mu.Unlock()
		return ErrInvalidState
	}
	e := s.epoch
	id := s.selectedID
	target := !s.item.IsAccepted
	s.item.IsAccepted = target // optimistic flip
	s.mu.Unlock()

	err := s.api.UpdateIsAccepted(ctx, id, target)
	if err == nil {
		return nil
	}

	// reconcile: discard the optimistic flip by re-fetching the row
	fresh, fetchErr := s.api.FetchQuestionByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == e && fetchErr == nil {
		s.item = fresh
	}
	return fmt.Errorf("toggle accepted on question %d: %w", id, err)
}

// markListUpdated flips the cached sidebar row for the id, if present.
func (s *Session) markListUpdated(id int64) {
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].AlreadyUpdated = true
			return
		}
	}
}

func (s *Session) syncListEntry(id int64, updated bool) {
	for i := range s.list {
		if s.list[i].ID == id {
			s.list[i].AlreadyUpdated = updated
			return
		}
	}
}
