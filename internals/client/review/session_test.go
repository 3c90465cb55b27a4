package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"soalklinis_backend/internals/features/questions/dto"
	"soalklinis_backend/internals/features/questions/model"
)

/* =========================================================
   FAKES
========================================================= */

type fakeErr struct{ status int }

func (e *fakeErr) Error() string  { return fmt.Sprintf("api error %d", e.status) }
func (e *fakeErr) NotFound() bool { return e.status == 404 }

type fakeAPI struct {
	mu        sync.Mutex
	questions map[int64]*model.QuestionModel

	updateErr error
	acceptErr error

	acceptCalls []bool
	updateCalls int
}

func newFakeAPI(qs ...*model.QuestionModel) *fakeAPI {
	f := &fakeAPI{questions: map[int64]*model.QuestionModel{}}
	for _, q := range qs {
		f.questions[q.ID] = q
	}
	return f
}

func (f *fakeAPI) FetchQuestionByID(_ context.Context, id int64) (*model.QuestionModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.questions[id]
	if !ok {
		return nil, &fakeErr{status: 404}
	}
	cp := *q
	return &cp, nil
}

func (f *fakeAPI) FetchQuestions(_ context.Context, _ int64, _ int) ([]dto.QuestionListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []dto.QuestionListItem
	for id := int64(1); id <= int64(len(f.questions))+10; id++ {
		if q, ok := f.questions[id]; ok {
			out = append(out, dto.QuestionListItem{ID: q.ID, AlreadyUpdated: q.AlreadyUpdated})
		}
	}
	return out, nil
}

func (f *fakeAPI) UpdateQuestion(_ context.Context, id int64, draft dto.DraftQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	q, ok := f.questions[id]
	if !ok {
		return &fakeErr{status: 404}
	}
	draft.ToReplaceRequest().ApplyTo(q)
	q.AlreadyUpdated = true
	return nil
}

func (f *fakeAPI) UpdateIsAccepted(_ context.Context, id int64, accepted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acceptCalls = append(f.acceptCalls, accepted)
	if f.acceptErr != nil {
		return f.acceptErr
	}
	q, ok := f.questions[id]
	if !ok {
		return &fakeErr{status: 404}
	}
	q.IsAccepted = accepted
	return nil
}

type fakeGen struct {
	draft *dto.DraftQuestion
	err   error

	// when non-nil, Generate signals started and blocks until gate closes
	started chan struct{}
	gate    chan struct{}
}

func (g *fakeGen) GenerateQuestion(_ context.Context, _ int64) (*dto.DraftQuestion, error) {
	if g.started != nil {
		close(g.started)
	}
	if g.gate != nil {
		<-g.gate
	}
	return g.draft, g.err
}

func blockingGen(draft *dto.DraftQuestion) *fakeGen {
	return &fakeGen{draft: draft, started: make(chan struct{}), gate: make(chan struct{})}
}

func question(id int64) *model.QuestionModel {
	return &model.QuestionModel{
		ID:                id,
		SubtopicListID:    1,
		Scenario:          fmt.Sprintf("scenario %d", id),
		Question:          fmt.Sprintf("question %d", id),
		OptionA:           "A", OptionB: "B", OptionC: "C", OptionD: "D", OptionE: "E",
		CorrectAnswer:     "A",
		Discussion:        "discussion",
		LearningObjective: "objective",
	}
}

func fullDraft() dto.DraftQuestion {
	return dto.DraftQuestion{
		Scenario: "new scenario", Question: "new question",
		OptionA: "na", OptionB: "nb", OptionC: "nc", OptionD: "nd", OptionE: "ne",
		CorrectAnswer: "B", Discussion: "new discussion", LearningObjective: "new objective",
	}
}

/* =========================================================
   TESTS
========================================================= */

func TestSelectAndView(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	if got := s.State(); got != StateIdle {
		t.Fatalf("initial state = %q, want idle", got)
	}
	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatalf("SelectItem: %v", err)
	}
	if got := s.State(); got != StateViewing {
		t.Fatalf("state = %q, want viewing", got)
	}
	if item := s.Item(); item == nil || item.ID != 1 {
		t.Fatalf("item = %+v, want id 1", item)
	}
}

func TestGenerateProducesDraft(t *testing.T) {
	api := newFakeAPI(question(1))
	d := fullDraft()
	s := NewSession(api, &fakeGen{draft: &d}, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := s.State(); got != StateReviewingDraft {
		t.Fatalf("state = %q, want reviewing_draft", got)
	}
	if draft := s.Draft(); draft == nil || draft.Scenario != "new scenario" {
		t.Fatalf("draft = %+v", draft)
	}
}

func TestGenerateFailureReturnsToViewing(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{err: errors.New("upstream down")}, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(context.Background()); err == nil {
		t.Fatal("expected generate error")
	}
	if got := s.State(); got != StateViewing {
		t.Fatalf("state = %q, want viewing after failed generate", got)
	}
	if s.Draft() != nil {
		t.Fatal("draft should stay nil after failed generate")
	}
}

func TestStaleGenerationDiscardedAfterSelect(t *testing.T) {
	api := newFakeAPI(question(1), question(2))
	d := fullDraft()
	gen := blockingGen(&d)
	s := NewSession(api, gen, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Generate(context.Background()) }()
	<-gen.started

	// operator moves on before the generation resolves
	if err := s.SelectItem(context.Background(), 2); err != nil {
		t.Fatal(err)
	}

	close(gen.gate)
	if err := <-done; err != nil {
		t.Fatalf("stale generate returned error: %v", err)
	}

	if draft := s.Draft(); draft != nil {
		t.Fatalf("stale generation populated draft for question 2: %+v", draft)
	}
	if got := s.State(); got != StateViewing {
		t.Fatalf("state = %q, want viewing for question 2", got)
	}
	if id := s.SelectedID(); id != 2 {
		t.Fatalf("selected id = %d, want 2", id)
	}
}

func TestGenerateWhileGeneratingIsBusy(t *testing.T) {
	api := newFakeAPI(question(1))
	d := fullDraft()
	gen := blockingGen(&d)
	s := NewSession(api, gen, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Generate(context.Background()) }()
	<-gen.started

	if err := s.Generate(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Generate = %v, want ErrBusy", err)
	}

	close(gen.gate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestGenerateRequiresViewing(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	if err := s.Generate(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Generate from idle = %v, want ErrInvalidState", err)
	}
}

func TestSkipToManualStartsBlankDraft(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SkipToManual(); err != nil {
		t.Fatalf("SkipToManual: %v", err)
	}
	if got := s.State(); got != StateEditing {
		t.Fatalf("state = %q, want editing", got)
	}
	if draft := s.Draft(); draft == nil || draft.Complete() {
		t.Fatalf("draft = %+v, want blank draft", draft)
	}
}

func TestEditAndCancelDraft(t *testing.T) {
	api := newFakeAPI(question(1))
	d := fullDraft()
	s := NewSession(api, &fakeGen{draft: &d}, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.EditDraft(); err != nil {
		t.Fatalf("EditDraft: %v", err)
	}
	if got := s.State(); got != StateEditing {
		t.Fatalf("state = %q, want editing", got)
	}
	if err := s.CancelDraft(); err != nil {
		t.Fatalf("CancelDraft: %v", err)
	}
	if got := s.State(); got != StateViewing {
		t.Fatalf("state = %q, want viewing after cancel", got)
	}
	if s.Draft() != nil {
		t.Fatal("draft should be discarded after cancel")
	}
}

func TestCommitSuccess(t *testing.T) {
	api := newFakeAPI(question(1), question(2))
	d := fullDraft()
	s := NewSession(api, &fakeGen{draft: &d}, 1)

	ctx := context.Background()
	if err := s.LoadList(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx, d); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if got := s.State(); got != StateViewing {
		t.Fatalf("state = %q, want viewing after commit", got)
	}
	item := s.Item()
	if item.Scenario != "new scenario" || !item.AlreadyUpdated {
		t.Fatalf("item not replaced: %+v", item)
	}
	for _, row := range s.List() {
		if row.ID == 1 && !row.AlreadyUpdated {
			t.Fatal("sidebar entry not flagged already_updated")
		}
	}
	if s.Draft() != nil {
		t.Fatal("draft should clear after successful commit")
	}
}

func TestCommitFailureReconcilesCache(t *testing.T) {
	api := newFakeAPI(question(1))
	api.updateErr = errors.New("db down")
	d := fullDraft()
	s := NewSession(api, &fakeGen{draft: &d}, 1)

	ctx := context.Background()
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(ctx, d); err == nil {
		t.Fatal("expected commit error")
	}

	// the optimistic write must be rolled back to the server's row
	item := s.Item()
	if item.Scenario != "scenario 1" || item.AlreadyUpdated {
		t.Fatalf("optimistic write survived failed commit: %+v", item)
	}
	// operator stays in the draft flow, the form is not lost
	if got := s.State(); got != StateReviewingDraft {
		t.Fatalf("state = %q, want reviewing_draft after failed commit", got)
	}
	if s.Draft() == nil {
		t.Fatal("draft should survive a failed commit")
	}
}

func TestCommitRequiresDraftState(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	if err := s.SelectItem(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(context.Background(), fullDraft()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Commit from viewing = %v, want ErrInvalidState", err)
	}
	if api.updateCalls != 0 {
		t.Fatalf("update called %d times, want 0", api.updateCalls)
	}
}

func TestDoubleToggleSettlesOnSecondValue(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	ctx := context.Background()
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleAccepted(ctx); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if err := s.ToggleAccepted(ctx); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	if got := api.acceptCalls; len(got) != 2 || got[0] != true || got[1] != false {
		t.Fatalf("accept calls = %v, want [true false]", got)
	}
	if item := s.Item(); item.IsAccepted {
		t.Fatal("cache should settle on the second call's value (false)")
	}
	api.mu.Lock()
	server := api.questions[1].IsAccepted
	api.mu.Unlock()
	if server {
		t.Fatal("server should settle on the second call's value (false)")
	}
}

func TestToggleFailureRollsBack(t *testing.T) {
	api := newFakeAPI(question(1))
	api.acceptErr = errors.New("db down")
	s := NewSession(api, &fakeGen{}, 1)

	ctx := context.Background()
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleAccepted(ctx); err == nil {
		t.Fatal("expected toggle error")
	}
	if item := s.Item(); item.IsAccepted {
		t.Fatal("optimistic flip survived a failed toggle")
	}
}

func TestNextAndPrev(t *testing.T) {
	api := newFakeAPI(question(1), question(2))
	s := NewSession(api, &fakeGen{}, 1)

	ctx := context.Background()
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Next(ctx); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if id := s.SelectedID(); id != 2 {
		t.Fatalf("selected id = %d, want 2", id)
	}

	// neighbor 3 does not exist: stay put, no error
	if err := s.Next(ctx); err != nil {
		t.Fatalf("Next past the end: %v", err)
	}
	if id := s.SelectedID(); id != 2 {
		t.Fatalf("selected id = %d, want 2 after no-op", id)
	}

	if err := s.Prev(ctx); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if id := s.SelectedID(); id != 1 {
		t.Fatalf("selected id = %d, want 1", id)
	}

	// neighbor 0 does not exist either
	if err := s.Prev(ctx); err != nil {
		t.Fatalf("Prev past the start: %v", err)
	}
	if id := s.SelectedID(); id != 1 {
		t.Fatalf("selected id = %d, want 1 after no-op", id)
	}
}

func TestStepClearsDraft(t *testing.T) {
	api := newFakeAPI(question(1), question(2))
	d := fullDraft()
	s := NewSession(api, &fakeGen{draft: &d}, 1)

	ctx := context.Background()
	if err := s.SelectItem(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Generate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Draft() != nil {
		t.Fatal("draft should not follow the selection to another question")
	}
}

func TestStepWithoutSelection(t *testing.T) {
	api := newFakeAPI(question(1))
	s := NewSession(api, &fakeGen{}, 1)

	if err := s.Next(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Next without selection = %v, want ErrNoSelection", err)
	}
}
