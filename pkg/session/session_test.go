package session

import (
	"context"
	"sync"
	"testing"

	"github.com/karbar/resumeforge/pkg/schema"
)

func TestNewSessionStartsInMenu(t *testing.T) {
	s := New("42")

	if s.State.Current() != StateMenu {
		t.Errorf("Expected initial state %s, got %s", StateMenu, s.State.Current())
	}
	if s.EditingItemIndex != -1 {
		t.Errorf("Expected no editing item index, got %d", s.EditingItemIndex)
	}
}

func TestStateTransitions(t *testing.T) {
	ctx := context.Background()
	s := New("42")

	steps := []struct {
		event string
		want  string
	}{
		{event: EventBegin, want: StateCollecting},
		{event: EventQuestionsDone, want: StateAwaitingVacancy},
		{event: EventVacancyReceived, want: StateEditingSections},
		{event: EventFinalize, want: StateFeedback},
		{event: EventFeedbackDone, want: StateMenu},
		{event: EventBegin, want: StateCollecting},
		{event: EventReset, want: StateMenu},
	}

	for _, step := range steps {
		err := s.State.Event(ctx, step.event)
		if err != nil {
			t.Fatalf("Event %s failed: %v", step.event, err)
		}
		if s.State.Current() != step.want {
			t.Errorf("After %s: expected %s, got %s", step.event, step.want, s.State.Current())
		}
	}

	// finalize is not legal from the menu.
	err := s.State.Event(ctx, EventFinalize)
	if err == nil {
		t.Error("Expected error firing finalize from the menu")
	}

	// reset only fires from an active flow, never menu-to-menu.
	err = s.State.Event(ctx, EventReset)
	if err == nil {
		t.Error("Expected error firing reset from the menu")
	}
}

func TestHistoryLIFO(t *testing.T) {
	s := New("42")

	s.PushHistory(schema.SectionPersonal, 0, "Jane")
	s.PushHistory(schema.SectionPersonal, 1, "jane@example.com")

	entry, ok := s.PopHistory()
	if !ok {
		t.Fatal("Expected history entry")
	}
	if entry.QuestionIdx != 1 || entry.Value != "jane@example.com" {
		t.Errorf("Expected most recent entry first, got %+v", entry)
	}

	entry, ok = s.PopHistory()
	if !ok || entry.QuestionIdx != 0 {
		t.Errorf("Expected first entry second, got %+v ok=%v", entry, ok)
	}

	_, ok = s.PopHistory()
	if ok {
		t.Error("Expected empty history")
	}
}

func TestResetCollection(t *testing.T) {
	s := New("42")
	s.Section = schema.SectionProjects
	s.QuestionIdx = 1
	s.Item["project_name"] = "bot"
	s.PushHistory(schema.SectionPersonal, 0, "x")
	s.EditingMode = true
	s.EditingItemIndex = 2

	s.ResetCollection()

	if s.Section != schema.First() || s.QuestionIdx != 0 {
		t.Error("Cursor was not rewound")
	}
	if len(s.Item) != 0 || len(s.History) != 0 {
		t.Error("Item or history survived reset")
	}
	if s.EditingMode || s.EditingItemIndex != -1 {
		t.Error("Editing state survived reset")
	}
}

func TestStoreGetCreatesOnce(t *testing.T) {
	store := NewStore()

	a := store.Get("42")
	b := store.Get("42")
	if a != b {
		t.Error("Expected the same session for the same user")
	}

	c := store.Get("43")
	if c == a {
		t.Error("Expected distinct sessions for distinct users")
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", store.Len())
	}
}

func TestStoreConcurrentInsertion(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	sessions := make([]*Session, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = store.Get("same-user")
		}(i)
	}
	wg.Wait()

	for i := 1; i < 32; i++ {
		if sessions[i] != sessions[0] {
			t.Fatal("Concurrent Get returned different sessions for one user")
		}
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", store.Len())
	}
}
