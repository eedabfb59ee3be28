package study

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screens/summary"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeItems struct {
	items []store.Item
	saved []spacedrep.Item
}

func (f *fakeItems) ListItems(_ context.Context, _ string) ([]store.Item, error) {
	return f.items, nil
}

func (f *fakeItems) SaveSchedule(_ context.Context, it spacedrep.Item) error {
	f.saved = append(f.saved, it)
	return nil
}

type fakeEvents struct {
	attempts []store.AttemptData
	sessions []store.SessionEventData
}

func (f *fakeEvents) AppendAttempt(_ context.Context, d store.AttemptData) error {
	f.attempts = append(f.attempts, d)
	return nil
}

func (f *fakeEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	f.sessions = append(f.sessions, d)
	return nil
}

func newItems(pairs ...string) *fakeItems {
	f := &fakeItems{}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.items = append(f.items, store.Item{
			Item:         spacedrep.NewItem(pairs[i], testNow),
			CollectionID: "col",
			Prompt:       pairs[i],
			Answer:       pairs[i+1],
		})
	}
	return f
}

// startScreen runs the session start synchronously and delivers the result.
func startScreen(t *testing.T, items *fakeItems, events *fakeEvents, typed bool, target int) *StudyScreen {
	t.Helper()
	s := New(Options{
		Items:          items,
		Events:         events,
		CollectionID:   "col",
		CollectionName: "spanish",
		Target:         target,
		Seed:           5,
		Typed:          typed,
		Clock:          func() time.Time { return testNow },
	})
	s.Update(s.startSession()())
	if s.runner == nil {
		t.Fatalf("session did not start: %s", s.errMsg)
	}
	return s
}

func press(s *StudyScreen, key string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch key {
	case "space":
		msg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		msg = tea.KeyPressMsg{Code: tea.KeyEscape}
	default:
		r := []rune(key)[0]
		msg = tea.KeyPressMsg{Code: r, Text: key}
	}
	_, cmd := s.Update(msg)
	return cmd
}

// endRun delivers the session end and returns the summary screen it hands over to.
func endRun(t *testing.T, s *StudyScreen, cmd tea.Cmd) *summary.SummaryScreen {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected session end command")
	}
	msg := cmd()
	if _, ok := msg.(sessionEndMsg); !ok {
		t.Fatalf("cmd produced %T, want sessionEndMsg", msg)
	}
	_, cmd = s.Update(msg)
	if cmd == nil {
		t.Fatal("expected screen replacement command")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	sum, ok := replace.Screen.(*summary.SummaryScreen)
	if !ok {
		t.Fatalf("replacement is %T, want summary screen", replace.Screen)
	}
	return sum
}

func TestStudyEmptyCollection(t *testing.T) {
	s := New(Options{Items: &fakeItems{}, Events: &fakeEvents{}, CollectionID: "col"})
	s.Update(s.startSession()())

	if !strings.Contains(s.View(80, 20), "no items yet") {
		t.Error("expected empty collection message")
	}
	if cmd := press(s, "x"); cmd == nil {
		t.Error("expected any key to exit on error")
	}
}

func TestStudyLoadingState(t *testing.T) {
	s := New(Options{Items: &fakeItems{}, Events: &fakeEvents{}})
	if !strings.Contains(s.View(80, 20), "Preparing") {
		t.Error("expected loading view before the session starts")
	}
	if s.HeaderStatus() != "" {
		t.Error("expected empty status before the session starts")
	}
}

func TestStudyFlashcardFlow(t *testing.T) {
	items := newItems("uno", "one", "dos", "two")
	events := &fakeEvents{}
	s := startScreen(t, items, events, false, 2)

	if len(events.sessions) != 1 || events.sessions[0].Action != store.SessionActionStart {
		t.Fatalf("session events = %+v, want start", events.sessions)
	}

	first := s.current
	view := s.View(100, 30)
	if !strings.Contains(view, first.Prompt) || strings.Contains(view, first.Answer) {
		t.Error("front of card should show the prompt only")
	}

	// Ratings are ignored until the answer is revealed.
	press(s, "3")
	if len(events.attempts) != 0 {
		t.Fatal("rating before reveal must not record an attempt")
	}

	press(s, "space")
	if !s.revealed || !strings.Contains(s.View(100, 30), first.Answer) {
		t.Fatal("space should reveal the answer")
	}

	if cmd := press(s, "1"); cmd != nil {
		t.Fatal("first answer should not end the run")
	}
	if got := events.attempts[0]; got.Correct || got.Quality != 0 || got.ItemID != first.ID {
		t.Errorf("again rating recorded as %+v, want incorrect quality 0 for %s", got, first.ID)
	}
	if s.revealed {
		t.Error("next card should start hidden")
	}

	press(s, "space")
	sum := endRun(t, s, press(s, "4"))

	if got := events.attempts[1]; !got.Correct || got.Quality != 5 {
		t.Errorf("easy rating recorded as %+v, want correct quality 5", got)
	}
	last := events.sessions[len(events.sessions)-1]
	if last.Action != store.SessionActionEnd || last.Presented != 2 || last.Correct != 1 {
		t.Errorf("end event = %+v", last)
	}
	if !strings.Contains(sum.View(80, 24), first.Prompt) {
		t.Error("summary should list the missed prompt")
	}
}

func TestStudyTypedFlow(t *testing.T) {
	items := newItems("gato", "cat", "perro", "dog")
	events := &fakeEvents{}
	s := startScreen(t, items, events, true, 2)

	first := s.current
	s.input.Model.SetValue("  " + strings.ToUpper(first.Answer) + " ")
	press(s, "enter")

	if !s.showingFeedback || !s.lastCorrect {
		t.Fatal("case-folded trimmed answer should be accepted")
	}
	if got := events.attempts[0]; !got.Correct || got.Quality != session.DefaultCorrectQuality {
		t.Errorf("attempt = %+v, want correct with default quality", got)
	}
	if !strings.Contains(s.View(80, 24), "Correct!") {
		t.Error("expected correct feedback")
	}

	// Enter again while feedback is up just dismisses it.
	if cmd := press(s, "enter"); cmd != nil {
		t.Fatal("dismissing feedback mid-run should not end the session")
	}
	if s.showingFeedback || s.input.Value() != "" {
		t.Error("next item should start with an empty input")
	}

	s.input.Model.SetValue("wrong")
	press(s, "enter")
	if s.lastCorrect {
		t.Error("wrong answer accepted")
	}
	if !strings.Contains(s.View(80, 24), "Not quite") {
		t.Error("expected incorrect feedback")
	}
	if got := events.attempts[1]; got.Correct || got.Quality != session.DefaultIncorrectQuality {
		t.Errorf("attempt = %+v, want incorrect with default quality", got)
	}

	endRun(t, s, press(s, "x"))
}

func TestStudyQuitConfirm(t *testing.T) {
	events := &fakeEvents{}
	s := startScreen(t, newItems("a", "1", "b", "2", "c", "3"), events, false, 3)

	press(s, "esc")
	if !s.showingQuitConfirm {
		t.Fatal("esc should ask for confirmation")
	}
	if !strings.Contains(s.View(80, 24), "End session early?") {
		t.Error("expected quit confirmation view")
	}
	press(s, "n")
	if s.showingQuitConfirm {
		t.Fatal("n should cancel")
	}

	press(s, "space")
	press(s, "3")

	press(s, "esc")
	sum := endRun(t, s, press(s, "y"))

	if !strings.Contains(sum.View(80, 24), "Session ended early") {
		t.Error("abandoned run should be labelled as ended early")
	}
	last := events.sessions[len(events.sessions)-1]
	if last.Action != store.SessionActionEnd || last.Presented != 1 || last.Target != 3 {
		t.Errorf("end event = %+v", last)
	}

	// Finish after the run was ended must not record again.
	if _, err := s.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(events.sessions) != 2 {
		t.Errorf("session events = %d, want 2", len(events.sessions))
	}
}

func TestStudyFinishBeforeStart(t *testing.T) {
	s := New(Options{Items: &fakeItems{}, Events: &fakeEvents{}})
	sum, err := s.Finish(context.Background())
	if sum != nil || err != nil {
		t.Errorf("Finish() = %v, %v; want nil, nil", sum, err)
	}
}

func TestStudyHeaderAndHints(t *testing.T) {
	s := startScreen(t, newItems("a", "1", "b", "2"), &fakeEvents{}, false, 2)

	if s.Title() != "Study · spanish" {
		t.Errorf("Title = %q", s.Title())
	}
	if !strings.Contains(s.HeaderStatus(), "0/2") {
		t.Errorf("HeaderStatus = %q, want 0/2 progress", s.HeaderStatus())
	}
	if hints := s.KeyHints(); len(hints) != 2 || hints[0].Key != "Space" {
		t.Errorf("front hints = %+v", hints)
	}

	press(s, "space")
	if hints := s.KeyHints(); len(hints) != 5 {
		t.Errorf("rating hints = %+v, want 4 ratings and quit", hints)
	}

	press(s, "2")
	if !strings.Contains(s.HeaderStatus(), "1/2") {
		t.Errorf("HeaderStatus = %q, want 1/2 progress", s.HeaderStatus())
	}
}
