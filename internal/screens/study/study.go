package study

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/recall/internal/router"
	"github.com/abhisek/recall/internal/screen"
	"github.com/abhisek/recall/internal/screens/summary"
	"github.com/abhisek/recall/internal/session"
	"github.com/abhisek/recall/internal/spacedrep"
	"github.com/abhisek/recall/internal/store"
	"github.com/abhisek/recall/internal/ui/components"
	"github.com/abhisek/recall/internal/ui/layout"
)

// Options wires the study screen to storage.
type Options struct {
	Items          session.ItemStore
	Events         session.EventLog
	Recorder       session.Recorder
	CollectionID   string
	CollectionName string
	Target         int
	Seed           uint64
	Typed          bool
	Clock          func() time.Time
}

// StudyScreen runs one study session. In flashcard mode Space reveals the
// answer and 1-4 rate recall; in typed mode the learner types the answer.
type StudyScreen struct {
	opts   Options
	runner *session.Runner
	input  components.TextInput

	current  store.Item
	shownAt  time.Time
	revealed bool

	// Typed-mode feedback for the item just answered.
	showingFeedback bool
	lastItem        store.Item
	lastCorrect     bool

	showingQuitConfirm bool
	errMsg             string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.StatusProvider = (*StudyScreen)(nil)

// New creates a StudyScreen. The session starts when the screen initializes.
func New(opts Options) *StudyScreen {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &StudyScreen{
		opts:  opts,
		input: components.NewTextInput("Type the answer...", 200),
	}
}

func (s *StudyScreen) Init() tea.Cmd {
	cmds := []tea.Cmd{s.startSession()}
	if s.opts.Typed {
		cmds = append(cmds, s.input.Init())
	}
	return tea.Batch(cmds...)
}

func (s *StudyScreen) Title() string {
	if s.opts.CollectionName != "" {
		return "Study · " + s.opts.CollectionName
	}
	return "Study"
}

// HeaderStatus reports progress through the run.
func (s *StudyScreen) HeaderStatus() string {
	if s.runner == nil {
		return ""
	}
	return progressLine(s.runner.Results())
}

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "" || s.runner == nil:
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.showingFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.opts.Typed:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	case !s.revealed:
		return []layout.KeyHint{
			{Key: "Space", Description: "Reveal"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{
			{Key: "1", Description: "Again"},
			{Key: "2", Description: "Hard"},
			{Key: "3", Description: "Good"},
			{Key: "4", Description: "Easy"},
			{Key: "Esc", Description: "Quit"},
		}
	}
}

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.runner == nil {
		return renderLoading(width)
	}
	if s.showingQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.showingFeedback {
		return s.renderFeedback(width)
	}
	return s.renderCard(width, height)
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case runnerReadyMsg:
		return s.handleReady(msg)

	case sessionEndMsg:
		return s.handleSessionEnd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.inputActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// Finish records the session end if it has not been recorded yet. Callers use
// it after the program exits so an interrupted run is still logged.
func (s *StudyScreen) Finish(ctx context.Context) (*session.Summary, error) {
	if s.runner == nil {
		return nil, nil
	}
	return s.runner.Finish(ctx)
}

// startSession composes the working set off the update loop.
func (s *StudyScreen) startSession() tea.Cmd {
	opts := s.opts
	return func() tea.Msg {
		r, err := session.NewRunner(context.Background(), opts.Items, opts.Events, opts.CollectionID, session.RunnerOptions{
			Target:   opts.Target,
			Seed:     opts.Seed,
			Clock:    opts.Clock,
			Recorder: opts.Recorder,
		})
		return runnerReadyMsg{Runner: r, Err: err}
	}
}

func (s *StudyScreen) handleReady(msg runnerReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, session.ErrEmptyPool) {
			s.errMsg = "This collection has no items yet. Add some with `recall item add`."
		} else {
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}
	s.runner = msg.Runner
	s.showCurrent()
	return s, nil
}

func (s *StudyScreen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	sum, err := s.runner.Finish(context.Background())
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error or loading state: any key exits.
	if s.errMsg != "" {
		return s, tea.Quit
	}
	if s.runner == nil {
		return s, nil
	}

	if s.showingQuitConfirm {
		switch key {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, endSession
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.showingFeedback {
		s.showingFeedback = false
		return s.advance()
	}

	if key == "esc" {
		s.showingQuitConfirm = true
		return s, nil
	}

	if s.opts.Typed {
		if key == "enter" {
			return s.submitTyped()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if !s.revealed {
		switch key {
		case "space", "enter":
			s.revealed = true
		}
		return s, nil
	}

	switch key {
	case "1", "2", "3", "4":
		return s.rate(int(key[0] - '0'))
	}
	return s, nil
}

// rate applies a simplified 1-4 rating. Again counts as incorrect.
func (s *StudyScreen) rate(rating int) (screen.Screen, tea.Cmd) {
	correct := rating != spacedrep.RatingAgain
	if err := s.answer(correct, spacedrep.FromSimpleRating(rating)); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	return s.advance()
}

func (s *StudyScreen) submitTyped() (screen.Screen, tea.Cmd) {
	if s.input.Submitted() {
		return s, nil
	}
	correct := components.MatchAnswer(s.input.Value(), s.current.Answer)
	s.input.Submit(correct)

	s.lastItem = s.current
	s.lastCorrect = correct
	if err := s.answer(correct, session.QualityUnset); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.showingFeedback = true
	return s, nil
}

func (s *StudyScreen) answer(correct bool, quality int) error {
	spent := s.opts.Clock().Sub(s.shownAt)
	_, err := s.runner.Answer(context.Background(), correct, quality, spent)
	return err
}

// advance moves to the next item or ends the run.
func (s *StudyScreen) advance() (screen.Screen, tea.Cmd) {
	if s.runner.IsComplete() {
		return s, endSession
	}
	s.showCurrent()
	return s, nil
}

func (s *StudyScreen) showCurrent() {
	s.current, _ = s.runner.Current()
	s.shownAt = s.opts.Clock()
	s.revealed = false
	s.input.Reset()
}

func (s *StudyScreen) inputActive() bool {
	return s.opts.Typed && s.runner != nil && !s.showingFeedback && !s.showingQuitConfirm && s.errMsg == ""
}

func endSession() tea.Msg {
	return sessionEndMsg{}
}
