package session

import "github.com/abhisek/recall/internal/spacedrep"

// Phase represents the current phase of an assessment run.
type Phase int

const (
	PhaseInit      Phase = iota // Created, not yet started
	PhaseActive                 // Presenting items from the working set
	PhaseReplenish              // Working set exhausted, drawing more items
	PhaseComplete               // Terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseActive:
		return "active"
	case PhaseReplenish:
		return "replenish"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// State tracks the runtime state of one assessment run. It is owned by a
// single Composer and never shared.
type State struct {
	// Phase is the current state machine phase.
	Phase Phase

	// Target is the number of items the run intends to present.
	Target int

	// Queue is the ordered working set. Items before Cursor have been presented.
	Queue []spacedrep.Item

	// Cursor is the index of the item currently being presented.
	Cursor int

	// Presented, Correct and Incorrect count answers so far.
	Presented int
	Correct   int
	Incorrect int

	// AnsweredCorrectly and AnsweredIncorrectly record item ids by outcome.
	// Membership is additive: ids are never removed, and one id may be in both.
	AnsweredCorrectly   *idSet
	AnsweredIncorrectly *idSet

	// Replenishments counts how many times the working set was extended.
	Replenishments int

	// Underflow is set when replenishment found nothing to draw.
	Underflow bool
}

func newState(target int) *State {
	return &State{
		Phase:               PhaseInit,
		Target:              target,
		AnsweredCorrectly:   newIDSet(),
		AnsweredIncorrectly: newIDSet(),
	}
}

// idSet is an insertion-ordered set of item ids.
type idSet struct {
	ids  []string
	seen map[string]bool
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

// Add inserts id and reports whether it was newly added.
func (s *idSet) Add(id string) bool {
	if s.seen[id] {
		return false
	}
	s.seen[id] = true
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is in the set.
func (s *idSet) Has(id string) bool {
	return s.seen[id]
}

// Len returns the number of ids.
func (s *idSet) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the ids in insertion order.
func (s *idSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
