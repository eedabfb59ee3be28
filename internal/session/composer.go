package session

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/abhisek/recall/internal/spacedrep"
)

var (
	// ErrEmptyPool is returned when a run is started without any items.
	ErrEmptyPool = errors.New("session: empty item pool")

	// ErrNotStarted is returned when answering before Start.
	ErrNotStarted = errors.New("session: not started")

	// ErrSessionComplete is returned when answering after the run completed.
	ErrSessionComplete = errors.New("session: already complete")
)

// Composer owns one adaptive assessment run. It picks the initial working set
// by priority, then extends it from the run's correctness history when the
// target exceeds what the pool provides. It is not safe for concurrent use.
type Composer struct {
	state *State
	pool  []spacedrep.Item
	byID  map[string]spacedrep.Item
	rng   *rand.Rand
}

// Option configures a Composer.
type Option func(*Composer)

// WithRand sets the random source used for shuffling.
func WithRand(r *rand.Rand) Option {
	return func(c *Composer) { c.rng = r }
}

// WithSeed seeds a private random source, making shuffles reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Composer) { c.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// NewComposer creates a composer in the init phase.
func NewComposer(opts ...Option) *Composer {
	c := &Composer{state: newState(0)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start selects the working set. A target of zero or less means the pool size.
// When the target fits in the pool, the target highest-priority items are
// taken and shuffled; otherwise the whole pool is shuffled and the deficit is
// filled later by replenishment.
func (c *Composer) Start(pool []spacedrep.Item, target int, now time.Time) error {
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	if target <= 0 {
		target = len(pool)
	}

	c.pool = make([]spacedrep.Item, len(pool))
	copy(c.pool, pool)
	c.byID = make(map[string]spacedrep.Item, len(pool))
	for _, it := range pool {
		c.byID[it.ID] = it
	}

	var working []spacedrep.Item
	if target <= len(pool) {
		working = spacedrep.TopN(pool, target, now)
	} else {
		working = make([]spacedrep.Item, len(pool))
		copy(working, pool)
	}
	c.shuffle(working)

	c.state = newState(target)
	c.state.Queue = working
	c.state.Phase = PhaseActive
	return nil
}

// Current returns the item being presented, and false when nothing is.
func (c *Composer) Current() (spacedrep.Item, bool) {
	s := c.state
	if s.Phase != PhaseActive || s.Cursor >= len(s.Queue) {
		return spacedrep.Item{}, false
	}
	return s.Queue[s.Cursor], true
}

// SubmitAnswer records the outcome for the current item and advances. It may
// replenish the working set or complete the run.
func (c *Composer) SubmitAnswer(correct bool) error {
	s := c.state
	switch s.Phase {
	case PhaseInit:
		return ErrNotStarted
	case PhaseComplete:
		return ErrSessionComplete
	}

	item, ok := c.Current()
	if !ok {
		c.complete()
		return ErrSessionComplete
	}

	if correct {
		s.AnsweredCorrectly.Add(item.ID)
		s.Correct++
	} else {
		s.AnsweredIncorrectly.Add(item.ID)
		s.Incorrect++
	}
	s.Presented++
	s.Cursor++

	if s.Presented >= s.Target {
		c.complete()
		return nil
	}
	if s.Cursor >= len(s.Queue) {
		c.replenish()
	}
	return nil
}

// Refresh replaces the composer's copy of an item, typically after the caller
// persisted a new schedule. Pending queue entries and future draws use it.
func (c *Composer) Refresh(item spacedrep.Item) {
	if _, ok := c.byID[item.ID]; !ok {
		return
	}
	c.byID[item.ID] = item
	for i := range c.pool {
		if c.pool[i].ID == item.ID {
			c.pool[i] = item
		}
	}
	for i := c.state.Cursor; i < len(c.state.Queue); i++ {
		if c.state.Queue[i].ID == item.ID {
			c.state.Queue[i] = item
		}
	}
}

// IsComplete reports whether the run reached its terminal phase.
func (c *Composer) IsComplete() bool {
	return c.state.Phase == PhaseComplete
}

// Phase returns the current phase.
func (c *Composer) Phase() Phase {
	return c.state.Phase
}

// Remaining returns how many more items the run intends to present.
func (c *Composer) Remaining() int {
	if c.state.Phase == PhaseComplete {
		return 0
	}
	return c.state.Target - c.state.Presented
}

// Results returns the run's counters.
func (c *Composer) Results() Results {
	s := c.state
	return Results{
		Target:         s.Target,
		Presented:      s.Presented,
		Correct:        s.Correct,
		Incorrect:      s.Incorrect,
		Replenishments: s.Replenishments,
		Underflow:      s.Underflow,
	}
}

// replenish extends the queue by the remaining deficit or ends the run when
// there is nothing to draw from.
func (c *Composer) replenish() {
	s := c.state
	s.Phase = PhaseReplenish

	deficit := s.Target - s.Presented
	drawn := c.draw(deficit)
	if len(drawn) == 0 {
		s.Underflow = true
		c.complete()
		return
	}

	c.shuffle(drawn)
	s.Queue = append(s.Queue, drawn...)
	s.Replenishments++
	s.Phase = PhaseActive
}

// draw picks deficit items: three quarters (rounded up) cycled from the missed
// set and the rest cycled from the known set. A missing side hands its share
// to the other; with no history at all the original pool is cycled.
func (c *Composer) draw(deficit int) []spacedrep.Item {
	missed := c.lookup(c.state.AnsweredIncorrectly.IDs())
	known := c.lookup(c.state.AnsweredCorrectly.IDs())

	switch {
	case len(missed) == 0 && len(known) == 0:
		return cycle(c.pool, deficit)
	case len(missed) == 0:
		return cycle(known, deficit)
	case len(known) == 0:
		return cycle(missed, deficit)
	}

	n := incorrectShare(deficit)
	out := cycle(missed, n)
	return append(out, cycle(known, deficit-n)...)
}

func (c *Composer) lookup(ids []string) []spacedrep.Item {
	out := make([]spacedrep.Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func (c *Composer) shuffle(items []spacedrep.Item) {
	swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
	if c.rng != nil {
		c.rng.Shuffle(len(items), swap)
		return
	}
	rand.Shuffle(len(items), swap)
}

func (c *Composer) complete() {
	c.state.Phase = PhaseComplete
}
