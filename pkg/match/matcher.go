package match

import (
	"fmt"
	"time"

	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/scheduler"
)

const (
	DefaultArity         = 2
	DefaultTimeout       = 3 * time.Second
	DefaultMismatchDelay = 700 * time.Millisecond
	DefaultHideDelay     = time.Second
)

// Matcher resolves revealed cards into matches. It is not safe for concurrent
// use; all calls and all scheduler updates must come from the same goroutine.
type Matcher struct {
	arity         int
	timeout       time.Duration
	mismatchDelay time.Duration
	hideDelay     time.Duration
	notifications queue.Queue
	scheduler     *scheduler.Scheduler

	board     []*Card
	cards     map[int]*Card
	target    string
	pending   []*Card
	remaining int
	clock     *scheduler.Handle
	hide      *scheduler.Handle
	hiding    []*Card
	delayed   []*scheduler.Handle
	stopped   bool
	finished  bool
}

// NewMatcherOptions contains options for creating a new Matcher.
// Zero values are replaced by the defaults.
type NewMatcherOptions struct {
	Arity         int
	Timeout       time.Duration
	MismatchDelay time.Duration
	HideDelay     time.Duration
	Notifications queue.Queue
	Scheduler     *scheduler.Scheduler
}

func NewMatcher(opts NewMatcherOptions) *Matcher {
	m := &Matcher{
		arity:         opts.Arity,
		timeout:       opts.Timeout,
		mismatchDelay: opts.MismatchDelay,
		hideDelay:     opts.HideDelay,
		notifications: opts.Notifications,
		scheduler:     opts.Scheduler,
		cards:         make(map[int]*Card),
	}
	if m.arity < 2 {
		m.arity = DefaultArity
	}
	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	if m.mismatchDelay <= 0 {
		m.mismatchDelay = DefaultMismatchDelay
	}
	if m.hideDelay <= 0 {
		m.hideDelay = DefaultHideDelay
	}
	if m.scheduler == nil {
		m.scheduler = scheduler.New()
	}
	return m
}

// Deal replaces the board. Every group must hold a multiple of the match arity
// and the target must be one of the group keys. Callbacks left over from the
// previous board are cancelled.
func (m *Matcher) Deal(cards []*Card, target string) error {
	groups := make(map[string]int)
	ids := make(map[int]bool)
	for _, c := range cards {
		if ids[c.ID] {
			return fmt.Errorf("duplicate card id %d", c.ID)
		}
		ids[c.ID] = true
		groups[c.GroupKey]++
	}
	for key, count := range groups {
		if count%m.arity != 0 {
			return fmt.Errorf("group %s has %d cards, not a multiple of %d", key, count, m.arity)
		}
	}
	if _, ok := groups[target]; !ok {
		return fmt.Errorf("target %s is not on the board", target)
	}

	m.cancelDelayed()
	m.ResetMatcher()

	m.board = make([]*Card, 0, len(cards))
	m.cards = make(map[int]*Card, len(cards))
	for _, c := range cards {
		card := &Card{ID: c.ID, GroupKey: c.GroupKey, Face: FaceDown}
		m.board = append(m.board, card)
		m.cards[card.ID] = card
	}
	m.target = target
	m.remaining = len(cards)
	m.stopped = false
	m.finished = false

	return nil
}

// Reveal turns a card face up. It reports false when the reveal was ignored:
// the pending buffer is full, the matcher is stopped or finished, or the card
// is unknown or not face down.
func (m *Matcher) Reveal(id int) bool {
	if m.stopped || m.finished || len(m.pending) >= m.arity {
		return false
	}
	card, ok := m.cards[id]
	if !ok || card.Face != FaceDown {
		return false
	}

	card.Face = FaceUp
	m.emit(&CardRevealed{ID: card.ID})

	if len(m.pending) == 0 {
		m.pending = append(m.pending, card)
		m.armClock()
		return true
	}

	if card.GroupKey == m.pending[0].GroupKey {
		m.pending = append(m.pending, card)
		if len(m.pending) == m.arity {
			m.resolve()
		}
		return true
	}

	mismatched := make([]*Card, 0, len(m.pending)+1)
	mismatched = append(mismatched, m.pending...)
	mismatched = append(mismatched, card)
	m.ResetMatcher()
	m.flipBackAfter(mismatched, m.mismatchDelay)
	m.emit(&CardsMismatched{IDs: cardIDs(mismatched)})
	return true
}

// ResetMatcher clears the pending buffer and disarms the timeout clock. A
// resolved match still waiting to be hidden is removed right away.
func (m *Matcher) ResetMatcher() {
	m.pending = nil
	m.clock.Cancel()
	m.clock = nil
	if m.hide.Active() {
		m.hide.Cancel()
		m.removeHidden()
	}
}

// Stop ignores reveals until Resume is called.
func (m *Matcher) Stop() {
	m.stopped = true
}

func (m *Matcher) Resume() {
	m.stopped = false
}

func (m *Matcher) Stopped() bool {
	return m.stopped
}

// Finished reports whether every card has been removed.
func (m *Matcher) Finished() bool {
	return m.finished
}

// Remaining returns the number of cards still on the board.
func (m *Matcher) Remaining() int {
	return m.remaining
}

func (m *Matcher) Target() string {
	return m.target
}

func (m *Matcher) Arity() int {
	return m.arity
}

// ClockArmed reports whether the timeout clock is running.
func (m *Matcher) ClockArmed() bool {
	return m.clock.Active()
}

// Pending returns the ids of the unresolved face-up cards.
func (m *Matcher) Pending() []int {
	return cardIDs(m.pending)
}

// Cards returns a copy of the board in deal order.
func (m *Matcher) Cards() []Card {
	out := make([]Card, 0, len(m.board))
	for _, c := range m.board {
		out = append(out, *c)
	}
	return out
}

func (m *Matcher) armClock() {
	m.clock.Cancel()
	m.clock = m.scheduler.After(m.timeout, m.expire)
}

func (m *Matcher) expire() {
	m.clock = nil
	if len(m.pending) == 0 || len(m.pending) >= m.arity {
		return
	}

	flipped := make([]int, 0, len(m.pending))
	for _, c := range m.pending {
		if c.Face == FaceUp {
			c.Face = FaceDown
			flipped = append(flipped, c.ID)
		}
	}
	m.ResetMatcher()
	log.Trace("Timed out waiting for a match, flipped back %v", flipped)
	m.emit(&CardsFlippedBack{IDs: flipped})
}

func (m *Matcher) resolve() {
	matched := make([]*Card, len(m.pending))
	copy(matched, m.pending)
	groupKey := matched[0].GroupKey

	m.remaining -= len(matched)
	m.clock.Cancel()
	m.clock = nil
	m.emit(&MatchResolved{
		GroupKey: groupKey,
		IDs:      cardIDs(matched),
	})

	m.hiding = matched
	m.hide = m.scheduler.After(m.hideDelay, m.removeHidden)
}

// removeHidden takes the resolved cards off the board and reports the outcome
// once the board is empty.
func (m *Matcher) removeHidden() {
	matched := m.hiding
	m.hide = nil
	m.hiding = nil
	if len(matched) == 0 {
		return
	}

	removed := make([]int, 0, len(matched))
	for _, c := range matched {
		if c.Face == FaceUp {
			c.Face = FaceRemoved
			removed = append(removed, c.ID)
		}
	}
	if m.isPending(matched[0]) {
		m.pending = nil
	}
	m.emit(&CardsRemoved{IDs: removed})

	if m.remaining == 0 {
		m.finish(matched[0].GroupKey)
	}
}

// finish reports exactly one outcome: the game is won when the last group
// matched is the target group.
func (m *Matcher) finish(groupKey string) {
	m.finished = true
	if groupKey == m.target {
		log.Debug("Board cleared on target %s", groupKey)
		m.emit(&GameWon{GroupKey: groupKey})
		return
	}
	log.Debug("Board cleared on %s, target was %s", groupKey, m.target)
	m.emit(&GameLost{GroupKey: groupKey, Target: m.target})
}

func (m *Matcher) flipBackAfter(cards []*Card, delay time.Duration) {
	m.track(m.scheduler.After(delay, func() {
		flipped := make([]int, 0, len(cards))
		for _, c := range cards {
			if c.Face != FaceUp || m.isPending(c) {
				continue
			}
			c.Face = FaceDown
			flipped = append(flipped, c.ID)
		}
		if len(flipped) > 0 {
			m.emit(&CardsFlippedBack{IDs: flipped})
		}
	}))
}

func (m *Matcher) isPending(card *Card) bool {
	for _, c := range m.pending {
		if c == card {
			return true
		}
	}
	return false
}

func (m *Matcher) track(h *scheduler.Handle) {
	active := m.delayed[:0]
	for _, d := range m.delayed {
		if d.Active() {
			active = append(active, d)
		}
	}
	m.delayed = append(active, h)
}

func (m *Matcher) cancelDelayed() {
	for _, h := range m.delayed {
		h.Cancel()
	}
	m.delayed = nil
	m.hide.Cancel()
	m.hide = nil
	m.hiding = nil
}

func (m *Matcher) emit(event interface{}) {
	if m.notifications == nil {
		return
	}
	if err := m.notifications.Enqueue(event); err != nil {
		log.Error("Failed to enqueue %T notification: %v", event, err)
	}
}
