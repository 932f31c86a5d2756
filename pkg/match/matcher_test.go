package match

import (
	"testing"
	"time"

	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type matcherFixture struct {
	matcher       *Matcher
	notifications *queue.InMemoryQueue
	scheduler     *scheduler.Scheduler
}

func newMatcherFixture(t *testing.T, arity int, cards []*Card, target string) *matcherFixture {
	t.Helper()
	f := &matcherFixture{
		notifications: queue.NewInMemoryQueue(128),
		scheduler:     scheduler.New(),
	}
	f.matcher = NewMatcher(NewMatcherOptions{
		Arity:         arity,
		Notifications: f.notifications,
		Scheduler:     f.scheduler,
	})
	require.NoError(t, f.matcher.Deal(cards, target))
	return f
}

func (f *matcherFixture) drain(t *testing.T) []interface{} {
	t.Helper()
	events, err := f.notifications.ReadAllMessages()
	require.NoError(t, err)
	return events
}

func pairBoard() []*Card {
	return []*Card{
		{ID: 1, GroupKey: "X"},
		{ID: 2, GroupKey: "X"},
		{ID: 3, GroupKey: "Y"},
		{ID: 4, GroupKey: "Y"},
	}
}

func faceOf(m *Matcher, id int) Face {
	for _, c := range m.Cards() {
		if c.ID == id {
			return c.Face
		}
	}
	return Face(255)
}

func countResolved(events []interface{}) int {
	count := 0
	for _, e := range events {
		if _, ok := e.(*MatchResolved); ok {
			count++
		}
	}
	return count
}

func TestMatcher_PairResolves(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "Y")

	assert.True(t, f.matcher.Reveal(1))
	assert.True(t, f.matcher.ClockArmed())
	assert.True(t, f.matcher.Reveal(2))

	assert.Equal(t, []interface{}{
		&CardRevealed{ID: 1},
		&CardRevealed{ID: 2},
		&MatchResolved{GroupKey: "X", IDs: []int{1, 2}},
	}, f.drain(t))
	assert.Equal(t, 2, f.matcher.Remaining())
	assert.False(t, f.matcher.ClockArmed())

	// the resolved pair holds the buffer until it is hidden
	assert.False(t, f.matcher.Reveal(3))

	f.scheduler.Update(DefaultHideDelay)
	assert.Equal(t, []interface{}{&CardsRemoved{IDs: []int{1, 2}}}, f.drain(t))
	assert.Empty(t, f.matcher.Pending())
	assert.Equal(t, FaceRemoved, faceOf(f.matcher, 1))
	assert.Equal(t, FaceRemoved, faceOf(f.matcher, 2))

	assert.True(t, f.matcher.Reveal(3))
}

func TestMatcher_MismatchFlipsBack(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")

	assert.True(t, f.matcher.Reveal(1))
	assert.True(t, f.matcher.Reveal(3))

	assert.Equal(t, []interface{}{
		&CardRevealed{ID: 1},
		&CardRevealed{ID: 3},
		&CardsMismatched{IDs: []int{1, 3}},
	}, f.drain(t))
	assert.Empty(t, f.matcher.Pending())
	assert.False(t, f.matcher.ClockArmed())
	assert.Equal(t, FaceUp, faceOf(f.matcher, 1))

	// still face up while waiting to flip back
	assert.False(t, f.matcher.Reveal(1))

	f.scheduler.Update(DefaultMismatchDelay)
	assert.Equal(t, []interface{}{&CardsFlippedBack{IDs: []int{1, 3}}}, f.drain(t))
	assert.Equal(t, FaceDown, faceOf(f.matcher, 1))
	assert.Equal(t, FaceDown, faceOf(f.matcher, 3))
	assert.Equal(t, 4, f.matcher.Remaining())
}

func TestMatcher_TimeoutResetsSingleCard(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")

	require.True(t, f.matcher.Reveal(1))
	f.drain(t)

	f.scheduler.Update(DefaultTimeout - time.Millisecond)
	assert.Empty(t, f.drain(t))
	assert.Equal(t, []int{1}, f.matcher.Pending())

	f.scheduler.Update(time.Millisecond)
	events := f.drain(t)
	assert.Equal(t, []interface{}{&CardsFlippedBack{IDs: []int{1}}}, events)
	assert.Equal(t, 0, countResolved(events))
	assert.Empty(t, f.matcher.Pending())
	assert.False(t, f.matcher.ClockArmed())
	assert.Equal(t, FaceDown, faceOf(f.matcher, 1))
}

func TestMatcher_MismatchDisarmsClock(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")

	require.True(t, f.matcher.Reveal(1))
	f.scheduler.Update(2 * time.Second)
	require.True(t, f.matcher.Reveal(3))
	f.scheduler.Update(500 * time.Millisecond)
	require.True(t, f.matcher.Reveal(2))
	f.drain(t)

	// the first clock would have expired here
	f.scheduler.Update(time.Second)
	assert.Equal(t, []interface{}{&CardsFlippedBack{IDs: []int{1, 3}}}, f.drain(t))
	assert.Equal(t, []int{2}, f.matcher.Pending())

	f.scheduler.Update(2 * time.Second)
	assert.Equal(t, []interface{}{&CardsFlippedBack{IDs: []int{2}}}, f.drain(t))
}

func TestMatcher_Outcome(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   interface{}
	}{
		{name: "last group is the target", target: "Y", want: &GameWon{GroupKey: "Y"}},
		{name: "last group is not the target", target: "X", want: &GameLost{GroupKey: "Y", Target: "X"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMatcherFixture(t, 2, pairBoard(), tt.target)

			require.True(t, f.matcher.Reveal(1))
			require.True(t, f.matcher.Reveal(2))
			f.scheduler.Update(DefaultHideDelay)
			require.True(t, f.matcher.Reveal(3))
			require.True(t, f.matcher.Reveal(4))
			f.drain(t)

			f.scheduler.Update(DefaultHideDelay)
			assert.Equal(t, []interface{}{
				&CardsRemoved{IDs: []int{3, 4}},
				tt.want,
			}, f.drain(t))
			assert.True(t, f.matcher.Finished())
			assert.Equal(t, 0, f.matcher.Remaining())
			assert.False(t, f.matcher.Reveal(1))
		})
	}
}

func TestMatcher_ArityThree(t *testing.T) {
	cards := []*Card{
		{ID: 1, GroupKey: "X"}, {ID: 2, GroupKey: "X"}, {ID: 3, GroupKey: "X"},
		{ID: 4, GroupKey: "Y"}, {ID: 5, GroupKey: "Y"}, {ID: 6, GroupKey: "Y"},
	}
	f := newMatcherFixture(t, 3, cards, "X")
	assert.Equal(t, 3, f.matcher.Arity())

	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(2))
	assert.Equal(t, 0, countResolved(f.drain(t)))
	assert.Equal(t, []int{1, 2}, f.matcher.Pending())

	require.True(t, f.matcher.Reveal(4))
	assert.Equal(t, []interface{}{
		&CardRevealed{ID: 4},
		&CardsMismatched{IDs: []int{1, 2, 4}},
	}, f.drain(t))

	f.scheduler.Update(DefaultMismatchDelay)
	f.drain(t)

	require.True(t, f.matcher.Reveal(3))
	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(2))
	events := f.drain(t)
	assert.Equal(t, 1, countResolved(events))
	assert.Contains(t, events, &MatchResolved{GroupKey: "X", IDs: []int{3, 1, 2}})
	assert.Equal(t, 3, f.matcher.Remaining())
}

func TestMatcher_DifferentKeysNeverResolve(t *testing.T) {
	boards := [][]int{{1, 3}, {3, 1}, {2, 4}, {4, 1}}
	for _, ids := range boards {
		f := newMatcherFixture(t, 2, pairBoard(), "X")
		for _, id := range ids {
			f.matcher.Reveal(id)
		}
		f.scheduler.Update(10 * time.Second)
		assert.Equal(t, 0, countResolved(f.drain(t)), "reveals %v", ids)
		assert.Equal(t, 4, f.matcher.Remaining())
	}
}

func TestMatcher_ResetMatcherIsIdempotent(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")
	require.True(t, f.matcher.Reveal(1))

	f.matcher.ResetMatcher()
	assert.Empty(t, f.matcher.Pending())
	assert.False(t, f.matcher.ClockArmed())

	f.matcher.ResetMatcher()
	assert.Empty(t, f.matcher.Pending())
	assert.False(t, f.matcher.ClockArmed())

	f.drain(t)
	f.scheduler.Update(DefaultTimeout)
	assert.Empty(t, f.drain(t))
}

func TestMatcher_ResetDuringHideDelay(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "Y")
	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(2))
	f.drain(t)

	f.matcher.ResetMatcher()
	assert.Equal(t, []interface{}{&CardsRemoved{IDs: []int{1, 2}}}, f.drain(t))
	assert.Equal(t, FaceRemoved, faceOf(f.matcher, 1))
	assert.Equal(t, 0, f.scheduler.Pending())

	require.True(t, f.matcher.Reveal(3))
	assert.Equal(t, []int{3}, f.matcher.Pending())

	// the hide delay of the first pair must not touch the new reveal
	f.scheduler.Update(DefaultHideDelay)
	assert.Equal(t, []int{3}, f.matcher.Pending())
	assert.True(t, f.matcher.ClockArmed())
	f.drain(t)

	require.True(t, f.matcher.Reveal(4))
	f.scheduler.Update(DefaultHideDelay)
	assert.Equal(t, []interface{}{
		&MatchResolved{GroupKey: "Y", IDs: []int{3, 4}},
		&CardsRemoved{IDs: []int{3, 4}},
		&GameWon{GroupKey: "Y"},
	}, f.drain(t)[1:])
	assert.True(t, f.matcher.Finished())
}

func TestMatcher_ResetDuringHideDelayFinishesBoard(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")
	require.True(t, f.matcher.Reveal(3))
	require.True(t, f.matcher.Reveal(4))
	f.scheduler.Update(DefaultHideDelay)
	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(2))
	f.drain(t)

	f.matcher.ResetMatcher()
	assert.Equal(t, []interface{}{
		&CardsRemoved{IDs: []int{1, 2}},
		&GameWon{GroupKey: "X"},
	}, f.drain(t))

	f.scheduler.Update(10 * time.Second)
	assert.Empty(t, f.drain(t))
}

func TestMatcher_FlipBackRunsOnce(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")
	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(3))
	f.drain(t)

	f.scheduler.Update(DefaultMismatchDelay - time.Millisecond)
	assert.False(t, f.matcher.Reveal(3))
	f.scheduler.Update(time.Millisecond)
	assert.Equal(t, []interface{}{&CardsFlippedBack{IDs: []int{1, 3}}}, f.drain(t))

	// revealed again after the flip-back, the card stays up until its own timeout
	require.True(t, f.matcher.Reveal(3))
	f.scheduler.Update(DefaultMismatchDelay)
	assert.Equal(t, []interface{}{&CardRevealed{ID: 3}}, f.drain(t))
	assert.Equal(t, FaceUp, faceOf(f.matcher, 3))
	assert.Equal(t, []int{3}, f.matcher.Pending())
}

func TestMatcher_StopIgnoresReveals(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")

	f.matcher.Stop()
	assert.True(t, f.matcher.Stopped())
	assert.False(t, f.matcher.Reveal(1))
	assert.Empty(t, f.drain(t))

	f.matcher.Resume()
	assert.True(t, f.matcher.Reveal(1))
	assert.False(t, f.matcher.Reveal(99))
}

func TestMatcher_DealCancelsStaleCallbacks(t *testing.T) {
	f := newMatcherFixture(t, 2, pairBoard(), "X")
	require.True(t, f.matcher.Reveal(1))
	require.True(t, f.matcher.Reveal(3))
	f.drain(t)

	require.NoError(t, f.matcher.Deal(pairBoard(), "Y"))
	f.scheduler.Update(10 * time.Second)

	assert.Empty(t, f.drain(t))
	assert.Equal(t, 0, f.scheduler.Pending())
	for _, c := range f.matcher.Cards() {
		assert.Equal(t, FaceDown, c.Face)
	}
	assert.Equal(t, "Y", f.matcher.Target())
}

func TestMatcher_DealValidation(t *testing.T) {
	m := NewMatcher(NewMatcherOptions{})
	assert.Equal(t, DefaultArity, m.Arity())

	tests := []struct {
		name   string
		cards  []*Card
		target string
	}{
		{
			name:   "duplicate id",
			cards:  []*Card{{ID: 1, GroupKey: "X"}, {ID: 1, GroupKey: "X"}},
			target: "X",
		},
		{
			name:   "incomplete group",
			cards:  []*Card{{ID: 1, GroupKey: "X"}, {ID: 2, GroupKey: "X"}, {ID: 3, GroupKey: "Y"}},
			target: "X",
		},
		{
			name:   "target not on board",
			cards:  pairBoard(),
			target: "Z",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, m.Deal(tt.cards, tt.target))
		})
	}
}
