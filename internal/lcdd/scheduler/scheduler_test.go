package scheduler_test

import (
	"testing"

	"github.com/lcdd/lcdd/internal/lcdd/scheduler"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	lines []string
}

func (f *fakeNotifier) Notify(clientID uint64, line string) {
	f.lines = append(f.lines, line)
}

type fakeDestroyer struct {
	destroyed []*screen.Screen
}

func (f *fakeDestroyer) DestroyScreen(s *screen.Screen) {
	f.destroyed = append(f.destroyed, s)
}

func TestTick_EmptyListClearsCurrent(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	sch.Tick()
	assert.Nil(t, sch.Current())
}

func TestTick_SelectsHighestPriorityWhenNoneCurrent(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	sch := scheduler.New(notifier, &fakeDestroyer{})

	low := screen.New("low", 1, 20, 4)
	low.Priority = screen.Info
	high := screen.New("high", 2, 20, 4)
	high.Priority = screen.Foreground

	sch.Add(low)
	sch.Add(high)
	sch.Tick()

	require.NotNil(t, sch.Current())
	assert.Equal(t, "high", sch.Current().ID)
	assert.Equal(t, []string{"listen high"}, notifier.lines)
}

func TestTick_StableOrderWithinSamePriority(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	first := screen.New("first", 1, 20, 4)
	second := screen.New("second", 2, 20, 4)
	sch.Add(first)
	sch.Add(second)
	sch.Tick()

	assert.Equal(t, "first", sch.Current().ID, "earlier insertion wins ties")
}

func TestSwitchTo_SendsIgnoreBeforeListen(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	sch := scheduler.New(notifier, &fakeDestroyer{})

	a := screen.New("a", 1, 20, 4)
	a.Priority = screen.Foreground
	sch.Add(a)
	sch.Tick() // selects a

	b := screen.New("b", 2, 20, 4)
	b.Priority = screen.Alert
	sch.Add(b)
	sch.Tick() // b preempts a

	require.Len(t, notifier.lines, 3)
	assert.Equal(t, []string{"listen a", "ignore a", "listen b"}, notifier.lines)
}

func TestTick_TimeoutExpiryDestroysAndReselects(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	destroyer := &fakeDestroyer{}
	sch := scheduler.New(notifier, destroyer)

	s := screen.New("s", 1, 20, 4)
	s.Priority = screen.Alert
	s.Timeout = 3
	sch.Add(s)

	fallback := screen.New("fallback", 2, 20, 4)
	fallback.Priority = screen.Info
	sch.Add(fallback)

	sch.Tick() // selects s (higher priority); timeout not yet ticked (current was unset)
	require.Equal(t, "s", sch.Current().ID)

	sch.Tick() // timeout 3 -> 2
	sch.Tick() // timeout 2 -> 1
	sch.Tick() // timeout 1 -> 0, expires; destroy; reselect fallback

	require.Len(t, destroyer.destroyed, 1)
	assert.Equal(t, "s", destroyer.destroyed[0].ID)
	require.NotNil(t, sch.Current())
	assert.Equal(t, "fallback", sch.Current().ID)
}

func TestTick_AutorotateAdvancesWithinTierOnDurationExpiry(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	a := screen.New("a", 1, 20, 4)
	a.Priority = screen.Foreground
	a.Duration = 2
	b := screen.New("b", 2, 20, 4)
	b.Priority = screen.Foreground
	b.Duration = 2

	sch.Add(a)
	sch.Add(b)

	sch.Tick() // selects a, start_frame = 1
	assert.Equal(t, "a", sch.Current().ID)

	sch.Tick() // frame 2, 2-1=1 < 2, stays
	assert.Equal(t, "a", sch.Current().ID)

	sch.Tick() // frame 3, 3-1=2 >= 2, rotates to b
	assert.Equal(t, "b", sch.Current().ID)
}

func TestTick_AutorotateDoesNotAffectAlert(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	s := screen.New("s", 1, 20, 4)
	s.Priority = screen.Alert
	s.Duration = 1
	sch.Add(s)

	for i := 0; i < 5; i++ {
		sch.Tick()
	}
	assert.Equal(t, "s", sch.Current().ID, "alert is outside the rotatable band")
}

func TestGotoNext_WrapsWithinTier(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	a := screen.New("a", 1, 20, 4)
	b := screen.New("b", 2, 20, 4)
	sch.Add(a)
	sch.Add(b)
	sch.Tick() // selects a

	sch.GotoNext()
	assert.Equal(t, "b", sch.Current().ID)

	sch.GotoNext()
	assert.Equal(t, "a", sch.Current().ID, "wraps back to the first screen in the tier")
}

func TestTick_NeverSelectsHiddenScreen(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	sch := scheduler.New(notifier, &fakeDestroyer{})

	s := screen.New("s", 1, 20, 4)
	s.Priority = screen.Hidden
	sch.Add(s)

	sch.Tick()

	assert.Nil(t, sch.Current(), "an all-Hidden list has nothing displayable")
	assert.Empty(t, notifier.lines, "a Hidden screen must never receive listen")
}

func TestTick_SkipsHiddenWhenPickingHead(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	sch := scheduler.New(notifier, &fakeDestroyer{})

	hidden := screen.New("hidden", 1, 20, 4)
	hidden.Priority = screen.Hidden
	visible := screen.New("visible", 2, 20, 4)
	visible.Priority = screen.Background

	sch.Add(hidden)
	sch.Add(visible)
	sch.Tick()

	require.NotNil(t, sch.Current())
	assert.Equal(t, "visible", sch.Current().ID, "Hidden screens are never scheduling candidates")
}

func TestTick_CurrentScreenTurningHiddenIsDeselected(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	sch := scheduler.New(notifier, &fakeDestroyer{})

	s := screen.New("s", 1, 20, 4)
	s.Priority = screen.Background
	sch.Add(s)
	sch.Tick()
	require.Equal(t, "s", sch.Current().ID)

	s.Priority = screen.Hidden
	sch.Tick()

	assert.Nil(t, sch.Current(), "a screen that becomes Hidden while selected must be deselected")
}

func TestRemove_ClearsCurrentIfItWasSelected(t *testing.T) {
	t.Parallel()

	sch := scheduler.New(&fakeNotifier{}, &fakeDestroyer{})
	a := screen.New("a", 1, 20, 4)
	sch.Add(a)
	sch.Tick()
	require.NotNil(t, sch.Current())

	sch.Remove(a)
	assert.Nil(t, sch.Current())
}
