// Package scheduler implements the priority-ordered screen list and the
// per-frame tick that selects, preempts and autorotates the current screen
// (spec section 4.3).
package scheduler

import "github.com/lcdd/lcdd/internal/lcdd/screen"

// Notifier delivers the listen/ignore transition lines to a screen's
// owning client (spec section 4.3, switch_to). A screen with ClientID 0
// (server-owned, no owning client) is simply never notified; Scheduler
// doesn't need to know which ids are real clients.
type Notifier interface {
	Notify(clientID uint64, line string)
}

// Destroyer removes an expired screen from wherever else it is tracked
// (its owning client's screen set, the input table's per-screen key
// reservations) once the scheduler has decided to destroy it.
type Destroyer interface {
	DestroyScreen(s *screen.Screen)
}

// Scheduler holds the process-wide screen list (spec section 3: "the
// global Screen list") and the autorotate/frame-counter state the tick
// procedure needs.
type Scheduler struct {
	screens   []*screen.Screen
	current   *screen.Screen
	startedAt uint32

	frame uint32 // monotonic frame_counter, 32-bit wraparound is intentional

	Autorotate bool

	notify  Notifier
	destroy Destroyer
}

// New creates a Scheduler with autorotate enabled, matching LCDd's default.
func New(notify Notifier, destroy Destroyer) *Scheduler {
	return &Scheduler{Autorotate: true, notify: notify, destroy: destroy}
}

// Add appends a screen to the scheduling list in insertion order (spec
// section 4.3: "priority class (descending), with... insertion order").
// The list itself is kept in insertion order rather than sorted by
// priority, since a screen's priority can change after insertion via
// screen_set — head() scans for the highest priority on demand instead of
// relying on a sort that a later mutation would invalidate.
func (s *Scheduler) Add(scr *screen.Screen) {
	s.screens = append(s.screens, scr)
}

// Remove drops a screen from the list (spec section 4.3: "destroy the
// screen (which transitively removes it from the list)"). If it was the
// current screen, current_screen becomes unset; the next Tick will
// reselect.
func (s *Scheduler) Remove(scr *screen.Screen) {
	for i, existing := range s.screens {
		if existing == scr {
			s.screens = append(s.screens[:i], s.screens[i+1:]...)
			break
		}
	}
	if s.current == scr {
		s.current = nil
	}
}

// Current returns the screen currently selected for display, or nil.
func (s *Scheduler) Current() *screen.Screen { return s.current }

// Screens returns the global screen list in scheduling order. Used by
// the status API to build its read-only snapshot.
func (s *Scheduler) Screens() []*screen.Screen {
	out := make([]*screen.Screen, len(s.screens))
	copy(out, s.screens)
	return out
}

// Frame returns the current frame_counter value.
func (s *Scheduler) Frame() uint32 { return s.frame }

// rotatableLow and rotatableHigh bound the autorotate-eligible band "(
// BACKGROUND, FOREGROUND]" from spec section 4.3.
const (
	rotatableLow  = screen.Background
	rotatableHigh = screen.Foreground
)

// Tick runs one scheduler step (spec section 4.3), to be called once per
// frame after command dispatch and before render. It advances frame by
// one as part of running the step.
func (s *Scheduler) Tick() {
	s.frame++

	if len(s.screens) == 0 {
		s.current = nil
		return
	}

	if s.current == nil {
		s.switchTo(s.head())
		return
	}

	if s.current.Timeout != screen.NoTimeout {
		if s.current.TickTimeout() {
			expired := s.current
			s.Remove(expired)
			if s.destroy != nil {
				s.destroy.DestroyScreen(expired)
			}
			if len(s.screens) == 0 {
				s.current = nil
				return
			}
		}
	}

	head := s.head()
	if s.current == nil {
		s.switchTo(head)
		return
	}
	if head == nil {
		// every remaining screen is Hidden; nothing is displayable.
		s.switchTo(nil)
		return
	}
	if head.Priority > s.current.Priority {
		s.switchTo(head)
		return
	}

	if s.Autorotate && s.current.Priority > rotatableLow && s.current.Priority <= rotatableHigh {
		if s.frame-s.startedAt >= uint32(rotateThreshold(s.current.Duration)) {
			s.switchTo(s.nextInTier(s.current))
		}
	}
}

// rotateThreshold applies the boundary rule from spec section 8: "duration
// = 0 is treated as 'advance immediately' (one frame) when autorotating".
func rotateThreshold(duration int) int {
	if duration <= 0 {
		return 1
	}
	return duration
}

// head returns the highest-priority displayable screen in the list, the
// earliest inserted one winning ties (spec section 4.3: "if two screens
// share the highest priority, the one inserted earlier wins"). Screens at
// Hidden priority are never candidates (spec section 8: "the scheduler
// never selects a screen with priority HIDDEN"); if every screen is
// Hidden, head returns nil.
func (s *Scheduler) head() *screen.Screen {
	var best *screen.Screen
	for _, scr := range s.screens {
		if scr.Priority == screen.Hidden {
			continue
		}
		if best == nil || scr.Priority > best.Priority {
			best = scr
		}
	}
	return best
}

// nextInTier returns the next screen after cur within cur's priority tier,
// wrapping (spec section 4.3: "advance to the next screen at the same
// priority tier with wraparound within that tier only").
func (s *Scheduler) nextInTier(cur *screen.Screen) *screen.Screen {
	tier := s.tierOf(cur.Priority)
	for i, scr := range tier {
		if scr == cur {
			return tier[(i+1)%len(tier)]
		}
	}
	return cur
}

// prevInTier mirrors nextInTier for manual screen_goto prev.
func (s *Scheduler) prevInTier(cur *screen.Screen) *screen.Screen {
	tier := s.tierOf(cur.Priority)
	for i, scr := range tier {
		if scr == cur {
			return tier[(i-1+len(tier))%len(tier)]
		}
	}
	return cur
}

func (s *Scheduler) tierOf(p screen.Priority) []*screen.Screen {
	if p == screen.Hidden {
		return nil
	}
	var out []*screen.Screen
	for _, scr := range s.screens {
		if scr.Priority == p {
			out = append(out, scr)
		}
	}
	return out
}

// GotoNext implements manual `screen_goto next` (spec section 4.3):
// moves within the current tier only; it is a no-op if there is no
// current screen, or if the current screen has no siblings.
func (s *Scheduler) GotoNext() {
	if s.current == nil {
		return
	}
	s.switchTo(s.nextInTier(s.current))
}

// GotoPrev implements manual `screen_goto prev`.
func (s *Scheduler) GotoPrev() {
	if s.current == nil {
		return
	}
	s.switchTo(s.prevInTier(s.current))
}

// switchTo implements the switch_to procedure (spec section 4.3): ignore
// to the old client before listen to the new one, in that order, then
// reset current_screen_start_frame.
func (s *Scheduler) switchTo(next *screen.Screen) {
	if next == s.current {
		return
	}
	if s.current != nil && s.current.ClientID != 0 && s.notify != nil {
		s.notify.Notify(s.current.ClientID, "ignore "+s.current.ID)
	}
	s.current = next
	if next != nil && next.ClientID != 0 && s.notify != nil {
		s.notify.Notify(next.ClientID, "listen "+next.ID)
	}
	s.startedAt = s.frame
}
