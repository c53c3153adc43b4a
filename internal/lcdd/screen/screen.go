package screen

import (
	"github.com/jinzhu/copier"
	"github.com/lcdd/lcdd/internal/lcdd/protoerr"
)

// Priority is the ordered scheduling class from spec section 3:
// HIDDEN < BACKGROUND < INFO < FOREGROUND < ALERT < INPUT.
type Priority int

const (
	Hidden Priority = iota
	Background
	Info
	Foreground
	Alert
	Input
)

var priorityNames = map[string]Priority{
	"hidden":     Hidden,
	"background": Background,
	"info":       Info,
	"foreground": Foreground,
	"alert":      Alert,
	"input":      Input,
}

// ParsePriorityName maps a symbolic priority name to its class.
func ParsePriorityName(s string) (Priority, bool) {
	p, ok := priorityNames[s]
	return p, ok
}

// ParsePriorityNumber applies the numeric-to-priority mapping from spec
// section 4.3, preserved for wire compatibility even though the thresholds
// are somewhat arbitrary:
//
//	(0, 64]    -> FOREGROUND
//	(64, 192)  -> INFO
//	[192, ...) -> BACKGROUND
func ParsePriorityNumber(n int) Priority {
	switch {
	case n > 0 && n <= 64:
		return Foreground
	case n >= 192:
		return Background
	default:
		return Info
	}
}

func (p Priority) String() string {
	for name, pr := range priorityNames {
		if pr == p {
			return name
		}
	}
	return "unknown"
}

// HeartbeatPolicy controls whether the heartbeat indicator is drawn.
type HeartbeatPolicy int

const (
	HeartbeatOpen HeartbeatPolicy = iota
	HeartbeatOn
	HeartbeatOff
)

// CursorPolicy controls the hardware cursor's visibility and glyph.
type CursorPolicy int

const (
	CursorOff CursorPolicy = iota
	CursorDefault
	CursorBlock
	CursorUnder
)

// BacklightPolicy controls the backlight, including the "toggle" verb
// (spec section 4.5 lists it in the enum without defining its semantics;
// resolved in DESIGN.md as "flip ON<->OFF, no-op unless currently ON/OFF").
type BacklightPolicy int

const (
	BacklightOpen BacklightPolicy = iota
	BacklightOn
	BacklightOff
	BacklightToggle
	BacklightBlink
	BacklightFlash
)

// NoTimeout marks a Screen with no expiry countdown.
const NoTimeout = -1

// DefaultDuration is the autorotate duration applied by screen_add, in
// frames: 128 frames is 4 s at the server's 32 frames per second (kept as
// a named constant since several call sites need the default).
const DefaultDuration = 128

// Screen is the unit of scheduling (spec section 3).
type Screen struct {
	ID       string
	ClientID uint64 // 0 means server-owned (e.g. the menu screen)
	Name     string

	Width, Height int

	Priority  Priority
	Duration  int
	Timeout   int // frames remaining, or NoTimeout
	Heartbeat HeartbeatPolicy
	Cursor    CursorPolicy
	CursorX   int
	CursorY   int
	Backlight BacklightPolicy

	Keys []string

	widgets     map[string]*Widget
	widgetOrder []string
}

// policyDefaults holds the fields screen_add seeds a new Screen from
// (spec section 4.5): priority INFO, duration 128, timeout none, heartbeat
// OPEN, cursor OFF, backlight OPEN. Kept as its own struct so a plain
// struct-copy can apply it, the way converter.go applies a defaults shape
// onto a freshly allocated record rather than listing every field by hand.
type policyDefaults struct {
	Priority  Priority
	Duration  int
	Timeout   int
	Heartbeat HeartbeatPolicy
	Cursor    CursorPolicy
	Backlight BacklightPolicy
}

var defaultPolicy = policyDefaults{
	Priority:  Info,
	Duration:  DefaultDuration,
	Timeout:   NoTimeout,
	Heartbeat: HeartbeatOpen,
	Cursor:    CursorOff,
	Backlight: BacklightOpen,
}

// New creates an empty screen seeded from defaultPolicy, then overridden by
// the caller's id/clientID/geometry (spec section 4.5). screen_set applies
// further overrides on top afterward.
func New(id string, clientID uint64, width, height int) *Screen {
	s := &Screen{
		ID:       id,
		ClientID: clientID,
		Width:    width,
		Height:   height,
		widgets:  make(map[string]*Widget),
	}
	copier.Copy(s, &defaultPolicy)
	return s
}

// AddWidget inserts a widget, enforcing the "unique within this Screen"
// invariant (spec section 3). widget_add's duplicate-is-an-error semantics
// (spec section 4.5) live here rather than in the dispatcher so any caller
// gets the same guarantee.
func (s *Screen) AddWidget(w *Widget) error {
	if _, exists := s.widgets[w.ID]; exists {
		return protoerr.DuplicateID()
	}
	s.widgets[w.ID] = w
	s.widgetOrder = append(s.widgetOrder, w.ID)
	return nil
}

// Widget looks up a widget by id, reporting ok=false if absent.
func (s *Screen) Widget(id string) (*Widget, bool) {
	w, ok := s.widgets[id]
	return w, ok
}

// DelWidget removes a widget (and, transitively, everything under a FRAME's
// inner screen, simply by dropping the reference) per spec section 4.5.
func (s *Screen) DelWidget(id string) error {
	if _, exists := s.widgets[id]; !exists {
		return protoerr.UnknownWidgetID()
	}
	delete(s.widgets, id)
	for i, wid := range s.widgetOrder {
		if wid == id {
			s.widgetOrder = append(s.widgetOrder[:i], s.widgetOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Widgets returns the screen's widgets in insertion order, the order the
// renderer walks them in (spec section 4.6 step 3).
func (s *Screen) Widgets() []*Widget {
	out := make([]*Widget, 0, len(s.widgetOrder))
	for _, id := range s.widgetOrder {
		out = append(out, s.widgets[id])
	}
	return out
}

// WidgetCount reports how many widgets this screen directly holds (not
// counting subwidgets of nested frames), used by idempotence tests.
func (s *Screen) WidgetCount() int { return len(s.widgets) }

// AddKey appends a key name to this screen's key-binding list if not
// already present (spec section 4.5, key_add).
func (s *Screen) AddKey(name string) {
	for _, k := range s.Keys {
		if k == name {
			return
		}
	}
	s.Keys = append(s.Keys, name)
}

// DelKey removes a key name from this screen's key-binding list.
func (s *Screen) DelKey(name string) {
	for i, k := range s.Keys {
		if k == name {
			s.Keys = append(s.Keys[:i], s.Keys[i+1:]...)
			return
		}
	}
}

// ToggleBacklight resolves the BacklightToggle verb against the screen's
// current policy: it flips ON and OFF into each other and is a no-op for
// any other current policy (see BacklightPolicy doc comment).
func (s *Screen) ToggleBacklight() {
	switch s.Backlight {
	case BacklightOn:
		s.Backlight = BacklightOff
	case BacklightOff:
		s.Backlight = BacklightOn
	}
}

// TickTimeout decrements a finite timeout by one frame and reports whether
// it has just reached zero (spec section 4.3 step 3, section 8 "timeout =
// 0 destroys the screen on the next scheduler tick").
func (s *Screen) TickTimeout() (expired bool) {
	if s.Timeout == NoTimeout {
		return false
	}
	if s.Timeout <= 0 {
		return true
	}
	s.Timeout--
	return s.Timeout <= 0
}

// ClampCursor enforces "cursor position, if set, lies within
// [1,width] x [1,height]" (spec section 3).
func (s *Screen) ClampCursor() {
	if s.CursorX < 1 {
		s.CursorX = 1
	}
	if s.CursorX > s.Width {
		s.CursorX = s.Width
	}
	if s.CursorY < 1 {
		s.CursorY = 1
	}
	if s.CursorY > s.Height {
		s.CursorY = s.Height
	}
}
