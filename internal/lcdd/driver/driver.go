// Package driver defines the capability surface the rendering core requires
// from a display/input backend (spec section 6). The core never assumes
// more than what is declared here; a driver unable to provide a feature
// reports it via Capabilities and the renderer degrades gracefully.
package driver

// CursorStyle selects how the hardware cursor is drawn.
type CursorStyle int

const (
	CursorOff CursorStyle = iota
	CursorDefault
	CursorBlock
	CursorUnderline
)

// Backlight carries the resolved on/off state plus optional modifiers.
type Backlight struct {
	On    bool
	Blink bool
	Flash bool
}

// Capabilities is queried once per frame (and cached by the renderer) so
// branching on "does this driver support X" never costs a syscall per
// widget (spec section 9: "renderer branches on capability queries once
// per frame (cached)").
type Capabilities struct {
	VBar      bool
	Icon      bool
	Heartbeat bool
	RGB       bool
	TitleSpeed bool
}

// Driver is the uniform adapter the core renders through. Implementations
// live outside this module's core scope (spec section 1): USB HID,
// framebuffer, LED backlight drivers are external collaborators. This
// package only ships Text, an in-memory driver used as the default
// headless backend and as the seam for tests.
type Driver interface {
	Init() error
	Close() error

	Width() int
	Height() int
	CellWidth() int
	CellHeight() int
	Capabilities() Capabilities

	Clear() error
	SetChar(x, y int, ch rune) error
	HBar(x, y, lengthPixels int) error
	VBar(x, y, lengthPixels int) error
	// Icon reports false when this glyph (or icons generally) is
	// unsupported; the renderer then falls back to a plain character.
	Icon(x, y int, code Icon) (bool, error)
	Num(x, digit int) error
	Cursor(x, y int, style CursorStyle) error
	Backlight(state Backlight) error
	Heartbeat(on bool) error
	SetTitleSpeed(n int) error
	Flush() error

	// PollKey is non-blocking: it returns ok=false when no key event is
	// pending, never waiting for one (spec section 6).
	PollKey() (name string, ok bool)
}

// Icon enumerates the glyph codes widgets of type ICON may request.
type Icon int

const (
	IconNone Icon = iota
	IconBlock
	IconHeartFilled
	IconHeartOpen
	IconArrowUp
	IconArrowDown
	IconArrowLeft
	IconArrowRight
	IconCheckboxOff
	IconCheckboxOn
	IconCheckboxGray
	IconSelectorAtLeft
	IconSelectorAtRight
	IconEllipsis
	IconStop
	IconPause
	IconPlay
	IconPlayR
	IconFF
	IconFR
	IconNext
	IconPrev
	IconRecord
)

// IconNames maps the symbolic names accepted by widget_set (spec section
// 4.5: "icon-name-or-number") to their codes.
var IconNames = map[string]Icon{
	"BLOCK_FILLED":    IconBlock,
	"HEART_OPEN":      IconHeartOpen,
	"HEART_FILLED":    IconHeartFilled,
	"ARROW_UP":        IconArrowUp,
	"ARROW_DOWN":      IconArrowDown,
	"ARROW_LEFT":      IconArrowLeft,
	"ARROW_RIGHT":     IconArrowRight,
	"CHECKBOX_OFF":    IconCheckboxOff,
	"CHECKBOX_ON":     IconCheckboxOn,
	"CHECKBOX_GRAY":   IconCheckboxGray,
	"SELECTOR_AT_LEFT":  IconSelectorAtLeft,
	"SELECTOR_AT_RIGHT": IconSelectorAtRight,
	"ELLIPSIS":        IconEllipsis,
	"STOP":            IconStop,
	"PAUSE":           IconPause,
	"PLAY":            IconPlay,
	"PLAYR":           IconPlayR,
	"FF":              IconFF,
	"FR":              IconFR,
	"NEXT":            IconNext,
	"PREV":            IconPrev,
	"REC":             IconRecord,
}
