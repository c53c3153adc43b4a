package driver

import (
	"sync"
)

// Text is a fully in-memory driver: the default headless backend and the
// seam the rest of the core is tested against, the way
// pkg/libvirt.MockClient stands in for a real libvirt connection. Unlike a
// call-expectation mock it keeps real, inspectable state, since rendering
// tests need to assert on what actually got drawn.
type Text struct {
	mu sync.Mutex

	width, height          int
	cellWidth, cellHeight  int
	caps                   Capabilities

	buf       [][]rune
	cursorX   int
	cursorY   int
	cursorSty CursorStyle
	backlight Backlight
	beating   bool
	titleSpd  int

	keys []string
}

// NewText builds a Text driver of the given character grid and per-cell
// pixel geometry. cellWidth/cellHeight follow spec section 3's glossary
// ("cellwid x cellhgt sub-pixels make up one cell").
func NewText(width, height, cellWidth, cellHeight int) *Text {
	t := &Text{
		width:      width,
		height:     height,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		caps: Capabilities{
			VBar: true, Icon: true, Heartbeat: true, TitleSpeed: true,
		},
	}
	t.buf = make([][]rune, height)
	for y := range t.buf {
		t.buf[y] = make([]rune, width)
	}
	t.Clear() //nolint:errcheck // Clear never fails on the text driver
	return t
}

func (t *Text) Init() error { return nil }
func (t *Text) Close() error { return nil }

func (t *Text) Width() int      { return t.width }
func (t *Text) Height() int     { return t.height }
func (t *Text) CellWidth() int  { return t.cellWidth }
func (t *Text) CellHeight() int { return t.cellHeight }

func (t *Text) Capabilities() Capabilities { return t.caps }

func (t *Text) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := range t.buf {
		for x := range t.buf[y] {
			t.buf[y][x] = ' '
		}
	}
	return nil
}

func (t *Text) SetChar(x, y int, ch rune) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || y < 0 || y >= t.height || x >= t.width {
		return nil
	}
	t.buf[y][x] = ch
	return nil
}

// HBar draws a horizontal bar lengthPixels sub-character units long,
// cellWidth pixels per character, using a coarse partial-block
// approximation since a plain text driver has no custom character set.
func (t *Text) HBar(x, y, lengthPixels int) error {
	if lengthPixels < 0 {
		lengthPixels = 0
	}
	full := lengthPixels / t.cellWidth
	rem := lengthPixels % t.cellWidth
	cx := x
	for i := 0; i < full; i++ {
		if err := t.SetChar(cx, y, '#'); err != nil {
			return err
		}
		cx++
	}
	if rem > 0 {
		if err := t.SetChar(cx, y, partialGlyph(rem, t.cellWidth)); err != nil {
			return err
		}
	}
	return nil
}

// VBar draws upward from (x, y), cellHeight pixels per character.
func (t *Text) VBar(x, y, lengthPixels int) error {
	if lengthPixels < 0 {
		lengthPixels = 0
	}
	full := lengthPixels / t.cellHeight
	rem := lengthPixels % t.cellHeight
	cy := y
	for i := 0; i < full; i++ {
		if err := t.SetChar(x, cy, '#'); err != nil {
			return err
		}
		cy--
	}
	if rem > 0 {
		if err := t.SetChar(x, cy, partialGlyph(rem, t.cellHeight)); err != nil {
			return err
		}
	}
	return nil
}

func partialGlyph(rem, cell int) rune {
	frac := float64(rem) / float64(cell)
	switch {
	case frac > 0.66:
		return ':'
	case frac > 0.33:
		return '.'
	default:
		return '\''
	}
}

var iconGlyphs = map[Icon]rune{
	IconBlock: '#', IconHeartFilled: '<', IconHeartOpen: '3',
	IconArrowUp: '^', IconArrowDown: 'v', IconArrowLeft: '<', IconArrowRight: '>',
	IconCheckboxOff: '[', IconCheckboxOn: 'X', IconCheckboxGray: '-',
	IconSelectorAtLeft: '>', IconSelectorAtRight: '<', IconEllipsis: '.',
	IconStop: 's', IconPause: 'p', IconPlay: '>', IconPlayR: '<',
	IconFF: 'F', IconFR: 'R', IconNext: 'n', IconPrev: 'p', IconRecord: 'o',
}

func (t *Text) Icon(x, y int, code Icon) (bool, error) {
	glyph, ok := iconGlyphs[code]
	if !ok {
		return false, nil
	}
	return true, t.SetChar(x, y, glyph)
}

var numGlyphs = [12]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ' '}

func (t *Text) Num(x, digit int) error {
	if digit < 0 || digit > 11 {
		return nil
	}
	return t.SetChar(x, t.height-1, numGlyphs[digit])
}

func (t *Text) Cursor(x, y int, style CursorStyle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorX, t.cursorY, t.cursorSty = x, y, style
	return nil
}

func (t *Text) Backlight(state Backlight) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.backlight = state
	return nil
}

func (t *Text) Heartbeat(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beating = on
	return nil
}

func (t *Text) SetTitleSpeed(n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.titleSpd = n
	return nil
}

func (t *Text) Flush() error { return nil }

// PushKey injects a key event for PollKey to return; it is the
// test/harness side of a real driver's hardware input source.
func (t *Text) PushKey(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = append(t.keys, name)
}

func (t *Text) PollKey() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.keys) == 0 {
		return "", false
	}
	k := t.keys[0]
	t.keys = t.keys[1:]
	return k, true
}

// Snapshot returns the current character grid as strings, one per row, for
// assertions and for the status API's debug frame stream.
func (t *Text) Snapshot() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	rows := make([]string, t.height)
	for y, row := range t.buf {
		rows[y] = string(row)
	}
	return rows
}

// CursorState reports the last cursor position/style set, for tests.
func (t *Text) CursorState() (x, y int, style CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursorX, t.cursorY, t.cursorSty
}

// BacklightState reports the last resolved backlight state, for tests.
func (t *Text) BacklightState() Backlight {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.backlight
}
