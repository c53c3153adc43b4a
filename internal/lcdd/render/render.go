// Package render implements the per-frame widget walk that turns a
// Screen's widget tree into driver calls (spec section 4.6).
package render

import (
	"github.com/lcdd/lcdd/internal/lcdd/driver"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
)

// heartbeatPeriod is how many rendered frames each heartbeat state (on or
// off) lasts, so a full on/off cycle is 8 frames: 4 Hz at 32 frames per
// second (spec section 4.6). It is expressed as "frames rendered" rather
// than wall-clock so that phases advance with real frames rendered even
// under render lag.
const heartbeatPeriod = 4

// Renderer walks the current screen once per frame and submits the result
// to a driver.Driver. It is stateless between frames except for the
// widgets' own scroller phase counters and its own heartbeat phase (spec
// section 4.6).
type Renderer struct {
	drv driver.Driver

	caps driver.Capabilities

	// GlobalHeartbeatOff mirrors the server-wide heartbeat override that an
	// OPEN-policy screen defers to (spec section 4.6 step 4).
	GlobalHeartbeatOff bool
	// GlobalBacklightOn mirrors the server-wide backlight default an
	// OPEN-policy screen defers to (spec section 4.6 step 6).
	GlobalBacklightOn bool
	// TitleSpeed is shared across all TITLE widgets (spec section 4.6:
	// "title-speed as a widget-independent global"); SCROLLER widgets use
	// their own Speed instead.
	TitleSpeed int

	heartbeatPhase int
}

// New creates a Renderer bound to drv, caching its capability set once
// (spec section 9: "renderer branches on capability queries once per
// frame (cached)" — here, once for the driver's lifetime, since
// capabilities are static per backend).
func New(drv driver.Driver) *Renderer {
	return &Renderer{drv: drv, caps: drv.Capabilities(), TitleSpeed: 1}
}

// Render executes one frame (spec section 4.6 steps 1-7). cur may be nil,
// meaning "clear the display to blank".
func (r *Renderer) Render(cur *screen.Screen) error {
	w, h := r.drv.Width(), r.drv.Height()
	canvas := NewCanvas(w, h)

	if cur != nil {
		ox, oy := centerOffset(w, h, cur.Width, cur.Height)
		r.renderWidgets(cur.Widgets(), canvas, ox, oy, cur.Width, cur.Height)
	}

	if err := r.drv.Clear(); err != nil {
		return err
	}
	for y := 0; y < h; y++ {
		row := canvas.Row(y)
		for x, ch := range []rune(row) {
			if err := r.drv.SetChar(x, y, ch); err != nil {
				return err
			}
		}
	}
	for _, o := range canvas.ops {
		if err := r.flushOp(o); err != nil {
			return err
		}
	}

	r.renderHeartbeat(cur, w)
	r.renderCursor(cur)
	r.renderBacklight(cur)

	return r.drv.Flush()
}

func (r *Renderer) flushOp(o op) error {
	switch o.kind {
	case opHBar:
		return r.drv.HBar(o.x, o.y, o.length)
	case opVBar:
		if !r.caps.VBar {
			// Degrade to an HBar approximation (spec section 6:
			// "drivers unable to provide a feature... report
			// 'unsupported' and the renderer degrades gracefully").
			return r.drv.HBar(o.x, o.y, o.length)
		}
		return r.drv.VBar(o.x, o.y, o.length)
	case opIcon:
		if !r.caps.Icon {
			return nil
		}
		_, err := r.drv.Icon(o.x, o.y, driver.Icon(o.icon))
		return err
	case opNum:
		return r.drv.Num(o.x, o.digit)
	}
	return nil
}

// centerOffset implements "s may be smaller [than the driver] — in which
// case rendering is centered with blank padding" (spec section 4.6 step 1).
func centerOffset(driverW, driverH, screenW, screenH int) (x, y int) {
	x = (driverW - screenW) / 2
	if x < 0 {
		x = 0
	}
	y = (driverH - screenH) / 2
	if y < 0 {
		y = 0
	}
	return x, y
}

func (r *Renderer) renderWidgets(widgets []*screen.Widget, canvas *Canvas, ox, oy, boundW, boundH int) {
	for _, w := range widgets {
		r.renderWidget(w, canvas, ox, oy, boundW, boundH)
	}
}

func (r *Renderer) renderWidget(w *screen.Widget, canvas *Canvas, ox, oy, boundW, boundH int) {
	switch w.Kind {
	case screen.KindString:
		canvas.SetString(ox+w.X-1, oy+w.Y-1, w.Text)

	case screen.KindTitle:
		canvas.SetString(ox, oy, r.renderTitle(w.Text, boundW, w))

	case screen.KindHBar:
		canvas.addHBar(ox+w.X-1, oy+w.Y-1, w.Length)

	case screen.KindVBar:
		canvas.addVBar(ox+w.X-1, oy+w.Y-1, w.Length)

	case screen.KindPBar:
		r.renderPBar(w, canvas, ox, oy)

	case screen.KindIcon:
		canvas.addIcon(ox+w.X-1, oy+w.Y-1, w.IconCode)

	case screen.KindScroller:
		r.renderScroller(w, canvas, ox, oy)

	case screen.KindFrame:
		r.renderFrame(w, canvas, ox, oy)

	case screen.KindNum:
		canvas.addNum(ox+w.X-1, w.Digit)
	}
}

// renderTitle renders "== name ==========" filling the row, scrolling the
// name once it exceeds the available width (spec section 4.6, TITLE).
func (r *Renderer) renderTitle(text string, width int, w *screen.Widget) string {
	deco := "== " + text + " =="
	if len([]rune(deco)) <= width {
		return padDashes(deco, width)
	}
	w.Advance()
	runes := []rune(text)
	offset := (w.Phase() / maxInt(r.TitleSpeed, 1)) % (len(runes) + 1)
	visible := string(runes[offset:])
	deco = "== " + visible + " =="
	if len([]rune(deco)) > width {
		deco = string([]rune(deco)[:width])
	}
	return padDashes(deco, width)
}

func padDashes(s string, width int) string {
	runes := []rune(s)
	for len(runes) < width {
		runes = append(runes, '=')
	}
	return string(runes)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (r *Renderer) renderPBar(w *screen.Widget, canvas *Canvas, ox, oy int) {
	x, y := ox+w.X-1, oy+w.Y-1
	begin := []rune(w.BeginLabel)
	end := []rune(w.EndLabel)
	canvas.SetString(x, y, string(begin))
	barX := x + len(begin)
	barWidth := w.Length - len(begin) - len(end)
	if barWidth < 0 {
		barWidth = 0
	}
	fillPixels := (barWidth * cellUnitsPerChar(r.drv) * w.Promille) / 1000
	canvas.addHBar(barX, y, fillPixels)
	canvas.SetString(barX+barWidth, y, string(end))
}

func cellUnitsPerChar(d driver.Driver) int {
	if d.CellWidth() == 0 {
		return 1
	}
	return d.CellWidth()
}

// renderScroller advances the widget's phase and renders the visible
// substring within its bounding box (spec section 4.6, SCROLLER).
func (r *Renderer) renderScroller(w *screen.Widget, canvas *Canvas, ox, oy int) {
	left, top := ox+w.Left-1, oy+w.Top-1
	right, bottom := ox+w.Right-1, oy+w.Bottom-1
	boxW := right - left + 1
	boxH := bottom - top + 1
	if boxW <= 0 || boxH <= 0 {
		return
	}

	speed := w.Speed
	if speed <= 0 {
		speed = 1
	}
	w.Advance()
	step := w.Phase() / speed

	runes := []rune(w.Text)
	switch w.Direction {
	case screen.ScrollVertical:
		if len(runes) == 0 {
			return
		}
		var lines []string
		for i := 0; i < len(runes); i += boxW {
			end := i + boxW
			if end > len(runes) {
				end = len(runes)
			}
			lines = append(lines, string(runes[i:end]))
		}
		first := step % len(lines)
		for row := 0; row < boxH && first+row < len(lines); row++ {
			canvas.SetString(left, top+row, lines[first+row])
		}
	default: // horizontal and mixed both scroll text left-to-right here
		n := len(runes)
		if n == 0 {
			return
		}
		offset := step % (n + boxW)
		padded := append(append([]rune{}, runes...), repeatSpace(boxW)...)
		visStart := offset
		visEnd := visStart + boxW
		if visEnd > len(padded) {
			visEnd = len(padded)
		}
		visible := padded[visStart:visEnd]
		canvas.SetString(left, top, string(visible))
	}
}

func repeatSpace(n int) []rune {
	out := make([]rune, n)
	for i := range out {
		out[i] = ' '
	}
	return out
}

// renderFrame recursively renders the FRAME's inner Screen into a
// sub-canvas, then blits it into the parent with scrolling if the inner
// content exceeds the frame's bounding box (spec section 4.6, FRAME).
func (r *Renderer) renderFrame(w *screen.Widget, canvas *Canvas, ox, oy int) {
	if w.Inner == nil {
		return
	}
	left, top := ox+w.Left-1, oy+w.Top-1
	right, bottom := ox+w.Right-1, oy+w.Bottom-1
	frameW := right - left + 1
	frameH := bottom - top + 1
	if frameW <= 0 || frameH <= 0 {
		return
	}

	inner := w.Inner
	innerCanvas := NewCanvas(inner.Width, inner.Height)
	r.renderWidgets(inner.Widgets(), innerCanvas, 0, 0, inner.Width, inner.Height)

	var scrollX, scrollY int
	if inner.Width > frameW || inner.Height > frameH {
		w.Advance()
		speed := w.Speed
		if speed <= 0 {
			speed = 1
		}
		step := w.Phase() / speed
		switch w.Direction {
		case screen.ScrollVertical:
			if inner.Height > frameH {
				scrollY = step % inner.Height
			}
		case screen.ScrollMixed:
			if inner.Width > frameW {
				scrollX = step % inner.Width
			}
			if inner.Height > frameH {
				scrollY = step % inner.Height
			}
		default:
			if inner.Width > frameW {
				scrollX = step % inner.Width
			}
		}
	}

	canvas.Blit(innerCanvas, left, top, frameW, frameH, scrollX, scrollY)
}

// renderHeartbeat resolves the heartbeat policy for this frame and passes
// the resulting on/off state to the driver's Heartbeat hook (spec section
// 4.6 step 4); where the indicator is drawn is left to the driver.
func (r *Renderer) renderHeartbeat(cur *screen.Screen, driverW int) {
	if !r.caps.Heartbeat {
		return
	}
	policy := screen.HeartbeatOpen
	if cur != nil {
		policy = cur.Heartbeat
	}
	beat := policy == screen.HeartbeatOn || (policy == screen.HeartbeatOpen && !r.GlobalHeartbeatOff)
	if policy == screen.HeartbeatOff {
		beat = false
	}
	r.heartbeatPhase++
	on := beat && (r.heartbeatPhase/heartbeatPeriod)%2 == 0
	_ = r.drv.Heartbeat(on)
}

func (r *Renderer) renderCursor(cur *screen.Screen) {
	if cur == nil || cur.Cursor == screen.CursorOff {
		_ = r.drv.Cursor(0, 0, driver.CursorOff)
		return
	}
	style := driver.CursorDefault
	switch cur.Cursor {
	case screen.CursorBlock:
		style = driver.CursorBlock
	case screen.CursorUnder:
		style = driver.CursorUnderline
	}
	_ = r.drv.Cursor(cur.CursorX-1, cur.CursorY-1, style)
}

func (r *Renderer) renderBacklight(cur *screen.Screen) {
	state := driver.Backlight{On: r.GlobalBacklightOn}
	if cur != nil {
		switch cur.Backlight {
		case screen.BacklightOn:
			state.On = true
		case screen.BacklightOff:
			state.On = false
		case screen.BacklightBlink:
			state.On, state.Blink = true, true
		case screen.BacklightFlash:
			state.On, state.Flash = true, true
		case screen.BacklightOpen:
			// defers to GlobalBacklightOn, already the default above
		}
	}
	_ = r.drv.Backlight(state)
}
