package render

// Canvas is the rune grid the renderer composites widgets into before
// flushing to the driver a character at a time (spec section 4.6 step 1:
// "acquire the driver's character buffer"). It also holds the "pixel
// native" ops (bars, icons, large digits) collected while walking the
// widget tree, since those need driver-precision lengths rather than
// character approximation and must not be resolved until their absolute
// position (after any enclosing FRAME's offset) is known.
type Canvas struct {
	Width, Height int
	cells         [][]rune
	ops           []op
}

type opKind int

const (
	opHBar opKind = iota
	opVBar
	opIcon
	opNum
)

type op struct {
	kind   opKind
	x, y   int
	length int
	icon   int
	digit  int
}

// NewCanvas creates a blank w x h canvas.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h}
	c.cells = make([][]rune, h)
	for y := range c.cells {
		c.cells[y] = make([]rune, w)
	}
	c.Blank()
	return c
}

// Blank fills the canvas with spaces and discards collected ops (spec
// section 4.6 step 2).
func (c *Canvas) Blank() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
	c.ops = c.ops[:0]
}

// Set writes one cell, clipping silently outside the grid (spec section 8:
// "a widget positioned past the right/bottom edge is silently clipped").
func (c *Canvas) Set(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.cells[y][x] = ch
}

// SetString writes s starting at (x, y), clipped at the right edge, no
// wrap (spec section 4.6, STRING).
func (c *Canvas) SetString(x, y int, s string) {
	for i, ch := range []rune(s) {
		c.Set(x+i, y, ch)
	}
}

func (c *Canvas) addHBar(x, y, length int)    { c.ops = append(c.ops, op{kind: opHBar, x: x, y: y, length: length}) }
func (c *Canvas) addVBar(x, y, length int)    { c.ops = append(c.ops, op{kind: opVBar, x: x, y: y, length: length}) }
func (c *Canvas) addIcon(x, y int, code int)  { c.ops = append(c.ops, op{kind: opIcon, x: x, y: y, icon: code}) }
func (c *Canvas) addNum(x, digit int)         { c.ops = append(c.ops, op{kind: opNum, x: x, digit: digit}) }

// Blit composites src into c at offset (ox, oy), clipping src to
// (clipW, clipH) and applying (scrollX, scrollY) as a read offset into src
// — the mechanism a FRAME uses to show a scrolled window of inner content
// that is larger than the frame's bounding box (spec section 4.6, FRAME).
// Pixel-native ops are translated by the same offset and re-clipped.
func (c *Canvas) Blit(src *Canvas, ox, oy, clipW, clipH, scrollX, scrollY int) {
	for dy := 0; dy < clipH; dy++ {
		sy := dy + scrollY
		if sy < 0 || sy >= src.Height {
			continue
		}
		for dx := 0; dx < clipW; dx++ {
			sx := dx + scrollX
			if sx < 0 || sx >= src.Width {
				continue
			}
			c.Set(ox+dx, oy+dy, src.cells[sy][sx])
		}
	}
	for _, o := range src.ops {
		tx, ty := o.x-scrollX, o.y-scrollY
		if tx < 0 || ty < 0 || tx >= clipW || ty >= clipH {
			continue
		}
		translated := o
		translated.x, translated.y = ox+tx, oy+ty
		c.ops = append(c.ops, translated)
	}
}

// Row returns one row of the grid, for snapshot-style assertions.
func (c *Canvas) Row(y int) string { return string(c.cells[y]) }
