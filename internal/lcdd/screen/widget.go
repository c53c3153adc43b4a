// Package screen implements the Screen and Widget object model (spec
// section 3): hierarchical widget trees where a FRAME's contents are
// themselves a nested Screen. Per the design note in spec section 9, the
// tree holds no back-pointers — a Frame owns its inner *Screen by value
// reference and nothing points the other way — so there is no cycle to
// free and no arena bookkeeping is needed beyond the maps Screen already
// keeps.
package screen

// Kind discriminates the widget variants from spec section 3.
type Kind int

const (
	KindString Kind = iota
	KindTitle
	KindHBar
	KindVBar
	KindPBar
	KindIcon
	KindScroller
	KindFrame
	KindNum
)

var kindNames = map[string]Kind{
	"string":   KindString,
	"title":    KindTitle,
	"hbar":     KindHBar,
	"vbar":     KindVBar,
	"pbar":     KindPBar,
	"icon":     KindIcon,
	"scroller": KindScroller,
	"frame":    KindFrame,
	"num":      KindNum,
}

// ParseKind maps a widget_add type token to a Kind, reporting ok=false for
// an unrecognized type name.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindNames[s]
	return k, ok
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// ScrollDirection is the scroller/frame advance axis.
type ScrollDirection int

const (
	ScrollHorizontal ScrollDirection = iota
	ScrollVertical
	ScrollMixed
)

func ParseScrollDirection(s string) (ScrollDirection, bool) {
	switch s {
	case "h":
		return ScrollHorizontal, true
	case "v":
		return ScrollVertical, true
	case "m":
		return ScrollMixed, true
	default:
		return 0, false
	}
}

// Widget is an addressable display element within a Screen (spec section
// 3). Only the fields relevant to its Kind are meaningful; the rest are
// simply unused, matching LCDd's discriminated-union widget description.
type Widget struct {
	ID   string
	Kind Kind

	X, Y   int
	Length int

	// Scroller/frame bounding box.
	Left, Top, Right, Bottom int
	Direction                ScrollDirection
	Speed                    int

	Text string

	Promille             int
	BeginLabel, EndLabel string

	IconCode int

	Digit int

	// Inner is set only for KindFrame: the nested Screen holding its
	// subwidgets (spec section 3, "this is how nesting is expressed").
	Inner *Screen

	// phase is the renderer's mutable scroll/animation counter for this
	// widget. It lives on the widget (not in a side table) because it is
	// scoped to the widget's own lifetime: destroying the widget discards
	// its phase along with everything else.
	phase int
}

// Phase returns and Advance mutates the per-widget animation counter the
// renderer uses for scrollers and scrolling frames (spec section 4.6:
// "stateless between frames except for scroller phase counters").
func (w *Widget) Phase() int    { return w.phase }
func (w *Widget) Advance()      { w.phase++ }
func (w *Widget) ResetPhase()   { w.phase = 0 }
