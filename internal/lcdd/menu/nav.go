package menu

// Navigator tracks menu-open state and turns server-owned navigation keys
// (spec section 4.7: "Menu navigation consumes keys via the server-owned
// reservation path") into menuevent callbacks. It holds a stack of open
// menu levels so that entering a submenu and leaving it again is just a
// push/pop, mirroring the tree's own parent/child structure without needing
// back-pointers on Item.
type Navigator struct {
	tree  *Tree
	stack []navLevel
}

type navLevel struct {
	menu     *Item
	selected int
}

// NewNavigator creates a Navigator closed (not displaying the menu).
func NewNavigator(tree *Tree) *Navigator {
	return &Navigator{tree: tree}
}

// Open reports whether the menu is currently being displayed.
func (n *Navigator) Open() bool { return len(n.stack) > 0 }

// Toggle opens the root menu if closed, or closes the whole stack if open
// (spec section 4.8: "a dedicated key... toggles menu display").
func (n *Navigator) Toggle() {
	if n.Open() {
		n.stack = nil
		return
	}
	n.stack = []navLevel{{menu: n.tree.root}}
}

// Current returns the menu item currently being navigated (the open
// submenu at the top of the stack) and the index of the selected child
// within it.
func (n *Navigator) Current() (menu *Item, selected int, ok bool) {
	if !n.Open() {
		return nil, 0, false
	}
	top := n.stack[len(n.stack)-1]
	return top.menu, top.selected, true
}

// Next moves the selection down within the current level, wrapping.
// Returns the newly selected item's id for an "update" menuevent, or ok=false
// if the menu is closed or the level is empty.
func (n *Navigator) Next() (id string, ok bool) {
	return n.move(1)
}

// Prev moves the selection up within the current level, wrapping.
func (n *Navigator) Prev() (id string, ok bool) {
	return n.move(-1)
}

func (n *Navigator) move(delta int) (string, bool) {
	if !n.Open() {
		return "", false
	}
	top := &n.stack[len(n.stack)-1]
	children := top.menu.Children()
	if len(children) == 0 {
		return "", false
	}
	top.selected = ((top.selected+delta)%len(children) + len(children)) % len(children)
	return children[top.selected].ID, true
}

// Enter activates the selected item: descending into it if it is a
// submenu (KindMenu), or reporting it as a "select" target otherwise
// (spec section 4.8, menuevent "select"/"enter"). NextID overrides the
// item actually entered when set (spec section 3, navigation overrides).
func (n *Navigator) Enter() (selectedID string, entered bool, ok bool) {
	if !n.Open() {
		return "", false, false
	}
	top := n.stack[len(n.stack)-1]
	children := top.menu.Children()
	if top.selected >= len(children) {
		return "", false, false
	}
	it := children[top.selected]
	if it.NextID != "" {
		if override, found := n.tree.Item(it.NextID); found {
			it = override
		}
	}
	if it.Kind == KindMenu {
		n.stack = append(n.stack, navLevel{menu: it})
		return it.ID, true, true
	}
	return it.ID, false, true
}

// Leave pops one level, returning the id of the menu now exposed (or
// closes the menu entirely if already at the root), mirroring "menuevent
// leave" (spec section 4.8).
func (n *Navigator) Leave() (menuID string, closed bool) {
	if !n.Open() {
		return "", true
	}
	if len(n.stack) == 1 {
		n.stack = nil
		return "", true
	}
	n.stack = n.stack[:len(n.stack)-1]
	return n.stack[len(n.stack)-1].menu.ID, false
}

// AdjustValue applies a plus/minus nudge to the selected item's value for
// the variants that carry one (RING, SLIDER, NUMERIC, CHECKBOX), returning
// the item id and new value for an "update" menuevent. ok is false if the
// selected item has no adjustable value.
func (n *Navigator) AdjustValue(delta int) (id string, value int, ok bool) {
	if !n.Open() {
		return "", 0, false
	}
	top := n.stack[len(n.stack)-1]
	children := top.menu.Children()
	if top.selected >= len(children) {
		return "", 0, false
	}
	it := children[top.selected]
	switch it.Kind {
	case KindRing:
		if len(it.Choices) == 0 {
			return "", 0, false
		}
		it.Value = ((it.Value+delta)%len(it.Choices) + len(it.Choices)) % len(it.Choices)
	case KindSlider:
		step := it.Step
		if step == 0 {
			step = 1
		}
		it.Value = clamp(it.Value+delta*step, it.Min, it.Max)
	case KindNumeric:
		it.Value = clamp(it.Value+delta, it.Min, it.Max)
	case KindCheckbox:
		if delta > 0 && it.CheckedState < 2 {
			it.CheckedState++
		} else if delta < 0 && it.CheckedState > 0 {
			it.CheckedState--
		}
		return it.ID, it.CheckedState, true
	default:
		return "", 0, false
	}
	return it.ID, it.Value, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
