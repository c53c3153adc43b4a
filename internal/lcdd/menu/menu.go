// Package menu implements the hierarchical menu subsystem (spec section
// 4.8): a server-owned root tree into which clients graft item subtrees,
// plus the menuevent callback routing back to each item's owner.
package menu

import "github.com/lcdd/lcdd/internal/lcdd/protoerr"

// Kind discriminates the menu item variants from spec section 3.
type Kind int

const (
	KindAction Kind = iota
	KindCheckbox
	KindRing
	KindSlider
	KindNumeric
	KindAlpha
	KindIP
	KindMenu
)

var kindNames = map[string]Kind{
	"action":   KindAction,
	"checkbox": KindCheckbox,
	"ring":     KindRing,
	"slider":   KindSlider,
	"numeric":  KindNumeric,
	"alpha":    KindAlpha,
	"ip":       KindIP,
	"menu":     KindMenu,
}

// ParseKind maps a menu_add_item type token to a Kind.
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

// EventType is the kind of interaction reported in a menuevent line (spec
// section 4.8: "update|select|enter|leave|plus|minus").
type EventType int

const (
	EventUpdate EventType = iota
	EventSelect
	EventEnter
	EventLeave
	EventPlus
	EventMinus
)

func (e EventType) String() string {
	switch e {
	case EventUpdate:
		return "update"
	case EventSelect:
		return "select"
	case EventEnter:
		return "enter"
	case EventLeave:
		return "leave"
	case EventPlus:
		return "plus"
	case EventMinus:
		return "minus"
	default:
		return "unknown"
	}
}

// RootID names the server-owned root menu, toggled onto the screen list as
// a synthetic INPUT-priority screen (spec section 4.8).
const RootID = ""

// ServerOwner marks an item as owned by the server itself (the root and any
// item the server grafts in directly, as opposed to a connected client).
const ServerOwner uint64 = 0

// Item is one node in the menu tree (spec section 3, MenuItem).
type Item struct {
	ID       string
	ClientID uint64
	Kind     Kind
	Text     string

	// RING/CHECKBOX/NUMERIC/SLIDER/ALPHA configuration. Only the fields
	// relevant to Kind are meaningful, matching Widget's discriminated
	// union convention.
	Choices       []string // RING
	CheckedState  int      // CHECKBOX: 0=off,1=on,2=gray
	Value         int      // NUMERIC/SLIDER/RING current index or value
	Min, Max      int      // NUMERIC/SLIDER
	Step          int      // SLIDER
	StepsVisible  int      // SLIDER
	MaxLength     int      // ALPHA
	AllowCaps     bool     // ALPHA
	AllowNumbers  bool     // ALPHA
	AllowedExtra  string   // ALPHA
	IPV6          bool     // IP

	// NextID/PrevID override default up/down navigation order (spec
	// section 3: "optional next/prev navigation overrides").
	NextID, PrevID string

	children    map[string]*Item
	childOrder  []string
}

func newItem(id string, clientID uint64, kind Kind, text string) *Item {
	return &Item{
		ID:       id,
		ClientID: clientID,
		Kind:     kind,
		Text:     text,
		children: make(map[string]*Item),
	}
}

// Children returns this item's direct children in insertion order. Only
// KindMenu items are expected to have any.
func (it *Item) Children() []*Item {
	out := make([]*Item, 0, len(it.childOrder))
	for _, id := range it.childOrder {
		out = append(out, it.children[id])
	}
	return out
}

// Tree is the whole menu forest rooted at RootID (spec section 4.8: "the
// root menu is server-owned").
type Tree struct {
	root *Item
	// index maps every item id, anywhere in the tree, to its node, so
	// lookups and deletes don't need a recursive walk. Item
	// ids are scoped globally (not per-parent) the way screen ids are
	// scoped per-client, matching how menu_add_item addresses items.
	index map[string]*Item
	owner map[string]uint64
}

// New creates an empty tree with just the server-owned root.
func New() *Tree {
	root := newItem(RootID, ServerOwner, KindMenu, "")
	return &Tree{
		root:  root,
		index: map[string]*Item{RootID: root},
		owner: map[string]uint64{RootID: ServerOwner},
	}
}

// AddItem grafts a new item under parentID, owned by clientID (spec
// section 4.8: "menu_add_item {parent} <id> <type> {text}"). Duplicate ids
// and a missing/non-menu parent are errors.
func (t *Tree) AddItem(parentID string, it *Item) error {
	if _, exists := t.index[it.ID]; exists {
		return protoerr.DuplicateID()
	}
	parent, ok := t.index[parentID]
	if !ok {
		return protoerr.UnknownMenuID()
	}
	if parent.Kind != KindMenu {
		return protoerr.BadArguments()
	}
	it.children = make(map[string]*Item)
	parent.children[it.ID] = it
	parent.childOrder = append(parent.childOrder, it.ID)
	t.index[it.ID] = it
	t.owner[it.ID] = it.ClientID
	return nil
}

// Item looks up any item in the tree by id.
func (t *Tree) Item(id string) (*Item, bool) {
	it, ok := t.index[id]
	return it, ok
}

// DelItem removes an item (and, transitively, its whole subtree) from the
// tree. Deleting the root is rejected.
func (t *Tree) DelItem(id string) error {
	if id == RootID {
		return protoerr.BadArguments()
	}
	it, ok := t.index[id]
	if !ok {
		return protoerr.UnknownMenuID()
	}
	t.removeSubtree(it)
	for parentID, parent := range t.index {
		_ = parentID
		for i, cid := range parent.childOrder {
			if cid == id {
				parent.children[cid] = nil
				delete(parent.children, cid)
				parent.childOrder = append(parent.childOrder[:i], parent.childOrder[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (t *Tree) removeSubtree(it *Item) {
	for _, child := range it.Children() {
		t.removeSubtree(child)
	}
	delete(t.index, it.ID)
	delete(t.owner, it.ID)
}

// ReleaseClient removes every item owned by clientID, as happens on
// disconnect (spec section 4.4: "remove owned menu items").
func (t *Tree) ReleaseClient(clientID uint64) {
	var owned []string
	for id, owner := range t.owner {
		if id != RootID && owner == clientID {
			owned = append(owned, id)
		}
	}
	for _, id := range owned {
		if _, ok := t.index[id]; ok {
			_ = t.DelItem(id)
		}
	}
}

// Owner reports which client owns item id, for routing menuevent lines.
func (t *Tree) Owner(id string) (uint64, bool) {
	owner, ok := t.owner[id]
	return owner, ok
}

// Root returns the server-owned root item.
func (t *Tree) Root() *Item { return t.root }
