// Package client implements the per-connection Client record (spec
// sections 3 and 4.4): its lifecycle states and the screens, key
// reservations and menu items it owns.
package client

import (
	"github.com/lcdd/lcdd/internal/lcdd/screen"
)

// State is a Client's position in the NEW -> ACTIVE -> GONE lifecycle
// (spec section 4.4).
type State int

const (
	StateNew State = iota
	StateActive
	StateGone
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateActive:
		return "ACTIVE"
	case StateGone:
		return "GONE"
	default:
		return "unknown"
	}
}

// Sink is whatever can deliver a line to this client asynchronously
// (listen/ignore/key/menuevent/bye). It is the minimal surface client
// needs from wire.Conn, kept as an interface so tests can use a fake.
type Sink interface {
	Write(line string)
}

// Client is one connected protocol peer (spec section 3).
type Client struct {
	ID            uint64 // internal connection handle
	CorrelationID string // log-only, Sonyflake-minted
	Name          string
	State         State

	Out Sink

	screens     map[string]*screen.Screen
	screenOrder []string

	// Keys is the set of key names this client has reserved directly via
	// client_add_key (not counting the screen key_add auto-reservations,
	// which the input table tracks against the owning screen's lifetime).
	Keys map[string]struct{}

	// MenuItemIDs is the set of menu item ids this client added with
	// menu_add_item, under any parent; the menu tree itself lives in the
	// menu package, and disconnect teardown goes through
	// menu.Tree.ReleaseClient rather than this set.
	MenuItemIDs map[string]struct{}
}

// New creates a Client in state NEW, as produced by accepting a
// connection (spec section 4.2: "the server creates a Client in state
// NEW").
func New(id uint64, correlationID string, out Sink) *Client {
	return &Client{
		ID:            id,
		CorrelationID: correlationID,
		State:         StateNew,
		Out:           out,
		screens:       make(map[string]*screen.Screen),
		Keys:          make(map[string]struct{}),
		MenuItemIDs:   make(map[string]struct{}),
	}
}

// AddScreen registers a screen id as owned by this client (spec section
// 3: "keys unique within this client"). Duplicate ids are rejected by the
// caller before this is invoked (the dispatcher needs the specific
// protoerr.DuplicateID reply), so AddScreen only panics on a programming
// error, never on client input.
func (c *Client) AddScreen(s *screen.Screen) {
	if _, exists := c.screens[s.ID]; exists {
		panic("client: duplicate screen id " + s.ID)
	}
	c.screens[s.ID] = s
	c.screenOrder = append(c.screenOrder, s.ID)
}

// Screen looks up an owned screen by id.
func (c *Client) Screen(id string) (*screen.Screen, bool) {
	s, ok := c.screens[id]
	return s, ok
}

// RemoveScreen drops a screen from this client's ownership set (the
// screen itself is removed from the global scheduler list by the
// caller).
func (c *Client) RemoveScreen(id string) {
	delete(c.screens, id)
	for i, sid := range c.screenOrder {
		if sid == id {
			c.screenOrder = append(c.screenOrder[:i], c.screenOrder[i+1:]...)
			break
		}
	}
}

// Screens returns the client's owned screens in creation order.
func (c *Client) Screens() []*screen.Screen {
	out := make([]*screen.Screen, 0, len(c.screenOrder))
	for _, id := range c.screenOrder {
		out = append(out, c.screens[id])
	}
	return out
}

// Send queues an asynchronous line to this client. Ordering per spec
// section 5 ("outputs to a single client... appear in the order
// generated") is guaranteed by Sink being a single ordered channel-backed
// writer per connection.
func (c *Client) Send(line string) {
	if c.Out != nil {
		c.Out.Write(line)
	}
}
