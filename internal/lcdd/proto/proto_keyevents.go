package proto

import "fmt"

// NavigationKeys are reserved server-owned at startup (spec section 4.7:
// "Server-owned reservations for navigation keys... installed at startup
// as shared with owner = server"). MenuToggleKey is the dedicated key that
// opens/closes the menu (spec section 4.8); LCDd also treats a long-press
// of Enter as an alternate trigger, which this core leaves to whatever
// maps long-presses onto a distinct key name upstream of RouteKey.
var NavigationKeys = []string{"Up", "Down", "Enter", "Escape", MenuToggleKey}

// MenuToggleKey is the default key name that opens/closes the menu.
const MenuToggleKey = "Menu"

// RouteKey delivers one driver key event to its destination, implementing
// the precedence chain in spec section 4.7 with the menu-interception
// step from section 4.8 ahead of it.
func (s *Server) RouteKey(key string) {
	if s.Nav.Open() {
		if s.routeMenuKey(key) {
			return
		}
	}

	exclusive, hasExclusive, shared, serverOwned := s.Input.Route(key)
	switch {
	case hasExclusive:
		s.deliverOrHandle(exclusive, key)
	case len(shared) > 0:
		for _, cid := range shared {
			s.deliverOrHandle(cid, key)
		}
	case serverOwned:
		s.handleServerKey(key)
	}
}

func (s *Server) deliverOrHandle(clientID uint64, key string) {
	if clientID == 0 {
		s.handleServerKey(key)
		return
	}
	if c, ok := s.clients[clientID]; ok {
		c.Send("key " + key)
	}
}

// routeMenuKey handles a navigation key while the menu is open, returning
// true if it was consumed internally (spec section 4.8/4.7 step 1).
func (s *Server) routeMenuKey(key string) bool {
	switch key {
	case "Down":
		if id, ok := s.Nav.Next(); ok {
			s.emitMenuEvent("update", id, "")
		}
		return true
	case "Up":
		if id, ok := s.Nav.Prev(); ok {
			s.emitMenuEvent("update", id, "")
		}
		return true
	case "Enter":
		if id, entered, ok := s.Nav.Enter(); ok {
			if entered {
				s.emitMenuEvent("enter", id, "")
			} else {
				s.emitMenuEvent("select", id, "")
			}
		}
		return true
	case "Escape":
		if menuID, closed := s.Nav.Leave(); !closed {
			s.emitMenuEvent("leave", menuID, "")
		}
		return true
	case MenuToggleKey:
		s.Nav.Toggle()
		return true
	default:
		return false
	}
}

func (s *Server) handleServerKey(key string) {
	if key == MenuToggleKey {
		s.Nav.Toggle()
	}
}

func (s *Server) emitMenuEvent(kind, itemID, value string) {
	owner, ok := s.Menu.Owner(itemID)
	if !ok || owner == 0 {
		return
	}
	c, ok := s.clients[owner]
	if !ok {
		return
	}
	c.Send(fmt.Sprintf("menuevent %s %s %s", kind, itemID, value))
}
