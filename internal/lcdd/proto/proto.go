// Package proto implements the command dispatcher and handshake state
// machine for the wire protocol (spec sections 4.1, 4.2, 4.5, 4.7, 4.8).
// It is the one package that touches every other core subsystem, sitting
// on top of the domain packages as a request handler layer without
// owning any of their state itself.
package proto

import (
	"fmt"
	"strconv"

	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/driver"
	"github.com/lcdd/lcdd/internal/lcdd/input"
	"github.com/lcdd/lcdd/internal/lcdd/menu"
	"github.com/lcdd/lcdd/internal/lcdd/protoerr"
	"github.com/lcdd/lcdd/internal/lcdd/scheduler"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
	"github.com/lcdd/lcdd/internal/lcdd/wire"
	"github.com/rs/zerolog"
)

// ServerVersion and the protocol version numbers are echoed in the
// handshake reply (spec section 4.2).
const (
	ServerVersion  = "1.0.0"
	ProtocolMajor  = 0
	ProtocolMinor  = 3
)

// Server holds every piece of process-wide state the dispatcher needs
// (spec section 9: "a single Server value... no hidden module globals").
// It is only ever touched from the single loop goroutine that owns it
// (spec section 5); concurrency safety comes from that discipline, not
// from locking.
type Server struct {
	Driver    driver.Driver
	Scheduler *scheduler.Scheduler
	Input     *input.Table
	Menu      *menu.Tree
	Nav       *menu.Navigator

	clients map[uint64]*client.Client

	GlobalHeartbeatOff bool
	GlobalBacklightOn  bool

	Log *zerolog.Logger
}

// New creates a Server wired to the given subsystems. The caller installs
// the server-owned navigation-key reservations (spec section 4.7) before
// accepting connections.
func New(drv driver.Driver, sched *scheduler.Scheduler, in *input.Table, mn *menu.Tree, nav *menu.Navigator, log *zerolog.Logger) *Server {
	return &Server{
		Driver:    drv,
		Scheduler: sched,
		Input:     in,
		Menu:      mn,
		Nav:       nav,
		clients:   make(map[uint64]*client.Client),
		Log:       log,
	}
}

// AddClient registers a newly accepted connection in state NEW (spec
// section 4.2: "the server creates a Client in state NEW").
func (s *Server) AddClient(c *client.Client) {
	s.clients[c.ID] = c
}

// Clients returns every connected client, in no particular order. Used
// by the status API to build its read-only snapshot.
func (s *Server) Clients() []*client.Client {
	out := make([]*client.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// Client looks up a connected client by id.
func (s *Server) Client(id uint64) (*client.Client, bool) {
	c, ok := s.clients[id]
	return c, ok
}

// DropClient runs the GONE-entry teardown for a disconnecting client
// (spec section 4.4): destroy owned screens, release key reservations,
// remove owned menu items.
func (s *Server) DropClient(c *client.Client) {
	for _, scr := range c.Screens() {
		s.Scheduler.Remove(scr)
		s.Input.ReleaseScreen(c.ID, scr.ID)
	}
	s.Input.ReleaseClient(c.ID)
	s.Menu.ReleaseClient(c.ID)
	delete(s.clients, c.ID)
	c.State = client.StateGone
}

// DestroyScreen implements scheduler.Destroyer: when the scheduler expires
// a timed-out screen (spec section 4.3 step 3) it calls back here so the
// owning client's screen set and the screen's key reservations are torn
// down the same way handleScreenDel does it for an explicit screen_del.
func (s *Server) DestroyScreen(scr *screen.Screen) {
	s.Input.ReleaseScreen(scr.ClientID, scr.ID)
	if c, ok := s.clients[scr.ClientID]; ok {
		c.RemoveScreen(scr.ID)
	}
}

// result is what a handler produces: whether it already wrote its own
// reply (hello's connect line, bye's drop), whether the connection should
// be dropped, and an error to report via huh? if non-nil.
type result struct {
	err          *protoerr.Error
	customReply  bool
	drop         bool
}

func ok() result              { return result{} }
func fail(e *protoerr.Error) result { return result{err: e} }

type handlerFunc func(s *Server, c *client.Client, args []string) result

var dispatch = map[string]handlerFunc{
	"hello":          handleHello,
	"client_set":     handleClientSet,
	"bye":            handleBye,
	"noop":           handleNoop,
	"info":           handleInfo,
	"screen_add":     handleScreenAdd,
	"screen_del":     handleScreenDel,
	"screen_set":     handleScreenSet,
	"screen_goto":    handleScreenGoto,
	"widget_add":     handleWidgetAdd,
	"widget_del":     handleWidgetDel,
	"widget_set":     handleWidgetSet,
	"key_add":        handleKeyAdd,
	"key_del":        handleKeyDel,
	"client_add_key": handleClientAddKey,
	"client_del_key": handleClientDelKey,
	"backlight":      handleBacklight,
	"cursor":         handleCursor,
	"menu_add_item":  handleMenuAddItem,
	"menu_del_item":  handleMenuDelItem,
}

// Dispatch processes one complete input line from c (spec section 4.1/
// 4.2): tokenize, look up the handler, enforce the NEW/ACTIVE gate, run it,
// and write the reply. It returns true if the connection should now be
// closed.
func (s *Server) Dispatch(c *client.Client, line string) (drop bool) {
	tokens := wire.Tokenize(line)
	if len(tokens) == 0 {
		return false
	}
	cmd, args := tokens[0], tokens[1:]

	h, known := dispatch[cmd]
	if !known {
		c.Send(protoerr.UnknownCommand().Reply())
		return false
	}

	if c.State == client.StateNew && cmd != "hello" {
		c.Send(protoerr.NotReady().Reply())
		return false
	}

	res := h(s, c, args)
	switch {
	case res.customReply:
		// handler already wrote everything it needed to.
	case res.err != nil:
		c.Send(res.err.Reply())
	default:
		c.Send("success")
	}
	return res.drop
}

func handleHello(s *Server, c *client.Client, args []string) result {
	w, h := s.Driver.Width(), s.Driver.Height()
	cw, ch := s.Driver.CellWidth(), s.Driver.CellHeight()
	c.Send(fmt.Sprintf(
		"connect LCDproc %s protocol %d.%d lcd wid %d hgt %d cellwid %d cellhgt %d",
		ServerVersion, ProtocolMajor, ProtocolMinor, w, h, cw, ch,
	))
	c.State = client.StateActive
	return result{customReply: true}
}

func handleClientSet(s *Server, c *client.Client, args []string) result {
	name, ok := flagValue(args, "-name")
	if !ok {
		return fail(protoerr.BadArguments())
	}
	c.Name = name
	return ok()
}

func handleBye(s *Server, c *client.Client, args []string) result {
	c.Send("bye")
	s.DropClient(c)
	return result{customReply: true, drop: true}
}

func handleNoop(s *Server, c *client.Client, args []string) result { return ok() }

func handleInfo(s *Server, c *client.Client, args []string) result {
	c.Send(fmt.Sprintf("%s protocol %d.%d", ServerVersion, ProtocolMajor, ProtocolMinor))
	return result{customReply: true}
}

func handleScreenAdd(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	sid := args[0]
	if _, exists := c.Screen(sid); exists {
		return fail(protoerr.DuplicateID())
	}
	scr := screen.New(sid, c.ID, s.Driver.Width(), s.Driver.Height())
	c.AddScreen(scr)
	s.Scheduler.Add(scr)
	return ok()
}

func handleScreenDel(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	scr, exists := c.Screen(args[0])
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	s.Scheduler.Remove(scr)
	s.Input.ReleaseScreen(c.ID, scr.ID)
	c.RemoveScreen(scr.ID)
	return ok()
}

func handleScreenSet(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	scr, exists := c.Screen(args[0])
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	// Options are applied one at a time and NOT rolled back on a later
	// failure (spec section 8: "the source applies partial effects...
	// the specification chooses to keep that behavior").
	opts := args[1:]
	for i := 0; i < len(opts); i++ {
		opt := opts[i]
		arg := func() (string, bool) {
			if i+1 < len(opts) {
				i++
				return opts[i], true
			}
			return "", false
		}
		switch opt {
		case "-name":
			v, has := arg()
			if !has {
				return fail(protoerr.BadArguments())
			}
			scr.Name = v
		case "-wid":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.Width = n
		case "-hgt":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.Height = n
		case "-priority":
			v, has := arg()
			if !has {
				return fail(protoerr.InvalidParameter())
			}
			if p, ok := screen.ParsePriorityName(v); ok {
				scr.Priority = p
			} else if n, err := strconv.Atoi(v); err == nil {
				scr.Priority = screen.ParsePriorityNumber(n)
			} else {
				return fail(protoerr.InvalidParameter())
			}
		case "-duration":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.Duration = n
		case "-timeout":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.Timeout = n
		case "-heartbeat":
			v, has := arg()
			if !has {
				return fail(protoerr.InvalidParameter())
			}
			switch v {
			case "on":
				scr.Heartbeat = screen.HeartbeatOn
			case "off":
				scr.Heartbeat = screen.HeartbeatOff
			case "open":
				scr.Heartbeat = screen.HeartbeatOpen
			default:
				return fail(protoerr.InvalidParameter())
			}
		case "-backlight":
			v, has := arg()
			if !has {
				return fail(protoerr.InvalidParameter())
			}
			switch v {
			case "on":
				scr.Backlight = screen.BacklightOn
			case "off":
				scr.Backlight = screen.BacklightOff
			case "open":
				scr.Backlight = screen.BacklightOpen
			case "toggle":
				scr.ToggleBacklight()
			case "blink":
				scr.Backlight = screen.BacklightBlink
			case "flash":
				scr.Backlight = screen.BacklightFlash
			default:
				return fail(protoerr.InvalidParameter())
			}
		case "-cursor":
			v, has := arg()
			if !has {
				return fail(protoerr.InvalidParameter())
			}
			switch v {
			case "off":
				scr.Cursor = screen.CursorOff
			case "on":
				scr.Cursor = screen.CursorDefault
			case "under":
				scr.Cursor = screen.CursorUnder
			case "block":
				scr.Cursor = screen.CursorBlock
			default:
				return fail(protoerr.InvalidParameter())
			}
		case "-cursor_x":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.CursorX = n
			scr.ClampCursor()
		case "-cursor_y":
			v, has := arg()
			n, err := strconv.Atoi(v)
			if !has || err != nil {
				return fail(protoerr.InvalidParameter())
			}
			scr.CursorY = n
			scr.ClampCursor()
		default:
			return fail(protoerr.InvalidParameter())
		}
	}
	return ok()
}

func handleScreenGoto(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	switch args[0] {
	case "next":
		s.Scheduler.GotoNext()
	case "prev":
		s.Scheduler.GotoPrev()
	default:
		return fail(protoerr.BadArguments())
	}
	return ok()
}

func flagValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}
