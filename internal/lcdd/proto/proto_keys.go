package proto

import (
	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/protoerr"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
)

func handleKeyAdd(s *Server, c *client.Client, args []string) result {
	if len(args) < 2 {
		return fail(protoerr.BadArguments())
	}
	scr, exists := c.Screen(args[0])
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	for _, key := range args[1:] {
		scr.AddKey(key)
		s.Input.AddFromScreen(key, c.ID, scr.ID)
	}
	return ok()
}

func handleKeyDel(s *Server, c *client.Client, args []string) result {
	if len(args) < 2 {
		return fail(protoerr.BadArguments())
	}
	scr, exists := c.Screen(args[0])
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	for _, key := range args[1:] {
		scr.DelKey(key)
	}
	return ok()
}

func handleClientAddKey(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	key := args[0]
	exclusive := false
	for _, a := range args[1:] {
		switch a {
		case "-exclusive":
			exclusive = true
		case "-shared":
			exclusive = false
		}
	}
	var err error
	if exclusive {
		err = s.Input.AddExclusive(key, c.ID)
	} else {
		err = s.Input.AddShared(key, c.ID)
	}
	if err != nil {
		return fail(err.(*protoerr.Error))
	}
	c.Keys[key] = struct{}{}
	return ok()
}

func handleClientDelKey(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	if err := s.Input.Del(args[0], c.ID); err != nil {
		return fail(err.(*protoerr.Error))
	}
	delete(c.Keys, args[0])
	return ok()
}

func handleBacklight(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	scr := s.Scheduler.Current()
	if scr == nil {
		return ok()
	}
	switch args[0] {
	case "on":
		scr.Backlight = screen.BacklightOn
	case "off":
		scr.Backlight = screen.BacklightOff
	case "toggle":
		scr.ToggleBacklight()
	case "blink":
		scr.Backlight = screen.BacklightBlink
	case "flash":
		scr.Backlight = screen.BacklightFlash
	default:
		return fail(protoerr.BadArguments())
	}
	return ok()
}

func handleCursor(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	scr := s.Scheduler.Current()
	if scr == nil {
		return ok()
	}
	switch args[0] {
	case "off":
		scr.Cursor = screen.CursorOff
	case "on":
		scr.Cursor = screen.CursorDefault
	case "under":
		scr.Cursor = screen.CursorUnder
	case "block":
		scr.Cursor = screen.CursorBlock
	default:
		return fail(protoerr.BadArguments())
	}
	return ok()
}
