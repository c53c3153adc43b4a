package proto

import (
	"strconv"

	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/driver"
	"github.com/lcdd/lcdd/internal/lcdd/protoerr"
	"github.com/lcdd/lcdd/internal/lcdd/screen"
)

func handleWidgetAdd(s *Server, c *client.Client, args []string) result {
	if len(args) < 3 {
		return fail(protoerr.BadArguments())
	}
	sid, wid, typ := args[0], args[1], args[2]
	scr, exists := c.Screen(sid)
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	kind, ok := screen.ParseKind(typ)
	if !ok {
		return fail(protoerr.BadArguments())
	}

	container := scr
	if frameWid, has := flagValue(args[3:], "-in"); has {
		frameWidget, exists := scr.Widget(frameWid)
		if !exists {
			return fail(protoerr.UnknownWidgetID())
		}
		if frameWidget.Kind != screen.KindFrame {
			return fail(protoerr.BadArguments())
		}
		if frameWidget.Inner == nil {
			frameWidget.Inner = screen.New(frameWid+"/inner", c.ID, frameWidget.Right-frameWidget.Left+1, frameWidget.Bottom-frameWidget.Top+1)
		}
		container = frameWidget.Inner
	}

	w := &screen.Widget{ID: wid, Kind: kind}
	if kind == screen.KindFrame {
		w.Inner = screen.New(wid+"/inner", c.ID, scr.Width, scr.Height)
	}
	if err := container.AddWidget(w); err != nil {
		return fail(err.(*protoerr.Error))
	}
	return ok()
}

func handleWidgetDel(s *Server, c *client.Client, args []string) result {
	if len(args) < 2 {
		return fail(protoerr.BadArguments())
	}
	scr, exists := c.Screen(args[0])
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	if err := scr.DelWidget(args[1]); err != nil {
		return fail(err.(*protoerr.Error))
	}
	return ok()
}

func handleWidgetSet(s *Server, c *client.Client, args []string) result {
	if len(args) < 2 {
		return fail(protoerr.BadArguments())
	}
	sid, wid := args[0], args[1]
	scr, exists := c.Screen(sid)
	if !exists {
		return fail(protoerr.UnknownScreenID())
	}
	w, exists := scr.Widget(wid)
	if !exists {
		return fail(protoerr.UnknownWidgetID())
	}
	params := args[2:]

	switch w.Kind {
	case screen.KindString:
		if len(params) < 3 {
			return fail(protoerr.BadArguments())
		}
		x, y, _, perr := int2(params)
		if perr != nil {
			return fail(perr)
		}
		w.X, w.Y, w.Text = x, y, params[2]

	case screen.KindTitle:
		if len(params) < 1 {
			return fail(protoerr.BadArguments())
		}
		w.Text = params[0]

	case screen.KindHBar, screen.KindVBar:
		x, y, length, perr := int3(params)
		if perr != nil {
			return fail(perr)
		}
		w.X, w.Y, w.Length = x, y, length

	case screen.KindPBar:
		if len(params) < 4 {
			return fail(protoerr.BadArguments())
		}
		x, xerr := strconv.Atoi(params[0])
		y, yerr := strconv.Atoi(params[1])
		width, werr := strconv.Atoi(params[2])
		promille, perr := strconv.Atoi(params[3])
		if xerr != nil || yerr != nil || werr != nil || perr != nil {
			return fail(protoerr.BadArguments())
		}
		w.X, w.Y, w.Length, w.Promille = x, y, width, promille
		if len(params) > 4 {
			w.BeginLabel = params[4]
		}
		if len(params) > 5 {
			w.EndLabel = params[5]
		}

	case screen.KindIcon:
		if len(params) < 3 {
			return fail(protoerr.BadArguments())
		}
		x, xerr := strconv.Atoi(params[0])
		y, yerr := strconv.Atoi(params[1])
		if xerr != nil || yerr != nil {
			return fail(protoerr.BadArguments())
		}
		code, ok := resolveIcon(params[2])
		if !ok {
			return fail(protoerr.Unsupported("icon"))
		}
		w.X, w.Y, w.IconCode = x, y, int(code)

	case screen.KindScroller:
		if len(params) < 7 {
			return fail(protoerr.BadArguments())
		}
		left, e1 := strconv.Atoi(params[0])
		top, e2 := strconv.Atoi(params[1])
		right, e3 := strconv.Atoi(params[2])
		bottom, e4 := strconv.Atoi(params[3])
		dir, ok := screen.ParseScrollDirection(params[4])
		speed, e5 := strconv.Atoi(params[5])
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || !ok {
			return fail(protoerr.BadArguments())
		}
		w.Left, w.Top, w.Right, w.Bottom = left, top, right, bottom
		w.Direction, w.Speed, w.Text = dir, speed, params[6]

	case screen.KindFrame:
		if len(params) < 8 {
			return fail(protoerr.BadArguments())
		}
		left, e1 := strconv.Atoi(params[0])
		top, e2 := strconv.Atoi(params[1])
		right, e3 := strconv.Atoi(params[2])
		bottom, e4 := strconv.Atoi(params[3])
		innerW, e5 := strconv.Atoi(params[4])
		innerH, e6 := strconv.Atoi(params[5])
		dir, ok := screen.ParseScrollDirection(params[6])
		speed, e7 := strconv.Atoi(params[7])
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil || e7 != nil || !ok {
			return fail(protoerr.BadArguments())
		}
		w.Left, w.Top, w.Right, w.Bottom = left, top, right, bottom
		w.Direction, w.Speed = dir, speed
		if w.Inner == nil {
			w.Inner = screen.New(wid+"/inner", c.ID, innerW, innerH)
		} else {
			w.Inner.Width, w.Inner.Height = innerW, innerH
		}

	case screen.KindNum:
		if len(params) < 2 {
			return fail(protoerr.BadArguments())
		}
		x, e1 := strconv.Atoi(params[0])
		digit, e2 := strconv.Atoi(params[1])
		if e1 != nil || e2 != nil {
			return fail(protoerr.BadArguments())
		}
		w.X, w.Digit = x, digit
	}
	return ok()
}

func resolveIcon(tok string) (driver.Icon, bool) {
	if code, ok := driver.IconNames[tok]; ok {
		return code, true
	}
	if n, err := strconv.Atoi(tok); err == nil {
		return driver.Icon(n), true
	}
	return 0, false
}

func int2(params []string) (x, y, consumed int, err *protoerr.Error) {
	if len(params) < 2 {
		return 0, 0, 0, protoerr.BadArguments()
	}
	xi, e1 := strconv.Atoi(params[0])
	yi, e2 := strconv.Atoi(params[1])
	if e1 != nil || e2 != nil {
		return 0, 0, 0, protoerr.BadArguments()
	}
	return xi, yi, 2, nil
}

func int3(params []string) (x, y, z int, err *protoerr.Error) {
	if len(params) < 3 {
		return 0, 0, 0, protoerr.BadArguments()
	}
	xi, e1 := strconv.Atoi(params[0])
	yi, e2 := strconv.Atoi(params[1])
	zi, e3 := strconv.Atoi(params[2])
	if e1 != nil || e2 != nil || e3 != nil {
		return 0, 0, 0, protoerr.BadArguments()
	}
	return xi, yi, zi, nil
}
