package proto

import (
	"strconv"

	"github.com/lcdd/lcdd/internal/lcdd/client"
	"github.com/lcdd/lcdd/internal/lcdd/menu"
	"github.com/lcdd/lcdd/internal/lcdd/protoerr"
)

// handleMenuAddItem implements "menu_add_item {parent} <id> <type> {text}
// [options...]" (spec section 4.8). Only the option forms meaningful to
// each variant are parsed; unrecognized options are ignored rather than
// rejected, since menu support is optional and no exhaustive option list
// is enumerated.
func handleMenuAddItem(s *Server, c *client.Client, args []string) result {
	if len(args) < 3 {
		return fail(protoerr.BadArguments())
	}
	parentID, id, typ := args[0], args[1], args[2]
	kind, ok := menu.ParseKind(typ)
	if !ok {
		return fail(protoerr.BadArguments())
	}
	it := &menu.Item{ID: id, ClientID: c.ID, Kind: kind}
	rest := args[3:]
	if len(rest) > 0 && rest[0][0] != '-' {
		it.Text = rest[0]
		rest = rest[1:]
	}
	applyMenuOptions(it, rest)

	if err := s.Menu.AddItem(parentID, it); err != nil {
		return fail(err.(*protoerr.Error))
	}
	c.MenuItemIDs[id] = struct{}{}
	return ok()
}

func applyMenuOptions(it *menu.Item, opts []string) {
	for i := 0; i < len(opts); i++ {
		switch opts[i] {
		case "-next":
			if i+1 < len(opts) {
				i++
				it.NextID = opts[i]
			}
		case "-prev":
			if i+1 < len(opts) {
				i++
				it.PrevID = opts[i]
			}
		case "-min":
			if i+1 < len(opts) {
				i++
				it.Min, _ = strconv.Atoi(opts[i])
			}
		case "-max":
			if i+1 < len(opts) {
				i++
				it.Max, _ = strconv.Atoi(opts[i])
			}
		case "-value":
			if i+1 < len(opts) {
				i++
				it.Value, _ = strconv.Atoi(opts[i])
			}
		case "-step":
			if i+1 < len(opts) {
				i++
				it.Step, _ = strconv.Atoi(opts[i])
			}
		}
	}
}

func handleMenuDelItem(s *Server, c *client.Client, args []string) result {
	if len(args) < 1 {
		return fail(protoerr.BadArguments())
	}
	if err := s.Menu.DelItem(args[0]); err != nil {
		return fail(err.(*protoerr.Error))
	}
	delete(c.MenuItemIDs, args[0])
	return ok()
}
