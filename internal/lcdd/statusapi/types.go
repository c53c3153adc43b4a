package statusapi

// Snapshot is the read-only view of server state the status API serves.
// The core loop builds a fresh Snapshot at the end of every frame and
// publishes it by pointer swap (spec section D: "copy-on-publish, no
// shared mutation") — nothing under here is ever touched again by the
// loop goroutine once published, so handlers may read it from any
// goroutine without locking.
type Snapshot struct {
	Version         string          `json:"version"`
	Frame           uint32          `json:"frame"`
	UptimeSeconds   float64         `json:"uptime_seconds"`
	DriverName      string          `json:"driver_name"`
	CurrentScreenID string          `json:"current_screen_id"`
	Clients         []ClientSummary `json:"clients"`
	Screens         []ScreenSummary `json:"screens"`
}

// ClientSummary is one connected client's externally visible state (spec
// section 4.2's visibility rule: a client's own screen ids only, never
// another client's).
type ClientSummary struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	State     string   `json:"state"`
	ScreenIDs []string `json:"screen_ids"`
}

// ScreenSummary is one screen's position in the global scheduler order.
type ScreenSummary struct {
	ID       string `json:"id"`
	ClientID uint64 `json:"client_id"`
	Priority string `json:"priority"`
	Current  bool   `json:"current"`
}

// FrameSnapshot is what /ws/frame streams once per rendered frame: the
// character buffer as plain rows, good enough for a monitoring client to
// render a text-mode mirror of the display.
type FrameSnapshot struct {
	Frame uint32   `json:"frame"`
	Rows  []string `json:"rows"`
}
