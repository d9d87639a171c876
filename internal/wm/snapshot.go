package wm

// ClientSummary is a read-only JSON view of one managed client.
type ClientSummary struct {
	Window    uint32 `json:"window"`
	Frame     uint32 `json:"frame"`
	Name      string `json:"name"`
	Class     string `json:"class"`
	Desktop   uint32 `json:"desktop"`
	Layer     uint8  `json:"layer"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Active    bool   `json:"active"`
	Sticky    bool   `json:"sticky"`
	Mapped    bool   `json:"mapped"`
	Minimized bool   `json:"minimized"`
	Shaded    bool   `json:"shaded"`
	Maximized bool   `json:"maximized"`
	Dialog    bool   `json:"dialog"`
}

// Snapshot is a point-in-time view of the manager, published whenever
// visible state changes. It is safe to hand across goroutines.
type Snapshot struct {
	Desktop      uint32          `json:"desktop"`
	DesktopCount uint32          `json:"desktopCount"`
	ActiveWindow uint32          `json:"activeWindow"`
	Clients      []ClientSummary `json:"clients"`
}

// Snapshot builds the current view. It must only be called from inside
// the dispatch loop.
func (d *Dispatcher) Snapshot() Snapshot {
	snap := Snapshot{
		Desktop:      d.currentDesktop,
		DesktopCount: d.desktopCount,
	}
	active, hasActive := d.registry.Active()
	if hasActive {
		snap.ActiveWindow = uint32(active.Window)
	}
	for _, c := range d.registry.Clients() {
		snap.Clients = append(snap.Clients, ClientSummary{
			Window:    uint32(c.Window),
			Frame:     uint32(c.Parent),
			Name:      c.Name,
			Class:     c.Class,
			Desktop:   c.State.Desktop,
			Layer:     uint8(c.State.Layer),
			X:         c.X,
			Y:         c.Y,
			Width:     c.Width,
			Height:    c.Height,
			Active:    hasActive && c == active,
			Sticky:    c.State.Sticky,
			Mapped:    c.State.Mapped,
			Minimized: c.State.Minimized,
			Shaded:    c.State.Shaded,
			Maximized: c.State.Maximized(),
			Dialog:    c.State.Dialog,
		})
	}
	return snap
}
