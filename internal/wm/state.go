package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/mosaic"
)

// MinimizeClient hides the client without forgetting it.
func (d *Dispatcher) MinimizeClient(c *Client) {
	c.interrupt()

	if c.State.Mapped {
		d.display.Unmap(c.Window)
		if c.Parent != c.Window {
			d.display.Unmap(c.Parent)
		}
	}
	c.State.Mapped = false
	c.State.Minimized = true
	if c.State.Active {
		c.State.Active = false
		d.registry.setActive(nil)
	}

	d.hints.WriteState(c)
	d.notify.UpdateTaskBar()
	d.notify.UpdatePager()
}

// RestoreClient remaps a minimized or withdrawn client and raises it.
func (d *Dispatcher) RestoreClient(c *Client) {
	c.State.Minimized = false
	c.State.Withdrawn = false
	if !c.State.Mapped {
		c.State.Mapped = true
		d.display.Map(c.Window)
		if c.Parent != c.Window {
			d.display.Map(c.Parent)
		}
	}
	d.RaiseClient(c)
	if d.focusModel == FocusClick {
		d.FocusClient(c)
	}

	d.hints.WriteState(c)
	d.notify.UpdateTaskBar()
	d.notify.UpdatePager()
}

// ShadeClient collapses the client to its title bar. The stored content
// size is untouched; the height collapse is a rendering concern.
func (d *Dispatcher) ShadeClient(c *Client) {
	if c.State.Shaded {
		return
	}
	c.State.Shaded = true
	d.hints.WriteState(c)
	d.notify.DrawBorder(c)
	d.notify.UpdatePager()
}

func (d *Dispatcher) UnshadeClient(c *Client) {
	if !c.State.Shaded {
		return
	}
	c.State.Shaded = false
	d.hints.WriteState(c)
	d.notify.DrawBorder(c)
	d.notify.UpdatePager()
}

// MaximizeClient toggles both maximize axes. The pre-maximize geometry is
// remembered so the second call restores it exactly.
func (d *Dispatcher) MaximizeClient(c *Client) {
	d.maximizeClient(c, true, true)
}

// MaximizeClientHorz toggles the horizontal axis only.
func (d *Dispatcher) MaximizeClientHorz(c *Client) {
	d.maximizeClient(c, true, false)
}

// MaximizeClientVert toggles the vertical axis only.
func (d *Dispatcher) MaximizeClientVert(c *Client) {
	d.maximizeClient(c, false, true)
}

func (d *Dispatcher) maximizeClient(c *Client, horz, vert bool) {
	c.interrupt()

	if c.State.Maximized() {
		c.State.MaximizedHorz = false
		c.State.MaximizedVert = false
		if c.restore != nil {
			g := *c.restore
			c.restore = nil
			d.applyGeometry(c, g)
		}
	} else {
		saved := c.Geometry()
		c.restore = &saved

		root, ok := d.display.GetGeometry(d.display.Root())
		if !ok {
			c.restore = nil
			return
		}
		in := c.Insets(d.borderWidth, d.titleHeight)

		g := c.Geometry()
		if horz {
			c.State.MaximizedHorz = true
			g.X = in.West
			g.Width = root.Width - in.East - in.West
		}
		if vert {
			c.State.MaximizedVert = true
			g.Y = in.North
			g.Height = root.Height - in.North - in.South
		}
		d.applyGeometry(c, g)
	}

	d.RaiseClient(c)
	d.hints.WriteState(c)
	d.notify.DrawBorder(c)
	d.notify.UpdatePager()
}

// SetClientSticky pins the client to all desktops or returns it to the
// current one.
func (d *Dispatcher) SetClientSticky(c *Client, sticky bool) {
	if c.State.Sticky == sticky {
		return
	}
	c.State.Sticky = sticky
	if sticky {
		c.State.Desktop = AllDesktops
	} else {
		c.State.Desktop = d.currentDesktop
	}
	d.hints.WriteState(c)
	d.notify.UpdatePager()
}

// SetClientDesktop assigns a concrete desktop. Out-of-range indices are
// rejected and leave the prior assignment untouched.
func (d *Dispatcher) SetClientDesktop(c *Client, desktop uint32) {
	if desktop >= d.desktopCount {
		slog.Debug("Rejecting desktop assignment", "window", c.Window, "desktop", desktop)
		return
	}
	c.State.Sticky = false
	c.State.Desktop = desktop

	switch {
	case c.State.Minimized || c.State.Withdrawn:
		// Stays hidden until restored.
	case desktop == d.currentDesktop && !c.State.Mapped:
		c.State.Mapped = true
		d.display.Map(c.Window)
		if c.Parent != c.Window {
			d.display.Map(c.Parent)
		}
	case desktop != d.currentDesktop && c.State.Mapped:
		c.State.Mapped = false
		d.display.Unmap(c.Window)
		if c.Parent != c.Window {
			d.display.Unmap(c.Parent)
		}
	}

	d.hints.WriteState(c)
	d.notify.UpdateTaskBar()
	d.notify.UpdatePager()
}

// SetClientWithdrawn unmaps both windows but keeps the entity registered
// for possible restoration.
func (d *Dispatcher) SetClientWithdrawn(c *Client, withdrawn bool) {
	if c.State.Withdrawn == withdrawn {
		return
	}
	if withdrawn {
		c.State.Withdrawn = true
		if c.State.Mapped {
			c.State.Mapped = false
			d.display.Unmap(c.Window)
			if c.Parent != c.Window {
				d.display.Unmap(c.Parent)
			}
		}
		if c.State.Active {
			c.State.Active = false
			d.registry.setActive(nil)
		}
	} else {
		c.State.Withdrawn = false
	}
	d.hints.WriteState(c)
	d.notify.UpdateTaskBar()
	d.notify.UpdatePager()
}

// SetClientLayer moves the client to another stacking layer.
func (d *Dispatcher) SetClientLayer(c *Client, layer Layer) {
	if layer > LayerAbove {
		slog.Debug("Rejecting layer change", "window", c.Window, "layer", layer)
		return
	}
	if c.State.Layer == layer {
		return
	}
	c.State.Layer = layer
	d.hints.WriteState(c)
	d.RestackClients()
}

// DeleteClient asks the client to close, via protocol when supported.
func (d *Dispatcher) DeleteClient(c *Client) {
	d.display.CloseWindow(c.Window, c.Protocols)
}

// FocusClient gives the client input focus and marks it active.
func (d *Dispatcher) FocusClient(c *Client) {
	if c.State.Active {
		return
	}
	d.registry.setActive(c)
	d.display.SetInputFocus(c.Window)
	d.notify.DrawBorder(c)
	d.notify.UpdateTaskBar()
}

// FocusNext cycles focus to the next mapped client on the current desktop.
func (d *Dispatcher) FocusNext() {
	clients := d.registry.Clients()
	if len(clients) == 0 {
		return
	}
	start := 0
	if active, ok := d.registry.Active(); ok {
		for i, c := range clients {
			if c == active {
				start = i + 1
				break
			}
		}
	}
	for i := 0; i < len(clients); i++ {
		c := clients[(start+i)%len(clients)]
		if !c.State.Mapped || c.State.NoList {
			continue
		}
		if !c.State.Sticky && c.State.Desktop != d.currentDesktop {
			continue
		}
		d.RaiseClient(c)
		d.FocusClient(c)
		return
	}
}

// RaiseClient brings the client to the top of its layer.
func (d *Dispatcher) RaiseClient(c *Client) {
	clients := d.registry.stacking
	for i, other := range clients {
		if other == c {
			copy(clients[1:i+1], clients[:i])
			clients[0] = c
			break
		}
	}
	d.RestackClients()
}

// LowerClient pushes the client to the bottom of its layer.
func (d *Dispatcher) LowerClient(c *Client) {
	clients := d.registry.stacking
	for i, other := range clients {
		if other == c {
			copy(clients[i:], clients[i+1:])
			clients[len(clients)-1] = c
			break
		}
	}
	d.RestackClients()
}

// RestackClients pushes the layer-ordered stacking to the server, topmost
// first.
func (d *Dispatcher) RestackClients() {
	order := make([]xproto.Window, 0, len(d.registry.stacking))
	for layer := int(LayerAbove); layer >= int(LayerDesktop); layer-- {
		for _, c := range d.registry.stacking {
			if c.State.Layer != Layer(layer) {
				continue
			}
			order = append(order, c.Parent)
		}
	}
	d.display.Restack(order)
	d.notify.UpdatePager()
}

// ChangeDesktop switches the visible desktop, mapping and unmapping
// clients as needed.
func (d *Dispatcher) ChangeDesktop(desktop uint32) {
	if desktop >= d.desktopCount || desktop == d.currentDesktop {
		if desktop >= d.desktopCount {
			slog.Debug("Rejecting desktop switch", "desktop", desktop)
		}
		return
	}
	d.currentDesktop = desktop

	for _, c := range d.registry.Clients() {
		if c.State.Sticky || c.State.Minimized || c.State.Withdrawn {
			continue
		}
		if c.State.Desktop == desktop && !c.State.Mapped {
			c.State.Mapped = true
			d.display.Map(c.Window)
			if c.Parent != c.Window {
				d.display.Map(c.Parent)
			}
		} else if c.State.Desktop != desktop && c.State.Mapped {
			c.State.Mapped = false
			d.display.Unmap(c.Window)
			if c.Parent != c.Window {
				d.display.Unmap(c.Parent)
			}
		}
	}

	d.notify.UpdateTaskBar()
	d.notify.UpdatePager()
}

// NextDesktop advances to the next desktop, wrapping around.
func (d *Dispatcher) NextDesktop() {
	d.ChangeDesktop((d.currentDesktop + 1) % d.desktopCount)
}

// ArrangeClients tiles the mapped, unpinned clients of the current
// desktop into a grid covering the root window.
func (d *Dispatcher) ArrangeClients() {
	var targets []*Client
	for _, c := range d.registry.Clients() {
		if !c.State.Mapped || c.State.Minimized || c.State.Shaded {
			continue
		}
		if c.State.Layer != LayerNormal {
			continue
		}
		if !c.State.Sticky && c.State.Desktop != d.currentDesktop {
			continue
		}
		targets = append(targets, c)
	}
	if len(targets) == 0 {
		return
	}

	root, ok := d.display.GetGeometry(d.display.Root())
	if !ok {
		return
	}

	m := mosaic.New(mosaic.NewLayoutGridCount(len(targets)))
	cells := m.Cells(root.Width, root.Height)
	for i, c := range targets {
		if i >= len(cells) {
			break
		}
		in := c.Insets(d.borderWidth, d.titleHeight)
		d.applyGeometry(c, Geometry{
			X:      cells[i].X,
			Y:      cells[i].Y,
			Width:  max(1, cells[i].Width-in.East-in.West),
			Height: max(1, cells[i].Height-in.North-in.South),
		})
	}
	d.notify.UpdatePager()
}
