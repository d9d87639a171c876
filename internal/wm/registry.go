package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/mosaic"
)

// Registry owns every managed client and resolves lookups by content or
// decoration window id to the same entity. All mutation happens on the
// dispatch goroutine, so no locking is required.
type Registry struct {
	display Display
	hints   Hints
	notify  Notifier

	borderWidth int
	titleHeight int

	byWindow map[xproto.Window]*Client
	byParent map[xproto.Window]*Client

	// stacking holds clients in most-recently-raised-first order, split
	// by layer at restack time.
	stacking []*Client

	active *Client

	// placed counts auto-placed clients for the cascade offset.
	placed int
}

func NewRegistry(display Display, hints Hints, notify Notifier, borderWidth, titleHeight int) *Registry {
	return &Registry{
		display:     display,
		hints:       hints,
		notify:      notify,
		borderWidth: borderWidth,
		titleHeight: titleHeight,
		byWindow:    make(map[xproto.Window]*Client),
		byParent:    make(map[xproto.Window]*Client),
	}
}

// FindByWindow looks up a client by its content window id.
func (r *Registry) FindByWindow(win xproto.Window) (*Client, bool) {
	c, ok := r.byWindow[win]
	return c, ok
}

// FindByParent looks up a client by its decoration window id.
func (r *Registry) FindByParent(win xproto.Window) (*Client, bool) {
	c, ok := r.byParent[win]
	return c, ok
}

// Count returns the number of managed clients.
func (r *Registry) Count() int {
	return len(r.byWindow)
}

// Clients returns the managed clients in stacking order. The returned
// slice is shared; callers must not retain it across dispatches.
func (r *Registry) Clients() []*Client {
	return r.stacking
}

// Active returns the focused client, if any.
func (r *Registry) Active() (*Client, bool) {
	return r.active, r.active != nil
}

func (r *Registry) setActive(c *Client) {
	if r.active != nil && r.active != c {
		r.active.State.Active = false
		r.notify.DrawBorder(r.active)
	}
	r.active = c
	if c != nil {
		c.State.Active = true
	}
}

// Add brings a content window under management. It tolerates the window
// disappearing between event and processing: a nil client with a nil
// error means the window is not manageable and the caller should fall
// back to mapping it unmanaged.
func (r *Registry) Add(win xproto.Window, isOverride, alreadyMapped bool) (*Client, error) {
	if c, ok := r.byWindow[win]; ok {
		return c, nil
	}
	if isOverride {
		return nil, nil
	}

	state, ok := r.hints.ReadWindowState(win, alreadyMapped)
	if !ok {
		slog.Debug("Window not manageable", "window", win)
		return nil, nil
	}
	g, ok := r.display.GetGeometry(win)
	if !ok {
		// Destroyed between the event and processing.
		slog.Debug("Window vanished before management", "window", win)
		return nil, nil
	}

	c := &Client{
		Window:    win,
		X:         g.X,
		Y:         g.Y,
		Width:     g.Width,
		Height:    g.Height,
		State:     state,
		Name:      r.hints.ReadName(win),
		Class:     r.hints.ReadClass(win),
		Protocols: r.hints.ReadProtocols(win),
		SizeHints: r.hints.ReadNormalHints(win),
	}
	if cmaps := r.hints.ReadColormaps(win); len(cmaps) > 0 {
		c.Colormap = cmaps[0]
	}
	c.Width, c.Height = clampSize(c.SizeHints, c.Width, c.Height)

	// Windows that did not ask for a position get cascade placement.
	if c.X == 0 && c.Y == 0 && !c.State.Dialog && !alreadyMapped {
		if root, ok := r.display.GetGeometry(r.display.Root()); ok {
			c.X, c.Y = mosaic.CascadeOrigin(r.placed, r.titleHeight+r.borderWidth, r.titleHeight+r.borderWidth,
				root.Width, root.Height, c.Width, c.Height)
			r.placed++
		}
	}

	in := c.Insets(r.borderWidth, r.titleHeight)
	parent, err := r.display.CreateFrame(win, c.Geometry(), in)
	if err != nil {
		return nil, err
	}
	c.Parent = parent

	r.byWindow[c.Window] = c
	r.byParent[c.Parent] = c
	r.stacking = append([]*Client{c}, r.stacking...)

	r.hints.WriteState(c)
	r.hints.WriteFrameExtents(win, in)

	if c.State.Mapped {
		r.display.Map(c.Window)
		if c.Parent != c.Window {
			r.display.Map(c.Parent)
		}
	}

	r.notify.UpdateTaskBar()
	r.notify.UpdatePager()

	slog.Debug("Added client", "window", c.Window, "parent", c.Parent, "name", c.Name)
	return c, nil
}

// Remove deregisters both ids and destroys the decoration. It is
// idempotent against a destroy followed by a late unmap for the same
// logical removal; the controller ending signal fires at most once.
func (r *Registry) Remove(c *Client) {
	if existing, ok := r.byWindow[c.Window]; !ok || existing != c {
		return
	}

	c.end()

	delete(r.byWindow, c.Window)
	delete(r.byParent, c.Parent)
	for i, other := range r.stacking {
		if other == c {
			r.stacking = append(r.stacking[:i], r.stacking[i+1:]...)
			break
		}
	}
	if r.active == c {
		r.active = nil
	}

	if c.Parent != c.Window {
		r.display.DestroyFrame(c.Parent)
	}

	r.notify.UpdateTaskBar()
	r.notify.UpdatePager()

	slog.Debug("Removed client", "window", c.Window, "name", c.Name)
}

func clampSize(h SizeHints, width, height int) (int, int) {
	if h.MinWidth > 0 && width < h.MinWidth {
		width = h.MinWidth
	}
	if h.MinHeight > 0 && height < h.MinHeight {
		height = h.MinHeight
	}
	if h.MaxWidth > 0 && width > h.MaxWidth {
		width = h.MaxWidth
	}
	if h.MaxHeight > 0 && height > h.MaxHeight {
		height = h.MaxHeight
	}
	return width, height
}
