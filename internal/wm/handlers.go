package wm

import (
	"log/slog"

	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
)

// handleConfigureRequest reconciles a configure request. Managed clients
// get the synchronized two-step reconfiguration; anything else is passed
// through verbatim.
func (d *Dispatcher) handleConfigureRequest(ev xproto.ConfigureRequestEvent) {
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok || c.Window != ev.Window {
		d.display.Configure(ev.Window, Geometry{
			X:      int(ev.X),
			Y:      int(ev.Y),
			Width:  int(ev.Width),
			Height: int(ev.Height),
		})
		return
	}

	c.interrupt()

	changed := false
	g := c.Geometry()
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 && int(ev.Width) != g.Width {
		g.Width = int(ev.Width)
		changed = true
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 && int(ev.Height) != g.Height {
		g.Height = int(ev.Height)
		changed = true
	}
	if ev.ValueMask&xproto.ConfigWindowX != 0 && int(ev.X) != g.X {
		g.X = int(ev.X)
		changed = true
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 && int(ev.Y) != g.Y {
		g.Y = int(ev.Y)
		changed = true
	}
	if !changed {
		return
	}

	d.applyGeometry(c, g)
}

// applyGeometry moves the client to g, keeping the content window inside
// the decoration at every intermediate step. Dimensions that shrink are
// applied to the content first and to the frame last; growth goes the
// other way around.
func (d *Dispatcher) applyGeometry(c *Client, g Geometry) {
	in := c.Insets(d.borderWidth, d.titleHeight)

	clampW := min(c.Width, g.Width)
	clampH := min(c.Height, g.Height)
	if clampW != c.Width || clampH != c.Height {
		d.display.Configure(c.Window, Geometry{
			X: in.West, Y: in.North, Width: clampW, Height: clampH,
		})
	}

	c.X, c.Y, c.Width, c.Height = g.X, g.Y, g.Width, g.Height

	d.display.Configure(c.Parent, Geometry{
		X:      c.X,
		Y:      c.Y,
		Width:  c.Width + in.East + in.West,
		Height: c.Height + in.North + in.South,
	})
	d.display.Configure(c.Window, Geometry{
		X: in.West, Y: in.North, Width: c.Width, Height: c.Height,
	})

	d.notify.DrawBorder(c)
	d.notify.UpdatePager()
}

// handleMapRequest registers or remaps a window. First-time registration
// runs inside a grab so no other event interleaves with the transaction.
func (d *Dispatcher) handleMapRequest(ev xproto.MapRequestEvent) {
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok {
		d.display.Sync()
		d.display.GrabServer()
		c, err := d.registry.Add(ev.Window, false, false)
		if err != nil {
			slog.Error("Failed to manage window", "window", ev.Window, "error", err)
		}
		if c != nil {
			if d.focusModel == FocusClick {
				d.FocusClient(c)
			}
		} else {
			// Not manageable; let it map on its own.
			d.display.Map(ev.Window)
		}
		d.display.UngrabServer()
		d.display.Sync()
	} else if !c.State.Mapped {
		c.State.Mapped = true
		c.State.Minimized = false
		c.State.Withdrawn = false
		d.display.Map(c.Window)
		if c.Parent != c.Window {
			d.display.Map(c.Parent)
		}
		d.RaiseClient(c)
		if d.focusModel == FocusClick {
			d.FocusClient(c)
		}
		d.hints.WriteState(c)
		d.notify.UpdateTaskBar()
		d.notify.UpdatePager()
	}
	d.RestackClients()
}

// handleUnmapNotify marks a client unmapped. The entity stays registered;
// only a destroy or explicit withdraw forgets it.
func (d *Dispatcher) handleUnmapNotify(ev xproto.UnmapNotifyEvent) {
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok || c.Window != ev.Window {
		return
	}

	c.end()

	if c.State.Mapped {
		c.State.Mapped = false
		if c.Parent != c.Window {
			d.display.Unmap(c.Parent)
		}
		d.hints.WriteState(c)
	}
}

func (d *Dispatcher) handleDestroyNotify(ev xproto.DestroyNotifyEvent) bool {
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok || c.Window != ev.Window {
		return false
	}
	d.registry.Remove(c)
	return true
}

// handlePropertyNotify refreshes cached metadata. Events on dialog
// content windows are left unhandled so the dialog collaborator sees
// them; root window properties carry restart/exit requests.
func (d *Dispatcher) handlePropertyNotify(ev xproto.PropertyNotifyEvent) bool {
	c, ok := d.registry.FindByWindow(ev.Window)
	if ok {
		changed := false
		switch d.hints.ClassifyProperty(ev.Atom) {
		case PropertyName:
			c.Name = d.hints.ReadName(c.Window)
			changed = true
		case PropertyNormalHints:
			c.SizeHints = d.hints.ReadNormalHints(c.Window)
			changed = true
		case PropertyColormapWindows:
			if cmaps := d.hints.ReadColormaps(c.Window); len(cmaps) > 0 {
				c.Colormap = cmaps[0]
				d.display.InstallColormap(c.Colormap)
			}
		}

		if changed {
			d.notify.DrawBorder(c)
			d.notify.UpdateTaskBar()
			d.notify.UpdatePager()
		}
		return !c.State.Dialog
	}

	if ev.Window == d.display.Root() {
		switch d.hints.ClassifyProperty(ev.Atom) {
		case PropertyRestart:
			d.Restart()
		case PropertyExit:
			d.Exit()
		}
	}
	return true
}

// handleExpose requests a frame redraw. Content exposes on dialogs are
// left for the dialog collaborator.
func (d *Dispatcher) handleExpose(ev xproto.ExposeEvent) bool {
	if ev.Count != 0 {
		return true
	}
	if c, ok := d.registry.FindByParent(ev.Window); ok {
		d.notify.DrawBorder(c)
		return true
	}
	if c, ok := d.registry.FindByWindow(ev.Window); ok {
		return !c.State.Dialog
	}
	return false
}

// handleConfigureNotify re-applies the shape mask after a geometry change
// on shaped clients.
func (d *Dispatcher) handleConfigureNotify(ev xproto.ConfigureNotifyEvent) {
	c, ok := d.registry.FindByWindow(ev.Window)
	if ok && c.State.UsesShape {
		d.display.ApplyShape(c)
	}
}

func (d *Dispatcher) handleShapeNotify(ev shape.NotifyEvent) {
	c, ok := d.registry.FindByWindow(ev.AffectedWindow)
	if !ok {
		return
	}
	c.State.UsesShape = true
	d.display.ApplyShape(c)
}

// handleColormapChange tracks colormap installs. Only events announcing a
// new colormap are processed.
func (d *Dispatcher) handleColormapChange(ev xproto.ColormapNotifyEvent) {
	if !ev.New {
		return
	}
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok {
		return
	}
	c.Colormap = ev.Colormap
	d.display.InstallColormap(c.Colormap)
}

// handleEnterNotify implements sloppy focus and frame cursor updates. The
// resolved action zone is cached so motion does not redefine the cursor.
func (d *Dispatcher) handleEnterNotify(ev xproto.EnterNotifyEvent) {
	c, ok := d.registry.FindByWindow(ev.Event)
	if !ok {
		c, ok = d.registry.FindByParent(ev.Event)
	}
	if !ok {
		return
	}

	if !c.State.Active && d.focusModel == FocusSloppy {
		d.FocusClient(c)
	}
	if c.Parent == ev.Event {
		c.BorderAction = ResolveBorderAction(c, int(ev.EventX), int(ev.EventY), d.borderWidth, d.titleHeight)
		d.display.DefineCursor(c.Parent, c.BorderAction)
	} else if c.BorderAction != ActionNone {
		d.display.DefaultCursor(c.Parent)
		c.BorderAction = ActionNone
	}
}

func (d *Dispatcher) handleLeaveNotify(ev xproto.LeaveNotifyEvent) {
	c, ok := d.registry.FindByParent(ev.Event)
	if !ok {
		return
	}
	d.display.DefaultCursor(c.Parent)
}

// handleMotionNotify updates the frame cursor when the hit-test zone
// changes under the pointer.
func (d *Dispatcher) handleMotionNotify(ev xproto.MotionNotifyEvent) {
	c, ok := d.registry.FindByParent(ev.Event)
	if !ok || !c.State.Border.Outline {
		return
	}
	action := ResolveBorderAction(c, int(ev.EventX), int(ev.EventY), d.borderWidth, d.titleHeight)
	if c.BorderAction != action {
		c.BorderAction = action
		d.display.DefineCursor(c.Parent, action)
	}
}

// handleClientMessage decodes and applies a typed command. Unknown
// subtypes are logged and consumed without touching state.
func (d *Dispatcher) handleClientMessage(ev xproto.ClientMessageEvent) {
	c, ok := d.registry.FindByWindow(ev.Window)
	if !ok {
		return
	}
	msg := d.hints.DecodeMessage(ev)
	d.applyMessage(c, msg)
}

func (d *Dispatcher) applyMessage(c *Client, msg Message) {
	switch msg.Kind {
	case MessageWinState:
		if msg.WinStateMask&WinStateSticky != 0 {
			d.SetClientSticky(c, msg.WinStateFlags&WinStateSticky != 0)
		}
		if msg.WinStateMask&WinStateHidden != 0 {
			c.State.NoList = msg.WinStateFlags&WinStateHidden != 0
			d.notify.UpdateTaskBar()
			d.notify.UpdatePager()
		}

	case MessageWinLayer:
		d.SetClientLayer(c, msg.Layer)

	case MessageChangeState:
		c.interrupt()
		switch msg.Lifecycle {
		case LifecycleWithdrawn:
			d.SetClientWithdrawn(c, true)
		case LifecycleIconic:
			d.MinimizeClient(c)
		case LifecycleNormal:
			d.RestoreClient(c)
		}

	case MessageActiveWindow:
		d.RestoreClient(c)
		d.FocusClient(c)

	case MessageDesktop:
		if msg.Desktop == AllDesktops {
			d.SetClientSticky(c, true)
			return
		}
		c.interrupt()
		if msg.Desktop >= d.desktopCount {
			slog.Debug("Desktop index out of range", "window", c.Window, "desktop", msg.Desktop)
			return
		}
		c.State.Sticky = false
		d.SetClientDesktop(c, msg.Desktop)

	case MessageClose:
		d.DeleteClient(c)

	case MessageNetState:
		if msg.StateAction >= stateActionCount {
			slog.Debug("Bad state action", "window", c.Window, "action", msg.StateAction)
			return
		}
		d.applyStateFlags(c, msg.StateAction, msg.StateFlags)

	default:
		slog.Debug("Unknown client message", "window", c.Window, "type", msg.TypeName)
	}
}

// applyStateFlags applies up to two simultaneous sub-actions. Each flag is
// an independent transition; there is no combined semantic.
func (d *Dispatcher) applyStateFlags(c *Client, action StateAction, flags StateFlags) {
	switch action {
	case StateRemove:
		if flags.Sticky {
			d.SetClientSticky(c, false)
		}
		if flags.Maximize && c.State.Maximized() {
			d.MaximizeClient(c)
		}
		if flags.Shade {
			d.UnshadeClient(c)
		}
	case StateAdd:
		if flags.Sticky {
			d.SetClientSticky(c, true)
		}
		if flags.Maximize && !c.State.Maximized() {
			d.MaximizeClient(c)
		}
		if flags.Shade {
			d.ShadeClient(c)
		}
	case StateToggle:
		if flags.Sticky {
			d.SetClientSticky(c, !c.State.Sticky)
		}
		if flags.Maximize {
			d.MaximizeClient(c)
		}
		if flags.Shade {
			if c.State.Shaded {
				d.UnshadeClient(c)
			} else {
				d.ShadeClient(c)
			}
		}
	}
}
