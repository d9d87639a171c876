package wm

import (
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// NavKeys are the keycodes the keyboard move/resize loops react to,
// resolved from the server keymap at startup.
type NavKeys struct {
	Return xproto.Keycode
	Escape xproto.Keycode
	Up     xproto.Keycode
	Down   xproto.Keycode
	Left   xproto.Keycode
	Right  xproto.Keycode
}

// Fallback codes for when no keymap is available. These are the usual
// evdev positions for the arrow keys, Return and Escape.
const (
	keycodeReturn xproto.Keycode = 36
	keycodeEscape xproto.Keycode = 9
	keycodeUp     xproto.Keycode = 111
	keycodeLeft   xproto.Keycode = 113
	keycodeRight  xproto.Keycode = 114
	keycodeDown   xproto.Keycode = 116
)

func defaultNavKeys() NavKeys {
	return NavKeys{
		Return: keycodeReturn,
		Escape: keycodeEscape,
		Up:     keycodeUp,
		Down:   keycodeDown,
		Left:   keycodeLeft,
		Right:  keycodeRight,
	}
}

// moveThreshold is how far the pointer must travel before a press counts
// as a move rather than a click.
const moveThreshold = 2

// nextEvent returns the next queued event, preferring events deferred by
// motion coalescing. It blocks until one arrives.
func (d *Dispatcher) nextEvent() (xgb.Event, bool) {
	if len(d.pending) > 0 {
		ev := d.pending[0]
		d.pending = d.pending[1:]
		return ev, true
	}
	ev, ok := <-d.events
	return ev, ok
}

// MoveClient runs the interactive move loop until the button is released
// or the client goes away. It reports whether the client actually moved,
// which feeds the double-click disarm.
func (d *Dispatcher) MoveClient(c *Client, startX, startY int16) bool {
	if err := d.display.GrabPointer(c.Parent); err != nil {
		slog.Debug("Pointer grab failed", "window", c.Window, "error", err)
		return false
	}
	defer d.display.UngrabPointer()

	canceled := false
	c.SetController(func(ending bool) { canceled = true })
	defer func() {
		if !canceled {
			c.SetController(nil)
		}
	}()

	// Events for the outer dispatcher are parked locally so nextEvent
	// does not hand them straight back to this loop.
	var deferred []xgb.Event
	defer func() { d.pending = append(deferred, d.pending...) }()

	moved := false
	for !canceled {
		ev, ok := d.nextEvent()
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case xproto.MotionNotifyEvent:
			m := d.coalesceMotion(ev)
			newX := int(m.RootX) - int(startX)
			newY := int(m.RootY) - int(startY)
			if !moved && (absInt(newX-c.X) > moveThreshold || absInt(newY-c.Y) > moveThreshold) {
				moved = true
			}
			if moved {
				in := c.Insets(d.borderWidth, d.titleHeight)
				frameW := c.Width + in.East + in.West
				frameH := c.Height + in.North + in.South
				newX, newY = d.snapToScreen(newX, newY, frameW, frameH)
				c.X, c.Y = newX, newY
				d.display.Configure(c.Parent, Geometry{
					X:      c.X,
					Y:      c.Y,
					Width:  frameW,
					Height: frameH,
				})
				d.notify.UpdatePager()
			}
		case xproto.ButtonReleaseEvent:
			if !canceled {
				c.SetController(nil)
			}
			if moved {
				d.hints.WriteState(c)
			}
			return moved
		case xproto.DestroyNotifyEvent:
			d.handleDestroyNotify(ev)
		default:
			deferred = append(deferred, ev)
		}
	}
	return moved
}

// ResizeClient runs the interactive resize loop for the given zone.
func (d *Dispatcher) ResizeClient(c *Client, zone ActionZone, startX, startY int16) {
	if !zone.IsResize() {
		return
	}
	if err := d.display.GrabPointer(c.Parent); err != nil {
		slog.Debug("Pointer grab failed", "window", c.Window, "error", err)
		return
	}
	defer d.display.UngrabPointer()

	canceled := false
	c.SetController(func(ending bool) { canceled = true })
	defer func() {
		if !canceled {
			c.SetController(nil)
		}
	}()

	// Events for the outer dispatcher are parked locally so nextEvent
	// does not hand them straight back to this loop.
	var deferred []xgb.Event
	defer func() { d.pending = append(deferred, d.pending...) }()

	base := c.Geometry()
	var baseRootX, baseRootY int

	first := true
	for !canceled {
		ev, ok := d.nextEvent()
		if !ok {
			return
		}
		switch ev := ev.(type) {
		case xproto.MotionNotifyEvent:
			m := d.coalesceMotion(ev)
			if first {
				baseRootX, baseRootY = int(m.RootX), int(m.RootY)
				first = false
				continue
			}
			dx := int(m.RootX) - baseRootX
			dy := int(m.RootY) - baseRootY
			g := resizeGeometry(base, zone, dx, dy)
			g.Width, g.Height = clampSize(c.SizeHints, g.Width, g.Height)
			if g.Width < 1 {
				g.Width = 1
			}
			if g.Height < 1 {
				g.Height = 1
			}
			d.applyGeometry(c, g)
		case xproto.ButtonReleaseEvent:
			if !canceled {
				c.SetController(nil)
			}
			d.hints.WriteState(c)
			return
		case xproto.DestroyNotifyEvent:
			d.handleDestroyNotify(ev)
		default:
			deferred = append(deferred, ev)
		}
	}
}

// snapToScreen pulls a frame edge flush with the nearest screen edge
// when it lands within the snap distance.
func (d *Dispatcher) snapToScreen(x, y, frameW, frameH int) (int, int) {
	if d.snapDistance <= 0 {
		return x, y
	}
	root, ok := d.display.GetGeometry(d.display.Root())
	if !ok {
		return x, y
	}
	if absInt(x-root.X) <= d.snapDistance {
		x = root.X
	} else if absInt((x+frameW)-(root.X+root.Width)) <= d.snapDistance {
		x = root.X + root.Width - frameW
	}
	if absInt(y-root.Y) <= d.snapDistance {
		y = root.Y
	} else if absInt((y+frameH)-(root.Y+root.Height)) <= d.snapDistance {
		y = root.Y + root.Height - frameH
	}
	return x, y
}

// resizeGeometry applies a pointer delta to the zone's edges.
func resizeGeometry(base Geometry, zone ActionZone, dx, dy int) Geometry {
	g := base
	switch zone {
	case ActionResizeN, ActionResizeNE, ActionResizeNW:
		g.Y = base.Y + dy
		g.Height = base.Height - dy
	case ActionResizeS, ActionResizeSE, ActionResizeSW:
		g.Height = base.Height + dy
	}
	switch zone {
	case ActionResizeW, ActionResizeNW, ActionResizeSW:
		g.X = base.X + dx
		g.Width = base.Width - dx
	case ActionResizeE, ActionResizeNE, ActionResizeSE:
		g.Width = base.Width + dx
	}
	return g
}

// MoveClientKeyboard moves the client with the arrow keys until Return or
// Escape.
func (d *Dispatcher) MoveClientKeyboard(c *Client) {
	canceled := false
	c.SetController(func(ending bool) { canceled = true })
	defer func() {
		if !canceled {
			c.SetController(nil)
		}
	}()

	var deferred []xgb.Event
	defer func() { d.pending = append(deferred, d.pending...) }()

	for !canceled {
		ev, ok := d.nextEvent()
		if !ok {
			return
		}
		switch ev := ev.(type) {
		case xproto.KeyPressEvent:
			g := c.Geometry()
			switch ev.Detail {
			case d.navKeys.Up:
				g.Y -= d.moveStep
			case d.navKeys.Down:
				g.Y += d.moveStep
			case d.navKeys.Left:
				g.X -= d.moveStep
			case d.navKeys.Right:
				g.X += d.moveStep
			case d.navKeys.Return, d.navKeys.Escape:
				if !canceled {
					c.SetController(nil)
				}
				d.hints.WriteState(c)
				return
			default:
				continue
			}
			d.applyGeometry(c, g)
		case xproto.DestroyNotifyEvent:
			d.handleDestroyNotify(ev)
		default:
			deferred = append(deferred, ev)
		}
	}
}

// ResizeClientKeyboard resizes the client with the arrow keys until
// Return or Escape.
func (d *Dispatcher) ResizeClientKeyboard(c *Client) {
	canceled := false
	c.SetController(func(ending bool) { canceled = true })
	defer func() {
		if !canceled {
			c.SetController(nil)
		}
	}()

	var deferred []xgb.Event
	defer func() { d.pending = append(deferred, d.pending...) }()

	for !canceled {
		ev, ok := d.nextEvent()
		if !ok {
			return
		}
		switch ev := ev.(type) {
		case xproto.KeyPressEvent:
			g := c.Geometry()
			switch ev.Detail {
			case d.navKeys.Up:
				g.Height -= d.moveStep
			case d.navKeys.Down:
				g.Height += d.moveStep
			case d.navKeys.Left:
				g.Width -= d.moveStep
			case d.navKeys.Right:
				g.Width += d.moveStep
			case d.navKeys.Return, d.navKeys.Escape:
				if !canceled {
					c.SetController(nil)
				}
				d.hints.WriteState(c)
				return
			default:
				continue
			}
			g.Width, g.Height = clampSize(c.SizeHints, g.Width, g.Height)
			if g.Width < 1 || g.Height < 1 {
				continue
			}
			d.applyGeometry(c, g)
		case xproto.DestroyNotifyEvent:
			d.handleDestroyNotify(ev)
		default:
			deferred = append(deferred, ev)
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
