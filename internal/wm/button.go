package wm

import (
	"github.com/jezek/xgb/xproto"
)

// doubleClickDetector retains the previous press so the next one can be
// classified. A press that starts an actual move disarms the sequence.
type doubleClickDetector struct {
	speed uint32 // max interval, milliseconds of server time
	delta int16  // max pointer travel per axis

	armed    bool
	lastTime xproto.Timestamp
	lastX    int16
	lastY    int16
}

// Detect reports whether this press completes a double-click and records
// it as the new reference point otherwise.
func (dc *doubleClickDetector) Detect(t xproto.Timestamp, x, y int16) bool {
	if dc.armed &&
		absDiff(uint32(t), uint32(dc.lastTime)) <= dc.speed &&
		abs16(x-dc.lastX) <= dc.delta &&
		abs16(y-dc.lastY) <= dc.delta {
		dc.armed = false
		return true
	}
	dc.Arm(t, x, y)
	return false
}

// Arm records a press as a double-click candidate.
func (dc *doubleClickDetector) Arm(t xproto.Timestamp, x, y int16) {
	dc.armed = true
	dc.lastTime = t
	dc.lastX = x
	dc.lastY = y
}

// Disarm forgets the pending candidate.
func (dc *doubleClickDetector) Disarm() {
	dc.armed = false
}

// handleButtonEvent routes pointer buttons: frame clicks resolve through
// the border resolver, root clicks open the root menu, content clicks
// raise, optionally focus, and replay to the application.
func (d *Dispatcher) handleButtonEvent(ev xproto.ButtonPressEvent, press bool) {
	if c, ok := d.registry.FindByParent(ev.Event); ok {
		d.RaiseClient(c)
		if d.focusModel == FocusClick {
			d.FocusClient(c)
		}
		switch ev.Detail {
		case xproto.ButtonIndex1:
			d.dispatchBorderButton(c, ev, press)
		case xproto.ButtonIndex2:
			if press {
				d.MoveClient(c, ev.EventX, ev.EventY)
			}
		case xproto.ButtonIndex3:
			if press {
				x, y := d.windowMenuAnchor(c, int(ev.EventX), int(ev.EventY))
				d.menus.ShowWindowMenu(c, x, y)
			}
		}
	} else if ev.Event == d.display.Root() {
		if press && d.showMenuOnRoot {
			d.menus.ShowRootMenu(int(ev.EventX), int(ev.EventY))
		}
	} else if c, ok := d.registry.FindByWindow(ev.Event); ok {
		switch ev.Detail {
		case xproto.ButtonIndex1, xproto.ButtonIndex2, xproto.ButtonIndex3:
			d.RaiseClient(c)
			if d.focusModel == FocusClick {
				d.FocusClient(c)
			}
		}
		d.display.ReplayPointer()
	}

	d.notify.UpdatePager()
}

// windowMenuAnchor offsets a frame coordinate so the menu sits outside
// the decoration.
func (d *Dispatcher) windowMenuAnchor(c *Client, evX, evY int) (int, int) {
	x := evX + c.X
	y := evY + c.Y
	if c.State.Border.Outline {
		x -= d.borderWidth
		if c.State.Border.Title {
			y -= d.titleHeight
		} else {
			y -= d.borderWidth
		}
	} else if c.State.Border.Title {
		y -= d.titleHeight
	}
	return x, y
}

// dispatchBorderButton handles button 1 on the decoration. Resize and
// move zones act on press; the title-bar buttons act on release so a
// drag-through cannot trigger them.
func (d *Dispatcher) dispatchBorderButton(c *Client, ev xproto.ButtonPressEvent, press bool) {
	if !c.State.Border.Outline {
		return
	}

	action := ResolveBorderAction(c, int(ev.EventX), int(ev.EventY), d.borderWidth, d.titleHeight)
	switch {
	case action.IsResize():
		if press {
			d.ResizeClient(c, action, ev.EventX, ev.EventY)
		}
	case action == ActionMove:
		if !press {
			return
		}
		if d.clicks.Detect(ev.Time, ev.EventX, ev.EventY) {
			if c.State.Shaded {
				d.UnshadeClient(c)
			} else {
				d.ShadeClient(c)
			}
			return
		}
		if d.MoveClient(c, ev.EventX, ev.EventY) {
			d.clicks.Disarm()
		}
	case action == ActionClose:
		if !press {
			d.DeleteClient(c)
		}
	case action == ActionMaximize:
		if !press {
			d.MaximizeClient(c)
		}
	case action == ActionMinimize:
		if !press {
			d.MinimizeClient(c)
		}
	}
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
