package xserver

import (
	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/wm"
)

// Border palette, 24-bit RGB pixels on the default visual.
const (
	colorBorderActive   = 0x4a6a8a
	colorBorderInactive = 0x2e2e2e
	colorTitleActive    = 0x5a7a9a
	colorTitleInactive  = 0x3a3a3a
	colorButton         = 0x1a1a1a
)

// DrawBorder repaints a client's frame decoration. Undecorated clients
// have nothing to paint.
func (s *Server) DrawBorder(c *wm.Client, active bool) {
	if c.Parent == c.Window || !c.State.Border.Outline {
		return
	}

	border, title := uint32(colorBorderInactive), uint32(colorTitleInactive)
	if active {
		border, title = colorBorderActive, colorTitleActive
	}

	xproto.ChangeWindowAttributes(s.conn, c.Parent,
		xproto.CwBackPixel, []uint32{border})
	xproto.ClearArea(s.conn, false, c.Parent, 0, 0, 0, 0)

	if !c.State.Border.Title {
		return
	}

	gc, err := xproto.NewGcontextId(s.conn)
	if err != nil {
		return
	}
	defer xproto.FreeGC(s.conn, gc)
	xproto.CreateGC(s.conn, gc, xproto.Drawable(c.Parent),
		xproto.GcForeground, []uint32{title})

	in := c.Insets(s.borderWidth, s.titleHeight)
	frameWidth := c.Width + in.East + in.West
	xproto.PolyFillRectangle(s.conn, xproto.Drawable(c.Parent), gc,
		[]xproto.Rectangle{{
			X:      int16(in.West),
			Y:      int16(in.West),
			Width:  uint16(frameWidth - in.West*2),
			Height: uint16(in.North - in.West),
		}})

	// Minimize, maximize and close buttons, right to left from the
	// title strip edge.
	xproto.ChangeGC(s.conn, gc, xproto.GcForeground, []uint32{colorButton})
	buttonSize := in.North - in.West
	var rects []xproto.Rectangle
	for i := 1; i <= 3; i++ {
		x := frameWidth - in.West - buttonSize*i
		if x < in.West {
			break
		}
		pad := buttonSize / 4
		rects = append(rects, xproto.Rectangle{
			X:      int16(x + pad),
			Y:      int16(in.West + pad),
			Width:  uint16(buttonSize - pad*2),
			Height: uint16(buttonSize - pad*2),
		})
	}
	xproto.PolyFillRectangle(s.conn, xproto.Drawable(c.Parent), gc, rects)
}
