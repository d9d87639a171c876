package wm

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// Layer is the coarse stacking category of a client, independent of
// raise/lower order within the layer.
type Layer uint8

const (
	LayerDesktop Layer = iota
	LayerBelow
	LayerNormal
	LayerAbove

	LayerCount = 4
)

func (l Layer) String() string {
	switch l {
	case LayerDesktop:
		return "desktop"
	case LayerBelow:
		return "below"
	case LayerNormal:
		return "normal"
	case LayerAbove:
		return "above"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// AllDesktops is the desktop sentinel for sticky clients.
const AllDesktops = ^uint32(0)

// Status holds the independent lifecycle flags of a client.
type Status struct {
	Mapped        bool
	Minimized     bool
	Withdrawn     bool
	Shaded        bool
	Sticky        bool
	MaximizedHorz bool
	MaximizedVert bool
	Active        bool
	NoList        bool
	UsesShape     bool
	Dialog        bool
}

// BorderStyle describes the decoration drawn around a client. Without an
// outline there are no interactive resize or move regions on the frame.
type BorderStyle struct {
	Outline bool
	Title   bool
}

// ClientState is the full mutable state of a managed client, persisted
// through the Hints layer whenever a transition changes it.
type ClientState struct {
	Status
	Border       BorderStyle
	Layer        Layer
	DefaultLayer Layer
	Desktop      uint32
	Opacity      uint32
}

// Maximized reports whether at least one maximize axis is set.
func (s ClientState) Maximized() bool {
	return s.MaximizedHorz || s.MaximizedVert
}

// ProtocolSet records the WM protocol capabilities a client advertises.
type ProtocolSet struct {
	DeleteWindow bool
	TakeFocus    bool
}

// SizeHints is the subset of WM_NORMAL_HINTS the core tracks.
type SizeHints struct {
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
	IncWidth  int
	IncHeight int
}

// Geometry is the position and size of a content area in pixels.
type Geometry struct {
	X, Y          int
	Width, Height int
}

// Insets are the decoration margins around the content area, derived from
// the border style.
type Insets struct {
	North, South, East, West int
}

// Controller is the pre-transition hook a client may install while an
// interactive operation references it. It is invoked synchronously with
// ending=false when another operation interrupts, and with ending=true
// exactly once before the registry forgets the client.
type Controller func(ending bool)

// Client is one managed top-level window. The registry exclusively owns
// all Client values; other components re-resolve by id each dispatch.
type Client struct {
	Window xproto.Window // content window
	Parent xproto.Window // decoration frame, equal to Window when undecorated

	X      int
	Y      int
	Width  int
	Height int

	State        ClientState
	BorderAction ActionZone

	Name      string
	Class     string
	Colormap  xproto.Colormap
	Protocols ProtocolSet
	SizeHints SizeHints

	controller Controller

	// Geometry before the last maximize, so a second maximize restores it.
	restore *Geometry
}

// Geometry returns the current content geometry.
func (c *Client) Geometry() Geometry {
	return Geometry{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// Insets computes the decoration margins for the client's border style.
func (c *Client) Insets(borderWidth, titleHeight int) Insets {
	if !c.State.Border.Outline {
		return Insets{}
	}
	in := Insets{North: borderWidth, South: borderWidth, East: borderWidth, West: borderWidth}
	if c.State.Border.Title {
		in.North = titleHeight
	}
	return in
}

// SetController installs the pre-transition hook.
func (c *Client) SetController(fn Controller) {
	c.controller = fn
}

// interrupt notifies the controller that another operation is about to
// mutate the client. The hook stays installed.
func (c *Client) interrupt() {
	if c.controller != nil {
		c.controller(false)
	}
}

// end fires the controller with the ending signal and uninstalls it, so a
// destroy followed by a late unmap signals at most once.
func (c *Client) end() {
	if c.controller != nil {
		fn := c.controller
		c.controller = nil
		fn(true)
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("wm.Client(window=%d parent=%d name=%q)", c.Window, c.Parent, c.Name)
}
