package xserver

import (
	"fmt"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/xcursor"
)

// Server implements wm.Display and wm.Hints over one X connection.
type Server struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	atoms  *atomMap

	haveShape bool

	borderWidth int
	titleHeight int

	// defaultOpacity is applied to frames whose client sets no
	// _NET_WM_WINDOW_OPACITY of its own. Fully opaque means no write.
	defaultOpacity uint32

	defaultCursor xproto.Cursor
	frameCursors  map[wm.ActionZone]xproto.Cursor
}

func New(conn *xgb.Conn, borderWidth, titleHeight int) (*Server, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	s := &Server{
		conn:           conn,
		screen:         screen,
		atoms:          newAtomMap(),
		borderWidth:    borderWidth,
		titleHeight:    titleHeight,
		defaultOpacity: ^uint32(0),
		frameCursors:   make(map[wm.ActionZone]xproto.Cursor),
	}

	if err := s.initCursors(); err != nil {
		return nil, fmt.Errorf("load cursors: %w", err)
	}

	// Classifying incoming events needs the whole atom vocabulary in the
	// reverse cache.
	for _, name := range knownAtoms {
		if _, err := s.atoms.Get(conn, name); err != nil {
			return nil, fmt.Errorf("intern %s: %w", name, err)
		}
	}

	if err := shape.Init(conn); err != nil {
		slog.Debug("Shape extension unavailable", "error", err)
	} else {
		s.haveShape = true
	}

	return s, nil
}

// Manage claims substructure redirection on the root window. Failure
// means another window manager is running.
func (s *Server) Manage() error {
	err := xproto.ChangeWindowAttributesChecked(s.conn, s.screen.Root,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskButtonPress |
				xproto.EventMaskButtonRelease |
				xproto.EventMaskPropertyChange |
				xproto.EventMaskColorMapChange |
				xproto.EventMaskKeyPress,
		}).Check()
	if err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			return fmt.Errorf("another window manager is already running")
		}
		return err
	}
	return nil
}

// ExistingWindows lists the current top-level children of the root, for
// the startup management scan.
func (s *Server) ExistingWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(s.conn, s.screen.Root).Reply()
	if err != nil {
		return nil, err
	}
	return tree.Children, nil
}

func (s *Server) initCursors() error {
	create := func(glyph uint16) (xproto.Cursor, error) {
		return xcursor.CreateCursor(s.conn, glyph)
	}

	var err error
	if s.defaultCursor, err = create(xcursor.LeftPtr); err != nil {
		return err
	}

	glyphs := map[wm.ActionZone]uint16{
		wm.ActionMove:     xcursor.Fleur,
		wm.ActionResizeN:  xcursor.TopSide,
		wm.ActionResizeS:  xcursor.BottomSide,
		wm.ActionResizeE:  xcursor.RightSide,
		wm.ActionResizeW:  xcursor.LeftSide,
		wm.ActionResizeNE: xcursor.TopRightCorner,
		wm.ActionResizeNW: xcursor.TopLeftCorner,
		wm.ActionResizeSE: xcursor.BottomRightCorner,
		wm.ActionResizeSW: xcursor.BottomLeftCorner,
	}
	for zone, glyph := range glyphs {
		cur, err := create(glyph)
		if err != nil {
			return err
		}
		s.frameCursors[zone] = cur
	}
	return nil
}

// Root implements wm.Display.
func (s *Server) Root() xproto.Window {
	return s.screen.Root
}

// GetGeometry implements wm.Display.
func (s *Server) GetGeometry(win xproto.Window) (wm.Geometry, bool) {
	reply, err := xproto.GetGeometry(s.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return wm.Geometry{}, false
	}
	return wm.Geometry{
		X:      int(reply.X),
		Y:      int(reply.Y),
		Width:  int(reply.Width),
		Height: int(reply.Height),
	}, true
}

// CreateFrame implements wm.Display: it creates the decoration window
// and reparents the content into it at the inset offset.
func (s *Server) CreateFrame(content xproto.Window, g wm.Geometry, in wm.Insets) (xproto.Window, error) {
	if in == (wm.Insets{}) {
		// Undecorated clients share one id for content and frame.
		if err := xproto.ChangeWindowAttributesChecked(s.conn, content,
			xproto.CwEventMask,
			[]uint32{clientEventMask}).Check(); err != nil {
			return 0, err
		}
		s.grabContentButtons(content)
		return content, nil
	}

	wid, err := xproto.NewWindowId(s.conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.CreateWindowChecked(s.conn, s.screen.RootDepth,
		wid, s.screen.Root,
		int16(g.X), int16(g.Y),
		uint16(g.Width+in.East+in.West), uint16(g.Height+in.North+in.South), 0,
		xproto.WindowClassInputOutput, s.screen.RootVisual,
		xproto.CwEventMask|xproto.CwCursor,
		[]uint32{
			frameEventMask,
			uint32(s.defaultCursor),
		}).Check(); err != nil {
		return 0, err
	}

	if err := xproto.ReparentWindowChecked(s.conn, content, wid,
		int16(in.West), int16(in.North)).Check(); err != nil {
		xproto.DestroyWindow(s.conn, wid)
		return 0, err
	}

	xproto.ChangeWindowAttributes(s.conn, content,
		xproto.CwEventMask, []uint32{clientEventMask})
	xproto.ChangeSaveSet(s.conn, xproto.SetModeInsert, content)
	s.grabContentButtons(content)

	return wid, nil
}

// grabContentButtons installs a synchronous button grab on the content so
// raise-on-click works without stealing the click from the application.
// The dispatcher replays the pointer after handling the press.
func (s *Server) grabContentButtons(content xproto.Window) {
	xproto.GrabButton(s.conn, true, content,
		uint16(xproto.EventMaskButtonPress),
		xproto.GrabModeSync, xproto.GrabModeAsync,
		s.screen.Root, xproto.CursorNone,
		xproto.ButtonIndexAny, xproto.ModMaskAny)
}

// Keysyms resolved for the keyboard move/resize loops.
const (
	keysymReturn = 0xff0d
	keysymEscape = 0xff1b
	keysymLeft   = 0xff51
	keysymUp     = 0xff52
	keysymRight  = 0xff53
	keysymDown   = 0xff54
)

// NavKeys resolves the navigation keysyms against the current keymap.
// Keycodes vary per keymap, so the positional defaults only apply when
// the mapping cannot be read.
func (s *Server) NavKeys() wm.NavKeys {
	setup := xproto.Setup(s.conn)
	first := setup.MinKeycode
	count := byte(setup.MaxKeycode - setup.MinKeycode + 1)
	reply, err := xproto.GetKeyboardMapping(s.conn, first, count).Reply()
	if err != nil || reply.KeysymsPerKeycode == 0 {
		slog.Debug("Keyboard mapping unavailable", "error", err)
		return wm.NavKeys{}
	}

	per := int(reply.KeysymsPerKeycode)
	find := func(sym xproto.Keysym) xproto.Keycode {
		for i := 0; i < int(count); i++ {
			for j := 0; j < per && i*per+j < len(reply.Keysyms); j++ {
				if reply.Keysyms[i*per+j] == sym {
					return first + xproto.Keycode(i)
				}
			}
		}
		return 0
	}

	return wm.NavKeys{
		Return: find(keysymReturn),
		Escape: find(keysymEscape),
		Up:     find(keysymUp),
		Down:   find(keysymDown),
		Left:   find(keysymLeft),
		Right:  find(keysymRight),
	}
}

// GrabKeys installs passive key grabs on the root window for every bound
// chord, with and without the lock modifiers.
func (s *Server) GrabKeys(bindings wm.KeyBindings) {
	lockedMods := []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}
	for chord := range bindings {
		for _, locked := range lockedMods {
			xproto.GrabKey(s.conn, true, s.screen.Root,
				chord.Mods|locked, chord.Code,
				xproto.GrabModeAsync, xproto.GrabModeAsync)
		}
	}
}

const (
	frameEventMask = uint32(xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion |
		xproto.EventMaskEnterWindow |
		xproto.EventMaskLeaveWindow |
		xproto.EventMaskExposure |
		xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify)

	clientEventMask = uint32(xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange |
		xproto.EventMaskColorMapChange)
)

// DestroyFrame implements wm.Display.
func (s *Server) DestroyFrame(frame xproto.Window) {
	xproto.DestroyWindow(s.conn, frame)
}

// Configure implements wm.Display.
func (s *Server) Configure(win xproto.Window, g wm.Geometry) {
	xproto.ConfigureWindow(s.conn, win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(g.X), uint32(g.Y), uint32(g.Width), uint32(g.Height)})
}

// Map implements wm.Display.
func (s *Server) Map(win xproto.Window) {
	xproto.MapWindow(s.conn, win)
}

// Unmap implements wm.Display.
func (s *Server) Unmap(win xproto.Window) {
	xproto.UnmapWindow(s.conn, win)
}

// Raise implements wm.Display.
func (s *Server) Raise(win xproto.Window) {
	xproto.ConfigureWindow(s.conn, win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

// Lower implements wm.Display.
func (s *Server) Lower(win xproto.Window) {
	xproto.ConfigureWindow(s.conn, win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow})
}

// Restack implements wm.Display: order is topmost first.
func (s *Server) Restack(order []xproto.Window) {
	for i := 1; i < len(order); i++ {
		xproto.ConfigureWindow(s.conn, order[i],
			xproto.ConfigWindowSibling|xproto.ConfigWindowStackMode,
			[]uint32{uint32(order[i-1]), xproto.StackModeBelow})
	}
}

// SetInputFocus implements wm.Display.
func (s *Server) SetInputFocus(win xproto.Window) {
	xproto.SetInputFocus(s.conn, xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

// DefineCursor implements wm.Display.
func (s *Server) DefineCursor(win xproto.Window, zone wm.ActionZone) {
	cur, ok := s.frameCursors[zone]
	if !ok {
		cur = s.defaultCursor
	}
	xproto.ChangeWindowAttributes(s.conn, win, xproto.CwCursor, []uint32{uint32(cur)})
}

// DefaultCursor implements wm.Display.
func (s *Server) DefaultCursor(win xproto.Window) {
	xproto.ChangeWindowAttributes(s.conn, win, xproto.CwCursor, []uint32{uint32(s.defaultCursor)})
}

// ReplayPointer implements wm.Display: releases a synchronous pointer
// grab so the application sees the click too.
func (s *Server) ReplayPointer() {
	xproto.AllowEvents(s.conn, xproto.AllowReplayPointer, xproto.TimeCurrentTime)
}

// GrabServer implements wm.Display.
func (s *Server) GrabServer() {
	xproto.GrabServer(s.conn)
}

// UngrabServer implements wm.Display.
func (s *Server) UngrabServer() {
	xproto.UngrabServer(s.conn)
}

// Sync implements wm.Display: a round trip that drains request errors.
func (s *Server) Sync() {
	s.conn.Sync()
}

// GrabPointer implements wm.Display.
func (s *Server) GrabPointer(win xproto.Window) error {
	reply, err := xproto.GrabPointer(s.conn, false, win,
		uint16(xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, xproto.CursorNone, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("pointer grab refused: status %d", reply.Status)
	}
	return nil
}

// UngrabPointer implements wm.Display.
func (s *Server) UngrabPointer() {
	xproto.UngrabPointer(s.conn, xproto.TimeCurrentTime)
}

// InstallColormap implements wm.Display.
func (s *Server) InstallColormap(cmap xproto.Colormap) {
	if cmap == 0 {
		cmap = s.screen.DefaultColormap
	}
	xproto.InstallColormap(s.conn, cmap)
}

// ApplyShape implements wm.Display: copies the content bounding shape
// onto the frame.
func (s *Server) ApplyShape(c *wm.Client) {
	if !s.haveShape || c.Parent == c.Window {
		return
	}
	shape.Combine(s.conn, shape.SoSet, shape.SkBounding, shape.SkBounding,
		c.Parent, 0, 0, c.Window)
}

// CloseWindow implements wm.Display. Clients speaking WM_DELETE_WINDOW
// get a polite request; everything else is disconnected.
func (s *Server) CloseWindow(win xproto.Window, p wm.ProtocolSet) {
	if !p.DeleteWindow {
		xproto.KillClient(s.conn, uint32(win))
		return
	}

	protocols, err := s.atoms.Get(s.conn, atomWMProtocols)
	if err != nil {
		slog.Error("Failed to intern atom", "atom", atomWMProtocols, "error", err)
		return
	}
	deleteWindow, err := s.atoms.Get(s.conn, atomWMDeleteWindow)
	if err != nil {
		slog.Error("Failed to intern atom", "atom", atomWMDeleteWindow, "error", err)
		return
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	xproto.SendEvent(s.conn, false, win, 0, string(ev.Bytes()))
}
