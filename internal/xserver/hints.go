package xserver

import (
	"encoding/binary"
	"log/slog"

	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/wm"
)

// ICCCM WM_STATE values.
const (
	icccmWithdrawn = 0
	icccmNormal    = 1
	icccmIconic    = 3
)

// MWM hints decorations bit, read from _MOTIF_WM_HINTS.
const (
	atomMotifHints = "_MOTIF_WM_HINTS"
	mwmHintsDecor  = 1 << 1
	mwmDecorAll    = 1 << 0
	mwmDecorBorder = 1 << 1
	mwmDecorTitle  = 1 << 3
	mwmHintsBytes  = 20
)

func (s *Server) atom(name string) (xproto.Atom, bool) {
	atom, err := s.atoms.Get(s.conn, name)
	if err != nil {
		slog.Debug("Failed to intern atom", "atom", name, "error", err)
		return 0, false
	}
	return atom, true
}

func (s *Server) property(win xproto.Window, name string, typ xproto.Atom) ([]byte, bool) {
	atom, ok := s.atom(name)
	if !ok {
		return nil, false
	}
	reply, err := xproto.GetProperty(s.conn, false, win, atom, typ, 0, 64).Reply()
	if err != nil || reply.ValueLen == 0 {
		return nil, false
	}
	return reply.Value, true
}

func (s *Server) cardinal(win xproto.Window, name string) (uint32, bool) {
	value, ok := s.property(win, name, xproto.AtomCardinal)
	if !ok || len(value) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(value), true
}

func (s *Server) setCardinal(win xproto.Window, name string, value uint32) {
	atom, ok := s.atom(name)
	if !ok {
		return
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win, atom,
		xproto.AtomCardinal, 32, 1, buf)
}

// ReadWindowState implements wm.Hints. A false return means the window
// vanished or asked not to be managed (override-redirect).
func (s *Server) ReadWindowState(win xproto.Window, alreadyMapped bool) (wm.ClientState, bool) {
	attrs, err := xproto.GetWindowAttributes(s.conn, win).Reply()
	if err != nil || attrs.OverrideRedirect {
		return wm.ClientState{}, false
	}

	state := wm.ClientState{
		Layer:        wm.LayerNormal,
		DefaultLayer: wm.LayerNormal,
	}
	state.Border = wm.BorderStyle{Outline: true, Title: true}
	state.Mapped = true
	state.Opacity = ^uint32(0)
	if alreadyMapped && attrs.MapState != xproto.MapStateViewable {
		state.Mapped = false
	}

	if layer, ok := s.ReadLayer(win); ok {
		state.Layer = layer
		state.DefaultLayer = layer
	}

	if desktop, ok := s.cardinal(win, atomNetWMDesktop); ok {
		if desktop == wm.AllDesktops {
			state.Sticky = true
			state.Desktop = wm.AllDesktops
		} else {
			state.Desktop = desktop
		}
	}

	if opacity, ok := s.cardinal(win, atomNetWMOpacity); ok {
		state.Opacity = opacity
	}

	s.readWindowType(win, &state)
	s.readMotifHints(win, &state)
	s.readNetState(win, &state)

	return state, true
}

func (s *Server) readWindowType(win xproto.Window, state *wm.ClientState) {
	value, ok := s.property(win, atomNetWMWindowType, xproto.AtomAtom)
	if !ok {
		return
	}
	for i := 0; i+4 <= len(value); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(value[i:]))
		switch s.atoms.Name(atom) {
		case atomNetWMTypeDialog:
			state.Dialog = true
		case atomNetWMTypeDesktop:
			state.Layer = wm.LayerDesktop
			state.Border = wm.BorderStyle{}
		case atomNetWMTypeDock:
			state.Layer = wm.LayerAbove
			state.Border = wm.BorderStyle{}
			state.NoList = true
		}
	}
}

func (s *Server) readMotifHints(win xproto.Window, state *wm.ClientState) {
	value, ok := s.property(win, atomMotifHints, xproto.GetPropertyTypeAny)
	if !ok || len(value) < mwmHintsBytes {
		return
	}
	flags := binary.LittleEndian.Uint32(value[0:])
	if flags&mwmHintsDecor == 0 {
		return
	}
	decor := binary.LittleEndian.Uint32(value[8:])
	if decor&mwmDecorAll != 0 {
		return
	}
	state.Border.Outline = decor&mwmDecorBorder != 0
	state.Border.Title = decor&mwmDecorTitle != 0
}

func (s *Server) readNetState(win xproto.Window, state *wm.ClientState) {
	value, ok := s.property(win, atomNetWMState, xproto.AtomAtom)
	if !ok {
		return
	}
	for i := 0; i+4 <= len(value); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(value[i:]))
		switch s.atoms.Name(atom) {
		case atomNetWMStateSticky:
			state.Sticky = true
			state.Desktop = wm.AllDesktops
		case atomNetWMStateShaded:
			state.Shaded = true
		case atomNetWMStateMaxV:
			state.MaximizedVert = true
		case atomNetWMStateMaxH:
			state.MaximizedHorz = true
		case atomNetWMStateHidden:
			state.NoList = true
		}
	}
}

// ReadName implements wm.Hints, preferring _NET_WM_NAME over WM_NAME.
func (s *Server) ReadName(win xproto.Window) string {
	if value, ok := s.property(win, atomNetWMName, xproto.GetPropertyTypeAny); ok {
		return string(value)
	}
	reply, err := xproto.GetProperty(s.conn, false, win, xproto.AtomWmName,
		xproto.AtomString, 0, 64).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	return string(reply.Value)
}

// ReadClass implements wm.Hints: the first string of WM_CLASS.
func (s *Server) ReadClass(win xproto.Window) string {
	reply, err := xproto.GetProperty(s.conn, false, win, xproto.AtomWmClass,
		xproto.AtomString, 0, 64).Reply()
	if err != nil || reply.ValueLen == 0 {
		return ""
	}
	value := reply.Value
	for i, b := range value {
		if b == 0 {
			return string(value[:i])
		}
	}
	return string(value)
}

// ReadNormalHints implements wm.Hints.
func (s *Server) ReadNormalHints(win xproto.Window) wm.SizeHints {
	reply, err := xproto.GetProperty(s.conn, false, win, xproto.AtomWmNormalHints,
		xproto.AtomWmSizeHints, 0, 18).Reply()
	if err != nil || len(reply.Value) < 4 {
		return wm.SizeHints{}
	}

	word := func(i int) int {
		off := i * 4
		if off+4 > len(reply.Value) {
			return 0
		}
		return int(int32(binary.LittleEndian.Uint32(reply.Value[off:])))
	}

	const (
		pMinSize   = 1 << 4
		pMaxSize   = 1 << 5
		pResizeInc = 1 << 6
		wordMinW   = 5
		wordMinH   = 6
		wordMaxW   = 7
		wordMaxH   = 8
		wordIncW   = 9
		wordIncH   = 10
	)

	flags := word(0)
	var h wm.SizeHints
	if flags&pMinSize != 0 {
		h.MinWidth, h.MinHeight = word(wordMinW), word(wordMinH)
	}
	if flags&pMaxSize != 0 {
		h.MaxWidth, h.MaxHeight = word(wordMaxW), word(wordMaxH)
	}
	if flags&pResizeInc != 0 {
		h.IncWidth, h.IncHeight = word(wordIncW), word(wordIncH)
	}
	return h
}

// ReadProtocols implements wm.Hints.
func (s *Server) ReadProtocols(win xproto.Window) wm.ProtocolSet {
	var p wm.ProtocolSet
	value, ok := s.property(win, atomWMProtocols, xproto.AtomAtom)
	if !ok {
		return p
	}
	for i := 0; i+4 <= len(value); i += 4 {
		atom := xproto.Atom(binary.LittleEndian.Uint32(value[i:]))
		switch s.atoms.Name(atom) {
		case atomWMDeleteWindow:
			p.DeleteWindow = true
		case atomWMTakeFocus:
			p.TakeFocus = true
		}
	}
	return p
}

// ReadColormaps implements wm.Hints.
func (s *Server) ReadColormaps(win xproto.Window) []xproto.Colormap {
	value, ok := s.property(win, atomWMColormaps, xproto.AtomWindow)
	if !ok {
		return nil
	}
	var cmaps []xproto.Colormap
	for i := 0; i+4 <= len(value); i += 4 {
		cmaps = append(cmaps, xproto.Colormap(binary.LittleEndian.Uint32(value[i:])))
	}
	return cmaps
}

// ReadLayer reads the legacy _WIN_LAYER property.
func (s *Server) ReadLayer(win xproto.Window) (wm.Layer, bool) {
	value, ok := s.cardinal(win, atomWinLayer)
	if !ok || value >= wm.LayerCount {
		return 0, false
	}
	return wm.Layer(value), true
}

// WriteState implements wm.Hints: persists WM_STATE, _NET_WM_STATE,
// _NET_WM_DESKTOP and the legacy layer for the client.
func (s *Server) WriteState(c *wm.Client) {
	icccm := uint32(icccmNormal)
	switch {
	case c.State.Withdrawn:
		icccm = icccmWithdrawn
	case c.State.Minimized:
		icccm = icccmIconic
	}
	if atom, ok := s.atom(atomWMState); ok {
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf, icccm)
		xproto.ChangeProperty(s.conn, xproto.PropModeReplace, c.Window, atom, atom, 32, 2, buf)
	}

	s.setCardinal(c.Window, atomNetWMDesktop, c.State.Desktop)
	s.setCardinal(c.Window, atomWinLayer, uint32(c.State.Layer))

	var names []string
	if c.State.Sticky {
		names = append(names, atomNetWMStateSticky)
	}
	if c.State.Shaded {
		names = append(names, atomNetWMStateShaded)
	}
	if c.State.MaximizedVert {
		names = append(names, atomNetWMStateMaxV)
	}
	if c.State.MaximizedHorz {
		names = append(names, atomNetWMStateMaxH)
	}
	if c.State.NoList {
		names = append(names, atomNetWMStateHidden)
	}

	stateAtom, ok := s.atom(atomNetWMState)
	if !ok {
		return
	}
	buf := make([]byte, 0, len(names)*4)
	for _, name := range names {
		atom, ok := s.atom(name)
		if !ok {
			continue
		}
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], uint32(atom))
		buf = append(buf, word[:]...)
	}
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, c.Window, stateAtom,
		xproto.AtomAtom, 32, uint32(len(names)), buf)

	opacity := c.State.Opacity
	if opacity == ^uint32(0) {
		opacity = s.defaultOpacity
	}
	if opacity != ^uint32(0) && c.Parent != 0 {
		s.setCardinal(c.Parent, atomNetWMOpacity, opacity)
	}
}

// WriteFrameExtents implements wm.Hints.
func (s *Server) WriteFrameExtents(win xproto.Window, in wm.Insets) {
	atom, ok := s.atom(atomNetFrameExtents)
	if !ok {
		return
	}
	buf := make([]byte, 16)
	for i, v := range []int{in.West, in.East, in.North, in.South} {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win, atom,
		xproto.AtomCardinal, 32, 4, buf)
}

// ClassifyProperty implements wm.Hints.
func (s *Server) ClassifyProperty(atom xproto.Atom) wm.PropertyKind {
	switch atom {
	case xproto.AtomWmName:
		return wm.PropertyName
	case xproto.AtomWmNormalHints:
		return wm.PropertyNormalHints
	case xproto.AtomWmHints, xproto.AtomWmIconName, xproto.AtomWmClientMachine:
		return wm.PropertyIgnored
	}
	switch s.atoms.Name(atom) {
	case atomNetWMName:
		return wm.PropertyName
	case atomWMColormaps:
		return wm.PropertyColormapWindows
	case atomPerchRestart:
		return wm.PropertyRestart
	case atomPerchExit:
		return wm.PropertyExit
	}
	return wm.PropertyUnclassified
}

// DecodeMessage implements wm.Hints: translates a raw client message
// into the typed command vocabulary.
func (s *Server) DecodeMessage(ev xproto.ClientMessageEvent) wm.Message {
	msg := wm.Message{Kind: wm.MessageUnknown, Window: ev.Window}
	data := ev.Data.Data32

	switch s.atoms.Name(ev.Type) {
	case atomWinState:
		msg.Kind = wm.MessageWinState
		msg.WinStateMask = data[0]
		msg.WinStateFlags = data[1]

	case atomWinLayer:
		if data[0] >= wm.LayerCount {
			msg.TypeName = atomWinLayer
			return msg
		}
		msg.Kind = wm.MessageWinLayer
		msg.Layer = wm.Layer(data[0])

	case atomWMChangeState:
		msg.Kind = wm.MessageChangeState
		switch data[0] {
		case icccmWithdrawn:
			msg.Lifecycle = wm.LifecycleWithdrawn
		case icccmIconic:
			msg.Lifecycle = wm.LifecycleIconic
		default:
			msg.Lifecycle = wm.LifecycleNormal
		}

	case atomNetActiveWindow:
		msg.Kind = wm.MessageActiveWindow

	case atomNetWMDesktop:
		msg.Kind = wm.MessageDesktop
		msg.Desktop = data[0]

	case atomNetCloseWindow:
		msg.Kind = wm.MessageClose

	case atomNetWMState:
		msg.Kind = wm.MessageNetState
		switch data[0] {
		case 0:
			msg.StateAction = wm.StateRemove
		case 1:
			msg.StateAction = wm.StateAdd
		case 2:
			msg.StateAction = wm.StateToggle
		default:
			msg.StateAction = wm.StateAction(data[0])
		}
		for _, word := range data[1:3] {
			switch s.atoms.Name(xproto.Atom(word)) {
			case atomNetWMStateSticky:
				msg.StateFlags.Sticky = true
			case atomNetWMStateMaxV, atomNetWMStateMaxH:
				msg.StateFlags.Maximize = true
			case atomNetWMStateShaded:
				msg.StateFlags.Shade = true
			}
		}

	default:
		msg.TypeName = s.atoms.Name(ev.Type)
	}
	return msg
}

// SetOpacity writes the compositor opacity hint on the frame.
func (s *Server) SetOpacity(c *wm.Client, opacity uint32) {
	c.State.Opacity = opacity
	s.setCardinal(c.Parent, atomNetWMOpacity, opacity)
}

// SetDefaultOpacity sets the frame opacity used for clients that carry no
// opacity hint of their own. The fraction is clamped to [0, 1].
func (s *Server) SetDefaultOpacity(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction >= 1 {
		s.defaultOpacity = ^uint32(0)
		return
	}
	s.defaultOpacity = uint32(fraction * float64(^uint32(0)))
}

// RequestRestart asks a running manager to restart by poking its root
// window property.
func (s *Server) RequestRestart() {
	if atom, ok := s.atom(atomPerchRestart); ok {
		s.setCardinalAtom(s.screen.Root, atom, 1)
	}
}

// RequestExit asks a running manager to exit.
func (s *Server) RequestExit() {
	if atom, ok := s.atom(atomPerchExit); ok {
		s.setCardinalAtom(s.screen.Root, atom, 1)
	}
}

func (s *Server) setCardinalAtom(win xproto.Window, atom xproto.Atom, value uint32) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	xproto.ChangeProperty(s.conn, xproto.PropModeReplace, win, atom,
		xproto.AtomCardinal, 32, 1, buf)
}
