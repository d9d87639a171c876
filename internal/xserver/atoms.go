package xserver

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Atom names the manager interns beyond the core X11 set.
const (
	atomWMProtocols      = "WM_PROTOCOLS"
	atomWMDeleteWindow   = "WM_DELETE_WINDOW"
	atomWMTakeFocus      = "WM_TAKE_FOCUS"
	atomWMState          = "WM_STATE"
	atomWMChangeState    = "WM_CHANGE_STATE"
	atomWMColormaps      = "WM_COLORMAP_WINDOWS"
	atomWinState         = "_WIN_STATE"
	atomWinLayer         = "_WIN_LAYER"
	atomNetWMName        = "_NET_WM_NAME"
	atomNetWMDesktop     = "_NET_WM_DESKTOP"
	atomNetActiveWindow  = "_NET_ACTIVE_WINDOW"
	atomNetCloseWindow   = "_NET_CLOSE_WINDOW"
	atomNetWMState       = "_NET_WM_STATE"
	atomNetWMStateSticky = "_NET_WM_STATE_STICKY"
	atomNetWMStateMaxV   = "_NET_WM_STATE_MAXIMIZED_VERT"
	atomNetWMStateMaxH   = "_NET_WM_STATE_MAXIMIZED_HORZ"
	atomNetWMStateShaded = "_NET_WM_STATE_SHADED"
	atomNetWMStateHidden = "_NET_WM_STATE_HIDDEN"
	atomNetWMWindowType  = "_NET_WM_WINDOW_TYPE"
	atomNetWMTypeDialog  = "_NET_WM_WINDOW_TYPE_DIALOG"
	atomNetWMTypeDesktop = "_NET_WM_WINDOW_TYPE_DESKTOP"
	atomNetWMTypeDock    = "_NET_WM_WINDOW_TYPE_DOCK"
	atomNetWMOpacity     = "_NET_WM_WINDOW_OPACITY"
	atomNetFrameExtents  = "_NET_FRAME_EXTENTS"
	atomPerchRestart     = "_PERCH_RESTART"
	atomPerchExit        = "_PERCH_EXIT"
)

// knownAtoms is the full vocabulary, interned at startup so that
// reverse lookups on incoming events resolve without a server round trip.
var knownAtoms = []string{
	atomWMProtocols, atomWMDeleteWindow, atomWMTakeFocus, atomWMState,
	atomWMChangeState, atomWMColormaps, atomWinState, atomWinLayer,
	atomNetWMName, atomNetWMDesktop, atomNetActiveWindow, atomNetCloseWindow,
	atomNetWMState, atomNetWMStateSticky, atomNetWMStateMaxV, atomNetWMStateMaxH,
	atomNetWMStateShaded, atomNetWMStateHidden, atomNetWMWindowType,
	atomNetWMTypeDialog, atomNetWMTypeDesktop, atomNetWMTypeDock,
	atomNetWMOpacity, atomNetFrameExtents, atomMotifHints,
	atomPerchRestart, atomPerchExit,
}

type atomMap struct {
	mu    sync.RWMutex
	atoms map[string]xproto.Atom
	names map[xproto.Atom]string
}

func newAtomMap() *atomMap {
	return &atomMap{
		atoms: make(map[string]xproto.Atom),
		names: make(map[xproto.Atom]string),
	}
}

// Get returns the atom with the given name if it has already been
// queried, otherwise it asks the X server for the atom and caches it.
func (a *atomMap) Get(conn *xgb.Conn, name string) (xproto.Atom, error) {
	a.mu.RLock()
	if atom, ok := a.atoms[name]; ok {
		a.mu.RUnlock()
		return atom, nil
	}
	a.mu.RUnlock()

	reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	a.atoms[name] = reply.Atom
	a.names[reply.Atom] = name
	a.mu.Unlock()
	return reply.Atom, nil
}

// Name returns the cached name of an atom, or empty when unknown.
func (a *atomMap) Name(atom xproto.Atom) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.names[atom]
}
