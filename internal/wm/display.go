package wm

import (
	"github.com/jezek/xgb/xproto"
)

// Display is the narrow surface of the X server the core mutates through.
// internal/xserver implements it over a live connection; tests substitute
// a recording fake.
type Display interface {
	Root() xproto.Window

	// GetGeometry reads the current server-side geometry of a window. A
	// false return means the window is gone.
	GetGeometry(win xproto.Window) (Geometry, bool)

	// CreateFrame reparents the content window into a new decoration
	// window sized for the given insets and returns its id.
	CreateFrame(content xproto.Window, g Geometry, in Insets) (xproto.Window, error)
	DestroyFrame(frame xproto.Window)

	Configure(win xproto.Window, g Geometry)
	Map(win xproto.Window)
	Unmap(win xproto.Window)
	Raise(win xproto.Window)
	Lower(win xproto.Window)
	Restack(order []xproto.Window)

	SetInputFocus(win xproto.Window)
	DefineCursor(win xproto.Window, zone ActionZone)
	DefaultCursor(win xproto.Window)
	ReplayPointer()

	GrabServer()
	UngrabServer()
	Sync()

	GrabPointer(win xproto.Window) error
	UngrabPointer()

	InstallColormap(cmap xproto.Colormap)
	ApplyShape(c *Client)

	// CloseWindow asks the client to close via WM_DELETE_WINDOW when the
	// protocol is supported and kills the connection otherwise.
	CloseWindow(win xproto.Window, p ProtocolSet)
}

// PropertyKind classifies a PropertyNotify atom into the vocabulary the
// core reacts to.
type PropertyKind uint8

const (
	PropertyUnclassified PropertyKind = iota
	PropertyName
	PropertyNormalHints
	PropertyColormapWindows
	PropertyIgnored // WM_HINTS, icon name, client machine
	PropertyRestart // root window restart request
	PropertyExit    // root window exit request
)

// MessageKind classifies a decoded client message.
type MessageKind uint8

const (
	MessageUnknown MessageKind = iota
	MessageWinState
	MessageWinLayer
	MessageChangeState
	MessageActiveWindow
	MessageDesktop
	MessageClose
	MessageNetState

	// Synthetic kinds injected through the command queue only, never
	// decoded from the wire.
	MessageRestart
	MessageExit
	MessageArrange
)

// StateAction is the remove/add/toggle discriminator of a _NET_WM_STATE
// style multi-flag message.
type StateAction uint8

const (
	StateRemove StateAction = iota
	StateAdd
	StateToggle
	stateActionCount
)

// StateFlags names the up to two sub-actions carried by one multi-flag
// state message. Simultaneous flags are applied as independent transitions.
type StateFlags struct {
	Sticky   bool
	Maximize bool
	Shade    bool
}

// Lifecycle is the requested WM_CHANGE_STATE target.
type Lifecycle uint8

const (
	LifecycleWithdrawn Lifecycle = iota
	LifecycleIconic
	LifecycleNormal
)

// legacy _WIN_STATE bits carried by MessageWinState.
const (
	WinStateSticky uint32 = 1 << 0
	WinStateHidden uint32 = 1 << 4
)

// Message is a decoded client message. Only the fields relevant to Kind
// are meaningful.
type Message struct {
	Kind   MessageKind
	Window xproto.Window

	Layer     Layer
	Desktop   uint32
	Lifecycle Lifecycle

	StateAction StateAction
	StateFlags  StateFlags

	WinStateMask  uint32
	WinStateFlags uint32

	// Name of the unrecognized message type, for debug logging.
	TypeName string
}

// Hints reads and writes window metadata on behalf of the core. All reads
// are point-in-time snapshots; a false ok return means the window vanished
// or refuses management.
type Hints interface {
	ReadWindowState(win xproto.Window, alreadyMapped bool) (ClientState, bool)
	ReadName(win xproto.Window) string
	ReadClass(win xproto.Window) string
	ReadNormalHints(win xproto.Window) SizeHints
	ReadProtocols(win xproto.Window) ProtocolSet
	ReadColormaps(win xproto.Window) []xproto.Colormap

	WriteState(c *Client)
	WriteFrameExtents(win xproto.Window, in Insets)

	ClassifyProperty(atom xproto.Atom) PropertyKind
	DecodeMessage(ev xproto.ClientMessageEvent) Message
}

// Notifier pushes refresh signals to the UI collaborators whenever client
// state visibly changes.
type Notifier interface {
	UpdateTaskBar()
	UpdatePager()
	SignalTaskbar()
	DrawBorder(c *Client)
}

// Collaborator is a UI subsystem (tray, dialog, swallow, popup) offered
// first refusal on events the core does not classify.
type Collaborator interface {
	HandleEvent(ev interface{}) bool
}

// MenuShower pops up the root and per-window menus. Menu content is not
// the core's concern; the core only computes anchor coordinates.
type MenuShower interface {
	ShowRootMenu(x, y int)
	ShowWindowMenu(c *Client, x, y int)
}

// NopNotifier discards all refresh signals.
type NopNotifier struct{}

func (NopNotifier) UpdateTaskBar()     {}
func (NopNotifier) UpdatePager()       {}
func (NopNotifier) SignalTaskbar()     {}
func (NopNotifier) DrawBorder(*Client) {}

// NopMenuShower ignores menu requests.
type NopMenuShower struct{}

func (NopMenuShower) ShowRootMenu(x, y int)              {}
func (NopMenuShower) ShowWindowMenu(c *Client, x, y int) {}
