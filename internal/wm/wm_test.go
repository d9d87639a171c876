package wm

import (
	"fmt"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// fakeDisplay records every mutation the core issues, in order, so tests
// can assert on both effects and their sequencing.
type fakeDisplay struct {
	root xproto.Window

	// geometry answered by GetGeometry, keyed by window.
	geometry map[xproto.Window]Geometry

	nextFrame xproto.Window

	calls []string
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		root:      1,
		geometry:  map[xproto.Window]Geometry{},
		nextFrame: 1000,
	}
}

func (f *fakeDisplay) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeDisplay) Root() xproto.Window { return f.root }

func (f *fakeDisplay) GetGeometry(win xproto.Window) (Geometry, bool) {
	g, ok := f.geometry[win]
	return g, ok
}

func (f *fakeDisplay) CreateFrame(content xproto.Window, g Geometry, in Insets) (xproto.Window, error) {
	if in == (Insets{}) {
		f.record("frame %d undecorated", content)
		return content, nil
	}
	f.nextFrame++
	f.record("frame %d -> %d", content, f.nextFrame)
	return f.nextFrame, nil
}

func (f *fakeDisplay) DestroyFrame(frame xproto.Window) { f.record("destroyframe %d", frame) }

func (f *fakeDisplay) Configure(win xproto.Window, g Geometry) {
	f.record("configure %d %d,%d %dx%d", win, g.X, g.Y, g.Width, g.Height)
}

func (f *fakeDisplay) Map(win xproto.Window)   { f.record("map %d", win) }
func (f *fakeDisplay) Unmap(win xproto.Window) { f.record("unmap %d", win) }
func (f *fakeDisplay) Raise(win xproto.Window) { f.record("raise %d", win) }
func (f *fakeDisplay) Lower(win xproto.Window) { f.record("lower %d", win) }

func (f *fakeDisplay) Restack(order []xproto.Window) {
	f.record("restack %v", order)
}

func (f *fakeDisplay) SetInputFocus(win xproto.Window) { f.record("focus %d", win) }

func (f *fakeDisplay) DefineCursor(win xproto.Window, zone ActionZone) {
	f.record("cursor %d %s", win, zone)
}
func (f *fakeDisplay) DefaultCursor(win xproto.Window) { f.record("defaultcursor %d", win) }
func (f *fakeDisplay) ReplayPointer()                  { f.record("replay") }

func (f *fakeDisplay) GrabServer()   { f.record("grabserver") }
func (f *fakeDisplay) UngrabServer() { f.record("ungrabserver") }
func (f *fakeDisplay) Sync()         { f.record("sync") }

func (f *fakeDisplay) GrabPointer(win xproto.Window) error { f.record("grabpointer %d", win); return nil }
func (f *fakeDisplay) UngrabPointer()                      { f.record("ungrabpointer") }

func (f *fakeDisplay) InstallColormap(cmap xproto.Colormap) { f.record("colormap %d", cmap) }
func (f *fakeDisplay) ApplyShape(c *Client)                 { f.record("shape %d", c.Window) }

func (f *fakeDisplay) CloseWindow(win xproto.Window, p ProtocolSet) {
	f.record("close %d delete=%v", win, p.DeleteWindow)
}

// has reports whether a recorded call contains the substring.
func (f *fakeDisplay) has(sub string) bool {
	for _, call := range f.calls {
		if strings.Contains(call, sub) {
			return true
		}
	}
	return false
}

// fakeHints serves canned metadata.
type fakeHints struct {
	states    map[xproto.Window]ClientState
	names     map[xproto.Window]string
	colormaps map[xproto.Window][]xproto.Colormap

	propertyKinds map[xproto.Atom]PropertyKind
	messages      map[xproto.Window]Message

	written []xproto.Window
}

func newFakeHints() *fakeHints {
	return &fakeHints{
		states:        map[xproto.Window]ClientState{},
		names:         map[xproto.Window]string{},
		colormaps:     map[xproto.Window][]xproto.Colormap{},
		propertyKinds: map[xproto.Atom]PropertyKind{},
		messages:      map[xproto.Window]Message{},
	}
}

func (f *fakeHints) ReadWindowState(win xproto.Window, alreadyMapped bool) (ClientState, bool) {
	state, ok := f.states[win]
	return state, ok
}

func (f *fakeHints) ReadName(win xproto.Window) string  { return f.names[win] }
func (f *fakeHints) ReadClass(win xproto.Window) string { return "" }

func (f *fakeHints) ReadNormalHints(win xproto.Window) SizeHints { return SizeHints{} }
func (f *fakeHints) ReadProtocols(win xproto.Window) ProtocolSet { return ProtocolSet{} }

func (f *fakeHints) ReadColormaps(win xproto.Window) []xproto.Colormap {
	return f.colormaps[win]
}

func (f *fakeHints) WriteState(c *Client) { f.written = append(f.written, c.Window) }

func (f *fakeHints) WriteFrameExtents(win xproto.Window, in Insets) {}

func (f *fakeHints) ClassifyProperty(atom xproto.Atom) PropertyKind {
	return f.propertyKinds[atom]
}

func (f *fakeHints) DecodeMessage(ev xproto.ClientMessageEvent) Message {
	return f.messages[ev.Window]
}

func newFixture(opts Options) (*fakeDisplay, *fakeHints, *Registry, *Dispatcher) {
	display := newFakeDisplay()
	hints := newFakeHints()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)
	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, nil, opts)
	return display, hints, registry, d
}

func defaultOptions() Options {
	return Options{
		DesktopCount:     4,
		BorderWidth:      4,
		TitleHeight:      20,
		DoubleClickSpeed: 400,
		DoubleClickDelta: 2,
	}
}

// manage registers a decorated client directly with the fakes.
func manage(display *fakeDisplay, hints *fakeHints, registry *Registry, win xproto.Window, g Geometry) *Client {
	state := ClientState{Layer: LayerNormal, DefaultLayer: LayerNormal}
	state.Border = BorderStyle{Outline: true, Title: true}
	state.Mapped = true
	hints.states[win] = state
	display.geometry[win] = g

	c, err := registry.Add(win, false, false)
	if err != nil {
		panic(err)
	}
	if c == nil {
		panic("client not managed")
	}
	return c
}
