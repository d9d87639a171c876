package wm

import (
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestDoubleClickDetector(t *testing.T) {
	dc := doubleClickDetector{speed: 400, delta: 2}

	if dc.Detect(1000, 50, 50) {
		t.Fatalf("first press detected as double-click")
	}
	if !dc.Detect(1200, 51, 49) {
		t.Fatalf("second press within limits not detected")
	}
	// Detection consumes the candidate; a third press starts over.
	if dc.Detect(1300, 51, 49) {
		t.Errorf("third press detected without re-arming")
	}

	dc.Detect(2000, 50, 50)
	if dc.Detect(2401, 50, 50) {
		t.Errorf("press past the speed limit detected")
	}

	dc.Detect(3000, 50, 50)
	if dc.Detect(3100, 53, 50) {
		t.Errorf("press past the travel limit detected")
	}

	dc.Detect(4000, 50, 50)
	dc.Disarm()
	if dc.Detect(4100, 50, 50) {
		t.Errorf("disarmed press detected")
	}
}

func TestDoubleClickWrapsServerTime(t *testing.T) {
	dc := doubleClickDetector{speed: 400, delta: 2}

	// Server time is unsigned and may be on either side of the sample.
	dc.Arm(1200, 10, 10)
	if !dc.Detect(1000, 10, 10) {
		t.Errorf("earlier timestamp within the window not detected")
	}
}

func buttonEvent(win xproto.Window, x, y int16, ts xproto.Timestamp) xproto.ButtonPressEvent {
	return xproto.ButtonPressEvent{
		Detail: xproto.ButtonIndex1,
		Time:   ts,
		Event:  win,
		EventX: x,
		EventY: y,
	}
}

func TestTitleButtonsActOnRelease(t *testing.T) {
	display, hints, registry, d := newFixture(defaultOptions())
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	// Close button region of a 208-wide frame.
	press := buttonEvent(c.Parent, 190, 10, 1000)
	d.handleButtonEvent(press, true)
	if display.has("close 100") {
		t.Fatalf("close acted on press: %v", display.calls)
	}

	d.handleButtonEvent(press, false)
	if !display.has("close 100 delete=false") {
		t.Errorf("close did not act on release: %v", display.calls)
	}
}

func TestMinimizeButton(t *testing.T) {
	display, hints, registry, d := newFixture(defaultOptions())
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	d.handleButtonEvent(buttonEvent(c.Parent, 150, 10, 1000), false)

	if !c.State.Minimized {
		t.Errorf("minimize button release did not minimize")
	}
}

func TestTitleDoubleClickTogglesShade(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)

	// A closed event channel makes the move loop give up immediately, so
	// the press degrades to a plain click that arms the detector.
	events := make(chan xgb.Event)
	close(events)
	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, events, opts)

	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	d.handleButtonEvent(buttonEvent(c.Parent, 100, 10, 1000), true)
	if c.State.Shaded {
		t.Fatalf("single click shaded the client")
	}

	d.handleButtonEvent(buttonEvent(c.Parent, 100, 10, 1200), true)
	if !c.State.Shaded {
		t.Fatalf("double click did not shade")
	}

	d.handleButtonEvent(buttonEvent(c.Parent, 100, 10, 2000), true)
	d.handleButtonEvent(buttonEvent(c.Parent, 100, 10, 2200), true)
	if c.State.Shaded {
		t.Errorf("second double click did not unshade")
	}
}

func TestMoveClientFollowsPointer(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)

	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	// Press at frame (100,10): root position is client origin plus offset.
	// The queue is seeded directly so the samples arrive one per
	// iteration instead of being coalesced into the last one.
	d.pending = []xgb.Event{
		xproto.MotionNotifyEvent{RootX: 160, RootY: 60},
		xproto.ButtonReleaseEvent{},
	}

	if !d.MoveClient(c, 110, 20) {
		t.Fatalf("move with travel past the threshold reported no move")
	}
	if c.X != 50 || c.Y != 40 {
		t.Errorf("position = %d,%d, want 50,40", c.X, c.Y)
	}
	if !display.has("grabpointer") || !display.has("ungrabpointer") {
		t.Errorf("pointer grab missing: %v", display.calls)
	}
}

func TestMoveClientSnapsToScreenEdge(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	opts.SnapDistance = 8
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)
	display.geometry[display.Root()] = Geometry{X: 0, Y: 0, Width: 800, Height: 600}

	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 40, Y: 40, Width: 200, Height: 100})

	// Drag toward the top-left corner, stopping 5,6 pixels short.
	d.pending = []xgb.Event{
		xproto.MotionNotifyEvent{RootX: 115, RootY: 26},
		xproto.ButtonReleaseEvent{},
	}

	if !d.MoveClient(c, 110, 20) {
		t.Fatalf("move with travel past the threshold reported no move")
	}
	if c.X != 0 || c.Y != 0 {
		t.Errorf("position = %d,%d, want snapped 0,0", c.X, c.Y)
	}
}

func TestMoveClientBelowThresholdIsClick(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)

	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	// Press point in root coordinates is (120,30); one pixel of jitter.
	d.pending = []xgb.Event{
		xproto.MotionNotifyEvent{RootX: 121, RootY: 31},
		xproto.ButtonReleaseEvent{},
	}

	if d.MoveClient(c, 110, 20) {
		t.Errorf("jitter below the threshold reported as a move")
	}
	if c.X != 10 || c.Y != 10 {
		t.Errorf("position = %d,%d after a click", c.X, c.Y)
	}
}

func TestResizeClientEastEdge(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)

	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})

	// First motion fixes the reference point, the second applies a delta.
	d.pending = []xgb.Event{
		xproto.MotionNotifyEvent{RootX: 214, RootY: 60},
		xproto.MotionNotifyEvent{RootX: 254, RootY: 60},
		xproto.ButtonReleaseEvent{},
	}

	d.ResizeClient(c, ActionResizeE, 204, 50)

	if c.Width != 240 || c.Height != 100 {
		t.Errorf("size = %dx%d, want 240x100", c.Width, c.Height)
	}
	if c.X != 10 || c.Y != 10 {
		t.Errorf("resize from the east edge moved the client to %d,%d", c.X, c.Y)
	}
}

func TestResizeClientHonorsMinSize(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)

	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})
	c.SizeHints.MinWidth = 150

	d.pending = []xgb.Event{
		xproto.MotionNotifyEvent{RootX: 214, RootY: 60},
		xproto.MotionNotifyEvent{RootX: 64, RootY: 60},
		xproto.ButtonReleaseEvent{},
	}

	d.ResizeClient(c, ActionResizeE, 204, 50)

	if c.Width != 150 {
		t.Errorf("width = %d, want min 150", c.Width)
	}
}

func TestRootPressOpensRootMenu(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	opts.ShowMenuOnRoot = true
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)
	menus := &recordingMenus{}
	d := NewDispatcher(display, hints, registry, NopNotifier{}, menus, nil, nil, opts)

	d.handleButtonEvent(buttonEvent(display.Root(), 300, 400, 1000), true)
	if menus.rootX != 300 || menus.rootY != 400 {
		t.Errorf("root menu at %d,%d", menus.rootX, menus.rootY)
	}

	menus.rootX, menus.rootY = 0, 0
	d.SetShowMenuOnRoot(false)
	d.handleButtonEvent(buttonEvent(display.Root(), 300, 400, 2000), true)
	if menus.rootX != 0 {
		t.Errorf("root menu shown while disabled")
	}
}

func TestContentClickRaisesAndReplays(t *testing.T) {
	display, hints, registry, d := newFixture(defaultOptions())
	c := manage(display, hints, registry, 100, Geometry{X: 10, Y: 10, Width: 200, Height: 100})
	manage(display, hints, registry, 101, Geometry{X: 20, Y: 20, Width: 200, Height: 100})
	display.calls = nil

	d.handleButtonEvent(buttonEvent(c.Window, 5, 5, 1000), true)

	if !display.has("replay") {
		t.Errorf("content press not replayed: %v", display.calls)
	}
	if !display.has("restack") {
		t.Errorf("content press did not raise: %v", display.calls)
	}
}

type recordingMenus struct {
	rootX, rootY int
	windowTarget xproto.Window
	winX, winY   int
}

func (m *recordingMenus) ShowRootMenu(x, y int) {
	m.rootX, m.rootY = x, y
}

func (m *recordingMenus) ShowWindowMenu(c *Client, x, y int) {
	m.windowTarget = c.Window
	m.winX, m.winY = x, y
}

func TestWindowMenuAnchor(t *testing.T) {
	display, hints, registry, _ := newFixture(defaultOptions())
	opts := defaultOptions()
	menus := &recordingMenus{}
	d := NewDispatcher(display, hints, registry, NopNotifier{}, menus, nil, nil, opts)
	c := manage(display, hints, registry, 100, Geometry{X: 30, Y: 40, Width: 200, Height: 100})

	ev := buttonEvent(c.Parent, 100, 10, 1000)
	ev.Detail = xproto.ButtonIndex3
	d.handleButtonEvent(ev, true)

	if menus.windowTarget != 100 {
		t.Fatalf("window menu target = %d", menus.windowTarget)
	}
	// Frame coordinates shifted by the client origin, minus decoration.
	if menus.winX != 30+100-4 || menus.winY != 40+10-20 {
		t.Errorf("window menu at %d,%d", menus.winX, menus.winY)
	}
}
