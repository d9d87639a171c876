package wm

import (
	"testing"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func TestKeyBindingsLookupIgnoresLockModifiers(t *testing.T) {
	kb := KeyBindings{
		{Code: 36, Mods: xproto.ModMask4}: {Code: CommandFocusNext},
	}

	tests := []struct {
		name  string
		state uint16
		want  bool
	}{
		{"exact", xproto.ModMask4, true},
		{"caps lock held", xproto.ModMask4 | xproto.ModMaskLock, true},
		{"num lock held", xproto.ModMask4 | xproto.ModMask2, true},
		{"both locks held", xproto.ModMask4 | xproto.ModMaskLock | xproto.ModMask2, true},
		{"missing modifier", 0, false},
		{"extra real modifier", xproto.ModMask4 | xproto.ModMaskShift, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := kb.Lookup(xproto.KeyPressEvent{Detail: 36, State: tt.state})
			if ok != tt.want {
				t.Errorf("Lookup = %v, want %v", ok, tt.want)
			}
		})
	}
}

func keyFixture(bindings KeyBindings) (*fakeDisplay, *fakeHints, *Registry, *Dispatcher) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)
	d := NewDispatcher(display, hints, registry, NopNotifier{}, NopMenuShower{}, bindings, nil, opts)
	return display, hints, registry, d
}

func TestKeyPressDesktopArgument(t *testing.T) {
	_, _, _, d := keyFixture(KeyBindings{
		{Code: 11, Mods: xproto.ModMask4}: {Code: CommandDesktop, Arg: 3},
		{Code: 23, Mods: xproto.ModMask4}: {Code: CommandDesktop},
	})

	// Arg is 1-based; 3 selects desktop index 2.
	d.handleKeyPress(xproto.KeyPressEvent{Detail: 11, State: xproto.ModMask4})
	if d.CurrentDesktop() != 2 {
		t.Errorf("desktop = %d, want 2", d.CurrentDesktop())
	}

	// Without an argument the binding advances to the next desktop.
	d.handleKeyPress(xproto.KeyPressEvent{Detail: 23, State: xproto.ModMask4})
	if d.CurrentDesktop() != 3 {
		t.Errorf("desktop = %d, want 3", d.CurrentDesktop())
	}
}

func TestKeyPressTargetsActiveClient(t *testing.T) {
	display, hints, registry, d := keyFixture(KeyBindings{
		{Code: 53, Mods: xproto.ModMask4}: {Code: CommandClose},
	})
	manage(display, hints, registry, 100, Geometry{Width: 200, Height: 100})
	b := manage(display, hints, registry, 101, Geometry{Width: 200, Height: 100})
	d.FocusClient(b)

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 53, State: xproto.ModMask4})

	if !display.has("close 101") {
		t.Errorf("close not sent to the active client: %v", display.calls)
	}
	if display.has("close 100") {
		t.Errorf("close sent to the wrong client: %v", display.calls)
	}
}

func TestKeyPressWithoutTargetIsNoop(t *testing.T) {
	display, _, _, d := keyFixture(KeyBindings{
		{Code: 53, Mods: xproto.ModMask4}: {Code: CommandClose},
	})

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 53, State: xproto.ModMask4})

	for _, call := range display.calls {
		t.Errorf("unexpected display call %q", call)
	}
}

func TestKeyPressUnboundChordIgnored(t *testing.T) {
	display, hints, registry, d := keyFixture(KeyBindings{
		{Code: 53, Mods: xproto.ModMask4}: {Code: CommandClose},
	})
	c := manage(display, hints, registry, 100, Geometry{Width: 200, Height: 100})
	d.FocusClient(c)
	display.calls = nil

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 53, State: xproto.ModMaskShift})

	if display.has("close 100") {
		t.Errorf("unbound chord closed the client")
	}
}

func TestKeyPressShadeToggles(t *testing.T) {
	display, hints, registry, d := keyFixture(KeyBindings{
		{Code: 39, Mods: xproto.ModMask4}: {Code: CommandShade},
	})
	c := manage(display, hints, registry, 100, Geometry{Width: 200, Height: 100})
	d.FocusClient(c)

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 39, State: xproto.ModMask4})
	if !c.State.Shaded {
		t.Fatalf("not shaded")
	}
	d.handleKeyPress(xproto.KeyPressEvent{Detail: 39, State: xproto.ModMask4})
	if c.State.Shaded {
		t.Errorf("still shaded after toggle")
	}
}

func TestKeyPressRestartAndExit(t *testing.T) {
	_, _, _, d := keyFixture(KeyBindings{
		{Code: 27, Mods: xproto.ModMask4}: {Code: CommandRestart},
		{Code: 24, Mods: xproto.ModMask4}: {Code: CommandExit},
	})

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 27, State: xproto.ModMask4})
	if !d.exitRequested || !d.restartRequested {
		t.Errorf("restart binding: exit=%v restart=%v", d.exitRequested, d.restartRequested)
	}

	d.restartRequested = false
	d.exitRequested = false
	d.handleKeyPress(xproto.KeyPressEvent{Detail: 24, State: xproto.ModMask4})
	if !d.exitRequested || d.restartRequested {
		t.Errorf("exit binding: exit=%v restart=%v", d.exitRequested, d.restartRequested)
	}
}

func TestKeyboardMoveArrows(t *testing.T) {
	display, hints, registry, d := keyFixture(KeyBindings{
		{Code: 58, Mods: xproto.ModMask4}: {Code: CommandMove},
	})
	c := manage(display, hints, registry, 100, Geometry{X: 50, Y: 50, Width: 200, Height: 100})
	d.FocusClient(c)

	d.pending = []xgb.Event{
		xproto.KeyPressEvent{Detail: keycodeRight},
		xproto.KeyPressEvent{Detail: keycodeRight},
		xproto.KeyPressEvent{Detail: keycodeDown},
		xproto.KeyPressEvent{Detail: keycodeReturn},
	}

	d.handleKeyPress(xproto.KeyPressEvent{Detail: 58, State: xproto.ModMask4})

	if c.X != 50+2*d.moveStep || c.Y != 50+d.moveStep {
		t.Errorf("position = %d,%d", c.X, c.Y)
	}
}

func TestKeyboardMoveUsesKeymapCodes(t *testing.T) {
	display := newFakeDisplay()
	hints := newFakeHints()
	opts := defaultOptions()
	// A keymap where the arrows sit nowhere near their evdev positions.
	opts.NavKeys = NavKeys{Return: 44, Escape: 45, Up: 46, Down: 47, Left: 48, Right: 49}
	registry := NewRegistry(display, hints, NopNotifier{}, opts.BorderWidth, opts.TitleHeight)
	d := NewDispatcher(display, hints, registry, NopNotifier{}, nil, nil, make(chan xgb.Event), opts)
	c := manage(display, hints, registry, 100, Geometry{X: 50, Y: 50, Width: 200, Height: 100})

	d.pending = []xgb.Event{
		xproto.KeyPressEvent{Detail: keycodeRight}, // evdev position, unbound here
		xproto.KeyPressEvent{Detail: 49},
		xproto.KeyPressEvent{Detail: 44},
	}

	d.MoveClientKeyboard(c)

	if c.X != 50+d.moveStep || c.Y != 50 {
		t.Errorf("position = %d,%d, want %d,50", c.X, c.Y, 50+d.moveStep)
	}
}
