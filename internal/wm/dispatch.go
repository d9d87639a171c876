package wm

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/shape"
	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/core"
)

var (
	// ErrRestart is returned by Run when a restart was requested; the
	// caller re-executes the manager.
	ErrRestart = errors.New("restart requested")

	// ErrConnClosed is returned when the display connection went away.
	ErrConnClosed = errors.New("display connection closed")
)

// FocusModel selects when keyboard focus follows a client.
type FocusModel uint8

const (
	FocusSloppy FocusModel = iota
	FocusClick
)

// Command is a synthetic state-change request injected from outside the
// display connection (control API, collaborators). It reuses the client
// message vocabulary.
type Command struct {
	Message
}

// Options configures a Dispatcher.
type Options struct {
	DesktopCount     uint32
	FocusModel       FocusModel
	ShowMenuOnRoot   bool
	BorderWidth      int
	TitleHeight      int
	DoubleClickSpeed uint32 // milliseconds
	DoubleClickDelta int16  // pixels, per axis
	MoveStep         int    // keyboard move/resize step
	SnapDistance     int    // pixels; 0 disables edge snapping

	// NavKeys are the keymap-resolved codes for the keyboard move and
	// resize loops. Zero means use the evdev fallbacks.
	NavKeys NavKeys
}

// Dispatcher is the single-threaded event loop. It drains and classifies
// display events in arrival order, runs the state machine, and offers
// anything it does not handle to the collaborators.
type Dispatcher struct {
	display  Display
	hints    Hints
	registry *Registry
	notify   Notifier
	menus    MenuShower
	bindings KeyBindings

	// First refusal, in order: tray, dialogs, swallowed windows. Popups
	// are always offered the event afterwards.
	collaborators []Collaborator
	popups        []Collaborator

	events   <-chan xgb.Event
	commands chan Command
	pending  []xgb.Event

	desktopCount   uint32
	currentDesktop uint32
	focusModel     FocusModel
	showMenuOnRoot bool
	borderWidth    int
	titleHeight    int
	moveStep       int
	snapDistance   int
	navKeys        NavKeys

	clicks   doubleClickDetector
	lastTick core.TimeSample

	exitRequested    bool
	restartRequested bool
}

func NewDispatcher(display Display, hints Hints, registry *Registry, notify Notifier, menus MenuShower, bindings KeyBindings, events <-chan xgb.Event, opts Options) *Dispatcher {
	if opts.DesktopCount == 0 {
		opts.DesktopCount = 1
	}
	if opts.MoveStep <= 0 {
		opts.MoveStep = 10
	}
	if opts.NavKeys == (NavKeys{}) {
		opts.NavKeys = defaultNavKeys()
	}
	if menus == nil {
		menus = NopMenuShower{}
	}
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Dispatcher{
		display:        display,
		hints:          hints,
		registry:       registry,
		notify:         notify,
		menus:          menus,
		bindings:       bindings,
		events:         events,
		commands:       make(chan Command, 16),
		desktopCount:   opts.DesktopCount,
		focusModel:     opts.FocusModel,
		showMenuOnRoot: opts.ShowMenuOnRoot,
		borderWidth:    opts.BorderWidth,
		titleHeight:    opts.TitleHeight,
		moveStep:       opts.MoveStep,
		snapDistance:   opts.SnapDistance,
		navKeys:        opts.NavKeys,
		clicks: doubleClickDetector{
			speed: opts.DoubleClickSpeed,
			delta: opts.DoubleClickDelta,
		},
	}
}

// AddCollaborator appends a first-refusal collaborator (tray, dialog,
// swallow), consulted in registration order.
func (d *Dispatcher) AddCollaborator(c Collaborator) {
	d.collaborators = append(d.collaborators, c)
}

// AddPopup appends a popup collaborator, offered every unclassified event
// after the first-refusal chain.
func (d *Dispatcher) AddPopup(c Collaborator) {
	d.popups = append(d.popups, c)
}

// Commands exposes the synthetic command queue for external injectors.
func (d *Dispatcher) Commands() chan<- Command {
	return d.commands
}

// SetShowMenuOnRoot toggles whether background clicks open the root menu.
func (d *Dispatcher) SetShowMenuOnRoot(v bool) {
	d.showMenuOnRoot = v
}

// CurrentDesktop returns the visible desktop index.
func (d *Dispatcher) CurrentDesktop() uint32 {
	return d.currentDesktop
}

// DesktopCount returns the number of configured desktops.
func (d *Dispatcher) DesktopCount() uint32 {
	return d.desktopCount
}

// Run dispatches until the context is canceled, the connection closes, or
// an Exit/Restart command is handled. It never blocks longer than one
// second without signaling the taskbar tick.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.tickTaskbar()
		case cmd := <-d.commands:
			d.tickTaskbar()
			d.handleCommand(cmd)
		case ev, ok := <-d.events:
			if !ok {
				return ErrConnClosed
			}
			d.tickTaskbar()
			d.dispatch(ev)
			d.drain()
		}

		if d.exitRequested {
			if d.restartRequested {
				return ErrRestart
			}
			return nil
		}
	}
}

// tickTaskbar signals the taskbar clock at most once a second, however
// often the loop wakes up.
func (d *Dispatcher) tickTaskbar() {
	now := core.Now()
	if core.MillisSince(d.lastTick, now) < 1000 {
		return
	}
	d.lastTick = now
	d.notify.SignalTaskbar()
}

// drain processes everything already queued, in arrival order, without
// blocking. Events deferred by motion coalescing go first.
func (d *Dispatcher) drain() {
	for len(d.pending) > 0 && !d.exitRequested {
		ev := d.pending[0]
		d.pending = d.pending[1:]
		d.dispatch(ev)
	}
	for !d.exitRequested {
		select {
		case ev, ok := <-d.events:
			if !ok {
				return
			}
			d.dispatch(ev)
			for len(d.pending) > 0 && !d.exitRequested {
				next := d.pending[0]
				d.pending = d.pending[1:]
				d.dispatch(next)
			}
		default:
			return
		}
	}
}

// dispatch classifies one event. Events the core does not recognize are
// offered to the collaborators; popups always see them last.
func (d *Dispatcher) dispatch(ev xgb.Event) {
	handled := false

	switch ev := ev.(type) {
	case xproto.ConfigureRequestEvent:
		d.handleConfigureRequest(ev)
		handled = true
	case xproto.MapRequestEvent:
		d.handleMapRequest(ev)
		handled = true
	case xproto.PropertyNotifyEvent:
		handled = d.handlePropertyNotify(ev)
	case xproto.ClientMessageEvent:
		d.handleClientMessage(ev)
		handled = true
	case xproto.UnmapNotifyEvent:
		d.handleUnmapNotify(ev)
		handled = true
	case xproto.ExposeEvent:
		handled = d.handleExpose(ev)
	case xproto.ColormapNotifyEvent:
		d.handleColormapChange(ev)
		handled = true
	case xproto.DestroyNotifyEvent:
		handled = d.handleDestroyNotify(ev)
	case xproto.ConfigureNotifyEvent:
		d.handleConfigureNotify(ev)
		handled = true
	case xproto.ButtonPressEvent:
		d.handleButtonEvent(ev, true)
		handled = true
	case xproto.ButtonReleaseEvent:
		d.handleButtonEvent(xproto.ButtonPressEvent(ev), false)
		handled = true
	case xproto.KeyPressEvent:
		d.handleKeyPress(ev)
		handled = true
	case xproto.EnterNotifyEvent:
		d.handleEnterNotify(ev)
		handled = true
	case xproto.LeaveNotifyEvent:
		d.handleLeaveNotify(ev)
		handled = true
	case xproto.MotionNotifyEvent:
		d.handleMotionNotify(d.coalesceMotion(ev))
		handled = true
	case shape.NotifyEvent:
		d.handleShapeNotify(ev)
		handled = true
	case xproto.CreateNotifyEvent, xproto.MapNotifyEvent, xproto.NoExposureEvent,
		xproto.ReparentNotifyEvent, xproto.GraphicsExposureEvent, xproto.KeyReleaseEvent:
		handled = true
	default:
		slog.Debug("Unclassified event", "event", ev)
	}

	if !handled {
		for _, co := range d.collaborators {
			if co.HandleEvent(ev) {
				break
			}
		}
	}
	for _, po := range d.popups {
		po.HandleEvent(ev)
	}
}

// coalesceMotion drops all but the most recent queued motion sample.
// Non-motion events encountered while peeking keep their arrival order in
// the pending queue.
func (d *Dispatcher) coalesceMotion(ev xproto.MotionNotifyEvent) xproto.MotionNotifyEvent {
	for {
		select {
		case next, ok := <-d.events:
			if !ok {
				return ev
			}
			if m, isMotion := next.(xproto.MotionNotifyEvent); isMotion {
				ev = m
				continue
			}
			d.pending = append(d.pending, next)
		default:
			return ev
		}
	}
}

// Exit requests a clean shutdown, honored between dispatch iterations.
func (d *Dispatcher) Exit() {
	d.exitRequested = true
}

// Restart requests the manager re-execute itself.
func (d *Dispatcher) Restart() {
	d.restartRequested = true
	d.exitRequested = true
}

// handleCommand feeds a synthetic command through the same paths a client
// message would take.
func (d *Dispatcher) handleCommand(cmd Command) {
	switch cmd.Kind {
	case MessageRestart:
		d.Restart()
		return
	case MessageExit:
		d.Exit()
		return
	case MessageArrange:
		d.ArrangeClients()
		return
	case MessageDesktop:
		if cmd.Window == 0 {
			if cmd.Desktop < d.desktopCount {
				d.ChangeDesktop(cmd.Desktop)
			}
			return
		}
	}
	if cmd.Window == 0 {
		slog.Debug("Command without a target window", "kind", cmd.Kind)
		return
	}
	c, ok := d.registry.FindByWindow(cmd.Window)
	if !ok {
		slog.Debug("Command for unmanaged window", "window", cmd.Window)
		return
	}
	d.applyMessage(c, cmd.Message)
}
