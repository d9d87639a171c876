package wm

import (
	"log/slog"
	"os/exec"

	"github.com/jezek/xgb/xproto"
)

// CommandCode is a logical key command.
type CommandCode uint8

const (
	CommandNone CommandCode = iota
	CommandExec
	CommandDesktop
	CommandFocusNext
	CommandClose
	CommandShade
	CommandMove
	CommandResize
	CommandMinimize
	CommandMaximize
	CommandRootMenu
	CommandWindowMenu
	CommandRestart
	CommandExit
)

// KeyChord is a keycode plus modifier mask.
type KeyChord struct {
	Code xproto.Keycode
	Mods uint16
}

// BoundCommand is the resolution of a key chord. Arg carries an encoded
// numeric argument: for CommandDesktop, zero means next desktop and n
// means desktop n-1.
type BoundCommand struct {
	Code CommandCode
	Arg  uint32
	Exec string
}

// KeyBindings is the external binding table.
type KeyBindings map[KeyChord]BoundCommand

// lockedMods are modifier bits ignored during lookup.
const lockedMods = uint16(xproto.ModMaskLock | xproto.ModMask2)

// Lookup resolves a key event against the table.
func (kb KeyBindings) Lookup(ev xproto.KeyPressEvent) (BoundCommand, bool) {
	cmd, ok := kb[KeyChord{Code: ev.Detail, Mods: ev.State &^ lockedMods}]
	return cmd, ok
}

// handleKeyPress resolves the binding and dispatches the transition.
// Commands that need a target are no-ops without one.
func (d *Dispatcher) handleKeyPress(ev xproto.KeyPressEvent) {
	cmd, ok := d.bindings.Lookup(ev)
	if !ok {
		slog.Debug("Unbound key", "keycode", ev.Detail, "mods", ev.State)
		return
	}

	var c *Client
	if d.focusModel == FocusClick {
		c, _ = d.registry.FindByWindow(ev.Child)
	} else {
		c, _ = d.registry.Active()
	}

	switch cmd.Code {
	case CommandExec:
		d.runCommand(cmd.Exec)
	case CommandDesktop:
		if cmd.Arg > 0 {
			d.ChangeDesktop(cmd.Arg - 1)
		} else {
			d.NextDesktop()
		}
	case CommandFocusNext:
		d.FocusNext()
	case CommandClose:
		if c != nil {
			d.DeleteClient(c)
		}
	case CommandShade:
		if c != nil {
			if c.State.Shaded {
				d.UnshadeClient(c)
			} else {
				d.ShadeClient(c)
			}
		}
	case CommandMove:
		if c != nil {
			d.MoveClientKeyboard(c)
		}
	case CommandResize:
		if c != nil {
			d.ResizeClientKeyboard(c)
		}
	case CommandMinimize:
		if c != nil {
			d.MinimizeClient(c)
		}
	case CommandMaximize:
		if c != nil {
			d.MaximizeClient(c)
		}
	case CommandRootMenu:
		d.menus.ShowRootMenu(0, 0)
	case CommandWindowMenu:
		if c != nil {
			d.menus.ShowWindowMenu(c, c.X, c.Y)
		}
	case CommandRestart:
		d.Restart()
	case CommandExit:
		d.Exit()
	default:
		slog.Debug("Unknown key command", "code", cmd.Code)
	}
}

func (d *Dispatcher) runCommand(command string) {
	if command == "" {
		return
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	if err := cmd.Start(); err != nil {
		slog.Error("Failed to run command", "command", command, "error", err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}
