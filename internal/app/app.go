package app

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/config"
	"github.com/perchwm/perch/internal/wm"
)

// NormalizeConfig assigns identifiers to desktops that are missing one.
func NormalizeConfig(store *config.Store) error {
	return store.UpdateConfig(func(cfg config.Config) (config.Config, error) {
		for i := range cfg.Desktops {
			if cfg.Desktops[i].UUID == "" {
				cfg.Desktops[i].UUID = uuid.NewString()
			}
		}
		return cfg, nil
	})
}

// ParseFocusModel maps the config string to the dispatcher model.
func ParseFocusModel(s string) (wm.FocusModel, error) {
	switch s {
	case "", "sloppy":
		return wm.FocusSloppy, nil
	case "click":
		return wm.FocusClick, nil
	default:
		return 0, fmt.Errorf("unknown focus model %q", s)
	}
}

var modMasks = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"control": xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"mod4":    xproto.ModMask4,
}

var actionCodes = map[string]wm.CommandCode{
	"exec":       wm.CommandExec,
	"desktop":    wm.CommandDesktop,
	"next":       wm.CommandFocusNext,
	"close":      wm.CommandClose,
	"shade":      wm.CommandShade,
	"move":       wm.CommandMove,
	"resize":     wm.CommandResize,
	"minimize":   wm.CommandMinimize,
	"maximize":   wm.CommandMaximize,
	"rootmenu":   wm.CommandRootMenu,
	"windowmenu": wm.CommandWindowMenu,
	"restart":    wm.CommandRestart,
	"exit":       wm.CommandExit,
}

// ParseBindings builds the dispatcher binding table from the config.
func ParseBindings(bindings []config.Binding) (wm.KeyBindings, error) {
	table := make(wm.KeyBindings, len(bindings))
	for _, b := range bindings {
		code, ok := actionCodes[strings.ToLower(b.Action)]
		if !ok {
			return nil, fmt.Errorf("unknown binding action %q", b.Action)
		}
		if b.Keycode == 0 {
			return nil, fmt.Errorf("binding for action %q is missing a keycode", b.Action)
		}

		var mods uint16
		for _, name := range b.Mods {
			mask, ok := modMasks[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("unknown modifier %q", name)
			}
			mods |= mask
		}

		chord := wm.KeyChord{Code: xproto.Keycode(b.Keycode), Mods: mods}
		if _, dup := table[chord]; dup {
			return nil, fmt.Errorf("duplicate binding for keycode %d", b.Keycode)
		}
		table[chord] = wm.BoundCommand{
			Code: code,
			Arg:  uint32(b.Desktop),
			Exec: b.Exec,
		}
	}
	return table, nil
}
