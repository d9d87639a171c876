package config

var defaultConfig = Config{
	FocusModel:       "sloppy",
	ShowMenuOnRoot:   true,
	DoubleClickSpeed: 400,
	DoubleClickDelta: 2,
	BorderWidth:      4,
	TitleHeight:      20,
	SnapDistance:     5,
	Opacity:          1.0,
	Desktops: []Desktop{
		{Name: "1"},
		{Name: "2"},
		{Name: "3"},
		{Name: "4"},
	},
	Bindings: []Binding{},
}

type Config struct {
	// FocusModel is either "sloppy" or "click".
	FocusModel       string    `json:"focusModel" yaml:"focusModel"`
	ShowMenuOnRoot   bool      `json:"showMenuOnRoot" yaml:"showMenuOnRoot"`
	DoubleClickSpeed uint32    `json:"doubleClickSpeed" yaml:"doubleClickSpeed"`
	DoubleClickDelta int16     `json:"doubleClickDelta" yaml:"doubleClickDelta"`
	BorderWidth      int       `json:"borderWidth" yaml:"borderWidth"`
	TitleHeight      int       `json:"titleHeight" yaml:"titleHeight"`
	// SnapDistance is how close a frame edge must come to a screen edge
	// during a move before it snaps flush. 0 disables snapping.
	SnapDistance int     `json:"snapDistance" yaml:"snapDistance"`
	Opacity      float64 `json:"opacity" yaml:"opacity"`
	Desktops         []Desktop `json:"desktops" yaml:"desktops"`
	Bindings         []Binding `json:"bindings" yaml:"bindings"`
}

type Desktop struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

type Binding struct {
	// Keycode is the raw X keycode the binding grabs.
	Keycode byte `json:"keycode" yaml:"keycode"`
	// Mods is a list of modifier names: shift, control, mod1 and mod4.
	Mods []string `json:"mods" yaml:"mods"`
	// Action is one of: exec, desktop, next, close, shade, move, resize,
	// minimize, maximize, rootmenu, windowmenu, restart, exit.
	Action string `json:"action" yaml:"action"`
	// Desktop is the 1-based target for the desktop action, 0 for next.
	Desktop int `json:"desktop,omitempty" yaml:"desktop,omitempty"`
	// Exec is the shell command for the exec action.
	Exec string `json:"exec,omitempty" yaml:"exec,omitempty"`
}
