package control

import (
	"testing"

	"github.com/perchwm/perch/internal/wm"
)

func TestDecodeCommand(t *testing.T) {
	three := uint32(3)
	tests := []struct {
		name    string
		action  string
		window  uint32
		desktop *uint32
		want    wm.MessageKind
		wantErr bool
	}{
		{name: "close", action: "close", window: 100, want: wm.MessageClose},
		{name: "close without window", action: "close", wantErr: true},
		{name: "desktop", action: "desktop", desktop: &three, want: wm.MessageDesktop},
		{name: "desktop defaults to zero", action: "desktop", want: wm.MessageDesktop},
		{name: "restart is global", action: "restart", want: wm.MessageRestart},
		{name: "unknown action", action: "explode", window: 100, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &CommandInput{}
			input.Body.Action = tt.action
			input.Body.Window = tt.window
			input.Body.Desktop = tt.desktop

			cmd, err := decodeCommand(input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cmd.Kind != tt.want {
				t.Errorf("kind = %v, want %v", cmd.Kind, tt.want)
			}
			if tt.desktop != nil && cmd.Desktop != *tt.desktop {
				t.Errorf("desktop = %d, want %d", cmd.Desktop, *tt.desktop)
			}
			if tt.desktop == nil && cmd.Desktop != 0 {
				t.Errorf("desktop = %d, want 0", cmd.Desktop)
			}
		})
	}
}
