package config

import (
	"path/filepath"
	"testing"
)

func TestNewStoreWritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perch.yaml")

	store, err := NewStore(NewYAML(path))
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := store.GetConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FocusModel != "sloppy" || cfg.BorderWidth != 4 || len(cfg.Desktops) != 4 {
		t.Errorf("default config = %+v", cfg)
	}

	exists, err := NewYAML(path).Exists()
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Errorf("config file not created")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perch.yaml")
	driver := NewYAML(path)

	want := defaultConfig
	want.FocusModel = "click"
	want.Bindings = []Binding{
		{Keycode: 36, Mods: []string{"mod4"}, Action: "next"},
		{Keycode: 11, Mods: []string{"mod4", "shift"}, Action: "desktop", Desktop: 2},
		{Keycode: 28, Mods: []string{"mod4"}, Action: "exec", Exec: "xterm"},
	}
	if err := driver.Write(want); err != nil {
		t.Fatal(err)
	}

	got, err := driver.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got.FocusModel != "click" || len(got.Bindings) != 3 {
		t.Fatalf("read back = %+v", got)
	}
	if got.Bindings[1].Desktop != 2 || got.Bindings[2].Exec != "xterm" {
		t.Errorf("bindings = %+v", got.Bindings)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perch.json")
	driver := NewJSON(path)

	want := defaultConfig
	want.TitleHeight = 24
	if err := driver.Write(want); err != nil {
		t.Fatal(err)
	}

	got, err := driver.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got.TitleHeight != 24 {
		t.Errorf("titleHeight = %d", got.TitleHeight)
	}
}

func TestReadMissingFileFallsBack(t *testing.T) {
	driver := NewYAML(filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := driver.Read()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BorderWidth != defaultConfig.BorderWidth {
		t.Errorf("fallback config = %+v", cfg)
	}
}

func TestUpdateConfig(t *testing.T) {
	store, err := NewStore(NewMemory(defaultConfig))
	if err != nil {
		t.Fatal(err)
	}

	err = store.UpdateConfig(func(cfg Config) (Config, error) {
		cfg.ShowMenuOnRoot = false
		return cfg, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := store.GetConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ShowMenuOnRoot {
		t.Errorf("update not persisted")
	}
}
