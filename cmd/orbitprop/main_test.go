package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitprop/internal/config"
	"github.com/san-kum/orbitprop/internal/orbit"
	"github.com/san-kum/orbitprop/internal/storage"
	"github.com/soypat/geometry/md3"
)

func orbitCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	addOrbitFlags(cmd)
	for k, v := range flags {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	return cmd
}

func TestLoadConfig_Precedence(t *testing.T) {
	cmd := orbitCmd(t, map[string]string{"tf": "123", "e": "0.2"})
	cfg, name, err := loadConfig(cmd, []string{"eccentric"})
	if err != nil {
		t.Fatal(err)
	}
	want := config.GetPreset("eccentric")
	if name != "eccentric" {
		t.Errorf("name = %q", name)
	}
	if cfg.TF != 123 || cfg.Elements.Eccentricity != 0.2 {
		t.Errorf("flags not applied: tf %v e %v", cfg.TF, cfg.Elements.Eccentricity)
	}
	if cfg.Elements.SemiMajorAxis != want.Elements.SemiMajorAxis || cfg.Elements.RAAN != want.Elements.RAAN {
		t.Error("unset flags overrode the preset")
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	file := config.DefaultConfig()
	file.Propagator = "classical"
	file.Step = 5
	if err := config.Save(path, file); err != nil {
		t.Fatal(err)
	}

	cmd := orbitCmd(t, map[string]string{"step": "7"})
	configFile = path
	defer func() { configFile = "" }()

	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Propagator != "classical" || cfg.Step != 7 {
		t.Errorf("got propagator %s step %v", cfg.Propagator, cfg.Step)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	if _, _, err := loadConfig(orbitCmd(t, nil), []string{"no-such-preset"}); err == nil {
		t.Error("unknown preset accepted")
	}
	if _, _, err := loadConfig(orbitCmd(t, map[string]string{"propagator": "rk4"}), nil); err == nil {
		t.Error("unknown propagator accepted")
	}
	if _, _, err := loadConfig(orbitCmd(t, map[string]string{"mu": "-1"}), nil); err == nil {
		t.Error("negative mu accepted")
	}

	cmd := orbitCmd(t, nil)
	configFile = filepath.Join(t.TempDir(), "missing.yaml")
	defer func() { configFile = "" }()
	if _, _, err := loadConfig(cmd, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing config: %v", err)
	}
}

func TestDisagreement(t *testing.T) {
	a, b := orbit.NewHistory(2), orbit.NewHistory(3)
	for i, dx := range []float64{0, 3} {
		_ = a.Append(orbit.Sample{Time: float64(i), Position: md3.Vec{X: 1}, Velocity: md3.Vec{Y: 1}})
		_ = b.Append(orbit.Sample{Time: float64(i), Position: md3.Vec{X: 1 + dx}, Velocity: md3.Vec{Y: 1 - dx/3}})
	}
	_ = b.Append(orbit.Sample{Time: 2, Position: md3.Vec{X: 100}})

	pos, vel := disagreement(a, b)
	if pos != 3 || vel != 1 {
		t.Errorf("disagreement = %v, %v", pos, vel)
	}
}

func TestRunAndFile(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		id, output string
	}{
		{"none", nil, "", ""},
		{"id only", []string{"universal_1"}, "universal_1", ""},
		{"id and file", []string{"universal_1", "out.json"}, "universal_1", "out.json"},
		{"empty id and file", []string{"", "out.json"}, "", "out.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, file := runAndFile(tt.args)
			if id != tt.id || file != tt.output {
				t.Errorf("runAndFile(%q) = %q, %q; want %q, %q", tt.args, id, file, tt.id, tt.output)
			}
		})
	}
}

func TestExportJSON_LatestRun(t *testing.T) {
	old := dataDir
	dataDir = t.TempDir()
	t.Cleanup(func() { dataDir = old })

	h := orbit.NewHistory(1)
	if err := h.Append(orbit.Sample{Position: md3.Vec{X: 7e6}, Velocity: md3.Vec{Y: 7.5e3}}); err != nil {
		t.Fatal(err)
	}
	st := storage.New(dataDir)
	if _, err := st.Save(storage.RunMetadata{Propagator: "classical", Mu: orbit.EarthMu}, h); err != nil {
		t.Fatal(err)
	}
	latest, err := st.Save(storage.RunMetadata{Propagator: "universal", Mu: orbit.EarthMu}, h)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "run.json")
	if err := exportJSON(nil, []string{"", out}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), latest) {
		t.Errorf("export does not name the latest run %s", latest)
	}
}
