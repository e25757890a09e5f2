package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-progressive-photonmapper/pkg/integrator"
	"github.com/df07/go-progressive-photonmapper/pkg/log"
	"github.com/df07/go-progressive-photonmapper/pkg/renderer"
	"github.com/df07/go-progressive-photonmapper/pkg/scene"
)

func TestScenesCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf

	if err := app.Run([]string{"photonmapper", "scenes"}); err != nil {
		t.Fatalf("scenes command failed: %v", err)
	}

	for _, info := range scene.ListScenes() {
		if !strings.Contains(buf.String(), info.ID) {
			t.Errorf("Expected scene %q in listing:\n%s", info.ID, buf.String())
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version", []string{"photonmapper", "--version"}, "0.1.0"},
		{"verbose", []string{"photonmapper", "-v", "scenes"}, "cornell"},
		{"very verbose", []string{"photonmapper", "-vv", "scenes"}, "ground"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer log.SetLevel(log.Notice)

			var buf bytes.Buffer
			app := newApp()
			app.Writer = &buf

			if err := app.Run(tt.args); err != nil {
				t.Fatalf("Run(%v) failed: %v", tt.args, err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %q in output:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		file     string
	}{
		{"ppm png", "ppm", "ground.png"},
		{"sppm bmp", "sppm", "out/ground.bmp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tt.file)
			args := []string{
				"photonmapper", "render",
				"--scene", "ground",
				"--width", "16",
				"--photons", "500",
				"--iterations", "2",
				"--workers", "2",
				"--strategy", tt.strategy,
				"--out", out,
			}

			if err := newApp().Run(args); err != nil {
				t.Fatalf("render command failed: %v", err)
			}
			if info, err := os.Stat(out); err != nil || info.Size() == 0 {
				t.Errorf("Expected image at %s: %v", out, err)
			}
		})
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown scene", []string{"--scene", "nonexistent"}, scene.ErrUnknownScene},
		{"invalid alpha", []string{"--scene", "ground", "--alpha", "1.5"}, renderer.ErrInvalidAlpha},
		{"unknown strategy", []string{"--scene", "ground", "--strategy", "bdpt"}, integrator.ErrUnknownStrategy},
		{"missing config", []string{"--scene", "ground", "--config", filepath.Join(dir, "missing.json")}, os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"photonmapper", "render", "--out", filepath.Join(dir, "x.png")}, tt.args...)
			if err := newApp().Run(args); !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRenderCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "photons.json")
	data := `{"photonsPerPass": 300, "iterations": 1, "initialRadius": 0.2, "strategy": "sppm", "numWorkers": 1}`
	if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	out := filepath.Join(dir, "config.png")
	args := []string{"photonmapper", "render", "--scene", "ground", "--width", "8", "--config", configPath, "--out", out}
	if err := newApp().Run(args); err != nil {
		t.Fatalf("render with config failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected image at %s: %v", out, err)
	}
}
