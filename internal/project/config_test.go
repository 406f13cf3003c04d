package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[pattern]\nmax_depth = 12\nstrict = true\n\n[batch]\njobs = 3\nout = \"gen\"\nui = \"off\"\n\n[cache]\nenabled = false\ndir = \"/tmp/pc\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Fatalf("expected root %q, got %q", root, m.Root)
	}
	cfg := m.Config
	if cfg.Pattern.MaxDepth != 12 || !cfg.Pattern.Strict {
		t.Fatalf("unexpected pattern config %+v", cfg.Pattern)
	}
	if cfg.Batch.Jobs != 3 || cfg.Batch.Out != filepath.Join(root, "gen") || cfg.Batch.UI != "off" {
		t.Fatalf("unexpected batch config %+v", cfg.Batch)
	}
	if cfg.Cache.Enabled || cfg.Cache.Dir != "/tmp/pc" {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := FindConfig(dir); err != nil || ok {
		// A stray hlrev.toml above the temp dir would make this meaningless.
		t.Skipf("config found above temp dir: ok=%v err=%v", ok, err)
	}
	m, ok, err := Discover(dir)
	if err != nil || ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Config != Default() {
		t.Fatalf("expected defaults, got %+v", m.Config)
	}
}

func TestLoadFileDefaultsSurvivePartialFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[pattern]\nmax_depth = 5\n")
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !m.Config.Cache.Enabled || m.Config.Batch.Out != "patterns" {
		t.Fatalf("defaults lost: %+v", m.Config)
	}
}

func TestLoadFileRejects(t *testing.T) {
	cases := map[string]string{
		"[pattern]\nmax_depth = -1\n": "max_depth",
		"[batch]\njobs = -2\n":        "jobs",
		"[batch]\nui = \"fancy\"\n":   "[batch].ui",
		"[pattern]\ndepth = 3\n":      "unknown keys: pattern.depth",
		"[pattern\n":                  "failed to parse TOML",
	}
	for body, want := range cases {
		path := writeConfig(t, t.TempDir(), body)
		_, err := LoadFile(path)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("LoadFile(%q): expected %q, got %v", body, want, err)
		}
	}
}

func TestCombineIsOrderSensitive(t *testing.T) {
	a, b := Uint64(1), Uint64(2)
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine should depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine should be deterministic")
	}
}
