package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/viant/imgrec/config"
)

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgrec.yaml")
	cmd := NewRootCmd("test")
	cmd.SetArgs([]string{"config", "init", path})
	var out strings.Builder
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.K != 10 || cfg.Transition.MaxHops != 6 {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	cmd = NewRootCmd("test")
	out.Reset()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "show", "--config", path, "--kind", "text_embedding"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "kind: text_embedding") {
		t.Errorf("expected override in output, got %q", out.String())
	}
}
