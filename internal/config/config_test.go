package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Namespace != "82aa4465-85f9-4b9e-8d36-f66164cef0a6" {
		t.Errorf("unexpected namespace %q", cfg.Namespace)
	}
	if len(cfg.Ownership) != 2 {
		t.Fatalf("expected 2 ownership entries, got %d", len(cfg.Ownership))
	}
	if cfg.Ownership[0].Prefix != "/Game/" {
		t.Errorf("expected /Game/ first, got %q", cfg.Ownership[0].Prefix)
	}
	if cfg.Protocol.MinVersion != 20000000 || cfg.Protocol.GeneratedWith != 20100301 {
		t.Errorf("unexpected protocol constants: %+v", cfg.Protocol)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
namespace = "11111111-2222-3333-4444-555555555555"

[[ownership]]
prefix = "/Mods/"
content_pack_id = "custom-pack"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Namespace != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("namespace not overridden, got %q", cfg.Namespace)
	}
	// Overlay replaces the table wholesale.
	if len(cfg.Ownership) != 1 || cfg.Ownership[0].ContentPackID != "custom-pack" {
		t.Errorf("unexpected ownership table: %+v", cfg.Ownership)
	}
	// Untouched sections keep their defaults.
	if cfg.Protocol.GameID != "ArkSA" {
		t.Errorf("expected default game id, got %q", cfg.Protocol.GameID)
	}
}

func TestLoadRejectsBadNamespace(t *testing.T) {
	path := writeConfig(t, `namespace = "not-a-uuid"`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error for an invalid namespace")
	}
	if !strings.Contains(err.Error(), "not-a-uuid") {
		t.Errorf("error should name the bad value, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestOwnersPreservesOrder(t *testing.T) {
	cfg := Default()
	cfg.Ownership = append(cfg.Ownership, Owner{Prefix: "/Game/Mods/Example", ContentPackID: "mod-pack"})

	owners := cfg.Owners()
	if len(owners) != 3 {
		t.Fatalf("expected 3 owners, got %d", len(owners))
	}
	if owners[2].ContentPackID != "mod-pack" {
		t.Errorf("appended owner must stay last, got %+v", owners[2])
	}
}
