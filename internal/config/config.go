// Package config holds the export pipeline's protocol constants and the
// ownership table, with an optional TOML overlay for overrides.
package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/rcliao/engram-export/internal/identity"
)

const (
	defaultNamespace          = "82aa4465-85f9-4b9e-8d36-f66164cef0a6"
	defaultBaseContentPackID  = "b32a3d73-9406-56f2-bd8f-936ee0275249"
	defaultGameID             = "ArkSA"
	defaultMarketplace        = "CurseForge"
	defaultAvailability       = 3
	defaultMinVersion         = 20000000
	defaultManifestVersion    = 7
	defaultManifestMinVersion = 7
	defaultGeneratedWith      = 20100301
)

// Owner is one ownership table entry. Table order is matching order.
type Owner struct {
	Prefix        string `toml:"prefix"`
	ContentPackID string `toml:"content_pack_id"`
}

// Protocol carries the fixed values the marketplace import format expects.
// These are protocol constants, not tunables; the overlay exists so tests
// can substitute them.
type Protocol struct {
	GameID             string `toml:"game_id"`
	Marketplace        string `toml:"marketplace"`
	Availability       int    `toml:"availability"`
	MinVersion         int    `toml:"min_version"`
	ManifestVersion    int    `toml:"manifest_version"`
	ManifestMinVersion int    `toml:"manifest_min_version"`
	GeneratedWith      int    `toml:"generated_with"`
}

// Config is the full pipeline configuration.
type Config struct {
	Namespace string   `toml:"namespace"`
	Ownership []Owner  `toml:"ownership"`
	Protocol  Protocol `toml:"protocol"`
}

// Default returns the configuration matching the public marketplace tooling.
func Default() Config {
	return Config{
		Namespace: defaultNamespace,
		Ownership: []Owner{
			{Prefix: "/Game/", ContentPackID: defaultBaseContentPackID},
			{Prefix: "/Packs/", ContentPackID: defaultBaseContentPackID},
		},
		Protocol: Protocol{
			GameID:             defaultGameID,
			Marketplace:        defaultMarketplace,
			Availability:       defaultAvailability,
			MinVersion:         defaultMinVersion,
			ManifestVersion:    defaultManifestVersion,
			ManifestMinVersion: defaultManifestMinVersion,
			GeneratedWith:      defaultGeneratedWith,
		},
	}
}

// Load returns Default overlaid with the TOML file at path.
func Load(path string) (Config, error) {
	cfg := Default()

	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is internally usable.
func (c Config) Validate() error {
	if _, err := uuid.Parse(c.Namespace); err != nil {
		return fmt.Errorf("namespace %q is not a valid UUID: %w", c.Namespace, err)
	}
	for _, o := range c.Ownership {
		if o.Prefix == "" || o.ContentPackID == "" {
			return fmt.Errorf("ownership entry %+v needs both prefix and content pack id", o)
		}
	}
	return nil
}

// NamespaceUUID parses the configured namespace.
func (c Config) NamespaceUUID() uuid.UUID {
	return uuid.MustParse(c.Namespace)
}

// Owners converts the ownership table for the identifier deriver.
func (c Config) Owners() identity.Ownership {
	owners := make(identity.Ownership, 0, len(c.Ownership))
	for _, o := range c.Ownership {
		owners = append(owners, identity.Owner{Prefix: o.Prefix, ContentPackID: o.ContentPackID})
	}
	return owners
}
