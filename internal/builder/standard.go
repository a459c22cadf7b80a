package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rcliao/engram-export/internal/model"
)

// StandardBuilder writes the generic JSON dump: a simplified projection
// with no package metadata and no tags.
type StandardBuilder struct {
	ModName   string
	OutputDir string

	engrams []standardEngram
}

// NewStandardBuilder returns a builder writing {mod_name}-data.json.
func NewStandardBuilder(modName, outputDir string) *StandardBuilder {
	return &StandardBuilder{ModName: modName, OutputDir: outputDir}
}

type standardEngram struct {
	Name           string                `json:"name"`
	Path           string                `json:"path"`
	StackSize      int                   `json:"stackSize"`
	EntryString    string                `json:"entryString"`
	RequiredLevel  int                   `json:"requiredLevel"`
	RequiredPoints int                   `json:"requiredPoints"`
	Recipe         []standardRequirement `json:"recipe"`
}

type standardRequirement struct {
	FriendlyResourceName string `json:"friendly_resource_name,omitempty"`
	Resource             string `json:"resource"`
	Quantity             int    `json:"quantity"`
	Exact                bool   `json:"exact"`
}

// Add stores the simplified projection of one record.
func (b *StandardBuilder) Add(ctx context.Context, rec model.EngramRecord) error {
	recipe := []standardRequirement{}
	for _, req := range rec.Recipe {
		recipe = append(recipe, standardRequirement{
			FriendlyResourceName: req.ResourceDisplayName,
			Resource:             req.ResourcePath,
			Quantity:             req.Quantity,
			Exact:                req.ExactTypeRequired,
		})
	}
	b.engrams = append(b.engrams, standardEngram{
		Name:           rec.DisplayName,
		Path:           rec.EngramPath,
		StackSize:      rec.StackSize,
		EntryString:    rec.ClassName,
		RequiredLevel:  rec.RequiredLevel,
		RequiredPoints: rec.RequiredPoints,
		Recipe:         recipe,
	})
	return nil
}

// Finalize serializes {"engrams": [...]} as indented JSON.
func (b *StandardBuilder) Finalize(ctx context.Context) ([]string, error) {
	engrams := b.engrams
	if engrams == nil {
		engrams = []standardEngram{}
	}
	data, err := json.MarshalIndent(map[string][]standardEngram{"engrams": engrams}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode engrams: %w", err)
	}

	if err := ensureOutputDir(b.OutputDir); err != nil {
		return nil, err
	}
	dest := filepath.Join(b.OutputDir, b.ModName+"-data.json")
	if err := writeFile(dest, data); err != nil {
		return nil, err
	}
	return []string{dest}, nil
}
