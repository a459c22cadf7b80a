package builder

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rcliao/engram-export/internal/model"
)

var csvHeader = []string{
	"Item Name",
	"Item Path",
	"Max Stack Size",
	"Engram Class Name",
	"Required Level",
	"Required Engram Points",
	"Crafting Recipe",
}

// NameResolver resolves a canonical resource path to a descriptive name.
// assets.Catalog satisfies it.
type NameResolver interface {
	ItemName(ctx context.Context, canonicalPath string) (string, error)
}

// CSVBuilder writes the spreadsheet-friendly format. It accumulates the
// same projection as StandardBuilder but resolves each crafting
// requirement's resource display name through a secondary lookup.
type CSVBuilder struct {
	StandardBuilder
	names NameResolver
}

// NewCSVBuilder returns a builder writing {mod_name}.csv.
func NewCSVBuilder(modName, outputDir string, names NameResolver) *CSVBuilder {
	return &CSVBuilder{
		StandardBuilder: StandardBuilder{ModName: modName, OutputDir: outputDir},
		names:           names,
	}
}

// Add resolves resource display names and stores the projection. The
// incoming record is not mutated; the recipe is copied before annotation.
func (b *CSVBuilder) Add(ctx context.Context, rec model.EngramRecord) error {
	if len(rec.Recipe) > 0 {
		recipe := make([]model.CraftingRequirement, len(rec.Recipe))
		copy(recipe, rec.Recipe)
		for i := range recipe {
			name, err := b.names.ItemName(ctx, recipe[i].ResourcePath)
			if err != nil {
				return fmt.Errorf("resolve resource name: %w", err)
			}
			recipe[i].ResourceDisplayName = name
		}
		rec.Recipe = recipe
	}
	return b.StandardBuilder.Add(ctx, rec)
}

// Finalize writes the CSV with the fixed seven-column header. The recipe
// column is a newline-joined human-readable list in recipe order.
func (b *CSVBuilder) Finalize(ctx context.Context) ([]string, error) {
	if err := ensureOutputDir(b.OutputDir); err != nil {
		return nil, err
	}
	dest := filepath.Join(b.OutputDir, b.ModName+".csv")

	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, dest, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, dest, err)
	}
	for _, e := range b.engrams {
		lines := make([]string, 0, len(e.Recipe))
		for _, req := range e.Recipe {
			lines = append(lines, fmt.Sprintf("%s x%d (Exact: %t)", req.FriendlyResourceName, req.Quantity, req.Exact))
		}
		row := []string{
			e.Name,
			e.Path,
			strconv.Itoa(e.StackSize),
			e.EntryString,
			strconv.Itoa(e.RequiredLevel),
			strconv.Itoa(e.RequiredPoints),
			strings.Join(lines, "\n"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, dest, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, dest, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailure, dest, err)
	}
	return []string{dest}, nil
}
