// Package builder turns raw asset data into engram records and writes them
// out in one of the supported export formats.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rcliao/engram-export/internal/assets"
	"github.com/rcliao/engram-export/internal/identity"
	"github.com/rcliao/engram-export/internal/model"
)

// ErrWriteFailure marks a failed output-file or archive write. Write
// failures are fatal to the run.
var ErrWriteFailure = errors.New("write failure")

// Builder accumulates engram records and writes one output format. Output
// order follows accumulation order. A Builder instance is not safe for
// concurrent accumulation from multiple producers.
type Builder interface {
	// Add appends one record to the internal sequence.
	Add(ctx context.Context, rec model.EngramRecord) error

	// Finalize writes the output and returns the written file paths.
	Finalize(ctx context.Context) ([]string, error)
}

// RecordBuilder constructs normalized engram records from catalog data.
type RecordBuilder struct {
	Catalog assets.Catalog
	Deriver identity.Deriver
}

// Build loads the engram entry at path and its backing item and returns the
// normalized record. A missing backing item is a data error that aborts the
// whole run; partial exports are worse than none.
func (b *RecordBuilder) Build(ctx context.Context, path string) (model.EngramRecord, error) {
	eng, err := b.Catalog.EngramDefaults(ctx, path)
	if err != nil {
		return model.EngramRecord{}, err
	}
	if eng.ItemPath == "" {
		return model.EngramRecord{}, fmt.Errorf("engram %s has no backing item: %w", path, assets.ErrNotFound)
	}

	item, err := b.Catalog.ItemDefaults(ctx, eng.ItemPath)
	if err != nil {
		return model.EngramRecord{}, err
	}

	canonical := trimClassSuffix(eng.ItemPath)
	id, _ := b.Deriver.Derive(canonical)

	rec := model.EngramRecord{
		EngramPath:     canonical,
		ExternalID:     id,
		DisplayName:    item.DescriptiveName,
		ClassName:      eng.ClassName,
		RequiredLevel:  eng.RequiredLevel,
		RequiredPoints: eng.RequiredPoints,
		StackSize:      item.StackSize,
		Blueprintable:  item.Blueprintable,
	}
	for _, req := range item.Requirements {
		rec.Recipe = append(rec.Recipe, model.CraftingRequirement{
			ResourcePath:      trimClassSuffix(req.ResourcePath),
			Quantity:          int(req.BaseQuantity),
			ExactTypeRequired: req.ExactType,
		})
	}
	return rec, nil
}

// trimClassSuffix drops the two-character class marker the editor appends to
// full object paths. Identifiers only match the rest of the ecosystem's
// addressing scheme on the trimmed form.
func trimClassSuffix(path string) string {
	if len(path) <= 2 {
		return path
	}
	return path[:len(path)-2]
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, path, err)
	}
	return nil
}

func ensureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create output directory %s: %w", ErrWriteFailure, dir, err)
	}
	return nil
}
