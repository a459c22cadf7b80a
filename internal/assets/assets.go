// Package assets provides read access to a devkit asset dump. The export
// pipeline runs outside the editor, so the raw engram and item objects it
// consumes arrive as a SQLite database exported from the devkit.
package assets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested asset or default object is not
// present in the catalog.
var ErrNotFound = errors.New("asset not found")

// EngramDefaults are the class-default properties of one engram entry.
type EngramDefaults struct {
	// ClassName is the concrete blueprint class backing the entry.
	ClassName      string
	RequiredLevel  int
	RequiredPoints int

	// ItemPath is the full object path of the backing item, class suffix
	// included, as the editor reports it. Empty when the entry has no
	// backing item.
	ItemPath string
}

// ResourceRequirement is one raw crafting ingredient as stored in the dump.
type ResourceRequirement struct {
	// ResourcePath is the full object path of the resource item, class
	// suffix included.
	ResourcePath string

	// BaseQuantity may be fractional in source data.
	BaseQuantity float64

	ExactType bool
}

// ItemDefaults are the class-default properties of one item.
type ItemDefaults struct {
	DescriptiveName string
	Blueprintable   bool
	StackSize       int
	Requirements    []ResourceRequirement
}

// Catalog is the asset-introspection surface the pipeline consumes. One
// implementation reads SQLite dumps; tests substitute in-memory fakes.
type Catalog interface {
	// ListAssetPaths enumerates descendant asset paths under root.
	ListAssetPaths(ctx context.Context, root string) ([]string, error)

	// AdditionalEngramClasses returns the engram entry paths declared by
	// the mod data asset at path, in declaration order.
	AdditionalEngramClasses(ctx context.Context, path string) ([]string, error)

	// EngramDefaults loads the class defaults of the engram entry at path.
	EngramDefaults(ctx context.Context, path string) (*EngramDefaults, error)

	// ItemDefaults loads the class defaults of the item at the given full
	// object path.
	ItemDefaults(ctx context.Context, path string) (*ItemDefaults, error)

	// ItemName returns the descriptive name of the item whose object path
	// matches the given canonical (suffix-stripped) path.
	ItemName(ctx context.Context, canonicalPath string) (string, error)

	// Close releases the catalog.
	Close() error
}
