// Package model defines the format-independent engram record types.
package model

// EngramRecord is the normalized projection of one craftable item. Records
// are built once per run and never mutated afterwards; output order follows
// accumulation order.
type EngramRecord struct {
	// EngramPath is the canonical asset path of the backing item, with the
	// editor's trailing class suffix stripped.
	EngramPath string

	// ExternalID is the derived identifier for EngramPath. Empty when no
	// ownership prefix matched the path.
	ExternalID string

	DisplayName    string
	ClassName      string
	RequiredLevel  int
	RequiredPoints int
	StackSize      int
	Blueprintable  bool

	// Recipe lists crafting requirements in source order.
	Recipe []CraftingRequirement
}

// CraftingRequirement is one normalized crafting ingredient.
type CraftingRequirement struct {
	// ResourcePath is the canonical asset path of the resource item.
	ResourcePath string

	// ResourceDisplayName is only populated by output formats that need a
	// human-readable resource name.
	ResourceDisplayName string

	// Quantity is the base requirement truncated toward zero.
	Quantity int

	ExactTypeRequired bool
}
