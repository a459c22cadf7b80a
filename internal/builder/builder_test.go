package builder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/rcliao/engram-export/internal/assets"
	"github.com/rcliao/engram-export/internal/identity"
)

var testNamespace = uuid.MustParse("82aa4465-85f9-4b9e-8d36-f66164cef0a6")

// fakeCatalog is an in-memory assets.Catalog for builder tests.
type fakeCatalog struct {
	assetPaths []string
	modData    map[string][]string
	engrams    map[string]*assets.EngramDefaults
	items      map[string]*assets.ItemDefaults
	names      map[string]string
}

func (f *fakeCatalog) ListAssetPaths(ctx context.Context, root string) ([]string, error) {
	return f.assetPaths, nil
}

func (f *fakeCatalog) AdditionalEngramClasses(ctx context.Context, path string) ([]string, error) {
	return f.modData[path], nil
}

func (f *fakeCatalog) EngramDefaults(ctx context.Context, path string) (*assets.EngramDefaults, error) {
	d, ok := f.engrams[path]
	if !ok {
		return nil, fmt.Errorf("engram defaults for %s: %w", path, assets.ErrNotFound)
	}
	return d, nil
}

func (f *fakeCatalog) ItemDefaults(ctx context.Context, path string) (*assets.ItemDefaults, error) {
	d, ok := f.items[path]
	if !ok {
		return nil, fmt.Errorf("item defaults for %s: %w", path, assets.ErrNotFound)
	}
	return d, nil
}

func (f *fakeCatalog) ItemName(ctx context.Context, canonicalPath string) (string, error) {
	name, ok := f.names[canonicalPath]
	if !ok {
		return "", fmt.Errorf("item name for %s: %w", canonicalPath, assets.ErrNotFound)
	}
	return name, nil
}

func (f *fakeCatalog) Close() error { return nil }

func testDeriver() identity.Deriver {
	return identity.Deriver{
		Namespace: testNamespace,
		Owners:    identity.Ownership{{Prefix: "/Game/", ContentPackID: "test-pack"}},
	}
}

func axeCatalog() *fakeCatalog {
	return &fakeCatalog{
		engrams: map[string]*assets.EngramDefaults{
			"/Game/Mods/Example/EngramEntry_Axe": {
				ClassName:      "EngramEntry_Axe_C",
				RequiredLevel:  12,
				RequiredPoints: 6,
				ItemPath:       "/Game/Mods/Example/Axe.Axe_C",
			},
		},
		items: map[string]*assets.ItemDefaults{
			"/Game/Mods/Example/Axe.Axe_C": {
				DescriptiveName: "Stone Axe",
				Blueprintable:   true,
				StackSize:       1,
				Requirements: []assets.ResourceRequirement{
					{ResourcePath: "/Game/Stone.Stone_C", BaseQuantity: 3.9},
					{ResourcePath: "/Game/Wood.Wood_C", BaseQuantity: 1, ExactType: true},
				},
			},
		},
		names: map[string]string{
			"/Game/Stone.Stone": "Stone",
			"/Game/Wood.Wood":   "Wood",
		},
	}
}

func TestRecordBuilderBuild(t *testing.T) {
	ctx := context.Background()
	b := &RecordBuilder{Catalog: axeCatalog(), Deriver: testDeriver()}

	rec, err := b.Build(ctx, "/Game/Mods/Example/EngramEntry_Axe")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if rec.EngramPath != "/Game/Mods/Example/Axe.Axe" {
		t.Errorf("class suffix not stripped, got %q", rec.EngramPath)
	}
	want := uuid.NewSHA1(testNamespace, []byte("test-pack:/game/mods/example/axe.axe")).String()
	if rec.ExternalID != want {
		t.Errorf("expected external id %q, got %q", want, rec.ExternalID)
	}
	if rec.DisplayName != "Stone Axe" || rec.ClassName != "EngramEntry_Axe_C" {
		t.Errorf("unexpected names: %q / %q", rec.DisplayName, rec.ClassName)
	}
	if rec.RequiredLevel != 12 || rec.RequiredPoints != 6 || rec.StackSize != 1 {
		t.Errorf("unexpected numbers: %+v", rec)
	}
	if !rec.Blueprintable {
		t.Error("expected blueprintable")
	}
	if len(rec.Recipe) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(rec.Recipe))
	}
	// 3.9 truncates toward zero, not rounds.
	if rec.Recipe[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", rec.Recipe[0].Quantity)
	}
	if rec.Recipe[0].ResourcePath != "/Game/Stone.Stone" {
		t.Errorf("resource suffix not stripped, got %q", rec.Recipe[0].ResourcePath)
	}
	if !rec.Recipe[1].ExactTypeRequired {
		t.Error("expected exact type on second requirement")
	}
	if rec.Recipe[0].ResourceDisplayName != "" {
		t.Errorf("record builder must not resolve display names, got %q", rec.Recipe[0].ResourceDisplayName)
	}
}

func TestRecordBuilderUnownedPath(t *testing.T) {
	ctx := context.Background()
	cat := axeCatalog()
	cat.engrams["/Engine/EngramEntry"] = &assets.EngramDefaults{
		ClassName: "EngramEntry_C",
		ItemPath:  "/Engine/Item.Item_C",
	}
	cat.items["/Engine/Item.Item_C"] = &assets.ItemDefaults{DescriptiveName: "Engine Item", StackSize: 1}
	b := &RecordBuilder{Catalog: cat, Deriver: testDeriver()}

	rec, err := b.Build(ctx, "/Engine/EngramEntry")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if rec.ExternalID != "" {
		t.Errorf("expected empty external id for unowned path, got %q", rec.ExternalID)
	}
}

func TestRecordBuilderMissingItem(t *testing.T) {
	ctx := context.Background()
	cat := axeCatalog()
	cat.engrams["/Game/Broken"] = &assets.EngramDefaults{
		ClassName: "Broken_C",
		ItemPath:  "/Game/Gone.Gone_C",
	}
	b := &RecordBuilder{Catalog: cat, Deriver: testDeriver()}

	_, err := b.Build(ctx, "/Game/Broken")
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing backing item, got %v", err)
	}
}

func TestRecordBuilderNoBackingItem(t *testing.T) {
	ctx := context.Background()
	cat := axeCatalog()
	cat.engrams["/Game/NoItem"] = &assets.EngramDefaults{ClassName: "NoItem_C"}
	b := &RecordBuilder{Catalog: cat, Deriver: testDeriver()}

	_, err := b.Build(ctx, "/Game/NoItem")
	if !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrNotFound for absent backing item, got %v", err)
	}
}

func TestTrimClassSuffix(t *testing.T) {
	if got := trimClassSuffix("/Game/Item.Item_C"); got != "/Game/Item.Item" {
		t.Errorf("expected /Game/Item.Item, got %q", got)
	}
	if got := trimClassSuffix("ab"); got != "ab" {
		t.Errorf("short path must pass through, got %q", got)
	}
}
