package identity

import (
	"testing"

	"github.com/google/uuid"
)

var testNamespace = uuid.MustParse("82aa4465-85f9-4b9e-8d36-f66164cef0a6")

func TestDeriveDeterministic(t *testing.T) {
	d := Deriver{
		Namespace: testNamespace,
		Owners:    Ownership{{Prefix: "/Game/", ContentPackID: "A"}},
	}

	id1, ok := d.Derive("/Game/Item_C")
	if !ok {
		t.Fatal("expected a match for /Game/Item_C")
	}
	id2, ok := d.Derive("/Game/Item_C")
	if !ok || id1 != id2 {
		t.Errorf("expected identical identifiers, got %q and %q", id1, id2)
	}

	want := uuid.NewSHA1(testNamespace, []byte("a:/game/item_c")).String()
	if id1 != want {
		t.Errorf("expected %q, got %q", want, id1)
	}
}

func TestDeriveCaseInsensitive(t *testing.T) {
	d := Deriver{
		Namespace: testNamespace,
		Owners:    Ownership{{Prefix: "/Game/", ContentPackID: "pack"}},
	}

	lower, _ := d.Derive("/Game/mods/item")
	upper, _ := d.Derive("/Game/MODS/ITEM")
	if lower != upper {
		t.Errorf("case change altered identifier: %q vs %q", lower, upper)
	}
}

func TestDeriveUnownedPath(t *testing.T) {
	d := Deriver{
		Namespace: testNamespace,
		Owners:    Ownership{{Prefix: "/Game/", ContentPackID: "A"}},
	}

	id, ok := d.Derive("/Engine/Item")
	if ok {
		t.Errorf("expected no match, got %q", id)
	}
	if id != "" {
		t.Errorf("expected empty identifier, got %q", id)
	}
}

func TestDeriveFirstMatchWins(t *testing.T) {
	// Declaration order decides for overlapping prefixes, not prefix length.
	d := Deriver{
		Namespace: testNamespace,
		Owners: Ownership{
			{Prefix: "/Game/", ContentPackID: "base"},
			{Prefix: "/Game/Mods/", ContentPackID: "mod"},
		},
	}

	got, ok := d.Derive("/Game/Mods/Item")
	if !ok {
		t.Fatal("expected a match")
	}
	want := uuid.NewSHA1(testNamespace, []byte("base:/game/mods/item")).String()
	if got != want {
		t.Errorf("expected the earlier prefix to win, got %q want %q", got, want)
	}
}

func TestDeriveDifferentNamespace(t *testing.T) {
	owners := Ownership{{Prefix: "/Game/", ContentPackID: "A"}}
	a := Deriver{Namespace: testNamespace, Owners: owners}
	b := Deriver{Namespace: uuid.MustParse("11111111-2222-3333-4444-555555555555"), Owners: owners}

	idA, _ := a.Derive("/Game/Item")
	idB, _ := b.Derive("/Game/Item")
	if idA == idB {
		t.Error("expected different namespaces to produce different identifiers")
	}
}
