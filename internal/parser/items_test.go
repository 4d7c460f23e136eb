package parser

import (
	"reflect"
	"testing"
)

func itemsFrom(region ...string) Lines {
	lines := Lines{"Item Name"}
	lines = append(lines, region...)
	return append(lines, "Subtotal", "$0.00")
}

func TestExtractItemsAttachesIndentedModifier(t *testing.T) {
	got := ExtractItems(itemsFrom("Nugget Tray", "2", "$40.00", "  Honey Mustard", "2"), nil)
	want := []Item{{
		Name:       "Nugget Tray",
		Quantity:   2,
		PriceCents: 4000,
		Modifiers:  []Modifier{{Name: "Honey Mustard", Quantity: 2}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestExtractItemsMultipleItems(t *testing.T) {
	got := ExtractItems(SplitLines(Normalize(samplePickupEmail)), IndentOrUnpriced)
	if len(got) != 2 {
		t.Fatalf("expected 2 top-level items, got %d: %+v", len(got), got)
	}
	if got[0].Name != "Nugget Tray" || len(got[0].Modifiers) != 1 {
		t.Fatalf("unexpected first item %+v", got[0])
	}
	second := got[1]
	if second.Name != "Chick-n-Strips Tray" || second.PriceCents != 103550 || second.Quantity != 1 {
		t.Fatalf("unexpected second item %+v", second)
	}
	wantMods := []Modifier{
		{Name: "Buffalo", Quantity: 1},
		{Name: "Extra Pickles", Quantity: 1, PriceCents: 75},
	}
	if !reflect.DeepEqual(second.Modifiers, wantMods) {
		t.Fatalf("expected modifiers %+v, got %+v", wantMods, second.Modifiers)
	}
}

func TestExtractItemsAcceptsPriceWithoutSymbol(t *testing.T) {
	got := ExtractItems(SplitLines(Normalize("Item Name\nNugget Tray\n2\n40.00\nSubtotal\n$40.00")), nil)
	want := []Item{{Name: "Nugget Tray", Quantity: 2, PriceCents: 4000}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestExtractItemsUnpricedUnindentedIsModifier(t *testing.T) {
	got := ExtractItems(itemsFrom("Cookie Tray", "1", "$25.00", "Chocolate Chunk", "1"), nil)
	if len(got) != 1 || len(got[0].Modifiers) != 1 || got[0].Modifiers[0].Name != "Chocolate Chunk" {
		t.Fatalf("unexpected items %+v", got)
	}
}

func TestExtractItemsDropsOrphanModifier(t *testing.T) {
	got := ExtractItems(itemsFrom("  Honey Mustard", "2", "Nugget Tray", "2", "$40.00"), nil)
	if len(got) != 1 || got[0].Name != "Nugget Tray" || len(got[0].Modifiers) != 0 {
		t.Fatalf("expected orphan modifier to be dropped, got %+v", got)
	}
}

func TestExtractItemsSkipsMalformedLines(t *testing.T) {
	got := ExtractItems(itemsFrom(
		"Special instructions below",
		"Nugget Tray",
		"two",
		"Nugget Tray",
		"0",
		"Fruit Cup",
		"3",
		"$4.50",
	), nil)
	if len(got) != 1 || got[0].Name != "Fruit Cup" || got[0].Quantity != 3 || got[0].PriceCents != 450 {
		t.Fatalf("unexpected items %+v", got)
	}
}

func TestExtractItemsWithoutHeader(t *testing.T) {
	if got := ExtractItems(SplitLines("Nugget Tray\n2\n$40.00"), nil); got != nil {
		t.Fatalf("expected no items without header, got %+v", got)
	}
}

func TestExtractItemsRunsToEndWithoutSubtotal(t *testing.T) {
	got := ExtractItems(SplitLines("Item Name\nNugget Tray\n2\n$40.00"), nil)
	if len(got) != 1 || got[0].PriceCents != 4000 {
		t.Fatalf("unexpected items %+v", got)
	}
}

func TestExtractItemsCustomPolicy(t *testing.T) {
	everythingTopLevel := ModifierPolicyFunc(func(Block) bool { return false })
	got := ExtractItems(itemsFrom("Nugget Tray", "2", "$40.00", "  Honey Mustard", "2"), everythingTopLevel)
	if len(got) != 2 || got[1].Name != "Honey Mustard" || got[1].PriceCents != 0 {
		t.Fatalf("unexpected items %+v", got)
	}
}
