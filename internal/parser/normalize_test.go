package parser

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "crlf and cr", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "nbsp", in: "Guest\u00a0Count:\u00a0\u00a015", want: "Guest Count: 15"},
		{name: "interior runs collapse", in: "Large   Garden\t\tSalad", want: "Large Garden Salad"},
		{name: "indentation kept", in: "Nugget Tray\n  Honey  Mustard  ", want: "Nugget Tray\n  Honey Mustard"},
		{name: "tab indentation becomes spaces", in: "x\n\t\tSauce", want: "x\n  Sauce"},
		{name: "blank runs collapse", in: "a\n\n\n\n\nb", want: "a\n\nb"},
		{name: "whitespace-only lines count as blank", in: "a\n   \n \t \n\nb", want: "a\n\nb"},
		{name: "outer trim", in: "\n\n  Delivery Time  \n\n", want: "Delivery Time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		sampleDeliveryEmail,
		"Item Name\r\n  Honey\u00a0Mustard \r\n\r\n\r\n\r\n2",
		"\t\tleading tabs\n\n\n\ntrailing   ",
		" \u00a0 ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestBodyHashIgnoresIndentationAndLineEndings(t *testing.T) {
	a := BodyHash("Item Name\nNugget Tray\n2\n  Honey Mustard\n2")
	b := BodyHash("Item Name\r\nNugget Tray\r\n2\r\n    Honey Mustard\r\n2\r\n\r\n\r\n")
	if a == "" || a != b {
		t.Fatalf("expected equal non-empty hashes, got %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex digest, got %q", a)
	}
	if c := BodyHash("Item Name\nNugget Tray\n3"); c == a {
		t.Fatalf("different bodies should not collide")
	}
}

func TestBodyHashEmpty(t *testing.T) {
	if got := BodyHash(" \n\t\n"); got != "" {
		t.Fatalf("expected empty hash for blank text, got %q", got)
	}
}

func TestBodyHashMatchesNormalizedForm(t *testing.T) {
	raw := "Item Name  \nNugget Tray \t\n2\n   \n \n\n\n$40.00   \n"
	if got, want := BodyHash(raw), BodyHash(Normalize(raw)); got != want {
		t.Fatalf("hash of raw text %q differs from hash of its normalized form %q", got, want)
	}
	if BodyHash(raw) != BodyHash("Item Name\nNugget Tray\n2\n\n$40.00") {
		t.Fatalf("trailing whitespace and whitespace-only lines should not change the hash")
	}
}
