package parser

import (
	"strconv"
	"strings"
)

const itemHeader = "item name"

// Item is a top-level order line with the modifiers attached to it.
type Item struct {
	Name       string
	Quantity   int
	PriceCents int64
	Notes      *string
	Modifiers  []Modifier
}

// Modifier is a sub-line of an Item, such as a sauce choice. Modifiers never
// nest further.
type Modifier struct {
	Name       string
	Quantity   int
	PriceCents int64
}

// Block is one name/quantity[/price] group read from the item region.
type Block struct {
	Name       string
	Indent     int
	Quantity   int
	PriceCents int64
	Priced     bool
}

// ModifierPolicy decides whether a block attaches to the preceding item. The
// layout heuristics it encodes are tied to the current email template.
type ModifierPolicy interface {
	IsModifier(b Block) bool
}

// ModifierPolicyFunc adapts a function to ModifierPolicy.
type ModifierPolicyFunc func(b Block) bool

// IsModifier implements ModifierPolicy.
func (f ModifierPolicyFunc) IsModifier(b Block) bool { return f(b) }

// IndentOrUnpriced treats unpriced blocks and blocks indented by two or more
// spaces as modifiers.
var IndentOrUnpriced ModifierPolicy = ModifierPolicyFunc(func(b Block) bool {
	return !b.Priced || b.Indent >= 2
})

// ExtractItems reads item blocks between the "item name" header and the
// subtotal line. Lines that cannot start a block are skipped one at a time.
// A modifier seen before any item has nowhere to attach and is dropped.
func ExtractItems(lines Lines, policy ModifierPolicy) []Item {
	if policy == nil {
		policy = IndentOrUnpriced
	}
	region := itemRegion(lines)

	var items []Item
	for i := 0; i < len(region); {
		block, consumed, ok := readBlock(region, i)
		if !ok {
			i++
			continue
		}
		i += consumed

		if policy.IsModifier(block) {
			if len(items) == 0 {
				continue
			}
			last := &items[len(items)-1]
			last.Modifiers = append(last.Modifiers, Modifier{
				Name:       block.Name,
				Quantity:   block.Quantity,
				PriceCents: block.PriceCents,
			})
			continue
		}
		items = append(items, Item{
			Name:       block.Name,
			Quantity:   block.Quantity,
			PriceCents: block.PriceCents,
		})
	}
	return items
}

// itemRegion returns the non-blank, non-header lines of the item table with
// their indentation intact.
func itemRegion(lines Lines) []string {
	start := lines.Find(0, itemHeader)
	if start < 0 {
		return nil
	}
	var region []string
	for i := start + 1; i < len(lines); i++ {
		key := lines.Key(i)
		if key == "subtotal" {
			break
		}
		if _, ok := inlineAmount(key, "subtotal"); ok {
			break
		}
		if key == "" || key == "quantity" || key == "price" {
			continue
		}
		region = append(region, lines[i])
	}
	return region
}

func readBlock(region []string, i int) (Block, int, bool) {
	if i+1 >= len(region) {
		return Block{}, 0, false
	}
	name := strings.TrimSpace(region[i])
	if name == "" || isPriceLine(name) {
		return Block{}, 0, false
	}
	qty, ok := parseQuantity(region[i+1])
	if !ok {
		return Block{}, 0, false
	}
	block := Block{Name: name, Indent: indentWidth(region[i]), Quantity: qty}
	if i+2 < len(region) && isPriceLine(region[i+2]) {
		block.PriceCents = ToMinorUnits(region[i+2])
		block.Priced = true
		return block, 3, true
	}
	return block, 2, true
}

func parseQuantity(line string) (int, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0, false
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
