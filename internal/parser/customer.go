package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

const (
	customerHeader      = "customer information"
	deliveryAddressHead = "delivery address"
	maxAddressLines     = 14
	customerWindow      = 8
)

var (
	emailPattern      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	guestCountPattern = regexp.MustCompile(`^guest count\s*:\s*(\d+)$`)
	paperGoodsPattern = regexp.MustCompile(`^paper goods\s*:\s*(yes|no)$`)
)

// Customer holds the fields read from the customer information block.
type Customer struct {
	Name       *string
	Phone      *string
	Email      *string
	GuestCount *int
	PaperGoods *bool
}

// ExtractDeliveryAddress collects the lines after "delivery address" up to the
// next section header. Only delivery orders carry an address.
func ExtractDeliveryAddress(lines Lines, fulfillment enums.FulfillmentType) *string {
	if fulfillment != enums.FulfillmentDelivery {
		return nil
	}
	idx := lines.Find(0, deliveryAddressHead)
	if idx < 0 {
		return nil
	}
	collected := lines.Window(idx, maxAddressLines, isSectionHeader)
	if len(collected) == 0 {
		return nil
	}
	return stringPtr(strings.Join(collected, "\n"))
}

// ExtractCustomer reads name, phone and email positionally from the three
// lines after "customer information", then scans the following lines for
// guest count and paper goods labels.
func ExtractCustomer(lines Lines) Customer {
	var out Customer
	idx := lines.Find(0, customerHeader)
	if idx < 0 {
		return out
	}

	candidates := lines.Window(idx, 3, nil)
	if len(candidates) > 0 && !isSectionHeader(strings.ToLower(candidates[0])) {
		out.Name = stringPtr(candidates[0])
	}
	if len(candidates) > 1 {
		out.Phone = NormalizePhone(candidates[1])
	}
	if len(candidates) > 2 {
		out.Email = stringPtr(emailPattern.FindString(candidates[2]))
	}

	for _, line := range lines.Window(idx, customerWindow, nil) {
		key := strings.ToLower(line)
		if m := guestCountPattern.FindStringSubmatch(key); m != nil && out.GuestCount == nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				out.GuestCount = &n
			}
			continue
		}
		if m := paperGoodsPattern.FindStringSubmatch(key); m != nil && out.PaperGoods == nil {
			v := m[1] == "yes"
			out.PaperGoods = &v
		}
	}
	return out
}

// NormalizePhone keeps digits and "+", requires 10-15 digits and returns an
// E.164-style "+<digits>" value. A bare 10 digit number is assumed to be
// North American and gets a leading 1.
func NormalizePhone(raw string) *string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	digits := strings.ReplaceAll(cleaned, "+", "")
	if len(digits) < 10 || len(digits) > 15 {
		return nil
	}
	if len(digits) == 10 && !strings.HasPrefix(cleaned, "+") {
		digits = "1" + digits
	}
	return stringPtr("+" + digits)
}
