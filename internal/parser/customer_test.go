package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/orderdesk-backend/pkg/enums"
)

func TestExtractDeliveryAddress(t *testing.T) {
	lines := SplitLines(Normalize(sampleDeliveryEmail))

	got := ExtractDeliveryAddress(lines, enums.FulfillmentDelivery)
	require.NotNil(t, got)
	assert.Equal(t, "2675 Morgantown Road\nPenske (white Penske building)\nReading, PA 19607", *got)

	assert.Nil(t, ExtractDeliveryAddress(lines, enums.FulfillmentPickup))
	assert.Nil(t, ExtractDeliveryAddress(lines, enums.FulfillmentUnknown))
}

func TestExtractDeliveryAddressCapsLines(t *testing.T) {
	var b strings.Builder
	b.WriteString("Delivery Address\n")
	for i := 0; i < 20; i++ {
		b.WriteString("line\n")
	}
	got := ExtractDeliveryAddress(SplitLines(Normalize(b.String())), enums.FulfillmentDelivery)
	require.NotNil(t, got)
	assert.Len(t, strings.Split(*got, "\n"), 14)
}

func TestExtractDeliveryAddressEmptyBlock(t *testing.T) {
	lines := SplitLines(Normalize("Delivery Address\n\nCustomer Information\nA"))
	assert.Nil(t, ExtractDeliveryAddress(lines, enums.FulfillmentDelivery))
}

func TestExtractCustomer(t *testing.T) {
	got := ExtractCustomer(SplitLines(Normalize(sampleDeliveryEmail)))

	require.NotNil(t, got.Name)
	assert.Equal(t, "Pepper Joulwan", *got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "+15706403397", *got.Phone)
	require.NotNil(t, got.Email)
	assert.Equal(t, "pepper.joulwan@penske.com", *got.Email)
	require.NotNil(t, got.GuestCount)
	assert.Equal(t, 15, *got.GuestCount)
	require.NotNil(t, got.PaperGoods)
	assert.False(t, *got.PaperGoods)
}

func TestExtractCustomerLabelsInAnyOrder(t *testing.T) {
	got := ExtractCustomer(SplitLines(Normalize(samplePickupEmail)))

	require.NotNil(t, got.Phone)
	assert.Equal(t, "+16105550142", *got.Phone)
	require.NotNil(t, got.Email)
	assert.Equal(t, "dana.smith@example.com", *got.Email)
	require.NotNil(t, got.GuestCount)
	assert.Equal(t, 30, *got.GuestCount)
	require.NotNil(t, got.PaperGoods)
	assert.True(t, *got.PaperGoods)
}

func TestExtractCustomerMissingHeader(t *testing.T) {
	got := ExtractCustomer(SplitLines("Pepper Joulwan\n+15706403397\nGuest Count: 4"))
	assert.Equal(t, Customer{}, got)
}

func TestExtractCustomerBadPhoneAndEmail(t *testing.T) {
	got := ExtractCustomer(SplitLines("Customer Information\nPat\n555-0142\nnot an email"))
	require.NotNil(t, got.Name)
	assert.Equal(t, "Pat", *got.Name)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.Email)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+15706403397", "+15706403397"},
		{"(570) 640-3397", "+15706403397"},
		{"570.640.3397", "+15706403397"},
		{"1 570 640 3397", "+15706403397"},
		{"+44 20 7946 0958", "+442079460958"},
		{"640-3397", ""},
		{"1234567890123456", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizePhone(tt.in)
		if tt.want == "" {
			assert.Nil(t, got, "input %q", tt.in)
			continue
		}
		if assert.NotNil(t, got, "input %q", tt.in) {
			assert.Equal(t, tt.want, *got, "input %q", tt.in)
		}
	}
}
