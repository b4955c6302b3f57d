package bookings

import (
	"testing"

	"salonpro-bookings/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevenueBreakdown_Itemized(t *testing.T) {
	txn, err := Consolidate(completedBooking(service("Cut", "100"), product("Spray", "25", 2)), "cash", Discount{Percentage: decPtr("10")})
	require.NoError(t, err)

	got := RevenueBreakdown(txn)

	assert.True(t, dec("90").Equal(got.ServiceRevenue))
	assert.True(t, dec("50").Equal(got.ProductRevenue))
	assert.True(t, dec("150").Equal(got.OriginalAmount))
	assert.True(t, txn.Amount.Equal(got.Total()))
}

func TestRevenueBreakdown_IsStable(t *testing.T) {
	txn, err := Consolidate(completedBooking(service("Cut", "60"), product("Gel", "9.5", 1)), "cash", Discount{})
	require.NoError(t, err)

	first := RevenueBreakdown(txn)
	second := RevenueBreakdown(txn)
	assert.Equal(t, first, second)
}

func TestRevenueBreakdown_Legacy(t *testing.T) {
	cases := []struct {
		name                       string
		in                         models.LegacyTransaction
		service, product, original string
	}{
		{
			name:    "untagged amount is service revenue",
			in:      models.LegacyTransaction{Amount: dec("70")},
			service: "70", product: "0", original: "70",
		},
		{
			name:    "product category",
			in:      models.LegacyTransaction{Amount: dec("30"), Category: "Products"},
			service: "0", product: "30", original: "30",
		},
		{
			name:    "product type",
			in:      models.LegacyTransaction{Amount: dec("12"), Type: "product_sale"},
			service: "0", product: "12", original: "12",
		},
		{
			name: "split fields with original",
			in: models.LegacyTransaction{
				Amount:                dec("130"),
				ServiceAmount:         decPtr("90"),
				ProductAmount:         decPtr("40"),
				OriginalServiceAmount: decPtr("100"),
			},
			service: "90", product: "40", original: "140",
		},
		{
			name:    "only product split present",
			in:      models.LegacyTransaction{Amount: dec("40"), ProductAmount: decPtr("40")},
			service: "0", product: "40", original: "40",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RevenueBreakdown(tc.in)
			assert.True(t, dec(tc.service).Equal(got.ServiceRevenue), "service %s", got.ServiceRevenue)
			assert.True(t, dec(tc.product).Equal(got.ProductRevenue), "product %s", got.ProductRevenue)
			assert.True(t, dec(tc.original).Equal(got.OriginalAmount), "original %s", got.OriginalAmount)

			ptr := tc.in
			assert.Equal(t, got, RevenueBreakdown(&ptr))
		})
	}
}

func TestRevenueBreakdown_FlatTransactionRow(t *testing.T) {
	row := &models.Transaction{Amount: dec("55"), Category: "product"}

	got := RevenueBreakdown(row)

	assert.True(t, got.ServiceRevenue.IsZero())
	assert.True(t, dec("55").Equal(got.ProductRevenue))
}

func TestRevenueBreakdown_Nil(t *testing.T) {
	var txn *models.Transaction
	assert.Equal(t, Breakdown{}, RevenueBreakdown(txn))
	assert.Equal(t, Breakdown{}, RevenueBreakdown(nil))
}
