package bookings

import (
	"strings"

	"salonpro-bookings/models"

	"github.com/shopspring/decimal"
)

// Breakdown is the service/product split reporting works with.
type Breakdown struct {
	ServiceRevenue decimal.Decimal `json:"serviceRevenue"`
	ProductRevenue decimal.Decimal `json:"productRevenue"`
	OriginalAmount decimal.Decimal `json:"originalAmount"`
}

// Add sums two breakdowns.
func (b Breakdown) Add(o Breakdown) Breakdown {
	return Breakdown{
		ServiceRevenue: b.ServiceRevenue.Add(o.ServiceRevenue),
		ProductRevenue: b.ProductRevenue.Add(o.ProductRevenue),
		OriginalAmount: b.OriginalAmount.Add(o.OriginalAmount),
	}
}

// Total is service plus product revenue.
func (b Breakdown) Total() decimal.Decimal {
	return b.ServiceRevenue.Add(b.ProductRevenue)
}

// RevenueBreakdown splits any ledger record into service and product revenue.
// Missing fields count as zero; a nil record yields an empty breakdown.
func RevenueBreakdown(src models.LedgerRecord) Breakdown {
	switch t := src.(type) {
	case *models.Transaction:
		if t == nil {
			return Breakdown{}
		}
		return transactionBreakdown(t)
	case *models.LegacyTransaction:
		if t == nil {
			return Breakdown{}
		}
		return legacyBreakdown(*t)
	case models.LegacyTransaction:
		return legacyBreakdown(t)
	default:
		return Breakdown{}
	}
}

func transactionBreakdown(t *models.Transaction) Breakdown {
	if len(t.Items) == 0 {
		// Rows without lines predate itemization and carry only flat fields.
		service, product := t.ServiceAmount, t.ProductAmount
		legacy := models.LegacyTransaction{
			Amount:                t.Amount,
			OriginalServiceAmount: &t.OriginalServiceAmount,
			Category:              t.Category,
		}
		if !service.IsZero() || !product.IsZero() {
			legacy.ServiceAmount = &service
			legacy.ProductAmount = &product
		}
		if t.OriginalServiceAmount.IsZero() {
			legacy.OriginalServiceAmount = nil
		}
		return legacyBreakdown(legacy)
	}

	var out Breakdown
	for _, item := range t.Items {
		switch item.Kind {
		case models.ItemService:
			out.ServiceRevenue = out.ServiceRevenue.Add(item.TotalPrice)
		case models.ItemProduct:
			out.ProductRevenue = out.ProductRevenue.Add(item.TotalPrice)
		default:
			continue
		}
		out.OriginalAmount = out.OriginalAmount.Add(item.OriginalPrice)
	}
	return out
}

func legacyBreakdown(t models.LegacyTransaction) Breakdown {
	var out Breakdown
	if t.ServiceAmount != nil || t.ProductAmount != nil {
		if t.ServiceAmount != nil {
			out.ServiceRevenue = *t.ServiceAmount
		}
		if t.ProductAmount != nil {
			out.ProductRevenue = *t.ProductAmount
		}
	} else if isProductTag(t.Category) || isProductTag(t.Type) {
		out.ProductRevenue = t.Amount
	} else {
		out.ServiceRevenue = t.Amount
	}

	original := out.ServiceRevenue
	if t.OriginalServiceAmount != nil {
		original = *t.OriginalServiceAmount
	}
	out.OriginalAmount = original.Add(out.ProductRevenue)
	return out
}

func isProductTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	return tag == "product" || tag == "products" || tag == "product_sale" || tag == "product-sale"
}
