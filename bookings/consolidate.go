package bookings

import (
	"fmt"
	"strings"
	"time"

	"salonpro-bookings/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount is what the payment dialog hands over. Percentage is the canonical
// form; a flat Amount is converted against the service total.
type Discount struct {
	Percentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	Amount     *decimal.Decimal `json:"discountAmount,omitempty"`
}

// DiscountOf returns the discount stored on a booking by an earlier completion request.
func DiscountOf(b *models.Booking) Discount {
	return Discount{Percentage: b.DiscountPercentage, Amount: b.DiscountAmount}
}

// Percent normalizes d to a percentage of serviceTotal. The boolean is false
// when no discount applies.
func (d Discount) Percent(serviceTotal decimal.Decimal) (decimal.Decimal, bool, error) {
	var pct decimal.Decimal
	switch {
	case d.Percentage != nil:
		pct = *d.Percentage
	case d.Amount != nil:
		if d.Amount.IsNegative() {
			return decimal.Zero, false, ErrInvalidDiscount
		}
		if !serviceTotal.IsPositive() {
			return decimal.Zero, false, nil
		}
		pct = d.Amount.Div(serviceTotal).Mul(hundred).Round(2)
	default:
		return decimal.Zero, false, nil
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return decimal.Zero, false, ErrInvalidDiscount
	}
	if pct.IsZero() || !serviceTotal.IsPositive() {
		return decimal.Zero, false, nil
	}
	return pct, true, nil
}

// Consolidate builds the single ledger transaction for a booking. It has no
// side effects; the caller appends the result once ShouldRecord agrees.
// Discounts only ever reduce service lines.
func Consolidate(b *models.Booking, paymentMethod string, discount Discount) (*models.Transaction, error) {
	var services, products int
	serviceTotal := decimal.Zero
	for _, item := range b.Items {
		switch item.Kind {
		case models.ItemService:
			services++
			serviceTotal = serviceTotal.Add(item.LineTotal())
		case models.ItemProduct:
			products++
		}
	}
	if services == 0 && products == 0 {
		return nil, ErrEmptyBooking
	}
	if !b.Total().IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	pct, discounted, err := discount.Percent(serviceTotal)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:            uuid.New(),
		BookingRef:    b.Ref(),
		Date:          completedAt(b),
		ClientID:      b.ClientID,
		StaffID:       b.StaffID,
		LocationID:    b.LocationID,
		PaymentMethod: paymentMethod,
		Status:        models.TransactionStatusCompleted,
	}

	totalDiscount := decimal.Zero
	for _, item := range b.Items {
		if item.Kind != models.ItemService && item.Kind != models.ItemProduct {
			continue
		}
		original := item.LineTotal()
		line := models.TransactionItem{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			Name:          item.Name,
			Kind:          item.Kind,
			Quantity:      item.Qty(),
			UnitPrice:     item.UnitPrice,
			OriginalPrice: original,
			TotalPrice:    original,
		}
		if item.Kind == models.ItemService {
			if discounted {
				cut := original.Mul(pct).Div(hundred).Round(2)
				line.DiscountApplied = true
				line.DiscountPercentage = pct
				line.DiscountAmount = cut
				line.TotalPrice = original.Sub(cut)
				totalDiscount = totalDiscount.Add(cut)
			}
			txn.ServiceAmount = txn.ServiceAmount.Add(line.TotalPrice)
			txn.OriginalServiceAmount = txn.OriginalServiceAmount.Add(original)
		} else {
			txn.ProductAmount = txn.ProductAmount.Add(line.TotalPrice)
		}
		txn.Items = append(txn.Items, line)
	}
	txn.Amount = txn.ServiceAmount.Add(txn.ProductAmount)

	if discounted {
		txn.DiscountPercentage = &pct
		txn.DiscountAmount = &totalDiscount
	}
	txn.Kind = classify(services, products)
	txn.Description = describe(services, products, txn.DiscountPercentage)
	return txn, nil
}

func classify(services, products int) models.TransactionKind {
	switch {
	case services > 0 && products > 0:
		return models.ConsolidatedSale
	case products > 0:
		return models.ProductSale
	default:
		return models.ServiceSale
	}
}

// describe renders e.g. "2 service(s) + 1 product(s) (15% off)".
func describe(services, products int, pct *decimal.Decimal) string {
	var parts []string
	if services > 0 {
		parts = append(parts, fmt.Sprintf("%d service(s)", services))
	}
	if products > 0 {
		parts = append(parts, fmt.Sprintf("%d product(s)", products))
	}
	desc := strings.Join(parts, " + ")
	if pct != nil {
		desc += fmt.Sprintf(" (%s%% off)", pct.String())
	}
	return desc
}

// completedAt is the time of the latest completed event, falling back to the
// latest event of any kind.
func completedAt(b *models.Booking) time.Time {
	for i := len(b.StatusHistory) - 1; i >= 0; i-- {
		if b.StatusHistory[i].Status == models.StatusCompleted {
			return b.StatusHistory[i].Timestamp
		}
	}
	if n := len(b.StatusHistory); n > 0 {
		return b.StatusHistory[n-1].Timestamp
	}
	return b.UpdatedAt
}
