// controllers/report.go
package controllers

import (
	"net/http"
	"sort"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ReportController aggregates the ledger for reporting
type ReportController struct {
	Ledger bookings.LedgerReader
}

// RevenueReport is the revenue summary for a date range
type RevenueReport struct {
	From             time.Time                  `json:"from"`
	To               time.Time                  `json:"to"`
	Breakdown        bookings.Breakdown         `json:"breakdown"`
	TotalRevenue     decimal.Decimal            `json:"totalRevenue"`
	TotalDiscount    decimal.Decimal            `json:"totalDiscount"`
	Transactions     int                        `json:"transactions"`
	ByKind           map[string]int             `json:"byKind"`
	ByPaymentMethod  map[string]decimal.Decimal `json:"byPaymentMethod"`
	AvgDailyRevenue  decimal.Decimal            `json:"avgDailyRevenue"`
	AvgOrderValue    decimal.Decimal            `json:"avgOrderValue"`
	PreviousRevenue  decimal.Decimal            `json:"previousRevenue"`
	GrowthPercentage decimal.Decimal            `json:"growthPercentage"`
	TopServices      []ServiceSummary           `json:"topServices"`
}

type ServiceSummary struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GetRevenueReport returns the service/product revenue split for a range.
// Defaults to the current month.
func (rc *ReportController) GetRevenueReport(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	filter, ok := parseRange(c)
	if !ok {
		return
	}
	now := time.Now()
	if filter.From.IsZero() {
		filter.From = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if filter.To.IsZero() {
		filter.To = now
	}
	filter.LocationID = salonUUID.String()

	current, err := rc.Ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get revenue")
		return
	}

	// Previous period of the same length, for growth.
	span := filter.To.Sub(filter.From)
	previousFilter := filter
	previousFilter.To = filter.From.Add(-time.Nanosecond)
	previousFilter.From = previousFilter.To.Add(-span)
	previous, err := rc.Ledger.ListTransactions(c.Request.Context(), previousFilter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get previous revenue")
		return
	}

	report := BuildRevenueReport(current, filter.From, filter.To, 5)
	report.PreviousRevenue = BuildRevenueReport(previous, previousFilter.From, previousFilter.To, 0).TotalRevenue
	report.GrowthPercentage = calculateGrowthPercentage(report.TotalRevenue, report.PreviousRevenue)

	c.JSON(http.StatusOK, report)
}

// BuildRevenueReport aggregates txns through bookings.RevenueBreakdown so
// itemized and flat ledger rows are counted the same way.
func BuildRevenueReport(txns []models.Transaction, from, to time.Time, topN int) RevenueReport {
	report := RevenueReport{
		From:            from,
		To:              to,
		ByKind:          map[string]int{},
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	services := map[string]*ServiceSummary{}

	for i := range txns {
		txn := &txns[i]
		report.Breakdown = report.Breakdown.Add(bookings.RevenueBreakdown(txn))
		report.Transactions++
		if txn.Kind != "" {
			report.ByKind[string(txn.Kind)]++
		}
		method := txn.PaymentMethod
		if method == "" {
			method = "unknown"
		}
		report.ByPaymentMethod[method] = report.ByPaymentMethod[method].Add(txn.Amount)
		if txn.DiscountAmount != nil {
			report.TotalDiscount = report.TotalDiscount.Add(*txn.DiscountAmount)
		}

		for _, item := range txn.Items {
			if item.Kind != models.ItemService {
				continue
			}
			s := services[item.Name]
			if s == nil {
				s = &ServiceSummary{Name: item.Name}
				services[item.Name] = s
			}
			s.Count += item.Quantity
			s.Revenue = s.Revenue.Add(item.TotalPrice)
		}
	}

	report.TotalRevenue = report.Breakdown.Total()
	days := utils.DaysBetween(from, to) + 1
	if days > 0 {
		report.AvgDailyRevenue = report.TotalRevenue.Div(decimal.NewFromInt(int64(days))).Round(2)
	}
	if report.Transactions > 0 {
		report.AvgOrderValue = report.TotalRevenue.Div(decimal.NewFromInt(int64(report.Transactions))).Round(2)
	}

	for _, s := range services {
		report.TopServices = append(report.TopServices, *s)
	}
	sort.Slice(report.TopServices, func(i, j int) bool {
		if cmp := report.TopServices[i].Revenue.Cmp(report.TopServices[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return report.TopServices[i].Name < report.TopServices[j].Name
	})
	if len(report.TopServices) > topN {
		report.TopServices = report.TopServices[:topN]
	}
	return report
}

func calculateGrowthPercentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// parseRange reads optional from/to query dates (YYYY-MM-DD, to is inclusive).
func parseRange(c *gin.Context) (bookings.TransactionFilter, bool) {
	var filter bookings.TransactionFilter
	if from := c.Query("from"); from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.From = utils.BeginningOfDay(t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return filter, false
		}
		filter.To = utils.EndOfDay(t)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		utils.RespondWithError(c, http.StatusBadRequest, "to must not be before from")
		return filter, false
	}
	return filter, true
}
