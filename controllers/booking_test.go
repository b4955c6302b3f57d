package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"
	"salonpro-bookings/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router *gin.Engine
	store  *store.MemoryStore
	engine *bookings.Engine
	salon  uuid.UUID
}

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	st := store.NewMemoryStore()
	f := &apiFixture{
		store:  st,
		engine: bookings.NewEngine(st, nil, logger, bookings.WithPriceLookup(st)),
		salon:  uuid.New(),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("salonId", f.salon.String())
		c.Set("userId", "user-1")
		c.Next()
	})
	bc := BookingController{Engine: f.engine, Bookings: st}
	r.POST("/bookings", bc.CreateBooking)
	r.GET("/bookings", bc.GetBookings)
	r.GET("/bookings/:id", bc.GetBooking)
	r.POST("/bookings/:id/status", bc.UpdateStatus)
	r.POST("/bookings/:id/complete", bc.CompleteBooking)
	r.POST("/carts/checkout", bc.Checkout)
	tc := TransactionController{Ledger: st}
	r.GET("/transactions", tc.GetTransactions)
	r.GET("/transactions/:id", tc.GetTransaction)
	rc := ReportController{Ledger: st}
	r.GET("/reports/revenue", rc.GetRevenueReport)
	f.router = r
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *apiFixture) createBooking(t *testing.T) models.Booking {
	t.Helper()
	w := f.do(t, http.MethodPost, "/bookings", gin.H{
		"clientId": uuid.New(),
		"items": []gin.H{
			{"kind": "service", "name": "Haircut", "unitPrice": "100"},
			{"kind": "product", "name": "Shampoo", "unitPrice": "50", "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var b models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestCreateBooking(t *testing.T) {
	f := newAPIFixture(t)

	b := f.createBooking(t)

	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, f.salon, b.LocationID)
	require.Len(t, b.StatusHistory, 1)
	assert.Equal(t, "user-1", b.StatusHistory[0].UpdatedBy)
}

func TestCreateBooking_InvalidItemKind(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/bookings", gin.H{
		"items": []gin.H{{"kind": "voucher", "name": "Gift"}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	f := newAPIFixture(t)
	b := f.createBooking(t)

	w := f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteBooking_RecordsOnce(t *testing.T) {
	f := newAPIFixture(t)
	b := f.createBooking(t)
	for _, s := range []string{"confirmed", "arrived", "service-started"} {
		w := f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": s})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	body := gin.H{"paymentMethod": "card", "discountPercentage": "10"}
	w := f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/complete", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Booking     models.Booking     `json:"booking"`
		Transaction models.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Booking.TransactionRecorded)
	assert.True(t, decimal.NewFromInt(140).Equal(resp.Transaction.Amount))

	w = f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/complete", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, f.store.LedgerSize())

	w = f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompleteBooking_InvalidDiscount(t *testing.T) {
	f := newAPIFixture(t)
	b := f.createBooking(t)
	for _, s := range []string{"confirmed", "arrived", "service-started"} {
		f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": s})
	}

	w := f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/complete", gin.H{"discountPercentage": "150"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, f.store.LedgerSize())
}

func TestGetBooking_OtherSalonIsHidden(t *testing.T) {
	f := newAPIFixture(t)
	foreign := &models.Booking{ID: uuid.New(), LocationID: uuid.New()}
	require.NoError(t, f.store.SaveBooking(context.Background(), foreign))

	w := f.do(t, http.MethodGet, "/bookings/"+foreign.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/bookings/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBookings_FiltersByStatus(t *testing.T) {
	f := newAPIFixture(t)
	f.createBooking(t)
	b := f.createBooking(t)
	f.do(t, http.MethodPost, "/bookings/"+b.ID.String()+"/status", gin.H{"status": "confirmed"})

	w := f.do(t, http.MethodGet, "/bookings?status=confirmed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	w = f.do(t, http.MethodGet, "/bookings?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutAndLedgerEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/carts/checkout", gin.H{
		"items": []gin.H{
			{"kind": "service", "name": "Brow tint", "unitPrice": "30"},
			{"kind": "product", "name": "Brow gel", "unitPrice": "15", "quantity": 2},
		},
		"paymentMethod": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Transaction models.Transaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.KindCart, resp.Transaction.BookingRef.Kind)

	w = f.do(t, http.MethodGet, "/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var txns []models.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txns))
	require.Len(t, txns, 1)

	w = f.do(t, http.MethodGet, "/transactions/"+txns[0].ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Breakdown bookings.Breakdown `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.True(t, decimal.NewFromInt(30).Equal(detail.Breakdown.ServiceRevenue))
	assert.True(t, decimal.NewFromInt(30).Equal(detail.Breakdown.ProductRevenue))

	w = f.do(t, http.MethodGet, "/transactions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/carts/checkout", gin.H{"items": []gin.H{}, "paymentMethod": "cash"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevenueReport(t *testing.T) {
	f := newAPIFixture(t)
	today := time.Now().Format(dateLayout)
	f.do(t, http.MethodPost, "/carts/checkout", gin.H{
		"items":         []gin.H{{"kind": "service", "name": "Cut", "unitPrice": "40"}},
		"paymentMethod": "card",
	})

	w := f.do(t, http.MethodGet, "/reports/revenue?from="+today+"&to="+today, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report RevenueReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Transactions)
	assert.True(t, decimal.NewFromInt(40).Equal(report.TotalRevenue))
	assert.True(t, decimal.NewFromInt(100).Equal(report.GrowthPercentage))
	require.Len(t, report.TopServices, 1)
	assert.Equal(t, "Cut", report.TopServices[0].Name)

	w = f.do(t, http.MethodGet, "/reports/revenue?from=2024-02-10&to=2024-02-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
