// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"salonpro-bookings/bookings"
	"salonpro-bookings/models"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingController exposes the booking lifecycle over HTTP.
type BookingController struct {
	Engine   BookingEngine
	Bookings bookings.BookingStore
}

// StatusInput requests one workflow step
type StatusInput struct {
	Status    models.BookingStatus `json:"status" binding:"required,bookingstatus"`
	Timestamp *time.Time           `json:"timestamp"`
}

// CompleteInput is sent by the payment dialog
type CompleteInput struct {
	PaymentMethod      string           `json:"paymentMethod"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	DiscountAmount     *decimal.Decimal `json:"discountAmount"`
	PaymentRef         *string          `json:"paymentRef"`
	Timestamp          *time.Time       `json:"timestamp"`
}

// CheckoutInput is a point-of-sale cart
type CheckoutInput struct {
	ClientID           uuid.UUID                 `json:"clientId"`
	StaffID            uuid.UUID                 `json:"staffId"`
	Items              []bookings.NewBookingItem `json:"items" binding:"required,min=1,dive"`
	PaymentMethod      string                    `json:"paymentMethod" binding:"required"`
	DiscountPercentage *decimal.Decimal          `json:"discountPercentage"`
	DiscountAmount     *decimal.Decimal          `json:"discountAmount"`
	PaymentRef         *string                   `json:"paymentRef"`
}

// CreateBooking creates a new booking in pending
func (bc *BookingController) CreateBooking(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input bookings.NewBooking
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	input.LocationID = salonUUID
	input.CreatedBy = userFromContext(c)

	booking, err := bc.Engine.CreateBooking(c.Request.Context(), input)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Failed to create booking: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetBookings lists the salon's bookings, optionally by status
func (bc *BookingController) GetBookings(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	filter := bookings.BookingFilter{LocationID: salonUUID.String()}
	if status := c.Query("status"); status != "" {
		if !bookings.IsKnownStatus(models.BookingStatus(status)) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = models.BookingStatus(status)
	}
	if recorded := c.Query("recorded"); recorded != "" {
		v, err := strconv.ParseBool(recorded)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid recorded flag")
			return
		}
		filter.TransactionRecorded = &v
	}

	list, err := bc.Bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetBooking retrieves a specific booking with its status history
func (bc *BookingController) GetBooking(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateStatus moves a booking one step through the workflow
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}

	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	at := time.Now()
	if input.Timestamp != nil {
		at = *input.Timestamp
	}

	updated, err := bc.Engine.Transition(c.Request.Context(), booking.ID.String(), input.Status, at, userFromContext(c))
	if err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CompleteBooking takes payment details and completes the booking
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	booking, ok := bc.ownedBooking(c)
	if !ok {
		return
	}

	var input CompleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	req := bookings.CompletionRequest{
		PaymentMethod: input.PaymentMethod,
		Discount:      bookings.Discount{Percentage: input.DiscountPercentage, Amount: input.DiscountAmount},
		PaymentRef:    input.PaymentRef,
		UpdatedBy:     userFromContext(c),
	}
	if input.Timestamp != nil {
		req.At = *input.Timestamp
	}

	updated, txn, err := bc.Engine.Complete(c.Request.Context(), booking.ID.String(), req)
	if err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":     updated,
		"transaction": txn,
	})
}

// Checkout records a point-of-sale cart in one call
func (bc *BookingController) Checkout(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, txn, err := bc.Engine.Checkout(c.Request.Context(), bookings.CartCheckout{
		ClientID:      input.ClientID,
		StaffID:       input.StaffID,
		LocationID:    salonUUID,
		Items:         input.Items,
		PaymentMethod: input.PaymentMethod,
		Discount:      bookings.Discount{Percentage: input.DiscountPercentage, Amount: input.DiscountAmount},
		PaymentRef:    input.PaymentRef,
		CashierID:     userFromContext(c),
	})
	if err != nil {
		respondWithEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":     booking,
		"transaction": txn,
	})
}

// ownedBooking loads :id and checks it belongs to the caller's salon.
func (bc *BookingController) ownedBooking(c *gin.Context) (*models.Booking, bool) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return nil, false
	}

	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return nil, false
	}

	booking, err := bc.Bookings.GetBooking(c.Request.Context(), bookingUUID.String())
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return nil, false
	}
	if booking.LocationID != salonUUID {
		utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		return nil, false
	}
	return booking, true
}
