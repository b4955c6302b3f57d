package controllers

import (
	"errors"
	"net/http"

	"salonpro-bookings/models"
	"salonpro-bookings/store"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerController struct {
	Customers CustomerStore
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email"`
	Notes        string `json:"notes"`
	ReceiptOptIn *bool  `json:"receiptOptIn"`
}

// CreateCustomer creates a new customer for the salon
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Validate phone format
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer := models.Customer{
		SalonID:      salonUUID,
		Name:         input.Name,
		Phone:        utils.CleanPhone(input.Phone),
		Email:        input.Email,
		Notes:        input.Notes,
		ReceiptOptIn: true,
		IsActive:     true,
	}
	if creator, err := uuid.Parse(userFromContext(c)); err == nil {
		customer.CreatedByUserID = creator
	}
	if input.ReceiptOptIn != nil {
		customer.ReceiptOptIn = *input.ReceiptOptIn
	}

	if err := cc.Customers.CreateCustomer(c.Request.Context(), &customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Customer with this phone number already exists")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		}
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer returns a customer with their visit stats
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	customerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	customer, err := cc.Customers.GetCustomer(c.Request.Context(), customerUUID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if customer.SalonID != salonUUID {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, customer)
}
