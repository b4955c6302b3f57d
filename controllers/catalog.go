package controllers

import (
	"net/http"

	"salonpro-bookings/models"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CatalogController manages the price list used for lines sent without a price.
type CatalogController struct {
	Catalog CatalogStore
}

type CatalogItemInput struct {
	Kind        models.ItemKind `json:"kind" binding:"required,oneof=service product"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Duration    int             `json:"duration" binding:"omitempty,min=0"`
	Category    string          `json:"category"`
}

func (cc *CatalogController) CreateCatalogItem(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	var input CatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !input.Price.IsPositive() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must be greater than zero")
		return
	}

	item := models.CatalogItem{
		SalonID:     salonUUID,
		Kind:        input.Kind,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Duration:    input.Duration,
		Category:    input.Category,
		IsActive:    true,
	}
	if item.Category == "" {
		item.Category = "General"
	}

	if err := cc.Catalog.CreateCatalogItem(c.Request.Context(), &item); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create catalog item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (cc *CatalogController) GetCatalogItems(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	items, err := cc.Catalog.ListCatalogItems(c.Request.Context(), salonUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		return
	}

	c.JSON(http.StatusOK, items)
}
