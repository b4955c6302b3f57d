// controllers/transaction.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"salonpro-bookings/bookings"
	"salonpro-bookings/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransactionController serves the ledger read-only.
type TransactionController struct {
	Ledger bookings.LedgerReader
}

// GetTransactions lists the salon's recorded sales, newest first
func (tc *TransactionController) GetTransactions(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	filter, ok := parseRange(c)
	if !ok {
		return
	}
	filter.LocationID = salonUUID.String()
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = n
	}

	txns, err := tc.Ledger.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	c.JSON(http.StatusOK, txns)
}

// GetTransaction retrieves one transaction with its revenue split
func (tc *TransactionController) GetTransaction(c *gin.Context) {
	salonUUID, ok := salonFromContext(c)
	if !ok {
		return
	}

	txnUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid transaction ID format")
		return
	}

	txn, err := tc.Ledger.GetTransaction(c.Request.Context(), txnUUID.String())
	if err != nil {
		if errors.Is(err, bookings.ErrTransactionNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	if txn.LocationID != salonUUID {
		utils.RespondWithError(c, http.StatusNotFound, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transaction": txn,
		"breakdown":   bookings.RevenueBreakdown(txn),
	})
}
