package api

import (
	"net/http"

	"pos-service/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type customerRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// listCustomers returns all registered customers
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.Customers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load customers",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// createCustomer registers a customer. The id is assigned here so the same
// record lands in whichever store takes the write.
func (h *Handler) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	customer := &models.Customer{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.customers.Add(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create customer",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// updateCustomer overwrites a customer's name and address
func (h *Handler) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	customer := &models.Customer{
		ID:      c.Param("id"),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.customers.Update(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update customer",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// deleteCustomer removes a customer; past orders keep their snapshot
func (h *Handler) deleteCustomer(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete customer",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}
