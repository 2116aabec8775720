package api

import (
	"errors"
	"net/http"

	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listOrders returns the full order history
func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.Orders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load orders",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// listPendingOrders returns orders not yet delivered
func (h *Handler) listPendingOrders(c *gin.Context) {
	orders, err := h.orders.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load pending orders",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder returns one order with its items
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Order not found",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, order)
}

// updateOrderStatus moves an order through its lifecycle; notes and delivery
// address may be overwritten in the same call
func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req struct {
		Status  string  `json:"status" binding:"required"`
		Notes   *string `json:"notes"`
		Address *string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	err := h.lifecycle.SetStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Unknown status",
				"details": err.Error(),
			})
		case errors.Is(err, service.ErrBackwardTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Invalid transition",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to update order status",
				"details": err.Error(),
			})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

// deleteOrder removes an order irreversibly
func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.lifecycle.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete order",
			"details": err.Error(),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// getStats returns the sales summary over the full history
func (h *Handler) getStats(c *gin.Context) {
	summary, err := h.stats.Compute(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compute statistics",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}
