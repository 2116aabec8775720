package api

import (
	"errors"
	"net/http"

	"pos-service/internal/service"
	"pos-service/internal/session"

	"github.com/gin-gonic/gin"
)

// startSession opens a vendor session
func (h *Handler) startSession(c *gin.Context) {
	var req struct {
		VendorName string `json:"vendor_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessions.Start(req.VendorName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to start session",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// getSession returns the session's current state
func (h *Handler) getSession(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// endSession discards a session without touching stock; lines the operator
// wants returned to the pool go through clearCart first
func (h *Handler) endSession(c *gin.Context) {
	if err := h.sessions.End(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Session not found",
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// setSessionCustomer records the customer selection for checkout
func (h *Handler) setSessionCustomer(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessions.SetCustomer(c.Param("id"), req.Name, req.Address)
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// setSessionDiscount records the discount percentage applied at checkout
func (h *Handler) setSessionDiscount(c *gin.Context) {
	var req struct {
		Discount *int `json:"discount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, err := h.sessions.SetDiscount(c.Param("id"), *req.Discount)
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// addToCart reserves stock and adds a product to the cart. A shortage under
// the warn policy comes back alongside the updated session.
func (h *Handler) addToCart(c *gin.Context) {
	var req struct {
		ProductID int64 `json:"product_id" binding:"required"`
		Quantity  int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, shortage, err := h.cart.AddToCart(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "shortage": shortage})
}

// updateCartQuantity sets a line's quantity; zero removes the line
func (h *Handler) updateCartQuantity(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	sess, shortage, err := h.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), productID, req.Quantity)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess, "shortage": shortage})
}

// removeFromCart drops a line and returns its stock to the pool
func (h *Handler) removeFromCart(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	sess, err := h.cart.RemoveFromCart(c.Request.Context(), c.Param("id"), productID)
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// clearCart abandons the cart, releasing every reservation
func (h *Handler) clearCart(c *gin.Context) {
	sess, err := h.cart.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// cartShortages reports lines whose quantity exceeds current availability
func (h *Handler) cartShortages(c *gin.Context) {
	shortages, err := h.cart.Shortages(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.cartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shortages": shortages})
}

// submitOrder turns the cart into a persisted order plus a printable receipt
func (h *Handler) submitOrder(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	// notes are optional, an empty body is fine
	_ = c.ShouldBindJSON(&req)

	result, err := h.checkout.Submit(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrCustomerRequired),
			errors.Is(err, service.ErrDiscountRange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "Order rejected",
				"details": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to submit order",
				"details": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":    result.Order,
		"receipt":  result.Receipt,
		"fallback": result.FellBack,
	})
}

func (h *Handler) sessionError(c *gin.Context, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid session update",
		"details": err.Error(),
	})
}

func (h *Handler) cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Insufficient stock",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Cart operation failed",
			"details": err.Error(),
		})
	}
}
