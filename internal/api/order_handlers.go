package api

import (
	"net/http"

	"farm-order-service/internal/auth"
	"farm-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder handles order placement by the authenticated farmer
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), auth.PrincipalID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": order})
}

// getFarmerOrders lists the authenticated farmer's orders
func (h *Handler) getFarmerOrders(c *gin.Context) {
	page, limit := h.parsePagination(c)

	orders, pagination, err := h.orders.GetFarmerOrders(c.Request.Context(), auth.PrincipalID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders, "pagination": pagination})
}

// getOrder retrieves one of the authenticated farmer's orders
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), auth.PrincipalID(c), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// getPendingOrders lists orders awaiting administrative review
func (h *Handler) getPendingOrders(c *gin.Context) {
	page, limit := h.parsePagination(c)

	orders, pagination, err := h.orders.GetPendingOrders(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orders, "pagination": pagination})
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus applies an APPROVED/REJECTED transition
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c)
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}
