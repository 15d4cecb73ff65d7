package api

import (
	"net/http"

	"farm-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

// registerFarmer creates a farmer account
func (h *Handler) registerFarmer(c *gin.Context) {
	var req service.RegisterFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	farmer, err := h.accounts.RegisterFarmer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": farmer})
}

// loginFarmer issues an access token for valid farmer credentials
func (h *Handler) loginFarmer(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokens, err := h.accounts.LoginFarmer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tokens})
}

// loginAdmin issues a role-scoped access token for administrators
func (h *Handler) loginAdmin(c *gin.Context) {
	var req service.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tokens, err := h.accounts.LoginAdmin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tokens})
}

// listFarmers lists farmer accounts for administrators
func (h *Handler) listFarmers(c *gin.Context) {
	page, limit := h.parsePagination(c)

	farmers, pagination, err := h.accounts.ListFarmers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": farmers, "pagination": pagination})
}
