package api

import (
	"net/http"

	"farm-order-service/internal/auth"
	"farm-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listLands lists the authenticated farmer's parcels
func (h *Handler) listLands(c *gin.Context) {
	page, limit := h.parsePagination(c)

	lands, pagination, err := h.lands.GetFarmerLands(c.Request.Context(), auth.PrincipalID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lands, "pagination": pagination})
}

// registerLand records a new parcel for the authenticated farmer
func (h *Handler) registerLand(c *gin.Context) {
	var req service.LandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	land, err := h.lands.RegisterLand(c.Request.Context(), auth.PrincipalID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": land})
}

// updateLand updates a parcel owned by the authenticated farmer
func (h *Handler) updateLand(c *gin.Context) {
	landID, ok := parseID(c)
	if !ok {
		return
	}

	var req service.LandInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	land, err := h.lands.UpdateLand(c.Request.Context(), auth.PrincipalID(c), landID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": land})
}

// deleteLand removes a parcel owned by the authenticated farmer
func (h *Handler) deleteLand(c *gin.Context) {
	landID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.lands.DeleteLand(c.Request.Context(), auth.PrincipalID(c), landID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
