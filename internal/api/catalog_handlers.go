package api

import (
	"net/http"

	"farm-order-service/internal/service"

	"github.com/gin-gonic/gin"
)

// listSeeds publicly lists the seed catalog
func (h *Handler) listSeeds(c *gin.Context) {
	page, limit := h.parsePagination(c)

	seeds, pagination, err := h.catalog.ListSeeds(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": seeds, "pagination": pagination})
}

// getSeed retrieves a single seed, served through the catalog cache
func (h *Handler) getSeed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	seed, err := h.catalog.GetSeed(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": seed})
}

// listFertilizers publicly lists the fertilizer catalog with
// compatible seeds
func (h *Handler) listFertilizers(c *gin.Context) {
	page, limit := h.parsePagination(c)

	ferts, pagination, err := h.catalog.ListFertilizers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ferts, "pagination": pagination})
}

// getFertilizer retrieves a single fertilizer with its compatible-seed
// set, served through the catalog cache
func (h *Handler) getFertilizer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fert, err := h.catalog.GetFertilizer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fert})
}

// createSeed adds a seed to the catalog
func (h *Handler) createSeed(c *gin.Context) {
	var req service.SeedInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	seed, err := h.catalog.CreateSeed(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": seed})
}

// updateSeed updates a seed
func (h *Handler) updateSeed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.SeedInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	seed, err := h.catalog.UpdateSeed(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": seed})
}

// deleteSeed removes a seed
func (h *Handler) deleteSeed(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteSeed(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// createFertilizer adds a fertilizer and its compatibility links
func (h *Handler) createFertilizer(c *gin.Context) {
	var req service.FertilizerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fert, err := h.catalog.CreateFertilizer(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": fert})
}

// updateFertilizer updates a fertilizer and its compatibility links
func (h *Handler) updateFertilizer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req service.FertilizerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	fert, err := h.catalog.UpdateFertilizer(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fert})
}

// deleteFertilizer removes a fertilizer
func (h *Handler) deleteFertilizer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteFertilizer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
