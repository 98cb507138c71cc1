package handlers

import (
	"net/http"
	"workshop_manager/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListParts(c *gin.Context) {
	lowStock := c.Query("low_stock") == "true"
	parts, err := h.svc.Inventory.ListParts(principal(c), c.Query("q"), lowStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parts": parts})
}

func (h *Handler) GetPart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	part, err := h.svc.Inventory.GetPart(principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

func (h *Handler) CreatePart(c *gin.Context) {
	var input services.PartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	part, err := h.svc.Inventory.CreatePart(principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, part)
}

func (h *Handler) UpdatePart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.PartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	part, err := h.svc.Inventory.UpdatePart(principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) RestockPart(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	part, err := h.svc.Inventory.Restock(principal(c), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, part)
}
