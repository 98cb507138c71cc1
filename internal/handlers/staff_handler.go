package handlers

import (
	"net/http"
	"workshop_manager/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListMechanics(c *gin.Context) {
	mechanics, err := h.svc.Staff.ListMechanics(principal(c), c.Query("available") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mechanics": mechanics})
}

func (h *Handler) CreateMechanic(c *gin.Context) {
	var input services.MechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	mechanic, err := h.svc.Staff.CreateMechanic(principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mechanic)
}

func (h *Handler) UpdateMechanic(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.MechanicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	mechanic, err := h.svc.Staff.UpdateMechanic(principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mechanic)
}

func (h *Handler) ListWorkZones(c *gin.Context) {
	zones, err := h.svc.Staff.ListWorkZones(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_zones": zones})
}

func (h *Handler) CreateWorkZone(c *gin.Context) {
	var input services.WorkZoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	zone, err := h.svc.Staff.CreateWorkZone(principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, zone)
}
