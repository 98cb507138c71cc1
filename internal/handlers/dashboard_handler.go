package handlers

import (
	"net/http"
	"strconv"
	"workshop_manager/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Reports.Dashboard(principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *Handler) Availability(c *gin.Context) {
	availableOnly := c.Query("available") == "true"
	availability, err := h.svc.Reports.Availability(principal(c), availableOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// ListAlerts shows unresolved alerts unless ?resolved=true|all is given.
// The unresolved count can be narrowed with ?type=stock|delay|info.
func (h *Handler) ListAlerts(c *gin.Context) {
	var resolved *bool
	switch c.DefaultQuery("resolved", "false") {
	case "all":
	case "true":
		value := true
		resolved = &value
	case "false":
		value := false
		resolved = &value
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "resolved must be one of true, false, all"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	p := principal(c)
	unresolved, err := h.svc.Alerts.CountUnresolved(p, models.AlertType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	alerts, err := h.svc.Alerts.List(p, resolved, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "unresolved": unresolved})
}

func (h *Handler) ResolveAlert(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	alert, err := h.svc.Alerts.Resolve(principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}
