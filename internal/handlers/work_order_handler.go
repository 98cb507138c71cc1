package handlers

import (
	"errors"
	"net/http"
	"workshop_manager/internal/models"
	"workshop_manager/internal/services"

	"github.com/gin-gonic/gin"
)

const orderListPath = "/api/work-orders"

// respondOrderError sends callers who may not touch an order back to their
// own list, with a notice waiting for them there.
func (h *Handler) respondOrderError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrForbidden) {
		h.flash(c, forbiddenMessage)
		c.JSON(http.StatusForbidden, gin.H{"error": forbiddenMessage, "redirect": orderListPath})
		return
	}
	respondError(c, err)
}

func (h *Handler) ListWorkOrders(c *gin.Context) {
	var filter services.WorkOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	orders, err := h.svc.WorkOrders.List(principal(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (h *Handler) CreateWorkOrder(c *gin.Context) {
	var input services.WorkOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.svc.WorkOrders.Create(principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.svc.WorkOrders.Detail(principal(c), id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var edit services.WorkOrderEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.svc.WorkOrders.Update(principal(c), id, edit)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AssignWorkOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.svc.WorkOrders.Assign(principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type statusRequest struct {
	Status models.WorkOrderStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateWorkOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.svc.WorkOrders.UpdateStatus(principal(c), id, req.Status)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":   order,
		"message": "Status updated to " + order.Status.Label(),
	})
}

func (h *Handler) Invoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.svc.Reports.Invoice(principal(c), id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

func (h *Handler) ListLogEntries(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.svc.LogEntries.ListEntries(principal(c), id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log_entries": entries})
}

func (h *Handler) AddLogEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.LogEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.svc.LogEntries.AddEntry(principal(c), id, input)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListBudgets(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	budgets, err := h.svc.Budgets.ListByOrder(principal(c), id)
	if err != nil {
		h.respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

func (h *Handler) CreateBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	budget, err := h.svc.Budgets.Create(principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, budget)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.BudgetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	budget, err := h.svc.Budgets.Update(principal(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budget)
}
