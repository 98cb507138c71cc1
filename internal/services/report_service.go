package services

import (
	"time"
	"workshop_manager/internal/access"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"

	"github.com/shopspring/decimal"
)

// TaxRate is the VAT applied to invoices.
var TaxRate = decimal.RequireFromString("0.19")

const (
	PartsFromUsage  = "logged"
	PartsFromBudget = "budgeted"

	dashboardAlertLimit = 5
)

type Dashboard struct {
	Role             models.Role                      `json:"role"`
	StatusCounts     map[models.WorkOrderStatus]int64 `json:"status_counts"`
	UnresolvedAlerts int64                            `json:"unresolved_alerts"`
	LowStockAlerts   int64                            `json:"low_stock_alerts"`
	Alerts           []models.Alert                   `json:"alerts,omitempty"`
	RecentOrders     []models.WorkOrder               `json:"recent_orders"`
	MechanicLoads    []repository.MechanicLoad        `json:"mechanic_loads,omitempty"`
	Zones            []repository.ZoneOccupancy       `json:"zones,omitempty"`
	InRepair         int64                            `json:"in_repair"`
}

type Availability struct {
	Mechanics []repository.MechanicLoad  `json:"mechanics"`
	Zones     []repository.ZoneOccupancy `json:"zones"`
	Timeline  []models.WorkOrder         `json:"timeline"`
}

type InvoiceLine struct {
	PartID    uint            `json:"part_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

type Invoice struct {
	Order       *models.WorkOrder `json:"order"`
	IssuedAt    time.Time         `json:"issued_at"`
	Labor       decimal.Decimal   `json:"labor"`
	Lines       []InvoiceLine     `json:"lines"`
	PartsSource string            `json:"parts_source"`
	Parts       decimal.Decimal   `json:"parts"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	TaxRate     decimal.Decimal   `json:"tax_rate"`
	Tax         decimal.Decimal   `json:"tax"`
	Total       decimal.Decimal   `json:"total"`
}

type ReportService interface {
	Dashboard(actor access.Principal) (*Dashboard, error)
	Availability(actor access.Principal, availableOnly bool) (*Availability, error)
	Invoice(actor access.Principal, orderID uint) (*Invoice, error)
}

type reportService struct {
	store       *repository.Store
	recentLimit int
	now         func() time.Time
}

func NewReportService(store *repository.Store, recentLimit int, now func() time.Time) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{store: store, recentLimit: recentLimit, now: now}
}

// Dashboard builds the landing view for the caller's role.
func (s *reportService) Dashboard(actor access.Principal) (*Dashboard, error) {
	if !actor.Can(access.ViewOrders) {
		return nil, ErrForbidden
	}

	scope := actor.OrderScope()
	counts, err := s.store.WorkOrders.CountByStatus(scope)
	if err != nil {
		return nil, err
	}
	dashboard := &Dashboard{
		Role:         actor.Role,
		StatusCounts: counts,
		InRepair:     counts[models.StatusInRepair],
	}
	if actor.Superuser {
		dashboard.Role = models.RoleManager
	}

	switch dashboard.Role {
	case models.RoleManager:
		return dashboard, s.fillManager(dashboard)
	case models.RoleMechanic:
		dashboard.RecentOrders, err = s.store.WorkOrders.List(repository.WorkOrderFilter{
			ExcludeStatus: models.StatusDelivered,
			Scope:         scope,
		})
		return dashboard, err
	default:
		dashboard.RecentOrders, err = s.store.WorkOrders.List(repository.WorkOrderFilter{Limit: s.recentLimit})
		if err != nil {
			return nil, err
		}
		dashboard.UnresolvedAlerts, err = s.store.Alerts.CountUnresolved("")
		return dashboard, err
	}
}

func (s *reportService) fillManager(dashboard *Dashboard) error {
	var err error
	if dashboard.UnresolvedAlerts, err = s.store.Alerts.CountUnresolved(""); err != nil {
		return err
	}
	if dashboard.LowStockAlerts, err = s.store.Alerts.CountUnresolved(models.AlertStock); err != nil {
		return err
	}
	unresolved := false
	if dashboard.Alerts, err = s.store.Alerts.List(&unresolved, dashboardAlertLimit); err != nil {
		return err
	}
	dashboard.RecentOrders, err = s.store.WorkOrders.List(repository.WorkOrderFilter{
		ExcludeStatus: models.StatusDelivered,
		Limit:         s.recentLimit,
	})
	if err != nil {
		return err
	}
	if dashboard.MechanicLoads, err = s.store.Reports.MechanicLoads(false); err != nil {
		return err
	}
	dashboard.Zones, err = s.store.Reports.ZoneOccupancy()
	return err
}

func (s *reportService) Availability(actor access.Principal, availableOnly bool) (*Availability, error) {
	if !actor.Can(access.ViewAvailability) {
		return nil, ErrForbidden
	}

	mechanics, err := s.store.Reports.MechanicLoads(availableOnly)
	if err != nil {
		return nil, err
	}
	zones, err := s.store.Reports.ZoneOccupancy()
	if err != nil {
		return nil, err
	}
	timeline, err := s.store.WorkOrders.ListByStatuses([]models.WorkOrderStatus{
		models.StatusDiagnosis,
		models.StatusInRepair,
	})
	if err != nil {
		return nil, err
	}
	return &Availability{Mechanics: mechanics, Zones: zones, Timeline: timeline}, nil
}

// Invoice derives the bill for an order. Labor is the sum of every budget.
// Parts come from the usages logged against the order; an order with no
// logged parts is billed the budgeted parts cost instead.
func (s *reportService) Invoice(actor access.Principal, orderID uint) (*Invoice, error) {
	order, err := s.store.WorkOrders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if !actor.CanOnOrder(access.ViewInvoice, order) {
		return nil, ErrForbidden
	}

	budgets, err := s.store.Budgets.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	usages, err := s.store.LogEntries.UsagesByOrder(orderID)
	if err != nil {
		return nil, err
	}
	return BuildInvoice(order, budgets, usages, s.now()), nil
}

func BuildInvoice(order *models.WorkOrder, budgets []models.Budget, usages []models.PartUsage, issuedAt time.Time) *Invoice {
	invoice := &Invoice{
		Order:    order,
		IssuedAt: issuedAt,
		Labor:    decimal.Zero,
		Parts:    decimal.Zero,
		Lines:    []InvoiceLine{},
		TaxRate:  TaxRate,
	}

	budgetedParts := decimal.Zero
	for _, budget := range budgets {
		invoice.Labor = invoice.Labor.Add(budget.LaborCost)
		budgetedParts = budgetedParts.Add(budget.PartsCost)
	}

	for _, usage := range usages {
		line := InvoiceLine{PartID: usage.PartID, Quantity: usage.Quantity, UnitPrice: decimal.Zero}
		if usage.Part != nil {
			line.Name = usage.Part.Name
			line.Code = usage.Part.CodeOrEmpty()
			line.UnitPrice = usage.Part.SalePrice
		}
		line.Amount = line.UnitPrice.Mul(decimal.NewFromInt(int64(usage.Quantity)))
		invoice.Lines = append(invoice.Lines, line)
		invoice.Parts = invoice.Parts.Add(line.Amount)
	}

	if len(invoice.Lines) > 0 {
		invoice.PartsSource = PartsFromUsage
	} else {
		invoice.PartsSource = PartsFromBudget
		invoice.Parts = budgetedParts
	}

	invoice.Subtotal = invoice.Labor.Add(invoice.Parts)
	invoice.Tax = invoice.Subtotal.Mul(TaxRate).Round(2)
	invoice.Total = invoice.Subtotal.Add(invoice.Tax)
	return invoice
}
