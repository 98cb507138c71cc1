package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"workshop_manager/internal/auth"
	"workshop_manager/internal/middleware"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/rules"
	"workshop_manager/internal/services"
	"workshop_manager/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	fx       *testutil.Fixtures
	accounts services.AccountService
}

func newTestServer(t *testing.T, opts Options) *testServer {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	sessions, _ := testutil.NewRedis(t)
	store := repository.NewStore(db)
	engine := rules.NewEngine(nil)
	tokens := auth.NewTokenService("test-secret", time.Hour)

	accounts := services.NewAccountService(store, sessions, tokens, time.Hour)
	svc := Services{
		Accounts:   accounts,
		Customers:  services.NewCustomerService(store),
		Staff:      services.NewStaffService(store),
		WorkOrders: services.NewWorkOrderService(store, engine, services.NewNotificationService(nil)),
		LogEntries: services.NewLogEntryService(store, engine),
		Budgets:    services.NewBudgetService(store),
		Inventory:  services.NewInventoryService(store),
		Alerts:     services.NewAlertService(store),
		Reports:    services.NewReportService(store, 10, nil),
	}
	if opts.FlashTTL == 0 {
		opts.FlashTTL = time.Minute
	}

	router := gin.New()
	NewHandler(svc, sessions, opts).RegisterRoutes(router, middleware.NewAuthMiddleware(tokens, sessions))
	return &testServer{router: router, fx: testutil.NewFixtures(t, db), accounts: accounts}
}

func (s *testServer) account(t *testing.T, username string, role models.Role) *models.User {
	user, _, err := s.accounts.CreateAccount(nil, services.AccountInput{Username: username, Password: "secret123", Role: role})
	require.NoError(t, err)
	return user
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username string) string {
	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, Options{})
	s.account(t, "encargado", models.RoleManager)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "encargado", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard", decode(t, w)["redirect"])
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.CookieName)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "encargado", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_VerboseErrors(t *testing.T) {
	s := newTestServer(t, Options{VerboseAuthErrors: true})
	s.account(t, "encargado", models.RoleManager)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "secret123"})
	assert.Equal(t, services.ErrUnknownUser.Error(), decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "encargado", "password": "nope"})
	assert.Equal(t, services.ErrWrongPassword.Error(), decode(t, w)["error"])
}

func TestWorkOrderFlow(t *testing.T) {
	s := newTestServer(t, Options{})
	s.account(t, "recepcionista", models.RoleFrontDesk)
	s.account(t, "encargado", models.RoleManager)
	frontDesk := s.login(t, "recepcionista")
	manager := s.login(t, "encargado")

	customer := s.fx.Customer()
	vehicle := s.fx.Vehicle(customer)
	mechanic := s.fx.Mechanic(nil)

	w := s.do(t, http.MethodPost, "/api/work-orders", frontDesk, gin.H{
		"customer_id":         customer.ID,
		"vehicle_id":          vehicle.ID,
		"problem_description": "Engine stalls",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.WorkOrder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	path := "/api/work-orders/" + jsonID(order.ID)

	w = s.do(t, http.MethodPost, path+"/assign", frontDesk, gin.H{"mechanic_id": mechanic.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, path+"/assign", manager, gin.H{"mechanic_id": mechanic.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.StatusDiagnosis), decode(t, w)["status"])

	w = s.do(t, http.MethodPost, path+"/status", manager, gin.H{"status": "finished"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path+"/budgets", frontDesk, gin.H{"description": "Estimate", "labor_cost": "10000", "parts_cost": "5000"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "15000.00", decode(t, w)["total"])

	w = s.do(t, http.MethodGet, path+"/invoice", frontDesk, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "17850", decode(t, w)["total"])

	w = s.do(t, http.MethodGet, "/api/alerts", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["alerts"].([]interface{}), 1)
	assert.Equal(t, float64(1), body["unresolved"])

	w = s.do(t, http.MethodGet, "/api/alerts?type=info", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["unresolved"])

	w = s.do(t, http.MethodGet, "/api/alerts?type=stock", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["unresolved"])

	w = s.do(t, http.MethodGet, "/api/alerts?type=bogus", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/work-orders/999", manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMechanicDeniedOtherOrder(t *testing.T) {
	s := newTestServer(t, Options{})
	user := s.account(t, "mecanico", models.RoleMechanic)
	own := s.fx.Mechanic(&user.ID)
	other := s.fx.Mechanic(nil)
	mine := s.fx.Order(&own.ID)
	theirs := s.fx.Order(&other.ID)
	token := s.login(t, "mecanico")

	w := s.do(t, http.MethodGet, "/api/work-orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = s.do(t, http.MethodGet, "/api/work-orders/"+jsonID(mine.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/work-orders/"+jsonID(theirs.ID), token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, orderListPath, decode(t, w)["redirect"])

	w = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []interface{}{forbiddenMessage}, body["messages"])
	assert.Equal(t, "/dashboard/mechanic", body["landing"])
}

func TestLogEntryShortfall(t *testing.T) {
	s := newTestServer(t, Options{})
	user := s.account(t, "mecanico", models.RoleMechanic)
	mechanic := s.fx.Mechanic(&user.ID)
	order := s.fx.Order(&mechanic.ID)
	part := s.fx.Part(1, 0, "1000")
	token := s.login(t, "mecanico")

	w := s.do(t, http.MethodPost, "/api/work-orders/"+jsonID(order.ID)+"/log-entries", token, gin.H{
		"procedures": "Swap",
		"parts":      []gin.H{{"part_id": part.ID, "quantity": 4}},
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["available"])
	assert.Equal(t, 1, s.fx.Reload(part).CurrentStock)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, Options{})
	s.account(t, "encargado", models.RoleManager)
	token := s.login(t, "encargado")

	w := s.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
