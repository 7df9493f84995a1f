package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/ledger"
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/infrastructure/persistence"
	"github.com/erp/payroll/internal/interfaces/http/dto"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testBank = "Main Bank"

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// api serves the payroll handlers over an in-memory sqlite ledger
type api struct {
	t         *testing.T
	engine    *gin.Engine
	tenantID  uuid.UUID
	companyID uuid.UUID
	userID    uuid.UUID
	settings  *apppayroll.SettingsService
	employees *apppayroll.EmployeeService
}

func newAPI(t *testing.T) *api {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, persistence.NewDatabaseFromGorm(db).AutoMigrate())

	log := zap.NewNop()
	settingsRepo := persistence.NewGormSettingsRepository(db)
	accounts := apppayroll.NewAccountService(
		persistence.NewGormAccountRepository(db),
		persistence.NewGormTransactionRepository(db),
		settingsRepo,
		log,
	)
	settings := apppayroll.NewSettingsService(settingsRepo, accounts, log)
	employees := apppayroll.NewEmployeeService(persistence.NewGormEmployeeRepository(db), persistence.NewGormEmployeeLedgerRepository(db), log)
	deps := apppayroll.Dependencies{
		Scope:    persistence.NewGormTransactionScope(db, nil),
		Settings: settings,
		Logger:   log,
	}
	payrolls := apppayroll.NewPayrollService(persistence.NewGormPayrollRepository(db), deps)

	a := &api{
		t:         t,
		tenantID:  uuid.New(),
		companyID: uuid.New(),
		userID:    uuid.New(),
		settings:  settings,
		employees: employees,
	}

	ctx := context.Background()
	_, err = accounts.Provision(ctx, a.tenantID, a.companyID)
	require.NoError(t, err)
	_, err = accounts.Create(ctx, a.tenantID, a.companyID, apppayroll.CreateAccountRequest{Name: testBank, Type: ledger.AccountTypeBank})
	require.NoError(t, err)

	accountHandler := NewAccountHandler(accounts)
	employeeHandler := NewEmployeeHandler(employees)
	payrollHandler := NewPayrollHandler(payrolls)
	settingsHandler := NewSettingsHandler(settings)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Anonymous") == "" {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{
				TenantID:  a.tenantID.String(),
				CompanyID: a.companyID.String(),
				UserID:    a.userID.String(),
			})
		}
		c.Next()
	})
	v1 := r.Group("/api/v1")
	v1.GET("/accounts", accountHandler.List)
	v1.POST("/accounts", accountHandler.Create)
	v1.GET("/accounts/:id/transactions", accountHandler.Transactions)
	v1.GET("/accounts/reconcile", accountHandler.Reconcile)
	v1.GET("/settings", settingsHandler.Get)
	v1.PUT("/settings", settingsHandler.Update)
	v1.POST("/employees", employeeHandler.Create)
	v1.GET("/employees/:id", employeeHandler.GetByID)
	v1.GET("/employees/:id/statement", employeeHandler.Statement)
	v1.POST("/payrolls", payrollHandler.Create)
	v1.GET("/payrolls", payrollHandler.List)
	v1.GET("/payrolls/:id", payrollHandler.GetByID)
	v1.PUT("/payrolls/:id", payrollHandler.Update)
	v1.POST("/payrolls/:id/approval", payrollHandler.ChangeApproval)
	v1.DELETE("/payrolls/:id", payrollHandler.Delete)
	a.engine = r
	return a
}

func (a *api) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *api) employee(number string) uuid.UUID {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/employees", map[string]any{"employee_number": number, "name": "Employee " + number})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Data apppayroll.EmployeeResponse `json:"data"`
	}
	decode(a.t, w, &out)
	return out.Data.ID
}

func (a *api) configure(body map[string]any) {
	a.t.Helper()
	w := a.do(http.MethodPut, "/api/v1/settings", body)
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func errorInfo(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	decode(t, w, &resp)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}
