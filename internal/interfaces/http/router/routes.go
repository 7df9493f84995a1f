package router

import (
	"github.com/erp/payroll/internal/infrastructure/auth"
	"github.com/erp/payroll/internal/interfaces/http/handler"
	"github.com/erp/payroll/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted under the versioned API.
// Outbox is optional; its routes are skipped when nil.
type Handlers struct {
	Accounts      *handler.AccountHandler
	Settings      *handler.SettingsHandler
	Employees     *handler.EmployeeHandler
	Payrolls      *handler.PayrollHandler
	Vouchers      *handler.VoucherHandler
	GroupPayrolls *handler.GroupPayrollHandler
	Reports       *handler.ReportHandler
	Outbox        *handler.OutboxHandler
	System        *handler.SystemHandler
}

// PayrollGroups builds the route groups of the payroll ledger API with
// their permission checks
func PayrollGroups(h Handlers) []RouteRegistrar {
	read := middleware.RequirePermission(auth.PermPayrollRead)
	write := middleware.RequirePermission(auth.PermPayrollWrite)
	approve := middleware.RequirePermission(auth.PermPayrollApprove)
	settings := middleware.RequirePermission(auth.PermSettingsWrite)
	admin := middleware.RequirePermission(auth.PermSystemAdmin)

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.POST("", settings, h.Accounts.Create)
	accounts.GET("", read, h.Accounts.List)
	accounts.POST("/provision", settings, h.Accounts.Provision)
	accounts.GET("/validate", read, h.Accounts.Validate)
	accounts.GET("/reconcile", read, h.Accounts.Reconcile)
	accounts.GET("/:id/transactions", read, h.Accounts.Transactions)

	orgSettings := NewDomainGroup("settings", "/settings")
	orgSettings.GET("", read, h.Settings.Get)
	orgSettings.PUT("", settings, h.Settings.Update)

	employees := NewDomainGroup("employees", "/employees")
	employees.POST("", write, h.Employees.Create)
	employees.GET("", read, h.Employees.List)
	employees.GET("/:id", read, h.Employees.GetByID)
	employees.GET("/:id/statement", read, h.Employees.Statement)
	employees.POST("/:id/statement/export", read, h.Employees.ExportStatement)

	payrolls := NewDomainGroup("payrolls", "/payrolls")
	payrolls.POST("", write, h.Payrolls.Create)
	payrolls.GET("", read, h.Payrolls.List)
	payrolls.GET("/:id", read, h.Payrolls.GetByID)
	payrolls.PUT("/:id", write, h.Payrolls.Update)
	payrolls.POST("/:id/approval", approve, h.Payrolls.ChangeApproval)
	payrolls.DELETE("/:id", write, h.Payrolls.Delete)

	vouchers := NewDomainGroup("vouchers", "/vouchers")
	vouchers.POST("", write, h.Vouchers.Create)
	vouchers.GET("", read, h.Vouchers.List)
	vouchers.GET("/:id", read, h.Vouchers.GetByID)
	vouchers.POST("/:id/approval", approve, h.Vouchers.ChangeApproval)
	vouchers.DELETE("/:id", write, h.Vouchers.Delete)

	groups := NewDomainGroup("group-payrolls", "/group-payrolls")
	groups.POST("", write, h.GroupPayrolls.Create)
	groups.GET("", read, h.GroupPayrolls.List)
	groups.GET("/:id", read, h.GroupPayrolls.GetByID)
	groups.POST("/:id/approval", approve, h.GroupPayrolls.ChangeApproval)
	groups.DELETE("/:id", write, h.GroupPayrolls.Delete)

	reports := NewDomainGroup("reports", "/reports").Use(read)
	reports.GET("/trial-balance", h.Reports.GetTrialBalance)
	reports.GET("/general-ledger", h.Reports.GetGeneralLedger)

	system := NewDomainGroup("system", "/system")
	system.GET("/health", h.System.Health)
	system.GET("/info", h.System.GetSystemInfo)
	system.POST("/ledger/maintenance", admin, h.System.TriggerLedgerMaintenance)
	if h.Outbox != nil {
		outbox := system.Group("outbox", "/outbox").Use(admin)
		outbox.GET("/dead", h.Outbox.ListDeadLetters)
		outbox.POST("/dead/retry-all", h.Outbox.RetryAllDeadEntries)
		outbox.GET("/stats", h.Outbox.GetStats)
		outbox.GET("/:id", h.Outbox.GetEntry)
		outbox.POST("/:id/retry", h.Outbox.RetryDeadEntry)
	}

	return []RouteRegistrar{accounts, orgSettings, employees, payrolls, vouchers, groups, reports, system}
}
