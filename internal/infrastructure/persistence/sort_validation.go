package persistence

import (
	"strings"

	"github.com/erp/payroll/internal/domain/shared"
	"gorm.io/gorm"
)

// sortOrder normalizes a requested direction; anything but asc sorts DESC
func sortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// sortField returns the requested column when whitelisted, else defaultField
func sortField(requested string, allowed map[string]bool, defaultField string) string {
	if trimmed := strings.TrimSpace(requested); allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// AccountSortFields contains allowed sort fields for accounts
var AccountSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"code":       true,
	"amount":     true,
}

// TransactionSortFields contains allowed sort fields for the transaction log
var TransactionSortFields = map[string]bool{
	"created_at":   true,
	"posted_at":    true,
	"account_name": true,
	"type":         true,
	"debit":        true,
	"credit":       true,
}

// PayrollSortFields contains allowed sort fields for payrolls
var PayrollSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"month":          true,
	"type":           true,
	"salary":         true,
	"total_pay":      true,
	"approval_state": true,
}

// VoucherSortFields contains allowed sort fields for payroll vouchers
var VoucherSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"voucher_number": true,
	"type":           true,
	"payment_date":   true,
	"approval_state": true,
}

// GroupPayrollSortFields contains allowed sort fields for group payrolls
var GroupPayrollSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"month":          true,
	"name":           true,
	"approval_state": true,
}

// EmployeeSortFields contains allowed sort fields for employees
var EmployeeSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"employee_number": true,
	"name":            true,
	"department":      true,
	"total_wallet":    true,
}

// applyPaging orders by a whitelisted field and applies offset/limit
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	query = query.Order(sortField(filter.OrderBy, allowed, defaultField) + " " + sortOrder(filter.OrderDir))
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
