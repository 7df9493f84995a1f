package persistence

import (
	"testing"

	"github.com/erp/payroll/internal/domain/shared"
	"github.com/erp/payroll/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSortOrder(t *testing.T) {
	for input, want := range map[string]string{
		"":                         "DESC",
		"asc":                      "ASC",
		"  ASC ":                   "ASC",
		"desc":                     "DESC",
		"ASC; DROP TABLE payrolls": "DESC",
	} {
		assert.Equal(t, want, sortOrder(input), input)
	}
}

func TestSortField_RejectsAnythingOffTheWhitelist(t *testing.T) {
	assert.Equal(t, "month", sortField(" month ", PayrollSortFields, "created_at"))
	for _, payload := range []string{
		"",
		"MONTH",
		"month; DROP TABLE payrolls",
		"month' OR '1'='1",
		"salary, (SELECT amount FROM accounts)",
		"running_balance",
	} {
		assert.Equal(t, "created_at", sortField(payload, PayrollSortFields, "created_at"), payload)
	}
}

func TestTransactionSortFieldsKeepPostingOrder(t *testing.T) {
	assert.True(t, TransactionSortFields["posted_at"])
	assert.False(t, TransactionSortFields["running_balance"])
	assert.False(t, TransactionSortFields["seq"])
}

func TestApplyPaging(t *testing.T) {
	db := setupTestDB(t).Session(&gorm.Session{DryRun: true})

	tests := []struct {
		name   string
		filter shared.Filter
		order  string
		paged  bool
	}{
		{"defaults", shared.Filter{}, "ORDER BY created_at DESC", false},
		{"whitelisted ascending", shared.Filter{OrderBy: "month", OrderDir: "asc", Page: 2, PageSize: 10}, "ORDER BY month ASC", true},
		{"unknown column", shared.Filter{OrderBy: "password", Page: 1, PageSize: 5}, "ORDER BY created_at DESC", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []models.PayrollModel
			stmt := applyPaging(db.Model(&models.PayrollModel{}), tt.filter, PayrollSortFields, "created_at").Find(&rows).Statement
			sql := stmt.SQL.String()
			assert.Contains(t, sql, tt.order)
			if tt.paged {
				assert.Contains(t, sql, "LIMIT")
			} else {
				assert.NotContains(t, sql, "LIMIT")
			}
		})
	}
}
