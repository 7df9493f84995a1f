package statement

import (
	"bytes"
	"testing"
	"time"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func sampleStatement() *apppayroll.StatementResponse {
	pid := uuid.New()
	return &apppayroll.StatementResponse{
		Employee: apppayroll.EmployeeResponse{
			ID:             uuid.New(),
			EmployeeNumber: "E-001",
			Name:           "Sam Carter",
			Department:     "Ops",
		},
		From: "2024-01",
		To:   "2024-02",
		Months: []apppayroll.StatementMonth{
			{
				Month: "2024-01",
				Entries: []payroll.LedgerEntry{
					{Month: "2024-01", Amount: decimal.NewFromInt(1500), PayrollID: pid, Type: payroll.TypeFull},
					{Month: "2024-01", Amount: decimal.NewFromInt(200), PayrollID: pid, Type: payroll.TypeAdvance},
				},
				Balance: decimal.NewFromInt(1700),
			},
			{Month: "2024-02", Balance: decimal.NewFromInt(1700)},
		},
		Total: decimal.NewFromInt(1700),
	}
}

func TestPDFRenderer_Render(t *testing.T) {
	r := NewPDFRenderer(language.English)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	out, err := r.Render(sampleStatement())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "application/pdf", r.ContentType())
}

func TestPDFRenderer_RenderNil(t *testing.T) {
	_, err := NewPDFRenderer(language.English).Render(nil)
	assert.Error(t, err)
}

func TestPDFRenderer_Formatting(t *testing.T) {
	r := NewPDFRenderer(language.English)
	assert.Equal(t, "1,234,567.50", r.money(decimal.RequireFromString("1234567.499")))
	assert.Equal(t, "0.00", r.money(decimal.Zero))

	de := NewPDFRenderer(language.German)
	assert.Equal(t, "1.234,50", de.money(decimal.RequireFromString("1234.5")))

	assert.Equal(t, "Advance", r.typeLabel(payroll.TypeAdvance))
	assert.Equal(t, "Project Timesheet", r.typeLabel(payroll.TypeProjectTimesheet))
}
