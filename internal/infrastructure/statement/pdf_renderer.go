// Package statement renders employee statements for export.
package statement

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	apppayroll "github.com/erp/payroll/internal/application/payroll"
	"github.com/erp/payroll/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var _ apppayroll.StatementRenderer = (*PDFRenderer)(nil)

// PDFRenderer lays a statement out as an A4 PDF, one table row per ledger entry
type PDFRenderer struct {
	printer *message.Printer
	caser   cases.Caser
	now     func() time.Time
}

// NewPDFRenderer creates a renderer formatting amounts for tag
func NewPDFRenderer(tag language.Tag) *PDFRenderer {
	return &PDFRenderer{
		printer: message.NewPrinter(tag),
		caser:   cases.Title(tag),
		now:     time.Now,
	}
}

// ContentType implements StatementRenderer
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

var columnWidths = []float64{30, 60, 50, 50}

// Render implements StatementRenderer
func (r *PDFRenderer) Render(st *apppayroll.StatementResponse) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("statement is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Statement %s %s-%s", st.Employee.EmployeeNumber, st.From, st.To), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Employee Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", st.Employee.Name, st.Employee.EmployeeNumber))
	pdf.Ln(6)
	if st.Employee.Department != "" {
		pdf.Cell(0, 7, "Department: "+st.Employee.Department)
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", st.From, st.To))
	pdf.Ln(6)
	pdf.Cell(0, 7, "Generated: "+r.now().UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	r.header(pdf, "Month", "Type", "Amount", "Balance")
	pdf.SetFont("Helvetica", "", 10)
	for _, m := range st.Months {
		if len(m.Entries) == 0 {
			r.row(pdf, m.Month.String(), "-", "", r.money(m.Balance))
			continue
		}
		for i, e := range m.Entries {
			balance := ""
			if i == len(m.Entries)-1 {
				balance = r.money(m.Balance)
			}
			r.row(pdf, e.Month.String(), r.typeLabel(e.Type), r.money(e.Amount), balance)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Total: "+r.money(st.Total))

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) header(pdf *gofpdf.Fpdf, cols ...string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range cols {
		pdf.CellFormat(columnWidths[i], 7, c, "1", 0, align(i), true, 0, "")
	}
	pdf.Ln(-1)
}

func (r *PDFRenderer) row(pdf *gofpdf.Fpdf, cols ...string) {
	for i, c := range cols {
		pdf.CellFormat(columnWidths[i], 6, c, "1", 0, align(i), false, 0, "")
	}
	pdf.Ln(-1)
}

func align(col int) string {
	if col >= 2 {
		return "R"
	}
	return "L"
}

func (r *PDFRenderer) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return r.printer.Sprintf("%.2f", f)
}

func (r *PDFRenderer) typeLabel(t payroll.Type) string {
	if t == payroll.TypeProjectTimesheet {
		return "Project Timesheet"
	}
	return r.caser.String(strings.ReplaceAll(string(t), "_", " "))
}
