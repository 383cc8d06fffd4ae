package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// StatementGenerator renders a monthly transaction statement.
type StatementGenerator interface {
	GenerateStatement(data StatementData) ([]byte, error)
}

type StatementData struct {
	UserName          string
	Month             int
	Year              int
	TotalIncomeCents  int64
	TotalExpenseCents int64
	Lines             []StatementLine
}

type StatementLine struct {
	Date        time.Time
	Description string
	Category    string
	AmountCents int64
}

type DocumentGenerator struct{}

func NewDocumentGenerator() *DocumentGenerator {
	return &DocumentGenerator{}
}

func (g *DocumentGenerator) GenerateStatement(data StatementData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252, so UTF-8 text goes through the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Statement %02d/%d", data.Month, data.Year), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Monthly Statement", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("%s / %02d-%d", data.UserName, data.Month, data.Year)
	pdf.CellFormat(0, 7, tr(sub), "", 1, "C", false, 0, "")
	g.hr(pdf)

	balance := data.TotalIncomeCents - data.TotalExpenseCents
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Income:   %s", formatCents(data.TotalIncomeCents)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Expenses: %s", formatCents(data.TotalExpenseCents)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Balance:  %s", formatCents(balance)), "", 1, "L", false, 0, "")
	g.hr(pdf)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 7, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(75, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range data.Lines {
		pdf.CellFormat(25, 6, line.Date.Format("02.01.2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(75, 6, tr(truncate(line.Description, 45)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(truncate(line.Category, 24)), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, formatCents(line.AmountCents), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed: %w", err)
	}

	return buf.Bytes(), nil
}

func (g *DocumentGenerator) hr(pdf *gofpdf.Fpdf) {
	pdf.Ln(3)
	x, y := pdf.GetXY()
	pdf.Line(x, y, 190, y)
	pdf.Ln(4)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
