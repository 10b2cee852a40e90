package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/theirongolddev/meshroi/internal/cli"
	"github.com/theirongolddev/meshroi/internal/report"
)

// PDFOptions controls labels in the PDF report.
type PDFOptions struct {
	Title string
	Money cli.Money
}

// pdfMoney swaps symbols the core PDF fonts cannot encode.
func pdfMoney(m cli.Money) cli.Money {
	m.Currency = strings.ReplaceAll(m.Currency, "₹", "Rs")
	return m
}

// ToPDF writes an A4 report: headline metrics, cost breakdown and the
// monthly projection table.
func ToPDF(w io.Writer, sum report.Summary, opts PDFOptions) error {
	title := opts.Title
	if title == "" {
		title = "ROI Projection"
		if sum.Name != "" {
			title += ": " + sum.Name
		}
	}
	money := pdfMoney(opts.Money)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	section := func(name string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(name))
		pdf.Ln(7)
		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Generated by meshroi | "+time.Now().Format("2006-01-02")), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+title), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	section("Key Metrics")
	m := sum.Metrics
	metrics := [][2]string{
		{"Monthly Net Savings", money.Format(m.MonthlyNetBenefit)},
		{"Breakeven Month", m.BreakevenLabel},
		{fmt.Sprintf("%d-Month ROI", sum.Input.HorizonMonths), cli.FormatPercent(m.FinalROIPercent)},
		{fmt.Sprintf("%d-Month Net Savings", sum.Input.HorizonMonths), money.Format(m.FinalNetSavings)},
	}
	for _, kv := range metrics {
		pdf.CellFormat(70, 6, tr(kv[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(kv[1]), "", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section("Cost Breakdown")
	for _, row := range sum.Breakdown {
		pdf.CellFormat(70, 6, tr(row.Category), "B", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, tr(money.Format(row.Amount)), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section("Monthly Projection")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 7, "Month", "B", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, tr("Cumulative Savings"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, "ROI (%)", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 9)

	for i, v := range sum.Series.CumulativeSavings {
		month := i + 1
		if sum.Series.HasBreakeven && month == sum.Series.BreakevenMonth {
			pdf.SetTextColor(0, 128, 0)
		} else if v < 0 {
			pdf.SetTextColor(192, 0, 0)
		} else {
			pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		}
		pdf.CellFormat(30, 5, fmt.Sprintf("%d", month), "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 5, tr(money.Format(v)), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, cli.FormatPercent(sum.Series.ROIPercent[i]), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("error writing PDF file: %w", err)
	}
	return nil
}
