package report

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/report"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const excelSheet = "Attendance Report"

var excelHeaders = []string{"ID", "Employee", "DNI", "Job Title", "Area", "Date & Time", "Type", "Status", "Notes"}

var excelWidths = []float64{38, 30, 12, 22, 18, 20, 16, 16, 30}

func renderExcel(rows []report.AttendanceRow, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for c, h := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		note := ""
		if row.Note != nil {
			note = *row.Note
		}
		values := []interface{}{
			row.ID,
			row.EmployeeName,
			row.DNI,
			row.JobTitle,
			row.Area,
			row.PunchedAt.In(loc).Format(dateTimeLayout),
			row.PunchType.Description(),
			row.Status.Description(),
			note,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, i+2)
			if err := f.SetCellValue(excelSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	for c, w := range excelWidths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		_ = f.SetColWidth(excelSheet, col, col, w)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(excelHeaders), 1)
	if err := f.SetCellStyle(excelSheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pdfHeaders = excelHeaders[:len(excelHeaders)-1]

// Widths in mm; they add up to the printable width of landscape A4 with 10mm margins.
var pdfWidths = []float64{50, 55, 22, 40, 35, 35, 22, 18}

func renderPDF(rows []report.AttendanceRow, startDate, endDate string, loc *time.Location) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(excelSheet, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(217, 225, 242)
		for i, h := range pdfHeaders {
			pdf.CellFormat(pdfWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 7)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, excelSheet, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s", startDate, endDate), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range rows {
		if pdf.GetY()+6 > pageHeight-bottom-10 {
			pdf.AddPage()
			header()
		}
		cells := []string{
			row.ID,
			row.EmployeeName,
			row.DNI,
			row.JobTitle,
			row.Area,
			row.PunchedAt.In(loc).Format(dateTimeLayout),
			row.PunchType.Description(),
			row.Status.Description(),
		}
		for i, v := range cells {
			pdf.CellFormat(pdfWidths[i], 6, tr(fit(pdf, v, pdfWidths[i]-2)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit shortens s with an ellipsis until it fits into width mm at the current font.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for utf8.RuneCountInString(s) > 1 {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if pdf.GetStringWidth(s+"...") <= width {
			return s + "..."
		}
	}
	return s
}
