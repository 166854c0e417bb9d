package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"MAGANG-backend/internal/platform/apierr"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
)

var exportHeader = []string{"No", "Tanggal", "Kehadiran", "Aktivitas", "Status Aktivitas", "Tugas"}

type Exporter struct {
	ContentType string
	Ext         string
	Write       func(w io.Writer, rep *MonthlyReport) error
}

// ExporterFor: 未指定は xlsx
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatXLSX:
		return Exporter{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX, WriteXLSX}, nil
	case FormatPDF:
		return Exporter{"application/pdf", FormatPDF, WritePDF}, nil
	case FormatCSV:
		return Exporter{"text/csv; charset=utf-8", FormatCSV, WriteCSV}, nil
	}
	return Exporter{}, apierr.Invalid("format must be xlsx, pdf or csv")
}

// Filename 例) laporan-budi-2025-02.xlsx
func Filename(rep *MonthlyReport, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, rep.Username)
	return fmt.Sprintf("laporan-%s-%04d-%02d.%s", name, rep.CurrentMonth.Year, rep.CurrentMonth.Month, ext)
}

func rowValues(i int, r DailyRecord) []string {
	return []string{
		fmt.Sprintf("%d", i+1),
		r.Date,
		r.AttendanceStatus,
		r.ActivityDescription,
		deref(r.ActivityStatus),
		deref(r.TaskTitle),
	}
}

func WriteXLSX(w io.Writer, rep *MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Laporan"
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return err
	}

	_ = f.SetCellValue(sheet, "A1", "Nama")
	_ = f.SetCellValue(sheet, "B1", rep.Username)
	_ = f.SetCellValue(sheet, "A2", "Sekolah")
	_ = f.SetCellValue(sheet, "B2", rep.Sekolah)
	_ = f.SetCellValue(sheet, "A3", "Jurusan")
	_ = f.SetCellValue(sheet, "B3", rep.Jurusan)
	_ = f.SetCellValue(sheet, "A4", "Periode")
	_ = f.SetCellValue(sheet, "B4", fmt.Sprintf("%04d-%02d", rep.CurrentMonth.Year, rep.CurrentMonth.Month))

	const headerRow = 6
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), headerRow)
		_ = f.SetCellStyle(sheet, "A6", last, style)
	}

	for i, r := range rep.Reports {
		for j, v := range rowValues(i, r) {
			cell, _ := excelize.CoordinatesToCellName(j+1, headerRow+1+i)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "D", "D", 50)

	return f.Write(w)
}

func WritePDF(w io.Writer, rep *MonthlyReport) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Laporan Magang Bulanan")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Nama: %s", rep.Username)))
	pdf.Ln(7)
	pdf.Cell(40, 7, tr(fmt.Sprintf("Sekolah / Jurusan: %s / %s", rep.Sekolah, rep.Jurusan)))
	pdf.Ln(7)
	pdf.Cell(40, 7, fmt.Sprintf("Periode: %04d-%02d", rep.CurrentMonth.Year, rep.CurrentMonth.Month))
	pdf.Ln(10)

	widths := []float64{12, 28, 32, 120, 35, 50}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range exportHeader {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for i, r := range rep.Reports {
		for j, v := range rowValues(i, r) {
			pdf.CellFormat(widths[j], 7, tr(truncate(v, 80)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// WriteCSV: Excel で文字化けしないよう UTF-8 BOM 付き
func WriteCSV(w io.Writer, rep *MonthlyReport) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(tw)

	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i, r := range rep.Reports {
		if err := cw.Write(rowValues(i, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
