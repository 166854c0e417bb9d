package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *MonthlyReport {
	first, last := MonthRange(Period{2025, 2})
	return &MonthlyReport{
		UserID:   4,
		Username: "budi santoso",
		Sekolah:  "SMK 1",
		Jurusan:  "RPL",
		Reports: Reconcile(first, last,
			[]AttendanceEntry{{Date: "2025-02-03", Status: "PRESENT"}},
			[]ActivityEntry{{Date: "2025-02-04", Description: "Fixed bug", Status: "Done"}},
			SentinelsID),
		AvailableMonths: AvailableMonths(nil, nil, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)),
		CurrentMonth:    Period{2025, 2},
	}
}

func TestExporterFor(t *testing.T) {
	e, err := ExporterFor("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, e.Ext)

	e, err = ExporterFor("PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", e.ContentType)

	_, err = ExporterFor("docx")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "laporan-budi_santoso-2025-02.csv", Filename(sampleReport(), FormatCSV))
}

func TestWriteCSVHasBOMAndOneRowPerDay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte("\xEF\xBB\xBF")))

	rows, err := csv.NewReader(bytes.NewReader(raw[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 29)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{"4", "2025-02-04", "TIDAK HADIR", "Fixed bug", "Done", ""}, rows[4])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Laporan", "B1")
	require.NoError(t, err)
	assert.Equal(t, "budi santoso", v)

	v, err = f.GetCellValue("Laporan", "B7")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01", v)

	rows, err := f.GetRows("Laporan")
	require.NoError(t, err)
	assert.Len(t, rows, 6+28)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
