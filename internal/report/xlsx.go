package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"detectctl/internal/interpret"
	"detectctl/internal/model"
)

// ListSheet is the worksheet the record list lands on.
const ListSheet = "Sheet1"

// ListFilename is the deterministic name for a record-list export.
func ListFilename(date time.Time) string {
	return fmt.Sprintf("analysis-records-%s.xlsx", date.Format("2006-01-02"))
}

var listHeader = []any{"ID", "Prediction", "AI %", "Human %", "Words", "Created At"}

// WriteXLSX writes the record list as a spreadsheet, one row per record.
func WriteXLSX(w io.Writer, records []model.AnalysisRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(ListSheet, "A1", &listHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range records {
		ai, human := interpret.Percentages(rec.Confidence)
		row := []any{
			rec.ID,
			rec.Prediction,
			ai,
			human,
			interpret.WordCount(rec.Text),
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(ListSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.Write(w)
}
