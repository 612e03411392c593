// Package report renders already-fetched, already-interpreted analysis data
// into files. It has no network dependency.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"detectctl/internal/interpret"
	"detectctl/internal/model"
)

// Filename returns the deterministic export name for a record: the id and
// the export date fully determine it, which keeps exports reproducible.
func Filename(id int64, date time.Time) string {
	return fmt.Sprintf("analysis-report-%d-%s.pdf", id, date.Format("2006-01-02"))
}

const nonePlaceholder = "none detected"

// WritePDF renders one record and its interpreted detail (nil when
// unavailable) as a paginated PDF. Long text wraps to the page width;
// page breaks happen automatically when a line would exceed the printable
// height.
func WritePDF(w io.Writer, rec model.AnalysisRecord, detail *model.DetailedAnalysis) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "AI Detection Analysis Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Created "+rec.CreatedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	writeSummary(pdf, rec)
	writeSection(pdf, "Analyzed Text", rec.Text)

	if detail != nil {
		writeIndicators(pdf, detail.LinguisticIndicators)
		writeVocabulary(pdf, detail.Vocabulary)
		writeStyle(pdf, detail.WritingStyle)
		writeConclusion(pdf, detail.Conclusion)
	} else {
		writeSection(pdf, "Detailed Breakdown", "No structured detail available for this record.")
	}

	return pdf.Output(w)
}

func writeSummary(pdf *fpdf.Fpdf, rec model.AnalysisRecord) {
	ai, human := interpret.Percentages(rec.Confidence)
	words := interpret.WordCount(rec.Text)

	heading(pdf, "Summary")
	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Prediction", rec.Prediction},
		{"AI probability", fmt.Sprintf("%d%%", ai)},
		{"Human probability", fmt.Sprintf("%d%%", human)},
		{"Word count", fmt.Sprintf("%d", words)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func writeIndicators(pdf *fpdf.Fpdf, indicators []model.LinguisticIndicator) {
	heading(pdf, "Linguistic Indicators")
	if len(indicators) == 0 {
		paragraph(pdf, nonePlaceholder)
		pdf.Ln(3)
		return
	}
	for _, ind := range indicators {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, fmt.Sprintf("%s  [%s likelihood]", ind.Pattern, ind.AILikelihood), "", "L", false)
		paragraph(pdf, ind.Description)
		for _, ex := range ind.Examples {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, "  - "+ex, "", "L", false)
		}
		pdf.Ln(2)
	}
	pdf.Ln(1)
}

func writeVocabulary(pdf *fpdf.Fpdf, v model.Vocabulary) {
	heading(pdf, "Vocabulary Analysis")
	paragraph(pdf, "Complexity: "+v.Complexity)
	paragraph(pdf, "Sentence structure: "+v.SentenceStructure)
	paragraph(pdf, "Technical terms: "+listOrNone(v.TechnicalTerms))
	paragraph(pdf, "Repetitive phrases: "+listOrNone(v.RepetitivePhrases))
	pdf.Ln(3)
}

func writeStyle(pdf *fpdf.Fpdf, s model.WritingStyle) {
	heading(pdf, "Writing Style")
	paragraph(pdf, "Formality: "+s.Formality)
	paragraph(pdf, "Flow: "+s.Flow)
	paragraph(pdf, "Coherence: "+s.Coherence)
	paragraph(pdf, "Human markers: "+listOrNone(s.HumanMarkers))
	paragraph(pdf, "AI markers: "+listOrNone(s.AIMarkers))
	pdf.Ln(3)
}

func writeConclusion(pdf *fpdf.Fpdf, c model.Conclusion) {
	heading(pdf, "Conclusion")
	paragraph(pdf, "Primary reason: "+c.PrimaryReason)
	paragraph(pdf, "Confidence: "+c.ConfidenceExplanation)
	if c.Recommendation != "" {
		paragraph(pdf, "Recommendation: "+c.Recommendation)
	}
	pdf.Ln(3)
}

func writeSection(pdf *fpdf.Fpdf, title, body string) {
	heading(pdf, title)
	paragraph(pdf, body)
	pdf.Ln(3)
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func paragraph(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, text, "", "L", false)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return nonePlaceholder
	}
	return strings.Join(items, ", ")
}
