// cmd/detectctl/records.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"detectctl/internal/interpret"
	"detectctl/internal/model"
	"detectctl/internal/report"
	"detectctl/internal/service"
)

// ---- rendering ----

// renderTable is the single tabular renderer every listing command goes
// through; callers only supply the header and rows.
func renderTable(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	if len(header) > 0 {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

var recordHeader = []string{"ID", "PREDICTION", "AI %", "HUMAN %", "WORDS", "CREATED"}

func recordRow(rec model.AnalysisRecord) []string {
	ai, human := interpret.Percentages(rec.Confidence)
	return []string{
		strconv.FormatInt(rec.ID, 10),
		rec.Prediction,
		strconv.Itoa(ai),
		strconv.Itoa(human),
		strconv.Itoa(interpret.WordCount(rec.Text)),
		rec.CreatedAt.Format("2006-01-02 15:04"),
	}
}

func printOutcome(out *service.Outcome) {
	rows := [][]string{
		{"ID", strconv.FormatInt(out.ID, 10)},
		{"Prediction", out.Prediction},
		{"AI probability", fmt.Sprintf("%d%%", out.AIPercent)},
		{"Human probability", fmt.Sprintf("%d%%", out.HumanPercent)},
		{"Word count", strconv.Itoa(out.WordCount)},
	}
	renderTable(os.Stdout, nil, rows)
	if out.Detail != nil {
		fmt.Println()
		printDetail(os.Stdout, out.Detail)
	}
}

func printDetail(w io.Writer, d *model.DetailedAnalysis) {
	fmt.Fprintln(w, "Linguistic indicators:")
	if len(d.LinguisticIndicators) == 0 {
		fmt.Fprintln(w, "  none detected")
	}
	for _, ind := range d.LinguisticIndicators {
		fmt.Fprintf(w, "  %s [%s likelihood]: %s\n", ind.Pattern, ind.AILikelihood, ind.Description)
		for _, ex := range ind.Examples {
			fmt.Fprintf(w, "    - %s\n", ex)
		}
	}
	fmt.Fprintf(w, "Vocabulary: complexity=%s structure=%s\n",
		d.Vocabulary.Complexity, d.Vocabulary.SentenceStructure)
	fmt.Fprintf(w, "Style: formality=%s flow=%s coherence=%s\n",
		d.WritingStyle.Formality, d.WritingStyle.Flow, d.WritingStyle.Coherence)
	fmt.Fprintf(w, "Conclusion: %s (%s)\n",
		d.Conclusion.PrimaryReason, d.Conclusion.ConfidenceExplanation)
	if d.Conclusion.Recommendation != "" {
		fmt.Fprintf(w, "Recommendation: %s\n", d.Conclusion.Recommendation)
	}
}

func findRecord(records []model.AnalysisRecord, id int64) (model.AnalysisRecord, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return model.AnalysisRecord{}, false
}

// ---- commands ----

func (a *app) cmdAnalyze(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	text := fs.String("text", "", "text to classify")
	file := fs.String("file", "", "text file ('-'=stdin)")
	asJSON := fs.Bool("json", false, "print raw JSON")
	_ = fs.Parse(args)
	if *text == "" && *file == "" {
		fmt.Fprintln(os.Stderr, "need -text or -file")
		os.Exit(1)
	}
	if *file != "" {
		b, err := readAll(*file)
		if err != nil {
			fail(err)
		}
		*text = string(b)
	}

	a.requireAuth(ctx)
	out, err := a.records.Submit(ctx, *text)
	if err != nil {
		fail(err)
	}
	if *asJSON {
		printJSON(out)
		return
	}
	printOutcome(out)
}

func (a *app) cmdUpload(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	file := fs.String("file", "", "PDF file to analyze")
	asJSON := fs.Bool("json", false, "print raw JSON")
	_ = fs.Parse(args)
	if *file == "" {
		fmt.Fprintln(os.Stderr, "need -file")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		fail(err)
	}

	a.requireAuth(ctx)
	out, err := a.records.Upload(ctx, *file, f, fi.Size())
	if err != nil {
		fail(err)
	}
	if *asJSON {
		printJSON(out)
		return
	}
	printOutcome(out)
}

func (a *app) cmdList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print raw JSON")
	_ = fs.Parse(args)

	a.requireAuth(ctx)
	records, err := a.records.Refresh(ctx)
	if err != nil {
		fail(err)
	}
	if *asJSON {
		printJSON(records)
		return
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordRow(rec))
	}
	renderTable(os.Stdout, recordHeader, rows)
}

func (a *app) cmdShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Int64("id", 0, "record id")
	asJSON := fs.Bool("json", false, "print raw JSON")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.requireAuth(ctx)
	records, err := a.records.Refresh(ctx)
	if err != nil {
		fail(err)
	}
	rec, ok := findRecord(records, *id)
	if !ok {
		fmt.Fprintf(os.Stderr, "record %d not found\n", *id)
		os.Exit(1)
	}
	detail := interpret.ParseDetail(rec.DetailAnalysis)
	if *asJSON {
		printJSON(struct {
			Record model.AnalysisRecord    `json:"record"`
			Detail *model.DetailedAnalysis `json:"detail"`
		}{rec, detail})
		return
	}

	renderTable(os.Stdout, nil, [][]string{recordHeader, recordRow(rec)})
	fmt.Println()
	fmt.Println(rec.Text)
	fmt.Println()
	if detail != nil {
		printDetail(os.Stdout, detail)
	} else {
		fmt.Println("No structured detail available for this record.")
	}
}

func (a *app) cmdRemove(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.Int64("id", 0, "record id")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.requireAuth(ctx)
	remaining, err := a.records.Delete(ctx, *id)
	if err != nil {
		fail(err)
	}
	fmt.Printf("deleted record %d, %d remaining\n", *id, len(remaining))
}

func (a *app) cmdExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	id := fs.Int64("id", 0, "record id")
	out := fs.String("out", ".", "output directory")
	_ = fs.Parse(args)
	if *id == 0 {
		fmt.Fprintln(os.Stderr, "need -id")
		os.Exit(1)
	}

	a.requireAuth(ctx)
	records, err := a.records.Refresh(ctx)
	if err != nil {
		fail(err)
	}
	rec, ok := findRecord(records, *id)
	if !ok {
		fmt.Fprintf(os.Stderr, "record %d not found\n", *id)
		os.Exit(1)
	}

	path := filepath.Join(*out, report.Filename(rec.ID, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := report.WritePDF(f, rec, interpret.ParseDetail(rec.DetailAnalysis)); err != nil {
		fail(err)
	}
	fmt.Println(path)
}

func (a *app) cmdExportList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export-list", flag.ExitOnError)
	out := fs.String("out", ".", "output directory")
	_ = fs.Parse(args)

	a.requireAuth(ctx)
	records, err := a.records.Refresh(ctx)
	if err != nil {
		fail(err)
	}

	path := filepath.Join(*out, report.ListFilename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := report.WriteXLSX(f, records); err != nil {
		fail(err)
	}
	fmt.Printf("%s (%d records)\n", path, len(records))
}

func (a *app) cmdSettings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print raw JSON")
	_ = fs.Parse(args)

	a.requireAuth(ctx)
	settings, err := a.settings.Load(ctx)
	if err != nil {
		fail(err)
	}
	if *asJSON {
		printJSON(settings)
		return
	}
	rows := make([][]string, 0, len(settings))
	for _, st := range settings {
		rows = append(rows, []string{st.Key, st.Value, st.Description})
	}
	renderTable(os.Stdout, []string{"KEY", "VALUE", "DESCRIPTION"}, rows)
}

func (a *app) cmdSet(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "need at least one key=value")
		os.Exit(1)
	}

	a.requireAuth(ctx)
	if _, err := a.settings.Load(ctx); err != nil {
		fail(err)
	}
	for _, arg := range fs.Args() {
		key, value, err := parseAssignment(arg)
		if err != nil {
			fail(err)
		}
		if err := a.settings.Set(key, value); err != nil {
			fail(err)
		}
	}
	changed := len(a.settings.Changed())
	if err := a.settings.Save(ctx); err != nil {
		fail(err)
	}
	fmt.Printf("ok, %d updated\n", changed)
}

func (a *app) cmdClearCache(ctx context.Context) {
	a.requireAuth(ctx)
	if err := a.records.ClearCache(ctx); err != nil {
		fail(err)
	}
	if text, _, ok := a.records.Notice(time.Now()); ok {
		fmt.Println(text)
	}
}

// parseAssignment splits one key=value argument; the value may contain '='.
func parseAssignment(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	return key, value, nil
}
