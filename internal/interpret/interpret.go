// Package interpret turns raw classification payloads into displayable
// values: the structured detail embedded in a markdown fence, percentage
// pairs, and word counts.
package interpret

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"detectctl/internal/model"
)

// ParseDetail extracts the first ```json fenced block from raw and decodes
// it. It returns nil when no such block exists or the JSON is malformed:
// absence of structured detail is a normal, displayable state, never an
// error.
func ParseDetail(raw string) *model.DetailedAnalysis {
	body, ok := fencedJSON(raw)
	if !ok {
		return nil
	}
	var d model.DetailedAnalysis
	if err := json.Unmarshal(body, &d); err != nil {
		return nil
	}
	return &d
}

// fencedJSON finds the first fenced code block tagged json in the markdown
// document. Parser instances are single-use, so one is built per call.
func fencedJSON(raw string) ([]byte, bool) {
	p := parser.NewWithExtensions(parser.FencedCode)
	doc := p.Parse([]byte(raw))

	var body []byte
	var found bool
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		cb, ok := node.(*ast.CodeBlock)
		if !ok || !entering || !cb.IsFenced {
			return ast.GoToNext
		}
		if strings.TrimSpace(string(cb.Info)) != "json" {
			return ast.GoToNext
		}
		body, found = cb.Literal, true
		return ast.Terminate
	})
	return body, found
}

// Percent converts a probability to a whole percentage, rounding half away
// from zero. AI and human values are converted independently and never
// renormalized, so a displayed pair may sum to 99-101.
func Percent(p float64) int {
	return int(math.Round(p * 100))
}

// Percentages converts both sides of a confidence pair.
func Percentages(c model.Confidence) (ai, human int) {
	return Percent(c.AI), Percent(c.Human)
}

// WordCount counts whitespace-separated tokens. Empty or whitespace-only
// input reports 0, not the 1 a naive split would produce.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
