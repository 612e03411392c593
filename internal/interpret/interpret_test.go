package interpret

import (
	"testing"

	"detectctl/internal/model"
)

const sampleDetail = "The classifier produced the following breakdown.\n\n" +
	"```json\n" +
	`{
  "linguisticIndicators": [
    {
      "pattern": "uniform sentence length",
      "description": "Sentences vary little in length.",
      "aiLikelihood": "high",
      "examples": ["First example.", "Second example."]
    }
  ],
  "vocabulary": {
    "complexity": "moderate",
    "technicalTerms": ["classifier", "token"],
    "repetitivePhrases": ["in conclusion"],
    "sentenceStructure": "mostly compound"
  },
  "writingStyle": {
    "formality": "formal",
    "flow": "even",
    "coherence": "high",
    "humanMarkers": [],
    "aiMarkers": ["hedging", "list-like transitions"]
  },
  "conclusion": {
    "primaryReason": "Low burstiness across paragraphs.",
    "confidenceExplanation": "Indicators agree with the model score.",
    "recommendation": "Review flagged sections manually."
  }
}` + "\n```\n\nEnd of report.\n"

func TestParseDetail_ValidFence(t *testing.T) {
	t.Parallel()
	d := ParseDetail(sampleDetail)
	if d == nil {
		t.Fatal("ParseDetail returned nil for a valid fenced document")
	}
	if len(d.LinguisticIndicators) != 1 {
		t.Fatalf("indicators=%d", len(d.LinguisticIndicators))
	}
	ind := d.LinguisticIndicators[0]
	if ind.Pattern != "uniform sentence length" || ind.AILikelihood != "high" || len(ind.Examples) != 2 {
		t.Fatalf("indicator=%+v", ind)
	}
	if d.Vocabulary.Complexity != "moderate" || len(d.Vocabulary.TechnicalTerms) != 2 {
		t.Fatalf("vocabulary=%+v", d.Vocabulary)
	}
	if d.WritingStyle.Formality != "formal" || len(d.WritingStyle.AIMarkers) != 2 {
		t.Fatalf("writingStyle=%+v", d.WritingStyle)
	}
	if len(d.WritingStyle.HumanMarkers) != 0 {
		t.Fatalf("humanMarkers=%v", d.WritingStyle.HumanMarkers)
	}
	if d.Conclusion.PrimaryReason == "" || d.Conclusion.Recommendation == "" {
		t.Fatalf("conclusion=%+v", d.Conclusion)
	}
}

func TestParseDetail_UsesFirstJSONFence(t *testing.T) {
	t.Parallel()
	raw := "```\nnot tagged\n```\n\n```json\n{\"conclusion\":{\"primaryReason\":\"first\",\"confidenceExplanation\":\"x\"}}\n```\n\n```json\n{\"conclusion\":{\"primaryReason\":\"second\",\"confidenceExplanation\":\"y\"}}\n```\n"
	d := ParseDetail(raw)
	if d == nil {
		t.Fatal("nil for document with json fences")
	}
	if d.Conclusion.PrimaryReason != "first" {
		t.Fatalf("picked %q, want the first tagged fence", d.Conclusion.PrimaryReason)
	}
}

func TestParseDetail_DegradesToNil(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"empty":         "",
		"plain text":    "just a narrative explanation with no code",
		"untagged":      "```\n{\"conclusion\":{}}\n```",
		"wrong tag":     "```yaml\nconclusion: {}\n```",
		"malformed":     "```json\n{not valid json\n```",
		"backticks":     "inline `json` mention without a fence",
		"fence mid-doc": "intro\n\n```python\nprint(1)\n```\noutro",
	}
	for name, raw := range cases {
		if d := ParseDetail(raw); d != nil {
			t.Errorf("%s: want nil, got %+v", name, d)
		}
	}
}

func TestPercent_IndependentRounding(t *testing.T) {
	t.Parallel()
	cases := []struct {
		c           model.Confidence
		ai, human   int
		sumTolerant bool
	}{
		{model.Confidence{AI: 0.12, Human: 0.88}, 12, 88, false},
		{model.Confidence{AI: 0.5, Human: 0.5}, 50, 50, false},
		{model.Confidence{AI: 0.005, Human: 0.995}, 1, 100, true},  // sum 101
		{model.Confidence{AI: 0.994, Human: 0.004}, 99, 0, true},   // sum 99
		{model.Confidence{AI: 0, Human: 1}, 0, 100, false},
		{model.Confidence{AI: 1, Human: 0}, 100, 0, false},
	}
	for _, tc := range cases {
		ai, human := Percentages(tc.c)
		if ai != tc.ai || human != tc.human {
			t.Errorf("Percentages(%+v)=(%d,%d) want (%d,%d)", tc.c, ai, human, tc.ai, tc.human)
		}
		if tc.sumTolerant {
			if sum := ai + human; sum < 99 || sum > 101 {
				t.Errorf("sum %d outside the tolerated 99-101 band", sum)
			}
		}
	}
}

func TestWordCount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n\t  ", 0},
		{"Hello", 1},
		{"Hello world", 2},
		{"  spaced   out\ttokens\nacross lines  ", 5},
	}
	for _, tc := range cases {
		if got := WordCount(tc.in); got != tc.want {
			t.Errorf("WordCount(%q)=%d want %d", tc.in, got, tc.want)
		}
	}
}
