// Package model defines domain entities shared by the API client, services and exporters.
package model

import "time"

// User is the account behind the current session.
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Confidence is the backend-supplied probability pair for a prediction.
// AI+Human is expected to be close to 1 but is never enforced; display code
// must tolerate drift.
type Confidence struct {
	AI    float64 `json:"ai"`
	Human float64 `json:"human"`
}

// Prediction labels returned by the classifier.
const (
	PredictionAI    = "AI"
	PredictionHuman = "Human"
)

// AnalysisRecord is one stored classification result. Read-only for the
// client except for deletion.
type AnalysisRecord struct {
	ID             int64      `json:"id"`
	Text           string     `json:"text"`
	Prediction     string     `json:"prediction"`
	Confidence     Confidence `json:"confidence"`
	DetailAnalysis string     `json:"detailAnalysis"`
	OwnerID        string     `json:"ownerId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// AppSetting is one editable key/value configuration entry. Keys are unique.
type AppSetting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// DetailedAnalysis is the structured breakdown embedded as fenced JSON inside
// AnalysisRecord.DetailAnalysis. It is derived, never persisted; a nil value
// means "no structured detail available".
type DetailedAnalysis struct {
	LinguisticIndicators []LinguisticIndicator `json:"linguisticIndicators"`
	Vocabulary           Vocabulary            `json:"vocabulary"`
	WritingStyle         WritingStyle          `json:"writingStyle"`
	Conclusion           Conclusion            `json:"conclusion"`
}

// LinguisticIndicator is one detected pattern with its AI likelihood tag.
type LinguisticIndicator struct {
	Pattern      string   `json:"pattern"`
	Description  string   `json:"description"`
	AILikelihood string   `json:"aiLikelihood"`
	Examples     []string `json:"examples"`
}

// Vocabulary summarizes lexical traits of the analyzed text.
type Vocabulary struct {
	Complexity        string   `json:"complexity"`
	TechnicalTerms    []string `json:"technicalTerms"`
	RepetitivePhrases []string `json:"repetitivePhrases"`
	SentenceStructure string   `json:"sentenceStructure"`
}

// WritingStyle summarizes stylistic traits and per-origin markers.
type WritingStyle struct {
	Formality    string   `json:"formality"`
	Flow         string   `json:"flow"`
	Coherence    string   `json:"coherence"`
	HumanMarkers []string `json:"humanMarkers"`
	AIMarkers    []string `json:"aiMarkers"`
}

// Conclusion is the classifier's narrative verdict.
type Conclusion struct {
	PrimaryReason         string `json:"primaryReason"`
	ConfidenceExplanation string `json:"confidenceExplanation"`
	Recommendation        string `json:"recommendation,omitempty"`
}
