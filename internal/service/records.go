// Package service orchestrates the data views of the dashboard: the record
// browser and the settings editor. Each view drives its network calls
// through an asyncop.Operation, so the lifecycle (pending guard, stale
// discard, error messages) is identical everywhere.
package service

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"detectctl/internal/api"
	"detectctl/internal/asyncop"
	"detectctl/internal/interpret"
	"detectctl/internal/model"
)

// RecordAPI is the slice of the HTTP client the record browser needs.
type RecordAPI interface {
	ListResults(ctx context.Context) ([]model.AnalysisRecord, error)
	SubmitText(ctx context.Context, text string) (*api.SubmitResult, error)
	AnalyzePDF(ctx context.Context, filename string, r io.Reader, size int64) (*api.SubmitResult, error)
	DeleteResult(ctx context.Context, id int64) error
	ClearCache(ctx context.Context) error
}

// Outcome is one classification result prepared for display: percentages are
// rounded independently and the structured detail is parsed, or nil when
// unavailable.
type Outcome struct {
	ID           int64
	Prediction   string
	AIPercent    int
	HumanPercent int
	WordCount    int
	Detail       *model.DetailedAnalysis
}

func newOutcome(res *api.SubmitResult, text string) *Outcome {
	ai, human := interpret.Percentages(res.Confidence)
	return &Outcome{
		ID:           res.ID,
		Prediction:   res.Prediction,
		AIPercent:    ai,
		HumanPercent: human,
		WordCount:    interpret.WordCount(text),
		Detail:       interpret.ParseDetail(res.DetailAnalysis),
	}
}

// Records is the analysis-record browser.
type Records struct {
	api RecordAPI
	log *zap.Logger

	op asyncop.Operation[[]model.AnalysisRecord]

	mu     sync.Mutex
	notice asyncop.Notice
}

// NewRecords builds the record browser on top of the given API slice.
func NewRecords(a RecordAPI, log *zap.Logger) *Records {
	if log == nil {
		log = zap.NewNop()
	}
	return &Records{api: a, log: log}
}

// Refresh fetches the full record list. On success the returned collection
// replaces the prior one wholesale.
func (r *Records) Refresh(ctx context.Context) ([]model.AnalysisRecord, error) {
	r.op.Run(func() ([]model.AnalysisRecord, error) {
		return r.api.ListResults(ctx)
	})
	if err := r.op.Err(); err != nil {
		return nil, err
	}
	return r.op.Data(), nil
}

// Current returns the last fetched record list without a network call.
func (r *Records) Current() []model.AnalysisRecord { return r.op.Data() }

// Status exposes the browse operation's lifecycle state.
func (r *Records) Status() asyncop.Status { return r.op.Status() }

// Submit sends raw text for classification and interprets the result.
func (r *Records) Submit(ctx context.Context, text string) (*Outcome, error) {
	res, err := r.api.SubmitText(ctx, text)
	if err != nil {
		return nil, err
	}
	r.log.Info("text analyzed", zap.Int64("id", res.ID), zap.String("prediction", res.Prediction))
	return newOutcome(res, text), nil
}

// Upload sends a PDF for classification and interprets the result. The word
// count is unknown client-side (the server extracts the text), so it is
// reported as 0 here.
func (r *Records) Upload(ctx context.Context, filename string, src io.Reader, size int64) (*Outcome, error) {
	res, err := r.api.AnalyzePDF(ctx, filename, src, size)
	if err != nil {
		return nil, err
	}
	r.log.Info("pdf analyzed", zap.Int64("id", res.ID), zap.String("prediction", res.Prediction))
	return newOutcome(res, ""), nil
}

// Delete removes a record and re-fetches the list: the backend's view is
// authoritative, so no speculative in-memory merge happens.
func (r *Records) Delete(ctx context.Context, id int64) ([]model.AnalysisRecord, error) {
	if err := r.api.DeleteResult(ctx, id); err != nil {
		return nil, err
	}
	r.log.Info("record deleted", zap.Int64("id", id))
	return r.Refresh(ctx)
}

// ClearCache drops the server-side cache and leaves a transient notice
// either way; cache maintenance is a background action whose outcome should
// not linger on screen.
func (r *Records) ClearCache(ctx context.Context) error {
	err := r.api.ClearCache(ctx)
	r.mu.Lock()
	if err != nil {
		r.notice = asyncop.NewNotice("failed to clear cache: "+err.Error(), true, 0)
	} else {
		r.notice = asyncop.NewNotice("cache cleared", false, 0)
	}
	r.mu.Unlock()
	return err
}

// Notice returns the active transient message, if any.
func (r *Records) Notice(now time.Time) (text string, isError, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.notice.Active(now) {
		return "", false, false
	}
	return r.notice.Text, r.notice.IsError, true
}
