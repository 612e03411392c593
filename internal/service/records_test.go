package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"detectctl/internal/api"
	"detectctl/internal/model"
)

type fakeRecordAPI struct {
	records  []model.AnalysisRecord
	listErr  error
	listCall int

	submitResult *api.SubmitResult
	submitErr    error
	submitText   string

	uploadResult *api.SubmitResult
	uploadErr    error

	deleteIDs []int64
	deleteErr error

	clearErr   error
	clearCalls int
}

var _ RecordAPI = (*fakeRecordAPI)(nil)

func (f *fakeRecordAPI) ListResults(context.Context) ([]model.AnalysisRecord, error) {
	f.listCall++
	return append([]model.AnalysisRecord(nil), f.records...), f.listErr
}

func (f *fakeRecordAPI) SubmitText(_ context.Context, text string) (*api.SubmitResult, error) {
	f.submitText = text
	return f.submitResult, f.submitErr
}

func (f *fakeRecordAPI) AnalyzePDF(_ context.Context, _ string, _ io.Reader, _ int64) (*api.SubmitResult, error) {
	return f.uploadResult, f.uploadErr
}

func (f *fakeRecordAPI) DeleteResult(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleteIDs = append(f.deleteIDs, id)
	kept := f.records[:0]
	for _, rec := range f.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeRecordAPI) ClearCache(context.Context) error {
	f.clearCalls++
	return f.clearErr
}

func someRecords() []model.AnalysisRecord {
	return []model.AnalysisRecord{
		{ID: 41, Text: "first", Prediction: model.PredictionAI, Confidence: model.Confidence{AI: 0.9, Human: 0.1}},
		{ID: 42, Text: "second", Prediction: model.PredictionHuman, Confidence: model.Confidence{AI: 0.2, Human: 0.8}},
		{ID: 43, Text: "third", Prediction: model.PredictionHuman, Confidence: model.Confidence{AI: 0.4, Human: 0.6}},
	}
}

func TestRecords_RefreshReplacesList(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{records: someRecords()}
	r := NewRecords(f, nil)

	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Len(t, r.Current(), 3)

	f.records = f.records[:1]
	got, err = r.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1, "refresh must replace, not merge")
}

func TestRecords_RefreshError(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{listErr: errors.New("boom")}
	r := NewRecords(f, nil)

	_, err := r.Refresh(context.Background())
	require.Error(t, err)
}

func TestRecords_SubmitInterpretsOutcome(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{submitResult: &api.SubmitResult{
		ID:         9,
		Prediction: model.PredictionHuman,
		Confidence: model.Confidence{AI: 0.12, Human: 0.88},
	}}
	r := NewRecords(f, nil)

	out, err := r.Submit(context.Background(), "Hello world")
	require.NoError(t, err)
	require.Equal(t, "Hello world", f.submitText)
	require.Equal(t, model.PredictionHuman, out.Prediction)
	require.Equal(t, 12, out.AIPercent)
	require.Equal(t, 88, out.HumanPercent)
	require.Equal(t, 2, out.WordCount)
	require.Nil(t, out.Detail)
}

func TestRecords_SubmitParsesDetail(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{submitResult: &api.SubmitResult{
		ID:             10,
		Prediction:     model.PredictionAI,
		Confidence:     model.Confidence{AI: 0.95, Human: 0.05},
		DetailAnalysis: "```json\n{\"conclusion\":{\"primaryReason\":\"low burstiness\",\"confidenceExplanation\":\"ok\"}}\n```",
	}}
	r := NewRecords(f, nil)

	out, err := r.Submit(context.Background(), "some text here")
	require.NoError(t, err)
	require.NotNil(t, out.Detail)
	require.Equal(t, "low burstiness", out.Detail.Conclusion.PrimaryReason)
}

func TestRecords_DeleteRefetches(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{records: someRecords()}
	r := NewRecords(f, nil)
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	got, err := r.Delete(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		require.NotEqual(t, int64(42), rec.ID)
	}
	// One list call at setup, one for the mandatory re-fetch after deletion.
	require.Equal(t, 2, f.listCall)
}

func TestRecords_DeleteErrorLeavesList(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{records: someRecords(), deleteErr: errors.New("403")}
	r := NewRecords(f, nil)
	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	_, err = r.Delete(context.Background(), 42)
	require.Error(t, err)
	require.Len(t, r.Current(), 3, "list must not change on failed delete")
}

func TestRecords_ClearCacheNotices(t *testing.T) {
	t.Parallel()
	f := &fakeRecordAPI{}
	r := NewRecords(f, nil)

	require.NoError(t, r.ClearCache(context.Background()))
	text, isErr, ok := r.Notice(time.Now())
	require.True(t, ok)
	require.False(t, isErr)
	require.Equal(t, "cache cleared", text)
	// Transient: gone after the TTL without any user interaction.
	_, _, ok = r.Notice(time.Now().Add(10 * time.Second))
	require.False(t, ok)

	f.clearErr = errors.New("500")
	require.Error(t, r.ClearCache(context.Background()))
	_, isErr, ok = r.Notice(time.Now())
	require.True(t, ok)
	require.True(t, isErr)
}
