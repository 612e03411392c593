package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"detectctl/internal/apperr"
	"detectctl/internal/model"
)

// SubmitResult is the classification response for a freshly analyzed text.
// The prediction fields come straight from the classifier service, hence the
// flask_ prefixes on the wire.
type SubmitResult struct {
	ID             int64            `json:"id"`
	Prediction     string           `json:"flask_prediction"`
	Confidence     model.Confidence `json:"flask_confidence"`
	DetailAnalysis string           `json:"detailAnalysis"`
}

// ListResults fetches every stored analysis record.
func (c *Client) ListResults(ctx context.Context) ([]model.AnalysisRecord, error) {
	var out []model.AnalysisRecord
	if err := c.doJSON(ctx, http.MethodGet, "/analysis-results", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitText sends raw text for classification.
func (c *Client) SubmitText(ctx context.Context, text string) (*SubmitResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("text must not be empty")
	}
	in := struct {
		Text string `json:"text"`
	}{Text: text}

	var out SubmitResult
	if err := c.doJSON(ctx, http.MethodPost, "/analysis-results", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateUpload enforces the client-side PDF-only and size constraints
// before any bytes leave the machine. This is the single place the upload cap
// is checked, so the limit and its message cannot diverge across call sites.
func (c *Client) ValidateUpload(filename string, size int64) error {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return apperr.Validation("only PDF files are supported")
	}
	if size > c.maxUpload {
		return apperr.Validation(fmt.Sprintf(
			"file is %.1f MB; the maximum upload size is %d MB",
			float64(size)/(1<<20), c.maxUpload>>20))
	}
	return nil
}

// AnalyzePDF uploads a PDF for classification as a multipart request. The
// multipart writer supplies the boundary-aware content type; no JSON type is
// forced. Uploads get their own, longer timeout.
func (c *Client) AnalyzePDF(ctx context.Context, filename string, r io.Reader, size int64) (*SubmitResult, error) {
	if err := c.ValidateUpload(filename, size); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/analysis-results/analyze-text-pdf", pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out SubmitResult
	if err := c.sendVia(c.upload, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteResult removes one record by id.
func (c *Client) DeleteResult(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/analysis-results/%d", id), nil, nil)
}

// ClearCache drops the server-side results cache.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/analysis-results/cache/clear", nil, nil)
}
