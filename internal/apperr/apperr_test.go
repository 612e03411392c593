package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestFromStatus_Mapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status    int
		serverMsg string
		wantKind  Kind
		wantMsg   string
	}{
		{401, "token expired", KindUnauthorized, "please log in to continue"},
		{400, "", KindPayload, "the request was rejected by the server"},
		{400, "text must not be empty", KindPayload, "text must not be empty"},
		{413, "", KindPayload, "the uploaded file is too large"},
		{404, "", KindNotFound, "not found"},
		{500, "", KindServer, "server error, try again later"},
		{503, "maintenance", KindServer, "maintenance"},
		{302, "", KindUnknown, "unexpected response (HTTP 302)"},
	}
	for _, tc := range cases {
		e := FromStatus(tc.status, tc.serverMsg)
		if e.Kind != tc.wantKind {
			t.Errorf("status %d: kind=%v want %v", tc.status, e.Kind, tc.wantKind)
		}
		if e.Message != tc.wantMsg {
			t.Errorf("status %d: msg=%q want %q", tc.status, e.Message, tc.wantMsg)
		}
		if e.Status != tc.status {
			t.Errorf("status %d: recorded status %d", tc.status, e.Status)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	t.Parallel()
	base := Transport("network unreachable", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("list records: %w", base)
	if got := KindOf(wrapped); got != KindTransport {
		t.Fatalf("KindOf=%v want transport", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Fatalf("KindOf plain=%v want unknown", got)
	}
}

func TestMessageOf(t *testing.T) {
	t.Parallel()
	if got := MessageOf(Validation("file must be a PDF")); got != "file must be a PDF" {
		t.Fatalf("MessageOf=%q", got)
	}
	if got := MessageOf(errors.New("boom")); got != "boom" {
		t.Fatalf("MessageOf plain=%q", got)
	}
	if got := MessageOf(nil); got != "" {
		t.Fatalf("MessageOf nil=%q", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("timeout")
	e := Transport("request timed out", cause)
	if !errors.Is(e, cause) {
		t.Fatal("want errors.Is to reach the cause")
	}
	if e.Error() != "request timed out" {
		t.Fatalf("Error()=%q", e.Error())
	}
}
