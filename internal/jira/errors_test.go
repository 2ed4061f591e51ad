package jira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyStatusTable(t *testing.T) {
	tests := []struct {
		status  int
		kind    ErrorKind
		message string
	}{
		{401, KindAuth, "Jira authentication failed (401): check your email and API token"},
		{403, KindForbidden, "Jira denied access (403): your account lacks permission for this resource"},
		{404, KindNotFound, "Jira resource not found (404)"},
		{429, KindRateLimited, "Jira rate limit exceeded (429): wait a moment and try again"},
		{500, KindServer, "Jira server error (500): the instance may be down"},
		{502, KindServer, "Jira server error (502): the instance may be down"},
		{503, KindServer, "Jira server error (503): the instance may be down"},
		{599, KindServer, "Jira server error (599): the instance may be down"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			e := classifyStatus(tt.status, nil)
			if e.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, e.Kind)
			}
			if e.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, e.Message)
			}
			if e.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, e.StatusCode)
			}
		})
	}
}

func TestClassifyStatusOtherIncludesBody(t *testing.T) {
	e := classifyStatus(400, []byte(`{"errorMessages":["Field 'foo' does not exist"]}`))
	if e.Kind != KindOther {
		t.Errorf("expected KindOther, got %v", e.Kind)
	}
	if !strings.Contains(e.Message, "Field 'foo' does not exist") {
		t.Errorf("expected body snippet in message, got %q", e.Message)
	}
}

func TestClassifyStatusOtherTruncatesLongBody(t *testing.T) {
	e := classifyStatus(400, []byte(strings.Repeat("x", 500)))
	if len(e.Message) > 200 {
		t.Errorf("expected truncated message, got %d chars", len(e.Message))
	}
}

func TestClassifyStatusOtherTruncatesOnRuneBoundary(t *testing.T) {
	// 119 ASCII bytes followed by a two-byte rune straddling the cut.
	body := strings.Repeat("x", 119) + strings.Repeat("é", 20)
	e := classifyStatus(400, []byte(body))
	if !utf8.ValidString(e.Message) {
		t.Errorf("expected valid UTF-8 after truncation, got %q", e.Message)
	}
	if strings.Contains(e.Message, "�") {
		t.Errorf("expected no replacement characters, got %q", e.Message)
	}
}

// Every Client method must surface classified errors end-to-end, not
// just the low-level helpers.
func TestClientStatusClassification(t *testing.T) {
	for _, status := range []int{401, 403, 429, 500} {
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			c := NewClient(server.URL, "u", "t")
			_, err := c.SearchIssues(context.Background(), SearchOptions{JQL: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error in chain, got %T: %v", err, err)
			}
			if apiErr.StatusCode != status {
				t.Errorf("expected status %d, got %d", status, apiErr.StatusCode)
			}
		})
	}
}

func TestMalformedJSONIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"issues": [truncated`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "u", "t")
	_, err := c.SearchIssues(context.Background(), SearchOptions{JQL: "x"})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if KindOf(err) != KindParse {
		t.Errorf("expected KindParse, got %v", KindOf(err))
	}
}

func TestMalformedJSONAllEndpoints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "u", "t")
	ctx := context.Background()

	calls := map[string]func() error{
		"myself":       func() error { _, err := c.GetMyself(ctx); return err },
		"issue":        func() error { _, err := c.GetIssue(ctx, "P-1"); return err },
		"project":      func() error { _, err := c.GetProject(ctx, "P"); return err },
		"comments":     func() error { _, err := c.GetComments(ctx, "P-1"); return err },
		"autocomplete": func() error { _, err := c.AutocompleteData(ctx); return err },
		"suggestions":  func() error { _, err := c.SuggestFieldValues(ctx, "status", ""); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if err == nil {
				t.Fatal("expected error")
			}
			if KindOf(err) != KindParse {
				t.Errorf("expected KindParse, got %v (%v)", KindOf(err), err)
			}
		})
	}
}

func TestConnectivityRefused(t *testing.T) {
	// Grab a port that nothing is listening on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	c := NewClient(deadURL, "u", "t")
	_, err := c.GetMyself(context.Background())
	if err == nil {
		t.Fatal("expected connectivity error")
	}
	if KindOf(err) != KindConnectivity {
		t.Errorf("expected KindConnectivity, got %v", KindOf(err))
	}
	if !strings.Contains(err.Error(), deadURL) {
		t.Errorf("expected message to name the base URL, got %q", err.Error())
	}
}

func TestConnectivityDNS(t *testing.T) {
	c := NewClient("https://does-not-exist.invalid", "u", "t")
	_, err := c.GetMyself(context.Background())
	if err == nil {
		t.Fatal("expected connectivity error")
	}
	if KindOf(err) != KindConnectivity {
		t.Errorf("expected KindConnectivity, got %v", KindOf(err))
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if KindOf(errors.New("plain")) != KindOther {
		t.Error("expected KindOther for unclassified errors")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := &Error{Kind: KindConnectivity, Message: "msg", Err: cause}
	if !errors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	wrapped := fmt.Errorf("searching issues: %w", e)
	var apiErr *Error
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("expected errors.As through the wrap")
	}
	if apiErr.Kind != KindConnectivity {
		t.Errorf("unexpected kind: %v", apiErr.Kind)
	}
}

func TestErrorKindString(t *testing.T) {
	kinds := map[ErrorKind]string{
		KindConnectivity: "connectivity",
		KindAuth:         "auth",
		KindForbidden:    "forbidden",
		KindNotFound:     "not_found",
		KindRateLimited:  "rate_limited",
		KindServer:       "server",
		KindParse:        "parse",
		KindOther:        "other",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("expected %q, got %q", want, k.String())
		}
	}
}
