package jira

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"unicode/utf8"
)

// ErrorKind classifies a failed API call into one of the categories the
// rest of the program keys on. Every Client method returns either a nil
// error or an *Error carrying one of these kinds.
type ErrorKind int

const (
	// KindConnectivity covers DNS failures, timeouts, and refused
	// connections: anything where no HTTP response arrived.
	KindConnectivity ErrorKind = iota
	// KindAuth is HTTP 401: bad email or API token.
	KindAuth
	// KindForbidden is HTTP 403: authenticated but not permitted.
	KindForbidden
	// KindNotFound is HTTP 404.
	KindNotFound
	// KindRateLimited is HTTP 429.
	KindRateLimited
	// KindServer is any HTTP 5xx.
	KindServer
	// KindParse means the response body was not the JSON we expected.
	KindParse
	// KindOther is any remaining HTTP 4xx status.
	KindOther
)

// String returns a short label for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	default:
		return "other"
	}
}

// Error is a classified API failure. Message is ready to show to the
// user; Err retains the underlying cause for wrapping and logs.
type Error struct {
	Kind       ErrorKind
	StatusCode int // 0 when no HTTP response arrived
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from err, or KindOther if err is
// not a classified *Error.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOther
}

// classifyTransport maps a failed round trip (no response) to a
// connectivity or parse error with a user-facing message.
func classifyTransport(baseURL string, err error) *Error {
	var msg string
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr):
		msg = fmt.Sprintf("Cannot resolve Jira host for %s: check the base URL", baseURL)
	case errors.Is(err, context.DeadlineExceeded) || isTimeout(err):
		msg = fmt.Sprintf("Timed out connecting to %s: Jira may be slow or unreachable", baseURL)
	case errors.Is(err, syscall.ECONNREFUSED):
		msg = fmt.Sprintf("Connection refused by %s: check the base URL and port", baseURL)
	default:
		msg = fmt.Sprintf("Cannot reach Jira at %s: check your network connection", baseURL)
	}
	return &Error{Kind: KindConnectivity, Message: msg, Err: err}
}

// isTimeout reports whether err is a net.Error timeout.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// classifyStatus maps an HTTP error status to a classified error with
// the documented message template for that status.
func classifyStatus(status int, body []byte) *Error {
	e := &Error{StatusCode: status}
	switch {
	case status == 401:
		e.Kind = KindAuth
		e.Message = "Jira authentication failed (401): check your email and API token"
	case status == 403:
		e.Kind = KindForbidden
		e.Message = "Jira denied access (403): your account lacks permission for this resource"
	case status == 404:
		e.Kind = KindNotFound
		e.Message = "Jira resource not found (404)"
	case status == 429:
		e.Kind = KindRateLimited
		e.Message = "Jira rate limit exceeded (429): wait a moment and try again"
	case status >= 500:
		e.Kind = KindServer
		e.Message = fmt.Sprintf("Jira server error (%d): the instance may be down", status)
	default:
		e.Kind = KindOther
		e.Message = fmt.Sprintf("Jira request failed (%d): %s", status, firstErrorMessage(body))
	}
	return e
}

// parseError wraps a JSON decode failure.
func parseError(err error) *Error {
	return &Error{
		Kind:    KindParse,
		Message: "Unexpected response from Jira: could not parse the reply",
		Err:     err,
	}
}

// firstErrorMessage pulls a short snippet out of a Jira error body for
// the KindOther message. Bodies look like {"errorMessages":["..."]};
// rather than decode them strictly we just trim to a displayable size.
func firstErrorMessage(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		// Trim on a rune boundary so the cut never splits a UTF-8 sequence.
		cut := 120
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "…"
	}
	if s == "" {
		return "no details provided"
	}
	return s
}

// issueNotFoundError builds the refined 404 message for a single-issue
// fetch. projectMissing is true when the secondary project existence
// check also returned 404.
func issueNotFoundError(issueKey, projectKey string, projectMissing bool) *Error {
	e := &Error{Kind: KindNotFound, StatusCode: 404}
	if projectMissing {
		e.Message = fmt.Sprintf("Project %s does not exist on this Jira instance (looked up for %s)", projectKey, issueKey)
	} else {
		e.Message = fmt.Sprintf("Issue %s does not exist or you do not have permission to view it", issueKey)
	}
	return e
}
