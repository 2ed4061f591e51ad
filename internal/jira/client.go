// Package jira provides a client for the Jira REST API with classified
// errors: every failure is mapped to a category (connectivity, auth,
// not-found, rate-limited, server, parse) with a user-facing message.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client is a Jira REST API client. Calls are single-attempt: they
// either succeed or return a classified *Error. No retries, no backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	email      string
	apiToken   string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for request-level debug output.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a new Jira API client.
func NewClient(baseURL, email, apiToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		logger:   zap.NewNop(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the Jira instance base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BrowseURL returns the Jira web URL for the given issue key.
func (c *Client) BrowseURL(issueKey string) string {
	return c.baseURL + "/browse/" + issueKey
}

// do executes an HTTP request with authentication and returns the
// response body. Failures come back as classified *Error values.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, classifyTransport(c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(c.baseURL, err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		return nil, classifyStatus(resp.StatusCode, data)
	}

	return data, nil
}

// GetMyself returns the currently authenticated user. Used as the
// startup credential check.
func (c *Client) GetMyself(ctx context.Context) (*User, error) {
	data, err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil)
	if err != nil {
		return nil, fmt.Errorf("getting myself: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, parseError(err)
	}
	return &user, nil
}

// GetIssue returns the full details for a single issue by key.
//
// On a 404 it performs a secondary existence check against the issue's
// project so the returned message can distinguish a missing issue from
// a missing project. The check is best-effort: if it fails for any
// reason other than 404, the generic issue-not-found message is kept.
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*Issue, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s", url.PathEscape(issueKey))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, c.refineIssueNotFound(ctx, issueKey)
		}
		return nil, fmt.Errorf("getting issue %s: %w", issueKey, err)
	}
	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		return nil, parseError(err)
	}
	return &issue, nil
}

// refineIssueNotFound runs the project existence check behind the 404
// refinement and builds the final not-found error.
func (c *Client) refineIssueNotFound(ctx context.Context, issueKey string) error {
	projectKey := ProjectKeyOf(issueKey)
	if projectKey == "" {
		return issueNotFoundError(issueKey, "", false)
	}
	_, err := c.GetProject(ctx, projectKey)
	if err != nil && KindOf(err) == KindNotFound {
		return issueNotFoundError(issueKey, projectKey, true)
	}
	return issueNotFoundError(issueKey, projectKey, false)
}

// ProjectKeyOf extracts the project prefix from an issue key, e.g.
// "PROJ" from "PROJ-123". Returns "" if the key has no dash.
func ProjectKeyOf(issueKey string) string {
	if i := strings.IndexByte(issueKey, '-'); i > 0 {
		return issueKey[:i]
	}
	return ""
}

// GetProject returns a project by key.
func (c *Client) GetProject(ctx context.Context, projectKey string) (*Project, error) {
	path := fmt.Sprintf("/rest/api/3/project/%s", url.PathEscape(projectKey))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", projectKey, err)
	}
	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, parseError(err)
	}
	return &project, nil
}

// SearchIssues performs a JQL search using the enhanced search endpoint
// (POST /rest/api/3/search/jql) and returns matching issues.
//
// Paging: if opts.NextPageToken is set it is sent verbatim and StartAt
// is omitted; otherwise StartAt is sent when non-zero.
func (c *Client) SearchIssues(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = 50
	}

	body := map[string]interface{}{
		"jql":        opts.JQL,
		"maxResults": opts.MaxResults,
	}
	if len(opts.Fields) > 0 {
		body["fields"] = opts.Fields
	}
	if opts.NextPageToken != "" {
		body["nextPageToken"] = opts.NextPageToken
	} else if opts.StartAt > 0 {
		body["startAt"] = opts.StartAt
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/rest/api/3/search/jql", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}

	var result SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, parseError(err)
	}
	return &result, nil
}

// GetComments returns the comments for a Jira issue, newest first.
func (c *Client) GetComments(ctx context.Context, issueKey string) ([]Comment, error) {
	path := fmt.Sprintf("/rest/api/3/issue/%s/comment?orderBy=-created&maxResults=50", url.PathEscape(issueKey))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting comments for %s: %w", issueKey, err)
	}
	var resp CommentsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, parseError(err)
	}
	return resp.Comments, nil
}

// AutocompleteData fetches the JQL autocomplete metadata: visible field
// names, function names, and reserved words.
func (c *Client) AutocompleteData(ctx context.Context) (*AutocompleteData, error) {
	data, err := c.do(ctx, http.MethodGet, "/rest/api/3/jql/autocompletedata", nil)
	if err != nil {
		return nil, fmt.Errorf("getting autocomplete data: %w", err)
	}
	var ac AutocompleteData
	if err := json.Unmarshal(data, &ac); err != nil {
		return nil, parseError(err)
	}
	return &ac, nil
}

// SuggestFieldValues fetches value suggestions for a JQL field,
// filtered by the given prefix (which may be empty).
func (c *Client) SuggestFieldValues(ctx context.Context, fieldName, prefix string) ([]FieldValueSuggestion, error) {
	path := fmt.Sprintf("/rest/api/3/jql/autocompletedata/suggestions?fieldName=%s&fieldValue=%s",
		url.QueryEscape(fieldName), url.QueryEscape(prefix))
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting suggestions for %s: %w", fieldName, err)
	}
	var resp suggestionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, parseError(err)
	}
	return resp.Results, nil
}
