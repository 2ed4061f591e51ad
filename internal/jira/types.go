package jira

// User represents a Jira user.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress"`
	Active      bool   `json:"active"`
}

// Issue represents a Jira issue.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue.
// Description is an ADF document (arbitrary JSON tree) on Jira Cloud.
type IssueFields struct {
	Summary     string      `json:"summary"`
	Description interface{} `json:"description"`
	Status      *Status     `json:"status"`
	Assignee    *User       `json:"assignee"`
	Reporter    *User       `json:"reporter"`
	Priority    *Named      `json:"priority"`
	IssueType   *Named      `json:"issuetype"`
	Project     *Named      `json:"project"`
	Labels      []string    `json:"labels"`
	Parent      *ParentRef  `json:"parent"`
	Subtasks    []Issue     `json:"subtasks"`
	Created     string      `json:"created"`
	Updated     string      `json:"updated"`
	DueDate     string      `json:"duedate"`
}

// ParentRef is the minimal parent reference embedded in an issue.
type ParentRef struct {
	ID     string           `json:"id"`
	Key    string           `json:"key"`
	Fields *ParentRefFields `json:"fields"`
}

// ParentRefFields holds the summary of a parent reference.
type ParentRefFields struct {
	Summary string `json:"summary"`
}

// Status represents a Jira status.
type Status struct {
	Name           string          `json:"name"`
	ID             string          `json:"id"`
	StatusCategory *StatusCategory `json:"statusCategory"`
}

// StatusCategory represents a Jira status category.
type StatusCategory struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Named is a generic type for Jira entities that have an ID and Name.
type Named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project represents a Jira project.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Comment represents a single comment on an issue. Body is an ADF document.
type Comment struct {
	ID      string      `json:"id"`
	Author  *User       `json:"author"`
	Body    interface{} `json:"body"`
	Created string      `json:"created"`
	Updated string      `json:"updated"`
}

// CommentsResponse is the paged response from the comments endpoint.
type CommentsResponse struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Comments   []Comment `json:"comments"`
}

// SearchOptions configures a JQL search request.
// StartAt and NextPageToken are alternative paging mechanisms; when a
// token is present it takes precedence and StartAt is not sent.
type SearchOptions struct {
	JQL           string
	Fields        []string
	StartAt       int
	MaxResults    int
	NextPageToken string
}

// SearchResult represents the response from a JQL search.
type SearchResult struct {
	StartAt       int     `json:"startAt"`
	MaxResults    int     `json:"maxResults"`
	Total         int     `json:"total"`
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken"`
	IsLast        bool    `json:"isLast"`
}

// AutocompleteData is the JQL autocomplete metadata: the field names,
// function names, and reserved words the instance recognizes.
type AutocompleteData struct {
	Fields    []AutocompleteField    `json:"visibleFieldNames"`
	Functions []AutocompleteFunction `json:"visibleFunctionNames"`
	Reserved  []string               `json:"jqlReservedWords"`
}

// AutocompleteField describes one searchable field.
type AutocompleteField struct {
	Value       string   `json:"value"`
	DisplayName string   `json:"displayName"`
	Orderable   string   `json:"orderable"`
	Searchable  string   `json:"searchable"`
	Operators   []string `json:"operators"`
	Types       []string `json:"types"`
}

// AutocompleteFunction describes one JQL function, e.g. currentUser().
type AutocompleteFunction struct {
	Value       string   `json:"value"`
	DisplayName string   `json:"displayName"`
	IsList      string   `json:"isList"`
	Types       []string `json:"types"`
}

// FieldValueSuggestion is a single suggested value for a JQL field.
type FieldValueSuggestion struct {
	Value       string `json:"value"`
	DisplayName string `json:"displayName"`
}

// suggestionsResponse wraps the field-value suggestion endpoint payload.
type suggestionsResponse struct {
	Results []FieldValueSuggestion `json:"results"`
}
