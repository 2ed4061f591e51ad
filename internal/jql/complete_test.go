package jql

import (
	"testing"

	"github.com/glouie/jirapeek/internal/jira"
)

func testData() *jira.AutocompleteData {
	return &jira.AutocompleteData{
		Fields: []jira.AutocompleteField{
			{Value: "assignee", DisplayName: "Assignee", Operators: []string{"=", "!=", "in", "is"}},
			{Value: "status", DisplayName: "Status", Operators: []string{"=", "!=", "in", "was"}},
			{Value: "summary", DisplayName: "Summary", Operators: []string{"~", "!~"}},
		},
		Functions: []jira.AutocompleteFunction{
			{Value: "currentUser()", DisplayName: "currentUser()"},
			{Value: "startOfDay()", DisplayName: "startOfDay()"},
		},
		Reserved: []string{"and", "or", "order"},
	}
}

func analyzeEnd(input string) Analysis {
	return Analyze(input, len(input))
}

func TestAnalyzeEmptyIsField(t *testing.T) {
	a := analyzeEnd("")
	if a.Context != ContextField {
		t.Errorf("expected ContextField, got %v", a.Context)
	}
	if a.Prefix != "" {
		t.Errorf("expected empty prefix, got %q", a.Prefix)
	}
}

func TestAnalyzePartialFieldPrefix(t *testing.T) {
	a := analyzeEnd("assig")
	if a.Context != ContextField {
		t.Errorf("expected ContextField, got %v", a.Context)
	}
	if a.Prefix != "assig" {
		t.Errorf("expected prefix 'assig', got %q", a.Prefix)
	}
	if a.Start != 0 {
		t.Errorf("expected start 0, got %d", a.Start)
	}
}

func TestAnalyzeAfterFieldIsOperator(t *testing.T) {
	a := analyzeEnd("status ")
	if a.Context != ContextOperator {
		t.Errorf("expected ContextOperator, got %v", a.Context)
	}
	if a.Field != "status" {
		t.Errorf("expected field 'status', got %q", a.Field)
	}
}

func TestAnalyzeAfterOperatorIsValue(t *testing.T) {
	a := analyzeEnd("status = ")
	if a.Context != ContextValue {
		t.Errorf("expected ContextValue, got %v", a.Context)
	}
	if a.Field != "status" {
		t.Errorf("expected field 'status', got %q", a.Field)
	}
}

func TestAnalyzePartialValuePrefix(t *testing.T) {
	a := analyzeEnd("assignee = jo")
	if a.Context != ContextValue {
		t.Errorf("expected ContextValue, got %v", a.Context)
	}
	if a.Prefix != "jo" {
		t.Errorf("expected prefix 'jo', got %q", a.Prefix)
	}
	if a.Start != len("assignee = ") {
		t.Errorf("expected start %d, got %d", len("assignee = "), a.Start)
	}
}

func TestAnalyzeAfterValueIsConnective(t *testing.T) {
	a := analyzeEnd(`status = Done `)
	if a.Context != ContextConnective {
		t.Errorf("expected ContextConnective, got %v", a.Context)
	}
}

func TestAnalyzeAfterQuotedValueIsConnective(t *testing.T) {
	a := analyzeEnd(`status = "In Progress" `)
	if a.Context != ContextConnective {
		t.Errorf("expected ContextConnective, got %v", a.Context)
	}
}

func TestAnalyzeAfterConnectiveIsField(t *testing.T) {
	a := analyzeEnd("status = Done AND ")
	if a.Context != ContextField {
		t.Errorf("expected ContextField, got %v", a.Context)
	}
}

func TestAnalyzeInList(t *testing.T) {
	a := analyzeEnd(`status in ("Done", `)
	if a.Context != ContextValue {
		t.Errorf("expected ContextValue inside in-list, got %v", a.Context)
	}
	if a.Field != "status" {
		t.Errorf("expected field 'status', got %q", a.Field)
	}
}

func TestAnalyzeWordOperator(t *testing.T) {
	a := analyzeEnd("assignee is ")
	if a.Context != ContextValue {
		t.Errorf("expected ContextValue after 'is', got %v", a.Context)
	}
	if a.Field != "assignee" {
		t.Errorf("expected field 'assignee', got %q", a.Field)
	}
}

func TestAnalyzeOrderByIsField(t *testing.T) {
	a := analyzeEnd("status = Done ORDER BY ")
	if a.Context != ContextField {
		t.Errorf("expected ContextField after ORDER BY, got %v", a.Context)
	}
}

func TestAnalyzeCursorMidInput(t *testing.T) {
	input := "status = Done AND assignee = bob"
	// Cursor right after "sta" of "status".
	a := Analyze(input, 3)
	if a.Context != ContextField {
		t.Errorf("expected ContextField, got %v", a.Context)
	}
	if a.Prefix != "sta" {
		t.Errorf("expected prefix 'sta', got %q", a.Prefix)
	}
}

func TestEngineFieldCandidates(t *testing.T) {
	e := NewEngine(testData())
	cands := e.Candidates(analyzeEnd("s"))
	// status and summary match; assignee does not.
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(cands), cands)
	}
	for _, c := range cands {
		if c.Value != "status" && c.Value != "summary" {
			t.Errorf("unexpected candidate %q", c.Value)
		}
	}
}

func TestEngineOperatorCandidatesFromFieldMetadata(t *testing.T) {
	e := NewEngine(testData())
	cands := e.Candidates(analyzeEnd("summary "))
	if len(cands) != 2 {
		t.Fatalf("expected summary's 2 operators, got %+v", cands)
	}
	if cands[0].Value != "~" || cands[1].Value != "!~" {
		t.Errorf("unexpected operators: %+v", cands)
	}
}

func TestEngineOperatorCandidatesUnknownField(t *testing.T) {
	e := NewEngine(testData())
	cands := e.Candidates(analyzeEnd("customfield_10001 "))
	if len(cands) != len(defaultOperators) {
		t.Errorf("expected default operators for unknown field, got %d", len(cands))
	}
}

func TestEngineValueCandidatesIncludeFunctions(t *testing.T) {
	e := NewEngine(testData())
	cands := e.Candidates(analyzeEnd("assignee = curr"))
	if len(cands) != 1 || cands[0].Value != "currentUser()" {
		t.Errorf("expected currentUser() only, got %+v", cands)
	}
}

func TestEngineConnectiveCandidates(t *testing.T) {
	e := NewEngine(testData())
	cands := e.Candidates(analyzeEnd("status = Done "))
	if len(cands) != 3 {
		t.Fatalf("expected AND/OR/ORDER BY, got %+v", cands)
	}
}

func TestEngineNilDataStillCompletesOperators(t *testing.T) {
	e := NewEngine(nil)
	cands := e.Candidates(analyzeEnd("status "))
	if len(cands) == 0 {
		t.Error("expected default operators with nil metadata")
	}
	if fields := e.Candidates(analyzeEnd("")); len(fields) != 0 {
		t.Errorf("expected no field candidates with nil metadata, got %+v", fields)
	}
}

func TestNeedsValues(t *testing.T) {
	e := NewEngine(testData())

	if field, ok := e.NeedsValues(analyzeEnd("status = ")); !ok || field != "status" {
		t.Errorf("expected remote fetch for status, got %q %v", field, ok)
	}
	if _, ok := e.NeedsValues(analyzeEnd("status ")); ok {
		t.Error("operator context must not fetch values")
	}
	if _, ok := e.NeedsValues(analyzeEnd("")); ok {
		t.Error("field context must not fetch values")
	}
}

func TestFilterPrefixCaseInsensitive(t *testing.T) {
	cands := []Candidate{{Value: "Done"}, {Value: "duplicate"}, {Value: "Open"}}
	got := FilterPrefix(cands, "d")
	if len(got) != 2 {
		t.Errorf("expected 2 matches, got %+v", got)
	}
}

func TestFilterPrefixMatchesDisplay(t *testing.T) {
	cands := []Candidate{{Value: "3", Display: "In Progress"}}
	got := FilterPrefix(cands, "in")
	if len(got) != 1 {
		t.Errorf("expected display-name match, got %+v", got)
	}
}

func TestFromSuggestionsQuotesSpaces(t *testing.T) {
	got := FromSuggestions([]jira.FieldValueSuggestion{
		{Value: "In Progress", DisplayName: "In Progress"},
		{Value: "Done", DisplayName: "Done"},
		{Value: "", DisplayName: "Fallback"},
	})
	if got[0].Value != `"In Progress"` {
		t.Errorf("expected quoted value, got %q", got[0].Value)
	}
	if got[1].Value != "Done" {
		t.Errorf("expected unquoted value, got %q", got[1].Value)
	}
	if got[2].Value != "Fallback" {
		t.Errorf("expected display-name fallback, got %q", got[2].Value)
	}
}
