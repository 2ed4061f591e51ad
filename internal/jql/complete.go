package jql

import (
	"strings"

	"github.com/glouie/jirapeek/internal/jira"
)

// Context says what kind of term belongs at the cursor.
type Context int

const (
	// ContextField: start of a clause, a field name is expected.
	ContextField Context = iota
	// ContextOperator: a field was just written, an operator is expected.
	ContextOperator
	// ContextValue: an operator was just written, a value is expected.
	ContextValue
	// ContextConnective: a clause is complete, AND/OR/ORDER BY fit here.
	ContextConnective
)

// Analysis is the completion state at a cursor position.
type Analysis struct {
	Context Context
	Prefix  string // the partial word being typed, "" if none
	Field   string // for operator/value contexts: the field in play
	Start   int    // byte offset where Prefix begins (replacement point)
}

// Candidate is one completion option.
type Candidate struct {
	Value   string // text to insert
	Display string // label shown in the list (falls back to Value)
}

// Analyze inspects the text left of the cursor and classifies what the
// user is in the middle of typing. It is heuristic by design: good
// enough to drive a suggestion popup, never a validator.
func Analyze(input string, cursor int) Analysis {
	if cursor > len(input) {
		cursor = len(input)
	}
	tokens := Lex(input[:cursor])

	a := Analysis{Start: cursor}

	// A word that ends exactly at the cursor is the prefix being typed.
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if last.End == cursor && (last.Kind == TokenWord || last.Kind == TokenKeyword || last.Kind == TokenFunc || last.Kind == TokenNumber) {
			a.Prefix = last.Text
			a.Start = last.Start
			tokens = tokens[:len(tokens)-1]
		}
	}

	if len(tokens) == 0 {
		a.Context = ContextField
		return a
	}

	last := tokens[len(tokens)-1]
	switch {
	case last.Kind == TokenLParen && len(tokens) >= 2 && tokens[len(tokens)-2].Kind == TokenFunc:
		// Inside a function call: nothing sensible to offer.
		a.Context = ContextValue
		a.Field = fieldBeforeOperator(tokens)

	case last.Kind == TokenLParen, isConnectiveKeyword(last):
		a.Context = ContextField

	case isOrderBy(tokens):
		a.Context = ContextField

	case last.Kind == TokenOperator, isWordOperator(last), last.Kind == TokenComma:
		a.Context = ContextValue
		a.Field = fieldBeforeOperator(tokens)

	case last.Kind == TokenWord, last.Kind == TokenString, last.Kind == TokenNumber,
		last.Kind == TokenRParen, last.Kind == TokenFunc:
		// Is the term before the cursor a field or a value? Look one
		// further back: values follow operators, fields follow clause
		// boundaries.
		if len(tokens) >= 2 {
			prev := tokens[len(tokens)-2]
			if prev.Kind == TokenOperator || isWordOperator(prev) || prev.Kind == TokenComma {
				a.Context = ContextConnective
				return a
			}
		}
		if last.Kind == TokenRParen {
			a.Context = ContextConnective
			return a
		}
		a.Context = ContextOperator
		a.Field = last.Text

	default:
		a.Context = ContextField
	}

	return a
}

// isConnectiveKeyword reports whether tok is AND, OR, or NOT.
func isConnectiveKeyword(tok Token) bool {
	if tok.Kind != TokenKeyword {
		return false
	}
	switch strings.ToLower(tok.Text) {
	case "and", "or", "not":
		return true
	}
	return false
}

// isWordOperator reports whether tok is a word-form operator
// (in, is, was, changed), including the NOT that may follow is/was.
func isWordOperator(tok Token) bool {
	if tok.Kind != TokenKeyword {
		return false
	}
	switch strings.ToLower(tok.Text) {
	case "in", "is", "was", "changed":
		return true
	}
	return false
}

// isOrderBy reports whether the token stream ends in ORDER BY.
func isOrderBy(tokens []Token) bool {
	if len(tokens) < 2 {
		return false
	}
	a, b := tokens[len(tokens)-2], tokens[len(tokens)-1]
	return a.Kind == TokenKeyword && strings.EqualFold(a.Text, "order") &&
		b.Kind == TokenKeyword && strings.EqualFold(b.Text, "by")
}

// fieldBeforeOperator walks back past the operator (and any in-list
// contents) to find the field a value belongs to.
func fieldBeforeOperator(tokens []Token) string {
	sawOperator := false
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if tok.Kind == TokenOperator || isWordOperator(tok) {
			sawOperator = true
			continue
		}
		if sawOperator && (tok.Kind == TokenWord || tok.Kind == TokenString) {
			return strings.Trim(tok.Text, `"'`)
		}
	}
	return ""
}

// defaultOperators is offered when the field is unknown to the
// autocomplete metadata.
var defaultOperators = []string{"=", "!=", "~", "!~", "in", "not in", "is", "is not", ">", ">=", "<", "<="}

// connectives is offered once a clause is complete.
var connectives = []string{"AND", "OR", "ORDER BY"}

// Engine turns an Analysis into candidates using autocomplete metadata
// fetched once from the API. Field-value suggestions are remote and
// fetched by the caller; NeedsValues signals when to do so.
type Engine struct {
	data *jira.AutocompleteData
}

// NewEngine creates a completion engine over the given metadata,
// which may be nil (local-only operator and connective completion).
func NewEngine(data *jira.AutocompleteData) *Engine {
	return &Engine{data: data}
}

// Candidates returns the locally-known completions for the analysis,
// prefix-filtered.
func (e *Engine) Candidates(a Analysis) []Candidate {
	var out []Candidate

	switch a.Context {
	case ContextField:
		if e.data != nil {
			for _, f := range e.data.Fields {
				out = append(out, Candidate{Value: f.Value, Display: f.DisplayName})
			}
		}

	case ContextOperator:
		ops := defaultOperators
		if f := e.lookupField(a.Field); f != nil && len(f.Operators) > 0 {
			ops = f.Operators
		}
		for _, op := range ops {
			out = append(out, Candidate{Value: op})
		}

	case ContextValue:
		if e.data != nil {
			for _, fn := range e.data.Functions {
				out = append(out, Candidate{Value: fn.Value, Display: fn.DisplayName})
			}
		}
		out = append(out, Candidate{Value: "EMPTY"}, Candidate{Value: "NULL"})

	case ContextConnective:
		for _, c := range connectives {
			out = append(out, Candidate{Value: c})
		}
	}

	return FilterPrefix(out, a.Prefix)
}

// NeedsValues reports whether remote field-value suggestions should be
// fetched for this analysis, and for which field.
func (e *Engine) NeedsValues(a Analysis) (string, bool) {
	if a.Context == ContextValue && a.Field != "" {
		return a.Field, true
	}
	return "", false
}

// lookupField finds autocomplete metadata for a field by value or
// display name, case-insensitively.
func (e *Engine) lookupField(name string) *jira.AutocompleteField {
	if e.data == nil || name == "" {
		return nil
	}
	for i, f := range e.data.Fields {
		if strings.EqualFold(f.Value, name) || strings.EqualFold(f.DisplayName, name) {
			return &e.data.Fields[i]
		}
	}
	return nil
}

// FilterPrefix keeps candidates whose value or display name starts
// with prefix, case-insensitively. An empty prefix keeps everything.
func FilterPrefix(cands []Candidate, prefix string) []Candidate {
	if prefix == "" {
		return cands
	}
	p := strings.ToLower(prefix)
	var out []Candidate
	for _, c := range cands {
		if strings.HasPrefix(strings.ToLower(c.Value), p) ||
			strings.HasPrefix(strings.ToLower(c.Display), p) {
			out = append(out, c)
		}
	}
	return out
}

// FromSuggestions converts remote field-value suggestions into
// candidates, quoting values that contain spaces.
func FromSuggestions(suggestions []jira.FieldValueSuggestion) []Candidate {
	out := make([]Candidate, len(suggestions))
	for i, s := range suggestions {
		value := s.Value
		if value == "" {
			value = s.DisplayName
		}
		if strings.ContainsAny(value, " \t") {
			value = `"` + value + `"`
		}
		out[i] = Candidate{Value: value, Display: s.DisplayName}
	}
	return out
}
