// Package jql implements a small lexer, highlighter, and completion
// engine for Jira Query Language text. The lexer is intentionally
// permissive: its job is coloring and cursor-context analysis for a
// prompt, not validation; Jira itself is the authority on whether a
// query parses.
package jql

import (
	"strings"
	"unicode"
)

// TokenKind classifies a lexed JQL token.
type TokenKind int

const (
	// TokenWord is a bare identifier: a field name or unquoted value.
	TokenWord TokenKind = iota
	// TokenKeyword is a reserved word (AND, OR, NOT, ORDER, BY, IN, IS,
	// WAS, CHANGED, EMPTY, NULL, ASC, DESC). Matching is case-insensitive.
	TokenKeyword
	// TokenOperator is a symbolic operator: = != ~ !~ > >= < <=
	TokenOperator
	// TokenString is a quoted string, single or double quoted.
	TokenString
	// TokenNumber is an integer or decimal literal.
	TokenNumber
	// TokenFunc is a word directly followed by an opening paren,
	// e.g. currentUser in currentUser().
	TokenFunc
	// TokenLParen, TokenRParen, TokenComma are punctuation.
	TokenLParen
	TokenRParen
	TokenComma
	// TokenError marks an unterminated string or a stray character.
	TokenError
)

// Token is a positioned JQL token. Start and End are byte offsets into
// the input; Text is input[Start:End].
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int
}

// keywords are JQL reserved words, lowercase.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"order": true, "by": true, "asc": true, "desc": true,
	"in": true, "is": true, "was": true, "changed": true,
	"empty": true, "null": true, "on": true, "during": true,
	"before": true, "after": true, "from": true, "to": true,
}

// IsKeyword reports whether word is a JQL reserved word.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// Lex tokenizes input. It never fails; malformed constructs come back
// as TokenError tokens so the highlighter can mark them.
func Lex(input string) []Token {
	var tokens []Token
	i := 0
	n := len(input)

	for i < n {
		c := input[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++

		case c == '"' || c == '\'':
			start := i
			i++
			closed := false
			for i < n {
				if input[i] == '\\' && i+1 < n {
					i += 2
					continue
				}
				if input[i] == c {
					i++
					closed = true
					break
				}
				i++
			}
			kind := TokenString
			if !closed {
				kind = TokenError
			}
			tokens = append(tokens, Token{Kind: kind, Text: input[start:i], Start: start, End: i})

		case c == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Text: "(", Start: i, End: i + 1})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Text: ")", Start: i, End: i + 1})
			i++
		case c == ',':
			tokens = append(tokens, Token{Kind: TokenComma, Text: ",", Start: i, End: i + 1})
			i++

		case c == '=' || c == '~' || c == '>' || c == '<' || c == '!':
			start := i
			i++
			if i < n && (input[i] == '=' || input[i] == '~') {
				i++
			}
			text := input[start:i]
			kind := TokenOperator
			if text == "!" {
				kind = TokenError
			}
			tokens = append(tokens, Token{Kind: kind, Text: text, Start: start, End: i})

		case c >= '0' && c <= '9':
			start := i
			for i < n && (isWordByte(input[i]) || input[i] == '.') {
				i++
			}
			text := input[start:i]
			kind := TokenNumber
			// Things like 2024-01-01 or 3d lex as words, not numbers.
			if strings.IndexFunc(text, func(r rune) bool {
				return !unicode.IsDigit(r) && r != '.'
			}) >= 0 {
				kind = TokenWord
			}
			tokens = append(tokens, Token{Kind: kind, Text: text, Start: start, End: i})

		case isWordByte(c):
			start := i
			for i < n && isWordByte(input[i]) {
				i++
			}
			text := input[start:i]
			kind := TokenWord
			if IsKeyword(text) {
				kind = TokenKeyword
			} else if i < n && input[i] == '(' {
				kind = TokenFunc
			}
			tokens = append(tokens, Token{Kind: kind, Text: text, Start: start, End: i})

		default:
			tokens = append(tokens, Token{Kind: TokenError, Text: string(c), Start: i, End: i + 1})
			i++
		}
	}

	return tokens
}

// isWordByte reports whether b can appear inside a bare JQL word.
// Dots, dashes, and underscores appear in field names, issue keys, and
// relative dates ("-1w").
func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' ||
		b == '_' || b == '.' || b == '-' || b >= 0x80
}
