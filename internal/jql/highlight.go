package jql

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	keywordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true) // magenta
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // yellow
	stringStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))            // green
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))            // cyan
	funcStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))            // blue
	fieldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))           // light gray
	parenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))           // dim
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Underline(true)
)

// Highlight renders input with JQL syntax coloring. Whitespace between
// tokens is preserved verbatim so the rendered width matches the input.
func Highlight(input string) string {
	tokens := Lex(input)
	if len(tokens) == 0 {
		return input
	}

	var b strings.Builder
	pos := 0
	for _, tok := range tokens {
		if tok.Start > pos {
			b.WriteString(input[pos:tok.Start])
		}
		b.WriteString(styleFor(tok.Kind).Render(tok.Text))
		pos = tok.End
	}
	if pos < len(input) {
		b.WriteString(input[pos:])
	}
	return b.String()
}

// styleFor maps a token kind to its display style.
func styleFor(kind TokenKind) lipgloss.Style {
	switch kind {
	case TokenKeyword:
		return keywordStyle
	case TokenOperator:
		return operatorStyle
	case TokenString:
		return stringStyle
	case TokenNumber:
		return numberStyle
	case TokenFunc:
		return funcStyle
	case TokenLParen, TokenRParen, TokenComma:
		return parenStyle
	case TokenError:
		return errStyle
	default:
		return fieldStyle
	}
}
