package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// CppKeywords is the completion vocabulary offered in the editor
var CppKeywords = []string{
	"int", "float", "double", "char", "void", "for", "while", "if", "else",
	"return", "switch", "case", "break", "continue", "class", "public",
	"private", "protected", "try", "catch", "throw", "template", "typename",
	"static", "const", "unsigned", "long", "short", "sizeof", "include",
	"namespace", "using", "this", "virtual", "new", "delete", "struct",
	"enum", "operator", "dynamic_cast", "static_cast", "const_cast", "reinterpret_cast",
}

// MinCompletionPrefix is the shortest word that triggers completions
const MinCompletionPrefix = 2

// CompletionContext describes the cursor position a query is made for
type CompletionContext struct {
	Line string // current logical line
	Col  int    // cursor column in runes
}

// CompletionOption is a single completion candidate
type CompletionOption struct {
	Label string
	Type  string
}

// CompletionResult replaces runes [From, To) of the line with an option
type CompletionResult struct {
	From    int
	To      int
	Options []CompletionOption
}

// MatchWordBefore returns the \w* run that ends at the cursor. ok is false
// when the cursor lies outside the line.
func (c CompletionContext) MatchWordBefore() (word string, from int, ok bool) {
	runes := []rune(c.Line)
	if c.Col < 0 || c.Col > len(runes) {
		return "", 0, false
	}
	from = c.Col
	for from > 0 && isWordRune(runes[from-1]) {
		from--
	}
	return string(runes[from:c.Col]), from, true
}

// CompleteCpp offers C++ keywords that start with the word before the cursor
func CompleteCpp(ctx CompletionContext) CompletionResult {
	word, from, ok := ctx.MatchWordBefore()
	if !ok || len([]rune(word)) < MinCompletionPrefix {
		return CompletionResult{From: ctx.Col, To: ctx.Col}
	}

	var options []CompletionOption
	for _, kw := range CppKeywords {
		if strings.HasPrefix(kw, word) {
			options = append(options, CompletionOption{Label: kw, Type: "keyword"})
		}
	}
	return CompletionResult{From: from, To: ctx.Col, Options: options}
}

// completionDoneMsg carries a query result back into the update loop
type completionDoneMsg struct {
	seq    int
	result CompletionResult
}

// queryCompletions runs a completion query as a command tagged with seq
func queryCompletions(seq int, ctx CompletionContext) tea.Cmd {
	return func() tea.Msg {
		return completionDoneMsg{seq: seq, result: CompleteCpp(ctx)}
	}
}
