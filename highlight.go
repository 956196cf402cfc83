package main

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// DefaultHighlightStyle matches the dark editor theme of the page
const DefaultHighlightStyle = "onedark"

// segment is a run of text sharing one style
type segment struct {
	text  string
	style lipgloss.Style
}

// highlightedLine is one logical line split into styled runs
type highlightedLine []segment

// Highlighter turns C++ source into styled lines
type Highlighter struct {
	lexer    chroma.Lexer
	style    *chroma.Style
	renderer *lipgloss.Renderer
	styles   map[chroma.TokenType]lipgloss.Style
}

// NewHighlighter creates a C++ highlighter using the named chroma style
func NewHighlighter(r *lipgloss.Renderer, styleName string) *Highlighter {
	lexer := lexers.Get("cpp")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Highlighter{
		lexer:    chroma.Coalesce(lexer),
		style:    styles.Get(styleName),
		renderer: r,
		styles:   make(map[chroma.TokenType]lipgloss.Style),
	}
}

// Lines tokenises the full text (so block comments span lines) and splits
// the tokens back into logical lines
func (h *Highlighter) Lines(text string) []highlightedLine {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	plain := h.renderer.NewStyle()

	it, err := h.lexer.Tokenise(nil, text)
	if err != nil {
		var out []highlightedLine
		for _, l := range strings.Split(text, "\n") {
			out = append(out, highlightedLine{{text: l, style: plain}})
		}
		return out
	}

	lines := []highlightedLine{{}}
	for _, tok := range it.Tokens() {
		st := h.tokenStyle(tok.Type)
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, highlightedLine{})
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], segment{text: part, style: st})
			}
		}
	}

	// chroma ensures a trailing newline; drop the phantom line it adds
	want := strings.Count(text, "\n") + 1
	if len(lines) > want {
		lines = lines[:want]
	}
	for len(lines) < want {
		lines = append(lines, highlightedLine{})
	}
	return lines
}

func (h *Highlighter) tokenStyle(tt chroma.TokenType) lipgloss.Style {
	if st, ok := h.styles[tt]; ok {
		return st
	}
	entry := h.style.Get(tt)
	st := h.renderer.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	h.styles[tt] = st
	return st
}

// render draws the line, painting the rune at cursor with cursorStyle.
// cursor < 0 draws no cursor; a cursor past the end draws a trailing cell.
func (l highlightedLine) render(cursor int, cursorStyle lipgloss.Style) string {
	var b strings.Builder
	pos := 0
	for _, seg := range l {
		runes := []rune(seg.text)
		if cursor >= pos && cursor < pos+len(runes) {
			at := cursor - pos
			if at > 0 {
				b.WriteString(seg.style.Render(string(runes[:at])))
			}
			b.WriteString(cursorStyle.Render(string(runes[at])))
			if at+1 < len(runes) {
				b.WriteString(seg.style.Render(string(runes[at+1:])))
			}
		} else {
			b.WriteString(seg.style.Render(seg.text))
		}
		pos += len(runes)
	}
	if cursor >= pos {
		b.WriteString(cursorStyle.Render(" "))
	}
	return b.String()
}

