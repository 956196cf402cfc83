package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
)

// cssColors maps the colour names transcript markup may use to terminal
// colours. "green" is handled separately as the theme emphasis colour.
var cssColors = map[string]string{
	"red":     "9",
	"blue":    "12",
	"yellow":  "11",
	"cyan":    "14",
	"magenta": "13",
	"white":   "15",
	"gray":    "8",
	"grey":    "8",
	"black":   "0",
}

// RenderMarkup renders a transcript line: <span style="color:..."> runs are
// coloured, other tags are dropped and entities are decoded
func RenderMarkup(line string, styles *Styles) string {
	z := html.NewTokenizer(strings.NewReader(line))
	var stack []lipgloss.Style
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF at end of line; malformed input just ends early
			return b.String()

		case html.TextToken:
			text := string(z.Text())
			if len(stack) > 0 {
				b.WriteString(stack[len(stack)-1].Render(text))
			} else {
				b.WriteString(styles.Text.Render(text))
			}

		case html.StartTagToken:
			tn, hasAttr := z.TagName()
			if string(tn) != "span" {
				continue
			}
			st := styles.Text
			if len(stack) > 0 {
				st = stack[len(stack)-1]
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "style" {
					if c, ok := styleColor(string(val)); ok {
						st = colorStyle(c, styles)
					}
				}
			}
			stack = append(stack, st)

		case html.EndTagToken:
			tn, _ := z.TagName()
			if string(tn) == "span" && len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// styleColor extracts the color declaration from an inline style attribute
func styleColor(style string) (string, bool) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "color") {
			return strings.ToLower(strings.TrimSpace(value)), true
		}
	}
	return "", false
}

func colorStyle(c string, styles *Styles) lipgloss.Style {
	if c == "green" {
		return styles.Emphasis
	}
	if code, ok := cssColors[c]; ok {
		return styles.Text.Foreground(lipgloss.Color(code))
	}
	if strings.HasPrefix(c, "#") && (len(c) == 7 || len(c) == 4) {
		return styles.Text.Foreground(lipgloss.Color(c))
	}
	return styles.Text
}

// PlainMarkup strips markup and decodes entities, for logs and tests
func PlainMarkup(line string) string {
	z := html.NewTokenizer(strings.NewReader(line))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
