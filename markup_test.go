package main

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func testRenderer(profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return r
}

func testStyles(profile termenv.Profile) *Styles {
	return NewStyles(testRenderer(profile), ThemePresets["default"])
}

func TestRenderMarkupText(t *testing.T) {
	styles := testStyles(termenv.Ascii)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"plain", "Available commands:", "Available commands:"},
		{"help span", ` <span style="color:green">vim</span> :     Enter Vim mode to code`, " vim :     Enter Vim mode to code"},
		{"escaped quote", "'it&#39;s' is not recognized", "'it's' is not recognized"},
		{"unknown tag dropped", "<b>bold</b> text", "bold text"},
		{"nested spans", `<span style="color:red">a<span style="color:blue">b</span>c</span>`, "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderMarkup(tt.line, styles))
			if got != tt.want {
				t.Errorf("RenderMarkup(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestRenderMarkupColorsSpans(t *testing.T) {
	styles := testStyles(termenv.TrueColor)
	out := RenderMarkup(`<span style="color:green">help</span>`, styles)
	if !strings.Contains(out, styles.Emphasis.Render("help")) {
		t.Errorf("green span should use the emphasis style, got %q", out)
	}
	if out == styles.Text.Render("help") {
		t.Error("span rendered like plain text")
	}
}

func TestStyleColor(t *testing.T) {
	tests := []struct {
		style  string
		want   string
		wantOK bool
	}{
		{"color:green", "green", true},
		{"font-weight: bold; Color: #FF0000 ", "#ff0000", true},
		{"background:red", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := styleColor(tt.style)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("styleColor(%q) = (%q, %v), want (%q, %v)", tt.style, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPlainMarkup(t *testing.T) {
	got := PlainMarkup(` <span style="color:green">help</span> :     Show &#39;this&#39;`)
	if got != " help :     Show 'this'" {
		t.Errorf("PlainMarkup() = %q", got)
	}
}
