package main

import "testing"

func TestSuggest(t *testing.T) {
	tests := []struct {
		name   string
		draft  string
		want   string
		wantOK bool
	}{
		{"empty draft", "", "", false},
		{"unique prefix", "pro", "projects", true},
		{"full name", "vim", "vim", true},
		{"single letter", "a", "about", true},
		{"first declared wins", "c", "contact", true},
		{"second candidate reachable", "cl", "clear", true},
		{"no match", "xyz", "", false},
		{"case sensitive", "He", "", false},
		{"longer than any command", "projectsx", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Suggest(tt.draft, KnownCommands)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Suggest(%q) = (%q, %v), want (%q, %v)", tt.draft, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSuggestEveryUniquePrefix(t *testing.T) {
	for _, name := range KnownCommands {
		for i := 1; i <= len(name); i++ {
			prefix := name[:i]
			matches := 0
			for _, other := range KnownCommands {
				if len(other) >= i && other[:i] == prefix {
					matches++
				}
			}
			if matches != 1 {
				continue
			}
			if got, ok := Suggest(prefix, KnownCommands); !ok || got != name {
				t.Errorf("Suggest(%q) = (%q, %v), want %q", prefix, got, ok, name)
			}
		}
	}
}

func TestSuggestEmptyDraftAnyVocabulary(t *testing.T) {
	for _, known := range [][]string{nil, {}, {""}, {"a", "b"}} {
		if _, ok := Suggest("", known); ok {
			t.Errorf("Suggest(\"\", %q) returned a suggestion", known)
		}
	}
}

func TestAutocompleteDisplay(t *testing.T) {
	tests := []struct {
		name       string
		draft      string
		suggestion string
		ok         bool
		want       string
	}{
		{"prefix", "pro", "projects", true, "jects"},
		{"complete", "help", "help", true, ""},
		{"no suggestion", "xyz", "", false, ""},
		{"empty draft", "", "help", true, ""},
		{"leading whitespace not found", "  pro", "projects", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AutocompleteDisplay(tt.draft, tt.suggestion, tt.ok); got != tt.want {
				t.Errorf("AutocompleteDisplay() = %q, want %q", got, tt.want)
			}
		})
	}
}
