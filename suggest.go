package main

import "strings"

// Suggest returns the first entry of known that starts with draft.
// An empty draft never produces a suggestion.
func Suggest(draft string, known []string) (string, bool) {
	if draft == "" {
		return "", false
	}
	for _, name := range known {
		if strings.HasPrefix(name, draft) {
			return name, true
		}
	}
	return "", false
}

// AutocompleteDisplay returns the ghost text drawn after the draft.
//
// The draft is located with strings.Index rather than assumed to be a
// prefix. Suggest only returns names the trimmed draft prefixes, so for
// drafts without surrounding whitespace the index is always 0; a draft with
// leading spaces is not found and displays nothing.
func AutocompleteDisplay(draft, suggestion string, ok bool) string {
	if !ok || suggestion == "" || draft == "" {
		return ""
	}
	idx := strings.Index(suggestion, draft)
	if idx == -1 {
		return ""
	}
	return suggestion[idx+len(draft):]
}
