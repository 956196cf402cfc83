package main

import (
	"errors"
	"fmt"
	"strings"
)

// UserError represents an error that should be displayed to the user with helpful context
type UserError struct {
	Message    string
	Cause      error
	Suggestion string
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// FormatUserError formats an error for user display with colors and suggestions
func FormatUserError(err error) string {
	var sb strings.Builder

	var userErr *UserError
	if errors.As(err, &userErr) {
		sb.WriteString(fmt.Sprintf("\033[91mError:\033[0m %s\n", userErr.Message))
		if userErr.Cause != nil {
			sb.WriteString(fmt.Sprintf("       Cause: %v\n", userErr.Cause))
		}
		if userErr.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("\n\033[93mSuggestion:\033[0m %s\n", userErr.Suggestion))
		}
	} else {
		errStr := err.Error()
		sb.WriteString(fmt.Sprintf("\033[91mError:\033[0m %s\n", errStr))

		suggestion := getSuggestionForError(errStr)
		if suggestion != "" {
			sb.WriteString(fmt.Sprintf("\n\033[93mSuggestion:\033[0m %s\n", suggestion))
		}
	}

	return sb.String()
}

// getSuggestionForError returns a helpful suggestion based on error content
func getSuggestionForError(errStr string) string {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "address already in use") {
		return "Another process is listening on that port. Pick another with --addr or TERMFOLIO_SSH_ADDR."
	}

	if strings.Contains(errLower, "permission denied") {
		if strings.Contains(errLower, "listen") || strings.Contains(errLower, "bind") {
			return "Ports below 1024 need elevated privileges. Use a high port (e.g. :2222) and forward to it."
		}
		return "Check the permissions of the target directory, or change export.dir in your config."
	}

	if strings.Contains(errLower, "yaml") || strings.Contains(errLower, "unmarshal") {
		return "Your config file could not be parsed. Regenerate it with 'termfolio config init --force'."
	}

	if strings.Contains(errLower, "host key") {
		return "Delete the host key file to have a fresh one generated, or point ssh.host_key_path at a valid ed25519 key."
	}

	if strings.Contains(errLower, "timeout") {
		return "The operation timed out. Check your connection and try again."
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "network") {
		return "Check your network connection. You may be offline or behind a firewall."
	}

	return ""
}

// Common error constructors

// ErrSettings creates an error for an unreadable settings file
func ErrSettings(path string, cause error) *UserError {
	return &UserError{
		Message: fmt.Sprintf("Failed to load settings from %s", path),
		Cause:   cause,
		Suggestion: `Possible fixes:
       1. Check the YAML syntax of the file
       2. Regenerate defaults: termfolio config init --force
       3. Point at another file with --config`,
	}
}

// ErrHostKey creates an error for SSH host key problems
func ErrHostKey(path string, cause error) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("Failed to prepare SSH host key %s", path),
		Cause:      cause,
		Suggestion: "Make sure the directory is writable, or remove a corrupt key so a new one is generated.",
	}
}

// ErrListen creates an error for SSH listen failures
func ErrListen(addr string, cause error) *UserError {
	return &UserError{
		Message:    fmt.Sprintf("Failed to listen on %s", addr),
		Cause:      cause,
		Suggestion: "Choose a free port with --addr (e.g. --addr :2222).",
	}
}

// ErrExport creates an error for a failed "Save File"
func ErrExport(name string, cause error) *UserError {
	return &UserError{
		Message: fmt.Sprintf("Failed to save %s", name),
		Cause:   cause,
	}
}
