package main

import (
	"fmt"
	"strings"
)

// KnownCommands is the fixed, ordered command set. Order matters: the
// suggestion engine returns the first match.
var KnownCommands = []string{
	"help",
	"about",
	"projects",
	"contact",
	"clear",
	"vim",
}

// Effect is a session-level side effect requested by a command
type Effect int

const (
	EffectNone Effect = iota
	EffectClearTranscript
	EffectEnterEditor
)

func (e Effect) String() string {
	switch e {
	case EffectClearTranscript:
		return "clear"
	case EffectEnterEditor:
		return "editor"
	default:
		return "none"
	}
}

// Result is the outcome of interpreting one submitted line
type Result struct {
	Lines  []string
	Effect Effect
}

// helpLines lists every command with its name in emphasis markup
var helpLines = []string{
	"Available commands:",
	` <span style="color:green">vim</span> :     Enter Vim mode to code`,
	` <span style="color:green">help</span> :     Show this help message`,
	` <span style="color:green">about</span> :    Learn more about me`,
	` <span style="color:green">projects</span> : See my projects`,
	` <span style="color:green">contact</span> :  Get in touch`,
	` <span style="color:green">clear</span> :  Clear screen`,
}

// Interpreter maps submitted lines to transcript output
type Interpreter struct {
	profile ProfileSettings
}

// NewInterpreter creates an interpreter answering with the given profile
func NewInterpreter(profile ProfileSettings) *Interpreter {
	return &Interpreter{profile: profile}
}

// Prompt returns the literal prompt prefix, e.g. "quadeer@pc:~$"
func (in *Interpreter) Prompt() string {
	return fmt.Sprintf("%s@%s:~$", in.profile.User, in.profile.Host)
}

// Echo returns the transcript line recording a submitted command
func (in *Interpreter) Echo(line string) string {
	return in.Prompt() + " " + line
}

// Interpret maps a trimmed line to its output. It never fails: unknown input
// produces the "not recognized" line.
func (in *Interpreter) Interpret(line string) Result {
	switch line {
	case "clear":
		return Result{Effect: EffectClearTranscript}
	case "vim":
		return Result{Effect: EffectEnterEditor}
	case "help":
		return Result{Lines: cloneLines(helpLines)}
	case "about":
		return Result{Lines: cloneLines(in.profile.About)}
	case "projects":
		return Result{Lines: cloneLines(in.profile.Projects)}
	case "contact":
		return Result{Lines: cloneLines(in.profile.Contact)}
	default:
		return Result{Lines: []string{unrecognized(line)}}
	}
}

func unrecognized(command string) string {
	return fmt.Sprintf("'%s' is not recognized as a valid command. Type 'help' to see available commands.",
		escapeQuotes(command))
}

// escapeQuotes replaces single quotes so user input cannot close the quoted
// echo inside rendered markup
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "&#39;")
}

func cloneLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
