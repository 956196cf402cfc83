package main

import "strings"

// Mode is the top-level session state
type Mode int

const (
	ModeNormal Mode = iota // Command line active
	ModeEditor             // Embedded editor replaces the command line
)

func (m Mode) String() string {
	if m == ModeEditor {
		return "editor"
	}
	return "normal"
}

const (
	// ExportFileName is the fixed name of the "Save File" artifact
	ExportFileName = "code.cpp"
	// EditorExitNotice is appended when leaving editor mode
	EditorExitNotice = "Vim mode deactivated"
	// IdleHint is shown while the draft is empty
	IdleHint = "Type 'help' for a list of commands"
)

// EditorPlaceholder is loaded into the editor each time editor mode starts
const EditorPlaceholder = `// Press "i" (insert mode) to start coding with Vim in Quadeer's terminal!
// Supports all Vim key bindings, auto-complete, and syntax highlighting.`

// Session is the complete interaction state of one visitor. It is a value:
// Reduce never mutates its input and returned sessions never share a
// transcript backing array with their predecessor.
type Session struct {
	transcript    []string
	draft         string
	suggestion    string
	hasSuggestion bool
	selected      int
	mode          Mode
	editorContent string
}

// NewSession returns the initial state
func NewSession() Session {
	return Session{selected: -1}
}

// Transcript returns a copy of the rendered-line history
func (s Session) Transcript() []string { return cloneLines(s.transcript) }

// Draft returns the uncommitted input
func (s Session) Draft() string { return s.draft }

// Suggestion returns the active command suggestion, if any
func (s Session) Suggestion() (string, bool) { return s.suggestion, s.hasSuggestion }

// Selected returns the suggestion selection index (-1 or 0)
func (s Session) Selected() int { return s.selected }

// Mode returns the current state
func (s Session) Mode() Mode { return s.mode }

// EditorContent returns the mirrored editor buffer
func (s Session) EditorContent() string { return s.editorContent }

// ShowHint reports whether the idle hint should be displayed
func (s Session) ShowHint() bool { return s.draft == "" }

// Autocomplete returns the ghost suffix for the current draft
func (s Session) Autocomplete() string {
	return AutocompleteDisplay(s.draft, s.suggestion, s.hasSuggestion)
}

// Event is an input to Reduce
type Event interface {
	isEvent()
}

type (
	// DraftChanged replaces the draft wholesale (one keystroke or paste)
	DraftChanged struct{ Value string }
	// SubmitPressed is the Enter key on the command line
	SubmitPressed struct{}
	// TabPressed requests completion of the draft
	TabPressed struct{}
	// ArrowDownPressed moves the suggestion selection down
	ArrowDownPressed struct{}
	// ArrowUpPressed moves the suggestion selection up
	ArrowUpPressed struct{}
	// EditorChanged mirrors new editor content
	EditorChanged struct{ Content string }
	// ExitEditorClicked leaves editor mode
	ExitEditorClicked struct{}
	// SaveFileClicked exports the editor content
	SaveFileClicked struct{}
)

func (DraftChanged) isEvent()      {}
func (SubmitPressed) isEvent()     {}
func (TabPressed) isEvent()        {}
func (ArrowDownPressed) isEvent()  {}
func (ArrowUpPressed) isEvent()    {}
func (EditorChanged) isEvent()     {}
func (ExitEditorClicked) isEvent() {}
func (SaveFileClicked) isEvent()   {}

// ActionKind names a boundary effect the UI must carry out after a reduction
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionOpenEditor
	ActionCloseEditor
	ActionExport
)

// Action is a boundary effect produced by Reduce
type Action struct {
	Kind    ActionKind
	Name    string // ActionExport: artifact name
	Content string // ActionOpenEditor: initial content; ActionExport: payload
	Effect  Effect // SubmitPressed: the interpreter's effect
}

// Reduce computes the next session for an event. Events that do not apply
// to the current mode return the session unchanged.
func Reduce(in *Interpreter, s Session, ev Event) (Session, Action) {
	next := s
	switch ev := ev.(type) {
	case DraftChanged:
		if s.mode != ModeNormal {
			return s, Action{}
		}
		next.draft = ev.Value
		next.suggestion, next.hasSuggestion = "", false
		if ev.Value != "" {
			next.suggestion, next.hasSuggestion = Suggest(strings.TrimSpace(ev.Value), KnownCommands)
			next.selected = -1
		}
		return next, Action{}

	case SubmitPressed:
		if s.mode != ModeNormal {
			return s, Action{}
		}
		return submit(in, s)

	case TabPressed:
		if s.mode != ModeNormal || !s.hasSuggestion {
			return s, Action{}
		}
		next.draft = s.suggestion
		next.suggestion, next.hasSuggestion = "", false
		return next, Action{}

	case ArrowDownPressed:
		if s.mode != ModeNormal {
			return s, Action{}
		}
		// A single suggestion bounds the index at 0
		if s.selected < 0 {
			next.selected = s.selected + 1
		}
		return next, Action{}

	case ArrowUpPressed:
		if s.mode != ModeNormal {
			return s, Action{}
		}
		if s.selected > 0 {
			next.selected = s.selected - 1
		} else {
			next.selected = 0
		}
		return next, Action{}

	case EditorChanged:
		if s.mode != ModeEditor {
			return s, Action{}
		}
		next.editorContent = ev.Content
		return next, Action{}

	case ExitEditorClicked:
		if s.mode != ModeEditor {
			return s, Action{}
		}
		next.mode = ModeNormal
		next.transcript = appendLines(s.transcript, EditorExitNotice)
		return next, Action{Kind: ActionCloseEditor}

	case SaveFileClicked:
		if s.mode != ModeEditor {
			return s, Action{}
		}
		return s, Action{Kind: ActionExport, Name: ExportFileName, Content: s.editorContent}
	}
	return s, Action{}
}

func submit(in *Interpreter, s Session) (Session, Action) {
	line := strings.TrimSpace(s.draft)
	res := in.Interpret(line)

	next := s
	next.draft = ""
	next.suggestion, next.hasSuggestion = "", false

	switch res.Effect {
	case EffectClearTranscript:
		next.transcript = nil
		return next, Action{Effect: res.Effect}
	case EffectEnterEditor:
		next.mode = ModeEditor
		next.editorContent = EditorPlaceholder
		return next, Action{Kind: ActionOpenEditor, Content: EditorPlaceholder, Effect: res.Effect}
	}

	batch := make([]string, 0, len(res.Lines)+1)
	batch = append(batch, in.Echo(line))
	batch = append(batch, res.Lines...)
	next.transcript = appendLines(s.transcript, batch...)
	return next, Action{Effect: res.Effect}
}

// appendLines returns a fresh slice so earlier sessions keep their history
func appendLines(base []string, lines ...string) []string {
	out := make([]string, 0, len(base)+len(lines))
	out = append(out, base...)
	return append(out, lines...)
}
