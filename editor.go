package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Editor is the boundary to the embedded code editor. Content changes are
// reported as editorChangedMsg; save and exit requests as editorSaveMsg and
// editorExitMsg.
type Editor interface {
	SetContent(content string)
	Content() string
	SetSize(width, height int)
	Update(msg tea.Msg) (Editor, tea.Cmd)
	View() string
}

// Messages emitted by the editor
type (
	editorChangedMsg struct{ content string }
	editorSaveMsg    struct{}
	editorExitMsg    struct{}
)

type vimMode int

const (
	vimNormal vimMode = iota
	vimInsert
	vimCommand
)

func (m vimMode) String() string {
	switch m {
	case vimInsert:
		return "INSERT"
	case vimCommand:
		return "COMMAND"
	default:
		return "NORMAL"
	}
}

// engineWidth keeps the textarea from soft-wrapping, so its cursor column is
// always a rune offset into the logical line
const engineWidth = 4096

// DefaultEditorHeight is the number of code lines shown
const DefaultEditorHeight = 12

// vimEditor layers Vim key bindings, C++ highlighting and keyword completion
// over the bubbles textarea editing engine
type vimEditor struct {
	area   textarea.Model
	hl     *Highlighter
	styles *Styles

	mode     vimMode
	pending  string   // first key of gg, dd, yy
	cmdline  string   // text after ':'
	register []string // lines yanked by dd / yy
	message  string   // one-shot status text

	width  int
	height int
	top    int

	// Undo history. An insert session is one change, opened by insertStart.
	undoStack   []editSnapshot
	redoStack   []editSnapshot
	insertStart *editSnapshot
	restored    bool

	// Completion state; seq identifies the latest query
	seq        int
	completion CompletionResult
	compOpen   bool
	compSel    int
}

// maxUndo bounds the undo history
const maxUndo = 100

type editSnapshot struct {
	value    string
	row, col int
}

// NewVimEditor creates an editor rendering with the given styles
func NewVimEditor(styles *Styles, hl *Highlighter) *vimEditor {
	ta := textarea.New()
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	ta.SetWidth(engineWidth)
	ta.Focus()

	return &vimEditor{
		area:   ta,
		hl:     hl,
		styles: styles,
		width:  80,
		height: DefaultEditorHeight,
	}
}

// SetContent replaces the buffer and returns to normal mode at the top
func (e *vimEditor) SetContent(content string) {
	e.area.SetValue(content)
	e.gotoRow(0)
	e.area.CursorStart()
	e.mode = vimNormal
	e.pending = ""
	e.cmdline = ""
	e.message = ""
	e.top = 0
	e.undoStack, e.redoStack, e.insertStart = nil, nil, nil
	e.closeCompletion()
}

func (e *vimEditor) Content() string {
	return e.area.Value()
}

func (e *vimEditor) SetSize(width, height int) {
	if width > 0 {
		e.width = width
	}
	if height > 0 {
		e.height = height
	}
	e.ensureVisible()
}

func (e *vimEditor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	switch msg := msg.(type) {
	case completionDoneMsg:
		if msg.seq != e.seq || e.mode != vimInsert {
			return e, nil // stale
		}
		e.completion = msg.result
		e.compOpen = len(msg.result.Options) > 0
		e.compSel = 0
		return e, nil

	case tea.KeyMsg:
		before := e.snapshot()
		wasInsert := e.mode == vimInsert
		e.restored = false
		cmd := e.handleKey(msg)
		e.ensureVisible()
		e.recordHistory(before, wasInsert)
		if after := e.area.Value(); after != before.value {
			changed := func() tea.Msg { return editorChangedMsg{content: after} }
			return e, tea.Batch(cmd, changed)
		}
		return e, cmd
	}
	return e, nil
}

func (e *vimEditor) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return emit(editorSaveMsg{})
	case "ctrl+q":
		return emit(editorExitMsg{})
	}

	switch e.mode {
	case vimInsert:
		return e.handleInsert(msg)
	case vimCommand:
		return e.handleCommandLine(msg)
	default:
		e.message = ""
		return e.handleNormal(msg)
	}
}

func (e *vimEditor) handleInsert(msg tea.KeyMsg) tea.Cmd {
	if e.compOpen {
		switch msg.String() {
		case "tab", "enter":
			e.acceptCompletion()
			return nil
		case "down", "ctrl+n":
			e.compSel = (e.compSel + 1) % len(e.completion.Options)
			return nil
		case "up", "ctrl+p":
			e.compSel = (e.compSel - 1 + len(e.completion.Options)) % len(e.completion.Options)
			return nil
		}
	}

	switch msg.String() {
	case "esc":
		e.closeCompletion()
		e.mode = vimNormal
		if col := e.col(); col > 0 {
			e.area.SetCursor(col - 1)
		}
		return nil
	case "tab":
		e.area.InsertString("    ")
	default:
		e.area, _ = e.area.Update(msg)
	}

	e.closeCompletion()
	e.seq++
	return queryCompletions(e.seq, CompletionContext{Line: e.currentLine(), Col: e.col()})
}

func (e *vimEditor) handleNormal(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if e.pending != "" {
		seq := e.pending + key
		e.pending = ""
		switch seq {
		case "gg":
			e.gotoRow(0)
			e.area.CursorStart()
		case "dd":
			e.deleteLine()
		case "yy":
			e.register = []string{e.currentLine()}
			e.message = "1 line yanked"
		}
		return nil
	}

	switch key {
	case "g", "d", "y":
		e.pending = key
	case "h", "left", "backspace":
		if col := e.col(); col > 0 {
			e.area.SetCursor(col - 1)
		}
	case "l", "right", " ":
		if col := e.col(); col < e.lineLen()-1 {
			e.area.SetCursor(col + 1)
		}
	case "j", "down":
		e.area.CursorDown()
		e.clampNormal()
	case "k", "up":
		e.area.CursorUp()
		e.clampNormal()
	case "0", "home":
		e.area.CursorStart()
	case "$", "end":
		e.area.SetCursor(max(e.lineLen()-1, 0))
	case "w":
		e.wordForward()
	case "b":
		e.wordBack()
	case "G":
		e.gotoRow(e.area.LineCount() - 1)
		e.area.CursorStart()
	case "x", "delete":
		if e.lineLen() > 0 {
			e.area, _ = e.area.Update(tea.KeyMsg{Type: tea.KeyDelete})
			e.clampNormal()
		}
	case "D":
		e.area, _ = e.area.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
		e.clampNormal()
	case "p":
		e.paste(true)
	case "P":
		e.paste(false)
	case "i":
		e.mode = vimInsert
	case "a":
		if e.lineLen() > 0 {
			e.area.SetCursor(e.col() + 1)
		}
		e.mode = vimInsert
	case "A":
		e.area.CursorEnd()
		e.mode = vimInsert
	case "I":
		e.area.CursorStart()
		e.mode = vimInsert
	case "o":
		e.area.CursorEnd()
		e.area.InsertString("\n")
		e.mode = vimInsert
	case "O":
		e.area.CursorStart()
		e.area.InsertString("\n")
		e.area.CursorUp()
		e.mode = vimInsert
	case ":":
		e.mode = vimCommand
		e.cmdline = ""
	case "u":
		e.undo()
	case "ctrl+r":
		e.redo()
	}
	return nil
}

func (e *vimEditor) handleCommandLine(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		e.mode = vimNormal
		e.cmdline = ""
		return nil
	case tea.KeyBackspace:
		if e.cmdline == "" {
			e.mode = vimNormal
			return nil
		}
		r := []rune(e.cmdline)
		e.cmdline = string(r[:len(r)-1])
		return nil
	case tea.KeyEnter:
		cmd := strings.TrimSpace(e.cmdline)
		e.mode = vimNormal
		e.cmdline = ""
		return e.execCommand(cmd)
	case tea.KeySpace:
		e.cmdline += " "
		return nil
	case tea.KeyRunes:
		e.cmdline += string(msg.Runes)
	}
	return nil
}

func (e *vimEditor) execCommand(cmd string) tea.Cmd {
	switch cmd {
	case "w":
		return emit(editorSaveMsg{})
	case "q", "q!":
		return emit(editorExitMsg{})
	case "wq", "x":
		return tea.Sequence(emit(editorSaveMsg{}), emit(editorExitMsg{}))
	case "":
		return nil
	default:
		e.message = fmt.Sprintf("E492: Not an editor command: %s", cmd)
		return nil
	}
}

func (e *vimEditor) snapshot() editSnapshot {
	return editSnapshot{value: e.area.Value(), row: e.row(), col: e.col()}
}

// recordHistory turns a key's buffer change into an undo entry. Keys typed
// in insert mode are folded into the change that opened the session.
func (e *vimEditor) recordHistory(before editSnapshot, wasInsert bool) {
	if e.restored {
		return
	}
	inInsert := e.mode == vimInsert
	switch {
	case !wasInsert && inInsert:
		e.insertStart = &before
	case wasInsert && !inInsert:
		if e.insertStart != nil && e.insertStart.value != e.area.Value() {
			e.pushUndo(*e.insertStart)
		}
		e.insertStart = nil
	case !wasInsert && before.value != e.area.Value():
		e.pushUndo(before)
	}
}

func (e *vimEditor) pushUndo(s editSnapshot) {
	e.undoStack = append(e.undoStack, s)
	if len(e.undoStack) > maxUndo {
		e.undoStack = e.undoStack[len(e.undoStack)-maxUndo:]
	}
	e.redoStack = nil
}

func (e *vimEditor) undo() {
	n := len(e.undoStack)
	if n == 0 {
		e.message = "Already at oldest change"
		return
	}
	prev := e.undoStack[n-1]
	e.undoStack = e.undoStack[:n-1]
	e.redoStack = append(e.redoStack, e.snapshot())
	e.restore(prev)
}

func (e *vimEditor) redo() {
	n := len(e.redoStack)
	if n == 0 {
		e.message = "Already at newest change"
		return
	}
	next := e.redoStack[n-1]
	e.redoStack = e.redoStack[:n-1]
	e.undoStack = append(e.undoStack, e.snapshot())
	e.restore(next)
}

func (e *vimEditor) restore(s editSnapshot) {
	e.setLines(splitLines(s.value), s.row, s.col)
	e.restored = true
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Buffer helpers over the engine

func (e *vimEditor) row() int { return e.area.Line() }

func (e *vimEditor) col() int {
	li := e.area.LineInfo()
	return li.StartColumn + li.ColumnOffset
}

func (e *vimEditor) lines() []string { return splitLines(e.area.Value()) }

func (e *vimEditor) currentLine() string {
	lines := e.lines()
	if r := e.row(); r < len(lines) {
		return lines[r]
	}
	return ""
}

func (e *vimEditor) lineLen() int { return len([]rune(e.currentLine())) }

// gotoRow moves the engine cursor to a logical row, keeping the column
func (e *vimEditor) gotoRow(row int) {
	row = clamp(row, 0, e.area.LineCount()-1)
	for i := 0; e.area.Line() > row && i < engineWidth; i++ {
		e.area.CursorUp()
	}
	for i := 0; e.area.Line() < row && i < engineWidth; i++ {
		e.area.CursorDown()
	}
}

// clampNormal keeps the cursor on a character, as normal mode requires
func (e *vimEditor) clampNormal() {
	if n := e.lineLen(); n > 0 && e.col() > n-1 {
		e.area.SetCursor(n - 1)
	}
}

func (e *vimEditor) setLines(lines []string, row, col int) {
	e.area.SetValue(strings.Join(lines, "\n"))
	e.gotoRow(row)
	e.area.SetCursor(col)
	e.clampNormal()
}

func (e *vimEditor) deleteLine() {
	lines := e.lines()
	row := e.row()
	e.register = []string{lines[row]}
	lines = append(lines[:row], lines[row+1:]...)
	if len(lines) == 0 {
		lines = []string{""}
	}
	e.setLines(lines, min(row, len(lines)-1), 0)
}

func (e *vimEditor) paste(after bool) {
	if len(e.register) == 0 {
		return
	}
	lines := e.lines()
	at := e.row()
	if after {
		at++
	}
	out := make([]string, 0, len(lines)+len(e.register))
	out = append(out, lines[:at]...)
	out = append(out, e.register...)
	out = append(out, lines[at:]...)
	e.setLines(out, at, 0)
}

// runeClass groups runes for w / b motions: 0 space, 1 word, 2 punctuation
func runeClass(r rune) int {
	switch {
	case r == ' ' || r == '\t':
		return 0
	case isWordRune(r):
		return 1
	default:
		return 2
	}
}

func (e *vimEditor) wordForward() {
	line := []rune(e.currentLine())
	col := e.col()
	if col < len(line) {
		cls := runeClass(line[col])
		for col < len(line) && cls != 0 && runeClass(line[col]) == cls {
			col++
		}
	}
	for col < len(line) && runeClass(line[col]) == 0 {
		col++
	}
	if col >= len(line) && e.row() < e.area.LineCount()-1 {
		e.area.CursorDown()
		e.area.CursorStart()
		next := []rune(e.currentLine())
		c := 0
		for c < len(next) && runeClass(next[c]) == 0 {
			c++
		}
		e.area.SetCursor(c)
		e.clampNormal()
		return
	}
	e.area.SetCursor(col)
	e.clampNormal()
}

func (e *vimEditor) wordBack() {
	line := []rune(e.currentLine())
	col := e.col()
	if col == 0 {
		if e.row() == 0 {
			return
		}
		e.area.CursorUp()
		e.area.CursorEnd()
		e.clampNormal()
		return
	}
	col--
	for col > 0 && runeClass(line[col]) == 0 {
		col--
	}
	cls := runeClass(line[col])
	for col > 0 && runeClass(line[col-1]) == cls {
		col--
	}
	e.area.SetCursor(col)
}

// Completion

func (e *vimEditor) closeCompletion() {
	e.compOpen = false
	e.compSel = 0
	e.completion = CompletionResult{}
}

func (e *vimEditor) acceptCompletion() {
	if !e.compOpen || len(e.completion.Options) == 0 {
		return
	}
	label := []rune(e.completion.Options[e.compSel].Label)
	typed := e.completion.To - e.completion.From
	if typed < len(label) {
		e.area.InsertString(string(label[typed:]))
	}
	e.closeCompletion()
	e.seq++ // drop any query still in flight
}

// Rendering

func (e *vimEditor) ensureVisible() {
	row := e.row()
	if row < e.top {
		e.top = row
	}
	if row >= e.top+e.height {
		e.top = row - e.height + 1
	}
	if e.top < 0 {
		e.top = 0
	}
}

func (e *vimEditor) View() string {
	lines := e.hl.Lines(e.area.Value())
	row, col := e.row(), e.col()

	cursorStyle := e.styles.CursorNormal
	if e.mode == vimInsert {
		cursorStyle = e.styles.CursorInsert
	}

	var b strings.Builder
	end := min(e.top+e.height, len(lines))
	for i := e.top; i < end; i++ {
		if i > e.top {
			b.WriteString("\n")
		}
		cursor := -1
		if i == row && e.mode != vimCommand {
			cursor = col
		}
		b.WriteString(lines[i].render(cursor, cursorStyle))
	}
	for i := end; i < e.top+e.height; i++ {
		b.WriteString("\n" + e.styles.Dim.Render("~"))
	}

	body := e.styles.EditorFrame.Width(max(e.width-2, 10)).Render(
		lipgloss.NewStyle().MaxWidth(max(e.width-4, 8)).Render(b.String()))

	parts := []string{body}
	if e.compOpen {
		parts = append(parts, e.completionView())
	}
	parts = append(parts, e.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (e *vimEditor) completionView() string {
	items := make([]string, 0, len(e.completion.Options))
	for i, opt := range e.completion.Options {
		if i == e.compSel {
			items = append(items, e.styles.CompletionSelected.Render(opt.Label))
		} else {
			items = append(items, e.styles.Completion.Render(opt.Label))
		}
	}
	return strings.Join(items, " ")
}

func (e *vimEditor) statusLine() string {
	switch {
	case e.mode == vimCommand:
		return ":" + e.cmdline
	case e.message != "":
		return e.styles.Warning.Render(e.message)
	case e.mode == vimInsert:
		return e.styles.Accent.Render("-- INSERT --")
	default:
		return e.styles.Dim.Render(fmt.Sprintf("%d,%d", e.row()+1, e.col()+1))
	}
}
