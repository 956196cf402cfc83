package main

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"pkt.systems/pslog"
)

// Zone ids of the editor buttons
const (
	zoneExitVim  = "exit-vim"
	zoneSaveFile = "save-file"
)

// Styles for the TUI
type Styles struct {
	Title     lipgloss.Style
	Frame     lipgloss.Style
	Label     lipgloss.Style
	DotRed    lipgloss.Style
	DotYellow lipgloss.Style
	DotGreen  lipgloss.Style

	Prompt   lipgloss.Style
	Text     lipgloss.Style
	Wrap     lipgloss.Style
	Emphasis lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Accent   lipgloss.Style
	Dim      lipgloss.Style
	Ghost    lipgloss.Style
	Hint     lipgloss.Style
	Bot      lipgloss.Style

	Button             lipgloss.Style
	EditorFrame        lipgloss.Style
	CursorNormal       lipgloss.Style
	CursorInsert       lipgloss.Style
	Completion         lipgloss.Style
	CompletionSelected lipgloss.Style
}

// NewStyles builds styles for a theme on the given renderer (one renderer
// per output, so SSH sessions get their own colour profile)
func NewStyles(r *lipgloss.Renderer, t ThemePreset) *Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return &Styles{
		Title:     r.NewStyle().Bold(true).Foreground(c(t.Accent)),
		Frame:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(t.Frame)).Padding(0, 1),
		Label:     r.NewStyle().Foreground(c("15")),
		DotRed:    r.NewStyle().Foreground(c("9")),
		DotYellow: r.NewStyle().Foreground(c("11")),
		DotGreen:  r.NewStyle().Foreground(c("10")),

		Prompt:   r.NewStyle().Foreground(c(t.Prompt)),
		Text:     r.NewStyle().Foreground(c("15")),
		Wrap:     r.NewStyle(),
		Emphasis: r.NewStyle().Foreground(c(t.Emphasis)),
		Error:    r.NewStyle().Foreground(c(t.Error)),
		Warning:  r.NewStyle().Foreground(c(t.Warning)),
		Info:     r.NewStyle().Foreground(c(t.Info)),
		Accent:   r.NewStyle().Foreground(c(t.Accent)),
		Dim:      r.NewStyle().Foreground(c(t.Dim)),
		Ghost:    r.NewStyle().Foreground(c(t.Dim)),
		Hint:     r.NewStyle().Foreground(c(t.Dim)),
		Bot:      r.NewStyle().Foreground(c(t.Info)),

		Button:             r.NewStyle().Foreground(c("15")).Border(lipgloss.NormalBorder()).BorderForeground(c(t.Frame)).Padding(0, 1),
		EditorFrame:        r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c(t.Frame)).Padding(0, 1),
		CursorNormal:       r.NewStyle().Reverse(true),
		CursorInsert:       r.NewStyle().Underline(true).Foreground(c(t.Accent)),
		Completion:         r.NewStyle().Foreground(c(t.Dim)).Padding(0, 1),
		CompletionSelected: r.NewStyle().Foreground(c("0")).Background(c(t.Info)).Padding(0, 1),
	}
}

// botFrames animate the header bot's face
var botFrames = []string{"│ o   o │", "│ o   o │", "│ o   o │", "│ -   - │"}

// Model is the bubbletea model for one visitor
type Model struct {
	// Core components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	editor   Editor
	styles   *Styles
	zones    *zone.Manager

	// State
	session Session
	interp  *Interpreter
	notice  string // one-line status under the editor or input

	// Exit confirmation
	ctrlCPressed bool
	ctrlCTime    time.Time

	// Session data
	config   *Config
	exporter Exporter
	ctx      context.Context
	log      pslog.Logger

	// Terminal size
	width  int
	height int
}

// ModelOptions carries per-output collaborators
type ModelOptions struct {
	Renderer *lipgloss.Renderer
	Exporter Exporter
	Zones    *zone.Manager
}

// exportDoneMsg reports the outcome of a Save File
type exportDoneMsg struct {
	desc string
	err  error
}

// NewModel creates a new bubbletea model
func NewModel(ctx context.Context, cfg *Config, opts ModelOptions) Model {
	styles := NewStyles(opts.Renderer, cfg.Theme)
	interp := NewInterpreter(cfg.Profile)

	ti := textinput.New()
	ti.Prompt = interp.Prompt() + " "
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Text
	ti.Placeholder = ""
	ti.CharLimit = 0
	ti.ShowSuggestions = true
	ti.CompletionStyle = styles.Ghost
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: botFrames,
		FPS:    time.Second / 2,
	}

	zones := opts.Zones
	if zones == nil {
		zones = zone.New()
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = FileExporter{Dir: cfg.ExportDir}
	}

	m := Model{
		input:    ti,
		viewport: viewport.New(80, 10),
		spinner:  s,
		editor:   NewVimEditor(styles, NewHighlighter(opts.Renderer, DefaultHighlightStyle)),
		styles:   styles,
		zones:    zones,
		session:  NewSession(),
		interp:   interp,
		config:   cfg,
		exporter: exporter,
		ctx:      ctx,
		log:      pslog.Ctx(ctx),
		width:    100, // Default, will be updated on WindowSizeMsg
		height:   30,
	}
	m.layout()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft &&
			m.session.Mode() == ModeEditor {
			switch {
			case m.inZone(zoneExitVim, msg):
				return m.dispatch(ExitEditorClicked{})
			case m.inZone(zoneSaveFile, msg):
				return m.dispatch(SaveFileClicked{})
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Reset Ctrl+C state on any other key press
		if msg.Type != tea.KeyCtrlC {
			m.ctrlCPressed = false
		}
		if msg.Type == tea.KeyCtrlC {
			// Double Ctrl+C to quit
			if m.ctrlCPressed && time.Since(m.ctrlCTime) < 2*time.Second {
				m.log.Info("session quit")
				return m, tea.Quit
			}
			m.ctrlCPressed = true
			m.ctrlCTime = time.Now()
			m.notice = m.styles.Warning.Render("Press Ctrl+C again to exit")
			return m, nil
		}
		if m.session.Mode() == ModeEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)

	case editorChangedMsg:
		return m.dispatch(EditorChanged{Content: msg.content})

	case editorSaveMsg:
		return m.dispatch(SaveFileClicked{})

	case editorExitMsg:
		return m.dispatch(ExitEditorClicked{})

	case completionDoneMsg:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Warn("export failed", "err", msg.err)
			m.notice = m.styles.Error.Render(msg.err.Error())
			return m, nil
		}
		m.log.Info("export delivered", "file", ExportFileName, "detail", msg.desc)
		m.notice = m.styles.Dim.Render(msg.desc)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey maps command-line keys to session events
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.dispatch(SubmitPressed{})
	case tea.KeyTab:
		return m.dispatch(TabPressed{})
	case tea.KeyDown:
		return m.dispatch(ArrowDownPressed{})
	case tea.KeyUp:
		return m.dispatch(ArrowUpPressed{})
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.KeyEsc:
		return m, nil
	}

	m.notice = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.session.Draft() {
		next, c := m.dispatch(DraftChanged{Value: v})
		return next, tea.Batch(cmd, c)
	}
	return m, cmd
}

// dispatch runs the reducer and carries out the resulting boundary action
func (m Model) dispatch(ev Event) (Model, tea.Cmd) {
	prev := m.session
	next, action := Reduce(m.interp, prev, ev)
	m.session = next
	if _, ok := ev.(SubmitPressed); ok && prev.Mode() == ModeNormal {
		m.log.Debug("command submitted", "command", strings.TrimSpace(prev.Draft()), "effect", action.Effect.String())
	}

	if m.input.Value() != next.Draft() {
		m.input.SetValue(next.Draft())
		m.input.CursorEnd()
	}
	m.syncGhost()
	if n := len(prev.transcript); n != len(next.transcript) {
		if n < len(next.transcript) {
			m.log.Debug("transcript appended", "first", PlainMarkup(next.transcript[n]), "lines", len(next.transcript)-n)
		}
		m.refreshTranscript()
	}

	switch action.Kind {
	case ActionOpenEditor:
		m.log.Info("editor mode entered")
		m.input.Blur()
		m.notice = ""
		m.editor.SetContent(action.Content)
		m.layout()
		return m, nil

	case ActionCloseEditor:
		m.log.Info("editor mode left")
		m.notice = ""
		m.input.Focus()
		m.layout()
		m.refreshTranscript()
		return m, textinput.Blink

	case ActionExport:
		return m, m.exportCmd(action)
	}
	return m, nil
}

// syncGhost hands the session's suggestion to the input, which draws the
// ghost suffix after the draft with the cursor on its first rune
func (m *Model) syncGhost() {
	if m.session.Autocomplete() == "" {
		m.input.SetSuggestions(nil)
		return
	}
	s, _ := m.session.Suggestion()
	m.input.SetSuggestions([]string{s})
}

func (m *Model) exportCmd(a Action) tea.Cmd {
	exporter, ctx := m.exporter, m.ctx
	return func() tea.Msg {
		desc, err := exporter.Export(ctx, a.Name, a.Content)
		return exportDoneMsg{desc: desc, err: err}
	}
}

func (m *Model) inZone(id string, msg tea.MouseMsg) bool {
	z := m.zones.Get(id)
	return z != nil && !z.IsZero() && z.InBounds(msg)
}

// Layout

func (m *Model) innerWidth() int {
	return max(m.width-4, 20)
}

func (m *Model) editorHeight() int {
	return clamp(m.height-20, 4, DefaultEditorHeight)
}

func (m *Model) layout() {
	w := m.innerWidth()
	fixed := 2 + 2 + 1 + 3 + 1 // title, frame, title bar, bot, notice
	if m.session.Mode() == ModeEditor {
		fixed += m.editorHeight() + 2 + 1 + 1 + 3 // editor frame, completion, status, buttons
	} else {
		fixed++ // input line
	}
	m.viewport.Width = w
	m.viewport.Height = max(m.height-fixed, 3)
	m.editor.SetSize(w, m.editorHeight())
}

// refreshTranscript re-renders the transcript and scrolls to the newest line
func (m *Model) refreshTranscript() {
	w := m.innerWidth()
	lines := m.session.Transcript()
	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, m.styles.Wrap.Width(w).Render(RenderMarkup(line, m.styles)))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

// Rendering

func (m Model) View() string {
	w := m.innerWidth()
	profile := m.config.Profile

	title := m.styles.Title.Width(m.width).Align(lipgloss.Center).Render(profile.Title)

	dots := m.styles.DotRed.Render("●") + " " + m.styles.DotYellow.Render("●") + " " + m.styles.DotGreen.Render("●")
	label := m.styles.Label.Render(profile.Label)
	gap := max(w-lipgloss.Width(dots)-lipgloss.Width(label), 1)
	bar := dots + strings.Repeat(" ", gap) + label

	parts := []string{bar, m.botView(), m.viewport.View()}
	if m.session.Mode() == ModeEditor {
		parts = append(parts, m.editor.View(), m.buttonsView())
	} else {
		parts = append(parts, m.inputView())
	}
	parts = append(parts, m.notice)

	window := m.styles.Frame.Width(w + 2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, title, "", window))
}

func (m Model) botView() string {
	return m.styles.Bot.Render(strings.Join([]string{
		"╭───────╮",
		m.spinner.View(),
		"╰──┬─┬──╯",
	}, "\n"))
}

func (m Model) inputView() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	if m.session.ShowHint() {
		b.WriteString(m.styles.Hint.Render(IdleHint))
	}
	return b.String()
}

func (m Model) buttonsView() string {
	exit := m.zones.Mark(zoneExitVim, m.styles.Button.Render("Exit Vim"))
	save := m.zones.Mark(zoneSaveFile, m.styles.Button.Render("Save File"))
	return lipgloss.JoinHorizontal(lipgloss.Top, exit, " ", save)
}

// StartTUI runs the portfolio on the local terminal
func StartTUI(ctx context.Context, cfg *Config) error {
	zones := zone.New()
	defer zones.Close()

	m := NewModel(ctx, cfg, ModelOptions{
		Renderer: lipgloss.DefaultRenderer(),
		Exporter: NewExporter(cfg, os.Stdout, os.Getenv("TERM")),
		Zones:    zones,
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// runProgram serves one model over arbitrary input/output streams
func runProgram(ctx context.Context, m Model, in io.Reader, out io.Writer, env []string, winCh <-chan tea.WindowSizeMsg) error {
	p := tea.NewProgram(m,
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithEnvironment(env),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case size, ok := <-winCh:
				if !ok {
					return
				}
				p.Send(size)
			}
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
