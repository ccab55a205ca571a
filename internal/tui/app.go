package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyroom/internal/app"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// greetDelay is how long an empty session waits before the assistant's
// greeting bubble appears.
const greetDelay = time.Second

type focusArea int

const (
	focusInput focusArea = iota
	focusHistory
)

// Model is the study-room TUI: a chat pane against the agent on the left,
// the date-grouped session history on the right.
type Model struct {
	app      *app.Application
	theme    Theme
	markdown *MarkdownRenderer

	input    textarea.Model
	chat     viewport.Model
	spin     spinner.Model
	focus    focusArea

	// pending tracks session ids with an in-flight agent call. Sends on
	// other sessions are not blocked by a pending one.
	pending map[string]bool

	entries   []sidebarEntry
	cursor    int
	renaming  bool
	renameID  string
	rename    textinput.Model

	width  int
	height int
	ready  bool
}

// Messages flowing back into Update. Agent replies carry the session id
// captured at send time; Update routes them by that id, so an answer landing
// after a session switch still reaches its originating session.
type agentReplyMsg struct {
	sessionID string
	err       error
}

type greetMsg struct{ sessionID string }

func New(application *app.Application) *Model {
	theme := NewTheme()

	ta := textarea.New()
	ta.Placeholder = "Ask for a summary, mind map or quiz..."
	ta.Focus()
	ta.CharLimit = 4000
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	ri := textinput.New()
	ri.CharLimit = 120

	m := &Model{
		app:      application,
		theme:    theme,
		markdown: NewMarkdownRenderer(theme),
		input:    ta,
		spin:     sp,
		rename:   ri,
		pending:  map[string]bool{},
	}
	m.rebuildSidebar()
	return m
}

// Run starts the TUI and blocks until it exits.
func Run(application *app.Application) error {
	p := tea.NewProgram(New(application), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink, m.spin.Tick}
	if cur := m.app.Store.CurrentSession(); len(cur.Messages) == 0 {
		cmds = append(cmds, greetCmd(cur.ID))
	}
	return tea.Batch(cmds...)
}

func greetCmd(sessionID string) tea.Cmd {
	return tea.Tick(greetDelay, func(time.Time) tea.Msg {
		return greetMsg{sessionID: sessionID}
	})
}

func (m *Model) sendCmd(sessionID, text string) tea.Cmd {
	timeout := time.Duration(m.app.Config.AgentTimeoutSeconds) * time.Second
	a := m.app
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		// Send appends both the user message and the answer (or the error
		// bubble) to the captured session inside the store.
		_, err := a.Send(ctx, sessionID, text)
		return agentReplyMsg{sessionID: sessionID, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)

	case greetMsg:
		// Only greet if the session still exists and is still untouched.
		for _, sess := range m.app.Store.Sessions() {
			if sess.ID == msg.sessionID && len(sess.Messages) == 0 {
				m.app.Store.AddAssistantMessage(sess.ID, app.Greeting)
			}
		}
		m.refresh()

	case agentReplyMsg:
		delete(m.pending, msg.sessionID)
		m.refresh()

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+n":
			sess := m.app.Store.NewSession()
			m.input.Reset()
			m.focus = focusInput
			m.input.Focus()
			m.refresh()
			return m, greetCmd(sess.ID)
		case "tab":
			if m.focus == focusInput {
				m.focus = focusHistory
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.input.Focus()
			}
			return m, nil
		}
		if m.focus == focusHistory {
			return m.updateHistory(msg)
		}
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	sessionID := m.app.Store.CurrentSession().ID
	if m.pending[sessionID] {
		// One question at a time per session; other sessions stay open.
		return m, nil
	}
	m.input.Reset()
	m.pending[sessionID] = true
	cmd := m.sendCmd(sessionID, text)
	m.refresh()
	return m, tea.Batch(cmd, m.spin.Tick)
}

func (m *Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if title := strings.TrimSpace(m.rename.Value()); title != "" {
			m.app.Store.Rename(m.renameID, title)
		}
		m.renaming = false
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.renaming = false
		return m, nil
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return m, cmd
}

func (m *Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "enter":
		if sess, ok := m.selectedSession(); ok {
			m.app.Store.SelectID(sess.ID)
			m.focus = focusInput
			m.input.Focus()
			m.refresh()
		}
	case "r":
		if sess, ok := m.selectedSession(); ok {
			m.renaming = true
			m.renameID = sess.ID
			m.rename.SetValue(sess.Title)
			m.rename.CursorEnd()
			m.rename.Focus()
		}
	case "d", "delete", "backspace":
		if sess, ok := m.selectedSession(); ok {
			m.app.Store.Delete(sess.ID)
			m.refresh()
		}
	}
	return m, nil
}

func (m *Model) refresh() {
	m.rebuildSidebar()
	if m.ready {
		m.chat.SetContent(m.renderConversation(m.chat.Width))
		m.chat.GotoBottom()
	}
}

func (m *Model) layout() {
	sidebarWidth := m.width / 3
	if sidebarWidth > 44 {
		sidebarWidth = 44
	}
	chatWidth := m.width - sidebarWidth - 6
	chatHeight := m.height - 10
	if chatHeight < 5 {
		chatHeight = 5
	}
	m.chat = viewport.New(chatWidth, chatHeight)
	m.input.SetWidth(chatWidth)
	m.refresh()
}

func (m *Model) renderConversation(width int) string {
	sess := m.app.Store.CurrentSession()
	var b strings.Builder
	for _, msg := range sess.Messages {
		b.WriteString(m.renderMessage(msg, width))
		b.WriteString("\n\n")
	}
	if m.pending[sess.ID] {
		b.WriteString(m.spin.View() + m.theme.TopBarMeta.Render(" typing..."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg app.ChatMessage, width int) string {
	switch msg.Role {
	case app.RoleUser:
		return m.theme.RoleYou.Render("You") + "\n" + msg.Content
	case app.RoleError:
		return m.theme.RoleErr.Render("Assistant") + "\n" +
			lipgloss.NewStyle().Foreground(m.theme.Error).Render(msg.Content)
	default:
		body := msg.Content
		if mm, ok := app.DetectMindMap(msg.Content); ok {
			body = mm.Outline()
		} else {
			body = m.markdown.Render(msg.Content, width)
		}
		return m.theme.RoleAI.Render("Assistant") + "\n" + body
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	title := m.theme.TopBarTitle.Render("STUDY ROOM")
	who := ""
	if m.app.Auth.LoggedIn() {
		who = m.theme.TopBarMeta.Render(fmt.Sprintf("  %s (%s)", m.app.Auth.Name, m.app.Auth.Role))
	}
	top := m.theme.TopBar.Render(title + who)

	chatPane := m.theme.Pane
	historyPane := m.theme.Pane
	if m.focus == focusInput {
		chatPane = m.theme.PaneFocused
	} else {
		historyPane = m.theme.PaneFocused
	}

	chat := chatPane.Render(m.chat.View())
	history := historyPane.Width(m.sidebarWidth()).Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, chat, history)

	inputBox := m.theme.InputBox
	if m.focus == focusInput {
		inputBox = m.theme.InputBoxF
	}
	input := inputBox.Render(m.input.View())
	if m.renaming {
		input = m.theme.InputBoxF.Render("Rename: " + m.rename.View())
	}

	footer := m.theme.Footer.Render("enter send · tab history · ctrl+n new chat · r rename · d delete · esc quit")

	return lipgloss.JoinVertical(lipgloss.Left, top, body, input, footer)
}

func (m *Model) sidebarWidth() int {
	w := m.width / 3
	if w > 44 {
		w = 44
	}
	return w
}
