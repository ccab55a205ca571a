package tui

import (
	"strings"
	"time"

	"studyroom/internal/app"
)

// sidebarEntry is one row of the history pane: either a date-bucket header
// or a selectable session.
type sidebarEntry struct {
	header  bool
	label   string
	session app.ChatSession
}

// sidebarEntries flattens history groups into rows, keeping group order.
func sidebarEntries(groups []app.HistoryGroup) []sidebarEntry {
	var entries []sidebarEntry
	for _, g := range groups {
		entries = append(entries, sidebarEntry{header: true, label: g.Label})
		for _, sess := range g.Sessions {
			entries = append(entries, sidebarEntry{label: sess.Title, session: sess})
		}
	}
	return entries
}

func (m *Model) rebuildSidebar() {
	m.entries = sidebarEntries(app.HistoryGroups(m.app.Store.Sessions(), time.Now()))
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Never land on a header.
	if m.cursor < len(m.entries) && m.entries[m.cursor].header {
		m.moveCursor(1)
	}
}

// moveCursor shifts the selection by delta, skipping headers.
func (m *Model) moveCursor(delta int) {
	if len(m.entries) == 0 {
		return
	}
	i := m.cursor
	for {
		i += delta
		if i < 0 || i >= len(m.entries) {
			return
		}
		if !m.entries[i].header {
			m.cursor = i
			return
		}
	}
}

func (m *Model) selectedSession() (app.ChatSession, bool) {
	if m.cursor < 0 || m.cursor >= len(m.entries) || m.entries[m.cursor].header {
		return app.ChatSession{}, false
	}
	return m.entries[m.cursor].session, true
}

func (m *Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.PaneTitle.Render("History"))
	b.WriteString("\n")
	if len(m.entries) == 0 {
		b.WriteString(m.theme.TopBarMeta.Render("no conversations yet"))
		return b.String()
	}

	currentID := m.app.Store.CurrentSession().ID
	width := m.sidebarWidth() - 4
	for i, e := range m.entries {
		if e.header {
			b.WriteString("\n")
			b.WriteString(m.theme.GroupLabel.Render(e.label))
			b.WriteString("\n")
			continue
		}
		title := truncate(e.label, width)
		style := m.theme.HistoryItem
		marker := "  "
		if e.session.ID == currentID {
			style = m.theme.HistorySel
		}
		if i == m.cursor && m.focus == focusHistory {
			marker = "> "
			style = m.theme.HistorySel
		}
		b.WriteString(marker + style.Render(title))
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
