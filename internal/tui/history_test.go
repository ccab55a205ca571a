package tui

import (
	"testing"
	"time"

	"studyroom/internal/app"
)

func historySession(title string, createdAt time.Time) app.ChatSession {
	return app.ChatSession{
		ID:        title,
		Title:     title,
		CreatedAt: createdAt,
		Messages: []app.ChatMessage{
			{Role: app.RoleUser, Content: "hi"},
		},
	}
}

func TestSidebarEntriesFlattenGroupsInOrder(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	groups := app.HistoryGroups([]app.ChatSession{
		historySession("old", now.AddDate(0, 0, -40)),
		historySession("fresh", now.Add(-time.Hour)),
		historySession("recent", now.AddDate(0, 0, -3)),
	}, now)

	entries := sidebarEntries(groups)
	if len(entries) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(entries))
	}

	want := []struct {
		header bool
		label  string
	}{
		{true, "Today"},
		{false, "fresh"},
		{true, "Last 7 days"},
		{false, "recent"},
		{true, "February"},
		{false, "old"},
	}
	for i, w := range want {
		if entries[i].header != w.header || entries[i].label != w.label {
			t.Fatalf("row %d: got header=%v label=%q, want header=%v label=%q",
				i, entries[i].header, entries[i].label, w.header, w.label)
		}
	}
	if entries[1].session.ID != "fresh" {
		t.Fatalf("session row lost its session: %+v", entries[1])
	}
}

func TestMoveCursorSkipsHeaders(t *testing.T) {
	m := &Model{entries: []sidebarEntry{
		{header: true, label: "Today"},
		{label: "a"},
		{header: true, label: "Yesterday"},
		{label: "b"},
		{label: "c"},
	}, cursor: 1}

	m.moveCursor(1)
	if m.cursor != 3 {
		t.Fatalf("expected cursor to skip header down to 3, got %d", m.cursor)
	}
	m.moveCursor(1)
	if m.cursor != 4 {
		t.Fatalf("expected cursor 4, got %d", m.cursor)
	}
	m.moveCursor(1)
	if m.cursor != 4 {
		t.Fatalf("cursor must stop at the last row, got %d", m.cursor)
	}
	m.moveCursor(-1)
	m.moveCursor(-1)
	if m.cursor != 1 {
		t.Fatalf("expected cursor to skip header up to 1, got %d", m.cursor)
	}
	m.moveCursor(-1)
	if m.cursor != 1 {
		t.Fatalf("cursor must not land on the leading header, got %d", m.cursor)
	}
}

func TestSelectedSessionIgnoresHeaders(t *testing.T) {
	sess := app.ChatSession{ID: "s1", Title: "algebra"}
	m := &Model{entries: []sidebarEntry{
		{header: true, label: "Today"},
		{label: "algebra", session: sess},
	}}

	m.cursor = 0
	if _, ok := m.selectedSession(); ok {
		t.Fatalf("header row must not yield a session")
	}
	m.cursor = 1
	got, ok := m.selectedSession()
	if !ok || got.ID != "s1" {
		t.Fatalf("expected session s1, got %+v ok=%v", got, ok)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"a longer session title", 10, "a longer …"},
		{"héllo wörld", 6, "héllo…"},
		{"anything", 1, "anything"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.max); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}
