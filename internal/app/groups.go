package app

import (
	"fmt"
	"sort"
	"time"
)

// HistoryGroup is one date bucket of the history sidebar.
type HistoryGroup struct {
	Label    string
	Sessions []ChatSession
}

// Bucket labels. The 7/30/365 thresholds are product choices carried over
// from the dashboard; do not "fix" them.
const (
	labelToday      = "Today"
	labelYesterday  = "Yesterday"
	labelLast7Days  = "Last 7 days"
	labelLast30Days = "Last 30 days"
)

// HistoryGroups projects sessions into date-bucketed groups for display.
//
// Sessions without a user message are hidden. The result is ordered by
// CreatedAt descending, both across groups and within each group. The input
// is never mutated.
func HistoryGroups(sessions []ChatSession, now time.Time) []HistoryGroup {
	visible := make([]ChatSession, 0, len(sessions))
	for _, sess := range sessions {
		if sess.HasUserMessage() {
			visible = append(visible, sess)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	var groups []HistoryGroup
	for _, sess := range visible {
		label := historyLabel(sess.CreatedAt, now)
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Sessions = append(groups[n-1].Sessions, sess)
			continue
		}
		groups = append(groups, HistoryGroup{Label: label, Sessions: []ChatSession{sess}})
	}
	return groups
}

func historyLabel(createdAt, now time.Time) string {
	diff := calendarDaysBetween(createdAt, now)
	switch {
	case diff <= 0:
		return labelToday
	case diff == 1:
		return labelYesterday
	case diff <= 7:
		return labelLast7Days
	case diff <= 30:
		return labelLast30Days
	case diff < 365:
		return createdAt.Month().String()
	default:
		return fmt.Sprintf("%s %d", createdAt.Month(), createdAt.Year())
	}
}

// calendarDaysBetween counts whole calendar days from a to b. Comparing
// midnights instead of elapsed hours keeps a 23:59 session in "Yesterday"
// at 00:01, not in "Today".
func calendarDaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start) / (24 * time.Hour))
}
