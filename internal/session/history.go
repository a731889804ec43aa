// File: internal/session/history.go
package session

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// HistoryEntry is one row of the sidebar projection. It carries identity and
// display fields only; messages are never projected into the list.
type HistoryEntry struct {
	ID      ConversationID
	Title   string
	Subject string
	Preview string
	TimeAgo string
	Updated time.Time
	Active  bool
	Unsaved bool
}

// History projects the conversation list for display, most recently updated
// first. A non-empty search filters by title or preview, case-insensitive.
// The projection is derived from manager state on every call; nothing is
// cached.
func (m *Manager) History(search string) []HistoryEntry {
	search = strings.ToLower(strings.TrimSpace(search))

	m.mu.Lock()
	entries := make([]HistoryEntry, 0, len(m.conversations))
	for _, c := range m.conversations {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.title), search) &&
			!strings.Contains(strings.ToLower(c.preview), search) {
			continue
		}
		entries = append(entries, HistoryEntry{
			ID:      c.id,
			Title:   c.title,
			Subject: c.subject,
			Preview: c.preview,
			TimeAgo: FormatTimeAgo(c.updatedAt, m.now()),
			Updated: c.updatedAt,
			Active:  c.id == m.active,
			Unsaved: c.id.IsEphemeral(),
		})
	}
	m.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Updated.After(entries[j].Updated)
	})
	return entries
}

// FormatTimeAgo renders a coarse relative timestamp for history rows.
func FormatTimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return "Just now"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d < 30*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		months := int(d.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	}
}
