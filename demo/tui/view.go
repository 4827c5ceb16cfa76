package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	user := m.UserID
	if user == "" {
		user = "anonymous"
	}
	b.WriteString(TitleStyle.Render(fmt.Sprintf("🔎 InterestLens Demo — %s as %s", m.FeedName, user)))
	b.WriteString("\n\n")

	switch m.State {
	case StateFetching:
		b.WriteString(StatusStyle.Render("⏳ Fetching feed..."))
	case StateAnalyzing:
		b.WriteString(StatusStyle.Render("🧠 Analyzing page..."))
	case StateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", m.Err)))
	case StateBrowsing:
		b.WriteString(m.renderResults())
	}
	b.WriteString("\n\n")

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, line := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.State == StateBrowsing {
		b.WriteString(InfoStyle.Render("↑/↓ select | enter: click | u: 👍 | x: 👎 | r: re-rank | q: quit"))
	} else {
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}
	return b.String()
}

func (m Model) renderResults() string {
	if m.Result == nil || len(m.Result.Items) == 0 {
		return InfoStyle.Render("No items to show")
	}

	var b strings.Builder
	if len(m.Result.PageTopics) > 0 {
		b.WriteString(InfoStyle.Render("Page topics: " + strings.Join(m.Result.PageTopics, ", ")))
		b.WriteString("\n")
	}
	if m.Result.ProfileSummary != nil && len(m.Result.ProfileSummary.TopTopics) > 0 {
		interests := make([]string, 0, len(m.Result.ProfileSummary.TopTopics))
		for _, e := range m.Result.ProfileSummary.TopTopics {
			interests = append(interests, fmt.Sprintf("%s (%.1f)", e.Topic, e.Affinity))
		}
		b.WriteString(InfoStyle.Render("Your interests: " + strings.Join(interests, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.Result.Items {
		line := fmt.Sprintf("%s  %s", ScoreStyle.Render(fmt.Sprintf("%3d", item.Score)),
			truncate(m.itemTitle(item.ID), 64))
		if i == m.Cursor {
			line = SelectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.Cursor && item.Why != "" {
			b.WriteString(InfoStyle.Render("      " + item.Why))
			b.WriteString("\n")
		}
	}
	return BoxStyle.Render(b.String())
}
