package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammanoj/interestlens/types"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case PageFetchedMsg:
		return m.handlePageFetched(msg)
	case AnalyzedMsg:
		return m.handleAnalyzed(msg)
	case EventSentMsg:
		return m.handleEventSent(msg)
	case ErrorMsg:
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.State == StateBrowsing && m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.State == StateBrowsing && m.Result != nil && m.Cursor < len(m.Result.Items)-1 {
			m.Cursor++
		}
	case "enter":
		return m.recordEvent(types.EventClick)
	case "u", "U":
		return m.recordEvent(types.EventThumbsUp)
	case "x", "X":
		return m.recordEvent(types.EventThumbsDown)
	case "r", "R":
		if m.State == StateBrowsing && m.Request != nil {
			m.State = StateAnalyzing
			m = m.AddLog("Re-analyzing with the updated profile...")
			return m, analyzePage(m.Client, m.UserID, *m.Request)
		}
	}
	return m, nil
}

func (m Model) recordEvent(event types.EventType) (tea.Model, tea.Cmd) {
	if m.State != StateBrowsing {
		return m, nil
	}
	item := m.selectedItem()
	if item == nil {
		return m, nil
	}
	if m.UserID == "" {
		m = m.AddLog("Anonymous session: events are not recorded")
		return m, nil
	}
	return m, sendEvent(m.Client, m.UserID, event, *item)
}

func (m Model) handlePageFetched(msg PageFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Request = msg.Request
	m.State = StateAnalyzing
	m = m.AddLog("Fetched %d items from %s", len(msg.Request.Items), m.FeedName)
	return m, analyzePage(m.Client, m.UserID, *m.Request)
}

func (m Model) handleAnalyzed(msg AnalyzedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Result = msg.Response
	m.Cursor = 0
	m.State = StateBrowsing
	m = m.AddLog("Ranked %d items", len(msg.Response.Items))
	return m, nil
}

func (m Model) handleEventSent(msg EventSentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m = m.AddLog("Failed to record %s: %v", msg.Event, msg.Err)
		return m, nil
	}
	m = m.AddLog("Recorded %s on %q", msg.Event, truncate(m.itemTitle(msg.Item), 40))
	return m, nil
}

// truncate shortens a title for display, cutting on rune boundaries so
// multi-byte feed titles are not split mid-character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
