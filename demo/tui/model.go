// Package tui is an interactive terminal demo: it fetches a feed, has the
// engine rank it for a user, and lets you click or rate items to watch the
// ranking adapt on the next refresh.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammanoj/interestlens/demo/client"
	"github.com/iammanoj/interestlens/types"
)

// State represents the demo state machine.
type State string

const (
	StateFetching  State = "fetching"
	StateAnalyzing State = "analyzing"
	StateBrowsing  State = "browsing"
	StateError     State = "error"
)

// Model holds the demo's UI state.
type Model struct {
	Client   *client.Client
	UserID   string
	FeedName string
	FeedURL  string
	MaxItems int

	State   State
	Request *types.AnalyzePageRequest
	Result  *types.AnalyzePageResponse
	Cursor  int
	Logs    []string
	Err     error
}

// NewModel creates a demo model for the given engine URL and feed.
func NewModel(engineURL, userID, feedName, feedURL string, maxItems int) Model {
	return Model{
		Client:   client.NewClient(engineURL),
		UserID:   userID,
		FeedName: feedName,
		FeedURL:  feedURL,
		MaxItems: maxItems,
		State:    StateFetching,
		Logs:     make([]string, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return fetchPage(m.FeedURL, m.MaxItems)
}

// AddLog appends a timestamped line, keeping the last few.
func (m Model) AddLog(format string, args ...interface{}) Model {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > 6 {
		m.Logs = m.Logs[len(m.Logs)-6:]
	}
	return m
}

// selectedItem returns the item under the cursor, or nil.
func (m Model) selectedItem() *types.ScoredItem {
	if m.Result == nil || m.Cursor < 0 || m.Cursor >= len(m.Result.Items) {
		return nil
	}
	return &m.Result.Items[m.Cursor]
}

// itemTitle looks up the original text for a scored item.
func (m Model) itemTitle(id string) string {
	if m.Request == nil {
		return id
	}
	for _, item := range m.Request.Items {
		if item.ID == id {
			return item.Text
		}
	}
	return id
}
