package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammanoj/interestlens/demo/client"
	"github.com/iammanoj/interestlens/demo/feed"
	"github.com/iammanoj/interestlens/types"
)

const commandTimeout = 60 * time.Second

// fetchPage loads the feed and lays it out as a synthetic page.
func fetchPage(feedURL string, maxItems int) tea.Cmd {
	return func() tea.Msg {
		req, err := feed.FetchPage(feedURL, maxItems)
		return PageFetchedMsg{Request: req, Err: err}
	}
}

// analyzePage sends the page to the engine for ranking.
func analyzePage(c *client.Client, userID string, req types.AnalyzePageRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		req.UserID = userID
		resp, err := c.AnalyzePage(ctx, req)
		return AnalyzedMsg{Response: resp, Err: err}
	}
}

// sendEvent records one interaction with an item.
func sendEvent(c *client.Client, userID string, event types.EventType, item types.ScoredItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		_, err := c.SendEvent(ctx, types.EventRequest{
			UserID:     userID,
			Event:      event,
			ItemID:     item.ID,
			ItemTopics: item.Topics,
			Timestamp:  time.Now().Unix(),
		})
		return EventSentMsg{Event: event, Item: item.ID, Err: err}
	}
}
