package tui

import "github.com/iammanoj/interestlens/types"

// PageFetchedMsg is sent when the feed has been fetched and laid out.
type PageFetchedMsg struct {
	Request *types.AnalyzePageRequest
	Err     error
}

// AnalyzedMsg is sent when the engine returns a ranked page.
type AnalyzedMsg struct {
	Response *types.AnalyzePageResponse
	Err      error
}

// EventSentMsg is sent after an interaction event has been recorded.
type EventSentMsg struct {
	Event types.EventType
	Item  string
	Err   error
}

// ErrorMsg carries an unrecoverable error into the model.
type ErrorMsg struct {
	Err error
}
