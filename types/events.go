package types

// EventType identifies an interaction event kind.
type EventType string

const (
	EventClick         EventType = "click"
	EventThumbsUp      EventType = "thumbs_up"
	EventThumbsDown    EventType = "thumbs_down"
	EventDwell         EventType = "dwell"
	EventVoiceComplete EventType = "voice_onboarding_complete"
)

// KnownEventType reports whether t is an event the updater handles.
func KnownEventType(t EventType) bool {
	switch t {
	case EventClick, EventThumbsUp, EventThumbsDown, EventDwell, EventVoiceComplete:
		return true
	}
	return false
}

// Event is one interaction applied to a user profile. Topics and Embedding
// describe the item the user interacted with; Voice is set only for
// voice_onboarding_complete events.
type Event struct {
	Type      EventType         `json:"type"`
	ItemID    string            `json:"item_id,omitempty"`
	Topics    []string          `json:"topics,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
	Voice     *VoicePreferences `json:"voice,omitempty"`
}
