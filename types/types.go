package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// BBox is an item's bounding rectangle in page coordinates.
type BBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns the rectangle's area, treating negative extents as zero.
func (b BBox) Area() float64 {
	if b.W <= 0 || b.H <= 0 {
		return 0
	}
	return b.W * b.H
}

// ContentFingerprint is the canonical representation of one detected page item.
// Fingerprints are request-scoped and immutable once scored; re-analysis builds
// new fingerprints rather than mutating old ones.
type ContentFingerprint struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	URL            string    `json:"url"`
	Domain         string    `json:"domain"`
	Topics         []string  `json:"topics,omitempty"`
	TextEmbedding  []float32 `json:"text_embedding,omitempty"`
	ImageEmbedding []float32 `json:"image_embedding,omitempty"`
	BBox           BBox      `json:"bbox"`
	Prominence     float64   `json:"prominence"`
}

// Sentiment tags a voice-derived topic preference. Unknown strings normalize
// to SentimentNeutral at the JSON boundary rather than leaking into scoring.
type Sentiment string

const (
	SentimentLike    Sentiment = "like"
	SentimentDislike Sentiment = "dislike"
	SentimentNeutral Sentiment = "neutral"
)

// NormalizeSentiment maps arbitrary sentiment strings onto the closed set.
func NormalizeSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "like", "likes", "love", "positive":
		return SentimentLike
	case "dislike", "dislikes", "hate", "avoid", "negative":
		return SentimentDislike
	default:
		return SentimentNeutral
	}
}

// UnmarshalJSON normalizes unknown sentiment values instead of rejecting them.
func (s *Sentiment) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NormalizeSentiment(raw)
	return nil
}

// TopicPreference is one topic-level preference extracted from voice onboarding.
type TopicPreference struct {
	Topic         string    `json:"topic"`
	Sentiment     Sentiment `json:"sentiment"`
	Intensity     float64   `json:"intensity"`
	Subtopics     []string  `json:"subtopics,omitempty"`
	AvoidSubtopics []string `json:"avoid_subtopics,omitempty"`
}

// VoicePreferences is the structured result of voice onboarding. The engine
// consumes it as-is; transcript parsing happens in the voice collaborator.
type VoicePreferences struct {
	Topics     []TopicPreference `json:"topics"`
	Confidence float64           `json:"confidence"`
}

// UserProfile is the per-user persistent interest state. Profiles are created
// lazily on first access and persist until an explicit clear. Writes go
// through the profile store's serialized update path only.
type UserProfile struct {
	UserID string `json:"user_id"`

	// TextVector is the EMA centroid of embeddings the user engaged with.
	// Empty until the first positive interaction carrying an embedding.
	TextVector  []float32 `json:"text_vector,omitempty"`
	ImageVector []float32 `json:"image_vector,omitempty"`

	// TopicAffinity maps case-normalized topics to signed, unbounded weights.
	TopicAffinity map[string]float64 `json:"topic_affinity"`

	// DomainAffinity maps normalized domains to [0,1] weights; absent keys
	// read as neutral (0.5).
	DomainAffinity map[string]float64 `json:"domain_affinity"`

	VoiceOnboardingComplete bool              `json:"voice_onboarding_complete"`
	VoicePreferences        *VoicePreferences `json:"voice_preferences,omitempty"`

	InteractionCount int `json:"interaction_count"`
}

// NewUserProfile returns an empty (cold start) profile for the given user.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:         userID,
		TopicAffinity:  make(map[string]float64),
		DomainAffinity: make(map[string]float64),
	}
}

// Clone returns a deep copy safe for lock-free concurrent reads.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := &UserProfile{
		UserID:                  p.UserID,
		VoiceOnboardingComplete: p.VoiceOnboardingComplete,
		InteractionCount:        p.InteractionCount,
		TopicAffinity:           make(map[string]float64, len(p.TopicAffinity)),
		DomainAffinity:          make(map[string]float64, len(p.DomainAffinity)),
	}
	if len(p.TextVector) > 0 {
		c.TextVector = append([]float32(nil), p.TextVector...)
	}
	if len(p.ImageVector) > 0 {
		c.ImageVector = append([]float32(nil), p.ImageVector...)
	}
	for k, v := range p.TopicAffinity {
		c.TopicAffinity[k] = v
	}
	for k, v := range p.DomainAffinity {
		c.DomainAffinity[k] = v
	}
	if p.VoicePreferences != nil {
		vp := VoicePreferences{
			Confidence: p.VoicePreferences.Confidence,
			Topics:     append([]TopicPreference(nil), p.VoicePreferences.Topics...),
		}
		c.VoicePreferences = &vp
	}
	return c
}

// TopTopics returns up to limit topics ordered by descending affinity.
func (p *UserProfile) TopTopics(limit int) []TopicAffinityEntry {
	entries := make([]TopicAffinityEntry, 0, len(p.TopicAffinity))
	for topic, affinity := range p.TopicAffinity {
		entries = append(entries, TopicAffinityEntry{Topic: topic, Affinity: affinity})
	}
	// Insertion sort keeps ties stable by topic name for deterministic output
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0; j-- {
			a, b := entries[j-1], entries[j]
			if b.Affinity > a.Affinity || (b.Affinity == a.Affinity && b.Topic < a.Topic) {
				entries[j-1], entries[j] = b, a
			} else {
				break
			}
		}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopicAffinityEntry pairs a topic with its affinity for summaries.
type TopicAffinityEntry struct {
	Topic    string  `json:"topic"`
	Affinity float64 `json:"affinity"`
}

// ScoredItem is the engine's output for one fingerprint: fully scored and
// explained, or absent from the response entirely.
type ScoredItem struct {
	ID     string   `json:"id"`
	Score  int      `json:"score"`
	Topics []string `json:"topics"`
	Why    string   `json:"why"`
}

// GenerateID creates a stable short identifier from a seed string.
func GenerateID(seed string) string {
	hash := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(hash[:])[:16]
}

// NormalizeTopic lowercases and trims a topic for use as an affinity key.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
