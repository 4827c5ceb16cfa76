package config

import "time"

// Scoring Model Constants
//
// The interest score is a weighted blend of independent signals, each centered
// around its neutral value so that an empty profile lands on the midpoint of
// the sigmoid. Weights are fixed; they are not tunable per request.
const (
	// WeightText weighs cosine similarity between the item embedding and the
	// user's text-interest centroid
	WeightText = 0.35

	// WeightTopic weighs the sigmoid-normalized sum of topic affinities
	WeightTopic = 0.30

	// WeightDomain weighs the user's affinity for the item's source domain
	WeightDomain = 0.15

	// WeightProminence weighs the item's on-page prominence
	WeightProminence = 0.10

	// WeightImage weighs image-embedding similarity when both vectors exist
	WeightImage = 0.10

	// ScoreSlope steepens the sigmoid that maps the raw blend onto 0-100
	ScoreSlope = 5.0

	// NeutralAffinity is the domain affinity assumed for unseen domains
	NeutralAffinity = 0.5

	// NeutralImageScore is used when image embeddings are unavailable
	NeutralImageScore = 0.5
)

// Voice Preference Adjustments
//
// Applied on the 0-100 scale after the sigmoid mapping, then clamped.
const (
	// VoiceLikeBonus per matching liked topic, scaled by intensity
	VoiceLikeBonus = 15.0

	// VoiceDislikePenalty per matching disliked topic, scaled by intensity
	VoiceDislikePenalty = 20.0

	// VoiceSubtopicBonus per matching subtopic of a liked topic, scaled by intensity
	VoiceSubtopicBonus = 10.0

	// VoiceAvoidPenalty is a flat penalty per matching avoided subtopic
	VoiceAvoidPenalty = 15.0
)

// Profile Learning Constants
const (
	// EMADecay is the decay factor for the text-vector exponential moving average
	EMADecay = 0.85

	// ClickAffinityDelta is added to each item topic on a click
	ClickAffinityDelta = 0.3

	// ThumbsUpAffinityDelta is added to each item topic on a thumbs-up
	ThumbsUpAffinityDelta = 0.5

	// ThumbsDownAffinityDelta is subtracted from each item topic on a thumbs-down
	ThumbsDownAffinityDelta = 0.1

	// DwellAffinityDelta is added to each item topic on a dwell event
	DwellAffinityDelta = 0.1

	// VoiceSubtopicScale scales a parent preference's intensity for its subtopics
	VoiceSubtopicScale = 0.8

	// VoiceAvoidAffinityDelta is the flat affinity hit for avoided subtopics
	VoiceAvoidAffinityDelta = 0.5
)

// Fingerprint Constants
const (
	// MaxFingerprintText caps the text captured per page item
	MaxFingerprintText = 500

	// FoldHeight is the page-coordinate depth considered above the fold
	FoldHeight = 1000.0

	// ReferenceArea is the bbox area (px^2) that earns a full size score
	ReferenceArea = 250000.0

	// ProminenceVerticalWeight weighs vertical position in the prominence blend
	ProminenceVerticalWeight = 0.7

	// ProminenceAreaWeight weighs relative size in the prominence blend
	ProminenceAreaWeight = 0.3
)

// Pipeline Constants
const (
	// MaxExtractConcurrency bounds parallel classification/embedding calls per request
	MaxExtractConcurrency = 8

	// ExplainTopN limits LLM-generated explanations to the highest-ranked items
	ExplainTopN = 5

	// FallbackTopic is assigned when classification fails or returns nothing
	FallbackTopic = "other"

	// PageTopicLimit caps the number of page-level topics in a response
	PageTopicLimit = 5
)

// Cache Constants
const (
	// EmbeddingCacheTTL bounds how long a cached embedding+topics entry lives
	EmbeddingCacheTTL = time.Hour

	// EmbeddingDim is the dimensionality contract with the embedding service
	EmbeddingDim = 768
)

// Activity Tracking Constants
const (
	// ActivityTTL bounds how long per-user activity history is retained
	ActivityTTL = 30 * 24 * time.Hour

	// MaxActivitiesPerUser caps the stored activity list per user
	MaxActivitiesPerUser = 10000

	// ActivityAffinityWeight converts minutes of dwell time into affinity
	ActivityAffinityWeight = 0.1

	// ActivityAffinityPerBatch caps the affinity gain from one tracked batch
	ActivityAffinityPerBatch = 0.5

	// ActivityAffinityCap is the ceiling activity-driven affinity decays toward
	ActivityAffinityCap = 2.0
)

// TopicCategories is the classification taxonomy. Classification results
// outside this list are discarded.
var TopicCategories = []string{
	"AI/ML", "programming", "cloud/infrastructure", "cybersecurity",
	"startups", "developer tools", "open source", "mobile apps",
	"finance", "business strategy", "entrepreneurship", "marketing",
	"science", "research", "space", "climate",
	"gaming", "movies/TV", "music", "sports",
	"health", "productivity", "design", "travel", "food",
}
