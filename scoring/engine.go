// Package scoring implements the fixed-weight interest model. Scoring is a
// pure function of a fingerprint and a profile snapshot: identical inputs
// always produce identical scores, and there is no I/O on this path.
package scoring

import (
	"math"
	"strings"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/types"
)

// Score computes the 0-100 interest score for a fingerprint against a profile
// snapshot, and returns the topics that contributed to it.
//
// Each bounded signal is centered around its neutral value before weighting,
// so an empty profile with neutral prominence produces raw=0 and lands on
// sigmoid's midpoint (score 50) — the defined cold-start behavior. Voice
// preference adjustments are additive on the 0-100 scale after the mapping.
func Score(fp types.ContentFingerprint, profile *types.UserProfile) (int, []string) {
	if profile == nil {
		profile = types.NewUserProfile("")
	}

	simText := CosineSimilarity(fp.TextEmbedding, profile.TextVector)

	topicRaw := 0.0
	for _, topic := range fp.Topics {
		topicRaw += profile.TopicAffinity[types.NormalizeTopic(topic)]
	}
	topicTerm := sigmoid(topicRaw) - 0.5

	domainScore := config.NeutralAffinity
	if fp.Domain != "" {
		if v, ok := profile.DomainAffinity[fp.Domain]; ok {
			domainScore = v
		}
	}

	imageScore := config.NeutralImageScore
	if len(fp.ImageEmbedding) > 0 && len(profile.ImageVector) > 0 {
		imageScore = CosineSimilarity(fp.ImageEmbedding, profile.ImageVector)
	}

	raw := config.WeightText*simText +
		config.WeightTopic*topicTerm +
		config.WeightDomain*(domainScore-0.5) +
		config.WeightProminence*(fp.Prominence-0.5) +
		config.WeightImage*(imageScore-0.5)

	score := math.Round(sigmoid(raw*config.ScoreSlope) * 100)
	score += voiceAdjustment(fp, profile.VoicePreferences)

	return clampScore(score), fp.Topics
}

// voiceAdjustment sums the additive bonuses/penalties from voice-derived
// preferences against the fingerprint's topics and text.
func voiceAdjustment(fp types.ContentFingerprint, prefs *types.VoicePreferences) float64 {
	if prefs == nil {
		return 0
	}

	adjustment := 0.0
	for _, pref := range prefs.Topics {
		if matchesFingerprint(pref.Topic, fp) {
			switch pref.Sentiment {
			case types.SentimentLike:
				adjustment += config.VoiceLikeBonus * pref.Intensity
			case types.SentimentDislike:
				adjustment -= config.VoiceDislikePenalty * pref.Intensity
			}
		}

		if pref.Sentiment == types.SentimentLike {
			for _, sub := range pref.Subtopics {
				if matchesFingerprint(sub, fp) {
					adjustment += config.VoiceSubtopicBonus * pref.Intensity
				}
			}
		}

		for _, avoid := range pref.AvoidSubtopics {
			if matchesFingerprint(avoid, fp) {
				adjustment -= config.VoiceAvoidPenalty
			}
		}
	}
	return adjustment
}

// matchesFingerprint reports whether term matches one of the fingerprint's
// topics or appears in its text, case-insensitively.
func matchesFingerprint(term string, fp types.ContentFingerprint) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	for _, topic := range fp.Topics {
		lt := strings.ToLower(topic)
		if lt == term || strings.Contains(lt, term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(fp.Text), term)
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector is empty, mismatched in length, or zero-magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}
