package profile

import (
	"fmt"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/types"
)

// ApplyEvent mutates profile according to one interaction event. It is meant
// to run inside Store.Update so writes stay serialized per user. Unknown event
// types are rejected at this boundary.
func ApplyEvent(profile *types.UserProfile, event types.Event) error {
	if !types.KnownEventType(event.Type) {
		return fmt.Errorf("unknown event type %q", event.Type)
	}

	switch event.Type {
	case types.EventClick:
		bumpTopics(profile, event.Topics, config.ClickAffinityDelta)
		updateTextVector(profile, event.Embedding)
	case types.EventThumbsUp:
		bumpTopics(profile, event.Topics, config.ThumbsUpAffinityDelta)
		updateTextVector(profile, event.Embedding)
	case types.EventThumbsDown:
		// Negative signal penalizes topic weight only; it must not pull the
		// text centroid toward the disliked item.
		bumpTopics(profile, event.Topics, -config.ThumbsDownAffinityDelta)
	case types.EventDwell:
		bumpTopics(profile, event.Topics, config.DwellAffinityDelta)
		updateTextVector(profile, event.Embedding)
	case types.EventVoiceComplete:
		applyVoicePreferences(profile, event.Voice)
	}

	profile.InteractionCount++
	return nil
}

func bumpTopics(profile *types.UserProfile, topics []string, delta float64) {
	for _, topic := range topics {
		key := types.NormalizeTopic(topic)
		if key == "" {
			continue
		}
		profile.TopicAffinity[key] += delta
	}
}

// updateTextVector folds the item embedding into the profile centroid with an
// exponential moving average. The first embedding seeds the centroid directly.
func updateTextVector(profile *types.UserProfile, embedding []float32) {
	if len(embedding) == 0 {
		return
	}
	if len(profile.TextVector) != len(embedding) {
		profile.TextVector = append([]float32(nil), embedding...)
		return
	}
	const alpha = config.EMADecay
	for i, v := range embedding {
		profile.TextVector[i] = alpha*profile.TextVector[i] + (1-alpha)*v
	}
}

// applyVoicePreferences merges voice-derived preferences into topic affinities.
// The merge is additive over existing values, so repeated onboarding sessions
// compound rather than reset prior affinities.
func applyVoicePreferences(profile *types.UserProfile, prefs *types.VoicePreferences) {
	if prefs == nil {
		return
	}

	for _, pref := range prefs.Topics {
		key := types.NormalizeTopic(pref.Topic)
		if key == "" {
			continue
		}

		var sign float64
		switch pref.Sentiment {
		case types.SentimentLike:
			sign = 1
		case types.SentimentDislike:
			sign = -1
		case types.SentimentNeutral:
			sign = 0
		}

		if sign != 0 {
			profile.TopicAffinity[key] += sign * pref.Intensity
			for _, sub := range pref.Subtopics {
				subKey := types.NormalizeTopic(sub)
				if subKey == "" {
					continue
				}
				profile.TopicAffinity[subKey] += sign * pref.Intensity * config.VoiceSubtopicScale
			}
		}

		for _, avoid := range pref.AvoidSubtopics {
			avoidKey := types.NormalizeTopic(avoid)
			if avoidKey == "" {
				continue
			}
			profile.TopicAffinity[avoidKey] -= config.VoiceAvoidAffinityDelta
		}
	}

	profile.VoicePreferences = prefs
	profile.VoiceOnboardingComplete = true
}
