package pipeline

import (
	"fmt"
	"strings"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/types"
)

// ExplainInput is one item handed to the LLM explainer: the ranked item plus
// the profile context it should ground the explanation in.
type ExplainInput struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Topics        []string `json:"topics"`
	Score         int      `json:"score"`
	ProfileTopics []string `json:"profile_topics,omitempty"`
}

// templatedWhy builds a deterministic explanation when the LLM path is
// unavailable or didn't cover the item. Anonymous callers get a page-centric
// line since there is no profile to reference.
func templatedWhy(fp types.ContentFingerprint, prof *types.UserProfile, authenticated bool) string {
	topics := displayTopics(fp.Topics)

	if !authenticated {
		if len(topics) == 0 {
			return "Prominent content on this page."
		}
		return fmt.Sprintf("Prominent content about %s.", joinTopics(topics))
	}

	if matching := matchingInterests(fp.Topics, prof); len(matching) > 0 {
		why := fmt.Sprintf("Matches your interest in %s.", joinTopics(matching))
		if liked := voiceLikedMatch(fp.Topics, prof.VoicePreferences); liked != "" {
			why += fmt.Sprintf(" You mentioned liking %s.", liked)
		}
		return why
	}

	if len(topics) == 0 {
		return "General content from this page."
	}
	return fmt.Sprintf("Related to %s.", joinTopics(topics))
}

// matchingInterests returns the item topics the user holds positive affinity
// for, in the item's topic order.
func matchingInterests(topics []string, prof *types.UserProfile) []string {
	if prof == nil {
		return nil
	}
	var matches []string
	for _, t := range topics {
		if prof.TopicAffinity[types.NormalizeTopic(t)] > 0 {
			matches = append(matches, t)
		}
	}
	return matches
}

// voiceLikedMatch returns the first voice-liked topic that matches one of the
// item's topics, or "".
func voiceLikedMatch(topics []string, prefs *types.VoicePreferences) string {
	if prefs == nil {
		return ""
	}
	for _, pref := range prefs.Topics {
		if pref.Sentiment != types.SentimentLike {
			continue
		}
		want := types.NormalizeTopic(pref.Topic)
		for _, t := range topics {
			if types.NormalizeTopic(t) == want {
				return pref.Topic
			}
		}
	}
	return ""
}

// displayTopics drops the fallback topic from user-facing text.
func displayTopics(topics []string) []string {
	var out []string
	for _, t := range topics {
		if types.NormalizeTopic(t) == config.FallbackTopic {
			continue
		}
		out = append(out, t)
	}
	return out
}

func joinTopics(topics []string) string {
	if len(topics) > 2 {
		topics = topics[:2]
	}
	return strings.Join(topics, " and ")
}
