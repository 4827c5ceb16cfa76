package profile

import (
	"math"
	"testing"

	"github.com/iammanoj/interestlens/types"
)

func TestClickIncrementsAffinityExactly(t *testing.T) {
	p := types.NewUserProfile("u1")
	p.TopicAffinity["ai/ml"] = 0.7

	err := ApplyEvent(p, types.Event{Type: types.EventClick, Topics: []string{"AI/ML"}})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	if got := p.TopicAffinity["ai/ml"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("click should add exactly 0.3: got %f, want 1.0", got)
	}
	if p.InteractionCount != 1 {
		t.Errorf("interaction count = %d, want 1", p.InteractionCount)
	}
}

func TestThumbsDownPenalty(t *testing.T) {
	p := types.NewUserProfile("u1")
	p.TopicAffinity["crypto"] = 0.5
	p.TextVector = []float32{0.1, 0.2, 0.3}
	before := append([]float32(nil), p.TextVector...)

	err := ApplyEvent(p, types.Event{
		Type:      types.EventThumbsDown,
		Topics:    []string{"crypto"},
		Embedding: []float32{0.9, 0.9, 0.9},
	})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	if got := p.TopicAffinity["crypto"]; math.Abs(got-0.4) > 1e-9 {
		t.Errorf("thumbs-down should subtract exactly 0.1: got %f, want 0.4", got)
	}
	for i := range before {
		if p.TextVector[i] != before[i] {
			t.Fatalf("thumbs-down must not modify the text vector: %v -> %v", before, p.TextVector)
		}
	}
}

func TestEMATextVectorUpdate(t *testing.T) {
	p := types.NewUserProfile("u1")
	p.TextVector = []float32{1, 0}

	err := ApplyEvent(p, types.Event{
		Type:      types.EventClick,
		Topics:    []string{"science"},
		Embedding: []float32{0, 1},
	})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	// 0.85*old + 0.15*new
	if math.Abs(float64(p.TextVector[0])-0.85) > 1e-6 {
		t.Errorf("TextVector[0] = %f, want 0.85", p.TextVector[0])
	}
	if math.Abs(float64(p.TextVector[1])-0.15) > 1e-6 {
		t.Errorf("TextVector[1] = %f, want 0.15", p.TextVector[1])
	}
}

func TestFirstEmbeddingSeedsCentroid(t *testing.T) {
	p := types.NewUserProfile("u1")

	err := ApplyEvent(p, types.Event{
		Type:      types.EventThumbsUp,
		Topics:    []string{"music"},
		Embedding: []float32{0.4, 0.6},
	})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	if p.TextVector[0] != 0.4 || p.TextVector[1] != 0.6 {
		t.Errorf("first embedding should seed the centroid directly, got %v", p.TextVector)
	}
	if math.Abs(p.TopicAffinity["music"]-0.5) > 1e-9 {
		t.Errorf("thumbs-up should add 0.5, got %f", p.TopicAffinity["music"])
	}
}

func TestDwellEvent(t *testing.T) {
	p := types.NewUserProfile("u1")

	err := ApplyEvent(p, types.Event{Type: types.EventDwell, Topics: []string{"design"}})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}
	if math.Abs(p.TopicAffinity["design"]-0.1) > 1e-9 {
		t.Errorf("dwell should add 0.1, got %f", p.TopicAffinity["design"])
	}
}

func TestUnknownEventRejected(t *testing.T) {
	p := types.NewUserProfile("u1")
	if err := ApplyEvent(p, types.Event{Type: "purchase"}); err == nil {
		t.Error("expected an error for an unknown event type")
	}
	if p.InteractionCount != 0 {
		t.Error("rejected events must not count as interactions")
	}
}

func TestVoiceOnboardingMerge(t *testing.T) {
	p := types.NewUserProfile("u1")
	p.TopicAffinity["space"] = 0.2

	prefs := &types.VoicePreferences{
		Confidence: 0.9,
		Topics: []types.TopicPreference{
			{
				Topic:          "space",
				Sentiment:      types.SentimentLike,
				Intensity:      0.8,
				Subtopics:      []string{"rockets"},
				AvoidSubtopics: []string{"astrology"},
			},
			{Topic: "crypto", Sentiment: types.SentimentDislike, Intensity: 0.6},
			{Topic: "podcasts", Sentiment: types.SentimentNeutral, Intensity: 1.0},
		},
	}

	err := ApplyEvent(p, types.Event{Type: types.EventVoiceComplete, Voice: prefs})
	if err != nil {
		t.Fatalf("ApplyEvent failed: %v", err)
	}

	if got := p.TopicAffinity["space"]; math.Abs(got-1.0) > 1e-9 {
		t.Errorf("liked topic should gain intensity additively: got %f, want 1.0", got)
	}
	if got := p.TopicAffinity["rockets"]; math.Abs(got-0.64) > 1e-9 {
		t.Errorf("subtopic should gain 0.8*intensity: got %f, want 0.64", got)
	}
	if got := p.TopicAffinity["astrology"]; math.Abs(got-(-0.5)) > 1e-9 {
		t.Errorf("avoided subtopic should lose a flat 0.5: got %f", got)
	}
	if got := p.TopicAffinity["crypto"]; math.Abs(got-(-0.6)) > 1e-9 {
		t.Errorf("disliked topic should lose intensity: got %f", got)
	}
	if _, ok := p.TopicAffinity["podcasts"]; ok {
		t.Error("neutral preferences must not create affinity entries")
	}
	if !p.VoiceOnboardingComplete || p.VoicePreferences == nil {
		t.Error("onboarding completion should be recorded on the profile")
	}
}

func TestRepeatedVoiceOnboardingCompounds(t *testing.T) {
	p := types.NewUserProfile("u1")
	prefs := &types.VoicePreferences{
		Topics: []types.TopicPreference{
			{Topic: "gaming", Sentiment: types.SentimentLike, Intensity: 0.5},
		},
	}

	for i := 0; i < 3; i++ {
		if err := ApplyEvent(p, types.Event{Type: types.EventVoiceComplete, Voice: prefs}); err != nil {
			t.Fatalf("ApplyEvent failed: %v", err)
		}
	}

	if got := p.TopicAffinity["gaming"]; math.Abs(got-1.5) > 1e-9 {
		t.Errorf("repeated onboarding should compound additively: got %f, want 1.5", got)
	}
}
