package activity

import (
	"context"
	"math"
	"testing"

	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

func visit(domain, category string, seconds float64) types.Activity {
	return types.Activity{
		Type:         "page_visit",
		SourceDomain: domain,
		Data: map[string]interface{}{
			"category":   category,
			"time_spent": seconds,
		},
	}
}

func TestTrackRequiresUserID(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), nil)
	if _, err := tracker.Track(context.Background(), "", []types.Activity{visit("a.com", "science", 60)}); err == nil {
		t.Error("anonymous activity tracking should be rejected")
	}
}

func TestTrackStoresAndReportsBatch(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), nil)

	resp, err := tracker.Track(context.Background(), "u1", []types.Activity{
		visit("news.example.com", "science", 120),
		visit("blog.example.com", "gaming", 30),
	})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if resp.ActivitiesProcessed != 2 {
		t.Errorf("ActivitiesProcessed = %d, want 2", resp.ActivitiesProcessed)
	}
	if len(resp.CategoriesUpdated) != 2 || resp.CategoriesUpdated[0] != "gaming" || resp.CategoriesUpdated[1] != "science" {
		t.Errorf("CategoriesUpdated = %v, want [gaming science]", resp.CategoriesUpdated)
	}
}

func TestAffinityGainIsCappedPerBatch(t *testing.T) {
	profiles := profile.NewStore(nil)
	tracker := NewTracker(NewMemoryStore(), profiles)
	ctx := context.Background()

	// 2 hours in one category: 120 minutes * 0.1 = 12, capped at 0.5 per batch
	_, err := tracker.Track(ctx, "u1", []types.Activity{visit("a.com", "science", 7200)})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	p, _ := profiles.Get(ctx, "u1")
	if got := p.TopicAffinity["science"]; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("first batch affinity = %f, want the 0.5 cap", got)
	}
}

func TestAffinityGainsDiminishTowardCap(t *testing.T) {
	profiles := profile.NewStore(nil)
	tracker := NewTracker(NewMemoryStore(), profiles)
	ctx := context.Background()

	var previous float64
	for i := 0; i < 50; i++ {
		if _, err := tracker.Track(ctx, "u1", []types.Activity{visit("a.com", "science", 7200)}); err != nil {
			t.Fatalf("Track failed: %v", err)
		}
		p, _ := profiles.Get(ctx, "u1")
		current := p.TopicAffinity["science"]
		if current < previous {
			t.Fatalf("affinity decreased: %f -> %f", previous, current)
		}
		previous = current
	}

	p, _ := profiles.Get(ctx, "u1")
	if got := p.TopicAffinity["science"]; got > 2.0 {
		t.Errorf("activity-driven affinity exceeded the cap: %f", got)
	}
	if got := p.TopicAffinity["science"]; got < 1.9 {
		t.Errorf("repeated batches should approach the cap: %f", got)
	}
}

func TestAboveCapAffinitySettlesBackToCap(t *testing.T) {
	profiles := profile.NewStore(nil)
	tracker := NewTracker(NewMemoryStore(), profiles)
	ctx := context.Background()

	// Explicit feedback (clicks, thumbs up) can push an affinity past the
	// activity cap; the next browsing batch must not leave it above the cap.
	err := profiles.Update(ctx, "u1", func(p *types.UserProfile) {
		p.TopicAffinity["science"] = 3.0
	})
	if err != nil {
		t.Fatalf("seeding profile failed: %v", err)
	}

	if _, err := tracker.Track(ctx, "u1", []types.Activity{visit("a.com", "science", 600)}); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	p, _ := profiles.Get(ctx, "u1")
	if got := p.TopicAffinity["science"]; math.Abs(got-2.0) > 1e-9 {
		t.Errorf("above-cap affinity after a batch = %f, want the 2.0 cap", got)
	}
}

func TestTrackCountsAsInteraction(t *testing.T) {
	profiles := profile.NewStore(nil)
	tracker := NewTracker(NewMemoryStore(), profiles)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := tracker.Track(ctx, "u1", []types.Activity{visit("a.com", "science", 60)}); err != nil {
			t.Fatalf("Track failed: %v", err)
		}
	}

	p, _ := profiles.Get(ctx, "u1")
	if p.InteractionCount != 3 {
		t.Errorf("InteractionCount = %d, want one per batch", p.InteractionCount)
	}
}

func TestHistoryAggregates(t *testing.T) {
	tracker := NewTracker(NewMemoryStore(), nil)
	ctx := context.Background()

	_, err := tracker.Track(ctx, "u1", []types.Activity{
		visit("news.example.com", "science", 100),
		visit("news.example.com", "science", 50),
		visit("blog.example.com", "gaming", 10),
	})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	hist, err := tracker.History(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if hist.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", hist.TotalCount)
	}
	if len(hist.DomainStats) != 2 || hist.DomainStats[0].Domain != "news.example.com" {
		t.Errorf("DomainStats = %+v, want news.example.com first", hist.DomainStats)
	}
	if hist.DomainStats[0].VisitCount != 2 || hist.DomainStats[0].TotalTimeSpent != 150 {
		t.Errorf("news.example.com stats = %+v", hist.DomainStats[0])
	}
	if len(hist.CategoryStats) != 2 || hist.CategoryStats[0].Category != "science" {
		t.Errorf("CategoryStats = %+v, want science first", hist.CategoryStats)
	}
}

func TestHistoryIsCapped(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, nil)
	ctx := context.Background()

	batch := make([]types.Activity, 20)
	for i := range batch {
		batch[i] = visit("a.com", "science", 1)
	}
	if _, err := tracker.Track(ctx, "u1", batch); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	hist, err := tracker.History(ctx, "u1", 5)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if hist.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want the requested limit of 5", hist.TotalCount)
	}
}

func TestActivitiesWithoutCategoryAreStoredButNotScored(t *testing.T) {
	profiles := profile.NewStore(nil)
	tracker := NewTracker(NewMemoryStore(), profiles)
	ctx := context.Background()

	resp, err := tracker.Track(ctx, "u1", []types.Activity{
		{Type: "click", SourceDomain: "a.com"},
	})
	if err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if resp.ActivitiesProcessed != 1 {
		t.Errorf("ActivitiesProcessed = %d, want 1", resp.ActivitiesProcessed)
	}
	if len(resp.CategoriesUpdated) != 0 {
		t.Errorf("CategoriesUpdated = %v, want none", resp.CategoriesUpdated)
	}

	p, _ := profiles.Get(ctx, "u1")
	if len(p.TopicAffinity) != 0 {
		t.Errorf("no affinities should change: %+v", p.TopicAffinity)
	}
}
