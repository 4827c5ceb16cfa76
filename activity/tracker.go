// Package activity ingests ambient browsing activity (page visits, clicks)
// and folds time-spent per category into profile affinities with diminishing
// returns, so heavy browsing of one category saturates instead of dominating
// explicit feedback.
package activity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

// Store persists per-user activity history. Implementations cap the list at
// max entries and expire it after ttl of inactivity.
type Store interface {
	Append(ctx context.Context, userID string, activities []types.Activity, max int, ttl time.Duration) error
	List(ctx context.Context, userID string, limit int) ([]types.Activity, error)
	Close() error
}

// Tracker records activity batches and updates category affinities.
type Tracker struct {
	store    Store
	profiles *profile.Store
}

// NewTracker creates a Tracker. profiles may be nil to disable affinity
// updates (history only).
func NewTracker(store Store, profiles *profile.Store) *Tracker {
	return &Tracker{store: store, profiles: profiles}
}

// Track stores one batch of activities and applies the derived category
// affinity updates to the user's profile.
func (t *Tracker) Track(ctx context.Context, userID string, activities []types.Activity) (*types.TrackActivityResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required for activity tracking")
	}
	if len(activities) == 0 {
		return &types.TrackActivityResponse{Status: "ok"}, nil
	}

	if err := t.store.Append(ctx, userID, activities, config.MaxActivitiesPerUser, config.ActivityTTL); err != nil {
		return nil, fmt.Errorf("failed to store activities for %s: %w", userID, err)
	}

	minutesByCategory := aggregateMinutes(activities)
	updated := make([]string, 0, len(minutesByCategory))
	for category := range minutesByCategory {
		updated = append(updated, category)
	}
	sort.Strings(updated)

	if t.profiles != nil && len(minutesByCategory) > 0 {
		err := t.profiles.Update(ctx, userID, func(p *types.UserProfile) {
			for category, minutes := range minutesByCategory {
				key := types.NormalizeTopic(category)
				increment := math.Min(config.ActivityAffinityPerBatch, minutes*config.ActivityAffinityWeight)
				current := p.TopicAffinity[key]
				// Diminishing returns: gains shrink as affinity approaches the
				// cap and never exceed it. An affinity pushed above the cap by
				// explicit feedback settles back to the cap on the next batch.
				next := current + increment*(1-current/config.ActivityAffinityCap)
				p.TopicAffinity[key] = math.Min(config.ActivityAffinityCap, next)
			}
			p.InteractionCount++
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update affinities for %s: %w", userID, err)
		}
	}

	return &types.TrackActivityResponse{
		Status:              "ok",
		ActivitiesProcessed: len(activities),
		CategoriesUpdated:   updated,
	}, nil
}

// History returns the most recent activities plus per-domain and per-category
// aggregates.
func (t *Tracker) History(ctx context.Context, userID string, limit int) (*types.ActivityHistoryResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required for activity history")
	}
	if limit <= 0 {
		limit = 100
	}

	activities, err := t.store.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities for %s: %w", userID, err)
	}

	return &types.ActivityHistoryResponse{
		Activities:    activities,
		TotalCount:    len(activities),
		DomainStats:   domainStats(activities),
		CategoryStats: categoryStats(activities),
	}, nil
}

// aggregateMinutes sums time spent per category across a batch. Activities
// without a category or time are skipped.
func aggregateMinutes(activities []types.Activity) map[string]float64 {
	minutes := make(map[string]float64)
	for _, a := range activities {
		category := stringField(a.Data, "category")
		if category == "" {
			continue
		}
		seconds := numberField(a.Data, "time_spent")
		if seconds <= 0 {
			continue
		}
		minutes[category] += seconds / 60
	}
	return minutes
}

func domainStats(activities []types.Activity) []types.DomainStats {
	byDomain := make(map[string]*types.DomainStats)
	for _, a := range activities {
		if a.SourceDomain == "" {
			continue
		}
		s, ok := byDomain[a.SourceDomain]
		if !ok {
			s = &types.DomainStats{Domain: a.SourceDomain}
			byDomain[a.SourceDomain] = s
		}
		s.VisitCount++
		s.TotalTimeSpent += int64(numberField(a.Data, "time_spent"))
	}
	return sortedDomainStats(byDomain)
}

func categoryStats(activities []types.Activity) []types.CategoryStats {
	byCategory := make(map[string]*types.CategoryStats)
	for _, a := range activities {
		category := stringField(a.Data, "category")
		if category == "" {
			continue
		}
		s, ok := byCategory[category]
		if !ok {
			s = &types.CategoryStats{Category: category}
			byCategory[category] = s
		}
		s.VisitCount++
		s.TotalTimeSpent += int64(numberField(a.Data, "time_spent"))
	}

	stats := make([]types.CategoryStats, 0, len(byCategory))
	for _, s := range byCategory {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].VisitCount != stats[j].VisitCount {
			return stats[i].VisitCount > stats[j].VisitCount
		}
		return stats[i].Category < stats[j].Category
	})
	return stats
}

func sortedDomainStats(byDomain map[string]*types.DomainStats) []types.DomainStats {
	stats := make([]types.DomainStats, 0, len(byDomain))
	for _, s := range byDomain {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].VisitCount != stats[j].VisitCount {
			return stats[i].VisitCount > stats[j].VisitCount
		}
		return stats[i].Domain < stats[j].Domain
	})
	return stats
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

// numberField reads a numeric field, tolerating the float64 that JSON
// decoding produces as well as plain ints from in-process callers.
func numberField(data map[string]interface{}, key string) float64 {
	if data == nil {
		return 0
	}
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
