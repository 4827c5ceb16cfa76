package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

// Applier decodes event messages and applies them to profiles. It is shared
// by the Kafka consumer and any future batch ingestion path.
type Applier struct {
	profiles *profile.Store
}

// NewApplier creates an Applier over the given profile store.
func NewApplier(profiles *profile.Store) *Applier {
	return &Applier{profiles: profiles}
}

// Apply decodes one EventRequest message and applies it. The bool result
// reports whether the message is settled: malformed, anonymous, or
// unknown-type events are settled (retrying cannot fix them), while backend
// failures are not, so the caller can redeliver.
func (a *Applier) Apply(ctx context.Context, message []byte) (bool, error) {
	var req types.EventRequest
	if err := json.Unmarshal(message, &req); err != nil {
		log.Printf("Warning: dropping malformed event message: %v", err)
		return true, nil
	}

	if req.UserID == "" {
		// Anonymous events carry nothing to update
		return true, nil
	}
	if !types.KnownEventType(req.Event) {
		log.Printf("Warning: dropping event with unknown type %q for user %s", req.Event, req.UserID)
		return true, nil
	}

	event := types.Event{
		Type:      req.Event,
		ItemID:    req.ItemID,
		Topics:    req.ItemTopics,
		Embedding: req.Embedding,
		Voice:     req.Voice,
	}

	err := a.profiles.Update(ctx, req.UserID, func(p *types.UserProfile) {
		// Type is validated above, so ApplyEvent cannot fail
		_ = profile.ApplyEvent(p, event)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
