package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

func encode(t *testing.T, req types.EventRequest) []byte {
	t.Helper()
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to encode event: %v", err)
	}
	return raw
}

func TestApplyUpdatesProfile(t *testing.T) {
	profiles := profile.NewStore(nil)
	applier := NewApplier(profiles)
	ctx := context.Background()

	settled, err := applier.Apply(ctx, encode(t, types.EventRequest{
		UserID:     "u1",
		Event:      types.EventClick,
		ItemTopics: []string{"space"},
	}))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !settled {
		t.Error("a successfully applied event should be settled")
	}

	p, _ := profiles.Get(ctx, "u1")
	if p.TopicAffinity["space"] == 0 {
		t.Error("event did not reach the profile")
	}
}

func TestMalformedMessageIsSettled(t *testing.T) {
	applier := NewApplier(profile.NewStore(nil))

	settled, err := applier.Apply(context.Background(), []byte("{not json"))
	if err != nil {
		t.Fatalf("malformed messages should not error: %v", err)
	}
	if !settled {
		t.Error("malformed messages must be settled; redelivery cannot fix them")
	}
}

func TestAnonymousEventIsSettledWithoutUpdate(t *testing.T) {
	profiles := profile.NewStore(nil)
	applier := NewApplier(profiles)

	settled, err := applier.Apply(context.Background(), encode(t, types.EventRequest{
		Event:      types.EventClick,
		ItemTopics: []string{"space"},
	}))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !settled {
		t.Error("anonymous events should be settled")
	}
}

func TestUnknownEventTypeIsSettled(t *testing.T) {
	applier := NewApplier(profile.NewStore(nil))

	settled, err := applier.Apply(context.Background(), encode(t, types.EventRequest{
		UserID: "u1",
		Event:  "purchase",
	}))
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !settled {
		t.Error("unknown event types should be settled, not redelivered")
	}
}
