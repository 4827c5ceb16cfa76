package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestKeyNormalization(t *testing.T) {
	if Key("Hello  World") != Key("hello world") {
		t.Error("case and whitespace differences should map to the same key")
	}
	if Key("  hello\tworld\n") != Key("hello world") {
		t.Error("leading/trailing and mixed whitespace should normalize away")
	}
	if Key("hello world") == Key("hello mars") {
		t.Error("different text must not collide")
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entry := Entry{
		Embedding: []float32{0.1, 0.2, 0.3},
		Topics:    []string{"AI/ML", "startups"},
	}
	if err := store.Put(ctx, "Some Article Title", entry, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, hit, err := store.Get(ctx, "some article title")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected a hit after put")
	}
	if len(got.Embedding) != 3 || got.Embedding[1] != 0.2 {
		t.Errorf("embedding mismatch: %v", got.Embedding)
	}
	if len(got.Topics) != 2 || got.Topics[0] != "AI/ML" {
		t.Errorf("topics mismatch: %v", got.Topics)
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	store := NewMemoryStore()
	_, hit, err := store.Get(context.Background(), "never stored")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if hit {
		t.Error("expected a miss for unknown text")
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.Put(ctx, "expiring", Entry{Topics: []string{"other"}}, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	if _, hit, _ := store.Get(ctx, "expiring"); !hit {
		t.Fatal("expected a hit before expiry")
	}

	current = current.Add(2 * time.Minute)
	if _, hit, _ := store.Get(ctx, "expiring"); hit {
		t.Error("expected a miss after TTL expiry")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	entry := Entry{Embedding: []float32{1, 2}, Topics: []string{"science"}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "shared text", entry, time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = store.Get(ctx, "shared text")
		}()
	}
	wg.Wait()

	got, hit, err := store.Get(ctx, "shared text")
	if err != nil || !hit {
		t.Fatalf("expected hit after concurrent writes, hit=%v err=%v", hit, err)
	}
	if len(got.Embedding) != 2 {
		t.Errorf("corrupted entry after concurrent access: %v", got)
	}
}
