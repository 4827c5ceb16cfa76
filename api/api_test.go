package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/activity"
	"github.com/iammanoj/interestlens/pipeline"
	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

func newTestRouter() (*gin.Engine, *profile.Store) {
	gin.SetMode(gin.TestMode)
	profiles := profile.NewStore(nil)
	analyzer := pipeline.NewAnalyzer(pipeline.AnalyzerConfig{Profiles: profiles})
	tracker := activity.NewTracker(activity.NewMemoryStore(), profiles)
	return NewRouter(Deps{Analyzer: analyzer, Profiles: profiles, Tracker: tracker}), profiles
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestAnalyzePage(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/analyze_page", types.AnalyzePageRequest{
		PageURL: "https://example.com",
		Items: []types.PageItem{
			{ID: "a", Text: "a story", BBox: []float64{0, 100, 300, 200}},
			{ID: "b", Text: "another story", BBox: []float64{0, 2000, 300, 200}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp types.AnalyzePageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Errorf("got %d items, want 2", len(resp.Items))
	}
	// Above-the-fold item should outrank the deep one on a cold profile
	if resp.Items[0].ID != "a" {
		t.Errorf("first item = %s, want the more prominent a", resp.Items[0].ID)
	}
}

func TestAnalyzePageRejectsEmptyItems(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/analyze_page", types.AnalyzePageRequest{
		PageURL: "https://example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEventUpdatesProfile(t *testing.T) {
	r, profiles := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/event", types.EventRequest{
		UserID:     "u1",
		Event:      types.EventClick,
		ItemTopics: []string{"space"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp types.EventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.ProfileUpdated {
		t.Error("ProfileUpdated should be true for an authenticated event")
	}

	p, _ := profiles.Get(context.Background(), "u1")
	if p.TopicAffinity["space"] == 0 {
		t.Error("click event did not reach the profile")
	}
}

func TestAnonymousEventIsIgnored(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/event", types.EventRequest{
		Event:      types.EventClick,
		ItemTopics: []string{"space"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp types.EventResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ProfileUpdated {
		t.Error("anonymous events must not update profiles")
	}
}

func TestUnknownEventRejected(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/event", map[string]interface{}{
		"user_id": "u1",
		"event":   "purchase",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestVoicePreferences(t *testing.T) {
	r, profiles := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/voice/preferences", VoicePreferencesRequest{
		UserID: "u1",
		Preferences: &types.VoicePreferences{
			Topics: []types.TopicPreference{
				{Topic: "space", Sentiment: types.SentimentLike, Intensity: 0.9},
			},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	p, _ := profiles.Get(context.Background(), "u1")
	if !p.VoiceOnboardingComplete {
		t.Error("voice onboarding should be marked complete")
	}
	if p.TopicAffinity["space"] == 0 {
		t.Error("voice preferences did not reach topic affinities")
	}
}

func TestProfileLifecycle(t *testing.T) {
	r, _ := newTestRouter()

	// Seed via an event, read it back, clear it, read again
	doJSON(t, r, http.MethodPost, "/event", types.EventRequest{
		UserID: "u1", Event: types.EventThumbsUp, ItemTopics: []string{"music"},
	})

	w := doJSON(t, r, http.MethodGet, "/profile/u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p types.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if p.TopicAffinity["music"] == 0 {
		t.Error("profile read did not reflect the event")
	}

	if w := doJSON(t, r, http.MethodDelete, "/profile/u1", nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/profile/u1", nil)
	// Decode into a fresh value: Unmarshal merges into an existing map, which
	// would leave stale keys from the pre-delete decode.
	p = types.UserProfile{}
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if len(p.TopicAffinity) != 0 {
		t.Error("profile should be cold after delete")
	}
}

func TestActivityTrackAndHistory(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/activity/track", types.TrackActivityRequest{
		UserID: "u1",
		Activities: []types.Activity{
			{
				Type:         "page_visit",
				SourceDomain: "news.example.com",
				Data:         map[string]interface{}{"category": "science", "time_spent": 120.0},
			},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("track status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/activity/history?user_id=u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var hist types.ActivityHistoryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	if hist.TotalCount != 1 {
		t.Errorf("TotalCount = %d, want 1", hist.TotalCount)
	}
}

func TestActivityTrackRequiresUser(t *testing.T) {
	r, _ := newTestRouter()
	w := doJSON(t, r, http.MethodPost, "/activity/track", types.TrackActivityRequest{
		Activities: []types.Activity{{Type: "click"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
