package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/authenticity"
	"github.com/iammanoj/interestlens/types"
)

type stubAnalyst struct{}

func (stubAnalyst) ExtractClaims(context.Context, string, string) (*authenticity.ClaimAnalysis, error) {
	return &authenticity.ClaimAnalysis{ArticleType: "news"}, nil
}

func (stubAnalyst) VerifyClaims(context.Context, []types.FactClaim, []types.CrossReference) (*authenticity.Verdict, error) {
	return &authenticity.Verdict{Score: 80, Status: "verified", Confidence: 0.8}, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, url string) (*types.ArticleContent, error) {
	return &types.ArticleContent{
		URL: url, Title: "Stub Article", Excerpt: "A stub excerpt.",
		SourceDomain: "stub.example.com", SourceName: "Stub News",
		FullText: "A stub article body long enough to pass the length check. " +
			"It repeats itself to stay comfortably over one hundred characters.",
	}, nil
}

func newAuthenticityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	checker := authenticity.NewChecker(stubAnalyst{}, stubExtractor{}, nil, authenticity.NewMemoryStore())
	r := gin.New()
	RegisterAuthenticityRoutes(r, checker)
	return r
}

func TestCheckAuthenticity(t *testing.T) {
	r := newAuthenticityRouter()

	w := doJSON(t, r, http.MethodPost, "/check_authenticity", types.CheckAuthenticityRequest{
		ItemID: "item-1",
		Text:   "The agency announced a new mission on Monday.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result types.AuthenticityResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.ItemID != "item-1" {
		t.Errorf("ItemID = %s, want item-1", result.ItemID)
	}
	if result.AuthenticityScore != 50 {
		t.Errorf("score = %d, want the neutral 50 for a claimless article", result.AuthenticityScore)
	}
}

func TestCheckAuthenticityValidation(t *testing.T) {
	r := newAuthenticityRouter()

	if w := doJSON(t, r, http.MethodPost, "/check_authenticity", types.CheckAuthenticityRequest{Text: "no id"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing item_id: status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/check_authenticity", types.CheckAuthenticityRequest{ItemID: "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing url and text: status = %d, want 400", w.Code)
	}
}

func TestBatchAuthenticitySizeCap(t *testing.T) {
	r := newAuthenticityRouter()

	oversized := types.BatchAuthenticityRequest{
		Items: make([]types.CheckAuthenticityRequest, authenticity.MaxBatchItems+1),
	}
	for i := range oversized.Items {
		oversized.Items[i] = types.CheckAuthenticityRequest{ItemID: "i", Text: "t"}
	}
	if w := doJSON(t, r, http.MethodPost, "/check_authenticity/batch", oversized); w.Code != http.StatusBadRequest {
		t.Errorf("oversized batch: status = %d, want 400", w.Code)
	}

	small := types.BatchAuthenticityRequest{Items: []types.CheckAuthenticityRequest{
		{ItemID: "a", Text: "one"},
		{ItemID: "b", Text: "two"},
	}}
	w := doJSON(t, r, http.MethodPost, "/check_authenticity/batch", small)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp types.BatchAuthenticityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].ItemID != "a" || resp.Results[1].ItemID != "b" {
		t.Errorf("Results = %+v, want [a b] in order", resp.Results)
	}
}

func TestPreviewURL(t *testing.T) {
	r := newAuthenticityRouter()

	w := doJSON(t, r, http.MethodPost, "/preview_url", PreviewURLRequest{URL: "https://stub.example.com/a"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var preview types.URLPreview
	if err := json.Unmarshal(w.Body.Bytes(), &preview); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if preview.Title != "Stub Article" || preview.Source != "Stub News" {
		t.Errorf("preview = %+v", preview)
	}
}

func TestAuthenticityUnavailableWithoutChecker(t *testing.T) {
	r, _ := newTestRouter()

	for _, path := range []string{"/check_authenticity", "/check_authenticity/batch", "/preview_url"} {
		if w := doJSON(t, r, http.MethodPost, path, map[string]string{}); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s without a checker: status = %d, want 503", path, w.Code)
		}
	}
}
