package fingerprint

import (
	"strings"
	"testing"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/types"
)

func TestDomainOf(t *testing.T) {
	cases := []struct {
		href string
		want string
	}{
		{"https://www.example.com/article/1", "example.com"},
		{"https://News.Ycombinator.com/item?id=1", "news.ycombinator.com"},
		{"http://example.com:8080/path", "example.com"},
		{"not a url at all ::", ""},
		{"", ""},
		{"/relative/path", ""},
	}

	for _, tc := range cases {
		if got := DomainOf(tc.href); got != tc.want {
			t.Errorf("DomainOf(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestBuildTruncatesText(t *testing.T) {
	long := strings.Repeat("a", config.MaxFingerprintText*3)
	fp := Build(types.PageItem{ID: "i1", Text: long})

	if len([]rune(fp.Text)) != config.MaxFingerprintText {
		t.Errorf("expected text capped at %d runes, got %d", config.MaxFingerprintText, len([]rune(fp.Text)))
	}
}

func TestBuildFallsBackToSnippet(t *testing.T) {
	fp := Build(types.PageItem{ID: "i1", Snippet: "snippet text"})
	if fp.Text != "snippet text" {
		t.Errorf("expected snippet fallback, got %q", fp.Text)
	}
}

func TestProminenceOrdering(t *testing.T) {
	top := Build(types.PageItem{ID: "top", BBox: []float64{0, 0, 400, 300}})
	bottom := Build(types.PageItem{ID: "bottom", BBox: []float64{0, 3000, 400, 300}})

	if top.Prominence <= bottom.Prominence {
		t.Errorf("above-the-fold item should be more prominent: top=%f bottom=%f", top.Prominence, bottom.Prominence)
	}

	small := Build(types.PageItem{ID: "small", BBox: []float64{0, 100, 50, 20}})
	large := Build(types.PageItem{ID: "large", BBox: []float64{0, 100, 800, 600}})
	if large.Prominence <= small.Prominence {
		t.Errorf("larger item at same depth should be more prominent: large=%f small=%f", large.Prominence, small.Prominence)
	}
}

func TestProminenceBounds(t *testing.T) {
	extreme := []types.PageItem{
		{ID: "a", BBox: []float64{0, -5000, 100000, 100000}},
		{ID: "b", BBox: []float64{0, 1e9, 1e9, 1e9}},
		{ID: "c", BBox: []float64{0, 0, -10, -10}},
		{ID: "d"},
	}
	for _, item := range extreme {
		fp := Build(item)
		if fp.Prominence < 0 || fp.Prominence > 1 {
			t.Errorf("prominence out of bounds for %s: %f", item.ID, fp.Prominence)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	item := types.PageItem{ID: "i1", Href: "https://www.example.com/a", Text: "hello", BBox: []float64{10, 20, 300, 200}}
	a := Build(item)
	b := Build(item)
	if a.Domain != b.Domain || a.Prominence != b.Prominence || a.Text != b.Text {
		t.Errorf("Build is not deterministic: %+v vs %+v", a, b)
	}
}
