package fingerprint

import (
	"net/url"
	"strings"

	"github.com/iammanoj/interestlens/config"
	"github.com/iammanoj/interestlens/types"
)

// Build turns a raw page item into a canonical fingerprint. It is a pure
// function: no network calls, and malformed input degrades rather than errors
// (unparseable href yields an empty domain, oversized text is truncated).
func Build(item types.PageItem) types.ContentFingerprint {
	text := item.Text
	if text == "" {
		text = item.Snippet
	}

	bbox := parseBBox(item.BBox)

	return types.ContentFingerprint{
		ID:         item.ID,
		Text:       truncate(text, config.MaxFingerprintText),
		URL:        item.Href,
		Domain:     DomainOf(item.Href),
		BBox:       bbox,
		Prominence: prominence(bbox),
	}
}

// BuildAll fingerprints every item in extraction order.
func BuildAll(items []types.PageItem) []types.ContentFingerprint {
	fps := make([]types.ContentFingerprint, len(items))
	for i, item := range items {
		fps[i] = Build(item)
	}
	return fps
}

// DomainOf extracts the normalized host from an href: lowercased, with any
// leading "www." removed. Returns "" on parse failure.
func DomainOf(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	// Drop a port if present
	if i := strings.LastIndex(host, ":"); i > 0 && !strings.Contains(host, "]") {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

// prominence blends vertical position (above the fold scores higher) with
// relative size. Both terms are clamped to [0,1] before weighting, so the
// result stays in [0,1].
func prominence(b types.BBox) float64 {
	vertical := 1 - clamp01(b.Y/config.FoldHeight)
	area := clamp01(b.Area() / config.ReferenceArea)
	return clamp01(config.ProminenceVerticalWeight*vertical + config.ProminenceAreaWeight*area)
}

func parseBBox(raw []float64) types.BBox {
	var b types.BBox
	if len(raw) > 0 {
		b.X = raw[0]
	}
	if len(raw) > 1 {
		b.Y = raw[1]
	}
	if len(raw) > 2 {
		b.W = raw[2]
	}
	if len(raw) > 3 {
		b.H = raw[3]
	}
	return b
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
