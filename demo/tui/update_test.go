package tui

import (
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsShortStrings(t *testing.T) {
	if got := truncate("short title", 40); got != "short title" {
		t.Errorf("truncate = %q, want unchanged", got)
	}
}

func TestTruncateCutsOnRuneBoundaries(t *testing.T) {
	title := "日本語のニュース記事のタイトルがここに入ります"
	got := truncate(title, 10)
	if !utf8.ValidString(got) {
		t.Errorf("truncate produced invalid UTF-8: %q", got)
	}
	if want := "日本語のニュー" + "..."; got != want {
		t.Errorf("truncate = %q, want %q", got, want)
	}
}
