package report

import (
	"strings"
	"testing"
)

func TestExcerpter_ShortBodyVerbatim(t *testing.T) {
	got := newExcerpter().lines("  looks\tgood\n\nto me ")
	if len(got) != 1 || got[0] != "looks good to me" {
		t.Fatalf("unexpected lines: %q", got)
	}
}

func TestExcerpter_EmptyBody(t *testing.T) {
	if got := newExcerpter().lines(" \n\t "); got != nil {
		t.Fatalf("expected no lines, got %q", got)
	}
}

func TestExcerpter_GroupScoreKeepsTrailingExcerpt(t *testing.T) {
	body := "Report: " + strings.Repeat("x", 100) + " Score for the group is: " + strings.Repeat("y", 60) + " 7.5"

	got := newExcerpter().lines(body)
	if len(got) != 1 {
		t.Fatalf("expected one line, got %q", got)
	}
	if len([]rune(got[0])) != groupScoreExcerptRunes {
		t.Fatalf("expected %d runes, got %d", groupScoreExcerptRunes, len([]rune(got[0])))
	}
	if !strings.HasSuffix(got[0], " 7.5") {
		t.Fatalf("expected trailing excerpt, got %q", got[0])
	}
}

func TestExcerpter_LongBodyTruncated(t *testing.T) {
	body := strings.Repeat("ä", 350)

	got := newExcerpter().lines(body)
	if len(got) != 1 {
		t.Fatalf("expected one line, got %q", got)
	}
	want := strings.Repeat("ä", truncatedCommentRunes) + truncationSuffix
	if got[0] != want {
		t.Fatalf("unexpected truncation: %d runes", len([]rune(got[0])))
	}
}

func TestExcerpter_LeadingScoresDeduplicatedPerReport(t *testing.T) {
	body := strings.Repeat("log ", 60) + "Score for all previous groups together: 42.00 of 50 Preliminary correctness: 0.93 and more text"
	ex := newExcerpter()

	first := ex.lines(body)
	if len(first) != 2 {
		t.Fatalf("expected two score lines, got %q", first)
	}
	if first[0] != "Score for all previous groups together: 42.00 " {
		t.Fatalf("unexpected previous score excerpt: %q", first[0])
	}
	if first[1] != "Preliminary correctness: 0.93 a" {
		t.Fatalf("unexpected correctness excerpt: %q", first[1])
	}
	if again := ex.lines(body); len(again) != 0 {
		t.Fatalf("expected repeated excerpts to be dropped, got %q", again)
	}
}
