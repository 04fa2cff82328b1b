package report

import (
	"strings"
	"unicode/utf8"
)

// Grading bots post long notes; only the score lines are worth relaying.
const (
	groupScoreMarker       = "Score for the group is:"
	groupScoreExcerptRunes = 50

	previousGroupsScoreMarker       = "Score for all previous groups together:"
	previousGroupsScoreExcerptRunes = 46

	correctnessMarker       = "Preliminary correctness:"
	correctnessExcerptRunes = 31

	longCommentRunes      = 200
	truncatedCommentRunes = 300
	truncationSuffix      = "..."
)

type scoreMarker struct {
	phrase string
	runes  int
}

var leadingScoreMarkers = []scoreMarker{
	{phrase: previousGroupsScoreMarker, runes: previousGroupsScoreExcerptRunes},
	{phrase: correctnessMarker, runes: correctnessExcerptRunes},
}

// excerpter turns comment bodies into report lines. Leading score excerpts are
// emitted at most once per report.
type excerpter struct {
	seen map[string]struct{}
}

func newExcerpter() *excerpter {
	return &excerpter{seen: make(map[string]struct{})}
}

func (e *excerpter) lines(body string) []string {
	text := normalizeWhitespace(body)
	if text == "" {
		return nil
	}
	if idx := strings.Index(text, groupScoreMarker); idx >= 0 {
		return []string{lastRunes(text[idx:], groupScoreExcerptRunes)}
	}
	if utf8.RuneCountInString(text) <= longCommentRunes {
		return []string{text}
	}

	var out []string
	matched := false
	for _, m := range leadingScoreMarkers {
		idx := strings.Index(text, m.phrase)
		if idx < 0 {
			continue
		}
		matched = true
		excerpt := firstRunes(text[idx:], m.runes)
		if _, dup := e.seen[excerpt]; dup {
			continue
		}
		e.seen[excerpt] = struct{}{}
		out = append(out, excerpt)
	}
	if matched {
		return out
	}
	return []string{firstRunes(text, truncatedCommentRunes) + truncationSuffix}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
