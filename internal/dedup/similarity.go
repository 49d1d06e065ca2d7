package dedup

import (
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Headlines often carry a source tag like "[CBC] " that differs between
// feeds covering the same story, so it is stripped before comparison.
var sourceTagRe = regexp.MustCompile(`\[[^\]]*\]\s*`)

// NormalizeTitle strips bracketed source tags and case/whitespace noise
// from a headline.
func NormalizeTitle(title string) string {
	cleaned := sourceTagRe.ReplaceAllString(title, "")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

// TitleSimilarity returns the sequence-alignment similarity ratio between
// two titles, in [0,1]. Symmetric and deterministic: the same pair always
// yields the same ratio, and a title compared with itself yields 1.0.
// An empty title (after normalization) never matches anything.
func TitleSimilarity(a, b string) float64 {
	na := NormalizeTitle(a)
	nb := NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	m := difflib.NewMatcher(runeSeq(na), runeSeq(nb))
	return m.Ratio()
}

// runeSeq splits a string into per-rune elements for the sequence matcher.
func runeSeq(s string) []string {
	return strings.Split(s, "")
}
