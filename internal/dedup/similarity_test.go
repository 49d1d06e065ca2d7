package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips source tag", "[CBC News] City approves broadband grant", "city approves broadband grant"},
		{"strips multiple tags", "[CBC] [Update] Mill reopens", "mill reopens"},
		{"lowercases and trims", "  Broadband Grant Approved  ", "broadband grant approved"},
		{"plain title unchanged", "wildfire update", "wildfire update"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}

func TestTitleSimilarity_Identity(t *testing.T) {
	titles := []string{
		"City approves broadband grant",
		"[Tribune] Mill curtailment extended",
		"Short",
	}
	for _, title := range titles {
		assert.Equal(t, 1.0, TitleSimilarity(title, title), "title %q", title)
	}
}

func TestTitleSimilarity_Symmetric(t *testing.T) {
	a := "City approves broadband grant"
	b := "City approves broadband funding"
	assert.Equal(t, TitleSimilarity(a, b), TitleSimilarity(b, a))
}

func TestTitleSimilarity_IgnoresSourceTags(t *testing.T) {
	// Same story from two feeds differs only in the source tag.
	a := "[CBC] Council adopts new zoning bylaw"
	b := "[Tribune] Council adopts new zoning bylaw"
	assert.Equal(t, 1.0, TitleSimilarity(a, b))
}

func TestTitleSimilarity_EmptyIsNonMatch(t *testing.T) {
	assert.Equal(t, 0.0, TitleSimilarity("", "City approves broadband grant"))
	assert.Equal(t, 0.0, TitleSimilarity("City approves broadband grant", ""))
	assert.Equal(t, 0.0, TitleSimilarity("", ""))
	// A tag-only title normalizes to empty too.
	assert.Equal(t, 0.0, TitleSimilarity("[CBC] ", "[CBC] "))
}

func TestTitleSimilarity_RelatedTitlesScoreHigh(t *testing.T) {
	got := TitleSimilarity("City approves broadband grant", "City approves broadband funding")
	assert.GreaterOrEqual(t, got, 0.70)

	unrelated := TitleSimilarity("City approves broadband grant", "Unrelated wildfire update")
	assert.Less(t, unrelated, 0.70)
}
