package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"drops short and stop words", "We should build the new API for users", []string{"build", "users"}},
		{"punctuation becomes space", "Re-design: user-flow!", []string{"design", "user", "flow"}},
		{"keeps duplicates", "Test test TEST", []string{"test", "test", "test"}},
		{"underscores are word chars", "snake_case name", []string{"snake_case", "name"}},
		{"stop word longer than floor", "these would have been", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Long.Extract(tt.in))
		})
	}
}

func TestShortExtract(t *testing.T) {
	// "api" and "new" survive the short floor; "should" is not a short stop-word.
	assert.Equal(t, []string{"should", "build", "new", "api", "users"}, Short.Extract("We should build the new API for users"))
	// underscores are stripped by the short extractor
	assert.Equal(t, []string{"snake", "case"}, Short.Extract("snake_case"))
	// "from" is only a stop-word for the long extractor
	assert.Equal(t, []string{"from"}, Short.Extract("from"))
	assert.Empty(t, Long.Extract("from"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "mobile checkout"))
	assert.Equal(t, 0.0, Similarity("a an the", "mobile checkout"))
	assert.Equal(t, 1.0, Similarity("Mobile checkout", "checkout mobile"))
	// {mobile, checkout, flow} vs {mobile, checkout, redesign}
	assert.InDelta(t, 0.5, Similarity("mobile checkout flow", "mobile checkout redesign"), 1e-9)

	pairs := [][2]string{
		{"improve onboarding emails", "onboarding survey emails"},
		{"", ""},
		{"alpha beta gamma", "gamma delta"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "symmetric for %q/%q", p[0], p[1])
	}
}

func TestFrequencyTop(t *testing.T) {
	f := Long.Count("launch mobile beta", "mobile pricing", "pricing mobile launch")
	// mobile=3, launch=2, pricing=2, beta=1; launch first seen before pricing
	assert.Equal(t, []string{"mobile", "launch", "pricing"}, f.Top(3))
	assert.Len(t, f.Top(10), 4)
}
