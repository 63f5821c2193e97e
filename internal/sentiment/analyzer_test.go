package sentiment

import (
	"testing"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer()

	cases := []struct {
		name  string
		text  string
		label models.Sentiment
	}{
		{"positive", "Amazing food and excellent friendly service, we loved it!", models.SentimentPositive},
		{"negative", "Terrible experience, rude staff and awful cold food.", models.SentimentNegative},
		{"neutral no signal", "We visited on a Tuesday around noon.", models.SentimentNeutral},
		{"mixed cancels out", "Great food but terrible service.", models.SentimentNeutral},
		{"empty", "", models.SentimentNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := a.Analyze(tc.text)
			assert.Equal(t, tc.label, result.Label)
		})
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	a := NewAnalyzer()

	pos := a.Analyze("amazing excellent wonderful perfect outstanding")
	assert.InDelta(t, 1.0, pos.Score, 0.001)

	neg := a.Analyze("terrible awful horrible worst disgusting")
	assert.LessOrEqual(t, neg.Score, -0.9)

	none := a.Analyze("plain words only")
	assert.Zero(t, none.Score)
}

func TestAnalyzeIsCaseInsensitive(t *testing.T) {
	a := NewAnalyzer()

	upper := a.Analyze("AMAZING FOOD")
	lower := a.Analyze("amazing food")
	assert.Equal(t, lower, upper)
}

func TestAnalyzeIgnoresPunctuation(t *testing.T) {
	a := NewAnalyzer()

	result := a.Analyze("Amazing! Excellent... (wonderful)")
	assert.Equal(t, models.SentimentPositive, result.Label)
}
