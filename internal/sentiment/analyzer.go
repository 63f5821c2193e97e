package sentiment

import (
	"strings"
	"unicode"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

// Analyzer scores review text with a small polarity lexicon. The score is
// (positive - negative) / (positive + negative), clamped to [-1, 1].
type Analyzer struct {
	positive map[string]bool
	negative map[string]bool
}

var positiveWords = []string{
	"amazing", "awesome", "best", "delicious", "delightful", "excellent",
	"exceptional", "fantastic", "friendly", "fresh", "great", "good",
	"helpful", "impressed", "love", "loved", "outstanding", "perfect",
	"pleasant", "recommend", "superb", "tasty", "wonderful",
}

var negativeWords = []string{
	"awful", "bad", "bland", "cold", "disappointed", "disappointing",
	"dirty", "horrible", "mediocre", "overpriced", "poor", "rude",
	"slow", "stale", "terrible", "unacceptable", "unimpressed", "waste",
	"worst", "wrong",
}

func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		positive: make(map[string]bool, len(positiveWords)),
		negative: make(map[string]bool, len(negativeWords)),
	}
	for _, w := range positiveWords {
		a.positive[w] = true
	}
	for _, w := range negativeWords {
		a.negative[w] = true
	}
	return a
}

// Result is a sentiment label plus a score in [-1, 1].
type Result struct {
	Label models.Sentiment `json:"sentiment"`
	Score float64          `json:"score"`
}

// labelThreshold separates neutral from polarized scores.
const labelThreshold = 0.2

func (a *Analyzer) Analyze(text string) Result {
	var pos, neg int

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	for _, w := range words {
		w = strings.Trim(w, "'")
		if a.positive[w] {
			pos++
		}
		if a.negative[w] {
			neg++
		}
	}

	if pos+neg == 0 {
		return Result{Label: models.SentimentNeutral, Score: 0}
	}

	score := float64(pos-neg) / float64(pos+neg)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}

	label := models.SentimentNeutral
	if score > labelThreshold {
		label = models.SentimentPositive
	} else if score < -labelThreshold {
		label = models.SentimentNegative
	}

	return Result{Label: label, Score: score}
}
