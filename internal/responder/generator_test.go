package responder

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator() *TemplateGenerator {
	return NewTemplateGenerator(rand.NewSource(42), 0)
}

func generate(t *testing.T, g *TemplateGenerator, input Input) string {
	t.Helper()
	out, err := g.Generate(context.Background(), input)
	require.NoError(t, err)
	return out
}

func TestGenerateUsesRatingBucket(t *testing.T) {
	g := newGenerator()

	cases := []struct {
		name   string
		rating int
	}{
		{"five stars", 5},
		{"four stars", 4},
		{"three stars", 3},
		{"two stars", 2},
		{"one star", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := generate(t, g, Input{Rating: tc.rating, BusinessName: "Blue Cafe", Tone: ToneProfessional})
			assert.Contains(t, Candidates(tc.rating, "Blue Cafe"), out)
		})
	}
}

func TestGenerateBucketsDoNotOverlap(t *testing.T) {
	positive := Candidates(4, "Blue Cafe")
	neutral := Candidates(3, "Blue Cafe")
	negative := Candidates(2, "Blue Cafe")

	for _, p := range positive {
		assert.NotContains(t, neutral, p)
		assert.NotContains(t, negative, p)
	}
	for _, n := range neutral {
		assert.NotContains(t, negative, n)
	}
}

func TestGenerateEmbedsBusinessName(t *testing.T) {
	g := newGenerator()

	for _, rating := range []int{1, 3, 5} {
		out := generate(t, g, Input{Rating: rating, BusinessName: "Harbor Grill", Tone: ToneProfessional})
		assert.Contains(t, out, "Harbor Grill")
	}
}

func TestToneTransforms(t *testing.T) {
	t.Run("formal expands contractions", func(t *testing.T) {
		g := newGenerator()
		out := generate(t, g, Input{Rating: 5, BusinessName: "Blue Cafe", Tone: ToneFormal})
		assert.NotContains(t, out, "We're")
		assert.NotContains(t, out, "we're")
		assert.NotContains(t, out, "can't")
		assert.NotContains(t, out, "don't")
	})

	t.Run("casual appends emoji", func(t *testing.T) {
		g := newGenerator()
		out := generate(t, g, Input{Rating: 5, BusinessName: "Blue Cafe", Tone: ToneCasual})
		assert.True(t, strings.HasSuffix(out, casualEmoji))
	})

	t.Run("friendly appends closer", func(t *testing.T) {
		g := newGenerator()
		out := generate(t, g, Input{Rating: 5, BusinessName: "Blue Cafe", Tone: ToneFriendly})
		assert.True(t, strings.HasSuffix(out, friendlyCloser))
	})

	t.Run("professional leaves the template unmodified", func(t *testing.T) {
		g := newGenerator()
		out := generate(t, g, Input{Rating: 5, BusinessName: "Blue Cafe", Tone: ToneProfessional})
		assert.Contains(t, Candidates(5, "Blue Cafe"), out)
	})
}

func TestCustomInstructionsAppended(t *testing.T) {
	g := newGenerator()
	out := generate(t, g, Input{
		Rating:             5,
		BusinessName:       "Blue Cafe",
		Tone:               ToneProfessional,
		CustomInstructions: "Mention our new brunch menu.",
	})
	assert.True(t, strings.HasSuffix(out, "\n\nMention our new brunch menu."))
}

func TestGenerateVariesWithRandomSource(t *testing.T) {
	g := NewTemplateGenerator(rand.NewSource(1), 0)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		out := generate(t, g, Input{Rating: 5, BusinessName: "Blue Cafe", Tone: ToneProfessional})
		seen[out] = true
	}
	// Three templates exist for the bucket; 50 draws should hit them all.
	assert.Len(t, seen, 3)
}

func TestGenerateIsSafeForConcurrentUse(t *testing.T) {
	g := newGenerator()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Generate(context.Background(), Input{Rating: 4, BusinessName: "Blue Cafe", Tone: ToneProfessional})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	g := NewTemplateGenerator(rand.NewSource(42), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, Input{Rating: 5, BusinessName: "Blue Cafe"})
	assert.ErrorIs(t, err, context.Canceled)
}
