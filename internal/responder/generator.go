package responder

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
	ToneFormal       Tone = "formal"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneCasual, ToneFormal:
		return true
	}
	return false
}

// Input describes the review a response draft is generated for.
type Input struct {
	ReviewText         string
	Rating             int
	Platform           models.Platform
	Tone               Tone
	BusinessName       string
	CustomInstructions string
}

// Generator produces a response draft for a review. It is an interface so a
// real inference backend can replace the template implementation without
// touching the HTTP handler.
type Generator interface {
	Generate(ctx context.Context, input Input) (string, error)
}

// TemplateGenerator picks a canned template by rating bucket and applies a
// tone transform. The random source is injected for testability; delay
// simulates upstream latency and may be zero.
type TemplateGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay time.Duration
}

func NewTemplateGenerator(src rand.Source, delay time.Duration) *TemplateGenerator {
	return &TemplateGenerator{
		rng:   rand.New(src),
		delay: delay,
	}
}

var (
	expandContractions = strings.NewReplacer(
		"We're", "We are",
		"we're", "we are",
		"can't", "cannot",
		"don't", "do not",
		"We'd", "We would",
		"we'd", "we would",
		"It's", "It is",
		"it's", "it is",
	)
	applyContractions = strings.NewReplacer(
		"We are", "We're",
		"we are", "we're",
		"cannot", "can't",
		"do not", "don't",
	)
)

const (
	casualEmoji    = " \U0001F60A"
	friendlyCloser = " Have a wonderful day!"
)

func (g *TemplateGenerator) Generate(ctx context.Context, input Input) (string, error) {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	candidates := Candidates(input.Rating, input.BusinessName)

	g.mu.Lock()
	response := candidates[g.rng.Intn(len(candidates))]
	g.mu.Unlock()

	switch input.Tone {
	case ToneFormal:
		response = expandContractions.Replace(response)
	case ToneCasual:
		response = applyContractions.Replace(response) + casualEmoji
	case ToneFriendly:
		response += friendlyCloser
	}

	if input.CustomInstructions != "" {
		response += "\n\n" + input.CustomInstructions
	}

	return response, nil
}

var _ Generator = (*TemplateGenerator)(nil)
