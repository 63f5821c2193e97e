package dto

import (
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/responder"
)

type GenerateResponseRequest struct {
	ReviewText         string `json:"reviewText"`
	Rating             int    `json:"rating"`
	Platform           string `json:"platform"`
	Tone               string `json:"tone"`
	BusinessName       string `json:"businessName"`
	CustomInstructions string `json:"customInstructions"`
	ReviewID           string `json:"reviewId"`
}

func (r *GenerateResponseRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if r.ReviewText == "" {
		errs["reviewText"] = "is required"
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "must be between 1 and 5"
	}
	if r.Platform != "" && !models.Platform(r.Platform).Valid() {
		errs["platform"] = "is not a supported platform"
	}
	if r.Tone != "" && !responder.Tone(r.Tone).Valid() {
		errs["tone"] = "must be one of: professional, friendly, casual, formal"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type GenerateResponseUsage struct {
	TokensUsed       int `json:"tokensUsed"`
	RemainingCredits int `json:"remainingCredits"`
}

type GenerateResponseResponse struct {
	Response string                `json:"response"`
	Usage    GenerateResponseUsage `json:"usage"`
}

type AnalyzeSentimentRequest struct {
	Text string `json:"text"`
}

func (r *AnalyzeSentimentRequest) Validate() map[string]string {
	if r.Text == "" {
		return map[string]string{"text": "is required"}
	}
	return nil
}
