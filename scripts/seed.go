//go:build ignore

// Seed the local database with a demo account and sample reviews:
//
//	go run scripts/seed.go
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"github.com/reviewpilot/reviewpilot/pkg/util"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if cfg.Server.IsProduction() {
		fmt.Fprintln(os.Stderr, "refusing to seed a production database")
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		panic(err)
	}
	if err := database.AutoMigrate(db); err != nil {
		panic(err)
	}

	hash, err := auth.HashPassword("Demo1234")
	if err != nil {
		panic(err)
	}

	trialEnd := time.Now().Add(auth.TrialDuration)
	user := models.User{
		Email:              "demo@reviewpilot.io",
		PasswordHash:       hash,
		Name:               "Demo User",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionTrial,
		TrialEndDate:       &trialEnd,
	}
	if err := db.Where(models.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
		panic(err)
	}

	org := models.Organization{
		Name:             "Demo User's Organization",
		OwnerID:          user.ID,
		SubscriptionPlan: models.PlanFree,
		BillingStatus:    models.BillingActive,
		Settings:         "{}",
	}
	if err := db.Where(models.Organization{OwnerID: user.ID}).FirstOrCreate(&org).Error; err != nil {
		panic(err)
	}

	analyzer := sentiment.NewAnalyzer()
	samples := []struct {
		platform models.Platform
		id       string
		rating   int
		text     string
		author   string
	}{
		{models.PlatformGoogle, "demo-1", 5, "Amazing experience, the staff was wonderful and helpful!", "Alice Wong"},
		{models.PlatformYelp, "demo-2", 2, "Slow service and the food was cold. Very disappointed.", "Bob Trent"},
		{models.PlatformFacebook, "demo-3", 3, "It was okay. Average food, average service.", "Carol Diaz"},
		{models.PlatformTripAdvisor, "demo-4", 4, "Great location and tasty menu, would recommend.", "Dan Iqbal"},
	}

	var created int
	for _, s := range samples {
		scored := analyzer.Analyze(s.text)
		review := models.Review{
			OrganizationID: org.ID,
			Platform:       s.platform,
			ReviewID:       s.id,
			Rating:         s.rating,
			Text:           s.text,
			AuthorName:     s.author,
			Sentiment:      scored.Label,
			SentimentScore: scored.Score,
			Status:         models.ReviewStatusPending,
			ReviewDate:     time.Now().UTC(),
		}
		result := db.Where(models.Review{
			OrganizationID: org.ID,
			Platform:       s.platform,
			ReviewID:       s.id,
		}).FirstOrCreate(&review)
		if result.Error != nil {
			panic(result.Error)
		}
		created += int(result.RowsAffected)
	}

	fmt.Printf("seeded %d reviews for %s\n", created, user.Email)
	fmt.Println("login: demo@reviewpilot.io / Demo1234")
}
