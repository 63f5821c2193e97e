package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/platforms"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/pkg/crypto"
	"github.com/reviewpilot/reviewpilot/pkg/util"
	"gorm.io/gorm"
)

// Handler processes background tasks for the worker binary.
type Handler struct {
	db        *gorm.DB
	logger    *slog.Logger
	encryptor *crypto.Encryptor
	registry  *platforms.Registry
	analyzer  *sentiment.Analyzer
	client    *asynq.Client
}

func NewHandler(db *gorm.DB, logger *slog.Logger, encryptor *crypto.Encryptor, registry *platforms.Registry, analyzer *sentiment.Analyzer, client *asynq.Client) *Handler {
	return &Handler{
		db:        db,
		logger:    logger,
		encryptor: encryptor,
		registry:  registry,
		analyzer:  analyzer,
		client:    client,
	}
}

// Register wires all task handlers onto an asynq mux.
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeReviewSync, h.HandleReviewSync)
	mux.HandleFunc(TypeSentimentBatch, h.HandleSentimentBatch)
	mux.HandleFunc(TypeSchedulerTick, h.HandleSchedulerTick)
}

// HandleReviewSync pulls reviews through one connection and upserts them.
// Reviews already present, by (organization, platform, review id), are
// skipped rather than treated as failures.
func (h *Handler) HandleReviewSync(ctx context.Context, t *asynq.Task) error {
	var payload ReviewSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling review sync payload: %w", err)
	}

	log := h.logger.With("connection_id", payload.ConnectionID, "organization_id", payload.OrganizationID)

	var conn models.PlatformConnection
	err := h.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", payload.ConnectionID, payload.OrganizationID).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("sync skipped, connection no longer exists")
			return nil
		}
		return fmt.Errorf("loading connection: %w", err)
	}

	if conn.Status != models.ConnectionActive {
		log.Info("sync skipped, connection not active", "status", conn.Status)
		return nil
	}

	connector, err := h.registry.Get(conn.Platform)
	if err != nil {
		return err
	}

	raw, err := h.encryptor.Decrypt(conn.EncryptedCredentials)
	if err != nil {
		return fmt.Errorf("decrypting credentials: %w", err)
	}
	var creds platforms.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return fmt.Errorf("unmarshaling credentials: %w", err)
	}

	since := time.Time{}
	if conn.LastSyncedAt > 0 {
		since = time.Unix(conn.LastSyncedAt, 0).UTC()
	}

	fetched, err := connector.FetchReviews(ctx, creds, since)
	if err != nil {
		return fmt.Errorf("fetching reviews: %w", err)
	}

	var created, skipped int
	for _, fr := range fetched {
		review := models.Review{
			OrganizationID: conn.OrganizationID,
			Platform:       conn.Platform,
			ReviewID:       fr.ReviewID,
			Rating:         fr.Rating,
			Text:           fr.Text,
			AuthorName:     fr.AuthorName,
			AuthorAvatar:   fr.AuthorAvatar,
			ReviewDate:     fr.ReviewDate,
			Status:         models.ReviewStatusPending,
		}
		result := h.analyzer.Analyze(fr.Text)
		review.Sentiment = result.Label
		review.SentimentScore = result.Score

		if err := h.db.WithContext(ctx).Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				skipped++
				continue
			}
			return fmt.Errorf("saving review %s: %w", fr.ReviewID, err)
		}
		created++
	}

	now := time.Now().Unix()
	if err := h.db.WithContext(ctx).Model(&conn).Update("last_synced_at", now).Error; err != nil {
		return fmt.Errorf("updating last synced at: %w", err)
	}

	log.Info("review sync completed", "fetched", len(fetched), "created", created, "skipped", skipped)
	return nil
}

// HandleSentimentBatch re-runs the analyzer over stored reviews.
func (h *Handler) HandleSentimentBatch(ctx context.Context, t *asynq.Task) error {
	var payload SentimentBatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling sentiment batch payload: %w", err)
	}

	query := h.db.WithContext(ctx).Where("organization_id = ?", payload.OrganizationID)
	if len(payload.ReviewIDs) > 0 {
		query = query.Where("id IN ?", payload.ReviewIDs)
	}

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return fmt.Errorf("loading reviews: %w", err)
	}

	for i := range reviews {
		result := h.analyzer.Analyze(reviews[i].Text)
		err := h.db.WithContext(ctx).Model(&reviews[i]).Updates(map[string]interface{}{
			"sentiment":       result.Label,
			"sentiment_score": result.Score,
		}).Error
		if err != nil {
			return fmt.Errorf("updating review %s: %w", reviews[i].ID, err)
		}
	}

	h.logger.Info("sentiment batch completed", "organization_id", payload.OrganizationID, "scored", len(reviews))
	return nil
}

// HandleSchedulerTick finds due scheduled syncs, enqueues a sync for each
// and advances their next run time.
func (h *Handler) HandleSchedulerTick(ctx context.Context, t *asynq.Task) error {
	now := time.Now().UTC()

	var due []models.ScheduledSync
	err := h.db.WithContext(ctx).
		Where("is_enabled = ? AND next_run_at <= ?", true, now.Unix()).
		Find(&due).Error
	if err != nil {
		return fmt.Errorf("loading due schedules: %w", err)
	}

	for i := range due {
		sched := &due[i]

		task, err := NewReviewSyncTask(sched.ConnectionID, sched.OrganizationID)
		if err != nil {
			return err
		}
		if _, err := h.client.EnqueueContext(ctx, task); err != nil {
			h.logger.Error("failed to enqueue scheduled sync", "schedule_id", sched.ID, "error", err)
			continue
		}

		next, err := util.NextCronTime(sched.CronExpr, now)
		if err != nil {
			// Bad expression; disable instead of retrying forever.
			h.logger.Error("disabling schedule with invalid cron expression", "schedule_id", sched.ID, "error", err)
			h.db.WithContext(ctx).Model(sched).Update("is_enabled", false)
			continue
		}

		lastRun := now.Unix()
		err = h.db.WithContext(ctx).Model(sched).Updates(map[string]interface{}{
			"last_run_at": lastRun,
			"next_run_at": next.Unix(),
		}).Error
		if err != nil {
			return fmt.Errorf("advancing schedule %s: %w", sched.ID, err)
		}
	}

	if len(due) > 0 {
		h.logger.Info("scheduler tick completed", "enqueued", len(due))
	}
	return nil
}
