package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeReviewSync     = "sync:reviews"
	TypeSentimentBatch = "sentiment:batch"
	TypeSchedulerTick  = "scheduler:tick"
)

// ReviewSyncPayload triggers a pull of new reviews through one platform
// connection.
type ReviewSyncPayload struct {
	ConnectionID   uuid.UUID `json:"connection_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
}

// SentimentBatchPayload re-scores sentiment for an organization's reviews.
// When ReviewIDs is empty every review in the organization is scored.
type SentimentBatchPayload struct {
	OrganizationID uuid.UUID   `json:"organization_id"`
	ReviewIDs      []uuid.UUID `json:"review_ids,omitempty"`
}

// SchedulerTickPayload carries no data; the tick scans for due schedules.
type SchedulerTickPayload struct{}

func NewReviewSyncTask(connectionID, organizationID uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ReviewSyncPayload{
		ConnectionID:   connectionID,
		OrganizationID: organizationID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling review sync payload: %w", err)
	}
	return asynq.NewTask(TypeReviewSync, payload, asynq.Queue("default"), asynq.MaxRetry(3)), nil
}

func NewSentimentBatchTask(organizationID uuid.UUID, reviewIDs []uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(SentimentBatchPayload{
		OrganizationID: organizationID,
		ReviewIDs:      reviewIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling sentiment batch payload: %w", err)
	}
	return asynq.NewTask(TypeSentimentBatch, payload, asynq.Queue("low"), asynq.MaxRetry(2)), nil
}

func NewSchedulerTickTask() (*asynq.Task, error) {
	payload, err := json.Marshal(SchedulerTickPayload{})
	if err != nil {
		return nil, fmt.Errorf("marshaling scheduler tick payload: %w", err)
	}
	return asynq.NewTask(TypeSchedulerTick, payload, asynq.Queue("critical")), nil
}
