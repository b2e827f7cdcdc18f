package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the status of an async task
type TaskStatus string

const (
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// RankTask represents an async scrape-and-rank task for one product
type RankTask struct {
	ID          string        `json:"id"`
	ProductID   int           `json:"product_id"`
	Status      TaskStatus    `json:"status"`
	Message     string        `json:"message"`
	Result      []RankedOffer `json:"result,omitempty"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// NewRankTask creates a new queued rank task
func NewRankTask(productID int) *RankTask {
	return &RankTask{
		ID:        uuid.NewString(),
		ProductID: productID,
		Status:    TaskStatusQueued,
		Message:   "Task queued for processing",
		CreatedAt: time.Now(),
	}
}

// Start marks the task as processing
func (t *RankTask) Start() {
	t.Status = TaskStatusProcessing
	t.Message = "Scraping offers..."
	now := time.Now()
	t.StartedAt = &now
}

// Complete marks the task as completed with the ranked offers
func (t *RankTask) Complete(result []RankedOffer) {
	t.Status = TaskStatusCompleted
	t.Message = "Offers ranked"
	t.Result = result
	now := time.Now()
	t.CompletedAt = &now
}

// Fail marks the task as failed
func (t *RankTask) Fail(errMsg string) {
	t.Status = TaskStatusFailed
	t.Message = "Task failed"
	t.Error = errMsg
	now := time.Now()
	t.CompletedAt = &now
}

// IsFinished returns true once the task reached a terminal state
func (t *RankTask) IsFinished() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}
