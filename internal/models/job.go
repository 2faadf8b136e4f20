package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// EvaluationJob is the durable row mirroring one pipeline run. The live
// counters are owned by the orchestrator; this row carries the coarse,
// user-facing state only.
type EvaluationJob struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:text" json:"name"`
	IdeasPath      string    `gorm:"type:text" json:"ideas_path"`
	FilesDir       string    `gorm:"type:text" json:"files_dir"`
	OutputPath     string    `gorm:"type:text" json:"output_path"`
	Status         JobStatus `gorm:"not null;default:'pending'" json:"status"`
	TotalCount     int       `gorm:"not null;default:0" json:"total_count"`
	ProcessedCount int       `gorm:"not null;default:0" json:"processed_count"`
	ErrorMessage   *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (EvaluationJob) TableName() string {
	return "evaluation_jobs"
}

// Progress is the snapshot polled by the serving layer.
type Progress struct {
	TotalIdeas             int       `json:"total_ideas"`
	ProcessedIdeas         int       `json:"processed_ideas"`
	Status                 JobStatus `json:"status"`
	EstimatedTimeRemaining string    `json:"estimated_time_remaining"`
}
