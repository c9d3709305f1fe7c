package models

import (
	"time"

	"gorm.io/datatypes"
)

// AiProcessingJob describes a batch job. Nothing in this service executes them.
type AiProcessingJob struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`
	JobType      JobType        `gorm:"size:30;not null" json:"jobType"`
	Status       JobStatus      `gorm:"size:20;not null;default:pending" json:"status"`
	InputData    datatypes.JSON `gorm:"" json:"inputData,omitempty"`
	OutputData   datatypes.JSON `gorm:"" json:"outputData,omitempty"`
	Progress     string         `gorm:"size:12;not null;default:'0.00'" json:"progress"`
	ErrorMessage *string        `gorm:"" json:"errorMessage,omitempty"`
	CreatedBy    *string        `gorm:"size:64" json:"createdBy,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	CompletedAt  *time.Time     `gorm:"" json:"completedAt,omitempty"`
}

func (AiProcessingJob) TableName() string {
	return "ai_processing_jobs"
}
