package models

import "time"

// SurveySession is one field collection run of a surveyor inside a province.
// At most one session per surveyor is active; this is enforced by the repository, not the schema.
type SurveySession struct {
	ID                 string       `gorm:"primaryKey;size:64" json:"id"`
	SurveyorID         string       `gorm:"size:64;not null;index" json:"surveyorId"`
	ProvinceID         *string      `gorm:"size:64" json:"provinceId,omitempty"`
	StartedAt          time.Time    `gorm:"autoCreateTime" json:"startedAt"`
	EndedAt            *time.Time   `gorm:"" json:"endedAt,omitempty"`
	AddressesCollected int          `gorm:"not null;default:0" json:"addressesCollected"`
	Status             SurveyStatus `gorm:"size:20;not null;default:active;index" json:"status"`
}

func (SurveySession) TableName() string {
	return "survey_sessions"
}
