package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SurveyReport struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatID       int64          `gorm:"not null;index"`
	Segment      string         `gorm:"type:varchar(255);not null;index"`
	Category     string         `gorm:"type:varchar(255);not null"`
	Designator   string         `gorm:"type:varchar(255);not null;index"`
	FolderPath   string         `gorm:"type:varchar(512);not null"`
	EvidenceRefs datatypes.JSON `gorm:"type:jsonb"`
	Latitude     *float64
	Longitude    *float64
	Address      string `gorm:"type:text"`
	Note         string `gorm:"type:text"`

	MaterialValue float64 `gorm:"type:numeric(18,2);not null;default:0"`
	ServiceValue  float64 `gorm:"type:numeric(18,2);not null;default:0"`
	Total         float64 `gorm:"type:numeric(18,2);not null;default:0"`

	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	FinalizedAt *time.Time `gorm:"index"`
}

func (SurveyReport) TableName() string {
	return "survey_reports"
}
