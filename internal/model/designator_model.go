package model

import (
	"time"

	"github.com/google/uuid"
)

type Designator struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code          string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Category      string    `gorm:"type:varchar(255);not null;index"`
	Description   string    `gorm:"type:text"`
	Unit          string    `gorm:"type:varchar(50)"`
	MaterialValue float64   `gorm:"type:numeric(18,2);not null;default:0"`
	ServiceValue  float64   `gorm:"type:numeric(18,2);not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Designator) TableName() string {
	return "designators"
}
