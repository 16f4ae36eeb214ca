package model

import (
	"time"

	"github.com/google/uuid"
)

type Segment struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Segment) TableName() string {
	return "segments"
}
