package entity

import (
	"time"

	"github.com/google/uuid"
)

type Segment struct {
	Id        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Designator struct {
	Id            uuid.UUID
	Code          string
	Category      string
	Description   string
	Unit          string
	MaterialValue float64
	ServiceValue  float64
	CreatedAt     time.Time
}
