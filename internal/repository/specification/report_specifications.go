package specification

import "gorm.io/gorm"

// ByChatID filters reports by the originating chat
type ByChatID struct {
	ChatID int64
}

func (s ByChatID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_id = ?", s.ChatID)
}

// BySegment filters reports by segment name
type BySegment struct {
	Segment string
}

func (s BySegment) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("segment = ?", s.Segment)
}

// Finalized keeps only submitted reports
type Finalized struct{}

func (s Finalized) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("finalized_at IS NOT NULL")
}

// NotFinalized keeps abandoned or in-progress drafts
type NotFinalized struct{}

func (s NotFinalized) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("finalized_at IS NULL")
}
