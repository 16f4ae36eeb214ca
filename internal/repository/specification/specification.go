package specification

import "gorm.io/gorm"

// Specification composes query filters onto a gorm query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
