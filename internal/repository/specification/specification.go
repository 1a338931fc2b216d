package specification

import "gorm.io/gorm"

// Specification is a composable query fragment. Repositories apply each one
// to the base query, so callers express intent (ownership, status, paging)
// without writing SQL; test doubles interpret the same values in memory.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
