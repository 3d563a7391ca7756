package database

import (
	"gorm.io/gorm"
)

// SkipLimit applies cursor-style skip/limit windowing to a GORM query.
// Non-positive values leave the query untouched.
func SkipLimit(skip, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if limit > 0 {
			db = db.Limit(limit)
		}
		return db
	}
}
