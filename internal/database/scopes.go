package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows owned by userID
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// InList restricts a query to tasks belonging to listID
func InList(listID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("list_id = ?", listID)
	}
}
