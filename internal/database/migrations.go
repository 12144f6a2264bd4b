package database

import (
	"fmt"

	"github.com/yukikurage/todo-list-api/internal/models"
	"gorm.io/gorm"
)

// index describes a secondary index not expressed in model tags.
type index struct {
	model   any
	name    string
	columns string
}

var indexes = []index{
	// Tasks are always read per list and per owner
	{&models.Task{}, "idx_tasks_list_status_due", "list_id, status, due_date"},
	{&models.Task{}, "idx_tasks_user_list", "user_id, list_id"},
}

// AddIndexes creates the secondary indexes that do not exist yet.
func AddIndexes(db *gorm.DB) error {
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// CaseSensitiveTitles gives lists.title a binary collation on MySQL, whose
// default collations ignore case and accents. List titles are unique per
// owner by exact match, so "Tasks" and "tasks" must not collide. Other
// drivers already compare text exactly.
func CaseSensitiveTitles(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	sql := "ALTER TABLE `lists` MODIFY `title` varchar(30) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
	if err := db.Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to set list title collation: %w", err)
	}
	return nil
}
