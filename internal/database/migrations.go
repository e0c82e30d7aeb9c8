package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the secondary indexes used by the filtered queries.
// Unique indexes come from the model tags; these only speed up lookups.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_task_list_id", "task_list_id"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_priority", "priority"},
		{"tasks", "idx_tasks_assigned_user_id", "assigned_user_id"},
		{"tasks", "idx_tasks_due_date", "due_date"},
		{"users", "idx_users_status", "status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
