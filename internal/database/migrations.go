package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate
// derives from struct tags. These are query-shape hints, not constraints.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Board and dashboard filters
		{"tasks", "ix_tasks_project_status", "project_id, status"},
		{"tasks", "ix_tasks_assignee_status_due", "assignee_id, status, due_date"},

		// Event log read paths: per-project scoring, per-task history
		{"task_events", "ix_task_events_project_id", "project_id"},
		{"task_events", "ix_task_events_task_created", "task_id, created_at"},

		// Membership lookups run before every project-scoped operation
		{"project_members", "ix_project_members_user_id", "user_id"},

		{"task_comments", "ix_task_comments_task_id", "task_id"},
		{"thread_messages", "ix_thread_messages_thread_id", "thread_id"},
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
