package models

import "time"

type TaskEventType string

const (
	EventCreated       TaskEventType = "created"
	EventStatusChanged TaskEventType = "status_changed"
	EventReassigned    TaskEventType = "reassigned"
	EventCompleted     TaskEventType = "completed"
	EventCommentAdded  TaskEventType = "comment_added"
)

// TaskEvent is an append-only record of a task lifecycle occurrence. Rows are
// never updated; they disappear only when their task or project cascades away.
// The event log, not the task row, is the source of truth for analytics.
type TaskEvent struct {
	ID         uint64        `gorm:"primarykey" json:"id"`
	TaskID     uint64        `gorm:"not null;index" json:"task_id"`
	ProjectID  uint64        `gorm:"not null;index" json:"project_id"`
	ActorID    *uint64       `json:"actor_id"`
	Type       TaskEventType `gorm:"type:varchar(30);not null" json:"type"`
	FromStatus string        `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   string        `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`

	// Relations
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}
