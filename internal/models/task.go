package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

// ParseTaskStatus accepts the wire spelling ("in-progress") alongside the
// stored one and rejects everything else.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch s {
	case "todo":
		return TaskStatusTodo, true
	case "in_progress", "in-progress":
		return TaskStatusInProgress, true
	case "done":
		return TaskStatusDone, true
	}
	return "", false
}

// Wire returns the hyphenated spelling used in API payloads.
func (s TaskStatus) Wire() string {
	if s == TaskStatusInProgress {
		return "in-progress"
	}
	return string(s)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func ParseTaskPriority(s string) (TaskPriority, bool) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), true
	}
	return "", false
}

type Task struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	ProjectID        uint64         `gorm:"not null;index" json:"project_id"`
	Title            string         `gorm:"type:varchar(300);not null" json:"title"`
	Description      string         `gorm:"type:varchar(4000)" json:"description"`
	Status           TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority         TaskPriority   `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate          *time.Time     `json:"due_date"`
	AssigneeID       *uint64        `gorm:"index" json:"assignee_id"`
	CreatorID        *uint64        `json:"creator_id"`
	AttachmentsCount int            `gorm:"not null;default:0" json:"attachments_count"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project  Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee *User         `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  *User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Comments []TaskComment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
