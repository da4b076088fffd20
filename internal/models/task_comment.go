package models

import "time"

type TaskComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	AuthorID  *uint64   `json:"author_id"`
	Body      string    `gorm:"type:varchar(4000);not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
