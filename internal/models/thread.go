package models

import "time"

// ProjectThread is a named discussion thread within a project. The unique
// (project_id, title) index is what makes lazy creation of the canonical
// "General" thread safe under concurrent first access.
type ProjectThread struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ProjectID   uint64    `gorm:"not null;uniqueIndex:ux_project_threads_project_title" json:"project_id"`
	Title       string    `gorm:"type:varchar(300);not null;uniqueIndex:ux_project_threads_project_title" json:"title"`
	CreatedByID *uint64   `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Messages []ThreadMessage `gorm:"foreignKey:ThreadID" json:"messages,omitempty"`
}

// ThreadMessage belongs to a thread. ParentMessageID forms a single-level
// reply relation: a message either is a reply or it is not, there is no tree.
type ThreadMessage struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	ThreadID        uint64    `gorm:"not null;index" json:"thread_id"`
	AuthorID        *uint64   `json:"author_id"`
	ParentMessageID *uint64   `json:"parent_message_id"`
	Body            string    `gorm:"type:varchar(4000);not null" json:"body"`
	CreatedAt       time.Time `json:"created_at"`

	// Relations
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
