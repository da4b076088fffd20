package dto

import (
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
)

// ThreadDTO represents a discussion thread in API responses
type ThreadDTO struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ToThreadDTO converts a ProjectThread to ThreadDTO
func ToThreadDTO(thread models.ProjectThread) ThreadDTO {
	return ThreadDTO{
		ID:        thread.ID,
		ProjectID: thread.ProjectID,
		Title:     thread.Title,
		CreatedAt: thread.CreatedAt,
	}
}

// ThreadMessageDTO represents a thread message; IsReply is true iff the
// message has a parent.
type ThreadMessageDTO struct {
	ID        uint64    `json:"id"`
	ThreadID  uint64    `json:"thread_id"`
	Author    string    `json:"author"`
	AuthorID  *uint64   `json:"author_id"`
	Body      string    `json:"body"`
	ReplyTo   *uint64   `json:"reply_to,omitempty"`
	IsReply   bool      `json:"is_reply"`
	CreatedAt time.Time `json:"created_at"`
}

// ToThreadMessageDTO converts a ThreadMessage to ThreadMessageDTO
func ToThreadMessageDTO(msg models.ThreadMessage) ThreadMessageDTO {
	dto := ThreadMessageDTO{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		Author:    "Unknown",
		AuthorID:  msg.AuthorID,
		Body:      msg.Body,
		ReplyTo:   msg.ParentMessageID,
		IsReply:   msg.ParentMessageID != nil,
		CreatedAt: msg.CreatedAt,
	}
	if msg.Author != nil {
		dto.Author = msg.Author.DisplayName()
	}
	return dto
}
