package dto

import (
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
)

// TaskDTO represents a task in API responses. Status uses the wire spelling
// ("in-progress"), assignee identity is flattened for board rendering.
type TaskDTO struct {
	ID             uint64              `json:"id"`
	ProjectID      uint64              `json:"project_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         string              `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	AssigneeID     *uint64             `json:"assignee_id"`
	Assignee       string              `json:"assignee"`
	AssigneeAvatar string              `json:"assignee_avatar,omitempty"`
	CreatorID      *uint64             `json:"creator_id"`
	Comments       int64               `json:"comments"`
	Attachments    int                 `json:"attachments"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, commentCount int64) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.Wire(),
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		AssigneeID:  task.AssigneeID,
		Assignee:    "Unassigned",
		CreatorID:   task.CreatorID,
		Comments:    commentCount,
		Attachments: task.AttachmentsCount,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Assignee != nil {
		dto.Assignee = task.Assignee.DisplayName()
		dto.AssigneeAvatar = task.Assignee.AvatarURL
	}

	return dto
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCommentDTO converts a TaskComment to CommentDTO
func ToCommentDTO(comment models.TaskComment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Author:    "Unknown",
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		dto.Author = comment.Author.DisplayName()
	}
	return dto
}

// TaskEventDTO represents one entry of a task's audit history
type TaskEventDTO struct {
	ID         uint64               `json:"id"`
	TaskID     uint64               `json:"task_id"`
	Type       models.TaskEventType `json:"type"`
	Actor      string               `json:"actor"`
	ActorID    *uint64              `json:"actor_id"`
	FromStatus string               `json:"from_status,omitempty"`
	ToStatus   string               `json:"to_status,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ToTaskEventDTO converts a TaskEvent to TaskEventDTO
func ToTaskEventDTO(event models.TaskEvent) TaskEventDTO {
	dto := TaskEventDTO{
		ID:        event.ID,
		TaskID:    event.TaskID,
		Type:      event.Type,
		Actor:     "Unknown",
		ActorID:   event.ActorID,
		CreatedAt: event.CreatedAt,
	}
	if event.Actor != nil {
		dto.Actor = event.Actor.DisplayName()
	}
	if event.FromStatus != "" {
		dto.FromStatus = models.TaskStatus(event.FromStatus).Wire()
	}
	if event.ToStatus != "" {
		dto.ToStatus = models.TaskStatus(event.ToStatus).Wire()
	}
	return dto
}
