package dto

import (
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
)

// MemberPreviewDTO is the trimmed identity shown on project cards
type MemberPreviewDTO struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// ProjectCardDTO is the dashboard view of a project: raw fields plus figures
// derived from the membership ledger and task table.
type ProjectCardDTO struct {
	ID             uint64             `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Members        int64              `json:"members"`
	TasksCompleted int64              `json:"tasks_completed"`
	TotalTasks     int64              `json:"total_tasks"`
	DueDate        *time.Time         `json:"due_date"`
	Status         string             `json:"status"`
	MembersPreview []MemberPreviewDTO `json:"members_preview"`
}

// ProjectMemberDTO represents a member in a project's member list
type ProjectMemberDTO struct {
	User           UserDTO            `json:"user"`
	Role           models.ProjectRole `json:"role"`
	JoinedAt       time.Time          `json:"joined_at"`
	TasksCompleted int64              `json:"tasks_completed"`
	TotalTasks     int64              `json:"total_tasks"`
	// Status is a static presence stand-in, not a derived fact.
	Status string `json:"status"`
}

// ToProjectMemberDTO converts a membership to its list view
func ToProjectMemberDTO(member models.ProjectMember, done, total int64) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:           ToUserDTO(member.User),
		Role:           member.Role,
		JoinedAt:       member.JoinedAt,
		TasksCompleted: done,
		TotalTasks:     total,
		Status:         "online",
	}
}
