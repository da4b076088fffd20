package models

import "time"

type ProjectRole string

const (
	RoleOwner  ProjectRole = "owner"
	RoleAdmin  ProjectRole = "admin"
	RoleMember ProjectRole = "member"
	RoleViewer ProjectRole = "viewer"
)

// ParseProjectRole maps a wire value to a role. Unknown values are rejected
// at the validation layer rather than stored.
func ParseProjectRole(s string) (ProjectRole, bool) {
	switch ProjectRole(s) {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return ProjectRole(s), true
	}
	return "", false
}

// ProjectMember grants a user access to a project. At most one row per
// (project, user) pair; its absence means the user is not authorized.
type ProjectMember struct {
	ProjectID      uint64      `gorm:"primarykey" json:"project_id"`
	UserID         uint64      `gorm:"primarykey" json:"user_id"`
	Role           ProjectRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	NotifyMentions bool        `gorm:"not null;default:true" json:"notify_mentions"`
	NotifyDueSoon  bool        `gorm:"not null;default:true" json:"notify_due_soon"`
	JoinedAt       time.Time   `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
