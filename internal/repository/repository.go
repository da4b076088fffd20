package repository

import (
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// TaskCounts aggregates a member's task figures within one project.
type TaskCounts struct {
	Total int64
	Done  int64
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner membership atomically
	CreateWithOwner(project *models.Project, ownerID uint64) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByUserID lists projects the user is a member of, newest first
	ListByUserID(userID uint64) ([]models.Project, error)

	// Delete removes a project and everything it owns in one transaction
	Delete(id uint64) error

	// AddMember adds a membership; adding an existing member is a no-op
	AddMember(member *models.ProjectMember) error

	// FindMember finds a specific project membership
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project with user identity loaded
	ListMembers(projectID uint64) ([]models.ProjectMember, error)

	// CountMembers counts a project's members
	CountMembers(projectID uint64) (int64, error)

	// MemberTaskCounts returns per-assignee done/total task counts for a project
	MemberTaskCounts(projectID uint64) (map[uint64]TaskCounts, error)

	// TaskTotals returns the project's total and done task counts
	TaskTotals(projectID uint64) (TaskCounts, error)
}

// TaskRepository defines the interface for task data access. Mutations that
// must emit lifecycle events take them alongside the row change so both
// commit or roll back together.
type TaskRepository interface {
	// CreateWithEvent inserts a task and its "created" event atomically
	CreateWithEvent(task *models.Task, event *models.TaskEvent) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByProject lists a page of a project's tasks, newest first
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// UpdateWithEvents saves a task and appends its derived events atomically
	UpdateWithEvents(task *models.Task, events []models.TaskEvent) error

	// Delete removes a task together with its comments and events
	Delete(id uint64) error

	// CreateCommentWithEvent inserts a comment and its "comment_added" event atomically
	CreateCommentWithEvent(comment *models.TaskComment, event *models.TaskEvent) error

	// ListComments lists a task's comments in creation order
	ListComments(taskID uint64) ([]models.TaskComment, error)

	// CommentCounts returns per-task comment counts
	CommentCounts(taskIDs []uint64) (map[uint64]int64, error)
}

// EventRepository is the append-only task event log.
type EventRepository interface {
	// Append writes one event. Events are never updated or removed here.
	Append(event *models.TaskEvent) error

	// ListByProject returns every event for one project, for scoring
	ListByProject(projectID uint64) ([]models.TaskEvent, error)

	// ListByTask returns a task's history, creation-time ascending,
	// insertion order breaking ties
	ListByTask(taskID uint64) ([]models.TaskEvent, error)
}

// ThreadRepository defines the interface for thread and message data access
type ThreadRepository interface {
	// EnsureGeneral returns the project's canonical "General" thread,
	// creating it if absent; safe under concurrent first access
	EnsureGeneral(projectID uint64, creatorID *uint64) (*models.ProjectThread, error)

	// FindByID finds a thread by ID
	FindByID(id uint64) (*models.ProjectThread, error)

	// CreateMessage inserts a message
	CreateMessage(msg *models.ThreadMessage) error

	// FindMessage finds a message by ID
	FindMessage(id uint64) (*models.ThreadMessage, error)

	// ListMessages lists a page of a thread's messages in ascending creation order
	ListMessages(threadID uint64, params utils.PaginationParams) ([]models.ThreadMessage, int64, error)
}
