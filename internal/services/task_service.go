package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synergysphere/project-collab-api/internal/constants"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
	"github.com/synergysphere/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrNotTaskCreator         = errors.New("only the task creator can perform this action")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskAssignee    = errors.New("assignee is not a member of this project")
	ErrEmptyCommentBody       = errors.New("comment body cannot be empty")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksSuggested     = errors.New("AI did not suggest any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic. Every state change it commits is
// paired with the events describing it inside one transaction, so the log
// either records a change fully or not at all.
type TaskService struct {
	taskRepo    repository.TaskRepository
	eventRepo   repository.EventRepository
	projectRepo repository.ProjectRepository
	aiService   *AIService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, eventRepo repository.EventRepository, projectRepo repository.ProjectRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		eventRepo:   eventRepo,
		projectRepo: projectRepo,
		aiService:   aiService,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssigneeID  *uint64
	CreatorID   uint64
}

// CreateTask creates a task in status todo and records a created event in the
// same transaction. The assignee, when given, must already appear in the
// project's member ledger.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.ensureProjectMember(input.ProjectID, input.CreatorID); err != nil {
		return nil, err
	}

	assigneeID := input.AssigneeID
	if assigneeID != nil && *assigneeID == constants.UnassignedSentinel {
		assigneeID = nil
	}
	if assigneeID != nil {
		if err := s.ensureProjectMember(input.ProjectID, *assigneeID); err != nil {
			if errors.Is(err, ErrNotProjectMember) {
				return nil, ErrInvalidTaskAssignee
			}
			return nil, err
		}
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    priority,
		DueDate:     input.DueDate,
		AssigneeID:  assigneeID,
		CreatorID:   &input.CreatorID,
	}
	event := &models.TaskEvent{
		ActorID: &input.CreatorID,
		Type:    models.EventCreated,
	}

	if err := s.taskRepo.CreateWithEvent(task, event); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Creator")
}

// UpdateTaskInput represents a partial update. Nil fields are left untouched.
// AssigneeID zero clears the assignee.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	AssigneeID   *uint64
}

// UpdateTask applies a partial update and derives the events it implies. A
// status change records status_changed, plus completed when the new status is
// done. Setting the status to its current value records nothing. Moving the
// task to a different member records reassigned after checking the ledger;
// clearing the assignee is silent.
func (s *TaskService) UpdateTask(taskID, actorID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureProjectMember(task.ProjectID, actorID); err != nil {
		return nil, err
	}

	var events []models.TaskEvent

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if input.Status != nil && *input.Status != task.Status {
		events = append(events, models.TaskEvent{
			ActorID:    &actorID,
			Type:       models.EventStatusChanged,
			FromStatus: string(task.Status),
			ToStatus:   string(*input.Status),
		})
		if *input.Status == models.TaskStatusDone {
			events = append(events, models.TaskEvent{
				ActorID: &actorID,
				Type:    models.EventCompleted,
			})
		}
		task.Status = *input.Status
	}

	if input.AssigneeID != nil {
		if *input.AssigneeID == constants.UnassignedSentinel {
			task.AssigneeID = nil
		} else if task.AssigneeID == nil || *task.AssigneeID != *input.AssigneeID {
			if err := s.ensureProjectMember(task.ProjectID, *input.AssigneeID); err != nil {
				if errors.Is(err, ErrNotProjectMember) {
					return nil, ErrInvalidTaskAssignee
				}
				return nil, err
			}
			assigneeID := *input.AssigneeID
			task.AssigneeID = &assigneeID
			events = append(events, models.TaskEvent{
				ActorID: &actorID,
				Type:    models.EventReassigned,
			})
		}
	}

	if err := s.taskRepo.UpdateWithEvents(task, events); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Creator")
}

// GetTask returns a task with related data.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListTasks returns a page of the project's tasks, newest first, along with
// per-task comment counts and the unpaged total.
func (s *TaskService) ListTasks(projectID uint64, params utils.PaginationParams) ([]models.Task, map[uint64]int64, int64, error) {
	tasks, total, err := s.taskRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskIDs := make([]uint64, 0, len(tasks))
	for _, task := range tasks {
		taskIDs = append(taskIDs, task.ID)
	}
	commentCounts, err := s.taskRepo.CommentCounts(taskIDs)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return tasks, commentCounts, total, nil
}

// DeleteTask deletes a task if the actor is the creator. The task's comments
// and events go with it.
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.CreatorID == nil || *task.CreatorID != actorID {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AddComment attaches a comment to a task and records a comment_added event
// in the same transaction.
func (s *TaskService) AddComment(taskID, authorID uint64, body string) (*models.TaskComment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.ensureProjectMember(task.ProjectID, authorID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyCommentBody
	}

	comment := &models.TaskComment{
		TaskID:   task.ID,
		AuthorID: &authorID,
		Body:     strings.TrimSpace(body),
	}
	event := &models.TaskEvent{
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		ActorID:   &authorID,
		Type:      models.EventCommentAdded,
	}

	if err := s.taskRepo.CreateCommentWithEvent(comment, event); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a task's comments, oldest first.
func (s *TaskService) ListComments(taskID uint64) ([]models.TaskComment, error) {
	comments, err := s.taskRepo.ListComments(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListEvents returns a task's event history in insertion order.
func (s *TaskService) ListEvents(taskID uint64) ([]models.TaskEvent, error) {
	events, err := s.eventRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// SuggestTasksInput represents input for AI task suggestion.
type SuggestTasksInput struct {
	Text      string
	CreatorID uint64
}

// SuggestTasks uses AI to extract task drafts from free text. The drafts are
// not persisted; the client creates the ones it wants through CreateTask.
func (s *TaskService) SuggestTasks(ctx context.Context, input SuggestTasksInput) ([]SuggestedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.SuggestTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksSuggested
	}
	if len(aiTasks) > constants.MaxAISuggestedTasks {
		return nil, fmt.Errorf("AI suggested too many tasks (max %d)", constants.MaxAISuggestedTasks)
	}

	validTasks := make([]SuggestedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}

		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

// ensureProjectMember verifies that a user appears in a project's ledger.
func (s *TaskService) ensureProjectMember(projectID, userID uint64) error {
	_, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotProjectMember
		}
		return fmt.Errorf("failed to verify project membership: %w", err)
	}
	return nil
}
