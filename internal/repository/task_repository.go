package repository

import (
	"github.com/synergysphere/project-collab-api/internal/database"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateWithEvent inserts a task and its "created" event in one transaction
func (r *GormTaskRepository) CreateWithEvent(task *models.Task, event *models.TaskEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		event.TaskID = task.ID
		event.ProjectID = task.ProjectID
		return tx.Create(event).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject lists a page of a project's tasks, newest first
func (r *GormTaskRepository) ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.Order("tasks.id DESC").
		Scopes(database.Paginate(params)).
		Preload("Assignee").Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateWithEvents saves the task row and appends its derived events; both
// commit or neither does.
func (r *GormTaskRepository) UpdateWithEvents(task *models.Task, events []models.TaskEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}
		for i := range events {
			events[i].TaskID = task.ID
			events[i].ProjectID = task.ProjectID
		}
		return tx.Create(&events).Error
	})
}

// Delete removes a task together with its comments and events
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// CreateCommentWithEvent inserts a comment and its event in one transaction
func (r *GormTaskRepository) CreateCommentWithEvent(comment *models.TaskComment, event *models.TaskEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		event.TaskID = comment.TaskID
		return tx.Create(event).Error
	})
}

// ListComments lists a task's comments in creation order
func (r *GormTaskRepository) ListComments(taskID uint64) ([]models.TaskComment, error) {
	var comments []models.TaskComment
	if err := r.db.Preload("Author").
		Where("task_id = ?", taskID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// CommentCounts returns per-task comment counts
func (r *GormTaskRepository) CommentCounts(taskIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(taskIDs))
	if len(taskIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TaskID uint64
		Count  int64
	}
	err := r.db.Model(&models.TaskComment{}).
		Select("task_id, COUNT(*) AS count").
		Where("task_id IN ?", taskIDs).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TaskID] = row.Count
	}
	return counts, nil
}
