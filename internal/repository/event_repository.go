package repository

import (
	"github.com/synergysphere/project-collab-api/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Append writes one event to the log. Task mutations write their events
// inside the task repository's transactions instead; this is the standalone
// write path for callers outside those flows.
func (r *GormEventRepository) Append(event *models.TaskEvent) error {
	return r.db.Create(event).Error
}

// ListByProject returns every event for one project
func (r *GormEventRepository) ListByProject(projectID uint64) ([]models.TaskEvent, error) {
	var events []models.TaskEvent
	if err := r.db.Where("project_id = ?", projectID).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListByTask returns a task's history, oldest first. The monotonic id breaks
// ties between events written in the same instant.
func (r *GormEventRepository) ListByTask(taskID uint64) ([]models.TaskEvent, error) {
	var events []models.TaskEvent
	if err := r.db.Preload("Actor").
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
