package repository

import (
	"github.com/synergysphere/project-collab-api/internal/constants"
	"github.com/synergysphere/project-collab-api/internal/database"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormThreadRepository is a GORM implementation of ThreadRepository
type GormThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new ThreadRepository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &GormThreadRepository{db: db}
}

// EnsureGeneral returns the project's "General" thread, creating it on first
// access. The insert rides the unique (project_id, title) index: a concurrent
// loser's insert becomes a no-op and both callers fetch the same row.
func (r *GormThreadRepository) EnsureGeneral(projectID uint64, creatorID *uint64) (*models.ProjectThread, error) {
	thread := models.ProjectThread{
		ProjectID:   projectID,
		Title:       constants.GeneralThreadTitle,
		CreatedByID: creatorID,
	}
	err := r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "title"}},
			DoNothing: true,
		}).
		Create(&thread).Error
	if err != nil {
		return nil, err
	}

	// The conflict path leaves thread.ID zero; always read back the winner.
	var existing models.ProjectThread
	if err := r.db.Where("project_id = ? AND title = ?", projectID, constants.GeneralThreadTitle).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FindByID finds a thread by ID
func (r *GormThreadRepository) FindByID(id uint64) (*models.ProjectThread, error) {
	var thread models.ProjectThread
	if err := r.db.First(&thread, id).Error; err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateMessage inserts a message
func (r *GormThreadRepository) CreateMessage(msg *models.ThreadMessage) error {
	return r.db.Create(msg).Error
}

// FindMessage finds a message by ID
func (r *GormThreadRepository) FindMessage(id uint64) (*models.ThreadMessage, error) {
	var msg models.ThreadMessage
	if err := r.db.Preload("Author").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages lists a page of a thread's messages in ascending creation order
func (r *GormThreadRepository) ListMessages(threadID uint64, params utils.PaginationParams) ([]models.ThreadMessage, int64, error) {
	query := r.db.Model(&models.ThreadMessage{}).Where("thread_id = ?", threadID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ThreadMessage
	if err := query.Order("created_at ASC, id ASC").
		Scopes(database.Paginate(params)).
		Preload("Author").
		Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
