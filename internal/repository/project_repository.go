package repository

import (
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithOwner creates a project and its owner membership atomically
func (r *GormProjectRepository) CreateWithOwner(project *models.Project, ownerID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now(),
		}
		return tx.Create(member).Error
	})
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUserID lists projects the user is a member of, newest first
func (r *GormProjectRepository) ListByUserID(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.id DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project and all entities it owns in a single transaction.
// Task events and comments go first since they hang off tasks, then threads
// and their messages, then tasks, memberships, and finally the project row.
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.TaskEvent{}).Error; err != nil {
			return err
		}

		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}

		threadIDs := tx.Model(&models.ProjectThread{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("thread_id IN (?)", threadIDs).Delete(&models.ThreadMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectThread{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// AddMember adds a membership. Adding an existing (project, user) pair is a
// successful no-op, not an error.
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member).Error
}

// FindMember finds a specific project membership
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project with user identity loaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("user_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers counts a project's members
func (r *GormProjectRepository) CountMembers(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// MemberTaskCounts returns per-assignee done/total task counts for a project
func (r *GormProjectRepository) MemberTaskCounts(projectID uint64) (map[uint64]TaskCounts, error) {
	var rows []struct {
		AssigneeID uint64
		Total      int64
		Done       int64
	}

	err := r.db.Model(&models.Task{}).
		Select("assignee_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS done", models.TaskStatusDone).
		Where("project_id = ? AND assignee_id IS NOT NULL", projectID).
		Group("assignee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint64]TaskCounts, len(rows))
	for _, row := range rows {
		counts[row.AssigneeID] = TaskCounts{Total: row.Total, Done: row.Done}
	}
	return counts, nil
}

// TaskTotals returns the project's total and done task counts
func (r *GormProjectRepository) TaskTotals(projectID uint64) (TaskCounts, error) {
	var row struct {
		Total int64
		Done  int64
	}

	err := r.db.Model(&models.Task{}).
		Select("COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS done", models.TaskStatusDone).
		Where("project_id = ?", projectID).
		Scan(&row).Error
	if err != nil {
		return TaskCounts{}, err
	}
	return TaskCounts{Total: row.Total, Done: row.Done}, nil
}
