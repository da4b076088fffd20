package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
)

// ProjectStatus is the derived health of a project, never stored.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOverdue   ProjectStatus = "overdue"
)

// ClassifyProjectStatus derives a project's status from its task tallies and
// due date. Completion wins over lateness: a fully done project is completed
// even when its due date has passed. A project with no tasks is never
// completed. Overdue compares calendar days, so a project due today is still
// active.
func ClassifyProjectStatus(total, done int64, dueDate *time.Time, now time.Time) ProjectStatus {
	if total > 0 && done >= total {
		return ProjectStatusCompleted
	}
	if dueDate != nil && startOfDay(*dueDate).Before(startOfDay(now)) {
		return ProjectStatusOverdue
	}
	return ProjectStatusActive
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// eventWeights maps event types to leaderboard points. Task creation is
// tracked in the log but scores nothing.
var eventWeights = map[models.TaskEventType]float64{
	models.EventCompleted:     5,
	models.EventStatusChanged: 1,
	models.EventReassigned:    1,
	models.EventCommentAdded:  0.5,
	models.EventCreated:       0,
}

// AnalyticsService derives leaderboards and summaries from the event log.
// It never writes anything.
type AnalyticsService struct {
	projectRepo repository.ProjectRepository
	eventRepo   repository.EventRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(projectRepo repository.ProjectRepository, eventRepo repository.EventRepository) *AnalyticsService {
	return &AnalyticsService{
		projectRepo: projectRepo,
		eventRepo:   eventRepo,
	}
}

// LeaderboardEntry is one member's ranked score.
type LeaderboardEntry struct {
	Member models.ProjectMember
	Score  float64
}

// Leaderboard scores every member of the project by replaying its event log.
// Members with no events appear with a zero score. Events whose actor has
// been deleted contribute nothing.
func (s *AnalyticsService) Leaderboard(projectID uint64) ([]LeaderboardEntry, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	events, err := s.eventRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	scores := make(map[uint64]float64, len(members))
	for _, event := range events {
		if event.ActorID == nil {
			continue
		}
		scores[*event.ActorID] += eventWeights[event.Type]
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, member := range members {
		entries = append(entries, LeaderboardEntry{
			Member: member,
			Score:  scores[member.UserID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Member.UserID < entries[j].Member.UserID
	})

	return entries, nil
}

// ProjectSummary holds the tallies behind a project's derived status.
type ProjectSummary struct {
	ProjectID      uint64
	TotalTasks     int64
	CompletedTasks int64
	DueDate        *time.Time
	Status         ProjectStatus
}

// Summarize computes the task tallies and derived status for a project.
func (s *AnalyticsService) Summarize(project *models.Project) (*ProjectSummary, error) {
	totals, err := s.projectRepo.TaskTotals(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &ProjectSummary{
		ProjectID:      project.ID,
		TotalTasks:     totals.Total,
		CompletedTasks: totals.Done,
		DueDate:        project.DueDate,
		Status:         ClassifyProjectStatus(totals.Total, totals.Done, project.DueDate, time.Now()),
	}, nil
}
