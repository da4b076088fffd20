package services

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/synergysphere/project-collab-api/internal/logger"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
)

// DemoService seeds a ready-made workspace for a fresh account. All writes go
// through the regular services so the seeded data carries the same events a
// real user would have produced.
type DemoService struct {
	projectService *ProjectService
	taskService    *TaskService
	threadService  *ThreadService
	projectRepo    repository.ProjectRepository
}

// NewDemoService creates a new DemoService.
func NewDemoService(projectService *ProjectService, taskService *TaskService, threadService *ThreadService, projectRepo repository.ProjectRepository) *DemoService {
	return &DemoService{
		projectService: projectService,
		taskService:    taskService,
		threadService:  threadService,
		projectRepo:    projectRepo,
	}
}

type demoTeammate struct {
	Name  string
	Email string
}

var demoTeammates = []demoTeammate{
	{Name: "Ava Chen", Email: "ava.demo"},
	{Name: "Marcus Webb", Email: "marcus.demo"},
	{Name: "Priya Nair", Email: "priya.demo"},
}

var demoTaskTitles = []string{
	"Draft the project charter",
	"Set up the shared design board",
	"Interview three pilot users",
	"Write the onboarding checklist",
	"Review the sprint backlog",
	"Prepare the kickoff deck",
	"Collect feedback from the beta group",
	"Ship the first status report",
}

// Bootstrap creates a demo project for the user unless they already belong to
// one. It returns the project the user ends up with and whether this call
// created it.
func (s *DemoService) Bootstrap(user *models.User) (*models.Project, bool, error) {
	existing, err := s.projectRepo.ListByUserID(user.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing projects: %w", err)
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	due := time.Now().AddDate(0, 0, 14)
	project, err := s.projectService.CreateProject(CreateProjectInput{
		Name:        "SynergySphere Demo",
		Description: "A sample project to explore tasks, discussions and the leaderboard.",
		DueDate:     &due,
		OwnerID:     user.ID,
	})
	if err != nil {
		return nil, false, err
	}

	// Teammate emails are scoped to the owner so parallel demo accounts never
	// collide on the users table.
	memberIDs := []uint64{user.ID}
	for _, teammate := range demoTeammates {
		member, err := s.projectService.AddMemberByEmail(AddMemberInput{
			ProjectID: project.ID,
			Email:     fmt.Sprintf("%s+%d@example.com", teammate.Email, user.ID),
			Name:      teammate.Name,
			Role:      models.RoleMember,
		})
		if err != nil {
			return nil, false, err
		}
		memberIDs = append(memberIDs, member.UserID)
	}

	for i, title := range demoTaskTitles {
		assigneeID := memberIDs[i%len(memberIDs)]
		dueDate := time.Now().AddDate(0, 0, 1+rand.Intn(10))
		task, err := s.taskService.CreateTask(CreateTaskInput{
			ProjectID:   project.ID,
			Title:       title,
			Description: "Part of the demo workspace.",
			Priority:    demoPriority(i),
			DueDate:     &dueDate,
			AssigneeID:  &assigneeID,
			CreatorID:   user.ID,
		})
		if err != nil {
			return nil, false, err
		}

		// Walk some tasks forward so the board and leaderboard have a story.
		switch i % 3 {
		case 1:
			status := models.TaskStatusInProgress
			if _, err := s.taskService.UpdateTask(task.ID, assigneeID, UpdateTaskInput{Status: &status}); err != nil {
				return nil, false, err
			}
		case 2:
			status := models.TaskStatusDone
			if _, err := s.taskService.UpdateTask(task.ID, assigneeID, UpdateTaskInput{Status: &status}); err != nil {
				return nil, false, err
			}
			if _, err := s.taskService.AddComment(task.ID, assigneeID, "Done, ready for review."); err != nil {
				return nil, false, err
			}
		}
	}

	thread, err := s.threadService.GetGeneralThread(project.ID, user.ID)
	if err != nil {
		return nil, false, err
	}
	welcome := []struct {
		authorID uint64
		body     string
	}{
		{user.ID, "Welcome to the demo project! Everything here was created through the regular API."},
		{memberIDs[1], "Glad to be on board. I picked up a couple of tasks already."},
	}
	var firstMessageID uint64
	for i, msg := range welcome {
		input := PostMessageInput{
			ProjectID: project.ID,
			ThreadID:  thread.ID,
			AuthorID:  msg.authorID,
			Body:      msg.body,
		}
		if i > 0 {
			parentID := firstMessageID
			input.ParentMessageID = &parentID
		}
		posted, err := s.threadService.PostMessage(input)
		if err != nil {
			return nil, false, err
		}
		if i == 0 {
			firstMessageID = posted.ID
		}
	}

	logger.Infof("bootstrapped demo project %d for user %d", project.ID, user.ID)

	return project, true, nil
}

func demoPriority(i int) models.TaskPriority {
	switch i % 3 {
	case 0:
		return models.TaskPriorityHigh
	case 1:
		return models.TaskPriorityMedium
	default:
		return models.TaskPriorityLow
	}
}
