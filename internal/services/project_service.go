package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrNotProjectMember    = errors.New("user is not a member of this project")
	ErrProjectNameRequired = errors.New("project name is required")
	ErrMemberEmailRequired = errors.New("member email is required")
)

// ProjectService owns project lifecycle and the membership ledger. Every
// authorization and assignee check elsewhere in the system ultimately asks
// this service's repository whether a (project, user) row exists.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents the data needed to create a project.
type CreateProjectInput struct {
	Name        string
	Description string
	DueDate     *time.Time
	OwnerID     uint64
}

// CreateProject creates a project and enrolls the creator as its owner in a
// single transaction.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		DueDate:     input.DueDate,
	}

	if err := s.projectRepo.CreateWithOwner(project, input.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ProjectCard is a project enriched with the aggregates the dashboard shows.
type ProjectCard struct {
	Project        models.Project
	MemberCount    int64
	TotalTasks     int64
	CompletedTasks int64
	Status         ProjectStatus
	Preview        []models.ProjectMember
}

// ListProjectCards returns dashboard cards for every project the user is a
// member of, newest project first.
func (s *ProjectService) ListProjectCards(userID uint64) ([]ProjectCard, error) {
	projects, err := s.projectRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	now := time.Now()
	cards := make([]ProjectCard, 0, len(projects))
	for _, project := range projects {
		totals, err := s.projectRepo.TaskTotals(project.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count tasks for project %d: %w", project.ID, err)
		}
		memberCount, err := s.projectRepo.CountMembers(project.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count members for project %d: %w", project.ID, err)
		}
		members, err := s.projectRepo.ListMembers(project.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members for project %d: %w", project.ID, err)
		}
		if len(members) > 3 {
			members = members[:3]
		}

		cards = append(cards, ProjectCard{
			Project:        project,
			MemberCount:    memberCount,
			TotalTasks:     totals.Total,
			CompletedTasks: totals.Done,
			Status:         ClassifyProjectStatus(totals.Total, totals.Done, project.DueDate, now),
			Preview:        members,
		})
	}

	return cards, nil
}

// DeleteProject removes a project and everything hanging off it.
func (s *ProjectService) DeleteProject(id uint64) error {
	if _, err := s.GetProject(id); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// JoinProject enrolls the user as a plain member. Joining a project the user
// already belongs to is a no-op, not an error.
func (s *ProjectService) JoinProject(projectID, userID uint64) error {
	if _, err := s.GetProject(projectID); err != nil {
		return err
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to join project: %w", err)
	}
	return nil
}

// AddMemberInput identifies who to enroll and with what role.
type AddMemberInput struct {
	ProjectID uint64
	Email     string
	Name      string
	Role      models.ProjectRole
}

// AddMemberByEmail enrolls a user by email, creating a shell account when no
// user with that email exists yet. Adding an existing member again leaves the
// ledger untouched and succeeds.
func (s *ProjectService) AddMemberByEmail(input AddMemberInput) (*models.ProjectMember, error) {
	if _, err := s.GetProject(input.ProjectID); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrMemberEmailRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		name := strings.TrimSpace(input.Name)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user = &models.User{
			Email:    email,
			Name:     name,
			IsActive: true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	role := input.Role
	if role == "" {
		role = models.RoleMember
	}

	member := &models.ProjectMember{
		ProjectID: input.ProjectID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	// Re-read so a duplicate add reports the original role and join time.
	existing, err := s.projectRepo.FindMember(input.ProjectID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	existing.User = *user
	return existing, nil
}

// MemberWithCounts pairs a ledger row with the member's task tallies.
type MemberWithCounts struct {
	Member     models.ProjectMember
	TotalTasks int64
	DoneTasks  int64
}

// ListMembersWithCounts returns every member of the project with how many
// tasks are assigned to them and how many of those are done.
func (s *ProjectService) ListMembersWithCounts(projectID uint64) ([]MemberWithCounts, error) {
	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	counts, err := s.projectRepo.MemberTaskCounts(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count member tasks: %w", err)
	}

	result := make([]MemberWithCounts, 0, len(members))
	for _, member := range members {
		c := counts[member.UserID]
		result = append(result, MemberWithCounts{
			Member:     member,
			TotalTasks: c.Total,
			DoneTasks:  c.Done,
		})
	}
	return result, nil
}

// EnsureMember returns ErrNotProjectMember unless the user appears in the
// project's ledger.
func (s *ProjectService) EnsureMember(projectID, userID uint64) (*models.ProjectMember, error) {
	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProjectMember
		}
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	return member, nil
}
