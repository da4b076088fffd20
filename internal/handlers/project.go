package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/synergysphere/project-collab-api/internal/constants"
	"github.com/synergysphere/project-collab-api/internal/dto"
	apierrors "github.com/synergysphere/project-collab-api/internal/errors"
	"github.com/synergysphere/project-collab-api/internal/middleware"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// contextProject returns the project loaded by RequireProjectAccess.
func contextProject(c *gin.Context) (models.Project, bool) {
	projectInterface, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := projectInterface.(models.Project)
	return project, ok
}

// CreateProject creates a new project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string     `json:"name" binding:"required,max=200"`
		Description string     `json:"description" binding:"omitempty,max=1000"`
		DueDate     *time.Time `json:"dueDate"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		OwnerID:     userID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	card := dto.ProjectCardDTO{
		ID:             project.ID,
		Name:           project.Name,
		Description:    project.Description,
		Members:        1,
		TotalTasks:     0,
		TasksCompleted: 0,
		DueDate:        project.DueDate,
		Status:         string(services.ProjectStatusActive),
		MembersPreview: []dto.MemberPreviewDTO{},
	}
	c.JSON(http.StatusCreated, card)
}

// ListProjects returns dashboard cards for the caller's projects.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	cards, err := h.projectService.ListProjectCards(userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	cardDTOs := make([]dto.ProjectCardDTO, 0, len(cards))
	for _, card := range cards {
		preview := make([]dto.MemberPreviewDTO, 0, len(card.Preview))
		for _, member := range card.Preview {
			preview = append(preview, dto.MemberPreviewDTO{
				Name:  member.User.DisplayName(),
				Email: member.User.Email,
			})
		}
		cardDTOs = append(cardDTOs, dto.ProjectCardDTO{
			ID:             card.Project.ID,
			Name:           card.Project.Name,
			Description:    card.Project.Description,
			Members:        card.MemberCount,
			TotalTasks:     card.TotalTasks,
			TasksCompleted: card.CompletedTasks,
			DueDate:        card.Project.DueDate,
			Status:         string(card.Status),
			MembersPreview: preview,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": cardDTOs,
	})
}

// GetProject returns project details for a member.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	// Project is already loaded by RequireProjectAccess middleware
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	memberInterface, _ := c.Get(constants.ContextKeyMember)
	member, _ := memberInterface.(models.ProjectMember)

	c.JSON(http.StatusOK, gin.H{
		"project":   project,
		"your_role": member.Role,
	})
}

// DeleteProject deletes a project. Restricted to the owner by middleware.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(project.ID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// JoinProject enrolls the caller as a member. Joining twice is a no-op.
func (h *ProjectHandler) JoinProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.JoinProject(projectID, userID); err != nil {
		respondProjectError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMember enrolls a user by email, creating the account when necessary.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"omitempty,max=100"`
		Role  string `json:"role" binding:"omitempty"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role := models.RoleMember
	if req.Role != "" {
		parsed, ok := models.ParseProjectRole(req.Role)
		if !ok {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		role = parsed
	}

	member, err := h.projectService.AddMemberByEmail(services.AddMemberInput{
		ProjectID: project.ID,
		Email:     req.Email,
		Name:      req.Name,
		Role:      role,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member, 0, 0))
}

// ListMembers returns every member of the project with task tallies.
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	members, err := h.projectService.ListMembersWithCounts(project.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	memberDTOs := make([]dto.ProjectMemberDTO, 0, len(members))
	for _, m := range members {
		memberDTOs = append(memberDTOs, dto.ToProjectMemberDTO(m.Member, m.DoneTasks, m.TotalTasks))
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrMemberEmailRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
