package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synergysphere/project-collab-api/internal/dto"
	apierrors "github.com/synergysphere/project-collab-api/internal/errors"
	"github.com/synergysphere/project-collab-api/internal/services"
)

// AnalyticsHandler serves derived, read-only project views.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GetLeaderboard returns every member of the project ranked by event score.
func (h *AnalyticsHandler) GetLeaderboard(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	entries, err := h.analyticsService.Leaderboard(project.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute leaderboard")
		return
	}

	entryDTOs := make([]dto.LeaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		entryDTOs = append(entryDTOs, dto.LeaderboardEntryDTO{
			UserID: entry.Member.UserID,
			Name:   entry.Member.User.DisplayName(),
			Avatar: entry.Member.User.AvatarURL,
			Score:  entry.Score,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entryDTOs,
	})
}

// GetSummary returns the project's task tallies and derived status.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	summary, err := h.analyticsService.Summarize(&project)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, dto.ProjectSummaryDTO{
		ProjectID:      summary.ProjectID,
		TotalTasks:     summary.TotalTasks,
		CompletedTasks: summary.CompletedTasks,
		DueDate:        summary.DueDate,
		Status:         string(summary.Status),
	})
}
