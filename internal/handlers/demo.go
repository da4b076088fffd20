package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/synergysphere/project-collab-api/internal/errors"
	"github.com/synergysphere/project-collab-api/internal/middleware"
	"github.com/synergysphere/project-collab-api/internal/services"
)

// DemoHandler exposes the demo workspace bootstrap.
type DemoHandler struct {
	authService *services.AuthService
	demoService *services.DemoService
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(authService *services.AuthService, demoService *services.DemoService) *DemoHandler {
	return &DemoHandler{
		authService: authService,
		demoService: demoService,
	}
}

// Bootstrap seeds a demo project for the caller unless they already belong to
// one. Calling it twice returns the same project.
func (h *DemoHandler) Bootstrap(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	project, created, err := h.demoService.Bootstrap(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to bootstrap demo project")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"projectId": project.ID,
		"created":   created,
	})
}
