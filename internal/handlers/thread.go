package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/synergysphere/project-collab-api/internal/dto"
	apierrors "github.com/synergysphere/project-collab-api/internal/errors"
	"github.com/synergysphere/project-collab-api/internal/middleware"
	"github.com/synergysphere/project-collab-api/internal/services"
	"github.com/synergysphere/project-collab-api/internal/utils"
)

// ThreadHandler coordinates discussion thread HTTP handlers.
type ThreadHandler struct {
	threadService *services.ThreadService
}

// NewThreadHandler creates a new ThreadHandler.
func NewThreadHandler(threadService *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
	}
}

// GetGeneralThread returns the project's General thread, creating it on
// first access.
func (h *ThreadHandler) GetGeneralThread(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	thread, err := h.threadService.GetGeneralThread(project.ID, userID)
	if err != nil {
		respondThreadError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToThreadDTO(*thread))
}

// PostMessage appends a message to a thread of the project.
func (h *ThreadHandler) PostMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	threadID, ok := parseIDParam(c, "thread_id")
	if !ok {
		return
	}

	type PostMessageRequest struct {
		Body            string  `json:"body" binding:"required,max=4000"`
		ParentMessageID *uint64 `json:"parentMessageId"`
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.threadService.PostMessage(services.PostMessageInput{
		ProjectID:       project.ID,
		ThreadID:        threadID,
		AuthorID:        userID,
		Body:            req.Body,
		ParentMessageID: req.ParentMessageID,
	})
	if err != nil {
		respondThreadError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToThreadMessageDTO(*message))
}

// ListMessages returns a thread's messages, oldest first.
func (h *ThreadHandler) ListMessages(c *gin.Context) {
	project, ok := contextProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	threadID, ok := parseIDParam(c, "thread_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	messages, total, err := h.threadService.ListMessages(project.ID, threadID, params)
	if err != nil {
		respondThreadError(c, err)
		return
	}

	messageDTOs := make([]dto.ThreadMessageDTO, 0, len(messages))
	for _, message := range messages {
		messageDTOs = append(messageDTOs, dto.ToThreadMessageDTO(message))
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messageDTOs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

func respondThreadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrThreadNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmptyMessageBody),
		errors.Is(err, services.ErrInvalidParentMessage):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
