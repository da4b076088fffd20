package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
	"github.com/synergysphere/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrThreadNotFound       = errors.New("thread not found")
	ErrEmptyMessageBody     = errors.New("message body cannot be empty")
	ErrInvalidParentMessage = errors.New("parent message not found in this thread")
)

// ThreadService handles project discussion threads. Each project has one
// lazily created General thread; messages support a single level of replies.
type ThreadService struct {
	threadRepo repository.ThreadRepository
}

// NewThreadService creates a new ThreadService.
func NewThreadService(threadRepo repository.ThreadRepository) *ThreadService {
	return &ThreadService{
		threadRepo: threadRepo,
	}
}

// GetGeneralThread returns the project's General thread, creating it on first
// access. Concurrent first accesses converge on the same row.
func (s *ThreadService) GetGeneralThread(projectID, userID uint64) (*models.ProjectThread, error) {
	thread, err := s.threadRepo.EnsureGeneral(projectID, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure general thread: %w", err)
	}
	return thread, nil
}

// GetThread returns a thread, scoped to a project. A thread ID that exists
// but belongs to a different project is treated as not found.
func (s *ThreadService) GetThread(projectID, threadID uint64) (*models.ProjectThread, error) {
	thread, err := s.threadRepo.FindByID(threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to find thread: %w", err)
	}
	if thread.ProjectID != projectID {
		return nil, ErrThreadNotFound
	}
	return thread, nil
}

// PostMessageInput represents input for posting a thread message.
type PostMessageInput struct {
	ProjectID       uint64
	ThreadID        uint64
	AuthorID        uint64
	Body            string
	ParentMessageID *uint64
}

// PostMessage appends a message to a thread. The body must not be blank and
// the parent, when given, must be a message of the same thread.
func (s *ThreadService) PostMessage(input PostMessageInput) (*models.ThreadMessage, error) {
	thread, err := s.GetThread(input.ProjectID, input.ThreadID)
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrEmptyMessageBody
	}

	if input.ParentMessageID != nil {
		parent, err := s.threadRepo.FindMessage(*input.ParentMessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidParentMessage
			}
			return nil, fmt.Errorf("failed to find parent message: %w", err)
		}
		if parent.ThreadID != thread.ID {
			return nil, ErrInvalidParentMessage
		}
	}

	message := &models.ThreadMessage{
		ThreadID:        thread.ID,
		AuthorID:        &input.AuthorID,
		ParentMessageID: input.ParentMessageID,
		Body:            body,
	}
	if err := s.threadRepo.CreateMessage(message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return s.threadRepo.FindMessage(message.ID)
}

// ListMessages returns a page of a thread's messages, oldest first, along
// with the unpaged total.
func (s *ThreadService) ListMessages(projectID, threadID uint64, params utils.PaginationParams) ([]models.ThreadMessage, int64, error) {
	thread, err := s.GetThread(projectID, threadID)
	if err != nil {
		return nil, 0, err
	}

	messages, total, err := s.threadRepo.ListMessages(thread.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}
