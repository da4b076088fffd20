package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/synergysphere/project-collab-api/internal/constants"
	"github.com/synergysphere/project-collab-api/internal/database"
	"github.com/synergysphere/project-collab-api/internal/models"
	"github.com/synergysphere/project-collab-api/internal/repository"
	"github.com/synergysphere/project-collab-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskEvent{},
		&models.TaskComment{},
		&models.ProjectThread{},
		&models.ThreadMessage{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	eventRepo := repository.NewEventRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, eventRepo, projectRepo, nil)
	suite.handler = NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestProject(name string, ownerID uint64) *models.Project {
	project := &models.Project{Name: name}
	suite.db.Create(project)
	suite.db.Create(&models.ProjectMember{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
	})
	return project
}

func (suite *TaskHandlerTestSuite) addTestMember(projectID, userID uint64) {
	suite.db.Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      models.RoleMember,
	})
}

func (suite *TaskHandlerTestSuite) createTestTask(projectID, creatorID uint64) *models.Task {
	task := &models.Task{
		ProjectID: projectID,
		Title:     "Test Task",
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		CreatorID: &creatorID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// setProjectContext simulates RequireProjectAccess middleware
func (suite *TaskHandlerTestSuite) setProjectContext(c *gin.Context, project models.Project) {
	c.Set(constants.ContextKeyProject, project)
}

// setTaskContext simulates RequireTaskAccess middleware
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set(constants.ContextKeyTask, task)
}

func (suite *TaskHandlerTestSuite) taskEvents(taskID uint64) []models.TaskEvent {
	var events []models.TaskEvent
	suite.db.Where("task_id = ?", taskID).Order("id ASC").Find(&events)
	return events
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RecordsCreatedEvent() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title": "Write launch checklist",
	})
	c, w := suite.createAuthContext("POST", "/api/v1/projects/1/tasks", body, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "todo", response["status"])
	assert.Equal(suite.T(), "Unassigned", response["assignee"])

	taskID := uint64(response["id"].(float64))
	events := suite.taskEvents(taskID)
	suite.Require().Len(events, 1)
	assert.Equal(suite.T(), models.EventCreated, events[0].Type)
	assert.Equal(suite.T(), user.ID, *events[0].ActorID)
	assert.Equal(suite.T(), project.ID, events[0].ProjectID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_AssigneeNotMember() {
	user := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Apollo", user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"title":      "Write launch checklist",
		"assigneeId": outsider.ID,
	})
	c, w := suite.createAuthContext("POST", "/api/v1/projects/1/tasks", body, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
	var eventCount int64
	suite.db.Model(&models.TaskEvent{}).Count(&eventCount)
	assert.Equal(suite.T(), int64(0), eventCount)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_StatusChangeRecordsEvent() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "in-progress",
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "in-progress", response["status"])

	events := suite.taskEvents(task.ID)
	suite.Require().Len(events, 1)
	assert.Equal(suite.T(), models.EventStatusChanged, events[0].Type)
	assert.Equal(suite.T(), "todo", events[0].FromStatus)
	assert.Equal(suite.T(), "in_progress", events[0].ToStatus)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_CompletionRecordsBothEvents() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "done",
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	events := suite.taskEvents(task.ID)
	suite.Require().Len(events, 2)
	assert.Equal(suite.T(), models.EventStatusChanged, events[0].Type)
	assert.Equal(suite.T(), models.EventCompleted, events[1].Type)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_SameStatusRecordsNothing() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "todo",
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Empty(suite.T(), suite.taskEvents(task.ID))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ReassignRecordsEvent() {
	user := suite.createTestUser("owner@example.com")
	teammate := suite.createTestUser("teammate@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	suite.addTestMember(project.ID, teammate.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"assigneeId": teammate.ID,
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	events := suite.taskEvents(task.ID)
	suite.Require().Len(events, 1)
	assert.Equal(suite.T(), models.EventReassigned, events[0].Type)

	var updated models.Task
	suite.db.First(&updated, task.ID)
	suite.Require().NotNil(updated.AssigneeID)
	assert.Equal(suite.T(), teammate.ID, *updated.AssigneeID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssigneeNotMemberLeavesTaskUntouched() {
	user := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status":     "done",
		"assigneeId": outsider.ID,
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// The whole patch is rejected: no status change, no events
	var updated models.Task
	suite.db.First(&updated, task.ID)
	assert.Equal(suite.T(), models.TaskStatusTodo, updated.Status)
	assert.Nil(suite.T(), updated.AssigneeID)
	assert.Empty(suite.T(), suite.taskEvents(task.ID))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ClearAssigneeIsSilent() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)
	suite.db.Model(task).Update("assignee_id", user.ID)
	task.AssigneeID = &user.ID

	body, _ := json.Marshal(map[string]interface{}{
		"assigneeId": 0,
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Task
	suite.db.First(&updated, task.ID)
	assert.Nil(suite.T(), updated.AssigneeID)
	assert.Empty(suite.T(), suite.taskEvents(task.ID))
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NonMemberActorForbidden() {
	user := suite.createTestUser("owner@example.com")
	outsider := suite.createTestUser("outsider@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"status": "done",
	})
	c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, outsider.ID)
	suite.setTaskContext(c, *task)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
	assert.Empty(suite.T(), suite.taskEvents(task.ID))
}

func (suite *TaskHandlerTestSuite) TestAddComment_RecordsEvent() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"body": "Looks good to me",
	})
	c, w := suite.createAuthContext("POST", "/api/v1/tasks/1/comments", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.AddComment(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	events := suite.taskEvents(task.ID)
	suite.Require().Len(events, 1)
	assert.Equal(suite.T(), models.EventCommentAdded, events[0].Type)
}

func (suite *TaskHandlerTestSuite) TestAddComment_BlankBodyRejected() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"body": "   ",
	})
	c, w := suite.createAuthContext("POST", "/api/v1/tasks/1/comments", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.AddComment(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var count int64
	suite.db.Model(&models.TaskComment{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
	assert.Empty(suite.T(), suite.taskEvents(task.ID))
}

func (suite *TaskHandlerTestSuite) TestListEvents_ReturnsHistoryInOrder() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	task := suite.createTestTask(project.ID, user.ID)

	patch := func(payload map[string]interface{}) {
		body, _ := json.Marshal(payload)
		c, w := suite.createAuthContext("PATCH", "/api/v1/tasks/1", body, user.ID)
		suite.setTaskContext(c, *task)
		suite.handler.UpdateTask(c)
		suite.Require().Equal(http.StatusOK, w.Code)
	}
	patch(map[string]interface{}{"status": "in-progress"})
	patch(map[string]interface{}{"status": "done"})

	c, w := suite.createAuthContext("GET", "/api/v1/tasks/1/events", nil, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.ListEvents(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Events []struct {
			Type       string `json:"type"`
			FromStatus string `json:"from_status"`
			ToStatus   string `json:"to_status"`
		} `json:"events"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Events, 3)
	assert.Equal(suite.T(), "status_changed", response.Events[0].Type)
	assert.Equal(suite.T(), "todo", response.Events[0].FromStatus)
	assert.Equal(suite.T(), "in-progress", response.Events[0].ToStatus)
	assert.Equal(suite.T(), "status_changed", response.Events[1].Type)
	assert.Equal(suite.T(), "completed", response.Events[2].Type)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Paginated() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	first := suite.createTestTask(project.ID, user.ID)
	suite.createTestTask(project.ID, user.ID)
	suite.createTestTask(project.ID, user.ID)

	c, w := suite.createAuthContext("GET", "/api/v1/projects/1/tasks?page=2&limit=2", nil, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			ID uint64 `json:"id"`
		} `json:"tasks"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	// Newest first, so the second page of two holds only the oldest task
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), first.ID, response.Tasks[0].ID)
	assert.Equal(suite.T(), 2, response.Pagination.Page)
	assert.Equal(suite.T(), 2, response.Pagination.Limit)
	assert.Equal(suite.T(), int64(3), response.Pagination.Total)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OnlyCreator() {
	user := suite.createTestUser("owner@example.com")
	teammate := suite.createTestUser("teammate@example.com")
	project := suite.createTestProject("Apollo", user.ID)
	suite.addTestMember(project.ID, teammate.ID)
	task := suite.createTestTask(project.ID, user.ID)

	c, w := suite.createAuthContext("DELETE", "/api/v1/tasks/1", nil, teammate.ID)
	suite.setTaskContext(c, *task)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	c, w = suite.createAuthContext("DELETE", "/api/v1/tasks/1", nil, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
