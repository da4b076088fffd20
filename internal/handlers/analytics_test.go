package handlers

import (
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

// AnalyticsHandlerTestSuite defines the test suite for AnalyticsHandler
type AnalyticsHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *AnalyticsHandler
	taskService *services.TaskService
}

// SetupTest runs before each test
func (suite *AnalyticsHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskEvent{},
		&models.TaskComment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	eventRepo := repository.NewEventRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.taskService = services.NewTaskService(taskRepo, eventRepo, projectRepo, nil)
	suite.handler = NewAnalyticsHandler(services.NewAnalyticsService(projectRepo, eventRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *AnalyticsHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AnalyticsHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, Name: email, IsActive: true}
	suite.db.Create(user)
	return user
}

func (suite *AnalyticsHandlerTestSuite) createTestProject(name string, memberIDs ...uint64) *models.Project {
	project := &models.Project{Name: name}
	suite.db.Create(project)
	for i, userID := range memberIDs {
		role := models.RoleMember
		if i == 0 {
			role = models.RoleOwner
		}
		suite.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: userID, Role: role})
	}
	return project
}

func (suite *AnalyticsHandlerTestSuite) createContext(url string, project models.Project, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", url, nil)
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyProject, project)
	return c, w
}

type leaderboardResponse struct {
	Leaderboard []struct {
		UserID uint64  `json:"user_id"`
		Name   string  `json:"name"`
		Score  float64 `json:"score"`
	} `json:"leaderboard"`
}

func (suite *AnalyticsHandlerTestSuite) TestGetLeaderboard_ScoresFromEventLog() {
	alice := suite.createTestUser("alice@example.com")
	bob := suite.createTestUser("bob@example.com")
	carol := suite.createTestUser("carol@example.com")
	project := suite.createTestProject("Apollo", alice.ID, bob.ID, carol.ID)

	// Alice creates a task (0 points), starts it and finishes it:
	// status_changed (1) + status_changed (1) + completed (5)
	task, err := suite.taskService.CreateTask(services.CreateTaskInput{
		ProjectID: project.ID, Title: "Plan", CreatorID: alice.ID,
	})
	suite.Require().NoError(err)
	inProgress := models.TaskStatusInProgress
	_, err = suite.taskService.UpdateTask(task.ID, alice.ID, services.UpdateTaskInput{Status: &inProgress})
	suite.Require().NoError(err)
	done := models.TaskStatusDone
	_, err = suite.taskService.UpdateTask(task.ID, alice.ID, services.UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	// Bob comments twice (0.5 each)
	_, err = suite.taskService.AddComment(task.ID, bob.ID, "nice work")
	suite.Require().NoError(err)
	_, err = suite.taskService.AddComment(task.ID, bob.ID, "shipping it")
	suite.Require().NoError(err)

	c, w := suite.createContext("/api/v1/projects/1/leaderboard", *project, alice.ID)
	suite.handler.GetLeaderboard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response leaderboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Leaderboard, 3)

	assert.Equal(suite.T(), alice.ID, response.Leaderboard[0].UserID)
	assert.Equal(suite.T(), 7.0, response.Leaderboard[0].Score)
	assert.Equal(suite.T(), bob.ID, response.Leaderboard[1].UserID)
	assert.Equal(suite.T(), 1.0, response.Leaderboard[1].Score)
	// Carol never acted but still appears
	assert.Equal(suite.T(), carol.ID, response.Leaderboard[2].UserID)
	assert.Equal(suite.T(), 0.0, response.Leaderboard[2].Score)
}

func (suite *AnalyticsHandlerTestSuite) TestGetLeaderboard_TiesBreakByUserID() {
	alice := suite.createTestUser("alice@example.com")
	bob := suite.createTestUser("bob@example.com")
	project := suite.createTestProject("Apollo", alice.ID, bob.ID)

	c, w := suite.createContext("/api/v1/projects/1/leaderboard", *project, alice.ID)
	suite.handler.GetLeaderboard(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response leaderboardResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Leaderboard, 2)
	assert.Equal(suite.T(), alice.ID, response.Leaderboard[0].UserID)
	assert.Equal(suite.T(), bob.ID, response.Leaderboard[1].UserID)
}

func (suite *AnalyticsHandlerTestSuite) TestGetSummary_CountsAndStatus() {
	alice := suite.createTestUser("alice@example.com")
	project := suite.createTestProject("Apollo", alice.ID)

	suite.db.Create(&models.Task{ProjectID: project.ID, Title: "a", Status: models.TaskStatusDone})
	suite.db.Create(&models.Task{ProjectID: project.ID, Title: "b", Status: models.TaskStatusTodo})

	c, w := suite.createContext("/api/v1/projects/1/summary", *project, alice.ID)
	suite.handler.GetSummary(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		TotalTasks     int64  `json:"total_tasks"`
		CompletedTasks int64  `json:"completed_tasks"`
		Status         string `json:"status"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(2), response.TotalTasks)
	assert.Equal(suite.T(), int64(1), response.CompletedTasks)
	assert.Equal(suite.T(), "active", response.Status)
}

func TestAnalyticsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlerTestSuite))
}
