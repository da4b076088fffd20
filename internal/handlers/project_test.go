package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	handler        *ProjectHandler
	projectService *services.ProjectService
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
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
		&models.ProjectThread{},
		&models.ThreadMessage{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.projectService = services.NewProjectService(projectRepo, userRepo)
	suite.handler = NewProjectHandler(suite.projectService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "hashedpassword",
		IsActive:     true,
	}
	suite.db.Create(user)
	return user
}

func (suite *ProjectHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

func (suite *ProjectHandlerTestSuite) setProjectContext(c *gin.Context, project models.Project) {
	c.Set(constants.ContextKeyProject, project)
}

func (suite *ProjectHandlerTestSuite) memberCount(projectID uint64) int64 {
	var count int64
	suite.db.Model(&models.ProjectMember{}).Where("project_id = ?", projectID).Count(&count)
	return count
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_EnrollsOwner() {
	user := suite.createTestUser("owner@example.com")

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "Apollo",
		"description": "Moonshot planning",
	})
	c, w := suite.createAuthContext("POST", "/api/v1/projects", body, user.ID)

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var member models.ProjectMember
	suite.Require().NoError(suite.db.Where("user_id = ?", user.ID).First(&member).Error)
	assert.Equal(suite.T(), models.RoleOwner, member.Role)
}

func (suite *ProjectHandlerTestSuite) TestAddMember_CreatesShellUser() {
	user := suite.createTestUser("owner@example.com")
	project, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Apollo", OwnerID: user.ID,
	})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{
		"email": "new.teammate@example.com",
	})
	c, w := suite.createAuthContext("POST", "/api/v1/projects/1/members", body, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.AddMember(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var created models.User
	suite.Require().NoError(suite.db.Where("email = ?", "new.teammate@example.com").First(&created).Error)
	assert.Equal(suite.T(), "new.teammate", created.Name)
	assert.Empty(suite.T(), created.PasswordHash)
	assert.Equal(suite.T(), int64(2), suite.memberCount(project.ID))
}

func (suite *ProjectHandlerTestSuite) TestAddMember_Idempotent() {
	user := suite.createTestUser("owner@example.com")
	teammate := suite.createTestUser("teammate@example.com")
	project, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Apollo", OwnerID: user.ID,
	})
	suite.Require().NoError(err)

	add := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{
			"email": teammate.Email,
		})
		c, w := suite.createAuthContext("POST", "/api/v1/projects/1/members", body, user.ID)
		suite.setProjectContext(c, *project)
		suite.handler.AddMember(c)
		return w
	}

	assert.Equal(suite.T(), http.StatusCreated, add().Code)
	assert.Equal(suite.T(), http.StatusCreated, add().Code)
	assert.Equal(suite.T(), int64(2), suite.memberCount(project.ID))

	// No duplicate shell user either
	var userCount int64
	suite.db.Model(&models.User{}).Where("email = ?", teammate.Email).Count(&userCount)
	assert.Equal(suite.T(), int64(1), userCount)
}

func (suite *ProjectHandlerTestSuite) TestJoinProject_Idempotent() {
	user := suite.createTestUser("owner@example.com")
	joiner := suite.createTestUser("joiner@example.com")
	project, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Apollo", OwnerID: user.ID,
	})
	suite.Require().NoError(err)

	join := func() *httptest.ResponseRecorder {
		c, w := suite.createAuthContext("POST", "/api/v1/projects/1/join", nil, joiner.ID)
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		suite.handler.JoinProject(c)
		// Flush gin's buffered status header; the engine normally does this,
		// but the handler is invoked directly on a test context here.
		c.Writer.WriteHeaderNow()
		return w
	}

	assert.Equal(suite.T(), http.StatusNoContent, join().Code)
	assert.Equal(suite.T(), http.StatusNoContent, join().Code)
	assert.Equal(suite.T(), int64(2), suite.memberCount(project.ID))

	// The original role survives the repeated join
	var member models.ProjectMember
	suite.Require().NoError(suite.db.Where("project_id = ? AND user_id = ?", project.ID, user.ID).First(&member).Error)
	assert.Equal(suite.T(), models.RoleOwner, member.Role)
}

func (suite *ProjectHandlerTestSuite) TestJoinProject_MissingProject() {
	joiner := suite.createTestUser("joiner@example.com")

	c, w := suite.createAuthContext("POST", "/api/v1/projects/99/join", nil, joiner.ID)
	c.Params = gin.Params{{Key: "id", Value: "99"}}

	suite.handler.JoinProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestListMembers_IncludesTaskCounts() {
	user := suite.createTestUser("owner@example.com")
	teammate := suite.createTestUser("teammate@example.com")
	project, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Apollo", OwnerID: user.ID,
	})
	suite.Require().NoError(err)
	suite.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: teammate.ID, Role: models.RoleMember})

	tasks := []models.Task{
		{ProjectID: project.ID, Title: "a", Status: models.TaskStatusDone, AssigneeID: &teammate.ID},
		{ProjectID: project.ID, Title: "b", Status: models.TaskStatusTodo, AssigneeID: &teammate.ID},
		{ProjectID: project.ID, Title: "c", Status: models.TaskStatusTodo},
	}
	suite.Require().NoError(suite.db.Create(&tasks).Error)

	c, w := suite.createAuthContext("GET", "/api/v1/projects/1/members", nil, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.ListMembers(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Members []struct {
			User struct {
				ID uint64 `json:"id"`
			} `json:"user"`
			TasksCompleted int64 `json:"tasks_completed"`
			TotalTasks     int64 `json:"total_tasks"`
		} `json:"members"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Members, 2)

	byID := make(map[uint64]struct{ done, total int64 })
	for _, m := range response.Members {
		byID[m.User.ID] = struct{ done, total int64 }{m.TasksCompleted, m.TotalTasks}
	}
	assert.Equal(suite.T(), int64(1), byID[teammate.ID].done)
	assert.Equal(suite.T(), int64(2), byID[teammate.ID].total)
	assert.Equal(suite.T(), int64(0), byID[user.ID].total)
}

func (suite *ProjectHandlerTestSuite) TestListProjects_StatusClassification() {
	user := suite.createTestUser("owner@example.com")

	yesterday := time.Now().AddDate(0, 0, -1)
	tomorrow := time.Now().AddDate(0, 0, 1)

	completed, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Completed", DueDate: &yesterday, OwnerID: user.ID,
	})
	suite.Require().NoError(err)
	overdue, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Overdue", DueDate: &yesterday, OwnerID: user.ID,
	})
	suite.Require().NoError(err)
	_, err = suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Active", DueDate: &tomorrow, OwnerID: user.ID,
	})
	suite.Require().NoError(err)

	// Completed project: every task done, despite the past due date
	suite.db.Create(&models.Task{ProjectID: completed.ID, Title: "a", Status: models.TaskStatusDone})
	// Overdue project: work remaining past the due date
	suite.db.Create(&models.Task{ProjectID: overdue.ID, Title: "b", Status: models.TaskStatusTodo})

	c, w := suite.createAuthContext("GET", "/api/v1/projects", nil, user.ID)

	suite.handler.ListProjects(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Projects []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"projects"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Projects, 3)

	statuses := make(map[string]string)
	for _, p := range response.Projects {
		statuses[p.Name] = p.Status
	}
	assert.Equal(suite.T(), "completed", statuses["Completed"])
	assert.Equal(suite.T(), "overdue", statuses["Overdue"])
	assert.Equal(suite.T(), "active", statuses["Active"])
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject_RemovesEverything() {
	user := suite.createTestUser("owner@example.com")
	project, err := suite.projectService.CreateProject(services.CreateProjectInput{
		Name: "Apollo", OwnerID: user.ID,
	})
	suite.Require().NoError(err)

	task := models.Task{ProjectID: project.ID, Title: "a", Status: models.TaskStatusTodo}
	suite.Require().NoError(suite.db.Create(&task).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskEvent{
		TaskID: task.ID, ProjectID: project.ID, Type: models.EventCreated,
	}).Error)

	c, w := suite.createAuthContext("DELETE", "/api/v1/projects/1", nil, user.ID)
	suite.setProjectContext(c, *project)

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var counts [3]int64
	suite.db.Model(&models.Task{}).Count(&counts[0])
	suite.db.Model(&models.TaskEvent{}).Count(&counts[1])
	suite.db.Model(&models.ProjectMember{}).Count(&counts[2])
	assert.Equal(suite.T(), int64(0), counts[0])
	assert.Equal(suite.T(), int64(0), counts[1])
	assert.Equal(suite.T(), int64(0), counts[2])
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
