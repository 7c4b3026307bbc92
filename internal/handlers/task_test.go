package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/ymezzour/plant-task-api/internal/constants"
	"github.com/ymezzour/plant-task-api/internal/database"
	"github.com/ymezzour/plant-task-api/internal/dto"
	"github.com/ymezzour/plant-task-api/internal/models"
	"github.com/ymezzour/plant-task-api/internal/repository"
	"github.com/ymezzour/plant-task-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.Comment{},
		&models.HistoryItem{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, userRepo)
	handler := NewTaskHandler(taskService, zap.NewNop())

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.GET("/api/tasks", handler.ListTasks)
	suite.router.GET("/api/tasks/stats", handler.GetStats)
	suite.router.POST("/api/tasks", handler.CreateTask)
	suite.router.GET("/api/tasks/:id", handler.GetTask)
	suite.router.PUT("/api/tasks/:id", handler.UpdateTask)
	suite.router.POST("/api/tasks/:id/comments", handler.AddComment)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(id, email string) *models.User {
	user := &models.User{
		ID:           id,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Role:         models.RoleTechnician,
		Department:   models.DepartmentMaintenance,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

// createTestTask inserts a task row directly with an explicit creation time
// and stored status, one assignment and the initial history entry.
func (suite *TaskHandlerTestSuite) createTestTask(id, title string, status models.Status, dueDate, createdAt time.Time, assigneeID string) *models.Task {
	task := &models.Task{
		ID:         id,
		Title:      title,
		Priority:   models.PriorityNormal,
		Status:     status,
		Category:   models.CategoryMaintenance,
		DueDate:    dueDate,
		Department: models.DepartmentMaintenance,
		CreatedBy:  assigneeID,
		CreatedAt:  createdAt,
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	suite.Require().NoError(suite.db.Create(&models.TaskAssignment{TaskID: id, UserID: assigneeID}).Error)
	suite.Require().NoError(suite.db.Create(&models.HistoryItem{
		ID:        "h-" + id,
		TaskID:    id,
		UserID:    assigneeID,
		Action:    constants.HistoryActionCreated,
		Timestamp: createdAt,
	}).Error)
	return task
}

func (suite *TaskHandlerTestSuite) perform(method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) decodeTask(w *httptest.ResponseRecorder) dto.TaskDTO {
	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func validCreatePayload(creatorID string, assignees []string) map[string]any {
	return map[string]any{
		"title":       "Remplacer le roulement du broyeur",
		"description": "Vibration anormale détectée",
		"priority":    string(models.PriorityHigh),
		"category":    string(models.CategoryMaintenance),
		"dueDate":     time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"department":  string(models.DepartmentMaintenance),
		"createdBy":   creatorID,
		"assignedTo":  assignees,
	}
}

// Create

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	creator := suite.createTestUser("user-1", "creator@example.com")
	assignee := suite.createTestUser("user-2", "assignee@example.com")

	w := suite.perform("POST", "/api/tasks", validCreatePayload(creator.ID, []string{assignee.ID}))

	suite.Require().Equal(http.StatusCreated, w.Code)
	task := suite.decodeTask(w)

	assert.NotEmpty(suite.T(), task.ID)
	assert.Equal(suite.T(), models.StatusTodo, task.Status)
	assert.Equal(suite.T(), creator.ID, task.CreatedBy)
	assert.Equal(suite.T(), []string{assignee.ID}, task.AssignedTo)
	assert.False(suite.T(), task.CreatedAt.IsZero())

	// exactly one history entry, zero comments
	suite.Require().Len(task.History, 1)
	assert.Equal(suite.T(), constants.HistoryActionCreated, task.History[0].Action)
	assert.Equal(suite.T(), creator.ID, task.History[0].UserID)
	assert.Empty(suite.T(), task.Comments)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RoundTrip() {
	creator := suite.createTestUser("user-1", "creator@example.com")
	payload := validCreatePayload(creator.ID, []string{creator.ID})

	created := suite.decodeTask(suite.perform("POST", "/api/tasks", payload))

	w := suite.perform("GET", "/api/tasks/"+created.ID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	fetched := suite.decodeTask(w)

	assert.Equal(suite.T(), payload["title"], fetched.Title)
	assert.Equal(suite.T(), payload["description"], fetched.Description)
	assert.Equal(suite.T(), payload["priority"], string(fetched.Priority))
	assert.Equal(suite.T(), payload["category"], string(fetched.Category))
	assert.Equal(suite.T(), payload["department"], string(fetched.Department))
	assert.Equal(suite.T(), creator.ID, fetched.CreatedBy)
	assert.Equal(suite.T(), []string{creator.ID}, fetched.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_EmptyAssignees() {
	creator := suite.createTestUser("user-1", "creator@example.com")
	payload := validCreatePayload(creator.ID, []string{})

	w := suite.perform("POST", "/api/tasks", payload)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownAssignee() {
	creator := suite.createTestUser("user-1", "creator@example.com")
	payload := validCreatePayload(creator.ID, []string{"user-ghost"})

	w := suite.perform("POST", "/api/tasks", payload)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidPriority() {
	creator := suite.createTestUser("user-1", "creator@example.com")
	payload := validCreatePayload(creator.ID, []string{creator.ID})
	payload["priority"] = "Urgente"

	w := suite.perform("POST", "/api/tasks", payload)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// Read paths and the overdue derivation

func (suite *TaskHandlerTestSuite) TestListTasks_OverdueDerivation() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	suite.createTestTask("task-overdue", "Overdue", models.StatusTodo, yesterday, now.Add(-3*time.Hour), user.ID)
	suite.createTestTask("task-done", "Done late", models.StatusDone, yesterday, now.Add(-2*time.Hour), user.ID)
	suite.createTestTask("task-current", "Current", models.StatusTodo, tomorrow, now.Add(-1*time.Hour), user.ID)

	w := suite.perform("GET", "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []dto.TaskListItemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 3)

	byID := make(map[string]dto.TaskListItemDTO)
	for _, task := range tasks {
		byID[task.ID] = task
	}
	assert.Equal(suite.T(), models.StatusDelayed, byID["task-overdue"].Status)
	assert.Equal(suite.T(), models.StatusDone, byID["task-done"].Status)
	assert.Equal(suite.T(), models.StatusTodo, byID["task-current"].Status)

	// newest createdAt first
	assert.Equal(suite.T(), "task-current", tasks[0].ID)
	assert.Equal(suite.T(), "task-done", tasks[1].ID)
	assert.Equal(suite.T(), "task-overdue", tasks[2].ID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_FilterByDerivedStatus() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-overdue", "Overdue", models.StatusTodo, now.Add(-24*time.Hour), now.Add(-2*time.Hour), user.ID)
	suite.createTestTask("task-current", "Current", models.StatusTodo, now.Add(24*time.Hour), now.Add(-1*time.Hour), user.ID)

	w := suite.perform("GET", "/api/tasks?status="+"En%20retard", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var tasks []dto.TaskListItemDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "task-overdue", tasks[0].ID)
}

func (suite *TaskHandlerTestSuite) TestGetTask_OverdueDerivation() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Overdue", models.StatusInProgress, now.Add(-time.Hour), now.Add(-2*time.Hour), user.ID)

	task := suite.decodeTask(suite.perform("GET", "/api/tasks/task-1", nil))
	assert.Equal(suite.T(), models.StatusDelayed, task.Status)

	// stored status untouched
	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, "id = ?", "task-1").Error)
	assert.Equal(suite.T(), models.StatusInProgress, stored.Status)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFound() {
	w := suite.perform("GET", "/api/tasks/task-missing", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Update

func (suite *TaskHandlerTestSuite) TestUpdateTask_MergesAndAppendsHistory() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Original title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"title":  "Updated title",
		"status": string(models.StatusInProgress),
		"userId": user.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	task := suite.decodeTask(w)

	assert.Equal(suite.T(), "Updated title", task.Title)
	assert.Equal(suite.T(), models.StatusInProgress, task.Status)

	// untouched fields survive the merge
	assert.Equal(suite.T(), models.PriorityNormal, task.Priority)
	assert.Equal(suite.T(), models.CategoryMaintenance, task.Category)

	// exactly one new history entry, attributed to the actor
	suite.Require().Len(task.History, 2)
	assert.Equal(suite.T(), constants.HistoryActionUpdated, task.History[1].Action)
	assert.Equal(suite.T(), user.ID, task.History[1].UserID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ImmutableFields() {
	user := suite.createTestUser("user-1", "u1@example.com")
	other := suite.createTestUser("user-2", "u2@example.com")
	now := time.Now()
	created := suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"id":        "task-hijacked",
		"createdAt": now.Add(100 * time.Hour).Format(time.RFC3339),
		"createdBy": other.ID,
		"title":     "New title",
		"userId":    user.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	task := suite.decodeTask(w)

	assert.Equal(suite.T(), "task-1", task.ID)
	assert.Equal(suite.T(), user.ID, task.CreatedBy)
	assert.WithinDuration(suite.T(), created.CreatedAt, task.CreatedAt, time.Second)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ReplacesAssignees() {
	user := suite.createTestUser("user-1", "u1@example.com")
	replacement := suite.createTestUser("user-2", "u2@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"assignedTo": []string{replacement.ID},
		"userId":     user.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	task := suite.decodeTask(w)

	assert.Equal(suite.T(), []string{replacement.ID}, task.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_EmptyAssigneesRejected() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"assignedTo": []string{},
		"userId":     user.ID,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	// assignment set untouched
	task := suite.decodeTask(suite.perform("GET", "/api/tasks/task-1", nil))
	assert.Equal(suite.T(), []string{user.ID}, task.AssignedTo)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DoneStampsCompletedAt() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusInProgress, now.Add(-24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"status": string(models.StatusDone),
		"userId": user.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	task := suite.decodeTask(w)

	suite.Require().NotNil(task.CompletedAt)
	assert.WithinDuration(suite.T(), time.Now(), *task.CompletedAt, 5*time.Second)

	// done wins over the overdue derivation
	assert.Equal(suite.T(), models.StatusDone, task.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_DelayedStatusRejected() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("PUT", "/api/tasks/task-1", map[string]any{
		"status": string(models.StatusDelayed),
		"userId": user.ID,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_NotFound() {
	user := suite.createTestUser("user-1", "u1@example.com")

	w := suite.perform("PUT", "/api/tasks/task-missing", map[string]any{
		"title":  "x",
		"userId": user.ID,
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Comments

func (suite *TaskHandlerTestSuite) TestAddComment_AppendsCommentAndHistory() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	for i := 1; i <= 2; i++ {
		w := suite.perform("POST", "/api/tasks/task-1/comments", map[string]any{
			"userId": user.ID,
			"text":   fmt.Sprintf("commentaire %d", i),
		})
		suite.Require().Equal(http.StatusCreated, w.Code)
		task := suite.decodeTask(w)

		// each call adds exactly one comment and one history entry
		assert.Len(suite.T(), task.Comments, i)
		assert.Len(suite.T(), task.History, 1+i)
		assert.Equal(suite.T(), constants.HistoryActionCommentAdded, task.History[i].Action)
	}

	// oldest-first ordering
	task := suite.decodeTask(suite.perform("GET", "/api/tasks/task-1", nil))
	suite.Require().Len(task.Comments, 2)
	assert.Equal(suite.T(), "commentaire 1", task.Comments[0].Text)
	assert.Equal(suite.T(), "commentaire 2", task.Comments[1].Text)
}

func (suite *TaskHandlerTestSuite) TestAddComment_BlankTextRejected() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-1", "Title", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("POST", "/api/tasks/task-1/comments", map[string]any{
		"userId": user.ID,
		"text":   "   ",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestAddComment_TaskNotFound() {
	user := suite.createTestUser("user-1", "u1@example.com")

	w := suite.perform("POST", "/api/tasks/task-missing/comments", map[string]any{
		"userId": user.ID,
		"text":   "bonjour",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// Dashboard stats

func (suite *TaskHandlerTestSuite) TestGetStats() {
	user := suite.createTestUser("user-1", "u1@example.com")
	now := time.Now()
	suite.createTestTask("task-done", "Done", models.StatusDone, now.Add(-24*time.Hour), now.Add(-3*time.Hour), user.ID)
	suite.createTestTask("task-overdue", "Overdue", models.StatusTodo, now.Add(-24*time.Hour), now.Add(-2*time.Hour), user.ID)
	suite.createTestTask("task-current", "Current", models.StatusTodo, now.Add(24*time.Hour), now.Add(-time.Hour), user.ID)

	w := suite.perform("GET", "/api/tasks/stats", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var stats services.DashboardStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))

	assert.Equal(suite.T(), 3, stats.TotalTasks)
	assert.Equal(suite.T(), 1, stats.CompletedTasks)
	assert.Equal(suite.T(), 1, stats.DelayedTasks)
	assert.Equal(suite.T(), 33, stats.CompletionRate)
	assert.Equal(suite.T(), 1, stats.ByStatus[models.StatusDelayed])
	assert.Equal(suite.T(), 3, stats.ByDepartment[models.DepartmentMaintenance])
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
