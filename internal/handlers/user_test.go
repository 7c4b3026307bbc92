package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/ymezzour/plant-task-api/internal/constants"
	"github.com/ymezzour/plant-task-api/internal/dto"
	"github.com/ymezzour/plant-task-api/internal/middleware"
	"github.com/ymezzour/plant-task-api/internal/models"
	"github.com/ymezzour/plant-task-api/internal/repository"
	"github.com/ymezzour/plant-task-api/internal/services"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewUserHandler(authService, zap.NewNop())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/users/login", handler.Login)
	r.POST("/api/users/logout", handler.Logout)
	r.GET("/api/users/me", middleware.RequireAuth(), handler.GetCurrentUser)
	r.GET("/api/users", handler.ListUsers)
	r.GET("/api/users/:id", handler.GetUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{db: db, router: r}
}

func (env userTestEnv) createUser(t *testing.T, id, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           id,
		FirstName:    "Amina",
		LastName:     "El Fassi",
		Email:        email,
		Role:         models.RoleDepartmentHead,
		Department:   models.DepartmentProduction,
		PasswordHash: string(hash),
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env userTestEnv) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_Login(t *testing.T) {
	env := setupUserTestEnv(t)
	env.createUser(t, "user-1", "chef.production@asment.ma", "demo123")

	w := env.login(t, "chef.production@asment.ma", "demo123")

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "user-1", response.ID)
	require.Equal(t, "chef.production@asment.ma", response.Email)

	// the hash must never appear in the response
	require.NotContains(t, w.Body.String(), "password")

	require.NotEmpty(t, w.Result().Cookies(), "expected session cookie to be set")
}

func TestUserHandler_Login_FailureIndistinguishable(t *testing.T) {
	env := setupUserTestEnv(t)
	env.createUser(t, "user-1", "chef.production@asment.ma", "demo123")

	wrongPassword := env.login(t, "chef.production@asment.ma", "wrong")
	unknownEmail := env.login(t, "nobody@asment.ma", "demo123")

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestUserHandler_Login_MissingFields(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.login(t, "chef.production@asment.ma", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserHandler_GetCurrentUser(t *testing.T) {
	env := setupUserTestEnv(t)
	env.createUser(t, "user-1", "chef.production@asment.ma", "demo123")

	login := env.login(t, "chef.production@asment.ma", "demo123")
	require.Equal(t, http.StatusOK, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "user-1", response.ID)
}

func TestUserHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	env := setupUserTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserHandler_ListUsers(t *testing.T) {
	env := setupUserTestEnv(t)
	env.createUser(t, "user-1", "a@asment.ma", "demo123")
	env.createUser(t, "user-2", "b@asment.ma", "demo123")

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	require.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-missing", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
