package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/apiedpiper/task-api/internal/database"
	"github.com/apiedpiper/task-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
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

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)
	gin.SetMode(gin.TestMode)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{
		db:     db,
		router: newTestRouter(db),
	}
}

func (env userTestEnv) request(t *testing.T, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestUserHandler_CreateUser(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", map[string]interface{}{
		"name":  "Alice",
		"email": "a@x.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	require.Equal(t, "User created", resp.Message)

	var user models.User
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	require.NotZero(t, user.ID)
	require.Equal(t, "Alice", user.Name)
	require.Empty(t, user.PendingTasks)
}

func TestUserHandler_CreateUser_MissingEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", map[string]interface{}{
		"name": "Alice",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Bad Request", decodeEnvelope(t, w).Message)
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users/12345", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeEnvelope(t, w)
	require.Equal(t, "Not Found", resp.Message)
	require.Equal(t, "null", string(resp.Data))
}

func TestUserHandler_ListAndCount(t *testing.T) {
	env := setupUserTestEnv(t)

	for i := 1; i <= 3; i++ {
		w := env.request(t, http.MethodPost, "/api/users", map[string]interface{}{
			"name":  fmt.Sprintf("User %d", i),
			"email": fmt.Sprintf("user%d@test.com", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.request(t, http.MethodGet, "/api/users?where=%7B%22name%22%3A%22User%202%22%7D", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &users))
	require.Len(t, users, 1)
	require.Equal(t, "user2@test.com", users[0].Email)

	w = env.request(t, http.MethodGet, "/api/users?count=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &count))
	require.Equal(t, int64(3), count)
}

func TestUserHandler_ReplaceUser_AdoptsTask(t *testing.T) {
	env := setupUserTestEnv(t)

	bob := &models.User{Name: "Bob", Email: "b@x.com", PendingTasks: models.TaskIDList{}}
	require.NoError(t, env.db.Create(bob).Error)

	task := &models.Task{
		Name:             "T3",
		Deadline:         time.Now().Add(24 * time.Hour),
		AssignedUserName: "unassigned",
	}
	require.NoError(t, env.db.Create(task).Error)

	w := env.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", bob.ID), map[string]interface{}{
		"name":         "Bob",
		"email":        "b@x.com",
		"pendingTasks": []string{task.IDString()},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Task
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &reloaded))
	require.Equal(t, bob.IDString(), reloaded.AssignedUser)
	require.Equal(t, "Bob", reloaded.AssignedUserName)
	require.False(t, reloaded.Completed)
}

func TestUserHandler_ReplaceUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodPut, "/api/users/12345", map[string]interface{}{
		"name":  "Ghost",
		"email": "g@x.com",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_DeleteUser_OrphansTasks(t *testing.T) {
	env := setupUserTestEnv(t)

	alice := &models.User{Name: "Alice", Email: "a@x.com", PendingTasks: models.TaskIDList{}}
	require.NoError(t, env.db.Create(alice).Error)

	task := &models.Task{
		Name:             "T1",
		Deadline:         time.Now().Add(24 * time.Hour),
		AssignedUser:     alice.IDString(),
		AssignedUserName: "Alice",
	}
	require.NoError(t, env.db.Create(task).Error)

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", alice.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Task
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &reloaded))
	require.Equal(t, "", reloaded.AssignedUser)
	require.Equal(t, "unassigned", reloaded.AssignedUserName)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_DeleteUser_NotFound(t *testing.T) {
	env := setupUserTestEnv(t)

	w := env.request(t, http.MethodDelete, "/api/users/12345", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
