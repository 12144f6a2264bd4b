package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/dto"
	"github.com/yukikurage/todo-list-api/internal/middleware"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"github.com/yukikurage/todo-list-api/internal/services"
	"github.com/yukikurage/todo-list-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	mail   *testutil.FakeMailer
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	mail := &testutil.FakeMailer{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	accountService := services.NewAccountService(userRepo, tokens, mail, log, services.AccountOptions{
		ResetTokenTTL: time.Hour,
		ResetURL:      "http://localhost:3000/reset-password",
	})

	router := NewRouter(RouterConfig{
		Log:         log,
		Tokens:      tokens,
		CORSOrigins: []string{"http://localhost:3000"},
		RateLimit:   middleware.RateLimiterConfig{RequestsPerSecond: 1000, Burst: 1000},
		Accounts:    NewAccountHandler(accountService, log),
		Lists:       NewListHandler(services.NewListService(listRepo, taskRepo, log), log),
		Tasks:       NewTaskHandler(services.NewTaskService(taskRepo, listRepo, log), log),
	})

	return testEnv{db: db, router: router, mail: mail}
}

// do sends a JSON request and returns the recorder. A non-empty token is sent
// as a bearer token.
func (e testEnv) do(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// signup registers a user and logs them in, returning the session token.
func (e testEnv) signup(t *testing.T, email string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/users", "", map[string]any{
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"age":             36,
		"email":           email,
		"password":        "supersecret",
		"confirmPassword": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[dto.TokenResponse](t, w).Token
}

// firstList returns the id of the user's default list.
func (e testEnv) firstList(t *testing.T, token string) uint64 {
	t.Helper()

	w := e.do(t, http.MethodGet, "/lists/get-user-lists", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	lists := decode[[]dto.ListDTO](t, w)
	require.NotEmpty(t, lists)
	return lists[0].ID
}
