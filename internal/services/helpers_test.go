package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"github.com/yukikurage/todo-list-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testPassword = "supersecret"

type testEnv struct {
	db       *gorm.DB
	mail     *testutil.FakeMailer
	tokens   *auth.TokenManager
	accounts *AccountService
	lists    *ListService
	tasks    *TaskService
}

func setupServices(t *testing.T) testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()
	mail := &testutil.FakeMailer{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	userRepo := repository.NewUserRepository(db)
	listRepo := repository.NewListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return testEnv{
		db:     db,
		mail:   mail,
		tokens: tokens,
		accounts: NewAccountService(userRepo, tokens, mail, log, AccountOptions{
			ResetTokenTTL: time.Hour,
			ResetURL:      "http://localhost:3000/reset-password",
		}),
		lists: NewListService(listRepo, taskRepo, log),
		tasks: NewTaskService(taskRepo, listRepo, log),
	}
}

func registerUser(t *testing.T, env testEnv, email string) *models.User {
	t.Helper()

	user, err := env.accounts.Register(context.Background(), RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Age:             36,
		Email:           email,
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	return user
}

func defaultList(t *testing.T, env testEnv, userID uint64) models.List {
	t.Helper()

	lists, err := env.lists.GetUserLists(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	return lists[0]
}
