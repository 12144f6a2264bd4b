package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/todo-list-api/internal/constants"
	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/mailer"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"github.com/yukikurage/todo-list-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var resetTokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

func ptr[T any](v T) *T { return &v }

func TestAccountService_Register(t *testing.T) {
	env := setupServices(t)

	user := registerUser(t, env, "  Ada@Example.com ")

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.PasswordHash)

	list := defaultList(t, env, user.ID)
	assert.Equal(t, constants.DefaultListTitle, list.Title)
	assert.Equal(t, user.ID, list.UserID)
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")

	_, err := env.accounts.Register(context.Background(), RegisterInput{
		FirstName:       "Other",
		LastName:        "Person",
		Age:             20,
		Email:           "ADA@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))
}

func TestAccountService_Register_Validation(t *testing.T) {
	env := setupServices(t)

	valid := RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Age:             36,
		Email:           "ada@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	}

	tests := []struct {
		name    string
		mutate  func(in *RegisterInput)
		wantMsg string
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "firstName is required"},
		{"too young", func(in *RegisterInput) { in.Age = 12 }, "age must be at least 13"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email must be a valid email address"},
		{"short password", func(in *RegisterInput) { in.Password, in.ConfirmPassword = "short", "short" }, "password must be at least 8 characters"},
		{"mismatch", func(in *RegisterInput) { in.ConfirmPassword = "different-secret" }, "confirmPassword does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := env.accounts.Register(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, fault.KindValidation, fault.KindOf(err))
			assert.Equal(t, tt.wantMsg, fault.MessageOf(err))
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAccountService_Register_RollsBackWhenDefaultListFails(t *testing.T) {
	env := setupServices(t)

	err := env.db.Callback().Create().Before("gorm:create").Register("test:fail_lists", func(tx *gorm.DB) {
		if tx.Statement.Table == "lists" {
			_ = tx.AddError(errors.New("lists unavailable"))
		}
	})
	require.NoError(t, err)

	_, err = env.accounts.Register(context.Background(), RegisterInput{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Age:             36,
		Email:           "ada@example.com",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.Error(t, err)
	assert.Equal(t, fault.KindInternal, fault.KindOf(err))

	var users, lists int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, env.db.Model(&models.List{}).Count(&lists).Error)
	assert.Zero(t, users)
	assert.Zero(t, lists)
}

func TestAccountService_Login(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "ada@example.com")

	token, loggedIn, err := env.accounts.Login(context.Background(), LoginInput{
		Email:    "ADA@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := env.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestAccountService_Login_SameFailureForUnknownEmailAndWrongPassword(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")

	_, _, unknownErr := env.accounts.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: testPassword,
	})
	_, _, wrongErr := env.accounts.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, fault.MessageOf(unknownErr), fault.MessageOf(wrongErr))
	assert.Equal(t, fault.KindUnauthenticated, fault.KindOf(wrongErr))
}

func TestAccountService_GetProfile_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.accounts.GetProfile(context.Background(), 999)
	assert.Equal(t, fault.KindNotFound, fault.KindOf(err))
}

func TestAccountService_UpdateProfile(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "ada@example.com")

	updated, err := env.accounts.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		FirstName: ptr("Augusta"),
		Age:       ptr(37),
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.Equal(t, 37, updated.Age)

	stored, err := env.accounts.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", stored.FirstName)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestAccountService_UpdateProfile_Password(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	_, err := env.accounts.UpdateProfile(ctx, user.ID, UpdateProfileInput{Password: ptr("new-password")})
	require.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = env.accounts.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password:        ptr("short"),
		ConfirmPassword: ptr("short"),
	})
	require.ErrorIs(t, err, ErrPasswordLength)

	_, err = env.accounts.UpdateProfile(ctx, user.ID, UpdateProfileInput{
		Password:        ptr("new-password"),
		ConfirmPassword: ptr("new-password"),
	})
	require.NoError(t, err)

	_, _, err = env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: "new-password"})
	require.NoError(t, err)
}

func TestAccountService_UpdateProfile_EmailConflict(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	other := registerUser(t, env, "grace@example.com")

	_, err := env.accounts.UpdateProfile(context.Background(), other.ID, UpdateProfileInput{
		Email: ptr("ada@example.com"),
	})
	assert.Equal(t, fault.KindConflict, fault.KindOf(err))

	_, err = env.accounts.UpdateProfile(context.Background(), other.ID, UpdateProfileInput{
		Email: ptr("grace@example.com"),
	})
	assert.NoError(t, err, "keeping your own email is not a conflict")
}

func TestAccountService_DeleteAccount_Cascades(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	user := registerUser(t, env, "ada@example.com")
	other := registerUser(t, env, "grace@example.com")

	list := defaultList(t, env, user.ID)
	extra, err := env.lists.CreateList(ctx, user.ID, "Groceries")
	require.NoError(t, err)
	for _, listID := range []uint64{list.ID, extra.ID} {
		_, err := env.tasks.CreateTask(ctx, user.ID, CreateTaskInput{Title: "Milk", ListID: listID})
		require.NoError(t, err)
	}

	otherList := defaultList(t, env, other.ID)
	_, err = env.tasks.CreateTask(ctx, other.ID, CreateTaskInput{Title: "Keep me", ListID: otherList.ID})
	require.NoError(t, err)

	require.NoError(t, env.accounts.DeleteAccount(ctx, user.ID))

	var users, lists, tasks int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	require.NoError(t, env.db.Model(&models.List{}).Where("user_id = ?", user.ID).Count(&lists).Error)
	require.NoError(t, env.db.Model(&models.Task{}).Where("user_id = ?", user.ID).Count(&tasks).Error)
	assert.Zero(t, users)
	assert.Zero(t, lists)
	assert.Zero(t, tasks)

	require.NoError(t, env.db.Model(&models.Task{}).Where("user_id = ?", other.ID).Count(&tasks).Error)
	assert.EqualValues(t, 1, tasks)

	assert.NoError(t, env.accounts.DeleteAccount(ctx, user.ID), "deleting twice is not an error")
}

func requestReset(t *testing.T, env testEnv, email string) string {
	t.Helper()

	require.NoError(t, env.accounts.ForgotPassword(context.Background(), email))

	mail, ok := env.mail.Last()
	require.True(t, ok)
	require.Equal(t, mailer.ResetRequestedSubject, mail.Subject)

	match := resetTokenPattern.FindStringSubmatch(mail.Body)
	require.Len(t, match, 2, "reset mail should carry the token in the link")
	return match[1]
}

func TestAccountService_ForgotPassword(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "ada@example.com")

	token := requestReset(t, env, "ada@example.com")

	mail, _ := env.mail.Last()
	assert.Equal(t, "ada@example.com", mail.To)
	assert.Contains(t, mail.Body, "http://localhost:3000/reset-password?token=")

	stored, err := env.accounts.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetTokenHash)
	assert.Equal(t, utils.HashToken(token), *stored.ResetTokenHash)
	assert.NotEqual(t, token, *stored.ResetTokenHash, "only the digest is stored")
	require.NotNil(t, stored.ResetTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetTokenExpiresAt, time.Minute)
}

func TestAccountService_ForgotPassword_Failures(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	err := env.accounts.ForgotPassword(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmailRequired)

	err = env.accounts.ForgotPassword(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrEmailNotRegistered)

	env.mail.Err = errors.New("smtp down")
	err = env.accounts.ForgotPassword(ctx, "ada@example.com")
	require.ErrorIs(t, err, ErrFailedToSendMail)
	assert.Equal(t, fault.KindInternal, fault.KindOf(err))
}

func TestAccountService_ResetPassword(t *testing.T) {
	env := setupServices(t)
	user := registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	token := requestReset(t, env, "ada@example.com")

	err := env.accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "brand-new-secret",
		ConfirmPassword: "brand-new-secret",
	})
	require.NoError(t, err)

	mail, ok := env.mail.Last()
	require.True(t, ok)
	assert.Equal(t, mailer.PasswordChangedSubject, mail.Subject)

	_, _, err = env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: "brand-new-secret"})
	require.NoError(t, err)

	stored, err := env.accounts.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetTokenHash)
	assert.Nil(t, stored.ResetTokenExpiresAt)

	err = env.accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "another-secret",
		ConfirmPassword: "another-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "a token can be used once")
}

func TestAccountService_ResetPassword_ExpiredToken(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	token := requestReset(t, env, "ada@example.com")
	env.accounts.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err := env.accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "brand-new-secret",
		ConfirmPassword: "brand-new-secret",
	})
	require.ErrorIs(t, err, ErrInvalidResetToken)
	assert.Equal(t, "Password reset token is invalid or has expired", fault.MessageOf(err))

	_, _, err = env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: testPassword})
	assert.NoError(t, err, "the old password still works")
}

func TestAccountService_ResetPassword_InvalidInput(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	token := requestReset(t, env, "ada@example.com")

	err := env.accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "brand-new-secret",
		ConfirmPassword: "something-else",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = env.accounts.ResetPassword(ctx, "not-a-token", ResetPasswordInput{
		Password:        "brand-new-secret",
		ConfirmPassword: "brand-new-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAccountService_ResetPassword_ConfirmationMailFailureIsNotFatal(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	token := requestReset(t, env, "ada@example.com")
	env.mail.Err = errors.New("smtp down")

	err := env.accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "brand-new-secret",
		ConfirmPassword: "brand-new-secret",
	})
	require.NoError(t, err)

	_, _, err = env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: "brand-new-secret"})
	assert.NoError(t, err)
}

// lookupHookRepo runs afterLookup once, right after the reset token lookup,
// so a second reset can slip in between the lookup and the write.
type lookupHookRepo struct {
	repository.UserRepository
	afterLookup func()
}

func (r *lookupHookRepo) FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error) {
	user, err := r.UserRepository.FindByResetTokenHash(ctx, digest)
	if hook := r.afterLookup; hook != nil {
		r.afterLookup = nil
		hook()
	}
	return user, err
}

func TestAccountService_ResetPassword_ConcurrentResetsUseTokenOnce(t *testing.T) {
	env := setupServices(t)
	registerUser(t, env, "ada@example.com")
	ctx := context.Background()

	token := requestReset(t, env, "ada@example.com")

	repo := &lookupHookRepo{UserRepository: repository.NewUserRepository(env.db)}
	accounts := NewAccountService(repo, env.tokens, env.mail, zap.NewNop(), AccountOptions{
		ResetTokenTTL: time.Hour,
		ResetURL:      "http://localhost:3000/reset-password",
	})

	var firstErr error
	repo.afterLookup = func() {
		firstErr = accounts.ResetPassword(ctx, token, ResetPasswordInput{
			Password:        "password-one",
			ConfirmPassword: "password-one",
		})
	}

	secondErr := accounts.ResetPassword(ctx, token, ResetPasswordInput{
		Password:        "password-two",
		ConfirmPassword: "password-two",
	})

	require.NoError(t, firstErr)
	assert.ErrorIs(t, secondErr, ErrInvalidResetToken, "the token was consumed after this reset looked it up")

	_, _, err := env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password-one"})
	assert.NoError(t, err)
	_, _, err = env.accounts.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password-two"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
