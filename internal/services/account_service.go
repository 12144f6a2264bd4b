package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/todo-list-api/internal/auth"
	"github.com/yukikurage/todo-list-api/internal/constants"
	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/mailer"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/repository"
	"github.com/yukikurage/todo-list-api/internal/utils"
	"github.com/yukikurage/todo-list-api/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken           = fault.Conflict("Email is already registered")
	ErrInvalidCredentials   = fault.Unauthenticated("Incorrect email or password")
	ErrPasswordMismatch     = fault.Validation("Passwords do not match")
	ErrPasswordLength       = fault.Validation(fmt.Sprintf("password must be between %d and %d characters", constants.MinPasswordLength, constants.MaxPasswordLength))
	ErrEmailRequired        = fault.Validation("email is required")
	ErrEmailNotRegistered   = fault.NotFound("No account with that email address")
	ErrInvalidResetToken    = fault.Validation("Password reset token is invalid or has expired")
	ErrFailedToSendMail     = errors.New("failed to send email")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// dummyHash is compared against when the email is unknown so both login
// failures cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return hash
})

// AccountService handles registration, login, profile and password reset.
type AccountService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	mailer   mailer.Mailer
	log      *zap.Logger
	resetTTL time.Duration
	resetURL string
	now      func() time.Time
}

// AccountOptions configures password reset.
type AccountOptions struct {
	ResetTokenTTL time.Duration
	ResetURL      string
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository, tokens *auth.TokenManager, m mailer.Mailer, log *zap.Logger, opts AccountOptions) *AccountService {
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = constants.DefaultResetTokenTTL
	}
	return &AccountService{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   m,
		log:      log,
		resetTTL: opts.ResetTokenTTL,
		resetURL: opts.ResetURL,
		now:      time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
// JSON tags name the fields in validation messages.
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Age             int    `json:"age" validate:"required,gte=13"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Register creates a new user along with their default list.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = normalizeEmail(input.Email)

	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, fault.Internal(fmt.Errorf("failed to check email: %w", err))
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, fault.Internal(err)
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Age:          input.Age,
		Email:        input.Email,
		PasswordHash: hash,
	}
	list := &models.List{Title: constants.DefaultListTitle}

	if err := s.userRepo.CreateWithDefaultList(ctx, user, list); err != nil {
		return nil, classify(err, "failed to complete signup")
	}

	s.log.Info("user registered", zap.Uint64("user_id", user.ID))
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a signed session token. Unknown email
// and wrong password fail with the same error.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (string, *models.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validation.Struct(input); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		return "", nil, fault.Internal(fmt.Errorf("failed to find user: %w", err))
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(input.Password))
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, fault.Internal(err)
	}

	return token, user, nil
}

// GetProfile retrieves the actor's own user record.
func (s *AccountService) GetProfile(ctx context.Context, actorID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, classify(err, "failed to find user")
	}
	return user, nil
}

// UpdateProfileInput holds a partial profile update. Nil fields are left alone.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Age             *int
	Email           *string
	Password        *string
	ConfirmPassword *string
}

// UpdateProfile applies a partial update. Changing the password requires a
// matching confirmation.
func (s *AccountService) UpdateProfile(ctx context.Context, actorID uint64, input UpdateProfileInput) (*models.User, error) {
	if input.Password != nil {
		if err := checkNewPassword(*input.Password, input.ConfirmPassword); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, classify(err, "failed to find user")
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Age != nil {
		user.Age = *input.Age
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.Password != nil {
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, fault.Internal(err)
		}
		user.PasswordHash = hash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, classify(err, "failed to update user")
	}

	return user, nil
}

// DeleteAccount removes the actor and everything they own. Deleting an
// account that is already gone succeeds.
func (s *AccountService) DeleteAccount(ctx context.Context, actorID uint64) error {
	if _, err := s.userRepo.Delete(ctx, actorID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// A repeated delete with a still valid token finds nothing left.
			s.log.Info("user already deleted", zap.Uint64("user_id", actorID))
			return nil
		}
		return classify(err, "failed to delete user")
	}

	s.log.Info("user deleted", zap.Uint64("user_id", actorID))
	return nil
}

// ForgotPassword stores a fresh reset token on the user and emails a link
// carrying it. Only the token digest is persisted.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fault.Internal(fmt.Errorf("failed to find user: %w", err))
	}
	if user == nil {
		return ErrEmailNotRegistered
	}

	token, err := utils.GenerateToken(constants.ResetTokenBytes)
	if err != nil {
		return fault.Internal(err)
	}

	digest := utils.HashToken(token)
	expiresAt := s.now().Add(s.resetTTL)
	user.ResetTokenHash = &digest
	user.ResetTokenExpiresAt = &expiresAt

	if err := s.userRepo.Update(ctx, user); err != nil {
		return classify(err, "failed to store reset token")
	}

	link, err := mailer.ResetLink(s.resetURL, token)
	if err != nil {
		return fault.Internal(err)
	}

	body := mailer.ResetRequestedBody(user.FirstName, link)
	if err := s.mailer.Send(ctx, user.Email, mailer.ResetRequestedSubject, body); err != nil {
		s.log.Error("failed to send password reset email", zap.Uint64("user_id", user.ID), zap.Error(err))
		return fault.Internal(fmt.Errorf("%w: %w", ErrFailedToSendMail, err))
	}

	return nil
}

// ResetPasswordInput holds the new password and its confirmation.
type ResetPasswordInput struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// ResetPassword consumes a reset token and replaces the password. The token is
// cleared in the same conditional write that stores the new hash, so only
// one reset per token can win.
func (s *AccountService) ResetPassword(ctx context.Context, token string, input ResetPasswordInput) error {
	if input.ConfirmPassword != "" && input.Password != input.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if err := validation.Struct(input); err != nil {
		return err
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}

	digest := utils.HashToken(token)
	user, err := s.userRepo.FindByResetTokenHash(ctx, digest)
	if err != nil {
		return fault.Internal(fmt.Errorf("failed to find reset token: %w", err))
	}
	if user == nil || !user.ResetTokenValid(digest, s.now()) {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return fault.Internal(err)
	}

	if err := s.userRepo.ConsumeResetToken(ctx, user.ID, digest, hash, s.now()); err != nil {
		if errors.Is(err, repository.ErrResetTokenConsumed) {
			return ErrInvalidResetToken
		}
		return classify(err, "failed to reset password")
	}

	body := mailer.PasswordChangedBody(user.FirstName)
	if err := s.mailer.Send(ctx, user.Email, mailer.PasswordChangedSubject, body); err != nil {
		// The password is already changed; the notice is best effort.
		s.log.Error("failed to send password changed email", zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	return nil
}

func checkNewPassword(password string, confirm *string) error {
	if confirm == nil || *confirm != password {
		return ErrPasswordMismatch
	}
	if len(password) < constants.MinPasswordLength || len(password) > constants.MaxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFailedToHashPassword, err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
