package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todo-list-api/internal/dto"
	apierrors "github.com/yukikurage/todo-list-api/internal/errors"
	"github.com/yukikurage/todo-list-api/internal/services"
	"go.uber.org/zap"
)

// AccountHandler coordinates account-related HTTP handlers.
type AccountHandler struct {
	accountService *services.AccountService
	log            *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *services.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		log:            log,
	}
}

// Register creates a new user and their default list.
func (h *AccountHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and returns a session token.
func (h *AccountHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	token, _, err := h.accountService.Login(c.Request.Context(), req)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// GetProfile returns the authenticated user's profile.
func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	user, err := h.accountService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserProfileDTO(*user))
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		FirstName       *string `json:"firstName"`
		LastName        *string `json:"lastName"`
		Age             *int    `json:"age"`
		Email           *string `json:"email"`
		Password        *string `json:"password"`
		ConfirmPassword *string `json:"confirmPassword"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.accountService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Age:             req.Age,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserProfileDTO(*user))
}

// DeleteAccount removes the authenticated user with all their lists and tasks.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account deleted successfully"})
}

// ForgotPassword emails a password reset link.
func (h *AccountHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password reset email sent"})
}

// ResetPassword replaces the password of the user holding the token in the path.
func (h *AccountHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.accountService.ResetPassword(c.Request.Context(), c.Param("token"), req); err != nil {
		apierrors.Respond(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset"})
}
