package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"heliosign/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a staff user and returns a JWT.
//
//	@Summary		Login
//	@Description	Authenticate with email and password, returns an access token
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	service.LoginInput	true	"Login credentials"
//	@Success		200	{object}	APIResponse
//	@Failure		401	{object}	APIResponse
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	token, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, token)
}

// CreateUser creates a new staff user. Admin only.
//
//	@Summary		Create user
//	@Description	Create a new staff account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body	service.CreateUserInput	true	"User details"
//	@Success		201	{object}	APIResponse
//	@Failure		409	{object}	APIResponse
//	@Router			/users [post]
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var input service.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, user)
}
