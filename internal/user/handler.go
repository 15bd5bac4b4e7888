// File: internal/user/handler.go
package user

import (
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserResponse is the API view of an account.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       *string    `json:"email,omitempty"`
	DisplayName *string    `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a shared.User to the API representation.
func ToUserResponse(usr *shared.User) UserResponse {
	return UserResponse{
		ID:          usr.ID,
		Email:       usr.Email,
		DisplayName: usr.DisplayName,
		Role:        usr.Role,
		CreatedAt:   usr.CreatedAt,
		LastLoginAt: usr.LastLoginAt,
	}
}

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service shared.Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service shared.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations.
// Accounts are provisioned on first authenticated request, so the only
// surface here is reading the caller's own record.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	authenticatedUserGroup := userGroup.Group("")
	authenticatedUserGroup.Use(authMW)
	{
		authenticatedUserGroup.GET("/me", h.getMe)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}
