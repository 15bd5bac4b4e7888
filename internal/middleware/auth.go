// File: internal/middleware/auth.go
package middleware

import (
	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/firebase"
	"scholar_directory_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates a Gin middleware that verifies a Firebase ID token
// and resolves it to a local user, creating the user record on first sight.
func AuthMiddleware(firebaseService *firebase.FirebaseService, userService shared.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := common.GetTokenFromContext(c)
		if tokenString == "" {
			logger.Debug("Authorization header missing or malformed")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			// c.Abort() is handled by RespondWithError's AbortWithStatusJSON
			return
		}

		firebaseToken, err := firebaseService.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Warn("Firebase token verification failed", zap.Error(err))
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Invalid or expired authentication token."))
			return
		}

		usr, wasCreated, err := userService.GetOrCreateUserFromFirebaseClaims(c.Request.Context(), firebaseToken)
		if err != nil {
			logger.Error("Failed to resolve local user from Firebase token", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
			if apiErr, ok := common.IsAPIError(err); ok {
				common.RespondWithError(c, apiErr)
			} else {
				common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not resolve user account."))
			}
			return
		}

		// Set user information in context for downstream handlers
		c.Set(common.UserIDKey, usr.ID)
		c.Set(common.UserRoleKey, usr.Role)
		c.Set(common.FirebaseUIDKey, usr.FirebaseUID)
		if usr.Email != nil {
			c.Set(common.UserEmailKey, *usr.Email)
		}

		logger.Debug("User authenticated successfully",
			zap.String("userID", usr.ID.String()),
			zap.String("role", usr.Role),
			zap.Bool("was_created", wasCreated),
		)

		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware to check if the authenticated user has one of the required roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := common.GetUserRoleFromContext(c)
		if userRole == "" {
			// This should ideally not happen if AuthMiddleware ran successfully
			common.RespondWithError(c, common.ErrForbidden.WithDetails("User role not found in context."))
			return
		}

		isAllowed := false
		for _, role := range allowedRoles {
			if userRole == role {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
