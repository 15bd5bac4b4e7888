// File: internal/common/context_keys.go
package common

// Keys under which the auth middleware stores the verified caller's identity
// on the gin context, plus the header constants it reads them from.
const (
	AuthorizationHeader     = "Authorization"
	AuthorizationTypeBearer = "Bearer"

	UserIDKey      = "userID"
	UserEmailKey   = "userEmail"
	UserRoleKey    = "userRole"
	FirebaseUIDKey = "firebaseUID"
)
