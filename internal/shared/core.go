package shared

import (
	"context"
	"time"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
)

// User represents a user in the system.
type User struct {
	ID          uuid.UUID
	FirebaseUID string
	Email       *string
	DisplayName *string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

// Service defines the interface for user-related business logic that other
// feature packages depend on.
type Service interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (usr *User, wasCreated bool, err error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
