package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/shared"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceImplementation implements the shared.Service interface.
type ServiceImplementation struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(
	repo Repository,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// GetOrCreateUserFromFirebaseClaims resolves a verified Firebase token to a local
// user record, creating one on first sight. The local record is the source of
// truth for the role; Firebase custom claims only seed it on creation.
func (s *ServiceImplementation) GetOrCreateUserFromFirebaseClaims(ctx context.Context, firebaseToken *firebaseauth.Token) (*shared.User, bool, error) {
	if firebaseToken == nil || firebaseToken.UID == "" {
		return nil, false, common.ErrUnauthorized.WithDetails("Invalid Firebase token.")
	}

	dbUser, err := s.repo.FindByFirebaseUID(ctx, firebaseToken.UID)
	if err == nil {
		now := time.Now()
		dbUser.LastLoginAt = &now
		if updateErr := s.repo.Update(ctx, dbUser); updateErr != nil {
			// Not critical for auth; log and continue.
			s.logger.Error("Failed to update last login time", zap.Error(updateErr), zap.String("userID", dbUser.ID.String()))
		}
		return DBToShared(dbUser), false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error("Error finding user by Firebase UID", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		return nil, false, err
	}

	currentTime := time.Now()
	dbNewUser := &User{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: currentTime,
			UpdatedAt: currentTime,
		},
		FirebaseUID: firebaseToken.UID,
		Role:        roleFromClaims(firebaseToken),
		LastLoginAt: &currentTime,
	}

	if email, ok := firebaseToken.Claims["email"].(string); ok && email != "" {
		emailCopy := strings.ToLower(strings.TrimSpace(email))
		dbNewUser.Email = &emailCopy
	}
	if name, ok := firebaseToken.Claims["name"].(string); ok && name != "" {
		nameCopy := name
		dbNewUser.DisplayName = &nameCopy
	}

	if err := s.repo.Create(ctx, dbNewUser); err != nil {
		s.logger.Error("Failed to create user from Firebase claims", zap.Error(err), zap.String("firebaseUID", firebaseToken.UID))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, false, apiErr
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("New user created from Firebase claims", zap.String("userID", dbNewUser.ID.String()))
	return DBToShared(dbNewUser), true, nil
}

// DeleteUser removes the local user record.
func (s *ServiceImplementation) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete user", zap.Error(err), zap.String("userID", id.String()))
		return err
	}
	s.logger.Info("User deleted", zap.String("userID", id.String()))
	return nil
}

func roleFromClaims(token *firebaseauth.Token) string {
	if role, ok := token.Claims["role"].(string); ok && role == common.RoleAdmin {
		return common.RoleAdmin
	}
	return common.RoleUser
}
