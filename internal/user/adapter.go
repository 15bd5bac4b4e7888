package user

import (
	"scholar_directory_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:          dbUser.ID,
		FirebaseUID: dbUser.FirebaseUID,
		Email:       dbUser.Email,
		DisplayName: dbUser.DisplayName,
		Role:        dbUser.Role,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
		LastLoginAt: dbUser.LastLoginAt,
	}
}
