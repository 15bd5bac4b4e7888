// File: internal/user/model.go
package user

import (
	"time"

	"scholar_directory_backend/internal/common"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	FirebaseUID      string  `gorm:"type:varchar(128);not null;uniqueIndex"`
	Email            *string `gorm:"type:varchar(255);uniqueIndex"` // Pointer to allow NULL
	DisplayName      *string `gorm:"type:varchar(255)"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'"` // e.g., "user", "admin"
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}
