// File: internal/projectmode/model.go
// Package projectmode manages the application setting that gates profile
// submission and editing.
package projectmode

import (
	"time"

	"scholar_directory_backend/internal/common"
)

// SettingKeyProfileEdit is the app_settings key that controls whether
// profile submission and editing is enabled.
const SettingKeyProfileEdit = "profile_edit_enabled"

// AppSetting represents a single key/value application setting.
type AppSetting struct {
	common.BaseModel
	Key   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value string `gorm:"type:text;not null"`
}

// TableName specifies the table name for the AppSetting model.
func (AppSetting) TableName() string {
	return "app_settings"
}

// --- DTOs ---

// ProjectModeResponse is returned from the admin project-mode endpoints.
type ProjectModeResponse struct {
	ProfileEditEnabled bool      `json:"profile_edit_enabled"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateProjectModeRequest toggles the profile editing flag.
type UpdateProjectModeRequest struct {
	ProfileEditEnabled *bool `json:"profile_edit_enabled" binding:"required"`
}
