// File: internal/profile/model.go
package profile

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"scholar_directory_backend/internal/common"

	"github.com/google/uuid"
)

// --- Draft lifecycle ---

type DraftStatus string

const (
	StatusPending DraftStatus = "pending"
)

// Link is a labelled URL attached to a profile.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Project describes a project the member wants to showcase.
type Project struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        *string `json:"link,omitempty"`
}

// WishlistEntry names a person the member would like to meet.
type WishlistEntry struct {
	Name      string  `json:"name"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	OtherLink *string `json:"other_link,omitempty"`
}

// Contact is a person the member can introduce others to.
type Contact struct {
	Name           string  `json:"name"`
	LinkedIn       *string `json:"linkedin,omitempty"`
	OtherLink      *string `json:"other_link,omitempty"`
	ContactDetails string  `json:"contact_details,omitempty"`
}

// FunFacts holds the free-text fun fact answers.
type FunFacts struct {
	FavoriteMovie      string                 `json:"favorite_movie,omitempty"`
	FavoriteBook       string                 `json:"favorite_book,omitempty"`
	FavoriteFood       string                 `json:"favorite_food,omitempty"`
	PlaceToVisit       string                 `json:"place_to_visit,omitempty"`
	FamousPersonToMeet string                 `json:"famous_person_to_meet,omitempty"`
	Superpower         string                 `json:"superpower,omitempty"`
	Extras             map[string]interface{} `json:"extras,omitempty"`
}

// Values returns the non-empty fun fact answers in a stable order.
func (f FunFacts) Values() []string {
	var out []string
	for _, v := range []string{
		f.FavoriteMovie, f.FavoriteBook, f.FavoriteFood,
		f.PlaceToVisit, f.FamousPersonToMeet, f.Superpower,
	} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ProfileCore is the identity section of a draft or published snapshot.
type ProfileCore struct {
	Name               string  `json:"name"`
	Age                *int    `json:"age,omitempty"`
	ContactEmail       string  `json:"contact_email"`
	WhatsappLink       string  `json:"whatsapp_link"`
	Bio                string  `json:"bio"`
	LinkedIn           *string `json:"linkedin,omitempty"`
	GitHub             *string `json:"github,omitempty"`
	Calendly           *string `json:"calendly,omitempty"`
	CanGroup           bool    `json:"can_group"`
	ProfilePicturePath *string `json:"profile_picture_path,omitempty"`
}

// DraftData is the full sanitized submission payload, stored as one JSONB
// document on both drafts and published snapshots.
type DraftData struct {
	Profile         ProfileCore     `json:"profile"`
	Links           []Link          `json:"links"`
	Projects        []Project       `json:"projects"`
	MeetingWishlist []WishlistEntry `json:"meeting_wishlist"`
	Contacts        []Contact       `json:"contacts"`
	Interests       []string        `json:"interests"`
	Skills          []string        `json:"skills"`
	FunFacts        FunFacts        `json:"fun_facts"`
}

// Value implements the driver.Valuer interface for DraftData.
func (d DraftData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface for DraftData.
func (d *DraftData) Scan(value interface{}) error {
	if value == nil {
		*d = DraftData{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return errors.New("failed to scan DraftData: unsupported type")
	}
}

// --- Main models ---

// Draft is a pending profile submission awaiting moderation.
type Draft struct {
	common.BaseModel
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status      DraftStatus `gorm:"type:varchar(50);not null;default:'pending'"`
	Data        DraftData   `gorm:"type:jsonb;not null"`
	IsInitial   bool        `gorm:"not null;default:false"`
	SubmittedAt time.Time   `gorm:"not null"`
}

func (Draft) TableName() string {
	return "profile_drafts"
}

// Snapshot is the published, publicly visible version of an approved profile.
// At most one snapshot exists per user; subsequent approvals overwrite it.
type Snapshot struct {
	common.BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Slug       string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Data       DraftData `gorm:"type:jsonb;not null"`
	ApprovedAt time.Time `gorm:"not null"`
	ApprovedBy uuid.UUID `gorm:"type:uuid;not null"`
}

func (Snapshot) TableName() string {
	return "profiles"
}

// --- DTOs for API ---

// SubmitDraftRequest carries the raw submission payload. Fields are loosely
// typed on purpose: sanitization trims, caps, and silently drops malformed
// entries instead of rejecting the whole request.
type SubmitDraftRequest struct {
	Profile         map[string]interface{} `json:"profile" binding:"required"`
	Links           []interface{}          `json:"links,omitempty"`
	Projects        []interface{}          `json:"projects,omitempty"`
	MeetingWishlist []interface{}          `json:"meeting_wishlist,omitempty"`
	Contacts        []interface{}          `json:"contacts,omitempty"`
	Interests       []interface{}          `json:"interests,omitempty"`
	Skills          []interface{}          `json:"skills,omitempty"`
	FunFacts        map[string]interface{} `json:"fun_facts,omitempty"`
}

// SubmitDraftResponse is returned on a successful draft submission.
type SubmitDraftResponse struct {
	DraftID     uuid.UUID `json:"draft_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	IsInitial   bool      `json:"is_initial"`
}

// DraftResponse is the moderation view of a pending draft.
type DraftResponse struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"user_id"`
	Status      DraftStatus `json:"status"`
	Data        DraftData   `json:"data"`
	IsInitial   bool        `json:"is_initial"`
	SubmittedAt time.Time   `json:"submitted_at"`
	AvatarURL   *string     `json:"avatar_url,omitempty"`
}

// SnapshotResponse is the public directory view of an approved profile.
type SnapshotResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Slug       string    `json:"slug"`
	Data       DraftData `json:"data"`
	ApprovedAt time.Time `json:"approved_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
}

// RejectDraftRequest rejects a pending draft with an optional reason.
type RejectDraftRequest struct {
	DraftID uuid.UUID `json:"draft_id" binding:"required"`
	Reason  *string   `json:"reason,omitempty" binding:"omitempty,max=2000"`
}

// DeleteProfileRequest purges profile data, optionally for another user
// (admin only). DeleteAuthAccount defaults to true when omitted: a bare
// delete request removes the auth account along with the profile data.
type DeleteProfileRequest struct {
	TargetUserID      *uuid.UUID `json:"target_user_id,omitempty"`
	DeleteAuthAccount *bool      `json:"delete_auth_account,omitempty"`
}

// ShouldDeleteAuthAccount reports the effective delete_auth_account value.
func (r DeleteProfileRequest) ShouldDeleteAuthAccount() bool {
	return r.DeleteAuthAccount == nil || *r.DeleteAuthAccount
}

// DeleteProfileResponse reports what was purged. Warning is set when profile
// data was cleared but the auth account could not be deleted.
type DeleteProfileResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	DraftsDeleted   int64     `json:"drafts_deleted"`
	SnapshotDeleted bool      `json:"snapshot_deleted"`
	PicturesDeleted int       `json:"pictures_deleted"`
}

// AvatarURLsRequest asks for signed GET URLs for a batch of stored picture paths.
type AvatarURLsRequest struct {
	Paths []string `json:"paths" binding:"required,min=1,max=100,dive,max=300"`
}

// AvatarURL pairs a stored path with its short-lived signed URL.
type AvatarURL struct {
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadResponse is returned after a successful profile picture upload.
type UploadResponse struct {
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// DirectoryQuery drives directory listing and search.
type DirectoryQuery struct {
	common.PaginationQuery
	SearchTerm string `form:"q"`
}

func toDraftResponse(d *Draft) DraftResponse {
	return DraftResponse{
		ID:          d.ID,
		UserID:      d.UserID,
		Status:      d.Status,
		Data:        d.Data,
		IsInitial:   d.IsInitial,
		SubmittedAt: d.SubmittedAt,
	}
}

func toSnapshotResponse(s *Snapshot) SnapshotResponse {
	return SnapshotResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		Slug:       s.Slug,
		Data:       s.Data,
		ApprovedAt: s.ApprovedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
