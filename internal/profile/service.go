// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/notification"
	"scholar_directory_backend/internal/platform/crypto"
	"scholar_directory_backend/internal/projectmode"
	"scholar_directory_backend/internal/shared"
	"scholar_directory_backend/internal/storage"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// ErrEditingDisabled is returned whenever the project mode flag gates an
// operation off. The message is surfaced to the client verbatim.
var ErrEditingDisabled = common.ErrForbidden.WithDetails("Profile editing is disabled right now.")

// allowedImageTypes maps accepted upload MIME types to stored file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// AuthAccountDeleter removes an account from the upstream auth provider.
// Satisfied by firebase.FirebaseService.
type AuthAccountDeleter interface {
	DeleteUser(ctx context.Context, uid string) error
}

// Service defines the interface for profile draft and directory business logic.
type Service interface {
	SubmitDraft(ctx context.Context, userID uuid.UUID, req SubmitDraftRequest) (*SubmitDraftResponse, error)
	GetMyDraft(ctx context.Context, userID uuid.UUID) (*DraftResponse, error)
	UploadProfilePicture(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*UploadResponse, error)
	// DeleteProfile purges a user's profile data. The returned warning is
	// non-empty when data was cleared but the auth account could not be
	// deleted (partial success).
	DeleteProfile(ctx context.Context, callerID uuid.UUID, callerRole string, req DeleteProfileRequest) (*DeleteProfileResponse, string, error)

	ListDirectory(ctx context.Context, query DirectoryQuery) ([]SnapshotResponse, *common.Pagination, error)
	SearchDirectory(ctx context.Context, query DirectoryQuery) ([]SnapshotResponse, *common.Pagination, error)
	GetSnapshotBySlug(ctx context.Context, slugValue string) (*SnapshotResponse, error)
	BatchAvatarURLs(ctx context.Context, callerID uuid.UUID, paths []string) ([]AvatarURL, error)

	// Admin specific
	ListPendingDrafts(ctx context.Context, query common.PaginationQuery) ([]DraftResponse, *common.Pagination, error)
	ApproveDraft(ctx context.Context, adminID uuid.UUID, draftID uuid.UUID) (*SnapshotResponse, error)
	RejectDraft(ctx context.Context, adminID uuid.UUID, req RejectDraftRequest) error

	// Jobs / CLI related
	ReindexAllSnapshots(ctx context.Context) (int, error)
	CleanupOrphanUploads(ctx context.Context) (int, error)
}

// ServiceImplementation implements the profile Service interface.
type ServiceImplementation struct {
	repo                Repository
	storageService      storage.Service
	projectModeService  projectmode.Service
	notificationService notification.Service
	userService         shared.Service
	authDeleter         AuthAccountDeleter
	indexer             *SearchIndexer
	cfg                 *config.Config
	logger              *zap.Logger
}

// NewService creates a new profile service.
func NewService(
	repo Repository,
	storageService storage.Service,
	projectModeService projectmode.Service,
	notificationService notification.Service,
	userService shared.Service,
	authDeleter AuthAccountDeleter,
	indexer *SearchIndexer,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &ServiceImplementation{
		repo:                repo,
		storageService:      storageService,
		projectModeService:  projectModeService,
		notificationService: notificationService,
		userService:         userService,
		authDeleter:         authDeleter,
		indexer:             indexer,
		cfg:                 cfg,
		logger:              logger,
	}
}

func (s *ServiceImplementation) requireEditingEnabled(ctx context.Context) error {
	enabled, err := s.projectModeService.IsProfileEditEnabled(ctx)
	if err != nil {
		s.logger.Error("Failed to read profile edit flag", zap.Error(err))
		return common.ErrInternalServer.WithDetails("Could not determine whether profile editing is enabled.")
	}
	if !enabled {
		return ErrEditingDisabled
	}
	return nil
}

// SubmitDraft sanitizes and stores a new pending draft, replacing any
// existing pending draft for the user in the same transaction.
func (s *ServiceImplementation) SubmitDraft(ctx context.Context, userID uuid.UUID, req SubmitDraftRequest) (*SubmitDraftResponse, error) {
	if err := s.requireEditingEnabled(ctx); err != nil {
		return nil, err
	}

	data, err := SanitizeSubmission(&req)
	if err != nil {
		return nil, err
	}

	hasProfile, err := s.repo.SnapshotExists(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to check for existing published profile", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	now := time.Now()
	draft := &Draft{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      userID,
		Status:      StatusPending,
		Data:        *data,
		IsInitial:   !hasProfile,
		SubmittedAt: now,
	}

	if err := s.repo.ReplacePendingDraft(ctx, draft); err != nil {
		s.logger.Error("Failed to replace pending draft", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	if s.notificationService != nil {
		notifMessage := "Your profile draft was submitted and is awaiting review."
		if _, errNotif := s.notificationService.CreateNotification(ctx, userID, notification.DraftSubmitted, notifMessage, &draft.ID); errNotif != nil {
			s.logger.Error("Failed to send draft submission notification",
				zap.Error(errNotif), zap.String("draftID", draft.ID.String()))
			// Do not fail the operation due to notification error
		}
	}

	s.logger.Info("Profile draft submitted",
		zap.String("draftID", draft.ID.String()),
		zap.String("userID", userID.String()),
		zap.Bool("isInitial", draft.IsInitial),
	)

	return &SubmitDraftResponse{
		DraftID:     draft.ID,
		SubmittedAt: draft.SubmittedAt,
		IsInitial:   draft.IsInitial,
	}, nil
}

// GetMyDraft returns the caller's pending draft, if any.
func (s *ServiceImplementation) GetMyDraft(ctx context.Context, userID uuid.UUID) (*DraftResponse, error) {
	draft, err := s.repo.FindPendingDraftByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toDraftResponse(draft)
	s.attachDraftAvatar(ctx, &resp)
	return &resp, nil
}

// UploadProfilePicture validates and stores a profile picture, returning the
// storage path the client should reference from its draft.
func (s *ServiceImplementation) UploadProfilePicture(ctx context.Context, userID uuid.UUID, data []byte, contentType string) (*UploadResponse, error) {
	if err := s.requireEditingEnabled(ctx); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, common.ErrUnprocessableEntity.WithDetails("Uploaded file is empty.")
	}
	if int64(len(data)) > s.cfg.MaxUploadSizeBytes {
		return nil, common.ErrPayloadTooLarge.WithDetails(
			fmt.Sprintf("Uploaded file exceeds the maximum size of %d bytes.", s.cfg.MaxUploadSizeBytes))
	}

	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, common.ErrUnsupportedMediaType.WithDetails("Only JPEG, PNG, and WebP images are accepted.")
	}

	suffix, err := crypto.GenerateSecureRandomString(6)
	if err != nil {
		s.logger.Error("Failed to generate upload filename suffix", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not store the uploaded file.")
	}
	path := fmt.Sprintf("%s/%d-%s.%s", userID.String(), time.Now().UnixMilli(), suffix, ext)

	// Upsert stays disabled: a retried upload under a reused name fails
	// rather than silently overwriting.
	if err := s.storageService.Upload(ctx, path, data, mimeType, false); err != nil {
		s.logger.Error("Failed to upload profile picture",
			zap.Error(err), zap.String("userID", userID.String()), zap.String("path", path))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, common.ErrInternalServer.WithDetails("Could not store the uploaded file.")
	}

	s.logger.Info("Profile picture uploaded",
		zap.String("userID", userID.String()),
		zap.String("path", path),
		zap.Int("size", len(data)),
	)

	return &UploadResponse{
		Path:     path,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

// DeleteProfile purges the target user's drafts, published snapshot, stored
// pictures, notifications, and search document. Cross-user deletion requires
// the admin role. When delete_auth_account is set and the auth provider call
// fails, the response carries a warning instead of an error.
func (s *ServiceImplementation) DeleteProfile(ctx context.Context, callerID uuid.UUID, callerRole string, req DeleteProfileRequest) (*DeleteProfileResponse, string, error) {
	if err := s.requireEditingEnabled(ctx); err != nil {
		return nil, "", err
	}

	targetID := callerID
	if req.TargetUserID != nil && *req.TargetUserID != uuid.Nil {
		targetID = *req.TargetUserID
	}
	if targetID != callerID && callerRole != common.RoleAdmin {
		return nil, "", common.ErrForbidden.WithDetails("Only administrators may delete another user's profile.")
	}

	draftsDeleted, snapshotDeleted, err := s.repo.PurgeUserData(ctx, targetID)
	if err != nil {
		s.logger.Error("Failed to purge profile data", zap.Error(err), zap.String("targetUserID", targetID.String()))
		return nil, "", err
	}

	picturesDeleted := 0
	if n, errStorage := s.storageService.DeletePrefix(ctx, targetID.String()+"/"); errStorage != nil {
		// Orphaned objects are swept by the cleanup job; data deletion wins.
		s.logger.Error("Failed to delete stored profile pictures",
			zap.Error(errStorage), zap.String("targetUserID", targetID.String()))
	} else {
		picturesDeleted = n
	}

	if s.indexer != nil {
		if errIdx := s.indexer.Delete(ctx, targetID); errIdx != nil && !errors.Is(errIdx, ErrSearchUnavailable) {
			s.logger.Error("Failed to remove profile from search index",
				zap.Error(errIdx), zap.String("targetUserID", targetID.String()))
		}
	}

	if s.notificationService != nil {
		if _, errNotif := s.notificationService.DeleteNotificationsForUser(ctx, targetID); errNotif != nil {
			s.logger.Error("Failed to delete notifications for purged profile",
				zap.Error(errNotif), zap.String("targetUserID", targetID.String()))
		}
		// An admin purging someone else's profile leaves the owner a notice.
		if targetID != callerID {
			notifMessage := "Your profile was removed from the directory by an administrator."
			if _, errNotif := s.notificationService.CreateNotification(ctx, targetID, notification.ProfileDeleted, notifMessage, nil); errNotif != nil {
				s.logger.Error("Failed to send profile deleted notification",
					zap.Error(errNotif), zap.String("targetUserID", targetID.String()))
			}
		}
	}

	resp := &DeleteProfileResponse{
		UserID:          targetID,
		DraftsDeleted:   draftsDeleted,
		SnapshotDeleted: snapshotDeleted,
		PicturesDeleted: picturesDeleted,
	}

	if !req.ShouldDeleteAuthAccount() {
		s.logger.Info("Profile data purged",
			zap.String("targetUserID", targetID.String()),
			zap.Int64("draftsDeleted", draftsDeleted),
			zap.Bool("snapshotDeleted", snapshotDeleted),
		)
		return resp, "", nil
	}

	warning := "Profile data cleared, but unable to delete auth user."

	usr, err := s.userService.GetUserByID(ctx, targetID)
	if err != nil {
		s.logger.Error("Failed to resolve user for auth account deletion",
			zap.Error(err), zap.String("targetUserID", targetID.String()))
		return resp, warning, nil
	}
	if err := s.authDeleter.DeleteUser(ctx, usr.FirebaseUID); err != nil {
		s.logger.Error("Failed to delete auth account",
			zap.Error(err), zap.String("targetUserID", targetID.String()))
		return resp, warning, nil
	}

	// The local record follows the auth account so no orphan row survives.
	if err := s.userService.DeleteUser(ctx, targetID); err != nil {
		s.logger.Error("Failed to delete local user record",
			zap.Error(err), zap.String("targetUserID", targetID.String()))
	}

	s.logger.Info("Profile data and auth account deleted", zap.String("targetUserID", targetID.String()))
	return resp, "", nil
}

// ListDirectory returns the paginated published directory without search.
func (s *ServiceImplementation) ListDirectory(ctx context.Context, query DirectoryQuery) ([]SnapshotResponse, *common.Pagination, error) {
	query.SearchTerm = ""
	snapshots, pagination, err := s.repo.ListSnapshots(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return s.toSnapshotResponses(ctx, snapshots), pagination, nil
}

// SearchDirectory searches published profiles. Elasticsearch serves the
// query when available; the database fallback keeps search working otherwise.
func (s *ServiceImplementation) SearchDirectory(ctx context.Context, query DirectoryQuery) ([]SnapshotResponse, *common.Pagination, error) {
	term := strings.TrimSpace(query.SearchTerm)
	if term == "" {
		return s.ListDirectory(ctx, query)
	}

	if s.indexer != nil {
		userIDs, total, err := s.indexer.Search(ctx, term, query.Offset(), query.Limit())
		if err == nil {
			snapshots, loadErr := s.repo.FindSnapshotsByUserIDs(ctx, userIDs)
			if loadErr != nil {
				return nil, nil, loadErr
			}
			ordered := orderByUserIDs(snapshots, userIDs)
			pagination := common.NewPagination(total, query.Page, query.PageSize)
			return s.toSnapshotResponses(ctx, ordered), pagination, nil
		}
		if !errors.Is(err, ErrSearchUnavailable) {
			s.logger.Warn("Profile search via Elasticsearch failed, falling back to database",
				zap.Error(err), zap.String("term", term))
		}
	}

	snapshots, pagination, err := s.repo.ListSnapshots(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	return s.toSnapshotResponses(ctx, snapshots), pagination, nil
}

// GetSnapshotBySlug returns one published profile by its directory slug.
func (s *ServiceImplementation) GetSnapshotBySlug(ctx context.Context, slugValue string) (*SnapshotResponse, error) {
	snapshot, err := s.repo.FindSnapshotBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	resp := toSnapshotResponse(snapshot)
	s.attachSnapshotAvatar(ctx, &resp)
	return &resp, nil
}

// BatchAvatarURLs signs a batch of picture paths in one call. Callers may
// sign anything under their own storage prefix; paths belonging to other
// users are honored only when a published snapshot references them.
// Disallowed or failing paths are omitted rather than failing the batch.
func (s *ServiceImplementation) BatchAvatarURLs(ctx context.Context, callerID uuid.UUID, paths []string) ([]AvatarURL, error) {
	callerPrefix := callerID.String() + "/"

	seenOwners := make(map[uuid.UUID]struct{})
	var foreignOwners []uuid.UUID
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" || strings.HasPrefix(path, callerPrefix) {
			continue
		}
		owner, ok := ownerFromPath(path)
		if !ok {
			continue
		}
		if _, dup := seenOwners[owner]; dup {
			continue
		}
		seenOwners[owner] = struct{}{}
		foreignOwners = append(foreignOwners, owner)
	}

	published := make(map[string]struct{})
	if len(foreignOwners) > 0 {
		snapshots, err := s.repo.FindSnapshotsByUserIDs(ctx, foreignOwners)
		if err != nil {
			s.logger.Error("Failed to load snapshots for avatar URL signing", zap.Error(err))
			return nil, err
		}
		for i := range snapshots {
			if p := snapshots[i].Data.Profile.ProfilePicturePath; p != nil {
				published[*p] = struct{}{}
			}
		}
	}

	result := make([]AvatarURL, 0, len(paths))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if !strings.HasPrefix(path, callerPrefix) {
			if _, ok := published[path]; !ok {
				s.logger.Warn("Refused to sign avatar URL outside caller namespace",
					zap.String("path", path), zap.String("callerID", callerID.String()))
				continue
			}
		}
		signedURL, expiresAt, err := s.storageService.PresignGet(ctx, path, s.cfg.SignedURLTTL)
		if err != nil {
			s.logger.Warn("Failed to sign avatar URL", zap.Error(err), zap.String("path", path))
			continue
		}
		result = append(result, AvatarURL{Path: path, URL: signedURL, ExpiresAt: expiresAt})
	}
	return result, nil
}

// ownerFromPath parses the user ID segment that prefixes every stored
// picture path.
func ownerFromPath(path string) (uuid.UUID, bool) {
	idx := strings.Index(path, "/")
	if idx <= 0 {
		return uuid.Nil, false
	}
	owner, err := uuid.Parse(path[:idx])
	if err != nil {
		return uuid.Nil, false
	}
	return owner, true
}

// ListPendingDrafts returns the moderation queue, oldest first.
func (s *ServiceImplementation) ListPendingDrafts(ctx context.Context, query common.PaginationQuery) ([]DraftResponse, *common.Pagination, error) {
	drafts, pagination, err := s.repo.ListPendingDrafts(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	responses := make([]DraftResponse, len(drafts))
	for i := range drafts {
		responses[i] = toDraftResponse(&drafts[i])
		s.attachDraftAvatar(ctx, &responses[i])
	}
	return responses, pagination, nil
}

// ApproveDraft publishes a pending draft as the user's directory snapshot
// and removes the draft, in one transaction.
func (s *ServiceImplementation) ApproveDraft(ctx context.Context, adminID uuid.UUID, draftID uuid.UUID) (*SnapshotResponse, error) {
	draft, err := s.repo.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshot := &Snapshot{
		BaseModel: common.BaseModel{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     draft.UserID,
		Slug:       makeSlug(draft.Data.Profile.Name, draft.UserID),
		Data:       draft.Data,
		ApprovedAt: now,
		ApprovedBy: adminID,
	}

	if err := s.repo.ApproveDraft(ctx, draft, snapshot); err != nil {
		s.logger.Error("Failed to approve draft", zap.Error(err), zap.String("draftID", draftID.String()))
		return nil, err
	}

	if s.indexer != nil {
		if errIdx := s.indexer.Index(ctx, snapshot); errIdx != nil && !errors.Is(errIdx, ErrSearchUnavailable) {
			// The sync-profiles command reconciles the index later.
			s.logger.Error("Failed to index approved profile",
				zap.Error(errIdx), zap.String("userID", snapshot.UserID.String()))
		}
	}

	if s.notificationService != nil {
		notifMessage := "Your profile was approved and is now live in the directory."
		if _, errNotif := s.notificationService.CreateNotification(ctx, draft.UserID, notification.DraftApproved, notifMessage, &draft.ID); errNotif != nil {
			s.logger.Error("Failed to send draft approved notification",
				zap.Error(errNotif), zap.String("draftID", draft.ID.String()))
		}
	}

	s.logger.Info("Draft approved and published",
		zap.String("draftID", draftID.String()),
		zap.String("userID", draft.UserID.String()),
		zap.String("adminID", adminID.String()),
	)

	resp := toSnapshotResponse(snapshot)
	s.attachSnapshotAvatar(ctx, &resp)
	return &resp, nil
}

// RejectDraft removes a pending draft, recording the optional reason in the
// notification sent to its owner.
func (s *ServiceImplementation) RejectDraft(ctx context.Context, adminID uuid.UUID, req RejectDraftRequest) error {
	if req.DraftID == uuid.Nil {
		return common.ErrUnprocessableEntity.WithDetails("draft_id is required")
	}

	draft, err := s.repo.FindDraftByID(ctx, req.DraftID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDraft(ctx, draft.ID); err != nil {
		s.logger.Error("Failed to delete rejected draft", zap.Error(err), zap.String("draftID", draft.ID.String()))
		return err
	}

	if s.notificationService != nil {
		notifMessage := "Your profile draft was not approved."
		if req.Reason != nil {
			if reason := strings.TrimSpace(*req.Reason); reason != "" {
				notifMessage = fmt.Sprintf("Your profile draft was not approved: %s", reason)
			}
		}
		if _, errNotif := s.notificationService.CreateNotification(ctx, draft.UserID, notification.DraftRejected, notifMessage, &draft.ID); errNotif != nil {
			s.logger.Error("Failed to send draft rejected notification",
				zap.Error(errNotif), zap.String("draftID", draft.ID.String()))
		}
	}

	s.logger.Info("Draft rejected",
		zap.String("draftID", draft.ID.String()),
		zap.String("userID", draft.UserID.String()),
		zap.String("adminID", adminID.String()),
	)
	return nil
}

// ReindexAllSnapshots pushes every published profile into the search index.
// Used by the sync-profiles CLI command and safe to run repeatedly.
func (s *ServiceImplementation) ReindexAllSnapshots(ctx context.Context) (int, error) {
	if s.indexer == nil {
		return 0, ErrSearchUnavailable
	}
	snapshots, err := s.repo.ListAllSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	indexed := 0
	for i := range snapshots {
		if err := s.indexer.Index(ctx, &snapshots[i]); err != nil {
			return indexed, err
		}
		indexed++
	}
	return indexed, nil
}

// CleanupOrphanUploads removes stored pictures older than the configured
// grace period that no draft or published profile references. The grace
// period keeps freshly uploaded pictures alive while their draft is still
// being composed.
func (s *ServiceImplementation) CleanupOrphanUploads(ctx context.Context) (int, error) {
	referenced := make(map[string]struct{})

	drafts, err := s.repo.ListAllDrafts(ctx)
	if err != nil {
		return 0, err
	}
	for i := range drafts {
		if p := drafts[i].Data.Profile.ProfilePicturePath; p != nil {
			referenced[*p] = struct{}{}
		}
	}

	snapshots, err := s.repo.ListAllSnapshots(ctx)
	if err != nil {
		return 0, err
	}
	for i := range snapshots {
		if p := snapshots[i].Data.Profile.ProfilePicturePath; p != nil {
			referenced[*p] = struct{}{}
		}
	}

	objects, err := s.storageService.ListPrefix(ctx, "")
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.cfg.OrphanUploadMaxAge)
	deleted := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.storageService.Delete(ctx, obj.Key); err != nil {
			s.logger.Error("Failed to delete orphaned upload", zap.Error(err), zap.String("key", obj.Key))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("Orphaned uploads removed", zap.Int("count", deleted))
	}
	return deleted, nil
}

func (s *ServiceImplementation) toSnapshotResponses(ctx context.Context, snapshots []Snapshot) []SnapshotResponse {
	responses := make([]SnapshotResponse, len(snapshots))
	for i := range snapshots {
		responses[i] = toSnapshotResponse(&snapshots[i])
		s.attachSnapshotAvatar(ctx, &responses[i])
	}
	return responses
}

func (s *ServiceImplementation) attachSnapshotAvatar(ctx context.Context, resp *SnapshotResponse) {
	if resp.Data.Profile.ProfilePicturePath == nil {
		return
	}
	signedURL, _, err := s.storageService.PresignGet(ctx, *resp.Data.Profile.ProfilePicturePath, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Warn("Failed to sign avatar URL for profile",
			zap.Error(err), zap.String("userID", resp.UserID.String()))
		return
	}
	resp.AvatarURL = &signedURL
}

func (s *ServiceImplementation) attachDraftAvatar(ctx context.Context, resp *DraftResponse) {
	if resp.Data.Profile.ProfilePicturePath == nil {
		return
	}
	signedURL, _, err := s.storageService.PresignGet(ctx, *resp.Data.Profile.ProfilePicturePath, s.cfg.SignedURLTTL)
	if err != nil {
		s.logger.Warn("Failed to sign avatar URL for draft",
			zap.Error(err), zap.String("draftID", resp.ID.String()))
		return
	}
	resp.AvatarURL = &signedURL
}

// makeSlug builds a stable, unique directory slug from the display name and
// a short user ID suffix.
func makeSlug(name string, userID uuid.UUID) string {
	base := slug.Make(name)
	if base == "" {
		base = "member"
	}
	idStr := strings.ReplaceAll(userID.String(), "-", "")
	return fmt.Sprintf("%s-%s", base, idStr[:8])
}

func orderByUserIDs(snapshots []Snapshot, order []uuid.UUID) []Snapshot {
	byUser := make(map[uuid.UUID]*Snapshot, len(snapshots))
	for i := range snapshots {
		byUser[snapshots[i].UserID] = &snapshots[i]
	}
	ordered := make([]Snapshot, 0, len(snapshots))
	for _, id := range order {
		if snap, ok := byUser[id]; ok {
			ordered = append(ordered, *snap)
		}
	}
	return ordered
}
