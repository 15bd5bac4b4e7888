// File: internal/profile/service_test.go
package profile

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"
	"scholar_directory_backend/internal/notification"
	"scholar_directory_backend/internal/projectmode"
	"scholar_directory_backend/internal/shared"
	"scholar_directory_backend/internal/storage"

	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ReplacePendingDraft(ctx context.Context, draft *Draft) error {
	return m.Called(ctx, draft).Error(0)
}

func (m *mockRepository) FindDraftByID(ctx context.Context, id uuid.UUID) (*Draft, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*Draft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindPendingDraftByUserID(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	args := m.Called(ctx, userID)
	if d := args.Get(0); d != nil {
		return d.(*Draft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ListPendingDrafts(ctx context.Context, query common.PaginationQuery) ([]Draft, *common.Pagination, error) {
	args := m.Called(ctx, query)
	var drafts []Draft
	if d := args.Get(0); d != nil {
		drafts = d.([]Draft)
	}
	var pagination *common.Pagination
	if p := args.Get(1); p != nil {
		pagination = p.(*common.Pagination)
	}
	return drafts, pagination, args.Error(2)
}

func (m *mockRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) UpsertSnapshot(ctx context.Context, snapshot *Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *mockRepository) FindSnapshotByUserID(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.(*Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindSnapshotBySlug(ctx context.Context, slug string) (*Snapshot, error) {
	args := m.Called(ctx, slug)
	if s := args.Get(0); s != nil {
		return s.(*Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) FindSnapshotsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Snapshot, error) {
	args := m.Called(ctx, userIDs)
	var snapshots []Snapshot
	if s := args.Get(0); s != nil {
		snapshots = s.([]Snapshot)
	}
	return snapshots, args.Error(1)
}

func (m *mockRepository) ListSnapshots(ctx context.Context, query DirectoryQuery) ([]Snapshot, *common.Pagination, error) {
	args := m.Called(ctx, query)
	var snapshots []Snapshot
	if s := args.Get(0); s != nil {
		snapshots = s.([]Snapshot)
	}
	var pagination *common.Pagination
	if p := args.Get(1); p != nil {
		pagination = p.(*common.Pagination)
	}
	return snapshots, pagination, args.Error(2)
}

func (m *mockRepository) ListAllSnapshots(ctx context.Context) ([]Snapshot, error) {
	args := m.Called(ctx)
	var snapshots []Snapshot
	if s := args.Get(0); s != nil {
		snapshots = s.([]Snapshot)
	}
	return snapshots, args.Error(1)
}

func (m *mockRepository) ListAllDrafts(ctx context.Context) ([]Draft, error) {
	args := m.Called(ctx)
	var drafts []Draft
	if d := args.Get(0); d != nil {
		drafts = d.([]Draft)
	}
	return drafts, args.Error(1)
}

func (m *mockRepository) SnapshotExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) ApproveDraft(ctx context.Context, draft *Draft, snapshot *Snapshot) error {
	return m.Called(ctx, draft, snapshot).Error(0)
}

func (m *mockRepository) PurgeUserData(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStorage) Upload(ctx context.Context, key string, data []byte, contentType string, upsert bool) error {
	return m.Called(ctx, key, data, contentType, upsert).Error(0)
}

func (m *mockStorage) PresignGet(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	args := m.Called(ctx, prefix)
	return args.Int(0), args.Error(1)
}

func (m *mockStorage) ListPrefix(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	var objects []storage.ObjectInfo
	if o := args.Get(0); o != nil {
		objects = o.([]storage.ObjectInfo)
	}
	return objects, args.Error(1)
}

type mockProjectMode struct {
	mock.Mock
}

func (m *mockProjectMode) IsProfileEditEnabled(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockProjectMode) GetProjectMode(ctx context.Context) (*projectmode.ProjectModeResponse, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.(*projectmode.ProjectModeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProjectMode) SetProfileEditEnabled(ctx context.Context, enabled bool) (*projectmode.ProjectModeResponse, error) {
	args := m.Called(ctx, enabled)
	if r := args.Get(0); r != nil {
		return r.(*projectmode.ProjectModeResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifications struct {
	mock.Mock
}

func (m *mockNotifications) CreateNotification(ctx context.Context, userID uuid.UUID, notifType notification.NotificationType, message string, relatedDraftID *uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, userID, notifType, message, relatedDraftID)
	if n := args.Get(0); n != nil {
		return n.(*notification.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotifications) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var items []notification.Notification
	if n := args.Get(0); n != nil {
		items = n.([]notification.Notification)
	}
	var pagination *common.Pagination
	if p := args.Get(1); p != nil {
		pagination = p.(*common.Pagination)
	}
	return items, pagination, args.Error(2)
}

func (m *mockNotifications) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	return m.Called(ctx, notificationID, userID).Error(0)
}

func (m *mockNotifications) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotifications) DeleteNotificationsForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*shared.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*shared.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*shared.User, error) {
	args := m.Called(ctx, firebaseUID)
	if u := args.Get(0); u != nil {
		return u.(*shared.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserService) GetOrCreateUserFromFirebaseClaims(ctx context.Context, token *firebaseauth.Token) (*shared.User, bool, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*shared.User), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *mockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuthDeleter struct {
	mock.Mock
}

func (m *mockAuthDeleter) DeleteUser(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

// --- Test setup ---

type serviceMocks struct {
	repo          *mockRepository
	storage       *mockStorage
	projectMode   *mockProjectMode
	notifications *mockNotifications
	users         *mockUserService
	authDeleter   *mockAuthDeleter
}

func newTestService(t *testing.T) (Service, *serviceMocks) {
	t.Helper()
	m := &serviceMocks{
		repo:          new(mockRepository),
		storage:       new(mockStorage),
		projectMode:   new(mockProjectMode),
		notifications: new(mockNotifications),
		users:         new(mockUserService),
		authDeleter:   new(mockAuthDeleter),
	}
	cfg := &config.Config{
		MaxUploadSizeBytes: 5 * 1024 * 1024,
		SignedURLTTL:       15 * time.Minute,
		OrphanUploadMaxAge: 48 * time.Hour,
	}
	svc := NewService(
		m.repo, m.storage, m.projectMode, m.notifications, m.users,
		m.authDeleter, NewSearchIndexer(nil, zap.NewNop()), cfg, zap.NewNop(),
	)
	return svc, m
}

// --- SubmitDraft ---

func TestSubmitDraft_EditingDisabled(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(false, nil)

	_, err := svc.SubmitDraft(context.Background(), uuid.New(), *validSubmission())
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
	assert.Equal(t, "Profile editing is disabled right now.", apiErr.Details)
}

func TestSubmitDraft_FirstSubmissionIsInitial(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("SnapshotExists", mock.Anything, userID).Return(false, nil)
	m.repo.On("ReplacePendingDraft", mock.Anything, mock.AnythingOfType("*profile.Draft")).Return(nil)
	m.notifications.On("CreateNotification", mock.Anything, userID, notification.DraftSubmitted, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	resp, err := svc.SubmitDraft(context.Background(), userID, *validSubmission())
	require.NoError(t, err)
	assert.True(t, resp.IsInitial)
	assert.NotEqual(t, uuid.Nil, resp.DraftID)
	m.repo.AssertCalled(t, "ReplacePendingDraft", mock.Anything, mock.MatchedBy(func(d *Draft) bool {
		return d.UserID == userID && d.Status == StatusPending && d.IsInitial
	}))
}

func TestSubmitDraft_ResubmissionNotInitial(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("SnapshotExists", mock.Anything, userID).Return(true, nil)
	m.repo.On("ReplacePendingDraft", mock.Anything, mock.Anything).Return(nil)
	m.notifications.On("CreateNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	resp, err := svc.SubmitDraft(context.Background(), userID, *validSubmission())
	require.NoError(t, err)
	assert.False(t, resp.IsInitial)
}

func TestSubmitDraft_InvalidPayloadSkipsRepository(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)

	req := *validSubmission()
	delete(req.Profile, "name")

	_, err := svc.SubmitDraft(context.Background(), uuid.New(), req)
	require.Error(t, err)
	m.repo.AssertNotCalled(t, "ReplacePendingDraft", mock.Anything, mock.Anything)
}

// --- UploadProfilePicture ---

func TestUploadProfilePicture_EmptyFile(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)

	_, err := svc.UploadProfilePicture(context.Background(), uuid.New(), nil, "image/png")
	require.Error(t, err)
	apiErr, _ := common.IsAPIError(err)
	assert.Equal(t, 422, apiErr.StatusCode)
}

func TestUploadProfilePicture_TooLarge(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)

	data := make([]byte, 5*1024*1024+1)
	_, err := svc.UploadProfilePicture(context.Background(), uuid.New(), data, "image/png")
	require.Error(t, err)
	apiErr, _ := common.IsAPIError(err)
	assert.Equal(t, 413, apiErr.StatusCode)
}

func TestUploadProfilePicture_UnsupportedType(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)

	_, err := svc.UploadProfilePicture(context.Background(), uuid.New(), []byte("GIF89a"), "image/gif")
	require.Error(t, err)
	apiErr, _ := common.IsAPIError(err)
	assert.Equal(t, 415, apiErr.StatusCode)
}

func TestUploadProfilePicture_Success(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, "image/jpeg", false).Return(nil)

	resp, err := svc.UploadProfilePicture(context.Background(), userID, []byte("fake-jpeg-bytes"), "image/jpeg; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", resp.MimeType)
	assert.Equal(t, int64(len("fake-jpeg-bytes")), resp.Size)
	assert.True(t, strings.HasPrefix(resp.Path, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(resp.Path, ".jpg"))
}

// --- DeleteProfile ---

func boolPtr(b bool) *bool { return &b }

func TestDeleteProfile_CrossUserRequiresAdmin(t *testing.T) {
	svc, m := newTestService(t)
	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)

	target := uuid.New()
	_, _, err := svc.DeleteProfile(context.Background(), uuid.New(), common.RoleUser, DeleteProfileRequest{
		TargetUserID: &target,
	})
	require.Error(t, err)
	apiErr, _ := common.IsAPIError(err)
	assert.Equal(t, 403, apiErr.StatusCode)
	m.repo.AssertNotCalled(t, "PurgeUserData", mock.Anything, mock.Anything)
}

func TestDeleteProfile_SelfDeletion(t *testing.T) {
	// A bare request deletes the auth account too: delete_auth_account
	// defaults to true when omitted.
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, userID).Return(int64(2), true, nil)
	m.storage.On("DeletePrefix", mock.Anything, userID.String()+"/").Return(3, nil)
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, userID).Return(int64(1), nil)
	m.users.On("GetUserByID", mock.Anything, userID).Return(&shared.User{ID: userID, FirebaseUID: "fb-self"}, nil)
	m.authDeleter.On("DeleteUser", mock.Anything, "fb-self").Return(nil)
	m.users.On("DeleteUser", mock.Anything, userID).Return(nil)

	resp, warning, err := svc.DeleteProfile(context.Background(), userID, common.RoleUser, DeleteProfileRequest{})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, int64(2), resp.DraftsDeleted)
	assert.True(t, resp.SnapshotDeleted)
	assert.Equal(t, 3, resp.PicturesDeleted)
	m.authDeleter.AssertCalled(t, "DeleteUser", mock.Anything, "fb-self")
	m.users.AssertCalled(t, "DeleteUser", mock.Anything, userID)
}

func TestDeleteProfile_KeepAuthAccount(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, userID).Return(int64(1), true, nil)
	m.storage.On("DeletePrefix", mock.Anything, userID.String()+"/").Return(0, nil)
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, userID).Return(int64(0), nil)

	_, warning, err := svc.DeleteProfile(context.Background(), userID, common.RoleUser, DeleteProfileRequest{
		DeleteAuthAccount: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	m.authDeleter.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
	m.users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteProfile_AuthDeletionFailureIsPartialSuccess(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, userID).Return(int64(1), true, nil)
	m.storage.On("DeletePrefix", mock.Anything, userID.String()+"/").Return(0, nil)
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, userID).Return(int64(0), nil)
	m.users.On("GetUserByID", mock.Anything, userID).Return(&shared.User{ID: userID, FirebaseUID: "fb-123"}, nil)
	m.authDeleter.On("DeleteUser", mock.Anything, "fb-123").Return(errors.New("firebase unavailable"))

	resp, warning, err := svc.DeleteProfile(context.Background(), userID, common.RoleUser, DeleteProfileRequest{
		DeleteAuthAccount: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Profile data cleared, but unable to delete auth user.", warning)
	assert.Equal(t, int64(1), resp.DraftsDeleted)
	m.users.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteProfile_AuthDeletionSuccess(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, userID).Return(int64(1), false, nil)
	m.storage.On("DeletePrefix", mock.Anything, mock.Anything).Return(0, nil)
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, userID).Return(int64(0), nil)
	m.users.On("GetUserByID", mock.Anything, userID).Return(&shared.User{ID: userID, FirebaseUID: "fb-456"}, nil)
	m.authDeleter.On("DeleteUser", mock.Anything, "fb-456").Return(nil)
	m.users.On("DeleteUser", mock.Anything, userID).Return(nil)

	_, warning, err := svc.DeleteProfile(context.Background(), userID, common.RoleAdmin, DeleteProfileRequest{
		DeleteAuthAccount: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	m.users.AssertCalled(t, "DeleteUser", mock.Anything, userID)
}

func TestDeleteProfile_AdminDeletionNotifiesOwner(t *testing.T) {
	svc, m := newTestService(t)
	adminID := uuid.New()
	targetID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, targetID).Return(int64(1), true, nil)
	m.storage.On("DeletePrefix", mock.Anything, targetID.String()+"/").Return(0, nil)
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, targetID).Return(int64(2), nil)
	m.notifications.On("CreateNotification", mock.Anything, targetID, notification.ProfileDeleted, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	_, warning, err := svc.DeleteProfile(context.Background(), adminID, common.RoleAdmin, DeleteProfileRequest{
		TargetUserID:      &targetID,
		DeleteAuthAccount: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	m.notifications.AssertCalled(t, "CreateNotification",
		mock.Anything, targetID, notification.ProfileDeleted, mock.Anything, mock.Anything)
}

func TestDeleteProfile_StorageFailureDoesNotFailDeletion(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	m.projectMode.On("IsProfileEditEnabled", mock.Anything).Return(true, nil)
	m.repo.On("PurgeUserData", mock.Anything, userID).Return(int64(1), true, nil)
	m.storage.On("DeletePrefix", mock.Anything, mock.Anything).Return(0, errors.New("storage down"))
	m.notifications.On("DeleteNotificationsForUser", mock.Anything, userID).Return(int64(0), nil)

	resp, warning, err := svc.DeleteProfile(context.Background(), userID, common.RoleUser, DeleteProfileRequest{
		DeleteAuthAccount: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, 0, resp.PicturesDeleted)
}

// --- Moderation ---

func TestApproveDraft_PublishesAndNotifies(t *testing.T) {
	svc, m := newTestService(t)
	adminID := uuid.New()
	ownerID := uuid.New()
	draftID := uuid.New()

	data, err := SanitizeSubmission(validSubmission())
	require.NoError(t, err)
	draft := &Draft{
		BaseModel: common.BaseModel{ID: draftID},
		UserID:    ownerID,
		Status:    StatusPending,
		Data:      *data,
	}

	m.repo.On("FindDraftByID", mock.Anything, draftID).Return(draft, nil)
	m.repo.On("ApproveDraft", mock.Anything, draft, mock.AnythingOfType("*profile.Snapshot")).Return(nil)
	m.notifications.On("CreateNotification", mock.Anything, ownerID, notification.DraftApproved, mock.Anything, mock.Anything).
		Return(&notification.Notification{}, nil)

	resp, err := svc.ApproveDraft(context.Background(), adminID, draftID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, resp.UserID)
	assert.True(t, strings.HasPrefix(resp.Slug, "amina-yusuf-"))
	m.repo.AssertCalled(t, "ApproveDraft", mock.Anything, draft, mock.MatchedBy(func(s *Snapshot) bool {
		return s.UserID == ownerID && s.ApprovedBy == adminID
	}))
}

func TestApproveDraft_NotFound(t *testing.T) {
	svc, m := newTestService(t)
	draftID := uuid.New()
	m.repo.On("FindDraftByID", mock.Anything, draftID).Return(nil, common.ErrNotFound.WithDetails("Draft not found."))

	_, err := svc.ApproveDraft(context.Background(), uuid.New(), draftID)
	require.Error(t, err)
	apiErr, _ := common.IsAPIError(err)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestRejectDraft_ReasonInNotification(t *testing.T) {
	svc, m := newTestService(t)
	ownerID := uuid.New()
	draftID := uuid.New()
	draft := &Draft{BaseModel: common.BaseModel{ID: draftID}, UserID: ownerID}

	m.repo.On("FindDraftByID", mock.Anything, draftID).Return(draft, nil)
	m.repo.On("DeleteDraft", mock.Anything, draftID).Return(nil)
	m.notifications.On("CreateNotification", mock.Anything, ownerID, notification.DraftRejected,
		"Your profile draft was not approved: Picture is unreadable", mock.Anything).
		Return(&notification.Notification{}, nil)

	reason := "Picture is unreadable"
	err := svc.RejectDraft(context.Background(), uuid.New(), RejectDraftRequest{DraftID: draftID, Reason: &reason})
	require.NoError(t, err)
	m.notifications.AssertExpectations(t)
}

// --- Directory ---

func TestSearchDirectory_FallsBackToDatabase(t *testing.T) {
	// The indexer has no Elasticsearch client, so search must use the
	// database path.
	svc, m := newTestService(t)

	data, err := SanitizeSubmission(validSubmission())
	require.NoError(t, err)
	snapshots := []Snapshot{{
		BaseModel: common.BaseModel{ID: uuid.New()},
		UserID:    uuid.New(),
		Slug:      "amina-yusuf-abcd1234",
		Data:      *data,
	}}
	// Offset/Limit normalize the page parameters before the fallback query.
	m.repo.On("ListSnapshots", mock.Anything, mock.MatchedBy(func(q DirectoryQuery) bool {
		return q.SearchTerm == "amina" && q.Page == common.DefaultPage && q.PageSize == common.DefaultPageSize
	})).Return(snapshots, common.NewPagination(1, 1, 20), nil)

	results, pagination, err := svc.SearchDirectory(context.Background(), DirectoryQuery{SearchTerm: "amina"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "amina-yusuf-abcd1234", results[0].Slug)
	assert.Equal(t, int64(1), pagination.TotalItems)
}

func TestSearchDirectory_EmptyTermListsDirectory(t *testing.T) {
	svc, m := newTestService(t)
	m.repo.On("ListSnapshots", mock.Anything, mock.MatchedBy(func(q DirectoryQuery) bool {
		return q.SearchTerm == ""
	})).Return([]Snapshot{}, common.NewPagination(0, 1, 20), nil)

	_, _, err := svc.SearchDirectory(context.Background(), DirectoryQuery{SearchTerm: "   "})
	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestBatchAvatarURLs_SkipsFailedPaths(t *testing.T) {
	svc, m := newTestService(t)
	callerID := uuid.New()
	expiry := time.Now().Add(15 * time.Minute)
	ownPath := callerID.String() + "/1-aa.jpg"
	brokenPath := callerID.String() + "/2-bb.jpg"

	m.storage.On("PresignGet", mock.Anything, ownPath, mock.Anything).Return("https://signed/own", expiry, nil)
	m.storage.On("PresignGet", mock.Anything, brokenPath, mock.Anything).Return("", time.Time{}, errors.New("missing object"))

	urls, err := svc.BatchAvatarURLs(context.Background(), callerID, []string{ownPath, brokenPath, "  "})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, ownPath, urls[0].Path)
	assert.Equal(t, "https://signed/own", urls[0].URL)
}

func TestBatchAvatarURLs_RestrictsForeignPaths(t *testing.T) {
	// Paths outside the caller's prefix sign only when a published snapshot
	// references them.
	svc, m := newTestService(t)
	callerID := uuid.New()
	publishedOwner := uuid.New()
	hiddenOwner := uuid.New()
	expiry := time.Now().Add(15 * time.Minute)

	publishedPath := publishedOwner.String() + "/3-cc.jpg"
	hiddenPath := hiddenOwner.String() + "/4-dd.jpg"

	data, err := SanitizeSubmission(validSubmission())
	require.NoError(t, err)
	data.Profile.ProfilePicturePath = &publishedPath

	m.repo.On("FindSnapshotsByUserIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2
	})).Return([]Snapshot{{UserID: publishedOwner, Data: *data}}, nil)
	m.storage.On("PresignGet", mock.Anything, publishedPath, mock.Anything).Return("https://signed/published", expiry, nil)

	urls, err := svc.BatchAvatarURLs(context.Background(), callerID, []string{publishedPath, hiddenPath, "not-a-uuid/x.jpg"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, publishedPath, urls[0].Path)
	m.storage.AssertNotCalled(t, "PresignGet", mock.Anything, hiddenPath, mock.Anything)
}

// --- Avatar signing on reads ---

func TestGetMyDraft_AttachesAvatarURL(t *testing.T) {
	svc, m := newTestService(t)
	userID := uuid.New()

	data, err := SanitizeSubmission(validSubmission())
	require.NoError(t, err)
	picPath := userID.String() + "/123-abc.jpg"
	data.Profile.ProfilePicturePath = &picPath
	draft := &Draft{BaseModel: common.BaseModel{ID: uuid.New()}, UserID: userID, Data: *data}

	m.repo.On("FindPendingDraftByUserID", mock.Anything, userID).Return(draft, nil)
	m.storage.On("PresignGet", mock.Anything, picPath, mock.Anything).
		Return("https://signed/avatar", time.Now().Add(time.Minute), nil)

	resp, err := svc.GetMyDraft(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, resp.AvatarURL)
	assert.Equal(t, "https://signed/avatar", *resp.AvatarURL)
}
