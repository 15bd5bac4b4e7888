package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"scholar_directory_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupNotificationTest(t *testing.T) (Service, Repository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Notification{}))

	repo := NewGORMRepository(db)
	return NewService(repo, zap.NewNop()), repo
}

func TestCreateNotification_PersistsRecord(t *testing.T) {
	svc, repo := setupNotificationTest(t)
	ctx := context.Background()
	userID := uuid.New()
	draftID := uuid.New()

	notif, err := svc.CreateNotification(ctx, userID, DraftApproved, "Your profile is now live.", &draftID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, notif.ID)
	assert.False(t, notif.IsRead)

	found, err := repo.FindByID(ctx, notif.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, DraftApproved, found.Type)
	assert.Equal(t, "Your profile is now live.", found.Message)
	require.NotNil(t, found.RelatedDraftID)
	assert.Equal(t, draftID, *found.RelatedDraftID)
}

func TestGetNotificationsForUser_NewestFirstAndPaginated(t *testing.T) {
	svc, repo := setupNotificationTest(t)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &Notification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      DraftSubmitted,
			Message:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// Another user's notification must not leak in.
	require.NoError(t, repo.Create(ctx, &Notification{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Type:    DraftRejected,
		Message: "someone else",
	}))

	notifs, pagination, err := svc.GetNotificationsForUser(ctx, userID, 1, 3)
	require.NoError(t, err)
	require.Len(t, notifs, 3)
	assert.Equal(t, int64(5), pagination.TotalItems)
	assert.Equal(t, "message 4", notifs[0].Message)
	assert.Equal(t, "message 2", notifs[2].Message)

	notifs, _, err = svc.GetNotificationsForUser(ctx, userID, 2, 3)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, "message 0", notifs[1].Message)
}

func TestMarkNotificationAsRead_OwnershipEnforced(t *testing.T) {
	svc, repo := setupNotificationTest(t)
	ctx := context.Background()
	ownerID := uuid.New()

	notif, err := svc.CreateNotification(ctx, ownerID, DraftRejected, "Your profile draft was not approved: blurry picture", nil)
	require.NoError(t, err)

	err = svc.MarkNotificationAsRead(ctx, notif.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	require.NoError(t, svc.MarkNotificationAsRead(ctx, notif.ID, ownerID))

	found, err := repo.FindByID(ctx, notif.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, found.IsRead)
}

func TestMarkAllUserNotificationsAsRead_CountsOnlyUnread(t *testing.T) {
	svc, _ := setupNotificationTest(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateNotification(ctx, userID, DraftSubmitted, "pending review", nil)
		require.NoError(t, err)
	}

	updated, err := svc.MarkAllUserNotificationsAsRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	updated, err = svc.MarkAllUserNotificationsAsRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
}

func TestDeleteNotificationsForUser_RemovesAllForUserOnly(t *testing.T) {
	svc, _ := setupNotificationTest(t)
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.CreateNotification(ctx, userID, ProfileDeleted, "gone", nil)
		require.NoError(t, err)
	}
	_, err := svc.CreateNotification(ctx, otherID, DraftSubmitted, "still here", nil)
	require.NoError(t, err)

	deleted, err := svc.DeleteNotificationsForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, _, err := svc.GetNotificationsForUser(ctx, otherID, 1, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
