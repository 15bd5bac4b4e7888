// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scholar_directory_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for draft and snapshot data operations.
type Repository interface {
	// ReplacePendingDraft atomically deletes the user's existing pending draft
	// (if any) and inserts the new one in a single transaction.
	ReplacePendingDraft(ctx context.Context, draft *Draft) error
	FindDraftByID(ctx context.Context, id uuid.UUID) (*Draft, error)
	FindPendingDraftByUserID(ctx context.Context, userID uuid.UUID) (*Draft, error)
	ListPendingDrafts(ctx context.Context, query common.PaginationQuery) ([]Draft, *common.Pagination, error)
	DeleteDraft(ctx context.Context, id uuid.UUID) error

	UpsertSnapshot(ctx context.Context, snapshot *Snapshot) error
	FindSnapshotByUserID(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	FindSnapshotBySlug(ctx context.Context, slug string) (*Snapshot, error)
	FindSnapshotsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Snapshot, error)
	ListSnapshots(ctx context.Context, query DirectoryQuery) ([]Snapshot, *common.Pagination, error)
	ListAllSnapshots(ctx context.Context) ([]Snapshot, error)
	ListAllDrafts(ctx context.Context) ([]Draft, error)
	SnapshotExists(ctx context.Context, userID uuid.UUID) (bool, error)

	// ApproveDraft publishes a draft: upserts the snapshot and removes the
	// draft in one transaction.
	ApproveDraft(ctx context.Context, draft *Draft, snapshot *Snapshot) error
	// PurgeUserData removes all drafts and the snapshot for a user in one
	// transaction. Returns the number of drafts removed and whether a
	// snapshot was removed.
	PurgeUserData(ctx context.Context, userID uuid.UUID) (int64, bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ReplacePendingDraft(ctx context.Context, draft *Draft) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND status = ?", draft.UserID, StatusPending).
			Delete(&Draft{}).Error; err != nil {
			return fmt.Errorf("failed to delete existing pending draft: %w", err)
		}
		if err := tx.Create(draft).Error; err != nil {
			if common.IsUniqueViolation(err) {
				return common.ErrConflict.WithDetails("A pending draft already exists for this user.")
			}
			return fmt.Errorf("failed to create draft: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) FindDraftByID(ctx context.Context, id uuid.UUID) (*Draft, error) {
	var draft Draft
	err := r.db.WithContext(ctx).First(&draft, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Draft not found.")
		}
		return nil, err
	}
	return &draft, nil
}

func (r *gormRepository) FindPendingDraftByUserID(ctx context.Context, userID uuid.UUID) (*Draft, error) {
	var draft Draft
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, StatusPending).
		Order("submitted_at DESC").
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No pending draft found for this user.")
		}
		return nil, err
	}
	return &draft, nil
}

func (r *gormRepository) ListPendingDrafts(ctx context.Context, query common.PaginationQuery) ([]Draft, *common.Pagination, error) {
	var drafts []Draft
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Draft{}).Where("status = ?", StatusPending)

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count pending drafts: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	err := dbQuery.
		Order("submitted_at ASC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&drafts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pending drafts: %w", err)
	}

	return drafts, pagination, nil
}

func (r *gormRepository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Draft{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Draft not found.")
	}
	return nil
}

func (r *gormRepository) UpsertSnapshot(ctx context.Context, snapshot *Snapshot) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"slug", "data", "approved_at", "approved_by", "updated_at"}),
		}).
		Create(snapshot).Error
}

func (r *gormRepository) FindSnapshotByUserID(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	var snapshot Snapshot
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found for this user.")
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *gormRepository) FindSnapshotBySlug(ctx context.Context, slug string) (*Snapshot, error) {
	var snapshot Snapshot
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &snapshot, nil
}

func (r *gormRepository) FindSnapshotsByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]Snapshot, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var snapshots []Snapshot
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles by user IDs: %w", err)
	}
	return snapshots, nil
}

// ListAllSnapshots streams every published profile. Used by the index sync command.
func (r *gormRepository) ListAllSnapshots(ctx context.Context) ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := r.db.WithContext(ctx).Order("approved_at ASC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to list all profiles: %w", err)
	}
	return snapshots, nil
}

// ListAllDrafts returns every stored draft. Used by the orphan upload sweep
// to collect referenced picture paths.
func (r *gormRepository) ListAllDrafts(ctx context.Context) ([]Draft, error) {
	var drafts []Draft
	if err := r.db.WithContext(ctx).Find(&drafts).Error; err != nil {
		return nil, fmt.Errorf("failed to list all drafts: %w", err)
	}
	return drafts, nil
}

func (r *gormRepository) ListSnapshots(ctx context.Context, query DirectoryQuery) ([]Snapshot, *common.Pagination, error) {
	var snapshots []Snapshot
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Snapshot{})

	if query.SearchTerm != "" {
		// JSONB substring fallback across the searchable fields. The
		// Elasticsearch path in the service layer is preferred; this keeps
		// search working when the index is unavailable.
		searchTerm := "%" + strings.ToLower(query.SearchTerm) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(data->'profile'->>'name') LIKE ? OR LOWER(data->'profile'->>'bio') LIKE ? OR LOWER(data->>'skills') LIKE ? OR LOWER(data->>'interests') LIKE ? OR LOWER(data->>'links') LIKE ? OR LOWER(data->>'fun_facts') LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count profiles: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.PageSize)
	err := dbQuery.
		Order("data->'profile'->>'name' ASC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&snapshots).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	return snapshots, pagination, nil
}

func (r *gormRepository) SnapshotExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Snapshot{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) ApproveDraft(ctx context.Context, draft *Draft, snapshot *Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"slug", "data", "approved_at", "approved_by", "updated_at"}),
			}).
			Create(snapshot).Error; err != nil {
			return fmt.Errorf("failed to publish profile snapshot: %w", err)
		}
		result := tx.Where("id = ?", draft.ID).Delete(&Draft{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove approved draft: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Another moderator got there first.
			return common.ErrNotFound.WithDetails("Draft not found.")
		}
		return nil
	})
}

func (r *gormRepository) PurgeUserData(ctx context.Context, userID uuid.UUID) (int64, bool, error) {
	var draftsDeleted int64
	var snapshotDeleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&Draft{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete drafts: %w", result.Error)
		}
		draftsDeleted = result.RowsAffected

		result = tx.Where("user_id = ?", userID).Delete(&Snapshot{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete profile snapshot: %w", result.Error)
		}
		snapshotDeleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return draftsDeleted, snapshotDeleted, nil
}
