// File: internal/projectmode/service.go
package projectmode

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"scholar_directory_backend/internal/common"
	"scholar_directory_backend/internal/config"

	"go.uber.org/zap"
)

// Service defines the interface for the profile editing feature flag.
type Service interface {
	// IsProfileEditEnabled reports whether profile submission and editing is
	// currently allowed. Falls back to the configured default when the flag
	// has never been set.
	IsProfileEditEnabled(ctx context.Context) (bool, error)
	GetProjectMode(ctx context.Context) (*ProjectModeResponse, error)
	SetProfileEditEnabled(ctx context.Context, enabled bool) (*ProjectModeResponse, error)
}

type serviceImpl struct {
	repo         Repository
	defaultValue bool
	cacheTTL     time.Duration
	logger       *zap.Logger

	mu        sync.RWMutex
	cached    bool
	cachedAt  time.Time
	hasCached bool
}

var _ Service = (*serviceImpl)(nil)

// NewService creates a new project mode service. Flag reads sit on every
// profile submission, so reads are served from a short-lived in-memory cache.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:         repo,
		defaultValue: cfg.ProfileEditDefault,
		cacheTTL:     cfg.ProjectModeCacheTTL,
		logger:       logger.Named("projectmode"),
	}
}

func (s *serviceImpl) IsProfileEditEnabled(ctx context.Context) (bool, error) {
	s.mu.RLock()
	if s.hasCached && time.Since(s.cachedAt) < s.cacheTTL {
		val := s.cached
		s.mu.RUnlock()
		return val, nil
	}
	s.mu.RUnlock()

	enabled, err := s.loadFlag(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.cached = enabled
	s.cachedAt = time.Now()
	s.hasCached = true
	s.mu.Unlock()

	return enabled, nil
}

func (s *serviceImpl) GetProjectMode(ctx context.Context) (*ProjectModeResponse, error) {
	setting, err := s.repo.Get(ctx, SettingKeyProfileEdit)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &ProjectModeResponse{
				ProfileEditEnabled: s.defaultValue,
				UpdatedAt:          time.Time{},
			}, nil
		}
		return nil, err
	}
	enabled, parseErr := strconv.ParseBool(setting.Value)
	if parseErr != nil {
		s.logger.Warn("Unparseable profile edit flag value, using default",
			zap.String("value", setting.Value))
		enabled = s.defaultValue
	}
	return &ProjectModeResponse{
		ProfileEditEnabled: enabled,
		UpdatedAt:          setting.UpdatedAt,
	}, nil
}

func (s *serviceImpl) SetProfileEditEnabled(ctx context.Context, enabled bool) (*ProjectModeResponse, error) {
	setting := &AppSetting{
		Key:   SettingKeyProfileEdit,
		Value: strconv.FormatBool(enabled),
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		s.logger.Error("Failed to update profile edit flag", zap.Error(err))
		return nil, err
	}

	// Invalidate the cache so the new value is visible immediately on this
	// instance. Other instances converge within the cache TTL.
	s.mu.Lock()
	s.cached = enabled
	s.cachedAt = time.Now()
	s.hasCached = true
	s.mu.Unlock()

	s.logger.Info("Profile edit flag updated", zap.Bool("enabled", enabled))
	return &ProjectModeResponse{
		ProfileEditEnabled: enabled,
		UpdatedAt:          time.Now(),
	}, nil
}

func (s *serviceImpl) loadFlag(ctx context.Context) (bool, error) {
	setting, err := s.repo.Get(ctx, SettingKeyProfileEdit)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.defaultValue, nil
		}
		return false, err
	}
	enabled, parseErr := strconv.ParseBool(setting.Value)
	if parseErr != nil {
		s.logger.Warn("Unparseable profile edit flag value, using default",
			zap.String("value", setting.Value))
		return s.defaultValue, nil
	}
	return enabled, nil
}
