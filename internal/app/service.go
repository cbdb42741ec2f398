package app

import (
	"fmt"
	"time"

	"github.com/campuspulse/campuspulse/internal/cache"
	"github.com/campuspulse/campuspulse/internal/feedback"
	"github.com/campuspulse/campuspulse/internal/store"
)

// Service owns the process-wide dependencies: the storage handle is
// constructed once here and injected into every component, never reached
// for as ambient global state.
type Service struct {
	Config      *Config
	Store       store.FeedbackStore
	Cache       *cache.EntityCache
	Submissions *feedback.SubmissionService
	Analytics   *feedback.AnalyticsService
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	ttl := time.Duration(config.Cache.TTLSeconds) * time.Second
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	entityCache, err := cache.New(config.Cache.RedisURL, ttl)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	return &Service{
		Config:      config,
		Store:       st,
		Cache:       entityCache,
		Submissions: feedback.NewSubmissionService(st, entityCache),
		Analytics:   feedback.NewAnalyticsService(st),
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
