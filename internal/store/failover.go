package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// FailoverStore routes reads and writes to the primary backend until it
// fails, then serves from the fallback and probes the primary again after a
// minute. Divergence between the two during an outage is accepted: the whole
// write policy is last-writer-wins anyway.
type FailoverStore struct {
	primary   Store
	fallback  Store
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !s.isDown.Load() {
		value, found, err := s.primary.Get(ctx, key)
		if err == nil {
			return value, found, nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Primary store failed, falling back")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if s.isDown.Load() && time.Since(s.lastCheck) > time.Minute {
		value, found, err := s.primary.Get(ctx, key)
		if err == nil {
			s.isDown.Store(false)
			return value, found, nil
		}
		s.lastCheck = time.Now()
	}

	return s.fallback.Get(ctx, key)
}

func (s *FailoverStore) Set(ctx context.Context, key string, value []byte) error {
	if !s.isDown.Load() {
		err := s.primary.Set(ctx, key, value)
		if err == nil {
			// Mirror into the fallback so a later failover serves fresh data.
			_ = s.fallback.Set(ctx, key, value)
			return nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Primary store failed, falling back")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	return s.fallback.Set(ctx, key, value)
}

func (s *FailoverStore) Delete(ctx context.Context, key string) error {
	if !s.isDown.Load() {
		err := s.primary.Delete(ctx, key)
		if err == nil {
			_ = s.fallback.Delete(ctx, key)
			return nil
		}
		s.logger.Error().Err(err).Str("key", key).Msg("Primary store failed, falling back")
		s.isDown.Store(true)
		s.lastCheck = time.Now()
	}

	return s.fallback.Delete(ctx, key)
}

func (s *FailoverStore) Close() error {
	err := s.primary.Close()
	if ferr := s.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}
