package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/redis"
)

const oauthStateKeyPrefix = "freee:oauth_state:"

// NewOAuthStateRepository keeps states in redis when it is configured, in
// process memory otherwise
func NewOAuthStateRepository(redisClient *redis.RedisClient, logger *zap.Logger) repository.OAuthStateRepository {
	if redisClient == nil {
		return NewMemoryStateRepository()
	}
	return &redisStateRepository{
		redis:  redisClient,
		logger: logger,
	}
}

type redisStateRepository struct {
	redis  *redis.RedisClient
	logger *zap.Logger
}

func (r *redisStateRepository) Put(ctx context.Context, state string, ttl time.Duration) error {
	if err := r.redis.Set(ctx, oauthStateKeyPrefix+state, "1", ttl); err != nil {
		return fmt.Errorf("failed to store oauth state: %w", err)
	}
	return nil
}

func (r *redisStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	_, err := r.redis.GetDel(ctx, oauthStateKeyPrefix+state)
	if err != nil {
		if redis.IsNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read oauth state: %w", err)
	}
	return true, nil
}

type memoryStateRepository struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStateRepository() repository.OAuthStateRepository {
	return &memoryStateRepository{
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

func (m *memoryStateRepository) Put(ctx context.Context, state string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for s, expiresAt := range m.states {
		if !now.Before(expiresAt) {
			delete(m.states, s)
		}
	}
	m.states[state] = now.Add(ttl)
	return nil
}

func (m *memoryStateRepository) Consume(ctx context.Context, state string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt, ok := m.states[state]
	if !ok {
		return false, nil
	}
	delete(m.states, state)
	return m.now().Before(expiresAt), nil
}
