package repository

import (
	"context"
	"time"

	"freee-deals/internal/domain/entity"
)

// TokenRepository persists the single OAuth token record of this process
type TokenRepository interface {
	// Load returns the stored record, nil with no error when none exists yet
	Load(ctx context.Context) (*entity.TokenRecord, error)

	// Save replaces the stored record
	Save(ctx context.Context, record *entity.TokenRecord) error

	// Path is where the record lives, for diagnostics
	Path() string
}

// OAuthStateRepository keeps issued authorization states until they are
// consumed or expire
type OAuthStateRepository interface {
	// Put stores state for ttl
	Put(ctx context.Context, state string, ttl time.Duration) error

	// Consume removes state and reports whether it was present and unexpired
	Consume(ctx context.Context, state string) (bool, error)
}
