package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/oauth2"
)

type OAuthUsecase interface {
	// StartAuthorization issues a new state and returns the consent URL
	StartAuthorization(ctx context.Context) (*entity.AuthorizationStart, error)

	// CompleteAuthorization exchanges the pasted code once state is verified
	CompleteAuthorization(ctx context.Context, code, state string) (*entity.TokenStatus, error)

	// Status returns the masked token status
	Status(ctx context.Context) (*entity.TokenStatus, error)

	// Refresh forces a token refresh
	Refresh(ctx context.Context) (*entity.TokenStatus, error)
}

type oauthUsecase struct {
	tokens oauth2.TokenService
	states repository.OAuthStateRepository
	config *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func NewOAuthUsecase(tokens oauth2.TokenService, states repository.OAuthStateRepository, cfg *config.Config, logger *zap.Logger) OAuthUsecase {
	return &oauthUsecase{
		tokens: tokens,
		states: states,
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (u *oauthUsecase) StartAuthorization(ctx context.Context) (*entity.AuthorizationStart, error) {
	state, err := u.tokens.GenerateState()
	if err != nil {
		return nil, err
	}

	if err := u.states.Put(ctx, state, u.config.OAuth.StateTTL()); err != nil {
		u.logger.Error("Failed to store OAuth state", zap.Error(err))
		return nil, err
	}

	u.logger.Info("Authorization started",
		zap.Duration("state_ttl", u.config.OAuth.StateTTL()),
	)

	return &entity.AuthorizationStart{
		State:            state,
		AuthorizationURL: u.tokens.BuildAuthorizationURL(state),
	}, nil
}

func (u *oauthUsecase) CompleteAuthorization(ctx context.Context, code, state string) (*entity.TokenStatus, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.Invalid("code", "is required")
	}
	if state == "" {
		return nil, &apperror.ValidationError{Field: "state", Err: apperror.ErrInvalidState}
	}

	ok, err := u.states.Consume(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to verify state: %w", err)
	}
	if !ok {
		u.logger.Warn("Rejected authorization with unknown or expired state")
		return nil, &apperror.ValidationError{Field: "state", Err: apperror.ErrInvalidState}
	}

	record, err := u.tokens.ExchangeCode(ctx, code)
	if err != nil {
		u.logger.Error("Failed to exchange authorization code", zap.Error(err))
		return nil, err
	}

	u.logger.Info("Authorization completed",
		zap.String("company_id", record.CompanyID.String()),
	)

	return record.Status(u.now(), u.config.OAuth.RefreshMargin()), nil
}

func (u *oauthUsecase) Status(ctx context.Context) (*entity.TokenStatus, error) {
	record, err := u.tokens.TokenInfo(ctx)
	if err != nil {
		return nil, err
	}
	return record.Status(u.now(), u.config.OAuth.RefreshMargin()), nil
}

func (u *oauthUsecase) Refresh(ctx context.Context) (*entity.TokenStatus, error) {
	if _, err := u.tokens.ForceRefresh(ctx); err != nil {
		return nil, err
	}
	return u.Status(ctx)
}
