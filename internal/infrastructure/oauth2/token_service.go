package oauth2

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	xoauth2 "golang.org/x/oauth2"

	"freee-deals/internal/config"
	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
)

const stateBytes = 16

// TokenService handles the OAuth2 token lifecycle of the single freee grant
type TokenService interface {
	// GetValidAccessToken returns the stored access token, refreshing it once
	// when it is within the refresh margin of expiry
	GetValidAccessToken(ctx context.Context) (string, error)

	// ExchangeCode exchanges an authorization code and persists the result
	ExchangeCode(ctx context.Context, code string) (*entity.TokenRecord, error)

	// Refresh asks for a new token with refreshToken. It does not persist.
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenRecord, error)

	// ForceRefresh refreshes regardless of expiry, persists and returns the
	// new access token
	ForceRefresh(ctx context.Context) (string, error)

	// Persist stores record, carrying company_id and external_cid over from
	// the previous record and computing expires_at. record is updated in place.
	Persist(ctx context.Context, record *entity.TokenRecord) error

	// BuildAuthorizationURL returns the consent URL. An empty state is
	// replaced with a freshly generated one.
	BuildAuthorizationURL(state string) string

	// GenerateState returns 16 random bytes as hex
	GenerateState() (string, error)

	// TokenInfo returns the persisted record, nil when there is none
	TokenInfo(ctx context.Context) (*entity.TokenRecord, error)
}

type tokenService struct {
	config *config.Config
	repo   repository.TokenRepository
	logger *zap.Logger
	client *http.Client
	oauth  *xoauth2.Config
	now    func() time.Time
}

func NewTokenService(cfg *config.Config, repo repository.TokenRepository, logger *zap.Logger) TokenService {
	creds := cfg.Freee.OAuth2
	return &tokenService{
		config: cfg,
		repo:   repo,
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Freee.Timeout,
		},
		oauth: &xoauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Endpoint: xoauth2.Endpoint{
				AuthURL:   creds.AuthURL,
				TokenURL:  creds.TokenURL,
				AuthStyle: xoauth2.AuthStyleInParams,
			},
		},
		now: time.Now,
	}
}

func (s *tokenService) GetValidAccessToken(ctx context.Context) (string, error) {
	record, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if record == nil {
		return "", apperror.NewAuthError(nil)
	}

	if record.ValidAt(s.now(), s.config.OAuth.RefreshMargin()) {
		return record.AccessToken, nil
	}

	s.logger.Info("Access token expired or about to expire, refreshing",
		zap.Time("expires_at", record.ExpiresTime()),
	)

	return s.refreshAndPersist(ctx, record)
}

func (s *tokenService) ForceRefresh(ctx context.Context) (string, error) {
	record, err := s.repo.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if record == nil {
		return "", apperror.NewAuthError(nil)
	}

	s.logger.Info("Forcing access token refresh")
	return s.refreshAndPersist(ctx, record)
}

func (s *tokenService) refreshAndPersist(ctx context.Context, current *entity.TokenRecord) (string, error) {
	if current.RefreshToken == "" {
		s.logger.Warn("No refresh token stored, re-authorization required")
		return "", apperror.NewAuthError(nil)
	}

	refreshed, err := s.Refresh(ctx, current.RefreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed, re-authorization required", zap.Error(err))
		return "", apperror.NewAuthError(err)
	}

	if err := s.Persist(ctx, refreshed); err != nil {
		return "", fmt.Errorf("failed to store refreshed token: %w", err)
	}

	return refreshed.AccessToken, nil
}

func (s *tokenService) ExchangeCode(ctx context.Context, code string) (*entity.TokenRecord, error) {
	s.logger.Info("Exchanging authorization code for tokens")

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {s.oauth.ClientID},
		"client_secret": {s.oauth.ClientSecret},
		"redirect_uri":  {s.oauth.RedirectURL},
		"code":          {code},
	}

	record, err := s.requestToken(ctx, "exchange code", form)
	if err != nil {
		return nil, err
	}

	if err := s.Persist(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	s.logger.Info("Successfully exchanged code for tokens",
		zap.Int64("expires_in", record.ExpiresIn),
		zap.String("company_id", record.CompanyID.String()),
	)

	return record, nil
}

func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenRecord, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {s.oauth.ClientID},
		"client_secret": {s.oauth.ClientSecret},
		"refresh_token": {refreshToken},
	}

	record, err := s.requestToken(ctx, "refresh token", form)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Successfully refreshed tokens",
		zap.Int64("expires_in", record.ExpiresIn),
	)

	return record, nil
}

func (s *tokenService) Persist(ctx context.Context, record *entity.TokenRecord) error {
	previous, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("Could not read previous token record", zap.Error(err))
	}
	if previous != nil {
		if record.CompanyID == "" {
			record.CompanyID = previous.CompanyID
		}
		if record.ExternalCID == "" {
			record.ExternalCID = previous.ExternalCID
		}
	}

	record.ExpiresAt = s.now().Unix() + record.ExpiresIn

	if err := s.repo.Save(ctx, record); err != nil {
		return err
	}

	s.logger.Debug("Token record stored",
		zap.String("path", s.repo.Path()),
		zap.Time("expires_at", record.ExpiresTime()),
	)

	return nil
}

func (s *tokenService) BuildAuthorizationURL(state string) string {
	if state == "" {
		state, _ = s.GenerateState()
	}

	var opts []xoauth2.AuthCodeOption
	if prompt := s.config.Freee.OAuth2.Prompt; prompt != "" {
		opts = append(opts, xoauth2.SetAuthURLParam("prompt", prompt))
	}

	return s.oauth.AuthCodeURL(state, opts...)
}

func (s *tokenService) GenerateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *tokenService) TokenInfo(ctx context.Context) (*entity.TokenRecord, error) {
	return s.repo.Load(ctx)
}

func (s *tokenService) requestToken(ctx context.Context, op string, form url.Values) (*entity.TokenRecord, error) {
	tokenURL := s.oauth.Endpoint.TokenURL

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	// Log request
	s.logger.Info(">>> [OAUTH2-TOKEN-REQ]",
		zap.String("url", tokenURL),
		zap.String("grant_type", form.Get("grant_type")),
		zap.String("client_id", form.Get("client_id")),
		zap.String("code", entity.MaskSecret(form.Get("code"))),
		zap.String("refresh_token", entity.MaskSecret(form.Get("refresh_token"))),
	)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &apperror.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperror.TransportError{Op: op, Err: err}
	}

	// Log response, token values never reach the log
	s.logger.Info(">>> [OAUTH2-TOKEN-RESPONSE]",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Token request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return nil, &apperror.HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var record entity.TokenRecord
	if err := json.Unmarshal(respBody, &record); err != nil {
		return nil, &apperror.DecodeError{Body: string(respBody), Err: err}
	}
	if record.AccessToken == "" {
		return nil, &apperror.DecodeError{Body: string(respBody), Err: fmt.Errorf("access_token missing")}
	}
	// expires_at is always computed locally on persist
	record.ExpiresAt = 0

	return &record, nil
}
