package usecase

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/infrastructure/oauth2"
)

// CurrentCompany is accepted wherever a company id is expected and means
// "the company the token was issued for"
const CurrentCompany = "current"

// CompanyIDProvider yields a company id, ok=false when it has none
type CompanyIDProvider func(ctx context.Context, explicit string) (id int64, ok bool, err error)

// CompanyResolver picks the company id from ordered providers; the first
// one that has a value wins
type CompanyResolver interface {
	Resolve(ctx context.Context, explicit string) (int64, error)
}

type companyResolver struct {
	providers []CompanyIDProvider
	logger    *zap.Logger
}

func NewCompanyResolver(tokens oauth2.TokenService, logger *zap.Logger) CompanyResolver {
	return NewCompanyResolverWith(logger, ExplicitCompanyID, TokenCompanyID(tokens))
}

func NewCompanyResolverWith(logger *zap.Logger, providers ...CompanyIDProvider) CompanyResolver {
	return &companyResolver{
		providers: providers,
		logger:    logger,
	}
}

func (r *companyResolver) Resolve(ctx context.Context, explicit string) (int64, error) {
	for _, provider := range r.providers {
		id, ok, err := provider(ctx, explicit)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
	}
	return 0, apperror.Invalid("company_id", "is required")
}

// ExplicitCompanyID uses the caller supplied id
func ExplicitCompanyID(ctx context.Context, explicit string) (int64, bool, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit == "" || explicit == CurrentCompany {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(explicit, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, apperror.Invalid("company_id", "must be a positive integer")
	}
	return id, true, nil
}

// TokenCompanyID falls back to the company stored with the OAuth token
func TokenCompanyID(tokens oauth2.TokenService) CompanyIDProvider {
	return func(ctx context.Context, _ string) (int64, bool, error) {
		record, err := tokens.TokenInfo(ctx)
		if err != nil || record == nil {
			return 0, false, err
		}
		id := record.CompanyID.Int64()
		return id, id > 0, nil
	}
}
