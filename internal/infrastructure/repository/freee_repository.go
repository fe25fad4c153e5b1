package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
	"freee-deals/internal/infrastructure/httpclient"
)

const (
	companiesPath    = "/api/1/companies"
	accountItemsPath = "/api/1/account_items"
	taxCodesPath     = "/api/1/taxes/companies/%d"
	walletablesPath  = "/api/1/walletables"
	itemsPath        = "/api/1/items"
	dealsPath        = "/api/1/deals"
)

type freeeRepository struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewFreeeRepository(client httpclient.HTTPClient, logger *zap.Logger) repository.FreeeRepository {
	return &freeeRepository{
		client: client,
		logger: logger,
	}
}

func companyQuery(companyID int64) url.Values {
	return url.Values{"company_id": {strconv.FormatInt(companyID, 10)}}
}

func (r *freeeRepository) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	var response entity.CompanyListResponse
	if err := r.client.Get(ctx, companiesPath, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	return response.Companies, nil
}

func (r *freeeRepository) ListAccountItems(ctx context.Context, companyID int64) ([]entity.AccountItem, error) {
	var response entity.AccountItemListResponse
	if err := r.client.Get(ctx, accountItemsPath, companyQuery(companyID), &response); err != nil {
		return nil, fmt.Errorf("failed to get account items: %w", err)
	}
	return response.AccountItems, nil
}

func (r *freeeRepository) ListTaxCodes(ctx context.Context, companyID int64, filter entity.TaxCodeFilter) ([]entity.TaxCode, error) {
	query := url.Values{}
	if filter.DisplayCategory != "" {
		query.Set("display_category", filter.DisplayCategory)
	}
	if filter.Available != nil {
		query.Set("available", strconv.FormatBool(*filter.Available))
	}

	var response entity.TaxCodeListResponse
	if err := r.client.Get(ctx, fmt.Sprintf(taxCodesPath, companyID), query, &response); err != nil {
		return nil, fmt.Errorf("failed to get tax codes: %w", err)
	}
	return response.Taxes, nil
}

func (r *freeeRepository) ListWalletables(ctx context.Context, companyID int64, filter entity.WalletableFilter) ([]entity.Walletable, error) {
	query := companyQuery(companyID)
	if filter.WithBalance {
		query.Set("with_balance", "true")
	}
	if filter.WithLastSyncedAt {
		query.Set("with_last_synced_at", "true")
	}
	if filter.WithSyncStatus {
		query.Set("with_sync_status", "true")
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}

	var response entity.WalletableListResponse
	if err := r.client.Get(ctx, walletablesPath, query, &response); err != nil {
		return nil, fmt.Errorf("failed to get walletables: %w", err)
	}
	return response.Walletables, nil
}

// GetWalletable scans the company's walletables, since freee only serves a
// single walletable when its type is already known
func (r *freeeRepository) GetWalletable(ctx context.Context, companyID, walletableID int64) (*entity.Walletable, error) {
	walletables, err := r.ListWalletables(ctx, companyID, entity.WalletableFilter{})
	if err != nil {
		return nil, err
	}
	for i := range walletables {
		if walletables[i].ID == walletableID {
			return &walletables[i], nil
		}
	}

	r.logger.Debug("Walletable not found",
		zap.Int64("company_id", companyID),
		zap.Int64("walletable_id", walletableID),
	)
	return nil, nil
}

func (r *freeeRepository) ListItems(ctx context.Context, companyID int64) ([]entity.Item, error) {
	var response entity.ItemListResponse
	if err := r.client.Get(ctx, itemsPath, companyQuery(companyID), &response); err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return response.Items, nil
}

func (r *freeeRepository) CreateDeal(ctx context.Context, req *entity.DealRequest) (*entity.Deal, error) {
	r.logger.Info("Creating deal",
		zap.Int64("company_id", req.CompanyID),
		zap.String("type", req.Type),
		zap.String("issue_date", req.IssueDate),
	)

	var response entity.DealResponse
	if err := r.client.Post(ctx, dealsPath, req, &response); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	r.logger.Info("Deal created",
		zap.Int64("deal_id", response.Deal.ID),
		zap.Int64("company_id", response.Deal.CompanyID),
	)

	return &response.Deal, nil
}
