package repository

import (
	"context"

	"freee-deals/internal/domain/entity"
)

type FreeeRepository interface {
	ListCompanies(ctx context.Context) ([]entity.Company, error)
	ListAccountItems(ctx context.Context, companyID int64) ([]entity.AccountItem, error)
	ListTaxCodes(ctx context.Context, companyID int64, filter entity.TaxCodeFilter) ([]entity.TaxCode, error)
	ListWalletables(ctx context.Context, companyID int64, filter entity.WalletableFilter) ([]entity.Walletable, error)
	// GetWalletable finds one walletable of the company, nil when it does not exist
	GetWalletable(ctx context.Context, companyID, walletableID int64) (*entity.Walletable, error)
	ListItems(ctx context.Context, companyID int64) ([]entity.Item, error)
	// CreateDeal posts a deal; freee answers 201 (some tenants 200)
	CreateDeal(ctx context.Context, req *entity.DealRequest) (*entity.Deal, error)
}
