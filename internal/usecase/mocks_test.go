package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"freee-deals/internal/domain/entity"
)

type mockFreeeRepository struct {
	mock.Mock
}

func (m *mockFreeeRepository) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]entity.Company)
	return companies, args.Error(1)
}

func (m *mockFreeeRepository) ListAccountItems(ctx context.Context, companyID int64) ([]entity.AccountItem, error) {
	args := m.Called(ctx, companyID)
	items, _ := args.Get(0).([]entity.AccountItem)
	return items, args.Error(1)
}

func (m *mockFreeeRepository) ListTaxCodes(ctx context.Context, companyID int64, filter entity.TaxCodeFilter) ([]entity.TaxCode, error) {
	args := m.Called(ctx, companyID, filter)
	codes, _ := args.Get(0).([]entity.TaxCode)
	return codes, args.Error(1)
}

func (m *mockFreeeRepository) ListWalletables(ctx context.Context, companyID int64, filter entity.WalletableFilter) ([]entity.Walletable, error) {
	args := m.Called(ctx, companyID, filter)
	walletables, _ := args.Get(0).([]entity.Walletable)
	return walletables, args.Error(1)
}

func (m *mockFreeeRepository) GetWalletable(ctx context.Context, companyID, walletableID int64) (*entity.Walletable, error) {
	args := m.Called(ctx, companyID, walletableID)
	walletable, _ := args.Get(0).(*entity.Walletable)
	return walletable, args.Error(1)
}

func (m *mockFreeeRepository) ListItems(ctx context.Context, companyID int64) ([]entity.Item, error) {
	args := m.Called(ctx, companyID)
	items, _ := args.Get(0).([]entity.Item)
	return items, args.Error(1)
}

func (m *mockFreeeRepository) CreateDeal(ctx context.Context, req *entity.DealRequest) (*entity.Deal, error) {
	args := m.Called(ctx, req)
	deal, _ := args.Get(0).(*entity.Deal)
	return deal, args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GetValidAccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) ExchangeCode(ctx context.Context, code string) (*entity.TokenRecord, error) {
	args := m.Called(ctx, code)
	record, _ := args.Get(0).(*entity.TokenRecord)
	return record, args.Error(1)
}

func (m *mockTokenService) Refresh(ctx context.Context, refreshToken string) (*entity.TokenRecord, error) {
	args := m.Called(ctx, refreshToken)
	record, _ := args.Get(0).(*entity.TokenRecord)
	return record, args.Error(1)
}

func (m *mockTokenService) ForceRefresh(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) Persist(ctx context.Context, record *entity.TokenRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockTokenService) BuildAuthorizationURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockTokenService) GenerateState() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockTokenService) TokenInfo(ctx context.Context) (*entity.TokenRecord, error) {
	args := m.Called(ctx)
	record, _ := args.Get(0).(*entity.TokenRecord)
	return record, args.Error(1)
}
