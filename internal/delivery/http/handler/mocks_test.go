package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"freee-deals/internal/domain/entity"
	"freee-deals/internal/usecase"
)

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

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Companies(ctx context.Context) ([]entity.Company, error) {
	args := m.Called(ctx)
	companies, _ := args.Get(0).([]entity.Company)
	return companies, args.Error(1)
}

func (m *mockCatalog) AccountItems(ctx context.Context, companyID int64, query usecase.AccountItemQuery) ([]entity.AccountItem, error) {
	args := m.Called(ctx, companyID, query)
	items, _ := args.Get(0).([]entity.AccountItem)
	return items, args.Error(1)
}

func (m *mockCatalog) AccountItemsByCategory(ctx context.Context, companyID int64, query usecase.AccountItemQuery) (map[string][]entity.AccountItem, error) {
	args := m.Called(ctx, companyID, query)
	grouped, _ := args.Get(0).(map[string][]entity.AccountItem)
	return grouped, args.Error(1)
}

func (m *mockCatalog) AccountItem(ctx context.Context, companyID, accountItemID int64) (*entity.AccountItem, error) {
	args := m.Called(ctx, companyID, accountItemID)
	item, _ := args.Get(0).(*entity.AccountItem)
	return item, args.Error(1)
}

func (m *mockCatalog) TaxCodes(ctx context.Context, companyID int64) ([]entity.TaxCodeOption, error) {
	args := m.Called(ctx, companyID)
	codes, _ := args.Get(0).([]entity.TaxCodeOption)
	return codes, args.Error(1)
}

func (m *mockCatalog) TaxCode(ctx context.Context, companyID int64, code int) (*entity.TaxCodeOption, error) {
	args := m.Called(ctx, companyID, code)
	option, _ := args.Get(0).(*entity.TaxCodeOption)
	return option, args.Error(1)
}

func (m *mockCatalog) Walletables(ctx context.Context, companyID int64) (*entity.GroupedWalletables, error) {
	args := m.Called(ctx, companyID)
	grouped, _ := args.Get(0).(*entity.GroupedWalletables)
	return grouped, args.Error(1)
}

func (m *mockCatalog) Items(ctx context.Context, companyID int64) ([]entity.Item, error) {
	args := m.Called(ctx, companyID)
	items, _ := args.Get(0).([]entity.Item)
	return items, args.Error(1)
}

func (m *mockCatalog) PrivateAccountItem(ctx context.Context, companyID int64, dealType string) (*entity.AccountItem, error) {
	args := m.Called(ctx, companyID, dealType)
	item, _ := args.Get(0).(*entity.AccountItem)
	return item, args.Error(1)
}

type mockDealUsecase struct {
	mock.Mock
}

func (m *mockDealUsecase) CreateDeal(ctx context.Context, form *entity.DealForm) (*entity.Deal, error) {
	args := m.Called(ctx, form)
	deal, _ := args.Get(0).(*entity.Deal)
	return deal, args.Error(1)
}

type mockLogRepository struct {
	mock.Mock
}

func (m *mockLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *mockLogRepository) Recent(ctx context.Context, limit int) ([]entity.APILog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]entity.APILog)
	return logs, args.Error(1)
}

// envelope mirrors entity.APIResponse with a raw data field
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var env envelope
	if len(raw) > 0 && resp.StatusCode != fiber.StatusFound {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, envelope) {
	t.Helper()
	return send(t, app, newRequest(t, method, target, body))
}
