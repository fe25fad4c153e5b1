package usecase

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
)

// Account items used for payments made from or into the owner's own pocket
const (
	OwnerDrawingsAccount     = "事業主貸"
	OwnerContributionAccount = "事業主借"
)

// AccountItemQuery narrows an account item listing
type AccountItemQuery struct {
	AvailableOnly bool
	Search        string // case-insensitive match on name or shortcut
}

// CatalogUsecase reads freee master data and shapes it for selection lists
type CatalogUsecase interface {
	Companies(ctx context.Context) ([]entity.Company, error)
	AccountItems(ctx context.Context, companyID int64, query AccountItemQuery) ([]entity.AccountItem, error)
	AccountItemsByCategory(ctx context.Context, companyID int64, query AccountItemQuery) (map[string][]entity.AccountItem, error)
	AccountItem(ctx context.Context, companyID, accountItemID int64) (*entity.AccountItem, error)
	TaxCodes(ctx context.Context, companyID int64) ([]entity.TaxCodeOption, error)
	TaxCode(ctx context.Context, companyID int64, code int) (*entity.TaxCodeOption, error)
	Walletables(ctx context.Context, companyID int64) (*entity.GroupedWalletables, error)
	Items(ctx context.Context, companyID int64) ([]entity.Item, error)
	// PrivateAccountItem returns 事業主貸 for income and 事業主借 for expense
	PrivateAccountItem(ctx context.Context, companyID int64, dealType string) (*entity.AccountItem, error)
}

type catalogUsecase struct {
	repo   repository.FreeeRepository
	logger *zap.Logger
}

func NewCatalogUsecase(repo repository.FreeeRepository, logger *zap.Logger) CatalogUsecase {
	return &catalogUsecase{
		repo:   repo,
		logger: logger,
	}
}

func (u *catalogUsecase) Companies(ctx context.Context) ([]entity.Company, error) {
	companies, err := u.repo.ListCompanies(ctx)
	if err != nil {
		u.logger.Error("Failed to get companies", zap.Error(err))
		return nil, err
	}
	return companies, nil
}

func (u *catalogUsecase) AccountItems(ctx context.Context, companyID int64, query AccountItemQuery) ([]entity.AccountItem, error) {
	items, err := u.repo.ListAccountItems(ctx, companyID)
	if err != nil {
		u.logger.Error("Failed to get account items", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	filtered := make([]entity.AccountItem, 0, len(items))
	for _, item := range items {
		if query.AvailableOnly && !item.Available {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(item.Name), search) &&
			!strings.Contains(strings.ToLower(item.Shortcut), search) {
			continue
		}
		filtered = append(filtered, item)
	}

	return filtered, nil
}

func (u *catalogUsecase) AccountItemsByCategory(ctx context.Context, companyID int64, query AccountItemQuery) (map[string][]entity.AccountItem, error) {
	items, err := u.AccountItems(ctx, companyID, query)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.AccountItem)
	for _, item := range items {
		category := item.AccountCategory
		if category == "" {
			category = "その他"
		}
		grouped[category] = append(grouped[category], item)
	}
	return grouped, nil
}

func (u *catalogUsecase) AccountItem(ctx context.Context, companyID, accountItemID int64) (*entity.AccountItem, error) {
	items, err := u.repo.ListAccountItems(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == accountItemID {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (u *catalogUsecase) TaxCodes(ctx context.Context, companyID int64) ([]entity.TaxCodeOption, error) {
	available := true
	codes, err := u.repo.ListTaxCodes(ctx, companyID, entity.TaxCodeFilter{Available: &available})
	if err != nil {
		u.logger.Error("Failed to get tax codes", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, err
	}

	options := make([]entity.TaxCodeOption, 0, len(codes))
	for _, code := range codes {
		options = append(options, entity.TaxCodeOption{
			Code:        code.Code,
			Name:        code.Name,
			Description: code.Description(),
		})
	}
	return options, nil
}

func (u *catalogUsecase) TaxCode(ctx context.Context, companyID int64, code int) (*entity.TaxCodeOption, error) {
	options, err := u.TaxCodes(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range options {
		if options[i].Code == code {
			return &options[i], nil
		}
	}
	return nil, nil
}

func (u *catalogUsecase) Walletables(ctx context.Context, companyID int64) (*entity.GroupedWalletables, error) {
	walletables, err := u.repo.ListWalletables(ctx, companyID, entity.WalletableFilter{WithBalance: true})
	if err != nil {
		u.logger.Error("Failed to get walletables", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, err
	}

	grouped := &entity.GroupedWalletables{
		BankAccount: []entity.Walletable{},
		CreditCard:  []entity.Walletable{},
		Wallet:      []entity.Walletable{},
	}
	for _, w := range walletables {
		switch w.Type {
		case entity.WalletableBankAccount:
			grouped.BankAccount = append(grouped.BankAccount, w)
		case entity.WalletableCreditCard:
			grouped.CreditCard = append(grouped.CreditCard, w)
		case entity.WalletableWallet:
			grouped.Wallet = append(grouped.Wallet, w)
		}
	}
	return grouped, nil
}

func (u *catalogUsecase) Items(ctx context.Context, companyID int64) ([]entity.Item, error) {
	items, err := u.repo.ListItems(ctx, companyID)
	if err != nil {
		u.logger.Error("Failed to get items", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, err
	}

	available := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if item.Available {
			available = append(available, item)
		}
	}
	slices.SortStableFunc(available, func(a, b entity.Item) int {
		return strings.Compare(a.Name, b.Name)
	})
	return available, nil
}

func (u *catalogUsecase) PrivateAccountItem(ctx context.Context, companyID int64, dealType string) (*entity.AccountItem, error) {
	var name string
	switch dealType {
	case entity.DealTypeIncome:
		name = OwnerDrawingsAccount
	case entity.DealTypeExpense:
		name = OwnerContributionAccount
	default:
		return nil, apperror.Invalid("type", "must be income or expense")
	}

	items, err := u.repo.ListAccountItems(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Name == name {
			return &items[i], nil
		}
	}

	u.logger.Warn("Private account item not found",
		zap.Int64("company_id", companyID),
		zap.String("name", name),
	)
	return nil, nil
}
