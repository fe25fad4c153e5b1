package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"freee-deals/internal/domain/apperror"
	"freee-deals/internal/domain/entity"
	"freee-deals/internal/domain/repository"
)

const issueDateLayout = "2006-01-02"

type DealUsecase interface {
	// CreateDeal validates the form, resolves the payment source and posts
	// the deal to freee
	CreateDeal(ctx context.Context, form *entity.DealForm) (*entity.Deal, error)
}

type dealUsecase struct {
	repo      repository.FreeeRepository
	catalog   CatalogUsecase
	companies CompanyResolver
	logger    *zap.Logger
}

func NewDealUsecase(repo repository.FreeeRepository, catalog CatalogUsecase, companies CompanyResolver, logger *zap.Logger) DealUsecase {
	return &dealUsecase{
		repo:      repo,
		catalog:   catalog,
		companies: companies,
		logger:    logger,
	}
}

func (u *dealUsecase) CreateDeal(ctx context.Context, form *entity.DealForm) (*entity.Deal, error) {
	req, err := u.buildRequest(ctx, form)
	if err != nil {
		return nil, err
	}

	deal, err := u.repo.CreateDeal(ctx, req)
	if err != nil {
		u.logger.Error("Failed to create deal",
			zap.Int64("company_id", req.CompanyID),
			zap.Error(err),
		)
		return nil, err
	}

	return deal, nil
}

func (u *dealUsecase) buildRequest(ctx context.Context, form *entity.DealForm) (*entity.DealRequest, error) {
	companyID, err := u.companies.Resolve(ctx, form.CompanyID)
	if err != nil {
		return nil, err
	}

	if form.Type != entity.DealTypeIncome && form.Type != entity.DealTypeExpense {
		return nil, apperror.Invalid("type", "must be income or expense")
	}
	if err := validateDate("issue_date", form.IssueDate, true); err != nil {
		return nil, err
	}
	if err := validateDate("due_date", form.DueDate, false); err != nil {
		return nil, err
	}

	amount, err := parseID("amount", form.Amount, true)
	if err != nil {
		return nil, err
	}
	accountItemID, err := parseID("account_item_id", form.AccountItemID, true)
	if err != nil {
		return nil, err
	}
	taxCode, err := parseID("tax_code", form.TaxCode, true)
	if err != nil {
		return nil, err
	}
	itemID, err := parseID("item_id", form.ItemID, false)
	if err != nil {
		return nil, err
	}

	req := &entity.DealRequest{
		CompanyID: companyID,
		IssueDate: form.IssueDate,
		Type:      form.Type,
		DueDate:   form.DueDate,
		RefNumber: strings.TrimSpace(form.RefNumber),
		Details: []entity.DealDetail{{
			AccountItemID: accountItemID,
			TaxCode:       int(taxCode),
			Amount:        amount,
			ItemID:        itemID,
			Description:   strings.TrimSpace(form.Description),
		}},
	}

	if form.FromWalletableID != "" {
		payment, err := u.buildPayment(ctx, companyID, form.Type, form.FromWalletableID)
		if err != nil {
			return nil, err
		}
		payment.Date = form.IssueDate
		payment.Amount = amount
		req.Payments = []entity.DealPayment{*payment}
	}

	return req, nil
}

// buildPayment resolves where the money came from: the owner's own funds or
// one of the company's walletables
func (u *dealUsecase) buildPayment(ctx context.Context, companyID int64, dealType, source string) (*entity.DealPayment, error) {
	if source == entity.WalletablePrivateAccountItem {
		item, err := u.catalog.PrivateAccountItem(ctx, companyID, dealType)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, apperror.Invalid("from_walletable_id", "private account item not found for %s", dealType)
		}
		return &entity.DealPayment{
			FromWalletableType: entity.WalletablePrivateAccountItem,
			FromWalletableID:   item.ID,
		}, nil
	}

	walletableID, err := parseID("from_walletable_id", source, true)
	if err != nil {
		return nil, err
	}
	walletable, err := u.repo.GetWalletable(ctx, companyID, walletableID)
	if err != nil {
		return nil, err
	}
	if walletable == nil {
		return nil, apperror.Invalid("from_walletable_id", "walletable %d not found", walletableID)
	}

	return &entity.DealPayment{
		FromWalletableType: walletable.Type,
		FromWalletableID:   walletable.ID,
	}, nil
}

func validateDate(field, value string, required bool) error {
	if value == "" {
		if required {
			return apperror.Invalid(field, "is required")
		}
		return nil
	}
	if _, err := time.Parse(issueDateLayout, value); err != nil {
		return apperror.Invalid(field, "must be YYYY-MM-DD")
	}
	return nil
}

// parseID parses a positive integer form value, 0 when optional and empty
func parseID(field, value string, required bool) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			return 0, apperror.Invalid(field, "is required")
		}
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return 0, apperror.Invalid(field, "must be a positive integer")
	}
	return n, nil
}

// FailureMessage turns a deal creation error into one line for the user.
// freee's errors[].messages[] are preferred, then error_message, then the
// raw response body.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if apperror.IsAuth(err) {
		return "freee authorization expired, please authorize again"
	}

	he, ok := apperror.AsHTTP(err)
	if !ok {
		return "deal creation failed: " + err.Error()
	}

	prefix := fmt.Sprintf("deal creation failed (status %d)", he.Status)

	var body entity.FreeeErrorResponse
	if json.Unmarshal([]byte(he.Body), &body) == nil {
		if body.StatusCode != 0 {
			prefix = fmt.Sprintf("deal creation failed (status %d)", body.StatusCode)
		}
		var messages []string
		for _, e := range body.Errors {
			messages = append(messages, e.Messages...)
		}
		switch {
		case len(messages) > 0:
			return prefix + ": " + strings.Join(messages, "; ")
		case body.ErrorMessage != "":
			return prefix + ": " + body.ErrorMessage
		case body.Message != "":
			return prefix + ": " + body.Message
		}
	}

	if raw := strings.TrimSpace(he.Body); raw != "" {
		return prefix + ": " + raw
	}
	return prefix
}
