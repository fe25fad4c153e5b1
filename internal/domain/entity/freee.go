package entity

import "fmt"

// Walletable types used by freee
const (
	WalletableBankAccount        = "bank_account"
	WalletableCreditCard         = "credit_card"
	WalletableWallet             = "wallet"
	WalletablePrivateAccountItem = "private_account_item"
)

// Company is an office (事業所) the authorized user can access.
// Missing names decode as "" and are shown through Label.
type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	NameKana      string `json:"name_kana"`
	DisplayName   string `json:"display_name"`
	CompanyNumber string `json:"company_number"`
	Role          string `json:"role"`
}

// Label is the display name, falling back to name and then to the id
func (c Company) Label() string {
	switch {
	case c.DisplayName != "":
		return c.DisplayName
	case c.Name != "":
		return c.Name
	default:
		return fmt.Sprintf("company %d", c.ID)
	}
}

type CompanyListResponse struct {
	Companies []Company `json:"companies"`
}

// AccountItem is a ledger account. Optional text fields default to "",
// Categories to nil and Available to false.
type AccountItem struct {
	ID                       int64    `json:"id"`
	Name                     string   `json:"name"`
	Shortcut                 string   `json:"shortcut"`
	ShortcutNum              string   `json:"shortcut_num"`
	TaxCode                  int      `json:"tax_code"`
	DefaultTaxCode           int      `json:"default_tax_code"`
	AccountCategory          string   `json:"account_category"`
	AccountCategoryID        int64    `json:"account_category_id"`
	CorrespondingIncomeName  string   `json:"corresponding_income_name"`
	CorrespondingExpenseName string   `json:"corresponding_expense_name"`
	GroupName                string   `json:"group_name"`
	Categories               []string `json:"categories"`
	Available                bool     `json:"available"`
	UpdateDate               string   `json:"update_date"`
}

type AccountItemListResponse struct {
	AccountItems []AccountItem `json:"account_items"`
}

// TaxCode is a tax classification. Rate is nil when freee does not send it.
type TaxCode struct {
	Code            int      `json:"code"`
	Name            string   `json:"name"`
	NameJa          string   `json:"name_ja"`
	DisplayCategory string   `json:"display_category"`
	Available       bool     `json:"available"`
	Rate            *float64 `json:"rate,omitempty"`
}

// Description is "<name_ja> (<rate>%)", or just the name without a rate
func (t TaxCode) Description() string {
	name := t.NameJa
	if name == "" {
		name = t.Name
	}
	if t.Rate == nil {
		return name
	}
	return fmt.Sprintf("%s (%g%%)", name, *t.Rate)
}

// TaxCodeOption is a tax code prepared for selection
type TaxCodeOption struct {
	Code        int    `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type TaxCodeListResponse struct {
	Taxes []TaxCode `json:"taxes"`
}

// TaxCodeFilter narrows GET /taxes/companies/{id}. Nil Available sends nothing.
type TaxCodeFilter struct {
	DisplayCategory string
	Available       *bool
}

// Walletable is a bank account, credit card or other wallet.
// BankID, balances and sync fields are nil unless freee sent them.
type Walletable struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	BankID            *int64  `json:"bank_id,omitempty"`
	LastBalance       *int64  `json:"last_balance,omitempty"`
	WalletableBalance *int64  `json:"walletable_balance,omitempty"`
	LastSyncedAt      *string `json:"last_synced_at,omitempty"`
	SyncStatus        *string `json:"sync_status,omitempty"`
}

// TypeName is the human readable walletable type
func (w Walletable) TypeName() string {
	return WalletableTypeName(w.Type)
}

// DisplayName is "<name> (<type name>)"
func (w Walletable) DisplayName() string {
	return fmt.Sprintf("%s (%s)", w.Name, w.TypeName())
}

func WalletableTypeName(walletableType string) string {
	switch walletableType {
	case WalletableBankAccount:
		return "銀行口座"
	case WalletableCreditCard:
		return "クレジットカード"
	case WalletableWallet:
		return "その他の決済口座"
	default:
		return walletableType
	}
}

type WalletableListResponse struct {
	Walletables []Walletable `json:"walletables"`
}

// WalletableFilter narrows GET /walletables. Empty Type lists every type.
type WalletableFilter struct {
	Type             string
	WithBalance      bool
	WithLastSyncedAt bool
	WithSyncStatus   bool
}

// GroupedWalletables splits walletables by type. Unknown types are dropped.
type GroupedWalletables struct {
	BankAccount []Walletable `json:"bank_account"`
	CreditCard  []Walletable `json:"credit_card"`
	Wallet      []Walletable `json:"wallet"`
}

// Item is a freee 品目. Shortcuts and code default to "".
type Item struct {
	ID         int64  `json:"id"`
	CompanyID  int64  `json:"company_id"`
	Name       string `json:"name"`
	Shortcut1  string `json:"shortcut1"`
	Shortcut2  string `json:"shortcut2"`
	Code       string `json:"code"`
	Available  bool   `json:"available"`
	UpdateDate string `json:"update_date"`
}

type ItemListResponse struct {
	Items []Item `json:"items"`
}
