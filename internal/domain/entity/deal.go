package entity

import "encoding/json"

// Deal types
const (
	DealTypeIncome  = "income"
	DealTypeExpense = "expense"
)

// DealRequest is the body of POST /api/1/deals
type DealRequest struct {
	CompanyID int64         `json:"company_id"`
	IssueDate string        `json:"issue_date"`
	Type      string        `json:"type"`
	DueDate   string        `json:"due_date,omitempty"`
	RefNumber string        `json:"ref_number,omitempty"`
	Details   []DealDetail  `json:"details"`
	Payments  []DealPayment `json:"payments,omitempty"`
}

type DealDetail struct {
	AccountItemID int64  `json:"account_item_id"`
	TaxCode       int    `json:"tax_code"`
	Amount        int64  `json:"amount"`
	ItemID        int64  `json:"item_id,omitempty"`
	Description   string `json:"description,omitempty"`
}

type DealPayment struct {
	Date               string `json:"date"`
	FromWalletableType string `json:"from_walletable_type"`
	FromWalletableID   int64  `json:"from_walletable_id"`
	Amount             int64  `json:"amount"`
}

// Deal is the created deal as returned by freee. Unknown fields are kept raw.
type Deal struct {
	ID        int64           `json:"id"`
	CompanyID int64           `json:"company_id"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date,omitempty"`
	Amount    int64           `json:"amount"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	RefNumber string          `json:"ref_number,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	Payments  json.RawMessage `json:"payments,omitempty"`
}

type DealResponse struct {
	Deal Deal `json:"deal"`
}

// DealForm is the flat form a user submits to create a deal. Every field is
// a string as typed; DealUsecase validates and converts it.
type DealForm struct {
	CompanyID        string `json:"company_id"`
	Type             string `json:"type"`
	IssueDate        string `json:"issue_date"`
	DueDate          string `json:"due_date"`
	Amount           string `json:"amount"`
	AccountItemID    string `json:"account_item_id"`
	TaxCode          string `json:"tax_code"`
	FromWalletableID string `json:"from_walletable_id"`
	ItemID           string `json:"item_id"`
	RefNumber        string `json:"ref_number"`
	Description      string `json:"description"`

	// SaveAsTemplate, when set, stores the form as a template of that name
	// after the deal is created
	SaveAsTemplate string `json:"save_as_template,omitempty"`
}

// Fields returns the form as a field map, the shape templates are saved from
func (f *DealForm) Fields() map[string]string {
	return map[string]string{
		"company_id":         f.CompanyID,
		"type":               f.Type,
		"issue_date":         f.IssueDate,
		"due_date":           f.DueDate,
		"amount":             f.Amount,
		"account_item_id":    f.AccountItemID,
		"tax_code":           f.TaxCode,
		"from_walletable_id": f.FromWalletableID,
		"item_id":            f.ItemID,
		"ref_number":         f.RefNumber,
		"description":        f.Description,
	}
}

// FreeeErrorResponse is the error body freee sends with non-2xx responses
type FreeeErrorResponse struct {
	StatusCode   int               `json:"status_code"`
	Errors       []FreeeErrorEntry `json:"errors"`
	ErrorMessage string            `json:"error_message"`
	Message      string            `json:"message"`
}

type FreeeErrorEntry struct {
	Type     string   `json:"type"`
	Messages []string `json:"messages"`
}
