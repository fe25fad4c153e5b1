package entity

import "time"

// TemplateTimeLayout is the created_at format. It sorts lexicographically.
const TemplateTimeLayout = "2006-01-02 15:04:05"

// TemplateRecord is a named, reusable deal draft stored as <id>.json
type TemplateRecord struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	CreatedAt string       `json:"created_at"`
	Data      TemplateData `json:"data"`
}

type TemplateData struct {
	Type             string `json:"type"`
	AccountItemID    string `json:"account_item_id"`
	TaxCode          string `json:"tax_code"`
	FromWalletableID string `json:"from_walletable_id"`
	ItemID           string `json:"item_id"`
	RefNumber        string `json:"ref_number"`
	Description      string `json:"description"`
}

// TemplateDataFromFields keeps the whitelisted keys of fields; anything else
// is dropped and missing keys become "".
func TemplateDataFromFields(fields map[string]string) TemplateData {
	return TemplateData{
		Type:             fields["type"],
		AccountItemID:    fields["account_item_id"],
		TaxCode:          fields["tax_code"],
		FromWalletableID: fields["from_walletable_id"],
		ItemID:           fields["item_id"],
		RefNumber:        fields["ref_number"],
		Description:      fields["description"],
	}
}

// SaveTemplateRequest is the body of POST /api/v1/templates
type SaveTemplateRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	AccountItemID    string `json:"account_item_id"`
	TaxCode          string `json:"tax_code"`
	FromWalletableID string `json:"from_walletable_id"`
	ItemID           string `json:"item_id"`
	RefNumber        string `json:"ref_number"`
	Description      string `json:"description"`
}

// Fields returns the request as a deal field map
func (r *SaveTemplateRequest) Fields() map[string]string {
	return map[string]string{
		"type":               r.Type,
		"account_item_id":    r.AccountItemID,
		"tax_code":           r.TaxCode,
		"from_walletable_id": r.FromWalletableID,
		"item_id":            r.ItemID,
		"ref_number":         r.RefNumber,
		"description":        r.Description,
	}
}

// TemplateDirStatus describes the template directory for troubleshooting
type TemplateDirStatus struct {
	Directory     string             `json:"template_directory"`
	Exists        bool               `json:"directory_exists"`
	TemplateCount int                `json:"template_count"`
	Files         []TemplateFileInfo `json:"raw_files"`
}

type TemplateFileInfo struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}
