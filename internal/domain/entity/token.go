package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// TokenRecord is the persisted state of the current OAuth grant
type TokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // epoch seconds, set on persist
	CompanyID    FlexID `json:"company_id,omitempty"`
	ExternalCID  string `json:"external_cid,omitempty"`
	Scope        string `json:"scope,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
}

// ValidAt reports whether the access token is still usable at now, keeping
// margin in reserve before expires_at.
func (t *TokenRecord) ValidAt(now time.Time, margin time.Duration) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresAt == 0 {
		return false
	}
	return now.Unix() < t.ExpiresAt-int64(margin/time.Second)
}

// ExpiresTime returns expires_at as a time, zero when unknown
func (t *TokenRecord) ExpiresTime() time.Time {
	if t.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(t.ExpiresAt, 0)
}

// FlexID decodes an identifier that freee sends either as a JSON number or a
// string, and always encodes it as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string { return string(f) }

// Int64 parses the identifier, zero when it is empty or not numeric
func (f FlexID) Int64() int64 {
	n, _ := strconv.ParseInt(string(f), 10, 64)
	return n
}

// TokenStatus is the masked view of the token record returned to clients
type TokenStatus struct {
	Authenticated   bool       `json:"authenticated"`
	AccessToken     string     `json:"access_token,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	CompanyID       string     `json:"company_id,omitempty"`
	ExternalCID     string     `json:"external_cid,omitempty"`
	Scope           string     `json:"scope,omitempty"`
	HasRefreshToken bool       `json:"has_refresh_token"`
}

// AuthorizationStart is returned when a new authorization flow begins
type AuthorizationStart struct {
	State            string `json:"state"`
	AuthorizationURL string `json:"authorization_url"`
}

// ExchangeCodeRequest carries the out-of-band code pasted back by the user
type ExchangeCodeRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// MaskSecret keeps the first and last four characters of a token
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// Status returns the masked view of the record at now
func (t *TokenRecord) Status(now time.Time, margin time.Duration) *TokenStatus {
	if t == nil {
		return &TokenStatus{}
	}
	status := &TokenStatus{
		Authenticated:   t.ValidAt(now, margin) || t.RefreshToken != "",
		AccessToken:     MaskSecret(t.AccessToken),
		CompanyID:       t.CompanyID.String(),
		ExternalCID:     t.ExternalCID,
		Scope:           t.Scope,
		HasRefreshToken: t.RefreshToken != "",
	}
	if t.ExpiresAt != 0 {
		expiresAt := t.ExpiresTime()
		status.ExpiresAt = &expiresAt
	}
	return status
}
