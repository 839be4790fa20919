package rest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

const (
	DEFAULT_PAGE_SIZE = 100
	MAX_PAGE_SIZE     = 500
)

// ListLatestOrdersQueryParams holds query parameters for GET /orders/latest
type ListLatestOrdersQueryParams struct {
	// Status is a comma separated list of order statuses
	Status    string `form:"status"`
	AccountID *int64 `form:"account_id"`
	Limit     *int   `form:"limit"`
}

// Validate checks the parameters and returns the parsed statuses and the effective limit
func (p *ListLatestOrdersQueryParams) Validate() ([]string, int, error) {
	var statuses []string
	if p.Status != "" {
		var raw []string
		for _, s := range strings.Split(p.Status, ",") {
			if s = strings.TrimSpace(s); s != "" {
				raw = append(raw, s)
			}
		}

		parsed, err := domain.ParseOrderStatuses(raw)
		if err != nil {
			return nil, 0, err
		}
		for _, s := range parsed {
			statuses = append(statuses, string(s))
		}
	}

	limit := DEFAULT_PAGE_SIZE
	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > MAX_PAGE_SIZE {
			return nil, 0, fmt.Errorf("limit must be between 1 and %d", MAX_PAGE_SIZE)
		}
		limit = *p.Limit
	}

	if p.AccountID != nil && *p.AccountID <= 0 {
		return nil, 0, fmt.Errorf("account_id must be positive")
	}

	return statuses, limit, nil
}

// UpsertAccountBody is the body of PUT /accounts
type UpsertAccountBody struct {
	Platform          string `json:"platform" binding:"required"`
	ExternalAccountID string `json:"external_account_id" binding:"required"`
	Name              string `json:"name" binding:"required"`
	APIKey            string `json:"api_key" binding:"required"`
	APISecret         string `json:"api_secret" binding:"required"`
	// Active defaults to true
	Active *bool `json:"active"`
}

// Account validates the body and builds the account row it describes
func (b *UpsertAccountBody) Account() (*schema.Account, error) {
	account := &schema.Account{
		Platform:          strings.ToLower(strings.TrimSpace(b.Platform)),
		ExternalAccountID: strings.TrimSpace(b.ExternalAccountID),
		Name:              strings.TrimSpace(b.Name),
		APIKey:            strings.TrimSpace(b.APIKey),
		APISecret:         strings.TrimSpace(b.APISecret),
		Active:            true,
	}
	if b.Active != nil {
		account.Active = *b.Active
	}

	var missing []string
	for field, value := range map[string]string{
		"platform":            account.Platform,
		"external_account_id": account.ExternalAccountID,
		"name":                account.Name,
		"api_key":             account.APIKey,
		"api_secret":          account.APISecret,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("blank fields: %s", strings.Join(missing, ", "))
	}

	return account, nil
}

// MarkOrderPrintedBody is the body of POST /orders/:order_number/printed
type MarkOrderPrintedBody struct {
	AccountID int64      `json:"account_id" binding:"required"`
	PrintedAt *time.Time `json:"printed_at"`
}
