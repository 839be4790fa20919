package schema

import "time"

// Account represents the accounts table - marketplace credentials per company and platform
type Account struct {
	// ID is the internal account id, carried by every order row as account_id
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Platform is the marketplace the credentials belong to (e.g. trendyol)
	Platform string `gorm:"column:platform;not null;type:text;uniqueIndex:uq_accounts_platform_external,priority:1"`
	// ExternalAccountID is the seller/supplier id assigned by the marketplace
	ExternalAccountID string `gorm:"column:external_account_id;not null;type:text;uniqueIndex:uq_accounts_platform_external,priority:2"`
	// Name is the company display name
	Name string `gorm:"column:name;not null;type:text"`
	// APIKey and APISecret are the HTTP Basic credentials
	APIKey    string `gorm:"column:api_key;not null;type:text"`
	APISecret string `gorm:"column:api_secret;not null;type:text"`
	// Active accounts are included in sync cycles
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
