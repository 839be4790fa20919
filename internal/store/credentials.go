package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

// CredentialsProvider defines the interface for listing marketplace credentials
//
//go:generate mockgen -source=credentials.go -destination=../mocks/credentials.go -package=mocks -mock_names=CredentialsProvider=MockCredentialsProvider
type CredentialsProvider interface {
	// ListCredentials returns the credentials of the active accounts of a platform, ordered by id
	ListCredentials(ctx context.Context, platform string) ([]domain.Credentials, error)
}

type credentialsProvider struct {
	db *gorm.DB
}

// NewCredentialsProvider creates a new credentials provider
func NewCredentialsProvider(db *gorm.DB) CredentialsProvider {
	return &credentialsProvider{db: db}
}

// ListCredentials returns the credentials of the active accounts of a platform, ordered by id
func (p *credentialsProvider) ListCredentials(ctx context.Context, platform string) ([]domain.Credentials, error) {
	var accounts []schema.Account
	err := p.db.WithContext(ctx).
		Where("platform = ? AND active = ?", platform, true).
		Order("id").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	creds := make([]domain.Credentials, 0, len(accounts))
	for _, a := range accounts {
		creds = append(creds, domain.Credentials{
			InternalID:        a.ID,
			APIKey:            a.APIKey,
			APISecret:         a.APISecret,
			ExternalAccountID: a.ExternalAccountID,
		})
	}

	return creds, nil
}
