// Package accounts owns the collection of registered accounts and keeps it
// in sync with its line file.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/smarttask/internal/models"
)

// Repository stores accounts keyed by case-insensitive email. Returned values
// are copies; changing them does not affect the stored collection.
type Repository interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, account models.Account) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	// Update applies fn to the stored account and persists the result. If fn
	// returns an error nothing is changed.
	Update(ctx context.Context, email string, fn func(*models.Account) error) (models.Account, error)
	List(ctx context.Context) []models.Account
}
