package service

import (
	"context"

	"github.com/fdtraverso/mercadito/internal/identity"
	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/repo"
)

type AccountService struct {
	Repo *repo.GormRepo
}

// Reconcile is only reached after the provider assertion passed the
// state check; a failed exchange never gets this far.
func (s *AccountService) Reconcile(ctx context.Context, claims *identity.Claims) (*models.Account, error) {
	return s.Repo.ReconcileAccount(ctx, claims.ExternalID, claims.Email, claims.Name, claims.Picture)
}

func (s *AccountService) Get(ctx context.Context, id uint) (*models.Account, error) {
	return s.Repo.GetAccount(ctx, id)
}
