package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/models"
)

// ReconcileAccount maps an identity-provider assertion to a local
// account. The lookup order matters: external id first, then email as
// the repair path for accounts whose external id was lost or changed,
// and only then a fresh account. Running it in one transaction keeps a
// racing callback from creating a duplicate for the same email.
func (r *GormRepo) ReconcileAccount(ctx context.Context, externalID, email, name, picture string) (*models.Account, error) {
	var acc models.Account

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("google_id = ?", externalID).First(&acc).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		err = tx.Where("email = ?", email).First(&acc).Error
		if err == nil {
			acc.GoogleID = externalID
			acc.Name = name
			acc.Picture = picture
			return tx.Save(&acc).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		acc = models.Account{
			GoogleID: externalID,
			Email:    email,
			Name:     name,
			Picture:  picture,
		}
		return tx.Create(&acc).Error
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (r *GormRepo) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	var acc models.Account
	if err := r.DB.WithContext(ctx).First(&acc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &acc, nil
}
