package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &prod, nil
}

// SearchProducts is the gallery query: case-insensitive substring match
// on the name, or everything when the term is empty. Ordered by id so
// repeated calls render the same way.
func (r *GormRepo) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Order("id ASC")
	if term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	var items []models.Product
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProductsBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Create(prod).Error; err != nil {
		return nil, err
	}
	return prod, nil
}

// PatchProduct applies the requested fields inside one transaction so a
// failed write never leaves a half-updated row. Only the owner may
// touch the product.
func (r *GormRepo) PatchProduct(ctx context.Context, id, actorID uint, req transport.PatchProductRequest) (*models.Product, error) {
	var prod models.Product

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if prod.SellerID != actorID {
			return domain.ErrForbidden
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Price != nil {
			prod.Price = *req.Price
		}
		if req.Stock != nil {
			prod.Stock = *req.Stock
		}

		return tx.Save(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct is owner-only and refuses to remove a product that
// orders still reference; those rows are the purchase record.
func (r *GormRepo) DeleteProduct(ctx context.Context, id, actorID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if prod.SellerID != actorID {
			return domain.ErrForbidden
		}

		var refs int64
		if err := tx.Model(&models.Order{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrConflict
		}

		return tx.Delete(&models.Product{}, id).Error
	})
}
