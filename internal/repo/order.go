package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/models"
)

// Purchase decrements stock and creates the order as one transaction.
// The decrement is guarded by the stock > 0 predicate at write time, so
// two buyers racing over the last unit cannot both succeed: whichever
// UPDATE matches zero rows loses and the whole transaction rolls back.
func (r *GormRepo) Purchase(ctx context.Context, buyerID, productID uint) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prod models.Product
		if err := tx.First(&prod, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if prod.SellerID == buyerID {
			return domain.ErrSelfPurchase
		}
		if prod.Stock <= 0 {
			return domain.ErrOutOfStock
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock > 0", productID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrOutOfStock
		}

		order = models.Order{
			BuyerID:   buyerID,
			ProductID: productID,
			Quantity:  1,
			Status:    models.OrderStatusPending,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	if err := r.DB.WithContext(ctx).Preload("Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Dispatch moves a pending order to shipped. Only the product's owner
// may do it; dispatching an already-shipped order is a no-op, reported
// through changed=false.
func (r *GormRepo) Dispatch(ctx context.Context, orderID, actorID uint) (*models.Order, bool, error) {
	var order models.Order
	changed := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Product").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if order.Product.SellerID != actorID {
			return domain.ErrForbidden
		}

		if order.Status == models.OrderStatusShipped {
			return nil
		}

		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", models.OrderStatusShipped).Error; err != nil {
			return err
		}
		order.Status = models.OrderStatusShipped
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &order, changed, nil
}

func (r *GormRepo) ListPurchases(ctx context.Context, buyerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListSales(ctx context.Context, sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Product").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.seller_id = ?", sellerID).
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
