package service

import (
	"context"

	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/repo"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func (s *OrderService) Purchase(ctx context.Context, buyerID, productID uint) (*models.Order, error) {
	return s.Repo.Purchase(ctx, buyerID, productID)
}

func (s *OrderService) Dispatch(ctx context.Context, orderID, actorID uint) (*models.Order, bool, error) {
	return s.Repo.Dispatch(ctx, orderID, actorID)
}

func (s *OrderService) Purchases(ctx context.Context, buyerID uint) ([]models.Order, error) {
	return s.Repo.ListPurchases(ctx, buyerID)
}

func (s *OrderService) Sales(ctx context.Context, sellerID uint) ([]models.Order, error) {
	return s.Repo.ListSales(ctx, sellerID)
}
