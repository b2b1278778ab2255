package service

import (
	"context"

	"github.com/fdtraverso/mercadito/internal/models"
	"github.com/fdtraverso/mercadito/internal/repo"
	"github.com/fdtraverso/mercadito/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) Gallery(ctx context.Context, term string) ([]models.Product, error) {
	return s.Repo.SearchProducts(ctx, term)
}

func (s *CatalogService) ListBySeller(ctx context.Context, sellerID uint) ([]models.Product, error) {
	return s.Repo.ListProductsBySeller(ctx, sellerID)
}

func (s *CatalogService) Create(ctx context.Context, sellerID uint, req *transport.CreateProductRequest) (*models.Product, error) {
	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		SellerID:    sellerID,
	}
	return s.Repo.CreateProduct(ctx, &prod)
}

func (s *CatalogService) Update(ctx context.Context, id, actorID uint, req transport.PatchProductRequest) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.Repo.PatchProduct(ctx, id, actorID, req)
}

func (s *CatalogService) Delete(ctx context.Context, id, actorID uint) error {
	return s.Repo.DeleteProduct(ctx, id, actorID)
}
