package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fdtraverso/mercadito/internal/domain"
	"github.com/fdtraverso/mercadito/internal/transport"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func TestPatchProductAppliesOnlyGivenFields(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	prod := createProduct(t, r, seller.ID, "mate", 8.0, 4)

	patched, err := r.PatchProduct(ctx, prod.ID, seller.ID, transport.PatchProductRequest{
		Price: f64Ptr(9.5),
		Stock: intPtr(7),
	})
	require.NoError(t, err)
	require.Equal(t, "mate", patched.Name)
	require.Equal(t, 9.5, patched.Price)
	require.Equal(t, 7, patched.Stock)

	stored := reloadProduct(t, r, prod.ID)
	require.Equal(t, 9.5, stored.Price)
	require.Equal(t, 7, stored.Stock)
}

func TestPatchProductByNonOwnerForbidden(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	other := createAccount(t, r, "g-other", "other@example.com")
	prod := createProduct(t, r, seller.ID, "mate", 8.0, 4)

	_, err := r.PatchProduct(ctx, prod.ID, other.ID, transport.PatchProductRequest{
		Name: strPtr("hacked"),
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	stored := reloadProduct(t, r, prod.ID)
	require.Equal(t, "mate", stored.Name)
	require.Equal(t, 8.0, stored.Price)
}

func TestPatchProductNotFound(t *testing.T) {
	r := newTestRepo(t)
	seller := createAccount(t, r, "g-seller", "seller@example.com")

	_, err := r.PatchProduct(context.Background(), 123, seller.ID, transport.PatchProductRequest{})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductOwnerOnly(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	other := createAccount(t, r, "g-other", "other@example.com")
	prod := createProduct(t, r, seller.ID, "banco", 12.0, 1)

	err := r.DeleteProduct(ctx, prod.ID, other.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, r.DeleteProduct(ctx, prod.ID, seller.ID))

	_, err = r.GetProduct(ctx, prod.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductWithOrdersConflicts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	buyer := createAccount(t, r, "g-buyer", "buyer@example.com")
	prod := createProduct(t, r, seller.ID, "banco", 12.0, 2)

	_, err := r.Purchase(ctx, buyer.ID, prod.ID)
	require.NoError(t, err)

	err = r.DeleteProduct(ctx, prod.ID, seller.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = r.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
}

func TestSearchProductsSubstringCaseInsensitive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	createProduct(t, r, seller.ID, "Lampara Vintage", 10.0, 1)
	createProduct(t, r, seller.ID, "Silla de madera", 20.0, 1)
	createProduct(t, r, seller.ID, "LAMPARA LED", 15.0, 1)

	hits, err := r.SearchProducts(ctx, "lamp")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "Lampara Vintage", hits[0].Name)
	require.Equal(t, "LAMPARA LED", hits[1].Name)

	all, err := r.SearchProducts(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Lampara Vintage", all[0].Name)

	none, err := r.SearchProducts(ctx, "heladera")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListProductsBySeller(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	seller := createAccount(t, r, "g-seller", "seller@example.com")
	other := createAccount(t, r, "g-other", "other@example.com")
	createProduct(t, r, seller.ID, "uno", 1.0, 1)
	createProduct(t, r, other.ID, "dos", 2.0, 1)

	mine, err := r.ListProductsBySeller(ctx, seller.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "uno", mine[0].Name)
}

func TestGetProductNotFound(t *testing.T) {
	r := newTestRepo(t)
	_, err := r.GetProduct(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
