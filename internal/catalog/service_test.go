package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

type memoryCatalogRepo struct {
	products map[int64]Product
	nextID   int64
}

func newMemoryCatalogRepo() *memoryCatalogRepo {
	return &memoryCatalogRepo{products: make(map[int64]Product)}
}

func (r *memoryCatalogRepo) Create(ctx context.Context, p Product) (Product, error) {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryCatalogRepo) Get(ctx context.Context, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product", httpx.ErrNotFound)
	}
	return p, nil
}

func (r *memoryCatalogRepo) Update(ctx context.Context, p Product) (Product, error) {
	existing, ok := r.products[p.ID]
	if !ok || existing.CompanyID != p.CompanyID {
		return Product{}, fmt.Errorf("%w: product", httpx.ErrNotFound)
	}
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryCatalogRepo) Delete(ctx context.Context, id, companyID int64) error {
	existing, ok := r.products[id]
	if !ok || existing.CompanyID != companyID {
		return fmt.Errorf("%w: product", httpx.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *memoryCatalogRepo) ListByCompany(ctx context.Context, companyID int64) ([]Product, error) {
	list := []Product{}
	for _, p := range r.products {
		if p.CompanyID == companyID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *memoryCatalogRepo) ListAll(ctx context.Context) ([]ProductWithCompany, error) {
	list := []ProductWithCompany{}
	for _, p := range r.products {
		list = append(list, ProductWithCompany{Product: p})
	}
	return list, nil
}

func TestCreateValidatesProduct(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	cases := []struct {
		name    string
		product Product
	}{
		{"missing name", Product{CompanyID: 3, UnitPrice: 10}},
		{"negative price", Product{CompanyID: 3, Name: "Widget", UnitPrice: -1}},
		{"commission over 100", Product{CompanyID: 3, Name: "Widget", UnitPrice: 10, CommissionPct: 101}},
		{"negative stock", Product{CompanyID: 3, Name: "Widget", UnitPrice: 10, Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.product)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	repo := newMemoryCatalogRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Product{
		CompanyID: 3, Name: "Widget", UnitPrice: 10, CommissionPct: 20, Stock: 5,
	})
	require.NoError(t, err)

	created.CompanyID = 4
	created.Name = "Hijacked"
	_, err = svc.Update(context.Background(), created)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	require.Equal(t, "Widget", repo.products[created.ID].Name)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	repo := newMemoryCatalogRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Product{
		CompanyID: 3, Name: "Widget", UnitPrice: 10,
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), created.ID, 4), httpx.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), created.ID, 3))
	require.Empty(t, repo.products)
}

func TestListByCompanyFiltersOwner(t *testing.T) {
	svc := NewService(newMemoryCatalogRepo())

	for _, p := range []Product{
		{CompanyID: 3, Name: "Widget", UnitPrice: 10},
		{CompanyID: 4, Name: "Gadget", UnitPrice: 20},
		{CompanyID: 3, Name: "Gizmo", UnitPrice: 30},
	} {
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}

	own, err := svc.ListByCompany(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, own, 2)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
}
