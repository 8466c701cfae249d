package clients

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

type memoryClientRepo struct {
	clients map[int64]Client
	nextID  int64
}

func newMemoryClientRepo() *memoryClientRepo {
	return &memoryClientRepo{clients: make(map[int64]Client)}
}

func (r *memoryClientRepo) Create(ctx context.Context, c Client) (Client, error) {
	r.nextID++
	c.ID = r.nextID
	r.clients[c.ID] = c
	return c, nil
}

func (r *memoryClientRepo) Get(ctx context.Context, id int64) (Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return Client{}, fmt.Errorf("%w: client", httpx.ErrNotFound)
	}
	return c, nil
}

func (r *memoryClientRepo) ListByPartner(ctx context.Context, partnerID int64) ([]Client, error) {
	list := []Client{}
	for _, c := range r.clients {
		if c.PartnerID == partnerID {
			list = append(list, c)
		}
	}
	return list, nil
}

func TestCreateValidatesKindFields(t *testing.T) {
	svc := NewService(newMemoryClientRepo())

	cases := []struct {
		name   string
		client Client
	}{
		{"unknown kind", Client{PartnerID: 7, Kind: "charity"}},
		{"organization without name", Client{PartnerID: 7, Kind: KindOrganization, Representative: "Ana"}},
		{"individual without last name", Client{PartnerID: 7, Kind: KindIndividual, FirstName: "Ana"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.client)
			require.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestCreateAcceptsBothKinds(t *testing.T) {
	svc := NewService(newMemoryClientRepo())

	org, err := svc.Create(context.Background(), Client{
		PartnerID: 7, Kind: KindOrganization, OrgName: "Globex Corp", TaxID: "20123",
	})
	require.NoError(t, err)
	require.Equal(t, "Globex Corp", org.DisplayName())
	require.Equal(t, "20123", org.Document())

	person, err := svc.Create(context.Background(), Client{
		PartnerID: 7, Kind: KindIndividual, FirstName: "Ana", LastName: "Reyes", NationalID: "1234567",
	})
	require.NoError(t, err)
	require.Equal(t, "Ana Reyes", person.DisplayName())
	require.Equal(t, "1234567", person.Document())
}

func TestGetOwnedEnforcesOwnership(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), Client{
		PartnerID: 7, Kind: KindIndividual, FirstName: "Ana", LastName: "Reyes",
	})
	require.NoError(t, err)

	got, err := svc.GetOwned(context.Background(), created.ID, 7)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	// another partner's id behaves exactly like a missing client
	_, err = svc.GetOwned(context.Background(), created.ID, 8)
	require.ErrorIs(t, err, httpx.ErrNotFound)
	_, err = svc.GetOwned(context.Background(), 999, 7)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListByPartnerFiltersOwner(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)

	for _, c := range []Client{
		{PartnerID: 7, Kind: KindIndividual, FirstName: "Ana", LastName: "Reyes"},
		{PartnerID: 8, Kind: KindIndividual, FirstName: "Luis", LastName: "Soto"},
		{PartnerID: 7, Kind: KindOrganization, OrgName: "Globex Corp"},
	} {
		_, err := svc.Create(context.Background(), c)
		require.NoError(t, err)
	}

	list, err := svc.ListByPartner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
}
