package sales

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tradelink-app/tradelink/internal/auth"
)

func newSalesServer(t *testing.T, repo *memorySalesRepo) (*httptest.Server, *auth.TokenIssuer) {
	t.Helper()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	handler := NewHandler(slog.Default(), NewService(repo), auth.NewMiddleware(issuer))

	r := chi.NewRouter()
	handler.MountRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, issuer
}

func doJSON(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRegisterSaleEndpoint(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, CommissionPct: 20, Stock: 5}
	srv, issuer := newSalesServer(t, repo)

	token, err := issuer.Issue(auth.Principal{ID: 7, Role: auth.RolePartner})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sales", token, `{"product_id":1,"quantity":3}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		Sale    Sale   `json:"sale"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 30.00, body.Sale.TotalPrice)
	require.Equal(t, 6.00, body.Sale.TotalCommission)
	require.Equal(t, 2, repo.products[1].Stock)
}

func TestRegisterSaleEndpointConflict(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, CommissionPct: 20, Stock: 5}
	srv, issuer := newSalesServer(t, repo)

	token, err := issuer.Issue(auth.Principal{ID: 7, Role: auth.RolePartner})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sales", token, `{"product_id":1,"quantity":6}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "insufficient stock", body.Message)
	require.Equal(t, 5, repo.products[1].Stock)
}

func TestRegisterSaleEndpointValidation(t *testing.T) {
	repo := newMemorySalesRepo()
	repo.products[1] = ProductSnapshot{ID: 1, UnitPrice: 10.00, Stock: 5}
	srv, issuer := newSalesServer(t, repo)

	token, err := issuer.Issue(auth.Principal{ID: 7, Role: auth.RolePartner})
	require.NoError(t, err)

	for _, body := range []string{
		`{"product_id":1,"quantity":0}`,
		`{"product_id":1,"quantity":-2}`,
		`{"quantity":3}`,
		`not json`,
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/sales", token, body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestSalesEndpointsRequirePartnerRole(t *testing.T) {
	repo := newMemorySalesRepo()
	srv, issuer := newSalesServer(t, repo)

	companyToken, err := issuer.Issue(auth.Principal{ID: 3, Role: auth.RoleCompany})
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, srv.URL+"/sales", companyToken, `{"product_id":1,"quantity":1}`)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/sales", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
