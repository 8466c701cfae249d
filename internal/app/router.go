package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/catalog"
	"github.com/tradelink-app/tradelink/internal/clients"
	"github.com/tradelink-app/tradelink/internal/identity"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
	"github.com/tradelink-app/tradelink/internal/proforma"
	"github.com/tradelink-app/tradelink/internal/sales"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Pool            *pgxpool.Pool
	MediaDir        string
	AuthHandler     *auth.Handler
	CatalogHandler  *catalog.Handler
	SalesHandler    *sales.Handler
	ClientsHandler  *clients.Handler
	ProformaHandler *proforma.Handler
	IdentityHandler *identity.Handler
}

// NewRouter constructs the chi.Router with TradeLink defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(params.Logger, params.Pool))

		params.AuthHandler.MountRoutes(r)
		params.CatalogHandler.MountRoutes(r)
		params.SalesHandler.MountRoutes(r)
		params.ClientsHandler.MountRoutes(r)
		params.ProformaHandler.MountRoutes(r)
		params.IdentityHandler.MountRoutes(r)
	})

	if params.MediaDir != "" {
		fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(params.MediaDir)))
		r.Get("/public/*", fileServer.ServeHTTP)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Message(w, http.StatusNotFound, "route not found")
	})

	return r
}

type healthStatus struct {
	Status string         `json:"status"`
	Tables map[string]int `json:"tables,omitempty"`
}

// healthHandler pings the database and counts the key tables so a probe
// failure distinguishes a dead pool from a missing schema.
func healthHandler(logger *slog.Logger, pool *pgxpool.Pool) http.HandlerFunc {
	tables := []string{"companies", "partners", "products", "sales", "clients", "proformas"}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("health: database unreachable", slog.Any("error", err))
			httpx.JSON(w, http.StatusServiceUnavailable, healthStatus{Status: "database unreachable"})
			return
		}

		counts := map[string]int{}
		for _, table := range tables {
			var n int
			if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
				logger.Error("health: table probe failed", slog.String("table", table), slog.Any("error", err))
				httpx.JSON(w, http.StatusServiceUnavailable, healthStatus{Status: "schema incomplete"})
				return
			}
			counts[table] = n
		}
		httpx.JSON(w, http.StatusOK, healthStatus{Status: "ok", Tables: counts})
	}
}
