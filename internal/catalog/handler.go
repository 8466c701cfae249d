package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the product catalog endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authmw    *auth.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, authmw *auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authmw: authmw, validator: validator.New()}
}

// MountRoutes registers the catalog routes. Listing is open to both roles,
// mutations are company-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Get("/products", h.list)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleCompany))
		r.Post("/products", h.create)
		r.Put("/products/{id}", h.update)
		r.Delete("/products/{id}", h.delete)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return req, false
	}
	return req, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), Product{
		CompanyID:     principal.ID,
		Name:          req.Name,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		CommissionPct: req.CommissionPct,
		Stock:         req.Stock,
		Description:   req.Description,
		Variant:       req.Variant,
	})
	if err != nil {
		h.logger.Warn("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, productResponse{Message: "product created successfully", Product: product})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "invalid product id")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.service.Update(r.Context(), Product{
		ID:            id,
		CompanyID:     principal.ID,
		Name:          req.Name,
		Category:      req.Category,
		UnitPrice:     req.UnitPrice,
		CommissionPct: req.CommissionPct,
		Stock:         req.Stock,
		Description:   req.Description,
		Variant:       req.Variant,
	})
	if err != nil {
		h.logger.Warn("update product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse{Message: "product updated", Product: product})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Message(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := h.service.Delete(r.Context(), id, principal.ID); err != nil {
		h.logger.Warn("delete product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.Message(w, http.StatusOK, "product deleted")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	if principal.Role == auth.RoleCompany {
		products, err := h.service.ListByCompany(r.Context(), principal.ID)
		if err != nil {
			h.logger.Error("list products", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, products)
		return
	}

	products, err := h.service.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list all products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}
