package sales

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the sale ledger endpoints.
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

// MountRoutes registers the partner-only sale routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RolePartner))
		r.Post("/sales", h.register)
		r.Get("/sales", h.list)
	})
}

type registerSaleRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type saleResponse struct {
	Message string `json:"message"`
	Sale    Sale   `json:"sale"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req registerSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	sale, err := h.service.Register(r.Context(), principal.ID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			httpx.Message(w, http.StatusConflict, ErrInsufficientStock.Error())
		case errors.Is(err, ErrInvalidQuantity):
			httpx.Message(w, http.StatusBadRequest, ErrInvalidQuantity.Error())
		default:
			h.logger.Error("register sale", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, saleResponse{Message: "sale registered", Sale: sale})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	salesList, err := h.service.ListByPartner(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list sales", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, salesList)
}
