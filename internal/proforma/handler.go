package proforma

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the proforma workflow endpoints.
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

// MountRoutes registers the proforma routes for both sides of the workflow.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RolePartner))
		r.Post("/proformas", h.request)
		r.Get("/proformas/partner", h.listPartner)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleCompany))
		r.Get("/proformas/company", h.listCompany)
		r.Put("/proformas/{id}/response", h.respond)
		r.Put("/proformas/{id}/reject", h.reject)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.Authenticate)
		r.Get("/proformas/{id}", h.detail)
		r.Get("/proformas/{id}/document", h.document)
	})
}

type requestProformaRequest struct {
	ClientID       int64   `json:"client_id" validate:"required,gt=0"`
	CompanyID      int64   `json:"company_id" validate:"required,gt=0"`
	ProductID      int64   `json:"product_id" validate:"required,gt=0"`
	Quantity       int     `json:"quantity" validate:"required,gt=0"`
	EstimatedPrice float64 `json:"estimated_price" validate:"gte=0"`
	Notes          string  `json:"notes"`
	Urgency        string  `json:"urgency" validate:"omitempty,oneof=low normal high"`
}

type respondProformaRequest struct {
	UnitPrice    float64 `json:"unit_price" validate:"required,gt=0"`
	DiscountPct  float64 `json:"discount_pct" validate:"gte=0,lte=100"`
	DeliveryDays int     `json:"delivery_days" validate:"gte=0"`
	ValidUntil   string  `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Terms        string  `json:"terms"`
	Notes        string  `json:"notes"`
}

type proformaResponse struct {
	Message  string   `json:"message"`
	Proforma Proforma `json:"proforma"`
}

type documentResponse struct {
	Document Document `json:"document"`
	Text     string   `json:"text"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) request(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req requestProformaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	created, err := h.service.Request(r.Context(), principal.ID, RequestInput{
		ClientID:       req.ClientID,
		CompanyID:      req.CompanyID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		EstimatedPrice: req.EstimatedPrice,
		Notes:          req.Notes,
		Urgency:        req.Urgency,
	})
	if err != nil {
		h.logger.Warn("request proforma", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, proformaResponse{Message: "proforma requested", Proforma: created})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "invalid proforma id")
		return
	}

	var req respondProformaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	updated, err := h.service.Respond(r.Context(), id, principal.ID, Quote{
		UnitPrice:    req.UnitPrice,
		DiscountPct:  req.DiscountPct,
		DeliveryDays: req.DeliveryDays,
		ValidUntil:   req.ValidUntil,
		Terms:        req.Terms,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logger.Warn("respond proforma", slog.Int64("proforma_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proformaResponse{Message: "proforma approved", Proforma: updated})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "invalid proforma id")
		return
	}

	updated, err := h.service.Reject(r.Context(), id, principal.ID)
	if err != nil {
		h.logger.Warn("reject proforma", slog.Int64("proforma_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proformaResponse{Message: "proforma rejected", Proforma: updated})
}

func (h *Handler) listCompany(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	listings, err := h.service.ListForCompany(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list company proformas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listings)
}

func (h *Handler) listPartner(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	listings, err := h.service.ListForPartner(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list partner proformas", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listings)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "invalid proforma id")
		return
	}

	p, err := h.service.Get(r.Context(), id, principal)
	if err != nil {
		h.logger.Warn("get proforma", slog.Int64("proforma_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	id, ok := pathID(r)
	if !ok {
		httpx.Message(w, http.StatusBadRequest, "invalid proforma id")
		return
	}

	doc, err := h.service.Document(r.Context(), id, principal)
	if err != nil {
		h.logger.Warn("proforma document", slog.Int64("proforma_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, documentResponse{Document: doc, Text: RenderText(doc)})
}
