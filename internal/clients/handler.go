package clients

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the client registry endpoints.
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

// MountRoutes registers the partner-only client routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RolePartner))
		r.Post("/clients", h.create)
		r.Get("/clients", h.list)
	})
}

type clientRequest struct {
	Kind           string `json:"kind" validate:"required,oneof=individual organization"`
	OrgName        string `json:"org_name" validate:"required_if=Kind organization"`
	Representative string `json:"representative"`
	TaxID          string `json:"tax_id"`
	FirstName      string `json:"first_name" validate:"required_if=Kind individual"`
	LastName       string `json:"last_name" validate:"required_if=Kind individual"`
	NationalID     string `json:"national_id"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
}

type clientResponse struct {
	Message string `json:"message"`
	Client  Client `json:"client"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req clientRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	client, err := h.service.Create(r.Context(), Client{
		PartnerID:      principal.ID,
		Kind:           Kind(req.Kind),
		OrgName:        req.OrgName,
		Representative: req.Representative,
		TaxID:          req.TaxID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		NationalID:     req.NationalID,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
	})
	if err != nil {
		h.logger.Warn("create client", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, clientResponse{Message: "client created", Client: client})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	result, err := h.service.ListByPartner(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list clients", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}
