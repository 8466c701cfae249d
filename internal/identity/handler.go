package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/auth"
	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the directory, stats and profile endpoints.
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

// MountRoutes registers the identity routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RolePartner))
		r.Get("/companies", h.listCompanies)
		r.Get("/partners/stats", h.partnerStats)
		r.Put("/partners/profile", h.updatePartnerProfile)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authmw.RequireRole(auth.RoleCompany))
		r.Get("/partners", h.listPartners)
		r.Put("/companies/profile", h.updateCompanyProfile)
	})
}

type companyProfileRequest struct {
	Name        string `json:"name" validate:"required"`
	TaxID       string `json:"tax_id"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"required,email"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	LogoURL     string `json:"logo_url"`
}

type partnerProfileRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address"`
	Experience string `json:"experience"`
}

type companyProfileResponse struct {
	Message string       `json:"message"`
	User    auth.Company `json:"user"`
}

type partnerProfileResponse struct {
	Message string       `json:"message"`
	User    auth.Partner `json:"user"`
}

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		h.logger.Error("list companies", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, companies)
}

func (h *Handler) listPartners(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	partners, err := h.service.ListPartnersForCompany(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("list partners", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, partners)
}

func (h *Handler) partnerStats(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	stats, err := h.service.PartnerStats(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("partner stats", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *Handler) updateCompanyProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req companyProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	updated, err := h.service.UpdateCompanyProfile(r.Context(), principal.ID, CompanyProfileInput{
		Name:        req.Name,
		TaxID:       req.TaxID,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		Logo:        req.Logo,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		h.logger.Warn("update company profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, companyProfileResponse{Message: "profile updated", User: updated})
}

func (h *Handler) updatePartnerProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())

	var req partnerProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	updated, err := h.service.UpdatePartnerProfile(r.Context(), principal.ID, PartnerProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Experience: req.Experience,
	})
	if err != nil {
		h.logger.Warn("update partner profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, partnerProfileResponse{Message: "profile updated", User: updated})
}
