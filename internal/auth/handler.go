package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink-app/tradelink/internal/platform/httpx"
)

// Handler wires the public registration and login endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers the public auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register/company", h.registerCompany)
	r.Post("/register/partner", h.registerPartner)
	r.Post("/login/company", h.loginCompany)
	r.Post("/login/partner", h.loginPartner)
}

func (h *Handler) registerCompany(w http.ResponseWriter, r *http.Request) {
	var req registerCompanyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	company, err := h.service.RegisterCompany(r.Context(), RegisterCompanyInput{
		Name:        req.Name,
		TaxID:       req.TaxID,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
		Logo:        req.Logo,
	})
	if err != nil {
		h.logger.Warn("register company", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, registerResponse{Message: "company registered successfully", User: company})
}

func (h *Handler) registerPartner(w http.ResponseWriter, r *http.Request) {
	var req registerPartnerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return
	}

	partner, err := h.service.RegisterPartner(r.Context(), RegisterPartnerInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		NationalID: req.NationalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Password:   req.Password,
		Address:    req.Address,
		Experience: req.Experience,
	})
	if err != nil {
		h.logger.Warn("register partner", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, registerResponse{Message: "partner registered successfully", User: partner})
}

func (h *Handler) loginCompany(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}
	company, token, err := h.service.LoginCompany(r.Context(), email, password)
	if err != nil {
		h.respondLoginError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: token, User: company})
}

func (h *Handler) loginPartner(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.decodeLogin(w, r)
	if !ok {
		return
	}
	partner, token, err := h.service.LoginPartner(r.Context(), email, password)
	if err != nil {
		h.respondLoginError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loginResponse{Message: "login successful", Token: token, User: partner})
}

func (h *Handler) decodeLogin(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "malformed request body")
		return "", "", false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Message(w, http.StatusBadRequest, "missing required fields or invalid format")
		return "", "", false
	}
	return req.Email, req.Password, true
}

func (h *Handler) respondLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		httpx.Message(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrTooManyAttempts):
		httpx.Message(w, http.StatusTooManyRequests, ErrTooManyAttempts.Error())
	default:
		h.logger.Error("login", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
