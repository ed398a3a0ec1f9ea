package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mssola/useragent"

	"blitzweek/internal/delivery/http/helpers"
	"blitzweek/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// RegisterRequest is the request body for POST /api/register.
type RegisterRequest struct {
	Name             string   `json:"name"`
	LdapID           string   `json:"ldapId"`
	RollNumber       string   `json:"rollNumber"`
	Branch           string   `json:"branch"`
	Year             string   `json:"year"`
	InterestedEvents []string `json:"interestedEvents"`
	PhoneNumber      string   `json:"phoneNumber"`
}

// RegistrationData is the public projection returned on successful registration.
type RegistrationData struct {
	RegistrationNumber string    `json:"registrationNumber"`
	Name               string    `json:"name"`
	LdapID             string    `json:"ldapId"`
	RollNumber         string    `json:"rollNumber"`
	Events             []string  `json:"events"`
	RegistrationDate   time.Time `json:"registrationDate"`
}

// validationFailureResponse extends the envelope with the per-field violations.
type validationFailureResponse struct {
	Success bool              `json:"success"`
	Error   *helpers.APIError `json:"error"`
	Errors  []string          `json:"errors"`
}

// duplicateResponse extends the envelope with the prior registration's
// number and date so the participant can be shown their earlier sign-up.
type duplicateResponse struct {
	Success bool              `json:"success"`
	Error   *helpers.APIError `json:"error"`
	Data    *duplicateData    `json:"data"`
}

type duplicateData struct {
	RegistrationNumber string    `json:"registrationNumber"`
	RegistrationDate   time.Time `json:"registrationDate"`
}

// Register godoc
// @Summary Register a participant
// @Description Validates the candidate, enforces one registration per LDAP ID and per roll number, assigns a registration number, and persists the record.
// @Tags registration
// @Accept json
// @Produce json
// @Param body body controllers.RegisterRequest true "Registration candidate"
// @Success 201 {object} helpers.APIResponse "data contains the public registration projection"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_error"
// @Failure 409 {object} helpers.APIResponse "error.code: duplicate_registration; data carries the prior registrationNumber and registrationDate"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	candidate := &domain.RegistrationCandidate{
		Name:             req.Name,
		LDAPID:           req.LdapID,
		RollNumber:       req.RollNumber,
		Branch:           req.Branch,
		Year:             req.Year,
		InterestedEvents: req.InterestedEvents,
		PhoneNumber:      req.PhoneNumber,
		IPAddress:        clientIP(r),
		ClientSignature:  clientSignature(r),
	}

	reg, err := c.Service.Register(r.Context(), candidate)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			helpers.WriteJSON(w, http.StatusBadRequest, validationFailureResponse{
				Success: false,
				Error:   &helpers.APIError{Code: helpers.ErrCodeValidation, Message: "validation failed"},
				Errors:  verr.Fields,
			})
			return
		}
		var derr *domain.DuplicateRegistrationError
		if errors.As(err, &derr) {
			helpers.WriteJSON(w, http.StatusConflict, duplicateResponse{
				Success: false,
				Error:   &helpers.APIError{Code: helpers.ErrCodeDuplicate, Message: derr.Message()},
				Data: &duplicateData{
					RegistrationNumber: derr.RegistrationNumber,
					RegistrationDate:   derr.RegistrationDate,
				},
			})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, RegistrationData{
		RegistrationNumber: reg.RegistrationNumber,
		Name:               reg.Name,
		LdapID:             reg.LDAPID,
		RollNumber:         reg.RollNumber,
		Events:             reg.InterestedEvents,
		RegistrationDate:   reg.RegistrationDate,
	})
}

// checkRegistrationResponse extends the envelope with the isRegistered flag.
type checkRegistrationResponse struct {
	Success      bool `json:"success"`
	IsRegistered bool `json:"isRegistered"`
	Data         any  `json:"data,omitempty"`
}

// checkRegistrationData is the minimal summary returned by the check route.
type checkRegistrationData struct {
	RegistrationNumber string    `json:"registrationNumber"`
	Name               string    `json:"name"`
	Status             string    `json:"status"`
	RegistrationDate   time.Time `json:"registrationDate"`
}

// CheckRegistration godoc
// @Summary Check whether an identifier is registered
// @Description Identifiers containing "@" are looked up as LDAP IDs, everything else as roll numbers, both after normalization.
// @Tags registration
// @Produce json
// @Param identifier path string true "LDAP ID or roll number"
// @Success 200 {object} helpers.APIResponse "isRegistered true with a minimal summary"
// @Failure 404 {object} helpers.APIResponse "isRegistered false"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/check-registration/{identifier} [get]
func (c *RegistrationController) CheckRegistration(w http.ResponseWriter, r *http.Request) {
	identifier := r.PathValue("identifier")
	if identifier == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing identifier")
		return
	}

	reg, err := c.Service.CheckStatus(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSON(w, http.StatusNotFound, checkRegistrationResponse{Success: false, IsRegistered: false})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, checkRegistrationResponse{
		Success:      true,
		IsRegistered: true,
		Data: checkRegistrationData{
			RegistrationNumber: reg.RegistrationNumber,
			Name:               reg.Name,
			Status:             reg.Status,
			RegistrationDate:   reg.RegistrationDate,
		},
	})
}

// clientIP returns the originating address: the first X-Forwarded-For entry
// when present, otherwise the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientSignature condenses the User-Agent into a short audit string,
// falling back to the raw header when it cannot be parsed.
func clientSignature(r *http.Request) string {
	raw := r.UserAgent()
	if raw == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	if name == "" {
		return raw
	}
	sig := name
	if version != "" {
		sig = fmt.Sprintf("%s %s", name, version)
	}
	if os := ua.OS(); os != "" {
		sig = fmt.Sprintf("%s on %s", sig, os)
	}
	return sig
}
