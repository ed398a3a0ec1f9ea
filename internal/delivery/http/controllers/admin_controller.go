package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blitzweek/internal/delivery/http/helpers"
	"blitzweek/internal/domain"
)

type AdminController struct {
	Logger       *slog.Logger
	Service      domain.RegistrationService
	AdminService domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.RegistrationService, adminSvc domain.AdminService) *AdminController {
	return &AdminController{
		Logger:       logger,
		Service:      svc,
		AdminService: adminSvc,
	}
}

// LoginRequest is the request body for POST /api/admin/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (r *LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// Login godoc
// @Summary Authenticate the admin and issue a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param body body controllers.LoginRequest true "Admin credentials"
// @Success 200 {object} helpers.APIResponse "data contains the token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/admin/login [post]
func (c *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.AdminService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"token": token})
}

// listResponse is the paginated list envelope for GET /api/registrations.
type listResponse struct {
	Success    bool                   `json:"success"`
	Data       []*domain.Registration `json:"data"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List registrations
// @Description Filterable by event, branch, and year; sortable; 1-based pages.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (max 100)"
// @Param event query string false "Filter by interested event"
// @Param branch query string false "Filter by branch"
// @Param year query string false "Filter by year"
// @Param sortBy query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /api/registrations [get]
func (c *AdminController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListFilter{
		Event:  q.Get("event"),
		Branch: q.Get("branch"),
		Year:   q.Get("year"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}
	p := helpers.ParsePagination(r)

	regs, total, err := c.Service.List(r.Context(), filter, p)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidEvent) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidEvent, "unknown event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}

	helpers.WriteJSON(w, http.StatusOK, listResponse{
		Success:    true,
		Data:       regs,
		Pagination: helpers.NewPaginationMeta(p.Page, p.Limit, total),
	})
}

// GetByNumber godoc
// @Summary Get one registration by registration number
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param registrationNumber path string true "Registration number"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/registration/{registrationNumber} [get]
func (c *AdminController) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("registrationNumber")
	if number == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationNumber")
		return
	}
	reg, err := c.Service.GetByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// UpdateStatusRequest is the request body for PUT /api/registration/{registrationNumber}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update a registration's status
// @Description Status must be one of pending, confirmed, cancelled. No other field is mutable.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationNumber path string true "Registration number"
// @Param body body controllers.UpdateStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "updated record"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_status"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/registration/{registrationNumber}/status [put]
func (c *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("registrationNumber")
	if number == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationNumber")
		return
	}
	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.UpdateStatus(r.Context(), number, req.Status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeInvalidStatus, "status must be pending, confirmed, or cancelled")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// Delete godoc
// @Summary Delete a registration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param registrationNumber path string true "Registration number"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/registration/{registrationNumber} [delete]
func (c *AdminController) Delete(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("registrationNumber")
	if number == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing registrationNumber")
		return
	}
	if err := c.Service.Delete(r.Context(), number); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "registration deleted"})
}

// ExportRecord is one flattened row for offline CSV conversion.
type ExportRecord struct {
	RegistrationNumber string    `json:"registrationNumber"`
	Name               string    `json:"name"`
	LdapID             string    `json:"ldapId"`
	RollNumber         string    `json:"rollNumber"`
	Branch             string    `json:"branch"`
	Year               string    `json:"year"`
	Events             string    `json:"events"`
	PhoneNumber        string    `json:"phoneNumber"`
	Status             string    `json:"status"`
	RegistrationDate   time.Time `json:"registrationDate"`
}

// Export godoc
// @Summary Export all registrations as a flattened list
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of flattened records"
// @Router /api/registrations/export [get]
func (c *AdminController) Export(w http.ResponseWriter, r *http.Request) {
	regs, err := c.Service.Export(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
		return
	}
	records := make([]ExportRecord, 0, len(regs))
	for _, reg := range regs {
		records = append(records, ExportRecord{
			RegistrationNumber: reg.RegistrationNumber,
			Name:               reg.Name,
			LdapID:             reg.LDAPID,
			RollNumber:         reg.RollNumber,
			Branch:             reg.Branch,
			Year:               reg.Year,
			Events:             strings.Join(reg.InterestedEvents, ", "),
			PhoneNumber:        reg.PhoneNumber,
			Status:             reg.Status,
			RegistrationDate:   reg.RegistrationDate,
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, records)
}
