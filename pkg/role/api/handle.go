package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-directory/pkg/errs"
	rolepkg "github.com/tendant/simple-directory/pkg/role"
)

// Handler handles HTTP requests for role management
type Handler struct {
	roleService *rolepkg.RoleService
}

// NewHandler creates a new role handler
func NewHandler(roleService *rolepkg.RoleService) *Handler {
	return &Handler{
		roleService: roleService,
	}
}

// RegisterRoutes registers the role routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Post("/", h.CreateRole)
		r.Get("/", h.ListRoles)
		r.Get("/{id}", h.GetRole)
		r.Put("/{id}", h.UpdateRole)
		r.Delete("/{id}", h.DeleteRole)
	})
}

// CreateRoleRequest is the body accepted by POST /roles/
type CreateRoleRequest struct {
	Name string `json:"name"`
}

// UpdateRoleRequest is the body accepted by PUT /roles/{id}.
// Omitted fields retain their prior value.
type UpdateRoleRequest struct {
	Name *string `json:"name,omitempty"`
}

// CreateRole handles the request to create a new role
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errs.Wrap(err, errs.CodeValidationFailed, "Invalid request body"))
		return
	}

	if req.Name == "" {
		renderError(w, r, errs.New(errs.CodeValidationFailed, "Field 'name' is required"))
		return
	}

	role, err := h.roleService.CreateRole(r.Context(), req.Name)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, role)
}

// ListRoles handles the request to list roles with pagination
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseWindow(r)

	roles, err := h.roleService.FindRoles(r.Context(), skip, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, roles)
}

// GetRole handles the request to get a role by ID
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	role, err := h.roleService.GetRole(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, role)
}

// UpdateRole handles the request to update a role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errs.Wrap(err, errs.CodeValidationFailed, "Invalid request body"))
		return
	}

	role, err := h.roleService.UpdateRole(r.Context(), id, rolepkg.UpdateRoleParams{
		Name: req.Name,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, role)
}

// DeleteRole handles the request to delete a role
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.roleService.DeleteRole(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errs.New(errs.CodeInvalidInput, "Invalid role ID")
	}
	return id, nil
}

func parseWindow(r *http.Request) (skip, limit int32) {
	limit = rolepkg.DefaultListLimit
	if s := r.URL.Query().Get("skip"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 32); err == nil {
			skip = int32(v)
		}
	}
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 32); err == nil {
			limit = int32(v)
		}
	}
	return skip, limit
}
