package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-directory/pkg/errs"
	userpkg "github.com/tendant/simple-directory/pkg/user"
)

// Handler handles HTTP requests for user management
type Handler struct {
	userService *userpkg.UserService
}

// NewHandler creates a new user handler
func NewHandler(userService *userpkg.UserService) *Handler {
	return &Handler{
		userService: userService,
	}
}

// RegisterRoutes registers the user routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.ListUsers)
		r.Get("/{id}", h.GetUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// CreateUserRequest is the body accepted by POST /users/.
// Password is optional plaintext and is never echoed back.
type CreateUserRequest struct {
	Email    string  `json:"email"`
	Username string  `json:"username"`
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	RoleID   int64   `json:"role_id"`
	Password string  `json:"password,omitempty"`
}

// UpdateUserRequest is the body accepted by PUT /users/{id}.
// Omitted fields retain their prior value.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	RoleID   *int64  `json:"role_id,omitempty"`
}

// CreateUser handles the request to create a new user
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errs.Wrap(err, errs.CodeValidationFailed, "Invalid request body"))
		return
	}

	if err := userpkg.ValidateEmail(req.Email); err != nil {
		renderError(w, r, err)
		return
	}
	if req.Username == "" {
		renderError(w, r, errs.New(errs.CodeValidationFailed, "Field 'username' is required"))
		return
	}
	if req.RoleID == 0 {
		renderError(w, r, errs.New(errs.CodeValidationFailed, "Field 'role_id' is required"))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user, err := h.userService.CreateUser(r.Context(), userpkg.CreateUserParams{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		IsActive: isActive,
		RoleID:   req.RoleID,
		Password: req.Password,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// ListUsers handles the request to list users with pagination
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := parseWindow(r)

	users, err := h.userService.FindUsers(r.Context(), skip, limit)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, users)
}

// GetUser handles the request to get a user by ID
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, user)
}

// UpdateUser handles the request to partially update a user
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, errs.Wrap(err, errs.CodeValidationFailed, "Invalid request body"))
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), id, userpkg.UpdateUserParams{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		IsActive: req.IsActive,
		RoleID:   req.RoleID,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, user)
}

// DeleteUser handles the request to delete a user
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, errs.New(errs.CodeInvalidInput, "Invalid user ID")
	}
	return id, nil
}

func parseWindow(r *http.Request) (skip, limit int32) {
	limit = userpkg.DefaultListLimit
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
