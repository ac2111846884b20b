package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/arjunmehra/coursegate/internal/models"
	pkghttp "github.com/arjunmehra/coursegate/pkg/http"
)

// UserListerInterface defines the admin user listing contract.
type UserListerInterface interface {
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// AdminHandler handles admin-only HTTP requests. Routes using it must sit
// behind RequireRole(ADMIN).
type AdminHandler struct {
	users UserListerInterface
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users UserListerInterface) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsersResponse represents the admin user listing
type ListUsersResponse struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// ListUsers handles GET /admin/users
// Accepts optional query params ?limit=N (1-100, default 50) and ?offset=N.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	users, err := h.users.List(r.Context(), limit, offset)
	if err != nil {
		pkghttp.WriteInternalError(w, "Failed to retrieve users")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}

	pkghttp.WriteJSON(w, http.StatusOK, ListUsersResponse{
		Success: true,
		Users:   out,
		Limit:   limit,
		Offset:  offset,
	})
}
