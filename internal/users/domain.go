package users

import (
	"time"

	"github.com/trusthub/trusthub/internal/rbac"
)

// User represents an account as seen by administration surfaces. The
// password hash never leaves the repository layer.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      rbac.Role `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
