package auth

import (
	"time"

	"github.com/trusthub/trusthub/internal/rbac"
)

// User represents a platform account: a human principal or the designated
// system account used for automated actions.
type User struct {
	ID              int64
	Email           string
	PasswordHash    string
	Role            rbac.Role
	IsSystemAccount bool
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
