package user

import (
	"context"
	"time"

	"hirelane/internal/common"
)

type Role string

const (
	RoleApplicant Role = "applicant"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID        common.UUID `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Roles     []Role      `json:"roles"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Repository interface {
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	ListAdmins(ctx context.Context) ([]User, error)
}
