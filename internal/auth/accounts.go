package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/models"
	"afford-tracker/internal/validation"
)

const maxPasswordBytes = 72

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
}

type SignupRequest struct {
	FirstName string `form:"firstName" json:"firstName" validate:"required,max=100"`
	LastName  string `form:"lastName" json:"lastName" validate:"max=100"`
	Username  string `form:"username" json:"username" validate:"required,min=3,max=50"`
	Password  string `form:"password" json:"password" validate:"required,min=6,max=72"`
	City      string `form:"city" json:"city" validate:"required,city"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type Accounts struct {
	users    UserStore
	validate *validation.Validator
}

func NewAccounts(users UserStore, validate *validation.Validator) *Accounts {
	return &Accounts{users: users, validate: validate}
}

// Signup registers a field user. Self-service accounts always get RoleUser.
func (a *Accounts) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	return a.CreateUser(ctx, req, models.RoleUser)
}

func (a *Accounts) CreateUser(ctx context.Context, req SignupRequest, role models.UserRole) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.City = strings.ToLower(strings.TrimSpace(req.City))

	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}
	// validator counts runes, bcrypt counts bytes.
	if len(req.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", apperrors.ErrValidation, maxPasswordBytes)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		City:         models.City(req.City),
		Role:         role,
	}
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords are
// reported identically.
func (a *Accounts) Authenticate(ctx context.Context, req LoginRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := a.validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := a.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the given administrator unless one already exists.
func (a *Accounts) EnsureAdmin(ctx context.Context, req SignupRequest) (bool, error) {
	count, err := a.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("check admin user: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := a.CreateUser(ctx, req, models.RoleAdmin); err != nil {
		return false, fmt.Errorf("create default admin: %w", err)
	}

	log.Printf("created default admin user: %s", req.Username)
	return true, nil
}
