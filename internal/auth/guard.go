package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-contrib/sessions"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/models"
)

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Identity is the acting user of one request.
type Identity struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	City      models.City     `json:"city"`
	Role      models.UserRole `json:"role"`
}

func IdentityOf(u *models.User) *Identity {
	return &Identity{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		City:      u.City,
		Role:      u.Role,
	}
}

type Guard struct {
	users UserFinder
}

func NewGuard(users UserFinder) *Guard {
	return &Guard{users: users}
}

// ResolveSession maps the session cookie to a user freshly read from the store.
func (g *Guard) ResolveSession(ctx context.Context, sess sessions.Session) (*Identity, error) {
	userID, ok := SessionUserID(sess)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session user: %w", err)
	}

	return IdentityOf(user), nil
}

func RequireRole(identity *Identity, allowed ...models.UserRole) error {
	if identity == nil {
		return apperrors.ErrUnauthenticated
	}
	for _, role := range allowed {
		if identity.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s", apperrors.ErrForbidden, identity.Role)
}
