package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afford-tracker/internal/apperrors"
	"afford-tracker/internal/models"
	"afford-tracker/internal/repository"
	"afford-tracker/internal/testutil"
	"afford-tracker/internal/validation"
)

func newAccounts(t *testing.T) (*Accounts, *repository.UserRepository) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	return NewAccounts(users, validation.New()), users
}

func validSignup() SignupRequest {
	return SignupRequest{
		FirstName: "Ravi",
		LastName:  "Kumar",
		Username:  "ravi",
		Password:  "password1",
		City:      "Bhopal",
	}
}

func TestAccountsSignup(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr error
	}{
		{name: "successful signup", mutate: func(*SignupRequest) {}},
		{name: "short username", mutate: func(r *SignupRequest) { r.Username = "ab" }, wantErr: apperrors.ErrValidation},
		{name: "short password", mutate: func(r *SignupRequest) { r.Password = "123" }, wantErr: apperrors.ErrValidation},
		{name: "multibyte password over 72 bytes", mutate: func(r *SignupRequest) { r.Password = strings.Repeat("é", 40) }, wantErr: apperrors.ErrValidation},
		{name: "multibyte password at 72 bytes", mutate: func(r *SignupRequest) { r.Password = strings.Repeat("é", 36) }},
		{name: "unknown city", mutate: func(r *SignupRequest) { r.City = "delhi" }, wantErr: apperrors.ErrValidation},
		{name: "missing first name", mutate: func(r *SignupRequest) { r.FirstName = "  " }, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts, _ := newAccounts(t)
			req := validSignup()
			tt.mutate(&req)

			user, err := accounts.Signup(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, models.RoleUser, user.Role)
			assert.Equal(t, models.CityBhopal, user.City)
			assert.NotEqual(t, req.Password, user.PasswordHash)
			assert.NoError(t, CheckPassword(user.PasswordHash, req.Password))
		})
	}
}

func TestAccountsSignupDuplicateUsername(t *testing.T) {
	accounts, _ := newAccounts(t)
	ctx := context.Background()

	_, err := accounts.Signup(ctx, validSignup())
	require.NoError(t, err)

	_, err = accounts.Signup(ctx, validSignup())
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestAccountsAuthenticate(t *testing.T) {
	accounts, _ := newAccounts(t)
	ctx := context.Background()

	created, err := accounts.Signup(ctx, validSignup())
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     LoginRequest
		wantErr error
	}{
		{name: "valid credentials", req: LoginRequest{Username: "ravi", Password: "password1"}},
		{name: "wrong password", req: LoginRequest{Username: "ravi", Password: "nope"}, wantErr: apperrors.ErrInvalidCredentials},
		{name: "unknown user", req: LoginRequest{Username: "ghost", Password: "password1"}, wantErr: apperrors.ErrInvalidCredentials},
		{name: "empty password", req: LoginRequest{Username: "ravi"}, wantErr: apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := accounts.Authenticate(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, user.ID)
		})
	}
}

func TestAccountsEnsureAdmin(t *testing.T) {
	accounts, users := newAccounts(t)
	ctx := context.Background()

	req := validSignup()
	req.Username = "admin"

	created, err := accounts.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.True(t, created)

	req.Username = "admin2"
	created, err = accounts.EnsureAdmin(ctx, req)
	require.NoError(t, err)
	assert.False(t, created)

	count, err := users.CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	accounts, _ := newAccounts(t)

	_, err := accounts.CreateUser(context.Background(), validSignup(), models.UserRole("ROOT"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
