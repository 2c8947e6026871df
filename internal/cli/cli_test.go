package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afford-tracker/internal/attachment"
	"afford-tracker/internal/config"
	"afford-tracker/internal/database"
	"afford-tracker/internal/models"
	"afford-tracker/internal/ratelimit"
	"afford-tracker/internal/repository"
)

func testEnv(t *testing.T) string {
	t.Helper()
	dsn := "sqlite://" + filepath.Join(t.TempDir(), "afford.db")
	t.Setenv("DB_DSN", dsn)
	t.Setenv("SESSION_SECRET", strings.Repeat("k", 32))
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD", "")
	return dsn
}

func TestUserCreateCommand(t *testing.T) {
	dsn := testEnv(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"user", "create",
		"--username", "meera",
		"--password", "moderate1",
		"--first-name", "Meera",
		"--city", "Sagar",
		"--role", "moderator",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "created MODERATOR meera")

	db, err := database.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	user, err := repository.NewUserRepository(db).FindByUsername(context.Background(), "meera")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, user.Role)
	assert.Equal(t, models.CitySagar, user.City)
}

func TestSeedAdmin(t *testing.T) {
	testEnv(t)
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "rootpass")
	cfg, err := config.FromEnv()
	require.NoError(t, err)

	ctx := context.Background()
	db, err := openStore(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	accounts := newAccounts(db)
	require.NoError(t, seedAdmin(ctx, accounts, cfg))
	require.NoError(t, seedAdmin(ctx, accounts, cfg))

	n, err := repository.NewUserRepository(db).CountByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestBackendSelection(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir(), LoginRateLimit: 5}

	resolver, dir, err := newResolver(cfg)
	require.NoError(t, err)
	assert.IsType(t, &attachment.LocalResolver{}, resolver)
	assert.Equal(t, cfg.UploadDir, dir)

	cfg.CloudName, cfg.APIKey, cfg.APISecret = "afford", "key", "secret"
	resolver, dir, err = newResolver(cfg)
	require.NoError(t, err)
	assert.IsType(t, &attachment.CloudinaryResolver{}, resolver)
	assert.Empty(t, dir)

	limiter, closeFn, err := newLimiter(cfg)
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.MemoryLimiter{}, limiter)
	closeFn()
}
