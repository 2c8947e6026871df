package cli

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"afford-tracker/internal/attachment"
	"afford-tracker/internal/auth"
	"afford-tracker/internal/config"
	"afford-tracker/internal/database"
	"afford-tracker/internal/ratelimit"
	"afford-tracker/internal/repository"
	"afford-tracker/internal/server"
	"afford-tracker/internal/validation"
)

const cloudinaryFolder = "afford-tasks"

// openStore connects and migrates the schema.
func openStore(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(ctx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}

func newAccounts(db *gorm.DB) *auth.Accounts {
	return auth.NewAccounts(repository.NewUserRepository(db), validation.New())
}

// newResolver picks Cloudinary when credentials are configured and the local
// upload directory otherwise. uploadDir is empty for Cloudinary.
func newResolver(cfg *config.Config) (resolver attachment.Resolver, uploadDir string, err error) {
	if cfg.UseCloudinary() {
		r, err := attachment.NewCloudinaryResolver(cfg.CloudName, cfg.APIKey, cfg.APISecret, cloudinaryFolder)
		if err != nil {
			return nil, "", fmt.Errorf("init cloudinary: %w", err)
		}
		log.Printf("attachments go to cloudinary (%s)", cfg.CloudName)
		return r, "", nil
	}

	r, err := attachment.NewLocalResolver(cfg.UploadDir, server.UploadsPath)
	if err != nil {
		return nil, "", err
	}
	log.Printf("cloudinary is not configured, attachments are stored in %s", cfg.UploadDir)
	return r, cfg.UploadDir, nil
}

// newLimiter returns a Redis-backed limiter when REDIS_ADDR is set. The
// returned close func is never nil.
func newLimiter(cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.LoginRateLimit, time.Minute), func() {}, nil
	}

	client, err := ratelimit.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Printf("login rate limit is shared through redis at %s", cfg.RedisAddr)
	return ratelimit.NewRedisLimiter(client, "afford:ratelimit:", cfg.LoginRateLimit, time.Minute), client.Close, nil
}

func seedAdmin(ctx context.Context, accounts *auth.Accounts, cfg *config.Config) error {
	if cfg.AdminUsername == "" {
		return nil
	}
	_, err := accounts.EnsureAdmin(ctx, auth.SignupRequest{
		FirstName: "Admin",
		Username:  strings.TrimSpace(cfg.AdminUsername),
		Password:  cfg.AdminPassword,
		City:      string(cfg.AdminCity),
	})
	return err
}
