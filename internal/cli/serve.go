package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"afford-tracker/internal/auth"
	"afford-tracker/internal/config"
	"afford-tracker/internal/database"
	"afford-tracker/internal/handlers"
	"afford-tracker/internal/repository"
	"afford-tracker/internal/server"
	"afford-tracker/internal/tasks"
	"afford-tracker/internal/validation"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  "Connects to the database, applies migrations, seeds the admin account and serves the tracker until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.Production() {
			gin.SetMode(gin.ReleaseMode)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		users := repository.NewUserRepository(db)
		validate := validation.New()
		accounts := auth.NewAccounts(users, validate)

		if err := seedAdmin(ctx, accounts, cfg); err != nil {
			return err
		}

		resolver, uploadDir, err := newResolver(cfg)
		if err != nil {
			return err
		}

		limiter, closeLimiter, err := newLimiter(cfg)
		if err != nil {
			return err
		}
		defer closeLimiter()

		service := tasks.NewService(repository.NewTaskRepository(db), users, resolver, validate)

		router := server.NewRouter(server.Deps{
			Guard:     auth.NewGuard(users),
			Handler:   handlers.New(accounts, service, cfg.MaxUpload),
			Sessions:  auth.NewSessionStore([]byte(cfg.SessionSecret), cfg.Production()),
			Limiter:   limiter,
			UploadDir: uploadDir,
		})

		return server.Run(ctx, fmt.Sprintf(":%s", cfg.ServerPort), router, cfg.ShutdownTimeout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
