package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"afford-tracker/internal/auth"
	"afford-tracker/internal/config"
	"afford-tracker/internal/database"
	"afford-tracker/internal/models"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

type userFlags struct {
	req  auth.SignupRequest
	role string
}

var newUser userFlags

// Signup only ever creates field users; moderators and admins are provisioned here.
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account with any role",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := models.UserRole(strings.ToUpper(newUser.role))
		if !role.Valid() {
			return fmt.Errorf("unknown role %q (want ADMIN, MODERATOR or USER)", newUser.role)
		}

		cfg := config.Load()
		db, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		user, err := newAccounts(db).CreateUser(cmd.Context(), newUser.req, role)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Username, user.ID)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUser.req.Username, "username", "", "login name")
	f.StringVar(&newUser.req.Password, "password", "", "initial password")
	f.StringVar(&newUser.req.FirstName, "first-name", "", "first name")
	f.StringVar(&newUser.req.LastName, "last-name", "", "last name")
	f.StringVar(&newUser.req.City, "city", "", "service city")
	f.StringVar(&newUser.role, "role", string(models.RoleUser), "ADMIN, MODERATOR or USER")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
	_ = userCreateCmd.MarkFlagRequired("city")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
