package main

import (
	"context"
	"driftblog/internal/accounts"
	"driftblog/internal/config"
	"driftblog/pkg/logger"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// createSuperuserCommand constructs the 'createsuperuser' subcommand. It is
// the only way a privileged account ever gets created; the startup sequence
// merely checks for one.
func createSuperuserCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Creates a privileged account with staff and superuser rights",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			accountsSvc := accounts.New(strg, accounts.NewOptions(cfg))
			user, err := accountsSvc.CreateSuperuser(ctx, username, email, password)
			if err != nil {
				logger.Fatal(ctx, "could not create superuser", zap.Error(err))
			}

			fmt.Printf("superuser %q created (%s)\n", user.Username, uuid.UUID(user.ID)) //nolint: forbidigo
		},
	}

	cmd.Flags().String("username", "", "Login name of the new superuser")
	cmd.Flags().String("email", "", "Contact email address")
	cmd.Flags().String("password", "", "Password (at least 8 characters)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
