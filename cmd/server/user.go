package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	userEmail    string
	userPassword string
	userAdmin    bool
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage storefront accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account, optionally with the admin role",
	Long: `Creates an account directly in the configured store.

Example:
  computronix user create --email owner@aggarwal.com --password 's3cret-pass' --admin`,
	Args: cobra.NoArgs,
	RunE: runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Account email (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Account password (required)")
	userCreateCmd.Flags().BoolVar(&userAdmin, "admin", false, "Grant the admin role")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.persistent {
		return errors.New("user create needs a persistent store; set store.driver to sqlite or rest")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	user, err := a.auth.CreateUser(ctx, userEmail, userPassword, userAdmin)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s) admin=%t\n", user.Email, user.ID, user.IsAdmin)
	return nil
}
