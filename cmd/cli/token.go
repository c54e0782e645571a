package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gosales/internal/domain"
	"github.com/iho/gosales/internal/infrastructure/auth"
)

// tokenCmd mints an operator token locally with the server's secret.
func tokenCmd() *cobra.Command {
	var (
		secret string
		id     string
		name   string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a secret is required: pass --secret or set JWT_SECRET")
			}
			if id == "" {
				return errors.New("--id is required")
			}

			op := &domain.Operator{ID: id, Name: name, Role: domain.Role(role)}
			if !op.Role.IsValid() {
				return fmt.Errorf("invalid role %q: use admin, editor or viewer", role)
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(op)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&id, "id", "", "Operator ID")
	cmd.Flags().StringVar(&name, "name", "", "Operator display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleViewer), "Operator role: admin, editor or viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
