// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

func newTokenCommand(state *runtime) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed operator token for the admin API",
		Long: `Issue a signed operator token for the admin API.

Requires JWT_PRIVATE_KEY_PATH. The token is printed on stdout and nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			operatorRole := sec.UserRole(role)
			if !operatorRole.IsValid() {
				return fmt.Errorf("unknown role %q, want %s or %s", role, sec.RoleAdmin, sec.RoleModerator)
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive, got %s", ttl)
			}
			if state.cfg.JWTPrivKeyPath == "" {
				return fmt.Errorf("JWT_PRIVATE_KEY_PATH is not set")
			}

			tokens, err := sec.NewTokenService(state.cfg.JWTPrivKeyPath, state.cfg.JWTPubKeyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			token, err := tokens.GenerateAccessToken(subject, subject, operatorRole, ttl)
			if err != nil {
				return err
			}

			if state.asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"token":     token,
					"subject":   subject,
					"role":      operatorRole,
					"expiresAt": time.Now().Add(ttl).UTC(),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "Operator name recorded in the token")
	cmd.Flags().StringVar(&role, "role", string(sec.RoleModerator), "Operator role: admin or moderator")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")

	return cmd
}
