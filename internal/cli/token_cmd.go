package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/service"
	"github.com/noah-isme/ssp-api/pkg/config"
)

func newTokenCmd(app *App) *cobra.Command {
	var (
		secret string
		userID string
		role   string
		email  string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a development access token",
		Long:  "Signs an HS256 token with JWT_SECRET (or --secret) for calling admin routes on a local server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if cfg.Env == config.EnvProduction {
					return fmt.Errorf("refusing to sign tokens with the production secret")
				}
				secret = cfg.JWT.Secret
			}
			userRole := models.UserRole(strings.ToUpper(role))
			if !userRole.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			token, err := service.NewTokenService(secret).Issue(userID, userRole, email, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(app.Out, token)
			return err
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&userID, "user", "dev-admin", "Subject user id")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "STUDENT, ADMIN or ROOT")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
