package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	jwttoken "missionsuivi/internal/jwt_token"
	"missionsuivi/internal/platform/config"
	"missionsuivi/internal/platform/middleware"
)

// TokenCmd mints a bearer token signed with JWT_SIGNING_KEY, for operators
// and smoke tests.
func TokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != middleware.RoleAdmin && role != middleware.RoleSupervisor && role != "controleur" {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			token, err := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer).
				GenerateToken(subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "sub", "", "token subject")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "role claim: admin, superviseur or controleur")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
