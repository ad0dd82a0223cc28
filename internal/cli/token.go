package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/service"
)

func init() {
	var userID, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token signed with the configured secret",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			if cfg.JWT.Secret == "" {
				exitErr("mint token", fmt.Errorf("jwt.secret is not configured"))
			}
			tok, err := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration).IssueToken(userID, domain.Role(role))
			if err != nil {
				exitErr("mint token", err)
			}
			fmt.Println(tok)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Subject user id")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "Role: user or admin")
	_ = cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}
