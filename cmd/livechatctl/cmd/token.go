package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SARVESHVARADKAR123/livechat/internal/auth"
	"github.com/SARVESHVARADKAR123/livechat/internal/config"
)

// newTokenCmd mints a session token, standing in for the identity provider in
// development and smoke tests.
func newTokenCmd(cfg func() *config.Config) *cobra.Command {
	var (
		user auth.User
		ttl  time.Duration
	)

	c := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed session token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user.UID == "" {
				return errors.New("--uid is required")
			}
			conf := cfg()
			if ttl <= 0 {
				ttl = conf.TokenTTL
			}

			tokens := auth.NewTokens(conf.JWTSecret, conf.JWTIssuer, conf.JWTAudience, ttl)
			token, err := tokens.Generate(user)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	c.Flags().StringVar(&user.UID, "uid", "", "user id (token subject)")
	c.Flags().StringVar(&user.DisplayName, "name", "", "display name")
	c.Flags().StringVar(&user.Email, "email", "", "email address")
	c.Flags().StringVar(&user.PhotoURL, "picture", "", "profile photo url")
	c.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to TOKEN_TTL)")
	return c
}
