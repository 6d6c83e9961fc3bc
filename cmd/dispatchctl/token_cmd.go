package main

import (
	"errors"
	"fmt"
	"time"

	"dispatch-app/backend/internal/auth"
	"dispatch-app/backend/internal/config"

	"github.com/spf13/cobra"
)

type tokenOutput struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
		secret  string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.AuthSecret
			}
			if secret == "" {
				return errors.New("no signing secret: set AUTH_SECRET or pass --secret")
			}
			if ttl <= 0 {
				return fmt.Errorf("invalid --ttl %s", ttl)
			}

			token, err := auth.NewTokenService([]byte(secret)).Issue(subject, ttl)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), tokenOutput{
				Subject:   subject,
				ExpiresAt: time.Now().Add(ttl).UTC().Truncate(time.Second),
				Token:     token,
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "dispatcher", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	cmd.Flags().StringVar(&secret, "secret", "", "Signing secret; AUTH_SECRET when empty")
	return cmd
}
