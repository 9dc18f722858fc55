package main

import (
	"errors"
	"fmt"
	"github.com/ougirez/amrmap/internal/pkg/constants"
	"github.com/ougirez/amrmap/internal/pkg/utils"
	"github.com/spf13/cobra"
	"time"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin token for the secret_token cookie",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Auth.Secret == "" || cfg.Auth.SigningKey == "" {
			return errors.New(constants.ViperSecretKey + " and " + constants.ViperJWTSigningKey + " must be set")
		}

		token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: cfg.Auth.Secret}, cfg.Auth.SigningKey, tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
}
