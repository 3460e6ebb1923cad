package cmd

import (
	"fmt"

	"github.com/killallgit/podcast-runtime/internal/services/credentials"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored Spotify app credentials",
		Long: `Store or remove the Spotify client ID and secret in the system keyring.

Create an app at https://developer.spotify.com/dashboard to obtain them.
Credentials set in the environment or config file take precedence over
stored ones.`,
	}

	authCmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Prompt for credentials and store them in the keyring",
		Args:  cobra.NoArgs,
		RunE:  runAuthLogin,
	}, &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials from the keyring",
		Args:  cobra.NoArgs,
		RunE:  runAuthLogout,
	})

	return authCmd
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if _, err := setup(cmd); err != nil {
		return err
	}

	creds, err := promptFor(cmd, true)(credentials.Credentials{})
	if err != nil {
		return apperrors.Unauthorized("reading credentials", err)
	}
	if !creds.Complete() {
		return apperrors.Unauthorized("client id and secret are both required", nil)
	}

	if err := credentials.Save(creds); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "storing credentials in the keyring")
	}

	logrus.Debug("credentials stored")
	fmt.Fprintln(cmd.OutOrStdout(), "Credentials stored in the system keyring.")
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	if _, err := setup(cmd); err != nil {
		return err
	}

	if err := credentials.Delete(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "removing credentials from the keyring")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Stored credentials removed.")
	return nil
}
