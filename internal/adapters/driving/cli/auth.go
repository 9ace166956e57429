package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JeanYan3D/tinatools/internal/adapters/driving/oauth"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

var (
	authRedirectURL string
	authNoBrowser   bool
	authTimeout     time.Duration
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize access to a Google account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Run the Google consent flow and store the token",
	Long: `Open the Google consent page, wait for the redirect on a local port and
store the resulting token with the configured token store.

The redirect URL must be registered with the OAuth client. It has to be an
http URL on localhost; port 0 picks a free port, which only works with
clients of the "Desktop app" type.

Examples:
  tinatools auth login
  tinatools auth login --no-browser --redirect-url http://127.0.0.1:0/callback`,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().StringVar(&authRedirectURL, "redirect-url", "", "loopback redirect URL (overrides google.redirect_url)")
	authLoginCmd.Flags().BoolVar(&authNoBrowser, "no-browser", false, "print the consent URL instead of opening a browser")
	authLoginCmd.Flags().DurationVar(&authTimeout, "timeout", 5*time.Minute, "how long to wait for the redirect")
	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if !a.Settings.Google.HasClient() {
		return errors.New("google oauth client not configured: set google.client_id and google.client_secret or a credentials file")
	}

	redirect := authRedirectURL
	if redirect == "" {
		redirect = a.Settings.Google.RedirectURL
	}

	server, err := oauth.NewCallbackServer(redirect)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Warn("stop callback server: %v", err)
		}
	}()

	session, err := a.Auth.Begin(server.RedirectURL())
	if err != nil {
		return fmt.Errorf("begin authorization: %w", err)
	}
	server.ExpectState(session.State)

	cmd.Println("Open this URL to authorize tinatools:")
	cmd.Println()
	cmd.Println("  " + session.URL)
	cmd.Println()
	if !authNoBrowser {
		if err := oauth.OpenBrowser(session.URL); err != nil {
			logger.Warn("could not open a browser: %v", err)
		}
	}
	cmd.Printf("Waiting for the redirect on %s ...\n", session.RedirectURL)

	ctx, cancel := context.WithTimeout(cmd.Context(), authTimeout)
	defer cancel()

	code, err := server.WaitForCode(ctx)
	if err != nil {
		return err
	}

	tok, err := a.Auth.Complete(ctx, a.Integration, session, code)
	if err != nil {
		return fmt.Errorf("complete authorization: %w", err)
	}

	cmd.Printf("Authorized %s.\n", a.Integration)
	if !tok.HasRefreshToken() {
		cmd.Println("Warning: Google returned no refresh token; revoke the app's access and log in again to obtain one.")
	}
	return nil
}
