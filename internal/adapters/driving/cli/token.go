package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JeanYan3D/tinatools/internal/connectors/google"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
)

var (
	tokenIntegration  string
	tokenFile         string
	tokenRefreshToken string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect and manage stored OAuth tokens",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored token with secrets masked",
	RunE:  runTokenShow,
}

var tokenSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store a token obtained elsewhere",
	Long: `Store a token obtained outside tinatools.

--file reads a JSON token, either in the oauth2 layout (access_token,
refresh_token, expiry) or the {created, expires_in} layout written by the
Google PHP client. Use "-" to read it from stdin. --refresh-token stores
a bare refresh token, which is exchanged on first use. With neither flag
the refresh token is prompted for.

Examples:
  tinatools token seed --file token.json
  tinatools token seed --refresh-token 1//0g...`,
	RunE: runTokenSeed,
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the stored token now",
	RunE:  runTokenRefresh,
}

func init() {
	tokenCmd.PersistentFlags().StringVar(&tokenIntegration, "integration", google.DefaultIntegration, "integration the token belongs to")
	tokenSeedCmd.Flags().StringVarP(&tokenFile, "file", "f", "", "JSON token file (- for stdin)")
	tokenSeedCmd.Flags().StringVar(&tokenRefreshToken, "refresh-token", "", "refresh token to store")
	tokenCmd.AddCommand(tokenShowCmd)
	tokenCmd.AddCommand(tokenSeedCmd)
	tokenCmd.AddCommand(tokenRefreshCmd)
	rootCmd.AddCommand(tokenCmd)
}

func runTokenShow(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	tok, err := a.Tokens.Status(cmd.Context(), tokenIntegration)
	if err != nil {
		return err
	}
	if tok == nil {
		cmd.Printf("No token stored for %s. Run 'tinatools auth login'.\n", tokenIntegration)
		return nil
	}
	printToken(cmd, tokenIntegration, tok, a.Settings.Google.Scopes)
	return nil
}

func runTokenSeed(cmd *cobra.Command, _ []string) error {
	tok, err := tokenFromFlags(cmd)
	if err != nil {
		return err
	}

	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.Tokens.Seed(cmd.Context(), tokenIntegration, tok); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	cmd.Printf("Token stored for %s.\n", tokenIntegration)
	return nil
}

func runTokenRefresh(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	tok, err := a.Tokens.ForceRefresh(cmd.Context(), tokenIntegration)
	if err != nil {
		return err
	}
	cmd.Printf("Token refreshed for %s.\n", tokenIntegration)
	printToken(cmd, tokenIntegration, tok, a.Settings.Google.Scopes)
	return nil
}

func tokenFromFlags(cmd *cobra.Command) (domain.StoredToken, error) {
	var tok domain.StoredToken

	switch {
	case tokenFile != "" && tokenRefreshToken != "":
		return tok, errors.New("use either --file or --refresh-token, not both")
	case tokenFile != "":
		var data []byte
		var err error
		if tokenFile == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(tokenFile)
		}
		if err != nil {
			return tok, fmt.Errorf("read token: %w", err)
		}
		if err := json.Unmarshal(data, &tok); err != nil {
			return tok, fmt.Errorf("%w: token file: %v", domain.ErrInvalidInput, err)
		}
		return tok, nil
	case tokenRefreshToken != "":
		tok.RefreshToken = tokenRefreshToken
		return tok, nil
	}

	cmd.Print("Refresh token: ")
	tok.RefreshToken = readSecret(cmd)
	cmd.Println()
	if tok.RefreshToken == "" {
		return tok, errors.New("refresh token is required")
	}
	return tok, nil
}

// printToken shows tok with secrets masked. When the token records its
// scopes, each configured scope it lacks gets a warning line.
func printToken(cmd *cobra.Command, integration string, tok *domain.StoredToken, wanted []string) {
	masked := tok.Masked()
	cmd.Printf("Integration:    %s\n", integration)
	cmd.Printf("Access token:   %s\n", orNone(masked.AccessToken))
	cmd.Printf("Refresh token:  %s\n", orNone(masked.RefreshToken))
	cmd.Printf("Type:           %s\n", orNone(masked.TokenType))
	if tok.ExpiresAt.IsZero() {
		cmd.Println("Expires:        unknown")
	} else {
		cmd.Printf("Expires:        %s\n", tok.ExpiresAt.Local().Format(time.RFC3339))
	}
	cmd.Printf("Expired:        %t\n", tok.IsExpired(time.Now()))
	cmd.Printf("Scopes:         %s\n", orNone(strings.Join(tok.Scopes, " ")))
	if len(tok.Scopes) == 0 {
		return
	}
	for _, scope := range wanted {
		if !tok.HasScope(scope) {
			cmd.Printf("Missing scope:  %s\n", scope)
		}
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret(cmd *cobra.Command) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
