package cli

import (
	"github.com/spf13/cobra"

	"github.com/JeanYan3D/tinatools/internal/adapters/driving/webhook"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Long: `Accept tool calls over HTTP and answer them with Google Workspace data.

The server accepts POST on / and /webhook. Every call is answered with
HTTP 200; failures are reported inside the response envelope, whose shape
follows the server.envelope setting (vapi, vapi-legacy or generic).

Examples:
  tinatools serve
  tinatools serve --addr 127.0.0.1:9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := a.Settings.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	server, err := webhook.NewServer(a.Normalizer, a.Dispatcher, a.Settings.Server.Envelope, *logger.Get())
	if err != nil {
		return err
	}
	return server.ListenAndServe(cmd.Context(), addr)
}
