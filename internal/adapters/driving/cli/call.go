package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeanYan3D/tinatools/internal/adapters/driving/webhook"
	"github.com/JeanYan3D/tinatools/internal/core/domain"
	"github.com/JeanYan3D/tinatools/internal/core/services"
)

var (
	callFile     string
	callDryRun   bool
	callEnvelope string
)

var callCmd = &cobra.Command{
	Use:   "call [payload]",
	Short: "Run one webhook payload without starting the server",
	Long: `Normalize and dispatch a single webhook payload, printing the response
envelope the server would return.

The payload is read from the argument, from --file, or from stdin.

Examples:
  tinatools call '{"function":"list","params":{"pageSize":5}}'
  tinatools call --file payload.json --envelope generic
  cat payload.json | tinatools call --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVarP(&callFile, "file", "f", "", "read the payload from a file")
	callCmd.Flags().BoolVar(&callDryRun, "dry-run", false, "print the normalized call without dispatching it")
	callCmd.Flags().StringVar(&callEnvelope, "envelope", "", "response shape: vapi, vapi-legacy or generic")
	rootCmd.AddCommand(callCmd)
}

func runCall(cmd *cobra.Command, args []string) error {
	raw, err := readPayload(cmd, args)
	if err != nil {
		return err
	}

	if callDryRun {
		call, err := services.NewPayloadNormalizer().Normalize(cmd.Context(), raw)
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]any{
			"correlationId": call.CorrelationID,
			"operation":     call.Operation,
			"arguments":     call.Arguments,
			"strategy":      call.Strategy,
		})
	}

	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	style := a.Settings.Server.Envelope
	if callEnvelope != "" {
		style = domain.EnvelopeStyle(callEnvelope)
		if !style.IsValid() {
			return fmt.Errorf("%w: envelope style %q", domain.ErrInvalidInput, callEnvelope)
		}
	}

	var env domain.ResponseEnvelope
	call, err := a.Normalizer.Normalize(cmd.Context(), raw)
	if err != nil {
		env.Error = domain.ErrMalformedPayload.Error()
		if call != nil {
			env.CorrelationID = call.CorrelationID
		}
	} else {
		env = a.Dispatcher.Dispatch(cmd.Context(), *call)
	}

	if err := printJSON(cmd, webhook.Shape(style, env)); err != nil {
		return err
	}
	if env.Failed() {
		return fmt.Errorf("call failed: %s", env.Error)
	}
	return nil
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, error) {
	switch {
	case len(args) == 1 && callFile != "":
		return nil, errors.New("pass the payload as an argument or with --file, not both")
	case len(args) == 1:
		return []byte(args[0]), nil
	case callFile != "" && callFile != "-":
		data, err := os.ReadFile(callFile)
		if err != nil {
			return nil, fmt.Errorf("read payload: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("read payload from stdin: %w", err)
	}
	return data, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
