package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vc3-project/vc3-info-service/pkg/clierror"
)

var pairingWait bool

func init() {
	pairingResolveCmd.Flags().BoolVar(&pairingWait, "wait", false, "Poll until the credential is issued")
	pairingCmd.AddCommand(pairingRequestCmd)
	pairingCmd.AddCommand(pairingResolveCmd)
	rootCmd.AddCommand(pairingCmd)
}

var pairingCmd = &cobra.Command{
	Use:   "pairing",
	Short: "File and resolve pairing requests",
}

var pairingRequestCmd = &cobra.Command{
	Use:   "request <key>",
	Short: "File a new pairing request",
	Long: `File a new pairing request in the document at key.

The server answers with a generated entry name and a one-time code.
Keep the code: it is shown exactly once, and whoever presents it
collects the credential.

Examples:
  infoctl pairing request pairing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		req, err := client.CreatePairing(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return formatOutput(req)
	},
}

// resolveRetryInterval matches the retry hint the server sends while
// the credential is pending.
const resolveRetryInterval = 30 * time.Second

var pairingResolveCmd = &cobra.Command{
	Use:   "resolve <key> <code>",
	Short: "Collect the credential for a pairing code",
	Long: `Present a pairing code and collect the issued credential.

Resolution consumes the code; a second resolve with the same code
always fails. With --wait, polls every 30 seconds until the
credential has been issued.

Examples:
  infoctl pairing resolve pairing 3f8a91c2...
  infoctl pairing resolve pairing 3f8a91c2... --wait`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		for {
			entry, err := client.ResolvePairing(cmd.Context(), args[0], args[1])
			if err == nil {
				return formatOutput(entry)
			}
			var ce *clierror.CLIError
			if !pairingWait || !errors.As(err, &ce) || ce.Code != clierror.CodePairingPending {
				return err
			}
			fmt.Printf("%s credential not issued yet, retrying in %s\n", errFmt("PENDING"), resolveRetryInterval)
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(resolveRetryInterval):
			}
		}
	},
}
