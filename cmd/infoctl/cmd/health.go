package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Long: `Check connectivity and version of the info service.

Examples:
  infoctl health
  infoctl --server https://info.example.org:20181 health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		out, err := client.Health(cmd.Context())
		if err != nil {
			fmt.Printf("%s %s unreachable\n", errFmt("FAIL"), serverURL)
			return err
		}
		fmt.Printf("%s %s (version %v)\n", okFmt("OK"), serverURL, out["version"])
		return nil
	},
}
