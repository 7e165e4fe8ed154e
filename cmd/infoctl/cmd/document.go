package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentSetCmd)
	documentCmd.AddCommand(documentMergeCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Read and mutate whole documents",
}

// readPayload returns the JSON payload for a mutation: the inline
// argument when present, otherwise stdin.
func readPayload(args []string, idx int) ([]byte, error) {
	if len(args) > idx {
		return []byte(args[idx]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload from stdin: %w", err)
	}
	return data, nil
}

var documentGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the document stored at key",
	Long: `Print the document stored at key.

Examples:
  infoctl document get production
  infoctl document get production -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		doc, err := client.ReadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return formatOutput(doc)
	},
}

var documentSetCmd = &cobra.Command{
	Use:   "set <key> [json]",
	Short: "Replace the document at key",
	Long: `Replace the document at key with the given JSON object.

The payload is taken from the argument, or from stdin when omitted.

Examples:
  infoctl document set production '{"node1": {"state": "running"}}'
  cat snapshot.json | infoctl document set production`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readPayload(args, 1)
		if err != nil {
			return err
		}
		client := NewInfoClient(serverURL)
		if err := client.ReplaceDocument(cmd.Context(), args[0], body); err != nil {
			return err
		}
		fmt.Printf("%s document %s stored\n", okFmt("OK"), keyFmt(args[0]))
		return nil
	},
}

var documentMergeCmd = &cobra.Command{
	Use:   "merge <key> [json]",
	Short: "Merge a JSON fragment into the document at key",
	Long: `Recursively merge the given JSON object into the document at key.

Scalars in the fragment replace stored scalars, list elements are
appended when absent, and nested objects merge field by field.

Examples:
  infoctl document merge production '{"node1": {"cores": 16}}'
  cat update.json | infoctl document merge production`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readPayload(args, 1)
		if err != nil {
			return err
		}
		client := NewInfoClient(serverURL)
		if err := client.MergeDocument(cmd.Context(), args[0], body); err != nil {
			return err
		}
		fmt.Printf("%s document %s merged\n", okFmt("OK"), keyFmt(args[0]))
		return nil
	},
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Clear the document at key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		if err := client.DeleteDocument(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s document %s deleted\n", okFmt("OK"), keyFmt(args[0]))
		return nil
	},
}
