package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	entityCmd.AddCommand(entityGetCmd)
	entityCmd.AddCommand(entityCreateCmd)
	entityCmd.AddCommand(entityUpdateCmd)
	entityCmd.AddCommand(entityDeleteCmd)
	rootCmd.AddCommand(entityCmd)
}

var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Manage named entities within a document",
}

var entityGetCmd = &cobra.Command{
	Use:   "get <key> <name>",
	Short: "Print a single entity",
	Long: `Print the entity stored under name in the document at key.

Examples:
  infoctl entity get production node1
  infoctl entity get production node1 -o yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		entity, err := client.GetEntity(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return formatOutput(entity)
	},
}

var entityCreateCmd = &cobra.Command{
	Use:   "create <key> <name> [json]",
	Short: "Create a new entity",
	Long: `Create a new entity under name in the document at key.

Creation fails if the name is already taken. The payload is taken
from the argument, or from stdin when omitted.

Examples:
  infoctl entity create production node1 '{"state": "pending"}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readPayload(args, 2)
		if err != nil {
			return err
		}
		client := NewInfoClient(serverURL)
		if err := client.CreateEntity(cmd.Context(), args[0], args[1], body); err != nil {
			return err
		}
		fmt.Printf("%s entity %s created in %s\n", okFmt("OK"), keyFmt(args[1]), keyFmt(args[0]))
		return nil
	},
}

var entityUpdateCmd = &cobra.Command{
	Use:   "update <key> <name> [json]",
	Short: "Update attributes of an existing entity",
	Long: `Update an existing entity under name in the document at key.

Each attribute in the payload replaces the stored attribute wholesale;
attributes not named in the payload are untouched.

Examples:
  infoctl entity update production node1 '{"state": "running"}'`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readPayload(args, 2)
		if err != nil {
			return err
		}
		client := NewInfoClient(serverURL)
		if err := client.UpdateEntity(cmd.Context(), args[0], args[1], body); err != nil {
			return err
		}
		fmt.Printf("%s entity %s updated in %s\n", okFmt("OK"), keyFmt(args[1]), keyFmt(args[0]))
		return nil
	},
}

var entityDeleteCmd = &cobra.Command{
	Use:   "delete <key> <name>",
	Short: "Delete an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewInfoClient(serverURL)
		if err := client.DeleteEntity(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s entity %s deleted from %s\n", okFmt("OK"), keyFmt(args[1]), keyFmt(args[0]))
		return nil
	},
}
