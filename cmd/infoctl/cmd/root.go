// Package cmd implements the infoctl CLI commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vc3-project/vc3-info-service/internal/version"
)

var (
	// Global flags
	serverURL    string
	outputFormat string

	okFmt  = color.New(color.FgGreen).SprintFunc()
	errFmt = color.New(color.FgRed, color.Bold).SprintFunc()
	keyFmt = color.New(color.FgCyan).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "infoctl",
	Short: "CLI for the shared JSON document store",
	Long: `infoctl is a command-line client for the info service.

It provides commands to read, replace, merge, and delete shared JSON
documents, manage named entities within them, and run the pairing
handoff flow.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// OutputFormat returns the format selected by the --output flag.
func OutputFormat() string {
	return outputFormat
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for infoctl.

To load completions:

Bash:
  # Add to ~/.bashrc:
  source <(infoctl completion bash)

Zsh:
  # Add to ~/.zshrc:
  source <(infoctl completion zsh)

Fish:
  # Add to ~/.config/fish/completions/:
  infoctl completion fish > ~/.config/fish/completions/infoctl.fish

PowerShell:
  # Add to your PowerShell profile:
  infoctl completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:20181", "Info service base URL")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json, yaml")
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// formatOutput prints data in the format selected by the --output flag.
func formatOutput(data interface{}) error {
	switch outputFormat {
	case "yaml":
		return outputYAML(data)
	default:
		return outputJSON(data)
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
