package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/shared/config"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List the prompts in the active prompt file and their placeholders",
	RunE:  runPrompts,
}

func init() {
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, _ []string) error {
	path := promptsFile
	if path == "" {
		path = config.Load().PromptsFile
	}
	set, err := bootstrap.LoadPrompts(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source: %s\n", set.Source())
	for _, name := range set.Names() {
		placeholders, err := set.Placeholders(name)
		if err != nil {
			return err
		}
		vars := "-"
		if len(placeholders) > 0 {
			vars = "{" + strings.Join(placeholders, "} {") + "}"
		}
		fmt.Fprintf(out, "%s\t%s", name, vars)
		if desc := set.Description(name); desc != "" {
			fmt.Fprintf(out, "\t%s", desc)
		}
		fmt.Fprintln(out)
	}
	return nil
}
