package main

import (
	"fmt"

	"MedlyChatbot/internal/config"
	"MedlyChatbot/pkg/knowledge"

	"github.com/spf13/cobra"
)

var checkDump bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load and validate the configured knowledge table",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkDump, "dump", false, "print the loaded table as YAML")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	table, env, err := loadTable(cmd.Context())
	if err != nil {
		return err
	}

	if _, err := table.Matcher(config.MatcherConfig(env)); err != nil {
		return fmt.Errorf("compile knowledge table: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source:   %s\n", env.KnowledgeSource)
	fmt.Fprintf(out, "intents:  %d\n", len(table.Entries))
	fmt.Fprintf(out, "products: %d\n", len(table.Products))

	if checkDump {
		data, err := knowledge.MarshalYAML(table)
		if err != nil {
			return fmt.Errorf("encode knowledge table: %w", err)
		}
		fmt.Fprintf(out, "---\n%s", data)
	}

	fmt.Fprintln(out, "ok")
	return nil
}
