package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kevinaud/repo-map/internal/plan"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and validate render plans",
}

var planValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a render plan file",
	Long: `Parse and validate a render plan, reporting every violation
rather than stopping at the first. Exits non-zero when the plan is
invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (budget %d tokens)\n", args[0], p.Budget)
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the effective plan with defaults applied",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return err
		}
		out, err := p.EncodeYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	planCmd.AddCommand(planValidateCmd)
	planCmd.AddCommand(planShowCmd)
	rootCmd.AddCommand(planCmd)
}
