package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/fleetcast/pkg/infrastructure/rules"
)

// newRulesCommand creates the rules command with subcommands
func newRulesCommand(app *App) *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect business rule sets",
		Long: `List and display the business rule sets a forecast can run against.

Built-in rule sets are always available; YAML documents in --rules-dir
(or forecast.rules_dir) are added on top and replace built-ins of the
same name.

Examples:
  fleetcast rules list
  fleetcast rules show baseline
  fleetcast rules show legacy-2023 --file legacy.yaml`,
	}
	cmd.PersistentFlags().StringVar(&rulesDir, "rules-dir", "", "Directory with additional YAML rule sets")

	cmd.AddCommand(newRulesListCommand(app, &rulesDir))
	cmd.AddCommand(newRulesShowCommand(app, &rulesDir))

	return cmd
}

func newRulesListCommand(app *App, rulesDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available rule sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.RuleSets(resolveRulesDir(app, *rulesDir))
			if err != nil {
				return err
			}
			names, err := repo.ListRuleSets()
			if err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "%-16s %-10s %-12s %s\n", "Name", "Locations", "Fleet", "Description")
			fmt.Fprintf(app.Out, "%-16s %-10s %-12s %s\n", "----------------", "----------", "------------", "-----------")
			for _, name := range names {
				ruleSet, err := repo.GetRuleSet(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "%-16s %-10d %-12.1f %s\n",
					ruleSet.Name,
					len(ruleSet.Locations),
					ruleSet.Fleet.TotalInternalFleetSize(),
					ruleSet.Description)
			}
			return nil
		},
	}
}

func newRulesShowCommand(app *App, rulesDir *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a rule set as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := app.RuleSets(resolveRulesDir(app, *rulesDir))
			if err != nil {
				return err
			}
			ruleSet, err := repo.GetRuleSet(args[0])
			if err != nil {
				return err
			}

			if file != "" {
				if err := rules.WriteFile(ruleSet, file); err != nil {
					return err
				}
				fmt.Fprintf(app.Err, "💾 Rule set %s saved to: %s\n", ruleSet.Name, file)
				return nil
			}

			data, err := rules.Marshal(ruleSet)
			if err != nil {
				return err
			}
			_, err = app.Out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Write the rule set to this YAML file instead of stdout")

	return cmd
}

func resolveRulesDir(app *App, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return app.Config.Forecast.RulesDir
}
