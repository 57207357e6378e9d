package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var withRuns bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persisted test suites",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storeFromFlags(cmd)

			names, err := st.ListSuites()
			if err != nil {
				return fmt.Errorf("failed to list suites: %w", err)
			}

			if len(names) == 0 {
				fmt.Println("No test suites found.")
				return nil
			}

			fmt.Printf("Test suites in %s:\n\n", st.Root())
			for _, name := range names {
				def, err := st.LoadSuite(name)
				if err != nil {
					fmt.Printf("  - %s (error loading: %v)\n", name, err)
					continue
				}
				fmt.Printf("  - %s\n", def.Name)
				if def.Description != "" {
					fmt.Printf("    Description: %s\n", def.Description)
				}
				fmt.Printf("    Scoring method: %s\n", def.ScoringMethod)
				fmt.Printf("    Cases: %d\n", len(def.TestCases))

				if withRuns {
					runs, err := st.ListRuns(name)
					if err == nil && len(runs) > 0 {
						fmt.Printf("    Runs:\n")
						for _, runName := range runs {
							fmt.Printf("      - %s\n", runName)
						}
					}
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&withRuns, "runs", false, "Also list persisted runs per suite")

	return cmd
}
