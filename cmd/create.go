package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptbench/promptbench/internal/runner"
)

func newCreateCmd() *cobra.Command {
	var (
		method          string
		description     string
		dataPath        string
		inputColumn     string
		referenceColumn string
	)

	cmd := &cobra.Command{
		Use:   "create <suite-name>",
		Short: "Create a test suite from a CSV of inputs and reference outputs",
		Long: `Build a named test suite from a CSV file. The file needs an input column
(default 'input') and, for scoring methods that compare against references,
a reference column (default 'reference_output').

If a suite with the same name already exists it is reused as-is and the
data and scoring method arguments are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			s, err := runner.NewSuite(name, method,
				runner.WithStore(storeFromFlags(cmd)),
				runner.WithDescription(description),
				runner.WithReferenceDataPath(dataPath),
				runner.WithInputColumn(inputColumn),
				runner.WithReferenceColumn(referenceColumn),
			)
			if err != nil {
				return err
			}

			if s.Reused {
				fmt.Printf("Suite %q already exists; reusing it (%d cases, scoring method %s).\n",
					s.Def.Name, len(s.Def.TestCases), s.Def.ScoringMethod)
				return nil
			}

			fmt.Printf("Created suite %q with %d cases (scoring method %s).\n",
				s.Def.Name, len(s.Def.TestCases), s.Def.ScoringMethod)
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "exact_match", "Scoring method (see 'promptbench methods')")
	cmd.Flags().StringVar(&description, "description", "", "Short description of the task tested by this suite")
	cmd.Flags().StringVar(&dataPath, "data", "", "CSV file with inputs and reference outputs")
	cmd.Flags().StringVar(&inputColumn, "input-column", runner.DefaultInputColumn, "Column holding inputs")
	cmd.Flags().StringVar(&referenceColumn, "reference-column", runner.DefaultReferenceColumn, "Column holding reference outputs")

	return cmd
}
