package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptbench/promptbench/internal/scoring"
)

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List registered scoring methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := scoring.Names()
			if len(names) == 0 {
				fmt.Println("No scoring methods registered.")
				return nil
			}

			fmt.Println("Available scoring methods:")
			for _, name := range names {
				method, err := scoring.Load(name)
				if err != nil {
					fmt.Printf("  - %s (error: %v)\n", name, err)
					continue
				}
				if method.RequiresReference() {
					fmt.Printf("  - %s (requires reference outputs)\n", name)
				} else {
					fmt.Printf("  - %s\n", name)
				}
			}
			return nil
		},
	}
}
