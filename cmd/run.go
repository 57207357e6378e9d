package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/promptbench/promptbench/internal/runner"
)

// runDefinition is the YAML form of a scoring run, an alternative to flags.
type runDefinition struct {
	RunName         string `yaml:"run_name"`
	CandidatePath   string `yaml:"candidate_path"`
	CandidateColumn string `yaml:"candidate_column"`
	ContextColumn   string `yaml:"context_column"`
	BatchSize       int    `yaml:"batch_size"`
	Save            *bool  `yaml:"save"`
	ModelName       string `yaml:"model_name"`
	ModelVersion    string `yaml:"model_version"`
	FoundationModel string `yaml:"foundation_model"`
	PromptTemplate  string `yaml:"prompt_template"`
}

func newRunCmd() *cobra.Command {
	var (
		configPath      string
		runName         string
		candidatePath   string
		candidateColumn string
		contextColumn   string
		batchSize       int
		noSave          bool
		modelName       string
		modelVersion    string
		foundationModel string
		promptTemplate  string
	)

	cmd := &cobra.Command{
		Use:   "run <suite-name>",
		Short: "Score candidate outputs against a test suite",
		Long: `Score a CSV of candidate outputs against a persisted suite. Candidates must
line up one-to-one with the suite's test cases, in the same order.

Run settings can come from flags or from a YAML run definition (--config);
flags take precedence over the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suiteName := args[0]

			def := runDefinition{}
			if configPath != "" {
				data, err := os.ReadFile(configPath)
				if err != nil {
					return fmt.Errorf("failed to read run definition: %w", err)
				}
				if err := yaml.Unmarshal(data, &def); err != nil {
					return fmt.Errorf("failed to parse run definition: %w", err)
				}
			}

			// Flags override the definition file.
			if runName != "" {
				def.RunName = runName
			}
			if candidatePath != "" {
				def.CandidatePath = candidatePath
			}
			if candidateColumn != "" {
				def.CandidateColumn = candidateColumn
			}
			if contextColumn != "" {
				def.ContextColumn = contextColumn
			}
			if batchSize != 0 {
				def.BatchSize = batchSize
			}
			if noSave {
				f := false
				def.Save = &f
			}
			if modelName != "" {
				def.ModelName = modelName
			}
			if modelVersion != "" {
				def.ModelVersion = modelVersion
			}
			if foundationModel != "" {
				def.FoundationModel = foundationModel
			}
			if promptTemplate != "" {
				def.PromptTemplate = promptTemplate
			}

			if def.RunName == "" {
				return fmt.Errorf("a run name is required (--run-name or run_name in --config)")
			}

			st := storeFromFlags(cmd)
			existing, err := st.LoadSuite(suiteName)
			if err != nil {
				return fmt.Errorf("failed to load suite: %w", err)
			}

			s, err := runner.NewSuite(suiteName, existing.ScoringMethod, runner.WithStore(st))
			if err != nil {
				return err
			}

			opts := []runner.RunOption{
				runner.WithCandidateDataPath(def.CandidatePath),
			}
			if def.CandidateColumn != "" {
				opts = append(opts, runner.WithCandidateColumn(def.CandidateColumn))
			}
			if def.ContextColumn != "" {
				opts = append(opts, runner.WithContextColumn(def.ContextColumn))
			}
			if def.BatchSize != 0 {
				opts = append(opts, runner.WithBatchSize(def.BatchSize))
			}
			if def.Save != nil {
				opts = append(opts, runner.WithSave(*def.Save))
			}
			if def.ModelName != "" {
				opts = append(opts, runner.WithModelName(def.ModelName))
			}
			if def.ModelVersion != "" {
				opts = append(opts, runner.WithModelVersion(def.ModelVersion))
			}
			if def.FoundationModel != "" {
				opts = append(opts, runner.WithFoundationModel(def.FoundationModel))
			}
			if def.PromptTemplate != "" {
				opts = append(opts, runner.WithPromptTemplate(def.PromptTemplate))
			}

			run, err := s.Run(cmd.Context(), def.RunName, opts...)
			if err != nil {
				return err
			}

			fmt.Printf("Run %q complete: %d cases scored with %s.\n",
				run.Name, len(run.Outputs), s.Def.ScoringMethod)
			fmt.Printf("Mean score: %.4f\n", run.MeanScore())
			if run.Dir != "" {
				fmt.Printf("Saved to: %s\n", run.Dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML run definition file")
	cmd.Flags().StringVar(&runName, "run-name", "", "Name for the test run")
	cmd.Flags().StringVar(&candidatePath, "candidates", "", "CSV file with candidate outputs")
	cmd.Flags().StringVar(&candidateColumn, "candidate-column", "", "Column holding candidate outputs (default 'candidate_output')")
	cmd.Flags().StringVar(&contextColumn, "context-column", "", "Column holding supporting context")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Cases scored per call into the scoring method (default 32)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not persist the run to disk")
	cmd.Flags().StringVar(&modelName, "model-name", "", "Name of the model that produced the candidates")
	cmd.Flags().StringVar(&modelVersion, "model-version", "", "Version of the model that produced the candidates")
	cmd.Flags().StringVar(&foundationModel, "foundation-model", "", "Foundation model identifier")
	cmd.Flags().StringVar(&promptTemplate, "prompt-template", "", "Prompt template identifier")

	return cmd
}
