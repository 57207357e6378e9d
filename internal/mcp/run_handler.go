package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptbench/promptbench/internal/runner"
	"github.com/promptbench/promptbench/internal/server"
)

func registerRunTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	runTool := mcp.NewTool("run_suite",
		mcp.WithDescription("Score a CSV of candidate outputs against a persisted test suite"),
		mcp.WithString("suite",
			mcp.Required(),
			mcp.Description("Name of the suite to score against"),
		),
		mcp.WithString("run_name",
			mcp.Required(),
			mcp.Description("Name for the new test run"),
		),
		mcp.WithString("candidate_path",
			mcp.Required(),
			mcp.Description("CSV file with candidate outputs, one per test case in suite order"),
		),
		mcp.WithString("candidate_column",
			mcp.Description("Column holding candidate outputs (default 'candidate_output')"),
		),
		mcp.WithString("context_column",
			mcp.Description("Column holding supporting context for context-aware scoring methods"),
		),
		mcp.WithNumber("batch_size",
			mcp.Description("Cases scored per call into the scoring method (default 32)"),
		),
		mcp.WithString("model_name",
			mcp.Description("Name of the model that produced the candidates"),
		),
		mcp.WithString("model_version",
			mcp.Description("Version of the model that produced the candidates"),
		),
		mcp.WithString("foundation_model",
			mcp.Description("Foundation model identifier"),
		),
		mcp.WithString("prompt_template",
			mcp.Description("Prompt template identifier"),
		),
	)
	s.AddTool(runTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRunSuite(ctx, request, sc)
	})

	getTool := mcp.NewTool("get_runs",
		mcp.WithDescription("Retrieve persisted test runs for a suite"),
		mcp.WithString("suite",
			mcp.Required(),
			mcp.Description("Name of the suite"),
		),
		mcp.WithString("run_name",
			mcp.Description("Specific run to retrieve (lists all runs when omitted)"),
		),
	)
	s.AddTool(getTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetRuns(ctx, request, sc)
	})

	return nil
}

func handleRunSuite(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	suiteName, ok := args["suite"].(string)
	if !ok || suiteName == "" {
		return mcp.NewToolResultError("suite is required"), nil
	}
	runName, ok := args["run_name"].(string)
	if !ok || runName == "" {
		return mcp.NewToolResultError("run_name is required"), nil
	}

	def, err := sc.Store.LoadSuite(suiteName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suite %q not found: %v", suiteName, err)), nil
	}

	candidatePath, _ := args["candidate_path"].(string)
	resolvedPath, err := resolveDataPath(sc.DataDir, candidatePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid candidate_path: %v", err)), nil
	}

	s, err := runner.NewSuite(suiteName, def.ScoringMethod, runner.WithStore(sc.Store))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to open suite: %v", err)), nil
	}

	opts := []runner.RunOption{
		runner.WithCandidateDataPath(resolvedPath),
	}
	if col, ok := args["candidate_column"].(string); ok && col != "" {
		opts = append(opts, runner.WithCandidateColumn(col))
	}
	if col, ok := args["context_column"].(string); ok && col != "" {
		opts = append(opts, runner.WithContextColumn(col))
	}
	if n, ok := args["batch_size"].(float64); ok && n != 0 {
		opts = append(opts, runner.WithBatchSize(int(n)))
	}
	if v, ok := args["model_name"].(string); ok && v != "" {
		opts = append(opts, runner.WithModelName(v))
	}
	if v, ok := args["model_version"].(string); ok && v != "" {
		opts = append(opts, runner.WithModelVersion(v))
	}
	if v, ok := args["foundation_model"].(string); ok && v != "" {
		opts = append(opts, runner.WithFoundationModel(v))
	}
	if v, ok := args["prompt_template"].(string); ok && v != "" {
		opts = append(opts, runner.WithPromptTemplate(v))
	}

	run, err := s.Run(ctx, runName, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("test run failed: %v", err)), nil
	}

	summary := map[string]interface{}{
		"suite":      suiteName,
		"run":        run.Name,
		"cases":      len(run.Outputs),
		"mean_score": run.MeanScore(),
		"run_dir":    run.Dir,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleGetRuns(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	suiteName, ok := args["suite"].(string)
	if !ok || suiteName == "" {
		return mcp.NewToolResultError("suite is required"), nil
	}

	if runName, _ := args["run_name"].(string); runName != "" {
		run, err := sc.Store.LoadRun(suiteName, runName)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run %q not found: %v", runName, err)), nil
		}
		data, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal run: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}

	names, err := sc.Store.ListRuns(suiteName)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}

	type runInfo struct {
		Name      string  `json:"name"`
		Cases     int     `json:"cases"`
		MeanScore float64 `json:"mean_score"`
		ModelName string  `json:"model_name,omitempty"`
		CreatedAt string  `json:"created_at"`
	}

	var runs []runInfo
	for _, name := range names {
		run, err := sc.Store.LoadRun(suiteName, name)
		if err != nil {
			continue
		}
		runs = append(runs, runInfo{
			Name:      run.Name,
			Cases:     len(run.Outputs),
			MeanScore: run.MeanScore(),
			ModelName: run.Provenance.ModelName,
			CreatedAt: run.Metadata.CreatedAt.String(),
		})
	}

	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal runs: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
