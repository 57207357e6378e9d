package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/promptbench/promptbench/internal/runner"
	"github.com/promptbench/promptbench/internal/scoring"
	"github.com/promptbench/promptbench/internal/server"
)

func registerSuiteTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_suites",
		mcp.WithDescription("List persisted test suites with metadata"),
	)
	s.AddTool(listTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListSuites(ctx, request, sc)
	})

	createTool := mcp.NewTool("create_suite",
		mcp.WithDescription("Create a test suite from a CSV of inputs and reference outputs. If a suite with the same name exists it is reused as-is."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the suite; suites are looked up by name before creation"),
		),
		mcp.WithString("scoring_method",
			mcp.Required(),
			mcp.Description("Scoring method identifier (see list_scoring_methods)"),
		),
		mcp.WithString("data_path",
			mcp.Required(),
			mcp.Description("CSV file with the suite's inputs and reference outputs"),
		),
		mcp.WithString("description",
			mcp.Description("Short description of the task tested by this suite"),
		),
		mcp.WithString("input_column",
			mcp.Description("Column holding inputs (default 'input')"),
		),
		mcp.WithString("reference_column",
			mcp.Description("Column holding reference outputs (default 'reference_output')"),
		),
	)
	s.AddTool(createTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateSuite(ctx, request, sc)
	})

	methodsTool := mcp.NewTool("list_scoring_methods",
		mcp.WithDescription("List the registered scoring method identifiers"),
	)
	s.AddTool(methodsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListScoringMethods(ctx, request)
	})

	return nil
}

func handleListSuites(_ context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	names, err := sc.Store.ListSuites()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list suites: %v", err)), nil
	}

	type suiteInfo struct {
		Name          string `json:"name"`
		Description   string `json:"description"`
		ScoringMethod string `json:"scoring_method"`
		CaseCount     int    `json:"case_count"`
		CreatedAt     string `json:"created_at"`
	}

	var suites []suiteInfo
	for _, name := range names {
		def, err := sc.Store.LoadSuite(name)
		if err != nil {
			continue
		}
		suites = append(suites, suiteInfo{
			Name:          def.Name,
			Description:   def.Description,
			ScoringMethod: def.ScoringMethod,
			CaseCount:     len(def.TestCases),
			CreatedAt:     def.Metadata.CreatedAt.String(),
		})
	}

	data, err := json.MarshalIndent(suites, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal suites: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleCreateSuite(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	method, ok := args["scoring_method"].(string)
	if !ok || method == "" {
		return mcp.NewToolResultError("scoring_method is required"), nil
	}

	dataPath, _ := args["data_path"].(string)
	resolvedPath, err := resolveDataPath(sc.DataDir, dataPath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid data_path: %v", err)), nil
	}

	opts := []runner.SuiteOption{
		runner.WithStore(sc.Store),
		runner.WithReferenceDataPath(resolvedPath),
	}
	if description, ok := args["description"].(string); ok && description != "" {
		opts = append(opts, runner.WithDescription(description))
	}
	if col, ok := args["input_column"].(string); ok && col != "" {
		opts = append(opts, runner.WithInputColumn(col))
	}
	if col, ok := args["reference_column"].(string); ok && col != "" {
		opts = append(opts, runner.WithReferenceColumn(col))
	}

	s, err := runner.NewSuite(name, method, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create suite: %v", err)), nil
	}

	summary := map[string]interface{}{
		"name":           s.Def.Name,
		"scoring_method": s.Def.ScoringMethod,
		"cases":          len(s.Def.TestCases),
		"reused":         s.Reused,
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleListScoringMethods(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(scoring.Names(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal methods: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
