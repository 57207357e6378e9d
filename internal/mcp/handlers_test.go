package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptbench/promptbench/internal/server"
	"github.com/promptbench/promptbench/internal/store"
)

// testServerContext builds a server context with a fresh store and a data
// directory holding the given CSV files.
func testServerContext(t *testing.T, files map[string]string) *server.ServerContext {
	t.Helper()

	dataDir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}

	return &server.ServerContext{
		Store:   store.New(t.TempDir()),
		DataDir: dataDir,
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandleListSuitesEmpty(t *testing.T) {
	sc := testServerContext(t, nil)

	result, err := handleListSuites(context.Background(), mcp.CallToolRequest{}, sc)
	require.NoError(t, err)

	text := resultText(t, result)
	var suites []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &suites))
	assert.Empty(t, suites)
}

func TestHandleCreateSuite(t *testing.T) {
	sc := testServerContext(t, map[string]string{
		"cases.csv": "input,reference_output\nWhat is 2+2?,4\nWhat is 3+3?,6\n",
	})

	request := callRequest(map[string]interface{}{
		"name":           "arithmetic",
		"scoring_method": "exact_match",
		"data_path":      "cases.csv",
		"description":    "basic arithmetic",
	})

	result, err := handleCreateSuite(context.Background(), request, sc)
	require.NoError(t, err)

	text := resultText(t, result)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Equal(t, "arithmetic", summary["name"])
	assert.Equal(t, "exact_match", summary["scoring_method"])
	assert.Equal(t, float64(2), summary["cases"])
	assert.Equal(t, false, summary["reused"])

	// Suite is persisted in the store.
	assert.True(t, sc.Store.SuiteExists("arithmetic"))

	// Second call with the same name reports reuse.
	result, err = handleCreateSuite(context.Background(), request, sc)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &summary))
	assert.Equal(t, true, summary["reused"])
}

func TestHandleCreateSuiteMissingRequired(t *testing.T) {
	sc := testServerContext(t, nil)

	result, err := handleCreateSuite(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "name is required")

	result, err = handleCreateSuite(context.Background(), callRequest(map[string]interface{}{
		"name": "x",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "scoring_method is required")
}

func TestHandleCreateSuitePathEscape(t *testing.T) {
	sc := testServerContext(t, nil)

	request := callRequest(map[string]interface{}{
		"name":           "sneaky",
		"scoring_method": "exact_match",
		"data_path":      "../outside.csv",
	})

	result, err := handleCreateSuite(context.Background(), request, sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "invalid data_path")
}

func TestHandleListScoringMethods(t *testing.T) {
	result, err := handleListScoringMethods(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)

	text := resultText(t, result)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(text), &names))
	assert.Contains(t, names, "exact_match")
	assert.Contains(t, names, "qa_correctness")
	assert.Contains(t, names, "summary_quality")
}

func TestHandleRunSuite(t *testing.T) {
	sc := testServerContext(t, map[string]string{
		"cases.csv":      "input,reference_output\nWhat is 2+2?,4\nWhat is 3+3?,6\n",
		"candidates.csv": "candidate_output\n4\nsix\n",
	})

	_, err := handleCreateSuite(context.Background(), callRequest(map[string]interface{}{
		"name":           "arithmetic",
		"scoring_method": "exact_match",
		"data_path":      "cases.csv",
	}), sc)
	require.NoError(t, err)

	result, err := handleRunSuite(context.Background(), callRequest(map[string]interface{}{
		"suite":          "arithmetic",
		"run_name":       "baseline",
		"candidate_path": "candidates.csv",
		"model_name":     "my-model",
	}), sc)
	require.NoError(t, err)

	text := resultText(t, result)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &summary))
	assert.Equal(t, "arithmetic", summary["suite"])
	assert.Equal(t, "baseline", summary["run"])
	assert.Equal(t, float64(2), summary["cases"])
	assert.Equal(t, 0.5, summary["mean_score"])

	run, err := sc.Store.LoadRun("arithmetic", "baseline")
	require.NoError(t, err)
	assert.Equal(t, "my-model", run.Provenance.ModelName)
}

func TestHandleRunSuiteMissingRequired(t *testing.T) {
	sc := testServerContext(t, nil)

	result, err := handleRunSuite(context.Background(), callRequest(map[string]interface{}{}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "suite is required")
}

func TestHandleRunSuiteUnknownSuite(t *testing.T) {
	sc := testServerContext(t, nil)

	result, err := handleRunSuite(context.Background(), callRequest(map[string]interface{}{
		"suite":          "nonexistent",
		"run_name":       "r",
		"candidate_path": "candidates.csv",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "not found")
}

func TestHandleRunSuiteCountMismatch(t *testing.T) {
	sc := testServerContext(t, map[string]string{
		"cases.csv":      "input,reference_output\nq1,a1\nq2,a2\n",
		"candidates.csv": "candidate_output\nonly-one\n",
	})

	_, err := handleCreateSuite(context.Background(), callRequest(map[string]interface{}{
		"name":           "qa",
		"scoring_method": "exact_match",
		"data_path":      "cases.csv",
	}), sc)
	require.NoError(t, err)

	result, err := handleRunSuite(context.Background(), callRequest(map[string]interface{}{
		"suite":          "qa",
		"run_name":       "short",
		"candidate_path": "candidates.csv",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "test run failed")

	// Nothing was persisted for the rejected run.
	runs, err := sc.Store.ListRuns("qa")
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHandleGetRuns(t *testing.T) {
	sc := testServerContext(t, map[string]string{
		"cases.csv":      "input,reference_output\nq1,a1\n",
		"candidates.csv": "candidate_output\na1\n",
	})

	_, err := handleCreateSuite(context.Background(), callRequest(map[string]interface{}{
		"name":           "qa",
		"scoring_method": "exact_match",
		"data_path":      "cases.csv",
	}), sc)
	require.NoError(t, err)

	_, err = handleRunSuite(context.Background(), callRequest(map[string]interface{}{
		"suite":          "qa",
		"run_name":       "baseline",
		"candidate_path": "candidates.csv",
	}), sc)
	require.NoError(t, err)

	// List all runs.
	result, err := handleGetRuns(context.Background(), callRequest(map[string]interface{}{
		"suite": "qa",
	}), sc)
	require.NoError(t, err)

	var runs []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "baseline", runs[0]["name"])
	assert.Equal(t, float64(1), runs[0]["mean_score"])

	// Fetch a specific run document.
	result, err = handleGetRuns(context.Background(), callRequest(map[string]interface{}{
		"suite":    "qa",
		"run_name": "baseline",
	}), sc)
	require.NoError(t, err)

	var run map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &run))
	assert.Equal(t, "baseline", run["name"])
}

func TestHandleGetRunsUnknownRun(t *testing.T) {
	sc := testServerContext(t, nil)

	result, err := handleGetRuns(context.Background(), callRequest(map[string]interface{}{
		"suite":    "qa",
		"run_name": "missing",
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, result), "not found")
}
