package server

import (
	"github.com/promptbench/promptbench/internal/store"
)

// ServerContext holds shared dependencies for MCP tool handlers.
type ServerContext struct {
	Store *store.Store

	// DataDir is the directory tool callers may read CSV files from.
	// Path arguments are validated against it.
	DataDir string
}
