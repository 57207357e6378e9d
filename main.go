package main

import (
	"github.com/promptbench/promptbench/cmd"
	"github.com/promptbench/promptbench/internal/suite"
)

// These will be set by goreleaser during build via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	suite.Version = version
	cmd.SetVersion(version)
	cmd.SetBuildInfo(commit, date)
	cmd.Execute()
}
