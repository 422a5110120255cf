// Package main is the entry point for the braid CLI.
package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func init() {
	// Load .env for API keys and webhook URLs
	_ = godotenv.Load()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("braid"),
		kong.Description("Braids multi-agent messages into coherent conversation threads."),
		kong.UsageOnError(),
		kongVars(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

// Run prints version information.
func (v *VersionCmd) Run() error {
	fmt.Printf("braid version %s (commit: %s, built: %s)\n", version, commit, buildTime)
	return nil
}
