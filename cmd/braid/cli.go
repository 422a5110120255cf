// Package main defines the CLI structure using kong.
package main

import "github.com/alecthomas/kong"

// CLI defines the command-line interface.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Run a swarm on a request and braid the discussion"`
	Weave   WeaveCmd   `cmd:"" help:"Braid a recorded message log offline"`
	Stats   StatsCmd   `cmd:"" help:"Show braiding statistics for a transcript"`
	Serve   ServeCmd   `cmd:"" help:"Run the NATS ingest bridge"`
	Roles   RolesCmd   `cmd:"" help:"List discovered personas"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// RunCmd runs a swarm on a request.
type RunCmd struct {
	Request    string `arg:"" help:"The request the swarm should work on"`
	Config     string `help:"Config file path"`
	Roster     string `help:"Persona directory (overrides config)"`
	Pattern    string `help:"Default braid pattern (overrides config)"`
	FollowUps  int    `default:"-1" help:"Max follow-up turns (overrides config)"`
	Transcript string `help:"Transcript output directory (overrides config)"`
	Deliver    bool   `help:"Deliver the summary to the configured webhook"`
	Quiet      bool   `short:"q" help:"Print only the synthesis"`
}

// WeaveCmd braids a recorded message log.
type WeaveCmd struct {
	File    string `arg:"" help:"JSON file holding an array of messages, or a saved transcript"`
	Config  string `help:"Config file path"`
	Pattern string `help:"Default braid pattern (overrides config)"`
	Threads bool   `help:"Print full thread listings instead of per-message results"`
}

// StatsCmd shows braiding statistics for a saved transcript.
type StatsCmd struct {
	File   string `arg:"" help:"Saved transcript file"`
	Config string `help:"Config file path"`
}

// ServeCmd runs the NATS ingest bridge until interrupted.
type ServeCmd struct {
	Config  string `help:"Config file path"`
	URL     string `help:"NATS server URL (overrides config)"`
	Subject string `help:"Subject to subscribe (overrides config)"`
}

// RolesCmd lists discovered personas.
type RolesCmd struct {
	Config string `help:"Config file path"`
	Roster string `help:"Persona directory (overrides config)"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

// kongVars returns variables for kong (version info).
func kongVars() kong.Vars {
	return kong.Vars{
		"version": version,
	}
}
