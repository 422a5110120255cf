// Package main implements the roles listing command.
package main

import (
	"fmt"

	"github.com/threadloom/braid/internal/roster"
)

// Run lists the discovered personas in run order.
func (r *RolesCmd) Run() error {
	cfg, err := loadConfig(r.Config)
	if err != nil {
		return err
	}

	dir := cfg.Roster.Path
	if r.Roster != "" {
		dir = r.Roster
	}

	personas, err := roster.Discover(dir)
	if err != nil {
		return fmt.Errorf("discovering personas: %w", err)
	}
	if len(personas) == 0 {
		fmt.Printf("no personas found in %s\n", dir)
		return nil
	}

	for _, p := range personas {
		fmt.Printf("%2d. %-16s role=%-12s speaks=%-16s %s\n",
			p.Order, p.Name, p.BraidRole(), p.MessageType(), p.Description)
	}
	return nil
}
