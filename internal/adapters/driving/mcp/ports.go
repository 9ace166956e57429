// Package mcp exposes every dispatcher operation as a Model Context Protocol
// tool, so AI assistants can drive the same contacts, mail and document
// operations the voice webhook serves.
package mcp

import (
	"errors"

	"github.com/JeanYan3D/tinatools/internal/core/ports/driving"
)

// ErrMissingDispatcher is returned when the dispatcher is not provided.
var ErrMissingDispatcher = errors.New("mcp: dispatcher is required")

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Dispatcher runs every tool call.
	Dispatcher driving.Dispatcher

	// Tokens backs the token status resource. Optional.
	Tokens driving.TokenService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Dispatcher == nil {
		return ErrMissingDispatcher
	}
	return nil
}
