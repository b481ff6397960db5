// Package server provides the MCP capability registry and request dispatcher.
package server

import (
	"github.com/codersgyan/lms-mcp/protocol"
)

// Info contains server metadata exposed to clients during initialize.
type Info struct {
	Name         string
	Title        string
	Version      string
	Instructions string
}

// Manifest is the initialize result.
type Manifest struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Instructions    string         `json:"instructions,omitempty"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version"`
}

// manifest builds the initialize result. Capabilities are advertised only
// for kinds that have at least one registration.
func (d *Dispatcher) manifest(requested string) Manifest {
	caps := make(map[string]any)
	if d.registry.Len(protocol.KindTool) > 0 {
		caps["tools"] = map[string]any{"listChanged": false}
	}
	if d.registry.Len(protocol.KindResource) > 0 {
		caps["resources"] = map[string]any{"listChanged": false, "subscribe": false}
	}
	if d.registry.Len(protocol.KindPrompt) > 0 {
		caps["prompts"] = map[string]any{"listChanged": false}
	}

	return Manifest{
		ProtocolVersion: protocol.NegotiateVersion(requested),
		Capabilities:    caps,
		ServerInfo: serverInfo{
			Name:    d.info.Name,
			Title:   d.info.Title,
			Version: d.info.Version,
		},
		Instructions: d.info.Instructions,
	}
}
