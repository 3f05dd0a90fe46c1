// Package tools defines the tool contract used by the orchestrator, including parameter schemas,
// MCP registration and a registry that dispatches tool calls by name, one at a time or concurrently.
package tools
