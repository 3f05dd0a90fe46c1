package tools

import (
	"context"

	"github.com/effective-security/tripintel/encoding"
	"github.com/effective-security/tripintel/pkg/llmutils"
	mcp "github.com/metoro-io/mcp-golang"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// McpServerRegistrator is the part of the MCP server the destination tools
// register their handlers with, satisfied by the stdio server in cmd/tripintel-mcp.
type McpServerRegistrator interface {
	RegisterTool(name string, description string, handler any) error
}

// ITool is a tool the orchestrator can call.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the JSON schema of the tool arguments.
	Parameters() any

	// Call executes the tool with the given JSON arguments and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback receives the events of calls dispatched by the Registry.
// Events of concurrent calls interleave, the call id is available
// from the context via chatmodel.GetCallID.
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
	// OnToolNotFound is called when the orchestrator names a tool
	// that is not registered.
	OnToolNotFound(ctx context.Context, name string)
}

// Tool is an ITool with typed input and output,
// such as the weather summary and the safety brief.
// Run returns the errkind errors of the underlying fetcher.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// IMCPTool extends ITool with registration on an MCP server.
type IMCPTool interface {
	ITool
	RegisterMCP(registrator McpServerRegistrator) error
}

// MCPTool is an IMCPTool whose RunMCP handler receives the arguments
// decoded by the MCP server and returns the rendered output as text content.
type MCPTool[I any] interface {
	IMCPTool
	RunMCP(context.Context, *I) (*mcp.ToolResponse, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns the names and descriptions of the tools
// as a fenced block in the given mode, for an orchestrator prompt.
func GetDescriptions(mode encoding.Mode, list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	if mode == encoding.ModeYAML {
		return llmutils.BackticksYAML(llmutils.ToYAML(d))
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
