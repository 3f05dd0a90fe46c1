package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/tripintel", "tools")

// ToolCall is a request from the orchestrator to run a tool
type ToolCall struct {
	// ID is assigned by the orchestrator, a new one is generated when empty
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Arguments string `json:"arguments" yaml:"arguments"`
}

// ToolResult is the outcome of a ToolCall.
// On failure Output carries a message for the orchestrator
// and ErrorKind names the error kind.
type ToolResult struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Output    string `json:"output" yaml:"output"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Err       error  `json:"-" yaml:"-"`
}

// Registry dispatches tool calls by name.
// Lookups are case-insensitive.
type Registry struct {
	byName   map[string]ITool
	names    []string
	list     []ITool
	callback Callback
}

// NewRegistry returns a Registry with the tools,
// tool names must be unique.
func NewRegistry(list ...ITool) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]ITool, len(list)),
	}
	for _, t := range list {
		key := strings.ToLower(t.Name())
		if _, ok := r.byName[key]; ok {
			return nil, errors.Newf("duplicate tool name: %s", t.Name())
		}
		r.byName[key] = t
		r.names = append(r.names, t.Name())
		r.list = append(r.list, t)
	}
	sort.Strings(r.names)
	return r, nil
}

// WithCallback sets the callback for tool events
func (r *Registry) WithCallback(cb Callback) *Registry {
	r.callback = cb
	return r
}

// Tools returns the registered tools in registration order
func (r *Registry) Tools() []ITool {
	return r.list
}

// Names returns the sorted tool names
func (r *Registry) Names() []string {
	return r.names
}

// Get returns the tool by name
func (r *Registry) Get(name string) (ITool, bool) {
	t, ok := r.byName[strings.ToLower(name)]
	return t, ok
}

// RegisterMCP registers all tools that support MCP
func (r *Registry) RegisterMCP(registrator McpServerRegistrator) error {
	for _, t := range r.list {
		mt, ok := t.(IMCPTool)
		if !ok {
			logger.KV(xlog.DEBUG, "status", "skip_mcp", "tool", t.Name())
			continue
		}
		if err := mt.RegisterMCP(registrator); err != nil {
			return errors.WithMessagef(err, "failed to register tool %s", t.Name())
		}
	}
	return nil
}

// Call runs a single tool call.
// Errors are reported in the result, the returned value is never nil.
func (r *Registry) Call(ctx context.Context, call *ToolCall) *ToolResult {
	callCtx := chatmodel.NewCallContext(call.ID, call.Name)
	ctx = chatmodel.WithCallContext(ctx, callCtx)

	res := &ToolResult{
		ID:   callCtx.GetCallID(),
		Name: call.Name,
	}

	tool, ok := r.Get(call.Name)
	if !ok {
		metricskey.StatsToolCallsNotFound.IncrCounter(1, call.Name)
		if r.callback != nil {
			r.callback.OnToolNotFound(ctx, call.Name)
		}

		available := strings.Join(r.names, ", ")
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "tool_not_found",
			"call_id", res.ID,
			"tool_name", call.Name,
			"available_tools", available,
		)

		res.Err = errkind.NotFound("tool %q not found", call.Name)
		res.ErrorKind = errkind.KindNotFound
		res.Output = fmt.Sprintf("Tool `%s` not found. Please check the tool name and try again with exact match. Available tools: %s", call.Name, available)
		return res
	}

	if r.callback != nil {
		r.callback.OnToolStart(ctx, tool, call.Arguments)
	}

	started := time.Now()
	out, err := tool.Call(ctx, call.Arguments)
	metricskey.PerfToolCall.MeasureSince(started, tool.Name())

	if err != nil {
		kind := KindOf(err)
		metricskey.StatsToolCallsFailed.IncrCounter(1, tool.Name(), kind)
		if r.callback != nil {
			r.callback.OnToolError(ctx, tool, call.Arguments, err)
		}

		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "tool_failed",
			"call_id", res.ID,
			"tool", tool.Name(),
			"kind", kind,
			"elapsed", time.Since(started).String(),
		)

		res.Err = errors.WithMessagef(err, "failed to call tool %s", tool.Name())
		res.ErrorKind = kind
		res.Output = ErrorOutput(err)
		return res
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, tool.Name())
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, tool, call.Arguments, out)
	}

	res.Output = out
	return res
}

// CallAll runs the calls concurrently and returns the results
// in the order of calls. A failed call does not affect the others.
func (r *Registry) CallAll(ctx context.Context, calls []*ToolCall) []*ToolResult {
	results := make([]*ToolResult, len(calls))
	if len(calls) == 0 {
		return results
	}

	// assign IDs upfront so results can be correlated with the calls
	pending := make([]*ToolCall, len(calls))
	for i, call := range calls {
		c := *call
		if c.ID == "" {
			c.ID = chatmodel.NewCallID()
		}
		pending[i] = &c
	}

	var wg sync.WaitGroup
	wg.Add(len(pending))
	for i, call := range pending {
		go func(index int, tc *ToolCall) {
			defer wg.Done()
			results[index] = r.Call(ctx, tc)
		}(i, call)
	}
	wg.Wait()

	return results
}

// KindOf returns the error kind reported to the orchestrator
func KindOf(err error) string {
	if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
		return errkind.KindInvalidArgument
	}
	return errkind.Kind(err)
}

// ErrorOutput returns the message for the orchestrator
func ErrorOutput(err error) string {
	if errors.Is(err, chatmodel.ErrFailedUnmarshalInput) {
		return "error: " + errkind.KindInvalidArgument + ": failed to unmarshal input, check the JSON schema and try again"
	}
	return "error: " + KindOf(err) + ": " + err.Error()
}
