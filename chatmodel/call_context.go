package chatmodel

import (
	"context"
	"strconv"

	"github.com/effective-security/x/values"
	"github.com/effective-security/xdb/pkg/flake"
)

// CallContext identifies a single tool invocation
type CallContext interface {
	GetCallID() string
	GetToolName() string
}

type callContext struct {
	callID   string
	toolName string
}

func (c *callContext) GetCallID() string {
	return c.callID
}

func (c *callContext) GetToolName() string {
	return c.toolName
}

// NewCallContext returns CallContext for the tool,
// a new ID is generated when callID is empty.
func NewCallContext(callID, toolName string) CallContext {
	return &callContext{
		callID:   values.StringsCoalesce(callID, NewCallID()),
		toolName: toolName,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithCallContext returns a new context with CallContext value
func WithCallContext(ctx context.Context, callCtx CallContext) context.Context {
	return context.WithValue(ctx, keyContext, callCtx)
}

// GetCallContext retrieves the CallContext from the context
func GetCallContext(ctx context.Context) CallContext {
	if v, ok := ctx.Value(keyContext).(CallContext); ok {
		return v
	}
	return nil
}

// GetCallID retrieves the call ID from the provided context.
// If the context does not contain a CallContext, it returns an empty string.
func GetCallID(ctx context.Context) string {
	if v := GetCallContext(ctx); v != nil {
		return v.GetCallID()
	}
	return ""
}

// NewCallID generates a new call ID using the flake ID generator.
func NewCallID() string {
	return strconv.FormatUint(flake.DefaultIDGenerator.NextID(), 10)
}
