// Package safetytool exposes the safety brief as a tool.
package safetytool

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/encoding"
	jsonenc "github.com/effective-security/tripintel/encoding/json"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/schema"
	"github.com/effective-security/tripintel/safety"
	"github.com/effective-security/tripintel/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

const ToolName = "fetch_safety_brief"

// Request represents the tool input.
type Request struct {
	Location string `json:"location" yaml:"location" validate:"required" jsonschema:"title=Location,description=Free-form place name used as the news search term,example=Bangkok"`
	MaxItems int    `json:"max_items,omitempty" yaml:"max_items,omitempty" validate:"omitempty,min=1" jsonschema:"title=Max Items,description=Maximum number of headlines,minimum=1,default=4"`
	Language string `json:"language,omitempty" yaml:"language,omitempty" validate:"omitempty,bcp47_language_tag" jsonschema:"title=Language,description=News locale as language-REGION,default=en-US"`
}

// Fetcher returns safety briefs
type Fetcher interface {
	FetchBrief(ctx context.Context, req *safety.Request) (*safety.Brief, error)
}

// Tool provides recent safety headlines for a destination
type Tool struct {
	name        string
	description string
	funcParams  any

	fetcher Fetcher
	input   *jsonenc.Encoder
	output  encoding.SchemaEncoder
}

var (
	_ tools.Tool[Request, safety.Brief] = (*Tool)(nil)
	_ tools.MCPTool[Request]            = (*Tool)(nil)
)

// New returns the tool, the output is rendered in the given mode
func New(fetcher Fetcher, mode encoding.Mode) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	input, err := jsonenc.NewEncoder(Request{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create input encoder")
	}
	output, err := encoding.PredefinedSchemaEncoder(mode, safety.Brief{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output encoder")
	}

	return &Tool{
		name: ToolName,
		description: "Returns recent news headlines about travel warnings, safety advisories, disruption or protests for a destination. " +
			"Each headline has a title, link, publication date and a short snippet.",
		funcParams: sc.Parameters,
		fetcher:    fetcher,
		input:      input,
		output:     output,
	}, nil
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

func (t *Tool) Run(ctx context.Context, req *Request) (*safety.Brief, error) {
	if err := t.input.Validate(req); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid request"), errkind.ErrInvalidArgument)
	}
	return t.fetcher.FetchBrief(ctx, &safety.Request{
		Location: req.Location,
		MaxItems: req.MaxItems,
		Language: req.Language,
	})
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if err := t.input.Unmarshal([]byte(input), &req); err != nil {
		return "", errors.WithStack(chatmodel.ErrFailedUnmarshalInput)
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	bs, err := t.output.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal output")
	}
	return string(bs), nil
}

func (t *Tool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *Tool) RunMCP(ctx context.Context, req *Request) (*mcp.ToolResponse, error) {
	out, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	bs, err := t.output.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal output")
	}
	return mcp.NewToolResponse(mcp.NewTextContent(string(bs))), nil
}
