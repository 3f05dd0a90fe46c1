// Package weathertool exposes the weather summary as a tool.
package weathertool

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/encoding"
	jsonenc "github.com/effective-security/tripintel/encoding/json"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/pkg/schema"
	"github.com/effective-security/tripintel/tools"
	"github.com/effective-security/tripintel/weather"
	mcp "github.com/metoro-io/mcp-golang"
)

const ToolName = "fetch_weather_summary"

// Request represents the tool input.
type Request struct {
	Location      string `json:"location" yaml:"location" validate:"required" jsonschema:"title=Location,description=Free-form place name such as a city or landmark,example=Jaipur"`
	Days          int    `json:"days,omitempty" yaml:"days,omitempty" validate:"omitempty,min=1,max=16" jsonschema:"title=Days,description=Number of forecast days,minimum=1,maximum=16,default=5"`
	IncludeHourly bool   `json:"include_hourly,omitempty" yaml:"include_hourly,omitempty" jsonschema:"title=Include Hourly,description=Include the outlook for the next 24 hours,default=false"`
}

// Fetcher returns weather summaries
type Fetcher interface {
	FetchSummary(ctx context.Context, req *weather.Request) (*weather.Summary, error)
}

// Tool provides the weather summary for a destination
type Tool struct {
	name        string
	description string
	funcParams  any

	fetcher Fetcher
	input   *jsonenc.Encoder
	output  encoding.SchemaEncoder
}

var (
	_ tools.Tool[Request, weather.Summary] = (*Tool)(nil)
	_ tools.MCPTool[Request]               = (*Tool)(nil)
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
	output, err := encoding.PredefinedSchemaEncoder(mode, weather.Summary{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output encoder")
	}

	return &Tool{
		name: ToolName,
		description: "Returns current conditions and a daily forecast for a destination given as a free-form place name. " +
			"Optionally includes the hourly outlook for the next 24 hours. Absent values are null.",
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

func (t *Tool) Run(ctx context.Context, req *Request) (*weather.Summary, error) {
	if err := t.input.Validate(req); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid request"), errkind.ErrInvalidArgument)
	}
	return t.fetcher.FetchSummary(ctx, &weather.Request{
		Location:      req.Location,
		Days:          req.Days,
		IncludeHourly: req.IncludeHourly,
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
