package safetytool_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/encoding"
	"github.com/effective-security/tripintel/mocks/mocktools"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/tripintel/safety"
	"github.com/effective-security/tripintel/tools/safetytool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fetcherFunc func(ctx context.Context, req *safety.Request) (*safety.Brief, error)

func (f fetcherFunc) FetchBrief(ctx context.Context, req *safety.Request) (*safety.Brief, error) {
	return f(ctx, req)
}

var brief = &safety.Brief{
	Location: "Bangkok",
	Source:   safety.Source,
	Headlines: []*safety.Headline{
		{
			Title:     "Flights delayed as storms hit Bangkok",
			Link:      "https://news.example.com/1",
			Published: "Thu, 01 May 2025 08:00:00 GMT",
			Snippet:   "Heavy rain across the city",
		},
	},
}

func Test_Tool(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var got *safety.Request
	tool, err := safetytool.New(fetcherFunc(func(_ context.Context, req *safety.Request) (*safety.Brief, error) {
		got = req
		if req.Location == "Atlantis" {
			return nil, errkind.NotFound("no safety headlines found for %q", req.Location)
		}
		return brief, nil
	}), encoding.ModeJSON)
	require.NoError(t, err)

	assert.Equal(t, safetytool.ToolName, tool.Name())
	assert.NotEmpty(t, tool.Description())

	params := toMap(t, tool.Parameters())
	assert.Equal(t, []any{"location"}, params["required"])
	props := params["properties"].(map[string]any)
	assert.Contains(t, props, "location")
	assert.Contains(t, props, "max_items")
	assert.Equal(t, "en-US", props["language"].(map[string]any)["default"])

	out, err := tool.Call(ctx, "```json\n{\"location\": \"Bangkok\", \"max_items\": 2}\n```")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bangkok", got.Location)
	assert.Equal(t, 2, got.MaxItems)
	assert.Empty(t, got.Language)

	var res safety.Brief
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, *brief.Headlines[0], *res.Headlines[0])
	assert.Equal(t, "Google News RSS", res.Source)

	_, err = tool.Call(ctx, `{"location": "Paris", "language": "fr-FR"}`)
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", got.Language)

	_, err = tool.Call(ctx, `{"location": "Atlantis"}`)
	require.Error(t, err)
	assert.Equal(t, errkind.KindNotFound, errkind.Kind(err))
}

func Test_Tool_InvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	called := false
	tool, err := safetytool.New(fetcherFunc(func(context.Context, *safety.Request) (*safety.Brief, error) {
		called = true
		return brief, nil
	}), encoding.ModeJSON)
	require.NoError(t, err)

	_, err = tool.Call(ctx, "Bangkok please")
	require.Error(t, err)
	assert.True(t, errors.Is(err, chatmodel.ErrFailedUnmarshalInput))

	for _, input := range []string{
		`{}`,
		`{"location": "Bangkok", "max_items": -1}`,
		`{"location": "Bangkok", "language": "not a language"}`,
	} {
		_, err = tool.Call(ctx, input)
		require.Error(t, err, input)
		assert.True(t, errors.Is(err, errkind.ErrInvalidArgument), input)
	}
	assert.False(t, called)
}

func Test_Tool_YAML(t *testing.T) {
	t.Parallel()

	tool, err := safetytool.New(fetcherFunc(func(context.Context, *safety.Request) (*safety.Brief, error) {
		return brief, nil
	}), encoding.ModeYAML)
	require.NoError(t, err)

	out, err := tool.Call(context.Background(), `{"location": "Bangkok"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "location: Bangkok\n")
	assert.Contains(t, out, "- title: Flights delayed as storms hit Bangkok\n")
	assert.Contains(t, out, "source: Google News RSS\n")
}

func Test_Tool_MCP(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	tool, err := safetytool.New(fetcherFunc(func(context.Context, *safety.Request) (*safety.Brief, error) {
		return brief, nil
	}), encoding.ModeJSON)
	require.NoError(t, err)

	registrator := mocktools.NewMockMcpServerRegistrator(ctrl)
	registrator.EXPECT().RegisterTool(safetytool.ToolName, gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, tool.RegisterMCP(registrator))

	resp, err := tool.RunMCP(context.Background(), &safetytool.Request{Location: "Bangkok"})
	require.NoError(t, err)
	require.Len(t, resp.Content, 1)
	require.NotNil(t, resp.Content[0].TextContent)
	exp, err := json.Marshal(brief)
	require.NoError(t, err)
	assert.Equal(t, string(exp), resp.Content[0].TextContent.Text)
}

func toMap(t *testing.T, v any) map[string]any {
	js, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(js, &m))
	return m
}
