package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/callbacks"
	"github.com/effective-security/tripintel/chatmodel"
	"github.com/effective-security/tripintel/mocks/mocktools"
	"github.com/effective-security/tripintel/pkg/errkind"
	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeTool struct{ name string }

func (t *fakeTool) Name() string                                           { return t.name }
func (t *fakeTool) Description() string                                    { return "desc" }
func (t *fakeTool) Parameters() any                                        { return nil }
func (t *fakeTool) Call(ctx context.Context, input string) (string, error) { return "", nil }

func callCtx(id string) context.Context {
	return chatmodel.WithCallContext(context.Background(), chatmodel.NewCallContext(id, "fetch_weather_summary"))
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	cb := callbacks.NewPrinter(&buf, callbacks.ModeVerbose)

	ctx := callCtx("call_1")
	tool := &fakeTool{name: "fetch_weather_summary"}

	cb.OnToolStart(ctx, tool, `{"location":"Jaipur"}`)
	cb.OnToolEnd(ctx, tool, `{"location":"Jaipur"}`, `{"location":"Jaipur, Rajasthan, India"}`)
	cb.OnToolError(ctx, tool, `{"location":"Atlantis"}`, errkind.NotFound("unable to geocode location %q", "Atlantis"))
	cb.OnToolNotFound(ctx, "fetch_flights")

	exp := `Tool Start: fetch_weather_summary [call_1]
Input: {"location":"Jaipur"}
Tool End: fetch_weather_summary [call_1]
Output: {"location":"Jaipur, Rajasthan, India"}
Tool Error: fetch_weather_summary [call_1]: unable to geocode location "Atlantis"
Tool Not Found: fetch_flights
`
	assert.Equal(t, exp, buf.String())

	buf.Reset()
	cb = callbacks.NewPrinter(&buf, callbacks.ModeDefault)
	cb.OnToolEnd(ctx, tool, "{}", "secret output")
	assert.NotContains(t, buf.String(), "secret output")
}

func TestPackageLogger(t *testing.T) {
	var buf bytes.Buffer
	xlog.SetFormatter(xlog.NewStringFormatter(&buf))
	xlog.SetGlobalLogLevel(xlog.DEBUG)

	logger := xlog.NewPackageLogger("github.com/effective-security/tripintel", "callbacks_test")
	cb := callbacks.NewPackageLogger(logger)

	ctx := callCtx("call_2")
	tool := &fakeTool{name: "fetch_safety_brief"}
	cb.OnToolStart(ctx, tool, `{"location":"Bangkok"}`)
	cb.OnToolEnd(ctx, tool, `{"location":"Bangkok"}`, "ok")
	cb.OnToolError(ctx, tool, "{}", errors.WithStack(chatmodel.ErrFailedUnmarshalInput))
	cb.OnToolNotFound(ctx, "fetch_flights")

	out := buf.String()
	for _, exp := range []string{"tool_start", "call_2", "tool_end", "InvalidArgument", "tool_not_found", "fetch_flights"} {
		assert.Contains(t, out, exp)
	}
}

func TestFanout(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := callCtx("call_3")
	tool := &fakeTool{name: "fetch_weather_summary"}
	err := errors.New("boom")

	first := mocktools.NewMockCallback(ctrl)
	second := mocktools.NewMockCallback(ctrl)
	for _, m := range []*mocktools.MockCallback{first, second} {
		m.EXPECT().OnToolStart(ctx, tool, "in")
		m.EXPECT().OnToolEnd(ctx, tool, "in", "out")
		m.EXPECT().OnToolError(ctx, tool, "in", err)
		m.EXPECT().OnToolNotFound(ctx, "fetch_flights")
	}

	cb := callbacks.NewFanout(first)
	cb.Add(second)

	cb.OnToolStart(ctx, tool, "in")
	cb.OnToolEnd(ctx, tool, "in", "out")
	cb.OnToolError(ctx, tool, "in", err)
	cb.OnToolNotFound(ctx, "fetch_flights")
}
