package chatmodel

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrFailedUnmarshalInput(t *testing.T) {
	err := ErrFailedUnmarshalInput
	assert.True(t, errors.Is(errors.WithStack(err), ErrFailedUnmarshalInput))
	assert.True(t, errors.Is(errors.Wrap(err, "test"), ErrFailedUnmarshalInput))
	assert.True(t, errors.Is(errors.WithMessage(err, "test"), ErrFailedUnmarshalInput))
	assert.False(t, errors.Is(errors.New("other"), ErrFailedUnmarshalInput))
}

func TestCallContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, GetCallContext(ctx))
	assert.Empty(t, GetCallID(ctx))

	c := NewCallContext("call_1", "fetch_weather_summary")
	ctx = WithCallContext(ctx, c)
	require.NotNil(t, GetCallContext(ctx))
	assert.Equal(t, "call_1", GetCallID(ctx))
	assert.Equal(t, "fetch_weather_summary", GetCallContext(ctx).GetToolName())

	c1 := NewCallContext("", "t")
	c2 := NewCallContext("", "t")
	assert.NotEmpty(t, c1.GetCallID())
	assert.NotEqual(t, c1.GetCallID(), c2.GetCallID())
}
