package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	Location string `json:"location" validate:"required" jsonschema:"description=City name"`
	Days     int    `json:"days,omitempty" validate:"omitempty,min=1,max=16" jsonschema:"description=Number of days"`
}

func TestJson(t *testing.T) {
	enc, err := NewEncoder(request{})
	require.NoError(t, err)
	require.NotNil(t, enc.Schema())
	assert.Equal(t, 2, enc.Schema().Parameters.Properties.Len())

	bs, err := enc.Marshal(&request{Location: "Jaipur", Days: 3})
	require.NoError(t, err)
	assert.Equal(t, `{"location":"Jaipur","days":3}`, string(bs))

	var r request
	require.NoError(t, enc.Unmarshal([]byte("Arguments:\n```json\n{\"location\": \"Bangkok\", \"days\": 2}\n```"), &r))
	assert.Equal(t, request{Location: "Bangkok", Days: 2}, r)
	assert.NoError(t, enc.Validate(&r))

	assert.Error(t, enc.Unmarshal([]byte("plain string"), &r))
	assert.Error(t, enc.Validate(&request{}))
	assert.Error(t, enc.Validate(&request{Location: "Jaipur", Days: 17}))
}
