package schema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/effective-security/tripintel/pkg/llmutils"
	"github.com/effective-security/tripintel/pkg/schema"
	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Units string

type forecastRequest struct {
	Location string  `json:"location" jsonschema:"title=Location,description=City name\\, with country,example=Jaipur"`
	Units    Units   `json:"units" jsonschema:"title=Units,description=Units of measurement,default=metric,enum=metric,enum=imperial"`
	Stops    []*Stop `json:"stops,omitempty" jsonschema:"title=Stops,description=Stops along the route"`
	Home     *Stop   `json:"home,omitempty" jsonschema:"title=Home,description=Home base"`
}

type Stop struct {
	Name string `json:"name" jsonschema:"title=Name,description=Name of the stop"`
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		s, err := schema.New(reflect.TypeOf(forecastRequest{}))
		require.NoError(t, err)

		exp := `{
	"properties": {
		"location": {
			"type": "string",
			"title": "Location",
			"description": "City name, with country",
			"examples": [
				"Jaipur"
			]
		},
		"units": {
			"type": "string",
			"enum": [
				"metric",
				"imperial"
			],
			"title": "Units",
			"description": "Units of measurement",
			"default": "metric"
		},
		"stops": {
			"items": {
				"properties": {
					"name": {
						"type": "string",
						"title": "Name",
						"description": "Name of the stop"
					}
				},
				"type": "object",
				"required": [
					"name"
				]
			},
			"type": "array",
			"title": "Stops",
			"description": "Stops along the route"
		},
		"home": {
			"properties": {
				"name": {
					"type": "string",
					"title": "Name",
					"description": "Name of the stop"
				}
			},
			"type": "object",
			"required": [
				"name"
			],
			"title": "Home",
			"description": "Home base"
		}
	},
	"type": "object",
	"required": [
		"location",
		"units"
	]
}`
		assert.Equal(t, exp, s.String())
		assert.Equal(t, exp, llmutils.ToJSONIndent(s.Parameters))

		// cached
		s2, err := schema.New(reflect.TypeOf(forecastRequest{}))
		require.NoError(t, err)
		assert.Same(t, s, s2)
	})

	t.Run("simple", func(t *testing.T) {
		t.Parallel()

		type newsRequest struct {
			Location string `json:"location" jsonschema:"description=City name"`
			Language string `json:"language" jsonschema:"description=News locale,enum=en-US,enum=fr-FR"`
		}

		s, err := schema.New(reflect.TypeOf(newsRequest{}))
		require.NoError(t, err)
		exp := `{
	"properties": {
		"location": {
			"type": "string",
			"description": "City name"
		},
		"language": {
			"type": "string",
			"enum": [
				"en-US",
				"fr-FR"
			],
			"description": "News locale"
		}
	},
	"type": "object",
	"required": [
		"location",
		"language"
	]
}`
		assert.Equal(t, exp, s.String())

		var sc jsonschema.Schema
		require.NoError(t, json.Unmarshal([]byte(exp), &sc))
		assert.Equal(t, 2, sc.Properties.Len())
	})
}

func TestToFunctionSchema_MissingDefinition(t *testing.T) {
	t.Parallel()

	sc, err := schema.FromAny(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stop": map[string]any{
				"$ref": "#/$defs/Missing",
			},
		},
	})
	require.NoError(t, err)

	_, err = schema.ToFunctionSchema(sc)
	assert.EqualError(t, err, "definition not found: #/$defs/Missing")
}

func TestSchemaFromAny(t *testing.T) {
	t.Parallel()

	sc, err := schema.FromAny(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"location"},
	})
	require.NoError(t, err)

	exp := `{
	"properties": {
		"location": {
			"type": "string"
		}
	},
	"type": "object",
	"required": [
		"location"
	]
}`
	assert.Equal(t, exp, llmutils.ToJSONIndent(sc))
}
