// Package encoding renders tool output and parses tool input
// in the formats exchanged with the orchestrator.
package encoding

import (
	"strings"

	"github.com/cockroachdb/errors"
	jsonenc "github.com/effective-security/tripintel/encoding/json"
	yamlenc "github.com/effective-security/tripintel/encoding/yaml"
)

type SchemaEncoder interface {
	Marshal(v any) ([]byte, error)
	Unmarshal([]byte, any) error
}

type Validator interface {
	Validate(any) error
}

type Mode = string

const (
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// ModeDefault is the default mode for the encoder.
// Allow to override in apps
var ModeDefault = ModeJSON

// ParseMode returns the Mode for the name,
// empty name returns ModeDefault.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return ModeDefault, nil
	case ModeJSON:
		return ModeJSON, nil
	case ModeYAML, "yml":
		return ModeYAML, nil
	default:
		return "", errors.Newf("unsupported encoding mode: %q", name)
	}
}

// PredefinedSchemaEncoder returns the encoder for the mode and type of req
func PredefinedSchemaEncoder(mode Mode, req any) (SchemaEncoder, error) {
	switch mode {
	case ModeJSON:
		return jsonenc.NewEncoder(req)
	case ModeYAML:
		return yamlenc.NewEncoder(), nil
	default:
		return nil, errors.Newf("no predefined encoder for %q", mode)
	}
}

var (
	_ SchemaEncoder = (*jsonenc.Encoder)(nil)
	_ SchemaEncoder = (*yamlenc.Encoder)(nil)
	_ Validator     = (*jsonenc.Encoder)(nil)
	_ Validator     = (*yamlenc.Encoder)(nil)
)
