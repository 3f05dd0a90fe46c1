package json

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/tripintel/pkg/llmutils"
	"github.com/effective-security/tripintel/pkg/schema"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Encoder struct {
	schema *schema.Schema
}

func NewEncoder(req any) (*Encoder, error) {
	sc, err := schema.New(reflect.TypeOf(req))
	if err != nil {
		return nil, err
	}
	return &Encoder{
		schema: sc,
	}, nil
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal parses JSON produced by a model,
// text around the JSON value is ignored and scalar types are coerced.
func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	data := bytes.TrimSpace(llmutils.CleanJSON(bs))
	if len(data) == 0 || (data[0] != '{' && data[0] != '[') {
		return errors.New("no JSON value found")
	}
	return ljson.Unmarshal(data, ret)
}

func (e *Encoder) Validate(req any) error {
	return validate.Struct(req)
}

func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}
