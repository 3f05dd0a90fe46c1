package yaml

import (
	"github.com/effective-security/tripintel/pkg/llmutils"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (e *Encoder) Unmarshal(bs []byte, ret any) error {
	return yaml.Unmarshal([]byte(llmutils.TrimBackticks(string(bs))), ret)
}

func (e *Encoder) Validate(req any) error {
	return validate.Struct(req)
}
