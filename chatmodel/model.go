// Package chatmodel holds the types shared between tools and the orchestrator
// that calls them.
package chatmodel

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrFailedUnmarshalInput is returned by tools when the call arguments
	// do not match the tool parameters
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
)
