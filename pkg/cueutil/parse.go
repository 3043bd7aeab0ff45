// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult carries the outcome of a successful parse: the decoded Go
// value plus the unified CUE value for callers that read extra metadata
// out of the document.
type ParseResult[T any] struct {
	Value   *T
	Unified cue.Value
}

// ParseAndDecode validates user-authored CUE against an embedded schema and
// decodes it into T. The flow is compile schema, compile user data, unify
// with the definition at schemaPath, validate, decode.
//
// The data size is capped before compilation (see WithMaxFileSize) so an
// oversized file fails fast instead of exhausting memory inside the
// evaluator. Validation requires concrete values unless WithConcrete(false)
// is set.
func ParseAndDecode[T any](schema string, data []byte, schemaPath CUEPath, opts ...Option) (*ParseResult[T], error) {
	if err := schemaPath.Validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath.String()))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)

	if options.concrete {
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			return nil, FormatError(err, filename)
		}
	} else if err := unified.Validate(); err != nil {
		return nil, FormatError(err, filename)
	}

	var decoded T
	if err := unified.Decode(&decoded); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{Value: &decoded, Unified: unified}, nil
}
