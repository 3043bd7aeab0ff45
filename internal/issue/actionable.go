// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError carries the context a user needs to act on a failure:
	// the operation that failed, the resource involved, and concrete
	// suggestions. Installer steps wrap their causes in one of these so the
	// CLI can print remediation instead of a bare error string.
	//
	// Construct through the ErrorContext builder:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("provision python environment").
	//		WithResource("/usr/local/pdfiler/requirements.txt").
	//		WithSuggestion("Re-run after restoring the manifest").
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation is the verb phrase that failed ("deploy sources",
		// "register launcher").
		Operation string

		// Resource identifies the file, path, or entity involved (optional).
		Resource string

		// Suggestions are remediation hints shown under the message (optional).
		Suggestions []string

		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext accumulates error context incrementally. A context can be
	// prepared up front and completed at the failure site:
	//
	//	ctx := issue.NewErrorContext().
	//		WithOperation("parse config").
	//		WithResource(path)
	//	...
	//	return ctx.WithSuggestion("Check CUE syntax").Wrap(err).BuildError()
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
	}
)

// NewErrorContext creates an empty ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns the concise form used by default (non-verbose) output:
// "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the message with its suggestion bullets. With verbose set
// it appends the numbered error chain, one line per wrapped cause.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// WithOperation sets the operation being performed, as a verb phrase.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource (file, path, entity) involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds one remediation hint. Call repeatedly for more.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// Wrap records the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// BuildError materializes the ActionableError. The operation is required;
// without it BuildError returns nil so a half-built context cannot leak
// into user output.
func (c *ErrorContext) BuildError() error {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
	}
}
