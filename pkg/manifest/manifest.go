// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RockerzXY/pdfiler/pkg/types"
)

var (
	// ErrInvalidRequirementName is the sentinel error wrapped by InvalidRequirementNameError.
	ErrInvalidRequirementName = errors.New("invalid requirement name")

	// ErrMalformedRequirement is the sentinel error wrapped by MalformedRequirementError.
	ErrMalformedRequirement = errors.New("malformed requirement")

	// versionOperators are the PEP 508 version comparison operators plus the
	// direct-reference "@" form.
	versionOperators = []string{"===", "==", "~=", "!=", ">=", "<=", ">", "<", "@"}
)

type (
	// RequirementName is a distribution name as it appears in a requirements
	// file, without extras or version constraints (e.g. "requests").
	RequirementName string

	// InvalidRequirementNameError is returned when a RequirementName is
	// empty or contains whitespace or constraint characters.
	InvalidRequirementNameError struct {
		Value RequirementName
	}

	// MalformedRequirementError is returned when a requirement line cannot
	// be split into a name and constraint (e.g. a line starting with "==").
	MalformedRequirementError struct {
		// Line is the 1-based line number in the input.
		Line int
		// Text is the offending logical line after continuation joining.
		Text string
	}

	// Requirement is one dependency line from a requirements file.
	Requirement struct {
		// Name is the distribution name.
		Name RequirementName
		// Extras is the raw bracket content, e.g. "socks" for
		// "requests[socks]". Empty when the line has no extras.
		Extras string
		// Constraint is the version constraint including its operator,
		// e.g. ">=2.28" or "@ https://...". Empty when unpinned.
		Constraint string
		// Marker is the environment marker after ";", e.g.
		// `python_version < "3.11"`. Empty when absent.
		Marker string
	}

	// Directive is an option line from a requirements file, e.g.
	// "-r common.txt" or "--index-url https://pypi.example.org/simple".
	Directive struct {
		// Option is the flag itself, including leading dashes.
		Option string
		// Value is the rest of the line. Empty for bare flags.
		Value string
	}

	// File is the parsed form of one requirements file. Requirements and
	// Directives preserve input order.
	File struct {
		Requirements []Requirement
		Directives   []Directive
	}
)

// String returns the string representation of the RequirementName.
func (n RequirementName) String() string { return string(n) }

// IsValid returns whether the RequirementName is valid. A valid name is
// non-empty and contains neither whitespace nor constraint syntax.
func (n RequirementName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" {
		return false, []error{&InvalidRequirementNameError{Value: n}}
	}
	if strings.ContainsAny(s, " \t\n[]<>=!~;@#") {
		return false, []error{&InvalidRequirementNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRequirementNameError.
func (e *InvalidRequirementNameError) Error() string {
	return fmt.Sprintf("invalid requirement name %q: must be non-empty with no whitespace or constraint characters", e.Value)
}

// Unwrap returns ErrInvalidRequirementName for errors.Is() compatibility.
func (e *InvalidRequirementNameError) Unwrap() error { return ErrInvalidRequirementName }

// Error implements the error interface for MalformedRequirementError.
func (e *MalformedRequirementError) Error() string {
	return fmt.Sprintf("malformed requirement on line %d: %q", e.Line, e.Text)
}

// Unwrap returns ErrMalformedRequirement for errors.Is() compatibility.
func (e *MalformedRequirementError) Unwrap() error { return ErrMalformedRequirement }

// String renders the requirement back into requirements.txt syntax.
func (r Requirement) String() string {
	var b strings.Builder
	b.WriteString(string(r.Name))
	if r.Extras != "" {
		b.WriteString("[" + r.Extras + "]")
	}
	if r.Constraint != "" {
		b.WriteString(r.Constraint)
	}
	if r.Marker != "" {
		b.WriteString("; " + r.Marker)
	}
	return b.String()
}

// Names returns the requirement names in file order.
func (f *File) Names() []RequirementName {
	names := make([]RequirementName, 0, len(f.Requirements))
	for _, r := range f.Requirements {
		names = append(names, r.Name)
	}
	return names
}

// ParseFile opens and parses the requirements file at path.
func ParseFile(path types.FilesystemPath) (*File, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	defer func() {
		// Read-only file handle; close errors are exotic (NFS edge cases).
		_ = f.Close()
	}()
	return Parse(f)
}

// Parse reads a requirements file from r. An empty input yields an empty
// File; pip treats that as "install nothing" and so do we.
func Parse(r io.Reader) (*File, error) {
	parsed := &File{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		startLine := lineNo

		line := scanner.Text()
		// Backslash continuations join the next physical line before any
		// other processing, matching pip's reading order.
		for strings.HasSuffix(line, `\`) && scanner.Scan() {
			lineNo++
			line = strings.TrimSuffix(line, `\`) + scanner.Text()
		}
		// A continuation on the final line continues into nothing.
		line = strings.TrimSuffix(line, `\`)

		line = stripComment(line)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "-") {
			parsed.Directives = append(parsed.Directives, parseDirective(line))
			continue
		}

		req, err := parseRequirement(line, startLine)
		if err != nil {
			return nil, err
		}
		parsed.Requirements = append(parsed.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return parsed, nil
}

// stripComment removes a trailing "#" comment. A comment starts at the
// beginning of the line or after whitespace; "#" glued to text (as in a
// URL fragment) is kept.
func stripComment(line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return line[:i]
		}
	}
	return line
}

// parseDirective splits an option line into flag and value. Both
// "--index-url URL" and "--index-url=URL" forms are accepted.
func parseDirective(line string) Directive {
	if opt, val, found := strings.Cut(line, "="); found && !strings.ContainsAny(opt, " \t") {
		return Directive{Option: opt, Value: strings.TrimSpace(val)}
	}
	opt, val, _ := strings.Cut(line, " ")
	return Directive{Option: opt, Value: strings.TrimSpace(val)}
}

// parseRequirement splits one logical line into name, extras, constraint,
// and environment marker.
func parseRequirement(line string, lineNo int) (Requirement, error) {
	var req Requirement

	// The environment marker comes after the first ";" and never contains
	// one itself in practice.
	spec, marker, found := strings.Cut(line, ";")
	if found {
		req.Marker = strings.TrimSpace(marker)
	}
	spec = strings.TrimSpace(spec)

	name := spec
	if idx := findOperator(spec); idx >= 0 {
		name = strings.TrimSpace(spec[:idx])
		req.Constraint = strings.TrimSpace(spec[idx:])
	}

	if open := strings.Index(name, "["); open >= 0 {
		closing := strings.LastIndex(name, "]")
		if closing < open {
			return Requirement{}, &MalformedRequirementError{Line: lineNo, Text: line}
		}
		req.Extras = name[open+1 : closing]
		name = strings.TrimSpace(name[:open])
	}

	req.Name = RequirementName(name)
	if ok, _ := req.Name.IsValid(); !ok {
		return Requirement{}, &MalformedRequirementError{Line: lineNo, Text: line}
	}

	return req, nil
}

// findOperator returns the byte offset of the earliest version operator in
// spec, or -1 when the spec is a bare name. The constraint keeps everything
// from that offset onward, so overlapping operators (">=" vs ">") need no
// tie-breaking.
func findOperator(spec string) int {
	best := -1
	for _, op := range versionOperators {
		idx := strings.Index(spec, op)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best {
			best = idx
		}
	}
	return best
}
