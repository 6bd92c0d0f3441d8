// SPDX-License-Identifier: MPL-2.0

// Package matrix expands feature build tags into the combinations the
// test matrix exercises, and parses example run specifications.
package matrix

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrInvalidExample is the sentinel error wrapped by InvalidExampleError.
var ErrInvalidExample = errors.New("invalid example spec")

// InvalidExampleError is returned when an example spec does not match
// "name", "name:-", or "name:tag1 tag2". It wraps ErrInvalidExample.
type InvalidExampleError struct {
	Spec string
}

// Error implements the error interface for InvalidExampleError.
func (e *InvalidExampleError) Error() string {
	return fmt.Sprintf("invalid example spec %q: expected 'name', 'name:-', or 'name:tag1 tag2'", e.Spec)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidExampleError) Unwrap() error { return ErrInvalidExample }

// ExampleMode selects the tag set an example runs with.
type ExampleMode int

const (
	// ModeDefault runs the example with the module's base tags.
	ModeDefault ExampleMode = iota
	// ModeNoTags runs the example with no build tags at all.
	ModeNoTags
	// ModeTags runs the example with exactly the listed tags.
	ModeTags
)

// ExampleRun is one parsed example specification.
type ExampleRun struct {
	Name string
	Mode ExampleMode
	Tags []string
}

// ParseExample parses an example spec from [test] examples.
//
// Three forms are accepted: "name" runs with the module's base tags,
// "name:-" runs with no tags, and "name:tag1 tag2" runs with exactly
// the space-separated tags.
func ParseExample(spec string) (ExampleRun, error) {
	parts := strings.Split(spec, ":")

	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return ExampleRun{}, &InvalidExampleError{Spec: spec}
		}
		return ExampleRun{Name: parts[0], Mode: ModeDefault}, nil
	case 2:
		name, rest := parts[0], parts[1]
		if name == "" {
			return ExampleRun{}, &InvalidExampleError{Spec: spec}
		}
		if rest == "-" {
			return ExampleRun{Name: name, Mode: ModeNoTags}, nil
		}
		tags := strings.Fields(rest)
		if len(tags) == 0 {
			return ExampleRun{}, &InvalidExampleError{Spec: spec}
		}
		return ExampleRun{Name: name, Mode: ModeTags, Tags: tags}, nil
	default:
		return ExampleRun{}, &InvalidExampleError{Spec: spec}
	}
}

// BuildTags resolves the tag set this run uses, given the module's base
// tags.
func (r ExampleRun) BuildTags(base []string) []string {
	switch r.Mode {
	case ModeNoTags:
		return nil
	case ModeTags:
		return slices.Clone(r.Tags)
	default:
		return slices.Clone(base)
	}
}

// Combos expands feature tags into the tested combinations, each on top
// of base: all features together, then each feature alone and each
// unique pair. Singles and pairs are only emitted when there is more
// than one feature; with a single feature the all-together combination
// already covers it. No features yields no combinations.
//
// Pair testing catches feature interaction bugs (two tags that work
// alone but conflict together) while keeping run time manageable.
func Combos(base, features []string) [][]string {
	if len(features) == 0 {
		return nil
	}

	var combos [][]string
	add := func(tags ...string) {
		combo := make([]string, 0, len(base)+len(tags))
		combo = append(combo, base...)
		combo = append(combo, tags...)
		combos = append(combos, combo)
	}

	add(features...)

	if len(features) > 1 {
		for i := range features {
			add(features[i])
			for j := i + 1; j < len(features); j++ {
				add(features[i], features[j])
			}
		}
	}

	return combos
}

// TagsFlag renders a tag set as go build flags: nil for the empty set,
// otherwise a single comma-joined -tags flag.
func TagsFlag(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(tags, ",")}
}
