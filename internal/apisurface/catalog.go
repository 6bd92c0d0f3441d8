// SPDX-License-Identifier: MPL-2.0

package apisurface

import "strings"

// featureTags is the full set of optional build tags workspace libraries use
// to gate capability-dependent API: alloc for heap-backed helpers, rand for
// OS-entropy-backed helpers. Order matters for -tags rendering.
var featureTags = []string{"alloc", "rand"}

// FeatureConfig is one build profile under which a module's public surface is
// extracted. The set is closed and ordered; adding a profile means adding a
// constant here and extending every switch in this file.
type FeatureConfig int

const (
	// FeatureNone builds with no optional tags enabled.
	FeatureNone FeatureConfig = iota
	// FeatureAlloc enables only the alloc tag.
	FeatureAlloc
	// FeatureAll enables every optional tag.
	FeatureAll
)

// Configs returns the catalog in extraction order, smallest surface first.
func Configs() []FeatureConfig {
	return []FeatureConfig{FeatureNone, FeatureAlloc, FeatureAll}
}

// String returns the human display label.
func (c FeatureConfig) String() string {
	switch c {
	case FeatureNone:
		return "no-features"
	case FeatureAlloc:
		return "alloc-only"
	case FeatureAll:
		return "all-features"
	}
	return "unknown"
}

// FileName returns the stable snapshot file name for api/ directories.
func (c FeatureConfig) FileName() string {
	switch c {
	case FeatureNone:
		return "no-features.txt"
	case FeatureAlloc:
		return "alloc-only.txt"
	case FeatureAll:
		return "all-features.txt"
	}
	return "unknown.txt"
}

// BuildTags returns the build tags enabled under this profile.
func (c FeatureConfig) BuildTags() []string {
	switch c {
	case FeatureNone:
		return nil
	case FeatureAlloc:
		return []string{"alloc"}
	case FeatureAll:
		return append([]string(nil), featureTags...)
	}
	return nil
}

// BuildFlags returns the toolchain flags selecting this profile, or nil when
// the default build already matches.
func (c FeatureConfig) BuildFlags() []string {
	tags := c.BuildTags()
	if len(tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(tags, ",")}
}

// AllFeatureTags returns the full optional tag set (the all-features profile).
func AllFeatureTags() []string {
	return append([]string(nil), featureTags...)
}
