// SPDX-License-Identifier: MPL-2.0

package apisurface

import "fmt"

// ConfigResult is the comparison outcome for one feature configuration.
type ConfigResult struct {
	Config FeatureConfig
	Diff   APIDiff
}

// Breaking reports whether this configuration removes or alters items
// relative to the baseline.
func (r ConfigResult) Breaking() bool { return r.Diff.Breaking() }

// BreakingChangeReport aggregates per-configuration comparison results for
// one package.
type BreakingChangeReport struct {
	Package string
	Results []ConfigResult
}

// Breaking reports whether any configuration is breaking.
func (r *BreakingChangeReport) Breaking() bool {
	for _, res := range r.Results {
		if res.Breaking() {
			return true
		}
	}
	return false
}

// BreakingConfigs returns the labels of the breaking configurations.
func (r *BreakingChangeReport) BreakingConfigs() []string {
	var labels []string
	for _, res := range r.Results {
		if res.Breaking() {
			labels = append(labels, res.Config.String())
		}
	}
	return labels
}

// Compare diffs baseline against current for every catalog configuration.
// Removed or changed items make a configuration breaking; additions alone do
// not. Both sets must be complete.
func Compare(pkg string, current, baseline PackageAPISet) (*BreakingChangeReport, error) {
	if err := baseline.Complete(); err != nil {
		return nil, fmt.Errorf("baseline snapshot of %s: %w", pkg, err)
	}
	if err := current.Complete(); err != nil {
		return nil, fmt.Errorf("current snapshot of %s: %w", pkg, err)
	}

	report := &BreakingChangeReport{Package: pkg}
	for _, cfg := range Configs() {
		report.Results = append(report.Results, ConfigResult{
			Config: cfg,
			Diff:   Diff(baseline[cfg], current[cfg]),
		})
	}
	return report, nil
}
