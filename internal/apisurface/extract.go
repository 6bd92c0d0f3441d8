// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gomaint/internal/workspace"

	"github.com/charmbracelet/log"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedImports | packages.NeedDeps | packages.NeedTypes

// Extractor derives surface snapshots by loading a module's packages through
// the installed go toolchain.
type Extractor struct {
	// Logger records per-extraction progress at debug level when set.
	Logger *log.Logger
}

// Extract renders the public surface of pkg under cfg. The toolchain runs
// with the module directory as its working directory so the profile's build
// tags resolve against that module alone, not the whole workspace.
func (e *Extractor) Extract(ctx context.Context, pkg workspace.PackageInfo, cfg FeatureConfig) (PublicAPI, error) {
	if e.Logger != nil {
		e.Logger.Debug("extracting API surface", "package", pkg.Name, "config", cfg.String())
	}

	loadCfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        pkg.Dir,
		BuildFlags: cfg.BuildFlags(),
	}
	loaded, err := packages.Load(loadCfg, "./...")
	if err != nil {
		return PublicAPI{}, &ExtractionError{Package: pkg.Name, Config: cfg, Err: err}
	}

	var loadErrs []string
	for _, p := range loaded {
		for _, perr := range p.Errors {
			loadErrs = append(loadErrs, perr.Error())
		}
	}
	if len(loadErrs) > 0 {
		return PublicAPI{}, &ExtractionError{
			Package: pkg.Name,
			Config:  cfg,
			Err:     fmt.Errorf("%d load error(s): %s", len(loadErrs), strings.Join(loadErrs, "; ")),
		}
	}

	sort.Slice(loaded, func(i, j int) bool { return loaded[i].PkgPath < loaded[j].PkgPath })

	var api PublicAPI
	for _, p := range loaded {
		if p.Types == nil || p.Name == "main" || isInternal(p.PkgPath) {
			continue
		}
		renderPackage(&api, pkg, p)
	}
	return api, nil
}

// APISet extracts one snapshot per catalog configuration, in catalog order,
// failing fast on the first extraction error.
func (e *Extractor) APISet(ctx context.Context, pkg workspace.PackageInfo) (PackageAPISet, error) {
	set := make(PackageAPISet, len(Configs()))
	for _, cfg := range Configs() {
		api, err := e.Extract(ctx, pkg, cfg)
		if err != nil {
			return nil, err
		}
		set[cfg] = api
	}
	return set, nil
}

// isInternal reports whether any path element makes the package unimportable
// from outside the module.
func isInternal(pkgPath string) bool {
	for _, seg := range strings.Split(pkgPath, "/") {
		if seg == "internal" {
			return true
		}
	}
	return false
}
