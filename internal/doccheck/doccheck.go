// SPDX-License-Identifier: MPL-2.0

// Package doccheck audits documentation coverage of exported
// declarations across a module's packages.
package doccheck

import (
	"context"
	"fmt"
	"go/ast"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax

// Decl is one exported declaration without a doc comment.
type Decl struct {
	// Name describes the declaration (e.g., "func Dial", "type Conn",
	// "method (*Conn) Close").
	Name string
	// Pos is the declaration site as file:line, relative to the module.
	Pos string
}

// Report holds the audit result for one package.
type Report struct {
	// Package is the import path.
	Package string
	// MissingPackageDoc is true when no file carries a package comment.
	MissingPackageDoc bool
	// Undocumented lists exported declarations without doc comments.
	Undocumented []Decl
	// Total counts exported declarations considered.
	Total int
	// Documented counts those with doc comments.
	Documented int
}

// Coverage returns the documented percentage. A package with nothing
// exported counts as fully documented.
func (r Report) Coverage() float64 {
	if r.Total == 0 {
		return 100
	}
	return float64(r.Documented) / float64(r.Total) * 100
}

// Auditor loads a module's packages and measures doc coverage.
type Auditor struct {
	// Logger, when set, logs per-package results at debug level.
	Logger *log.Logger
}

// Audit loads every package under dir (with the given build flags) and
// reports per-package coverage, sorted by import path. Test binaries are
// not loaded; generated files are skipped.
func (a *Auditor) Audit(ctx context.Context, dir string, buildFlags []string) ([]Report, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        dir,
		BuildFlags: buildFlags,
	}

	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("loading packages in %s: %w", dir, err)
	}

	var reports []Report
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, fmt.Errorf("loading %s: %v", p.PkgPath, p.Errors[0])
		}
		r := auditPackage(p, dir)
		if a.Logger != nil {
			a.Logger.Debug("audited package",
				"package", r.Package,
				"coverage", fmt.Sprintf("%.0f%%", r.Coverage()),
				"undocumented", len(r.Undocumented))
		}
		reports = append(reports, r)
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Package < reports[j].Package })
	return reports, nil
}

func auditPackage(p *packages.Package, dir string) Report {
	r := Report{Package: p.PkgPath, MissingPackageDoc: true}

	record := func(name string, documented bool, pos ast.Node) {
		r.Total++
		if documented {
			r.Documented++
			return
		}
		position := p.Fset.Position(pos.Pos())
		file := position.Filename
		if rel, err := filepath.Rel(dir, file); err == nil {
			file = rel
		}
		r.Undocumented = append(r.Undocumented, Decl{
			Name: name,
			Pos:  fmt.Sprintf("%s:%d", file, position.Line),
		})
	}

	sawFile := false
	for _, file := range p.Syntax {
		if ast.IsGenerated(file) {
			continue
		}
		sawFile = true
		if file.Doc != nil {
			r.MissingPackageDoc = false
		}

		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				name, exported := funcName(d)
				if !exported {
					continue
				}
				record(name, d.Doc != nil, d)
			case *ast.GenDecl:
				for _, spec := range d.Specs {
					switch sp := spec.(type) {
					case *ast.TypeSpec:
						if !sp.Name.IsExported() {
							continue
						}
						record("type "+sp.Name.Name, sp.Doc != nil || d.Doc != nil, sp)
					case *ast.ValueSpec:
						kind := "var"
						if d.Tok.String() == "const" {
							kind = "const"
						}
						for _, ident := range sp.Names {
							if !ident.IsExported() {
								continue
							}
							record(kind+" "+ident.Name, sp.Doc != nil || d.Doc != nil, ident)
						}
					}
				}
			}
		}
	}

	// A package with no hand-written files cannot carry a comment.
	if !sawFile {
		r.MissingPackageDoc = false
	}

	return r
}

// funcName renders a function or method name, reporting whether it is
// part of the public surface. Methods count only when both the method
// and the receiver type are exported.
func funcName(d *ast.FuncDecl) (string, bool) {
	if !d.Name.IsExported() {
		return "", false
	}
	if d.Recv == nil || len(d.Recv.List) == 0 {
		return "func " + d.Name.Name, true
	}

	recv := d.Recv.List[0].Type
	star := ""
	if s, ok := recv.(*ast.StarExpr); ok {
		recv = s.X
		star = "*"
	}
	// Strip type parameters from generic receivers.
	if idx, ok := recv.(*ast.IndexExpr); ok {
		recv = idx.X
	}
	if idx, ok := recv.(*ast.IndexListExpr); ok {
		recv = idx.X
	}
	ident, ok := recv.(*ast.Ident)
	if !ok || !ident.IsExported() {
		return "", false
	}
	return fmt.Sprintf("method (%s%s) %s", star, ident.Name, d.Name.Name), true
}
