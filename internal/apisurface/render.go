// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"bytes"
	"fmt"
	"go/types"
	"strings"

	"gomaint/internal/workspace"

	"golang.org/x/tools/go/packages"
)

// pkgLabel returns the short label identifying a package inside its module:
// the module name for the root package, "name/rel" for nested packages.
func pkgLabel(mod workspace.PackageInfo, pkgPath string) string {
	rel := strings.TrimPrefix(pkgPath, mod.ModPath)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return mod.Name
	}
	return mod.Name + "/" + rel
}

// moduleQualifier renders same-package type references bare, same-module
// references with their short label, and everything else with the full
// import path, so a declaration line is stable no matter where it appears.
func moduleQualifier(mod workspace.PackageInfo, current *types.Package) types.Qualifier {
	return func(p *types.Package) string {
		if p == current {
			return ""
		}
		if p.Path() == mod.ModPath || strings.HasPrefix(p.Path(), mod.ModPath+"/") {
			return pkgLabel(mod, p.Path())
		}
		return p.Path()
	}
}

// renderPackage adds every exported package-level declaration of p to api.
func renderPackage(api *PublicAPI, mod workspace.PackageInfo, p *packages.Package) {
	label := pkgLabel(mod, p.PkgPath)
	qual := moduleQualifier(mod, p.Types)

	scope := p.Types.Scope()
	for _, name := range scope.Names() {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		switch o := obj.(type) {
		case *types.Const:
			renderConst(api, label, qual, o)
		case *types.Var:
			renderVar(api, label, qual, o)
		case *types.Func:
			renderFunc(api, label, qual, o)
		case *types.TypeName:
			renderTypeName(api, label, qual, o)
		}
	}
}

func renderConst(api *PublicAPI, label string, qual types.Qualifier, o *types.Const) {
	name := "const " + label + "." + o.Name()
	value := o.Val().ExactString()
	if basic, ok := o.Type().(*types.Basic); ok && basic.Info()&types.IsUntyped != 0 {
		api.add(name, fmt.Sprintf("%s = %s", name, value))
		return
	}
	api.add(name, fmt.Sprintf("%s %s = %s", name, types.TypeString(o.Type(), qual), value))
}

func renderVar(api *PublicAPI, label string, qual types.Qualifier, o *types.Var) {
	name := "var " + label + "." + o.Name()
	api.add(name, name+" "+types.TypeString(o.Type(), qual))
}

func renderFunc(api *PublicAPI, label string, qual types.Qualifier, o *types.Func) {
	name := "func " + label + "." + o.Name()
	api.add(name, name+signatureString(o.Type().(*types.Signature), qual))
}

// renderTypeName emits the type line plus the lines the type carries with it:
// exported struct fields and the exported method set (promoted methods
// included, listed under the promoting type).
func renderTypeName(api *PublicAPI, label string, qual types.Qualifier, o *types.TypeName) {
	qname := label + "." + o.Name()
	name := "type " + qname

	if o.IsAlias() {
		api.add(name, name+" = "+types.TypeString(o.Type(), qual))
		return
	}

	named, ok := o.Type().(*types.Named)
	if !ok {
		api.add(name, name+" "+types.TypeString(o.Type().Underlying(), qual))
		return
	}
	tparams := typeParamsString(named.TypeParams(), qual)

	switch u := named.Underlying().(type) {
	case *types.Struct:
		api.add(name, name+tparams+" struct")
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if !f.Exported() {
				continue
			}
			fname := "field " + qname + "." + f.Name()
			api.add(fname, fname+" "+types.TypeString(f.Type(), qual))
		}
	case *types.Interface:
		api.add(name, name+tparams+" interface")
		for i := 0; i < u.NumMethods(); i++ {
			m := u.Method(i)
			if !m.Exported() {
				continue
			}
			mname := "method (" + qname + ") " + m.Name()
			api.add(mname, mname+signatureString(m.Type().(*types.Signature), qual))
		}
		return // interface methods are the whole method set
	default:
		api.add(name, name+tparams+" "+types.TypeString(named.Underlying(), qual))
	}

	renderMethodSet(api, qname, qual, named)
}

// renderMethodSet walks the method set of *T, which subsumes the value
// receiver set. Receiver pointerness in the rendered line follows the
// declaration, not the set walked.
func renderMethodSet(api *PublicAPI, qname string, qual types.Qualifier, named *types.Named) {
	recvParams := typeParamNames(named.TypeParams())
	ms := types.NewMethodSet(types.NewPointer(named))
	for i := 0; i < ms.Len(); i++ {
		m, ok := ms.At(i).Obj().(*types.Func)
		if !ok || !m.Exported() {
			continue
		}
		sig := m.Type().(*types.Signature)
		star := ""
		if recv := sig.Recv(); recv != nil {
			if _, isPtr := recv.Type().(*types.Pointer); isPtr {
				star = "*"
			}
		}
		mname := "method (" + star + qname + recvParams + ") " + m.Name()
		api.add(mname, mname+signatureString(sig, qual))
	}
}

// signatureString renders a signature without the func keyword or receiver,
// e.g. "(addr string) (*Conn, error)".
func signatureString(sig *types.Signature, qual types.Qualifier) string {
	var buf bytes.Buffer
	types.WriteSignature(&buf, sig, qual)
	return buf.String()
}

// typeParamsString renders a declared type parameter list with constraints,
// e.g. "[K comparable, V any]".
func typeParamsString(tparams *types.TypeParamList, qual types.Qualifier) string {
	if tparams == nil || tparams.Len() == 0 {
		return ""
	}
	parts := make([]string, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		tp := tparams.At(i)
		parts[i] = tp.Obj().Name() + " " + types.TypeString(tp.Constraint(), qual)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// typeParamNames renders just the parameter names for receiver position,
// e.g. "[K, V]".
func typeParamNames(tparams *types.TypeParamList) string {
	if tparams == nil || tparams.Len() == 0 {
		return ""
	}
	names := make([]string, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		names[i] = tparams.At(i).Obj().Name()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
