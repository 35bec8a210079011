// Package parser builds semantic models for the generator.
//
// LoadPackages type-checks Go packages with golang.org/x/tools/go/packages;
// LoadModel reads a model description written in YAML.
package parser

import (
	"context"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"jsongen/internal/logger"
	"jsongen/internal/model"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedModule

// Parser loads Go packages into a semantic model.
type Parser struct {
	dir string
	log logger.Logger
}

// New creates a Parser resolving patterns relative to dir.
func New(dir string, log logger.Logger) *Parser {
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Parser{dir: dir, log: log}
}

// LoadPackages type-checks the packages matching patterns. Matched packages
// form the module that gets walked; everything they import becomes a
// reference module, searched when resolving the capability.
func (p *Parser) LoadPackages(ctx context.Context, patterns ...string) (*model.Module, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     p.dir,
		Mode:    loadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "loading packages %v", patterns)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %v", patterns)
	}

	var pkgErrs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			pkgErrs = append(pkgErrs, e.Error())
		}
	}
	if len(pkgErrs) > 0 {
		return nil, errors.WithHint(
			errors.Newf("package errors:\n%s", strings.Join(pkgErrs, "\n")),
			"stale generated files can break type-checking; delete them and run again",
		)
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	roots := make(map[string]bool, len(pkgs))
	source := &model.Module{Global: &model.Namespace{}}
	if pkgs[0].Module != nil {
		source.Name = pkgs[0].Module.Path
	}
	for _, pkg := range pkgs {
		roots[pkg.PkgPath] = true
		p.addPackage(source.Global, pkg, true)
		p.log.Debug("loaded package", "path", pkg.PkgPath, "types", len(pkg.Types.Scope().Names()))
	}

	deps := &model.Module{Name: "dependencies", Global: &model.Namespace{}}
	var depPkgs []*packages.Package
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		if !roots[pkg.PkgPath] && pkg.Types != nil {
			depPkgs = append(depPkgs, pkg)
		}
	})
	sort.Slice(depPkgs, func(i, j int) bool { return depPkgs[i].PkgPath < depPkgs[j].PkgPath })
	for _, pkg := range depPkgs {
		p.addPackage(deps.Global, pkg, false)
	}
	source.References = []*model.Module{deps}

	return source, nil
}

// addPackage declares the package's types in the namespace chain built from
// its import path. Only root packages get members and capabilities.
func (p *Parser) addPackage(global *model.Namespace, pkg *packages.Package, full bool) {
	ns := global
	for _, seg := range strings.Split(pkg.PkgPath, "/") {
		ns = ns.Child(seg)
	}
	ns.Package = pkg.Name
	if len(pkg.GoFiles) > 0 {
		ns.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		obj, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || obj.IsAlias() {
			continue
		}
		if decl := p.typeDecl(obj, ns, full); decl != nil {
			ns.Types = append(ns.Types, decl)
		}
	}
}

func (p *Parser) typeDecl(obj *types.TypeName, ns *model.Namespace, full bool) *model.TypeDecl {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil
	}

	decl := &model.TypeDecl{
		Name:      obj.Name(),
		Access:    access(obj.Exported()),
		Kind:      kindOf(named.Underlying()),
		Namespace: ns,
	}
	if tps := named.TypeParams(); tps != nil {
		for i := range tps.Len() {
			decl.TypeParams = append(decl.TypeParams, tps.At(i).Obj().Name())
		}
	}
	if !full {
		return decl
	}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := range st.NumFields() {
			f := st.Field(i)
			member := model.Member{
				Name:   f.Name(),
				Access: access(f.Exported()),
				Kind:   model.MemberProperty,
				Type:   typeRef(f.Type()),
			}
			if f.Embedded() {
				member.Kind = model.MemberEmbedded
				if c, ok := capability(f.Type(), make(map[string]bool)); ok {
					decl.Capabilities = append(decl.Capabilities, c)
				}
			}
			decl.Members = append(decl.Members, member)
		}
	}
	for i := range named.NumMethods() {
		m := named.Method(i)
		decl.Members = append(decl.Members, model.Member{
			Name:   m.Name(),
			Access: access(m.Exported()),
			Kind:   model.MemberMethod,
		})
	}
	return decl
}

// capability describes an embedded type as a capability. Struct types bring
// their own embedded types along as implied capabilities; seen stops the
// recursion on pointer embedding cycles.
func capability(t types.Type, seen map[string]bool) (model.Capability, bool) {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return model.Capability{}, false
	}

	c := model.Capability{Definition: qualifiedName(named.Origin().Obj())}
	if args := named.TypeArgs(); args != nil {
		for i := range args.Len() {
			c.Args = append(c.Args, typeRef(args.At(i)))
		}
	}

	key := c.Key()
	if seen[key] {
		return c, true
	}
	seen[key] = true

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := range st.NumFields() {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			if implied, ok := capability(f.Type(), seen); ok {
				c.Implied = append(c.Implied, implied)
			}
		}
	}
	return c, true
}

func qualifiedName(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

func typeRef(t types.Type) model.TypeRef {
	ref := model.TypeRef{Name: types.TypeString(t, nil)}
	if b, ok := types.Unalias(t).(*types.Basic); ok && b.Kind() == types.String {
		ref.Special = model.SpecialString
	}
	return ref
}

func kindOf(t types.Type) model.TypeKind {
	switch t.(type) {
	case *types.Struct:
		return model.KindStruct
	case *types.Interface:
		return model.KindInterface
	default:
		return model.KindNamed
	}
}

func access(exported bool) model.Accessibility {
	if exported {
		return model.Public
	}
	return model.Internal
}
