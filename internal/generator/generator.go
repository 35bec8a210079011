// Package generator finds serializable types in a semantic model and
// synthesizes their serializer methods.
package generator

import (
	"github.com/cockroachdb/errors"

	"jsongen/internal/config"
	"jsongen/internal/logger"
	"jsongen/internal/model"
	"jsongen/internal/registry"
)

var (
	// ErrCapabilityNotFound means the well-known capability is not part of
	// the model. Without it no type can match, so the run is aborted.
	ErrCapabilityNotFound = errors.New("serializable capability not found")

	// ErrCapabilityArity means the capability exists but does not take
	// exactly one type parameter.
	ErrCapabilityArity = errors.New("serializable capability must take exactly one type parameter")

	// ErrMethodClash means a matched type already has a field named like the
	// generated method. Go rejects a field and method of the same name.
	ErrMethodClash = errors.New("field name clashes with generated method")
)

// Generator walks a model and registers one fragment per matched type.
type Generator struct {
	cfg *config.Config
	log logger.Logger
}

// New creates a new Generator.
func New(cfg *config.Config, log logger.Logger) *Generator {
	if cfg == nil {
		cfg = config.New()
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Generator{cfg: cfg, log: log}
}

// Generate runs one full pass over m and returns the number of fragments
// registered with reg. The capability is resolved before anything is
// registered; a failure there aborts the run with no output.
func (g *Generator) Generate(m *model.Module, reg registry.Registry) (int, error) {
	capability, err := g.resolveCapability(m)
	if err != nil {
		return 0, err
	}

	w := &walker{g: g, capability: capability, reg: reg}
	if err := w.visitModule(m); err != nil {
		return w.count, err
	}
	g.log.Info("generation finished", "module", m.Name, "types", w.visited, "fragments", w.count)
	return w.count, nil
}

func (g *Generator) resolveCapability(m *model.Module) (string, error) {
	decl := m.LookupType(g.cfg.Capability)
	if decl == nil {
		return "", errors.WithHintf(
			errors.Wrapf(ErrCapabilityNotFound, "%s in module %q", g.cfg.Capability, m.Name),
			"make sure the package declaring %s is imported by the loaded packages", g.cfg.Capability,
		)
	}
	if len(decl.TypeParams) != 1 {
		return "", errors.Wrapf(ErrCapabilityArity, "%s declares %d", g.cfg.Capability, len(decl.TypeParams))
	}
	return decl.QualifiedName(), nil
}

// walker visits namespaces before their types and nested types before
// their container. Every reachable type is processed exactly once.
type walker struct {
	g          *Generator
	capability string
	reg        registry.Registry
	visited    int
	count      int
}

func (w *walker) visitModule(m *model.Module) error {
	if m.Global == nil {
		return nil
	}
	return w.visitNamespace(m.Global)
}

func (w *walker) visitNamespace(ns *model.Namespace) error {
	for _, child := range ns.Namespaces {
		if err := w.visitNamespace(child); err != nil {
			return err
		}
	}
	for _, t := range ns.Types {
		if err := w.visitType(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) visitType(t *model.TypeDecl) error {
	for _, nested := range t.Nested {
		if err := w.visitType(nested); err != nil {
			return err
		}
	}
	return w.process(t)
}

func (w *walker) process(t *model.TypeDecl) error {
	w.visited++
	g := w.g

	if !g.cfg.ShouldIncludeType(t.Name, t.Access == model.Public) {
		g.log.Debug("type filtered out", "type", t.QualifiedName())
		return nil
	}

	arg, ok := Match(t, w.capability)
	if !ok {
		return nil
	}

	for _, m := range t.Members {
		if m.Name == g.cfg.Options.MethodName && m.Kind != model.MemberMethod {
			return errors.WithHintf(
				errors.Wrapf(ErrMethodClash, "%s.%s", t.QualifiedName(), m.Name),
				"rename the field or configure another methodName",
			)
		}
	}

	members := PublicProperties(t)
	source, err := g.Synthesize(t, arg, members)
	if err != nil {
		return err
	}

	f := model.Fragment{
		Name:      t.Name + g.cfg.Options.UnitSuffix,
		Namespace: NamespacePath(t),
		Package:   packageName(t.Namespace),
		Source:    source,
	}
	if t.Namespace != nil {
		f.Dir = t.Namespace.Dir
		f.ImportPath = t.Namespace.ImportPath()
	}
	if err := w.reg.AddCompilationUnit(f); err != nil {
		return errors.Wrapf(err, "registering %s", f.Name)
	}
	w.count++
	g.log.Debug("generated serializer", "type", t.QualifiedName(), "unit", f.Name, "members", len(members))
	return nil
}
