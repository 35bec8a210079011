// Package model defines the read-only semantic model the generator walks.
//
// A model is produced by a host front-end (the Go loader or a YAML model
// file) and never mutated by the generator.
package model

import "strings"

// TypeKind represents the category of a type declaration.
type TypeKind string

const (
	KindStruct    TypeKind = "struct"
	KindNamed     TypeKind = "named"
	KindInterface TypeKind = "interface"
)

// Accessibility is the declared visibility of a type or member.
type Accessibility string

const (
	Public    Accessibility = "public"
	Internal  Accessibility = "internal"
	Protected Accessibility = "protected"
	Private   Accessibility = "private"
)

// MemberKind tells property-like data members apart from everything else a
// type exposes.
type MemberKind string

const (
	MemberProperty MemberKind = "property"
	MemberEmbedded MemberKind = "embedded"
	MemberMethod   MemberKind = "method"
)

// SpecialType marks built-in types the generator treats specially.
type SpecialType string

const (
	SpecialNone   SpecialType = ""
	SpecialString SpecialType = "string"
)

// Module is the root of a semantic model.
type Module struct {
	Name       string
	Global     *Namespace
	References []*Module // modules visible to lookups but never walked
}

// Namespace is one segment of a namespace chain. The global namespace has
// no parent and an empty name.
type Namespace struct {
	Name       string
	Package    string // package clause for generated files, defaults to Name
	Dir        string // source directory, if known
	Parent     *Namespace
	Namespaces []*Namespace
	Types      []*TypeDecl
}

// TypeDecl represents a named type declaration.
type TypeDecl struct {
	Name         string
	Access       Accessibility
	Kind         TypeKind
	TypeParams   []string
	Namespace    *Namespace
	Parent       *TypeDecl // containing type for nested declarations
	Nested       []*TypeDecl
	Capabilities []Capability // directly declared
	Members      []Member
}

// Capability is a generic contract implemented by a type, identified by its
// generic definition and bound type arguments.
type Capability struct {
	Definition string
	Args       []TypeRef
	Implied    []Capability // capabilities this one brings along
}

// Member is a data member, embedded type or method of a TypeDecl.
type Member struct {
	Name   string
	Access Accessibility
	Kind   MemberKind
	Type   TypeRef
}

// TypeRef is a reference to a type as it appears in source.
type TypeRef struct {
	Name    string
	Special SpecialType
}

// IsGlobal reports whether n is the global namespace.
func (n *Namespace) IsGlobal() bool {
	return n == nil || n.Parent == nil
}

// PackageName returns the package clause used for generated files.
func (n *Namespace) PackageName() string {
	if n.Package != "" {
		return n.Package
	}
	return n.Name
}

// Segments returns the namespace chain from outermost to innermost,
// excluding the global namespace.
func (n *Namespace) Segments() []string {
	var segs []string
	for ns := n; !ns.IsGlobal(); ns = ns.Parent {
		segs = append(segs, ns.Name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return segs
}

// ImportPath joins the namespace chain with slashes.
func (n *Namespace) ImportPath() string {
	return strings.Join(n.Segments(), "/")
}

// Child returns the direct child namespace with the given name, creating it
// when absent. Only front-ends call this while building a model.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.Namespaces {
		if c.Name == name {
			return c
		}
	}
	c := &Namespace{Name: name, Parent: n}
	n.Namespaces = append(n.Namespaces, c)
	return c
}

// QualifiedName returns the canonical identifier of t: its namespace import
// path, a dot, then the chain of containing type names and its own name.
func (t *TypeDecl) QualifiedName() string {
	name := t.Name
	for p := t.Parent; p != nil; p = p.Parent {
		name = p.Name + "." + name
	}
	if path := t.Namespace.ImportPath(); path != "" {
		return path + "." + name
	}
	return name
}

// AllCapabilities returns the transitive capability list of t, depth-first
// in declaration order. A capability reachable through several paths is
// reported once.
func (t *TypeDecl) AllCapabilities() []Capability {
	var out []Capability
	seen := make(map[string]bool)
	var visit func(caps []Capability)
	visit = func(caps []Capability) {
		for _, c := range caps {
			key := c.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
			visit(c.Implied)
		}
	}
	visit(t.Capabilities)
	return out
}

// Key identifies a constructed capability, definition plus arguments.
func (c Capability) Key() string {
	if len(c.Args) == 0 {
		return c.Definition
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Name
	}
	return c.Definition + "[" + strings.Join(args, ",") + "]"
}

// LookupType finds a type by qualified name in m and then in its
// references. It returns nil if no such type exists.
func (m *Module) LookupType(qualified string) *TypeDecl {
	if t := lookupNamespace(m.Global, qualified); t != nil {
		return t
	}
	for _, ref := range m.References {
		if t := ref.LookupType(qualified); t != nil {
			return t
		}
	}
	return nil
}

func lookupNamespace(ns *Namespace, qualified string) *TypeDecl {
	if ns == nil {
		return nil
	}
	for _, t := range ns.Types {
		if found := lookupType(t, qualified); found != nil {
			return found
		}
	}
	for _, child := range ns.Namespaces {
		if found := lookupNamespace(child, qualified); found != nil {
			return found
		}
	}
	return nil
}

func lookupType(t *TypeDecl, qualified string) *TypeDecl {
	if t.QualifiedName() == qualified {
		return t
	}
	for _, n := range t.Nested {
		if found := lookupType(n, qualified); found != nil {
			return found
		}
	}
	return nil
}

// Fragment is one generated compilation unit, produced for one matched type.
type Fragment struct {
	Name       string // logical name, e.g. "Poco.JsonSerializable"
	Namespace  string // dot-joined namespace path of the source type
	ImportPath string // slash-joined namespace segments
	Package    string
	Dir        string // directory of the source package, if known
	Source     string
}
