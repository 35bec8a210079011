package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain(global *Namespace, segs ...string) *Namespace {
	ns := global
	for _, s := range segs {
		ns = ns.Child(s)
	}
	return ns
}

func TestNamespace(t *testing.T) {
	t.Run("Should reuse existing children", func(t *testing.T) {
		global := &Namespace{}
		a := global.Child("a")
		assert.Same(t, a, global.Child("a"))
		assert.Len(t, global.Namespaces, 1)
	})

	t.Run("Should list segments outermost first", func(t *testing.T) {
		ns := chain(&Namespace{}, "example.com", "shop", "models")
		assert.Equal(t, []string{"example.com", "shop", "models"}, ns.Segments())
		assert.Equal(t, "example.com/shop/models", ns.ImportPath())
	})

	t.Run("Should treat the global namespace as empty", func(t *testing.T) {
		global := &Namespace{}
		assert.True(t, global.IsGlobal())
		assert.Empty(t, global.Segments())
		assert.Equal(t, "", global.ImportPath())
	})

	t.Run("Should prefer the explicit package name", func(t *testing.T) {
		ns := chain(&Namespace{}, "go-yaml")
		assert.Equal(t, "go-yaml", ns.PackageName())
		ns.Package = "yaml"
		assert.Equal(t, "yaml", ns.PackageName())
	})
}

func TestTypeDecl(t *testing.T) {
	global := &Namespace{}
	ns := chain(global, "shop", "models")
	order := &TypeDecl{Name: "Order", Namespace: ns}
	line := &TypeDecl{Name: "Line", Namespace: ns, Parent: order}
	order.Nested = []*TypeDecl{line}
	ns.Types = append(ns.Types, order)
	loose := &TypeDecl{Name: "Loose", Namespace: global}
	global.Types = append(global.Types, loose)

	t.Run("Should qualify names by import path and containing types", func(t *testing.T) {
		assert.Equal(t, "shop/models.Order", order.QualifiedName())
		assert.Equal(t, "shop/models.Order.Line", line.QualifiedName())
		assert.Equal(t, "Loose", loose.QualifiedName())
	})

	t.Run("Should look up types, nested ones and references", func(t *testing.T) {
		ref := &Module{Global: &Namespace{}}
		util := chain(ref.Global, "util")
		codec := &TypeDecl{Name: "Codec", Namespace: util}
		util.Types = append(util.Types, codec)

		m := &Module{Global: global, References: []*Module{ref}}
		assert.Same(t, order, m.LookupType("shop/models.Order"))
		assert.Same(t, line, m.LookupType("shop/models.Order.Line"))
		assert.Same(t, loose, m.LookupType("Loose"))
		assert.Same(t, codec, m.LookupType("util.Codec"))
		assert.Nil(t, m.LookupType("shop/models.Missing"))
	})
}

func TestAllCapabilities(t *testing.T) {
	t.Run("Should flatten implied capabilities depth-first without repeats", func(t *testing.T) {
		ser := Capability{Definition: "jsonser.Serializable", Args: []TypeRef{{Name: "Base"}}}
		base := Capability{Definition: "models.Base", Implied: []Capability{ser}}
		audit := Capability{Definition: "models.Audit", Implied: []Capability{ser}}
		typ := &TypeDecl{Name: "Order", Capabilities: []Capability{base, audit}}

		all := typ.AllCapabilities()
		require.Len(t, all, 3)
		assert.Equal(t, "models.Base", all[0].Definition)
		assert.Equal(t, "jsonser.Serializable", all[1].Definition)
		assert.Equal(t, "models.Audit", all[2].Definition)
	})

	t.Run("Should keep the same definition with different arguments apart", func(t *testing.T) {
		a := Capability{Definition: "c.Codec", Args: []TypeRef{{Name: "A"}}}
		b := Capability{Definition: "c.Codec", Args: []TypeRef{{Name: "B"}}}
		typ := &TypeDecl{Capabilities: []Capability{a, b, a}}
		assert.Len(t, typ.AllCapabilities(), 2)
	})
}

func TestCapabilityKey(t *testing.T) {
	assert.Equal(t, "c.Plain", Capability{Definition: "c.Plain"}.Key())
	assert.Equal(t, "c.Codec[A,string]", Capability{
		Definition: "c.Codec",
		Args:       []TypeRef{{Name: "A"}, {Name: "string"}},
	}.Key())
}
