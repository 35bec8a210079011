package parser

import (
	"go/token"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"jsongen/internal/model"
)

// moduleSpec is the on-disk form of a model description.
type moduleSpec struct {
	Name       string          `yaml:"name"`
	Namespaces []namespaceSpec `yaml:"namespaces"`
	Types      []typeSpec      `yaml:"types"` // global namespace
	References []moduleSpec    `yaml:"references"`
}

type namespaceSpec struct {
	Name       string          `yaml:"name"`
	Package    string          `yaml:"package"`
	Dir        string          `yaml:"dir"`
	Namespaces []namespaceSpec `yaml:"namespaces"`
	Types      []typeSpec      `yaml:"types"`
}

type typeSpec struct {
	Name         string           `yaml:"name"`
	Access       string           `yaml:"access"`
	Kind         string           `yaml:"kind"`
	TypeParams   []string         `yaml:"typeParams"`
	Capabilities []capabilitySpec `yaml:"capabilities"`
	Members      []memberSpec     `yaml:"members"`
	Nested       []typeSpec       `yaml:"nested"`
}

type capabilitySpec struct {
	Definition string           `yaml:"definition"`
	Args       []string         `yaml:"args"`
	Implied    []capabilitySpec `yaml:"implied"`
}

type memberSpec struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Access string `yaml:"access"`
	Kind   string `yaml:"kind"`
}

// LoadModel reads a YAML model description from path.
func LoadModel(path string) (*model.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading model file")
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return m, nil
}

// ParseModel decodes a YAML model description.
func ParseModel(data []byte) (*model.Module, error) {
	var spec moduleSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(err, "decoding YAML model")
	}
	return buildModule(spec)
}

func buildModule(spec moduleSpec) (*model.Module, error) {
	m := &model.Module{Name: spec.Name, Global: &model.Namespace{}}
	if err := addTypes(m.Global, nil, spec.Types, &m.Global.Types); err != nil {
		return nil, err
	}
	for _, ns := range spec.Namespaces {
		if err := addNamespace(m.Global, ns); err != nil {
			return nil, err
		}
	}
	for _, ref := range spec.References {
		r, err := buildModule(ref)
		if err != nil {
			return nil, errors.Wrapf(err, "reference %q", ref.Name)
		}
		m.References = append(m.References, r)
	}
	return m, nil
}

func addNamespace(parent *model.Namespace, spec namespaceSpec) error {
	if spec.Name == "" {
		return errors.New("namespace without a name")
	}
	ns := parent.Child(spec.Name)
	if spec.Package != "" {
		if err := checkIdent("package", spec.Package); err != nil {
			return errors.Wrapf(err, "namespace %s", spec.Name)
		}
		ns.Package = spec.Package
	}
	if spec.Dir != "" {
		ns.Dir = spec.Dir
	}
	for _, child := range spec.Namespaces {
		if err := addNamespace(ns, child); err != nil {
			return err
		}
	}
	return addTypes(ns, nil, spec.Types, &ns.Types)
}

func addTypes(ns *model.Namespace, parent *model.TypeDecl, specs []typeSpec, into *[]*model.TypeDecl) error {
	for _, ts := range specs {
		if ts.Name == "" {
			return errors.Newf("type without a name in namespace %q", ns.ImportPath())
		}
		if err := checkIdent("type", ts.Name); err != nil {
			return errors.Wrapf(err, "namespace %q", ns.ImportPath())
		}
		for _, p := range ts.TypeParams {
			if err := checkIdent("type parameter", p); err != nil {
				return errors.Wrapf(err, "type %s", ts.Name)
			}
		}
		access, err := parseAccess(ts.Access)
		if err != nil {
			return errors.Wrapf(err, "type %s", ts.Name)
		}
		t := &model.TypeDecl{
			Name:       ts.Name,
			Access:     access,
			Kind:       model.TypeKind(ts.Kind),
			TypeParams: ts.TypeParams,
			Namespace:  ns,
			Parent:     parent,
		}
		if t.Kind == "" {
			t.Kind = model.KindStruct
		}
		t.Capabilities = buildCapabilities(ts.Capabilities)
		for _, ms := range ts.Members {
			member, err := buildMember(ms)
			if err != nil {
				return errors.Wrapf(err, "type %s", ts.Name)
			}
			t.Members = append(t.Members, member)
		}
		if err := addTypes(ns, t, ts.Nested, &t.Nested); err != nil {
			return err
		}
		*into = append(*into, t)
	}
	return nil
}

func buildCapabilities(specs []capabilitySpec) []model.Capability {
	var caps []model.Capability
	for _, cs := range specs {
		c := model.Capability{Definition: cs.Definition, Implied: buildCapabilities(cs.Implied)}
		for _, a := range cs.Args {
			c.Args = append(c.Args, model.TypeRef{Name: a})
		}
		caps = append(caps, c)
	}
	return caps
}

func buildMember(spec memberSpec) (model.Member, error) {
	if spec.Name == "" {
		return model.Member{}, errors.New("member without a name")
	}
	if err := checkIdent("member", spec.Name); err != nil {
		return model.Member{}, err
	}
	access, err := parseAccess(spec.Access)
	if err != nil {
		return model.Member{}, errors.Wrapf(err, "member %s", spec.Name)
	}
	m := model.Member{
		Name:   spec.Name,
		Access: access,
		Kind:   model.MemberKind(spec.Kind),
		Type:   model.TypeRef{Name: spec.Type},
	}
	switch m.Kind {
	case "":
		m.Kind = model.MemberProperty
	case model.MemberProperty, model.MemberEmbedded, model.MemberMethod:
	default:
		return model.Member{}, errors.Newf("member %s: unknown kind %q", spec.Name, spec.Kind)
	}
	if spec.Type == "string" {
		m.Type.Special = model.SpecialString
	}
	return m, nil
}

// checkIdent rejects names that cannot be spelled in generated Go code.
func checkIdent(what, name string) error {
	if !token.IsIdentifier(name) {
		return errors.Newf("%s name %q is not a Go identifier", what, name)
	}
	return nil
}

// parseAccess defaults to public, the common case in model files.
func parseAccess(s string) (model.Accessibility, error) {
	switch a := model.Accessibility(s); a {
	case "":
		return model.Public, nil
	case model.Public, model.Internal, model.Protected, model.Private:
		return a, nil
	default:
		return "", errors.Newf("unknown accessibility %q", s)
	}
}
