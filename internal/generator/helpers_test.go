package generator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"jsongen/internal/config"
	"jsongen/internal/logger"
	"jsongen/internal/model"
)

const capabilityID = config.DefaultCapability

func newTestGenerator() *Generator {
	return New(config.New(), logger.NewLogger(logger.TestConfig()))
}

// newModule returns a module whose global namespace already declares the
// jsongen/jsonser.Serializable[T] capability.
func newModule() *model.Module {
	global := &model.Namespace{}
	jsonser := global.Child("jsongen").Child("jsonser")
	jsonser.Types = append(jsonser.Types, &model.TypeDecl{
		Name:       "Serializable",
		Access:     model.Public,
		Kind:       model.KindStruct,
		TypeParams: []string{"T"},
		Namespace:  jsonser,
	})
	return &model.Module{Name: "test", Global: global}
}

// namespace resolves a dotted path below the global namespace, creating
// segments as needed.
func namespace(m *model.Module, path string) *model.Namespace {
	ns := m.Global
	if path == "" {
		return ns
	}
	for _, seg := range strings.Split(path, ".") {
		ns = ns.Child(seg)
	}
	return ns
}

func serializable(arg string) model.Capability {
	return model.Capability{Definition: capabilityID, Args: []model.TypeRef{{Name: arg}}}
}

func prop(name string, typ string) model.Member {
	ref := model.TypeRef{Name: typ}
	if typ == "string" {
		ref.Special = model.SpecialString
	}
	return model.Member{Name: name, Access: model.Public, Kind: model.MemberProperty, Type: ref}
}

func addType(ns *model.Namespace, name string, caps []model.Capability, members ...model.Member) *model.TypeDecl {
	t := &model.TypeDecl{
		Name:         name,
		Access:       model.Public,
		Kind:         model.KindStruct,
		Namespace:    ns,
		Capabilities: caps,
		Members:      members,
	}
	ns.Types = append(ns.Types, t)
	return t
}

func pocoType(ns *model.Namespace) *model.TypeDecl {
	return addType(ns, "Poco", []model.Capability{serializable("TestProj.Poco")},
		model.Member{Name: "Serializable", Access: model.Public, Kind: model.MemberEmbedded},
		prop("TestInt", "int"),
		prop("TestString", "string"),
		model.Member{Name: "secret", Access: model.Internal, Kind: model.MemberProperty, Type: model.TypeRef{Name: "string", Special: model.SpecialString}},
		model.Member{Name: "Describe", Access: model.Public, Kind: model.MemberMethod},
	)
}

// execute runs the serializer method found in src against a capturing sink.
// Field reads resolve through values; only the statement shapes the
// synthesizer emits are understood.
func execute(t *testing.T, src string, values map[string]any) string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0)
	require.NoError(t, err)

	var fn *ast.FuncDecl
	for _, d := range file.Decls {
		if f, ok := d.(*ast.FuncDecl); ok && f.Recv != nil {
			fn = f
		}
	}
	require.NotNil(t, fn, "no method in generated source")

	var out strings.Builder
	for _, stmt := range fn.Body.List {
		call := stmt.(*ast.ExprStmt).X.(*ast.CallExpr)
		sel := call.Fun.(*ast.SelectorExpr)
		require.Len(t, call.Args, 1)
		text := eval(t, call.Args[0], values)
		switch sel.Sel.Name {
		case "Write":
			out.WriteString(text)
		case "WriteLine":
			out.WriteString(text + "\n")
		default:
			t.Fatalf("unexpected call %s", sel.Sel.Name)
		}
	}
	return out.String()
}

func eval(t *testing.T, e ast.Expr, values map[string]any) string {
	t.Helper()
	switch x := e.(type) {
	case *ast.BasicLit:
		s, err := strconv.Unquote(x.Value)
		require.NoError(t, err)
		return s
	case *ast.BinaryExpr:
		require.Equal(t, token.ADD, x.Op)
		return eval(t, x.X, values) + eval(t, x.Y, values)
	case *ast.CallExpr:
		fun := x.Fun.(*ast.SelectorExpr)
		require.Equal(t, "Sprint", fun.Sel.Name)
		field := x.Args[0].(*ast.SelectorExpr).Sel.Name
		v, ok := values[field]
		require.True(t, ok, "no value for field %s", field)
		return fmt.Sprint(v)
	}
	t.Fatalf("unexpected expression %T", e)
	return ""
}
