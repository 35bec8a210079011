package generator

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"jsongen/internal/config"
	"jsongen/internal/model"
)

const generatedHeader = "Code generated by jsongen. DO NOT EDIT."

// fallbackPackage names the package of types declared in the global
// namespace, which has no package clause of its own.
const fallbackPackage = "main"

// PublicProperties returns the property-like, publicly accessible members
// of t in enumeration order.
func PublicProperties(t *model.TypeDecl) []model.Member {
	var out []model.Member
	for _, m := range t.Members {
		if m.Kind == model.MemberProperty && m.Access == model.Public {
			out = append(out, m)
		}
	}
	return out
}

// Synthesize renders a complete Go file adding the serializer method to t.
// arg is the type argument t bound the capability to. Members are written in
// the order given, each followed by a comma, the last one included.
func (g *Generator) Synthesize(t *model.TypeDecl, arg model.TypeRef, members []model.Member) (string, error) {
	writerPath, writerName, ok := config.SplitQualified(g.cfg.Writer)
	if !ok {
		return "", errors.Newf("invalid writer type %q", g.cfg.Writer)
	}

	f := jen.NewFilePathName(t.Namespace.ImportPath(), packageName(t.Namespace))
	f.HeaderComment(generatedHeader)

	taken := make(map[string]bool, len(t.TypeParams)+1)
	for _, p := range t.TypeParams {
		taken[p] = true
	}
	recv := freeName(taken, receiverName(t.Name), "recv")
	taken[recv] = true
	w := freeName(taken, "w", "writer")
	method := g.cfg.Options.MethodName

	f.Commentf("%s writes %s to %s as JSON-like text. Generated for capability argument %s.",
		method, t.Name, w, arg.Name)
	f.Func().
		Params(jen.Id(recv).Add(receiverType(t))).
		Id(method).
		Params(jen.Id(w).Qual(writerPath, writerName)).
		Block(g.body(recv, w, members)...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", errors.Wrapf(err, "rendering serializer for %s", t.QualifiedName())
	}
	return buf.String(), nil
}

// body emits the statements of the serializer: an opening brace line, four
// writes per member, then a closing brace with no line terminator.
func (g *Generator) body(recv, w string, members []model.Member) []jen.Code {
	indent := g.cfg.Options.Indent
	stmts := []jen.Code{
		jen.Id(w).Dot("WriteLine").Call(jen.Lit("{")),
	}
	for _, m := range members {
		stmts = append(stmts,
			jen.Comment(m.Name),
			jen.Id(w).Dot("Write").Call(jen.Lit(indent)),
			jen.Id(w).Dot("Write").Call(jen.Lit(`"`+m.Name+`"`)),
			jen.Id(w).Dot("WriteLine").Call(
				jen.Lit(": ").Op("+").Add(valueExpr(recv, m)).Op("+").Lit(","),
			),
		)
	}
	return append(stmts, jen.Id(w).Dot("Write").Call(jen.Lit("}")))
}

// valueExpr renders the text form of member m on receiver recv.
func valueExpr(recv string, m model.Member) jen.Code {
	text := jen.Qual("fmt", "Sprint").Call(jen.Id(recv).Dot(m.Name))
	if Classify(m) == Quoted {
		return jen.Lit(`"`).Op("+").Add(text).Op("+").Lit(`"`)
	}
	return text
}

func receiverType(t *model.TypeDecl) *jen.Statement {
	if len(t.TypeParams) == 0 {
		return jen.Id(t.Name)
	}
	params := make([]jen.Code, len(t.TypeParams))
	for i, p := range t.TypeParams {
		params[i] = jen.Id(p)
	}
	return jen.Id(t.Name).Types(params...)
}

// receiverName follows the usual Go convention of a one-letter receiver.
func receiverName(typeName string) string {
	r, _ := utf8.DecodeRuneInString(typeName)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return "v"
	}
	return strings.ToLower(string(r))
}

// freeName returns the first candidate not in taken, numbering the last
// candidate if all of them are.
func freeName(taken map[string]bool, candidates ...string) string {
	for _, c := range candidates {
		if !taken[c] {
			return c
		}
	}
	last := candidates[len(candidates)-1]
	for i := 1; ; i++ {
		if c := fmt.Sprintf("%s%d", last, i); !taken[c] {
			return c
		}
	}
}

func packageName(ns *model.Namespace) string {
	if ns == nil {
		return fallbackPackage
	}
	if name := ns.PackageName(); name != "" {
		return name
	}
	return fallbackPackage
}
