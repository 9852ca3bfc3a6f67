package submission

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"sort"
	"strconv"
	"strings"
)

// piece is one parsed Go fragment that takes part in an assembled program.
type piece struct {
	fset *token.FileSet
	file *ast.File
}

// parsePiece parses src as a Go file, adding a package clause on the first
// line when the fragment has none so reported line numbers stay accurate.
func parsePiece(name, src string) (*piece, error) {
	if _, err := parser.ParseFile(token.NewFileSet(), name, src, parser.PackageClauseOnly); err != nil {
		src = "package main; " + src
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, name, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	return &piece{fset: fset, file: file}, nil
}

func (p *piece) text(n ast.Node) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, p.fset, n); err != nil {
		return ""
	}
	return buf.String()
}

// imports lists the import paths of the fragment.
func (p *piece) imports() []string {
	out := make([]string, 0, len(p.file.Imports))
	for _, spec := range p.file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		out = append(out, path)
	}
	return out
}

// param is one declared parameter of a function.
type param struct {
	name     string
	typ      string
	variadic bool
}

// signature describes a top-level function or method of the learner source.
type signature struct {
	name    string
	params  []param
	results []string
}

func (p *piece) signature(fd *ast.FuncDecl) *signature {
	sig := &signature{name: fd.Name.Name}
	if fd.Type.Params != nil {
		for _, field := range fd.Type.Params.List {
			typ := p.text(field.Type)
			_, variadic := field.Type.(*ast.Ellipsis)
			if len(field.Names) == 0 {
				sig.params = append(sig.params, param{typ: typ, variadic: variadic})
				continue
			}
			for _, n := range field.Names {
				sig.params = append(sig.params, param{name: n.Name, typ: typ, variadic: variadic})
			}
		}
	}
	if fd.Type.Results != nil {
		for _, field := range fd.Type.Results.List {
			typ := p.text(field.Type)
			count := len(field.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				sig.results = append(sig.results, typ)
			}
		}
	}
	return sig
}

func (s *signature) variadic() bool {
	return len(s.params) > 0 && s.params[len(s.params)-1].variadic
}

// paramList renders "a0 T0, a1 T1" and the matching forwarding argument list.
func (s *signature) paramList() (decl, call string) {
	decls := make([]string, len(s.params))
	calls := make([]string, len(s.params))
	for i, p := range s.params {
		decls[i] = fmt.Sprintf("a%d %s", i, p.typ)
		calls[i] = fmt.Sprintf("a%d", i)
		if p.variadic {
			calls[i] += "..."
		}
	}
	return strings.Join(decls, ", "), strings.Join(calls, ", ")
}

func (s *signature) resultList() string {
	switch len(s.results) {
	case 0:
		return ""
	case 1:
		return " " + s.results[0]
	default:
		return " (" + strings.Join(s.results, ", ") + ")"
	}
}

// wrapper renders an exported function with the same signature as s that
// forwards to target.
func (s *signature) wrapper(name, target string) string {
	decl, call := s.paramList()
	body := fmt.Sprintf("%s(%s)", target, call)
	if len(s.results) > 0 {
		body = "return " + body
	}
	return fmt.Sprintf("func %s(%s)%s {\n\t%s\n}\n", name, decl, s.resultList(), body)
}

// outline is the learner-visible structure of a submission: its top-level
// functions, declared types and methods grouped by receiver type.
type outline struct {
	funcs   []*signature
	types   []string
	methods map[string][]*signature
}

func (p *piece) outline() *outline {
	o := &outline{methods: make(map[string][]*signature)}
	for _, decl := range p.file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				if d.Name.Name == "main" || d.Name.Name == "init" {
					continue
				}
				o.funcs = append(o.funcs, p.signature(d))
				continue
			}
			if recv := receiverType(d); recv != "" {
				o.methods[recv] = append(o.methods[recv], p.signature(d))
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					o.types = append(o.types, ts.Name.Name)
				}
			}
		}
	}
	return o
}

func receiverType(fd *ast.FuncDecl) string {
	if len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// canonical folds case and underscores so "get_max" matches "GetMax".
func canonical(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}

func (o *outline) function(name string) *signature {
	for _, f := range o.funcs {
		if f.name == name {
			return f
		}
	}
	want := canonical(name)
	for _, f := range o.funcs {
		if canonical(f.name) == want {
			return f
		}
	}
	return nil
}

func (o *outline) typeName(name string) string {
	want := canonical(name)
	for _, t := range o.types {
		if t == name || canonical(t) == want {
			return t
		}
	}
	return ""
}

// entry picks the callable a functional or script case runs: the preferred
// name when the source defines it, otherwise the first top-level function.
func (o *outline) entry(preferred string) *signature {
	if preferred != "" {
		if f := o.function(preferred); f != nil {
			return f
		}
	}
	if len(o.funcs) > 0 {
		return o.funcs[0]
	}
	return nil
}

func (o *outline) method(recv, name string) (int, *signature) {
	methods := o.methods[recv]
	for i, m := range methods {
		if m.name == name {
			return i, m
		}
	}
	want := canonical(name)
	for i, m := range methods {
		if canonical(m.name) == want {
			return i, m
		}
	}
	return -1, nil
}

// baseType strips pointer stars from a rendered type.
func baseType(typ string) string {
	return strings.TrimLeft(typ, "*")
}

// assemble merges fragments into one package main source. Imports are
// de-duplicated and func main is dropped so no scratch driver runs. When two
// fragments declare the same top-level function or type, the earlier wins.
func assemble(pieces ...*piece) string {
	type imp struct{ name, path string }
	seen := make(map[imp]bool)
	var imports []imp
	var body bytes.Buffer
	declared := make(map[string]bool)

	for _, p := range pieces {
		if p == nil {
			continue
		}
		for _, spec := range p.file.Imports {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			i := imp{path: path}
			if spec.Name != nil {
				i.name = spec.Name.Name
			}
			if !seen[i] {
				seen[i] = true
				imports = append(imports, i)
			}
		}
		for _, decl := range p.file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok == token.IMPORT {
					continue
				}
				if d.Tok == token.TYPE {
					if decl = dropDeclared(d, declared); decl == nil {
						continue
					}
				}
			case *ast.FuncDecl:
				if d.Recv == nil {
					if d.Name.Name == "main" || declared[d.Name.Name] {
						continue
					}
					declared[d.Name.Name] = true
				}
			}
			if err := printer.Fprint(&body, p.fset, decl); err != nil {
				continue
			}
			body.WriteString("\n\n")
		}
	}

	sort.SliceStable(imports, func(a, b int) bool { return imports[a].path < imports[b].path })

	var out bytes.Buffer
	out.WriteString("package main\n\n")
	if len(imports) > 0 {
		out.WriteString("import (\n")
		for _, i := range imports {
			if i.name != "" {
				fmt.Fprintf(&out, "\t%s %q\n", i.name, i.path)
			} else {
				fmt.Fprintf(&out, "\t%q\n", i.path)
			}
		}
		out.WriteString(")\n\n")
	}
	out.Write(body.Bytes())
	return out.String()
}

// dropDeclared removes type specs already declared by an earlier fragment and
// records the rest. It returns nil when nothing is left.
func dropDeclared(d *ast.GenDecl, declared map[string]bool) ast.Decl {
	specs := make([]ast.Spec, 0, len(d.Specs))
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if ok && declared[ts.Name.Name] {
			continue
		}
		if ok {
			declared[ts.Name.Name] = true
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil
	}
	if len(specs) == len(d.Specs) {
		return d
	}
	cp := *d
	cp.Specs = specs
	return &cp
}

// ctorPlan is the generated glue that builds one trace instance.
type ctorPlan struct {
	// recv is the type whose methods the trace calls.
	recv string
	// sig is the constructor's signature; nil for a zero-value literal.
	sig  *signature
	glue string
}

// constructor resolves the constructor a trace names. In order it tries a
// function of that name, a type of that name (its New<Type> function or a
// zero value), then the only function returning a type with methods.
func (o *outline) constructor(name string) (*ctorPlan, error) {
	if f := o.function(name); f != nil {
		return o.planFunc(f)
	}
	if t := o.typeName(name); t != "" {
		if f := o.function("New" + t); f != nil {
			return o.planFunc(f)
		}
		return o.planLiteral(t)
	}

	var candidates []*signature
	for _, f := range o.funcs {
		if len(f.results) > 0 && len(o.methods[baseType(f.results[0])]) > 0 {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 1 {
		return o.planFunc(candidates[0])
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNoConstructor)
}

func (o *outline) planFunc(f *signature) (*ctorPlan, error) {
	var withErr bool
	switch {
	case len(f.results) == 1:
	case len(f.results) == 2 && f.results[1] == "error":
		withErr = true
	default:
		return nil, fmt.Errorf("%s must return an instance (and optionally an error): %w", f.name, ErrNoConstructor)
	}
	typ := f.results[0]
	recv := baseType(typ)
	if len(o.methods[recv]) == 0 {
		return nil, fmt.Errorf("%s returns %s, which has no methods: %w", f.name, typ, ErrNoConstructor)
	}

	decl, call := f.paramList()
	var b strings.Builder
	fmt.Fprintf(&b, "package main\n\nvar QuestInstance %s\n\n", typ)
	if withErr {
		fmt.Fprintf(&b, "func QuestConstruct(%s) error {\n\tvar err error\n\tQuestInstance, err = %s(%s)\n\treturn err\n}\n", decl, f.name, call)
	} else {
		fmt.Fprintf(&b, "func QuestConstruct(%s) {\n\tQuestInstance = %s(%s)\n}\n", decl, f.name, call)
	}
	o.writeMethods(&b, recv)
	return &ctorPlan{recv: recv, sig: f, glue: b.String()}, nil
}

func (o *outline) planLiteral(t string) (*ctorPlan, error) {
	if len(o.methods[t]) == 0 {
		return nil, fmt.Errorf("%s has no methods: %w", t, ErrNoConstructor)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "package main\n\nvar QuestInstance *%s\n\nfunc QuestConstruct() {\n\tQuestInstance = &%s{}\n}\n", t, t)
	o.writeMethods(&b, t)
	return &ctorPlan{recv: t, sig: &signature{name: t}, glue: b.String()}, nil
}

func (o *outline) writeMethods(b *strings.Builder, recv string) {
	for i, m := range o.methods[recv] {
		b.WriteString("\n")
		b.WriteString(m.wrapper(fmt.Sprintf("QuestCall%d", i), "QuestInstance."+m.name))
	}
}
