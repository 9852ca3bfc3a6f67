package hints

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"
)

// FindingKind categorizes a review finding.
type FindingKind int

const (
	FindingParseError FindingKind = iota
	FindingRiskyImport
	FindingPanic
	FindingDebugOutput
	FindingNestedLoops
	FindingLongFunction
	FindingNoComments
	FindingIgnoredError
)

func (k FindingKind) String() string {
	switch k {
	case FindingParseError:
		return "parse_error"
	case FindingRiskyImport:
		return "risky_import"
	case FindingPanic:
		return "panic"
	case FindingDebugOutput:
		return "debug_output"
	case FindingNestedLoops:
		return "nested_loops"
	case FindingLongFunction:
		return "long_function"
	case FindingNoComments:
		return "no_comments"
	case FindingIgnoredError:
		return "ignored_error"
	default:
		return "unknown"
	}
}

// Severity indicates how much a finding matters.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// Finding is one review remark.
type Finding struct {
	Kind     FindingKind
	Severity Severity
	Line     int // 0 when the finding is about the whole source
	Message  string
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("line %d: %s", f.Line, f.Message)
	}
	return f.Message
}

// Review is the outcome of reviewing one piece of source.
type Review struct {
	Findings []Finding
	Funcs    int
	Loops    int
}

// Lines renders the review as feedback lines. A clean review yields one
// encouraging line.
func (r Review) Lines() []string {
	if len(r.Findings) == 0 {
		return []string{"Your solution has good readability."}
	}
	out := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		out[i] = f.String()
	}
	return out
}

// Reviewer inspects learner source statically. It never executes the code.
type Reviewer struct {
	// MaxFuncLines is the body length above which a function is flagged.
	MaxFuncLines int
	risky        map[string]string
}

// NewReviewer creates a reviewer with default limits.
func NewReviewer() *Reviewer {
	return &Reviewer{
		MaxFuncLines: 40,
		risky: map[string]string{
			"unsafe":   "unsafe bypasses Go's memory safety",
			"os/exec":  "running programs is not needed to solve a challenge",
			"syscall":  "system calls are not needed to solve a challenge",
			"net":      "network access is not needed to solve a challenge",
			"net/http": "network access is not needed to solve a challenge",
			"reflect":  "reflection is rarely needed here and hides mistakes",
		},
	}
}

// Review parses src and reports what it finds. A source without a package
// clause is accepted.
func (rv *Reviewer) Review(src string) Review {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "solution.go", src, parser.ParseComments)
	if err != nil {
		file, err = parser.ParseFile(fset, "solution.go", "package main; "+src, parser.ParseComments)
	}
	if err != nil {
		return Review{Findings: []Finding{{
			Kind:     FindingParseError,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("The code does not parse: %v", err),
		}}}
	}

	w := &reviewWalker{rv: rv, fset: fset}
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		if why, ok := rv.risky[path]; ok {
			w.add(FindingRiskyImport, SeverityWarning, imp.Pos(), fmt.Sprintf("import %q: %s.", path, why))
		}
	}
	w.walk(file, 0)

	sort.SliceStable(w.review.Findings, func(i, j int) bool {
		return w.review.Findings[i].Line < w.review.Findings[j].Line
	})
	if w.review.Funcs > 0 && len(file.Comments) == 0 {
		w.review.Findings = append(w.review.Findings, Finding{
			Kind:     FindingNoComments,
			Severity: SeverityInfo,
			Message:  "Consider adding a comment to explain your approach.",
		})
	}
	return w.review
}

type reviewWalker struct {
	rv     *Reviewer
	fset   *token.FileSet
	review Review
}

func (w *reviewWalker) add(kind FindingKind, sev Severity, pos token.Pos, msg string) {
	w.review.Findings = append(w.review.Findings, Finding{
		Kind:     kind,
		Severity: sev,
		Line:     w.fset.Position(pos).Line,
		Message:  msg,
	})
}

// walk inspects root. depth is the number of loops enclosing root.
func (w *reviewWalker) walk(root ast.Node, depth int) {
	ast.Inspect(root, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			w.review.Funcs++
			w.checkLength(node)
		case *ast.ForStmt:
			w.loop(node, depth)
			for _, part := range []ast.Node{node.Init, node.Post} {
				if part != nil {
					w.walk(part, depth)
				}
			}
			if node.Cond != nil {
				w.walk(node.Cond, depth)
			}
			w.walk(node.Body, depth+1)
			return false
		case *ast.RangeStmt:
			w.loop(node, depth)
			w.walk(node.X, depth)
			w.walk(node.Body, depth+1)
			return false
		case *ast.CallExpr:
			w.checkCall(node)
		case *ast.AssignStmt:
			w.checkIgnoredError(node)
		}
		return true
	})
}

func (w *reviewWalker) loop(n ast.Node, depth int) {
	w.review.Loops++
	if depth == 1 {
		w.add(FindingNestedLoops, SeverityInfo, n.Pos(),
			"Nested loops usually mean O(n^2) time. Could a map or a second pointer avoid the inner loop?")
	}
}

func (w *reviewWalker) checkLength(fn *ast.FuncDecl) {
	if fn.Body == nil {
		return
	}
	start := w.fset.Position(fn.Body.Lbrace).Line
	end := w.fset.Position(fn.Body.Rbrace).Line
	if lines := end - start - 1; lines > w.rv.MaxFuncLines {
		w.add(FindingLongFunction, SeverityInfo, fn.Pos(),
			fmt.Sprintf("%s is %d lines long; consider splitting it up.", fn.Name.Name, lines))
	}
}

func (w *reviewWalker) checkCall(call *ast.CallExpr) {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		if fn.Name == "panic" {
			w.add(FindingPanic, SeverityWarning, call.Pos(),
				"panic stops the program; return a value the caller can check instead.")
		}
	case *ast.SelectorExpr:
		pkg, ok := fn.X.(*ast.Ident)
		if !ok {
			return
		}
		if (pkg.Name == "fmt" && strings.HasPrefix(fn.Sel.Name, "Print")) ||
			(pkg.Name == "log" && strings.HasPrefix(fn.Sel.Name, "Print")) {
			w.add(FindingDebugOutput, SeverityInfo, call.Pos(),
				fmt.Sprintf("%s.%s looks like leftover debug output.", pkg.Name, fn.Sel.Name))
		}
	}
}

// checkIgnoredError flags `x, _ := f()` where the discarded value is the
// last result, the conventional error position.
func (w *reviewWalker) checkIgnoredError(as *ast.AssignStmt) {
	if len(as.Lhs) < 2 || len(as.Rhs) != 1 {
		return
	}
	if _, ok := as.Rhs[0].(*ast.CallExpr); !ok {
		return
	}
	if id, ok := as.Lhs[len(as.Lhs)-1].(*ast.Ident); ok && id.Name == "_" {
		w.add(FindingIgnoredError, SeverityWarning, as.Pos(),
			"A discarded last result is usually an error; check it.")
	}
}
