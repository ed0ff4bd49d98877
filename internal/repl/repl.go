// Package repl is a thin, interactive front-end over internal/engine. It
// owns no type-level logic of its own: every command either reads back
// context metadata (structures/axioms) or builds one of a small fixed set
// of demonstration ast.Expression values and hands them to Engine.Infer.
// The core deliberately owns no concrete syntax, so this REPL never
// tokenizes or parses free-form expression text.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/engine"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL is the read-eval-print loop around one Engine instance.
type REPL struct {
	eng     *engine.Engine
	version string
}

// New constructs a REPL over an already-seeded Engine.
func New(eng *engine.Engine, version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{eng: eng, version: version}
}

// Start runs the loop until :quit or EOF.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	historyFile := filepath.Join(os.TempDir(), ".kleis_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	line.SetCompleter(func(in string) (c []string) {
		for _, cmd := range []string{":help", ":quit", ":structures ", ":axioms ", ":infer-bool ", ":infer-nat ", ":infer-list ", ":infer-matrix "} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return c
	})

	fmt.Fprintf(out, "%s %s\n", bold("Kleis"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for commands, :quit to exit"))

	for {
		text, err := line.Prompt("kleis> ")
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		line.AppendHistory(text)
		if !r.dispatch(text, out) {
			return
		}
	}
}

func (r *REPL) dispatch(text string, out io.Writer) bool {
	fields := strings.Fields(text)
	cmd, rest := fields[0], fields[1:]
	switch cmd {
	case ":quit", ":q":
		return false
	case ":help":
		r.printHelp(out)
	case ":structures":
		r.cmdStructures(rest, out)
	case ":axioms":
		r.cmdAxioms(rest, out)
	case ":infer-bool":
		r.cmdInferBool(rest, out)
	case ":infer-nat":
		r.cmdInferNat(rest, out)
	case ":infer-list":
		r.cmdInferList(rest, out)
	case ":infer-matrix":
		r.cmdInferMatrix(rest, out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("Error"), cmd)
	}
	return true
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :structures <op>         structures declaring an operation")
	fmt.Fprintln(out, "  :axioms <structure>      axioms declared on a structure")
	fmt.Fprintln(out, "  :infer-bool <true|false> infer a boolean literal's type")
	fmt.Fprintln(out, "  :infer-nat <n>           infer a numeric literal's type")
	fmt.Fprintln(out, "  :infer-list <n1,n2,...>  infer a list of numeric literals")
	fmt.Fprintln(out, "  :infer-matrix <m> <n> <n1,n2,...>  infer a matrix literal (entries checked against m*n)")
	fmt.Fprintln(out, "  :quit                    exit")
}

func (r *REPL) cmdStructures(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage :structures <op>\n", red("Error"))
		return
	}
	names := r.eng.StructureForOperation(args[0])
	if len(names) == 0 {
		fmt.Fprintf(out, "%s\n", yellow("no structure declares this operation"))
		return
	}
	fmt.Fprintln(out, strings.Join(names, ", "))
}

func (r *REPL) cmdAxioms(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage :axioms <structure>\n", red("Error"))
		return
	}
	axioms := r.eng.GetAxioms(args[0])
	if len(axioms) == 0 {
		fmt.Fprintf(out, "%s\n", yellow("no axioms (or unknown structure)"))
		return
	}
	for _, a := range axioms {
		fmt.Fprintf(out, "%s: %s\n", cyan(a.Name), a.Proposition.String())
	}
}

func (r *REPL) cmdInferBool(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage :infer-bool <true|false>\n", red("Error"))
		return
	}
	b, err := strconv.ParseBool(args[0])
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
		return
	}
	r.infer(&ast.Const{Value: ast.Literal{Kind: ast.LitBool, Bool: b}}, out)
}

func (r *REPL) cmdInferNat(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage :infer-nat <n>\n", red("Error"))
		return
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
		return
	}
	r.infer(&ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: n}}, out)
}

func (r *REPL) cmdInferList(args []string, out io.Writer) {
	if len(args) != 1 {
		fmt.Fprintf(out, "%s: usage :infer-list <n1,n2,...>\n", red("Error"))
		return
	}
	parts := strings.Split(args[0], ",")
	elems := make([]ast.Expression, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
			return
		}
		elems = append(elems, &ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: n}})
	}
	r.infer(&ast.List{Elements: elems}, out)
}

func (r *REPL) cmdInferMatrix(args []string, out io.Writer) {
	if len(args) != 3 {
		fmt.Fprintf(out, "%s: usage :infer-matrix <m> <n> <n1,n2,...>\n", red("Error"))
		return
	}
	m, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
		return
	}
	n, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
		return
	}
	parts := strings.Split(args[2], ",")
	elems := make([]ast.Expression, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			fmt.Fprintf(out, "%s: %s\n", red("Error"), err)
			return
		}
		elems = append(elems, &ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: v}})
	}
	r.infer(&ast.Operation{Name: "Matrix", Args: []ast.Expression{
		&ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: m}},
		&ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: n}},
		&ast.List{Elements: elems},
	}}, out)
}

func (r *REPL) infer(expr ast.Expression, out io.Writer) {
	t, reports := r.eng.Infer(expr)
	for _, rep := range reports {
		label := red("Error")
		if rep.Severity == diag.SeverityWarning {
			label = yellow("Warning")
		}
		fmt.Fprintf(out, "%s[%s]: %s\n", label, rep.Kind, rep.Message)
	}
	if t == nil || diag.HasErrors(reports) {
		return
	}
	fmt.Fprintf(out, "%s %s\n", green("::"), t.String())
}
