// Package shell implements a small set-algebra script language over
// UnicodeSet patterns: assignments, union/intersection/difference
// expressions, and show/test statements.
package shell

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"

	"uniset/usetlib"
)

type Script struct {
	Statements []*Statement `parser:"@@*"`
}

type Statement struct {
	Show   *Show   `parser:"@@ ';'"`
	Test   *Test   `parser:"| @@ ';'"`
	Assign *Assign `parser:"| @@ ';'"`
}

type Show struct {
	Expr *Expr `parser:"'show' @@"`
}

type Test struct {
	Probe string `parser:"'test' @String"`
	Expr  *Expr  `parser:"'in' @@"`
}

type Assign struct {
	Name string `parser:"@Ident '='"`
	Expr *Expr  `parser:"@@"`
}

type Expr struct {
	Left *Term     `parser:"@@"`
	Rest []*OpTerm `parser:"@@*"`
}

type OpTerm struct {
	Op    string `parser:"@('|' | '&' | '-')"`
	Right *Term  `parser:"@@"`
}

type Term struct {
	Pattern *string `parser:"@String"`
	Name    *string `parser:"| @Ident"`
}

var parser = participle.MustBuild[Script](participle.Unquote("String"))

func Parse(src string) (*Script, error) {
	return parser.ParseString("script", src)
}

// Context carries the variable environment and the output sink.
type Context struct {
	Env *Environment
	Out io.Writer
}

// Run parses and executes a script against a fresh environment.
func Run(src string, out io.Writer) error {
	script, err := Parse(src)
	if err != nil {
		return err
	}
	return script.Exec(&Context{Env: NewEnvironment(), Out: out})
}

func (s *Script) Exec(ctx *Context) error {
	for _, stmt := range s.Statements {
		if err := stmt.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Statement) Exec(ctx *Context) error {
	switch {
	case s.Assign != nil:
		val, err := s.Assign.Expr.Eval(ctx)
		if err != nil {
			return err
		}
		ctx.Env.Set(s.Assign.Name, val)
	case s.Show != nil:
		val, err := s.Show.Expr.Eval(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, Format(val))
	case s.Test != nil:
		val, err := s.Test.Expr.Eval(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, member(val, s.Test.Probe))
	}
	return nil
}

func (e *Expr) Eval(ctx *Context) (usetlib.Resolved, error) {
	val, err := e.Left.Eval(ctx)
	if err != nil {
		return usetlib.Resolved{}, err
	}
	for _, rt := range e.Rest {
		r, err := rt.Right.Eval(ctx)
		if err != nil {
			return usetlib.Resolved{}, err
		}
		switch rt.Op {
		case "|":
			val = usetlib.Resolved{
				Intervals: val.Intervals.Union(r.Intervals),
				Strings:   unionStrings(val.Strings, r.Strings),
			}
		case "&":
			val = usetlib.Resolved{
				Intervals: val.Intervals.Intersect(r.Intervals),
				Strings:   intersectStrings(val.Strings, r.Strings),
			}
		case "-":
			val = usetlib.Resolved{
				Intervals: val.Intervals.Difference(r.Intervals),
				Strings:   differenceStrings(val.Strings, r.Strings),
			}
		}
	}
	return val, nil
}

func (t *Term) Eval(ctx *Context) (usetlib.Resolved, error) {
	switch {
	case t.Pattern != nil:
		return usetlib.Resolve(*t.Pattern)
	case t.Name != nil:
		v, ok := ctx.Env.Get(*t.Name)
		if !ok {
			return usetlib.Resolved{}, fmt.Errorf("undefined set %s", *t.Name)
		}
		return v, nil
	}
	return usetlib.Resolved{}, fmt.Errorf("invalid term")
}

// member checks a probe against the set: a single codepoint probes the
// intervals, anything longer probes the string members.
func member(val usetlib.Resolved, probe string) bool {
	if utf8.RuneCountInString(probe) == 1 {
		r, _ := utf8.DecodeRuneInString(probe)
		return val.Intervals.Contains(r)
	}
	for _, s := range val.Strings {
		if s == probe {
			return true
		}
	}
	return false
}

// Format renders a resolved set the way show prints it.
func Format(val usetlib.Resolved) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, iv := range val.Intervals {
		if i > 0 {
			b.WriteByte(' ')
		}
		if iv.Lo == iv.Hi {
			fmt.Fprintf(&b, "U+%04X", iv.Lo)
		} else {
			fmt.Fprintf(&b, "U+%04X-U+%04X", iv.Lo, iv.Hi)
		}
	}
	b.WriteByte(']')
	for _, s := range val.Strings {
		fmt.Fprintf(&b, " {%s}", s)
	}
	fmt.Fprintf(&b, " (%d codepoints)", val.Intervals.Count())
	return b.String()
}

func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	out := append([]string(nil), a...)
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func intersectStrings(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func differenceStrings(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return a
	}
	drop := make(map[string]struct{}, len(b))
	for _, s := range b {
		drop[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := drop[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
