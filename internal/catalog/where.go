package catalog

import (
	"fmt"
	"math"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/ast/astutil"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/parser"
	"cuelang.org/go/cue/token"
)

// Selector keeps records that satisfy a CUE constraint over attribute names,
// for example `Omega_bk: <0.3, M: >4e34` or `eos: "opal"`.
type Selector struct {
	ctx        *cue.Context
	constraint cue.Value
	expr       string
}

// CompileWhere parses a constraint. Every field it names must be a known
// attribute. Numbers compare by value, so `Omega_bk: 0` and `ndomains: 8.0`
// behave like `Omega_bk: 0.0` and `ndomains: 8`.
func CompileWhere(expr string) (*Selector, error) {
	x, err := parser.ParseExpr("where", "{"+expr+"}")
	if err != nil {
		return nil, fmt.Errorf("parse constraint %q: %w", expr, err)
	}

	ctx := cuecontext.New()
	v := ctx.BuildExpr(floatLiterals(x))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parse constraint %q: %w", expr, err)
	}

	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return nil, fmt.Errorf("constraint %q must be a struct: %w", expr, err)
	}
	for iter.Next() {
		if _, err := ParseAttribute(iter.Label()); err != nil {
			return nil, fmt.Errorf("constraint %q: %w", expr, err)
		}
	}

	return &Selector{ctx: ctx, constraint: v, expr: expr}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Match reports whether r satisfies the constraint. Attributes the record
// lacks (NaN) stay open and fail any constraint that names them.
func (s *Selector) Match(r Record) bool {
	u := s.constraint.Unify(s.ctx.Encode(asMap(r)))
	if u.Err() != nil {
		return false
	}
	return u.Validate(cue.Concrete(true)) == nil
}

// Where returns the records matching s, and how many were dropped.
func Where(records Catalog, s *Selector) (Catalog, int) {
	kept := make(Catalog, 0, len(records))
	for _, r := range records {
		if s.Match(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// floatLiterals rewrites integer literals as floats. Records carry every
// numeric attribute as a float and CUE does not unify int with float.
func floatLiterals(x ast.Expr) ast.Expr {
	return astutil.Apply(x, func(c astutil.Cursor) bool {
		lit, ok := c.Node().(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return true
		}
		var ni literal.NumInfo
		if err := literal.ParseNum(lit.Value, &ni); err != nil {
			return true
		}
		value := ni.String()
		if !strings.ContainsAny(value, ".eE") {
			value += ".0"
		}
		c.Replace(&ast.BasicLit{ValuePos: lit.ValuePos, Kind: token.FLOAT, Value: value})
		return false
	}, nil).(ast.Expr)
}

func asMap(r Record) map[string]any {
	m := make(map[string]any, len(Attributes))
	for _, a := range Attributes {
		if !a.Numeric() {
			if r.EOS != "" {
				m[string(a)] = r.EOS
			}
			continue
		}
		v, _ := r.Value(a)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		m[string(a)] = v
	}
	return m
}
