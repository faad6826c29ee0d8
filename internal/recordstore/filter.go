package recordstore

import (
	"fmt"
	"strings"
)

// Expr is a record store filter expression.
// The store understands equality/comparison over fields (including relation
// ids) combined with && and ||; expressions are built here rather than by
// string concatenation in callers so quoting stays in one place.
type Expr struct {
	s string
}

// String returns the serialized filter expression.
func (e Expr) String() string { return e.s }

// IsZero reports whether the expression is empty.
func (e Expr) IsZero() bool { return e.s == "" }

// Eq matches field = value.
func Eq(field string, value any) Expr {
	return Expr{s: fmt.Sprintf("%s = %s", field, literal(value))}
}

// Neq matches field != value.
func Neq(field string, value any) Expr {
	return Expr{s: fmt.Sprintf("%s != %s", field, literal(value))}
}

// Gt matches field > value.
func Gt(field string, value any) Expr {
	return Expr{s: fmt.Sprintf("%s > %s", field, literal(value))}
}

// Like matches field ~ value (substring match).
func Like(field string, value string) Expr {
	return Expr{s: fmt.Sprintf("%s ~ %s", field, literal(value))}
}

// And combines expressions with &&, skipping empty ones.
func And(exprs ...Expr) Expr {
	return combine("&&", exprs)
}

// Or combines expressions with ||, skipping empty ones.
func Or(exprs ...Expr) Expr {
	return combine("||", exprs)
}

// Raw wraps an already-formatted expression.
func Raw(s string) Expr { return Expr{s: s} }

func combine(op string, exprs []Expr) Expr {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		if e.s != "" {
			parts = append(parts, e.s)
		}
	}
	switch len(parts) {
	case 0:
		return Expr{}
	case 1:
		return Expr{s: parts[0]}
	default:
		return Expr{s: "(" + strings.Join(parts, " "+op+" ") + ")"}
	}
}

func literal(value any) string {
	switch v := value.(type) {
	case string:
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	case bool:
		return fmt.Sprintf("%t", v)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v)
	}
}
