package repository

import (
	"fmt"
	"strings"
)

// ValueKind tells the interpreter how to bind a leaf comparison value.
type ValueKind int

const (
	KindNumeric ValueKind = iota
	KindString
)

// Condition is a deliberately restricted filter expression interpreted by the
// repositories. It is not a general boolean grammar: a condition is either a
// raw clause, a single field comparison, or an AND/OR of exactly two
// sub-conditions. Evaluation follows the given structure and nothing else —
// composite children are parenthesized, so no operator precedence is ever
// inferred on top of what the caller built.
type Condition interface {
	build(sb *strings.Builder, args *[]interface{})
}

// Leaf is a single field comparison, e.g. {product_id, =, 400, numeric}.
type Leaf struct {
	Field string
	Op    string
	Value interface{}
	Kind  ValueKind
}

func (l Leaf) build(sb *strings.Builder, args *[]interface{}) {
	sb.WriteString(l.Field)
	sb.WriteString(" ")
	sb.WriteString(l.Op)
	sb.WriteString(" ?")
	if l.Kind == KindString {
		*args = append(*args, fmt.Sprint(l.Value))
	} else {
		*args = append(*args, l.Value)
	}
}

// Raw is a literal clause emitted as-is, for the few spots a comparison
// cannot express (e.g. "variant_id IS NULL").
type Raw string

func (r Raw) build(sb *strings.Builder, args *[]interface{}) {
	sb.WriteString(string(r))
}

type and struct {
	left, right Condition
}

func (a and) build(sb *strings.Builder, args *[]interface{}) {
	buildChild(sb, args, a.left)
	sb.WriteString(" AND ")
	buildChild(sb, args, a.right)
}

type or struct {
	left, right Condition
}

func (o or) build(sb *strings.Builder, args *[]interface{}) {
	buildChild(sb, args, o.left)
	sb.WriteString(" OR ")
	buildChild(sb, args, o.right)
}

func buildChild(sb *strings.Builder, args *[]interface{}, c Condition) {
	if _, composite := c.(and); composite {
		sb.WriteString("(")
		c.build(sb, args)
		sb.WriteString(")")
		return
	}
	if _, composite := c.(or); composite {
		sb.WriteString("(")
		c.build(sb, args)
		sb.WriteString(")")
		return
	}
	c.build(sb, args)
}

// And combines two conditions conjunctively.
func And(left, right Condition) Condition {
	return and{left: left, right: right}
}

// Or combines two conditions disjunctively.
func Or(left, right Condition) Condition {
	return or{left: left, right: right}
}

// IsNull matches rows where the field is NULL.
func IsNull(field string) Condition {
	return Raw(field + " IS NULL")
}

// WhereClause renders a condition into a parameterized SQL fragment and its
// bind arguments.
func WhereClause(c Condition) (string, []interface{}) {
	if c == nil {
		return "", nil
	}
	var sb strings.Builder
	args := make([]interface{}, 0, 4)
	c.build(&sb, &args)
	return sb.String(), args
}
