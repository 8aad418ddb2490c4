package blastradius

import (
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Value is a configuration value lowered from HCL into a small tagged variant,
// so the dependency scanner can pattern-match on structure instead of
// inspecting syntax trees. Expressions that cannot be evaluated statically are
// lowered to the string form of the references they contain.
type Value interface {
	isValue()
}

// StringVal is a string scalar, either a literal, a rendered traversal such as
// "data.aws_ami.ubuntu.id", or a template with interpolations re-wrapped as
// "${...}".
type StringVal string

// ScalarVal is a non-string scalar (number, bool) in rendered form. It never
// contributes dependencies.
type ScalarVal string

// SeqVal is an ordered sequence of values.
type SeqVal []Value

// MapVal is a mapping in deterministic key order.
type MapVal []MapEntry

// MapEntry is one key/value pair of a MapVal.
type MapEntry struct {
	Key string
	Val Value
}

func (StringVal) isValue() {}
func (ScalarVal) isValue() {}
func (SeqVal) isValue()    {}
func (MapVal) isValue()    {}

// BodyValue lowers a block body into a MapVal. Attributes come first in name
// order, nested blocks follow in source order keyed by their type and labels.
func BodyValue(body *hclsyntax.Body) MapVal {
	out := make(MapVal, 0, len(body.Attributes)+len(body.Blocks))

	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if v := ExprValue(body.Attributes[name].Expr); v != nil {
			out = append(out, MapEntry{Key: name, Val: v})
		}
	}

	for _, block := range body.Blocks {
		key := block.Type
		if len(block.Labels) > 0 {
			key += "." + strings.Join(block.Labels, ".")
		}
		out = append(out, MapEntry{Key: key, Val: BodyValue(block.Body)})
	}

	return out
}

// ExprValue lowers a single expression. Returns nil when the expression holds
// nothing representable (e.g. an unknown value without references).
func ExprValue(expr hclsyntax.Expression) Value {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		return StringVal(traversalString(e.Traversal))

	case *hclsyntax.TemplateExpr:
		if v, ok := templateString(e); ok {
			return StringVal(v)
		}
		return referencesValue(e)

	case *hclsyntax.TemplateWrapExpr:
		// a template that is exactly one interpolation, "${expr}", parses as
		// the passthru wrap form instead of a TemplateExpr
		if trav, ok := e.Wrapped.(*hclsyntax.ScopeTraversalExpr); ok {
			return StringVal("${" + traversalString(trav.Traversal) + "}")
		}
		return referencesValue(e)

	case *hclsyntax.TupleConsExpr:
		out := make(SeqVal, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			if v := ExprValue(item); v != nil {
				out = append(out, v)
			}
		}
		return out

	case *hclsyntax.ObjectConsExpr:
		out := make(MapVal, 0, len(e.Items))
		for _, item := range e.Items {
			v := ExprValue(item.ValueExpr)
			if v == nil {
				continue
			}
			out = append(out, MapEntry{Key: objectKey(item.KeyExpr), Val: v})
		}
		return out

	default:
		v, diags := expr.Value(nil)
		if !diags.HasErrors() {
			if lowered := ctyValue(v); lowered != nil {
				return lowered
			}
		}
		return referencesValue(expr)
	}
}

// templateString renders a template made of literal parts and plain traversal
// interpolations, re-wrapping each interpolation as "${...}". Templates with
// more complex parts are not representable as one string.
func templateString(e *hclsyntax.TemplateExpr) (string, bool) {
	var sb strings.Builder
	for _, part := range e.Parts {
		switch p := part.(type) {
		case *hclsyntax.LiteralValueExpr:
			if p.Val.Type() != cty.String || p.Val.IsNull() {
				return "", false
			}
			sb.WriteString(p.Val.AsString())
		case *hclsyntax.ScopeTraversalExpr:
			sb.WriteString("${" + traversalString(p.Traversal) + "}")
		default:
			return "", false
		}
	}
	return sb.String(), true
}

// referencesValue lowers an opaque expression to the traversals it mentions,
// in sorted order.
func referencesValue(expr hclsyntax.Expression) Value {
	vars := expr.Variables()
	if len(vars) == 0 {
		return nil
	}

	refs := make([]string, 0, len(vars))
	for _, traversal := range vars {
		refs = append(refs, traversalString(traversal))
	}
	sort.Strings(refs)

	out := make(SeqVal, 0, len(refs))
	for _, ref := range refs {
		out = append(out, StringVal(ref))
	}
	return out
}

func ctyValue(v cty.Value) Value {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}

	t := v.Type()
	switch {
	case t == cty.String:
		return StringVal(v.AsString())
	case t == cty.Number:
		return ScalarVal(v.AsBigFloat().Text('f', -1))
	case t == cty.Bool:
		if v.True() {
			return ScalarVal("true")
		}
		return ScalarVal("false")
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		out := SeqVal{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if lowered := ctyValue(ev); lowered != nil {
				out = append(out, lowered)
			}
		}
		return out
	case t.IsObjectType() || t.IsMapType():
		out := MapVal{}
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			lowered := ctyValue(ev)
			if lowered == nil || k.Type() != cty.String {
				continue
			}
			out = append(out, MapEntry{Key: k.AsString(), Val: lowered})
		}
		return out
	default:
		return nil
	}
}

// traversalString generates a stable, canonical string representation for an
// hcl.Traversal, e.g. "data.aws_ami.ubuntu.id".
func traversalString(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

func objectKey(expr hclsyntax.Expression) string {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw
	}

	v, diags := expr.Value(nil)
	if !diags.HasErrors() && !v.IsNull() && v.Type() == cty.String {
		return v.AsString()
	}
	return ""
}
