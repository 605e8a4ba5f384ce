package ast

import (
	"github.com/mythonlang/mython/runtime"
)

// Add implements integer addition, string concatenation, or __add__/1
// dispatch on a ClassInstance left-hand side, per §4.4. Each operand is
// evaluated exactly once and bound to a local — the original source
// re-evaluates each operand up to four times per operator, which §9 calls
// out explicitly as a latent bug (re-evaluation can repeat side effects from
// method calls or field writes); this implementation does not repeat that
// mistake.
type Add struct {
	Left, Right Statement
}

func (a *Add) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	lhs, rhs, err := evalPair(a.Left, a.Right, closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if ln, ok := runtime.TryAs[*runtime.Number](lhs); ok {
		if rn, ok := runtime.TryAs[*runtime.Number](rhs); ok {
			return runtime.Own(&runtime.Number{Value: ln.Value + rn.Value}), nil
		}
	}
	if ls, ok := runtime.TryAs[*runtime.String](lhs); ok {
		if rs, ok := runtime.TryAs[*runtime.String](rhs); ok {
			return runtime.Own(&runtime.String{Value: ls.Value + rs.Value}), nil
		}
	}
	if li, ok := runtime.TryAs[*runtime.ClassInstance](lhs); ok {
		if li.HasMethod("__add__", 1) {
			return li.Call("__add__", []runtime.ObjectHolder{rhs}, ctx)
		}
	}
	return runtime.ObjectHolder{}, typeMismatch("add")
}

// Sub, Mult, Div operate on integers only.
type Sub struct{ Left, Right Statement }

func (s *Sub) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	l, r, err := evalInts(s.Left, s.Right, closure, ctx, "sub")
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Number{Value: l - r}), nil
}

type Mult struct{ Left, Right Statement }

func (m *Mult) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	l, r, err := evalInts(m.Left, m.Right, closure, ctx, "mult")
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Number{Value: l * r}), nil
}

type Div struct{ Left, Right Statement }

func (d *Div) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	l, r, err := evalInts(d.Left, d.Right, closure, ctx, "div")
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if r == 0 {
		return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrDivByZero, Msg: "integer division by zero"}
	}
	return runtime.Own(&runtime.Number{Value: l / r}), nil
}

// Or and And are short-circuiting and always yield a freshly owned Bool —
// never the last-evaluated operand's own value — per §4.4's explicit note
// that Mython diverges from the modelled host language here.
type Or struct{ Left, Right Statement }

func (o *Or) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	left, err := o.Left.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if runtime.IsTrue(left) {
		return runtime.Own(&runtime.Bool{Value: true}), nil
	}
	right, err := o.Right.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Bool{Value: runtime.IsTrue(right)}), nil
}

type And struct{ Left, Right Statement }

func (a *And) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	left, err := a.Left.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if !runtime.IsTrue(left) {
		return runtime.Own(&runtime.Bool{Value: false}), nil
	}
	right, err := a.Right.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Bool{Value: runtime.IsTrue(right)}), nil
}

// Not yields an owned Bool(!is_true(arg)).
type Not struct{ Value Statement }

func (n *Not) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	val, err := n.Value.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Bool{Value: !runtime.IsTrue(val)}), nil
}

// Comparator is one of the six comparison kernel functions in package
// runtime (Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual).
type Comparator func(lhs, rhs runtime.ObjectHolder, ctx *runtime.Context) (bool, error)

// Comparison evaluates both operands once and yields an owned
// Bool(cmp(l, r, ctx)).
type Comparison struct {
	Cmp         Comparator
	Left, Right Statement
}

func (c *Comparison) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	lhs, rhs, err := evalPair(c.Left, c.Right, closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	result, err := c.Cmp(lhs, rhs, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.Bool{Value: result}), nil
}

func evalPair(left, right Statement, closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, runtime.ObjectHolder, error) {
	l, err := left.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, runtime.ObjectHolder{}, err
	}
	r, err := right.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, runtime.ObjectHolder{}, err
	}
	return l, r, nil
}

func evalInts(left, right Statement, closure runtime.Closure, ctx *runtime.Context, op string) (int, int, error) {
	lhs, rhs, err := evalPair(left, right, closure, ctx)
	if err != nil {
		return 0, 0, err
	}
	ln, ok := runtime.TryAs[*runtime.Number](lhs)
	if !ok {
		return 0, 0, typeMismatch(op)
	}
	rn, ok := runtime.TryAs[*runtime.Number](rhs)
	if !ok {
		return 0, 0, typeMismatch(op)
	}
	return ln.Value, rn.Value, nil
}

func typeMismatch(op string) error {
	return &runtime.RuntimeError{Kind: runtime.ErrTypeMismatch, Msg: "operand types are not valid for " + op}
}
