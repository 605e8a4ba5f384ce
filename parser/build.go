package parser

import (
	"fmt"

	"github.com/mythonlang/mython/ast"
	"github.com/mythonlang/mython/runtime"
)

// builder converts a concrete syntax tree (package parser's grammar types)
// into an ast.Statement/runtime.Class tree. Classes are registered as each
// ClassDef is converted, in declaration order, so a later class can name an
// earlier one as its parent and so reference-expression building can tell a
// constructor call apart from a method call (see buildReferenceExpr).
type builder struct {
	classes map[string]*runtime.Class
}

func newBuilder() *builder {
	return &builder{classes: make(map[string]*runtime.Class)}
}

func buildProgram(p *Program) (ast.Statement, error) {
	b := newBuilder()
	stmts := make([]ast.Statement, 0, len(p.Statements))
	for _, s := range p.Statements {
		built, err := b.buildStatement(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, built)
	}
	return &ast.Compound{Statements: stmts}, nil
}

func (b *builder) buildStatement(s *Statement) (ast.Statement, error) {
	switch {
	case s.Class != nil:
		return b.buildClassDef(s.Class)
	case s.If != nil:
		return b.buildIf(s.If)
	case s.Return != nil:
		return b.buildReturn(s.Return)
	case s.Print != nil:
		return b.buildPrint(s.Print)
	case s.Simple != nil:
		return b.buildSimple(s.Simple)
	default:
		return nil, fmt.Errorf("empty statement")
	}
}

func (b *builder) buildClassDef(c *ClassDef) (ast.Statement, error) {
	var parent *runtime.Class
	if c.Parent != "" {
		p, ok := b.classes[c.Parent]
		if !ok {
			return nil, fmt.Errorf("class %s: unknown parent %s", c.Name, c.Parent)
		}
		parent = p
	}

	methods := make([]runtime.Method, len(c.Methods))
	cls := runtime.NewClass(c.Name, methods, parent)
	b.classes[c.Name] = cls

	for i, m := range c.Methods {
		var params []string
		if m.Params != nil {
			params = m.Params.Names
		}
		// runtime binds self itself, so a leading self is not a formal parameter.
		if len(params) > 0 && params[0] == "self" {
			params = params[1:]
		}
		body, err := b.buildBlock(m.Body)
		if err != nil {
			return nil, fmt.Errorf("class %s, method %s: %w", c.Name, m.Name, err)
		}
		methods[i] = runtime.Method{Name: m.Name, FormalParams: params, Body: &ast.MethodBody{Body: body}}
	}

	return &ast.ClassDefinition{Class: cls}, nil
}

func (b *builder) buildBlock(blk *Block) (ast.Statement, error) {
	stmts := make([]ast.Statement, 0, len(blk.Statements))
	for _, s := range blk.Statements {
		built, err := b.buildStatement(s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, built)
	}
	return &ast.Compound{Statements: stmts}, nil
}

func (b *builder) buildIf(i *IfStmt) (ast.Statement, error) {
	cond, err := b.buildExpr(i.Cond)
	if err != nil {
		return nil, err
	}
	then, err := b.buildBlock(i.Then)
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Statement
	if i.Else != nil {
		elseStmt, err = b.buildBlock(i.Else)
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfElse{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (b *builder) buildReturn(r *ReturnStmt) (ast.Statement, error) {
	val, err := b.buildExpr(r.Value)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Value: val}, nil
}

func (b *builder) buildPrint(p *PrintStmt) (ast.Statement, error) {
	args, err := b.buildArgs(p.Args)
	if err != nil {
		return nil, err
	}
	return &ast.Print{Args: args}, nil
}

func (b *builder) buildSimple(s *SimpleStmt) (ast.Statement, error) {
	if s.Value != nil {
		return b.buildAssignment(s.Target, s.Value)
	}
	return b.buildReferenceStatement(s.Target)
}

func (b *builder) buildAssignment(target *Reference, value *Expr) (ast.Statement, error) {
	val, err := b.buildExpr(value)
	if err != nil {
		return nil, err
	}

	if len(target.Trailers) == 0 {
		return &ast.Assignment{Name: target.Name, Value: val}, nil
	}

	last := target.Trailers[len(target.Trailers)-1]
	if last.Call != nil {
		return nil, fmt.Errorf("cannot assign to a call result")
	}

	path := []string{target.Name}
	for _, tr := range target.Trailers {
		if tr.Call != nil {
			return nil, fmt.Errorf("cannot assign through a call in the middle of a reference")
		}
		path = append(path, *tr.Field)
	}

	object := variableValueFor(path[:len(path)-1])
	return &ast.FieldAssignment{Object: object, Field: path[len(path)-1], Value: val}, nil
}

func (b *builder) buildReferenceStatement(ref *Reference) (ast.Statement, error) {
	return b.buildReferenceExpr(ref)
}

func (b *builder) buildExpr(e *Expr) (ast.Statement, error) {
	return b.buildOr(e.Or)
}

func (b *builder) buildOr(o *OrExpr) (ast.Statement, error) {
	left, err := b.buildAnd(o.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range o.Rest {
		right, err := b.buildAnd(r)
		if err != nil {
			return nil, err
		}
		left = &ast.Or{Left: left, Right: right}
	}
	return left, nil
}

func (b *builder) buildAnd(a *AndExpr) (ast.Statement, error) {
	left, err := b.buildNot(a.Left)
	if err != nil {
		return nil, err
	}
	for _, r := range a.Rest {
		right, err := b.buildNot(r)
		if err != nil {
			return nil, err
		}
		left = &ast.And{Left: left, Right: right}
	}
	return left, nil
}

func (b *builder) buildNot(n *NotExpr) (ast.Statement, error) {
	cmp, err := b.buildCmp(n.Cmp)
	if err != nil {
		return nil, err
	}
	if n.Negate {
		return &ast.Not{Value: cmp}, nil
	}
	return cmp, nil
}

func (b *builder) buildCmp(c *CmpExpr) (ast.Statement, error) {
	left, err := b.buildAdd(c.Left)
	if err != nil {
		return nil, err
	}
	if c.Right == nil {
		return left, nil
	}
	right, err := b.buildAdd(c.Right)
	if err != nil {
		return nil, err
	}
	cmp, err := comparatorFor(c.Op)
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Cmp: cmp, Left: left, Right: right}, nil
}

func comparatorFor(op string) (ast.Comparator, error) {
	switch op {
	case "==":
		return ast.Comparator(runtime.Equal), nil
	case "!=":
		return ast.Comparator(runtime.NotEqual), nil
	case "<":
		return ast.Comparator(runtime.Less), nil
	case ">":
		return ast.Comparator(runtime.Greater), nil
	case "<=":
		return ast.Comparator(runtime.LessOrEqual), nil
	case ">=":
		return ast.Comparator(runtime.GreaterOrEqual), nil
	default:
		return nil, fmt.Errorf("unknown comparison operator %q", op)
	}
}

func (b *builder) buildAdd(a *AddExpr) (ast.Statement, error) {
	left, err := b.buildMul(a.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range a.Ops {
		right, err := b.buildMul(op.Right)
		if err != nil {
			return nil, err
		}
		switch op.Op {
		case "+":
			left = &ast.Add{Left: left, Right: right}
		case "-":
			left = &ast.Sub{Left: left, Right: right}
		default:
			return nil, fmt.Errorf("unknown additive operator %q", op.Op)
		}
	}
	return left, nil
}

func (b *builder) buildMul(m *MulExpr) (ast.Statement, error) {
	left, err := b.buildUnary(m.Left)
	if err != nil {
		return nil, err
	}
	for _, op := range m.Ops {
		right, err := b.buildUnary(op.Right)
		if err != nil {
			return nil, err
		}
		switch op.Op {
		case "*":
			left = &ast.Mult{Left: left, Right: right}
		case "/":
			left = &ast.Div{Left: left, Right: right}
		default:
			return nil, fmt.Errorf("unknown multiplicative operator %q", op.Op)
		}
	}
	return left, nil
}

func (b *builder) buildUnary(u *UnaryExpr) (ast.Statement, error) {
	return b.buildPrimary(u.Primary)
}

// literalStatement wraps a bare runtime.Object (or nil, for None) as a
// one-shot Statement, the same role package ast's own test helpers play for
// constant operands.
type literalStatement struct {
	val runtime.Object
}

func (l literalStatement) Execute(_ runtime.Closure, _ *runtime.Context) (runtime.ObjectHolder, error) {
	if l.val == nil {
		return runtime.None(), nil
	}
	return runtime.Own(l.val), nil
}

func (b *builder) buildPrimary(p *Primary) (ast.Statement, error) {
	switch {
	case p.Number != nil:
		return literalStatement{&runtime.Number{Value: *p.Number}}, nil
	case p.Str != nil:
		return literalStatement{&runtime.String{Value: *p.Str}}, nil
	case p.None:
		return literalStatement{nil}, nil
	case p.True:
		return literalStatement{&runtime.Bool{Value: true}}, nil
	case p.False:
		return literalStatement{&runtime.Bool{Value: false}}, nil
	case p.Paren != nil:
		return b.buildExpr(p.Paren)
	case p.Ref != nil:
		return b.buildReferenceExpr(p.Ref)
	default:
		return nil, fmt.Errorf("empty primary expression")
	}
}

// buildReferenceExpr walks a dotted name/trailer chain, accumulating a
// dotted path through consecutive field trailers. The first Call trailer
// resolves the expression's shape: a single-segment path naming an already
// registered class is a constructor call (NewInstance); anything else is a
// method call on the path read so far. Trailers after the first Call
// (chained calls, or field access on a call's result) are not supported by
// this grammar and are reported as an error rather than silently dropped.
func (b *builder) buildReferenceExpr(ref *Reference) (ast.Statement, error) {
	path := []string{ref.Name}

	for i, tr := range ref.Trailers {
		if tr.Field != nil {
			path = append(path, *tr.Field)
			continue
		}

		args, err := b.buildArgs(tr.Call.Args)
		if err != nil {
			return nil, err
		}

		if i != len(ref.Trailers)-1 {
			return nil, fmt.Errorf("unsupported trailer after call in %s", ref.Name)
		}

		if len(path) == 1 {
			if cls, ok := b.classes[path[0]]; ok {
				return &ast.NewInstance{Class: cls, Args: args}, nil
			}
		}

		receiver := variableValueFor(path[:len(path)-1])
		return &ast.MethodCall{Receiver: receiver, Method: path[len(path)-1], Args: args}, nil
	}

	return variableValueFor(path), nil
}

func (b *builder) buildArgs(exprs []*Expr) ([]ast.Statement, error) {
	args := make([]ast.Statement, len(exprs))
	for i, e := range exprs {
		built, err := b.buildExpr(e)
		if err != nil {
			return nil, err
		}
		args[i] = built
	}
	return args, nil
}

func variableValueFor(path []string) *ast.VariableValue {
	if len(path) == 1 {
		return ast.NewVariableValue(path[0])
	}
	return &ast.VariableValue{Path: append([]string(nil), path...)}
}
