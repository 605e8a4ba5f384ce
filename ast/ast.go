// Package ast defines Mython's statement tree: the heterogeneous node kinds
// produced by a parser (see package parser) and walked by evaluation. Every
// node implements Statement's single operation, Execute.
package ast

import (
	"bytes"
	"fmt"

	"github.com/mythonlang/mython/runtime"
)

// Statement is the interface every tree node implements: execute it under a
// closure (scope) and context, yielding a result holder or an error. Print
// yields runtime.None(); assignment and field writes yield the value they
// bound. A non-null result only escapes outward through
// Return/IfElse/Compound's specific propagation rules (§4.4).
type Statement interface {
	Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error)
}

// Compound is a sequence of statements. Its result-propagation rule is the
// mechanism by which `return` escapes nested blocks: if a direct child is a
// Return, its result is propagated and iteration stops; if a direct child is
// an IfElse whose execution yields a non-null holder, that too is
// propagated; any other non-terminal result is discarded.
type Compound struct {
	Statements []Statement
}

func (c *Compound) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	for _, stmt := range c.Statements {
		if ret, ok := stmt.(*Return); ok {
			return ret.Execute(closure, ctx)
		}
		if ifElse, ok := stmt.(*IfElse); ok {
			result, err := ifElse.Execute(closure, ctx)
			if err != nil {
				return runtime.ObjectHolder{}, err
			}
			if !result.IsNone() {
				return result, nil
			}
			continue
		}
		if _, err := stmt.Execute(closure, ctx); err != nil {
			return runtime.ObjectHolder{}, err
		}
	}
	return runtime.None(), nil
}

// Return evaluates its inner statement and yields the result; its presence
// inside a nested block is what lets the result escape through Compound and
// IfElse.
type Return struct {
	Value Statement
}

func (r *Return) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	return r.Value.Execute(closure, ctx)
}

// Assignment binds the result of evaluating Value to Name in closure.
type Assignment struct {
	Name  string
	Value Statement
}

func (a *Assignment) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	result, err := a.Value.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	closure.Set(a.Name, result)
	return result, nil
}

// VariableValue looks up a name, or walks a dotted path (a.b.c) through
// successive ClassInstance field maps. Each intermediate name after the
// first must already resolve to a ClassInstance.
type VariableValue struct {
	Path []string // len==1 for a bare name; len>1 for a.b.c
}

func NewVariableValue(name string) *VariableValue {
	return &VariableValue{Path: []string{name}}
}

func (v *VariableValue) Execute(closure runtime.Closure, _ *runtime.Context) (runtime.ObjectHolder, error) {
	if len(v.Path) == 0 {
		return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrUnknownName, Msg: "empty variable reference"}
	}

	head := v.Path[0]
	current, ok := closure.Get(head)
	if !ok {
		return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrUnknownName, Msg: fmt.Sprintf("name %q is not defined", head)}
	}

	for _, field := range v.Path[1:] {
		obj, err := current.Get()
		if err != nil {
			return runtime.ObjectHolder{}, err
		}
		inst, ok := obj.(*runtime.ClassInstance)
		if !ok {
			return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrNotAnInstance, Msg: fmt.Sprintf("cannot access field %q: not an instance", field)}
		}
		current, ok = inst.Fields.Get(field)
		if !ok {
			return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrUnknownName, Msg: fmt.Sprintf("field %q is not defined", field)}
		}
	}
	return current, nil
}

// FieldAssignment evaluates Object to a ClassInstance and writes
// instance.Fields[Field] = Value.
type FieldAssignment struct {
	Object *VariableValue
	Field  string
	Value  Statement
}

func (f *FieldAssignment) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	objHolder, err := f.Object.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	obj, err := objHolder.Get()
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	inst, ok := obj.(*runtime.ClassInstance)
	if !ok {
		return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrNotAnInstance, Msg: "field assignment target is not an instance"}
	}
	val, err := f.Value.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	inst.Fields.Set(f.Field, val)
	return val, nil
}

// Print evaluates each argument in order, writes them space-separated, and
// terminates with a newline. Zero arguments prints only the newline; a null
// argument holder prints as "None".
type Print struct {
	Args []Statement
}

// PrintVariable builds a Print whose sole argument looks up name by value,
// matching the convenience constructor the original source provides
// (Print::Variable) as a shorthand over the general form.
func PrintVariable(name string) *Print {
	return &Print{Args: []Statement{NewVariableValue(name)}}
}

func (p *Print) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	for i, arg := range p.Args {
		if i > 0 {
			if _, err := fmt.Fprint(ctx.Output, " "); err != nil {
				return runtime.ObjectHolder{}, err
			}
		}
		val, err := arg.Execute(closure, ctx)
		if err != nil {
			return runtime.ObjectHolder{}, err
		}
		if err := val.Print(ctx.Output, ctx); err != nil {
			return runtime.ObjectHolder{}, err
		}
	}
	if _, err := fmt.Fprint(ctx.Output, "\n"); err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.None(), nil
}

// MethodCall evaluates Receiver to a ClassInstance, evaluates each argument
// exactly once, and dispatches Method on the instance.
type MethodCall struct {
	Receiver Statement
	Method   string
	Args     []Statement
}

func (m *MethodCall) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	recvHolder, err := m.Receiver.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	recv, err := recvHolder.Get()
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	inst, ok := recv.(*runtime.ClassInstance)
	if !ok {
		return runtime.ObjectHolder{}, &runtime.RuntimeError{Kind: runtime.ErrNotAnInstance, Msg: "method call receiver is not an instance"}
	}

	args := make([]runtime.ObjectHolder, len(m.Args))
	for i, a := range m.Args {
		val, err := a.Execute(closure, ctx)
		if err != nil {
			return runtime.ObjectHolder{}, err
		}
		args[i] = val
	}
	return inst.Call(m.Method, args, ctx)
}

// Stringify evaluates its argument and renders it as a String: "None" for a
// null result, otherwise the argument's own Print output captured to a
// buffer.
type Stringify struct {
	Value Statement
}

func (s *Stringify) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	val, err := s.Value.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if val.IsNone() {
		return runtime.Own(&runtime.String{Value: "None"}), nil
	}
	var buf bytes.Buffer
	if err := val.Print(&buf, ctx); err != nil {
		return runtime.ObjectHolder{}, err
	}
	return runtime.Own(&runtime.String{Value: buf.String()}), nil
}

// IfElse evaluates Cond; if truthy it executes Then and returns its result,
// else it executes Else (if present) and returns its result, else null.
type IfElse struct {
	Cond Statement
	Then Statement
	Else Statement // nil if there is no else branch
}

func (i *IfElse) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	cond, err := i.Cond.Execute(closure, ctx)
	if err != nil {
		return runtime.ObjectHolder{}, err
	}
	if runtime.IsTrue(cond) {
		return i.Then.Execute(closure, ctx)
	}
	if i.Else != nil {
		return i.Else.Execute(closure, ctx)
	}
	return runtime.None(), nil
}

// ClassDefinition binds a pre-built class value under its own name and
// returns it. Building the runtime.Class value itself (methods, parent) is
// a parser/builder concern, not this node's.
type ClassDefinition struct {
	Class *runtime.Class
}

func (c *ClassDefinition) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	holder := runtime.Own(c.Class)
	closure.Set(c.Class.Name, holder)
	ctx.Log.Debug("class registered", "name", c.Class.Name, "parent", parentName(c.Class.Parent))
	return holder, nil
}

func parentName(parent *runtime.Class) string {
	if parent == nil {
		return ""
	}
	return parent.Name
}

// NewInstance constructs an empty instance of Class, then runs __init__ with
// Args if the class (or an ancestor) defines one matching their arity.
type NewInstance struct {
	Class *runtime.Class
	Args  []Statement
}

func (n *NewInstance) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	inst := runtime.NewInstance(n.Class)
	if inst.HasMethod("__init__", len(n.Args)) {
		args := make([]runtime.ObjectHolder, len(n.Args))
		for i, a := range n.Args {
			val, err := a.Execute(closure, ctx)
			if err != nil {
				return runtime.ObjectHolder{}, err
			}
			args[i] = val
		}
		if _, err := inst.Call("__init__", args, ctx); err != nil {
			return runtime.ObjectHolder{}, err
		}
	}
	return runtime.Own(inst), nil
}

// MethodBody wraps a method's statement body; it exists as a distinct node
// kind (rather than using the body statement directly) so method
// construction always has a uniform Statement to install, matching the
// original source's MethodBody wrapper.
type MethodBody struct {
	Body Statement
}

func (m *MethodBody) Execute(closure runtime.Closure, ctx *runtime.Context) (runtime.ObjectHolder, error) {
	return m.Body.Execute(closure, ctx)
}
