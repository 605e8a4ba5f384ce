package runtime

import (
	"fmt"
	"io"
)

// Executable is implemented by ast.Statement; runtime cannot import ast
// (ast imports runtime), so method bodies are held behind this narrow
// interface instead, following the same split the original source keeps
// between its statement.h and runtime.h headers.
type Executable interface {
	Execute(closure Closure, ctx *Context) (ObjectHolder, error)
}

// Method is a class member: a name, its formal parameter names in order, and
// a body statement.
type Method struct {
	Name          string
	FormalParams  []string
	Body          Executable
}

// Class is a runtime value carrying a name, its own methods in declaration
// order, and an optional parent for single inheritance.
type Class struct {
	Name    string
	Methods []Method
	Parent  *Class
}

// NewClass constructs a Class. Parent may be nil for a root class.
func NewClass(name string, methods []Method, parent *Class) *Class {
	return &Class{Name: name, Methods: methods, Parent: parent}
}

func (c *Class) Print(w io.Writer, _ *Context) error {
	_, err := fmt.Fprintf(w, "Class %s", c.Name)
	return err
}

// FindMethod searches c's own methods in declaration order, then recurses
// into the parent chain. Returns nil if unresolved anywhere in the chain,
// per §4.5's depth-first, declaration-order method resolution.
func (c *Class) FindMethod(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	if c.Parent != nil {
		return c.Parent.FindMethod(name)
	}
	return nil
}

// ClassInstance is a runtime object: a reference to its Class plus a mutable
// field map.
type ClassInstance struct {
	Class  *Class
	Fields Closure
}

// NewInstance constructs a field-less instance of cls. Fields are populated
// only by FieldAssignment or by running __init__ (see package ast).
func NewInstance(cls *Class) *ClassInstance {
	return &ClassInstance{Class: cls, Fields: NewClosure()}
}

// HasMethod reports whether cls (or an ancestor) resolves name to a method
// whose formal-parameter count equals arity.
func (ci *ClassInstance) HasMethod(name string, arity int) bool {
	m := ci.Class.FindMethod(name)
	return m != nil && len(m.FormalParams) == arity
}

// Call invokes method name on the instance with actualArgs, building a fresh
// activation closure containing only `self` (a non-owning share of ci) and
// the bound formal parameters, per §4.5. The caller's closure is never
// visible inside the method: methods are not lexical closures over enclosing
// code.
func (ci *ClassInstance) Call(name string, actualArgs []ObjectHolder, ctx *Context) (ObjectHolder, error) {
	m := ci.Class.FindMethod(name)
	if m == nil {
		return ObjectHolder{}, &RuntimeError{Kind: ErrNoSuchMethod, Msg: fmt.Sprintf("there is no method %q on class %s", name, ci.Class.Name)}
	}
	if len(m.FormalParams) != len(actualArgs) {
		return ObjectHolder{}, &RuntimeError{Kind: ErrArityMismatch, Msg: fmt.Sprintf("method %s.%s expects %d argument(s), got %d", ci.Class.Name, name, len(m.FormalParams), len(actualArgs))}
	}

	ctx.Log.Debug("dispatch", "class", ci.Class.Name, "method", name, "args", len(actualArgs))

	activation := NewClosure()
	activation.Set("self", Share(ci))
	for i, param := range m.FormalParams {
		activation.Set(param, actualArgs[i])
	}
	return m.Body.Execute(activation, ctx)
}

// ClearFields empties the instance's field map, for callers that know they
// are holding the last reference into a cycle of instances referencing each
// other and want to break it explicitly rather than rely on the garbage
// collector alone.
func (ci *ClassInstance) ClearFields() {
	for k := range ci.Fields {
		delete(ci.Fields, k)
	}
}

// Print prints via a zero-arity __str__ if the class defines one, otherwise
// falls back to an implementation-defined identity string, per §4.2.
func (ci *ClassInstance) Print(w io.Writer, ctx *Context) error {
	if ci.HasMethod("__str__", 0) {
		result, err := ci.Call("__str__", nil, ctx)
		if err != nil {
			return err
		}
		return result.Print(w, ctx)
	}
	_, err := fmt.Fprintf(w, "<%s instance at %p>", ci.Class.Name, ci)
	return err
}
