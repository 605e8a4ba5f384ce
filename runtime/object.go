// Package runtime implements Mython's dynamic value model: the uniform
// ObjectHolder handle, the concrete Object variants, closures, method
// dispatch, and the comparison/truthiness kernel.
package runtime

import (
	"fmt"
	"io"
)

// Object is the single capability every runtime value exposes: printing
// itself to a sink under a Context.
type Object interface {
	Print(w io.Writer, ctx *Context) error
}

// Number is a signed-integer value.
type Number struct {
	Value int
}

func (n *Number) Print(w io.Writer, _ *Context) error {
	_, err := fmt.Fprintf(w, "%d", n.Value)
	return err
}

// String is a byte-string value.
type String struct {
	Value string
}

func (s *String) Print(w io.Writer, _ *Context) error {
	_, err := io.WriteString(w, s.Value)
	return err
}

// Bool is a truth value, printing as True/False per the language surface.
type Bool struct {
	Value bool
}

func (b *Bool) Print(w io.Writer, _ *Context) error {
	if b.Value {
		_, err := io.WriteString(w, "True")
		return err
	}
	_, err := io.WriteString(w, "False")
	return err
}

// ObjectHolder is the uniform handle used throughout evaluation. It wraps an
// Object plus an owning flag distinguishing a holder with shared ownership
// from a non-owning borrow (used only for the transient `self` binding
// during a method call). A zero-value ObjectHolder is the null holder
// representing None.
type ObjectHolder struct {
	obj    Object
	owning bool
}

// Own constructs an owning holder around a freshly created Object.
func Own(obj Object) ObjectHolder {
	return ObjectHolder{obj: obj, owning: true}
}

// Share constructs a non-owning holder borrowing an existing Object. Used
// exclusively to bind `self` in a method's activation closure (§4.5); the
// borrowed Object must outlive the activation, which holds by construction
// because the activation closure never escapes the call that created it.
func Share(obj Object) ObjectHolder {
	return ObjectHolder{obj: obj, owning: false}
}

// None returns the null holder.
func None() ObjectHolder {
	return ObjectHolder{}
}

// IsNone reports whether the holder is null.
func (h ObjectHolder) IsNone() bool {
	return h.obj == nil
}

// Get dereferences the holder, returning an ErrNilDereference RuntimeError if
// the holder is null. Evaluation paths that must have a concrete value to
// proceed (walking a dotted field chain, resolving a method-call receiver)
// call Get so a null holder surfaces as a runtime error instead of crashing
// the process.
func (h ObjectHolder) Get() (Object, error) {
	if h.obj == nil {
		return nil, &RuntimeError{Kind: ErrNilDereference, Msg: "dereference of a null holder where a value is required"}
	}
	return h.obj, nil
}

// Owning reports whether this holder participates in shared ownership, as
// opposed to being a transient borrow (see Share).
func (h ObjectHolder) Owning() bool {
	return h.owning
}

// TryAs attempts to downcast the holder's Object to the concrete type T,
// returning the zero value and false on a null holder or type mismatch.
func TryAs[T Object](h ObjectHolder) (T, bool) {
	var zero T
	if h.obj == nil {
		return zero, false
	}
	v, ok := h.obj.(T)
	return v, ok
}

// Print dispatches to the held Object's Print method, writing "None" for a
// null holder (used by Print statements and Stringify; see ast package).
func (h ObjectHolder) Print(w io.Writer, ctx *Context) error {
	if h.obj == nil {
		_, err := io.WriteString(w, "None")
		return err
	}
	return h.obj.Print(w, ctx)
}

// IsTrue implements the truthiness kernel from §4.2: Number != 0,
// non-empty String, the Bool's own value, everything else (including null)
// is false.
func IsTrue(h ObjectHolder) bool {
	switch v := h.obj.(type) {
	case *Number:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *Bool:
		return v.Value
	default:
		return false
	}
}
