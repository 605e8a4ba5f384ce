package runtime

// Equal and Less implement the polymorphic comparison kernel from §4.3.
// NotEqual, Greater, LessOrEqual, and GreaterOrEqual are derived from them;
// any error from Equal/Less propagates out of the derived forms unchanged.

// Equal compares two holders for equality:
//   - both Number: integer ==
//   - both String: byte-wise ==
//   - both Bool: ==
//   - both null: true
//   - lhs is a ClassInstance defining __eq__/1: truth of calling it
//   - otherwise: a type-mismatch RuntimeError
func Equal(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	if ln, ok := TryAs[*Number](lhs); ok {
		if rn, ok := TryAs[*Number](rhs); ok {
			return ln.Value == rn.Value, nil
		}
	}
	if ls, ok := TryAs[*String](lhs); ok {
		if rs, ok := TryAs[*String](rhs); ok {
			return ls.Value == rs.Value, nil
		}
	}
	if lb, ok := TryAs[*Bool](lhs); ok {
		if rb, ok := TryAs[*Bool](rhs); ok {
			return lb.Value == rb.Value, nil
		}
	}
	if lhs.IsNone() && rhs.IsNone() {
		return true, nil
	}
	if li, ok := TryAs[*ClassInstance](lhs); ok {
		if li.HasMethod("__eq__", 1) {
			result, err := li.Call("__eq__", []ObjectHolder{rhs}, ctx)
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	return false, newTypeMismatch("cannot compare values for equality")
}

// Less compares two holders for ordering, using the same dispatch shape as
// Equal but with __lt__ as the dunder fallback. Comparing two null holders
// is an error (there is no natural order over None).
func Less(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	if ln, ok := TryAs[*Number](lhs); ok {
		if rn, ok := TryAs[*Number](rhs); ok {
			return ln.Value < rn.Value, nil
		}
	}
	if ls, ok := TryAs[*String](lhs); ok {
		if rs, ok := TryAs[*String](rhs); ok {
			return ls.Value < rs.Value, nil
		}
	}
	if lb, ok := TryAs[*Bool](lhs); ok {
		if rb, ok := TryAs[*Bool](rhs); ok {
			return !lb.Value && rb.Value, nil
		}
	}
	if li, ok := TryAs[*ClassInstance](lhs); ok {
		if li.HasMethod("__lt__", 1) {
			result, err := li.Call("__lt__", []ObjectHolder{rhs}, ctx)
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	return false, newTypeMismatch("cannot order these values")
}

// NotEqual is ¬Equal.
func NotEqual(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	eq, err := Equal(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// Greater is ¬Less ∧ ¬Equal.
func Greater(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	lt, err := Less(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	eq, err := Equal(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !lt && !eq, nil
}

// LessOrEqual is Less ∨ Equal.
func LessOrEqual(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	lt, err := Less(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	if lt {
		return true, nil
	}
	return Equal(lhs, rhs, ctx)
}

// GreaterOrEqual is ¬Less.
func GreaterOrEqual(lhs, rhs ObjectHolder, ctx *Context) (bool, error) {
	lt, err := Less(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !lt, nil
}
