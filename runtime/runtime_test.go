package runtime_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythonlang/mython/runtime"
)

func newCtx() *runtime.Context {
	return runtime.NewContext(&bytes.Buffer{}, nil)
}

func newLoggingCtx(out *bytes.Buffer) *runtime.Context {
	log := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return runtime.NewContext(&bytes.Buffer{}, log)
}

func TestIsTrue(t *testing.T) {
	assert.True(t, runtime.IsTrue(runtime.Own(&runtime.Number{Value: 1})))
	assert.False(t, runtime.IsTrue(runtime.Own(&runtime.Number{Value: 0})))
	assert.True(t, runtime.IsTrue(runtime.Own(&runtime.String{Value: "x"})))
	assert.False(t, runtime.IsTrue(runtime.Own(&runtime.String{Value: ""})))
	assert.True(t, runtime.IsTrue(runtime.Own(&runtime.Bool{Value: true})))
	assert.False(t, runtime.IsTrue(runtime.Own(&runtime.Bool{Value: false})))
	assert.False(t, runtime.IsTrue(runtime.None()))
}

// TestIdempotentTruthiness checks the §8 law:
// is_true(own(Bool(is_true(x)))) == is_true(x)
func TestIdempotentTruthiness(t *testing.T) {
	values := []runtime.ObjectHolder{
		runtime.Own(&runtime.Number{Value: 5}),
		runtime.Own(&runtime.Number{Value: 0}),
		runtime.Own(&runtime.String{Value: ""}),
		runtime.Own(&runtime.Bool{Value: true}),
		runtime.None(),
	}
	for _, x := range values {
		wrapped := runtime.Own(&runtime.Bool{Value: runtime.IsTrue(x)})
		assert.Equal(t, runtime.IsTrue(x), runtime.IsTrue(wrapped))
	}
}

func TestNullHolderDereferenceReturnsNilDereferenceError(t *testing.T) {
	_, err := runtime.None().Get()
	require.Error(t, err)
	var rerr *runtime.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, runtime.ErrNilDereference, rerr.Kind)
}

func TestPrintBoolAndNone(t *testing.T) {
	ctx := newCtx()
	var buf bytes.Buffer
	require.NoError(t, runtime.Own(&runtime.Bool{Value: true}).Print(&buf, ctx))
	assert.Equal(t, "True", buf.String())

	buf.Reset()
	require.NoError(t, runtime.None().Print(&buf, ctx))
	assert.Equal(t, "None", buf.String())
}

func TestEqualNumberStringBool(t *testing.T) {
	ctx := newCtx()
	eq, err := runtime.Equal(runtime.Own(&runtime.Number{Value: 3}), runtime.Own(&runtime.Number{Value: 3}), ctx)
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = runtime.Equal(runtime.Own(&runtime.String{Value: "a"}), runtime.Own(&runtime.String{Value: "b"}), ctx)
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = runtime.Equal(runtime.None(), runtime.None(), ctx)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualMismatchedTypesErrors(t *testing.T) {
	ctx := newCtx()
	_, err := runtime.Equal(runtime.Own(&runtime.Number{Value: 1}), runtime.Own(&runtime.String{Value: "1"}), ctx)
	require.Error(t, err)
	var rerr *runtime.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, runtime.ErrTypeMismatch, rerr.Kind)
}

// TestComparisonDuality checks the §8 laws:
// equal(a,b) ↔ equal(b,a); greater(a,b) ↔ less(b,a) ∧ ¬equal(a,b)
func TestComparisonDuality(t *testing.T) {
	ctx := newCtx()
	a := runtime.Own(&runtime.Number{Value: 2})
	b := runtime.Own(&runtime.Number{Value: 5})

	eqAB, err := runtime.Equal(a, b, ctx)
	require.NoError(t, err)
	eqBA, err := runtime.Equal(b, a, ctx)
	require.NoError(t, err)
	assert.Equal(t, eqAB, eqBA)

	gt, err := runtime.Greater(b, a, ctx)
	require.NoError(t, err)
	ltBA, err := runtime.Less(a, b, ctx)
	require.NoError(t, err)
	neq, err := runtime.NotEqual(b, a, ctx)
	require.NoError(t, err)
	assert.Equal(t, gt, ltBA && neq)
}

func TestLessTransitivity(t *testing.T) {
	ctx := newCtx()
	a := runtime.Own(&runtime.Number{Value: 1})
	b := runtime.Own(&runtime.Number{Value: 2})
	c := runtime.Own(&runtime.Number{Value: 3})

	ab, err := runtime.Less(a, b, ctx)
	require.NoError(t, err)
	bc, err := runtime.Less(b, c, ctx)
	require.NoError(t, err)
	ac, err := runtime.Less(a, c, ctx)
	require.NoError(t, err)
	assert.True(t, ab)
	assert.True(t, bc)
	assert.True(t, ac)
}

func TestBoolOrdering(t *testing.T) {
	ctx := newCtx()
	lt, err := runtime.Less(runtime.Own(&runtime.Bool{Value: false}), runtime.Own(&runtime.Bool{Value: true}), ctx)
	require.NoError(t, err)
	assert.True(t, lt)
}

func TestClassMethodResolutionOrder(t *testing.T) {
	parent := runtime.NewClass("P", []runtime.Method{
		{Name: "greet", FormalParams: nil, Body: literalReturn(&runtime.String{Value: "from P"})},
	}, nil)
	child := runtime.NewClass("C", []runtime.Method{
		{Name: "greet", FormalParams: nil, Body: literalReturn(&runtime.String{Value: "from C"})},
	}, parent)

	inst := runtime.NewInstance(child)
	ctx := newCtx()
	result, err := inst.Call("greet", nil, ctx)
	require.NoError(t, err)
	s, ok := runtime.TryAs[*runtime.String](result)
	require.True(t, ok)
	assert.Equal(t, "from C", s.Value)
}

func TestMethodResolutionFallsBackToParent(t *testing.T) {
	parent := runtime.NewClass("P", []runtime.Method{
		{Name: "only_in_parent", Body: literalReturn(&runtime.Number{Value: 42})},
	}, nil)
	child := runtime.NewClass("C", nil, parent)
	inst := runtime.NewInstance(child)

	result, err := inst.Call("only_in_parent", nil, newCtx())
	require.NoError(t, err)
	n, ok := runtime.TryAs[*runtime.Number](result)
	require.True(t, ok)
	assert.Equal(t, 42, n.Value)
}

func TestCallArityMismatch(t *testing.T) {
	cls := runtime.NewClass("C", []runtime.Method{
		{Name: "f", FormalParams: []string{"x"}, Body: literalReturn(&runtime.Number{Value: 1})},
	}, nil)
	inst := runtime.NewInstance(cls)
	_, err := inst.Call("f", nil, newCtx())
	require.Error(t, err)
	var rerr *runtime.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, runtime.ErrArityMismatch, rerr.Kind)
}

func TestCallNoSuchMethod(t *testing.T) {
	cls := runtime.NewClass("C", nil, nil)
	inst := runtime.NewInstance(cls)
	_, err := inst.Call("missing", nil, newCtx())
	require.Error(t, err)
	var rerr *runtime.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, runtime.ErrNoSuchMethod, rerr.Kind)
}

func TestClearFieldsBreaksACycle(t *testing.T) {
	cls := runtime.NewClass("Node", nil, nil)
	a := runtime.NewInstance(cls)
	b := runtime.NewInstance(cls)
	a.Fields.Set("next", runtime.Own(b))
	b.Fields.Set("next", runtime.Own(a))

	b.ClearFields()
	_, ok := b.Fields.Get("next")
	assert.False(t, ok)
}

func TestCallLogsDispatch(t *testing.T) {
	cls := runtime.NewClass("C", []runtime.Method{
		{Name: "greet", Body: literalReturn(&runtime.String{Value: "hi"})},
	}, nil)
	inst := runtime.NewInstance(cls)

	var logs bytes.Buffer
	_, err := inst.Call("greet", nil, newLoggingCtx(&logs))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "dispatch")
	assert.Contains(t, logs.String(), "class=C")
	assert.Contains(t, logs.String(), "method=greet")
}

func TestSelfBindingIsNonOwning(t *testing.T) {
	cls := runtime.NewClass("C", []runtime.Method{
		{Name: "selfref", Body: selfLookup{}},
	}, nil)
	inst := runtime.NewInstance(cls)
	result, err := inst.Call("selfref", nil, newCtx())
	require.NoError(t, err)
	self, ok := runtime.TryAs[*runtime.ClassInstance](result)
	require.True(t, ok)
	assert.False(t, result.Owning())
	assert.Same(t, inst, self)
}

// literalReturn and selfLookup are minimal runtime.Executable stand-ins so
// these tests can exercise method dispatch without depending on package ast
// (which itself depends on runtime).

type literalReturnStmt struct{ val runtime.Object }

func literalReturn(val runtime.Object) runtime.Executable {
	return literalReturnStmt{val: val}
}

func (s literalReturnStmt) Execute(_ runtime.Closure, _ *runtime.Context) (runtime.ObjectHolder, error) {
	return runtime.Own(s.val), nil
}

type selfLookup struct{}

func (selfLookup) Execute(closure runtime.Closure, _ *runtime.Context) (runtime.ObjectHolder, error) {
	h, _ := closure.Get("self")
	return h, nil
}
