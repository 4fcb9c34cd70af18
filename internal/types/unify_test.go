package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnifier() *Unifier {
	return NewUnifier(NewFresh())
}

func requireTypeError(t *testing.T, err error, code ErrorCode) *TypeError {
	t.Helper()
	require.Error(t, err)
	te, ok := err.(*TypeError)
	require.True(t, ok, "expected *TypeError, got %T", err)
	require.Equal(t, code, te.Code)
	return te
}

func TestUnifyBindsVariable(t *testing.T) {
	u := newTestUnifier()

	s, err := u.Unify(tvar("a"), TNum)
	require.NoError(t, err)
	assert.Equal(t, TNum, s.Apply(tvar("a")))

	s, err = u.Unify(TStr, tvar("b"))
	require.NoError(t, err)
	assert.Equal(t, TStr, s.Apply(tvar("b")))
}

func TestUnifySameVariableIsIdentity(t *testing.T) {
	u := newTestUnifier()
	s, err := u.Unify(tvar("a"), tvar("a"))
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestUnifyOccursCheck(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(tvar("a"), NewList(tvar("a")))
	te := requireTypeError(t, err, InfiniteType)
	assert.Equal(t, "a", te.Var)
}

func TestUnifyOccursCheckInOpenRow(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(tvar("r"), openUnion(map[string]Type{"Ok": TNum}, "r"))
	requireTypeError(t, err, InfiniteType)
}

func TestUnifyConstructorMismatch(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(TNum, TStr)
	requireTypeError(t, err, ConstructorMismatch)
}

func TestUnifyArityMismatch(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(
		NewFunc([]Type{TNum}, TNum),
		NewFunc([]Type{TNum, TNum}, TNum),
	)
	requireTypeError(t, err, ArityMismatch)
}

func TestUnifyKindMismatch(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(TNum, closedRec(map[string]Type{"a": TNum}, "r"))
	requireTypeError(t, err, KindMismatch)
}

func TestUnifyRowKindMismatch(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(
		closedRec(map[string]Type{"a": TNum}, "r1"),
		closedUnion(map[string]Type{"a": TNum}, "r2"),
	)
	requireTypeError(t, err, RowKindMismatch)
}

func TestUnifySoundness(t *testing.T) {
	// If unify succeeds, applying the substitution makes both sides equal.
	cases := []struct {
		name   string
		t1, t2 Type
	}{
		{
			name: "function against variables",
			t1:   NewFunc([]Type{tvar("a"), tvar("b")}, tvar("a")),
			t2:   NewFunc([]Type{TNum, TStr}, tvar("c")),
		},
		{
			name: "two open records",
			t1:   openRec(map[string]Type{"a": TNum}, "r1"),
			t2:   openRec(map[string]Type{"b": TStr}, "r2"),
		},
		{
			name: "open against closed record",
			t1:   openRec(map[string]Type{"a": TNum}, "r1"),
			t2:   closedRec(map[string]Type{"a": TNum, "b": TStr}, "r2"),
		},
		{
			name: "closed records of the same shape",
			t1:   closedRec(map[string]Type{"a": TNum}, "r1"),
			t2:   closedRec(map[string]Type{"a": TNum}, "r2"),
		},
		{
			name: "two open variants",
			t1:   openUnion(map[string]Type{"Ok": tvar("a")}, "r1"),
			t2:   openUnion(map[string]Type{"Err": TStr}, "r2"),
		},
		{
			name: "shared items unify pointwise",
			t1:   openRec(map[string]Type{"a": tvar("x")}, "r1"),
			t2:   openRec(map[string]Type{"a": NewList(TNum)}, "r2"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := newTestUnifier()
			s, err := u.Unify(tc.t1, tc.t2)
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(s.Apply(tc.t1), s.Apply(tc.t2)),
				"apply(s, t1) != apply(s, t2)")
		})
	}
}

func TestUnifyClosedRowWidthMismatch(t *testing.T) {
	u := newTestUnifier()
	_, err := u.Unify(
		closedRec(map[string]Type{"a": TNum}, "r1"),
		closedRec(map[string]Type{"a": TNum, "b": TStr}, "r2"),
	)
	te := requireTypeError(t, err, RowMismatch)
	assert.Equal(t, []string{"b"}, te.Keys)
	assert.Equal(t, SideLeft, te.Side)

	// Mirrored orientation points at the other side
	_, err = u.Unify(
		closedRec(map[string]Type{"a": TNum, "b": TStr}, "r1"),
		closedRec(map[string]Type{"a": TNum}, "r2"),
	)
	te = requireTypeError(t, err, RowMismatch)
	assert.Equal(t, []string{"b"}, te.Keys)
	assert.Equal(t, SideRight, te.Side)
}

func TestUnifyClosedRowRejectsOpenExtra(t *testing.T) {
	// A closed row cannot absorb keys that only the open side carries.
	u := newTestUnifier()
	_, err := u.Unify(
		closedRec(map[string]Type{"a": TNum}, "r1"),
		openRec(map[string]Type{"a": TNum, "b": TStr}, "r2"),
	)
	te := requireTypeError(t, err, RowMismatch)
	assert.Equal(t, []string{"b"}, te.Keys)
}

func TestUnifyOpenAbsorbsClosed(t *testing.T) {
	u := newTestUnifier()
	open := openRec(map[string]Type{"a": TNum}, "r1")
	closed := closedRec(map[string]Type{"a": TNum, "b": TStr}, "r2")

	s, err := u.Unify(open, closed)
	require.NoError(t, err)

	got := s.Apply(open).(*TRow)
	assert.False(t, got.Open)
	assert.Empty(t, cmp.Diff(map[string]Type{"a": TNum, "b": TStr}, got.Items))
}

func TestUnifyTwoOpenRowsStayOpen(t *testing.T) {
	u := newTestUnifier()
	r1 := openRec(map[string]Type{"a": TNum}, "r1")
	r2 := openRec(map[string]Type{"b": TStr}, "r2")

	s, err := u.Unify(r1, r2)
	require.NoError(t, err)

	got := s.Apply(r1).(*TRow)
	assert.True(t, got.Open)
	assert.Len(t, got.Items, 2)
}

func TestUnifyRowCommutativity(t *testing.T) {
	// Key order and argument order do not affect the unification outcome.
	mk1 := func() *TRow { return openRec(map[string]Type{"a": TNum, "b": tvar("x")}, "r1") }
	mk2 := func() *TRow { return openRec(map[string]Type{"b": TStr, "c": TNum}, "r2") }

	u1 := newTestUnifier()
	s1, err := u1.Unify(mk1(), mk2())
	require.NoError(t, err)

	u2 := newTestUnifier()
	s2, err := u2.Unify(mk2(), mk1())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(
		alphaRename(s1.Apply(mk1())),
		alphaRename(s2.Apply(mk1())),
	))
}

func TestUnifyMostGeneral(t *testing.T) {
	// Any other unifier factors through the one unify returns.
	u := newTestUnifier()
	t1 := Type(tvar("a"))
	t2 := Type(NewList(tvar("b")))

	s, err := u.Unify(t1, t2)
	require.NoError(t, err)

	other := Subst{"a": NewList(TNum), "b": TNum} // also unifies t1 with t2
	r := Subst{"b": TNum}

	factored := r.Compose(s)
	for _, v := range []string{"a", "b"} {
		assert.Empty(t, cmp.Diff(other.Apply(tvar(v)), factored.Apply(tvar(v))))
	}
}

func TestUnifyNestedRows(t *testing.T) {
	u := newTestUnifier()
	t1 := openRec(map[string]Type{"inner": openRec(map[string]Type{"x": tvar("a")}, "r1")}, "r2")
	t2 := openRec(map[string]Type{"inner": openRec(map[string]Type{"x": TNum, "y": TStr}, "r3")}, "r4")

	s, err := u.Unify(t1, t2)
	require.NoError(t, err)
	assert.Equal(t, TNum, s.Apply(tvar("a")))
	assert.Empty(t, cmp.Diff(s.Apply(t1), s.Apply(t2)))
}
