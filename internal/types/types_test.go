package types_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Flyclops/stela/internal/types"
)

func TestCompatibleIdenticalKinds(t *testing.T) {
	if !types.Compatible(types.IntT, types.IntT) {
		t.Fatalf("expected int compatible with int")
	}
	if types.Compatible(types.IntT, types.StrT) {
		t.Fatalf("did not expect int compatible with str")
	}
}

func TestCompatibleGradualEscape(t *testing.T) {
	if !types.Compatible(types.UnknownT, types.StrT) {
		t.Fatalf("expected Unknown compatible with anything")
	}
	if !types.Compatible(types.StrT, types.UnknownT) {
		t.Fatalf("expected anything compatible with Unknown")
	}
	if !types.Compatible(types.AnyT, types.IntT) {
		t.Fatalf("expected Any compatible with anything")
	}
}

func TestCompatibleIntWidensToFloat(t *testing.T) {
	if !types.Compatible(types.FloatT, types.IntT) {
		t.Fatalf("expected int assignable where float is wanted")
	}
	if types.Compatible(types.IntT, types.FloatT) {
		t.Fatalf("did not expect float assignable where int is wanted")
	}
}

func TestCompatibleContainersOneLayerDeep(t *testing.T) {
	wantList := types.List(types.FloatT)
	gotList := types.List(types.IntT)
	if !types.Compatible(wantList, gotList) {
		t.Fatalf("expected list[int] compatible with list[float] (elem widening)")
	}

	wantDict := types.Dict(types.StrT, types.IntT)
	gotDict := types.Dict(types.StrT, types.StrT)
	if types.Compatible(wantDict, gotDict) {
		t.Fatalf("did not expect dict[str,str] compatible with dict[str,int]")
	}
}

func TestCompatibleTupleArity(t *testing.T) {
	want := types.Tuple(types.IntT, types.StrT)
	got := types.Tuple(types.IntT)
	if types.Compatible(want, got) {
		t.Fatalf("did not expect mismatched tuple arity to be compatible")
	}
	got2 := types.Tuple(types.IntT, types.StrT)
	if !types.Compatible(want, got2) {
		t.Fatalf("expected matching tuple arity/elements to be compatible")
	}
}

func TestCompatibleOptionalAcceptsNoneOrInner(t *testing.T) {
	opt := types.Optional(types.IntT)
	if !types.Compatible(opt, types.NoneT) {
		t.Fatalf("expected Optional[int] compatible with None")
	}
	if !types.Compatible(opt, types.IntT) {
		t.Fatalf("expected Optional[int] compatible with int")
	}
	if types.Compatible(opt, types.StrT) {
		t.Fatalf("did not expect Optional[int] compatible with str")
	}
}

func TestCompatibleUnionAcceptsAnyOperand(t *testing.T) {
	u := types.Union(types.IntT, types.StrT)
	if !types.Compatible(u, types.IntT) {
		t.Fatalf("expected int|str compatible with int")
	}
	if types.Compatible(u, types.BoolT) {
		t.Fatalf("did not expect int|str compatible with bool")
	}
}

func TestWiden(t *testing.T) {
	cases := []struct {
		a, b *types.Type
		want *types.Type
	}{
		{types.IntT, types.IntT, types.IntT},
		{types.IntT, types.FloatT, types.FloatT},
		{types.FloatT, types.IntT, types.FloatT},
		{types.StrT, types.IntT, types.UnknownT},
		{types.UnknownT, types.IntT, types.UnknownT},
	}
	for _, c := range cases {
		if got := types.Widen(c.a, c.b); !cmp.Equal(got, c.want) {
			t.Errorf("Widen(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	got := types.Function([]types.Param{{Name: "x", Type: types.IntT}}, types.StrT).String()
	want := "(int) -> str"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
