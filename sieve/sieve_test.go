package sieve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
)

// f(x) = x^2 + 1, a toy defining polynomial small enough to find a
// handful of smooth (a, b) pairs within a tiny lattice.
func quadraticPoly() poly.BigPoly {
	zero := numeric.NewBig(0)
	one := numeric.NewBig(1)
	return poly.New([]numeric.BigInt{one, zero, one}, zero)
}

func TestEngineFindsSmoothRelations(t *testing.T) {
	f := quadraticPoly()
	rb := factorbase.BuildRational(20)
	ab := factorbase.BuildAlgebraic(f, 20)

	cfg := Config{
		F:         f,
		M:         numeric.NewBig(3),
		Rational:  rb,
		Algebraic: ab,
		AMax:      10,
		BMax:      10,
		Workers:   2,
		Target:    3,
	}
	e := NewEngine[numeric.BigInt](cfg, numeric.NewBigFromBig)
	results, err := e.Run(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), cfg.Target)
	for _, r := range results {
		require.Equal(t, 0, r.A.GCD(r.B).Cmp(numeric.NewBig(1)))
	}
}

func TestEngineReportsNeedMoreSieving(t *testing.T) {
	f := quadraticPoly()
	rb := factorbase.BuildRational(10)
	ab := factorbase.BuildAlgebraic(f, 10)

	cfg := Config{
		F:         f,
		M:         numeric.NewBig(3),
		Rational:  rb,
		Algebraic: ab,
		AMax:      1,
		BMax:      1,
		Workers:   1,
		Target:    1000,
	}
	e := NewEngine[numeric.BigInt](cfg, numeric.NewBigFromBig)
	_, err := e.Run(context.Background())
	require.Error(t, err)
}
