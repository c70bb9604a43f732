package sqrtfinder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
)

func TestRationalSquareRootOfPerfectSquareProduct(t *testing.T) {
	// (2+0*m)*(8+0*m) = 16, a perfect square, regardless of m.
	rels := []relation.Relation{
		{A: numeric.NewBig(2), B: numeric.NewBig(0)},
		{A: numeric.NewBig(8), B: numeric.NewBig(0)},
	}
	root, err := RationalSquareRoot(rels, []int{0, 1}, numeric.NewBig(5))
	require.NoError(t, err)
	require.Equal(t, 0, root.Mul(root).Cmp(numeric.NewBig(16)))
}

func TestRationalSquareRootRejectsNonSquare(t *testing.T) {
	rels := []relation.Relation{
		{A: numeric.NewBig(3), B: numeric.NewBig(0)},
	}
	_, err := RationalSquareRoot(rels, []int{0}, numeric.NewBig(5))
	require.Error(t, err)
}

func TestAlgebraicProductReductionStaysBounded(t *testing.T) {
	zero := numeric.NewBig(0)
	one := numeric.NewBig(1)
	f := poly.New([]numeric.BigInt{one, zero, one}, zero) // x^2+1
	rels := []relation.Relation{
		{A: numeric.NewBig(3), B: numeric.NewBig(1)},
		{A: numeric.NewBig(5), B: numeric.NewBig(2)},
	}
	product := AlgebraicProduct(rels, []int{0, 1}, f)
	require.LessOrEqual(t, product.Degree(), f.Degree()-1)
}

func TestCRTCombineRoundTrip(t *testing.T) {
	// reconstruct 11 from residues mod two small coprime primes.
	residues := []numeric.BigInt{numeric.NewBig(11 % 13), numeric.NewBig(11 % 17)}
	moduli := []numeric.BigInt{numeric.NewBig(13), numeric.NewBig(17)}
	got := centerMod(crtSequential(residues, moduli))
	require.Equal(t, 0, got.Cmp(numeric.NewBig(11)))
}
