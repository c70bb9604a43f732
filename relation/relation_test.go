package relation

import (
	"testing"

	"github.com/bfix/gnfs/numeric"
	"github.com/stretchr/testify/require"
)

func TestExponentVectorParity(t *testing.T) {
	l := Layout{RationalPrimes: 3, AlgebraicPrimes: 2, QuadraticChecks: 2}
	r := Relation{
		A:                numeric.NewBig(7),
		B:                numeric.NewBig(3),
		RationalFactors:  map[int]int{0: 1, 1: 2, 2: 3},
		AlgebraicFactors: map[int]int{0: 1, 1: 1},
		RationalSign:     true,
		AlgebraicSign:    false,
	}
	v := NewExponentVector(l, r, []bool{true, false})

	require.True(t, v.Bits().Test(0))  // exponent 1: odd
	require.False(t, v.Bits().Test(1)) // exponent 2: even
	require.True(t, v.Bits().Test(2))  // exponent 3: odd
	require.True(t, v.Bits().Test(3))  // algebraic idx 0
	require.True(t, v.Bits().Test(4))  // algebraic idx 1
	require.True(t, v.Bits().Test(l.rationalSignBit()))
	require.False(t, v.Bits().Test(l.algebraicSignBit()))
	require.True(t, v.Bits().Test(l.quadraticBit(0)))
	require.False(t, v.Bits().Test(l.quadraticBit(1)))
}

func TestExponentVectorXorIsSelfInverse(t *testing.T) {
	l := Layout{RationalPrimes: 2, AlgebraicPrimes: 2, QuadraticChecks: 1}
	r := Relation{RationalFactors: map[int]int{0: 1}, AlgebraicFactors: map[int]int{1: 1}}
	v := NewExponentVector(l, r, []bool{true})
	zero := v.Xor(v)
	require.True(t, zero.Bits().None())
}
