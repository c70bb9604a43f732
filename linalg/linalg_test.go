package linalg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bfix/gnfs/relation"
)

var testLayout = relation.Layout{RationalPrimes: 4}

// vec builds an exponent vector with odd exponents (hence set bits) at
// the given rational-base indices.
func vec(indices ...int) relation.ExponentVector {
	factors := map[int]int{}
	for _, i := range indices {
		factors[i] = 1
	}
	return relation.NewExponentVector(testLayout, relation.Relation{RationalFactors: factors}, nil)
}

func TestNullSpaceFindsDependency(t *testing.T) {
	// three vectors over 4 rational-prime columns (6 columns with the two
	// sign bits) where v0 xor v1 xor v2 == 0.
	v0 := vec(0, 1)
	v1 := vec(1, 2)
	v2 := vec(0, 2)

	deps, err := NullSpace([]relation.ExponentVector{v0, v1, v2}, 1)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	require.True(t, deps[0].Test(0))
	require.True(t, deps[0].Test(1))
	require.True(t, deps[0].Test(2))
}

func TestNullSpaceInsufficientRank(t *testing.T) {
	v0 := vec(0)
	v1 := vec(1)
	_, err := NullSpace([]relation.ExponentVector{v0, v1}, 1)
	require.Error(t, err)
}
