package numeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBigIntExtendedEuclidViaModInverse(t *testing.T) {
	a := NewBig(17)
	m := NewBig(3120)
	inv, ok := a.ModInverse(m)
	require.True(t, ok)
	prod := a.Mul(inv).Mod(m)
	require.True(t, prod.Cmp(bigOne) == 0)
}

func TestBigIntNthRoot(t *testing.T) {
	n := NewBig(143)
	r := n.NthRoot(2, false)
	require.True(t, r.Mul(r).Cmp(n) <= 0)
	require.True(t, r.Add(bigOne).Mul(r.Add(bigOne)).Cmp(n) > 0)
}

func TestBigIntIsPerfectSquare(t *testing.T) {
	sq := NewBig(11 * 11)
	root, ok := sq.IsPerfectSquare()
	require.True(t, ok)
	require.Equal(t, int64(11), mustInt64(t, root))

	_, ok = NewBig(143).IsPerfectSquare()
	require.False(t, ok)
}

func TestBigIntLegendre(t *testing.T) {
	// 2 is a QR mod 7 (3^2=9=2 mod 7), -1 otherwise among {1..6}\{QRs}.
	p := NewBig(7)
	require.Equal(t, 1, NewBig(2).Legendre(p))
	require.Equal(t, -1, NewBig(3).Legendre(p))
	require.Equal(t, 0, NewBig(14).Legendre(p))
}

func TestInt64CheckedAddOverflow(t *testing.T) {
	small := I64(100)
	_, ok := small.CheckedAdd(small)
	require.True(t, ok)
	huge := I64(1 << 62)
	_, ok = huge.CheckedAdd(huge)
	require.False(t, ok)
}

func TestFixed256CheckedMulOverflow(t *testing.T) {
	big1 := F256FromBig(new(big.Int).Lsh(big.NewInt(1), 200))
	_, ok := big1.CheckedMul(big1)
	require.False(t, ok, "2^400 must overflow a 256-bit signed backend")
}

func TestSelectBackendBoundary(t *testing.T) {
	small := Select(40, 3)
	require.Equal(t, BackendInt128, small)

	huge := Select(2000, 5)
	require.Equal(t, BackendBig, huge)
}

func mustInt64(t *testing.T, b BigInt) int64 {
	v, ok := b.Int64()
	require.True(t, ok)
	return v
}
