//----------------------------------------------------------------------
// This file is part of gnfs.
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// SPDX-License-Identifier: AGPL-3.0-or-later
//----------------------------------------------------------------------

package numeric

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// BigInt is the arbitrary-precision backend. It wraps math/big.Int behind
// the Value[T] capability set; this is the fallback backend for the
// largest inputs (spec.md §4.A) and the backend used unconditionally by
// the square-root finder's CRT/gcd step, regardless of which backend the
// sieve ran under.
type BigInt struct {
	v *big.Int
}

var (
	bigZero = NewBig(0)
	bigOne  = NewBig(1)
	bigTwo  = NewBig(2)
)

// NewBig constructs a BigInt from a native int64.
func NewBig(v int64) BigInt {
	return BigInt{v: big.NewInt(v)}
}

// NewBigFromBig constructs a BigInt from a *big.Int, copying it so the
// BigInt remains immutable even if the caller mutates the source.
func NewBigFromBig(v *big.Int) BigInt {
	return BigInt{v: new(big.Int).Set(v)}
}

// NewBigFromString parses a decimal string into a BigInt.
func NewBigFromString(s string) (BigInt, bool) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, false
	}
	return BigInt{v: v}, true
}

// NewBigRandomBits returns a uniformly random BigInt in [0, 2^n).
func NewBigRandomBits(n int) BigInt {
	r, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), uint(n)))
	if err != nil {
		panic(err)
	}
	return BigInt{v: r}
}

func (i BigInt) Add(j BigInt) BigInt { return BigInt{v: new(big.Int).Add(i.v, j.v)} }
func (i BigInt) Sub(j BigInt) BigInt { return BigInt{v: new(big.Int).Sub(i.v, j.v)} }
func (i BigInt) Mul(j BigInt) BigInt { return BigInt{v: new(big.Int).Mul(i.v, j.v)} }
func (i BigInt) Div(j BigInt) BigInt { return BigInt{v: new(big.Int).Quo(i.v, j.v)} }
func (i BigInt) Rem(j BigInt) BigInt { return BigInt{v: new(big.Int).Rem(i.v, j.v)} }
func (i BigInt) Neg() BigInt         { return BigInt{v: new(big.Int).Neg(i.v)} }
func (i BigInt) Abs() BigInt         { return BigInt{v: new(big.Int).Abs(i.v)} }

// Mod returns the Euclidean (always non-negative) modulus, distinct from
// Rem which follows Go's truncated-division sign convention.
func (i BigInt) Mod(j BigInt) BigInt { return BigInt{v: new(big.Int).Mod(i.v, j.v)} }

func (i BigInt) Pow(n int) BigInt {
	return BigInt{v: new(big.Int).Exp(i.v, big.NewInt(int64(n)), nil)}
}

// ModPow computes i^n mod m.
func (i BigInt) ModPow(n, m BigInt) BigInt {
	return BigInt{v: new(big.Int).Exp(i.v, n.v, m.v)}
}

func (i BigInt) GCD(j BigInt) BigInt {
	return BigInt{v: new(big.Int).GCD(nil, nil, new(big.Int).Abs(i.v), new(big.Int).Abs(j.v))}
}

func (i BigInt) ModInverse(j BigInt) (BigInt, bool) {
	r := new(big.Int).ModInverse(i.v, j.v)
	if r == nil {
		return BigInt{}, false
	}
	return BigInt{v: r}, true
}

func (i BigInt) CheckedAdd(j BigInt) (BigInt, bool) { return i.Add(j), true }
func (i BigInt) CheckedMul(j BigInt) (BigInt, bool) { return i.Mul(j), true }

func (i BigInt) Cmp(j BigInt) int   { return i.v.Cmp(j.v) }
func (i BigInt) Sign() int          { return i.v.Sign() }
func (i BigInt) BitLen() int        { return i.v.BitLen() }
func (i BigInt) Big() *big.Int      { return new(big.Int).Set(i.v) }
func (i BigInt) String() string     { return i.v.String() }
func (i BigInt) Bytes() []byte      { return i.v.Bytes() }
func (i BigInt) Bit(n int) uint     { return i.v.Bit(n) }
func (i BigInt) Rsh(n uint) BigInt  { return BigInt{v: new(big.Int).Rsh(i.v, n)} }
func (i BigInt) Lsh(n uint) BigInt  { return BigInt{v: new(big.Int).Lsh(i.v, n)} }
func (i BigInt) IsEven() bool       { return i.v.Bit(0) == 0 }
func (i BigInt) ProbablyPrime(n int) bool { return i.v.ProbablyPrime(n) }

// Int64 returns the int64 value, and whether the conversion was exact.
func (i BigInt) Int64() (int64, bool) {
	if !i.v.IsInt64() {
		return 0, false
	}
	return i.v.Int64(), true
}

// NthRoot computes the integer n.th root of i. If upper is set and i is
// not a perfect n.th power, the result is rounded up instead of down.
// Ported from the teacher's math.Int.NthRoot (bfix-gospel/math/int.go),
// generalized from a fixed square root to an arbitrary root degree for
// use both by the quadratic-sieve-style initial estimate and by the
// rational-side integer square root in the square-root finder.
func (i BigInt) NthRoot(n int, upper bool) BigInt {
	r := bigZero
	b := i.v.BitLen()
	if n < b {
		for s := bigTwo.Pow(b/n - 1); s.Sign() > 0; r = r.Add(s) {
			if t := r.Pow(n); t.Cmp(i) > 0 {
				r = r.Sub(s)
				s = s.Div(bigTwo)
			}
		}
	} else if i.Sign() > 0 {
		// 0 < i < 2^n, so the n.th root lies in [1, 2).
		r = bigOne
	}
	if r.Pow(n).Cmp(i) < 0 && upper {
		r = r.Add(bigOne)
	}
	return r
}

// IsPerfectSquare reports whether i is a perfect square, returning its
// exact square root when it is.
func (i BigInt) IsPerfectSquare() (root BigInt, ok bool) {
	if i.Sign() < 0 {
		return BigInt{}, false
	}
	r := i.NthRoot(2, false)
	return r, r.Mul(r).Cmp(i) == 0
}

// Legendre computes the Legendre symbol (i/p) via Euler's criterion
// (spec.md §4.C), ported from bfix-gospel/math/int.go.
func (i BigInt) Legendre(p BigInt) int {
	m := i.Mod(p)
	if m.Sign() == 0 {
		return 0
	}
	k := p.Sub(bigOne).Div(bigTwo)
	x := m.ModPow(k, p)
	if x.Cmp(bigOne) == 0 {
		return 1
	}
	return -1
}

// Jacobi computes the Jacobi symbol (i/n) via quadratic-reciprocity
// recursion (spec.md §4.C), for odd positive n.
func (i BigInt) Jacobi(n BigInt) int {
	a := i.Mod(n)
	b := n
	result := 1
	for a.Sign() != 0 {
		for a.IsEven() {
			a = a.Div(bigTwo)
			r := b.Mod(BigInt{v: big.NewInt(8)})
			if rv, _ := r.Int64(); rv == 3 || rv == 5 {
				result = -result
			}
		}
		a, b = b, a
		am4, _ := a.Mod(BigInt{v: big.NewInt(4)}).Int64()
		bm4, _ := b.Mod(BigInt{v: big.NewInt(4)}).Int64()
		if am4 == 3 && bm4 == 3 {
			result = -result
		}
		a = a.Mod(b)
	}
	if b.Cmp(bigOne) == 0 {
		return result
	}
	return 0
}

// MarshalCBOR implements cbor.Marshaler (github.com/fxamacker/cbor/v2), so
// a BigInt round-trips through the relation and checkpoint stores at its
// full precision instead of being truncated to a machine integer.
func (i BigInt) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(i.v.String())
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("numeric: invalid BigInt CBOR encoding %q", s)
	}
	i.v = v
	return nil
}
