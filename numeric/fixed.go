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
	"math/big"
	"math/bits"
)

// Int64 is the smallest, fastest backend: a native int64 with checked
// arithmetic (a sign test for addition, math/bits for multiplication), so
// norm evaluation for small N -- at most 36 bits at degree 3 under
// Select's estimate -- runs on native integers instead of math/big.
type Int64 int64

func I64(v int64) Int64 { return Int64(v) }

// I64FromBig truncates v to a native int64, for use as a numeric.FromBig
// constructor where the caller has already verified v fits (spec.md
// §4.A backend selection guarantees this for the chosen interval width).
func I64FromBig(v *big.Int) Int64 { return Int64(v.Int64()) }

func (i Int64) Add(j Int64) Int64 { return i + j }
func (i Int64) Sub(j Int64) Int64 { return i - j }
func (i Int64) Mul(j Int64) Int64 { return i * j }
func (i Int64) Div(j Int64) Int64 { return i / j }
func (i Int64) Rem(j Int64) Int64 { return i % j }
func (i Int64) Neg() Int64        { return -i }

func (i Int64) Abs() Int64 {
	if i < 0 {
		return -i
	}
	return i
}

func (i Int64) Pow(n int) Int64 {
	r := Int64(1)
	base := i
	for n > 0 {
		if n&1 == 1 {
			r *= base
		}
		base *= base
		n >>= 1
	}
	return r
}

func (i Int64) GCD(j Int64) Int64 {
	a, b := int64(i.Abs()), int64(j.Abs())
	for b != 0 {
		a, b = b, a%b
	}
	return Int64(a)
}

func (i Int64) ModInverse(j Int64) (Int64, bool) {
	r := new(big.Int).ModInverse(big.NewInt(int64(i)), big.NewInt(int64(j)))
	if r == nil {
		return 0, false
	}
	return Int64(r.Int64()), true
}

// CheckedAdd reports overflow by comparing the operand and result signs,
// matching spec.md §4.A's "checked variants of the
// additive and multiplicative operators".
func (i Int64) CheckedAdd(j Int64) (Int64, bool) {
	sum := i + j
	// Overflow iff operands have the same sign and the result's sign differs.
	if (i > 0 && j > 0 && sum < 0) || (i < 0 && j < 0 && sum > 0) {
		return 0, false
	}
	return sum, true
}

func (i Int64) CheckedMul(j Int64) (Int64, bool) {
	if i == 0 || j == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uint64(i.Abs()), uint64(j.Abs()))
	// |product| == 2^63 fits only as a negative result (math.MinInt64).
	if hi != 0 || lo > 1<<63 || (lo == 1<<63 && (i < 0) == (j < 0)) {
		return 0, false
	}
	product := int64(lo)
	if (i < 0) != (j < 0) {
		product = -product
	}
	return Int64(product), true
}

func (i Int64) Cmp(j Int64) int {
	switch {
	case i < j:
		return -1
	case i > j:
		return 1
	default:
		return 0
	}
}

func (i Int64) Sign() int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	default:
		return 0
	}
}

func (i Int64) BitLen() int    { return bits.Len64(uint64(i.Abs())) }
func (i Int64) Big() *big.Int  { return big.NewInt(int64(i)) }
func (i Int64) String() string { return big.NewInt(int64(i)).String() }

//----------------------------------------------------------------------
// fixedWidth is the shared implementation behind Int128, Fixed256 and
// Fixed512: a checked wrapper around math/big.Int tagged with a maximum
// signed bit width. No third-party fixed-width signed-integer library
// appears anywhere in the retrieved corpus (only fixed-size *field*
// types tied to specific elliptic curves, which carry the wrong
// modulus for this problem), so the three wide backends share this
// bits-checked big.Int representation: correct and overflow-checked per
// spec.md §4.A, at the cost of per-op allocation that a native
// fixed-width type would avoid. See DESIGN.md.
type fixedWidth struct {
	v       *big.Int
	maxBits int
}

func newFixed(v *big.Int, maxBits int) fixedWidth {
	return fixedWidth{v: new(big.Int).Set(v), maxBits: maxBits}
}

func (f fixedWidth) fits(v *big.Int) bool {
	// signed width maxBits: magnitude must fit in maxBits-1 bits.
	return v.BitLen() < f.maxBits
}

func (f fixedWidth) Add(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).Add(f.v, g.v), maxBits: f.maxBits}
}
func (f fixedWidth) Sub(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).Sub(f.v, g.v), maxBits: f.maxBits}
}
func (f fixedWidth) Mul(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).Mul(f.v, g.v), maxBits: f.maxBits}
}
func (f fixedWidth) Div(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).Quo(f.v, g.v), maxBits: f.maxBits}
}
func (f fixedWidth) Rem(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).Rem(f.v, g.v), maxBits: f.maxBits}
}
func (f fixedWidth) Neg() fixedWidth {
	return fixedWidth{v: new(big.Int).Neg(f.v), maxBits: f.maxBits}
}
func (f fixedWidth) Abs() fixedWidth {
	return fixedWidth{v: new(big.Int).Abs(f.v), maxBits: f.maxBits}
}
func (f fixedWidth) Pow(n int) fixedWidth {
	return fixedWidth{v: new(big.Int).Exp(f.v, big.NewInt(int64(n)), nil), maxBits: f.maxBits}
}
func (f fixedWidth) GCD(g fixedWidth) fixedWidth {
	return fixedWidth{v: new(big.Int).GCD(nil, nil, new(big.Int).Abs(f.v), new(big.Int).Abs(g.v)), maxBits: f.maxBits}
}
func (f fixedWidth) ModInverse(g fixedWidth) (fixedWidth, bool) {
	r := new(big.Int).ModInverse(f.v, g.v)
	if r == nil {
		return fixedWidth{}, false
	}
	return fixedWidth{v: r, maxBits: f.maxBits}, true
}
func (f fixedWidth) CheckedAdd(g fixedWidth) (fixedWidth, bool) {
	sum := new(big.Int).Add(f.v, g.v)
	if !f.fits(sum) {
		return fixedWidth{}, false
	}
	return fixedWidth{v: sum, maxBits: f.maxBits}, true
}
func (f fixedWidth) CheckedMul(g fixedWidth) (fixedWidth, bool) {
	prod := new(big.Int).Mul(f.v, g.v)
	if !f.fits(prod) {
		return fixedWidth{}, false
	}
	return fixedWidth{v: prod, maxBits: f.maxBits}, true
}
func (f fixedWidth) Cmp(g fixedWidth) int { return f.v.Cmp(g.v) }
func (f fixedWidth) Sign() int            { return f.v.Sign() }
func (f fixedWidth) BitLen() int          { return f.v.BitLen() }
func (f fixedWidth) Big() *big.Int        { return new(big.Int).Set(f.v) }
func (f fixedWidth) String() string       { return f.v.String() }

// Int128 is a 128-bit signed backend.
type Int128 struct{ fixedWidth }

func I128(v int64) Int128 { return Int128{newFixed(big.NewInt(v), 128)} }
func I128FromBig(v *big.Int) Int128 { return Int128{newFixed(v, 128)} }

func (i Int128) Add(j Int128) Int128               { return Int128{i.fixedWidth.Add(j.fixedWidth)} }
func (i Int128) Sub(j Int128) Int128               { return Int128{i.fixedWidth.Sub(j.fixedWidth)} }
func (i Int128) Mul(j Int128) Int128               { return Int128{i.fixedWidth.Mul(j.fixedWidth)} }
func (i Int128) Div(j Int128) Int128               { return Int128{i.fixedWidth.Div(j.fixedWidth)} }
func (i Int128) Rem(j Int128) Int128               { return Int128{i.fixedWidth.Rem(j.fixedWidth)} }
func (i Int128) Neg() Int128                       { return Int128{i.fixedWidth.Neg()} }
func (i Int128) Abs() Int128                       { return Int128{i.fixedWidth.Abs()} }
func (i Int128) Pow(n int) Int128                  { return Int128{i.fixedWidth.Pow(n)} }
func (i Int128) GCD(j Int128) Int128               { return Int128{i.fixedWidth.GCD(j.fixedWidth)} }
func (i Int128) Cmp(j Int128) int                  { return i.fixedWidth.Cmp(j.fixedWidth) }
func (i Int128) CheckedAdd(j Int128) (Int128, bool) {
	r, ok := i.fixedWidth.CheckedAdd(j.fixedWidth)
	return Int128{r}, ok
}
func (i Int128) CheckedMul(j Int128) (Int128, bool) {
	r, ok := i.fixedWidth.CheckedMul(j.fixedWidth)
	return Int128{r}, ok
}
func (i Int128) ModInverse(j Int128) (Int128, bool) {
	r, ok := i.fixedWidth.ModInverse(j.fixedWidth)
	return Int128{r}, ok
}

// Fixed256 is a 256-bit signed backend.
type Fixed256 struct{ fixedWidth }

func F256(v int64) Fixed256         { return Fixed256{newFixed(big.NewInt(v), 256)} }
func F256FromBig(v *big.Int) Fixed256 { return Fixed256{newFixed(v, 256)} }

func (i Fixed256) Add(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.Add(j.fixedWidth)} }
func (i Fixed256) Sub(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.Sub(j.fixedWidth)} }
func (i Fixed256) Mul(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.Mul(j.fixedWidth)} }
func (i Fixed256) Div(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.Div(j.fixedWidth)} }
func (i Fixed256) Rem(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.Rem(j.fixedWidth)} }
func (i Fixed256) Neg() Fixed256           { return Fixed256{i.fixedWidth.Neg()} }
func (i Fixed256) Abs() Fixed256           { return Fixed256{i.fixedWidth.Abs()} }
func (i Fixed256) Pow(n int) Fixed256      { return Fixed256{i.fixedWidth.Pow(n)} }
func (i Fixed256) GCD(j Fixed256) Fixed256 { return Fixed256{i.fixedWidth.GCD(j.fixedWidth)} }
func (i Fixed256) Cmp(j Fixed256) int      { return i.fixedWidth.Cmp(j.fixedWidth) }
func (i Fixed256) CheckedAdd(j Fixed256) (Fixed256, bool) {
	r, ok := i.fixedWidth.CheckedAdd(j.fixedWidth)
	return Fixed256{r}, ok
}
func (i Fixed256) CheckedMul(j Fixed256) (Fixed256, bool) {
	r, ok := i.fixedWidth.CheckedMul(j.fixedWidth)
	return Fixed256{r}, ok
}
func (i Fixed256) ModInverse(j Fixed256) (Fixed256, bool) {
	r, ok := i.fixedWidth.ModInverse(j.fixedWidth)
	return Fixed256{r}, ok
}

// Fixed512 is a 512-bit signed backend.
type Fixed512 struct{ fixedWidth }

func F512(v int64) Fixed512         { return Fixed512{newFixed(big.NewInt(v), 512)} }
func F512FromBig(v *big.Int) Fixed512 { return Fixed512{newFixed(v, 512)} }

func (i Fixed512) Add(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.Add(j.fixedWidth)} }
func (i Fixed512) Sub(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.Sub(j.fixedWidth)} }
func (i Fixed512) Mul(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.Mul(j.fixedWidth)} }
func (i Fixed512) Div(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.Div(j.fixedWidth)} }
func (i Fixed512) Rem(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.Rem(j.fixedWidth)} }
func (i Fixed512) Neg() Fixed512           { return Fixed512{i.fixedWidth.Neg()} }
func (i Fixed512) Abs() Fixed512           { return Fixed512{i.fixedWidth.Abs()} }
func (i Fixed512) Pow(n int) Fixed512      { return Fixed512{i.fixedWidth.Pow(n)} }
func (i Fixed512) GCD(j Fixed512) Fixed512 { return Fixed512{i.fixedWidth.GCD(j.fixedWidth)} }
func (i Fixed512) Cmp(j Fixed512) int      { return i.fixedWidth.Cmp(j.fixedWidth) }
func (i Fixed512) CheckedAdd(j Fixed512) (Fixed512, bool) {
	r, ok := i.fixedWidth.CheckedAdd(j.fixedWidth)
	return Fixed512{r}, ok
}
func (i Fixed512) CheckedMul(j Fixed512) (Fixed512, bool) {
	r, ok := i.fixedWidth.CheckedMul(j.fixedWidth)
	return Fixed512{r}, ok
}
func (i Fixed512) ModInverse(j Fixed512) (Fixed512, bool) {
	r, ok := i.fixedWidth.ModInverse(j.fixedWidth)
	return Fixed512{r}, ok
}
