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

// Package relation defines the (a, b) pairs the sieve discovers and the
// GF(2) exponent-parity vectors linear algebra consumes (spec.md §3/§4.E
// and §4.F).
//
// The teacher's quadratic-sieve relation (bfix-gospel/math/factorizer/
// sac/relation.go) tracks a single y = ys^2 * yf * yh factorization and
// reduces it incrementally against one factor base. GNFS relations carry
// two independent smooth values (a rational norm and an algebraic norm)
// against two factor bases plus a set of quadratic-character checks, so
// this package replaces the teacher's incremental ys/yf/yh reduction
// with a pair of explicit sign+exponent-parity bit vectors, built once
// the sieve has fully factored both norms, and backed by
// github.com/bits-and-blooms/bitset for the GF(2) row representation
// that spec.md §4.F's linear-algebra stage operates on directly.
package relation

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/bfix/gnfs/numeric"
)

// Relation is one sieved pair (a, b) with gcd(a, b) = 1, together with
// the full factorizations of its rational and algebraic norms over the
// corresponding factor bases (spec.md §4.E "Relation" and §8 "smooth
// pair").
type Relation struct {
	A, B numeric.BigInt

	// RationalFactors maps a prime-base index to its exponent in the
	// rational norm a + b*m.
	RationalFactors map[int]int
	// AlgebraicFactors maps an algebraic-base index (p, r) to its
	// exponent in the algebraic norm N(a - b*alpha).
	AlgebraicFactors map[int]int

	// RationalSign is the sign bit of the rational norm (spec.md §4.F:
	// "the sign column participates in the GF(2) system like any other
	// prime column").
	RationalSign bool
	// AlgebraicSign is the sign bit of the algebraic norm.
	AlgebraicSign bool
}

// String renders the relation as "(a,b)" for logging, matching the
// teacher's compact Relation.String() convention.
func (r Relation) String() string {
	return fmt.Sprintf("(%s,%s)", r.A, r.B)
}

// ExponentVector packs a Relation's full GF(2) row: one bit per rational
// factor-base prime (exponent parity), one bit per algebraic-base entry,
// two sign bits, and one bit per quadratic-character check (spec.md
// §4.F: "each relation contributes one row; a prime contributes a 1 bit
// iff its exponent in the relation is odd").
type ExponentVector struct {
	bits   *bitset.BitSet
	length uint
}

// Layout describes how factor-base and quadratic-base sizes map to bit
// offsets within an ExponentVector, so callers can build vectors for the
// same bases consistently.
type Layout struct {
	RationalPrimes  int
	AlgebraicPrimes int
	QuadraticChecks int
}

// width is the total number of GF(2) columns: rational primes, algebraic
// primes, two sign bits, and quadratic checks.
func (l Layout) width() uint {
	return uint(l.RationalPrimes + l.AlgebraicPrimes + 2 + l.QuadraticChecks)
}

func (l Layout) rationalSignBit() uint   { return uint(l.RationalPrimes + l.AlgebraicPrimes) }
func (l Layout) algebraicSignBit() uint  { return l.rationalSignBit() + 1 }
func (l Layout) quadraticBit(i int) uint { return l.algebraicSignBit() + 1 + uint(i) }

// NewExponentVector builds the GF(2) row for a relation under the given
// layout. quadraticBits holds one bit per quadratic-base character check
// (spec.md §4.D: "used as additional parity checks"), computed by the
// sieve or orchestrator from the quadratic base's Legendre symbols.
func NewExponentVector(l Layout, r Relation, quadraticBits []bool) ExponentVector {
	v := ExponentVector{bits: bitset.New(l.width()), length: l.width()}
	for idx, exp := range r.RationalFactors {
		if exp%2 != 0 {
			v.bits.Set(uint(idx))
		}
	}
	for idx, exp := range r.AlgebraicFactors {
		if exp%2 != 0 {
			v.bits.Set(uint(l.RationalPrimes + idx))
		}
	}
	if r.RationalSign {
		v.bits.Set(l.rationalSignBit())
	}
	if r.AlgebraicSign {
		v.bits.Set(l.algebraicSignBit())
	}
	for i, bit := range quadraticBits {
		if bit {
			v.bits.Set(l.quadraticBit(i))
		}
	}
	return v
}

// Bits exposes the underlying bitset for the linear-algebra package.
func (v ExponentVector) Bits() *bitset.BitSet { return v.bits }

// Len returns the number of GF(2) columns in the vector.
func (v ExponentVector) Len() uint { return v.length }

// Xor combines two exponent vectors (GF(2) addition), matching the
// "combine relations" operation spec.md §4.F's null-space stage performs
// on every row indicated by a dependency vector.
func (v ExponentVector) Xor(o ExponentVector) ExponentVector {
	return ExponentVector{bits: v.bits.SymmetricDifference(o.bits), length: v.length}
}
