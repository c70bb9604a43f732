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

package poly

import (
	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/numeric"
)

// BigPoly is the specialisation of Poly used for every (Z/pZ)[x]
// operation in this module: factor-base root search, Couveignes square
// roots, and the irreducibility test all work over a prime p chosen
// independently of the sieve's selected backend, so these operations do
// not need the generic backend parameter Poly[T] otherwise carries.
type BigPoly = Poly[numeric.BigInt]

var bigZero = numeric.NewBig(0)
var bigOne = numeric.NewBig(1)

// CoeffsMod reduces every coefficient of p modulo m, using the Euclidean
// (non-negative) residue.
func CoeffsMod(p BigPoly, m numeric.BigInt) BigPoly {
	out := make([]numeric.BigInt, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = c.Mod(m)
	}
	return New(out, bigZero)
}

// ModMod reduces g modulo f (polynomial division) and then reduces each
// coefficient of the remainder modulo p, per spec.md §4.B's `mod_mod`:
// "reduces g first modulo f (polynomial division), then each coefficient
// modulo p. Output degree < deg f."
func ModMod(g, f BigPoly, p numeric.BigInt) (BigPoly, error) {
	fModP := CoeffsMod(f, p)
	if fModP.Degree() < 0 || fModP.Coeffs[fModP.Degree()].Cmp(bigOne) != 0 {
		// Non-monic f mod p: normalise by the modular inverse of the
		// leading coefficient so division by f works mod p.
		lead := fModP.Coeffs[fModP.Degree()]
		inv, ok := lead.ModInverse(p)
		if !ok {
			return BigPoly{}, gnferr.Wrap(gnferr.ErrModularInverse, "leading coeff %s mod %s", lead, p)
		}
		fModP = ScalarMulMod(fModP, inv, p)
	}
	_, r, ok := modDivMod(CoeffsMod(g, p), fModP, p)
	if !ok {
		return BigPoly{}, gnferr.Wrap(gnferr.ErrModularInverse, "division by f mod %s", p)
	}
	return CoeffsMod(r, p), nil
}

// ScalarMulMod returns (c*p) mod m coefficientwise.
func ScalarMulMod(p BigPoly, c, m numeric.BigInt) BigPoly {
	out := make([]numeric.BigInt, len(p.Coeffs))
	for i, pc := range p.Coeffs {
		out[i] = pc.Mul(c).Mod(m)
	}
	return New(out, bigZero)
}

// modDivMod divides p by a monic-mod-p divisor, reducing every
// intermediate coefficient modulo m, returning (quotient, remainder, ok).
func modDivMod(p, divisor BigPoly, m numeric.BigInt) (q, r BigPoly, ok bool) {
	if divisor.IsZero() {
		return BigPoly{}, BigPoly{}, false
	}
	remainder := p.Clone()
	dDeg := divisor.Degree()
	qCoeffs := []numeric.BigInt{}
	for remainder.Degree() >= dDeg && !remainder.IsZero() {
		shift := remainder.Degree() - dDeg
		coeff := remainder.Coeffs[remainder.Degree()]
		for len(qCoeffs) <= shift {
			qCoeffs = append(qCoeffs, bigZero)
		}
		qCoeffs[shift] = qCoeffs[shift].Add(coeff).Mod(m)

		term := make([]numeric.BigInt, shift+1)
		for i := range term {
			term[i] = bigZero
		}
		term[shift] = coeff
		sub := Mul(Poly[numeric.BigInt]{Coeffs: term}, divisor, bigZero)
		remainder = CoeffsMod(Sub(remainder, sub, bigZero), m)
	}
	qp := New(qCoeffs, bigZero)
	return qp, remainder, true
}

// ModGCD computes gcd(a, b) in (Z/pZ)[x] via Euclidean reduction with
// modular division (spec.md §4.B), returning a normalised monic
// polynomial, or the constant 1 when a and b are coprime. Fails with
// ErrModularInverse when a non-invertible leading coefficient is
// encountered, at which point the caller is expected to retry with a
// different prime (spec.md §4.B "Failure").
func ModGCD(a, b BigPoly, p numeric.BigInt) (BigPoly, error) {
	a = CoeffsMod(a, p)
	b = CoeffsMod(b, p)
	for !b.IsZero() {
		_, r, err := modDivRem(a, b, p)
		if err != nil {
			return BigPoly{}, err
		}
		a, b = b, r
	}
	if a.IsZero() {
		return a, nil
	}
	lead := a.Coeffs[a.Degree()]
	inv, ok := lead.ModInverse(p)
	if !ok {
		return BigPoly{}, gnferr.Wrap(gnferr.ErrModularInverse, "leading coeff %s mod %s", lead, p)
	}
	return ScalarMulMod(a, inv, p), nil
}

func modDivRem(a, b BigPoly, p numeric.BigInt) (q, r BigPoly, err error) {
	if b.IsZero() {
		return BigPoly{}, a, nil
	}
	lead := b.Coeffs[b.Degree()]
	inv, ok := lead.ModInverse(p)
	if !ok {
		return BigPoly{}, BigPoly{}, gnferr.Wrap(gnferr.ErrModularInverse, "leading coeff %s mod %s", lead, p)
	}
	normalized := ScalarMulMod(b, inv, p)
	qp, rp, ok := modDivMod(a, normalized, p)
	if !ok {
		return BigPoly{}, BigPoly{}, gnferr.Wrap(gnferr.ErrModularInverse, "division mod %s", p)
	}
	// qp was computed against the normalised (monic) divisor; scale back.
	qp = ScalarMulMod(qp, inv, p)
	return qp, rp, nil
}

// ModExp computes g^e mod (f, p) by sliding-window square-and-multiply
// (spec.md §4.B: "Must use a sliding-window variant (window width 4
// recommended) and must perform per-coefficient reduction modulo p
// eagerly after every multiplication to bound coefficient growth"). This
// is the dominant cost of the square-root finder's Couveignes step
// (spec.md §4.G).
func ModExp(g, f BigPoly, e, p numeric.BigInt) (BigPoly, error) {
	const windowWidth = 4
	one := New([]numeric.BigInt{bigOne}, bigZero)

	// Precompute odd powers g^1, g^3, g^5, ..., g^(2^windowWidth - 1).
	maxOdd := (1 << windowWidth) - 1
	powers := make([]BigPoly, maxOdd+1)
	gReduced, err := ModMod(g, f, p)
	if err != nil {
		return BigPoly{}, err
	}
	powers[1] = gReduced
	gSquared, err := reduceProduct(gReduced, gReduced, f, p)
	if err != nil {
		return BigPoly{}, err
	}
	for k := 3; k <= maxOdd; k += 2 {
		pk, err := reduceProduct(powers[k-2], gSquared, f, p)
		if err != nil {
			return BigPoly{}, err
		}
		powers[k] = pk
	}

	bits := exponentBits(e)
	result := one
	i := 0
	for i < len(bits) {
		if bits[i] == 0 {
			sq, err := reduceProduct(result, result, f, p)
			if err != nil {
				return BigPoly{}, err
			}
			result = sq
			i++
			continue
		}
		// find window [i, j) of length <= windowWidth ending in a 1 bit.
		j := i + windowWidth
		if j > len(bits) {
			j = len(bits)
		}
		for bits[j-1] == 0 {
			j--
		}
		windowVal := 0
		for k := i; k < j; k++ {
			windowVal = windowVal<<1 | bits[k]
		}
		for k := i; k < j; k++ {
			sq, err := reduceProduct(result, result, f, p)
			if err != nil {
				return BigPoly{}, err
			}
			result = sq
		}
		mp, err := reduceProduct(result, powers[windowVal], f, p)
		if err != nil {
			return BigPoly{}, err
		}
		result = mp
		i = j
	}
	return result, nil
}

func reduceProduct(a, b, f BigPoly, p numeric.BigInt) (BigPoly, error) {
	prod := Mul(a, b, bigZero)
	return ModMod(prod, f, p)
}

// exponentBits returns e's bits, most-significant first.
func exponentBits(e numeric.BigInt) []int {
	n := e.BitLen()
	bits := make([]int, n)
	v := e.Big()
	for i := 0; i < n; i++ {
		bits[n-1-i] = int(v.Bit(i))
	}
	return bits
}

// IsIrreducibleMod tests whether f is irreducible in F_p[x] for the
// typical small degrees (3,4,5) in scope, via the shortcut spec.md §4.G
// step 2 names: "gcd(x^p - x, f) in (Z/pZ)[x] must equal 1 (equivalently,
// f has no root in F_p, which generalises)".
func IsIrreducibleMod(f BigPoly, p numeric.BigInt) (bool, error) {
	xPoly := New([]numeric.BigInt{bigZero, bigOne}, bigZero)
	xp, err := ModExp(xPoly, f, p, p)
	if err != nil {
		return false, err
	}
	diff := CoeffsMod(Sub(xp, xPoly, bigZero), p)
	g, err := ModGCD(diff, f, p)
	if err != nil {
		return false, err
	}
	return g.Degree() <= 0, nil
}
