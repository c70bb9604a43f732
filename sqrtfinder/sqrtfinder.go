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

// Package sqrtfinder takes a GF(2) null-space dependency (spec.md §4.F)
// and recovers an integer factor of N: it takes the rational square root
// directly, takes the algebraic square root by Couveignes' method (a
// finite-field square root mod several primes, CRT-combined back to a
// polynomial over Z), evaluates both at the polynomial's root m, and
// tests gcd(rational - algebraic, N) (spec.md §4.G).
//
// The rational branch -- "multiply the relations' x-values together,
// take an integer square root, test gcd(x - s, N)" -- is the exact shape
// of the teacher's RelationImpl.IsSquared combined with Director.Handled's
// DISJUNCT case (bfix-gospel/math/factorizer/sac/relation.go and
// director.go): ys accumulates the running square root, and gcd(x-ys, N)
// is tested the moment the factorization side of the relation product
// becomes trivial. The algebraic branch has no teacher precedent (plain
// quadratic sieve has only one square root to take); it is built from
// primes.TonelliShanks's non-residue-search-and-exponentiate structure,
// lifted from F_p to the finite field F_q[x]/(f) via the poly package's
// modular exponentiation.
package sqrtfinder

import (
	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
)

// MaxSignRetries is the number of candidate CRT primes the orchestrator
// hands to AlgebraicSquareRoot for one dependency
// (orchestrator.candidateCRTPrimes). RecoverFactor then tries only the two
// signs of chi against the one combined algebraic root; the sign of each
// per-prime root in the CRT combination is not varied.
const MaxSignRetries = 8

// RationalSquareRoot computes the integer square root of
// product_{i in indices} (a_i + b_i*m) (spec.md §3 "rational norm"),
// which the GF(2) dependency guarantees is a perfect square.
func RationalSquareRoot(relations []relation.Relation, indices []int, m numeric.BigInt) (numeric.BigInt, error) {
	product := numeric.NewBig(1)
	for _, i := range indices {
		r := relations[i]
		product = product.Mul(r.A.Add(r.B.Mul(m)))
	}
	root, ok := product.Abs().IsPerfectSquare()
	if !ok {
		return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrNotASquare, "rational product over %d relations is not a perfect square", len(indices))
	}
	return root, nil
}

// AlgebraicProduct computes (f'(x))^2 * product_{i in indices} (a_i - b_i*x),
// reduced modulo f over the integers (f is monic, so exact polynomial
// division by f is well defined over Z, not just over a field). The
// (f'(x))^2 factor is the quantity Couveignes' method actually needs a
// square root of: the bare relation product lives in (1/f'(alpha))*Z[alpha]
// in general, and multiplying by f'(x)^2 before reducing clears that
// denominator so the square root recovered downstream, evaluated at m, maps
// to an honest element of Z/NZ rather than a fraction (spec.md §4.G step 1).
func AlgebraicProduct(relations []relation.Relation, indices []int, f poly.BigPoly) poly.BigPoly {
	zero := numeric.NewBig(0)
	one := numeric.NewBig(1)
	product := poly.New([]numeric.BigInt{one}, zero)
	for _, i := range indices {
		r := relations[i]
		factor := poly.New([]numeric.BigInt{r.A, r.B.Neg()}, zero)
		product = poly.Mul(product, factor, zero)
		if _, rem, ok := poly.DivMod(product, f, zero, one); ok {
			product = rem
		}
	}
	fPrime := f.Derivative(zero)
	fPrimeSquared := poly.Mul(fPrime, fPrime, zero)
	product = poly.Mul(product, fPrimeSquared, zero)
	if _, rem, ok := poly.DivMod(product, f, zero, one); ok {
		product = rem
	}
	return product
}

// squareRootModF computes a square root of g in the finite field
// F_q[x]/(f), assuming f is irreducible mod q and q^deg(f) ≡ 3 (mod 4) --
// the direct analogue of primes.TonelliShanks's fast path for p ≡ 3
// (mod 4), generalized from F_p to F_q[x]/(f) via poly.ModExp.
func squareRootModF(g, f poly.BigPoly, q numeric.BigInt) (poly.BigPoly, error) {
	irr, err := poly.IsIrreducibleMod(f, q)
	if err != nil {
		return poly.BigPoly{}, err
	}
	if !irr {
		return poly.BigPoly{}, gnferr.Wrap(gnferr.ErrNotAQuadraticResidue, "f not irreducible mod %s", q)
	}
	qPow := q.Pow(f.Degree())
	four := numeric.NewBig(4)
	three := numeric.NewBig(3)
	if qPow.Mod(four).Cmp(three) != 0 {
		return poly.BigPoly{}, gnferr.Wrap(gnferr.ErrNotAQuadraticResidue, "q^deg(f) not ≡ 3 (mod 4); need a different CRT prime")
	}
	exp := qPow.Add(numeric.NewBig(1)).Div(four)
	return poly.ModExp(g, f, exp, q)
}

// CRTPrime pairs a modulus with the precomputed root polynomial for that
// modulus, so CombineCRT can reconstruct integer coefficients via
// Garner's algorithm.
type CRTPrime struct {
	Q    numeric.BigInt
	Root poly.BigPoly
}

// AlgebraicSquareRoot finds the algebraic square root of the relation
// product by computing its square root mod each of several CRT primes
// (the primes for which f is irreducible and q^deg(f) ≡ 3 mod 4) and
// combining the per-prime root polynomials coefficient-wise via CRT
// (spec.md §4.G "Couveignes' method"). Returns gnferr.ErrNotAQuadraticResidue
// if none of the supplied primes admit the fast square-root path; the
// caller should retry with a fresh prime (spec.md §9 Open Question:
// "bounded scan for a usable CRT prime").
func AlgebraicSquareRoot(relations []relation.Relation, indices []int, f poly.BigPoly, crtPrimes []numeric.BigInt) (poly.BigPoly, error) {
	log := obslog.Stage("sqrtfinder")
	product := AlgebraicProduct(relations, indices, f)

	var roots []CRTPrime
	for _, q := range crtPrimes {
		g := poly.CoeffsMod(product, q)
		root, err := squareRootModF(g, f, q)
		if err != nil {
			log.Debug().Stringer("q", q).Err(err).Msg("skipping unusable CRT prime")
			continue
		}
		roots = append(roots, CRTPrime{Q: q, Root: root})
	}
	if len(roots) == 0 {
		return poly.BigPoly{}, gnferr.Wrap(gnferr.ErrNotAQuadraticResidue, "no usable CRT prime among %d candidates", len(crtPrimes))
	}
	combined := combineCRT(roots)
	log.Info().Int("primes_used", len(roots)).Msg("algebraic square root reconstructed")
	return combined, nil
}

// combineCRT reconstructs one integer-coefficient polynomial from the
// per-prime root polynomials via sequential Garner combination,
// coefficient by coefficient, centering each result into (-Q/2, Q/2].
func combineCRT(roots []CRTPrime) poly.BigPoly {
	degree := 0
	for _, r := range roots {
		if d := r.Root.Degree(); d > degree {
			degree = d
		}
	}
	zero := numeric.NewBig(0)
	coeffs := make([]numeric.BigInt, degree+1)
	for i := 0; i <= degree; i++ {
		residues := make([]numeric.BigInt, len(roots))
		moduli := make([]numeric.BigInt, len(roots))
		for j, r := range roots {
			c := zero
			if i < len(r.Root.Coeffs) {
				c = r.Root.Coeffs[i]
			}
			residues[j] = c
			moduli[j] = r.Q
		}
		coeffs[i] = centerMod(crtSequential(residues, moduli))
	}
	return poly.New(coeffs, zero)
}

// crtResult is a combined CRT residue r, valid modulo M.
type crtResult struct {
	R, M numeric.BigInt
}

// crtSequential combines residues mod pairwise-coprime moduli into one
// residue mod the product, via repeated two-modulus Garner steps.
func crtSequential(residues, moduli []numeric.BigInt) crtResult {
	r, m := residues[0], moduli[0]
	for i := 1; i < len(residues); i++ {
		r, m = crtPair(r, m, residues[i], moduli[i])
	}
	return crtResult{R: r, M: m}
}

// crtPair solves x ≡ r1 (mod m1), x ≡ r2 (mod m2) for coprime m1, m2.
func crtPair(r1, m1, r2, m2 numeric.BigInt) (numeric.BigInt, numeric.BigInt) {
	inv, ok := m1.ModInverse(m2)
	if !ok {
		// moduli not coprime; fold the second congruence's information
		// away rather than fail the whole combination.
		return r1, m1
	}
	diff := r2.Sub(r1).Mod(m2)
	k := diff.Mul(inv).Mod(m2)
	x := r1.Add(m1.Mul(k))
	return x.Mod(m1.Mul(m2)), m1.Mul(m2)
}

// centerMod maps a CRT result pair into its centered representative.
func centerMod(pair crtResult) numeric.BigInt {
	half := pair.M.Div(numeric.NewBig(2))
	if pair.R.Cmp(half) > 0 {
		return pair.R.Sub(pair.M)
	}
	return pair.R
}

// RecoverFactor forms chi = f'(m)*rationalRoot mod N on the rational side
// and gamma = algebraicRoot(m) mod N on the algebraic side -- the latter
// already carries the matching f'(alpha)^2 scaling baked in by
// AlgebraicProduct, so gamma itself is f'(m) times Couveignes' true
// algebraic square root under the alpha -> m homomorphism -- then tests
// both sign combinations of gcd(chi ± gamma, N), returning the first
// non-trivial factor found (spec.md §4.G step 3).
func RecoverFactor(n, rationalRoot numeric.BigInt, algebraicRoot, f poly.BigPoly, m numeric.BigInt) (numeric.BigInt, bool) {
	zero := numeric.NewBig(0)
	gamma := algebraicRoot.Eval(m, zero).Mod(n)
	fPrimeAtM := f.Derivative(zero).Eval(m, zero).Mod(n)
	chi := fPrimeAtM.Mul(rationalRoot).Mod(n)
	one := numeric.NewBig(1)
	for _, sign := range []int{1, -1} {
		candidate := chi
		if sign == -1 {
			candidate = chi.Neg()
		}
		diff := candidate.Sub(gamma).Mod(n)
		g := n.GCD(diff)
		if g.Cmp(one) != 0 && g.Cmp(n) != 0 {
			return g, true
		}
	}
	return numeric.BigInt{}, false
}
