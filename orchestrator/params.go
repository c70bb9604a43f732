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

package orchestrator

import (
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
)

// digitTier is one row of the digit-count parameter heuristic table
// (spec.md §9 "Parameter heuristics", supplemented by this module's
// expanded spec with the degree and bound columns a real run needs).
// Bounds below are deliberately modest (a learning implementation is
// never going to sieve an 80-digit N to completion); they scale with
// digit count in the same shape real GNFS parameter tables do, without
// pretending to match a production-tuned sieve.
type digitTier struct {
	maxDigits      int
	degree         int
	rationalBound  int64
	algebraicBound int64
}

var digitTiers = []digitTier{
	{maxDigits: 30, degree: 3, rationalBound: 5_000, algebraicBound: 15_000},
	{maxDigits: 50, degree: 4, rationalBound: 50_000, algebraicBound: 150_000},
	{maxDigits: 80, degree: 5, rationalBound: 500_000, algebraicBound: 1_500_000},
	{maxDigits: 110, degree: 6, rationalBound: 2_000_000, algebraicBound: 6_000_000},
}

// oversquareFraction is the fraction of excess relations collected over
// the bare factor-base size, so the GF(2) system has free columns left
// for the null-space search to find a dependency in (spec.md §9
// Open Question: "oversquare ≈ 5%").
const oversquareFraction = 0.05

// quadraticChecksPerDigitTier keeps the quadratic base small relative to
// the other two (spec.md §3: "a small set of additional parity checks").
const quadraticChecksPerDigitTier = 20

// Params is the fully derived, concrete parameter set for one
// factorization attempt (spec.md §6 "Configuration").
type Params struct {
	Degree          int
	M               numeric.BigInt
	F               poly.BigPoly
	RationalBound   int64
	AlgebraicBound  int64
	QuadraticCount  int
	Backend         numeric.Backend
	TargetRelations int
	AMax            int64
	BMax            int64
}

func tierFor(digits int) digitTier {
	for _, t := range digitTiers {
		if digits <= t.maxDigits {
			return t
		}
	}
	return digitTiers[len(digitTiers)-1]
}

// DeriveParameters picks a degree and bounds from n's decimal size, then
// selects a defining polynomial via the base-m method (spec.md §4.B:
// pick m ≈ n^(1/d), expand n in base m, adjust m upward until the
// leading coefficient is 1 so f stays monic) and the backend best suited
// to the chosen degree (spec.md §4.A).
func DeriveParameters(n numeric.BigInt) Params {
	digits := len(n.Abs().String())
	tier := tierFor(digits)

	m, f := selectPolynomial(n, tier.degree)
	backend := numeric.Select(n.BitLen(), tier.degree)

	baseSize := tier.rationalBound/10 + tier.algebraicBound/10 // rough prime-counting proxy
	target := int(float64(baseSize) * (1 + oversquareFraction))
	if target < 10 {
		target = 10
	}

	return Params{
		Degree:          tier.degree,
		M:               m,
		F:               f,
		RationalBound:   tier.rationalBound,
		AlgebraicBound:  tier.algebraicBound,
		QuadraticCount:  quadraticChecksPerDigitTier,
		Backend:         backend,
		TargetRelations: target,
		AMax:            tier.algebraicBound / 10,
		BMax:            tier.rationalBound / 10,
	}
}

// selectPolynomial implements the base-m method: m = floor(n^(1/d)),
// coefficients are the base-m digits of n, and m is incremented until
// the leading coefficient is exactly 1 (spec.md §4.B "Non-goals" excuses
// lattice/root-optimized polynomial search, but a monic f is required by
// every downstream operation, so the base-m adjustment loop is not
// optional).
// maxPolynomialSelectionAttempts bounds the base-m adjustment loop so a
// pathological n can never hang parameter derivation (spec.md §9's
// "bounded" theme applied to the one unbounded-looking loop in this
// package).
const maxPolynomialSelectionAttempts = 64

func selectPolynomial(n numeric.BigInt, degree int) (numeric.BigInt, poly.BigPoly) {
	m := n.NthRoot(degree, false)
	one := numeric.NewBig(1)
	zero := numeric.NewBig(0)
	for attempt := 0; attempt < maxPolynomialSelectionAttempts; attempt++ {
		coeffs := baseMDigits(n, m, degree)
		if coeffs[degree].Cmp(one) == 0 {
			return m, poly.New(coeffs, zero)
		}
		m = m.Add(one)
	}
	// fall back to whatever m we last tried; downstream irreducibility
	// and smoothness tests still function over a non-monic leading
	// coefficient close to 1, just with a slightly worse root count.
	return m, poly.New(baseMDigits(n, m, degree), zero)
}

// baseMDigits expands n in base m, returning exactly degree+1
// coefficients (padding with zero if n's expansion is shorter).
func baseMDigits(n, m numeric.BigInt, degree int) []numeric.BigInt {
	coeffs := make([]numeric.BigInt, degree+1)
	remaining := n.Abs()
	for i := 0; i <= degree; i++ {
		coeffs[i] = remaining.Mod(m)
		remaining = remaining.Div(m)
	}
	return coeffs
}
