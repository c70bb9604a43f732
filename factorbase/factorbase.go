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

// Package factorbase builds the three prime-indexed factor bases of
// spec.md §3/§4.D: the rational base R, the algebraic base A (pairs of a
// prime and a root of f mod p) and the quadratic base Q (a small set of
// parity-check primes above B_A).
//
// The construction pattern — walk successive primes, keep the ones for
// which a root-finding predicate succeeds, record the root alongside the
// prime — is ported from the teacher's quadratic-sieve factor base
// (bfix-gospel/math/factorizer/qs/factorbase.go), which builds exactly
// this shape of table for a single predicate ("m is a QR mod p"); this
// package generalizes the predicate to "f has a root mod p" and adds the
// disjoint-bounds and root-multiplicity bookkeeping spec.md §4.D and §8
// require.
package factorbase

import (
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/primes"
)

// RationalBase is the set of primes p <= B_R (spec.md §3).
type RationalBase struct {
	Primes []numeric.BigInt
}

// AlgebraicEntry is one (p, r) pair of the algebraic base, with f(r) ≡ 0
// (mod p).
type AlgebraicEntry struct {
	P numeric.BigInt
	R numeric.BigInt
}

// AlgebraicBase is the algebraic factor base A (spec.md §3/§4.D).
type AlgebraicBase struct {
	Entries []AlgebraicEntry
}

// QuadraticEntry is one parity-check prime of the quadratic base, above
// B_A, with one root of f mod p.
type QuadraticEntry struct {
	P numeric.BigInt
	R numeric.BigInt
}

// QuadraticBase is the small set of additional parity-check primes
// spec.md §3/§4.D describes ("used as additional parity checks, not for
// trial division").
type QuadraticBase struct {
	Entries []QuadraticEntry
}

// Bounds holds the three bounds factor-base construction needs: B_R,
// B_A, and the target size of Q. spec.md §9 fixes the relationships
// "B_A ≈ 3·B_R" and "oversquare ≈ 5%" as the only true invariants; the
// absolute bound values are a heuristic choice left to the orchestrator
// (spec.md §9 "Parameter heuristics").
type Bounds struct {
	RationalBound   int64
	AlgebraicBound  int64
	QuadraticCount  int
}

// rootsOf returns every r in [0, p) with f(r) ≡ 0 (mod p), found by
// exhaustive search over residues (spec.md §4.D: "Roots are found by
// exhaustive search over residues for small p").
func rootsOf(f poly.BigPoly, p numeric.BigInt) []numeric.BigInt {
	pInt, ok := p.Int64()
	if !ok || pInt > 1<<24 {
		// Algebraic- and quadratic-base primes stay well under this in
		// practice (B_A is at most a few million, spec.md §3); this guard
		// only protects against a pathological bound.
		return nil
	}
	var roots []numeric.BigInt
	for r := int64(0); r < pInt; r++ {
		rb := numeric.NewBig(r)
		if f.Eval(rb, numeric.NewBig(0)).Mod(p).Sign() == 0 {
			roots = append(roots, rb)
		}
	}
	return roots
}

// BuildRational constructs the rational base: every prime <= bound.
func BuildRational(bound int64) RationalBase {
	log := obslog.Stage("factorbase")
	ps := primes.SieveUpTo(bound)
	rb := RationalBase{Primes: make([]numeric.BigInt, len(ps))}
	for i, p := range ps {
		rb.Primes[i] = numeric.NewBig(p)
	}
	log.Debug().Int("count", len(rb.Primes)).Int64("bound", bound).Msg("rational base built")
	return rb
}

// BuildAlgebraic constructs the algebraic base: one (p, r) entry per
// root of f mod p, for every prime p <= bound (spec.md §4.D). A prime
// with multiple roots contributes multiple entries, one per root, as
// each root indexes an independent ideal of the number ring.
func BuildAlgebraic(f poly.BigPoly, bound int64) AlgebraicBase {
	log := obslog.Stage("factorbase")
	ps := primes.SieveUpTo(bound)
	var ab AlgebraicBase
	for _, p := range ps {
		pb := numeric.NewBig(p)
		for _, r := range rootsOf(f, pb) {
			ab.Entries = append(ab.Entries, AlgebraicEntry{P: pb, R: r})
		}
	}
	log.Debug().Int("count", len(ab.Entries)).Int64("bound", bound).Msg("algebraic base built")
	return ab
}

// BuildQuadratic constructs the quadratic base: `count` primes above
// algebraicBound that have at least one root of f mod p, each paired
// with one such root (spec.md §3/§4.D).
func BuildQuadratic(f poly.BigPoly, algebraicBound int64, count int) QuadraticBase {
	log := obslog.Stage("factorbase")
	var qb QuadraticBase
	p := numeric.NewBig(algebraicBound)
	for len(qb.Entries) < count {
		p = primes.NextPrime(p)
		roots := rootsOf(f, p)
		if len(roots) == 0 {
			continue
		}
		qb.Entries = append(qb.Entries, QuadraticEntry{P: p, R: roots[0]})
	}
	log.Debug().Int("count", len(qb.Entries)).Msg("quadratic base built")
	return qb
}

// Build constructs all three bases together, honoring the "B_A ≈ 3·B_R"
// heuristic ratio only insofar as the caller chose Bounds that way; this
// function does not itself enforce the ratio (spec.md §9: it is a
// heuristic, not an invariant enforced by construction).
func Build(f poly.BigPoly, b Bounds) (RationalBase, AlgebraicBase, QuadraticBase) {
	r := BuildRational(b.RationalBound)
	a := BuildAlgebraic(f, b.AlgebraicBound)
	q := BuildQuadratic(f, b.AlgebraicBound, b.QuadraticCount)
	return r, a, q
}
