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

// Package sieve searches the (a, b) lattice for relations whose rational
// and algebraic norms are smooth over the two factor bases (spec.md
// §4.E). The parallel partitioning pattern — split the scan range across
// a fixed worker count, each worker owning a disjoint slice, a shared
// collector gathering results until a target count is hit — is ported
// from the teacher's concurrent quadratic sieve (bfix-gospel/math/
// factorizer/sac/director.go, which partitions the x-interval across
// NUM_SIEVERS goroutines); this package replaces the teacher's
// hand-rolled goroutine/channel plumbing with golang.org/x/sync/errgroup
// (used elsewhere in the pack's concurrent services for the same
// fan-out-with-first-error-wins shape) and partitions by b rather than
// by x, since GNFS sieves a two-dimensional (a, b) lattice rather than a
// single interval.
//
// Norm evaluation runs generic over the selected numeric backend T
// (spec.md §4.A), since it is the hot inner loop; once a norm is found
// smooth, its prime factorization is extracted by BigInt trial division
// against the factor bases, since exponent bookkeeping needs arbitrary
// precision regardless of which backend bounded the scan.
package sieve

import (
	"context"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/bfix/gnfs/factorbase"
	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
	"github.com/bfix/gnfs/relation"
)

// Config bundles the static inputs to a sieve run (spec.md §4.E and §6).
type Config struct {
	F          poly.BigPoly // defining polynomial f
	M          numeric.BigInt
	Rational   factorbase.RationalBase
	Algebraic  factorbase.AlgebraicBase
	Quadratic  factorbase.QuadraticBase
	AMax       int64 // a ranges over [-AMax, AMax]
	BMax       int64 // b ranges over [1, BMax]
	Workers    int
	Target     int // stop once this many relations are collected
}

// Engine runs the lattice scan with norm arithmetic in backend T.
type Engine[T numeric.Value[T]] struct {
	cfg     Config
	f       poly.Poly[T]
	fromBig numeric.FromBig[T]
	zero    T
	one     T
}

// NewEngine builds a sieve engine whose norm arithmetic runs in backend
// T, converting f's BigInt coefficients once via fromBig.
func NewEngine[T numeric.Value[T]](cfg Config, fromBig numeric.FromBig[T]) *Engine[T] {
	zero := fromBig(big.NewInt(0))
	one := fromBig(big.NewInt(1))
	coeffs := make([]T, len(cfg.F.Coeffs))
	for i, c := range cfg.F.Coeffs {
		coeffs[i] = fromBig(c.Big())
	}
	return &Engine[T]{
		cfg:     cfg,
		f:       poly.New(coeffs, zero),
		fromBig: fromBig,
		zero:    zero,
		one:     one,
	}
}

// Run partitions b in [1, BMax] across cfg.Workers goroutines and
// collects smooth relations until cfg.Target is reached or the scan
// range is exhausted, matching the teacher's director pattern of
// partitioning work across a fixed goroutine count and waiting for a
// shared stopping condition, but using errgroup instead of a semaphore.
func (e *Engine[T]) Run(ctx context.Context) ([]relation.Relation, error) {
	log := obslog.Stage("sieve")
	if e.cfg.Workers < 1 {
		e.cfg.Workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector := newCollector(e.cfg.Target)
	g, ctx := errgroup.WithContext(ctx)

	bSpan := e.cfg.BMax / int64(e.cfg.Workers)
	if bSpan < 1 {
		bSpan = 1
	}
	for w := 0; w < e.cfg.Workers; w++ {
		lo := int64(w)*bSpan + 1
		hi := lo + bSpan - 1
		if w == e.cfg.Workers-1 {
			hi = e.cfg.BMax
		}
		if lo > e.cfg.BMax {
			continue
		}
		w := w
		lo, hi := lo, hi
		g.Go(func() error {
			wlog := obslog.Worker("sieve", w)
			for b := lo; b <= hi; b++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				for a := -e.cfg.AMax; a <= e.cfg.AMax; a++ {
					if a == 0 {
						continue
					}
					ab, bb := numeric.NewBig(a), numeric.NewBig(b)
					if ab.GCD(bb).Cmp(numeric.NewBig(1)) != 0 {
						continue
					}
					r, ok, overflow := e.tryRelation(ab, bb)
					if overflow {
						return gnferr.Wrap(gnferr.ErrBackendOverflow, "norms of (%s,%s)", ab, bb)
					}
					if !ok {
						continue
					}
					done := collector.add(r)
					wlog.Debug().Stringer("relation", r).Msg("smooth relation found")
					if done {
						cancel()
						return nil
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil && err != context.Canceled {
		return nil, gnferr.Wrap(err, "sieve run")
	}
	results := collector.drain()
	log.Info().Int("count", len(results)).Msg("sieve pass complete")
	if len(results) < e.cfg.Target {
		return results, gnferr.Wrap(gnferr.ErrNeedMoreSieving, "got %d of %d target relations", len(results), e.cfg.Target)
	}
	return results, nil
}

// tryRelation evaluates the rational and algebraic norms of (a, b) in
// backend T, then tests both for smoothness via BigInt trial division.
// The third result is true when either norm overflows backend T.
func (e *Engine[T]) tryRelation(a, b numeric.BigInt) (relation.Relation, bool, bool) {
	aT, bT := e.fromBig(a.Big()), e.fromBig(b.Big())

	ratT, ok := e.rationalNormChecked(aT, bT)
	if !ok {
		return relation.Relation{}, false, true
	}
	algT, ok := e.algebraicNormChecked(aT, bT)
	if !ok {
		return relation.Relation{}, false, true
	}

	ratNorm := ratT.Big()
	algNorm := algT.Big()

	ratSign := ratNorm.Sign() < 0
	algSign := algNorm.Sign() < 0
	ratAbs := numeric.NewBigFromBig(ratNorm).Abs()
	algAbs := numeric.NewBigFromBig(algNorm).Abs()

	ratFactors, ratRem := trialDivideRational(ratAbs, e.cfg.Rational)
	if ratRem.Cmp(numeric.NewBig(1)) != 0 {
		return relation.Relation{}, false, false
	}
	algFactors, algRem := trialDivideAlgebraic(algAbs, a, b, e.cfg.Algebraic)
	if algRem.Cmp(numeric.NewBig(1)) != 0 {
		return relation.Relation{}, false, false
	}

	return relation.Relation{
		A:                a,
		B:                b,
		RationalFactors:  ratFactors,
		AlgebraicFactors: algFactors,
		RationalSign:     ratSign,
		AlgebraicSign:     algSign,
	}, true, false
}

// rationalNormChecked computes a + b*m, using the backend's checked
// arithmetic so an overflowing backend is reported rather than silently
// wrapping (spec.md §4.A "backend overflow" escalation path).
func (e *Engine[T]) rationalNormChecked(a, b T) (T, bool) {
	m := e.fromBig(e.cfg.M.Big())
	bm, ok := b.CheckedMul(m)
	if !ok {
		return e.zero, false
	}
	sum, ok := a.CheckedAdd(bm)
	return sum, ok
}

// algebraicNormChecked computes the homogeneous norm
// sum_i f_i * a^i * b^(d-i), the value whose factorization over the
// algebraic base spec.md §3 calls N(a - b*alpha).
func (e *Engine[T]) algebraicNormChecked(a, b T) (T, bool) {
	d := e.f.Degree()
	sum := e.zero
	for i := 0; i <= d; i++ {
		term, ok := a.Pow(i).CheckedMul(b.Pow(d - i))
		if !ok {
			return e.zero, false
		}
		term, ok = term.CheckedMul(e.f.Coeffs[i])
		if !ok {
			return e.zero, false
		}
		sum, ok = sum.CheckedAdd(term)
		if !ok {
			return e.zero, false
		}
	}
	return sum, true
}

// trialDivideRational factors n over the rational base, returning the
// per-index exponent map and whatever remains undivided (1 iff smooth).
func trialDivideRational(n numeric.BigInt, rb factorbase.RationalBase) (map[int]int, numeric.BigInt) {
	factors := map[int]int{}
	rem := n
	for i, p := range rb.Primes {
		exp := 0
		for rem.Sign() != 0 && rem.Mod(p).Sign() == 0 {
			rem = rem.Div(p)
			exp++
		}
		if exp > 0 {
			factors[i] = exp
		}
	}
	return factors, rem
}

// trialDivideAlgebraic factors n over the algebraic base, only assigning
// a prime's exponent to the (p, r) entry whose root matches
// a ≡ b*r (mod p) -- the ideal (p, r) divides (a - b*alpha) exactly when
// that congruence holds (spec.md §3).
func trialDivideAlgebraic(n, a, b numeric.BigInt, ab factorbase.AlgebraicBase) (map[int]int, numeric.BigInt) {
	factors := map[int]int{}
	rem := n
	for i, e := range ab.Entries {
		if a.Sub(b.Mul(e.R)).Mod(e.P).Sign() != 0 {
			continue
		}
		exp := 0
		for rem.Sign() != 0 && rem.Mod(e.P).Sign() == 0 {
			rem = rem.Div(e.P)
			exp++
		}
		if exp > 0 {
			factors[i] = exp
		}
	}
	return factors, rem
}

// collector gathers relations from multiple workers behind a mutex until
// the target count is reached.
type collector struct {
	mu     chan struct{}
	target int
	items  []relation.Relation
}

func newCollector(target int) *collector {
	c := &collector{mu: make(chan struct{}, 1), target: target}
	c.mu <- struct{}{}
	return c
}

func (c *collector) add(r relation.Relation) (done bool) {
	<-c.mu
	defer func() { c.mu <- struct{}{} }()
	c.items = append(c.items, r)
	return len(c.items) >= c.target
}

func (c *collector) drain() []relation.Relation {
	<-c.mu
	defer func() { c.mu <- struct{}{} }()
	return c.items
}
