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

// Package linalg finds GF(2) null-space vectors among relation exponent
// vectors (spec.md §4.F): combinations of relations whose combined
// exponent vector is the zero vector, each one a candidate square
// dependency for the square-root stage.
//
// The elimination strategy — insert each row, repeatedly XOR it against
// the stored row owning its lowest set bit until either a free pivot
// column is found or the row vanishes — is the same incremental,
// pivot-on-lowest-set-bit structured Gaussian elimination the teacher's
// quadratic-sieve solver runs over its ys/yf relations
// (bfix-gospel/math/factorizer/qs/solver.go SolverImpl.Process, which
// stores a relation at "the position of the smallest prime with odd
// power" and multiplies colliding relations together until one reduces
// to the identity). This package generalizes that single-solution
// search into a full null-space enumeration by tracking, alongside each
// row's current content, a history vector recording which original
// relations XORed together to produce it -- the teacher's Relation.x
// accumulator playing the same role the history vector does here, one
// level removed from GF(2) content into the multiplicative group it
// represents.
package linalg

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/internal/obslog"
	"github.com/bfix/gnfs/relation"
)

// row is one entry of the elimination matrix: its current GF(2) content
// (initially a relation's exponent vector, reduced over time) and a
// history vector recording which input relation indices combine to
// produce it.
type row struct {
	content *bitset.BitSet
	history *bitset.BitSet
}

// Matrix performs incremental sparse GF(2) elimination over a stream of
// exponent vectors, keyed by column width (spec.md §4.F).
type Matrix struct {
	width        uint
	n            uint
	pivots       map[uint]*row
	dependencies []*bitset.BitSet
}

// NewMatrix creates an elimination matrix for vectors of the given
// column width (relation.Layout.width()).
func NewMatrix(width uint) *Matrix {
	return &Matrix{width: width, pivots: make(map[uint]*row)}
}

// Insert adds the exponent vector of relation index idx. It returns true
// and the combining history iff the row reduced to the zero vector --
// i.e. relations idx and every other set bit of the history multiply to
// a value that is a perfect square over both factor bases.
func (m *Matrix) Insert(idx int, v relation.ExponentVector) (isDependency bool, history *bitset.BitSet) {
	r := &row{content: v.Bits().Clone(), history: bitset.New(m.n + 1)}
	r.history.Set(uint(idx))
	m.n++

	for {
		piv, ok := r.content.NextSet(0)
		if !ok {
			m.dependencies = append(m.dependencies, r.history)
			return true, r.history
		}
		existing, found := m.pivots[piv]
		if !found {
			m.pivots[piv] = r
			return false, nil
		}
		r.content = r.content.SymmetricDifference(existing.content)
		r.history = r.history.SymmetricDifference(existing.history)
	}
}

// Dependencies returns every null-space vector found so far.
func (m *Matrix) Dependencies() []*bitset.BitSet {
	return m.dependencies
}

// Rank returns the number of independent pivot columns claimed so far.
func (m *Matrix) Rank() int {
	return len(m.pivots)
}

// NullSpace runs the elimination over every relation's exponent vector
// in order and returns at least `want` independent dependency vectors,
// each a set of relation indices whose combined exponent vector is zero
// (spec.md §4.F "Gaussian elimination over GF(2)" / "enumerate null-space
// vectors"). It returns gnferr.ErrInsufficientRank if the relation set
// was exhausted without finding enough dependencies -- the signal
// spec.md §7 ties to "go back and sieve more" (spec.md §4.H).
func NullSpace(vectors []relation.ExponentVector, want int) ([]*bitset.BitSet, error) {
	log := obslog.Stage("linalg")
	if len(vectors) == 0 {
		return nil, gnferr.Wrap(gnferr.ErrInsufficientRank, "no relations supplied")
	}
	m := NewMatrix(vectors[0].Len())
	for i, v := range vectors {
		if dep, hist := m.Insert(i, v); dep {
			log.Debug().Int("relation", i).Msg("dependency found")
			_ = hist
			if len(m.dependencies) >= want {
				break
			}
		}
	}
	if len(m.dependencies) < want {
		return m.dependencies, gnferr.Wrap(gnferr.ErrInsufficientRank,
			"found %d of %d requested dependencies over %d relations", len(m.dependencies), want, len(vectors))
	}
	log.Info().Int("count", len(m.dependencies)).Msg("null-space search complete")
	return m.dependencies, nil
}
