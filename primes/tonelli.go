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

package primes

import (
	"github.com/bfix/gnfs/internal/gnferr"
	"github.com/bfix/gnfs/numeric"
)

// TonelliShanks computes a square root of n mod the odd prime p, for n a
// quadratic residue (spec.md §4.C). Ported from the teacher's
// bfix-gospel/math.SqrtModP, generalized to return the shared
// ErrNotAQuadraticResidue kind (spec.md §7) instead of an ad hoc error.
//
// See https://en.wikipedia.org/wiki/Tonelli%E2%80%93Shanks_algorithm.
func TonelliShanks(n, p numeric.BigInt) (numeric.BigInt, error) {
	if Legendre(n, p) != 1 {
		return numeric.BigInt{}, gnferr.Wrap(gnferr.ErrNotAQuadraticResidue, "n=%s p=%s", n, p)
	}
	one := numeric.NewBig(1)
	two := numeric.NewBig(2)
	four := numeric.NewBig(4)

	// 1. Factor out powers of 2 from p-1: p-1 = Q*2^S with Q odd.
	s := 0
	q := p.Sub(one)
	for q.Big().Bit(0) == 0 {
		s++
		q = q.Div(two)
	}
	if s == 1 {
		return n.ModPow(p.Add(one).Div(four), p), nil
	}

	// 2. Find a quadratic non-residue z, set c = z^Q.
	z := one
	for Legendre(z, p) != -1 {
		z = z.Add(one)
	}
	c := z.ModPow(q, p)

	// 3. R = n^((Q+1)/2), t = n^Q, M = S.
	r := n.ModPow(q.Add(one).Div(two), p)
	t := n.ModPow(q, p)
	m := s

	// 4. Loop until t == 1.
	for t.Mod(p).Cmp(one) != 0 {
		// find smallest i, 0 < i < M, with t^(2^i) == 1.
		i := 1
		for ; i < m; i++ {
			if t.ModPow(two.Pow(i), p).Cmp(one) == 0 {
				break
			}
		}
		b := c.ModPow(two.Pow(m-i-1), p)
		r = r.Mul(b).Mod(p)
		t = t.Mul(b.Pow(2)).Mod(p)
		c = b.ModPow(two, p)
		m = i
	}
	return r, nil
}
