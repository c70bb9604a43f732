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

import "github.com/bfix/gnfs/numeric"

// Legendre computes the Legendre symbol (a/p) by Euler's criterion
// (spec.md §4.C), delegating to numeric.BigInt.Legendre.
func Legendre(a, p numeric.BigInt) int {
	return a.Legendre(p)
}

// Jacobi computes the Jacobi symbol (a/n) by quadratic-reciprocity
// recursion (spec.md §4.C), delegating to numeric.BigInt.Jacobi.
func Jacobi(a, n numeric.BigInt) int {
	return a.Jacobi(n)
}

// smallPrimeWitnesses is the hard-coded list spec.md §4.C names for
// SymbolSearch's fast path: "first try a hard-coded list of small primes
// {2,3,5,7,11,...,71}".
var smallPrimeWitnesses = []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}

// MaxSymbolScan bounds SymbolSearch's linear-scan fallback.
const MaxSymbolScan = 1 << 20

// SymbolSearch returns an integer x >= s with Legendre(x, p) equal to
// target (spec.md §4.C). It first tries the hard-coded small-prime list
// (a measured hot-path optimisation per spec.md) and returns the first
// listed prime >= s that matches, which is not necessarily the smallest
// matching integer; only when no listed prime matches does it fall back
// to a linear scan from s of at most MaxSymbolScan values.
func SymbolSearch(s, p numeric.BigInt, target int) (numeric.BigInt, bool) {
	for _, w := range smallPrimeWitnesses {
		x := numeric.NewBig(w)
		if x.Cmp(s) < 0 {
			continue
		}
		if Legendre(x, p) == target {
			return x, true
		}
	}
	x := s
	for i := int64(0); i < MaxSymbolScan; i++ {
		if Legendre(x, p) == target {
			return x, true
		}
		x = x.Add(numeric.NewBig(1))
	}
	return numeric.BigInt{}, false
}
