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

// segmentSize bounds the working set of each sieve segment, so bounds
// well into the hundreds of millions (the algebraic base's B_A, per
// spec.md §3) don't require one giant bitset.
const segmentSize = 1 << 20

// SieveUpTo returns every prime <= bound via a segmented sieve of
// Eratosthenes (spec.md §4.C), used by factorbase construction for the
// rational base R and the initial pass of the algebraic base A.
func SieveUpTo(bound int64) []int64 {
	if bound < 2 {
		return nil
	}
	basePrimes := simpleSieve(isqrt(bound) + 1)

	var primes []int64
	for lo := int64(2); lo <= bound; lo += segmentSize {
		hi := lo + segmentSize - 1
		if hi > bound {
			hi = bound
		}
		primes = append(primes, sieveSegment(lo, hi, basePrimes)...)
	}
	return primes
}

func simpleSieve(bound int64) []int64 {
	if bound < 2 {
		return nil
	}
	composite := make([]bool, bound+1)
	var primes []int64
	for p := int64(2); p <= bound; p++ {
		if composite[p] {
			continue
		}
		primes = append(primes, p)
		for m := p * p; m <= bound; m += p {
			composite[m] = true
		}
	}
	return primes
}

func sieveSegment(lo, hi int64, basePrimes []int64) []int64 {
	size := hi - lo + 1
	composite := make([]bool, size)
	for _, p := range basePrimes {
		if p*p > hi {
			break
		}
		start := ((lo + p - 1) / p) * p
		if start < p*p {
			start = p * p
		}
		for m := start; m <= hi; m += p {
			composite[m-lo] = true
		}
	}
	var primes []int64
	for i, isComposite := range composite {
		n := lo + int64(i)
		if !isComposite && n >= 2 {
			primes = append(primes, n)
		}
	}
	return primes
}

func isqrt(n int64) int64 {
	if n < 0 {
		return 0
	}
	r := int64(0)
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
