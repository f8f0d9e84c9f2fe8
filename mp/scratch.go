/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

// scratch is the workspace owned by a Barrett context. It is one allocation
// of 10*size+4 words carved into named regions:
//
//	opnd  2k    operand staging (padded sums, full products)
//	q2    2k+2  q1*mu
//	r2    2k+1  q3*modulus
//	r     k+1   reduction accumulator
//	aux   3k    exponentiation accumulator, random bounds, primality state
//
// The inversion registers u, v, b and d (k+1 words each) overlay q2, r2 and
// r, so inversion must not call into the reduction path while they are live.
type scratch struct {
	opnd []Word
	q2   []Word
	r2   []Word
	r    []Word
	aux  []Word

	u, v, b, d []Word
}

func scratchWords(size int) int {
	return 10*size + 4
}

// newScratch carves the regions out of buf, which must hold
// scratchWords(size) words.
func newScratch(buf []Word, size int) *scratch {
	s := &scratch{}

	off := 0
	take := func(n int) []Word {
		w := buf[off : off+n : off+n]
		off += n
		return w
	}
	s.opnd = take(2 * size)
	s.q2 = take(2*size + 2)
	s.r2 = take(2*size + 1)
	s.r = take(size + 1)
	s.aux = take(3 * size)

	off = 2 * size
	s.u = take(size + 1)
	s.v = take(size + 1)
	s.b = take(size + 1)
	s.d = take(size + 1)

	return s
}
