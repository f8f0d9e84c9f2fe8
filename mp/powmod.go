/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

const window = 4

// Sliding window decode tables, indexed by the window value. A window is
// applied as presq squarings, a multiplication by the odd power
// x^(2*mulIndex+1), and postsq squarings.
var (
	presq    = [1 << window]int{0, 1, 1, 2, 1, 3, 2, 3, 1, 4, 3, 4, 2, 4, 3, 4}
	mulIndex = [1 << window]int{0, 0, 0, 1, 0, 2, 1, 3, 0, 4, 2, 5, 1, 6, 3, 7}
	postsq   = [1 << window]int{0, 0, 1, 0, 2, 0, 1, 0, 3, 0, 1, 0, 2, 0, 1, 0}
)

// PowMod sets z = x^e mod m using a 4-bit sliding window. e may have any
// length. z may alias x but not e.
func (b *Barrett) PowMod(z, x, e []Word) []Word {
	z = b.dst(z)
	b.operand(x)

	e = trim(e)
	if isZero(e) {
		setw(z, 1)
		return z
	}

	k := b.size
	table := make([]Word, (1<<(window-1))*k)
	defer zero(table)
	pow := func(i int) []Word { return table[i*k : (i+1)*k] }

	// pow(i) = x^(2i+1); pow(0) holds x^2 while the table is filled
	b.SqrMod(pow(0), x)
	b.MulMod(pow(1), pow(0), x)
	for i := 2; i < 1<<(window-1); i++ {
		b.MulMod(pow(i), pow(i-1), pow(0))
	}
	setx(pow(0), x)

	acc := b.ws.aux[:k]
	setw(acc, 1)

	apply := func(n int) {
		for s := presq[n]; s > 0; s-- {
			b.SqrMod(acc, acc)
		}
		b.MulMod(acc, acc, pow(mulIndex[n]))
		for s := postsq[n]; s > 0; s-- {
			b.SqrMod(acc, acc)
		}
	}

	n, l := 0, 0
	for i := bitLen(e) - 1; i >= 0; i-- {
		n <<= 1
		if e[len(e)-1-i/wordBits]>>(uint(i)%wordBits)&1 == 1 {
			n++
		}
		if n != 0 {
			l++
		}
		if l == window {
			apply(n)
			n, l = 0, 0
		} else if n == 0 {
			b.SqrMod(acc, acc)
		}
	}
	if n != 0 {
		apply(n)
	}

	copy(z, acc)
	return z
}

// TwoPowMod sets z = 2^e mod m by squaring and conditional doubling. z must
// not alias e.
func (b *Barrett) TwoPowMod(z, e []Word) []Word {
	z = b.dst(z)

	acc := b.ws.aux[:b.size]
	setw(acc, 1)

	e = trim(e)
	for i := bitLen(e) - 1; i >= 0; i-- {
		b.SqrMod(acc, acc)
		if e[len(e)-1-i/wordBits]>>(uint(i)%wordBits)&1 == 1 {
			if multwo(acc) != 0 || ge(acc, b.modulus) {
				sub(acc, b.modulus)
			}
		}
	}

	copy(z, acc)
	return z
}
