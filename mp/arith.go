/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import "math/bits"

// This file holds the word-vector kernel. Every vector is stored most
// significant word first and its length is its size. Functions taking two
// vectors of "the same size" panic through index checks if they are not.

// A Word is a single digit of a multiple-precision unsigned integer.
type Word = uint32

const (
	wordBits = 32
	wordMSB  = Word(1) << (wordBits - 1)
	wordMask = ^Word(0)
)

func zero(x []Word) {
	for i := range x {
		x[i] = 0
	}
}

// setw sets x to the single word value w.
func setw(x []Word, w Word) {
	zero(x)
	x[len(x)-1] = w
}

// setx copies y into x, zero-filling or truncating the most significant
// words as needed.
func setx(x, y []Word) {
	if len(x) > len(y) {
		fill := len(x) - len(y)
		zero(x[:fill])
		copy(x[fill:], y)
		return
	}
	copy(x, y[len(y)-len(x):])
}

func isZero(x []Word) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

func isOne(x []Word) bool {
	n := len(x) - 1
	if x[n] != 1 {
		return false
	}
	return isZero(x[:n])
}

// leOne reports whether x <= 1.
func leOne(x []Word) bool {
	n := len(x) - 1
	if x[n] > 1 {
		return false
	}
	return isZero(x[:n])
}

func odd(x []Word) bool  { return x[len(x)-1]&1 == 1 }
func even(x []Word) bool { return x[len(x)-1]&1 == 0 }

func msbSet(x []Word) bool { return x[0]&wordMSB != 0 }

func setLSB(x []Word) { x[len(x)-1] |= 1 }

func setMSB(x []Word) { x[0] |= wordMSB }

// cmp compares two vectors of the same size.
func cmp(x, y []Word) int {
	for i := range x {
		if x[i] != y[i] {
			if x[i] > y[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

func eq(x, y []Word) bool { return cmp(x, y) == 0 }
func ge(x, y []Word) bool { return cmp(x, y) >= 0 }

// cmpx compares two vectors of possibly different sizes.
func cmpx(x, y []Word) int {
	switch {
	case len(x) > len(y):
		if !isZero(x[:len(x)-len(y)]) {
			return 1
		}
		return cmp(x[len(x)-len(y):], y)
	case len(x) < len(y):
		if !isZero(y[:len(y)-len(x)]) {
			return -1
		}
		return cmp(x, y[len(y)-len(x):])
	}
	return cmp(x, y)
}

func gex(x, y []Word) bool { return cmpx(x, y) >= 0 }

// mszcnt returns the number of leading zero bits of x.
func mszcnt(x []Word) int {
	for i, w := range x {
		if w != 0 {
			return i*wordBits + bits.LeadingZeros32(w)
		}
	}
	return len(x) * wordBits
}

// lszcnt returns the number of trailing zero bits of x.
func lszcnt(x []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return (len(x)-1-i)*wordBits + bits.TrailingZeros32(x[i])
		}
	}
	return len(x) * wordBits
}

func bitLen(x []Word) int { return len(x)*wordBits - mszcnt(x) }

// trim returns x without its leading zero words. A zero vector trims to its
// last word.
func trim(x []Word) []Word {
	i := 0
	for i < len(x)-1 && x[i] == 0 {
		i++
	}
	return x[i:]
}

// add sets x = x + y and returns the carry; x and y have the same size.
func add(x, y []Word) Word {
	var c uint32
	for i := len(x) - 1; i >= 0; i-- {
		x[i], c = bits.Add32(x[i], y[i], c)
	}
	return c
}

// sub sets x = x - y and returns the borrow; x and y have the same size.
func sub(x, y []Word) Word {
	var b uint32
	for i := len(x) - 1; i >= 0; i-- {
		x[i], b = bits.Sub32(x[i], y[i], b)
	}
	return b
}

// addw adds w to the least significant word of x and propagates the carry.
func addw(x []Word, w Word) Word {
	c := w
	for i := len(x) - 1; i >= 0 && c != 0; i-- {
		x[i], c = bits.Add32(x[i], c, 0)
	}
	return c
}

// subw subtracts w from x and propagates the borrow.
func subw(x []Word, w Word) Word {
	b := w
	for i := len(x) - 1; i >= 0 && b != 0; i-- {
		x[i], b = bits.Sub32(x[i], b, 0)
	}
	return b
}

// addx sets x = x + y where y may be shorter or longer than x; only the
// least significant len(x) words of y take part.
func addx(x, y []Word) Word {
	if len(x) > len(y) {
		split := len(x) - len(y)
		c := add(x[split:], y)
		return addw(x[:split], c)
	}
	return add(x, y[len(y)-len(x):])
}

// subx is the subtraction counterpart of addx.
func subx(x, y []Word) Word {
	if len(x) > len(y) {
		split := len(x) - len(y)
		b := sub(x[split:], y)
		return subw(x[:split], b)
	}
	return sub(x, y[len(y)-len(x):])
}

// neg replaces x with its two's complement.
func neg(x []Word) {
	for i := range x {
		x[i] = ^x[i]
	}
	addw(x, 1)
}

// multwo doubles x and returns the bit shifted out.
func multwo(x []Word) Word {
	var c Word
	for i := len(x) - 1; i >= 0; i-- {
		w := x[i]
		x[i] = w<<1 | c
		c = w >> (wordBits - 1)
	}
	return c
}

// divtwo halves x as an unsigned value.
func divtwo(x []Word) {
	var c Word
	for i := range x {
		w := x[i]
		x[i] = w>>1 | c
		c = w << (wordBits - 1)
	}
}

// sdivtwo halves x as a two's complement value.
func sdivtwo(x []Word) {
	top := x[0] & wordMSB
	divtwo(x)
	x[0] |= top
}

// lshift shifts x left by count bits, dropping the bits shifted out.
func lshift(x []Word, count int) {
	words, rem := count/wordBits, uint(count%wordBits)
	if words >= len(x) {
		zero(x)
		return
	}
	if words > 0 {
		copy(x, x[words:])
		zero(x[len(x)-words:])
	}
	if rem == 0 {
		return
	}
	var c Word
	for i := len(x) - 1 - words; i >= 0; i-- {
		w := x[i]
		x[i] = w<<rem | c
		c = w >> (wordBits - rem)
	}
}

// rshift shifts x right by count bits.
func rshift(x []Word, count int) {
	words, rem := count/wordBits, uint(count%wordBits)
	if words >= len(x) {
		zero(x)
		return
	}
	if words > 0 {
		copy(x[words:], x[:len(x)-words])
		zero(x[:words])
	}
	if rem == 0 {
		return
	}
	var c Word
	for i := words; i < len(x); i++ {
		w := x[i]
		x[i] = w>>rem | c
		c = w << (wordBits - rem)
	}
}

// norm shifts x left until its most significant bit is set and returns the
// shift count. x must not be zero.
func norm(x []Word) int {
	shift := mszcnt(x)
	lshift(x, shift)
	return shift
}

// setmul sets z = x * y and returns the carry word; z and x have the same size.
func setmul(z, x []Word, y Word) Word {
	var c Word
	for i := len(x) - 1; i >= 0; i-- {
		hi, lo := bits.Mul32(x[i], y)
		var cc uint32
		z[i], cc = bits.Add32(lo, c, 0)
		c = hi + cc
	}
	return c
}

// addmul sets z = z + x * y and returns the carry word; z and x have the same size.
func addmul(z, x []Word, y Word) Word {
	var c Word
	for i := len(x) - 1; i >= 0; i-- {
		hi, lo := bits.Mul32(x[i], y)
		var c1, c2 uint32
		lo, c1 = bits.Add32(lo, c, 0)
		z[i], c2 = bits.Add32(z[i], lo, 0)
		c = hi + c1 + c2
	}
	return c
}

// mul sets z = x * y; z must have len(x)+len(y) words and must not alias x or y.
func mul(z, x, y []Word) {
	xs, ys := len(x), len(y)
	// schoolbook, walking y from its least significant word
	zero(z)
	z[ys-1] = setmul(z[ys:ys+xs], x, y[ys-1])
	for j := ys - 2; j >= 0; j-- {
		z[j] = addmul(z[j+1:j+1+xs], x, y[j])
	}
}

// sqr sets z = x * x; z must have 2*len(x) words and must not alias x.
func sqr(z, x []Word) {
	mul(z, x, x)
}

// ndivmod divides, in place, the dividend held in un by the normalized
// divisor y (most significant bit set). un carries one extra leading word
// holding the bits shifted out when the dividend was normalized along with
// y. The quotient, len(un)-len(y) words, is written to q and the remainder
// is left in the last len(y) words of un.
func ndivmod(q, un, y []Word) {
	n := len(y)
	m := len(un) - 1 - n

	if n == 1 {
		d := y[0]
		rem := un[0]
		un[0] = 0
		for i := 0; i <= m; i++ {
			q[i], rem = bits.Div32(rem, un[i+1], d)
			un[i+1] = 0
		}
		un[len(un)-1] = rem
		return
	}

	v0, v1 := uint64(y[0]), uint64(y[1])
	for j := 0; j <= m; j++ {
		num := uint64(un[j])<<wordBits | uint64(un[j+1])
		qhat := num / v0
		rhat := num % v0
		for qhat > uint64(wordMask) || qhat*v1 > (rhat<<wordBits|uint64(un[j+2])) {
			qhat--
			rhat += v0
			if rhat > uint64(wordMask) {
				break
			}
		}

		// multiply and subtract
		var borrow, carry uint32
		for i := n - 1; i >= 0; i-- {
			hi, lo := bits.Mul32(uint32(qhat), y[i])
			var c uint32
			lo, c = bits.Add32(lo, carry, 0)
			carry = hi + c
			un[j+1+i], borrow = bits.Sub32(un[j+1+i], lo, borrow)
		}
		var b1, b2 uint32
		un[j], b1 = bits.Sub32(un[j], carry, 0)
		un[j], b2 = bits.Sub32(un[j], 0, borrow)

		if b1|b2 != 0 {
			// qhat was one too large; add the divisor back
			qhat--
			var c uint32
			for i := n - 1; i >= 0; i-- {
				un[j+1+i], c = bits.Add32(un[j+1+i], y[i], c)
			}
			un[j] += c
		}
		q[j] = Word(qhat)
	}
}

// divmod sets q = x / y and r = x mod y for a non-zero y. q holds len(x)
// words and r holds len(y) words. ws needs 2*len(x)+2 words.
func divmod(q, r, x, y []Word, ws []Word) {
	yt := trim(y)
	n := len(yt)
	if len(x) < n {
		zero(q)
		setx(r, x)
		return
	}
	shift := bits.LeadingZeros32(yt[0])

	yn := ws[:n]
	copy(yn, yt)
	lshift(yn, shift)

	un := ws[n : n+len(x)+1]
	un[0] = 0
	copy(un[1:], x)
	lshift(un, shift)

	qn := ws[n+len(x)+1 : 2*len(x)+2]
	ndivmod(qn, un, yn)

	rem := un[len(un)-n:]
	rshift(rem, shift)
	setx(r, rem)
	setx(q, qn)
}

// gcd sets z to the greatest common divisor of x and y using the binary
// algorithm. x, y and z have the same size; ws needs 2*len(x) words.
func gcd(z, x, y []Word, ws []Word) {
	size := len(x)
	u := ws[:size]
	v := ws[size : 2*size]

	copy(u, x)
	copy(v, y)

	if isZero(u) {
		copy(z, v)
		return
	}
	if isZero(v) {
		copy(z, u)
		return
	}

	shift := lszcnt(u)
	if s := lszcnt(v); s < shift {
		shift = s
	}
	rshift(u, shift)
	rshift(v, shift)

	for even(u) {
		divtwo(u)
	}
	for {
		for even(v) {
			divtwo(v)
		}
		if ge(u, v) {
			u, v = v, u
		}
		sub(v, u)
		if isZero(v) {
			break
		}
	}
	copy(z, u)
	lshift(z, shift)
}
