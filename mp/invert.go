/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

// Invert sets z = x^-1 mod m and reports whether x is invertible. z is not
// modified when it is not.
//
// An odd modulus runs the binary extended GCD on (m, x) directly. For an even
// modulus x must be odd; the GCD runs on (x, m) to find m^-1 mod x, which is
// lifted to x^-1 mod m with one exact division.
func (b *Barrett) Invert(z, x []Word) bool {
	z = b.dst(z)
	b.operand(x)

	if isZero(x) {
		return false
	}
	if odd(b.modulus) {
		if !b.egcd(b.modulus, x) {
			return false
		}
		copy(z, b.ws.d[1:])
		return true
	}
	if even(x) {
		return false
	}
	if isOne(x) {
		setw(z, 1)
		return true
	}
	if !b.egcd(x, b.modulus) {
		return false
	}
	b.lift(z, x)
	return true
}

// egcd runs the binary extended GCD of the odd n and a non-zero a. The
// coefficients are kept in [0, n) so that on return d*a = v (mod n). It
// reports whether gcd(n, a) = 1, in which case d = a^-1 mod n.
func (b *Barrett) egcd(n, a []Word) bool {
	ws := b.ws
	u, v, cb, cd := ws.u, ws.v, ws.b, ws.d

	setx(u, n)
	setx(v, a)
	zero(cb)
	setw(cd, 1)

	halve := func(c []Word) {
		if odd(c) {
			addx(c, n)
		}
		divtwo(c)
	}
	subc := func(c, d []Word) {
		if sub(c, d) != 0 {
			addx(c, n)
		}
	}

	for !isZero(u) {
		for even(u) {
			divtwo(u)
			halve(cb)
		}
		for even(v) {
			divtwo(v)
			halve(cd)
		}
		if ge(u, v) {
			sub(u, v)
			subc(cb, cd)
		} else {
			sub(v, u)
			subc(cd, cb)
		}
	}
	return isOne(v)
}

// lift turns d = m^-1 mod x into z = x^-1 mod m. With m*d - 1 = q*x, the
// product x*(m - q) is congruent to 1 modulo m.
func (b *Barrett) lift(z, x []Word) {
	k := b.size
	ws := b.ws

	dk := ws.aux[:k]
	copy(dk, ws.d[1:])

	xt := trim(x)
	n := len(xt)
	yn := ws.aux[k : k+n]
	copy(yn, xt)
	shift := norm(yn)

	un := ws.r2
	un[0] = 0
	mul(un[1:], b.modulus, dk)
	subw(un[1:], 1)
	lshift(un, shift)

	q := ws.q2[:len(un)-n]
	ndivmod(q, un, yn)

	copy(z, b.modulus)
	subx(z, q)
}
