/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// SmallPrimesProductMax is the word length of the largest small-prime
// product used by the trial-division screen.
const SmallPrimesProductMax = 32

// spprod[i] is the product of the longest run of odd primes, starting at 3,
// that fits in i+1 words.
var spprod [SmallPrimesProductMax][]Word

func init() {
	candidates := oddPrimesBelow(1 << 12)
	for i := range spprod {
		size := i + 1
		prod := make([]Word, size)
		tmp := make([]Word, size)
		setw(prod, 1)
		for _, p := range candidates {
			if setmul(tmp, prod, p) != 0 {
				break
			}
			copy(prod, tmp)
		}
		spprod[i] = prod
	}
}

func oddPrimesBelow(limit int) []Word {
	composite := bitset.New(uint(limit))
	var primes []Word
	for n := 3; n < limit; n += 2 {
		if composite.Test(uint(n)) {
			continue
		}
		primes = append(primes, Word(n))
		for c := n * n; c < limit; c += 2 * n {
			composite.Set(uint(c))
		}
	}
	return primes
}

func smallPrimesProduct(size int) []Word {
	if size > SmallPrimesProductMax {
		size = SmallPrimesProductMax
	}
	return spprod[size-1]
}

// Trials returns the number of Miller-Rabin rounds that bring the error
// probability for a random candidate of the given bit length below 2^-80.
func Trials(bits int) int {
	switch {
	case bits >= 1854:
		return 2
	case bits >= 1223:
		return 3
	case bits >= 927:
		return 4
	case bits >= 747:
		return 5
	case bits >= 627:
		return 6
	case bits >= 543:
		return 7
	case bits >= 480:
		return 8
	case bits >= 431:
		return 9
	case bits >= 393:
		return 10
	case bits >= 361:
		return 11
	case bits >= 335:
		return 12
	case bits >= 314:
		return 13
	case bits >= 295:
		return 14
	case bits >= 279:
		return 15
	case bits >= 265:
		return 16
	case bits >= 253:
		return 17
	case bits >= 242:
		return 18
	case bits >= 232:
		return 19
	case bits >= 223:
		return 20
	case bits >= 216:
		return 21
	case bits >= 209:
		return 22
	case bits >= 202:
		return 23
	case bits >= 196:
		return 24
	case bits >= 191:
		return 25
	case bits >= 186:
		return 26
	case bits >= 182:
		return 27
	case bits >= 178:
		return 28
	case bits >= 174:
		return 29
	case bits >= 170:
		return 30
	case bits >= 167:
		return 31
	case bits >= 164:
		return 32
	case bits >= 161:
		return 33
	case bits >= 160:
		return 34
	}
	return 35
}

// IsProbablePrime tests the modulus for primality. Even values and values
// below 2 are rejected, as is anything sharing a factor with the small-prime
// product, the small primes themselves included. Survivors go
// through Miller-Rabin: the first round uses base 2, the remaining rounds
// draw witnesses from rng. rng is not consulted when the screen decides.
func (b *Barrett) IsProbablePrime(rng RandomSource, rounds int) (bool, error) {
	if b.Empty() {
		return false, ErrEmptyContext
	}
	m := b.modulus
	if even(m) || leOne(m) {
		return false, nil
	}

	k := b.size
	ws := b.ws
	p := ws.aux[:k]
	g := ws.aux[k : 2*k]
	setx(p, smallPrimesProduct(k))
	gcd(g, m, p, ws.opnd)
	if !isOne(g) {
		return false, nil
	}

	return b.millerRabin(rng, rounds)
}

func (b *Barrett) millerRabin(rng RandomSource, rounds int) (bool, error) {
	k := b.size
	ws := b.ws

	// m - 1 = 2^s * r with r odd
	mone := ws.aux[k : 2*k]
	copy(mone, b.modulus)
	subw(mone, 1)
	r := ws.aux[2*k : 3*k]
	copy(r, mone)
	s := lszcnt(r)
	rshift(r, s)

	y := b.result
	b.TwoPowMod(y, r)
	if !b.probe(y, mone, s) {
		return false, nil
	}

	for i := 1; i < rounds; i++ {
		if _, err := b.RandomResidue(rng, y); err != nil {
			return false, err
		}
		b.PowMod(y, y, r)
		if !b.probe(y, mone, s) {
			return false, nil
		}
	}
	return true, nil
}

// probe finishes one round given y = a^r mod m.
func (b *Barrett) probe(y, mone []Word, s int) bool {
	if isOne(y) || eq(y, mone) {
		return true
	}
	for j := 1; j < s; j++ {
		b.SqrMod(y, y)
		if eq(y, mone) {
			return true
		}
		if isOne(y) {
			return false
		}
	}
	return false
}

// RandomPrime draws probable primes of exactly size words with the top and
// bottom bits set, running the given number of Miller-Rabin rounds. When f
// is non-nil and non-zero, only primes p with gcd(p-1, f) = 1 are accepted.
// The returned context holds the prime as its modulus.
func RandomPrime(rng RandomSource, size, trials int, f *Number) (*Barrett, error) {
	var fw []Word
	if f != nil && !f.IsZero() {
		fw = trim(f.Words())
		if len(fw) > size {
			return nil, errors.Errorf("mp: coprimality factor of %d words exceeds prime size %d", len(fw), size)
		}
	}

	p := &Barrett{}
	if err := p.Init(size); err != nil {
		return nil, err
	}
	ws := p.ws
	for {
		if err := rng.Fill(p.modulus); err != nil {
			p.Free()
			return nil, errors.Wrap(err, "mp: random source failed")
		}
		setMSB(p.modulus)
		setLSB(p.modulus)

		if fw != nil {
			pm := ws.aux[:size]
			copy(pm, p.modulus)
			subw(pm, 1)
			fx := ws.aux[size : 2*size]
			setx(fx, fw)
			g := ws.aux[2*size : 3*size]
			gcd(g, pm, fx, ws.opnd)
			if !isOne(g) {
				continue
			}
		}

		if err := p.computeMu(); err != nil {
			p.Free()
			return nil, err
		}
		ok, err := p.IsProbablePrime(rng, trials)
		if err != nil {
			p.Free()
			return nil, err
		}
		if ok {
			return p, nil
		}
	}
}
