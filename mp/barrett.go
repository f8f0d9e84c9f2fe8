/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"github.com/pkg/errors"
)

// MaxWords is the largest modulus size, in words, a Barrett context accepts.
const MaxWords = 4096

var (
	ErrInvalidSize       = errors.New("mp: invalid size")
	ErrLeadingZero       = errors.New("mp: modulus has a leading zero word")
	ErrDegenerateModulus = errors.New("mp: modulus is a power of the word radix")
	ErrEmptyContext      = errors.New("mp: empty Barrett context")
	ErrSmallModulus      = errors.New("mp: modulus too small for the residue range")
)

// Barrett holds a modulus, its reduction constant mu = floor(b^(2k)/m) and the
// workspace every modular operation runs in. A Barrett is owned by a single
// goroutine; independent contexts may be used concurrently.
//
// Operations take the destination first. A nil destination selects the
// context's result buffer, which is also what the operation returns. Non-nil
// destinations and operands must not exceed the modulus size.
type Barrett struct {
	size    int
	store   []Word
	modulus []Word
	mu      []Word
	result  []Word
	ws      *scratch
}

// NewBarrett returns a context for the given modulus.
func NewBarrett(modulus []Word) (*Barrett, error) {
	b := &Barrett{}
	if err := b.SetModulus(modulus); err != nil {
		return nil, err
	}
	return b, nil
}

// Init allocates storage for a modulus of size words. The modulus is left at
// zero. On failure the context is empty.
func (b *Barrett) Init(size int) error {
	b.Free()
	if size < 1 || size > MaxWords {
		return errors.Wrapf(ErrInvalidSize, "size %d not in [1, %d]", size, MaxWords)
	}

	store := make([]Word, 3*size+1+scratchWords(size))
	b.size = size
	b.store = store
	b.modulus = store[:size:size]
	b.mu = store[size : 2*size+1 : 2*size+1]
	b.result = store[2*size+1 : 3*size+1 : 3*size+1]
	b.ws = newScratch(store[3*size+1:], size)
	return nil
}

// SetModulus replaces any previous state with the given modulus and computes
// its reduction constant.
func (b *Barrett) SetModulus(words []Word) error {
	if len(words) == 0 {
		b.Free()
		return errors.Wrap(ErrInvalidSize, "empty modulus")
	}
	if words[0] == 0 {
		b.Free()
		return ErrLeadingZero
	}
	if err := b.Init(len(words)); err != nil {
		return err
	}
	copy(b.modulus, words)
	if err := b.computeMu(); err != nil {
		b.Free()
		return err
	}
	return nil
}

// SetModulusHex parses a hexadecimal modulus and sets it.
func (b *Barrett) SetModulusHex(s string) error {
	words, err := parseHex(s)
	if err != nil {
		b.Free()
		return err
	}
	return b.SetModulus(trim(words))
}

// computeMu divides b^(2k) by a normalized copy of the modulus.
func (b *Barrett) computeMu() error {
	k := b.size
	ws := b.ws

	yn := ws.aux[:k]
	copy(yn, b.modulus)
	shift := norm(yn)

	un := ws.q2
	zero(un)
	un[1] = 1 << uint(shift)

	q := ws.r2[:k+2]
	ndivmod(q, un, yn)
	if q[0] != 0 {
		zero(q)
		return ErrDegenerateModulus
	}
	copy(b.mu, q[1:])
	return nil
}

// Free wipes and releases the context.
func (b *Barrett) Free() {
	zero(b.store)
	b.size = 0
	b.store = nil
	b.modulus = nil
	b.mu = nil
	b.result = nil
	b.ws = nil
}

// Copy makes b an independent context with src's modulus.
func (b *Barrett) Copy(src *Barrett) error {
	if src.Empty() {
		b.Free()
		return ErrEmptyContext
	}
	if b == src {
		return nil
	}
	if err := b.Init(src.size); err != nil {
		return err
	}
	copy(b.modulus, src.modulus)
	copy(b.mu, src.mu)
	return nil
}

func (b *Barrett) Size() int { return b.size }

func (b *Barrett) Empty() bool { return b.size == 0 }

// Modulus returns a view of the modulus. It must not be modified.
func (b *Barrett) Modulus() []Word { return b.modulus }

// Mu returns a view of the reduction constant.
func (b *Barrett) Mu() []Word { return b.mu }

// Result returns the context's result buffer.
func (b *Barrett) Result() []Word { return b.result }

func (b *Barrett) dst(z []Word) []Word {
	if b.size == 0 {
		panic("mp: use of empty Barrett context")
	}
	if z == nil {
		return b.result
	}
	if len(z) != b.size {
		panic("mp: destination size does not match modulus size")
	}
	return z
}

func (b *Barrett) operand(x []Word) {
	if len(x) > b.size {
		panic("mp: operand larger than modulus size")
	}
}

// Reduce sets z = x mod m for x of at most 2k words.
func (b *Barrett) Reduce(z, x []Word) []Word {
	z = b.dst(z)
	if len(x) > 2*b.size {
		panic("mp: operand larger than twice the modulus size")
	}
	if len(x) < 2*b.size {
		setx(b.ws.opnd, x)
		x = b.ws.opnd
	}
	b.reduce(z, x)
	return z
}

// reduce runs Barrett's algorithm on the 2k-word x. x may be the operand
// staging region and z may alias x.
func (b *Barrett) reduce(z, x []Word) {
	k := b.size
	ws := b.ws

	// q2 = floor(x / b^(k-1)) * mu
	mul(ws.q2, x[:k+1], b.mu)

	// r2 = floor(q2 / b^(k+1)) * m
	mul(ws.r2, ws.q2[:k+1], b.modulus)

	// r = (x - r2) mod b^(k+1)
	copy(ws.r, x[k-1:])
	sub(ws.r, ws.r2[k:])

	for gex(ws.r, b.modulus) {
		subx(ws.r, b.modulus)
	}
	copy(z, ws.r[1:])
}

// AddMod sets z = (x + y) mod m.
func (b *Barrett) AddMod(z, x, y []Word) []Word {
	z = b.dst(z)
	b.operand(x)
	b.operand(y)

	opnd := b.ws.opnd
	setx(opnd, x)
	addx(opnd, y)
	b.reduce(z, opnd)
	return z
}

// SubMod sets z = (x - y) mod m for x and y in [0, m).
func (b *Barrett) SubMod(z, x, y []Word) []Word {
	z = b.dst(z)
	b.operand(x)
	b.operand(y)

	opnd := b.ws.opnd
	setx(opnd, x)
	if subx(opnd, y) != 0 {
		addx(opnd, b.modulus)
	}
	b.reduce(z, opnd)
	return z
}

// MulMod sets z = x * y mod m.
func (b *Barrett) MulMod(z, x, y []Word) []Word {
	z = b.dst(z)
	b.operand(x)
	b.operand(y)

	opnd := b.ws.opnd
	lo := len(opnd) - len(x) - len(y)
	zero(opnd[:lo])
	mul(opnd[lo:], x, y)
	b.reduce(z, opnd)
	return z
}

// SqrMod sets z = x * x mod m.
func (b *Barrett) SqrMod(z, x []Word) []Word {
	z = b.dst(z)
	b.operand(x)

	opnd := b.ws.opnd
	lo := len(opnd) - 2*len(x)
	zero(opnd[:lo])
	sqr(opnd[lo:], x)
	b.reduce(z, opnd)
	return z
}

// Neg sets z = -x mod m for x in [0, m).
func (b *Barrett) Neg(z, x []Word) []Word {
	z = b.dst(z)
	b.operand(x)

	if isZero(x) {
		zero(z)
		return z
	}
	r := b.ws.r[1:]
	copy(r, b.modulus)
	subx(r, x)
	copy(z, r)
	return z
}

// SubOne sets z = m - 1.
func (b *Barrett) SubOne(z []Word) []Word {
	z = b.dst(z)
	copy(z, b.modulus)
	subw(z, 1)
	return z
}
