/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Number is an unsigned integer whose word length varies from call to call.
// A Number exclusively owns its words; resizing reallocates and Free wipes
// before releasing.
type Number struct {
	data []Word
}

// NewNumber returns a zero Number of the given size.
func NewNumber(size int) *Number {
	return &Number{data: make([]Word, size)}
}

// NumberFromHex parses a hexadecimal string into a new Number.
func NumberFromHex(s string) (*Number, error) {
	n := &Number{}
	if err := n.SetHex(s); err != nil {
		return nil, err
	}
	return n, nil
}

func (z *Number) Size() int { return len(z.data) }

// Words returns the number's words, most significant first.
func (z *Number) Words() []Word { return z.data }

// Resize changes the word length of z, keeping the least significant words.
func (z *Number) Resize(size int) {
	if size == len(z.data) {
		return
	}
	data := make([]Word, size)
	setx(data, z.data)
	zero(z.data)
	z.data = data
}

// Set copies words into z, taking their length as the new size.
func (z *Number) Set(words []Word) *Number {
	if len(z.data) != len(words) {
		z.Wipe()
		z.data = make([]Word, len(words))
	}
	copy(z.data, words)
	return z
}

// SetWord sets z to a one word value.
func (z *Number) SetWord(w Word) *Number {
	return z.Set([]Word{w})
}

func (z *Number) Copy(src *Number) *Number {
	if z == src {
		return z
	}
	return z.Set(src.data)
}

// SetHex parses s, with or without a 0x prefix.
func (z *Number) SetHex(s string) error {
	words, err := parseHex(s)
	if err != nil {
		return err
	}
	z.Set(words)
	return nil
}

// Hex formats z in lower case hexadecimal without leading zeros.
func (z *Number) Hex() string {
	t := trim(z.data)
	if len(t) == 0 {
		return "0"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%x", t[0])
	for _, w := range t[1:] {
		fmt.Fprintf(&sb, "%08x", w)
	}
	return sb.String()
}

func (z *Number) String() string { return z.Hex() }

// SetBytes interprets buf as a big-endian integer.
func (z *Number) SetBytes(buf []byte) *Number {
	return z.Set(bytesToWords(buf))
}

// Bytes returns the big-endian encoding of all of z's words.
func (z *Number) Bytes() []byte {
	return wordsToBytes(z.data)
}

// SetBig sets z from a non-negative big.Int.
func (z *Number) SetBig(x *big.Int) *Number {
	if x.Sign() < 0 {
		panic("mp: negative value")
	}
	return z.SetBytes(x.Bytes())
}

func (z *Number) Big() *big.Int {
	return new(big.Int).SetBytes(z.Bytes())
}

// Wipe zeroes z's words without releasing them.
func (z *Number) Wipe() {
	zero(z.data)
}

// Free wipes and releases z's words.
func (z *Number) Free() {
	z.Wipe()
	z.data = nil
}

func (z *Number) IsZero() bool { return len(z.data) == 0 || isZero(z.data) }

func (z *Number) IsOne() bool { return len(z.data) > 0 && isOne(z.data) }

// Cmp compares z and y by value regardless of their sizes.
func (z *Number) Cmp(y *Number) int {
	if len(z.data) == 0 || len(y.data) == 0 {
		switch {
		case !z.IsZero():
			return 1
		case !y.IsZero():
			return -1
		}
		return 0
	}
	return cmpx(z.data, y.data)
}

func (z *Number) BitLen() int {
	if len(z.data) == 0 {
		return 0
	}
	return bitLen(z.data)
}

// AddWord adds w to z in place and returns the carry.
func (z *Number) AddWord(w Word) Word {
	return addw(z.data, w)
}

// SubWord subtracts w from z in place and returns the borrow.
func (z *Number) SubWord(w Word) Word {
	return subw(z.data, w)
}

// Add adds x to z in place, modulo 2^(32*z.Size()), and returns the carry.
// Words of x beyond the size of z are ignored.
func (z *Number) Add(x *Number) Word {
	if len(z.data) == 0 || len(x.data) == 0 {
		return 0
	}
	return addx(z.data, x.data)
}

// Sub subtracts x from z in place, modulo 2^(32*z.Size()), and returns the
// borrow.
func (z *Number) Sub(x *Number) Word {
	if len(z.data) == 0 || len(x.data) == 0 {
		return 0
	}
	return subx(z.data, x.data)
}

// Mul sets z = x * y with size len(x) + len(y).
func (z *Number) Mul(x, y *Number) *Number {
	prod := make([]Word, len(x.data)+len(y.data))
	if len(x.data) > 0 && len(y.data) > 0 {
		mul(prod, x.data, y.data)
	}
	z.Wipe()
	z.data = prod
	return z
}

// Mod sets z = x mod m with the size of m. It panics if m is zero.
func (z *Number) Mod(x, m *Number) *Number {
	if m.IsZero() {
		panic("mp: division by zero")
	}
	r := make([]Word, len(m.data))
	if len(x.data) > 0 {
		q := make([]Word, len(x.data))
		ws := make([]Word, 2*len(x.data)+2)
		divmod(q, r, x.data, m.data, ws)
		zero(q)
		zero(ws)
	}
	z.Wipe()
	z.data = r
	return z
}

// Inverse sets z = x^-1 mod m, sized like m, and reports whether the
// inverse exists.
func (z *Number) Inverse(x, m *Number) bool {
	if m.IsZero() {
		return false
	}
	mw := trim(m.data)

	b := &Barrett{}
	switch err := b.SetModulus(mw); err {
	case nil:
	case ErrDegenerateModulus:
		// mu does not fit for a power of the radix; inversion never reduces,
		// so the context is usable for Invert alone.
		if err := b.Init(len(mw)); err != nil {
			return false
		}
		copy(b.modulus, mw)
	default:
		return false
	}
	defer b.Free()

	xr := new(Number).Mod(x, &Number{data: mw})
	defer xr.Free()

	inv := make([]Word, len(mw))
	if !b.Invert(inv, xr.data) {
		return false
	}
	z.Wipe()
	z.data = inv
	if len(m.data) > len(mw) {
		z.Resize(len(m.data))
	}
	return true
}

func parseHex(s string) ([]Word, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return nil, errors.New("mp: empty hexadecimal string")
	}
	if pad := len(s) % 8; pad != 0 {
		s = strings.Repeat("0", 8-pad) + s
	}
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "mp: invalid hexadecimal string")
	}
	return bytesToWords(buf), nil
}

func bytesToWords(buf []byte) []Word {
	words := make([]Word, (len(buf)+3)/4)
	for i := range buf {
		// i counts from the least significant byte
		j := len(buf) - 1 - i
		words[len(words)-1-i/4] |= Word(buf[j]) << (8 * uint(i%4))
	}
	return words
}

func wordsToBytes(words []Word) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		buf[4*i] = byte(w >> 24)
		buf[4*i+1] = byte(w >> 16)
		buf[4*i+2] = byte(w >> 8)
		buf[4*i+3] = byte(w)
	}
	return buf
}
