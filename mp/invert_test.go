/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvertScenarios(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{15})
	z := make([]Word, 1)
	assert.True(t, b.Invert(z, []Word{4}))
	assert.Equal(t, []Word{4}, z)

	b = newTestBarrett(t, []Word{9})
	z = []Word{0xabcd}
	assert.False(t, b.Invert(z, []Word{3}))
	assert.False(t, b.Invert(z, []Word{6}))
	assert.False(t, b.Invert(z, []Word{0}))
	assert.Equal(t, []Word{0xabcd}, z, "destination untouched on failure")
	assert.True(t, b.Invert(z, []Word{2}))
	assert.Equal(t, []Word{5}, z)
}

func TestInvertEvenModulus(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{10})
	z := make([]Word, 1)
	assert.True(t, b.Invert(z, []Word{3}))
	assert.Equal(t, []Word{7}, z)
	assert.True(t, b.Invert(z, []Word{1}))
	assert.Equal(t, []Word{1}, z)
	assert.False(t, b.Invert(z, []Word{4}))
	assert.False(t, b.Invert(z, []Word{5}))

	b = newTestBarrett(t, []Word{0x80000000, 0})
	assert.True(t, b.Invert(nil, []Word{0, 3}))
	want := new(big.Int).ModInverse(big.NewInt(3), hexBig(t, "8000000000000000"))
	assertBig(t, want, toBig(b.Result()))
}

func TestInvertMatchesBig(t *testing.T) {
	t.Parallel()

	src := newMathSource(30)
	for size := 1; size <= 6; size++ {
		for i := 0; i < 30; i++ {
			m := randomModulus(src, size)
			if i%2 == 0 {
				m[size-1] |= 1
			} else {
				m[size-1] &^= 1
			}
			b := newTestBarrett(t, m)
			bm := toBig(m)

			x := randomBelow(src, m)
			if i%7 == 0 {
				// share a factor with the modulus
				g := new(big.Int).GCD(nil, nil, toBig(x), bm)
				if g.Cmp(big.NewInt(1)) == 0 {
					x = words(new(big.Int).Mod(new(big.Int).Mul(toBig(x), big.NewInt(3)), bm), size)
				}
			}

			z := make([]Word, size)
			ok := b.Invert(z, x)
			want := new(big.Int).ModInverse(toBig(x), bm)
			if want == nil {
				assert.False(t, ok, "%x mod %x has no inverse", x, m)
				continue
			}
			require.True(t, ok, "%x mod %x is invertible", x, m)
			requireBig(t, want, toBig(z), "%x^-1 mod %x", x, m)

			one := b.MulMod(nil, x, z)
			assert.True(t, isOne(one))
		}
	}
}

func TestInvertAliasing(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x0000ffff, 0xfffffffe})
	x := []Word{0, 12345}
	require.True(t, b.Invert(x, x))
	want := new(big.Int).ModInverse(big.NewInt(12345), hexBig(t, "fffffffffffe"))
	assertBig(t, want, toBig(x))
}

func TestRandomInvertibleResidue(t *testing.T) {
	t.Parallel()

	src := newMathSource(31)
	for _, m := range [][]Word{{0x00000004, 0x00000000, 0x0000003c}, {0x9fffffff, 0xfffffffb}} {
		b := newTestBarrett(t, m)
		inv := make([]Word, len(m))
		for i := 0; i < 10; i++ {
			z, err := b.RandomInvertibleResidue(src, nil, inv)
			require.NoError(t, err)
			assert.True(t, isOne(b.MulMod(make([]Word, len(m)), z, inv)))
		}
	}

	b := newTestBarrett(t, []Word{101})
	assert.Panics(t, func() { b.RandomInvertibleResidue(src, nil, nil) })
	buf := make([]Word, 1)
	assert.Panics(t, func() { b.RandomInvertibleResidue(src, buf, buf) })

	_, err := b.RandomInvertibleResidue(&failingSource{}, nil, buf)
	assert.Equal(t, errExhausted, errors.Cause(err))
}
