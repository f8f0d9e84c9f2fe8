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

func TestInitInvalidSize(t *testing.T) {
	t.Parallel()

	b := &Barrett{}
	err := b.Init(0)
	assert.True(t, errors.Is(err, ErrInvalidSize))
	assert.True(t, b.Empty())

	err = b.Init(MaxWords + 1)
	assert.True(t, errors.Is(err, ErrInvalidSize))
	assert.Equal(t, 0, b.Size())

	require.NoError(t, b.Init(4))
	assert.Equal(t, 4, b.Size())
	assert.Len(t, b.Modulus(), 4)
	assert.Len(t, b.Mu(), 5)
	assert.Len(t, b.Result(), 4)
}

func TestSetModulusErrors(t *testing.T) {
	t.Parallel()

	b := &Barrett{}
	err := b.SetModulus(nil)
	assert.True(t, errors.Is(err, ErrInvalidSize))
	assert.True(t, b.Empty())

	err = b.SetModulus([]Word{0, 7})
	assert.Equal(t, ErrLeadingZero, err)
	assert.True(t, b.Empty())

	for _, m := range [][]Word{{1}, {1, 0}, {1, 0, 0}} {
		err = b.SetModulus(m)
		assert.Equal(t, ErrDegenerateModulus, err, "modulus %x", m)
		assert.True(t, b.Empty())
	}

	require.NoError(t, b.SetModulus([]Word{1, 1}))
	assert.False(t, b.Empty())
}

func TestMuMatchesBig(t *testing.T) {
	t.Parallel()

	src := newMathSource(10)
	for size := 1; size <= 8; size++ {
		for i := 0; i < 10; i++ {
			m := randomModulus(src, size)
			if i == 0 {
				// normalized already
				m[0] |= 0x80000000
			}
			b := newTestBarrett(t, m)

			dividend := new(big.Int).Lsh(big.NewInt(1), uint(64*size))
			want := new(big.Int).Quo(dividend, toBig(m))
			requireBig(t, want, toBig(b.Mu()), "mu of %x", m)

			// the modulus is restored after normalization
			assert.Equal(t, m, b.Modulus())
		}
	}
}

func TestMuIdempotent(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x00001234, 0x56789abc, 0xdef01235})
	first := append([]Word(nil), b.Mu()...)
	require.NoError(t, b.computeMu())
	assert.Equal(t, first, b.Mu())

	other := &Barrett{}
	require.NoError(t, other.SetModulus(b.Modulus()))
	assert.Equal(t, first, other.Mu())
}

func TestSetModulusHex(t *testing.T) {
	t.Parallel()

	b := &Barrett{}
	require.NoError(t, b.SetModulusHex("0x1000000000000000f"))
	assert.Equal(t, []Word{1, 0, 0xf}, b.Modulus())

	assert.Error(t, b.SetModulusHex("xyz"))
	assert.True(t, b.Empty())
}

func TestReduce(t *testing.T) {
	t.Parallel()

	src := newMathSource(11)
	for size := 1; size <= 6; size++ {
		for i := 0; i < 25; i++ {
			m := randomModulus(src, size)
			b := newTestBarrett(t, m)

			x := make([]Word, 2*size)
			src.Fill(x)
			if i%5 == 0 {
				// largest reducible value
				for j := range x {
					x[j] = 0xffffffff
				}
			}
			want := new(big.Int).Mod(toBig(x), toBig(m))
			got := b.Reduce(nil, x)
			requireBig(t, want, toBig(got), "%x mod %x", x, m)
			assert.True(t, cmp(got, m) < 0)

			short := x[size:]
			want = new(big.Int).Mod(toBig(short), toBig(m))
			z := make([]Word, size)
			assert.Equal(t, z, b.Reduce(z, short))
			assertBig(t, want, toBig(z))
		}
	}
}

func TestReduceAliasing(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x80000001, 0x00000003})
	x := []Word{0xffffffff, 0xfffffff0}
	b.Reduce(x, x)
	assertBig(t, new(big.Int).Mod(hexBig(t, "fffffffffffffff0"), hexBig(t, "8000000100000003")), toBig(x))
}

func TestModularArithmetic(t *testing.T) {
	t.Parallel()

	src := newMathSource(12)
	for size := 1; size <= 6; size++ {
		for i := 0; i < 20; i++ {
			m := randomModulus(src, size)
			b := newTestBarrett(t, m)
			bm := toBig(m)

			x := randomBelow(src, m)
			y := randomBelow(src, m)
			bx, by := toBig(x), toBig(y)

			want := new(big.Int).Add(bx, by)
			requireBig(t, want.Mod(want, bm), toBig(b.AddMod(nil, x, y)), "add")

			want = new(big.Int).Sub(bx, by)
			requireBig(t, want.Mod(want, bm), toBig(b.SubMod(nil, x, y)), "sub")

			want = new(big.Int).Mul(bx, by)
			requireBig(t, want.Mod(want, bm), toBig(b.MulMod(nil, x, y)), "mul")

			want = new(big.Int).Mul(bx, bx)
			requireBig(t, want.Mod(want, bm), toBig(b.SqrMod(nil, x)), "sqr")

			want = new(big.Int).Neg(bx)
			requireBig(t, want.Mod(want, bm), toBig(b.Neg(nil, x)), "neg")

			requireBig(t, new(big.Int).Sub(bm, big.NewInt(1)), toBig(b.SubOne(nil)), "m-1")
		}
	}
}

func TestShortOperands(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x00000007, 0xffffffff, 0xfffffff1})
	z := make([]Word, 3)

	b.MulMod(z, []Word{0x10000}, []Word{0x20000, 5})
	want := new(big.Int).Mul(big.NewInt(0x10000), hexBig(t, "2000000000005"))
	assertBig(t, want.Mod(want, toBig(b.Modulus())), toBig(z))

	b.AddMod(z, []Word{3}, []Word{4})
	assert.Equal(t, []Word{0, 0, 7}, z)

	b.SubMod(z, []Word{3}, []Word{4})
	assert.Equal(t, []Word{0x00000007, 0xffffffff, 0xfffffff0}, z)

	assert.Equal(t, []Word{0, 0, 0}, b.Neg(z, []Word{0}))
}

func TestOperandContract(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x12345678, 0x9abcdef1})
	assert.PanicsWithValue(t, "mp: operand larger than modulus size", func() {
		b.MulMod(nil, []Word{1, 2, 3}, []Word{1})
	})
	assert.PanicsWithValue(t, "mp: destination size does not match modulus size", func() {
		b.SqrMod(make([]Word, 1), []Word{1})
	})
	assert.PanicsWithValue(t, "mp: operand larger than twice the modulus size", func() {
		b.Reduce(nil, make([]Word, 5))
	})
	assert.PanicsWithValue(t, "mp: use of empty Barrett context", func() {
		(&Barrett{}).SubOne(nil)
	})
}

func TestCopyAndFree(t *testing.T) {
	t.Parallel()

	src := newTestBarrett(t, []Word{0x0badcafe, 0xdeadbeef})
	dst := &Barrett{}
	require.NoError(t, dst.Copy(src))
	assert.Equal(t, src.Modulus(), dst.Modulus())
	assert.Equal(t, src.Mu(), dst.Mu())

	// independent workspaces
	dst.MulMod(nil, []Word{1, 2}, []Word{3, 4})
	src.MulMod(nil, []Word{5, 6}, []Word{7, 8})
	want := new(big.Int).Mul(hexBig(t, "100000002"), hexBig(t, "300000004"))
	assertBig(t, want.Mod(want, toBig(src.Modulus())), toBig(dst.Result()))

	modulus := src.Modulus()
	src.Free()
	assert.True(t, src.Empty())
	assert.Nil(t, src.Modulus())
	assert.Equal(t, []Word{0, 0}, modulus)

	assert.Equal(t, ErrEmptyContext, dst.Copy(src))
	assert.True(t, dst.Empty())
}

func TestFreeWipesWorkspace(t *testing.T) {
	t.Parallel()

	b := newTestBarrett(t, []Word{0x0badcafe, 0xdeadbeef})
	b.PowMod(nil, []Word{0x12345678, 0x9abcdef0}, []Word{0xffffffff})
	b.Invert(nil, []Word{0, 3})
	ws := b.ws
	regions := [][]Word{ws.opnd, ws.q2, ws.r2, ws.r, ws.aux}
	mu := b.Mu()

	b.Free()
	for i, r := range regions {
		assert.Equal(t, make([]Word, len(r)), r, "region %d", i)
	}
	assert.Equal(t, make([]Word, len(mu)), mu)
}
