/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mathSource struct {
	r *rand.Rand
}

func newMathSource(seed int64) *mathSource {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathSource) Fill(dst []Word) error {
	for i := range dst {
		dst[i] = s.r.Uint32()
	}
	return nil
}

type failingSource struct {
	calls int
}

var errExhausted = errors.New("entropy exhausted")

func (s *failingSource) Fill([]Word) error {
	s.calls++
	return errExhausted
}

// words returns x as a vector of exactly size words.
func words(x *big.Int, size int) []Word {
	n := new(Number).SetBig(x)
	n.Resize(size)
	return n.Words()
}

func toBig(x []Word) *big.Int {
	return new(Number).Set(x).Big()
}

func hexBig(t *testing.T, s string) *big.Int {
	x, ok := new(big.Int).SetString(s, 16)
	require.True(t, ok, "bad hex %s", s)
	return x
}

// randomModulus returns a size-word modulus with a non-zero top word that is
// not a power of the radix.
func randomModulus(src *mathSource, size int) []Word {
	m := make([]Word, size)
	for {
		src.Fill(m)
		if m[0] == 0 {
			continue
		}
		if m[0] == 1 && isZero(m[1:]) {
			continue
		}
		return m
	}
}

func randomBelow(src *mathSource, m []Word) []Word {
	x := make([]Word, len(m))
	src.Fill(x)
	return words(new(big.Int).Mod(toBig(x), toBig(m)), len(m))
}

func newTestBarrett(t *testing.T, m []Word) *Barrett {
	b, err := NewBarrett(m)
	require.NoError(t, err)
	return b
}

func assertBig(t *testing.T, want, got *big.Int, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Equal(t, want.Text(16), got.Text(16), msgAndArgs...)
}

func requireBig(t *testing.T, want, got *big.Int, msgAndArgs ...interface{}) {
	t.Helper()
	require.Equal(t, want.Text(16), got.Text(16), msgAndArgs...)
}
