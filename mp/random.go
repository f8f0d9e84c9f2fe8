/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mp

import (
	"github.com/pkg/errors"
)

// RandomSource fills dst with random words. Errors are returned to the caller
// of the consuming operation unchanged apart from wrapping; nothing retries.
type RandomSource interface {
	Fill(dst []Word) error
}

// RandomResidue sets z to a uniformly drawn residue in [2, m-2].
func (b *Barrett) RandomResidue(rng RandomSource, z []Word) ([]Word, error) {
	return b.randomResidue(rng, b.dst(z), false)
}

// RandomOddResidue sets z to a random odd residue in [2, m-2].
func (b *Barrett) RandomOddResidue(rng RandomSource, z []Word) ([]Word, error) {
	return b.randomResidue(rng, b.dst(z), true)
}

func (b *Barrett) randomResidue(rng RandomSource, z []Word, oddOnly bool) ([]Word, error) {
	// [2, m-2] is empty for m <= 3 and holds no odd value for m = 4
	if b.size == 1 && (b.modulus[0] <= 3 || oddOnly && b.modulus[0] == 4) {
		return z, ErrSmallModulus
	}

	bound := b.ws.aux[:b.size]
	copy(bound, b.modulus)
	subw(bound, 1)
	mask := wordMask >> uint(mszcnt(b.modulus))

	for {
		if err := rng.Fill(z); err != nil {
			return z, errors.Wrap(err, "mp: random source failed")
		}
		z[0] &= mask
		if oddOnly {
			setLSB(z)
		}
		for ge(z, bound) {
			sub(z, bound)
			if oddOnly {
				setLSB(z)
			}
		}
		if !leOne(z) {
			return z, nil
		}
	}
}

// RandomInvertibleResidue draws residues until one is invertible, leaving it
// in z and its inverse in inv. For an even modulus only odd residues are
// drawn. inv must be a distinct, non-nil buffer of the modulus size.
func (b *Barrett) RandomInvertibleResidue(rng RandomSource, z, inv []Word) ([]Word, error) {
	z = b.dst(z)
	if inv == nil {
		panic("mp: nil inverse destination")
	}
	inv = b.dst(inv)
	if &z[0] == &inv[0] {
		panic("mp: residue and inverse destinations alias")
	}

	for {
		var err error
		if even(b.modulus) {
			_, err = b.RandomOddResidue(rng, z)
		} else {
			_, err = b.RandomResidue(rng, z)
		}
		if err != nil {
			return z, err
		}
		if b.Invert(inv, z) {
			return z, nil
		}
	}
}
