/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"sync"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20"
)

func newEntropySource(opts csp.RandomOpts) (io.Reader, error) {
	switch opts.(type) {
	case *csp.URandomOpts:
		return rand.Reader, nil
	}
	return nil, errors.Errorf("Unsupported entropy source provided [%v]", opts)
}

// fillWords reads 4*len(dst) bytes from r into dst, most significant byte
// first.
func fillWords(r io.Reader, dst []mp.Word) error {
	buf := make([]byte, 4*len(dst))
	defer wipe(buf)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = binary.BigEndian.Uint32(buf[4*i:])
	}
	return nil
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

func readEntropy(entropy io.Reader, n int) ([]byte, error) {
	seed := make([]byte, n)
	if _, err := io.ReadFull(entropy, seed); err != nil {
		return nil, errors.Wrap(err, "Failed reading entropy")
	}
	return seed, nil
}

const fips186StateWords = sha1.Size / 4

// fips186Generator is the general purpose generator of FIPS 186: each step
// outputs w = G(XKEY) and updates XKEY = (1 + XKEY + w) mod 2^160. G hashes
// the state zero-padded to a 64 byte block.
type fips186Generator struct {
	mutex  sync.Mutex
	xkey   *mp.Number
	digest [sha1.Size]byte
	remain int
}

func newFIPS186Generator(entropy io.Reader) (csp.RandomGenerator, error) {
	seed, err := readEntropy(entropy, sha1.Size)
	if err != nil {
		return nil, err
	}
	defer wipe(seed)

	g := &fips186Generator{xkey: mp.NewNumber(fips186StateWords)}
	g.xkey.Add(new(mp.Number).SetBytes(seed))
	return g, nil
}

// Seed adds data, taken as a big-endian integer, into XKEY.
func (g *fips186Generator) Seed(data []byte) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	s := new(mp.Number).SetBytes(data)
	g.xkey.Add(s)
	s.Free()
	g.remain = 0
	return nil
}

func (g *fips186Generator) next() {
	var block [64]byte
	copy(block[:], g.xkey.Bytes())
	g.digest = sha1.Sum(block[:])
	wipe(block[:])

	w := new(mp.Number).SetBytes(g.digest[:])
	g.xkey.AddWord(1)
	g.xkey.Add(w)
	w.Free()
	g.remain = sha1.Size
}

func (g *fips186Generator) Read(p []byte) (int, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for n := 0; n < len(p); {
		if g.remain == 0 {
			g.next()
		}
		c := copy(p[n:], g.digest[sha1.Size-g.remain:])
		g.remain -= c
		n += c
	}
	return len(p), nil
}

func (g *fips186Generator) Fill(dst []mp.Word) error {
	return fillWords(g, dst)
}

const (
	mtN       = 624
	mtM       = 397
	mtMatrixA = 0x9908b0df
	mtUpper   = 0x80000000
	mtLower   = 0x7fffffff
)

// mtGenerator is the MT19937 Mersenne Twister. It is not suitable for key
// material; it is kept for reproducible simulations.
type mtGenerator struct {
	mutex sync.Mutex
	state [mtN]uint32
	index int
}

func newMTGenerator(entropy io.Reader) (csp.RandomGenerator, error) {
	seed, err := readEntropy(entropy, 4*mtN)
	if err != nil {
		return nil, err
	}
	defer wipe(seed)

	key := make([]uint32, mtN)
	for i := range key {
		key[i] = binary.BigEndian.Uint32(seed[4*i:])
	}
	g := &mtGenerator{}
	g.seedArray(key)
	return g, nil
}

func (g *mtGenerator) seedWord(s uint32) {
	g.state[0] = s
	for i := 1; i < mtN; i++ {
		prev := g.state[i-1]
		g.state[i] = 1812433253*(prev^(prev>>30)) + uint32(i)
	}
	g.index = mtN
}

func (g *mtGenerator) seedArray(key []uint32) {
	g.seedWord(19650218)
	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		prev := g.state[i-1]
		g.state[i] = (g.state[i] ^ ((prev ^ (prev >> 30)) * 1664525)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			g.state[0] = g.state[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		prev := g.state[i-1]
		g.state[i] = (g.state[i] ^ ((prev ^ (prev >> 30)) * 1566083941)) - uint32(i)
		i++
		if i >= mtN {
			g.state[0] = g.state[mtN-1]
			i = 1
		}
	}
	g.state[0] = 0x80000000
	g.index = mtN
}

func (g *mtGenerator) generate() {
	for i := 0; i < mtN; i++ {
		y := g.state[i]&mtUpper | g.state[(i+1)%mtN]&mtLower
		v := g.state[(i+mtM)%mtN] ^ (y >> 1)
		if y&1 != 0 {
			v ^= mtMatrixA
		}
		g.state[i] = v
	}
	g.index = 0
}

func (g *mtGenerator) next() uint32 {
	if g.index >= mtN {
		g.generate()
	}
	y := g.state[g.index]
	g.index++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

// Seed xors data, in 32 bit big-endian words, into the state.
func (g *mtGenerator) Seed(data []byte) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for i := 0; 4*i+4 <= len(data); i++ {
		g.state[i%mtN] ^= binary.BigEndian.Uint32(data[4*i:])
	}
	g.index = mtN
	return nil
}

func (g *mtGenerator) Read(p []byte) (int, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	var word [4]byte
	for n := 0; n < len(p); n += 4 {
		binary.BigEndian.PutUint32(word[:], g.next())
		copy(p[n:], word[:])
	}
	return len(p), nil
}

func (g *mtGenerator) Fill(dst []mp.Word) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	for i := range dst {
		dst[i] = g.next()
	}
	return nil
}

// chachaGenerator outputs the ChaCha20 keystream under a key drawn from
// entropy and an all-zero nonce.
type chachaGenerator struct {
	mutex  sync.Mutex
	cipher *chacha20.Cipher
}

func newChaChaGenerator(entropy io.Reader) (csp.RandomGenerator, error) {
	key, err := readEntropy(entropy, chacha20.KeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(key)

	g := &chachaGenerator{}
	if err := g.rekey(key); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *chachaGenerator) rekey(key []byte) error {
	c, err := chacha20.NewUnauthenticatedCipher(key, make([]byte, chacha20.NonceSize))
	if err != nil {
		return errors.Wrap(err, "Failed creating ChaCha20 cipher")
	}
	g.cipher = c
	return nil
}

// Seed rekeys the generator with the next 32 bytes of keystream xored with
// SHA-256(data).
func (g *chachaGenerator) Seed(data []byte) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	mix := sha256.Sum256(data)
	key := make([]byte, chacha20.KeySize)
	defer wipe(key)
	g.cipher.XORKeyStream(key, mix[:])
	return g.rekey(key)
}

func (g *chachaGenerator) Read(p []byte) (int, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	wipe(p)
	g.cipher.XORKeyStream(p, p)
	return len(p), nil
}

func (g *chachaGenerator) Fill(dst []mp.Word) error {
	return fillWords(g, dst)
}
