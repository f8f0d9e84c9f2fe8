/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/rsa"
	"io"
	"math/big"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
)

// rsaExponent is the public exponent of generated keys.
const rsaExponent = 65537

// GenerateRSAKey builds an RSA key of the given modulus length from two
// probable primes of half that length drawn from rng. bits must be a
// positive multiple of 64.
//
// The primes satisfy gcd(p-1, e) = gcd(q-1, e) = 1 and p > q; d is
// e^-1 mod (p-1)(q-1) and the CRT values are d mod (p-1), d mod (q-1) and
// q^-1 mod p.
func GenerateRSAKey(rng mp.RandomSource, bits int) (*rsa.PrivateKey, error) {
	if bits <= 0 || bits%64 != 0 {
		return nil, errors.Errorf("Invalid RSA modulus length [%d]. It must be a positive multiple of 64", bits)
	}
	words := bits / 64
	e := new(mp.Number).SetWord(rsaExponent)

	for attempt := 1; ; attempt++ {
		pb, err := mp.RandomPrime(rng, words, mp.Trials(bits/2), e)
		if err != nil {
			return nil, errors.WithMessage(err, "Failed generating prime p")
		}
		qb, err := mp.RandomPrime(rng, words, mp.Trials(bits/2), e)
		if err != nil {
			pb.Free()
			return nil, errors.WithMessage(err, "Failed generating prime q")
		}

		key, ok := rsaKeyFromPrimes(pb, qb, e, bits)
		pb.Free()
		qb.Free()
		if ok {
			logger.Debugf("Generated %d bit RSA key after %d attempts", bits, attempt)
			return key, nil
		}
	}
}

// rsaKeyFromPrimes assembles the key, or reports false when the primes are
// equal or their product falls short of bits.
func rsaKeyFromPrimes(pb, qb *mp.Barrett, e *mp.Number, bits int) (*rsa.PrivateKey, bool) {
	p := new(mp.Number).Set(pb.Modulus())
	q := new(mp.Number).Set(qb.Modulus())
	defer p.Free()
	defer q.Free()

	switch p.Cmp(q) {
	case 0:
		return nil, false
	case -1:
		p, q = q, p
		pb, qb = qb, pb
	}

	n := new(mp.Number).Mul(p, q)
	if n.BitLen() != bits {
		return nil, false
	}

	pm := new(mp.Number).Copy(p)
	pm.SubWord(1)
	qm := new(mp.Number).Copy(q)
	qm.SubWord(1)
	phi := new(mp.Number).Mul(pm, qm)
	defer pm.Free()
	defer qm.Free()
	defer phi.Free()

	d := new(mp.Number)
	if !d.Inverse(e, phi) {
		return nil, false
	}
	d1 := new(mp.Number).Mod(d, pm)
	d2 := new(mp.Number).Mod(d, qm)

	// q < p and both have the same size, so q is already a residue mod p
	c := make([]mp.Word, pb.Size())
	if !pb.Invert(c, q.Words()) {
		return nil, false
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: n.Big(), E: rsaExponent},
		D:         d.Big(),
		Primes:    []*big.Int{p.Big(), q.Big()},
	}
	key.Precomputed.Dp = d1.Big()
	key.Precomputed.Dq = d2.Big()
	key.Precomputed.Qinv = new(mp.Number).Set(c).Big()

	d.Free()
	d1.Free()
	d2.Free()
	return key, true
}

type rsaKeyGenerator struct {
	length int
	rng    mp.RandomSource
}

func (kg *rsaKeyGenerator) KeyGen(opts csp.KeyGenOpts) (csp.Key, error) {
	bits := kg.length
	if o, ok := opts.(*csp.RSAKeyGenOpts); ok && o.Bits != 0 {
		bits = o.Bits
	}

	key, err := GenerateRSAKey(kg.rng, bits)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed generating RSA %d key", bits)
	}
	if err := key.Validate(); err != nil {
		return nil, errors.Wrap(err, "Generated RSA key failed validation")
	}
	key.Precompute()

	return &rsaPrivateKey{key}, nil
}

type rsaGoPublicKeyImportOptsKeyImporter struct{}

func (*rsaGoPublicKeyImportOptsKeyImporter) KeyImport(raw interface{}, opts csp.KeyImportOpts) (csp.Key, error) {
	lowLevelKey, ok := raw.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("Invalid raw material. Expected *rsa.PublicKey.")
	}

	return &rsaPublicKey{lowLevelKey}, nil
}

type rsaSigner struct {
	prng io.Reader
}

func (s *rsaSigner) Sign(k csp.Key, digest []byte, opts csp.SignerOpts) ([]byte, error) {
	if opts == nil {
		return nil, errors.New("Invalid options. Must be different from nil.")
	}

	return k.(*rsaPrivateKey).privKey.Sign(s.prng, digest, opts)
}

type rsaPrivateKeyVerifier struct{}

func (v *rsaPrivateKeyVerifier) Verify(k csp.Key, signature, digest []byte, opts csp.SignerOpts) (bool, error) {
	return verifyRSA(&k.(*rsaPrivateKey).privKey.PublicKey, signature, digest, opts)
}

type rsaPublicKeyKeyVerifier struct{}

func (v *rsaPublicKeyKeyVerifier) Verify(k csp.Key, signature, digest []byte, opts csp.SignerOpts) (bool, error) {
	return verifyRSA(k.(*rsaPublicKey).pubKey, signature, digest, opts)
}

func verifyRSA(pub *rsa.PublicKey, signature, digest []byte, opts csp.SignerOpts) (bool, error) {
	if opts == nil {
		return false, errors.New("Invalid options. It must not be nil.")
	}

	var err error
	switch o := opts.(type) {
	case *rsa.PSSOptions:
		err = rsa.VerifyPSS(pub, o.Hash, digest, signature, o)
	default:
		err = rsa.VerifyPKCS1v15(pub, opts.HashFunc(), digest, signature)
	}
	return err == nil, nil
}
