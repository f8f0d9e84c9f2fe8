/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"math/big"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
)

// symmetricKey is the raw material shared by the block cipher and keyed
// hash keys. tag separates the SKIs of equal material used by different
// algorithms.
type symmetricKey struct {
	key        []byte
	tag        byte
	exportable bool
}

// Bytes converts this key to its byte representation,
// if this operation is allowed.
func (k *symmetricKey) Bytes() ([]byte, error) {
	if k.exportable {
		return append([]byte(nil), k.key...), nil
	}

	return nil, errors.New("Not supported.")
}

// SKI returns the subject key identifier of this key.
func (k *symmetricKey) SKI() []byte {
	hash := sha256.New()
	hash.Write([]byte{k.tag})
	hash.Write(k.key)
	return hash.Sum(nil)
}

// Symmetric returns true if this key is a symmetric key,
// false if this key is asymmetric
func (k *symmetricKey) Symmetric() bool {
	return true
}

// Private returns true if this key is a private key,
// false otherwise.
func (k *symmetricKey) Private() bool {
	return true
}

// PublicKey returns the corresponding public key part of an asymmetric public/private key pair.
// This method returns an error in symmetric key schemes.
func (k *symmetricKey) PublicKey() (csp.Key, error) {
	return nil, errors.New("Cannot call this method on a symmetric key.")
}

func (k *symmetricKey) material() []byte { return k.key }

// Destroy wipes the key material.
func (k *symmetricKey) Destroy() {
	wipe(k.key)
}

type aesKey struct{ symmetricKey }

type blowfishKey struct{ symmetricKey }

type hmacKey struct{ symmetricKey }

func newAESKey(raw []byte, exportable bool) *aesKey {
	return &aesKey{symmetricKey{key: raw, tag: 0x01, exportable: exportable}}
}

func newBlowfishKey(raw []byte, exportable bool) *blowfishKey {
	return &blowfishKey{symmetricKey{key: raw, tag: 0x02, exportable: exportable}}
}

func newHMACKey(raw []byte, exportable bool) *hmacKey {
	return &hmacKey{symmetricKey{key: raw, tag: 0x03, exportable: exportable}}
}

type keyMaterial interface {
	material() []byte
}

type rsaPrivateKey struct {
	privKey *rsa.PrivateKey
}

// Bytes converts this key to its byte representation,
// if this operation is allowed.
func (k *rsaPrivateKey) Bytes() ([]byte, error) {
	return nil, errors.New("Not supported.")
}

// SKI returns the subject key identifier of this key.
func (k *rsaPrivateKey) SKI() []byte {
	if k.privKey == nil {
		return nil
	}

	// Hash public key
	hash := sha256.New()
	hash.Write(x509.MarshalPKCS1PublicKey(&k.privKey.PublicKey))
	return hash.Sum(nil)
}

// Symmetric returns true if this key is a symmetric key,
// false if this key is asymmetric
func (k *rsaPrivateKey) Symmetric() bool {
	return false
}

// Private returns true if this key is a private key,
// false otherwise.
func (k *rsaPrivateKey) Private() bool {
	return true
}

// PublicKey returns the corresponding public key part of an asymmetric public/private key pair.
// This method returns an error in symmetric key schemes.
func (k *rsaPrivateKey) PublicKey() (csp.Key, error) {
	return &rsaPublicKey{&k.privKey.PublicKey}, nil
}

// Destroy zeroes the private exponent, the primes and the CRT values.
func (k *rsaPrivateKey) Destroy() {
	zeroInts := func(xs ...*big.Int) {
		for _, x := range xs {
			if x != nil {
				x.SetInt64(0)
			}
		}
	}
	zeroInts(k.privKey.D, k.privKey.Precomputed.Dp, k.privKey.Precomputed.Dq, k.privKey.Precomputed.Qinv)
	zeroInts(k.privKey.Primes...)
}

type rsaPublicKey struct {
	pubKey *rsa.PublicKey
}

// Bytes converts this key to its byte representation,
// if this operation is allowed.
func (k *rsaPublicKey) Bytes() (raw []byte, err error) {
	if k.pubKey == nil {
		return nil, errors.New("Failed marshalling key. Key is nil.")
	}
	raw, err = x509.MarshalPKIXPublicKey(k.pubKey)
	if err != nil {
		return nil, errors.Wrap(err, "Failed marshalling key")
	}
	return
}

// SKI returns the subject key identifier of this key.
func (k *rsaPublicKey) SKI() []byte {
	if k.pubKey == nil {
		return nil
	}

	// Hash public key
	hash := sha256.New()
	hash.Write(x509.MarshalPKCS1PublicKey(k.pubKey))
	return hash.Sum(nil)
}

// Symmetric returns true if this key is a symmetric key,
// false if this key is asymmetric
func (k *rsaPublicKey) Symmetric() bool {
	return false
}

// Private returns true if this key is a private key,
// false otherwise.
func (k *rsaPublicKey) Private() bool {
	return false
}

// PublicKey returns the corresponding public key part of an asymmetric public/private key pair.
// This method returns an error in symmetric key schemes.
func (k *rsaPublicKey) PublicKey() (csp.Key, error) {
	return k, nil
}

// dlPrivateKey is a discrete-log key pair: x and y = G^x mod P.
type dlPrivateKey struct {
	domain *csp.DLDomainParams
	x      *mp.Number
	y      *mp.Number
}

// Bytes converts this key to its byte representation,
// if this operation is allowed.
func (k *dlPrivateKey) Bytes() ([]byte, error) {
	return nil, errors.New("Not supported.")
}

// SKI returns the subject key identifier of this key.
func (k *dlPrivateKey) SKI() []byte {
	return dlSKI(k.domain, k.y)
}

// Symmetric returns true if this key is a symmetric key,
// false if this key is asymmetric
func (k *dlPrivateKey) Symmetric() bool {
	return false
}

// Private returns true if this key is a private key,
// false otherwise.
func (k *dlPrivateKey) Private() bool {
	return true
}

// PublicKey returns the corresponding public key part of an asymmetric public/private key pair.
// This method returns an error in symmetric key schemes.
func (k *dlPrivateKey) PublicKey() (csp.Key, error) {
	return &dlPublicKey{domain: k.domain, y: k.y}, nil
}

// Destroy wipes the private value.
func (k *dlPrivateKey) Destroy() {
	k.x.Free()
}

type dlPublicKey struct {
	domain *csp.DLDomainParams
	y      *mp.Number
}

// Bytes returns the public value y, big-endian, sized like P.
func (k *dlPublicKey) Bytes() ([]byte, error) {
	return fixedBytes(k.y, k.domain.P), nil
}

// SKI returns the subject key identifier of this key.
func (k *dlPublicKey) SKI() []byte {
	return dlSKI(k.domain, k.y)
}

// Symmetric returns true if this key is a symmetric key,
// false if this key is asymmetric
func (k *dlPublicKey) Symmetric() bool {
	return false
}

// Private returns true if this key is a private key,
// false otherwise.
func (k *dlPublicKey) Private() bool {
	return false
}

// PublicKey returns the corresponding public key part of an asymmetric public/private key pair.
// This method returns an error in symmetric key schemes.
func (k *dlPublicKey) PublicKey() (csp.Key, error) {
	return k, nil
}

// Equal reports whether both keys share domain parameters and public value.
func (k *dlPublicKey) Equal(other *dlPublicKey) bool {
	return other != nil &&
		equalDomains(k.domain, other.domain) &&
		k.y.Cmp(other.y) == 0
}

func dlSKI(domain *csp.DLDomainParams, y *mp.Number) []byte {
	hash := sha256.New()
	hash.Write(domain.P.Bytes())
	hash.Write(fixedBytes(y, domain.P))
	return hash.Sum(nil)
}

// fixedBytes encodes x big-endian in as many bytes as the significant
// words of m occupy.
func fixedBytes(x, m *mp.Number) []byte {
	n := 4 * len(significant(m))
	raw := x.Bytes()
	for len(raw) > n && raw[0] == 0 {
		raw = raw[1:]
	}
	if len(raw) < n {
		raw = append(make([]byte, n-len(raw)), raw...)
	}
	return raw
}

// significant returns the words of n without leading zero words.
func significant(n *mp.Number) []mp.Word {
	w := n.Words()
	for len(w) > 1 && w[0] == 0 {
		w = w[1:]
	}
	return w
}
