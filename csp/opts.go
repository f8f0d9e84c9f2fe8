/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package csp

import (
	"io"

	"github.com/hyperledger/fabric-mpcsp/mp"
)

const (
	// RSA at default security level
	RSA = "RSA"

	// DL discrete-logarithm keys over a prime-order subgroup of Z_p*
	DL = "DL"

	// DHAES Diffie-Hellman integrated encryption over DL keys
	DHAES = "DHAES"

	// AES Advanced Encryption Standard at default security level
	AES = "AES"

	// BLOWFISH Blowfish block cipher with a 128 bit key
	BLOWFISH = "BLOWFISH"

	// HMAC keyed-hash message authentication code
	HMAC = "HMAC"
)

// RSAKeyGenOpts contains options for RSA key generation. Bits is the modulus
// length; zero selects the length of the provider's security level.
type RSAKeyGenOpts struct {
	Bits      int
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *RSAKeyGenOpts) Algorithm() string {
	return RSA
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *RSAKeyGenOpts) Ephemeral() bool {
	return opts.Temporary
}

// RSAGoPublicKeyImportOpts contains options for RSA key importation from rsa.PublicKey
type RSAGoPublicKeyImportOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *RSAGoPublicKeyImportOpts) Algorithm() string {
	return RSA
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *RSAGoPublicKeyImportOpts) Ephemeral() bool {
	return opts.Temporary
}

// DLDomainParams describes a subgroup of prime order Q in Z_P*, where
// P = Q*R + 1 and G generates the subgroup.
type DLDomainParams struct {
	P *mp.Number
	Q *mp.Number
	G *mp.Number
	R *mp.Number
}

// DLKeyGenOpts contains options for discrete-log key generation.
type DLKeyGenOpts struct {
	Domain    *DLDomainParams
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *DLKeyGenOpts) Algorithm() string {
	return DL
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *DLKeyGenOpts) Ephemeral() bool {
	return opts.Temporary
}

// DLPublicKeyImportOpts contains options for importing a public value y,
// passed as an *mp.Number. With SubgroupCheck set the key is validated
// with y^Q = 1 mod P in addition to the range check.
type DLPublicKeyImportOpts struct {
	Domain        *DLDomainParams
	SubgroupCheck bool
	Temporary     bool
}

// Algorithm returns an identifier for the algorithm to be used
// to import a key.
func (opts *DLPublicKeyImportOpts) Algorithm() string {
	return DL
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *DLPublicKeyImportOpts) Ephemeral() bool {
	return opts.Temporary
}

// AESKeyGenOpts contains options for AES key generation at default security level
type AESKeyGenOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *AESKeyGenOpts) Algorithm() string {
	return AES
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *AESKeyGenOpts) Ephemeral() bool {
	return opts.Temporary
}

// BlowfishKeyGenOpts contains options for Blowfish key generation.
type BlowfishKeyGenOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *BlowfishKeyGenOpts) Algorithm() string {
	return BLOWFISH
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *BlowfishKeyGenOpts) Ephemeral() bool {
	return opts.Temporary
}

// HMACKeyGenOpts contains options for generating a keyed hash key.
type HMACKeyGenOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to generate a key.
func (opts *HMACKeyGenOpts) Algorithm() string {
	return HMAC
}

// Ephemeral returns true if the key to generate has to be ephemeral,
// false otherwise.
func (opts *HMACKeyGenOpts) Ephemeral() bool {
	return opts.Temporary
}

// AESImportKeyOpts contains options for importing AES keys.
type AESImportKeyOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to import a key.
func (opts *AESImportKeyOpts) Algorithm() string {
	return AES
}

// Ephemeral returns true if the key generated has to be ephemeral,
// false otherwise.
func (opts *AESImportKeyOpts) Ephemeral() bool {
	return opts.Temporary
}

// BlowfishImportKeyOpts contains options for importing Blowfish keys.
type BlowfishImportKeyOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to import a key.
func (opts *BlowfishImportKeyOpts) Algorithm() string {
	return BLOWFISH
}

// Ephemeral returns true if the key generated has to be ephemeral,
// false otherwise.
func (opts *BlowfishImportKeyOpts) Ephemeral() bool {
	return opts.Temporary
}

// HMACImportKeyOpts contains options for importing HMAC keys.
type HMACImportKeyOpts struct {
	Temporary bool
}

// Algorithm returns an identifier for the algorithm to be used
// to import a key.
func (opts *HMACImportKeyOpts) Algorithm() string {
	return HMAC
}

// Ephemeral returns true if the key generated has to be ephemeral,
// false otherwise.
func (opts *HMACImportKeyOpts) Ephemeral() bool {
	return opts.Temporary
}

// CBCPKCS7ModeOpts contains options for CBC encryption with PKCS#7 padding.
// It has no influence on decryption, which reads the IV from the ciphertext.
// When IV is nil, a random IV is drawn from PRNG, or from the provider's
// generator when PRNG is nil.
type CBCPKCS7ModeOpts struct {
	IV   []byte
	PRNG io.Reader
}

// ECBPKCS7ModeOpts selects electronic-codebook chaining with PKCS#7 padding.
type ECBPKCS7ModeOpts struct{}

// DHAESOpts selects the primitives of a DHAES encryption or decryption.
// Zero values fall back to the provider's defaults.
type DHAESOpts struct {
	Hash          HashOpts
	Cipher        CipherOpts
	MAC           MACOpts
	CipherKeyBits int
	MACKeyBits    int
	PRNG          RandomGenerator
}
