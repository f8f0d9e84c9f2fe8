/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package csp

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Environment variables overriding the registry defaults.
const (
	RandomEnv    = "MPCSP_RANDOM"
	EntropyEnv   = "MPCSP_ENTROPY"
	HashEnv      = "MPCSP_HASH"
	KeyedHashEnv = "MPCSP_KEYEDHASH"
	CipherEnv    = "MPCSP_CIPHER"
)

const (
	FIPS186  = "FIPS186"
	MT19937  = "MT19937"
	CHACHA20 = "CHACHA20"

	// URANDOM is the operating system's entropy pool.
	URANDOM = "urandom"
)

// FIPS186Opts selects the FIPS 186 general purpose generator.
type FIPS186Opts struct{}

// Algorithm returns the generator identifier.
func (opts *FIPS186Opts) Algorithm() string { return FIPS186 }

// MT19937Opts selects the Mersenne Twister.
type MT19937Opts struct{}

// Algorithm returns the generator identifier.
func (opts *MT19937Opts) Algorithm() string { return MT19937 }

// ChaCha20Opts selects a ChaCha20 keystream generator.
type ChaCha20Opts struct{}

// Algorithm returns the generator identifier.
func (opts *ChaCha20Opts) Algorithm() string { return CHACHA20 }

// URandomOpts selects the operating system entropy source.
type URandomOpts struct{}

// Algorithm returns the entropy source identifier.
func (opts *URandomOpts) Algorithm() string { return URANDOM }

// AESOpts selects AES as block cipher.
type AESOpts struct{}

func (opts *AESOpts) Algorithm() string { return AES }
func (opts *AESOpts) BlockSize() int    { return 16 }

// BlowfishOpts selects Blowfish as block cipher.
type BlowfishOpts struct{}

func (opts *BlowfishOpts) Algorithm() string { return BLOWFISH }
func (opts *BlowfishOpts) BlockSize() int    { return 8 }

// HMACOpts is a keyed hash built on the hash function Hash.
type HMACOpts struct {
	Hash HashOpts
}

// Algorithm returns HMAC-<hash>.
func (opts *HMACOpts) Algorithm() string {
	if opts.Hash == nil {
		return HMAC
	}
	return HMAC + "-" + opts.Hash.Algorithm()
}

// HashOpts returns the underlying hash options.
func (opts *HMACOpts) HashOpts() HashOpts { return opts.Hash }

// GetRandomOpt returns the RandomOpts of the named generator.
func GetRandomOpt(name string) (RandomOpts, error) {
	switch name {
	case FIPS186:
		return &FIPS186Opts{}, nil
	case MT19937:
		return &MT19937Opts{}, nil
	case CHACHA20:
		return &ChaCha20Opts{}, nil
	}
	return nil, errors.Errorf("random generator not recognized [%s]", name)
}

// GetEntropyOpt returns the options of the named entropy source.
func GetEntropyOpt(name string) (RandomOpts, error) {
	if name == URANDOM {
		return &URandomOpts{}, nil
	}
	return nil, errors.Errorf("entropy source not recognized [%s]", name)
}

// GetCipherOpt returns the CipherOpts of the named block cipher.
func GetCipherOpt(name string) (CipherOpts, error) {
	switch name {
	case AES:
		return &AESOpts{}, nil
	case BLOWFISH:
		return &BlowfishOpts{}, nil
	}
	return nil, errors.Errorf("block cipher not recognized [%s]", name)
}

// GetMACOpt returns the MACOpts for a name of the form HMAC-<hash>.
func GetMACOpt(name string) (MACOpts, error) {
	hashName := strings.TrimPrefix(name, HMAC+"-")
	if hashName == name {
		return nil, errors.Errorf("keyed hash function not recognized [%s]", name)
	}
	hashOpts, err := GetHashOpt(hashName)
	if err != nil {
		return nil, errors.WithMessagef(err, "keyed hash function not recognized [%s]", name)
	}
	return &HMACOpts{Hash: hashOpts}, nil
}

// DefaultRandomOpt returns the generator named by MPCSP_RANDOM, or FIPS186.
func DefaultRandomOpt() (RandomOpts, error) {
	if name := os.Getenv(RandomEnv); name != "" {
		return GetRandomOpt(name)
	}
	return &FIPS186Opts{}, nil
}

// DefaultEntropyOpt returns the entropy source named by MPCSP_ENTROPY, or urandom.
func DefaultEntropyOpt() (RandomOpts, error) {
	if name := os.Getenv(EntropyEnv); name != "" {
		return GetEntropyOpt(name)
	}
	return &URandomOpts{}, nil
}

// DefaultHashOpt returns the hash named by MPCSP_HASH, or SHA256.
func DefaultHashOpt() (HashOpts, error) {
	if name := os.Getenv(HashEnv); name != "" {
		return GetHashOpt(name)
	}
	return &SHA256Opts{}, nil
}

// DefaultMACOpt returns the keyed hash named by MPCSP_KEYEDHASH, or HMAC-SHA256.
func DefaultMACOpt() (MACOpts, error) {
	if name := os.Getenv(KeyedHashEnv); name != "" {
		return GetMACOpt(name)
	}
	return &HMACOpts{Hash: &SHA256Opts{}}, nil
}

// DefaultCipherOpt returns the block cipher named by MPCSP_CIPHER, or BLOWFISH.
func DefaultCipherOpt() (CipherOpts, error) {
	if name := os.Getenv(CipherEnv); name != "" {
		return GetCipherOpt(name)
	}
	return &BlowfishOpts{}, nil
}
