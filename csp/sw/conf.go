/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

type config struct {
	hashFunction       func() hash.Hash
	hashOpts           csp.HashOpts
	rsaBitLength       int
	aesByteLength      int
	blowfishByteLength int
}

func (conf *config) setSecurityLevel(securityLevel int, hashFamily string) (err error) {
	switch hashFamily {
	case "SHA2":
		err = conf.setSecurityLevelSHA2(securityLevel)
	case "SHA3":
		err = conf.setSecurityLevelSHA3(securityLevel)
	default:
		err = errors.Errorf("Hash Family not supported [%s]", hashFamily)
	}
	conf.blowfishByteLength = 16
	return
}

func (conf *config) setSecurityLevelSHA2(level int) (err error) {
	switch level {
	case 256:
		conf.hashFunction = sha256.New
		conf.hashOpts = &csp.SHA256Opts{}
		conf.rsaBitLength = 2048
		conf.aesByteLength = 32
	case 384:
		conf.hashFunction = sha512.New384
		conf.hashOpts = &csp.SHA384Opts{}
		conf.rsaBitLength = 3072
		conf.aesByteLength = 32
	default:
		err = errors.Errorf("Security level not supported [%d]", level)
	}
	return
}

func (conf *config) setSecurityLevelSHA3(level int) (err error) {
	switch level {
	case 256:
		conf.hashFunction = sha3.New256
		conf.hashOpts = &csp.SHA3_256Opts{}
		conf.rsaBitLength = 2048
		conf.aesByteLength = 32
	case 384:
		conf.hashFunction = sha3.New384
		conf.hashOpts = &csp.SHA3_384Opts{}
		conf.rsaBitLength = 3072
		conf.aesByteLength = 32
	default:
		err = errors.Errorf("Security level not supported [%d]", level)
	}
	return
}
