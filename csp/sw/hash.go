/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/hmac"
	"hash"
	"reflect"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
)

type hasher struct {
	hash func() hash.Hash
}

func (c *hasher) Hash(msg []byte, opts csp.HashOpts) ([]byte, error) {
	h := c.hash()
	h.Write(msg)
	return h.Sum(nil), nil
}

func (c *hasher) GetHash(opts csp.HashOpts) (hash.Hash, error) {
	return c.hash(), nil
}

// hashFunction resolves opts to a hash constructor through the hasher
// registry. nil opts select the configured default.
func (p *impl) hashFunction(opts csp.HashOpts) (func() hash.Hash, error) {
	if opts == nil {
		return p.conf.hashFunction, nil
	}
	h, found := p.hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'HashOpt' provided [%v]", opts)
	}
	return h.(*hasher).hash, nil
}

// hmacMACer computes HMAC over any hash function the provider knows.
type hmacMACer struct {
	provider *impl
}

func (m *hmacMACer) MAC(k csp.Key, msg []byte, opts csp.MACOpts) ([]byte, error) {
	km, ok := k.(keyMaterial)
	if !ok || !k.Symmetric() {
		return nil, errors.Errorf("Invalid key. It must be a symmetric key, got [%T]", k)
	}
	hf, err := m.provider.hashFunction(opts.HashOpts())
	if err != nil {
		return nil, err
	}
	return computeHMAC(hf, km.material(), msg), nil
}

func computeHMAC(hf func() hash.Hash, key, msg []byte) []byte {
	mac := hmac.New(hf, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
