/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"io"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
)

type keyConstructor func(raw []byte, exportable bool) csp.Key

func toKey[K csp.Key](f func([]byte, bool) K) keyConstructor {
	return func(raw []byte, exportable bool) csp.Key {
		return f(raw, exportable)
	}
}

// symmetricKeyGenerator draws length bytes of key material from prng.
// Generated keys never export their material.
type symmetricKeyGenerator struct {
	length int
	prng   io.Reader
	newKey keyConstructor
}

func (kg *symmetricKeyGenerator) KeyGen(opts csp.KeyGenOpts) (csp.Key, error) {
	raw := make([]byte, kg.length)
	if _, err := io.ReadFull(kg.prng, raw); err != nil {
		return nil, errors.Wrapf(err, "Failed generating %s %d key", opts.Algorithm(), kg.length)
	}

	return kg.newKey(raw, false), nil
}

// symmetricKeyImporter accepts raw keys of minLen to maxLen bytes in steps
// of step. A zero maxLen leaves the length unbounded.
type symmetricKeyImporter struct {
	minLen int
	maxLen int
	step   int
	newKey keyConstructor
}

func (ki *symmetricKeyImporter) KeyImport(raw interface{}, opts csp.KeyImportOpts) (csp.Key, error) {
	keyBytes, ok := raw.([]byte)
	if !ok {
		return nil, errors.New("Invalid raw material. Expected byte array.")
	}

	if len(keyBytes) == 0 {
		return nil, errors.New("Invalid raw material. It must not be nil.")
	}

	n := len(keyBytes)
	if n < ki.minLen || (ki.maxLen > 0 && n > ki.maxLen) || (n-ki.minLen)%ki.step != 0 {
		return nil, errors.Errorf("Invalid %s key length [%d]", opts.Algorithm(), n)
	}

	return ki.newKey(append([]byte(nil), keyBytes...), true), nil
}
