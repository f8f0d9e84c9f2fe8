/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"encoding/hex"
	"sync"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
)

// NewInMemoryKeyStore instantiates an ephemeral in-memory keystore
func NewInMemoryKeyStore() csp.KeyStore {
	return &inmemoryKeyStore{keys: map[string]csp.Key{}}
}

// inmemoryKeyStore keeps keys in a map indexed by the hex encoding of
// their SKI.
type inmemoryKeyStore struct {
	keys map[string]csp.Key
	m    sync.RWMutex
}

// ReadOnly is always false
func (ks *inmemoryKeyStore) ReadOnly() bool {
	return false
}

// GetKey returns a key for the provided SKI
func (ks *inmemoryKeyStore) GetKey(ski []byte) (csp.Key, error) {
	if len(ski) == 0 {
		return nil, errors.New("ski is nil or empty")
	}

	skiStr := hex.EncodeToString(ski)

	ks.m.RLock()
	defer ks.m.RUnlock()
	if key, found := ks.keys[skiStr]; found {
		return key, nil
	}
	return nil, errors.Errorf("no key found for ski %x", ski)
}

// StoreKey stores a key in the in-memory store
func (ks *inmemoryKeyStore) StoreKey(k csp.Key) error {
	if k == nil {
		return errors.New("key is nil")
	}

	ski := hex.EncodeToString(k.SKI())

	ks.m.Lock()
	defer ks.m.Unlock()

	if _, found := ks.keys[ski]; found {
		return errors.Errorf("ski %x already exists in the keystore", k.SKI())
	}
	ks.keys[ski] = k

	return nil
}
