/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/csp/sw"
	"github.com/pkg/errors"
)

const (
	// SoftwareBasedFactoryName is the name of the factory of the software-based CSP implementation
	SoftwareBasedFactoryName = "SW"
)

// SWFactory is the factory of the software-based CSP.
type SWFactory struct{}

// Name returns the name of this factory
func (f *SWFactory) Name() string {
	return SoftwareBasedFactoryName
}

// Get returns an instance of CSP using Opts.
func (f *SWFactory) Get(config *FactoryOpts) (csp.CSP, error) {
	// Validate arguments
	if config == nil || config.SwOpts == nil {
		return nil, errors.New("Invalid config. It must not be nil.")
	}

	swOpts := config.SwOpts

	randomOpts, err := resolveRandom(swOpts.Random, csp.GetRandomOpt, csp.DefaultRandomOpt)
	if err != nil {
		return nil, err
	}
	entropyOpts, err := resolveRandom(swOpts.Entropy, csp.GetEntropyOpt, csp.DefaultEntropyOpt)
	if err != nil {
		return nil, err
	}

	var ks csp.KeyStore
	if swOpts.Ephemeral {
		ks = sw.NewDummyKeyStore()
	} else {
		ks = sw.NewInMemoryKeyStore()
	}

	if config.MetricsProvider == nil {
		return sw.NewWithParams(swOpts.SecLevel, swOpts.HashFamily, randomOpts, entropyOpts, ks)
	}
	m := sw.NewMetrics(config.MetricsProvider)
	return sw.NewWithMetrics(swOpts.SecLevel, swOpts.HashFamily, randomOpts, entropyOpts, ks, m)
}

// resolveRandom looks name up, falling back to the environment default
// when it is empty.
func resolveRandom(name string, lookup func(string) (csp.RandomOpts, error), fallback func() (csp.RandomOpts, error)) (csp.RandomOpts, error) {
	if name == "" {
		return fallback()
	}
	return lookup(name)
}

// SwOpts contains options for the SWFactory
type SwOpts struct {
	// Default algorithms when not specified (Deprecated?)
	SecLevel   int    `mapstructure:"security" json:"security" yaml:"Security"`
	HashFamily string `mapstructure:"hash" json:"hash" yaml:"Hash"`
	Random     string `mapstructure:"random,omitempty" json:"random,omitempty" yaml:"Random,omitempty"`
	Entropy    string `mapstructure:"entropy,omitempty" json:"entropy,omitempty" yaml:"Entropy,omitempty"`

	Ephemeral bool `mapstructure:"tempkeys,omitempty" json:"tempkeys,omitempty" yaml:"TempKeys,omitempty"`
}
