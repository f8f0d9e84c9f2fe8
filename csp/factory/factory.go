/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package factory

import (
	"reflect"
	"sync"

	"github.com/hyperledger/fabric-mpcsp/common/flogging"
	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	defaultCSP         csp.CSP   // default CSP
	factoriesInitOnce  sync.Once // factories' Sync on Initialization
	factoriesInitError error     // Factories' Initialization Error

	// when InitFactories has not been called yet (should only happen
	// in test cases), use this CSP temporarily
	bootCSP         csp.CSP
	bootCSPInitOnce sync.Once

	cspMap map[string]csp.CSP

	logger = flogging.MustGetLogger("csp.factory")
)

// CSPFactory is used to get instances of the CSP interface.
// A Factory has name used to address it.
type CSPFactory interface {

	// Name returns the name of this factory
	Name() string

	// Get returns an instance of CSP using opts.
	Get(opts *FactoryOpts) (csp.CSP, error)
}

// GetDefault returns a non-ephemeral (long-term) CSP
func GetDefault() csp.CSP {
	if defaultCSP == nil {
		logger.Debug("Before using CSP, please call InitFactories(). Falling back to bootCSP.")
		bootCSPInitOnce.Do(func() {
			var err error
			bootCSP, err = (&SWFactory{}).Get(GetDefaultOpts())
			if err != nil {
				panic("CSP Internal error, failed initialization with GetDefaultOpts!")
			}
		})
		return bootCSP
	}
	return defaultCSP
}

// GetCSP returns a CSP created according to the options passed in input.
func GetCSP(name string) (csp.CSP, error) {
	c, ok := cspMap[name]
	if !ok {
		return nil, errors.Errorf("Could not find CSP, no '%s' provider", name)
	}
	return c, nil
}

// GetCSPFromOpts returns a CSP created according to the options passed in input.
func GetCSPFromOpts(config *FactoryOpts) (csp.CSP, error) {
	var f CSPFactory
	switch config.ProviderName {
	case SoftwareBasedFactoryName:
		f = &SWFactory{}
	default:
		return nil, errors.Errorf("Could not find CSP, no '%s' provider", config.ProviderName)
	}

	c, err := f.Get(config)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not initialize CSP %s", f.Name())
	}
	return c, nil
}

// InitFactories must be called before using factory interfaces
// It is acceptable to call with config = nil, in which case
// some defaults will get used
// Error is returned only if defaultCSP cannot be found
func InitFactories(config *FactoryOpts) error {
	factoriesInitOnce.Do(func() {
		factoriesInitError = initFactories(config)
	})

	return factoriesInitError
}

func initFactories(config *FactoryOpts) error {
	// Take some precautions on default opts
	if config == nil {
		config = GetDefaultOpts()
	}

	if config.ProviderName == "" {
		config.ProviderName = SoftwareBasedFactoryName
	}

	if config.SwOpts == nil {
		config.SwOpts = GetDefaultOpts().SwOpts
	}

	// Initialize factories map
	cspMap = make(map[string]csp.CSP)

	// Software-Based CSP
	if config.SwOpts != nil {
		f := &SWFactory{}
		err := initCSP(f, config)
		if err != nil {
			return errors.WithMessage(err, "Failed initializing SW.CSP")
		}
	}

	var ok bool
	defaultCSP, ok = cspMap[config.ProviderName]
	if !ok {
		return errors.Errorf("Could not find default `%s` CSP", config.ProviderName)
	}
	logger.Debugf("Initialized default %s CSP", config.ProviderName)
	return nil
}

func initCSP(f CSPFactory, config *FactoryOpts) error {
	c, err := f.Get(config)
	if err != nil {
		return errors.Errorf("Could not initialize CSP %s [%s]", f.Name(), err)
	}

	logger.Debugf("Initialize CSP [%s]", f.Name())
	cspMap[f.Name()] = c
	return nil
}

// optsHook decodes a FactoryOpts section over GetDefaultOpts, so that keys
// missing from the configuration keep their default values.
func optsHook(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
	if t != reflect.TypeOf(&FactoryOpts{}) {
		return data, nil
	}

	config := GetDefaultOpts()

	err := mapstructure.WeakDecode(data, config)
	if err != nil {
		return nil, errors.Wrap(err, "could not decode csp type")
	}

	return config, nil
}

// DecodeHook returns the mapstructure hook that fills FactoryOpts defaults.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.DecodeHookFuncType(optsHook)
}

// LoadOpts reads the FactoryOpts stored under key in v. A missing key
// yields the default options.
func LoadOpts(v *viper.Viper, key string) (*FactoryOpts, error) {
	if !v.IsSet(key) {
		return GetDefaultOpts(), nil
	}

	var opts *FactoryOpts
	if err := v.UnmarshalKey(key, &opts, viper.DecodeHook(DecodeHook())); err != nil {
		return nil, errors.Wrapf(err, "could not decode %s configuration", key)
	}
	return opts, nil
}
