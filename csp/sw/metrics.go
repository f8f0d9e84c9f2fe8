/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"strconv"
	"time"

	"github.com/hyperledger/fabric-mpcsp/common/metrics"
	"github.com/hyperledger/fabric-mpcsp/csp"
)

var (
	operationsCounterOpts = metrics.CounterOpts{
		Namespace:  "mpcsp",
		Subsystem:  "sw",
		Name:       "operations",
		Help:       "The number of provider operations completed.",
		LabelNames: []string{"operation", "algorithm", "success"},
	}
	keyGenDurationOpts = metrics.HistogramOpts{
		Namespace:  "mpcsp",
		Subsystem:  "sw",
		Name:       "keygen_duration",
		Help:       "The time to generate a key, in seconds.",
		Buckets:    []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		LabelNames: []string{"algorithm"},
	}
)

// Metrics are the meters a software provider records to.
type Metrics struct {
	Operations     metrics.Counter
	KeyGenDuration metrics.Histogram
}

func NewMetrics(p metrics.Provider) *Metrics {
	return &Metrics{
		Operations:     p.NewCounter(operationsCounterOpts),
		KeyGenDuration: p.NewHistogram(keyGenDurationOpts),
	}
}

func (m *Metrics) observe(operation, algorithm string, err error) {
	m.Operations.With(
		"operation", operation,
		"algorithm", algorithm,
		"success", strconv.FormatBool(err == nil),
	).Add(1)
}

func (m *Metrics) observeKeyGen(algorithm string, start time.Time, err error) {
	if err == nil {
		m.KeyGenDuration.With("algorithm", algorithm).Observe(time.Since(start).Seconds())
	}
	m.observe("keygen", algorithm, err)
}

// keyAlgorithm names the algorithm of a key for labelling.
func keyAlgorithm(k csp.Key) string {
	switch k.(type) {
	case *rsaPrivateKey, *rsaPublicKey:
		return csp.RSA
	case *dlPrivateKey, *dlPublicKey:
		return csp.DL
	case *aesKey:
		return csp.AES
	case *blowfishKey:
		return csp.BLOWFISH
	case *hmacKey:
		return csp.HMAC
	default:
		return "unknown"
	}
}
