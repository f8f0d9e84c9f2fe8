/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
)

// GenerateDLDomain draws a prime Q of qWords words and an even cofactor R
// of pWords-qWords words until P = Q*R + 1 is prime, then picks
// G = H^R mod P != 1 for a random residue H.
func GenerateDLDomain(rng mp.RandomSource, pWords, qWords int) (*csp.DLDomainParams, error) {
	if qWords < 1 || pWords <= qWords {
		return nil, errors.Errorf("Invalid domain sizes [%d,%d]. P must be longer than Q", pWords, qWords)
	}

	qb, err := mp.RandomPrime(rng, qWords, mp.Trials(32*qWords), nil)
	if err != nil {
		return nil, errors.WithMessage(err, "Failed generating Q")
	}
	q := new(mp.Number).Set(qb.Modulus())
	qb.Free()

	rWords := pWords - qWords
	for attempt := 1; ; attempt++ {
		r := mp.NewNumber(rWords)
		if err := rng.Fill(r.Words()); err != nil {
			return nil, errors.Wrap(err, "Failed drawing cofactor")
		}
		r.Words()[0] |= 1 << 31
		r.Words()[rWords-1] &^= 1

		// both factors have their top bit set, so P fills pWords words
		p := new(mp.Number).Mul(q, r)
		p.AddWord(1)

		pb, err := mp.NewBarrett(p.Words())
		if err != nil {
			return nil, errors.WithMessage(err, "Failed setting up P")
		}
		ok, err := pb.IsProbablePrime(rng, mp.Trials(32*pWords))
		if err != nil {
			pb.Free()
			return nil, errors.WithMessage(err, "Failed testing P")
		}
		if !ok {
			pb.Free()
			continue
		}

		g, err := subgroupGenerator(pb, rng, r)
		pb.Free()
		if err != nil {
			return nil, err
		}
		logger.Debugf("Generated %d/%d bit DL domain after %d attempts", p.BitLen(), q.BitLen(), attempt)
		return &csp.DLDomainParams{P: p, Q: q, G: g, R: r}, nil
	}
}

func subgroupGenerator(pb *mp.Barrett, rng mp.RandomSource, r *mp.Number) (*mp.Number, error) {
	h := make([]mp.Word, pb.Size())
	g := make([]mp.Word, pb.Size())
	for {
		if _, err := pb.RandomResidue(rng, h); err != nil {
			return nil, errors.WithMessage(err, "Failed drawing generator candidate")
		}
		pb.PowMod(g, h, r.Words())
		if !new(mp.Number).Set(g).IsOne() {
			return new(mp.Number).Set(g), nil
		}
	}
}

// ValidateDLDomain checks that P and Q are probable primes, P = Q*R + 1,
// 1 < G < P and G^Q = 1 mod P.
func ValidateDLDomain(d *csp.DLDomainParams, rng mp.RandomSource) error {
	if d == nil || d.P == nil || d.Q == nil || d.G == nil || d.R == nil {
		return errors.New("Invalid domain parameters. P, Q, G and R must not be nil.")
	}

	pb, err := mp.NewBarrett(significant(d.P))
	if err != nil {
		return errors.WithMessage(err, "Invalid P")
	}
	defer pb.Free()
	qb, err := mp.NewBarrett(significant(d.Q))
	if err != nil {
		return errors.WithMessage(err, "Invalid Q")
	}
	defer qb.Free()

	for _, c := range []struct {
		name string
		b    *mp.Barrett
	}{{"P", pb}, {"Q", qb}} {
		ok, err := c.b.IsProbablePrime(rng, mp.Trials(32*c.b.Size()))
		if err != nil {
			return errors.WithMessagef(err, "Failed testing %s", c.name)
		}
		if !ok {
			return errors.Errorf("Invalid domain parameters. %s is not prime", c.name)
		}
	}

	qr := new(mp.Number).Mul(d.Q, d.R)
	qr.AddWord(1)
	if qr.Cmp(d.P) != 0 {
		return errors.New("Invalid domain parameters. P != Q*R + 1")
	}

	g := significant(d.G)
	if len(g) > pb.Size() || new(mp.Number).Set(g).Cmp(d.P) >= 0 || new(mp.Number).Set(g).Cmp(new(mp.Number).SetWord(1)) <= 0 {
		return errors.New("Invalid domain parameters. G must lie in (1, P)")
	}
	if !new(mp.Number).Set(pb.PowMod(nil, g, d.Q.Words())).IsOne() {
		return errors.New("Invalid domain parameters. G does not generate the order Q subgroup")
	}
	return nil
}

// validateDLPublic checks 2 <= y <= P-2 and, when subgroup is set,
// y^Q = 1 mod P.
func validateDLPublic(d *csp.DLDomainParams, y *mp.Number, subgroup bool) error {
	pb, err := mp.NewBarrett(significant(d.P))
	if err != nil {
		return errors.WithMessage(err, "Invalid P")
	}
	defer pb.Free()

	yw := significant(y)
	pm := new(mp.Number).Set(pb.SubOne(nil))
	pm.SubWord(1)
	if len(yw) > pb.Size() || new(mp.Number).Set(yw).Cmp(new(mp.Number).SetWord(2)) < 0 || y.Cmp(pm) > 0 {
		return errors.New("Invalid public value. It must lie in [2, P-2]")
	}
	if subgroup && !new(mp.Number).Set(pb.PowMod(nil, yw, d.Q.Words())).IsOne() {
		return errors.New("Invalid public value. It is not in the order Q subgroup")
	}
	return nil
}

func equalDomains(a, b *csp.DLDomainParams) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.P.Cmp(b.P) == 0 && a.Q.Cmp(b.Q) == 0 && a.G.Cmp(b.G) == 0
}

// dlPair draws x in [2, Q-2] and computes y = G^x mod P.
func dlPair(d *csp.DLDomainParams, rng mp.RandomSource) (x, y *mp.Number, err error) {
	qb, err := mp.NewBarrett(significant(d.Q))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "Invalid Q")
	}
	defer qb.Free()
	pb, err := mp.NewBarrett(significant(d.P))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "Invalid P")
	}
	defer pb.Free()

	xw, err := qb.RandomResidue(rng, make([]mp.Word, qb.Size()))
	if err != nil {
		return nil, nil, errors.WithMessage(err, "Failed drawing private value")
	}
	yw := pb.PowMod(make([]mp.Word, pb.Size()), significant(d.G), xw)
	return new(mp.Number).Set(xw), new(mp.Number).Set(yw), nil
}

type dlKeyGenerator struct {
	rng mp.RandomSource
}

func (kg *dlKeyGenerator) KeyGen(opts csp.KeyGenOpts) (csp.Key, error) {
	o, ok := opts.(*csp.DLKeyGenOpts)
	if !ok || o.Domain == nil {
		return nil, errors.New("Invalid opts. Domain parameters are required.")
	}
	if err := ValidateDLDomain(o.Domain, kg.rng); err != nil {
		return nil, err
	}

	x, y, err := dlPair(o.Domain, kg.rng)
	if err != nil {
		return nil, err
	}
	return &dlPrivateKey{domain: o.Domain, x: x, y: y}, nil
}

type dlPublicKeyImportOptsKeyImporter struct {
	rng mp.RandomSource
}

func (ki *dlPublicKeyImportOptsKeyImporter) KeyImport(raw interface{}, opts csp.KeyImportOpts) (csp.Key, error) {
	y, ok := raw.(*mp.Number)
	if !ok || y == nil {
		return nil, errors.New("Invalid raw material. Expected *mp.Number.")
	}
	o, ok := opts.(*csp.DLPublicKeyImportOpts)
	if !ok || o.Domain == nil {
		return nil, errors.New("Invalid opts. Domain parameters are required.")
	}

	if err := ValidateDLDomain(o.Domain, ki.rng); err != nil {
		return nil, err
	}
	if err := validateDLPublic(o.Domain, y, o.SubgroupCheck); err != nil {
		return nil, err
	}
	return &dlPublicKey{domain: o.Domain, y: new(mp.Number).Copy(y)}, nil
}
