/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"encoding/binary"
	"math/big"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func withDomain(mutate func(d *csp.DLDomainParams)) *csp.DLDomainParams {
	d := &csp.DLDomainParams{
		P: new(mp.Number).Copy(domain.P),
		Q: new(mp.Number).Copy(domain.Q),
		G: new(mp.Number).Copy(domain.G),
		R: new(mp.Number).Copy(domain.R),
	}
	mutate(d)
	return d
}

var _ = Describe("DL domain parameters", func() {
	It("generates a valid subgroup", func() {
		Expect(domain.P.BitLen()).To(BeNumerically(">", 7*32))
		Expect(domain.Q.BitLen()).To(Equal(96))

		p, q, g, r := domain.P.Big(), domain.Q.Big(), domain.G.Big(), domain.R.Big()
		Expect(p.ProbablyPrime(20)).To(BeTrue())
		Expect(q.ProbablyPrime(20)).To(BeTrue())
		qr := new(big.Int).Mul(q, r)
		Expect(qr.Add(qr, big.NewInt(1)).Cmp(p)).To(Equal(0))
		Expect(new(big.Int).Exp(g, q, p).Cmp(big.NewInt(1))).To(Equal(0))
		Expect(g.Cmp(big.NewInt(1))).To(Equal(1))

		Expect(ValidateDLDomain(domain, suiteRNG)).To(Succeed())
	})

	It("rejects invalid sizes", func() {
		_, err := GenerateDLDomain(suiteRNG, 3, 3)
		Expect(err).To(MatchError("Invalid domain sizes [3,3]. P must be longer than Q"))
		_, err = GenerateDLDomain(suiteRNG, 3, 0)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("validation failures",
		func(mutate func(d *csp.DLDomainParams), message string) {
			err := ValidateDLDomain(withDomain(mutate), suiteRNG)
			Expect(err).To(MatchError(ContainSubstring(message)))
		},
		Entry("missing G", func(d *csp.DLDomainParams) { d.G = nil }, "must not be nil"),
		Entry("composite Q", func(d *csp.DLDomainParams) { d.Q.AddWord(1) }, "Q is not prime"),
		Entry("wrong cofactor", func(d *csp.DLDomainParams) { d.R.AddWord(2) }, "P != Q*R + 1"),
		Entry("G equal to one", func(d *csp.DLDomainParams) { d.G = new(mp.Number).SetWord(1) }, "G must lie in (1, P)"),
		Entry("G equal to P", func(d *csp.DLDomainParams) { d.G = new(mp.Number).Copy(d.P) }, "G must lie in (1, P)"),
		Entry("G outside the subgroup", func(d *csp.DLDomainParams) {
			d.G = new(mp.Number).Copy(d.P)
			d.G.SubWord(1)
		}, "does not generate the order Q subgroup"),
	)
})

var _ = Describe("DL keys", func() {
	var p *impl

	BeforeEach(func() {
		provider, err := NewWithParams(256, "SHA2", &csp.ChaCha20Opts{}, &csp.URandomOpts{}, NewInMemoryKeyStore())
		Expect(err).NotTo(HaveOccurred())
		p = provider.(*impl)
	})

	It("generates x in [2, Q-2] and y = G^x mod P", func() {
		k, err := p.KeyGen(&csp.DLKeyGenOpts{Domain: domain})
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Private()).To(BeTrue())
		Expect(k.Symmetric()).To(BeFalse())

		priv := k.(*dlPrivateKey)
		x := priv.x.Big()
		Expect(x.Cmp(big.NewInt(2))).To(BeNumerically(">=", 0))
		Expect(x.Cmp(new(big.Int).Sub(domain.Q.Big(), big.NewInt(2)))).To(BeNumerically("<=", 0))
		y := new(big.Int).Exp(domain.G.Big(), x, domain.P.Big())
		Expect(priv.y.Big().Cmp(y)).To(Equal(0))

		stored, err := p.GetKey(k.SKI())
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(BeIdenticalTo(k))

		pk, err := k.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		Expect(pk.SKI()).To(Equal(k.SKI()))
		raw, err := pk.Bytes()
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(HaveLen(4 * domain.P.Size()))
		_, err = k.Bytes()
		Expect(err).To(HaveOccurred())
	})

	It("requires domain parameters", func() {
		_, err := p.KeyGen(&csp.DLKeyGenOpts{})
		Expect(err).To(MatchError(ContainSubstring("Domain parameters are required")))

		bad := withDomain(func(d *csp.DLDomainParams) { d.R.AddWord(2) })
		_, err = p.KeyGen(&csp.DLKeyGenOpts{Domain: bad})
		Expect(err).To(HaveOccurred())
	})

	It("imports public values", func() {
		k, err := p.KeyGen(&csp.DLKeyGenOpts{Domain: domain, Temporary: true})
		Expect(err).NotTo(HaveOccurred())
		y := k.(*dlPrivateKey).y

		imported, err := p.KeyImport(y, &csp.DLPublicKeyImportOpts{Domain: domain, SubgroupCheck: true, Temporary: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(imported.Private()).To(BeFalse())

		pk, err := k.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		Expect(imported.(*dlPublicKey).Equal(pk.(*dlPublicKey))).To(BeTrue())

		other, err := p.KeyGen(&csp.DLKeyGenOpts{Domain: domain, Temporary: true})
		Expect(err).NotTo(HaveOccurred())
		otherPub, err := other.PublicKey()
		Expect(err).NotTo(HaveOccurred())
		Expect(imported.(*dlPublicKey).Equal(otherPub.(*dlPublicKey))).To(BeFalse())
	})

	It("checks the range and the subgroup of imported values", func() {
		two := new(mp.Number).SetWord(2)
		_, err := p.KeyImport(two, &csp.DLPublicKeyImportOpts{Domain: domain, SubgroupCheck: true, Temporary: true})
		Expect(err).To(MatchError(ContainSubstring("not in the order Q subgroup")))

		_, err = p.KeyImport(two, &csp.DLPublicKeyImportOpts{Domain: domain, Temporary: true})
		Expect(err).NotTo(HaveOccurred())

		pm := new(mp.Number).Copy(domain.P)
		pm.SubWord(1)
		for _, y := range []*mp.Number{new(mp.Number).SetWord(1), pm} {
			_, err = p.KeyImport(y, &csp.DLPublicKeyImportOpts{Domain: domain, Temporary: true})
			Expect(err).To(MatchError(ContainSubstring("It must lie in [2, P-2]")))
		}

		_, err = p.KeyImport([]byte{2}, &csp.DLPublicKeyImportOpts{Domain: domain})
		Expect(err).To(MatchError(ContainSubstring("Expected *mp.Number")))
	})
})

var _ = Describe("DHAES", func() {
	var (
		p    *impl
		priv csp.Key
		pub  csp.Key
		msg  = []byte("integrated encryption over a prime order subgroup")
	)

	BeforeEach(func() {
		provider, err := NewWithParams(256, "SHA2", &csp.FIPS186Opts{}, &csp.URandomOpts{}, NewInMemoryKeyStore())
		Expect(err).NotTo(HaveOccurred())
		p = provider.(*impl)

		priv, err = p.KeyGen(&csp.DLKeyGenOpts{Domain: domain, Temporary: true})
		Expect(err).NotTo(HaveOccurred())
		pub, err = priv.PublicKey()
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("round trips",
		func(opts *csp.DHAESOpts) {
			ct, err := p.Encrypt(pub, msg, opts)
			Expect(err).NotTo(HaveOccurred())

			el := binary.BigEndian.Uint32(ct)
			Expect(int(el)).To(Equal(4 * domain.P.Size()))

			pt, err := p.Decrypt(priv, ct, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(pt).To(Equal(msg))
		},
		Entry("defaults", nil),
		Entry("AES-256 with SHA-512", &csp.DHAESOpts{
			Hash:          &csp.SHA512Opts{},
			Cipher:        &csp.AESOpts{},
			MAC:           &csp.HMACOpts{Hash: &csp.SHA1Opts{}},
			CipherKeyBits: 256,
		}),
		Entry("explicit key split", &csp.DHAESOpts{CipherKeyBits: 128, MACKeyBits: 64}),
	)

	It("uses a fresh ephemeral key per message", func() {
		a, err := p.Encrypt(pub, msg, nil)
		Expect(err).NotTo(HaveOccurred())
		b, err := p.Encrypt(pub, msg, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).NotTo(Equal(b))
	})

	It("rejects a tampered ciphertext", func() {
		ct, err := p.Encrypt(pub, msg, nil)
		Expect(err).NotTo(HaveOccurred())

		ct[len(ct)-1] ^= 1
		_, err = p.Decrypt(priv, ct, nil)
		Expect(err).To(MatchError(ContainSubstring("MAC verification failed")))
	})

	It("rejects the wrong private key", func() {
		ct, err := p.Encrypt(pub, msg, nil)
		Expect(err).NotTo(HaveOccurred())

		other, err := p.KeyGen(&csp.DLKeyGenOpts{Domain: domain, Temporary: true})
		Expect(err).NotTo(HaveOccurred())
		_, err = p.Decrypt(other, ct, nil)
		Expect(err).To(MatchError(ContainSubstring("MAC verification failed")))
	})

	It("rejects malformed headers", func() {
		_, err := p.Decrypt(priv, []byte{0, 0}, nil)
		Expect(err).To(MatchError(ContainSubstring("Too short")))

		ct, err := p.Encrypt(pub, msg, nil)
		Expect(err).NotTo(HaveOccurred())
		binary.BigEndian.PutUint32(ct, 3)
		_, err = p.Decrypt(priv, ct, nil)
		Expect(err).To(MatchError(ContainSubstring("Malformed header")))
	})

	It("rejects unusable key sizes", func() {
		for _, opts := range []*csp.DHAESOpts{
			{CipherKeyBits: 100},
			{CipherKeyBits: 128, MACKeyBits: 160},
			{Cipher: &csp.AESOpts{}, CipherKeyBits: 256},
		} {
			_, err := p.Encrypt(pub, msg, opts)
			Expect(err).To(MatchError(ContainSubstring("Unusable DHAES key sizes")))
		}

		_, err := p.Encrypt(pub, msg, "DHAES")
		Expect(err).To(MatchError(ContainSubstring("Unsupported DHAES options")))
	})

	It("draws the ephemeral key from the requested generator", func() {
		rng, err := p.GetRandom(&csp.MT19937Opts{})
		Expect(err).NotTo(HaveOccurred())

		ct, err := p.Encrypt(pub, msg, &csp.DHAESOpts{PRNG: rng})
		Expect(err).NotTo(HaveOccurred())
		pt, err := p.Decrypt(priv, ct, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(pt).To(Equal(msg))
	})
})
