/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"
	"reflect"
	"time"

	"github.com/hyperledger/fabric-mpcsp/common/flogging"
	"github.com/hyperledger/fabric-mpcsp/common/metrics/disabled"
	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

var logger = flogging.MustGetLogger("csp.sw")

// New returns a software CSP at the given security level and hash family.
// The random generator and entropy source come from the MPCSP_RANDOM and
// MPCSP_ENTROPY environment defaults.
func New(securityLevel int, hashFamily string, keyStore csp.KeyStore) (csp.CSP, error) {
	randomOpts, err := csp.DefaultRandomOpt()
	if err != nil {
		return nil, errors.WithMessage(err, "Failed resolving default random generator")
	}
	entropyOpts, err := csp.DefaultEntropyOpt()
	if err != nil {
		return nil, errors.WithMessage(err, "Failed resolving default entropy source")
	}
	return NewWithParams(securityLevel, hashFamily, randomOpts, entropyOpts, keyStore)
}

// NewWithParams returns a software CSP whose provider-wide generator is
// built from randomOpts and seeded from entropyOpts.
func NewWithParams(securityLevel int, hashFamily string, randomOpts, entropyOpts csp.RandomOpts, keyStore csp.KeyStore) (csp.CSP, error) {
	return NewWithMetrics(securityLevel, hashFamily, randomOpts, entropyOpts, keyStore, NewMetrics(&disabled.Provider{}))
}

// NewWithMetrics is NewWithParams recording operations to m.
func NewWithMetrics(securityLevel int, hashFamily string, randomOpts, entropyOpts csp.RandomOpts, keyStore csp.KeyStore, m *Metrics) (csp.CSP, error) {
	// Init config
	conf := &config{}
	err := conf.setSecurityLevel(securityLevel, hashFamily)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed initializing configuration at [%v,%v]", securityLevel, hashFamily)
	}

	// Check KeyStore
	if keyStore == nil {
		return nil, errors.Errorf("Invalid csp.KeyStore instance. It must be different from nil.")
	}

	entropy, err := newEntropySource(entropyOpts)
	if err != nil {
		return nil, err
	}

	if m == nil {
		m = NewMetrics(&disabled.Provider{})
	}

	p := &impl{
		conf:    conf,
		ks:      keyStore,
		entropy: entropy,
		metrics: m,
	}

	// Set the random generators
	p.randoms = map[reflect.Type]RandomConstructor{
		reflect.TypeOf(&csp.FIPS186Opts{}):  newFIPS186Generator,
		reflect.TypeOf(&csp.MT19937Opts{}):  newMTGenerator,
		reflect.TypeOf(&csp.ChaCha20Opts{}): newChaChaGenerator,
	}
	p.defaultRandom = randomOpts
	if p.prng, err = p.GetRandom(randomOpts); err != nil {
		return nil, errors.WithMessage(err, "Failed creating random generator")
	}

	// Set the hashers
	p.hashers = map[reflect.Type]Hasher{
		reflect.TypeOf(&csp.SHAOpts{}):      &hasher{hash: conf.hashFunction},
		reflect.TypeOf(&csp.SHA1Opts{}):     &hasher{hash: sha1.New},
		reflect.TypeOf(&csp.SHA256Opts{}):   &hasher{hash: sha256.New},
		reflect.TypeOf(&csp.SHA384Opts{}):   &hasher{hash: sha512.New384},
		reflect.TypeOf(&csp.SHA512Opts{}):   &hasher{hash: sha512.New},
		reflect.TypeOf(&csp.SHA3_256Opts{}): &hasher{hash: sha3.New256},
		reflect.TypeOf(&csp.SHA3_384Opts{}): &hasher{hash: sha3.New384},
	}

	// Set the keyed hashes
	p.macers = map[reflect.Type]MACer{
		reflect.TypeOf(&csp.HMACOpts{}): &hmacMACer{provider: p},
	}

	// Set the encryptors
	p.encryptors = map[reflect.Type]Encryptor{
		reflect.TypeOf(&aesKey{}):      &blockEncryptor{newBlock: newAESBlock, prng: p.prng},
		reflect.TypeOf(&blowfishKey{}): &blockEncryptor{newBlock: newBlowfishBlock, prng: p.prng},
		reflect.TypeOf(&dlPublicKey{}): &dhaesEncryptor{provider: p},
	}

	// Set the decryptors
	p.decryptors = map[reflect.Type]Decryptor{
		reflect.TypeOf(&aesKey{}):       &blockDecryptor{newBlock: newAESBlock},
		reflect.TypeOf(&blowfishKey{}):  &blockDecryptor{newBlock: newBlowfishBlock},
		reflect.TypeOf(&dlPrivateKey{}): &dhaesDecryptor{provider: p},
	}

	// Set the signers
	p.signers = map[reflect.Type]Signer{
		reflect.TypeOf(&rsaPrivateKey{}): &rsaSigner{prng: p.prng},
	}

	// Set the verifiers
	p.verifiers = map[reflect.Type]Verifier{
		reflect.TypeOf(&rsaPrivateKey{}): &rsaPrivateKeyVerifier{},
		reflect.TypeOf(&rsaPublicKey{}):  &rsaPublicKeyKeyVerifier{},
	}

	// Set the key generators
	p.keyGenerators = map[reflect.Type]KeyGenerator{
		reflect.TypeOf(&csp.RSAKeyGenOpts{}):      &rsaKeyGenerator{length: conf.rsaBitLength, rng: p.prng},
		reflect.TypeOf(&csp.DLKeyGenOpts{}):       &dlKeyGenerator{rng: p.prng},
		reflect.TypeOf(&csp.AESKeyGenOpts{}):      &symmetricKeyGenerator{length: conf.aesByteLength, prng: p.prng, newKey: toKey(newAESKey)},
		reflect.TypeOf(&csp.BlowfishKeyGenOpts{}): &symmetricKeyGenerator{length: conf.blowfishByteLength, prng: p.prng, newKey: toKey(newBlowfishKey)},
		reflect.TypeOf(&csp.HMACKeyGenOpts{}):     &symmetricKeyGenerator{length: conf.hashFunction().Size(), prng: p.prng, newKey: toKey(newHMACKey)},
	}

	// Set the key importers
	p.keyImporters = map[reflect.Type]KeyImporter{
		reflect.TypeOf(&csp.AESImportKeyOpts{}):         &symmetricKeyImporter{minLen: 16, maxLen: 32, step: 8, newKey: toKey(newAESKey)},
		reflect.TypeOf(&csp.BlowfishImportKeyOpts{}):    &symmetricKeyImporter{minLen: 4, maxLen: 56, step: 1, newKey: toKey(newBlowfishKey)},
		reflect.TypeOf(&csp.HMACImportKeyOpts{}):        &symmetricKeyImporter{minLen: 1, step: 1, newKey: toKey(newHMACKey)},
		reflect.TypeOf(&csp.RSAGoPublicKeyImportOpts{}): &rsaGoPublicKeyImportOptsKeyImporter{},
		reflect.TypeOf(&csp.DLPublicKeyImportOpts{}):    &dlPublicKeyImportOptsKeyImporter{rng: p.prng},
	}

	return p, nil
}

// impl is the software-based implementation of csp.CSP.
type impl struct {
	conf    *config
	ks      csp.KeyStore
	entropy io.Reader
	metrics *Metrics

	// prng serves key generation, IVs and signing
	prng          csp.RandomGenerator
	defaultRandom csp.RandomOpts

	keyGenerators map[reflect.Type]KeyGenerator
	keyImporters  map[reflect.Type]KeyImporter
	encryptors    map[reflect.Type]Encryptor
	decryptors    map[reflect.Type]Decryptor
	signers       map[reflect.Type]Signer
	verifiers     map[reflect.Type]Verifier
	hashers       map[reflect.Type]Hasher
	macers        map[reflect.Type]MACer
	randoms       map[reflect.Type]RandomConstructor
}

// KeyGen generates a key using opts.
func (p *impl) KeyGen(opts csp.KeyGenOpts) (k csp.Key, err error) {
	// Validate arguments
	if opts == nil {
		return nil, errors.New("Invalid Opts parameter. It must not be nil.")
	}

	keyGenerator, found := p.keyGenerators[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'KeyGenOpts' provided [%v]", opts)
	}

	start := time.Now()
	k, err = keyGenerator.KeyGen(opts)
	p.metrics.observeKeyGen(opts.Algorithm(), start, err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed generating key with opts [%v]", opts)
	}

	// If the key is not Ephemeral, store it.
	if !opts.Ephemeral() {
		// Store the key
		err = p.ks.StoreKey(k)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed storing key [%s]", opts.Algorithm())
		}
	}

	return k, nil
}

// KeyImport imports a key from its raw representation using opts.
// The opts argument should be appropriate for the primitive used.
func (p *impl) KeyImport(raw interface{}, opts csp.KeyImportOpts) (k csp.Key, err error) {
	// Validate arguments
	if raw == nil {
		return nil, errors.New("Invalid raw. It must not be nil.")
	}
	if opts == nil {
		return nil, errors.New("Invalid opts. It must not be nil.")
	}

	keyImporter, found := p.keyImporters[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'KeyImportOpts' provided [%v]", opts)
	}

	k, err = keyImporter.KeyImport(raw, opts)
	p.metrics.observe("import", opts.Algorithm(), err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed importing key with opts [%v]", opts)
	}

	// If the key is not Ephemeral, store it.
	if !opts.Ephemeral() {
		// Store the key
		err = p.ks.StoreKey(k)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed storing imported key with opts [%v]", opts)
		}
	}

	return
}

// GetKey returns the key this CSP associates to
// the Subject Key Identifier ski.
func (p *impl) GetKey(ski []byte) (k csp.Key, err error) {
	k, err = p.ks.GetKey(ski)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed getting key for SKI [%v]", ski)
	}

	return
}

// Hash hashes messages msg using options opts.
func (p *impl) Hash(msg []byte, opts csp.HashOpts) (digest []byte, err error) {
	if opts == nil {
		opts = &csp.SHAOpts{}
	}

	hasher, found := p.hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'HashOpt' provided [%v]", opts)
	}

	digest, err = hasher.Hash(msg, opts)
	p.metrics.observe("hash", opts.Algorithm(), err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed hashing with opts [%v]", opts)
	}

	return
}

// GetHash returns and instance of hash.Hash using options opts.
func (p *impl) GetHash(opts csp.HashOpts) (h hash.Hash, err error) {
	if opts == nil {
		opts = &csp.SHAOpts{}
	}

	hasher, found := p.hashers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'HashOpt' provided [%v]", opts)
	}

	h, err = hasher.GetHash(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed getting hash function with opts [%v]", opts)
	}

	return
}

// MAC computes the keyed hash of msg under k.
func (p *impl) MAC(k csp.Key, msg []byte, opts csp.MACOpts) (mac []byte, err error) {
	// Validate arguments
	if k == nil {
		return nil, errors.New("Invalid Key. It must not be nil.")
	}
	if opts == nil {
		if opts, err = csp.DefaultMACOpt(); err != nil {
			return nil, err
		}
	}

	macer, found := p.macers[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'MACOpts' provided [%v]", opts)
	}

	mac, err = macer.MAC(k, msg, opts)
	p.metrics.observe("mac", opts.Algorithm(), err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed computing keyed hash with opts [%v]", opts)
	}

	return
}

// Sign signs digest using key k.
func (p *impl) Sign(k csp.Key, digest []byte, opts csp.SignerOpts) (signature []byte, err error) {
	// Validate arguments
	if k == nil {
		return nil, errors.New("Invalid Key. It must not be nil.")
	}
	if len(digest) == 0 {
		return nil, errors.New("Invalid digest. Cannot be empty.")
	}

	signer, found := p.signers[reflect.TypeOf(k)]
	if !found {
		return nil, errors.Errorf("Unsupported 'SignKey' provided [%T]", k)
	}

	signature, err = signer.Sign(k, digest, opts)
	p.metrics.observe("sign", keyAlgorithm(k), err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed signing with opts [%v]", opts)
	}

	return
}

// Verify verifies signature against key k and digest
func (p *impl) Verify(k csp.Key, signature, digest []byte, opts csp.SignerOpts) (valid bool, err error) {
	// Validate arguments
	if k == nil {
		return false, errors.New("Invalid Key. It must not be nil.")
	}
	if len(signature) == 0 {
		return false, errors.New("Invalid signature. Cannot be empty.")
	}
	if len(digest) == 0 {
		return false, errors.New("Invalid digest. Cannot be empty.")
	}

	verifier, found := p.verifiers[reflect.TypeOf(k)]
	if !found {
		return false, errors.Errorf("Unsupported 'VerifyKey' provided [%T]", k)
	}

	valid, err = verifier.Verify(k, signature, digest, opts)
	p.metrics.observe("verify", keyAlgorithm(k), err)
	if err != nil {
		return false, errors.Wrapf(err, "Failed verifing with opts [%v]", opts)
	}

	return
}

// Encrypt encrypts plaintext using key k.
func (p *impl) Encrypt(k csp.Key, plaintext []byte, opts csp.EncrypterOpts) (ciphertext []byte, err error) {
	// Validate arguments
	if k == nil {
		return nil, errors.New("Invalid Key. It must not be nil.")
	}

	encryptor, found := p.encryptors[reflect.TypeOf(k)]
	if !found {
		return nil, errors.Errorf("Unsupported 'EncryptKey' provided [%T]", k)
	}

	ciphertext, err = encryptor.Encrypt(k, plaintext, opts)
	p.metrics.observe("encrypt", keyAlgorithm(k), err)
	return ciphertext, err
}

// Decrypt decrypts ciphertext using key k.
func (p *impl) Decrypt(k csp.Key, ciphertext []byte, opts csp.DecrypterOpts) (plaintext []byte, err error) {
	// Validate arguments
	if k == nil {
		return nil, errors.New("Invalid Key. It must not be nil.")
	}

	decryptor, found := p.decryptors[reflect.TypeOf(k)]
	if !found {
		return nil, errors.Errorf("Unsupported 'DecryptKey' provided [%T]", k)
	}

	plaintext, err = decryptor.Decrypt(k, ciphertext, opts)
	p.metrics.observe("decrypt", keyAlgorithm(k), err)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed decrypting with opts [%v]", opts)
	}

	return
}

// GetRandom returns a new generator seeded from the provider's entropy
// source.
func (p *impl) GetRandom(opts csp.RandomOpts) (rng csp.RandomGenerator, err error) {
	if opts == nil {
		opts = p.defaultRandom
	}

	constructor, found := p.randoms[reflect.TypeOf(opts)]
	if !found {
		return nil, errors.Errorf("Unsupported 'RandomOpts' provided [%v]", opts)
	}

	rng, err = constructor(p.entropy)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed creating random generator with opts [%v]", opts)
	}
	logger.Debugf("Created %s random generator", opts.Algorithm())

	return
}
