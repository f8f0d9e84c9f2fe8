/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/cipher"
	"crypto/hmac"
	"encoding/binary"
	"hash"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/hyperledger/fabric-mpcsp/mp"
	"github.com/pkg/errors"
)

const dhaesDefaultCipherKeyBits = 128

type dhaesParams struct {
	hash          func() hash.Hash
	macHash       func() hash.Hash
	newBlock      func([]byte) (cipher.Block, error)
	cipherKeyBits int
	macKeyBits    int
	prng          mp.RandomSource
}

// dhaesParams resolves the primitives of a DHAES operation. The key
// material comes from one digest, so cipher and MAC key bits together must
// fit in it; both must be whole 32 bit words.
func (p *impl) dhaesParams(opts interface{}) (*dhaesParams, error) {
	var o csp.DHAESOpts
	switch v := opts.(type) {
	case nil:
	case *csp.DHAESOpts:
		o = *v
	case csp.DHAESOpts:
		o = v
	default:
		return nil, errors.Errorf("Unsupported DHAES options provided [%v]", opts)
	}

	params := &dhaesParams{prng: p.prng}
	if o.PRNG != nil {
		params.prng = o.PRNG
	}

	var err error
	if params.hash, err = p.hashFunction(o.Hash); err != nil {
		return nil, err
	}

	cipherOpts := o.Cipher
	if cipherOpts == nil {
		if cipherOpts, err = csp.DefaultCipherOpt(); err != nil {
			return nil, err
		}
	}
	if params.newBlock, err = blockFactory(cipherOpts); err != nil {
		return nil, err
	}

	macOpts := o.MAC
	if macOpts == nil {
		if macOpts, err = csp.DefaultMACOpt(); err != nil {
			return nil, err
		}
	}
	if params.macHash, err = p.hashFunction(macOpts.HashOpts()); err != nil {
		return nil, err
	}

	digestBits := 8 * params.hash().Size()
	params.cipherKeyBits = o.CipherKeyBits
	if params.cipherKeyBits == 0 {
		params.cipherKeyBits = dhaesDefaultCipherKeyBits
	}
	params.macKeyBits = o.MACKeyBits
	if params.macKeyBits == 0 {
		params.macKeyBits = digestBits - params.cipherKeyBits
	}

	if params.cipherKeyBits <= 0 || params.macKeyBits <= 0 ||
		params.cipherKeyBits%32 != 0 || params.macKeyBits%32 != 0 ||
		params.cipherKeyBits+params.macKeyBits > digestBits {
		return nil, errors.Errorf("Unusable DHAES key sizes [cipher %d, mac %d] for a %d bit digest", params.cipherKeyBits, params.macKeyBits, digestBits)
	}
	return params, nil
}

// keys splits H(E || S) into the MAC key followed by the cipher key.
func (params *dhaesParams) keys(e, s []byte) (macKey, cipherKey []byte) {
	h := params.hash()
	h.Write(e)
	h.Write(s)
	digest := h.Sum(nil)

	m := params.macKeyBits / 8
	c := params.cipherKeyBits / 8
	return digest[:m], digest[m : m+c]
}

func (params *dhaesParams) crypt(cipherKey, src []byte, encrypt bool) ([]byte, error) {
	block, err := params.newBlock(cipherKey)
	if err != nil {
		return nil, errors.Wrap(err, "Failed creating block cipher")
	}
	bs := block.BlockSize()
	iv := make([]byte, bs)

	if encrypt {
		padded := pkcs7Padding(src, bs)
		defer wipe(padded)
		dst := make([]byte, len(padded))
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(dst, padded)
		return dst, nil
	}

	if len(src) == 0 || len(src)%bs != 0 {
		return nil, errors.New("Invalid ciphertext. It must be a multiple of the block size")
	}
	dst := make([]byte, len(src))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(dst, src)
	return pkcs7UnPadding(dst, bs)
}

// sharedSecret returns base^exp mod P, sized like P.
func sharedSecret(d *csp.DLDomainParams, base, exp *mp.Number) ([]byte, error) {
	pb, err := mp.NewBarrett(significant(d.P))
	if err != nil {
		return nil, errors.WithMessage(err, "Invalid P")
	}
	defer pb.Free()

	s := new(mp.Number).Set(pb.PowMod(nil, significant(base), exp.Words()))
	defer s.Free()
	return fixedBytes(s, d.P), nil
}

// dhaesEncryptor encrypts to a DL public key y. The output is
// len(E) || E || MAC || C where E = G^k for an ephemeral k, the keys come
// from H(E || y^k), C is the CBC encryption of the message under a zero IV
// and MAC authenticates C.
type dhaesEncryptor struct {
	provider *impl
}

func (e *dhaesEncryptor) Encrypt(k csp.Key, plaintext []byte, opts csp.EncrypterOpts) ([]byte, error) {
	pub := k.(*dlPublicKey)
	params, err := e.provider.dhaesParams(opts)
	if err != nil {
		return nil, err
	}

	ephemeral, ephemeralPub, err := dlPair(pub.domain, params.prng)
	if err != nil {
		return nil, err
	}
	defer ephemeral.Free()

	secret, err := sharedSecret(pub.domain, pub.y, ephemeral)
	if err != nil {
		return nil, err
	}
	defer wipe(secret)

	eb := fixedBytes(ephemeralPub, pub.domain.P)
	macKey, cipherKey := params.keys(eb, secret)
	defer wipe(macKey)
	defer wipe(cipherKey)

	ct, err := params.crypt(cipherKey, plaintext, true)
	if err != nil {
		return nil, err
	}
	mac := computeHMAC(params.macHash, macKey, ct)

	out := make([]byte, 4, 4+len(eb)+len(mac)+len(ct))
	binary.BigEndian.PutUint32(out, uint32(len(eb)))
	out = append(out, eb...)
	out = append(out, mac...)
	return append(out, ct...), nil
}

type dhaesDecryptor struct {
	provider *impl
}

func (d *dhaesDecryptor) Decrypt(k csp.Key, ciphertext []byte, opts csp.DecrypterOpts) ([]byte, error) {
	priv := k.(*dlPrivateKey)
	params, err := d.provider.dhaesParams(opts)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < 4 {
		return nil, errors.New("Invalid ciphertext. Too short.")
	}
	el := int(binary.BigEndian.Uint32(ciphertext))
	macLen := params.macHash().Size()
	if el != 4*len(significant(priv.domain.P)) || len(ciphertext) < 4+el+macLen {
		return nil, errors.New("Invalid ciphertext. Malformed header.")
	}
	eb := ciphertext[4 : 4+el]
	mac := ciphertext[4+el : 4+el+macLen]
	ct := ciphertext[4+el+macLen:]

	ephemeralPub := new(mp.Number).SetBytes(eb)
	if err := validateDLPublic(priv.domain, ephemeralPub, false); err != nil {
		return nil, errors.WithMessage(err, "Invalid ciphertext")
	}

	secret, err := sharedSecret(priv.domain, ephemeralPub, priv.x)
	if err != nil {
		return nil, err
	}
	defer wipe(secret)

	macKey, cipherKey := params.keys(eb, secret)
	defer wipe(macKey)
	defer wipe(cipherKey)

	if !hmac.Equal(mac, computeHMAC(params.macHash, macKey, ct)) {
		return nil, errors.New("Invalid ciphertext. MAC verification failed.")
	}
	return params.crypt(cipherKey, ct, false)
}
