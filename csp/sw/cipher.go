/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/hyperledger/fabric-mpcsp/csp"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blowfish"
)

func newAESBlock(key []byte) (cipher.Block, error) {
	return aes.NewCipher(key)
}

func newBlowfishBlock(key []byte) (cipher.Block, error) {
	return blowfish.NewCipher(key)
}

// blockFactory returns the block constructor for a cipher selection.
func blockFactory(opts csp.CipherOpts) (func([]byte) (cipher.Block, error), error) {
	switch opts.(type) {
	case *csp.AESOpts:
		return newAESBlock, nil
	case *csp.BlowfishOpts:
		return newBlowfishBlock, nil
	}
	return nil, errors.Errorf("Unsupported 'CipherOpts' provided [%v]", opts)
}

func pkcs7Padding(src []byte, blockSize int) []byte {
	padding := blockSize - len(src)%blockSize
	padtext := bytes.Repeat([]byte{byte(padding)}, padding)
	return append(append([]byte(nil), src...), padtext...)
}

func pkcs7UnPadding(src []byte, blockSize int) ([]byte, error) {
	length := len(src)
	if length == 0 || length%blockSize != 0 {
		return nil, errors.New("Invalid pkcs7 padding (length not a multiple of the block size)")
	}
	unpadding := int(src[length-1])

	if unpadding > blockSize || unpadding == 0 {
		return nil, errors.New("Invalid pkcs7 padding (unpadding > block size || unpadding == 0)")
	}

	pad := src[len(src)-unpadding:]
	for i := 0; i < unpadding; i++ {
		if pad[i] != byte(unpadding) {
			return nil, errors.New("Invalid pkcs7 padding (pad[i] != unpadding)")
		}
	}

	return src[:(length - unpadding)], nil
}

// cbcEncrypt returns IV || CBC(src). src must be block aligned.
func cbcEncrypt(block cipher.Block, iv, src []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(src)%bs != 0 {
		return nil, errors.New("Invalid plaintext. It must be a multiple of the block size")
	}
	if len(iv) != bs {
		return nil, errors.Errorf("Invalid IV. It must have length the block size [%d]", bs)
	}

	ciphertext := make([]byte, bs+len(src))
	copy(ciphertext, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext[bs:], src)
	return ciphertext, nil
}

// cbcDecrypt reverses cbcEncrypt.
func cbcDecrypt(block cipher.Block, src []byte) ([]byte, error) {
	bs := block.BlockSize()
	if len(src) < bs {
		return nil, errors.New("Invalid ciphertext. It must be a multiple of the block size")
	}
	iv := src[:bs]
	body := src[bs:]
	if len(body)%bs != 0 {
		return nil, errors.New("Invalid ciphertext. It must be a multiple of the block size")
	}

	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)
	return plaintext, nil
}

func ecbCrypt(block cipher.Block, src []byte, encrypt bool) ([]byte, error) {
	bs := block.BlockSize()
	if len(src)%bs != 0 {
		return nil, errors.New("Invalid input. It must be a multiple of the block size")
	}
	dst := make([]byte, len(src))
	for i := 0; i < len(src); i += bs {
		if encrypt {
			block.Encrypt(dst[i:i+bs], src[i:i+bs])
		} else {
			block.Decrypt(dst[i:i+bs], src[i:i+bs])
		}
	}
	return dst, nil
}

// blockEncryptor encrypts with a symmetric key in CBC or ECB mode, padding
// the plaintext with PKCS#7.
type blockEncryptor struct {
	newBlock func([]byte) (cipher.Block, error)
	prng     io.Reader
}

func (e *blockEncryptor) Encrypt(k csp.Key, plaintext []byte, opts csp.EncrypterOpts) ([]byte, error) {
	block, err := e.newBlock(k.(keyMaterial).material())
	if err != nil {
		return nil, errors.Wrap(err, "Failed creating block cipher")
	}
	padded := pkcs7Padding(plaintext, block.BlockSize())
	defer wipe(padded)

	switch o := opts.(type) {
	case *csp.CBCPKCS7ModeOpts:
		return e.cbc(block, padded, o)
	case csp.CBCPKCS7ModeOpts:
		return e.cbc(block, padded, &o)
	case *csp.ECBPKCS7ModeOpts, csp.ECBPKCS7ModeOpts:
		return ecbCrypt(block, padded, true)
	default:
		return nil, errors.Errorf("Mode not recognized [%s]", opts)
	}
}

func (e *blockEncryptor) cbc(block cipher.Block, padded []byte, o *csp.CBCPKCS7ModeOpts) ([]byte, error) {
	if len(o.IV) != 0 && o.PRNG != nil {
		return nil, errors.New("Invalid options. Either IV or PRNG should be different from nil, or both nil.")
	}
	if len(o.IV) != 0 {
		return cbcEncrypt(block, o.IV, padded)
	}

	prng := o.PRNG
	if prng == nil {
		prng = e.prng
	}
	iv := make([]byte, block.BlockSize())
	if _, err := io.ReadFull(prng, iv); err != nil {
		return nil, errors.Wrap(err, "Failed generating IV")
	}
	return cbcEncrypt(block, iv, padded)
}

type blockDecryptor struct {
	newBlock func([]byte) (cipher.Block, error)
}

func (d *blockDecryptor) Decrypt(k csp.Key, ciphertext []byte, opts csp.DecrypterOpts) ([]byte, error) {
	block, err := d.newBlock(k.(keyMaterial).material())
	if err != nil {
		return nil, errors.Wrap(err, "Failed creating block cipher")
	}

	var padded []byte
	switch opts.(type) {
	case *csp.CBCPKCS7ModeOpts, csp.CBCPKCS7ModeOpts:
		padded, err = cbcDecrypt(block, ciphertext)
	case *csp.ECBPKCS7ModeOpts, csp.ECBPKCS7ModeOpts:
		padded, err = ecbCrypt(block, ciphertext, false)
	default:
		return nil, errors.Errorf("Mode not recognized [%s]", opts)
	}
	if err != nil {
		return nil, err
	}
	return pkcs7UnPadding(padded, block.BlockSize())
}
