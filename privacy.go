// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	crand "crypto/rand"
	"encoding/binary"
	"sync/atomic"
)

// nextSalt produces the next privacyParameters field for sp's selected
// privacy protocol, per spec section 4.7's per-protocol derivation rules.
// AES uses a 64-bit counter; DES and 3DES use a 32-bit one combined with
// engineBoots. Both counters are fields of sp. The RNG need only be non-sequential for
// msgID, but privacy salts must actually be monotonic (spec section 5);
// each connection's counters start from a cryptographically random seed so
// that two connections using the same user never replay a salt value.
func (sp *UsmSecurityParameters) nextSalt() []byte {
	switch sp.PrivacyProtocol {
	case AES, AES192, AES256:
		n := atomic.AddUint64(&sp.localAESSalt, 1)
		salt := make([]byte, 8)
		binary.BigEndian.PutUint64(salt, n)
		return salt
	default: // DES, TripleDES
		n := atomic.AddUint32(&sp.localDESSalt, 1)
		salt := make([]byte, 8)
		binary.BigEndian.PutUint32(salt, sp.AuthoritativeEngineBoots)
		binary.BigEndian.PutUint32(salt[4:], n)
		return salt
	}
}

// seedSalts gives sp's salt counters a cryptographically random starting
// point (spec section 4.7: "a monotonic counter combined with engineBoots
// suffices", but the starting value must not be predictable across
// process restarts).
func (sp *UsmSecurityParameters) seedSalts() error {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return err
	}
	sp.localAESSalt = binary.BigEndian.Uint64(buf[:])
	sp.localDESSalt = binary.BigEndian.Uint32(buf[:4])
	return nil
}

// encryptScopedPDU encrypts plaintext (the BER-encoded ScopedPdu Sequence)
// under sp's privacy protocol, returning the ciphertext and setting
// sp.PrivacyParameters to the salt used.
func (sp *UsmSecurityParameters) encryptScopedPDU(plaintext []byte) ([]byte, error) {
	privKey, err := sp.localizedPrivKey()
	if err != nil {
		return nil, err
	}
	salt := sp.nextSalt()
	sp.PrivacyParameters = salt

	switch sp.PrivacyProtocol {
	case AES, AES192, AES256:
		return aesCFBCrypt(privKey, sp.AuthoritativeEngineBoots, sp.AuthoritativeEngineTime, salt, plaintext, true)
	case DES:
		return desCBCEncrypt(privKey[:8], privKey[8:16], salt, plaintext)
	case TripleDES:
		return tripleDESCBCEncrypt(privKey[:24], privKey[24:32], salt, plaintext)
	default:
		return nil, errUnsupportedPrivProtocol
	}
}

// decryptScopedPDU reverses encryptScopedPDU using sp's current
// PrivacyParameters (as received on the wire).
func (sp *UsmSecurityParameters) decryptScopedPDU(ciphertext []byte) ([]byte, error) {
	if len(sp.PrivacyParameters) != 8 {
		return nil, errInvalidPrivParamsLength
	}
	privKey, err := sp.localizedPrivKey()
	if err != nil {
		return nil, err
	}

	switch sp.PrivacyProtocol {
	case AES, AES192, AES256:
		return aesCFBCrypt(privKey, sp.AuthoritativeEngineBoots, sp.AuthoritativeEngineTime, sp.PrivacyParameters, ciphertext, false)
	case DES:
		return desCBCDecrypt(privKey[:8], privKey[8:16], sp.PrivacyParameters, ciphertext)
	case TripleDES:
		return tripleDESCBCDecrypt(privKey[:24], privKey[24:32], sp.PrivacyParameters, ciphertext)
	default:
		return nil, errUnsupportedPrivProtocol
	}
}

// aesCFBCrypt implements RFC 3826 (and its AES-192/256 extensions): IV =
// engineBoots(4, BE) || engineTime(4, BE) || salt(8). Stream cipher, no
// padding, so encrypt and decrypt are the same XOR operation.
func aesCFBCrypt(key []byte, boots, engTime uint32, salt []byte, in []byte, encrypt bool) ([]byte, error) {
	var iv [16]byte
	binary.BigEndian.PutUint32(iv[0:4], boots)
	binary.BigEndian.PutUint32(iv[4:8], engTime)
	copy(iv[8:16], salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	var stream cipher.Stream
	if encrypt {
		stream = cipher.NewCFBEncrypter(block, iv[:])
	} else {
		stream = cipher.NewCFBDecrypter(block, iv[:])
	}
	stream.XORKeyStream(out, in)
	return out, nil
}

// desCBCEncrypt implements RFC 3414's DES-CBC privacy: actual IV =
// pre-IV XOR privacyParameters; the plaintext is padded with zero bytes to
// a multiple of the DES block size (nothing is added when already aligned).
func desCBCEncrypt(key, preIV, salt, plaintext []byte) ([]byte, error) {
	iv := xorBytes(preIV, salt)
	block, err := des.NewCipher(key)
	if err != nil {
		return nil, err
	}
	padded := padToBlockSize(plaintext, des.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func desCBCDecrypt(key, preIV, salt, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%des.BlockSize != 0 {
		return nil, errInvalidPrivParamsLength
	}
	iv := xorBytes(preIV, salt)
	block, err := des.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

// tripleDESCBCEncrypt implements the Reeder (draft-reeder-snmpv3-usm-3desede)
// privacy protocol: 24-byte 3DES key, 8-byte privacy parameters derived the
// same way as DES.
func tripleDESCBCEncrypt(key, preIV, salt, plaintext []byte) ([]byte, error) {
	iv := xorBytes(preIV, salt)
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, err
	}
	padded := padToBlockSize(plaintext, des.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func tripleDESCBCDecrypt(key, preIV, salt, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%des.BlockSize != 0 {
		return nil, errInvalidPrivParamsLength
	}
	iv := xorBytes(preIV, salt)
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func padToBlockSize(b []byte, blockSize int) []byte {
	pad := blockSize - len(b)%blockSize
	if pad == blockSize {
		return b
	}
	return append(append([]byte{}, b...), make([]byte, pad)...)
}
