// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/subtle"
	"fmt"
	"hash"
)

const passwordExpansionLength = 1048576

// localizeKey implements the password-to-key algorithm of RFC 3414 section
// 2.6: expand the password cyclically into a 1,048,576-byte buffer, hash
// it, then hash digest||engineID||digest. Passwords shorter than 8 bytes
// are rejected (spec section 4.7).
func localizeKey(protocol SnmpV3AuthProtocol, password string, engineID string) ([]byte, error) {
	if len(password) < 8 {
		return nil, errSecretTooShort
	}

	newHash := hashForProtocol(protocol)

	expander := newHash()
	chunk := make([]byte, 64)
	pi := 0
	for written := 0; written < passwordExpansionLength; written += 64 {
		for i := range chunk {
			chunk[i] = password[pi%len(password)]
			pi++
		}
		expander.Write(chunk)
	}
	expanded := expander.Sum(nil)

	localize := newHash()
	localize.Write(expanded)
	localize.Write([]byte(engineID))
	localize.Write(expanded)
	return localize.Sum(nil), nil
}

func hashForProtocol(protocol SnmpV3AuthProtocol) func() hash.Hash {
	if protocol == SHA {
		return sha1.New
	}
	return md5.New
}

// extendKey implements the "localization extension" rule (spec section
// 4.7): when a privacy protocol needs more key material than the
// authentication protocol's digest provides, repeatedly hash
// key||engineID||key until enough bytes are collected.
func extendKey(protocol SnmpV3AuthProtocol, key []byte, engineID string, need int) []byte {
	h := hashForProtocol(protocol)
	out := append([]byte{}, key...)
	for len(out) < need {
		hh := h()
		hh.Write(out[len(out)-len(key):])
		hh.Write([]byte(engineID))
		hh.Write(out[len(out)-len(key):])
		out = append(out, hh.Sum(nil)...)
	}
	return out[:need]
}

// localizedAuthKey returns sp's cached authentication key, computing and
// caching it on first use or when the authoritative engineID has changed
// (spec section 4.7, "Cached keys").
func (sp *UsmSecurityParameters) localizedAuthKey() ([]byte, error) {
	if sp.localAuthKey != nil && sp.cachedEngine == sp.AuthoritativeEngineID {
		return sp.localAuthKey, nil
	}
	key, err := localizeKey(sp.AuthenticationProtocol, sp.AuthenticationPassphrase, sp.AuthoritativeEngineID)
	if err != nil {
		return nil, err
	}
	if sp.cachedEngine != sp.AuthoritativeEngineID {
		sp.localPrivKey = nil // localized against the previous engineID
	}
	sp.localAuthKey = key
	sp.cachedEngine = sp.AuthoritativeEngineID
	return key, nil
}

// localizedPrivKey returns sp's cached privacy key, extended or truncated
// to the length the selected privacy protocol requires.
func (sp *UsmSecurityParameters) localizedPrivKey() ([]byte, error) {
	if sp.localPrivKey != nil && sp.cachedEngine == sp.AuthoritativeEngineID {
		return sp.localPrivKey, nil
	}
	base, err := localizeKey(sp.AuthenticationProtocol, sp.PrivacyPassphrase, sp.AuthoritativeEngineID)
	if err != nil {
		return nil, err
	}
	need := privKeyLength(sp.PrivacyProtocol)
	if need > len(base) {
		base = extendKey(sp.AuthenticationProtocol, base, sp.AuthoritativeEngineID, need)
	} else if need > 0 {
		base = base[:need]
	}
	if sp.cachedEngine != sp.AuthoritativeEngineID {
		sp.localAuthKey = nil // localized against the previous engineID
	}
	sp.localPrivKey = base
	sp.cachedEngine = sp.AuthoritativeEngineID
	return base, nil
}

func privKeyLength(protocol SnmpV3PrivProtocol) int {
	switch protocol {
	case DES:
		return 16 // 8-byte key + 8-byte pre-IV, both sliced from the localized key
	case TripleDES:
		return 32 // 24-byte key + 8-byte pre-IV
	case AES:
		return 16
	case AES192:
		return 24
	case AES256:
		return 32
	default:
		return 0
	}
}

// hmacAuthenticate computes the HMAC-MD5-96 or HMAC-SHA1-96 of msg and
// writes the first 12 bytes into msg[authParamStart:authParamStart+12].
// The caller must have already zeroed that field before calling.
func hmacAuthenticate(protocol SnmpV3AuthProtocol, key []byte, msg []byte, authParamStart int) error {
	if authParamStart+12 > len(msg) {
		return errInvalidAuthParamsLength
	}
	mac := hmac.New(hashForProtocol(protocol), key)
	mac.Write(msg)
	sum := mac.Sum(nil)
	copy(msg[authParamStart:authParamStart+12], sum[:12])
	return nil
}

// hmacVerify recomputes the HMAC over msg (with its authentication
// parameters field temporarily zeroed) and compares, constant-time,
// against the 12-byte value extracted from the packet.
func hmacVerify(protocol SnmpV3AuthProtocol, key []byte, msg []byte, authParamStart int, claimed []byte) (bool, error) {
	if len(claimed) != 12 {
		return false, errInvalidAuthParamsLength
	}
	if authParamStart+12 > len(msg) {
		return false, errInvalidAuthParamsLength
	}

	blanked := make([]byte, len(msg))
	copy(blanked, msg)
	for i := 0; i < 12; i++ {
		blanked[authParamStart+i] = 0
	}

	mac := hmac.New(hashForProtocol(protocol), key)
	mac.Write(blanked)
	sum := mac.Sum(nil)
	return subtle.ConstantTimeCompare(sum[:12], claimed) == 1, nil
}

func authProtocolName(p SnmpV3AuthProtocol) string {
	switch p {
	case NoAuth:
		return "NoAuth"
	case MD5:
		return "MD5"
	case SHA:
		return "SHA"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

func privProtocolName(p SnmpV3PrivProtocol) string {
	switch p {
	case NoPriv:
		return "NoPriv"
	case DES:
		return "DES"
	case TripleDES:
		return "3DES"
	case AES:
		return "AES"
	case AES192:
		return "AES192"
	case AES256:
		return "AES256"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}
