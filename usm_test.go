// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 3414 appendix A.3.1: password "maplesyrup" localized against
// engineID 00 00 00 00 00 00 00 00 00 00 00 02 under MD5 yields
// 52 6f 5e ed 9f cc e2 6f 89 64 c2 93 07 87 d8 2b.
func TestLocalizeKeyMD5Vector(t *testing.T) {
	engineID, err := hex.DecodeString("000000000000000000000002")
	require.NoError(t, err)

	key, err := localizeKey(MD5, "maplesyrup", string(engineID))
	require.NoError(t, err)
	assert.Equal(t, "526f5eed9fcce26f8964c2930787d82b", hex.EncodeToString(key))
}

// RFC 3414 appendix A.3.2: the same password/engineID under SHA-1 yields
// 66 95 fe bc 92 88 e3 62 82 23 5f c7 15 1f 12 84 97 b3 8f 3f.
func TestLocalizeKeySHAVector(t *testing.T) {
	engineID, err := hex.DecodeString("000000000000000000000002")
	require.NoError(t, err)

	key, err := localizeKey(SHA, "maplesyrup", string(engineID))
	require.NoError(t, err)
	assert.Equal(t, "6695febc9288e36282235fc7151f128497b38f3f", hex.EncodeToString(key))
}

func TestLocalizeKeyRejectsShortPassword(t *testing.T) {
	_, err := localizeKey(MD5, "short", "engine")
	assert.ErrorIs(t, err, errSecretTooShort)
}

func TestHmacAuthenticateAndVerify(t *testing.T) {
	key := []byte("0123456789abcdef")
	msg := make([]byte, 32)
	copy(msg, []byte("hello world, this is a message."))
	copy(msg[10:22], make([]byte, 12)) // hmacAuthenticate expects the MAC field zeroed

	require.NoError(t, hmacAuthenticate(MD5, key, msg, 10))
	claimed := append([]byte{}, msg[10:22]...)

	ok, err := hmacVerify(MD5, key, msg, 10, claimed)
	require.NoError(t, err)
	assert.True(t, ok)

	claimed[0] ^= 0xff
	ok, err = hmacVerify(MD5, key, msg, 10, claimed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExtendKeyProducesEnoughMaterial(t *testing.T) {
	base, err := localizeKey(MD5, "maplesyrup", "engine-id-1")
	require.NoError(t, err)
	extended := extendKey(MD5, base, "engine-id-1", 32)
	assert.Len(t, extended, 32)
	assert.Equal(t, base, extended[:len(base)])
}

func TestLocalizedKeysCacheByEngine(t *testing.T) {
	sp := &UsmSecurityParameters{
		AuthenticationProtocol:   SHA,
		AuthenticationPassphrase: "maplesyrup",
		PrivacyProtocol:          AES,
		PrivacyPassphrase:        "maplesyrup",
		AuthoritativeEngineID:    "engine-one",
	}
	k1, err := sp.localizedAuthKey()
	require.NoError(t, err)

	sp.AuthoritativeEngineID = "engine-two"
	k2, err := sp.localizedAuthKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	p1, err := sp.localizedPrivKey()
	require.NoError(t, err)
	assert.Len(t, p1, privKeyLength(AES))
}
