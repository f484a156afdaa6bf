// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIPAddrString(t *testing.T) {
	ip, err := ParseIPAddr("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", ip.String())
}

func TestParseIPAddrRejectsMalformed(t *testing.T) {
	_, err := ParseIPAddr("10.0.0.1.5")
	assert.Error(t, err)
	_, err = ParseIPAddr("10.0.0.256")
	assert.Error(t, err)
}

func TestIPAddrClass(t *testing.T) {
	a, _ := ParseIPAddr("10.0.0.1")
	b, _ := ParseIPAddr("172.16.0.1")
	c, _ := ParseIPAddr("192.168.0.1")
	d, _ := ParseIPAddr("224.0.0.1")
	assert.Equal(t, ClassA, a.Class())
	assert.Equal(t, ClassB, b.Class())
	assert.Equal(t, ClassC, c.Class())
	assert.Equal(t, ClassD, d.Class())
}

func TestMaskFromBitsAndSubnet(t *testing.T) {
	mask, err := MaskFromBits(24)
	require.NoError(t, err)
	ip, _ := ParseIPAddr("192.168.1.42")
	assert.Equal(t, "192.168.1.0", ip.Subnet(mask).String())
	assert.Equal(t, "192.168.1.255", ip.Broadcast(mask).String())
}

func TestMaskFromBitsRejectsOutOfRange(t *testing.T) {
	_, err := MaskFromBits(33)
	assert.Error(t, err)
}
