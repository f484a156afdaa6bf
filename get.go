// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "fmt"

// oidsToPDUs builds a varbind list of Null-valued placeholders for a
// read-only request (Get/GetNext/GetBulk never send a value).
func oidsToPDUs(oids []string) ([]SnmpPDU, error) {
	out := make([]SnmpPDU, len(oids))
	for i, s := range oids {
		oid, err := ParseOid(s)
		if err != nil {
			return nil, err
		}
		out[i] = SnmpPDU{Name: oid, Type: Null}
	}
	return out, nil
}

// Get retrieves the values bound to oids (spec section 5, "Get").
func (x *GoSNMP) Get(oids []string) (*SnmpPacket, error) {
	pdus, err := oidsToPDUs(oids)
	if err != nil {
		return nil, err
	}
	return x.send(pdus, GetRequest, 0, 0)
}

// GetNext retrieves the lexicographic successor of each oid (spec
// section 5, "GetNext").
func (x *GoSNMP) GetNext(oids []string) (*SnmpPacket, error) {
	pdus, err := oidsToPDUs(oids)
	if err != nil {
		return nil, err
	}
	return x.send(pdus, GetNextRequest, 0, 0)
}

// GetBulk retrieves up to maxRepetitions successors for each of oids beyond
// the first nonRepeaters entries (v2c/v3 only, spec section 5, "GetBulk").
func (x *GoSNMP) GetBulk(oids []string, nonRepeaters, maxRepetitions uint8) (*SnmpPacket, error) {
	if x.Version == Version1 {
		return nil, fmt.Errorf("gosnmp: GetBulk requires v2c or v3")
	}
	pdus, err := oidsToPDUs(oids)
	if err != nil {
		return nil, err
	}
	return x.send(pdus, GetBulkRequest, int(nonRepeaters), int(maxRepetitions))
}

// Set assigns the given varbinds' values (spec section 5, "Set").
func (x *GoSNMP) Set(pdus []SnmpPDU) (*SnmpPacket, error) {
	return x.send(pdus, SetRequest, 0, 0)
}
