// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package gosnmp

import "fmt"

// WalkFunc is called once per varbind discovered by Walk/BulkWalk.
type WalkFunc func(SnmpPDU) error

// Walk traverses the subtree rooted at rootOid, calling walkFn for each
// varbind in lexicographic order, using GetNext for v1 and GetBulk for
// v2c/v3 (spec section 5, "Walk").
func (x *GoSNMP) Walk(rootOid string, walkFn WalkFunc) error {
	if x.Version == Version1 {
		return x.walk(GetNextRequest, rootOid, walkFn)
	}
	return x.walk(GetBulkRequest, rootOid, walkFn)
}

// BulkWalk is Walk using GetBulk explicitly (v2c/v3 only).
func (x *GoSNMP) BulkWalk(rootOid string, walkFn WalkFunc) error {
	if x.Version == Version1 {
		return fmt.Errorf("gosnmp: BulkWalk requires v2c or v3")
	}
	return x.walk(GetBulkRequest, rootOid, walkFn)
}

// WalkAll and BulkWalkAll collect the traversal into a slice rather than
// streaming it through a callback.
func (x *GoSNMP) WalkAll(rootOid string) ([]SnmpPDU, error) {
	return x.walkAll(func(walkFn WalkFunc) error { return x.Walk(rootOid, walkFn) })
}

func (x *GoSNMP) BulkWalkAll(rootOid string) ([]SnmpPDU, error) {
	return x.walkAll(func(walkFn WalkFunc) error { return x.BulkWalk(rootOid, walkFn) })
}

func (x *GoSNMP) walkAll(run func(WalkFunc) error) ([]SnmpPDU, error) {
	var results []SnmpPDU
	err := run(func(pdu SnmpPDU) error {
		results = append(results, pdu)
		return nil
	})
	return results, err
}

// walk implements the shared GetNext/GetBulk traversal loop. Termination
// conditions (spec section 5): a reply whose OID is no longer a descendant
// of root, an exception value (NoSuchObject/NoSuchInstance/EndOfMibView),
// a NoSuchName error-status reply (v1), or a non-increasing OID (protects
// against a misbehaving agent looping the walk forever).
func (x *GoSNMP) walk(requestType Asn1BER, rootOid string, walkFn WalkFunc) error {
	root, err := ParseOid(rootOid)
	if err != nil {
		return err
	}

	maxReps := x.MaxRepetitions
	if maxReps == 0 {
		maxReps = defaultMaxRepetitions
	}

	oid := root
	requests := 0

	for {
		requests++
		var response *SnmpPacket
		var err error
		switch requestType {
		case GetBulkRequest:
			response, err = x.GetBulk([]string{oid.String()}, uint8(x.NonRepeaters), uint8(maxReps))
		case GetNextRequest:
			response, err = x.GetNext([]string{oid.String()})
		default:
			return fmt.Errorf("gosnmp: unsupported walk request type %s", requestType)
		}
		if err != nil && (response == nil || response.Error != NoSuchName) {
			return err
		}

		if len(response.Variables) == 0 {
			return nil
		}
		if response.Error == NoSuchName {
			x.Logger.Print("gosnmp: walk terminated with noSuchName")
			return nil
		}

		for _, v := range response.Variables {
			if v.Type == EndOfMibView || v.Type == NoSuchObject || v.Type == NoSuchInstance {
				x.Logger.Printf("gosnmp: walk terminated with %s", v.Type)
				return nil
			}
			if !v.Name.HasPrefix(root) {
				return nil
			}
			if v.Name.Compare(oid) <= 0 {
				return fmt.Errorf("gosnmp: OID not increasing: %s", v.Name)
			}
			if err := walkFn(v); err != nil {
				return err
			}
			oid = v.Name
		}
	}
}
