/*
 * Copyright 2026 Bluekit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sdp

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Attribute IDs used by the serial profile.
const (
	AttrServiceClassIDList  = 0x0001
	AttrProtocolDescriptors = 0x0004
	AttrBrowseGroupList     = 0x0005
	AttrLanguageBaseList    = 0x0006
	AttrProfileDescriptors  = 0x0009
	AttrServiceName         = 0x0100
	AttrServiceDescription  = 0x0101
)

// Well-known protocol and group UUID aliases.
const (
	uuidL2CAP          = 0x0100
	uuidRFCOMM         = 0x0003
	uuidPublicBrowse   = 0x1002
	uuidSerialPortProf = 0x1101
)

const serialPortProfileVersion = 0x0100

// Record is a service record as an attribute map.
type Record map[uint16]Element

// Marshal encodes the record PDU: a sequence of attribute id/value pairs
// in ascending id order.
func (r Record) Marshal() ([]byte, error) {
	ids := make([]int, 0, len(r))
	for id := range r {
		ids = append(ids, int(id))
	}

	sort.Ints(ids)

	root := Element{Type: typeSeq}
	for _, id := range ids {
		root.Seq = append(root.Seq, Uint16(uint16(id)), r[uint16(id)])
	}

	return root.Marshal()
}

// ParseRecord decodes a record PDU. The whole payload must be consumed;
// trailing bytes make the record malformed.
func ParseRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return nil, ErrEmptyRecord
	}

	root, rest, err := unmarshalElement(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if len(rest) != 0 || !root.isSeq() || len(root.Seq)%2 != 0 {
		return nil, ErrMalformedRecord
	}

	rec := make(Record, len(root.Seq)/2)

	for i := 0; i < len(root.Seq); i += 2 {
		id := root.Seq[i]
		if !id.isUint() || id.Bits != 2 {
			return nil, ErrMalformedRecord
		}

		rec[uint16(id.Uint)] = root.Seq[i+1]
	}

	return rec, nil
}

// ExtractChannel walks the protocol descriptor list for the RFCOMM entry
// and returns its channel parameter. The channel bound is enforced here
// so every caller sees the same failure for unusable records.
func ExtractChannel(data []byte) (uint8, error) {
	rec, err := ParseRecord(data)
	if err != nil {
		return 0, err
	}

	protos, ok := rec[AttrProtocolDescriptors]
	if !ok || !protos.isSeq() {
		return 0, ErrNoChannel
	}

	rfcommUUID := UUID16(uuidRFCOMM).UUID

	for _, stack := range protos.Seq {
		if !stack.isSeq() || len(stack.Seq) == 0 {
			continue
		}

		proto := stack.Seq[0]
		if !proto.isUUID() || proto.UUID != rfcommUUID {
			continue
		}

		for _, param := range stack.Seq[1:] {
			if !param.isUint() {
				continue
			}

			ch := param.Uint
			if ch < 1 || ch > 30 {
				return 0, fmt.Errorf("%w: %d", ErrChannelOutOfRange, ch)
			}

			return uint8(ch), nil
		}
	}

	return 0, ErrNoChannel
}

// ServiceName returns the primary service name attribute, or "" when the
// record does not carry one.
func ServiceName(data []byte) string {
	rec, err := ParseRecord(data)
	if err != nil {
		return ""
	}

	name, ok := rec[AttrServiceName]
	if !ok || !name.isText() {
		return ""
	}

	return name.Text
}

// ProxyRecord builds the publishable record for a proxy: public browse
// group, the service-class UUID, the Serial Port profile descriptor and
// an L2CAP+RFCOMM protocol descriptor list naming the channel.
func ProxyRecord(uuid128 string, channel uint8) ([]byte, error) {
	svcUUID, err := uuid.Parse(uuid128)
	if err != nil {
		return nil, fmt.Errorf("invalid service uuid: %w", err)
	}

	rec := Record{
		AttrBrowseGroupList:    Seq(UUID16(uuidPublicBrowse)),
		AttrServiceClassIDList: Seq(UUID128(svcUUID)),
		AttrProfileDescriptors: Seq(
			Seq(UUID16(uuidSerialPortProf), Uint16(serialPortProfileVersion)),
		),
		AttrProtocolDescriptors: Seq(
			Seq(UUID16(uuidL2CAP)),
			Seq(UUID16(uuidRFCOMM), Uint8(channel)),
		),
		// en, UTF-8 MIBenum, primary language base.
		AttrLanguageBaseList: Seq(
			Uint16(0x656e), Uint16(0x006a), Uint16(0x0100),
		),
		AttrServiceName:        Text("Port Proxy Entity"),
		AttrServiceDescription: Text("Port Proxy Entity"),
	}

	return rec.Marshal()
}
