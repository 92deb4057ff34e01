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

// Package sdp implements the binary service-record format used to query
// remote records and to publish the proxy's own record. Only the data
// element subset the serial profile needs is supported.
package sdp

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Data element type descriptors.
const (
	typeNil  = 0
	typeUint = 1
	typeUUID = 3
	typeText = 4
	typeBool = 5
	typeSeq  = 6
)

// baseUUID completes 16- and 32-bit UUID aliases to 128 bits.
var baseUUID = uuid.MustParse("00000000-0000-1000-8000-00805F9B34FB")

// Element is a decoded data element. Exactly one of the value fields is
// meaningful, selected by Type.
type Element struct {
	Type uint8
	Uint uint64
	Bits uint8 // uint width in bytes on the wire
	Bool bool
	Text string
	UUID uuid.UUID
	Seq  []Element
}

func Uint8(v uint8) Element   { return Element{Type: typeUint, Uint: uint64(v), Bits: 1} }
func Uint16(v uint16) Element { return Element{Type: typeUint, Uint: uint64(v), Bits: 2} }
func Uint32(v uint32) Element { return Element{Type: typeUint, Uint: uint64(v), Bits: 4} }
func Text(s string) Element   { return Element{Type: typeText, Text: s} }
func Seq(el ...Element) Element {
	return Element{Type: typeSeq, Seq: el}
}

// UUID16 promotes a 16-bit alias to its canonical 128-bit value but
// still encodes it in the short form.
func UUID16(v uint16) Element {
	u := baseUUID
	binary.BigEndian.PutUint32(u[0:4], uint32(v))

	return Element{Type: typeUUID, UUID: u, Bits: 2}
}

func UUID128(u uuid.UUID) Element {
	return Element{Type: typeUUID, UUID: u, Bits: 16}
}

// Marshal encodes the element with its descriptor header.
func (e Element) Marshal() ([]byte, error) {
	var out []byte
	return e.appendTo(out)
}

func (e Element) appendTo(out []byte) ([]byte, error) {
	switch e.Type {
	case typeNil:
		return append(out, 0x00), nil

	case typeUint:
		switch e.Bits {
		case 1:
			return append(out, 0x08, uint8(e.Uint)), nil
		case 2:
			out = append(out, 0x09)
			return binary.BigEndian.AppendUint16(out, uint16(e.Uint)), nil
		case 4:
			out = append(out, 0x0a)
			return binary.BigEndian.AppendUint32(out, uint32(e.Uint)), nil
		default:
			return nil, fmt.Errorf("%w: uint width %d", errUnsupportedElement, e.Bits)
		}

	case typeUUID:
		switch e.Bits {
		case 2:
			out = append(out, 0x19)
			return binary.BigEndian.AppendUint16(out, binary.BigEndian.Uint16(e.UUID[2:4])), nil
		case 16:
			out = append(out, 0x1c)
			return append(out, e.UUID[:]...), nil
		default:
			return nil, fmt.Errorf("%w: uuid width %d", errUnsupportedElement, e.Bits)
		}

	case typeText:
		out = appendVarHeader(out, typeText, len(e.Text))
		return append(out, e.Text...), nil

	case typeBool:
		b := byte(0)
		if e.Bool {
			b = 1
		}

		return append(out, 0x28, b), nil

	case typeSeq:
		var body []byte

		for _, el := range e.Seq {
			var err error

			body, err = el.appendTo(body)
			if err != nil {
				return nil, err
			}
		}

		out = appendVarHeader(out, typeSeq, len(body))

		return append(out, body...), nil

	default:
		return nil, fmt.Errorf("%w: type %d", errUnsupportedElement, e.Type)
	}
}

// appendVarHeader writes the descriptor byte plus a length field sized
// to fit n.
func appendVarHeader(out []byte, typ uint8, n int) []byte {
	if n <= 0xff {
		out = append(out, typ<<3|5, uint8(n))
		return out
	}

	out = append(out, typ<<3|6)

	return binary.BigEndian.AppendUint16(out, uint16(n))
}

// unmarshalElement decodes one element from buf, returning the element
// and the unread remainder.
func unmarshalElement(buf []byte) (Element, []byte, error) {
	if len(buf) == 0 {
		return Element{}, nil, errTruncatedElement
	}

	desc := buf[0]
	typ := desc >> 3
	sizeIdx := desc & 0x7
	buf = buf[1:]

	length, buf, err := elementLength(typ, sizeIdx, buf)
	if err != nil {
		return Element{}, nil, err
	}

	if len(buf) < length {
		return Element{}, nil, errTruncatedElement
	}

	body, rest := buf[:length], buf[length:]

	el, err := decodeBody(typ, body)
	if err != nil {
		return Element{}, nil, err
	}

	return el, rest, nil
}

func elementLength(typ, sizeIdx uint8, buf []byte) (int, []byte, error) {
	if typ == typeNil {
		if sizeIdx != 0 {
			return 0, nil, errUnsupportedElement
		}

		return 0, buf, nil
	}

	switch sizeIdx {
	case 0:
		return 1, buf, nil
	case 1:
		return 2, buf, nil
	case 2:
		return 4, buf, nil
	case 3:
		return 8, buf, nil
	case 4:
		return 16, buf, nil
	case 5:
		if len(buf) < 1 {
			return 0, nil, errTruncatedElement
		}

		return int(buf[0]), buf[1:], nil
	case 6:
		if len(buf) < 2 {
			return 0, nil, errTruncatedElement
		}

		return int(binary.BigEndian.Uint16(buf)), buf[2:], nil
	case 7:
		if len(buf) < 4 {
			return 0, nil, errTruncatedElement
		}

		return int(binary.BigEndian.Uint32(buf)), buf[4:], nil
	default:
		return 0, nil, errUnsupportedElement
	}
}

func decodeBody(typ uint8, body []byte) (Element, error) {
	switch typ {
	case typeNil:
		return Element{Type: typeNil}, nil

	case typeUint:
		switch len(body) {
		case 1:
			return Uint8(body[0]), nil
		case 2:
			return Uint16(binary.BigEndian.Uint16(body)), nil
		case 4:
			return Uint32(binary.BigEndian.Uint32(body)), nil
		default:
			return Element{}, fmt.Errorf("%w: uint width %d", errUnsupportedElement, len(body))
		}

	case typeUUID:
		switch len(body) {
		case 2:
			return UUID16(binary.BigEndian.Uint16(body)), nil
		case 4:
			u := baseUUID
			copy(u[0:4], body)

			return Element{Type: typeUUID, UUID: u, Bits: 16}, nil
		case 16:
			var u uuid.UUID
			copy(u[:], body)

			return UUID128(u), nil
		default:
			return Element{}, fmt.Errorf("%w: uuid width %d", errUnsupportedElement, len(body))
		}

	case typeText:
		return Text(string(body)), nil

	case typeBool:
		if len(body) != 1 {
			return Element{}, errUnsupportedElement
		}

		return Element{Type: typeBool, Bool: body[0] != 0}, nil

	case typeSeq, typeSeq + 1: // alternatives decode like sequences
		el := Element{Type: typeSeq}

		for len(body) > 0 {
			sub, rest, err := unmarshalElement(body)
			if err != nil {
				return Element{}, err
			}

			el.Seq = append(el.Seq, sub)
			body = rest
		}

		return el, nil

	default:
		return Element{}, fmt.Errorf("%w: type %d", errUnsupportedElement, typ)
	}
}

func (e Element) isSeq() bool  { return e.Type == typeSeq }
func (e Element) isUUID() bool { return e.Type == typeUUID }
func (e Element) isUint() bool { return e.Type == typeUint }
func (e Element) isText() bool { return e.Type == typeText }
