// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package treecbor

import (
	"encoding/binary"
)

// CBOR major types (RFC 7049 section 2.1)
const (
	majorUnsignedInt uint8 = 0
	majorNegativeInt uint8 = 1
	majorByteString  uint8 = 2
	majorTextString  uint8 = 3
	majorArray       uint8 = 4
	majorMap         uint8 = 5
	majorTag         uint8 = 6
	majorSimple      uint8 = 7
)

// Additional info codes within major type 7
const (
	simpleFalse     uint8 = 20
	simpleTrue      uint8 = 21
	simpleNull      uint8 = 22
	simpleUndefined uint8 = 23
	simpleHalf      uint8 = 25
	simpleSingle    uint8 = 26
	simpleDouble    uint8 = 27
)

// Indefinite-length marker and full initial bytes used on the wire
const (
	infoIndefinite uint8 = 31

	byteFalse      uint8 = 0xf4
	byteTrue       uint8 = 0xf5
	byteNull       uint8 = 0xf6
	byteDouble     uint8 = 0xfb
	byteBreak      uint8 = 0xff
	byteIndefArray uint8 = 0x9f
	byteIndefMap   uint8 = 0xbf
)

// majorType returns the 3 high bits of an initial byte
func majorType(initial uint8) uint8 {
	return initial >> 5
}

// addInfo returns the 5 low bits of an initial byte
func addInfo(initial uint8) uint8 {
	return initial & 0x1f
}

// appendHead appends the shortest-form encoding of a major type and its
// argument: values 0-23 inline in the initial byte, then 1/2/4/8 extra
// big-endian bytes selected by additional info 24/25/26/27
func appendHead(buf []byte, major uint8, value uint64) []byte {
	switch {
	case value < 24:
		return append(buf, major<<5|uint8(value))
	case value < 0x100:
		return append(buf, major<<5|24, uint8(value))
	case value < 0x10000:
		return binary.BigEndian.AppendUint16(
			append(buf, major<<5|25),
			uint16(value),
		)
	case value < 0x100000000:
		return binary.BigEndian.AppendUint32(
			append(buf, major<<5|26),
			uint32(value),
		)
	default:
		return binary.BigEndian.AppendUint64(
			append(buf, major<<5|27),
			value,
		)
	}
}
