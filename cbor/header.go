// Copyright 2025 Blink Labs Software
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

package cbor

import "fmt"

// Major types, per RFC 8949 §3.
const (
	majorUint    = 0
	majorNegInt  = 1
	majorBytes   = 2
	majorText    = 3
	majorArray   = 4
	majorMap     = 5
	majorTag     = 6
	majorSimple  = 7
	addInfoMask  = 0x1f
	addInfo1     = 24
	addInfo2     = 25
	addInfo4     = 26
	addInfo8     = 27
	addIndefLen  = 31
	breakByte    = 0xff
	simpleFalse  = 20
	simpleTrue   = 21
	simpleNull   = 22
	simpleUndef  = 23
	simpleFloat2 = 25
	simpleFloat4 = 26
	simpleFloat8 = 27
)

// header describes the initial bytes of one CBOR data item.
type header struct {
	major      byte
	arg        uint64
	indefinite bool
	// length is the number of bytes occupied by the header itself
	// (the initial byte plus any following length-encoding bytes).
	length int
}

// readHeader parses the leading header of the CBOR item at the start of
// data. It does not interpret or skip the item's content.
func readHeader(data []byte) (header, error) {
	if len(data) == 0 {
		return header{}, newError(ErrorKindDecoding, "unexpected end of CBOR input reading item header")
	}
	first := data[0]
	major := first >> 5
	info := first & addInfoMask

	h := header{major: major}
	switch {
	case info <= 23:
		h.arg = uint64(info)
		h.length = 1
	case info == addInfo1:
		if len(data) < 2 {
			return header{}, newError(ErrorKindDecoding, "truncated 1-byte length")
		}
		h.arg = uint64(data[1])
		h.length = 2
	case info == addInfo2:
		if len(data) < 3 {
			return header{}, newError(ErrorKindDecoding, "truncated 2-byte length")
		}
		h.arg = uint64(data[1])<<8 | uint64(data[2])
		h.length = 3
	case info == addInfo4:
		if len(data) < 5 {
			return header{}, newError(ErrorKindDecoding, "truncated 4-byte length")
		}
		h.arg = 0
		for i := 1; i <= 4; i++ {
			h.arg = h.arg<<8 | uint64(data[i])
		}
		h.length = 5
	case info == addInfo8:
		if len(data) < 9 {
			return header{}, newError(ErrorKindDecoding, "truncated 8-byte length")
		}
		h.arg = 0
		for i := 1; i <= 8; i++ {
			h.arg = h.arg<<8 | uint64(data[i])
		}
		h.length = 9
	case info == addIndefLen:
		if major != majorBytes && major != majorText && major != majorArray &&
			major != majorMap && major != majorSimple {
			return header{}, newError(
				ErrorKindDecoding,
				"indefinite length not permitted for major type %d",
				major,
			)
		}
		h.indefinite = true
		h.length = 1
	default:
		return header{}, newError(ErrorKindDecoding, "reserved additional info %d", info)
	}
	return h, nil
}

// itemLength returns the total byte length (header plus content) of the
// single CBOR data item starting at data[0], recursing into nested
// containers only as far as needed to find their end. Indefinite-length
// containers are supported by scanning for their terminating break byte or,
// for arrays/maps, by counting nested items until a break is seen.
func itemLength(data []byte) (int, error) {
	h, err := readHeader(data)
	if err != nil {
		return 0, err
	}
	switch h.major {
	case majorUint, majorNegInt:
		return h.length, nil
	case majorBytes, majorText:
		if h.indefinite {
			return indefiniteChunksLength(data, h.length, h.major)
		}
		total := h.length + int(h.arg)
		if total > len(data) {
			return 0, newError(ErrorKindDecoding, "truncated byte/text string")
		}
		return total, nil
	case majorArray:
		if h.indefinite {
			return indefiniteContainerLength(data, h.length, h.arg, true)
		}
		return definiteContainerLength(data, h.length, h.arg)
	case majorMap:
		if h.indefinite {
			return indefiniteContainerLength(data, h.length, h.arg*2, true)
		}
		return definiteContainerLength(data, h.length, h.arg*2)
	case majorTag:
		inner, err := itemLength(data[h.length:])
		if err != nil {
			return 0, err
		}
		return h.length + inner, nil
	case majorSimple:
		switch {
		case h.indefinite:
			// break byte consumed by caller context; a lone break has length 1.
			return 1, nil
		case h.arg == simpleFloat2:
			return h.length + 2, nil
		case h.arg == simpleFloat4:
			return h.length + 4, nil
		case h.arg == simpleFloat8:
			return h.length + 8, nil
		default:
			return h.length, nil
		}
	default:
		return 0, newError(ErrorKindDecoding, "unsupported major type %d", h.major)
	}
}

// definiteContainerLength walks exactly count child items following a
// header of the given length.
func definiteContainerLength(data []byte, headerLen int, count uint64) (int, error) {
	pos := headerLen
	for i := uint64(0); i < count; i++ {
		if pos >= len(data) {
			return 0, newError(ErrorKindDecoding, "truncated container")
		}
		n, err := itemLength(data[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
	}
	return pos, nil
}

// indefiniteContainerLength walks child items (arrayOrMapPairs: for maps the
// caller already doubled the logical count, but indefinite containers are
// terminated by a break byte rather than a count) until a break byte is hit.
func indefiniteContainerLength(data []byte, headerLen int, _ uint64, _ bool) (int, error) {
	pos := headerLen
	for {
		if pos >= len(data) {
			return 0, newError(ErrorKindDecoding, "truncated indefinite-length container")
		}
		if data[pos] == breakByte {
			return pos + 1, nil
		}
		n, err := itemLength(data[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
	}
}

// indefiniteChunksLength handles indefinite-length byte/text strings, which
// are encoded as a sequence of definite-length chunks of the same major
// type, terminated by a break byte.
func indefiniteChunksLength(data []byte, headerLen int, major byte) (int, error) {
	pos := headerLen
	for {
		if pos >= len(data) {
			return 0, newError(ErrorKindDecoding, "truncated indefinite-length string")
		}
		if data[pos] == breakByte {
			return pos + 1, nil
		}
		ch, err := readHeader(data[pos:])
		if err != nil {
			return 0, err
		}
		if ch.major != major || ch.indefinite {
			return 0, newError(ErrorKindDecoding, "invalid chunk in indefinite-length string")
		}
		total := ch.length + int(ch.arg)
		if pos+total > len(data) {
			return 0, newError(ErrorKindDecoding, "truncated string chunk")
		}
		pos += total
	}
}

// friendlyMajorName renders a major type for error messages.
func friendlyMajorName(major byte) string {
	switch major {
	case majorUint:
		return "unsigned integer"
	case majorNegInt:
		return "negative integer"
	case majorBytes:
		return "byte string"
	case majorText:
		return "text string"
	case majorArray:
		return "array"
	case majorMap:
		return "map"
	case majorTag:
		return "tag"
	case majorSimple:
		return "simple/float"
	default:
		return fmt.Sprintf("major-type-%d", major)
	}
}
