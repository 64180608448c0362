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

import (
	"math/big"

	fxcbor "github.com/fxamacker/cbor/v2"
)

type scopeKind int

const (
	scopeArray scopeKind = iota
	scopeMap
)

type scope struct {
	kind       scopeKind
	indefinite bool
}

// Reader is the schema-validation facade over a CBOR byte stream. It is a single mutable cursor: reads consume bytes from the
// front of the stream and push/pop a scope stack so that ExpectEndOfArray
// and ExpectEndOfMap know whether a trailing break byte must be consumed.
//
// Scalar content (unsigned/negative integers, byte/text strings, bignums)
// is decoded by delegating the already-located raw bytes of exactly one
// item to github.com/fxamacker/cbor/v2; only structural framing (item
// boundaries, header parsing, indefinite-length element counting) is
// implemented directly in this package.
type Reader struct {
	data      []byte
	scopes    []scope
	lastError string
}

// NewReader wraps data, which must contain exactly one CBOR data item (plus
// optionally trailing sibling bytes reachable via GetRemainderBytes after
// the first item is fully consumed).
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Clone returns an independent Reader over the same remaining bytes. Used
// to peek a discriminator without disturbing the caller's position (spec
// §4.2 "peek, don't consume").
func (r *Reader) Clone() *Reader {
	scopes := make([]scope, len(r.scopes))
	copy(scopes, r.scopes)
	return &Reader{data: r.data, scopes: scopes}
}

// LastError returns the most recent error message set on this reader.
func (r *Reader) LastError() string { return r.lastError }

func (r *Reader) setLastError(err error) error {
	if err != nil {
		r.lastError = err.Error()
	}
	return err
}

// GetRemainderBytes returns the bytes not yet consumed.
func (r *Reader) GetRemainderBytes() []byte { return r.data }

// PeekState reports the shape of the next item without consuming it.
func (r *Reader) PeekState() (State, error) {
	h, err := readHeader(r.data)
	if err != nil {
		return StateInvalid, r.setLastError(err)
	}
	return stateOf(h), nil
}

// peekHeader exposes the parsed header for internal callers (variant
// dispatch needs the tag's leading integer without consuming).
func (r *Reader) peekHeader() (header, error) {
	return readHeader(r.data)
}

func (r *Reader) pushScope(s scope)  { r.scopes = append(r.scopes, s) }
func (r *Reader) popScope() (scope, bool) {
	if len(r.scopes) == 0 {
		return scope{}, false
	}
	s := r.scopes[len(r.scopes)-1]
	r.scopes = r.scopes[:len(r.scopes)-1]
	return s, true
}

// nextRaw slices off and returns the raw bytes of exactly the next item,
// advancing the cursor past it.
func (r *Reader) nextRaw() ([]byte, error) {
	n, err := itemLength(r.data)
	if err != nil {
		return nil, r.setLastError(err)
	}
	raw := r.data[:n]
	r.data = r.data[n:]
	return raw, nil
}

// ReadStartArray reads an array header, pushing an array scope. It returns
// the element count (for indefinite-length arrays, counted by scanning
// ahead without disturbing already-consumed bytes) and whether the
// original encoding was indefinite-length.
func (r *Reader) ReadStartArray() (uint64, bool, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, false, r.setLastError(err)
	}
	if h.major != majorArray {
		return 0, false, r.setLastError(newError(
			ErrorKindUnexpectedCborType,
			"expected array, got %s",
			friendlyMajorName(h.major),
		))
	}
	if h.indefinite {
		count, err := countIndefiniteItems(r.data[h.length:])
		if err != nil {
			return 0, false, r.setLastError(err)
		}
		r.data = r.data[h.length:]
		r.pushScope(scope{kind: scopeArray, indefinite: true})
		return count, true, nil
	}
	r.data = r.data[h.length:]
	r.pushScope(scope{kind: scopeArray, indefinite: false})
	return h.arg, false, nil
}

// ReadStartMap reads a map header, pushing a map scope, and returns the
// number of key/value pairs.
func (r *Reader) ReadStartMap() (uint64, bool, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, false, r.setLastError(err)
	}
	if h.major != majorMap {
		return 0, false, r.setLastError(newError(
			ErrorKindUnexpectedCborType,
			"expected map, got %s",
			friendlyMajorName(h.major),
		))
	}
	if h.indefinite {
		items, err := countIndefiniteItems(r.data[h.length:])
		if err != nil {
			return 0, false, r.setLastError(err)
		}
		r.data = r.data[h.length:]
		r.pushScope(scope{kind: scopeMap, indefinite: true})
		return items / 2, true, nil
	}
	r.data = r.data[h.length:]
	r.pushScope(scope{kind: scopeMap, indefinite: false})
	return h.arg, false, nil
}

// ExpectEndOfArray pops the current array scope, consuming the trailing
// break byte if the array was indefinite-length.
func (r *Reader) ExpectEndOfArray(validator string) error {
	return r.expectEndOfScope(validator, scopeArray, "array")
}

// ExpectEndOfMap pops the current map scope, consuming the trailing break
// byte if the map was indefinite-length.
func (r *Reader) ExpectEndOfMap(validator string) error {
	return r.expectEndOfScope(validator, scopeMap, "map")
}

func (r *Reader) expectEndOfScope(validator string, kind scopeKind, name string) error {
	s, ok := r.popScope()
	if !ok || s.kind != kind {
		return r.setLastError(newError(
			ErrorKindUnexpectedCborType,
			"There was an error decoding '%s', expected end of %s but no %s scope is open.",
			validator, name, name,
		))
	}
	if s.indefinite {
		if len(r.data) == 0 || r.data[0] != breakByte {
			return r.setLastError(newError(
				ErrorKindDecoding,
				"There was an error decoding '%s', expected CBOR break byte ending indefinite-length %s.",
				validator, name,
			))
		}
		r.data = r.data[1:]
	}
	return nil
}

// ExpectArrayOfN requires the next item to be an array of exactly n
// elements, tolerating an indefinite-length encoding provided its element
// count equals n.
func (r *Reader) ExpectArrayOfN(validator string, n int) error {
	count, _, err := r.ReadStartArray()
	if err != nil {
		return err
	}
	if count != uint64(n) {
		// Undo the scope push; the caller will not proceed to read elements.
		r.popScope()
		return r.setLastError(decodingMismatchError(
			ErrorKindInvalidCborArraySize,
			validator,
			"array of fixed size", int64(n),
			"array of different size", int64(count),
		))
	}
	return nil
}

// ExpectUintInRange requires the next item to be an unsigned integer whose
// value lies in [lo, hi].
func (r *Reader) ExpectUintInRange(validator, field string, lo, hi uint64) (uint64, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, r.setLastError(err)
	}
	if h.major != majorUint {
		return 0, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"unsigned integer", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	if _, err := r.nextRaw(); err != nil {
		return 0, err
	}
	if h.arg < lo || h.arg > hi {
		return 0, r.setLastError(newError(
			ErrorKindInvalidCborValue,
			"There was an error decoding '%s.%s', expected value in range [%d, %d] but got %d.",
			validator, field, lo, hi, h.arg,
		))
	}
	return h.arg, nil
}

// ReadUint reads an unsigned integer with no range restriction.
func (r *Reader) ReadUint(validator string) (uint64, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, r.setLastError(err)
	}
	if h.major != majorUint {
		return 0, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"unsigned integer", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	if _, err := r.nextRaw(); err != nil {
		return 0, err
	}
	return h.arg, nil
}

// ReadInt reads a signed integer (major type 0 or 1) into an int64. Values
// outside the int64 range fail with invalid-cbor-value.
func (r *Reader) ReadInt(validator string) (int64, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, r.setLastError(err)
	}
	switch h.major {
	case majorUint:
		if h.arg > uint64(1)<<63-1 {
			return 0, r.setLastError(newError(ErrorKindInvalidCborValue, "value overflows int64"))
		}
		if _, err := r.nextRaw(); err != nil {
			return 0, err
		}
		return int64(h.arg), nil
	case majorNegInt:
		if h.arg > uint64(1)<<63-1 {
			return 0, r.setLastError(newError(ErrorKindInvalidCborValue, "value overflows int64"))
		}
		if _, err := r.nextRaw(); err != nil {
			return 0, err
		}
		return -1 - int64(h.arg), nil
	default:
		return 0, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"integer", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
}

// ExpectByteString requires the next item to be a byte string of exactly
// size bytes.
func (r *Reader) ExpectByteString(validator, field string, size int) ([]byte, error) {
	h, err := r.peekHeader()
	if err != nil {
		return nil, r.setLastError(err)
	}
	if h.major != majorBytes {
		return nil, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"byte string", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	raw, err := r.nextRaw()
	if err != nil {
		return nil, err
	}
	var out []byte
	if err := fxcbor.Unmarshal(raw, &out); err != nil {
		return nil, r.setLastError(newError(ErrorKindDecoding, "%s: %v", validator, err))
	}
	if size >= 0 && len(out) != size {
		return nil, r.setLastError(newError(
			ErrorKindInvalidCborArraySize,
			"There was an error decoding '%s.%s', expected byte string of size %d but got %d.",
			validator, field, size, len(out),
		))
	}
	return out, nil
}

// ReadBytes reads a byte string of any length.
func (r *Reader) ReadBytes(validator string) ([]byte, error) {
	return r.ExpectByteString(validator, "", -1)
}

// ExpectTextString requires the next item to be a text string of at most
// maxSize bytes.
func (r *Reader) ExpectTextString(validator, field string, maxSize int) (string, error) {
	h, err := r.peekHeader()
	if err != nil {
		return "", r.setLastError(err)
	}
	if h.major != majorText {
		return "", r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"text string", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	raw, err := r.nextRaw()
	if err != nil {
		return "", err
	}
	var out string
	if err := fxcbor.Unmarshal(raw, &out); err != nil {
		return "", r.setLastError(newError(ErrorKindDecoding, "%s: %v", validator, err))
	}
	if maxSize >= 0 && len(out) > maxSize {
		return "", r.setLastError(newError(
			ErrorKindInvalidMetadatumTextStringSize,
			"There was an error decoding '%s.%s', text string of size %d exceeds maximum %d.",
			validator, field, len(out), maxSize,
		))
	}
	return out, nil
}

// ReadText reads a text string of any length.
func (r *Reader) ReadText(validator string) (string, error) {
	return r.ExpectTextString(validator, "", -1)
}

// ExpectTag requires the next item to carry semantic tag t, then consumes
// the tag header only (the tagged content remains to be read).
func (r *Reader) ExpectTag(validator string, t uint64) error {
	h, err := r.peekHeader()
	if err != nil {
		return r.setLastError(err)
	}
	if h.major != majorTag {
		return r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"tag", int64(t),
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	if h.arg != t {
		return r.setLastError(decodingMismatchError(
			ErrorKindInvalidCborValue,
			validator,
			"tag", int64(t),
			"tag", int64(h.arg),
		))
	}
	r.data = r.data[h.length:]
	return nil
}

// PeekTag reports the tag number of the next item without consuming it, or
// ok=false if the next item is not tagged.
func (r *Reader) PeekTag() (tag uint64, ok bool, err error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, false, r.setLastError(err)
	}
	if h.major != majorTag {
		return 0, false, nil
	}
	return h.arg, true, nil
}

// ReadTag consumes a tag header unconditionally and returns its number.
func (r *Reader) ReadTag(validator string) (uint64, error) {
	h, err := r.peekHeader()
	if err != nil {
		return 0, r.setLastError(err)
	}
	if h.major != majorTag {
		return 0, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"tag", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	r.data = r.data[h.length:]
	return h.arg, nil
}

// ExpectEnum requires the next item to be an unsigned integer equal to
// expected, using stringify to render both values in the error message.
func (r *Reader) ExpectEnum(validator string, expected uint64, stringify func(uint64) string) error {
	h, err := r.peekHeader()
	if err != nil {
		return r.setLastError(err)
	}
	if h.major != majorUint {
		return r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			stringify(expected), int64(expected),
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	if _, err := r.nextRaw(); err != nil {
		return err
	}
	if h.arg != expected {
		return r.setLastError(decodingMismatchError(
			ErrorKindInvalidCborValue,
			validator,
			stringify(expected), int64(expected),
			stringify(h.arg), int64(h.arg),
		))
	}
	return nil
}

// ReadBigInt reads either a direct integer or a tag-2/tag-3 wrapped bignum
// into a *big.Int, per RFC 8949 (integers ≤ 2^64-1 as major type 0, ≥ -2^64
// as major type 1, larger magnitudes via tag 2/3).
func (r *Reader) ReadBigInt(validator string) (*big.Int, error) {
	h, err := r.peekHeader()
	if err != nil {
		return nil, r.setLastError(err)
	}
	switch h.major {
	case majorUint:
		if _, err := r.nextRaw(); err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(h.arg), nil
	case majorNegInt:
		if _, err := r.nextRaw(); err != nil {
			return nil, err
		}
		v := new(big.Int).SetUint64(h.arg)
		v.Add(v, big.NewInt(1))
		v.Neg(v)
		return v, nil
	case majorTag:
		if h.arg != 2 && h.arg != 3 {
			return nil, r.setLastError(newError(
				ErrorKindUnexpectedCborType,
				"There was an error decoding '%s', expected bignum tag (2 or 3) but got tag %d.",
				validator, h.arg,
			))
		}
		raw, err := r.nextRaw()
		if err != nil {
			return nil, err
		}
		var v big.Int
		if err := fxcbor.Unmarshal(raw, &v); err != nil {
			return nil, r.setLastError(newError(ErrorKindDecoding, "%s: %v", validator, err))
		}
		return &v, nil
	default:
		return nil, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"integer or bignum", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
}

// ReadNull requires and consumes a CBOR null/undefined simple value.
func (r *Reader) ReadNull(validator string) error {
	h, err := r.peekHeader()
	if err != nil {
		return r.setLastError(err)
	}
	if h.major != majorSimple || (h.arg != simpleNull && h.arg != simpleUndef) {
		return r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"null", simpleNull,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	r.data = r.data[h.length:]
	return nil
}

// ReadBool reads a CBOR boolean simple value.
func (r *Reader) ReadBool(validator string) (bool, error) {
	h, err := r.peekHeader()
	if err != nil {
		return false, r.setLastError(err)
	}
	if h.major != majorSimple || (h.arg != simpleTrue && h.arg != simpleFalse) {
		return false, r.setLastError(decodingMismatchError(
			ErrorKindUnexpectedCborType,
			validator,
			"bool", 0,
			friendlyMajorName(h.major), int64(h.major),
		))
	}
	r.data = r.data[h.length:]
	return h.arg == simpleTrue, nil
}

// ReadEncodedValue returns the exact raw bytes of the next complete item
// without interpreting it, advancing the cursor past it. This is the
// primitive behind original-bytes caching.
func (r *Reader) ReadEncodedValue() ([]byte, error) {
	return r.nextRaw()
}

// SkipValue discards the next complete item without interpreting it.
func (r *Reader) SkipValue() error {
	_, err := r.nextRaw()
	return err
}

// countIndefiniteItems scans forward from data (positioned right after an
// indefinite-length array/map header) counting child items until the
// terminating break byte, without mutating any external state: conceptually
// a throwaway forked reader used only to discover a safe count, since the
// primary reader cannot backtrack once past the start marker.
func countIndefiniteItems(data []byte) (uint64, error) {
	pos := 0
	var count uint64
	for {
		if pos >= len(data) {
			return 0, newError(ErrorKindDecoding, "truncated indefinite-length container")
		}
		if data[pos] == breakByte {
			return count, nil
		}
		n, err := itemLength(data[pos:])
		if err != nil {
			return 0, err
		}
		pos += n
		count++
	}
}
