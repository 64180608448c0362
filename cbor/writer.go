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
	"bytes"
	"math/big"

	fxcbor "github.com/fxamacker/cbor/v2"
)

// Writer builds canonical CBOR output, matching the ledger's canonical
// encoding rules: arrays, maps and strings are written with definite
// lengths, except for the chunked byte strings emitted by
// WriteIndefiniteBytes. Scalar content is delegated to
// github.com/fxamacker/cbor/v2; this type owns only header framing,
// mirroring the split in Reader.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoded output.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func writeHeader(buf *bytes.Buffer, major byte, arg uint64) {
	switch {
	case arg <= 23:
		buf.WriteByte(major<<5 | byte(arg))
	case arg <= 0xff:
		buf.WriteByte(major<<5 | addInfo1)
		buf.WriteByte(byte(arg))
	case arg <= 0xffff:
		buf.WriteByte(major<<5 | addInfo2)
		buf.WriteByte(byte(arg >> 8))
		buf.WriteByte(byte(arg))
	case arg <= 0xffffffff:
		buf.WriteByte(major<<5 | addInfo4)
		for i := 3; i >= 0; i-- {
			buf.WriteByte(byte(arg >> (8 * uint(i))))
		}
	default:
		buf.WriteByte(major<<5 | addInfo8)
		for i := 7; i >= 0; i-- {
			buf.WriteByte(byte(arg >> (8 * uint(i))))
		}
	}
}

// WriteStartArray emits a definite-length array header for n elements.
// Callers write each element's encoding immediately afterward.
func (w *Writer) WriteStartArray(n int) { writeHeader(&w.buf, majorArray, uint64(n)) }

// WriteStartMap emits a definite-length map header for n key/value pairs.
func (w *Writer) WriteStartMap(n int) { writeHeader(&w.buf, majorMap, uint64(n)) }

// WriteUint writes an unsigned integer (major type 0).
func (w *Writer) WriteUint(v uint64) { writeHeader(&w.buf, majorUint, v) }

// WriteInt writes a signed integer, choosing major type 0 or 1.
func (w *Writer) WriteInt(v int64) {
	if v >= 0 {
		w.WriteUint(uint64(v))
		return
	}
	writeHeader(&w.buf, majorNegInt, uint64(-(v + 1)))
}

// WriteBytes writes a definite-length byte string.
func (w *Writer) WriteBytes(b []byte) {
	writeHeader(&w.buf, majorBytes, uint64(len(b)))
	w.buf.Write(b)
}

// WriteText writes a definite-length UTF-8 text string.
func (w *Writer) WriteText(s string) {
	writeHeader(&w.buf, majorText, uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteTag writes a semantic tag header; the tagged value follows.
func (w *Writer) WriteTag(t uint64) { writeHeader(&w.buf, majorTag, t) }

// WriteBigInt writes an integer of arbitrary magnitude: direct major
// type 0/1 when it fits in 64 bits, tag 2/3 bignum otherwise.
func (w *Writer) WriteBigInt(v *big.Int) error {
	if v.IsInt64() {
		w.WriteInt(v.Int64())
		return nil
	}
	if v.Sign() >= 0 && v.IsUint64() {
		w.WriteUint(v.Uint64())
		return nil
	}
	enc, err := fxcbor.Marshal(v)
	if err != nil {
		return newError(ErrorKindEncoding, "encoding bignum: %v", err)
	}
	w.buf.Write(enc)
	return nil
}

// WriteNull writes the CBOR null simple value.
func (w *Writer) WriteNull() { w.buf.WriteByte(majorSimple<<5 | simpleNull) }

// WriteBool writes a CBOR boolean simple value.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(majorSimple<<5 | simpleTrue)
		return
	}
	w.buf.WriteByte(majorSimple<<5 | simpleFalse)
}

// WriteEncoded appends already-encoded CBOR bytes verbatim. This is the
// mechanism behind original-bytes-cache replay and the transaction body's
// bit-exact re-emission.
func (w *Writer) WriteEncoded(raw []byte) { w.buf.Write(raw) }

// WriteIndefiniteBytes emits an indefinite-length byte string made up of
// the given definite-length chunks, used for Plutus-data bounded
// bytestrings larger than their chunk bound.
func (w *Writer) WriteIndefiniteBytes(chunks [][]byte) {
	w.buf.WriteByte(majorBytes<<5 | addIndefLen)
	for _, c := range chunks {
		w.WriteBytes(c)
	}
	w.buf.WriteByte(breakByte)
}
