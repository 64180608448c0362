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
)

// Marshaler is implemented by every composite ledger type. MarshalCBOR
// returns the type's canonical (or cached, where applicable) encoding.
type Marshaler interface {
	MarshalCBOR() ([]byte, error)
}

// Unmarshaler is implemented by every composite ledger type.
// UnmarshalCBOR decodes data, which holds exactly one CBOR item.
type Unmarshaler interface {
	UnmarshalCBOR(data []byte) error
}

// ByteString is a CBOR byte string that compares and hashes as a value,
// suitable for use as a Go map key (used for asset names keyed by policy
// in multi-asset values).
type ByteString string

// NewByteString constructs a ByteString from raw bytes.
func NewByteString(b []byte) ByteString { return ByteString(b) }

// Bytes returns the underlying bytes.
func (b ByteString) Bytes() []byte { return []byte(b) }

func (b ByteString) MarshalCBOR() ([]byte, error) {
	w := NewWriter()
	w.WriteBytes([]byte(b))
	return w.Bytes(), nil
}

func (b *ByteString) UnmarshalCBOR(data []byte) error {
	r := NewReader(data)
	v, err := r.ReadBytes("ByteString")
	if err != nil {
		return err
	}
	*b = ByteString(v)
	return nil
}

// Rat is a CBOR-encodable rational number, the wire representation of the
// ledger's unit interval and of rational-valued protocol parameters. It is
// encoded per the Cardano ledger convention: tag 30 wrapping a 2-element
// array [numerator, denominator], both expressed as CBOR integers.
type Rat struct {
	*big.Rat
}

// NewRat builds a Rat from numerator and denominator.
func NewRat(num, denom int64) Rat {
	return Rat{big.NewRat(num, denom)}
}

const tagRationalNumber = 30

func (r Rat) MarshalCBOR() ([]byte, error) {
	if r.Rat == nil {
		return nil, newError(ErrorKindEncoding, "cannot encode nil Rat")
	}
	w := NewWriter()
	w.WriteTag(tagRationalNumber)
	w.WriteStartArray(2)
	if err := w.WriteBigInt(r.Num()); err != nil {
		return nil, err
	}
	if err := w.WriteBigInt(r.Denom()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (r *Rat) UnmarshalCBOR(data []byte) error {
	rd := NewReader(data)
	if err := rd.ExpectTag("Rat", tagRationalNumber); err != nil {
		return err
	}
	if err := rd.ExpectArrayOfN("Rat", 2); err != nil {
		return err
	}
	num, err := rd.ReadBigInt("Rat.numerator")
	if err != nil {
		return err
	}
	denom, err := rd.ReadBigInt("Rat.denominator")
	if err != nil {
		return err
	}
	if denom.Sign() == 0 {
		return newError(ErrorKindInvalidCborValue, "Rat denominator must be non-zero")
	}
	if err := rd.ExpectEndOfArray("Rat"); err != nil {
		return err
	}
	r.Rat = new(big.Rat).SetFrac(num, denom)
	return nil
}

// Tag is a generic CBOR tagged value used where no dedicated type exists.
type Tag struct {
	Number  uint64
	Content []byte // already-encoded CBOR content
}

func (t Tag) MarshalCBOR() ([]byte, error) {
	w := NewWriter()
	w.WriteTag(t.Number)
	w.WriteEncoded(t.Content)
	return w.Bytes(), nil
}

// DecodeStoreCbor is embeddable by any composite type that must preserve
// its originally-decoded bytes for later bit-exact re-encoding. Embedders
// call SetCbor after a successful decode and ClearCbor on any mutating
// setter.
type DecodeStoreCbor struct {
	cached []byte
}

// SetCbor stashes the original encoding of this value.
func (d *DecodeStoreCbor) SetCbor(b []byte) {
	cp := make([]byte, len(b))
	copy(cp, b)
	d.cached = cp
}

// Cbor returns the cached original bytes, or nil if none is stored (either
// never decoded, or cleared by a mutation).
func (d *DecodeStoreCbor) Cbor() []byte { return d.cached }

// HasCbor reports whether a cache is present.
func (d *DecodeStoreCbor) HasCbor() bool { return d.cached != nil }

// ClearCbor discards the cache, forcing canonical re-encoding on the next
// MarshalCBOR call. Every mutating setter on a cache-bearing type must
// call this.
func (d *DecodeStoreCbor) ClearCbor() { d.cached = nil }
