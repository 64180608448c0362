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

package common

import (
	"math/big"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// PlutusDatumKind discriminates the five shapes a Plutus data node can
// take (CDDL `plutus_data`).
type PlutusDatumKind int

const (
	PlutusDatumConstr PlutusDatumKind = iota
	PlutusDatumMap
	PlutusDatumList
	PlutusDatumBigInt
	PlutusDatumBytes
)

// plutusBoundedBytesChunk is the maximum chunk size for a Plutus
// bytestring emitted as an indefinite-length bstr (CDDL `bounded_bytes`).
const plutusBoundedBytesChunk = 64

// PlutusDataPair is a single (key, value) entry of a PlutusDatumMap node.
// Plutus data maps are not required to keep unique or sorted keys on the
// wire; entries are preserved in decode order.
type PlutusDataPair struct {
	Key   PlutusData
	Value PlutusData
}

// PlutusData is the recursive tagged union that is the Plutus VM's
// argument/result type. Every node optionally
// retains its originally-decoded CBOR bytes so that re-encoding is
// bit-identical even when a different producer would have canonicalized
// the same value differently (e.g. integer vs tag-2 bignum) — the
// Blake2b-256 hash of this encoding is consensus-relevant.
type PlutusData struct {
	cbor.DecodeStoreCbor
	Kind PlutusDatumKind

	// Constr
	Alternative uint64
	Fields      []PlutusData

	// Map
	Pairs []PlutusDataPair

	// List
	List []PlutusData

	// BigInt
	Int *big.Int

	// Bytes
	Bytes []byte
}

func NewPlutusDataConstr(alternative uint64, fields ...PlutusData) PlutusData {
	return PlutusData{Kind: PlutusDatumConstr, Alternative: alternative, Fields: fields}
}

func NewPlutusDataMap(pairs ...PlutusDataPair) PlutusData {
	return PlutusData{Kind: PlutusDatumMap, Pairs: pairs}
}

func NewPlutusDataList(items ...PlutusData) PlutusData {
	return PlutusData{Kind: PlutusDatumList, List: items}
}

func NewPlutusDataInt(v *big.Int) PlutusData {
	return PlutusData{Kind: PlutusDatumBigInt, Int: v}
}

func NewPlutusDataBytes(b []byte) PlutusData {
	return PlutusData{Kind: PlutusDatumBytes, Bytes: b}
}

// ClearCborRecursive clears the bytes cache of this node and every node
// below it, forcing canonical re-emission of the entire tree (used when a
// caller intentionally rebuilds a transaction).
func (d *PlutusData) ClearCborRecursive() {
	d.ClearCbor()
	switch d.Kind {
	case PlutusDatumConstr:
		for i := range d.Fields {
			d.Fields[i].ClearCborRecursive()
		}
	case PlutusDatumMap:
		for i := range d.Pairs {
			d.Pairs[i].Key.ClearCborRecursive()
			d.Pairs[i].Value.ClearCborRecursive()
		}
	case PlutusDatumList:
		for i := range d.List {
			d.List[i].ClearCborRecursive()
		}
	}
}

// Equal reports structural equality of two data trees, ignoring cached
// bytes: a node decoded from a non-canonical bignum encoding is equal to
// one built in memory with the same value.
func (d PlutusData) Equal(other PlutusData) bool {
	if d.Kind != other.Kind {
		return false
	}
	switch d.Kind {
	case PlutusDatumConstr:
		if d.Alternative != other.Alternative || len(d.Fields) != len(other.Fields) {
			return false
		}
		for i := range d.Fields {
			if !d.Fields[i].Equal(other.Fields[i]) {
				return false
			}
		}
		return true
	case PlutusDatumMap:
		if len(d.Pairs) != len(other.Pairs) {
			return false
		}
		for i := range d.Pairs {
			if !d.Pairs[i].Key.Equal(other.Pairs[i].Key) ||
				!d.Pairs[i].Value.Equal(other.Pairs[i].Value) {
				return false
			}
		}
		return true
	case PlutusDatumList:
		if len(d.List) != len(other.List) {
			return false
		}
		for i := range d.List {
			if !d.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case PlutusDatumBigInt:
		if d.Int == nil || other.Int == nil {
			return d.Int == other.Int
		}
		return d.Int.Cmp(other.Int) == 0
	case PlutusDatumBytes:
		return string(d.Bytes) == string(other.Bytes)
	default:
		return false
	}
}

// Hash returns the Blake2b-256 digest of this node's encoding (its cached
// bytes if present, else its canonical encoding).
func (d PlutusData) Hash() (Blake2b256, error) {
	enc, err := d.MarshalCBOR()
	if err != nil {
		return Blake2b256{}, err
	}
	return Blake2b256Hash(enc), nil
}

// constrTag returns the CBOR tag for alternative per the Plutus general
// constructor encoding: 121+alt for 0..6, 1280+(alt-7) for 7..127, or tag
// 102 wrapping [alt, fields] for anything larger.
func constrTag(alt uint64) (tag uint64, useGeneral bool) {
	switch {
	case alt <= 6:
		return 121 + alt, false
	case alt <= 127:
		return 1280 + (alt - 7), false
	default:
		return 102, true
	}
}

func (d PlutusData) canonicalEncode() ([]byte, error) {
	w := cbor.NewWriter()
	switch d.Kind {
	case PlutusDatumConstr:
		tag, general := constrTag(d.Alternative)
		w.WriteTag(tag)
		if general {
			w.WriteStartArray(2)
			w.WriteUint(d.Alternative)
		}
		w.WriteStartArray(len(d.Fields))
		for _, f := range d.Fields {
			enc, err := f.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(enc)
		}
	case PlutusDatumMap:
		w.WriteStartMap(len(d.Pairs))
		for _, p := range d.Pairs {
			kEnc, err := p.Key.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(kEnc)
			vEnc, err := p.Value.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(vEnc)
		}
	case PlutusDatumList:
		w.WriteStartArray(len(d.List))
		for _, item := range d.List {
			enc, err := item.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(enc)
		}
	case PlutusDatumBigInt:
		if d.Int == nil {
			return nil, newCommonError("cannot encode nil Plutus bigint")
		}
		if err := w.WriteBigInt(d.Int); err != nil {
			return nil, err
		}
	case PlutusDatumBytes:
		writeBoundedBytes(w, d.Bytes)
	default:
		return nil, newCommonError("unknown Plutus data kind %d", d.Kind)
	}
	return w.Bytes(), nil
}

// writeBoundedBytes emits b as a single definite-length byte string when
// it fits the 64-byte bound, or as an indefinite-length byte string of
// 64-byte chunks otherwise.
func writeBoundedBytes(w *cbor.Writer, b []byte) {
	if len(b) <= plutusBoundedBytesChunk {
		w.WriteBytes(b)
		return
	}
	var chunks [][]byte
	for off := 0; off < len(b); off += plutusBoundedBytesChunk {
		end := off + plutusBoundedBytesChunk
		if end > len(b) {
			end = len(b)
		}
		chunks = append(chunks, b[off:end])
	}
	w.WriteIndefiniteBytes(chunks)
}

func (d PlutusData) MarshalCBOR() ([]byte, error) {
	if d.HasCbor() {
		return d.Cbor(), nil
	}
	return d.canonicalEncode()
}

func (d *PlutusData) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := d.decode(r); err != nil {
		return err
	}
	d.SetCbor(data)
	return nil
}

func (d *PlutusData) decode(r *cbor.Reader) error {
	if tag, ok, err := r.PeekTag(); err != nil {
		return err
	} else if ok {
		switch {
		case tag == 2 || tag == 3:
			v, err := r.ReadBigInt("PlutusData")
			if err != nil {
				return err
			}
			d.Kind = PlutusDatumBigInt
			d.Int = v
			return nil
		case tag == 102:
			if _, err := r.ReadTag("PlutusData.constr"); err != nil {
				return err
			}
			if err := r.ExpectArrayOfN("PlutusData.constr", 2); err != nil {
				return err
			}
			alt, err := r.ReadUint("PlutusData.constr.alternative")
			if err != nil {
				return err
			}
			fields, err := decodePlutusDataList(r)
			if err != nil {
				return err
			}
			if err := r.ExpectEndOfArray("PlutusData.constr"); err != nil {
				return err
			}
			d.Kind = PlutusDatumConstr
			d.Alternative = alt
			d.Fields = fields
			return nil
		case tag >= 121 && tag <= 127:
			if _, err := r.ReadTag("PlutusData.constr"); err != nil {
				return err
			}
			fields, err := decodePlutusDataList(r)
			if err != nil {
				return err
			}
			d.Kind = PlutusDatumConstr
			d.Alternative = tag - 121
			d.Fields = fields
			return nil
		case tag >= 1280 && tag <= 1400:
			if _, err := r.ReadTag("PlutusData.constr"); err != nil {
				return err
			}
			fields, err := decodePlutusDataList(r)
			if err != nil {
				return err
			}
			d.Kind = PlutusDatumConstr
			d.Alternative = tag - 1280 + 7
			d.Fields = fields
			return nil
		}
	}
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	switch state {
	case cbor.StateMap:
		n, _, err := r.ReadStartMap()
		if err != nil {
			return err
		}
		pairs := make([]PlutusDataPair, 0, n)
		for i := uint64(0); i < n; i++ {
			var key, value PlutusData
			if err := key.decode(r); err != nil {
				return err
			}
			if err := value.decode(r); err != nil {
				return err
			}
			pairs = append(pairs, PlutusDataPair{Key: key, Value: value})
		}
		if err := r.ExpectEndOfMap("PlutusData.map"); err != nil {
			return err
		}
		d.Kind = PlutusDatumMap
		d.Pairs = pairs
		return nil
	case cbor.StateArray:
		items, err := decodePlutusDataList(r)
		if err != nil {
			return err
		}
		d.Kind = PlutusDatumList
		d.List = items
		return nil
	case cbor.StateUnsignedInt, cbor.StateNegativeInt:
		v, err := r.ReadBigInt("PlutusData")
		if err != nil {
			return err
		}
		d.Kind = PlutusDatumBigInt
		d.Int = v
		return nil
	case cbor.StateByteString:
		b, err := r.ReadBytes("PlutusData")
		if err != nil {
			return err
		}
		d.Kind = PlutusDatumBytes
		d.Bytes = b
		return nil
	default:
		return newCommonError("unexpected CBOR state %v decoding PlutusData", state)
	}
}

func decodePlutusDataList(r *cbor.Reader) ([]PlutusData, error) {
	n, _, err := r.ReadStartArray()
	if err != nil {
		return nil, err
	}
	items := make([]PlutusData, 0, n)
	for i := uint64(0); i < n; i++ {
		var item PlutusData
		if err := item.decode(r); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := r.ExpectEndOfArray("PlutusData.list"); err != nil {
		return nil, err
	}
	return items, nil
}
