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
	"sort"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// MetadatumKind discriminates the five shapes a metadatum node may take.
// Unlike certificates or governance actions, metadatum carries no integer
// discriminator; decode dispatches on the CBOR item's shape.
type MetadatumKind int

const (
	MetadatumMap MetadatumKind = iota
	MetadatumList
	MetadatumInt
	MetadatumBytes
	MetadatumText
)

// metadatumBoundedChunk is the 64-byte bound the ledger places on
// metadatum byte and text strings.
const metadatumBoundedChunk = 64

// MetadatumPair is a single (key, value) entry of a MetadatumMap node.
type MetadatumPair struct {
	Key   Metadatum
	Value Metadatum
}

// Metadatum is the untyped structured value attached as transaction
// auxiliary data. Unlike Plutus data it carries no original-bytes cache:
// byte-exact replay at this layer is handled by the enclosing
// AuxiliaryData's cache, which covers the whole metadata payload.
type Metadatum struct {
	Kind MetadatumKind

	Pairs []MetadatumPair // MetadatumMap
	List  []Metadatum     // MetadatumList
	Int   *big.Int        // MetadatumInt
	Bytes []byte          // MetadatumBytes
	Text  string          // MetadatumText
}

func NewMetadatumMap(pairs ...MetadatumPair) Metadatum {
	return Metadatum{Kind: MetadatumMap, Pairs: pairs}
}

func NewMetadatumList(items ...Metadatum) Metadatum {
	return Metadatum{Kind: MetadatumList, List: items}
}

func NewMetadatumInt(v *big.Int) Metadatum {
	return Metadatum{Kind: MetadatumInt, Int: v}
}

func NewMetadatumBytes(b []byte) Metadatum {
	return Metadatum{Kind: MetadatumBytes, Bytes: b}
}

func NewMetadatumText(s string) Metadatum {
	return Metadatum{Kind: MetadatumText, Text: s}
}

// Equal reports structural equality of two metadatum trees. Map entries
// compare in order, since wire order is preserved and significant for the
// auxiliary-data hash.
func (m Metadatum) Equal(other Metadatum) bool {
	if m.Kind != other.Kind {
		return false
	}
	switch m.Kind {
	case MetadatumMap:
		if len(m.Pairs) != len(other.Pairs) {
			return false
		}
		for i := range m.Pairs {
			if !m.Pairs[i].Key.Equal(other.Pairs[i].Key) ||
				!m.Pairs[i].Value.Equal(other.Pairs[i].Value) {
				return false
			}
		}
		return true
	case MetadatumList:
		if len(m.List) != len(other.List) {
			return false
		}
		for i := range m.List {
			if !m.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case MetadatumInt:
		if m.Int == nil || other.Int == nil {
			return m.Int == other.Int
		}
		return m.Int.Cmp(other.Int) == 0
	case MetadatumBytes:
		return string(m.Bytes) == string(other.Bytes)
	case MetadatumText:
		return m.Text == other.Text
	default:
		return false
	}
}

func (m Metadatum) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch m.Kind {
	case MetadatumMap:
		w.WriteStartMap(len(m.Pairs))
		for _, p := range m.Pairs {
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
	case MetadatumList:
		w.WriteStartArray(len(m.List))
		for _, item := range m.List {
			enc, err := item.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(enc)
		}
	case MetadatumInt:
		if m.Int == nil {
			return nil, newCommonError("cannot encode nil metadatum int")
		}
		if err := w.WriteBigInt(m.Int); err != nil {
			return nil, err
		}
	case MetadatumBytes:
		if len(m.Bytes) > metadatumBoundedChunk {
			return nil, newKindError(
				cbor.ErrorKindInvalidMetadatumBoundedBytesSize,
				"metadatum byte string of size %d exceeds bound %d",
				len(m.Bytes), metadatumBoundedChunk,
			)
		}
		w.WriteBytes(m.Bytes)
	case MetadatumText:
		if len(m.Text) > metadatumBoundedChunk {
			return nil, newKindError(
				cbor.ErrorKindInvalidMetadatumTextStringSize,
				"metadatum text string of size %d exceeds bound %d",
				len(m.Text), metadatumBoundedChunk,
			)
		}
		w.WriteText(m.Text)
	default:
		return nil, newCommonError("unknown metadatum kind %d", m.Kind)
	}
	return w.Bytes(), nil
}

func (m *Metadatum) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	return m.decode(r)
}

// decode dispatches on the reader's state: map → map, array → list,
// unsigned/negative integer or bignum tag → integer, byte string →
// bounded bytes, text string → bounded text.
func (m *Metadatum) decode(r *cbor.Reader) error {
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
		pairs := make([]MetadatumPair, 0, n)
		for i := uint64(0); i < n; i++ {
			var key, value Metadatum
			if err := key.decode(r); err != nil {
				return err
			}
			if err := value.decode(r); err != nil {
				return err
			}
			pairs = append(pairs, MetadatumPair{Key: key, Value: value})
		}
		if err := r.ExpectEndOfMap("Metadatum.map"); err != nil {
			return err
		}
		m.Kind = MetadatumMap
		m.Pairs = pairs
		return nil
	case cbor.StateArray:
		n, _, err := r.ReadStartArray()
		if err != nil {
			return err
		}
		items := make([]Metadatum, 0, n)
		for i := uint64(0); i < n; i++ {
			var item Metadatum
			if err := item.decode(r); err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := r.ExpectEndOfArray("Metadatum.list"); err != nil {
			return err
		}
		m.Kind = MetadatumList
		m.List = items
		return nil
	case cbor.StateUnsignedInt, cbor.StateNegativeInt, cbor.StateTag:
		v, err := r.ReadBigInt("Metadatum")
		if err != nil {
			return err
		}
		m.Kind = MetadatumInt
		m.Int = v
		return nil
	case cbor.StateByteString:
		b, err := r.ReadBytes("Metadatum")
		if err != nil {
			return err
		}
		m.Kind = MetadatumBytes
		m.Bytes = b
		return nil
	case cbor.StateTextString:
		s, err := r.ReadText("Metadatum")
		if err != nil {
			return err
		}
		m.Kind = MetadatumText
		m.Text = s
		return nil
	default:
		return newCommonError("unexpected CBOR state %v decoding Metadatum", state)
	}
}

// MetadatumLabelMap is the transaction auxiliary-data label→metadatum map,
// sorted ascending numeric by label on encode.
type MetadatumLabelMap struct {
	entries map[uint64]Metadatum
}

func NewMetadatumLabelMap() *MetadatumLabelMap {
	return &MetadatumLabelMap{entries: make(map[uint64]Metadatum)}
}

func (m *MetadatumLabelMap) Set(label uint64, value Metadatum) {
	if m.entries == nil {
		m.entries = make(map[uint64]Metadatum)
	}
	m.entries[label] = value
}

func (m *MetadatumLabelMap) Get(label uint64) (Metadatum, bool) {
	v, ok := m.entries[label]
	return v, ok
}

func (m *MetadatumLabelMap) Len() int { return len(m.entries) }

func (m *MetadatumLabelMap) sortedLabels() []uint64 {
	labels := make([]uint64, 0, len(m.entries))
	for k := range m.entries {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func (m *MetadatumLabelMap) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	labels := m.sortedLabels()
	w.WriteStartMap(len(labels))
	for _, label := range labels {
		w.WriteUint(label)
		enc, err := m.entries[label].MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	}
	return w.Bytes(), nil
}

func (m *MetadatumLabelMap) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	entries := make(map[uint64]Metadatum, n)
	for i := uint64(0); i < n; i++ {
		label, err := r.ReadUint("MetadatumLabelMap.label")
		if err != nil {
			return err
		}
		if _, dup := entries[label]; dup {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate metadatum label %d", label)
		}
		var value Metadatum
		if err := value.decode(r); err != nil {
			return err
		}
		entries[label] = value
	}
	if err := r.ExpectEndOfMap("MetadatumLabelMap"); err != nil {
		return err
	}
	m.entries = entries
	return nil
}
