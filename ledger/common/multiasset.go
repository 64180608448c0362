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
	"sort"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// AssetQuantity is the value type carried by a MultiAsset: unsigned
// (uint64) when the bundle values a transaction output, signed (int64)
// when it represents a mint/burn delta.
type AssetQuantity interface {
	~int64 | ~uint64
}

// MultiAsset is a nested map policy-hash -> (asset-name -> quantity),
// generic over the quantity's signedness. The zero value is an empty,
// usable bundle.
type MultiAsset[T AssetQuantity] struct {
	assets map[Blake2b224]map[cbor.ByteString]T
}

// NewMultiAsset builds a bundle from an already-assembled nested map.
// Zero-valued entries are dropped so the bundle is normalized before any
// hashing of its encoding.
func NewMultiAsset[T AssetQuantity](assets map[Blake2b224]map[cbor.ByteString]T) MultiAsset[T] {
	m := MultiAsset[T]{assets: make(map[Blake2b224]map[cbor.ByteString]T)}
	for policy, names := range assets {
		for name, qty := range names {
			m.Set(policy, name, qty)
		}
	}
	return m
}

// Set records (or clears, if qty is zero) the quantity for policy/name.
func (m *MultiAsset[T]) Set(policy Blake2b224, name cbor.ByteString, qty T) {
	if qty == 0 {
		if names, ok := m.assets[policy]; ok {
			delete(names, name)
			if len(names) == 0 {
				delete(m.assets, policy)
			}
		}
		return
	}
	if m.assets == nil {
		m.assets = make(map[Blake2b224]map[cbor.ByteString]T)
	}
	if m.assets[policy] == nil {
		m.assets[policy] = make(map[cbor.ByteString]T)
	}
	m.assets[policy][name] = qty
}

// Asset returns the quantity recorded for policy/name, or the zero value
// if absent.
func (m MultiAsset[T]) Asset(policy Blake2b224, name cbor.ByteString) T {
	return m.assets[policy][name]
}

// Policies returns the policy IDs present, sorted byte-lex ascending.
func (m MultiAsset[T]) Policies() []Blake2b224 {
	out := make([]Blake2b224, 0, len(m.assets))
	for p := range m.assets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return CompareBytes(out[i][:], out[j][:]) < 0
	})
	return out
}

// AssetNames returns the asset names under policy, sorted byte-lex
// ascending.
func (m MultiAsset[T]) AssetNames(policy Blake2b224) []cbor.ByteString {
	names := m.assets[policy]
	out := make([]cbor.ByteString, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return CompareBytes(out[i].Bytes(), out[j].Bytes()) < 0
	})
	return out
}

// IsEmpty reports whether the bundle has no nonzero entries.
func (m MultiAsset[T]) IsEmpty() bool { return len(m.assets) == 0 }

// Equal reports deep equality.
func (m MultiAsset[T]) Equal(other MultiAsset[T]) bool {
	if len(m.assets) != len(other.assets) {
		return false
	}
	for policy, names := range m.assets {
		otherNames, ok := other.assets[policy]
		if !ok || len(names) != len(otherNames) {
			return false
		}
		for name, qty := range names {
			if otherNames[name] != qty {
				return false
			}
		}
	}
	return true
}

func (m MultiAsset[T]) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	policies := m.Policies()
	w.WriteStartMap(len(policies))
	for _, policy := range policies {
		polEnc, err := policy.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(polEnc)
		names := m.AssetNames(policy)
		w.WriteStartMap(len(names))
		for _, name := range names {
			w.WriteBytes(name.Bytes())
			qty := m.assets[policy][name]
			if err := writeAssetQuantity(w, qty); err != nil {
				return nil, err
			}
		}
	}
	return w.Bytes(), nil
}

func writeAssetQuantity[T AssetQuantity](w *cbor.Writer, qty T) error {
	switch v := any(qty).(type) {
	case int64:
		w.WriteInt(v)
	case uint64:
		w.WriteUint(v)
	}
	return nil
}

func (m *MultiAsset[T]) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	numPolicies, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	m.assets = make(map[Blake2b224]map[cbor.ByteString]T)
	for i := uint64(0); i < numPolicies; i++ {
		policyBytes, err := r.ExpectByteString("MultiAsset", "policy_id", 28)
		if err != nil {
			return err
		}
		policy := NewBlake2b224(policyBytes)
		numAssets, _, err := r.ReadStartMap()
		if err != nil {
			return err
		}
		names := make(map[cbor.ByteString]T, numAssets)
		for j := uint64(0); j < numAssets; j++ {
			nameBytes, err := r.ReadBytes("MultiAsset.asset_name")
			if err != nil {
				return err
			}
			qty, err := readAssetQuantity[T](r)
			if err != nil {
				return err
			}
			if qty != 0 {
				names[cbor.NewByteString(nameBytes)] = qty
			}
		}
		if err := r.ExpectEndOfMap("MultiAsset.assets"); err != nil {
			return err
		}
		if len(names) > 0 {
			m.assets[policy] = names
		}
	}
	return r.ExpectEndOfMap("MultiAsset")
}

func readAssetQuantity[T AssetQuantity](r *cbor.Reader) (T, error) {
	var zero T
	switch any(zero).(type) {
	case int64:
		v, err := r.ReadInt("MultiAsset.quantity")
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	default:
		v, err := r.ReadUint("MultiAsset.quantity")
		if err != nil {
			return zero, err
		}
		return any(v).(T), nil
	}
}
