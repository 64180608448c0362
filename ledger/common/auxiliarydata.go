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

import "github.com/blinklabs-io/cardano-ledger-codec/cbor"

// auxDataShelleyMaTag marks the post-Mary auxiliary-data wire shape, a
// tag-259 map of optional component collections. Legacy Shelley
// auxiliary data is a bare metadatum label map; Mary introduced scripts
// alongside metadata, wrapped in this tagged map to distinguish the two
// on the wire.
const auxDataShelleyMaTag = 259

// AuxiliaryData is a transaction's auxiliary (off-chain-relevant)
// payload: transaction metadata plus any native or Plutus scripts
// supplied alongside it. It retains its originally-decoded bytes so
// Blake2b-256(AuxiliaryData) reproduces the auxiliary-data hash a
// producer committed at body key 7.
type AuxiliaryData struct {
	cbor.DecodeStoreCbor

	Metadata      *MetadatumLabelMap
	NativeScripts []NativeScript
	PlutusV1      []PlutusScript
	PlutusV2      []PlutusScript
	PlutusV3      []PlutusScript
}

// isLegacyShape reports whether this value holds only metadata, eligible
// for the bare (untagged) legacy Shelley encoding.
func (a AuxiliaryData) isLegacyShape() bool {
	return len(a.NativeScripts) == 0 && len(a.PlutusV1) == 0 &&
		len(a.PlutusV2) == 0 && len(a.PlutusV3) == 0
}

func (a AuxiliaryData) MarshalCBOR() ([]byte, error) {
	if a.HasCbor() {
		return a.Cbor(), nil
	}
	w := cbor.NewWriter()
	metadata := a.Metadata
	if metadata == nil {
		metadata = NewMetadatumLabelMap()
	}
	if a.isLegacyShape() {
		enc, err := metadata.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
		return w.Bytes(), nil
	}
	count := 1
	if len(a.NativeScripts) > 0 {
		count++
	}
	if len(a.PlutusV1) > 0 {
		count++
	}
	if len(a.PlutusV2) > 0 {
		count++
	}
	if len(a.PlutusV3) > 0 {
		count++
	}
	w.WriteTag(auxDataShelleyMaTag)
	w.WriteStartMap(count)
	w.WriteUint(0)
	metaEnc, err := metadata.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(metaEnc)
	if len(a.NativeScripts) > 0 {
		w.WriteUint(1)
		if err := writeNativeScriptList(w, a.NativeScripts); err != nil {
			return nil, err
		}
	}
	if len(a.PlutusV1) > 0 {
		w.WriteUint(2)
		if err := writePlutusScriptList(w, a.PlutusV1); err != nil {
			return nil, err
		}
	}
	if len(a.PlutusV2) > 0 {
		w.WriteUint(3)
		if err := writePlutusScriptList(w, a.PlutusV2); err != nil {
			return nil, err
		}
	}
	if len(a.PlutusV3) > 0 {
		w.WriteUint(4)
		if err := writePlutusScriptList(w, a.PlutusV3); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func writePlutusScriptList(w *cbor.Writer, scripts []PlutusScript) error {
	w.WriteStartArray(len(scripts))
	for _, s := range scripts {
		enc, err := s.MarshalCBOR()
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
	}
	return nil
}

func readPlutusScriptList(r *cbor.Reader, lang PlutusLanguage, validator string) ([]PlutusScript, error) {
	n, _, err := r.ReadStartArray()
	if err != nil {
		return nil, err
	}
	out := make([]PlutusScript, 0, n)
	for i := uint64(0); i < n; i++ {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return nil, err
		}
		var s PlutusScript
		if err := s.UnmarshalCBOR(raw); err != nil {
			return nil, err
		}
		s.Language = lang
		out = append(out, s)
	}
	if err := r.ExpectEndOfArray(validator); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *AuxiliaryData) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	if state == cbor.StateMap {
		metadata := NewMetadatumLabelMap()
		if err := metadata.UnmarshalCBOR(data); err != nil {
			return err
		}
		a.Metadata = metadata
		a.NativeScripts, a.PlutusV1, a.PlutusV2, a.PlutusV3 = nil, nil, nil, nil
		a.SetCbor(data)
		return nil
	}
	if err := r.ExpectTag("AuxiliaryData", auxDataShelleyMaTag); err != nil {
		return err
	}
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	var metadata *MetadatumLabelMap
	var nativeScripts []NativeScript
	var plutusV1, plutusV2, plutusV3 []PlutusScript
	seen := make(map[uint64]bool, n)
	for i := uint64(0); i < n; i++ {
		key, err := r.ReadUint("AuxiliaryData.key")
		if err != nil {
			return err
		}
		if key > 4 {
			return newKindError(cbor.ErrorKindInvalidCborMapKey, "invalid auxiliary data key %d", key)
		}
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate auxiliary data key %d", key)
		}
		seen[key] = true
		switch key {
		case 0:
			raw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			m := NewMetadatumLabelMap()
			if err := m.UnmarshalCBOR(raw); err != nil {
				return err
			}
			metadata = m
		case 1:
			list, err := decodeNativeScriptList(r)
			if err != nil {
				return err
			}
			nativeScripts = list
		case 2:
			list, err := readPlutusScriptList(r, PlutusV1, "AuxiliaryData.plutus_v1")
			if err != nil {
				return err
			}
			plutusV1 = list
		case 3:
			list, err := readPlutusScriptList(r, PlutusV2, "AuxiliaryData.plutus_v2")
			if err != nil {
				return err
			}
			plutusV2 = list
		case 4:
			list, err := readPlutusScriptList(r, PlutusV3, "AuxiliaryData.plutus_v3")
			if err != nil {
				return err
			}
			plutusV3 = list
		}
	}
	if err := r.ExpectEndOfMap("AuxiliaryData"); err != nil {
		return err
	}
	a.Metadata = metadata
	a.NativeScripts, a.PlutusV1, a.PlutusV2, a.PlutusV3 = nativeScripts, plutusV1, plutusV2, plutusV3
	a.SetCbor(data)
	return nil
}
