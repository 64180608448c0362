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

// WitnessSet is the sparse 8-key map of witness collections accompanying
// a transaction body. Every collection except Redeemers is a logical set
// and carries its own "uses tag 258" flag; an absent collection is simply
// omitted on encode.
type WitnessSet struct {
	VkeyWitnesses    *Set[VkeyWitness]
	NativeScripts    *Set[NativeScript]
	BootstrapWitness *Set[BootstrapWitness]
	PlutusV1Scripts  *Set[PlutusScript]
	PlutusData       *Set[PlutusData]
	Redeemers        []Redeemer
	PlutusV2Scripts  *Set[PlutusScript]
	PlutusV3Scripts  *Set[PlutusScript]
}

func NewWitnessSet() *WitnessSet { return &WitnessSet{} }

func (w *WitnessSet) MarshalCBOR() ([]byte, error) {
	type entry struct {
		key   uint64
		write func(*cbor.Writer) error
	}
	var entries []entry
	if w.VkeyWitnesses.Len() > 0 {
		entries = append(entries, entry{0, func(out *cbor.Writer) error {
			enc, err := w.VkeyWitnesses.MarshalElements(func(v VkeyWitness) ([]byte, error) { return v.MarshalCBOR() })
			if err != nil {
				return err
			}
			out.WriteEncoded(enc)
			return nil
		}})
	}
	if w.NativeScripts.Len() > 0 {
		entries = append(entries, entry{1, func(out *cbor.Writer) error {
			enc, err := w.NativeScripts.MarshalElements(func(v NativeScript) ([]byte, error) { return v.MarshalCBOR() })
			if err != nil {
				return err
			}
			out.WriteEncoded(enc)
			return nil
		}})
	}
	if w.BootstrapWitness.Len() > 0 {
		entries = append(entries, entry{2, func(out *cbor.Writer) error {
			enc, err := w.BootstrapWitness.MarshalElements(func(v BootstrapWitness) ([]byte, error) { return v.MarshalCBOR() })
			if err != nil {
				return err
			}
			out.WriteEncoded(enc)
			return nil
		}})
	}
	if w.PlutusV1Scripts.Len() > 0 {
		entries = append(entries, entry{3, plutusSetWriter(w.PlutusV1Scripts)})
	}
	if w.PlutusData.Len() > 0 {
		entries = append(entries, entry{4, func(out *cbor.Writer) error {
			enc, err := w.PlutusData.MarshalElements(func(v PlutusData) ([]byte, error) { return v.MarshalCBOR() })
			if err != nil {
				return err
			}
			out.WriteEncoded(enc)
			return nil
		}})
	}
	if len(w.Redeemers) > 0 {
		entries = append(entries, entry{5, func(out *cbor.Writer) error {
			out.WriteStartArray(len(w.Redeemers))
			for _, r := range w.Redeemers {
				enc, err := r.MarshalCBOR()
				if err != nil {
					return err
				}
				out.WriteEncoded(enc)
			}
			return nil
		}})
	}
	if w.PlutusV2Scripts.Len() > 0 {
		entries = append(entries, entry{6, plutusSetWriter(w.PlutusV2Scripts)})
	}
	if w.PlutusV3Scripts.Len() > 0 {
		entries = append(entries, entry{7, plutusSetWriter(w.PlutusV3Scripts)})
	}
	out := cbor.NewWriter()
	out.WriteStartMap(len(entries))
	for _, e := range entries {
		out.WriteUint(e.key)
		if err := e.write(out); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func plutusSetWriter(s *Set[PlutusScript]) func(*cbor.Writer) error {
	return func(out *cbor.Writer) error {
		enc, err := s.MarshalElements(func(v PlutusScript) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return err
		}
		out.WriteEncoded(enc)
		return nil
	}
}

func (w *WitnessSet) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	seen := make(map[uint64]bool, n)
	for i := uint64(0); i < n; i++ {
		key, err := r.ReadUint("WitnessSet.key")
		if err != nil {
			return err
		}
		if key > 7 {
			return newKindError(cbor.ErrorKindInvalidCborMapKey, "invalid witness set key %d", key)
		}
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate witness set key %d", key)
		}
		seen[key] = true
		switch key {
		case 0:
			set, err := UnmarshalSet(r, "WitnessSet.vkey_witnesses", decodeVkeyWitness)
			if err != nil {
				return err
			}
			w.VkeyWitnesses = set
		case 1:
			set, err := UnmarshalSet(r, "WitnessSet.native_scripts", decodeNativeScriptElement)
			if err != nil {
				return err
			}
			w.NativeScripts = set
		case 2:
			set, err := UnmarshalSet(r, "WitnessSet.bootstrap_witnesses", decodeBootstrapWitness)
			if err != nil {
				return err
			}
			w.BootstrapWitness = set
		case 3:
			set, err := unmarshalPlutusScriptSet(r, PlutusV1, "WitnessSet.plutus_v1_scripts")
			if err != nil {
				return err
			}
			w.PlutusV1Scripts = set
		case 4:
			set, err := UnmarshalSet(r, "WitnessSet.plutus_data", decodePlutusDataElement)
			if err != nil {
				return err
			}
			w.PlutusData = set
		case 5:
			list, err := decodeRedeemerList(r)
			if err != nil {
				return err
			}
			w.Redeemers = list
		case 6:
			set, err := unmarshalPlutusScriptSet(r, PlutusV2, "WitnessSet.plutus_v2_scripts")
			if err != nil {
				return err
			}
			w.PlutusV2Scripts = set
		case 7:
			set, err := unmarshalPlutusScriptSet(r, PlutusV3, "WitnessSet.plutus_v3_scripts")
			if err != nil {
				return err
			}
			w.PlutusV3Scripts = set
		}
	}
	return r.ExpectEndOfMap("WitnessSet")
}

func decodeVkeyWitness(r *cbor.Reader) (VkeyWitness, error) {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return VkeyWitness{}, err
	}
	var v VkeyWitness
	if err := v.UnmarshalCBOR(raw); err != nil {
		return VkeyWitness{}, err
	}
	return v, nil
}

func decodeBootstrapWitness(r *cbor.Reader) (BootstrapWitness, error) {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return BootstrapWitness{}, err
	}
	var v BootstrapWitness
	if err := v.UnmarshalCBOR(raw); err != nil {
		return BootstrapWitness{}, err
	}
	return v, nil
}

func decodeNativeScriptElement(r *cbor.Reader) (NativeScript, error) {
	var s NativeScript
	if err := s.decode(r); err != nil {
		return NativeScript{}, err
	}
	return s, nil
}

func decodePlutusDataElement(r *cbor.Reader) (PlutusData, error) {
	// Decode via the raw slice so each element stashes its original bytes:
	// the plutus-data set feeds the script-data hash and must replay
	// producer encodings verbatim.
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return PlutusData{}, err
	}
	var d PlutusData
	if err := d.UnmarshalCBOR(raw); err != nil {
		return PlutusData{}, err
	}
	return d, nil
}

func unmarshalPlutusScriptSet(r *cbor.Reader, lang PlutusLanguage, validator string) (*Set[PlutusScript], error) {
	set, err := UnmarshalSet(r, validator, func(rd *cbor.Reader) (PlutusScript, error) {
		raw, err := rd.ReadEncodedValue()
		if err != nil {
			return PlutusScript{}, err
		}
		var s PlutusScript
		if err := s.UnmarshalCBOR(raw); err != nil {
			return PlutusScript{}, err
		}
		s.Language = lang
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func decodeRedeemerList(r *cbor.Reader) ([]Redeemer, error) {
	n, _, err := r.ReadStartArray()
	if err != nil {
		return nil, err
	}
	out := make([]Redeemer, 0, n)
	for i := uint64(0); i < n; i++ {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return nil, err
		}
		var red Redeemer
		if err := red.UnmarshalCBOR(raw); err != nil {
			return nil, err
		}
		out = append(out, red)
	}
	if err := r.ExpectEndOfArray("WitnessSet.redeemers"); err != nil {
		return nil, err
	}
	return out, nil
}
