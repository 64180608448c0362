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

// DatumOptionKind discriminates whether a transaction output carries a
// datum hash or an inline datum.
type DatumOptionKind uint64

const (
	DatumOptionHash DatumOptionKind = iota
	DatumOptionInline
)

// DatumOption is a post-Alonzo output's optional datum reference: either
// the 32-byte hash of a datum supplied elsewhere, or the datum itself
// inlined directly into the output (CDDL `datum_option`).
type DatumOption struct {
	Kind DatumOptionKind
	Hash Blake2b256
	Data PlutusData // DatumOptionInline
}

func (d DatumOption) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(uint64(d.Kind))
	switch d.Kind {
	case DatumOptionHash:
		hashEnc, err := d.Hash.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(hashEnc)
	case DatumOptionInline:
		dataEnc, err := d.Data.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteTag(24)
		w.WriteBytes(dataEnc)
	default:
		return nil, newCommonError("unknown datum option kind %d", d.Kind)
	}
	return w.Bytes(), nil
}

func (d *DatumOption) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("DatumOption", 2); err != nil {
		return err
	}
	kind, err := r.ExpectUintInRange("DatumOption", "kind", 0, 1)
	if err != nil {
		return err
	}
	switch DatumOptionKind(kind) {
	case DatumOptionHash:
		hashBytes, err := r.ExpectByteString("DatumOption", "hash", 32)
		if err != nil {
			return err
		}
		d.Hash = NewBlake2b256(hashBytes)
	case DatumOptionInline:
		if err := r.ExpectTag("DatumOption.inline", 24); err != nil {
			return err
		}
		inner, err := r.ReadBytes("DatumOption.inline")
		if err != nil {
			return err
		}
		var datum PlutusData
		if err := datum.UnmarshalCBOR(inner); err != nil {
			return err
		}
		d.Data = datum
	}
	if err := r.ExpectEndOfArray("DatumOption"); err != nil {
		return err
	}
	d.Kind = DatumOptionKind(kind)
	return nil
}

// ScriptRef is a reference script attached to an output, usable to
// satisfy a script-witness requirement without resubmitting the script
// in every spending transaction. Wrapped in its own tag-24 bstr wrapper
// on the wire, matching the ledger's `script_ref` CDDL.
type ScriptRef struct {
	NativeScript *NativeScript
	PlutusScript *PlutusScript
	Language     PlutusLanguage // meaningful only when PlutusScript is set
}

// MarshalCBOR writes the script as [kind, script], where kind 0 = native
// and 1/2/3 = PlutusV1/V2/V3 (Language + 1).
func (s ScriptRef) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	switch {
	case s.NativeScript != nil:
		w.WriteUint(0)
		enc, err := s.NativeScript.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	case s.PlutusScript != nil:
		w.WriteUint(uint64(s.Language) + 1)
		enc, err := s.PlutusScript.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	default:
		return nil, newCommonError("script ref has no script set")
	}
	return w.Bytes(), nil
}

func (s *ScriptRef) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("ScriptRef", 2); err != nil {
		return err
	}
	tag, err := r.ExpectUintInRange("ScriptRef", "tag", 0, 3)
	if err != nil {
		return err
	}
	scriptRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("ScriptRef"); err != nil {
		return err
	}
	if tag == 0 {
		var ns NativeScript
		if err := ns.UnmarshalCBOR(scriptRaw); err != nil {
			return err
		}
		s.NativeScript = &ns
		s.PlutusScript = nil
		return nil
	}
	var ps PlutusScript
	if err := ps.UnmarshalCBOR(scriptRaw); err != nil {
		return err
	}
	s.Language = PlutusLanguage(tag - 1)
	ps.Language = s.Language
	s.PlutusScript = &ps
	s.NativeScript = nil
	return nil
}

// TransactionOutput is a transaction's payment output (body key 1, and
// key 16 as a collateral return). Modern (post-Alonzo) outputs carry
// optional datum and script-reference fields alongside address and
// value; legacy (pre-Alonzo) outputs are a bare [address, amount] array.
// Both wire shapes decode into this one type; MarshalCBOR always emits
// the modern map-shaped form when either optional field is present, and
// the legacy array form otherwise — matching the ledger's own encoder,
// which only switches to the map shape when an output actually needs it.
type TransactionOutput struct {
	Address   Address
	Amount    MultiAssetValue
	Datum     *DatumOption
	ScriptRef *ScriptRef
}

// MultiAssetValue is a transaction output's value: a lovelace quantity
// plus an optional unsigned multi-asset bundle (CDDL `value`).
type MultiAssetValue struct {
	Coin   uint64
	Assets MultiAsset[uint64]
}

func NewCoinOnlyValue(coin uint64) MultiAssetValue {
	return MultiAssetValue{Coin: coin}
}

func (v MultiAssetValue) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	if v.Assets.IsEmpty() {
		w.WriteUint(v.Coin)
		return w.Bytes(), nil
	}
	w.WriteStartArray(2)
	w.WriteUint(v.Coin)
	assetsEnc, err := v.Assets.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(assetsEnc)
	return w.Bytes(), nil
}

func (v *MultiAssetValue) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	if state != cbor.StateArray {
		coin, err := r.ReadUint("MultiAssetValue.coin")
		if err != nil {
			return err
		}
		v.Coin, v.Assets = coin, MultiAsset[uint64]{}
		return nil
	}
	if err := r.ExpectArrayOfN("MultiAssetValue", 2); err != nil {
		return err
	}
	coin, err := r.ReadUint("MultiAssetValue.coin")
	if err != nil {
		return err
	}
	assetsRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var assets MultiAsset[uint64]
	if err := assets.UnmarshalCBOR(assetsRaw); err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("MultiAssetValue"); err != nil {
		return err
	}
	v.Coin, v.Assets = coin, assets
	return nil
}

func (o TransactionOutput) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	if o.Datum == nil && o.ScriptRef == nil {
		w.WriteStartArray(2)
		addrEnc, err := o.Address.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(addrEnc)
		amountEnc, err := o.Amount.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(amountEnc)
		return w.Bytes(), nil
	}
	count := 2
	if o.Datum != nil {
		count++
	}
	if o.ScriptRef != nil {
		count++
	}
	w.WriteStartMap(count)
	w.WriteUint(0)
	addrEnc, err := o.Address.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(addrEnc)
	w.WriteUint(1)
	amountEnc, err := o.Amount.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(amountEnc)
	if o.Datum != nil {
		w.WriteUint(2)
		datumEnc, err := o.Datum.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(datumEnc)
	}
	if o.ScriptRef != nil {
		w.WriteUint(3)
		refEnc, err := o.ScriptRef.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteTag(24)
		w.WriteBytes(refEnc)
	}
	return w.Bytes(), nil
}

func (o *TransactionOutput) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	if state == cbor.StateArray {
		if err := r.ExpectArrayOfN("TransactionOutput", 2); err != nil {
			return err
		}
		addrRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var addr Address
		if err := addr.UnmarshalCBOR(addrRaw); err != nil {
			return err
		}
		amountRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var amount MultiAssetValue
		if err := amount.UnmarshalCBOR(amountRaw); err != nil {
			return err
		}
		if err := r.ExpectEndOfArray("TransactionOutput"); err != nil {
			return err
		}
		o.Address, o.Amount, o.Datum, o.ScriptRef = addr, amount, nil, nil
		return nil
	}
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	var addr *Address
	var amount *MultiAssetValue
	var datum *DatumOption
	var scriptRef *ScriptRef
	seen := make(map[uint64]bool, n)
	for i := uint64(0); i < n; i++ {
		key, err := r.ReadUint("TransactionOutput.key")
		if err != nil {
			return err
		}
		if key > 3 {
			return newKindError(cbor.ErrorKindInvalidCborMapKey, "invalid transaction output key %d", key)
		}
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate transaction output key %d", key)
		}
		seen[key] = true
		switch key {
		case 0:
			raw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var a Address
			if err := a.UnmarshalCBOR(raw); err != nil {
				return err
			}
			addr = &a
		case 1:
			raw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var v MultiAssetValue
			if err := v.UnmarshalCBOR(raw); err != nil {
				return err
			}
			amount = &v
		case 2:
			raw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var d DatumOption
			if err := d.UnmarshalCBOR(raw); err != nil {
				return err
			}
			datum = &d
		case 3:
			if err := r.ExpectTag("TransactionOutput.script_ref", 24); err != nil {
				return err
			}
			inner, err := r.ReadBytes("TransactionOutput.script_ref")
			if err != nil {
				return err
			}
			var ref ScriptRef
			if err := ref.UnmarshalCBOR(inner); err != nil {
				return err
			}
			scriptRef = &ref
		}
	}
	if err := r.ExpectEndOfMap("TransactionOutput"); err != nil {
		return err
	}
	if addr == nil || amount == nil {
		return newCommonError("transaction output missing required address or amount")
	}
	o.Address, o.Amount, o.Datum, o.ScriptRef = *addr, *amount, datum, scriptRef
	return nil
}
