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

// Transaction is the top-level wire entity: a body, its witnesses, a
// validity flag, and optional auxiliary data. The CDDL wire shape is the
// 4-element array [body, witness_set, is_valid, auxiliary_data / null].
type Transaction struct {
	Body          TransactionBody
	WitnessSet    WitnessSet
	IsValid       bool
	AuxiliaryData *AuxiliaryData
}

func NewTransaction(body TransactionBody, witnessSet WitnessSet, isValid bool, auxData *AuxiliaryData) Transaction {
	return Transaction{Body: body, WitnessSet: witnessSet, IsValid: isValid, AuxiliaryData: auxData}
}

func (t Transaction) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(4)
	bodyEnc, err := t.Body.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(bodyEnc)
	witEnc, err := t.WitnessSet.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(witEnc)
	w.WriteBool(t.IsValid)
	if t.AuxiliaryData == nil {
		w.WriteNull()
	} else {
		auxEnc, err := t.AuxiliaryData.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(auxEnc)
	}
	return w.Bytes(), nil
}

func (t *Transaction) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Transaction", 4); err != nil {
		return err
	}
	bodyRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var body TransactionBody
	if err := body.UnmarshalCBOR(bodyRaw); err != nil {
		return err
	}
	witRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var wit WitnessSet
	if err := wit.UnmarshalCBOR(witRaw); err != nil {
		return err
	}
	isValid, err := r.ReadBool("Transaction.is_valid")
	if err != nil {
		return err
	}
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	var auxData *AuxiliaryData
	if state == cbor.StateNull {
		if err := r.ReadNull("Transaction.auxiliary_data"); err != nil {
			return err
		}
	} else {
		auxRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var aux AuxiliaryData
		if err := aux.UnmarshalCBOR(auxRaw); err != nil {
			return err
		}
		auxData = &aux
	}
	if err := r.ExpectEndOfArray("Transaction"); err != nil {
		return err
	}
	t.Body, t.WitnessSet, t.IsValid, t.AuxiliaryData = body, wit, isValid, auxData
	return nil
}

// BodyHash computes the Blake2b-256 hash of the transaction body's
// canonical (or cached, if the body was decoded and not mutated since)
// CBOR encoding. This is the transaction ID.
func (t Transaction) BodyHash() (Blake2b256, error) {
	enc, err := t.Body.MarshalCBOR()
	if err != nil {
		return Blake2b256{}, err
	}
	return Blake2b256Hash(enc), nil
}

// emptyCborMap is the canonical encoding of a definite-length map with
// zero entries (major type 5, additional info 0): CBOR byte 0xA0.
var emptyCborMap = []byte{0xA0}

// ScriptDataHash assembles the script-data-hash pre-image mandated by the
// ledger rules from this transaction's redeemers, Plutus data
// set, and the cost models known for the languages its Plutus scripts
// use, then hashes it with Blake2b-256. Returns (zero, false, nil) when
// the ledger rule says no hash applies: no cost models are known, or
// both redeemers and Plutus data are empty.
func (t Transaction) ScriptDataHash(costModels *CostModels) (Blake2b256, bool, error) {
	if costModels == nil || costModels.IsEmpty() {
		return Blake2b256{}, false, nil
	}
	redeemers := t.WitnessSet.Redeemers
	plutusData := t.WitnessSet.PlutusData
	hasData := plutusData.Len() > 0
	if len(redeemers) == 0 && !hasData {
		return Blake2b256{}, false, nil
	}

	var preimage []byte
	if len(redeemers) == 0 {
		// Redeemers empty but Plutus data present: map(0) ++ data-set ++ map(0).
		preimage = append(preimage, emptyCborMap...)
		dataEnc, err := plutusData.MarshalElements(func(v PlutusData) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return Blake2b256{}, false, err
		}
		preimage = append(preimage, dataEnc...)
		preimage = append(preimage, emptyCborMap...)
		return Blake2b256Hash(preimage), true, nil
	}

	w := cbor.NewWriter()
	w.WriteStartArray(len(redeemers))
	for _, red := range redeemers {
		enc, err := red.MarshalCBOR()
		if err != nil {
			return Blake2b256{}, false, err
		}
		w.WriteEncoded(enc)
	}
	preimage = append(preimage, w.Bytes()...)
	if hasData {
		dataEnc, err := plutusData.MarshalElements(func(v PlutusData) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return Blake2b256{}, false, err
		}
		preimage = append(preimage, dataEnc...)
	}
	viewsEnc, err := costModels.LanguageViewsEncoding()
	if err != nil {
		return Blake2b256{}, false, err
	}
	preimage = append(preimage, viewsEnc...)
	return Blake2b256Hash(preimage), true, nil
}
