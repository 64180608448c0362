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

// VkeyWitness pairs a verification key with its Ed25519 signature over
// the transaction body hash. Signature verification itself is out of
// scope here: this type only carries the bytes that a crypto layer
// elsewhere would check.
type VkeyWitness struct {
	Vkey      [32]byte
	Signature [64]byte
}

func (w VkeyWitness) MarshalCBOR() ([]byte, error) {
	out := cbor.NewWriter()
	out.WriteStartArray(2)
	out.WriteBytes(w.Vkey[:])
	out.WriteBytes(w.Signature[:])
	return out.Bytes(), nil
}

func (w *VkeyWitness) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("VkeyWitness", 2); err != nil {
		return err
	}
	vkey, err := r.ExpectByteString("VkeyWitness", "vkey", 32)
	if err != nil {
		return err
	}
	sig, err := r.ExpectByteString("VkeyWitness", "signature", 64)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("VkeyWitness"); err != nil {
		return err
	}
	copy(w.Vkey[:], vkey)
	copy(w.Signature[:], sig)
	return nil
}

// BootstrapWitness authorizes spending a Byron-era address: a vkey/signature
// pair plus the BIP32 chain code and address attributes needed to rederive
// the address.
type BootstrapWitness struct {
	Vkey       [32]byte
	Signature  [64]byte
	ChainCode  [32]byte
	Attributes []byte
}

func (w BootstrapWitness) MarshalCBOR() ([]byte, error) {
	out := cbor.NewWriter()
	out.WriteStartArray(4)
	out.WriteBytes(w.Vkey[:])
	out.WriteBytes(w.Signature[:])
	out.WriteBytes(w.ChainCode[:])
	out.WriteBytes(w.Attributes)
	return out.Bytes(), nil
}

func (w *BootstrapWitness) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("BootstrapWitness", 4); err != nil {
		return err
	}
	vkey, err := r.ExpectByteString("BootstrapWitness", "vkey", 32)
	if err != nil {
		return err
	}
	sig, err := r.ExpectByteString("BootstrapWitness", "signature", 64)
	if err != nil {
		return err
	}
	chainCode, err := r.ExpectByteString("BootstrapWitness", "chain_code", 32)
	if err != nil {
		return err
	}
	attrs, err := r.ReadBytes("BootstrapWitness.attributes")
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("BootstrapWitness"); err != nil {
		return err
	}
	copy(w.Vkey[:], vkey)
	copy(w.Signature[:], sig)
	copy(w.ChainCode[:], chainCode)
	w.Attributes = attrs
	return nil
}

// PlutusLanguage identifies a Plutus script version, each with its own
// cost-model operation count.
type PlutusLanguage uint64

const (
	PlutusV1 PlutusLanguage = iota
	PlutusV2
	PlutusV3
)

func (l PlutusLanguage) String() string {
	switch l {
	case PlutusV1:
		return "PlutusV1"
	case PlutusV2:
		return "PlutusV2"
	case PlutusV3:
		return "PlutusV3"
	default:
		return "unknown Plutus language"
	}
}

// PlutusScript is the compiled script bytes for a given language version.
// Each language is wire-represented as its own bytestring (tagged by its
// witness-set collection key, not by an in-band discriminator), so
// MarshalCBOR/UnmarshalCBOR operate directly on the raw byte string.
type PlutusScript struct {
	Language PlutusLanguage
	Bytes    []byte
}

func NewPlutusScript(lang PlutusLanguage, code []byte) PlutusScript {
	return PlutusScript{Language: lang, Bytes: code}
}

// Hash computes the script hash used as a credential payload: Blake2b-224
// of the language tag byte concatenated with the script bytes (mirrors
// native-script hashing, but with a per-language prefix byte instead of
// the fixed 0x00).
func (s PlutusScript) Hash() Blake2b224 {
	preimage := make([]byte, 0, 1+len(s.Bytes))
	preimage = append(preimage, byte(s.Language)+1)
	preimage = append(preimage, s.Bytes...)
	return Blake2b224Hash(preimage)
}

func (s PlutusScript) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteBytes(s.Bytes)
	return w.Bytes(), nil
}

func (s *PlutusScript) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	b, err := r.ReadBytes("PlutusScript")
	if err != nil {
		return err
	}
	s.Bytes = b
	return nil
}

// RedeemerTag names the transaction-level purpose a redeemer authorizes.
type RedeemerTag uint64

const (
	RedeemerTagSpend RedeemerTag = iota
	RedeemerTagMint
	RedeemerTagCert
	RedeemerTagReward
	RedeemerTagVote
	RedeemerTagPropose
)

func redeemerTagName(v uint64) string {
	switch RedeemerTag(v) {
	case RedeemerTagSpend:
		return "spend"
	case RedeemerTagMint:
		return "mint"
	case RedeemerTagCert:
		return "cert"
	case RedeemerTagReward:
		return "reward"
	case RedeemerTagVote:
		return "vote"
	case RedeemerTagPropose:
		return "propose"
	default:
		return "unknown redeemer tag"
	}
}

func (t RedeemerTag) String() string { return redeemerTagName(uint64(t)) }

// Redeemer authorizes a single script-governed action: which collection
// entry it targets (Tag, Index), the Plutus datum argument, and the
// execution-unit budget the submitter is willing to pay.
//
// Index is mutable until the containing collection is frozen at final
// transaction assembly, at which point it must be < the collection's
// length; this codec does not enforce that cross-reference, only
// round-trips the value.
type Redeemer struct {
	Tag     RedeemerTag
	Index   uint32
	Data    PlutusData
	ExUnits ExUnits
}

func (r Redeemer) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(4)
	w.WriteUint(uint64(r.Tag))
	w.WriteUint(uint64(r.Index))
	dataEnc, err := r.Data.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(dataEnc)
	exEnc, err := r.ExUnits.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(exEnc)
	return w.Bytes(), nil
}

func (r *Redeemer) UnmarshalCBOR(data []byte) error {
	rd := cbor.NewReader(data)
	if err := rd.ExpectArrayOfN("Redeemer", 4); err != nil {
		return err
	}
	tag, err := rd.ExpectUintInRange("Redeemer", "tag", 0, 5)
	if err != nil {
		return err
	}
	idx, err := rd.ExpectUintInRange("Redeemer", "index", 0, 1<<32-1)
	if err != nil {
		return err
	}
	datumRaw, err := rd.ReadEncodedValue()
	if err != nil {
		return err
	}
	var datum PlutusData
	if err := datum.UnmarshalCBOR(datumRaw); err != nil {
		return err
	}
	var exUnits ExUnits
	exRaw, err := rd.ReadEncodedValue()
	if err != nil {
		return err
	}
	if err := exUnits.UnmarshalCBOR(exRaw); err != nil {
		return err
	}
	if err := rd.ExpectEndOfArray("Redeemer"); err != nil {
		return err
	}
	r.Tag = RedeemerTag(tag)
	// #nosec G115 -- bounded above by ExpectUintInRange to uint32 range
	r.Index = uint32(idx)
	r.Data = datum
	r.ExUnits = exUnits
	return nil
}
