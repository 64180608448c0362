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
	"encoding/hex"
	"encoding/json"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// NativeScriptType discriminates the six native-script variants (CDDL
// `native_script`).
type NativeScriptType uint64

const (
	NativeScriptPubKey NativeScriptType = iota
	NativeScriptAll
	NativeScriptAny
	NativeScriptNOfK
	NativeScriptInvalidBefore
	NativeScriptInvalidAfter
)

func nativeScriptTypeName(v uint64) string {
	switch NativeScriptType(v) {
	case NativeScriptPubKey:
		return "sig"
	case NativeScriptAll:
		return "all"
	case NativeScriptAny:
		return "any"
	case NativeScriptNOfK:
		return "atLeast"
	case NativeScriptInvalidBefore:
		return "invalidBefore"
	case NativeScriptInvalidAfter:
		return "invalidHereafter"
	default:
		return "unknown native script type"
	}
}

// NativeScript is a non-Turing-complete script whose evaluation is a pure
// tree traversal. It is a six-variant tagged union; only the fields
// relevant to NativeScript.Type are meaningful.
type NativeScript struct {
	Type NativeScriptType

	KeyHash Blake2b224 // NativeScriptPubKey

	Scripts []NativeScript // NativeScriptAll, NativeScriptAny, NativeScriptNOfK

	Required uint64 // NativeScriptNOfK: 0 <= Required <= len(Scripts)

	Slot uint64 // NativeScriptInvalidBefore, NativeScriptInvalidAfter
}

func NewPubKeyScript(keyHash Blake2b224) NativeScript {
	return NativeScript{Type: NativeScriptPubKey, KeyHash: keyHash}
}

func NewAllScript(scripts ...NativeScript) NativeScript {
	return NativeScript{Type: NativeScriptAll, Scripts: scripts}
}

func NewAnyScript(scripts ...NativeScript) NativeScript {
	return NativeScript{Type: NativeScriptAny, Scripts: scripts}
}

// NewNOfKScript builds an atLeast script; required must satisfy
// 0 <= required <= len(scripts).
func NewNOfKScript(required uint64, scripts ...NativeScript) NativeScript {
	return NativeScript{Type: NativeScriptNOfK, Required: required, Scripts: scripts}
}

func NewInvalidBeforeScript(slot uint64) NativeScript {
	return NativeScript{Type: NativeScriptInvalidBefore, Slot: slot}
}

func NewInvalidAfterScript(slot uint64) NativeScript {
	return NativeScript{Type: NativeScriptInvalidAfter, Slot: slot}
}

// Equal reports structural equality of two script trees.
func (s NativeScript) Equal(other NativeScript) bool {
	if s.Type != other.Type {
		return false
	}
	switch s.Type {
	case NativeScriptPubKey:
		return s.KeyHash == other.KeyHash
	case NativeScriptInvalidBefore, NativeScriptInvalidAfter:
		return s.Slot == other.Slot
	case NativeScriptNOfK:
		if s.Required != other.Required {
			return false
		}
	}
	if len(s.Scripts) != len(other.Scripts) {
		return false
	}
	for i := range s.Scripts {
		if !s.Scripts[i].Equal(other.Scripts[i]) {
			return false
		}
	}
	return true
}

// Hash computes the native-script hash: Blake2b-224 of the single byte
// 0x00 (the native-script language tag) concatenated with the script's
// CBOR encoding.
func (s NativeScript) Hash() (Blake2b224, error) {
	enc, err := s.MarshalCBOR()
	if err != nil {
		return Blake2b224{}, err
	}
	preimage := make([]byte, 0, 1+len(enc))
	preimage = append(preimage, 0x00)
	preimage = append(preimage, enc...)
	return Blake2b224Hash(preimage), nil
}

func (s NativeScript) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch s.Type {
	case NativeScriptPubKey:
		w.WriteStartArray(2)
		w.WriteUint(uint64(s.Type))
		w.WriteBytes(s.KeyHash[:])
	case NativeScriptAll, NativeScriptAny:
		w.WriteStartArray(2)
		w.WriteUint(uint64(s.Type))
		if err := writeNativeScriptList(w, s.Scripts); err != nil {
			return nil, err
		}
	case NativeScriptNOfK:
		w.WriteStartArray(3)
		w.WriteUint(uint64(s.Type))
		w.WriteUint(s.Required)
		if err := writeNativeScriptList(w, s.Scripts); err != nil {
			return nil, err
		}
	case NativeScriptInvalidBefore, NativeScriptInvalidAfter:
		w.WriteStartArray(2)
		w.WriteUint(uint64(s.Type))
		w.WriteUint(s.Slot)
	default:
		return nil, newKindError(cbor.ErrorKindInvalidNativeScriptType, "unknown native script type %d", s.Type)
	}
	return w.Bytes(), nil
}

func writeNativeScriptList(w *cbor.Writer, scripts []NativeScript) error {
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

func (s *NativeScript) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	return s.decode(r)
}

func (s *NativeScript) decode(r *cbor.Reader) error {
	_, _, err := r.ReadStartArray()
	if err != nil {
		return err
	}
	typ, err := r.ExpectUintInRange("NativeScript", "type", 0, 5)
	if err != nil {
		return err
	}
	switch NativeScriptType(typ) {
	case NativeScriptPubKey:
		hash, err := r.ExpectByteString("NativeScript", "key_hash", 28)
		if err != nil {
			return err
		}
		s.Type = NativeScriptPubKey
		s.KeyHash = NewBlake2b224(hash)
	case NativeScriptAll, NativeScriptAny:
		scripts, err := decodeNativeScriptList(r)
		if err != nil {
			return err
		}
		s.Type = NativeScriptType(typ)
		s.Scripts = scripts
	case NativeScriptNOfK:
		required, err := r.ReadUint("NativeScript.required")
		if err != nil {
			return err
		}
		scripts, err := decodeNativeScriptList(r)
		if err != nil {
			return err
		}
		s.Type = NativeScriptNOfK
		s.Required = required
		s.Scripts = scripts
	case NativeScriptInvalidBefore, NativeScriptInvalidAfter:
		slot, err := r.ReadUint("NativeScript.slot")
		if err != nil {
			return err
		}
		s.Type = NativeScriptType(typ)
		s.Slot = slot
	default:
		return newKindError(cbor.ErrorKindInvalidNativeScriptType, "unknown native script type %d", typ)
	}
	return r.ExpectEndOfArray("NativeScript")
}

// String renders the native script's variant tag, e.g. "all" or "atLeast".
func (t NativeScriptType) String() string { return nativeScriptTypeName(uint64(t)) }

// nativeScriptJSON is the discriminator-tagged DTO for the JSON native
// script document format. The "type" field selects which of the other
// fields are meaningful, mirroring the six-variant CBOR union above.
type nativeScriptJSON struct {
	Type     string             `json:"type"`
	KeyHash  string             `json:"keyHash,omitempty"`
	Scripts  []nativeScriptJSON `json:"scripts,omitempty"`
	Required *uint64            `json:"required,omitempty"`
	Slot     *uint64            `json:"slot,omitempty"`
}

// NativeScriptFromJSON parses the JSON native-script document format used
// by wallet and CLI tooling into a NativeScript tree, recursing through
// nested "scripts" arrays. The JSON discriminator values are "sig",
// "all", "any", "atLeast", "after" and "before".
func NativeScriptFromJSON(data []byte) (NativeScript, error) {
	var doc nativeScriptJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: %s", err)
	}
	return nativeScriptFromJSONDoc(doc)
}

func nativeScriptFromJSONDoc(doc nativeScriptJSON) (NativeScript, error) {
	switch doc.Type {
	case "sig":
		raw, err := hex.DecodeString(doc.KeyHash)
		if err != nil || len(raw) != 28 {
			return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: invalid sig keyHash %q", doc.KeyHash)
		}
		return NewPubKeyScript(NewBlake2b224(raw)), nil
	case "all", "any":
		children, err := nativeScriptListFromJSONDocs(doc.Scripts)
		if err != nil {
			return NativeScript{}, err
		}
		if doc.Type == "all" {
			return NewAllScript(children...), nil
		}
		return NewAnyScript(children...), nil
	case "atLeast":
		if doc.Required == nil {
			return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: atLeast missing required")
		}
		children, err := nativeScriptListFromJSONDocs(doc.Scripts)
		if err != nil {
			return NativeScript{}, err
		}
		if *doc.Required > uint64(len(children)) {
			return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: required %d exceeds %d scripts", *doc.Required, len(children))
		}
		return NewNOfKScript(*doc.Required, children...), nil
	case "before":
		if doc.Slot == nil {
			return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: before missing slot")
		}
		return NewInvalidAfterScript(*doc.Slot), nil
	case "after":
		if doc.Slot == nil {
			return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: after missing slot")
		}
		return NewInvalidBeforeScript(*doc.Slot), nil
	default:
		return NativeScript{}, newKindError(cbor.ErrorKindInvalidJSON, "native script JSON: unknown type %q", doc.Type)
	}
}

func nativeScriptListFromJSONDocs(docs []nativeScriptJSON) ([]NativeScript, error) {
	out := make([]NativeScript, 0, len(docs))
	for _, d := range docs {
		child, err := nativeScriptFromJSONDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func decodeNativeScriptList(r *cbor.Reader) ([]NativeScript, error) {
	n, _, err := r.ReadStartArray()
	if err != nil {
		return nil, err
	}
	out := make([]NativeScript, 0, n)
	for i := uint64(0); i < n; i++ {
		var s NativeScript
		if err := s.decode(r); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := r.ExpectEndOfArray("NativeScript.scripts"); err != nil {
		return nil, err
	}
	return out, nil
}
