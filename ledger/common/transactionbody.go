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

// transactionBodyKeyMax is the highest assigned transaction-body map key.
const transactionBodyKeyMax = 22

// reservedTransactionBodyKeys are explicitly unassigned and are rejected
// rather than silently skipped.
var reservedTransactionBodyKeys = map[uint64]bool{10: true, 12: true}

// Update is the legacy protocol-parameter-update proposal carried at
// transaction-body key 6 (CDDL `update`): a genesis-hash-keyed map of
// per-genesis-delegate proposed updates, plus the epoch they take effect
// in. Map keys are sorted byte-lex ascending on encode.
type Update struct {
	ProposedProtocolParameterUpdates map[Blake2b224]ProtocolParamUpdate
	Epoch                            uint64
}

func (u Update) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	keys := make([]Blake2b224, 0, len(u.ProposedProtocolParameterUpdates))
	for k := range u.ProposedProtocolParameterUpdates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return CompareBytes(keys[i][:], keys[j][:]) < 0
	})
	w.WriteStartMap(len(keys))
	for _, k := range keys {
		keyEnc, err := k.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(keyEnc)
		v := u.ProposedProtocolParameterUpdates[k]
		valEnc, err := v.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(valEnc)
	}
	w.WriteUint(u.Epoch)
	return w.Bytes(), nil
}

func (u *Update) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Update", 2); err != nil {
		return err
	}
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	updates := make(map[Blake2b224]ProtocolParamUpdate, n)
	for i := uint64(0); i < n; i++ {
		keyBytes, err := r.ExpectByteString("Update", "genesis_hash", 28)
		if err != nil {
			return err
		}
		key := NewBlake2b224(keyBytes)
		if _, dup := updates[key]; dup {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate genesis hash in update")
		}
		valRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var upd ProtocolParamUpdate
		if err := upd.UnmarshalCBOR(valRaw); err != nil {
			return err
		}
		updates[key] = upd
	}
	if err := r.ExpectEndOfMap("Update.proposed_protocol_parameter_updates"); err != nil {
		return err
	}
	epoch, err := r.ReadUint("Update.epoch")
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("Update"); err != nil {
		return err
	}
	u.ProposedProtocolParameterUpdates, u.Epoch = updates, epoch
	return nil
}

// TransactionBody is the sparse 22-key map of a transaction's on-chain
// effects. Inputs, outputs, and fee are required: the encoder always
// emits keys 0, 1, and 2, even when inputs are empty or nil — unlike the
// witness set, an empty input set stays on the wire. The decoder accepts
// any subset (including none) because the wire schema itself makes every
// key optional.
//
// TransactionBody caches its originally-decoded bytes: the transaction
// body hash (the transaction ID) is taken over the raw CBOR, so
// re-encoding an untouched decoded body must reproduce the producer's
// exact bytes, indefinite-length arrays and all. Every setter below
// clears the cache.
type TransactionBody struct {
	cbor.DecodeStoreCbor

	Inputs                *Set[TransactionInput]
	Outputs               []TransactionOutput
	Fee                   uint64
	Ttl                   *uint64
	Certificates          *Set[Certificate]
	Withdrawals           *Withdrawals
	Update                *Update
	AuxiliaryDataHash     *Blake2b256
	ValidityIntervalStart *uint64
	Mint                  *MultiAsset[int64]
	ScriptDataHash        *Blake2b256
	Collateral            *Set[TransactionInput]
	RequiredSigners       *Set[AddrKeyHash]
	NetworkId             *NetworkID
	CollateralReturn      *TransactionOutput
	TotalCollateral       *uint64
	ReferenceInputs       *Set[TransactionInput]
	VotingProcedures      *VotingProcedures
	ProposalProcedures    *Set[ProposalProcedure]
	TreasuryValue         *uint64
	Donation              *uint64
}

// NewTransactionBody returns an empty body with every field absent.
func NewTransactionBody() *TransactionBody { return &TransactionBody{} }

// SetInputs replaces the input set, clearing any cached original bytes.
func (b *TransactionBody) SetInputs(inputs *Set[TransactionInput]) {
	b.Inputs = inputs
	b.ClearCbor()
}

// SetOutputs replaces the output list, clearing the bytes cache.
func (b *TransactionBody) SetOutputs(outputs []TransactionOutput) {
	b.Outputs = outputs
	b.ClearCbor()
}

// SetFee replaces the fee, clearing the bytes cache.
func (b *TransactionBody) SetFee(fee uint64) {
	b.Fee = fee
	b.ClearCbor()
}

type txBodyEntry struct {
	key   uint64
	write func(*cbor.Writer) error
}

func (b *TransactionBody) entries() []txBodyEntry {
	var entries []txBodyEntry
	add := func(key uint64, present bool, write func(*cbor.Writer) error) {
		if present {
			entries = append(entries, txBodyEntry{key, write})
		}
	}
	add(0, true, func(w *cbor.Writer) error {
		enc, err := b.Inputs.MarshalElements(func(v TransactionInput) ([]byte, error) {
			return marshalTransactionInput(v)
		})
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(1, true, func(w *cbor.Writer) error {
		w.WriteStartArray(len(b.Outputs))
		for _, o := range b.Outputs {
			enc, err := o.MarshalCBOR()
			if err != nil {
				return err
			}
			w.WriteEncoded(enc)
		}
		return nil
	})
	add(2, true, func(w *cbor.Writer) error { w.WriteUint(b.Fee); return nil })
	add(3, b.Ttl != nil, func(w *cbor.Writer) error { w.WriteUint(*b.Ttl); return nil })
	add(4, b.Certificates.Len() > 0, func(w *cbor.Writer) error {
		enc, err := b.Certificates.MarshalElements(func(v Certificate) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(5, b.Withdrawals != nil && len(b.Withdrawals.Entries) > 0, func(w *cbor.Writer) error {
		return writeEncoded(w, b.Withdrawals)
	})
	add(6, b.Update != nil, func(w *cbor.Writer) error { return writeEncoded(w, *b.Update) })
	add(7, b.AuxiliaryDataHash != nil, func(w *cbor.Writer) error { return writeEncoded(w, *b.AuxiliaryDataHash) })
	add(8, b.ValidityIntervalStart != nil, func(w *cbor.Writer) error {
		w.WriteUint(*b.ValidityIntervalStart)
		return nil
	})
	add(9, b.Mint != nil && !b.Mint.IsEmpty(), func(w *cbor.Writer) error { return writeEncoded(w, *b.Mint) })
	add(11, b.ScriptDataHash != nil, func(w *cbor.Writer) error { return writeEncoded(w, *b.ScriptDataHash) })
	add(13, b.Collateral.Len() > 0, func(w *cbor.Writer) error {
		enc, err := b.Collateral.MarshalElements(marshalTransactionInput)
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(14, b.RequiredSigners.Len() > 0, func(w *cbor.Writer) error {
		enc, err := b.RequiredSigners.MarshalElements(func(v AddrKeyHash) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(15, b.NetworkId != nil, func(w *cbor.Writer) error { w.WriteUint(uint64(*b.NetworkId)); return nil })
	add(16, b.CollateralReturn != nil, func(w *cbor.Writer) error { return writeEncoded(w, *b.CollateralReturn) })
	add(17, b.TotalCollateral != nil, func(w *cbor.Writer) error { w.WriteUint(*b.TotalCollateral); return nil })
	add(18, b.ReferenceInputs.Len() > 0, func(w *cbor.Writer) error {
		enc, err := b.ReferenceInputs.MarshalElements(marshalTransactionInput)
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(19, b.VotingProcedures != nil, func(w *cbor.Writer) error { return writeEncoded(w, b.VotingProcedures) })
	add(20, b.ProposalProcedures.Len() > 0, func(w *cbor.Writer) error {
		enc, err := b.ProposalProcedures.MarshalElements(func(v ProposalProcedure) ([]byte, error) { return v.MarshalCBOR() })
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	})
	add(21, b.TreasuryValue != nil, func(w *cbor.Writer) error { w.WriteUint(*b.TreasuryValue); return nil })
	add(22, b.Donation != nil, func(w *cbor.Writer) error { w.WriteUint(*b.Donation); return nil })
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}

func marshalTransactionInput(v TransactionInput) ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	idEnc, err := v.TransactionID.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(idEnc)
	w.WriteUint(uint64(v.Index))
	return w.Bytes(), nil
}

// MarshalCBOR replays the decoded bytes verbatim when present; otherwise
// it emits the canonical definite-length map with fields in ascending key
// order.
func (b *TransactionBody) MarshalCBOR() ([]byte, error) {
	if b.HasCbor() {
		return b.Cbor(), nil
	}
	entries := b.entries()
	w := cbor.NewWriter()
	w.WriteStartMap(len(entries))
	for _, e := range entries {
		w.WriteUint(e.key)
		if err := e.write(w); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func readTransactionInput(r *cbor.Reader) (TransactionInput, error) {
	if err := r.ExpectArrayOfN("TransactionInput", 2); err != nil {
		return TransactionInput{}, err
	}
	idBytes, err := r.ExpectByteString("TransactionInput", "transaction_id", 32)
	if err != nil {
		return TransactionInput{}, err
	}
	idx, err := r.ExpectUintInRange("TransactionInput", "index", 0, 1<<32-1)
	if err != nil {
		return TransactionInput{}, err
	}
	if err := r.ExpectEndOfArray("TransactionInput"); err != nil {
		return TransactionInput{}, err
	}
	// #nosec G115 -- bounded above by ExpectUintInRange to uint32 range
	return TransactionInput{TransactionID: NewBlake2b256(idBytes), Index: uint32(idx)}, nil
}

// UnmarshalCBOR decodes a sparse transaction-body map and caches the raw
// bytes it was given so a subsequent MarshalCBOR without an intervening
// setter call reproduces them exactly.
func (b *TransactionBody) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	var out TransactionBody
	seen := make(map[uint64]bool, n)
	for i := uint64(0); i < n; i++ {
		key, err := r.ReadUint("TransactionBody.key")
		if err != nil {
			return err
		}
		if key > transactionBodyKeyMax || reservedTransactionBodyKeys[key] {
			return newKindError(cbor.ErrorKindInvalidCborMapKey, "invalid transaction body map key %d", key)
		}
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate transaction body map key %d", key)
		}
		seen[key] = true
		if err := out.decodeField(r, key); err != nil {
			return err
		}
	}
	if err := r.ExpectEndOfMap("TransactionBody"); err != nil {
		return err
	}
	out.SetCbor(data)
	*b = out
	return nil
}

//nolint:gocyclo // one case per body map key; splitting would obscure the table
func (b *TransactionBody) decodeField(r *cbor.Reader, key uint64) error {
	switch key {
	case 0:
		set, err := UnmarshalSet(r, "TransactionBody.inputs", readTransactionInput)
		if err != nil {
			return err
		}
		b.Inputs = set
	case 1:
		n, _, err := r.ReadStartArray()
		if err != nil {
			return err
		}
		outputs := make([]TransactionOutput, 0, n)
		for i := uint64(0); i < n; i++ {
			raw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var o TransactionOutput
			if err := o.UnmarshalCBOR(raw); err != nil {
				return err
			}
			outputs = append(outputs, o)
		}
		if err := r.ExpectEndOfArray("TransactionBody.outputs"); err != nil {
			return err
		}
		b.Outputs = outputs
	case 2:
		fee, err := r.ReadUint("TransactionBody.fee")
		if err != nil {
			return err
		}
		b.Fee = fee
	case 3:
		v, err := r.ReadUint("TransactionBody.ttl")
		if err != nil {
			return err
		}
		b.Ttl = &v
	case 4:
		set, err := UnmarshalSet(r, "TransactionBody.certificates", func(rd *cbor.Reader) (Certificate, error) {
			raw, err := rd.ReadEncodedValue()
			if err != nil {
				return Certificate{}, err
			}
			var c Certificate
			if err := c.UnmarshalCBOR(raw); err != nil {
				return Certificate{}, err
			}
			return c, nil
		})
		if err != nil {
			return err
		}
		b.Certificates = set
	case 5:
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		w := &Withdrawals{}
		if err := w.UnmarshalCBOR(raw); err != nil {
			return err
		}
		b.Withdrawals = w
	case 6:
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var u Update
		if err := u.UnmarshalCBOR(raw); err != nil {
			return err
		}
		b.Update = &u
	case 7:
		h, err := readFixedHash256(r, "TransactionBody.auxiliary_data_hash")
		if err != nil {
			return err
		}
		b.AuxiliaryDataHash = &h
	case 8:
		v, err := r.ReadUint("TransactionBody.validity_interval_start")
		if err != nil {
			return err
		}
		b.ValidityIntervalStart = &v
	case 9:
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var m MultiAsset[int64]
		if err := m.UnmarshalCBOR(raw); err != nil {
			return err
		}
		b.Mint = &m
	case 11:
		h, err := readFixedHash256(r, "TransactionBody.script_data_hash")
		if err != nil {
			return err
		}
		b.ScriptDataHash = &h
	case 13:
		set, err := UnmarshalSet(r, "TransactionBody.collateral", readTransactionInput)
		if err != nil {
			return err
		}
		b.Collateral = set
	case 14:
		set, err := UnmarshalSet(r, "TransactionBody.required_signers", func(rd *cbor.Reader) (AddrKeyHash, error) {
			var h Blake2b224
			raw, err := rd.ReadEncodedValue()
			if err != nil {
				return h, err
			}
			if err := h.UnmarshalCBOR(raw); err != nil {
				return h, err
			}
			return h, nil
		})
		if err != nil {
			return err
		}
		b.RequiredSigners = set
	case 15:
		v, err := r.ReadUint("TransactionBody.network_id")
		if err != nil {
			return err
		}
		nid := NetworkID(v)
		b.NetworkId = &nid
	case 16:
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var o TransactionOutput
		if err := o.UnmarshalCBOR(raw); err != nil {
			return err
		}
		b.CollateralReturn = &o
	case 17:
		v, err := r.ReadUint("TransactionBody.total_collateral")
		if err != nil {
			return err
		}
		b.TotalCollateral = &v
	case 18:
		set, err := UnmarshalSet(r, "TransactionBody.reference_inputs", readTransactionInput)
		if err != nil {
			return err
		}
		b.ReferenceInputs = set
	case 19:
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		vp := NewVotingProcedures()
		if err := vp.UnmarshalCBOR(raw); err != nil {
			return err
		}
		b.VotingProcedures = vp
	case 20:
		set, err := UnmarshalSet(r, "TransactionBody.proposal_procedures", func(rd *cbor.Reader) (ProposalProcedure, error) {
			raw, err := rd.ReadEncodedValue()
			if err != nil {
				return ProposalProcedure{}, err
			}
			var p ProposalProcedure
			if err := p.UnmarshalCBOR(raw); err != nil {
				return ProposalProcedure{}, err
			}
			return p, nil
		})
		if err != nil {
			return err
		}
		b.ProposalProcedures = set
	case 21:
		v, err := r.ReadUint("TransactionBody.treasury_value")
		if err != nil {
			return err
		}
		b.TreasuryValue = &v
	case 22:
		v, err := r.ReadUint("TransactionBody.donation")
		if err != nil {
			return err
		}
		b.Donation = &v
	}
	return nil
}

func readFixedHash256(r *cbor.Reader, validator string) (Blake2b256, error) {
	var h Blake2b256
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return h, err
	}
	if err := h.UnmarshalCBOR(raw); err != nil {
		return h, err
	}
	return h, nil
}
