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
	"fmt"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// TransactionInput references a prior output by (transaction id, output
// index).
type TransactionInput struct {
	TransactionID Blake2b256
	Index         uint32
}

func NewTransactionInput(txID Blake2b256, index uint32) TransactionInput {
	return TransactionInput{TransactionID: txID, Index: index}
}

func (i TransactionInput) String() string {
	return fmt.Sprintf("%s#%d", i.TransactionID.String(), i.Index)
}

func (i TransactionInput) Equal(other TransactionInput) bool {
	return i.TransactionID == other.TransactionID && i.Index == other.Index
}

// Compare implements the transaction-input set ordering: lexicographic on
// transaction-id bytes, ties broken by index.
func (i TransactionInput) Compare(other TransactionInput) int {
	if c := CompareBytes(i.TransactionID[:], other.TransactionID[:]); c != 0 {
		return c
	}
	switch {
	case i.Index < other.Index:
		return -1
	case i.Index > other.Index:
		return 1
	default:
		return 0
	}
}

func (i TransactionInput) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	idEnc, err := i.TransactionID.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(idEnc)
	w.WriteUint(uint64(i.Index))
	return w.Bytes(), nil
}

func (i *TransactionInput) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("TransactionInput", 2); err != nil {
		return err
	}
	txBytes, err := r.ExpectByteString("TransactionInput", "transaction_id", 32)
	if err != nil {
		return err
	}
	idx, err := r.ExpectUintInRange("TransactionInput", "index", 0, 1<<32-1)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("TransactionInput"); err != nil {
		return err
	}
	i.TransactionID = NewBlake2b256(txBytes)
	// #nosec G115 -- bounded above by ExpectUintInRange to uint32 range
	i.Index = uint32(idx)
	return nil
}

// NewTransactionInputSet builds a tag-258 set ordered by the canonical
// transaction-input comparator.
func NewTransactionInputSet(items ...TransactionInput) *Set[TransactionInput] {
	s := NewSet(items...)
	s.Less = func(a, b TransactionInput) bool { return a.Compare(b) < 0 }
	return s
}

func decodeTransactionInput(r *cbor.Reader) (TransactionInput, error) {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return TransactionInput{}, err
	}
	var in TransactionInput
	if err := in.UnmarshalCBOR(raw); err != nil {
		return TransactionInput{}, err
	}
	return in, nil
}

// UnmarshalTransactionInputSet decodes a transaction-input set, recording
// its tag-258 framing and assigning the canonical comparator for re-sort
// on encode.
func UnmarshalTransactionInputSet(r *cbor.Reader, validator string) (*Set[TransactionInput], error) {
	s, err := UnmarshalSet(r, validator, decodeTransactionInput)
	if err != nil {
		return nil, err
	}
	s.Less = func(a, b TransactionInput) bool { return a.Compare(b) < 0 }
	return s, nil
}
