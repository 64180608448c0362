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

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
	"golang.org/x/crypto/blake2b"
)

// Blake2b224 is a 28-byte digest: pool, key, and script hashes, and
// credential payloads.
type Blake2b224 [28]byte

// NewBlake2b224 truncates/pads b to 28 bytes. Callers passing a
// correctly-sized hash get an exact copy.
func NewBlake2b224(b []byte) Blake2b224 {
	var h Blake2b224
	copy(h[:], b)
	return h
}

// Blake2b224Hash computes the Blake2b-224 digest of data.
func Blake2b224Hash(data []byte) Blake2b224 {
	h, err := blake2b.New(28, nil)
	if err != nil {
		panic(err)
	}
	h.Write(data)
	return NewBlake2b224(h.Sum(nil))
}

func (h Blake2b224) Bytes() []byte { return h[:] }
func (h Blake2b224) String() string { return hex.EncodeToString(h[:]) }
func (h Blake2b224) IsZero() bool { return h == Blake2b224{} }

func (h Blake2b224) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteBytes(h[:])
	return w.Bytes(), nil
}

func (h *Blake2b224) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	b, err := r.ExpectByteString("Blake2b224", "", 28)
	if err != nil {
		return err
	}
	*h = NewBlake2b224(b)
	return nil
}

// Blake2b256 is a 32-byte digest: transaction IDs, auxiliary-data hashes,
// script-data hashes, and block/header hashes.
type Blake2b256 [32]byte

// NewBlake2b256 truncates/pads b to 32 bytes.
func NewBlake2b256(b []byte) Blake2b256 {
	var h Blake2b256
	copy(h[:], b)
	return h
}

// Blake2b256Hash computes the Blake2b-256 digest of data.
func Blake2b256Hash(data []byte) Blake2b256 {
	h := blake2b.Sum256(data)
	return Blake2b256(h)
}

func (h Blake2b256) Bytes() []byte { return h[:] }
func (h Blake2b256) String() string { return hex.EncodeToString(h[:]) }
func (h Blake2b256) IsZero() bool { return h == Blake2b256{} }

func (h Blake2b256) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteBytes(h[:])
	return w.Bytes(), nil
}

func (h *Blake2b256) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	b, err := r.ExpectByteString("Blake2b256", "", 32)
	if err != nil {
		return err
	}
	*h = NewBlake2b256(b)
	return nil
}

// CompareBytes implements the first-mismatching-byte ordering used by
// every sorted collection in this package, breaking ties by length then,
// where applicable, by a caller-supplied secondary key.
func CompareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
