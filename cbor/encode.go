// Copyright 2025 Blink Labs Software
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

package cbor

import (
	fxcbor "github.com/fxamacker/cbor/v2"
)

// Encode produces the canonical CBOR encoding of v. Composite ledger types
// implement Marshaler directly; anything else (plain Go scalars used in
// tests and simple fixtures) falls back to github.com/fxamacker/cbor/v2.
func Encode(v any) ([]byte, error) {
	if m, ok := v.(Marshaler); ok {
		return m.MarshalCBOR()
	}
	b, err := fxcbor.Marshal(v)
	if err != nil {
		return nil, newError(ErrorKindEncoding, "%v", err)
	}
	return b, nil
}

// Decode decodes exactly one CBOR item from the front of data into v,
// returning the number of bytes consumed. Composite ledger types implement
// Unmarshaler directly; anything else falls back to
// github.com/fxamacker/cbor/v2.
func Decode(data []byte, v any) (int, error) {
	n, err := itemLength(data)
	if err != nil {
		return 0, err
	}
	if u, ok := v.(Unmarshaler); ok {
		if err := u.UnmarshalCBOR(data[:n]); err != nil {
			return 0, err
		}
		return n, nil
	}
	if err := fxcbor.Unmarshal(data[:n], v); err != nil {
		return 0, newError(ErrorKindDecoding, "%v", err)
	}
	return n, nil
}
