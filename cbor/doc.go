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

// Package cbor provides a schema-validating facade over CBOR (RFC 8949),
// the wire format of the Cardano ledger. It wraps github.com/fxamacker/cbor/v2
// for scalar value decoding/encoding and adds the structural pieces that a
// self-describing generic CBOR library does not give you for free:
//
//   - typed "expect" assertions (Validator) that produce ledger-style error
//     messages anchored to a validator/field name,
//   - a Writer matching the Cardano ledger's canonical encoding rules
//     (definite-length containers; indefinite length only for chunked byte
//     strings),
//   - preservation of decode-time wire choices (indefinite-length arrays,
//     CBOR tag 258 for sets, tag 2/3 bignums) so a decode-then-encode round
//     trip is byte-exact where the ledger requires it (transaction body
//     hashing, Plutus data hashing).
package cbor
