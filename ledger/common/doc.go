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

// Package common is the CBOR <-> typed-object codec core for a
// Cardano-style proof-of-stake ledger's on-chain data model: transactions,
// their bodies, witness sets, certificates, governance proposals, voting
// procedures, protocol parameter updates, native and Plutus scripts,
// auxiliary metadata, and the value types underlying all of the above.
//
// Every composite type implements cbor.Marshaler and cbor.Unmarshaler over
// the schema-validation facade in the sibling cbor package. Decoding is
// tolerant of the wire-level choices real producers make (indefinite
// lengths, CBOR tag 258 on sets, bignum-vs-direct-integer encoding of the
// same value) and preserves them through a decode-then-encode cycle so
// that hash-sensitive containers (principally the transaction body)
// round-trip bit for bit.
package common
