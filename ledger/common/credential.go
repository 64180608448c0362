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

// CredentialType discriminates the two Credential variants.
type CredentialType uint64

const (
	CredentialTypeKey CredentialType = iota
	CredentialTypeScript
)

// Credential is a 28-byte hash tagged as either a public-key hash or a
// script hash: the wire shape `[type, hash]` used by stake addresses,
// certificates, voters, and DReps.
type Credential struct {
	Type CredentialType
	Hash Blake2b224
}

// NewKeyCredential builds a key-hash credential.
func NewKeyCredential(hash Blake2b224) Credential {
	return Credential{Type: CredentialTypeKey, Hash: hash}
}

// NewScriptCredential builds a script-hash credential.
func NewScriptCredential(hash Blake2b224) Credential {
	return Credential{Type: CredentialTypeScript, Hash: hash}
}

// Equal reports structural equality, ignoring no cached state (Credential
// carries none).
func (c Credential) Equal(other Credential) bool {
	return c.Type == other.Type && c.Hash == other.Hash
}

// Compare implements the (variant-tag ascending, then hash byte-lex)
// ordering the ledger requires for committee-member maps.
func (c Credential) Compare(other Credential) int {
	if c.Type != other.Type {
		if c.Type < other.Type {
			return -1
		}
		return 1
	}
	return CompareBytes(c.Hash[:], other.Hash[:])
}

func (c Credential) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(uint64(c.Type))
	w.WriteBytes(c.Hash[:])
	return w.Bytes(), nil
}

func (c *Credential) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Credential", 2); err != nil {
		return err
	}
	typ, err := r.ExpectUintInRange("Credential", "type", 0, 1)
	if err != nil {
		return err
	}
	hash, err := r.ExpectByteString("Credential", "hash", 28)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("Credential"); err != nil {
		return err
	}
	c.Type = CredentialType(typ)
	c.Hash = NewBlake2b224(hash)
	return nil
}
