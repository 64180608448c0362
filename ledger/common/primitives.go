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
	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// UnitInterval is a rational number semantically constrained to [0,1],
// wire-encoded exactly like any other rational via cbor.Rat (tag 30
// wrapping a 2-element [numerator, denominator] array).
type UnitInterval struct {
	cbor.Rat
}

// NewUnitInterval builds a unit interval from numerator/denominator. The
// denominator must be positive; callers constructing out-of-range values
// get a value that round-trips but is not semantically valid. Enforcing
// the [0,1] constraint is a ledger-rule concern, not a codec concern.
func NewUnitInterval(num, denom int64) UnitInterval {
	return UnitInterval{cbor.NewRat(num, denom)}
}

func (u UnitInterval) MarshalCBOR() ([]byte, error) { return u.Rat.MarshalCBOR() }
func (u *UnitInterval) UnmarshalCBOR(data []byte) error {
	return u.Rat.UnmarshalCBOR(data)
}

// ProtocolVersion is a (major, minor) pair.
type ProtocolVersion struct {
	Major uint64
	Minor uint64
}

func (p ProtocolVersion) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(p.Major)
	w.WriteUint(p.Minor)
	return w.Bytes(), nil
}

func (p *ProtocolVersion) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("ProtocolVersion", 2); err != nil {
		return err
	}
	major, err := r.ReadUint("ProtocolVersion.major")
	if err != nil {
		return err
	}
	minor, err := r.ReadUint("ProtocolVersion.minor")
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("ProtocolVersion"); err != nil {
		return err
	}
	p.Major, p.Minor = major, minor
	return nil
}

// Anchor pins off-chain metadata to an on-chain reference: a URL plus the
// Blake2b-256 hash of the content it points to.
type Anchor struct {
	URL      string
	DataHash Blake2b256
}

// anchorURLMaxLen bounds the anchor URL per the ledger's anchor CDDL
// (url .size (0..128)).
const anchorURLMaxLen = 128

func (a Anchor) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteText(a.URL)
	hashEnc, err := a.DataHash.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(hashEnc)
	return w.Bytes(), nil
}

func (a *Anchor) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Anchor", 2); err != nil {
		return err
	}
	url, err := r.ExpectTextString("Anchor", "url", anchorURLMaxLen)
	if err != nil {
		return err
	}
	hashBytes, err := r.ExpectByteString("Anchor", "data_hash", 32)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("Anchor"); err != nil {
		return err
	}
	a.URL = url
	a.DataHash = NewBlake2b256(hashBytes)
	return nil
}

// NetworkID distinguishes mainnet from testnet (transaction-body key 15).
type NetworkID uint64

const (
	NetworkTestnet NetworkID = 0
	NetworkMainnet NetworkID = 1
)

func networkIDName(v uint64) string {
	switch NetworkID(v) {
	case NetworkTestnet:
		return "testnet"
	case NetworkMainnet:
		return "mainnet"
	default:
		return "unknown network id"
	}
}

func (n NetworkID) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteUint(uint64(n))
	return w.Bytes(), nil
}

func (n *NetworkID) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	v, err := r.ExpectUintInRange("NetworkID", "", 0, 1)
	if err != nil {
		return err
	}
	*n = NetworkID(v)
	return nil
}

// ExUnits is a Plutus script execution budget.
type ExUnits struct {
	Memory uint64
	Steps  uint64
}

func (e ExUnits) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(e.Memory)
	w.WriteUint(e.Steps)
	return w.Bytes(), nil
}

func (e *ExUnits) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("ExUnits", 2); err != nil {
		return err
	}
	mem, err := r.ReadUint("ExUnits.memory")
	if err != nil {
		return err
	}
	steps, err := r.ReadUint("ExUnits.steps")
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("ExUnits"); err != nil {
		return err
	}
	e.Memory, e.Steps = mem, steps
	return nil
}

// ExUnitPrice prices memory and step units in lovelace fractions, used by
// the protocol-parameter-update's execution-cost field.
type ExUnitPrice struct {
	MemPrice  UnitInterval
	StepPrice UnitInterval
}

func (p ExUnitPrice) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	memEnc, err := p.MemPrice.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(memEnc)
	stepEnc, err := p.StepPrice.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(stepEnc)
	return w.Bytes(), nil
}

func (p *ExUnitPrice) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("ExUnitPrice", 2); err != nil {
		return err
	}
	memRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	if err := p.MemPrice.UnmarshalCBOR(memRaw); err != nil {
		return err
	}
	stepRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	if err := p.StepPrice.UnmarshalCBOR(stepRaw); err != nil {
		return err
	}
	return r.ExpectEndOfArray("ExUnitPrice")
}

// GovActionID identifies a governance action by the hash of the
// transaction that proposed it plus its index within that transaction's
// proposal-procedures list.
type GovActionID struct {
	TransactionID Blake2b256
	Index         uint32
}

func (g GovActionID) Compare(other GovActionID) int {
	if c := CompareBytes(g.TransactionID[:], other.TransactionID[:]); c != 0 {
		return c
	}
	switch {
	case g.Index < other.Index:
		return -1
	case g.Index > other.Index:
		return 1
	default:
		return 0
	}
}

func (g GovActionID) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	txEnc, err := g.TransactionID.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(txEnc)
	w.WriteUint(uint64(g.Index))
	return w.Bytes(), nil
}

func (g *GovActionID) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("GovActionID", 2); err != nil {
		return err
	}
	txBytes, err := r.ExpectByteString("GovActionID", "transaction_id", 32)
	if err != nil {
		return err
	}
	idx, err := r.ExpectUintInRange("GovActionID", "index", 0, 1<<32-1)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("GovActionID"); err != nil {
		return err
	}
	g.TransactionID = NewBlake2b256(txBytes)
	// #nosec G115 -- bounded above by ExpectUintInRange to uint32 range
	g.Index = uint32(idx)
	return nil
}
