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
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressKind is the high nibble of an address's header byte: it
// identifies which of the payment/staking-credential shapes (or the
// reward-address / Byron-legacy shapes) the address uses, per CIP-0019.
// The codec only needs this header-level discrimination; full payload
// semantics (pointer addresses, Byron attributes) are a consumer concern.
type AddressKind byte

const (
	AddressKindPaymentKeyStakeKey        AddressKind = 0x0
	AddressKindPaymentScriptStakeKey     AddressKind = 0x1
	AddressKindPaymentKeyStakeScript     AddressKind = 0x2
	AddressKindPaymentScriptStakeScript  AddressKind = 0x3
	AddressKindPaymentKeyStakePointer    AddressKind = 0x4
	AddressKindPaymentScriptStakePointer AddressKind = 0x5
	AddressKindPaymentKeyOnly            AddressKind = 0x6
	AddressKindPaymentScriptOnly         AddressKind = 0x7
	AddressKindByron                     AddressKind = 0x8
	AddressKindStakeKey                  AddressKind = 0xe
	AddressKindStakeScript               AddressKind = 0xf
)

// Address is a raw Cardano address: the header byte plus payload bytes,
// exactly as it appears on the wire inside a transaction output.
type Address struct {
	cbor.DecodeStoreCbor
	raw []byte
}

// NewAddressFromBytes wraps raw address bytes (header byte + payload).
func NewAddressFromBytes(raw []byte) Address {
	return Address{raw: append([]byte(nil), raw...)}
}

// Bytes returns the raw header+payload bytes.
func (a Address) Bytes() []byte { return a.raw }

// Header returns the address's header byte, or 0 if the address is empty.
func (a Address) Header() byte {
	if len(a.raw) == 0 {
		return 0
	}
	return a.raw[0]
}

// Kind returns the address-shape discriminator from the header's high
// nibble.
func (a Address) Kind() AddressKind {
	return AddressKind(a.Header() >> 4)
}

// NetworkID returns the network discriminator from the header's low
// nibble. Byron addresses (AddressKindByron) encode network identity
// inside their payload instead and this value is meaningless for them.
func (a Address) NetworkID() NetworkID {
	return NetworkID(a.Header() & 0x0f)
}

// IsStakeAddress reports whether this is a reward/stake address (header
// kind 0xe or 0xf) as opposed to a payment address.
func (a Address) IsStakeAddress() bool {
	k := a.Kind()
	return k == AddressKindStakeKey || k == AddressKindStakeScript
}

// Bech32 renders the address using the given human-readable prefix (e.g.
// "addr", "addr_test", "stake", "stake_test"), per the standard Cardano
// address encoding (CIP-0019).
func (a Address) Bech32(hrp string) (string, error) {
	converted, err := bech32.ConvertBits(a.raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("converting address bits: %w", err)
	}
	s, err := bech32.Encode(hrp, converted)
	if err != nil {
		return "", fmt.Errorf("bech32-encoding address: %w", err)
	}
	return s, nil
}

// NewAddressFromBech32 decodes a bech32-encoded address string back into
// raw bytes.
func NewAddressFromBech32(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("decoding bech32 address %q: %w", s, err)
	}
	_ = hrp
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("converting address bits: %w", err)
	}
	return NewAddressFromBytes(raw), nil
}

func (a Address) MarshalCBOR() ([]byte, error) {
	if a.HasCbor() {
		return a.Cbor(), nil
	}
	w := cbor.NewWriter()
	w.WriteBytes(a.raw)
	return w.Bytes(), nil
}

func (a *Address) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	raw, err := r.ReadBytes("Address")
	if err != nil {
		return err
	}
	a.raw = raw
	a.SetCbor(data)
	return nil
}

// RewardAddress is an Address constrained to the stake-address shapes
// (header kind 0xe/0xf), used as the key type of the withdrawals map.
type RewardAddress struct {
	Address
}

// NewRewardAddress builds a reward address from a network id and staking
// credential.
func NewRewardAddress(network NetworkID, cred Credential) RewardAddress {
	kind := AddressKindStakeKey
	if cred.Type == CredentialTypeScript {
		kind = AddressKindStakeScript
	}
	header := byte(kind)<<4 | byte(network)&0x0f
	raw := make([]byte, 0, 29)
	raw = append(raw, header)
	raw = append(raw, cred.Hash[:]...)
	return RewardAddress{NewAddressFromBytes(raw)}
}

// Credential extracts the staking credential from a reward address's
// payload.
func (r RewardAddress) Credential() Credential {
	typ := CredentialTypeKey
	if r.Kind() == AddressKindStakeScript {
		typ = CredentialTypeScript
	}
	var hash Blake2b224
	if len(r.raw) >= 29 {
		hash = NewBlake2b224(r.raw[1:29])
	}
	return Credential{Type: typ, Hash: hash}
}
