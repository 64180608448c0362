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

// Pool- and VRF-keyed hash aliases, kept distinct from Blake2b224 only for
// documentation value at call sites.
type (
	PoolKeyHash      = Blake2b224
	VrfKeyHash       = Blake2b256
	AddrKeyHash      = Blake2b224
	PoolMetadataHash = Blake2b256
)

// CertificateType discriminates the 19 certificate variants of the CDDL
// `certificate` union, including the legacy Shelley-era genesis-key
// delegation and MIR variants that later eras retired but old
// transactions still carry.
type CertificateType uint64

const (
	CertStakeRegistration CertificateType = iota
	CertStakeDeregistration
	CertStakeDelegation
	CertPoolRegistration
	CertPoolRetirement
	CertGenesisKeyDelegation
	CertMoveInstantaneousRewards
	CertRegistration
	CertUnregistration
	CertVoteDelegation
	CertStakeVoteDelegation
	CertStakeRegistrationDelegation
	CertVoteRegistrationDelegation
	CertStakeVoteRegistrationDelegation
	CertAuthCommitteeHot
	CertResignCommitteeCold
	CertRegisterDrep
	CertUnregisterDrep
	CertUpdateDrep
)

const certificateTypeMax = uint64(CertUpdateDrep)

// PoolRelay is a tagged union of the three ways a stake pool advertises a
// network endpoint (CDDL `relay`).
type PoolRelay struct {
	Type    PoolRelayType
	Port    *uint32
	IPv4    []byte // 4 bytes, present only for SingleHostAddr
	IPv6    []byte // 16 bytes, present only for SingleHostAddr
	DNSName string // SingleHostName, MultiHostName
}

type PoolRelayType uint64

const (
	PoolRelaySingleHostAddr PoolRelayType = iota
	PoolRelaySingleHostName
	PoolRelayMultiHostName
)

func (r PoolRelay) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch r.Type {
	case PoolRelaySingleHostAddr:
		w.WriteStartArray(4)
		w.WriteUint(uint64(r.Type))
		writeOptionalUint32(w, r.Port)
		writeOptionalBytes(w, r.IPv4)
		writeOptionalBytes(w, r.IPv6)
	case PoolRelaySingleHostName:
		w.WriteStartArray(3)
		w.WriteUint(uint64(r.Type))
		writeOptionalUint32(w, r.Port)
		w.WriteText(r.DNSName)
	case PoolRelayMultiHostName:
		w.WriteStartArray(2)
		w.WriteUint(uint64(r.Type))
		w.WriteText(r.DNSName)
	default:
		return nil, newCommonError("unknown pool relay type %d", r.Type)
	}
	return w.Bytes(), nil
}

func writeOptionalUint32(w *cbor.Writer, v *uint32) {
	if v == nil {
		w.WriteNull()
		return
	}
	w.WriteUint(uint64(*v))
}

func writeOptionalBytes(w *cbor.Writer, b []byte) {
	if b == nil {
		w.WriteNull()
		return
	}
	w.WriteBytes(b)
}

func readOptionalUint32(r *cbor.Reader, validator string) (*uint32, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		if err := r.ReadNull(validator); err != nil {
			return nil, err
		}
		return nil, nil
	}
	v, err := r.ExpectUintInRange(validator, "port", 0, 1<<32-1)
	if err != nil {
		return nil, err
	}
	// #nosec G115 -- bounded above by ExpectUintInRange to uint32 range
	out := uint32(v)
	return &out, nil
}

func readOptionalBytes(r *cbor.Reader, validator string, size int) ([]byte, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		if err := r.ReadNull(validator); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return r.ExpectByteString(validator, "", size)
}

func (r *PoolRelay) UnmarshalCBOR(data []byte) error {
	rd := cbor.NewReader(data)
	n, _, err := rd.ReadStartArray()
	if err != nil {
		return err
	}
	typ, err := rd.ExpectUintInRange("PoolRelay", "type", 0, 2)
	if err != nil {
		return err
	}
	switch PoolRelayType(typ) {
	case PoolRelaySingleHostAddr:
		if n != 4 {
			return newCommonError("single_host_addr expects 4 elements, got %d", n)
		}
		port, err := readOptionalUint32(rd, "PoolRelay.port")
		if err != nil {
			return err
		}
		ipv4, err := readOptionalBytes(rd, "PoolRelay.ipv4", 4)
		if err != nil {
			return err
		}
		ipv6, err := readOptionalBytes(rd, "PoolRelay.ipv6", 16)
		if err != nil {
			return err
		}
		r.Type, r.Port, r.IPv4, r.IPv6 = PoolRelaySingleHostAddr, port, ipv4, ipv6
	case PoolRelaySingleHostName:
		if n != 3 {
			return newCommonError("single_host_name expects 3 elements, got %d", n)
		}
		port, err := readOptionalUint32(rd, "PoolRelay.port")
		if err != nil {
			return err
		}
		dns, err := rd.ExpectTextString("PoolRelay", "dns_name", 128)
		if err != nil {
			return err
		}
		r.Type, r.Port, r.DNSName = PoolRelaySingleHostName, port, dns
	case PoolRelayMultiHostName:
		if n != 2 {
			return newCommonError("multi_host_name expects 2 elements, got %d", n)
		}
		dns, err := rd.ExpectTextString("PoolRelay", "dns_name", 128)
		if err != nil {
			return err
		}
		r.Type, r.DNSName = PoolRelayMultiHostName, dns
	}
	return rd.ExpectEndOfArray("PoolRelay")
}

// PoolMetadata pins a pool's off-chain JSON metadata (CDDL `pool_metadata`).
type PoolMetadata struct {
	Url  string
	Hash PoolMetadataHash
}

func (m PoolMetadata) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteText(m.Url)
	hashEnc, err := m.Hash.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(hashEnc)
	return w.Bytes(), nil
}

func (m *PoolMetadata) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("PoolMetadata", 2); err != nil {
		return err
	}
	url, err := r.ExpectTextString("PoolMetadata", "url", 128)
	if err != nil {
		return err
	}
	hashBytes, err := r.ExpectByteString("PoolMetadata", "hash", 32)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("PoolMetadata"); err != nil {
		return err
	}
	m.Url = url
	m.Hash = NewBlake2b256(hashBytes)
	return nil
}

// PoolParams is the stake pool's full registration payload (CDDL
// `pool_params`).
type PoolParams struct {
	Operator      PoolKeyHash
	VrfKeyHash    VrfKeyHash
	Pledge        uint64
	Cost          uint64
	Margin        UnitInterval
	RewardAccount RewardAddress
	PoolOwners    *Set[AddrKeyHash]
	Relays        []PoolRelay
	PoolMetadata  *PoolMetadata
}

// DRepType discriminates the four ways a governance vote may be delegated
// (CDDL `drep`).
type DRepType uint64

const (
	DRepTypeKeyHash DRepType = iota
	DRepTypeScriptHash
	DRepTypeAbstain
	DRepTypeNoConfidence
)

// DRep is either a credential-backed delegate or one of the two fixed
// pseudo-delegates (always-abstain, always-no-confidence).
type DRep struct {
	Type DRepType
	Hash Blake2b224 // DRepTypeKeyHash, DRepTypeScriptHash
}

func NewDRepKeyHash(hash Blake2b224) DRep    { return DRep{Type: DRepTypeKeyHash, Hash: hash} }
func NewDRepScriptHash(hash Blake2b224) DRep { return DRep{Type: DRepTypeScriptHash, Hash: hash} }
func NewDRepAbstain() DRep                   { return DRep{Type: DRepTypeAbstain} }
func NewDRepNoConfidence() DRep              { return DRep{Type: DRepTypeNoConfidence} }

func (d DRep) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch d.Type {
	case DRepTypeKeyHash, DRepTypeScriptHash:
		w.WriteStartArray(2)
		w.WriteUint(uint64(d.Type))
		w.WriteBytes(d.Hash[:])
	case DRepTypeAbstain, DRepTypeNoConfidence:
		w.WriteStartArray(1)
		w.WriteUint(uint64(d.Type))
	default:
		return nil, newCommonError("unknown drep type %d", d.Type)
	}
	return w.Bytes(), nil
}

func (d *DRep) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartArray()
	if err != nil {
		return err
	}
	typ, err := r.ExpectUintInRange("DRep", "type", 0, 3)
	if err != nil {
		return err
	}
	switch DRepType(typ) {
	case DRepTypeKeyHash, DRepTypeScriptHash:
		if n != 2 {
			return newCommonError("drep credential variant expects 2 elements, got %d", n)
		}
		hash, err := r.ExpectByteString("DRep", "hash", 28)
		if err != nil {
			return err
		}
		d.Type = DRepType(typ)
		d.Hash = NewBlake2b224(hash)
	case DRepTypeAbstain, DRepTypeNoConfidence:
		if n != 1 {
			return newCommonError("drep abstain/no-confidence variant expects 1 element, got %d", n)
		}
		d.Type = DRepType(typ)
	}
	return r.ExpectEndOfArray("DRep")
}

// Certificate is the 19-variant union authorizing stake, pool, and
// governance state transitions.
type Certificate struct {
	Type CertificateType

	StakeCredential     Credential // many variants
	PoolKeyHash         PoolKeyHash
	PoolParams          PoolParams
	RetirementEpoch     uint64
	GenesisHash         Blake2b224
	GenesisDelegateHash Blake2b224
	VrfKeyHash          VrfKeyHash
	MIRTarget           *MoveInstantaneousReward
	Deposit             uint64
	DRep                DRep
	CommitteeColdCred   Credential
	CommitteeHotCred    Credential
	Anchor              *Anchor
}

// MIRPot names which pot a legacy move-instantaneous-reward draws from.
type MIRPot uint64

const (
	MIRPotReserves MIRPot = iota
	MIRPotTreasury
)

// MoveInstantaneousReward is the legacy MIR certificate's payload: either a
// per-stake-credential disbursement or a lump transfer between pots.
type MoveInstantaneousReward struct {
	Pot        MIRPot
	ToStake    map[Credential]int64
	ToOtherPot uint64
	IsTransfer bool
}

func (c Certificate) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch c.Type {
	case CertStakeRegistration, CertStakeDeregistration:
		w.WriteStartArray(2)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
	case CertStakeDelegation:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteBytes(c.PoolKeyHash[:])
	case CertPoolRegistration:
		return c.marshalPoolRegistration(w)
	case CertPoolRetirement:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		w.WriteBytes(c.PoolKeyHash[:])
		w.WriteUint(c.RetirementEpoch)
	case CertGenesisKeyDelegation:
		w.WriteStartArray(4)
		w.WriteUint(uint64(c.Type))
		w.WriteBytes(c.GenesisHash[:])
		w.WriteBytes(c.GenesisDelegateHash[:])
		w.WriteBytes(c.VrfKeyHash[:])
	case CertMoveInstantaneousRewards:
		return c.marshalMIR(w)
	case CertRegistration, CertUnregistration:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteUint(c.Deposit)
	case CertVoteDelegation:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, c.DRep); err != nil {
			return nil, err
		}
	case CertStakeVoteDelegation:
		w.WriteStartArray(4)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteBytes(c.PoolKeyHash[:])
		if err := writeEncoded(w, c.DRep); err != nil {
			return nil, err
		}
	case CertStakeRegistrationDelegation:
		w.WriteStartArray(4)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteBytes(c.PoolKeyHash[:])
		w.WriteUint(c.Deposit)
	case CertVoteRegistrationDelegation:
		w.WriteStartArray(4)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, c.DRep); err != nil {
			return nil, err
		}
		w.WriteUint(c.Deposit)
	case CertStakeVoteRegistrationDelegation:
		w.WriteStartArray(5)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteBytes(c.PoolKeyHash[:])
		if err := writeEncoded(w, c.DRep); err != nil {
			return nil, err
		}
		w.WriteUint(c.Deposit)
	case CertAuthCommitteeHot:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.CommitteeColdCred); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, c.CommitteeHotCred); err != nil {
			return nil, err
		}
	case CertResignCommitteeCold:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.CommitteeColdCred); err != nil {
			return nil, err
		}
		if err := writeOptionalAnchor(w, c.Anchor); err != nil {
			return nil, err
		}
	case CertRegisterDrep:
		w.WriteStartArray(4)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteUint(c.Deposit)
		if err := writeOptionalAnchor(w, c.Anchor); err != nil {
			return nil, err
		}
	case CertUnregisterDrep:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		w.WriteUint(c.Deposit)
	case CertUpdateDrep:
		w.WriteStartArray(3)
		w.WriteUint(uint64(c.Type))
		if err := writeEncoded(w, c.StakeCredential); err != nil {
			return nil, err
		}
		if err := writeOptionalAnchor(w, c.Anchor); err != nil {
			return nil, err
		}
	default:
		return nil, newKindError(cbor.ErrorKindInvalidCertificateType, "unknown certificate type %d", c.Type)
	}
	return w.Bytes(), nil
}

func writeEncoded(w *cbor.Writer, m interface{ MarshalCBOR() ([]byte, error) }) error {
	enc, err := m.MarshalCBOR()
	if err != nil {
		return err
	}
	w.WriteEncoded(enc)
	return nil
}

func writeOptionalAnchor(w *cbor.Writer, a *Anchor) error {
	if a == nil {
		w.WriteNull()
		return nil
	}
	enc, err := a.MarshalCBOR()
	if err != nil {
		return err
	}
	w.WriteEncoded(enc)
	return nil
}

func (c Certificate) marshalPoolRegistration(w *cbor.Writer) ([]byte, error) {
	w.WriteStartArray(10)
	w.WriteUint(uint64(c.Type))
	p := c.PoolParams
	w.WriteBytes(p.Operator[:])
	w.WriteBytes(p.VrfKeyHash[:])
	w.WriteUint(p.Pledge)
	w.WriteUint(p.Cost)
	marginEnc, err := p.Margin.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(marginEnc)
	rewardEnc, err := p.RewardAccount.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(rewardEnc)
	owners := p.PoolOwners
	if owners == nil {
		owners = NewSet[AddrKeyHash]()
	}
	ownersEnc, err := owners.MarshalElements(func(h AddrKeyHash) ([]byte, error) {
		return h.MarshalCBOR()
	})
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(ownersEnc)
	w.WriteStartArray(len(p.Relays))
	for _, relay := range p.Relays {
		relayEnc, err := relay.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(relayEnc)
	}
	if p.PoolMetadata == nil {
		w.WriteNull()
	} else {
		metaEnc, err := p.PoolMetadata.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(metaEnc)
	}
	return w.Bytes(), nil
}

func (c Certificate) marshalMIR(w *cbor.Writer) ([]byte, error) {
	w.WriteStartArray(2)
	w.WriteUint(uint64(c.Type))
	m := c.MIRTarget
	if m == nil {
		return nil, newCommonError("move-instantaneous-reward certificate missing payload")
	}
	if m.IsTransfer {
		w.WriteStartArray(2)
		w.WriteUint(uint64(m.Pot))
		w.WriteUint(m.ToOtherPot)
		return w.Bytes(), nil
	}
	w.WriteStartArray(2)
	w.WriteUint(uint64(m.Pot))
	creds := make([]Credential, 0, len(m.ToStake))
	for cred := range m.ToStake {
		creds = append(creds, cred)
	}
	sortCredentials(creds)
	w.WriteStartMap(len(creds))
	for _, cred := range creds {
		credEnc, err := cred.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(credEnc)
		w.WriteInt(m.ToStake[cred])
	}
	return w.Bytes(), nil
}

func (c *Certificate) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if _, _, err := r.ReadStartArray(); err != nil {
		return err
	}
	typ, err := r.ReadUint("Certificate.type")
	if err != nil {
		return err
	}
	if typ > certificateTypeMax {
		return newKindError(cbor.ErrorKindInvalidCertificateType, "unknown certificate type %d", typ)
	}
	c.Type = CertificateType(typ)
	switch c.Type {
	case CertStakeRegistration, CertStakeDeregistration:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
	case CertStakeDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		pool, err := r.ExpectByteString("Certificate", "pool_key_hash", 28)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.PoolKeyHash = NewBlake2b224(pool)
	case CertPoolRegistration:
		if err := c.decodePoolRegistration(r); err != nil {
			return err
		}
	case CertPoolRetirement:
		pool, err := r.ExpectByteString("Certificate", "pool_key_hash", 28)
		if err != nil {
			return err
		}
		epoch, err := r.ReadUint("Certificate.epoch")
		if err != nil {
			return err
		}
		c.PoolKeyHash = NewBlake2b224(pool)
		c.RetirementEpoch = epoch
	case CertGenesisKeyDelegation:
		genesis, err := r.ExpectByteString("Certificate", "genesis_hash", 28)
		if err != nil {
			return err
		}
		delegate, err := r.ExpectByteString("Certificate", "genesis_delegate_hash", 28)
		if err != nil {
			return err
		}
		vrf, err := r.ExpectByteString("Certificate", "vrf_key_hash", 32)
		if err != nil {
			return err
		}
		c.GenesisHash = NewBlake2b224(genesis)
		c.GenesisDelegateHash = NewBlake2b224(delegate)
		c.VrfKeyHash = NewBlake2b256(vrf)
	case CertMoveInstantaneousRewards:
		if err := c.decodeMIR(r); err != nil {
			return err
		}
	case CertRegistration, CertUnregistration:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.Deposit = deposit
	case CertVoteDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		drep, err := decodeDRep(r)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.DRep = drep
	case CertStakeVoteDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		pool, err := r.ExpectByteString("Certificate", "pool_key_hash", 28)
		if err != nil {
			return err
		}
		drep, err := decodeDRep(r)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.PoolKeyHash = NewBlake2b224(pool)
		c.DRep = drep
	case CertStakeRegistrationDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		pool, err := r.ExpectByteString("Certificate", "pool_key_hash", 28)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.PoolKeyHash = NewBlake2b224(pool)
		c.Deposit = deposit
	case CertVoteRegistrationDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		drep, err := decodeDRep(r)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.DRep = drep
		c.Deposit = deposit
	case CertStakeVoteRegistrationDelegation:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		pool, err := r.ExpectByteString("Certificate", "pool_key_hash", 28)
		if err != nil {
			return err
		}
		drep, err := decodeDRep(r)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.PoolKeyHash = NewBlake2b224(pool)
		c.DRep = drep
		c.Deposit = deposit
	case CertAuthCommitteeHot:
		cold, err := decodeCredential(r)
		if err != nil {
			return err
		}
		hot, err := decodeCredential(r)
		if err != nil {
			return err
		}
		c.CommitteeColdCred = cold
		c.CommitteeHotCred = hot
	case CertResignCommitteeCold:
		cold, err := decodeCredential(r)
		if err != nil {
			return err
		}
		anchor, err := decodeOptionalAnchor(r)
		if err != nil {
			return err
		}
		c.CommitteeColdCred = cold
		c.Anchor = anchor
	case CertRegisterDrep:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		anchor, err := decodeOptionalAnchor(r)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.Deposit = deposit
		c.Anchor = anchor
	case CertUnregisterDrep:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		deposit, err := r.ReadUint("Certificate.deposit")
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.Deposit = deposit
	case CertUpdateDrep:
		cred, err := decodeCredential(r)
		if err != nil {
			return err
		}
		anchor, err := decodeOptionalAnchor(r)
		if err != nil {
			return err
		}
		c.StakeCredential = cred
		c.Anchor = anchor
	default:
		return newKindError(cbor.ErrorKindInvalidCertificateType, "unknown certificate type %d", typ)
	}
	return r.ExpectEndOfArray("Certificate")
}

func decodeCredential(r *cbor.Reader) (Credential, error) {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return Credential{}, err
	}
	var c Credential
	if err := c.UnmarshalCBOR(raw); err != nil {
		return Credential{}, err
	}
	return c, nil
}

func decodeDRep(r *cbor.Reader) (DRep, error) {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return DRep{}, err
	}
	var d DRep
	if err := d.UnmarshalCBOR(raw); err != nil {
		return DRep{}, err
	}
	return d, nil
}

func decodeOptionalAnchor(r *cbor.Reader) (*Anchor, error) {
	state, err := r.PeekState()
	if err != nil {
		return nil, err
	}
	if state == cbor.StateNull {
		if err := r.ReadNull("Certificate.anchor"); err != nil {
			return nil, err
		}
		return nil, nil
	}
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return nil, err
	}
	var a Anchor
	if err := a.UnmarshalCBOR(raw); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Certificate) decodePoolRegistration(r *cbor.Reader) error {
	operator, err := r.ExpectByteString("Certificate", "operator", 28)
	if err != nil {
		return err
	}
	vrf, err := r.ExpectByteString("Certificate", "vrf_key_hash", 32)
	if err != nil {
		return err
	}
	pledge, err := r.ReadUint("Certificate.pledge")
	if err != nil {
		return err
	}
	cost, err := r.ReadUint("Certificate.cost")
	if err != nil {
		return err
	}
	marginRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var margin UnitInterval
	if err := margin.UnmarshalCBOR(marginRaw); err != nil {
		return err
	}
	rewardRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var reward RewardAddress
	if err := reward.UnmarshalCBOR(rewardRaw); err != nil {
		return err
	}
	owners, err := UnmarshalSet(r, "Certificate.pool_owners", func(rd *cbor.Reader) (AddrKeyHash, error) {
		b, err := rd.ExpectByteString("Certificate", "pool_owner", 28)
		if err != nil {
			return AddrKeyHash{}, err
		}
		return NewBlake2b224(b), nil
	})
	if err != nil {
		return err
	}
	relayCount, _, err := r.ReadStartArray()
	if err != nil {
		return err
	}
	relays := make([]PoolRelay, 0, relayCount)
	for i := uint64(0); i < relayCount; i++ {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var relay PoolRelay
		if err := relay.UnmarshalCBOR(raw); err != nil {
			return err
		}
		relays = append(relays, relay)
	}
	if err := r.ExpectEndOfArray("Certificate.relays"); err != nil {
		return err
	}
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	var metadata *PoolMetadata
	if state == cbor.StateNull {
		if err := r.ReadNull("Certificate.pool_metadata"); err != nil {
			return err
		}
	} else {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var m PoolMetadata
		if err := m.UnmarshalCBOR(raw); err != nil {
			return err
		}
		metadata = &m
	}
	c.PoolParams = PoolParams{
		Operator:      NewBlake2b224(operator),
		VrfKeyHash:    NewBlake2b256(vrf),
		Pledge:        pledge,
		Cost:          cost,
		Margin:        margin,
		RewardAccount: reward,
		PoolOwners:    owners,
		Relays:        relays,
		PoolMetadata:  metadata,
	}
	return nil
}

func (c *Certificate) decodeMIR(r *cbor.Reader) error {
	if err := r.ExpectArrayOfN("Certificate.mir", 2); err != nil {
		return err
	}
	pot, err := r.ExpectUintInRange("Certificate.mir", "pot", 0, 1)
	if err != nil {
		return err
	}
	state, err := r.PeekState()
	if err != nil {
		return err
	}
	mir := &MoveInstantaneousReward{Pot: MIRPot(pot)}
	if state == cbor.StateMap {
		n, _, err := r.ReadStartMap()
		if err != nil {
			return err
		}
		mir.ToStake = make(map[Credential]int64, n)
		for i := uint64(0); i < n; i++ {
			cred, err := decodeCredential(r)
			if err != nil {
				return err
			}
			amount, err := r.ReadInt("Certificate.mir.amount")
			if err != nil {
				return err
			}
			mir.ToStake[cred] = amount
		}
		if err := r.ExpectEndOfMap("Certificate.mir"); err != nil {
			return err
		}
	} else {
		amount, err := r.ReadUint("Certificate.mir.amount")
		if err != nil {
			return err
		}
		mir.IsTransfer = true
		mir.ToOtherPot = amount
	}
	c.MIRTarget = mir
	return r.ExpectEndOfArray("Certificate.mir")
}
