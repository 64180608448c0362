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

// PoolVotingThresholds is the fixed-arity array of unit intervals governing
// stake-pool votes on governance actions (CDDL `pool_voting_thresholds`).
type PoolVotingThresholds struct {
	Values [5]UnitInterval
}

func (t PoolVotingThresholds) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(len(t.Values))
	for _, v := range t.Values {
		enc, err := v.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	}
	return w.Bytes(), nil
}

func (t *PoolVotingThresholds) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("PoolVotingThresholds", len(t.Values)); err != nil {
		return err
	}
	for i := range t.Values {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		if err := t.Values[i].UnmarshalCBOR(raw); err != nil {
			return err
		}
	}
	return r.ExpectEndOfArray("PoolVotingThresholds")
}

// DRepVotingThresholds is the fixed-arity array of unit intervals governing
// DRep votes on governance actions (CDDL `drep_voting_thresholds`).
type DRepVotingThresholds struct {
	Values [10]UnitInterval
}

func (t DRepVotingThresholds) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(len(t.Values))
	for _, v := range t.Values {
		enc, err := v.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	}
	return w.Bytes(), nil
}

func (t *DRepVotingThresholds) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("DRepVotingThresholds", len(t.Values)); err != nil {
		return err
	}
	for i := range t.Values {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		if err := t.Values[i].UnmarshalCBOR(raw); err != nil {
			return err
		}
	}
	return r.ExpectEndOfArray("DRepVotingThresholds")
}

// pparamUpdateKeyMax is the highest assigned protocol-parameter-update
// key. Era-versioning of which keys are valid per era is out of this
// codec's scope; every assigned key decodes uniformly.
const pparamUpdateKeyMax = 32

// reservedPParamUpdateKeys are unassigned in the current schema generation
// (legacy decentralization-constant, extra-entropy, protocol-version, and
// minimum-UTxO-value fields retired by later eras) but still rejected
// explicitly rather than silently accepted.
var reservedPParamUpdateKeys = map[uint64]bool{12: true, 13: true, 14: true, 15: true}

// ProtocolParamUpdate is the sparse, era-agnostic map of proposable
// protocol parameters. Every field is optional; absent fields are
// nil/zero-value and omitted on encode.
type ProtocolParamUpdate struct {
	MinFeeA                  *uint64
	MinFeeB                  *uint64
	MaxBlockBodySize         *uint64
	MaxTransactionSize       *uint64
	MaxBlockHeaderSize       *uint64
	KeyDeposit               *uint64
	PoolDeposit              *uint64
	MaximumEpoch             *uint64
	NOpt                     *uint64
	PoolPledgeInfluence      *UnitInterval
	ExpansionRate            *UnitInterval
	TreasuryGrowthRate       *UnitInterval
	MinPoolCost              *uint64
	AdaPerUTxOByte           *uint64
	CostModels               *CostModels
	ExecutionCosts           *ExUnitPrice
	MaxTxExUnits             *ExUnits
	MaxBlockExUnits          *ExUnits
	MaxValueSize             *uint64
	CollateralPercentage     *uint64
	MaxCollateralInputs      *uint64
	PoolVotingThresholds     *PoolVotingThresholds
	DRepVotingThresholds     *DRepVotingThresholds
	MinCommitteeSize         *uint64
	CommitteeMaxTermLength   *uint64
	GovernanceActionLifetime *uint64
	GovernanceActionDeposit  *uint64
	DRepDeposit              *uint64
	DRepActivity             *uint64
}

func (p *ProtocolParamUpdate) fields() []pparamField {
	return []pparamField{
		{0, p.MinFeeA != nil, uintWriter(p.MinFeeA)},
		{1, p.MinFeeB != nil, uintWriter(p.MinFeeB)},
		{2, p.MaxBlockBodySize != nil, uintWriter(p.MaxBlockBodySize)},
		{3, p.MaxTransactionSize != nil, uintWriter(p.MaxTransactionSize)},
		{4, p.MaxBlockHeaderSize != nil, uintWriter(p.MaxBlockHeaderSize)},
		{5, p.KeyDeposit != nil, uintWriter(p.KeyDeposit)},
		{6, p.PoolDeposit != nil, uintWriter(p.PoolDeposit)},
		{7, p.MaximumEpoch != nil, uintWriter(p.MaximumEpoch)},
		{8, p.NOpt != nil, uintWriter(p.NOpt)},
		{9, p.PoolPledgeInfluence != nil, subWriter(p.PoolPledgeInfluence)},
		{10, p.ExpansionRate != nil, subWriter(p.ExpansionRate)},
		{11, p.TreasuryGrowthRate != nil, subWriter(p.TreasuryGrowthRate)},
		{16, p.MinPoolCost != nil, uintWriter(p.MinPoolCost)},
		{17, p.AdaPerUTxOByte != nil, uintWriter(p.AdaPerUTxOByte)},
		{18, p.CostModels != nil, subWriter(p.CostModels)},
		{19, p.ExecutionCosts != nil, subWriter(p.ExecutionCosts)},
		{20, p.MaxTxExUnits != nil, subWriter(p.MaxTxExUnits)},
		{21, p.MaxBlockExUnits != nil, subWriter(p.MaxBlockExUnits)},
		{22, p.MaxValueSize != nil, uintWriter(p.MaxValueSize)},
		{23, p.CollateralPercentage != nil, uintWriter(p.CollateralPercentage)},
		{24, p.MaxCollateralInputs != nil, uintWriter(p.MaxCollateralInputs)},
		{25, p.PoolVotingThresholds != nil, subWriter(p.PoolVotingThresholds)},
		{26, p.DRepVotingThresholds != nil, subWriter(p.DRepVotingThresholds)},
		{27, p.MinCommitteeSize != nil, uintWriter(p.MinCommitteeSize)},
		{28, p.CommitteeMaxTermLength != nil, uintWriter(p.CommitteeMaxTermLength)},
		{29, p.GovernanceActionLifetime != nil, uintWriter(p.GovernanceActionLifetime)},
		{30, p.GovernanceActionDeposit != nil, uintWriter(p.GovernanceActionDeposit)},
		{31, p.DRepDeposit != nil, uintWriter(p.DRepDeposit)},
		{32, p.DRepActivity != nil, uintWriter(p.DRepActivity)},
	}
}

// uintWriter builds a field-table writer for a *uint64 field. Only called
// on fields already known present, so v is non-nil whenever write runs.
func uintWriter(v *uint64) func(*cbor.Writer) error {
	return func(w *cbor.Writer) error {
		w.WriteUint(*v)
		return nil
	}
}

// subWriter builds a field-table writer for a field whose value marshals
// itself via MarshalCBOR.
func subWriter(v interface{ MarshalCBOR() ([]byte, error) }) func(*cbor.Writer) error {
	return func(w *cbor.Writer) error {
		enc, err := v.MarshalCBOR()
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		return nil
	}
}

type pparamField struct {
	key     uint64
	present bool
	write   func(*cbor.Writer) error
}

func (p *ProtocolParamUpdate) MarshalCBOR() ([]byte, error) {
	fields := p.fields()
	count := 0
	for _, f := range fields {
		if f.present {
			count++
		}
	}
	w := cbor.NewWriter()
	w.WriteStartMap(count)
	for _, f := range fields {
		if !f.present {
			continue
		}
		w.WriteUint(f.key)
		if err := f.write(w); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func (p *ProtocolParamUpdate) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	seen := make(map[uint64]bool, n)
	for i := uint64(0); i < n; i++ {
		key, err := r.ReadUint("ProtocolParamUpdate.key")
		if err != nil {
			return err
		}
		if key > pparamUpdateKeyMax || reservedPParamUpdateKeys[key] {
			return newKindError(cbor.ErrorKindInvalidCborMapKey, "invalid protocol param update key %d", key)
		}
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate protocol param update key %d", key)
		}
		seen[key] = true
		if err := p.decodeField(r, key); err != nil {
			return err
		}
	}
	return r.ExpectEndOfMap("ProtocolParamUpdate")
}

func (p *ProtocolParamUpdate) decodeField(r *cbor.Reader, key uint64) error {
	switch key {
	case 0:
		return readUintField(r, "minfee_a", &p.MinFeeA)
	case 1:
		return readUintField(r, "minfee_b", &p.MinFeeB)
	case 2:
		return readUintField(r, "max_block_body_size", &p.MaxBlockBodySize)
	case 3:
		return readUintField(r, "max_transaction_size", &p.MaxTransactionSize)
	case 4:
		return readUintField(r, "max_block_header_size", &p.MaxBlockHeaderSize)
	case 5:
		return readUintField(r, "key_deposit", &p.KeyDeposit)
	case 6:
		return readUintField(r, "pool_deposit", &p.PoolDeposit)
	case 7:
		return readUintField(r, "maximum_epoch", &p.MaximumEpoch)
	case 8:
		return readUintField(r, "n_opt", &p.NOpt)
	case 9:
		p.PoolPledgeInfluence = new(UnitInterval)
		return readSubField(r, p.PoolPledgeInfluence)
	case 10:
		p.ExpansionRate = new(UnitInterval)
		return readSubField(r, p.ExpansionRate)
	case 11:
		p.TreasuryGrowthRate = new(UnitInterval)
		return readSubField(r, p.TreasuryGrowthRate)
	case 16:
		return readUintField(r, "min_pool_cost", &p.MinPoolCost)
	case 17:
		return readUintField(r, "ada_per_utxo_byte", &p.AdaPerUTxOByte)
	case 18:
		p.CostModels = NewCostModels()
		return readSubField(r, p.CostModels)
	case 19:
		p.ExecutionCosts = new(ExUnitPrice)
		return readSubField(r, p.ExecutionCosts)
	case 20:
		p.MaxTxExUnits = new(ExUnits)
		return readSubField(r, p.MaxTxExUnits)
	case 21:
		p.MaxBlockExUnits = new(ExUnits)
		return readSubField(r, p.MaxBlockExUnits)
	case 22:
		return readUintField(r, "max_value_size", &p.MaxValueSize)
	case 23:
		return readUintField(r, "collateral_percentage", &p.CollateralPercentage)
	case 24:
		return readUintField(r, "max_collateral_inputs", &p.MaxCollateralInputs)
	case 25:
		p.PoolVotingThresholds = new(PoolVotingThresholds)
		return readSubField(r, p.PoolVotingThresholds)
	case 26:
		p.DRepVotingThresholds = new(DRepVotingThresholds)
		return readSubField(r, p.DRepVotingThresholds)
	case 27:
		return readUintField(r, "min_committee_size", &p.MinCommitteeSize)
	case 28:
		return readUintField(r, "committee_max_term_length", &p.CommitteeMaxTermLength)
	case 29:
		return readUintField(r, "governance_action_lifetime", &p.GovernanceActionLifetime)
	case 30:
		return readUintField(r, "governance_action_deposit", &p.GovernanceActionDeposit)
	case 31:
		return readUintField(r, "drep_deposit", &p.DRepDeposit)
	case 32:
		return readUintField(r, "drep_activity", &p.DRepActivity)
	default:
		return newKindError(cbor.ErrorKindInvalidCborMapKey, "unhandled protocol param update key %d", key)
	}
}

func readUintField(r *cbor.Reader, field string, out **uint64) error {
	v, err := r.ReadUint("ProtocolParamUpdate." + field)
	if err != nil {
		return err
	}
	*out = &v
	return nil
}

func readSubField(r *cbor.Reader, target interface{ UnmarshalCBOR([]byte) error }) error {
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	return target.UnmarshalCBOR(raw)
}
