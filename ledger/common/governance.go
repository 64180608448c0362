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

// WithdrawalEntry pairs a reward address with the lovelace amount
// withdrawn from its accrued rewards (transaction-body key 5).
type WithdrawalEntry struct {
	Address RewardAddress
	Coin    uint64
}

// Withdrawals is the reward-address -> coin map carried by a transaction
// body's withdrawals field and a treasury-withdrawals governance action.
// Backed by a slice rather than a native map because RewardAddress embeds
// a byte slice and is not a comparable map key.
type Withdrawals struct {
	Entries []WithdrawalEntry
}

func NewWithdrawals(entries ...WithdrawalEntry) *Withdrawals {
	return &Withdrawals{Entries: entries}
}

func (w *Withdrawals) MarshalCBOR() ([]byte, error) {
	out := cbor.NewWriter()
	out.WriteStartMap(len(w.Entries))
	for _, e := range w.Entries {
		addrEnc, err := e.Address.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		out.WriteEncoded(addrEnc)
		out.WriteUint(e.Coin)
	}
	return out.Bytes(), nil
}

func (w *Withdrawals) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	entries := make([]WithdrawalEntry, 0, n)
	seen := make(map[string]bool, n)
	for i := uint64(0); i < n; i++ {
		addrRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var addr RewardAddress
		if err := addr.UnmarshalCBOR(addrRaw); err != nil {
			return err
		}
		key := string(addr.Bytes())
		if seen[key] {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate withdrawal address")
		}
		seen[key] = true
		coin, err := r.ReadUint("Withdrawals.coin")
		if err != nil {
			return err
		}
		entries = append(entries, WithdrawalEntry{Address: addr, Coin: coin})
	}
	if err := r.ExpectEndOfMap("Withdrawals"); err != nil {
		return err
	}
	w.Entries = entries
	return nil
}

// Constitution anchors the off-chain constitution document plus an
// optional guardrails script hash enforcing its on-chain rules (CDDL
// `constitution`).
type Constitution struct {
	Anchor     Anchor
	ScriptHash *Blake2b224
}

func (c Constitution) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	anchorEnc, err := c.Anchor.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(anchorEnc)
	if err := writeOptionalHash224(w, c.ScriptHash); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Constitution) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Constitution", 2); err != nil {
		return err
	}
	anchorRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var anchor Anchor
	if err := anchor.UnmarshalCBOR(anchorRaw); err != nil {
		return err
	}
	hash, err := readOptionalHash224(r, "Constitution.script_hash")
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("Constitution"); err != nil {
		return err
	}
	c.Anchor = anchor
	c.ScriptHash = hash
	return nil
}

func writeOptionalHash224(w *cbor.Writer, h *Blake2b224) error {
	if h == nil {
		w.WriteNull()
		return nil
	}
	enc, err := h.MarshalCBOR()
	if err != nil {
		return err
	}
	w.WriteEncoded(enc)
	return nil
}

func readOptionalHash224(r *cbor.Reader, validator string) (*Blake2b224, error) {
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
	b, err := r.ExpectByteString(validator, "", 28)
	if err != nil {
		return nil, err
	}
	h := NewBlake2b224(b)
	return &h, nil
}

func writeOptionalGovActionID(w *cbor.Writer, id *GovActionID) error {
	if id == nil {
		w.WriteNull()
		return nil
	}
	enc, err := id.MarshalCBOR()
	if err != nil {
		return err
	}
	w.WriteEncoded(enc)
	return nil
}

func readOptionalGovActionID(r *cbor.Reader, validator string) (*GovActionID, error) {
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
	raw, err := r.ReadEncodedValue()
	if err != nil {
		return nil, err
	}
	var id GovActionID
	if err := id.UnmarshalCBOR(raw); err != nil {
		return nil, err
	}
	return &id, nil
}

// GovActionType discriminates the seven on-chain proposal types (CDDL
// `gov_action`).
type GovActionType uint64

const (
	GovActionParameterChange GovActionType = iota
	GovActionHardForkInitiation
	GovActionTreasuryWithdrawals
	GovActionNoConfidence
	GovActionUpdateCommittee
	GovActionNewConstitution
	GovActionInfo
)

const govActionTypeMax = uint64(GovActionInfo)

func govActionTypeName(v uint64) string {
	switch GovActionType(v) {
	case GovActionParameterChange:
		return "parameterChange"
	case GovActionHardForkInitiation:
		return "hardForkInitiation"
	case GovActionTreasuryWithdrawals:
		return "treasuryWithdrawals"
	case GovActionNoConfidence:
		return "noConfidence"
	case GovActionUpdateCommittee:
		return "updateCommittee"
	case GovActionNewConstitution:
		return "newConstitution"
	case GovActionInfo:
		return "infoAction"
	default:
		return "unknown governance action"
	}
}

func (t GovActionType) String() string { return govActionTypeName(uint64(t)) }

// GovAction is the 7-variant proposal payload voted on by SPOs, DReps, and
// the constitutional committee.
type GovAction struct {
	Type GovActionType

	// ParameterChange (0), HardForkInitiation (1), NoConfidence (3),
	// UpdateCommittee (4), NewConstitution (5): pointer to the most recently enacted action of
	// the same kind, enforcing a linear history; absent for the first
	// such proposal.
	PrevActionID *GovActionID

	ParamUpdate *ProtocolParamUpdate // ParameterChange
	PolicyHash  *Blake2b224          // ParameterChange, TreasuryWithdrawals (guardrails script)

	ProtocolVersion *ProtocolVersion // HardForkInitiation

	Withdrawals *Withdrawals // TreasuryWithdrawals

	CommitteeRemoved   *Set[Credential]      // UpdateCommittee
	CommitteeAdded     map[Credential]uint64 // UpdateCommittee: credential -> term-expiry epoch
	CommitteeThreshold *UnitInterval         // UpdateCommittee

	Constitution *Constitution // NewConstitution
}

func NewInfoAction() GovAction { return GovAction{Type: GovActionInfo} }

func (g GovAction) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	switch g.Type {
	case GovActionParameterChange:
		w.WriteStartArray(4)
		w.WriteUint(uint64(g.Type))
		if err := writeOptionalGovActionID(w, g.PrevActionID); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, g.ParamUpdate); err != nil {
			return nil, err
		}
		if err := writeOptionalHash224(w, g.PolicyHash); err != nil {
			return nil, err
		}
	case GovActionHardForkInitiation:
		w.WriteStartArray(3)
		w.WriteUint(uint64(g.Type))
		if err := writeOptionalGovActionID(w, g.PrevActionID); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, g.ProtocolVersion); err != nil {
			return nil, err
		}
	case GovActionTreasuryWithdrawals:
		w.WriteStartArray(3)
		w.WriteUint(uint64(g.Type))
		if err := writeEncoded(w, g.Withdrawals); err != nil {
			return nil, err
		}
		if err := writeOptionalHash224(w, g.PolicyHash); err != nil {
			return nil, err
		}
	case GovActionNoConfidence:
		w.WriteStartArray(2)
		w.WriteUint(uint64(g.Type))
		if err := writeOptionalGovActionID(w, g.PrevActionID); err != nil {
			return nil, err
		}
	case GovActionUpdateCommittee:
		w.WriteStartArray(5)
		w.WriteUint(uint64(g.Type))
		if err := writeOptionalGovActionID(w, g.PrevActionID); err != nil {
			return nil, err
		}
		removed := g.CommitteeRemoved
		if removed == nil {
			removed = NewSet[Credential]()
		}
		removedEnc, err := removed.MarshalElements(func(c Credential) ([]byte, error) { return c.MarshalCBOR() })
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(removedEnc)
		if err := writeCredentialEpochMap(w, g.CommitteeAdded); err != nil {
			return nil, err
		}
		threshold := g.CommitteeThreshold
		if threshold == nil {
			return nil, newCommonError("update_committee action missing threshold")
		}
		if err := writeEncoded(w, threshold); err != nil {
			return nil, err
		}
	case GovActionNewConstitution:
		w.WriteStartArray(3)
		w.WriteUint(uint64(g.Type))
		if err := writeOptionalGovActionID(w, g.PrevActionID); err != nil {
			return nil, err
		}
		if err := writeEncoded(w, g.Constitution); err != nil {
			return nil, err
		}
	case GovActionInfo:
		w.WriteStartArray(1)
		w.WriteUint(uint64(g.Type))
	default:
		return nil, newCommonError("unknown governance action type %d", g.Type)
	}
	return w.Bytes(), nil
}

func writeCredentialEpochMap(w *cbor.Writer, m map[Credential]uint64) error {
	creds := make([]Credential, 0, len(m))
	for c := range m {
		creds = append(creds, c)
	}
	sortCredentials(creds)
	w.WriteStartMap(len(creds))
	for _, c := range creds {
		enc, err := c.MarshalCBOR()
		if err != nil {
			return err
		}
		w.WriteEncoded(enc)
		w.WriteUint(m[c])
	}
	return nil
}

func (g *GovAction) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartArray()
	if err != nil {
		return err
	}
	typ, err := r.ExpectUintInRange("GovAction", "type", 0, govActionTypeMax)
	if err != nil {
		return err
	}
	g.Type = GovActionType(typ)
	switch g.Type {
	case GovActionParameterChange:
		if err := expectArrayLen(n, 4, "GovAction.parameter_change"); err != nil {
			return err
		}
		prev, err := readOptionalGovActionID(r, "GovAction.prev_action_id")
		if err != nil {
			return err
		}
		paramRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		update := &ProtocolParamUpdate{}
		if err := update.UnmarshalCBOR(paramRaw); err != nil {
			return err
		}
		policy, err := readOptionalHash224(r, "GovAction.policy_hash")
		if err != nil {
			return err
		}
		g.PrevActionID, g.ParamUpdate, g.PolicyHash = prev, update, policy
	case GovActionHardForkInitiation:
		if err := expectArrayLen(n, 3, "GovAction.hard_fork_initiation"); err != nil {
			return err
		}
		prev, err := readOptionalGovActionID(r, "GovAction.prev_action_id")
		if err != nil {
			return err
		}
		verRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var ver ProtocolVersion
		if err := ver.UnmarshalCBOR(verRaw); err != nil {
			return err
		}
		g.PrevActionID, g.ProtocolVersion = prev, &ver
	case GovActionTreasuryWithdrawals:
		if err := expectArrayLen(n, 3, "GovAction.treasury_withdrawals"); err != nil {
			return err
		}
		wdRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		wd := &Withdrawals{}
		if err := wd.UnmarshalCBOR(wdRaw); err != nil {
			return err
		}
		policy, err := readOptionalHash224(r, "GovAction.policy_hash")
		if err != nil {
			return err
		}
		g.Withdrawals, g.PolicyHash = wd, policy
	case GovActionNoConfidence:
		if err := expectArrayLen(n, 2, "GovAction.no_confidence"); err != nil {
			return err
		}
		prev, err := readOptionalGovActionID(r, "GovAction.prev_action_id")
		if err != nil {
			return err
		}
		g.PrevActionID = prev
	case GovActionUpdateCommittee:
		if err := expectArrayLen(n, 5, "GovAction.update_committee"); err != nil {
			return err
		}
		prev, err := readOptionalGovActionID(r, "GovAction.prev_action_id")
		if err != nil {
			return err
		}
		removed, err := UnmarshalSet(r, "GovAction.committee_removed", func(rd *cbor.Reader) (Credential, error) {
			raw, err := rd.ReadEncodedValue()
			if err != nil {
				return Credential{}, err
			}
			var c Credential
			if err := c.UnmarshalCBOR(raw); err != nil {
				return Credential{}, err
			}
			return c, nil
		})
		if err != nil {
			return err
		}
		added, err := readCredentialEpochMap(r)
		if err != nil {
			return err
		}
		thresholdRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var threshold UnitInterval
		if err := threshold.UnmarshalCBOR(thresholdRaw); err != nil {
			return err
		}
		g.PrevActionID = prev
		g.CommitteeRemoved = removed
		g.CommitteeAdded = added
		g.CommitteeThreshold = &threshold
	case GovActionNewConstitution:
		if err := expectArrayLen(n, 3, "GovAction.new_constitution"); err != nil {
			return err
		}
		prev, err := readOptionalGovActionID(r, "GovAction.prev_action_id")
		if err != nil {
			return err
		}
		constRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var c Constitution
		if err := c.UnmarshalCBOR(constRaw); err != nil {
			return err
		}
		g.PrevActionID, g.Constitution = prev, &c
	case GovActionInfo:
		if err := expectArrayLen(n, 1, "GovAction.info_action"); err != nil {
			return err
		}
	}
	return r.ExpectEndOfArray("GovAction")
}

func expectArrayLen(got, want uint64, validator string) error {
	if got != want {
		return newKindError(
			cbor.ErrorKindInvalidCborArraySize,
			"%s expects %d elements, got %d", validator, want, got,
		)
	}
	return nil
}

func readCredentialEpochMap(r *cbor.Reader) (map[Credential]uint64, error) {
	n, _, err := r.ReadStartMap()
	if err != nil {
		return nil, err
	}
	out := make(map[Credential]uint64, n)
	for i := uint64(0); i < n; i++ {
		raw, err := r.ReadEncodedValue()
		if err != nil {
			return nil, err
		}
		var c Credential
		if err := c.UnmarshalCBOR(raw); err != nil {
			return nil, err
		}
		if _, dup := out[c]; dup {
			return nil, newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate committee credential")
		}
		epoch, err := r.ReadUint("GovAction.committee_added.epoch")
		if err != nil {
			return nil, err
		}
		out[c] = epoch
	}
	if err := r.ExpectEndOfMap("GovAction.committee_added"); err != nil {
		return nil, err
	}
	return out, nil
}

// VoterType discriminates who is casting a vote: a committee member, a
// DRep, or a stake pool operator, each identified by key-hash or
// script-hash credential where applicable (CDDL `voter`).
type VoterType uint64

const (
	VoterCommitteeHotKeyHash VoterType = iota
	VoterCommitteeHotScriptHash
	VoterDRepKeyHash
	VoterDRepScriptHash
	VoterStakePoolKeyHash
)

const voterTypeMax = uint64(VoterStakePoolKeyHash)

// Voter is the (type, hash) pair identifying a vote's caster.
type Voter struct {
	Type VoterType
	Hash Blake2b224
}

// Compare orders voters by (type ascending, then hash byte-lex), the
// ordering used by VotingProcedures' outer map.
func (v Voter) Compare(other Voter) int {
	if v.Type != other.Type {
		if v.Type < other.Type {
			return -1
		}
		return 1
	}
	return CompareBytes(v.Hash[:], other.Hash[:])
}

func (v Voter) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(uint64(v.Type))
	w.WriteBytes(v.Hash[:])
	return w.Bytes(), nil
}

func (v *Voter) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("Voter", 2); err != nil {
		return err
	}
	typ, err := r.ExpectUintInRange("Voter", "type", 0, voterTypeMax)
	if err != nil {
		return err
	}
	hash, err := r.ExpectByteString("Voter", "hash", 28)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("Voter"); err != nil {
		return err
	}
	v.Type = VoterType(typ)
	v.Hash = NewBlake2b224(hash)
	return nil
}

// VotingProcedure is a single vote plus the optional anchor pinning its
// rationale (CDDL `voting_procedure`).
type VotingProcedure struct {
	Vote   Vote
	Anchor *Anchor
}

// Vote is a stakeholder's decision on a governance action.
type Vote uint64

const (
	VoteNo Vote = iota
	VoteYes
	VoteAbstain
)

const voteMax = uint64(VoteAbstain)

func (v VotingProcedure) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(uint64(v.Vote))
	if err := writeOptionalAnchor(w, v.Anchor); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (v *VotingProcedure) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("VotingProcedure", 2); err != nil {
		return err
	}
	vote, err := r.ExpectUintInRange("VotingProcedure", "vote", 0, voteMax)
	if err != nil {
		return err
	}
	anchor, err := decodeOptionalAnchor(r)
	if err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("VotingProcedure"); err != nil {
		return err
	}
	v.Vote = Vote(vote)
	v.Anchor = anchor
	return nil
}

// voterActionVote pairs a governance-action id with the vote cast on it,
// the inner map entry of VotingProcedures.
type voterActionVote struct {
	ActionID GovActionID
	Vote     VotingProcedure
}

// VotingProcedures is the nested map voter -> (action-id -> vote) carried
// by a transaction body's voting-procedures field (key 19).
type VotingProcedures struct {
	byVoter map[Voter][]voterActionVote
}

func NewVotingProcedures() *VotingProcedures {
	return &VotingProcedures{byVoter: make(map[Voter][]voterActionVote)}
}

// Set records voter's decision on actionID, replacing any prior vote by
// the same voter on the same action.
func (v *VotingProcedures) Set(voter Voter, actionID GovActionID, vote VotingProcedure) {
	if v.byVoter == nil {
		v.byVoter = make(map[Voter][]voterActionVote)
	}
	entries := v.byVoter[voter]
	for i, e := range entries {
		if e.ActionID == actionID {
			entries[i].Vote = vote
			return
		}
	}
	v.byVoter[voter] = append(entries, voterActionVote{ActionID: actionID, Vote: vote})
}

func (v *VotingProcedures) sortedVoters() []Voter {
	voters := make([]Voter, 0, len(v.byVoter))
	for voter := range v.byVoter {
		voters = append(voters, voter)
	}
	sortVoters(voters)
	return voters
}

func sortVoters(voters []Voter) {
	for i := 1; i < len(voters); i++ {
		for j := i; j > 0 && voters[j].Compare(voters[j-1]) < 0; j-- {
			voters[j], voters[j-1] = voters[j-1], voters[j]
		}
	}
}

func sortCredentials(creds []Credential) {
	for i := 1; i < len(creds); i++ {
		for j := i; j > 0 && creds[j].Compare(creds[j-1]) < 0; j-- {
			creds[j], creds[j-1] = creds[j-1], creds[j]
		}
	}
}

func (v *VotingProcedures) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	voters := v.sortedVoters()
	w.WriteStartMap(len(voters))
	for _, voter := range voters {
		voterEnc, err := voter.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(voterEnc)
		entries := v.byVoter[voter]
		w.WriteStartMap(len(entries))
		for _, e := range entries {
			idEnc, err := e.ActionID.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(idEnc)
			voteEnc, err := e.Vote.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteEncoded(voteEnc)
		}
	}
	return w.Bytes(), nil
}

func (v *VotingProcedures) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	byVoter := make(map[Voter][]voterActionVote, n)
	for i := uint64(0); i < n; i++ {
		voterRaw, err := r.ReadEncodedValue()
		if err != nil {
			return err
		}
		var voter Voter
		if err := voter.UnmarshalCBOR(voterRaw); err != nil {
			return err
		}
		if _, dup := byVoter[voter]; dup {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate voter in voting procedures")
		}
		inner, _, err := r.ReadStartMap()
		if err != nil {
			return err
		}
		entries := make([]voterActionVote, 0, inner)
		seenActions := make(map[GovActionID]bool, inner)
		for j := uint64(0); j < inner; j++ {
			idRaw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var id GovActionID
			if err := id.UnmarshalCBOR(idRaw); err != nil {
				return err
			}
			if seenActions[id] {
				return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate action id for voter")
			}
			seenActions[id] = true
			voteRaw, err := r.ReadEncodedValue()
			if err != nil {
				return err
			}
			var vote VotingProcedure
			if err := vote.UnmarshalCBOR(voteRaw); err != nil {
				return err
			}
			entries = append(entries, voterActionVote{ActionID: id, Vote: vote})
		}
		if err := r.ExpectEndOfMap("VotingProcedures.inner"); err != nil {
			return err
		}
		byVoter[voter] = entries
	}
	if err := r.ExpectEndOfMap("VotingProcedures"); err != nil {
		return err
	}
	v.byVoter = byVoter
	return nil
}

// ProposalProcedure is a single submitted governance proposal: the
// deposit paid, the reward address it returns to, the action itself, and
// an anchor pinning its rationale (CDDL `proposal_procedure`).
type ProposalProcedure struct {
	Deposit       uint64
	RewardAccount RewardAddress
	GovAction     GovAction
	Anchor        Anchor
}

func (p ProposalProcedure) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(4)
	w.WriteUint(p.Deposit)
	if err := writeEncoded(w, p.RewardAccount); err != nil {
		return nil, err
	}
	if err := writeEncoded(w, p.GovAction); err != nil {
		return nil, err
	}
	anchorEnc, err := p.Anchor.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	w.WriteEncoded(anchorEnc)
	return w.Bytes(), nil
}

func (p *ProposalProcedure) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	if err := r.ExpectArrayOfN("ProposalProcedure", 4); err != nil {
		return err
	}
	deposit, err := r.ReadUint("ProposalProcedure.deposit")
	if err != nil {
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
	actionRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var action GovAction
	if err := action.UnmarshalCBOR(actionRaw); err != nil {
		return err
	}
	anchorRaw, err := r.ReadEncodedValue()
	if err != nil {
		return err
	}
	var anchor Anchor
	if err := anchor.UnmarshalCBOR(anchorRaw); err != nil {
		return err
	}
	if err := r.ExpectEndOfArray("ProposalProcedure"); err != nil {
		return err
	}
	p.Deposit, p.RewardAccount, p.GovAction, p.Anchor = deposit, reward, action, anchor
	return nil
}
