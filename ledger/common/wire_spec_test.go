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

package common_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
	common "github.com/blinklabs-io/cardano-ledger-codec/ledger/common"
	"github.com/stretchr/testify/require"
)

func blake256(b byte) common.Blake2b256 {
	var h common.Blake2b256
	for i := range h {
		h[i] = b
	}
	return h
}

func uintPtr(v uint64) *uint64 { return &v }

// Testable property 6: a set decoded without tag 258 re-encodes without
// it; decoded with the tag, the tag comes back.
func TestInputSetPreservesTag258Choice(t *testing.T) {
	input := common.NewTransactionInput(blake256(0xaa), 0)
	inputEnc, err := input.MarshalCBOR()
	require.NoError(t, err)

	for _, tagged := range []bool{false, true} {
		w := cbor.NewWriter()
		if tagged {
			w.WriteTag(258)
		}
		w.WriteStartArray(1)
		w.WriteEncoded(inputEnc)
		data := w.Bytes()

		set, err := common.UnmarshalTransactionInputSet(cbor.NewReader(data), "test")
		require.NoError(t, err)
		require.Equal(t, tagged, set.UsesTag258)
		require.Equal(t, 1, set.Len())

		enc, err := set.MarshalElements(func(v common.TransactionInput) ([]byte, error) {
			return v.MarshalCBOR()
		})
		require.NoError(t, err)
		require.True(t, bytes.Equal(data, enc), "tagged=%v: expected %x got %x", tagged, data, enc)
	}
}

// Transaction inputs encode sorted by (transaction-id byte-lex, then
// index), regardless of insertion order.
func TestTransactionInputSetSortsOnEncode(t *testing.T) {
	set := common.NewTransactionInputSet(
		common.NewTransactionInput(blake256(0xbb), 0),
		common.NewTransactionInput(blake256(0xaa), 2),
		common.NewTransactionInput(blake256(0xaa), 1),
	)
	enc, err := set.MarshalElements(func(v common.TransactionInput) ([]byte, error) {
		return v.MarshalCBOR()
	})
	require.NoError(t, err)

	w := cbor.NewWriter()
	w.WriteTag(258)
	w.WriteStartArray(3)
	for _, in := range []common.TransactionInput{
		common.NewTransactionInput(blake256(0xaa), 1),
		common.NewTransactionInput(blake256(0xaa), 2),
		common.NewTransactionInput(blake256(0xbb), 0),
	} {
		inEnc, err := in.MarshalCBOR()
		require.NoError(t, err)
		w.WriteEncoded(inEnc)
	}
	require.True(t, bytes.Equal(w.Bytes(), enc), "expected %x got %x", w.Bytes(), enc)
}

// A stake-registration-delegation certificate decodes with the right
// variant tag and re-encodes to identical bytes.
func TestCertificateStakeRegistrationDelegationRoundTripsExactBytes(t *testing.T) {
	cred := common.NewKeyCredential(blake224(0x00))
	credEnc, err := cred.MarshalCBOR()
	require.NoError(t, err)

	w := cbor.NewWriter()
	w.WriteStartArray(4)
	w.WriteUint(uint64(common.CertStakeRegistrationDelegation))
	w.WriteEncoded(credEnc)
	poolKeyHash := blake224(0x11)
	w.WriteBytes(poolKeyHash[:])
	w.WriteUint(2000000)
	data := w.Bytes()

	var c common.Certificate
	require.NoError(t, c.UnmarshalCBOR(data))
	require.Equal(t, common.CertStakeRegistrationDelegation, c.Type)
	require.Equal(t, cred, c.StakeCredential)
	require.Equal(t, blake224(0x11), c.PoolKeyHash)
	require.Equal(t, uint64(2000000), c.Deposit)

	enc, err := c.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, enc), "expected %x got %x", data, enc)
}

// A legacy MIR certificate encodes its stake-credential map in credential
// order, so encoding is deterministic and decode-then-encode is stable.
func TestMIRCertificateEncodesDeterministically(t *testing.T) {
	credA := common.NewKeyCredential(blake224(0x01))
	credB := common.NewKeyCredential(blake224(0x02))
	c := common.Certificate{
		Type: common.CertMoveInstantaneousRewards,
		MIRTarget: &common.MoveInstantaneousReward{
			Pot:     common.MIRPotReserves,
			ToStake: map[common.Credential]int64{credB: 2, credA: 1},
		},
	}

	enc, err := c.MarshalCBOR()
	require.NoError(t, err)

	credAEnc, err := credA.MarshalCBOR()
	require.NoError(t, err)
	credBEnc, err := credB.MarshalCBOR()
	require.NoError(t, err)
	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteUint(uint64(common.CertMoveInstantaneousRewards))
	w.WriteStartArray(2)
	w.WriteUint(uint64(common.MIRPotReserves))
	w.WriteStartMap(2)
	w.WriteEncoded(credAEnc)
	w.WriteInt(1)
	w.WriteEncoded(credBEnc)
	w.WriteInt(2)
	require.True(t, bytes.Equal(w.Bytes(), enc), "expected %x got %x", w.Bytes(), enc)

	var decoded common.Certificate
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.CertMoveInstantaneousRewards, decoded.Type)
	require.Equal(t, int64(1), decoded.MIRTarget.ToStake[credA])
	require.Equal(t, int64(2), decoded.MIRTarget.ToStake[credB])

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestPoolRegistrationCertificateRoundTrips(t *testing.T) {
	port := uint32(3001)
	c := common.Certificate{
		Type: common.CertPoolRegistration,
		PoolParams: common.PoolParams{
			Operator:      blake224(0x01),
			VrfKeyHash:    blake256(0x02),
			Pledge:        1000000,
			Cost:          340000000,
			Margin:        common.NewUnitInterval(1, 20),
			RewardAccount: common.NewRewardAddress(common.NetworkMainnet, common.NewKeyCredential(blake224(0x03))),
			PoolOwners:    common.NewSet(blake224(0x03)),
			Relays: []common.PoolRelay{
				{Type: common.PoolRelaySingleHostName, Port: &port, DNSName: "relay.example.com"},
			},
			PoolMetadata: &common.PoolMetadata{
				Url:  "https://example.com/pool.json",
				Hash: blake256(0x04),
			},
		},
	}

	enc, err := c.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.Certificate
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.CertPoolRegistration, decoded.Type)
	require.Equal(t, c.PoolParams.Operator, decoded.PoolParams.Operator)
	require.Equal(t, c.PoolParams.Pledge, decoded.PoolParams.Pledge)
	require.Equal(t, 1, decoded.PoolParams.PoolOwners.Len())
	require.Len(t, decoded.PoolParams.Relays, 1)
	require.Equal(t, "relay.example.com", decoded.PoolParams.Relays[0].DNSName)
	require.NotNil(t, decoded.PoolParams.Relays[0].Port)
	require.Equal(t, port, *decoded.PoolParams.Relays[0].Port)
	require.NotNil(t, decoded.PoolParams.PoolMetadata)
	require.Equal(t, c.PoolParams.PoolMetadata.Url, decoded.PoolParams.PoolMetadata.Url)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestWitnessSetFullRoundTrip(t *testing.T) {
	ws := common.NewWitnessSet()
	var vkey [32]byte
	var sig [64]byte
	for i := range vkey {
		vkey[i] = 0x10
	}
	for i := range sig {
		sig[i] = 0x20
	}
	ws.VkeyWitnesses = common.NewSet(common.VkeyWitness{Vkey: vkey, Signature: sig})
	ws.NativeScripts = common.NewSet(common.NewInvalidBeforeScript(42))
	ws.BootstrapWitness = common.NewSet(common.BootstrapWitness{
		Vkey:       vkey,
		Signature:  sig,
		ChainCode:  vkey,
		Attributes: []byte{0xa0},
	})
	ws.PlutusV1Scripts = common.NewSet(common.NewPlutusScript(common.PlutusV1, []byte{0x4e, 0x01}))
	ws.PlutusData = common.NewSet(common.NewPlutusDataInt(big.NewInt(7)))
	ws.Redeemers = []common.Redeemer{
		{
			Tag:     common.RedeemerTagMint,
			Index:   3,
			Data:    common.NewPlutusDataBytes([]byte{0xde, 0xad}),
			ExUnits: common.ExUnits{Memory: 10, Steps: 20},
		},
	}
	ws.PlutusV2Scripts = common.NewSet(common.NewPlutusScript(common.PlutusV2, []byte{0x4e, 0x02}))
	ws.PlutusV3Scripts = common.NewSet(common.NewPlutusScript(common.PlutusV3, []byte{0x4e, 0x03}))

	enc, err := ws.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.WitnessSet
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, 1, decoded.VkeyWitnesses.Len())
	require.Equal(t, vkey, decoded.VkeyWitnesses.Items[0].Vkey)
	require.Equal(t, 1, decoded.NativeScripts.Len())
	require.Equal(t, uint64(42), decoded.NativeScripts.Items[0].Slot)
	require.Equal(t, 1, decoded.BootstrapWitness.Len())
	require.Equal(t, []byte{0xa0}, decoded.BootstrapWitness.Items[0].Attributes)
	require.Equal(t, common.PlutusV1, decoded.PlutusV1Scripts.Items[0].Language)
	require.Equal(t, common.PlutusV2, decoded.PlutusV2Scripts.Items[0].Language)
	require.Equal(t, common.PlutusV3, decoded.PlutusV3Scripts.Items[0].Language)
	require.Len(t, decoded.Redeemers, 1)
	require.Equal(t, common.RedeemerTagMint, decoded.Redeemers[0].Tag)
	require.Equal(t, uint32(3), decoded.Redeemers[0].Index)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

// A redeemer whose datum uses a non-canonical bignum encoding (tag 2 for
// a value that fits in a direct integer) must re-encode to the producer's
// exact bytes.
func TestRedeemerPreservesDatumEncoding(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteStartArray(4)
	w.WriteUint(uint64(common.RedeemerTagSpend))
	w.WriteUint(0)
	w.WriteEncoded([]byte{0xc2, 0x41, 0x05}) // tag-2 bignum for 5
	w.WriteStartArray(2)
	w.WriteUint(1)
	w.WriteUint(2)
	data := w.Bytes()

	var red common.Redeemer
	require.NoError(t, red.UnmarshalCBOR(data))
	require.Equal(t, common.PlutusDatumBigInt, red.Data.Kind)
	require.Equal(t, int64(5), red.Data.Int.Int64())

	enc, err := red.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, enc), "expected %x got %x", data, enc)

	// Clearing the cache forces the canonical single-byte integer form.
	red.Data.ClearCborRecursive()
	enc2, err := red.MarshalCBOR()
	require.NoError(t, err)
	canonical := cbor.NewWriter()
	canonical.WriteStartArray(4)
	canonical.WriteUint(uint64(common.RedeemerTagSpend))
	canonical.WriteUint(0)
	canonical.WriteUint(5)
	canonical.WriteStartArray(2)
	canonical.WriteUint(1)
	canonical.WriteUint(2)
	require.True(t, bytes.Equal(canonical.Bytes(), enc2), "expected %x got %x", canonical.Bytes(), enc2)
}

func TestPlutusDataEqualIgnoresWireEncoding(t *testing.T) {
	var decoded common.PlutusData
	require.NoError(t, decoded.UnmarshalCBOR([]byte{0xc2, 0x41, 0x05}))
	require.True(t, decoded.Equal(common.NewPlutusDataInt(big.NewInt(5))))

	enc, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, []byte{0xc2, 0x41, 0x05}, enc)

	decoded.ClearCborRecursive()
	enc, err = decoded.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, []byte{0x05}, enc)
}

func TestProtocolParamUpdateRoundTrips(t *testing.T) {
	models := common.NewCostModels()
	models.Set(common.CostModel{Language: common.PlutusV2, Ops: make([]int64, 175)})
	rate := common.NewUnitInterval(1, 5)
	p := common.ProtocolParamUpdate{
		MinFeeA:            uintPtr(44),
		MinFeeB:            uintPtr(155381),
		TreasuryGrowthRate: &rate,
		CostModels:         models,
		MaxTxExUnits:       &common.ExUnits{Memory: 14000000, Steps: 10000000000},
		DRepDeposit:        uintPtr(500000000),
	}

	enc, err := p.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.ProtocolParamUpdate
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, uint64(44), *decoded.MinFeeA)
	require.Equal(t, uint64(155381), *decoded.MinFeeB)
	require.Equal(t, 0, rate.Rat.Cmp(decoded.TreasuryGrowthRate.Rat.Rat))
	require.Equal(t, uint64(14000000), decoded.MaxTxExUnits.Memory)
	require.Equal(t, uint64(500000000), *decoded.DRepDeposit)
	m, ok := decoded.CostModels.Get(common.PlutusV2)
	require.True(t, ok)
	require.Len(t, m.Ops, 175)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestProtocolParamUpdateRejectsReservedAndDuplicateKeys(t *testing.T) {
	for _, key := range []uint64{12, 13, 14, 15, 33} {
		w := cbor.NewWriter()
		w.WriteStartMap(1)
		w.WriteUint(key)
		w.WriteUint(0)
		var p common.ProtocolParamUpdate
		err := p.UnmarshalCBOR(w.Bytes())
		require.Error(t, err)
		cerr, ok := err.(*cbor.Error)
		require.True(t, ok)
		require.Equal(t, cbor.ErrorKindInvalidCborMapKey, cerr.Kind, "key %d", key)
	}

	w := cbor.NewWriter()
	w.WriteStartMap(2)
	w.WriteUint(0)
	w.WriteUint(1)
	w.WriteUint(0)
	w.WriteUint(2)
	var p common.ProtocolParamUpdate
	err := p.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindDuplicatedCborMapKey, cerr.Kind)
}

// The legacy update proposal's genesis-hash map encodes its keys
// byte-lex ascending.
func TestUpdateEncodesGenesisKeysSorted(t *testing.T) {
	u := common.Update{
		ProposedProtocolParameterUpdates: map[common.Blake2b224]common.ProtocolParamUpdate{
			blake224(0x22): {},
			blake224(0x11): {MinFeeA: uintPtr(9)},
		},
		Epoch: 300,
	}

	enc, err := u.MarshalCBOR()
	require.NoError(t, err)

	ppu11 := common.ProtocolParamUpdate{MinFeeA: uintPtr(9)}
	ppu11Enc, err := ppu11.MarshalCBOR()
	require.NoError(t, err)
	ppu22 := common.ProtocolParamUpdate{}
	ppu22Enc, err := ppu22.MarshalCBOR()
	require.NoError(t, err)

	w := cbor.NewWriter()
	w.WriteStartArray(2)
	w.WriteStartMap(2)
	genesisHash11 := blake224(0x11)
	w.WriteBytes(genesisHash11[:])
	w.WriteEncoded(ppu11Enc)
	genesisHash22 := blake224(0x22)
	w.WriteBytes(genesisHash22[:])
	w.WriteEncoded(ppu22Enc)
	w.WriteUint(300)
	require.True(t, bytes.Equal(w.Bytes(), enc), "expected %x got %x", w.Bytes(), enc)

	var decoded common.Update
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, uint64(300), decoded.Epoch)
	require.Len(t, decoded.ProposedProtocolParameterUpdates, 2)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

// The voting-procedures outer map encodes voters ordered by (type, hash),
// regardless of insertion order.
func TestVotingProceduresSortVotersAndRoundTrip(t *testing.T) {
	vp := common.NewVotingProcedures()
	actionID := common.GovActionID{TransactionID: blake256(0x03), Index: 1}
	pool := common.Voter{Type: common.VoterStakePoolKeyHash, Hash: blake224(0x01)}
	committee := common.Voter{Type: common.VoterCommitteeHotKeyHash, Hash: blake224(0x02)}
	anchor := common.Anchor{URL: "https://example.com/why.json", DataHash: blake256(0x04)}
	vp.Set(pool, actionID, common.VotingProcedure{Vote: common.VoteYes})
	vp.Set(committee, actionID, common.VotingProcedure{Vote: common.VoteNo, Anchor: &anchor})

	enc, err := vp.MarshalCBOR()
	require.NoError(t, err)

	r := cbor.NewReader(enc)
	n, _, err := r.ReadStartMap()
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
	firstVoterRaw, err := r.ReadEncodedValue()
	require.NoError(t, err)
	var firstVoter common.Voter
	require.NoError(t, firstVoter.UnmarshalCBOR(firstVoterRaw))
	require.Equal(t, common.VoterCommitteeHotKeyHash, firstVoter.Type)

	decoded := common.NewVotingProcedures()
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestProposalProcedureRoundTrips(t *testing.T) {
	pp := common.ProposalProcedure{
		Deposit:       100000000000,
		RewardAccount: common.NewRewardAddress(common.NetworkMainnet, common.NewKeyCredential(blake224(0x05))),
		GovAction:     common.NewInfoAction(),
		Anchor:        common.Anchor{URL: "https://example.com/p.json", DataHash: blake256(0x06)},
	}

	enc, err := pp.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.ProposalProcedure
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, pp.Deposit, decoded.Deposit)
	require.Equal(t, common.GovActionInfo, decoded.GovAction.Type)
	require.Equal(t, pp.Anchor.URL, decoded.Anchor.URL)
	require.Equal(t, pp.RewardAccount.Credential(), decoded.RewardAccount.Credential())

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestGovActionUpdateCommitteeRoundTrips(t *testing.T) {
	threshold := common.NewUnitInterval(2, 3)
	action := common.GovAction{
		Type:             common.GovActionUpdateCommittee,
		CommitteeRemoved: common.NewSet(common.NewKeyCredential(blake224(0x01))),
		CommitteeAdded: map[common.Credential]uint64{
			common.NewKeyCredential(blake224(0x03)): 500,
			common.NewKeyCredential(blake224(0x02)): 400,
		},
		CommitteeThreshold: &threshold,
	}

	enc, err := action.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.GovAction
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.GovActionUpdateCommittee, decoded.Type)
	require.Nil(t, decoded.PrevActionID)
	require.Equal(t, 1, decoded.CommitteeRemoved.Len())
	require.Equal(t, uint64(400), decoded.CommitteeAdded[common.NewKeyCredential(blake224(0x02))])
	require.Equal(t, uint64(500), decoded.CommitteeAdded[common.NewKeyCredential(blake224(0x03))])

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestWithdrawalsRejectDuplicateAddress(t *testing.T) {
	addr := common.NewRewardAddress(common.NetworkMainnet, common.NewKeyCredential(blake224(0x07)))
	addrEnc, err := addr.MarshalCBOR()
	require.NoError(t, err)

	w := cbor.NewWriter()
	w.WriteStartMap(2)
	w.WriteEncoded(addrEnc)
	w.WriteUint(1)
	w.WriteEncoded(addrEnc)
	w.WriteUint(2)

	var wd common.Withdrawals
	err = wd.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindDuplicatedCborMapKey, cerr.Kind)
}

// A 64-byte metadatum byte string is the largest legal chunk and must
// encode successfully.
func TestMetadatumBoundedBytesSize64Succeeds(t *testing.T) {
	m := common.NewMetadatumBytes(bytes.Repeat([]byte{0x42}, 64))
	enc, err := m.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, byte(0x58), enc[0])
	require.Equal(t, byte(64), enc[1])

	var decoded common.Metadatum
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.True(t, decoded.Equal(m))
}

// The redeemers-empty-but-data-present branch of the script-data-hash
// rule: the pre-image is map(0) ++ encode(plutus-data-set) ++ map(0).
func TestScriptDataHashDataOnlyBranch(t *testing.T) {
	ws := common.NewWitnessSet()
	ws.PlutusData = common.NewSet(common.NewPlutusDataInt(big.NewInt(9)))
	tx := common.NewTransaction(*common.NewTransactionBody(), *ws, true, nil)

	models := common.NewCostModels()
	models.Set(common.CostModel{Language: common.PlutusV2, Ops: make([]int64, 175)})

	hash, ok, err := tx.ScriptDataHash(models)
	require.NoError(t, err)
	require.True(t, ok)

	setEnc, err := ws.PlutusData.MarshalElements(func(v common.PlutusData) ([]byte, error) {
		return v.MarshalCBOR()
	})
	require.NoError(t, err)
	var preimage []byte
	preimage = append(preimage, 0xa0)
	preimage = append(preimage, setEnc...)
	preimage = append(preimage, 0xa0)
	require.Equal(t, common.Blake2b256Hash(preimage), hash)
}

func TestAuxiliaryDataWithScriptsRoundTrips(t *testing.T) {
	meta := common.NewMetadatumLabelMap()
	meta.Set(674, common.NewMetadatumText("msg"))
	aux := common.AuxiliaryData{
		Metadata:      meta,
		NativeScripts: []common.NativeScript{common.NewInvalidAfterScript(99)},
		PlutusV2:      []common.PlutusScript{common.NewPlutusScript(common.PlutusV2, []byte{0x01, 0x02})},
	}

	enc, err := aux.MarshalCBOR()
	require.NoError(t, err)
	// Post-Mary shape: tag 259 (0xd9 0x0103) wrapping the component map.
	require.Equal(t, []byte{0xd9, 0x01, 0x03}, enc[:3])

	var decoded common.AuxiliaryData
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.NotNil(t, decoded.Metadata)
	v, ok := decoded.Metadata.Get(674)
	require.True(t, ok)
	require.Equal(t, "msg", v.Text)
	require.Len(t, decoded.NativeScripts, 1)
	require.Equal(t, common.NativeScriptInvalidAfter, decoded.NativeScripts[0].Type)
	require.Len(t, decoded.PlutusV2, 1)
	require.Equal(t, common.PlutusV2, decoded.PlutusV2[0].Language)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestRewardAddressHeaderAndBech32(t *testing.T) {
	cred := common.NewScriptCredential(blake224(0x0a))
	ra := common.NewRewardAddress(common.NetworkMainnet, cred)
	require.Equal(t, common.AddressKindStakeScript, ra.Kind())
	require.Equal(t, common.NetworkMainnet, ra.NetworkID())
	require.True(t, ra.IsStakeAddress())
	require.True(t, cred.Equal(ra.Credential()))

	s, err := ra.Bech32("stake")
	require.NoError(t, err)
	decoded, err := common.NewAddressFromBech32(s)
	require.NoError(t, err)
	require.Equal(t, ra.Bytes(), decoded.Bytes())
}

func TestNativeScriptEqual(t *testing.T) {
	a := common.NewNOfKScript(1,
		common.NewPubKeyScript(blake224(0x01)),
		common.NewInvalidBeforeScript(5),
	)
	b := common.NewNOfKScript(1,
		common.NewPubKeyScript(blake224(0x01)),
		common.NewInvalidBeforeScript(5),
	)
	require.True(t, a.Equal(b))

	c := common.NewNOfKScript(2,
		common.NewPubKeyScript(blake224(0x01)),
		common.NewInvalidBeforeScript(5),
	)
	require.False(t, a.Equal(c))
}
