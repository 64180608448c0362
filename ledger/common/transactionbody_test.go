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
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
	common "github.com/blinklabs-io/cardano-ledger-codec/ledger/common"
	"github.com/stretchr/testify/require"
)

// A body {0: tag258([]), 1: [], 2: 0} decoded then encoded must
// reproduce the exact bytes.
func TestTransactionBodyScenario1RoundTripsExactBytes(t *testing.T) {
	data, err := hex.DecodeString("a3" + "00" + "d90102" + "80" + "01" + "80" + "02" + "00")
	require.NoError(t, err)
	var body common.TransactionBody
	require.NoError(t, body.UnmarshalCBOR(data))
	require.Equal(t, uint64(0), body.Fee)
	require.Equal(t, 0, body.Inputs.Len())
	require.True(t, body.Inputs.UsesTag258)

	enc, err := body.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, enc), "expected %x got %x", data, enc)
}

// Inputs, outputs, and fee are required body keys: a freshly built body
// emits all three even when inputs are nil or an empty set, unlike the
// witness set's empty-collection-is-absent behavior.
func TestTransactionBodyAlwaysEmitsRequiredKeys(t *testing.T) {
	want, err := hex.DecodeString("a3" + "00" + "d90102" + "80" + "01" + "80" + "02" + "00")
	require.NoError(t, err)

	fresh := common.NewTransactionBody()
	enc, err := fresh.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(want, enc), "expected %x got %x", want, enc)

	emptied := common.NewTransactionBody()
	emptied.SetInputs(common.NewSet[common.TransactionInput]())
	enc, err = emptied.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(want, enc), "expected %x got %x", want, enc)
}

// Transaction body map keys 10 and 12 are reserved and must fail with
// the invalid-map-key error.
func TestTransactionBodyRejectsReservedKeys(t *testing.T) {
	for _, key := range []byte{10, 12} {
		w := cbor.NewWriter()
		w.WriteStartMap(1)
		w.WriteUint(uint64(key))
		w.WriteUint(0)
		var body common.TransactionBody
		err := body.UnmarshalCBOR(w.Bytes())
		require.Error(t, err)
		cerr, ok := err.(*cbor.Error)
		require.True(t, ok)
		require.Equal(t, cbor.ErrorKindInvalidCborMapKey, cerr.Kind)
	}
}

// A transaction body with map key 0 appearing twice must fail with the
// duplicated-map-key error.
func TestTransactionBodyRejectsDuplicateKey(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteStartMap(2)
	w.WriteUint(0)
	w.WriteTag(258)
	w.WriteStartArray(0)
	w.WriteUint(0)
	w.WriteTag(258)
	w.WriteStartArray(0)
	var body common.TransactionBody
	err := body.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindDuplicatedCborMapKey, cerr.Kind)
}

// Mutation clears the bytes cache, forcing canonical re-emission rather
// than the stashed decode bytes.
func TestTransactionBodyMutationInvalidatesCache(t *testing.T) {
	data, err := hex.DecodeString("a3" + "00" + "d90102" + "80" + "01" + "80" + "02" + "00")
	require.NoError(t, err)
	var body common.TransactionBody
	require.NoError(t, body.UnmarshalCBOR(data))

	body.SetFee(5)
	enc, err := body.MarshalCBOR()
	require.NoError(t, err)
	require.False(t, bytes.Equal(data, enc))

	var reDecoded common.TransactionBody
	require.NoError(t, reDecoded.UnmarshalCBOR(enc))
	require.Equal(t, uint64(5), reDecoded.Fee)
}

func sampleTxIn(b byte, idx uint32) common.TransactionInput {
	var h common.Blake2b256
	for i := range h {
		h[i] = b
	}
	return common.NewTransactionInput(h, idx)
}

func sampleOutput(addrByte byte, coin uint64) common.TransactionOutput {
	addr := common.Address{}
	_ = addrByte
	return common.TransactionOutput{
		Address: addr,
		Amount:  common.NewCoinOnlyValue(coin),
	}
}

// A body built in memory round trips semantically through decode(encode(v)).
func TestTransactionBodyBuilderRoundTrip(t *testing.T) {
	body := common.NewTransactionBody()
	inputs := common.NewSet(sampleTxIn(0xaa, 0), sampleTxIn(0xbb, 1))
	body.SetInputs(inputs)
	body.SetOutputs([]common.TransactionOutput{sampleOutput(0x01, 1000000)})
	body.SetFee(200000)

	enc, err := body.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.TransactionBody
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, body.Fee, decoded.Fee)
	require.Equal(t, body.Inputs.Len(), decoded.Inputs.Len())
	require.Len(t, decoded.Outputs, 1)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestTransactionRoundTrip(t *testing.T) {
	body := common.NewTransactionBody()
	body.SetInputs(common.NewSet(sampleTxIn(0x01, 0)))
	body.SetOutputs([]common.TransactionOutput{sampleOutput(0x02, 5000000)})
	body.SetFee(170000)

	tx := common.NewTransaction(*body, *common.NewWitnessSet(), true, nil)
	enc, err := tx.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.Transaction
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.True(t, decoded.IsValid)
	require.Nil(t, decoded.AuxiliaryData)
	require.Equal(t, tx.Body.Fee, decoded.Body.Fee)

	hash1, err := tx.BodyHash()
	require.NoError(t, err)
	hash2, err := decoded.BodyHash()
	require.NoError(t, err)
	require.Equal(t, hash1, hash2)
}

// No redeemers and no Plutus data means no script data hash applies,
// regardless of known cost models.
func TestScriptDataHashAbsentWhenNoRedeemersOrData(t *testing.T) {
	body := common.NewTransactionBody()
	body.SetInputs(common.NewSet[common.TransactionInput]())
	body.SetOutputs(nil)
	tx := common.NewTransaction(*body, *common.NewWitnessSet(), true, nil)

	models := common.NewCostModels()
	models.Set(common.CostModel{Language: common.PlutusV1, Ops: make([]int64, 166)})

	_, ok, err := tx.ScriptDataHash(models)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScriptDataHashAbsentWhenNoCostModelsKnown(t *testing.T) {
	body := common.NewTransactionBody()
	tx := common.NewTransaction(*body, *common.NewWitnessSet(), true, nil)
	_, ok, err := tx.ScriptDataHash(common.NewCostModels())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScriptDataHashWithRedeemers(t *testing.T) {
	body := common.NewTransactionBody()
	ws := common.NewWitnessSet()
	ws.Redeemers = []common.Redeemer{
		{
			Tag:     common.RedeemerTagSpend,
			Index:   0,
			Data:    common.PlutusData{Kind: common.PlutusDatumBigInt, Int: big.NewInt(42)},
			ExUnits: common.ExUnits{Memory: 100, Steps: 200},
		},
	}
	tx := common.NewTransaction(*body, *ws, true, nil)

	models := common.NewCostModels()
	models.Set(common.CostModel{Language: common.PlutusV1, Ops: make([]int64, 166)})

	hash, ok, err := tx.ScriptDataHash(models)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, common.Blake2b256{}, hash)
}
