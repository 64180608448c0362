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

// An auxiliary-data metadata map with label 42, looked up
// by label after a decode/encode round trip.
func TestMetadatumLabelMapLookupRoundTrips(t *testing.T) {
	m := common.NewMetadatumLabelMap()
	m.Set(42, common.NewMetadatumText("hello"))

	enc, err := m.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.MetadatumLabelMap
	require.NoError(t, decoded.UnmarshalCBOR(enc))

	v, ok := decoded.Get(42)
	require.True(t, ok)
	require.Equal(t, common.MetadatumText, v.Kind)
	require.Equal(t, "hello", v.Text)

	_, ok = decoded.Get(7)
	require.False(t, ok)
}

func TestMetadatumLabelMapRejectsDuplicateLabel(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteStartMap(2)
	w.WriteUint(1)
	w.WriteUint(10)
	w.WriteUint(1)
	w.WriteUint(20)
	var m common.MetadatumLabelMap
	err := m.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindDuplicatedCborMapKey, cerr.Kind)
}

func TestMetadatumBoundedBytesRejectsOversize(t *testing.T) {
	m := common.NewMetadatumBytes(make([]byte, 65))
	_, err := m.MarshalCBOR()
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindInvalidMetadatumBoundedBytesSize, cerr.Kind)
}

// A multi-asset bundle inserted out of lex order must
// still encode with assets sorted byte-lex ascending, independent of
// insertion order.
func TestMultiAssetEncodesAssetNamesInLexOrder(t *testing.T) {
	var p common.Blake2b224
	for i := range p {
		p[i] = 0x01
	}

	var m common.MultiAsset[uint64]
	m.Set(p, cbor.NewByteString([]byte("zzz")), 1)
	m.Set(p, cbor.NewByteString([]byte("aaa")), 2)
	m.Set(p, cbor.NewByteString([]byte("mmm")), 3)

	names := m.AssetNames(p)
	require.Len(t, names, 3)
	require.Equal(t, []byte("aaa"), names[0].Bytes())
	require.Equal(t, []byte("mmm"), names[1].Bytes())
	require.Equal(t, []byte("zzz"), names[2].Bytes())

	var reversed common.MultiAsset[uint64]
	reversed.Set(p, cbor.NewByteString([]byte("mmm")), 3)
	reversed.Set(p, cbor.NewByteString([]byte("zzz")), 1)
	reversed.Set(p, cbor.NewByteString([]byte("aaa")), 2)

	enc1, err := m.MarshalCBOR()
	require.NoError(t, err)
	enc2, err := reversed.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc1, enc2), "insertion order must not affect encoding")
}

// A Plutus data integer 0 round trips to the single
// CBOR byte 0x00.
func TestPlutusDataIntegerZeroEncodesSingleByte(t *testing.T) {
	d := common.NewPlutusDataInt(big.NewInt(0))
	enc, err := d.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, enc)

	var decoded common.PlutusData
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.PlutusDatumBigInt, decoded.Kind)
	require.Equal(t, int64(0), decoded.Int.Int64())
}

// GetCost on a PlutusV3 cost model with exactly 179 operations is
// bounds-checked: GetCost(178) is the last valid index; GetCost(179) is
// out of bounds.
func TestCostModelV3BoundaryOperationCount(t *testing.T) {
	ops := make([]int64, 179)
	for i := range ops {
		ops[i] = int64(i)
	}
	cm := common.CostModel{Language: common.PlutusV3, Ops: ops}

	v, err := cm.GetCost(178)
	require.NoError(t, err)
	require.Equal(t, int64(178), v)

	_, err = cm.GetCost(179)
	require.ErrorIs(t, err, cbor.ErrIndexOutOfBounds)
}

func TestCostModelsIsEmptyAndLanguageViews(t *testing.T) {
	models := common.NewCostModels()
	require.True(t, models.IsEmpty())

	models.Set(common.CostModel{Language: common.PlutusV1, Ops: make([]int64, 166)})
	require.False(t, models.IsEmpty())

	got, ok := models.Get(common.PlutusV1)
	require.True(t, ok)
	require.Len(t, got.Ops, 166)

	enc, err := models.LanguageViewsEncoding()
	require.NoError(t, err)
	require.NotEmpty(t, enc)
}

func TestNativeScriptHashIsStableAndVariesByContent(t *testing.T) {
	var kh common.Blake2b224
	for i := range kh {
		kh[i] = 0x07
	}
	s1 := common.NewPubKeyScript(kh)
	h1, err := s1.Hash()
	require.NoError(t, err)
	h2, err := s1.Hash()
	require.NoError(t, err)
	require.Equal(t, h1, h2)

	kh2 := kh
	kh2[0] = 0x08
	s2 := common.NewPubKeyScript(kh2)
	h3, err := s2.Hash()
	require.NoError(t, err)
	require.NotEqual(t, h1, h3)
}

func TestNativeScriptNOfKRoundTrip(t *testing.T) {
	var kh common.Blake2b224
	for i := range kh {
		kh[i] = 0x09
	}
	leaf := common.NewPubKeyScript(kh)
	script := common.NewNOfKScript(1, leaf, common.NewInvalidBeforeScript(100))

	enc, err := script.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.NativeScript
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.NativeScriptNOfK, decoded.Type)
	require.Equal(t, uint64(1), decoded.Required)
	require.Len(t, decoded.Scripts, 2)
	require.Equal(t, common.NativeScriptPubKey, decoded.Scripts[0].Type)
	require.Equal(t, common.NativeScriptInvalidBefore, decoded.Scripts[1].Type)
	require.Equal(t, uint64(100), decoded.Scripts[1].Slot)
}
