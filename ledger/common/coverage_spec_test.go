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
	"testing"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
	common "github.com/blinklabs-io/cardano-ledger-codec/ledger/common"
	"github.com/stretchr/testify/require"
)

func blake224(b byte) common.Blake2b224 {
	var h common.Blake2b224
	for i := range h {
		h[i] = b
	}
	return h
}

func TestCertificateStakeRegistrationRoundTrips(t *testing.T) {
	cred := common.NewKeyCredential(blake224(0x01))
	c := common.Certificate{Type: common.CertStakeRegistration, StakeCredential: cred}

	enc, err := c.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.Certificate
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.CertStakeRegistration, decoded.Type)
	require.Equal(t, common.CredentialTypeKey, decoded.StakeCredential.Type)
	require.Equal(t, cred.Hash, decoded.StakeCredential.Hash)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

func TestCertificateRejectsUnknownVariant(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteStartArray(1)
	w.WriteUint(30)
	var c common.Certificate
	err := c.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindInvalidCertificateType, cerr.Kind)
}

func TestGovActionInfoRoundTrips(t *testing.T) {
	action := common.NewInfoAction()
	enc, err := action.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.GovAction
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, common.GovActionInfo, decoded.Type)

	enc2, err := decoded.MarshalCBOR()
	require.NoError(t, err)
	require.True(t, bytes.Equal(enc, enc2))
}

// An empty vkey-witness set is equivalent to absent on the wire: key 0
// must not appear in the encoded map.
func TestWitnessSetOmitsEmptyVkeyWitnesses(t *testing.T) {
	ws := common.WitnessSet{VkeyWitnesses: common.NewSet[common.VkeyWitness]()}
	enc, err := ws.MarshalCBOR()
	require.NoError(t, err)

	r := cbor.NewReader(enc)
	n, _, err := r.ReadStartMap()
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
}

func TestAuxiliaryDataMetadataOnlyRoundTrips(t *testing.T) {
	meta := common.NewMetadatumLabelMap()
	meta.Set(1, common.NewMetadatumText("hi"))
	aux := common.AuxiliaryData{Metadata: meta}

	enc, err := aux.MarshalCBOR()
	require.NoError(t, err)

	var decoded common.AuxiliaryData
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.NotNil(t, decoded.Metadata)
	v, ok := decoded.Metadata.Get(1)
	require.True(t, ok)
	require.Equal(t, "hi", v.Text)
}

// Native script JSON import, per the cardano-cli script document format.
func TestNativeScriptFromJSONAtLeast(t *testing.T) {
	keyHash := blake224(0x02)
	doc := []byte(`{
		"type": "atLeast",
		"required": 1,
		"scripts": [
			{"type": "sig", "keyHash": "` + hex.EncodeToString(keyHash[:]) + `"},
			{"type": "after", "slot": 100}
		]
	}`)

	script, err := common.NativeScriptFromJSON(doc)
	require.NoError(t, err)
	require.Equal(t, common.NativeScriptNOfK, script.Type)
	require.Equal(t, uint64(1), script.Required)
	require.Len(t, script.Scripts, 2)
	require.Equal(t, common.NativeScriptPubKey, script.Scripts[0].Type)
	require.Equal(t, common.NativeScriptInvalidBefore, script.Scripts[1].Type)
	require.Equal(t, uint64(100), script.Scripts[1].Slot)
}

func TestNativeScriptFromJSONRejectsUnknownType(t *testing.T) {
	_, err := common.NativeScriptFromJSON([]byte(`{"type": "bogus"}`))
	require.Error(t, err)
	cerr, ok := err.(*cbor.Error)
	require.True(t, ok)
	require.Equal(t, cbor.ErrorKindInvalidJSON, cerr.Kind)
}
