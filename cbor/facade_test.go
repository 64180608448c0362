// Copyright 2025 Blink Labs Software
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

package cbor_test

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// An indefinite-length array is tolerated where a fixed size is expected,
// provided the element count matches: some producers emit 9f...ff framing
// for arrays the CDDL declares with a fixed arity.
func TestExpectArrayOfNToleratesIndefiniteLength(t *testing.T) {
	// 9f 01 02 ff -- indefinite array [1, 2]
	data := mustHex(t, "9f0102ff")
	r := cbor.NewReader(data)
	require.NoError(t, r.ExpectArrayOfN("test", 2))
	a, err := r.ReadUint("a")
	require.NoError(t, err)
	require.Equal(t, uint64(1), a)
	b, err := r.ReadUint("b")
	require.NoError(t, err)
	require.Equal(t, uint64(2), b)
	require.NoError(t, r.ExpectEndOfArray("test"))
}

func TestExpectArrayOfNWrongIndefiniteCountFails(t *testing.T) {
	// 9f 01 02 03 ff -- indefinite array [1, 2, 3], but 2 expected
	data := mustHex(t, "9f010203ff")
	r := cbor.NewReader(data)
	err := r.ExpectArrayOfN("test", 2)
	require.Error(t, err)
	var cerr *cbor.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, cbor.ErrorKindInvalidCborArraySize, cerr.Kind)
}

func TestExpectArrayOfNDefiniteWrongSize(t *testing.T) {
	// 82 01 02 -- definite array [1, 2], but 3 expected
	data := mustHex(t, "820102")
	r := cbor.NewReader(data)
	err := r.ExpectArrayOfN("TestType", 3)
	require.Error(t, err)
	require.Contains(
		t,
		err.Error(),
		"There was an error decoding 'TestType', expected 'array of fixed size' (3) but got 'array of different size' (2).",
	)
}

func TestExpectUintInRangeOutOfBounds(t *testing.T) {
	// 18 ff -- unsigned 255
	data := mustHex(t, "18ff")
	r := cbor.NewReader(data)
	_, err := r.ExpectUintInRange("NetworkID", "value", 0, 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "NetworkID.value")
}

func TestExpectByteStringSizeMismatch(t *testing.T) {
	// 42 ab cd -- 2-byte string, expecting 28
	data := mustHex(t, "42abcd")
	r := cbor.NewReader(data)
	_, err := r.ExpectByteString("Hash", "payload", 28)
	require.Error(t, err)
	var cerr *cbor.Error
	require.True(t, errors.As(err, &cerr))
	require.Equal(t, cbor.ErrorKindInvalidCborArraySize, cerr.Kind)
}

func TestExpectTagMismatch(t *testing.T) {
	// d8 1e -- tag 30
	data := mustHex(t, "d81e01")
	r := cbor.NewReader(data)
	err := r.ExpectTag("Rat", 99)
	require.Error(t, err)
}

// A minimal transaction-body-shaped map (empty tagged input set, empty
// outputs, fee 0) reads back as a map header of three key/value pairs.
func TestEmptyBodyLikeMapHeaderCount(t *testing.T) {
	data := mustHex(t, "a3" + "00" + "d90102" + "80" + "01" + "80" + "02" + "00")
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
}

func TestRatRoundTrip(t *testing.T) {
	r := cbor.NewRat(1, 2)
	enc, err := r.MarshalCBOR()
	require.NoError(t, err)
	var decoded cbor.Rat
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, int64(1), decoded.Num().Int64())
	require.Equal(t, int64(2), decoded.Denom().Int64())
}

func TestRatZeroDenominatorRejected(t *testing.T) {
	var r cbor.Rat
	r.Rat = nil
	w := cbor.NewWriter()
	w.WriteTag(30)
	w.WriteStartArray(2)
	w.WriteUint(1)
	w.WriteUint(0)
	var decoded cbor.Rat
	err := decoded.UnmarshalCBOR(w.Bytes())
	require.Error(t, err)
}

func TestByteStringRoundTrip(t *testing.T) {
	bs := cbor.NewByteString([]byte{0xde, 0xad, 0xbe, 0xef})
	enc, err := bs.MarshalCBOR()
	require.NoError(t, err)
	var decoded cbor.ByteString
	require.NoError(t, decoded.UnmarshalCBOR(enc))
	require.Equal(t, bs.Bytes(), decoded.Bytes())
}

func TestExpectEnumMismatchUsesStringifier(t *testing.T) {
	names := func(v uint64) string {
		if v == 0 {
			return "testnet"
		}
		return "mainnet"
	}
	r := cbor.NewReader([]byte{0x01})
	err := r.ExpectEnum("NetworkID", 0, names)
	require.Error(t, err)
	require.Contains(t, err.Error(), "'testnet' (0)")
	require.Contains(t, err.Error(), "'mainnet' (1)")
	require.Equal(t, err.Error(), r.LastError())
}

func TestCloneReadsIndependently(t *testing.T) {
	data := mustHex(t, "820102")
	r := cbor.NewReader(data)
	peek := r.Clone()
	_, _, err := peek.ReadStartArray()
	require.NoError(t, err)
	first, err := peek.ReadUint("peek")
	require.NoError(t, err)
	require.Equal(t, uint64(1), first)

	// The original reader is still positioned at the array start.
	state, err := r.PeekState()
	require.NoError(t, err)
	require.Equal(t, cbor.StateArray, state)
}

func TestEncodeDecodeEntryPoints(t *testing.T) {
	// Marshaler/Unmarshaler implementations route through their own methods.
	enc, err := cbor.Encode(cbor.NewRat(3, 4))
	require.NoError(t, err)
	var r cbor.Rat
	n, err := cbor.Decode(enc, &r)
	require.NoError(t, err)
	require.Equal(t, len(enc), n)
	require.Equal(t, int64(3), r.Num().Int64())

	// Plain Go values fall back to the generic codec.
	enc, err = cbor.Encode(uint64(7))
	require.NoError(t, err)
	require.Equal(t, []byte{0x07}, enc)
	var v uint64
	_, err = cbor.Decode(enc, &v)
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
}

func TestTagWrapsEncodedContent(t *testing.T) {
	inner := cbor.NewWriter()
	inner.WriteStartArray(0)
	tag := cbor.Tag{Number: 258, Content: inner.Bytes()}
	enc, err := tag.MarshalCBOR()
	require.NoError(t, err)
	require.Equal(t, mustHex(t, "d9010280"), enc)
}

func TestDecodeStoreCborClearedOnMutation(t *testing.T) {
	var d cbor.DecodeStoreCbor
	require.False(t, d.HasCbor())
	d.SetCbor([]byte{0x01, 0x02})
	require.True(t, d.HasCbor())
	require.Equal(t, []byte{0x01, 0x02}, d.Cbor())
	d.ClearCbor()
	require.False(t, d.HasCbor())
	require.Nil(t, d.Cbor())
}
