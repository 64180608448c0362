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
	"sort"

	"github.com/blinklabs-io/cardano-ledger-codec/cbor"
)

// languageOperationCount is the exact number of cost-model operations each
// Plutus language version defines. Decoding any other count fails.
var languageOperationCount = map[PlutusLanguage]int{
	PlutusV1: 166,
	PlutusV2: 175,
	PlutusV3: 179,
}

// CostModel is one language's flat list of signed per-operation cost
// coefficients, in the fixed order the ledger's cost-model CDDL mandates.
type CostModel struct {
	Language PlutusLanguage
	Ops      []int64
}

// GetCost returns the coefficient at index, or an index-out-of-bounds
// error when index is not in [0, len(Ops)).
func (c CostModel) GetCost(index int) (int64, error) {
	if index < 0 || index >= len(c.Ops) {
		return 0, cbor.ErrIndexOutOfBounds
	}
	return c.Ops[index], nil
}

func (c CostModel) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	w.WriteStartArray(len(c.Ops))
	for _, v := range c.Ops {
		w.WriteInt(v)
	}
	return w.Bytes(), nil
}

// CostModels is the sparse language→CostModel map carried by the
// protocol-parameter-update's cost-models field.
type CostModels struct {
	byLanguage map[PlutusLanguage]CostModel
}

func NewCostModels() *CostModels {
	return &CostModels{byLanguage: make(map[PlutusLanguage]CostModel)}
}

func (c *CostModels) Set(model CostModel) {
	if c.byLanguage == nil {
		c.byLanguage = make(map[PlutusLanguage]CostModel)
	}
	c.byLanguage[model.Language] = model
}

func (c *CostModels) Get(lang PlutusLanguage) (CostModel, bool) {
	m, ok := c.byLanguage[lang]
	return m, ok
}

func (c *CostModels) IsEmpty() bool { return len(c.byLanguage) == 0 }

func (c *CostModels) sortedLanguages() []PlutusLanguage {
	langs := make([]PlutusLanguage, 0, len(c.byLanguage))
	for l := range c.byLanguage {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

func (c *CostModels) MarshalCBOR() ([]byte, error) {
	w := cbor.NewWriter()
	langs := c.sortedLanguages()
	w.WriteStartMap(len(langs))
	for _, lang := range langs {
		w.WriteUint(uint64(lang))
		enc, err := c.byLanguage[lang].MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	}
	return w.Bytes(), nil
}

func (c *CostModels) UnmarshalCBOR(data []byte) error {
	r := cbor.NewReader(data)
	n, _, err := r.ReadStartMap()
	if err != nil {
		return err
	}
	models := make(map[PlutusLanguage]CostModel, n)
	for i := uint64(0); i < n; i++ {
		langVal, err := r.ExpectUintInRange("CostModels", "language", 0, 2)
		if err != nil {
			return err
		}
		lang := PlutusLanguage(langVal)
		if _, dup := models[lang]; dup {
			return newKindError(cbor.ErrorKindDuplicatedCborMapKey, "duplicate cost model language %d", lang)
		}
		opCount, _, err := r.ReadStartArray()
		if err != nil {
			return err
		}
		want, known := languageOperationCount[lang]
		if known && int(opCount) != want {
			return newKindError(
				cbor.ErrorKindInvalidPlutusCostModel,
				"cost model for %s has %d operations, expected %d",
				lang, opCount, want,
			)
		}
		ops := make([]int64, 0, opCount)
		for j := uint64(0); j < opCount; j++ {
			v, err := r.ReadInt("CostModels.op")
			if err != nil {
				return err
			}
			ops = append(ops, v)
		}
		if err := r.ExpectEndOfArray("CostModels.ops"); err != nil {
			return err
		}
		models[lang] = CostModel{Language: lang, Ops: ops}
	}
	if err := r.ExpectEndOfMap("CostModels"); err != nil {
		return err
	}
	c.byLanguage = models
	return nil
}

// LanguageViewsEncoding produces the script-data-hash pre-image component
// defined by the ledger's "language views" rule: each
// language's cost model is written under its numeric key in ascending
// order, except PlutusV1 whose cost-model array is additionally wrapped as
// a CBOR byte string — a historical encoder quirk from the Alonzo mainnet
// launch that must be preserved bit-for-bit for hash compatibility with
// already-settled blocks.
func (c *CostModels) LanguageViewsEncoding() ([]byte, error) {
	w := cbor.NewWriter()
	langs := c.sortedLanguages()
	w.WriteStartMap(len(langs))
	for _, lang := range langs {
		w.WriteUint(uint64(lang))
		model := c.byLanguage[lang]
		if lang == PlutusV1 {
			inner, err := model.MarshalCBOR()
			if err != nil {
				return nil, err
			}
			w.WriteBytes(inner)
			continue
		}
		enc, err := model.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(enc)
	}
	return w.Bytes(), nil
}
