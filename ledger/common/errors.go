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
)

// newCommonError builds a generic decoding-category *cbor.Error for
// conditions specific to this package's types but not already covered by
// a dedicated cbor.Reader "expect" method.
func newCommonError(format string, args ...any) *cbor.Error {
	return &cbor.Error{Kind: cbor.ErrorKindDecoding, Message: fmt.Sprintf(format, args...)}
}

// newKindError builds a *cbor.Error of the given kind.
func newKindError(kind cbor.ErrorKind, format string, args ...any) *cbor.Error {
	return &cbor.Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
