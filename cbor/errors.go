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

package cbor

import "fmt"

// ErrorKind enumerates the error taxonomy surfaced by the codec core.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota
	ErrorKindPointerIsNull
	ErrorKindMemoryAllocationFailed
	ErrorKindUnexpectedCborType
	ErrorKindInvalidCborValue
	ErrorKindInvalidCborArraySize
	ErrorKindInvalidCborMapKey
	ErrorKindDuplicatedCborMapKey
	ErrorKindDecoding
	ErrorKindEncoding
	ErrorKindElementNotFound
	ErrorKindOutOfBoundsMemoryRead
	ErrorKindIndexOutOfBounds
	ErrorKindInvalidMetadatumConversion
	ErrorKindInvalidMetadatumTextStringSize
	ErrorKindInvalidMetadatumBoundedBytesSize
	ErrorKindInvalidCertificateType
	ErrorKindInvalidNativeScriptType
	ErrorKindInvalidScriptLanguage
	ErrorKindInvalidPlutusCostModel
	ErrorKindInvalidJSON
	ErrorKindInsufficientBufferSize
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindPointerIsNull:
		return "POINTER_IS_NULL"
	case ErrorKindMemoryAllocationFailed:
		return "MEMORY_ALLOCATION_FAILED"
	case ErrorKindUnexpectedCborType:
		return "UNEXPECTED_CBOR_TYPE"
	case ErrorKindInvalidCborValue:
		return "INVALID_CBOR_VALUE"
	case ErrorKindInvalidCborArraySize:
		return "INVALID_CBOR_ARRAY_SIZE"
	case ErrorKindInvalidCborMapKey:
		return "INVALID_CBOR_MAP_KEY"
	case ErrorKindDuplicatedCborMapKey:
		return "DUPLICATED_CBOR_MAP_KEY"
	case ErrorKindDecoding:
		return "DECODING"
	case ErrorKindEncoding:
		return "ENCODING"
	case ErrorKindElementNotFound:
		return "ELEMENT_NOT_FOUND"
	case ErrorKindOutOfBoundsMemoryRead:
		return "OUT_OF_BOUNDS_MEMORY_READ"
	case ErrorKindIndexOutOfBounds:
		return "INDEX_OUT_OF_BOUNDS"
	case ErrorKindInvalidMetadatumConversion:
		return "INVALID_METADATUM_CONVERSION"
	case ErrorKindInvalidMetadatumTextStringSize:
		return "INVALID_METADATUM_TEXT_STRING_SIZE"
	case ErrorKindInvalidMetadatumBoundedBytesSize:
		return "INVALID_METADATUM_BOUNDED_BYTES_SIZE"
	case ErrorKindInvalidCertificateType:
		return "INVALID_CERTIFICATE_TYPE"
	case ErrorKindInvalidNativeScriptType:
		return "INVALID_NATIVE_SCRIPT_TYPE"
	case ErrorKindInvalidScriptLanguage:
		return "INVALID_SCRIPT_LANGUAGE"
	case ErrorKindInvalidPlutusCostModel:
		return "INVALID_PLUTUS_COST_MODEL"
	case ErrorKindInvalidJSON:
		return "INVALID_JSON"
	case ErrorKindInsufficientBufferSize:
		return "INSUFFICIENT_BUFFER_SIZE"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type returned by every decode/encode operation in this
// module. It carries the structured Kind alongside a human-readable
// "last-error" message, matching the taxonomy in the ledger codec's error
// handling design: callers inspect Kind programmatically and may surface
// Message for diagnostics, but the library itself never logs or retries.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// newError builds an *Error with a message already in its final form.
func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// decodingMismatchError formats the contractual error message shape used by
// every Validator "expect" method:
//
//	There was an error decoding 'validator', expected 'expectedName' (N) but got 'actualName' (M).
func decodingMismatchError(
	kind ErrorKind,
	validator string,
	expectedName string,
	expectedNumeric int64,
	actualName string,
	actualNumeric int64,
) *Error {
	return newError(
		kind,
		"There was an error decoding '%s', expected '%s' (%d) but got '%s' (%d).",
		validator,
		expectedName,
		expectedNumeric,
		actualName,
		actualNumeric,
	)
}

// ErrElementNotFound is returned by map/collection lookups that miss.
var ErrElementNotFound = newError(ErrorKindElementNotFound, "element not found")

// ErrIndexOutOfBounds is returned when a collection index exceeds its length.
var ErrIndexOutOfBounds = newError(ErrorKindIndexOutOfBounds, "index out of bounds")
