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

// State is the shape of the next CBOR item in a Reader, used by callers
// that dispatch on shape rather than on a leading integer discriminator
// (metadatum is the prototypical example: map/list/int/bytes/text).
type State int

const (
	StateInvalid State = iota
	StateUnsignedInt
	StateNegativeInt
	StateByteString
	StateTextString
	StateArray
	StateMap
	StateTag
	StateBool
	StateNull
	StateFloat
	StateBreak
)

func (s State) String() string {
	switch s {
	case StateUnsignedInt:
		return "unsigned integer"
	case StateNegativeInt:
		return "negative integer"
	case StateByteString:
		return "byte string"
	case StateTextString:
		return "text string"
	case StateArray:
		return "array"
	case StateMap:
		return "map"
	case StateTag:
		return "tag"
	case StateBool:
		return "bool"
	case StateNull:
		return "null"
	case StateFloat:
		return "float"
	case StateBreak:
		return "break"
	default:
		return "invalid"
	}
}

func stateOf(h header) State {
	switch h.major {
	case majorUint:
		return StateUnsignedInt
	case majorNegInt:
		return StateNegativeInt
	case majorBytes:
		return StateByteString
	case majorText:
		return StateTextString
	case majorArray:
		return StateArray
	case majorMap:
		return StateMap
	case majorTag:
		return StateTag
	case majorSimple:
		switch {
		case h.indefinite:
			return StateBreak
		case h.arg == simpleTrue || h.arg == simpleFalse:
			return StateBool
		case h.arg == simpleNull || h.arg == simpleUndef:
			return StateNull
		case h.arg == simpleFloat2 || h.arg == simpleFloat4 || h.arg == simpleFloat8:
			return StateFloat
		default:
			return StateInvalid
		}
	default:
		return StateInvalid
	}
}
