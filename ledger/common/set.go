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

// tagSet is the CBOR tag (258) marking a following array as a
// mathematical set.
const tagSet = 258

// Set is a logical set of T that tracks whether the CBOR it was decoded
// from used tag 258, replaying that choice verbatim on re-encode. New
// in-memory sets default UsesTag258 to true. If Less is set, items are
// sorted by it before every encode; otherwise encode order follows
// insertion/decode order.
type Set[T any] struct {
	Items      []T
	UsesTag258 bool
	Less       func(a, b T) bool
}

// NewSet builds an in-memory set defaulting to tag-258 framing.
func NewSet[T any](items ...T) *Set[T] {
	return &Set[T]{Items: items, UsesTag258: true}
}

// Add appends an item, preserving insertion order until/unless Less
// forces a sort at encode time.
func (s *Set[T]) Add(item T) { s.Items = append(s.Items, item) }

// Len returns the number of items.
func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// sorted returns Items in encode order (sorted by Less, if set).
func (s *Set[T]) sorted() []T {
	if s == nil {
		return nil
	}
	if s.Less == nil {
		return s.Items
	}
	out := make([]T, len(s.Items))
	copy(out, s.Items)
	sort.SliceStable(out, func(i, j int) bool { return s.Less(out[i], out[j]) })
	return out
}

// MarshalElements writes the set's CBOR framing (tag 258 iff UsesTag258)
// around elements already encoded into raw by encode, called once per
// item in the set's encode-time order. A nil receiver encodes as an
// empty tag-258 set, the default framing for values never decoded from
// the wire.
func (s *Set[T]) MarshalElements(encode func(T) ([]byte, error)) ([]byte, error) {
	if s == nil {
		s = &Set[T]{UsesTag258: true}
	}
	w := cbor.NewWriter()
	items := s.sorted()
	if s.UsesTag258 {
		w.WriteTag(tagSet)
	}
	w.WriteStartArray(len(items))
	for _, item := range items {
		raw, err := encode(item)
		if err != nil {
			return nil, err
		}
		w.WriteEncoded(raw)
	}
	return w.Bytes(), nil
}

// UnmarshalSet reads a set that may or may not be wrapped in tag 258,
// recording which form was used so MarshalElements can replay it,
// delegating each element to decode.
func UnmarshalSet[T any](r *cbor.Reader, validator string, decode func(*cbor.Reader) (T, error)) (*Set[T], error) {
	usesTag := false
	if tag, ok, err := r.PeekTag(); err != nil {
		return nil, err
	} else if ok && tag == tagSet {
		if _, err := r.ReadTag(validator); err != nil {
			return nil, err
		}
		usesTag = true
	}
	count, _, err := r.ReadStartArray()
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := decode(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := r.ExpectEndOfArray(validator); err != nil {
		return nil, err
	}
	return &Set[T]{Items: items, UsesTag258: usesTag}, nil
}
