// Copyright (c) 2026 The protodef authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package protodef

import (
	"google.golang.org/protobuf/types/descriptorpb"
)

// EnumDef is the bidirectional name/value table for an enum type. Several
// names may alias one value; the first declared name for a value is its
// canonical representative in the value-to-name direction.
type EnumDef struct {
	def
	valuesByName map[string]int32
	namesByValue map[int32]string
	first        int32
}

var _ Def = (*EnumDef)(nil)

// NewEnumDef builds an enum definition from its descriptor. The caller
// retains ownership of the descriptor; the returned definition starts with
// one reference, held by the caller.
func NewEnumDef(
	ed *descriptorpb.EnumDescriptorProto,
	fullName string,
) (*EnumDef, error) {
	if ed == nil {
		return nil, errMalformedEnum(fullName, "nil enum descriptor")
	}
	values := ed.GetValue()
	if len(values) == 0 {
		return nil, errEmptyEnum(fullName)
	}

	e := &EnumDef{
		valuesByName: make(map[string]int32, len(values)),
		namesByValue: make(map[int32]string, len(values)),
	}
	e.initDef(KindEnum, fullName)
	for i, v := range values {
		name := v.GetName()
		if name == "" {
			return nil, errMalformedEnum(fullName, "entry has no name")
		}
		if v.Number == nil {
			return nil, errMalformedEnum(
				fullName, "entry '"+name+"' has no number",
			)
		}
		number := v.GetNumber()
		if _, dup := e.valuesByName[name]; dup {
			return nil, errDuplicateEnumName(fullName, name)
		}
		e.valuesByName[name] = number
		if _, ok := e.namesByValue[number]; !ok {
			e.namesByValue[number] = name
		}
		if i == 0 {
			e.first = number
		}
	}
	return e, nil
}

func (e *EnumDef) Unref() {
	if e.deref() {
		e.free()
	}
}

func (e *EnumDef) free() {
	e.valuesByName = nil
	e.namesByValue = nil
}

// ValueByName looks up an entry's value. O(1); ok is false on miss.
func (e *EnumDef) ValueByName(name string) (int32, bool) {
	v, ok := e.valuesByName[name]
	return v, ok
}

// NameByValue returns the canonical name for a value. O(1); ok is false on
// miss. When several names alias the value, the first declared name is
// returned, consistently across calls.
func (e *EnumDef) NameByValue(v int32) (string, bool) {
	name, ok := e.namesByValue[v]
	return name, ok
}

// NumEntries returns the number of named entries.
func (e *EnumDef) NumEntries() int {
	return len(e.valuesByName)
}
