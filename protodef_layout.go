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
	"cmp"
	"slices"

	"google.golang.org/protobuf/types/descriptorpb"
)

// refSize is the storage footprint of a heap reference slot (array,
// string, or submessage).
const refSize = 8

// storageSizeOf returns the inline storage footprint of a field. Storage
// alignment equals storage size for every supported width.
func storageSizeOf(f *FieldDef) uint32 {
	if f.NeedsHeapStorage() {
		return refSize
	}
	switch f.fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return 1
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return 4
	default:
		return 8
	}
}

func alignUp(off, alignment uint32) uint32 {
	return (off + alignment - 1) &^ (alignment - 1)
}

// layoutFields assigns each field a byte offset into the instance storage
// and a presence-bit index, and returns the derived layout scalars.
//
// The presence bitmap occupies the first presenceBytes bytes of an
// instance, one bit per field. Required fields are assigned the indices
// [0, numRequired) as a contiguous prefix, in declaration order, so that a
// missing-required-field check only has to scan that prefix. This prefix
// invariant holds in both layout modes and must be preserved exactly.
//
// When reordering is permitted, fields are packed by decreasing storage
// alignment, ties broken by declaration order. The packing order is an
// implementation detail and may change between releases. When reordering
// is disallowed (external code was compiled against a fixed layout),
// offsets follow descriptor-declared order.
func layoutFields(
	fields []FieldDef,
	allowReorder bool,
) (size, presenceBytes, numRequired uint32) {
	order := make([]*FieldDef, len(fields))
	for i := range fields {
		order[i] = &fields[i]
	}
	if allowReorder {
		slices.SortStableFunc(order, func(a, b *FieldDef) int {
			return cmp.Compare(storageSizeOf(b), storageSizeOf(a))
		})
	}

	var bit uint16
	for i := range fields {
		if fields[i].IsRequired() {
			fields[i].presence = bit
			bit++
		}
	}
	numRequired = uint32(bit)
	for i := range fields {
		if !fields[i].IsRequired() {
			fields[i].presence = bit
			bit++
		}
	}

	presenceBytes = (uint32(len(fields)) + 7) / 8
	off := presenceBytes
	maxAlign := uint32(1)
	for _, f := range order {
		s := storageSizeOf(f)
		if s > maxAlign {
			maxAlign = s
		}
		off = alignUp(off, s)
		f.offset = off
		off += s
	}
	size = alignUp(off, maxAlign)
	return size, presenceBytes, numRequired
}
