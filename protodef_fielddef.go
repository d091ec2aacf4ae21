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
	"encoding/binary"
	"math"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// StorageKind classifies how a message instance stores a field that lives
// in separately owned memory. The message layer uses it to decide cleanup
// and copy behavior; this layer only classifies, it never allocates or
// frees instance data.
type StorageKind uint8

const (
	StorageArray StorageKind = iota + 1
	StorageString
	StorageMessage
)

// FieldDef describes a single field of a message. It is not a Def in its
// own right: it cannot stand alone, and is exclusively owned by the MsgDef
// whose field array it lives in.
type FieldDef struct {
	fieldType descriptorpb.FieldDescriptorProto_Type
	label     descriptorpb.FieldDescriptorProto_Label
	number    int32
	name      string

	// Layout slots, assigned by the owning MsgDef.
	offset   uint32
	presence uint16

	// For submessage- and enum-typed fields, the target definition. Holds
	// an UnresolvedDef between construction and SetRef; nil for scalar
	// fields. The field owns one reference.
	target Def

	defaultText string
}

func isSubmessageType(t descriptorpb.FieldDescriptorProto_Type) bool {
	return t == descriptorpb.FieldDescriptorProto_TYPE_MESSAGE ||
		t == descriptorpb.FieldDescriptorProto_TYPE_GROUP
}

func isStringType(t descriptorpb.FieldDescriptorProto_Type) bool {
	return t == descriptorpb.FieldDescriptorProto_TYPE_STRING ||
		t == descriptorpb.FieldDescriptorProto_TYPE_BYTES
}

// init populates the field from its descriptor. The target reference is
// left unresolved; linking is a separate phase because sibling definitions
// may not exist yet.
func (f *FieldDef) init(
	msgName string,
	fd *descriptorpb.FieldDescriptorProto,
) error {
	if fd == nil {
		return errMalformedField(msgName, "", "nil field descriptor")
	}
	name := fd.GetName()
	if name == "" {
		return errMalformedField(msgName, "", "field has no name")
	}
	if fd.Number == nil {
		return errMalformedField(msgName, name, "field has no number")
	}
	number := fd.GetNumber()
	if number < 1 {
		return errMalformedField(
			msgName, name,
			"field number "+strconv.FormatInt(int64(number), 10)+
				" is out of range",
		)
	}
	if fd.Type == nil {
		return errMalformedField(msgName, name, "field has no type")
	}
	fieldType := fd.GetType()
	if _, ok := descriptorpb.FieldDescriptorProto_Type_name[int32(fieldType)]; !ok {
		return errMalformedField(msgName, name, "unknown field type")
	}
	label := fd.GetLabel()
	if _, ok := descriptorpb.FieldDescriptorProto_Label_name[int32(label)]; !ok {
		return errMalformedField(msgName, name, "unknown field label")
	}

	needsTarget := isSubmessageType(fieldType) ||
		fieldType == descriptorpb.FieldDescriptorProto_TYPE_ENUM
	typeName := fd.GetTypeName()
	if needsTarget && typeName == "" {
		return errMalformedField(msgName, name, "field has no type name")
	}
	if !needsTarget && typeName != "" {
		return errMalformedField(
			msgName, name, "scalar field has a type name",
		)
	}

	f.fieldType = fieldType
	f.label = label
	f.number = number
	f.name = name
	f.defaultText = fd.GetDefaultValue()
	if f.defaultText != "" && (f.IsRepeated() || f.IsSubmessage()) {
		return errMalformedField(
			msgName, name, "only scalar fields may have a default value",
		)
	}
	if needsTarget {
		f.target = NewUnresolved(typeName)
	}
	return nil
}

// uninit releases the owned target reference, if any.
func (f *FieldDef) uninit() {
	if f.target != nil {
		f.target.Unref()
		f.target = nil
	}
}

func (f *FieldDef) Name() string {
	return f.name
}

func (f *FieldDef) Number() int32 {
	return f.number
}

func (f *FieldDef) Type() descriptorpb.FieldDescriptorProto_Type {
	return f.fieldType
}

func (f *FieldDef) Label() descriptorpb.FieldDescriptorProto_Label {
	return f.label
}

// Offset is the byte offset of the field's storage within an instance of
// the owning message.
func (f *FieldDef) Offset() uint32 {
	return f.offset
}

// PresenceIndex is the index of the field's presence bit. Required fields
// occupy the indices below MsgDef.NumRequiredFields.
func (f *FieldDef) PresenceIndex() uint16 {
	return f.presence
}

// Target returns the field's message or enum definition: nil for scalar
// fields, an *UnresolvedDef before linking, and the linked definition
// afterward.
func (f *FieldDef) Target() Def {
	return f.target
}

func (f *FieldDef) IsSubmessage() bool {
	return isSubmessageType(f.fieldType)
}

func (f *FieldDef) IsString() bool {
	return isStringType(f.fieldType)
}

func (f *FieldDef) IsRepeated() bool {
	return f.label == descriptorpb.FieldDescriptorProto_LABEL_REPEATED
}

func (f *FieldDef) IsRequired() bool {
	return f.label == descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
}

// NeedsHeapStorage reports whether an instance stores this field as a
// reference into separately owned memory rather than an inline scalar.
func (f *FieldDef) NeedsHeapStorage() bool {
	return f.IsRepeated() || f.IsString() || f.IsSubmessage()
}

// ElementNeedsHeapStorage reports whether the elements of a repeated field
// are themselves references into separately owned memory.
func (f *FieldDef) ElementNeedsHeapStorage() bool {
	return f.IsString() || f.IsSubmessage()
}

// StorageKind is defined only when NeedsHeapStorage holds.
func (f *FieldDef) StorageKind() StorageKind {
	switch {
	case f.IsRepeated():
		return StorageArray
	case f.IsString():
		return StorageString
	case f.IsSubmessage():
		return StorageMessage
	}
	panic("protodef: StorageKind of field with inline storage")
}

// ElementStorageKind is defined only when ElementNeedsHeapStorage holds.
func (f *FieldDef) ElementStorageKind() StorageKind {
	switch {
	case f.IsString():
		return StorageString
	case f.IsSubmessage():
		return StorageMessage
	}
	panic("protodef: ElementStorageKind of field with inline elements")
}

// writeDefault parses the descriptor's default value and writes it into
// the owning message's default-instance template. Heap-storage fields keep
// a zero (null) reference; enum defaults are deferred until the target
// EnumDef is known.
func (f *FieldDef) writeDefault(msgName string, template []byte) error {
	if f.defaultText == "" || f.NeedsHeapStorage() {
		return nil
	}
	slot := template[f.offset:]
	switch f.fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		switch f.defaultText {
		case "true":
			slot[0] = 1
		case "false":
			slot[0] = 0
		default:
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
	case descriptorpb.FieldDescriptorProto_TYPE_INT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		v, err := strconv.ParseInt(f.defaultText, 10, 32)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint32(slot, uint32(int32(v)))
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		v, err := strconv.ParseUint(f.defaultText, 10, 32)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint32(slot, uint32(v))
	case descriptorpb.FieldDescriptorProto_TYPE_INT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		v, err := strconv.ParseInt(f.defaultText, 10, 64)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint64(slot, uint64(v))
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		v, err := strconv.ParseUint(f.defaultText, 10, 64)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint64(slot, v)
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		v, err := strconv.ParseFloat(f.defaultText, 32)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint32(slot, math.Float32bits(float32(v)))
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		v, err := strconv.ParseFloat(f.defaultText, 64)
		if err != nil {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
		binary.LittleEndian.PutUint64(slot, math.Float64bits(v))
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		// Resolved at SetRef time, once the EnumDef exists.
	}
	return nil
}

// writeEnumDefault patches the enum field's default into the template. An
// enum field with no explicit default takes the enum's first declared
// value.
func (f *FieldDef) writeEnumDefault(
	msgName string,
	template []byte,
	e *EnumDef,
) error {
	if f.NeedsHeapStorage() ||
		f.fieldType != descriptorpb.FieldDescriptorProto_TYPE_ENUM {
		return nil
	}
	v := e.first
	if f.defaultText != "" {
		var ok bool
		v, ok = e.ValueByName(f.defaultText)
		if !ok {
			return errInvalidDefault(msgName, f.name, f.defaultText)
		}
	}
	binary.LittleEndian.PutUint32(template[f.offset:], uint32(v))
	return nil
}

// descriptorProto reconstructs a field descriptor equivalent to the one
// this field was built from. Used when a new message generation is
// constructed from an existing one.
func (f *FieldDef) descriptorProto() *descriptorpb.FieldDescriptorProto {
	fd := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(f.name),
		Number: proto.Int32(f.number),
		Type:   f.fieldType.Enum(),
		Label:  f.label.Enum(),
	}
	if f.defaultText != "" {
		fd.DefaultValue = proto.String(f.defaultText)
	}
	if f.target != nil {
		if f.target.Kind() == KindUnresolved {
			fd.TypeName = proto.String(f.target.FullName())
		} else {
			fd.TypeName = proto.String("." + f.target.FullName())
		}
	}
	return fd
}
