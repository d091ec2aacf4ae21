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

// Package testutil builds descriptor inputs for tests, standing in for the
// descriptor-parsing front end that produces them in a real schema load.
package testutil

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	Optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	Required = descriptorpb.FieldDescriptorProto_LABEL_REQUIRED
	Repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED

	TypeBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	TypeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	TypeUint32  = descriptorpb.FieldDescriptorProto_TYPE_UINT32
	TypeInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	TypeUint64  = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	TypeFloat   = descriptorpb.FieldDescriptorProto_TYPE_FLOAT
	TypeDouble  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	TypeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	TypeBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	TypeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	TypeEnum    = descriptorpb.FieldDescriptorProto_TYPE_ENUM
)

// Field builds a scalar field descriptor.
func Field(
	name string,
	number int32,
	fieldType descriptorpb.FieldDescriptorProto_Type,
	label descriptorpb.FieldDescriptorProto_Label,
) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   fieldType.Enum(),
		Label:  label.Enum(),
	}
}

// MessageField builds a submessage-typed field descriptor referencing
// typeName (dot-prefixed if fully qualified).
func MessageField(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	fd := Field(name, number, TypeMessage, label)
	fd.TypeName = proto.String(typeName)
	return fd
}

// EnumField builds an enum-typed field descriptor referencing typeName.
func EnumField(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	fd := Field(name, number, TypeEnum, label)
	fd.TypeName = proto.String(typeName)
	return fd
}

// WithDefault sets a field descriptor's default value in place and returns
// it, for use inline in Message(...) argument lists.
func WithDefault(
	fd *descriptorpb.FieldDescriptorProto,
	value string,
) *descriptorpb.FieldDescriptorProto {
	fd.DefaultValue = proto.String(value)
	return fd
}

// Message builds a message descriptor with the given fields.
func Message(
	name string,
	fields ...*descriptorpb.FieldDescriptorProto,
) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

// EnumValue is one (name, number) entry of an enum descriptor.
type EnumValue struct {
	Name   string
	Number int32
}

// Enum builds an enum descriptor from (name, number) entries.
func Enum(name string, values ...EnumValue) *descriptorpb.EnumDescriptorProto {
	ed := &descriptorpb.EnumDescriptorProto{
		Name: proto.String(name),
	}
	for _, v := range values {
		ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v.Name),
			Number: proto.Int32(v.Number),
		})
	}
	return ed
}
