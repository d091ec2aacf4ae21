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

// MsgDef describes a single message type: its field set, the lookup tables
// over that set, and the derived layout of an instance. The field array is
// exclusively owned; the targets the fields point at are shared.
//
// A MsgDef under construction is single-writer: it must not be handed to
// other goroutines until SetRef has been called for every submessage- and
// enum-typed field. After that it is logically immutable and any number of
// goroutines may call the lookup and query methods without coordination.
type MsgDef struct {
	def
	fields []FieldDef

	// Field lookup is on the parse and access critical path, so both
	// directions are prebuilt maps; the found path does no allocation or
	// scanning.
	byNumber map[int32]*FieldDef
	byName   map[string]*FieldDef

	size          uint32
	presenceBytes uint32
	numRequired   uint32

	// All-defaults instance image, used by the message layer to initialize
	// new instances with a single copy.
	template []byte

	// Number of fields still holding an UnresolvedDef.
	pending int
}

var _ Def = (*MsgDef)(nil)

// NewMsgDef builds a message definition from its descriptor. The caller
// retains ownership of the descriptor and fullName. allowReorder permits
// packing the fields in a non-declared order; pass false if external code
// was compiled against the declared layout.
//
// Submessage- and enum-typed fields are left unresolved. The caller must
// link each of them with SetRef before publishing the definition.
func NewMsgDef(
	d *descriptorpb.DescriptorProto,
	fullName string,
	allowReorder bool,
) (*MsgDef, error) {
	if d == nil {
		return nil, errMalformedMessage(fullName, "nil message descriptor")
	}
	fds := d.GetField()
	m := &MsgDef{
		fields: make([]FieldDef, len(fds)),
	}
	m.initDef(KindMessage, fullName)

	inited := 0
	fail := func(err error) (*MsgDef, error) {
		for i := 0; i < inited; i++ {
			m.fields[i].uninit()
		}
		return nil, err
	}

	for i, fd := range fds {
		if err := m.fields[i].init(fullName, fd); err != nil {
			return fail(err)
		}
		inited++
		if m.fields[i].target != nil {
			m.pending++
		}
	}

	m.size, m.presenceBytes, m.numRequired = layoutFields(
		m.fields, allowReorder,
	)

	m.byNumber = make(map[int32]*FieldDef, len(m.fields))
	m.byName = make(map[string]*FieldDef, len(m.fields))
	for i := range m.fields {
		f := &m.fields[i]
		if _, dup := m.byNumber[f.number]; dup {
			return fail(errDuplicateFieldNumber(fullName, f.number))
		}
		if _, dup := m.byName[f.name]; dup {
			return fail(errDuplicateFieldName(fullName, f.name))
		}
		m.byNumber[f.number] = f
		m.byName[f.name] = f
	}

	m.template = make([]byte, m.size)
	for i := range m.fields {
		if err := m.fields[i].writeDefault(fullName, m.template); err != nil {
			return fail(err)
		}
	}
	return m, nil
}

// SetRef links one unresolved field to its now-constructed target,
// taking a reference on target on the field's behalf. It must be called
// exactly once per submessage- and enum-typed field, before publication;
// calling it twice for the same field, or for a field this MsgDef does
// not own, is a contract violation.
//
// A target of the wrong kind and an unresolvable enum default are
// descriptor-level errors, reported without consuming the pending link.
func (m *MsgDef) SetRef(f *FieldDef, target Def) error {
	if m.byName[f.name] != f {
		panic("protodef: SetRef on a field of a different MsgDef")
	}
	unresolved, ok := f.target.(*UnresolvedDef)
	if !ok {
		if f.target == nil {
			panic("protodef: SetRef on a scalar field")
		}
		panic("protodef: SetRef called twice for field '" + f.name + "'")
	}

	if f.IsSubmessage() {
		if target.Kind() != KindMessage {
			return errKindMismatch(m.fullName, f.name, KindMessage, target)
		}
	} else {
		if target.Kind() != KindEnum {
			return errKindMismatch(m.fullName, f.name, KindEnum, target)
		}
		e := target.(*EnumDef)
		if err := f.writeEnumDefault(m.fullName, m.template, e); err != nil {
			return err
		}
	}

	target.Ref()
	unresolved.Unref()
	f.target = target
	m.pending--
	return nil
}

// Resolved reports whether every pending reference has been linked. A
// definition must not be published until this holds.
func (m *MsgDef) Resolved() bool {
	return m.pending == 0
}

// FieldByNumber looks up a field by number. O(1); nil if no such field.
func (m *MsgDef) FieldByNumber(number int32) *FieldDef {
	return m.byNumber[number]
}

// FieldByName looks up a field by name. O(1); nil if no such field.
func (m *MsgDef) FieldByName(name string) *FieldDef {
	return m.byName[name]
}

func (m *MsgDef) NumFields() int {
	return len(m.fields)
}

// Field returns the i'th field in layout order.
func (m *MsgDef) Field(i int) *FieldDef {
	return &m.fields[i]
}

// Size is the total byte size of one instance of this message.
func (m *MsgDef) Size() uint32 {
	return m.size
}

// PresenceBytes is the size of the presence bitmap at the start of an
// instance.
func (m *MsgDef) PresenceBytes() uint32 {
	return m.presenceBytes
}

// NumRequiredFields returns how many fields are required. Their presence
// bits are exactly the indices below this count.
func (m *MsgDef) NumRequiredFields() uint32 {
	return m.numRequired
}

// DefaultTemplate returns the cached all-defaults instance image, Size()
// bytes long. Callers must treat it as read-only; it is shared by every
// instance initialized from this definition.
func (m *MsgDef) DefaultTemplate() []byte {
	return m.template
}

func (m *MsgDef) Unref() {
	if m.deref() {
		m.free()
	}
}

// free tears down in order: per-field target unref, field array, lookup
// tables, template.
func (m *MsgDef) free() {
	for i := range m.fields {
		m.fields[i].uninit()
	}
	m.fields = nil
	m.byNumber = nil
	m.byName = nil
	m.template = nil
}

// Extend builds the next generation of m: a new MsgDef with the same full
// name containing m's fields plus extra. m itself is not mutated, and
// holders of m keep a fully functional definition; a symbol table that
// publishes the new generation simply unrefs the old one.
//
// Already-resolved targets are shared with the new generation (each gains
// one reference). Fields added by extra are left unresolved and must be
// linked with SetRef like any phase-1 construction.
func Extend(
	m *MsgDef,
	extra []*descriptorpb.FieldDescriptorProto,
	allowReorder bool,
) (*MsgDef, error) {
	d := &descriptorpb.DescriptorProto{}
	resolved := make(map[string]Def)
	for i := range m.fields {
		f := &m.fields[i]
		d.Field = append(d.Field, f.descriptorProto())
		if f.target != nil && f.target.Kind() != KindUnresolved {
			resolved[f.name] = f.target
		}
	}
	d.Field = append(d.Field, extra...)

	next, err := NewMsgDef(d, m.fullName, allowReorder)
	if err != nil {
		return nil, err
	}
	for name, target := range resolved {
		if err := next.SetRef(next.FieldByName(name), target); err != nil {
			next.Unref()
			return nil, err
		}
	}
	return next, nil
}
