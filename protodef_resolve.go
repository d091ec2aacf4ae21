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
	"errors"
	"strings"

	"google.golang.org/protobuf/types/descriptorpb"
)

// BuildFile runs the two-phase construct-then-link procedure over one
// compilation unit. Phase 1 constructs a definition for every message and
// enum declared in fd, nested declarations included, keyed by
// fully-qualified name (no leading dot). Phase 2 resolves every pending
// field reference against those definitions.
//
// Descriptor and linking errors are collected across the whole file and
// returned joined, so a schema loader can report all of them at once. On
// error nothing is returned: every definition constructed so far has its
// caller reference released.
//
// On success the caller owns one reference to each returned definition
// (fields of the returned messages hold their own).
func BuildFile(
	fd *descriptorpb.FileDescriptorProto,
	allowReorder bool,
) (map[string]Def, error) {
	b := fileBuilder{
		defs:         make(map[string]Def),
		allowReorder: allowReorder,
	}

	pkg := fd.GetPackage()
	for _, d := range fd.GetMessageType() {
		b.addMessage(pkg, d)
	}
	for _, ed := range fd.GetEnumType() {
		b.addEnum(pkg, ed)
	}
	if len(b.errs) > 0 {
		b.release()
		return nil, errors.Join(b.errs...)
	}

	b.linkAll()
	if len(b.errs) > 0 {
		b.release()
		return nil, errors.Join(b.errs...)
	}
	return b.defs, nil
}

type fileBuilder struct {
	defs         map[string]Def
	errs         []error
	allowReorder bool
}

func (b *fileBuilder) addMessage(prefix string, d *descriptorpb.DescriptorProto) {
	fqname := joinName(prefix, d.GetName())
	m, err := NewMsgDef(d, fqname, b.allowReorder)
	if err != nil {
		b.errs = append(b.errs, err)
	} else if !b.register(fqname, m) {
		m.Unref()
	}
	for _, nested := range d.GetNestedType() {
		b.addMessage(fqname, nested)
	}
	for _, ed := range d.GetEnumType() {
		b.addEnum(fqname, ed)
	}
}

func (b *fileBuilder) addEnum(prefix string, ed *descriptorpb.EnumDescriptorProto) {
	fqname := joinName(prefix, ed.GetName())
	e, err := NewEnumDef(ed, fqname)
	if err != nil {
		b.errs = append(b.errs, err)
	} else if !b.register(fqname, e) {
		e.Unref()
	}
}

func (b *fileBuilder) register(fqname string, d Def) bool {
	if _, dup := b.defs[fqname]; dup {
		b.errs = append(b.errs, errDuplicateSymbol(fqname))
		return false
	}
	b.defs[fqname] = d
	return true
}

func (b *fileBuilder) linkAll() {
	for fqname, d := range b.defs {
		m, ok := d.(*MsgDef)
		if !ok {
			continue
		}
		for i := 0; i < m.NumFields(); i++ {
			f := m.Field(i)
			unresolved, pending := f.Target().(*UnresolvedDef)
			if !pending {
				continue
			}
			target := lookupSymbol(b.defs, fqname, unresolved.FullName())
			if target == nil {
				b.errs = append(b.errs, errSymbolNotFound(
					fqname, f.Name(), unresolved.FullName(),
				))
				continue
			}
			if err := m.SetRef(f, target); err != nil {
				b.errs = append(b.errs, err)
			}
		}
	}
}

// release drops the builder's reference on everything constructed so far.
// Definitions that already link to each other keep those mutual
// references; breaking reference cycles is the publication layer's
// concern, not this one's.
func (b *fileBuilder) release() {
	for _, d := range b.defs {
		d.Unref()
	}
	b.defs = nil
}

// lookupSymbol resolves a type name the way schema compilers do: a leading
// dot means the name is already fully qualified; otherwise the name is
// tried against the referencing message's scope, then each enclosing
// scope outward, then the file's root.
func lookupSymbol(defs map[string]Def, scope, name string) Def {
	if rest, ok := strings.CutPrefix(name, "."); ok {
		return defs[rest]
	}
	for scope != "" {
		if d, ok := defs[scope+"."+name]; ok {
			return d
		}
		idx := strings.LastIndexByte(scope, '.')
		if idx < 0 {
			break
		}
		scope = scope[:idx]
	}
	return defs[name]
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
