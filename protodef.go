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

// Package protodef represents parsed message, field, and enum declarations
// as immutable, reference-counted definitions, and provides the lookup and
// layout machinery a message encoder/decoder consults on every field access.
//
// Definitions are built in two phases: construction from a descriptor, then
// a separate linking pass that resolves references between message types
// (which may be mutually recursive). Once every pending reference has been
// resolved, a definition is ready to be published to a symbol table, after
// which it must be treated as permanently immutable.
package protodef

import (
	"sync/atomic"
)

// Kind identifies which kind of schema declaration a Def describes. The
// kinds correspond 1:1 with declarations in a schema file.
type Kind uint8

const (
	KindMessage Kind = iota
	KindEnum
	KindService // Unimplemented; no constructor exists for this kind.
	KindExtension
	// KindUnresolved marks a transient placeholder carrying only a symbol
	// name. It exists between construction and linking and must never
	// survive into a published definition graph.
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindEnum:
		return "enum"
	case KindService:
		return "service"
	case KindExtension:
		return "extension"
	case KindUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Def is an immutable, reference-counted description of a message, enum,
// extension, or (placeholder) unresolved symbol.
//
// Ownership is shared: any number of holders may keep a reference, and the
// definition is destroyed exactly when the last reference is released.
// Ref and Unref are safe to call concurrently from any goroutine holding a
// valid reference. Unref dispatches to the kind-specific teardown when the
// count reaches zero.
type Def interface {
	Kind() Kind
	FullName() string
	Ref()
	Unref()
}

// def carries the identity common to every definition kind. Concrete
// definition types embed it and implement Unref with their own teardown.
type def struct {
	kind     Kind
	fullName string
	refs     atomic.Int32
}

// initDef stores the identity and sets the count to one, held by the
// caller.
func (d *def) initDef(kind Kind, fullName string) {
	d.kind = kind
	d.fullName = fullName
	d.refs.Store(1)
}

func (d *def) Kind() Kind {
	return d.kind
}

// FullName returns the fully-qualified name of the definition, without a
// leading dot.
func (d *def) FullName() string {
	return d.fullName
}

func (d *def) Ref() {
	d.refs.Add(1)
}

// deref drops one reference and reports whether the count reached zero.
// Unref-ing below zero is a caller contract violation.
func (d *def) deref() bool {
	n := d.refs.Add(-1)
	if n < 0 {
		panic("protodef: refcount underflow on " + d.fullName)
	}
	return n == 0
}

func (d *def) refCount() int32 {
	return d.refs.Load()
}

// UnresolvedDef stands in for a message or enum definition that has not
// been linked yet. Its full name is the symbol name the field descriptor
// referenced, verbatim: a leading dot marks the name as fully qualified,
// anything else is resolved relative to the referencing message's scope.
type UnresolvedDef struct {
	def
}

// NewUnresolved returns a placeholder definition for the named symbol,
// with one reference held by the caller.
func NewUnresolved(symbol string) *UnresolvedDef {
	u := &UnresolvedDef{}
	u.initDef(KindUnresolved, symbol)
	return u
}

func (u *UnresolvedDef) Unref() {
	u.deref()
}
