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
	"fmt"
)

// ErrorCode classifies a recoverable definition error. Codes are stable;
// messages are not.
type ErrorCode uint32

const (
	CodeMalformedMessage     ErrorCode = 2001
	CodeMalformedField       ErrorCode = 2002
	CodeMalformedEnum        ErrorCode = 2003
	CodeInvalidDefault       ErrorCode = 2004
	CodeDuplicateFieldNumber ErrorCode = 2005
	CodeDuplicateFieldName   ErrorCode = 2006
	CodeDuplicateEnumName    ErrorCode = 2007
	CodeEmptyEnum            ErrorCode = 2008
	CodeDuplicateSymbol      ErrorCode = 2009
	CodeSymbolNotFound       ErrorCode = 2010
	CodeKindMismatch         ErrorCode = 2011
)

// Error is a recoverable descriptor or linking error. A definition that
// failed construction with an Error must not be used; nothing is partially
// published.
type Error struct {
	code    ErrorCode
	message string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() ErrorCode {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func errMalformedMessage(fqname, detail string) error {
	return &Error{
		code:    CodeMalformedMessage,
		message: fmt.Sprintf("Message %q: %s", fqname, detail),
	}
}

func errMalformedField(msgName, fieldName, detail string) error {
	return &Error{
		code: CodeMalformedField,
		message: fmt.Sprintf(
			"Field '%s' of message %q: %s",
			fieldName, msgName, detail,
		),
	}
}

func errMalformedEnum(fqname, detail string) error {
	return &Error{
		code:    CodeMalformedEnum,
		message: fmt.Sprintf("Enum %q: %s", fqname, detail),
	}
}

func errInvalidDefault(msgName, fieldName, value string) error {
	return &Error{
		code: CodeInvalidDefault,
		message: fmt.Sprintf(
			"Field '%s' of message %q has invalid default value %q",
			fieldName, msgName, value,
		),
	}
}

func errDuplicateFieldNumber(fqname string, number int32) error {
	return &Error{
		code: CodeDuplicateFieldNumber,
		message: fmt.Sprintf(
			"Message %q declares field number %d more than once",
			fqname, number,
		),
	}
}

func errDuplicateFieldName(fqname, name string) error {
	return &Error{
		code: CodeDuplicateFieldName,
		message: fmt.Sprintf(
			"Message %q declares field name '%s' more than once",
			fqname, name,
		),
	}
}

func errDuplicateEnumName(fqname, name string) error {
	return &Error{
		code: CodeDuplicateEnumName,
		message: fmt.Sprintf(
			"Enum %q declares entry name '%s' more than once",
			fqname, name,
		),
	}
}

func errEmptyEnum(fqname string) error {
	return &Error{
		code:    CodeEmptyEnum,
		message: fmt.Sprintf("Enum %q has no entries", fqname),
	}
}

func errDuplicateSymbol(fqname string) error {
	return &Error{
		code:    CodeDuplicateSymbol,
		message: fmt.Sprintf("Symbol %q declared more than once", fqname),
	}
}

func errSymbolNotFound(msgName, fieldName, symbol string) error {
	return &Error{
		code: CodeSymbolNotFound,
		message: fmt.Sprintf(
			"Field '%s' of message %q references unknown type %q",
			fieldName, msgName, symbol,
		),
	}
}

func errKindMismatch(msgName, fieldName string, want Kind, target Def) error {
	return &Error{
		code: CodeKindMismatch,
		message: fmt.Sprintf(
			"Field '%s' of message %q needs a %s, but %q is a %s",
			fieldName, msgName, want, target.FullName(), target.Kind(),
		),
	}
}
