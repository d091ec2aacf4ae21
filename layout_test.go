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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.protodef.dev/protodef/internal/testutil"
)

func TestLayoutDeclaredOrder(t *testing.T) {
	d := testutil.Message("M",
		testutil.Field("flag", 1, testutil.TypeBool, testutil.Optional),
		testutil.Field("ratio", 2, testutil.TypeDouble, testutil.Optional),
		testutil.Field("count", 3, testutil.TypeInt32, testutil.Optional),
	)
	m, err := NewMsgDef(d, "test.M", false)
	require.NoError(t, err)
	defer m.Unref()

	// Presence bitmap (1 byte), then fields in declared order with
	// per-field alignment padding.
	assert.Equal(t, uint32(1), m.PresenceBytes())
	assert.Equal(t, uint32(1), m.FieldByName("flag").Offset())
	assert.Equal(t, uint32(8), m.FieldByName("ratio").Offset())
	assert.Equal(t, uint32(16), m.FieldByName("count").Offset())
	assert.Equal(t, uint32(24), m.Size())
}

func TestLayoutReordered(t *testing.T) {
	d := testutil.Message("M",
		testutil.Field("flag", 1, testutil.TypeBool, testutil.Optional),
		testutil.Field("ratio", 2, testutil.TypeDouble, testutil.Optional),
		testutil.Field("count", 3, testutil.TypeInt32, testutil.Optional),
		testutil.Field("other", 4, testutil.TypeBool, testutil.Optional),
	)
	m, err := NewMsgDef(d, "test.M", true)
	require.NoError(t, err)
	defer m.Unref()

	// Widest first eliminates interior padding: bitmap byte, pad to 8,
	// then 8+4+1+1 packed tight.
	assert.Equal(t, uint32(1), m.PresenceBytes())
	assert.Equal(t, uint32(8), m.FieldByName("ratio").Offset())
	assert.Equal(t, uint32(16), m.FieldByName("count").Offset())
	assert.Equal(t, uint32(20), m.FieldByName("flag").Offset())
	assert.Equal(t, uint32(21), m.FieldByName("other").Offset())
	assert.Equal(t, uint32(24), m.Size())
}

func TestLayoutReorderIsStable(t *testing.T) {
	// Equal-width fields keep their declaration order.
	d := testutil.Message("M",
		testutil.Field("a", 1, testutil.TypeInt32, testutil.Optional),
		testutil.Field("b", 2, testutil.TypeInt32, testutil.Optional),
		testutil.Field("c", 3, testutil.TypeInt32, testutil.Optional),
	)
	m, err := NewMsgDef(d, "test.M", true)
	require.NoError(t, err)
	defer m.Unref()

	assert.Less(t, m.FieldByName("a").Offset(), m.FieldByName("b").Offset())
	assert.Less(t, m.FieldByName("b").Offset(), m.FieldByName("c").Offset())
}

func TestLayoutHeapFieldsAreReferenceSlots(t *testing.T) {
	d := testutil.Message("M",
		testutil.Field("name", 1, testutil.TypeString, testutil.Optional),
		testutil.Field("tags", 2, testutil.TypeInt32, testutil.Repeated),
		testutil.MessageField("child", 3, testutil.Optional, ".test.Child"),
	)
	m, err := NewMsgDef(d, "test.M", false)
	require.NoError(t, err)
	defer m.Unref()

	assert.Equal(t, uint32(8), m.FieldByName("name").Offset())
	assert.Equal(t, uint32(16), m.FieldByName("tags").Offset())
	assert.Equal(t, uint32(24), m.FieldByName("child").Offset())
	assert.Equal(t, uint32(32), m.Size())
}

func TestLayoutPresenceBytes(t *testing.T) {
	d := testutil.Message("M")
	for i := int32(1); i <= 9; i++ {
		d.Field = append(d.Field, testutil.Field(
			fieldName(i), i, testutil.TypeBool, testutil.Optional,
		))
	}
	m, err := NewMsgDef(d, "test.M", true)
	require.NoError(t, err)
	defer m.Unref()

	// Nine presence bits need two bitmap bytes.
	assert.Equal(t, uint32(2), m.PresenceBytes())
	assert.Equal(t, uint32(2), m.FieldByName(fieldName(1)).Offset())
}

func TestLayoutEmptyMessage(t *testing.T) {
	m, err := NewMsgDef(testutil.Message("Empty"), "test.Empty", true)
	require.NoError(t, err)
	defer m.Unref()

	assert.Equal(t, uint32(0), m.PresenceBytes())
	assert.Equal(t, uint32(0), m.Size())
	assert.Equal(t, uint32(0), m.NumRequiredFields())
}

func fieldName(i int32) string {
	return string(rune('a' + i - 1))
}
