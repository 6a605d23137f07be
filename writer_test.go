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

package treecbor_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math"
	"testing"

	treecbor "github.com/blinklabs-io/treecbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterEmptyRootMap(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root.Close())
	assert.Equal(t, "bfff", hex.EncodeToString(buf.Bytes()))
}

func TestWriterStartTwice(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)

	_, err = w.Start()
	assert.Equal(t, treecbor.AlreadyStartedError{}, err)

	// Once the root is closed the Writer is idle again and a second
	// toplevel object may be written back-to-back
	require.NoError(t, root.Close())
	root2, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root2.Close())
	assert.Equal(t, "bfffbfff", hex.EncodeToString(buf.Bytes()))
}

type intWireTestDefinition struct {
	Value   int64
	WireHex string
}

var intWireTests = []intWireTestDefinition{
	{0, "00"},
	{1, "01"},
	{23, "17"},
	{24, "1818"},
	{255, "18ff"},
	{256, "190100"},
	{65535, "19ffff"},
	{65536, "1a00010000"},
	{4294967295, "1affffffff"},
	{4294967296, "1b0000000100000000"},
	{math.MaxInt64, "1b7fffffffffffffff"},
	{-1, "20"},
	{-24, "37"},
	{-25, "3818"},
	{-256, "38ff"},
	{-257, "390100"},
	{-65536, "39ffff"},
	{-65537, "3a00010000"},
	{-4294967296, "3affffffff"},
	{-4294967297, "3b0000000100000000"},
	{math.MinInt64, "3bffffffffffffffff"},
}

func TestWriterIntShortestForm(t *testing.T) {
	for _, test := range intWireTests {
		var buf bytes.Buffer
		w := treecbor.NewWriter(&buf)
		root, err := w.Start()
		require.NoError(t, err)
		items, err := root.AppendArray("i")
		require.NoError(t, err)
		require.NoError(t, items.AppendInt(test.Value))
		require.NoError(t, items.Close())
		require.NoError(t, root.Close())
		// bf 6169 9f <int> ff ff
		expected := "bf61699f" + test.WireHex + "ffff"
		if hex.EncodeToString(buf.Bytes()) != expected {
			t.Fatalf(
				"did not get expected wire bytes for %d\n  got: %s\n  wanted: %s",
				test.Value,
				hex.EncodeToString(buf.Bytes()),
				expected,
			)
		}
	}
}

func TestWriterScalars(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root.AppendNull("n"))
	require.NoError(t, root.AppendBool("f", false))
	require.NoError(t, root.AppendBool("t", true))
	require.NoError(t, root.AppendFloat("pi", 3.14159265359))
	require.NoError(t, root.AppendString("s", "hi"))
	require.NoError(t, root.AppendBinary("b", []byte{0x01, 0x02}))
	require.NoError(t, root.Close())
	assert.Equal(
		t,
		"bf"+
			"616ef6"+
			"6166f4"+
			"6174f5"+
			"627069fb400921fb54442eea"+
			"6173626869"+
			"6162420102"+
			"ff",
		hex.EncodeToString(buf.Bytes()),
	)
}

func TestWriterInactiveParent(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)

	child, err := root.AppendArray("items")
	require.NoError(t, err)

	// The parent is suspended while the child is open
	err = root.AppendInt("x", 1)
	assert.Equal(t, treecbor.InactiveWriterError{}, err)
	_, err = root.AppendArray("y")
	assert.Equal(t, treecbor.InactiveWriterError{}, err)

	// Closing the child reactivates the parent
	require.NoError(t, child.Close())
	require.NoError(t, root.AppendInt("x", 1))

	// The closed child handle is dead for good
	err = child.AppendInt(2)
	assert.Equal(t, treecbor.InactiveWriterError{}, err)
	err = child.Close()
	assert.Equal(t, treecbor.InactiveWriterError{}, err)

	require.NoError(t, root.Close())

	// Closing the root leaves every handle inactive
	err = root.AppendNull("z")
	assert.Equal(t, treecbor.InactiveWriterError{}, err)
}

func TestWriterDeepNesting(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	inner, err := root.AppendMap("a")
	require.NoError(t, err)
	deeper, err := inner.AppendArray("b")
	require.NoError(t, err)
	require.NoError(t, deeper.AppendInt(1))

	// Neither ancestor may write while the grandchild is open
	err = root.AppendNull("x")
	assert.Equal(t, treecbor.InactiveWriterError{}, err)
	err = inner.AppendNull("x")
	assert.Equal(t, treecbor.InactiveWriterError{}, err)

	require.NoError(t, deeper.Close())
	require.NoError(t, inner.Close())
	require.NoError(t, root.Close())
	assert.Equal(
		t,
		"bf6161bf61629f01ffffff",
		hex.EncodeToString(buf.Bytes()),
	)
}

type failingSink struct{}

func (failingSink) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestWriterSinkError(t *testing.T) {
	w := treecbor.NewWriter(failingSink{})
	_, err := w.Start()
	assert.EqualError(t, err, "sink closed")
}

// Build the scenario object through the Writer, decode the result with the
// Reader, and check every field
func TestWriterReaderEndToEnd(t *testing.T) {
	intValues := []int64{
		0x3,
		0x34,
		0x3456,
		0x3456789a,
		0x3456789abcdef012,
		-0x3,
		-0x34,
		-0x3456,
		-0x3456789a,
		-0x3456789abcdef012,
	}

	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root.AppendNull("null"))
	require.NoError(t, root.AppendBool("false", false))
	require.NoError(t, root.AppendBool("true", true))
	intArray, err := root.AppendArray("int-array")
	require.NoError(t, err)
	for _, value := range intValues {
		require.NoError(t, intArray.AppendInt(value))
	}
	require.NoError(t, intArray.Close())
	require.NoError(t, root.AppendFloat("pi", 3.14159265359))
	require.NoError(t, root.AppendString("string", "hello"))
	require.NoError(t, root.AppendBinary("binary", []byte("world")))
	require.NoError(t, root.Close())

	reader, err := treecbor.NewReader(buf.Bytes())
	require.NoError(t, err)
	entries, err := reader.AsMap()
	require.NoError(t, err)
	assert.Equal(t, 7, entries.Len())
	assert.Equal(
		t,
		[]string{"null", "false", "true", "int-array", "pi", "string", "binary"},
		entries.Keys(),
	)

	nullEntry, ok := entries.Get("null")
	require.True(t, ok)
	assert.NoError(t, nullEntry.AsNull())

	falseEntry, ok := entries.Get("false")
	require.True(t, ok)
	falseValue, err := falseEntry.AsBool()
	require.NoError(t, err)
	assert.False(t, falseValue)

	trueEntry, ok := entries.Get("true")
	require.True(t, ok)
	trueValue, err := trueEntry.AsBool()
	require.NoError(t, err)
	assert.True(t, trueValue)

	arrayEntry, ok := entries.Get("int-array")
	require.True(t, ok)
	items, err := arrayEntry.AsArray()
	require.NoError(t, err)
	assert.Equal(t, intValues, arrayInts(t, items))

	piEntry, ok := entries.Get("pi")
	require.True(t, ok)
	piValue, err := piEntry.AsFloat()
	require.NoError(t, err)
	assert.Equal(t, 3.14159265359, piValue)

	// "string" and "binary" have equal byte content length but must stay
	// distinguishable by type
	stringEntry, ok := entries.Get("string")
	require.True(t, ok)
	assert.True(t, stringEntry.IsString())
	assert.False(t, stringEntry.IsBinary())
	stringValue, err := stringEntry.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", stringValue)

	binaryEntry, ok := entries.Get("binary")
	require.True(t, ok)
	assert.True(t, binaryEntry.IsBinary())
	assert.False(t, binaryEntry.IsString())
	binaryValue, err := binaryEntry.AsBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), binaryValue)
}

// Round-trip every integer boundary and its negation through a map
func TestWriterReaderIntBoundaries(t *testing.T) {
	boundaries := []int64{
		0, 1, 23, 24, 255, 256, 65535, 65536,
		4294967295, 4294967296, math.MaxInt64,
		-1, -24, -25, -256, -257, -65536, -65537,
		-4294967296, -4294967297, math.MinInt64,
	}

	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	items, err := root.AppendArray("boundaries")
	require.NoError(t, err)
	for _, value := range boundaries {
		require.NoError(t, items.AppendInt(value))
	}
	require.NoError(t, items.Close())
	require.NoError(t, root.Close())

	reader, err := treecbor.NewReader(buf.Bytes())
	require.NoError(t, err)
	entries, err := reader.AsMap()
	require.NoError(t, err)
	entry, ok := entries.Get("boundaries")
	require.True(t, ok)
	decoded, err := entry.AsArray()
	require.NoError(t, err)
	assert.Equal(t, boundaries, arrayInts(t, decoded))
}

// The writer's output must also parse with an independent CBOR decoder
func TestWriterIndependentDecoder(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root.AppendNull("null"))
	require.NoError(t, root.AppendInt("int", -65537))
	require.NoError(t, root.AppendFloat("pi", 3.14159265359))
	require.NoError(t, root.AppendString("string", "hello"))
	require.NoError(t, root.AppendBinary("binary", []byte("world")))
	nested, err := root.AppendArray("nested")
	require.NoError(t, err)
	require.NoError(t, nested.AppendBool(true))
	require.NoError(t, nested.Close())
	require.NoError(t, root.Close())

	var decoded map[string]any
	bytesRead, err := treecbor.Decode(buf.Bytes(), &decoded)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), bytesRead)
	assert.Equal(
		t,
		map[string]any{
			"null":   nil,
			"int":    int64(-65537),
			"pi":     3.14159265359,
			"string": "hello",
			"binary": []byte("world"),
			"nested": []any{true},
		},
		decoded,
	)
}
