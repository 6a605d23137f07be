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
	"testing"

	treecbor "github.com/blinklabs-io/treecbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGeneric(t *testing.T) {
	// Two CBOR objects back-to-back: only the first is consumed
	data := decodeHex(t, "81018102")
	var dest any
	bytesRead, err := treecbor.Decode(data, &dest)
	require.NoError(t, err)
	assert.Equal(t, 2, bytesRead)
	assert.Equal(t, []any{uint64(1)}, dest)
}

func TestEncodeGeneric(t *testing.T) {
	data, err := treecbor.Encode([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "83010203", hex.EncodeToString(data))

	// Encoded output is valid input for the lazy Reader
	reader, err := treecbor.NewReader(data)
	require.NoError(t, err)
	items, err := reader.AsArray()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, arrayInts(t, items))
}

func TestRawMessagePassthrough(t *testing.T) {
	data := decodeHex(t, "83010203")
	var raw treecbor.RawMessage
	_, err := treecbor.Decode(data, &raw)
	require.NoError(t, err)
	assert.Equal(t, data, []byte(raw))
}

func TestReaderDecodeIntoStruct(t *testing.T) {
	var buf bytes.Buffer
	w := treecbor.NewWriter(&buf)
	root, err := w.Start()
	require.NoError(t, err)
	require.NoError(t, root.AppendFloat("pi", 3.14159265359))
	require.NoError(t, root.AppendString("string", "hello"))
	require.NoError(t, root.AppendBinary("binary", []byte("world")))
	require.NoError(t, root.Close())

	reader, err := treecbor.NewReader(buf.Bytes())
	require.NoError(t, err)

	var dest struct {
		Pi     float64 `cbor:"pi"`
		String string  `cbor:"string"`
		Binary []byte  `cbor:"binary"`
	}
	require.NoError(t, reader.Decode(&dest))
	assert.Equal(t, 3.14159265359, dest.Pi)
	assert.Equal(t, "hello", dest.String)
	assert.Equal(t, []byte("world"), dest.Binary)
}

func TestReaderDecodeChild(t *testing.T) {
	reader, err := treecbor.NewReader(decodeHex(t, "82018202f5"))
	require.NoError(t, err)
	items, err := reader.AsArray()
	require.NoError(t, err)
	require.Len(t, items, 2)

	var dest []any
	require.NoError(t, items[1].Decode(&dest))
	assert.Equal(t, []any{uint64(2), true}, dest)
}
