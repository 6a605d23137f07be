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

package treecbor

import (
	"bytes"
	"errors"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

// RawMessage is an alias for convenience, for callers that want to defer
// decoding of part of an object
type RawMessage = _cbor.RawMessage

var (
	cachedDecMode     _cbor.DecMode
	cachedDecModeErr  error
	cachedDecModeOnce sync.Once
)

// getDecMode returns a cached DecMode, initializing it on first use.
// Uses sync.Once for thread-safe lazy initialization.
func getDecMode() (_cbor.DecMode, error) {
	cachedDecModeOnce.Do(func() {
		decOptions := _cbor.DecOptions{
			// Keep the generic decoder's nesting limit in line with our
			// own structural validator
			MaxNestedLevels: maxNestedLevels,
		}
		cachedDecMode, cachedDecModeErr = decOptions.DecMode()
	})
	return cachedDecMode, cachedDecModeErr
}

var (
	cachedEncMode     _cbor.EncMode
	cachedEncModeErr  error
	cachedEncModeOnce sync.Once
)

func getEncMode() (_cbor.EncMode, error) {
	cachedEncModeOnce.Do(func() {
		encOptions := _cbor.EncOptions{
			// Make sure that maps have ordered keys
			Sort: _cbor.SortCoreDeterministic,
		}
		cachedEncMode, cachedEncModeErr = encOptions.EncMode()
	})
	return cachedEncMode, cachedEncModeErr
}

// Decode decodes the given CBOR into an arbitrary Go destination value and
// returns the number of bytes read. This is the generic companion to the
// lazy Reader, for callers that want whole-value materialization rather
// than on-demand slicing.
func Decode(dataBytes []byte, dest any) (int, error) {
	data := bytes.NewReader(dataBytes)
	decMode, err := getDecMode()
	if err != nil {
		return 0, err
	}
	if decMode == nil {
		return 0, errors.New("CBOR decoder mode not initialized")
	}
	dec := decMode.NewDecoder(data)
	err = dec.Decode(dest)
	return dec.NumBytesRead(), err
}

// Encode encodes an arbitrary Go value to CBOR with deterministic map key
// ordering
func Encode(data any) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	encMode, err := getEncMode()
	if err != nil {
		return nil, err
	}
	enc := encMode.NewEncoder(buf)
	err = enc.Encode(data)
	return buf.Bytes(), err
}

// Decode decodes this Reader's extent into an arbitrary Go destination
// value, bridging from the validated lazy view into whole-value
// materialization
func (r *Reader) Decode(dest any) error {
	if _, err := Decode(r.data[r.offset:r.offset+r.length], dest); err != nil {
		return err
	}
	return nil
}
