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
	"fmt"
)

// MalformedCborError indicates a structural violation in the input: a bad
// length, a misplaced break, trailing bytes after the outer object, an
// unknown type code, etc. Structural validation happens once at Reader
// construction, so accessors never return this error
type MalformedCborError struct {
	Reason string
}

func (e MalformedCborError) Error() string {
	return "invalid CBOR: " + e.Reason
}

// SliceBoundsError indicates a slicing request outside the extents of the
// parent Reader, or a zero-length slice request
type SliceBoundsError struct {
	Offset int
	Length int
	Extent int
}

func (e SliceBoundsError) Error() string {
	return fmt.Sprintf(
		"invalid CBOR slice: offset %d, length %d outside extent %d",
		e.Offset,
		e.Length,
		e.Extent,
	)
}

// TypeMismatchError indicates an accessor called on an object of the wrong
// kind. Expected and Actual use the fixed type name table (integer, float,
// binary string, UTF8 string, array, map, boolean, null, unknown type)
type TypeMismatchError struct {
	Expected string
	Actual   string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"unexpected CBOR structure: expected %s but found %s",
		e.Expected,
		e.Actual,
	)
}

// OutOfRangeError indicates a wire integer whose unsigned magnitude cannot
// be represented as a signed 64-bit value
type OutOfRangeError struct {
	Magnitude uint64
	Negative  bool
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf(
		"CBOR integer out of int64 range (magnitude %d)",
		e.Magnitude,
	)
}

// UnsupportedFeatureError indicates a construct that is legal CBOR but
// outside the supported subset: half/single-precision floats and the
// undefined simple value
type UnsupportedFeatureError struct {
	Feature string
}

func (e UnsupportedFeatureError) Error() string {
	return "unsupported CBOR: " + e.Feature
}

// AlreadyStartedError indicates a Start call while a structure is still
// open on the Writer
type AlreadyStartedError struct{}

func (AlreadyStartedError) Error() string {
	return "writing of this CBOR object has already started"
}

// InactiveWriterError indicates a write through a structure writer handle
// that is not the active (top of stack) writer: either a child structure is
// still open, or the handle itself has been closed
type InactiveWriterError struct{}

func (InactiveWriterError) Error() string {
	return "attempt to write to CBOR object using inactive writer"
}
