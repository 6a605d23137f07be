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
)

// maxNestedLevels caps validation recursion depth so adversarially deep
// input cannot exhaust the call stack. This matches the nesting limit we
// configure for the fxamacker interop decoder
const maxNestedLevels = 256

// Reader is an immutable (offset, length) view into a shared byte buffer,
// representing exactly one CBOR object. The root Reader validates the whole
// buffer once at construction; child Readers produced via Slice or the
// array/map accessors inherit well-formedness from that pass and only ever
// perform type checks.
//
// Readers are safe to share and read concurrently. The backing buffer is
// copied once at construction and never mutated afterwards.
type Reader struct {
	// data is the full backing buffer, shared by reference among all
	// Readers derived from the same root
	data   []byte
	offset int
	length int
}

// NewReader validates the given bytes as a single well-formed CBOR object
// and returns a Reader over it. The buffer must contain exactly one object
// with no trailing bytes. The input is copied, so the caller may reuse the
// slice afterwards.
func NewReader(data []byte) (*Reader, error) {
	if len(data) == 0 {
		return nil, MalformedCborError{Reason: "zero-size object"}
	}
	r := &Reader{
		data:   bytes.Clone(data),
		length: len(data),
	}
	offset := 0
	if err := r.checkAndSeek(&offset, 0); err != nil {
		return nil, err
	}
	if offset != r.length {
		return nil, MalformedCborError{
			Reason: "garbage at end of outer object or multiple objects",
		}
	}
	return r, nil
}

// Slice returns a child Reader over the given range of this Reader. The
// range must be non-empty and lie within this Reader's extents. If the
// child begins with a semantic tag, the tag is transparently skipped so the
// child addresses the tagged value. The root Reader never performs this
// skip, so a root-level tag remains visible to the caller.
func (r *Reader) Slice(offset int, length int) (*Reader, error) {
	if offset < 0 || length <= 0 || offset > r.length-length {
		return nil, SliceBoundsError{
			Offset: offset,
			Length: length,
			Extent: r.length,
		}
	}
	child := &Reader{
		data:   r.data,
		offset: r.offset + offset,
		length: length,
	}
	// Seek past a leading semantic tag
	initial, err := child.readAt(0)
	if err != nil {
		return nil, err
	}
	if majorType(initial) == majorTag {
		end := child.offset + child.length
		tagEnd := 1
		if _, err := child.readIntlike(addInfo(initial), &tagEnd); err != nil {
			return nil, err
		}
		child.offset += tagEnd
		child.length = end - child.offset
		if child.length == 0 {
			return nil, MalformedCborError{Reason: "semantic tag has no value"}
		}
	}
	return child, nil
}

// Contents returns a copy of the raw bytes of this Reader's extent,
// verbatim. Useful for hashing or re-embedding the encoded object.
func (r *Reader) Contents() []byte {
	return bytes.Clone(r.data[r.offset : r.offset+r.length])
}

// readAt returns the byte at the given offset after range-checking against
// this Reader's extent
func (r *Reader) readAt(offset int) (uint8, error) {
	if offset < 0 || offset >= r.length {
		return 0, MalformedCborError{
			Reason: "trying to read past extents of current slice",
		}
	}
	return r.data[r.offset+offset], nil
}

// readIntlike parses the additional info of an initial byte and any extra
// bytes it calls for, returning the encoded integer. offset must point at
// the byte immediately following the initial byte and is advanced past the
// integer data.
func (r *Reader) readIntlike(info uint8, offset *int) (uint64, error) {
	// Info less than 24 is a shorthand for the integer itself
	if info < 24 {
		return uint64(info), nil
	}
	// Info 28 and up is either illegal or the indefinite-length marker,
	// which must be handled before calling this method
	if info > 27 {
		return 0, MalformedCborError{
			Reason: "illegal additional info for integer or object length",
		}
	}
	// 1, 2, 4 or 8 big-endian bytes immediately follow the initial byte
	count := 1 << (info - 24)
	var value uint64
	for i := 0; i < count; i++ {
		b, err := r.readAt(*offset)
		if err != nil {
			return 0, err
		}
		value = value<<8 | uint64(b)
		*offset++
	}
	return value, nil
}

// checkAndSeek validates the object at the given offset and seeks past it
// by moving offset to the byte immediately following the object
func (r *Reader) checkAndSeek(offset *int, depth int) error {
	if depth >= maxNestedLevels {
		return MalformedCborError{Reason: "maximum nesting depth exceeded"}
	}
	initial, err := r.readAt(*offset)
	if err != nil {
		return err
	}
	*offset++
	info := addInfo(initial)

	switch majorType(initial) {
	case majorUnsignedInt, majorNegativeInt:
		_, err := r.readIntlike(info, offset)
		return err

	case majorByteString, majorTextString:
		if info == infoIndefinite {
			// Indefinite strings are a break-terminated list of
			// definite-length chunks of the same major type
			for {
				subInitial, err := r.readAt(*offset)
				if err != nil {
					return err
				}
				*offset++
				if subInitial == byteBreak {
					return nil
				}
				if majorType(subInitial) != majorType(initial) {
					return MalformedCborError{
						Reason: "illegal indefinite-length string component",
					}
				}
				if err := r.seekStringPayload(addInfo(subInitial), offset); err != nil {
					return err
				}
			}
		}
		return r.seekStringPayload(info, offset)

	case majorArray, majorMap:
		isMap := majorType(initial) == majorMap
		if info == infoIndefinite {
			// Read objects (or key/value pairs) until a break
			for {
				b, err := r.readAt(*offset)
				if err != nil {
					return err
				}
				if b == byteBreak {
					*offset++
					return nil
				}
				if isMap {
					if err := r.checkAndSeek(offset, depth+1); err != nil {
						return err
					}
				}
				if err := r.checkAndSeek(offset, depth+1); err != nil {
					return err
				}
			}
		}
		// Definite-length: the object (pair) count is encoded as an integer
		size, err := r.readIntlike(info, offset)
		if err != nil {
			return err
		}
		for ; size > 0; size-- {
			if isMap {
				if err := r.checkAndSeek(offset, depth+1); err != nil {
					return err
				}
			}
			if err := r.checkAndSeek(offset, depth+1); err != nil {
				return err
			}
		}
		return nil

	case majorTag:
		// Tags are never interpreted, but skipping them is legal and
		// cheap: the tag number is an integer, followed by one object
		if _, err := r.readIntlike(info, offset); err != nil {
			return err
		}
		return r.checkAndSeek(offset, depth+1)
	}

	// Major type 7: the kind is selected by the additional info
	switch info {
	case simpleFalse, simpleTrue, simpleNull:
		return nil
	case simpleUndefined:
		return UnsupportedFeatureError{Feature: "undefined value"}
	case simpleHalf:
		return UnsupportedFeatureError{Feature: "half-precision float"}
	case simpleSingle:
		return UnsupportedFeatureError{Feature: "single-precision float"}
	case simpleDouble:
		for i := 0; i < 8; i++ {
			if _, err := r.readAt(*offset); err != nil {
				return err
			}
			*offset++
		}
		return nil
	case infoIndefinite:
		return MalformedCborError{Reason: "unexpected break"}
	}
	return MalformedCborError{Reason: "unknown type code"}
}

// seekStringPayload reads a definite string chunk's byte length and seeks
// past the payload, range-checking against this Reader's extent
func (r *Reader) seekStringPayload(info uint8, offset *int) error {
	length, err := r.readIntlike(info, offset)
	if err != nil {
		return err
	}
	if length > uint64(r.length-*offset) {
		return MalformedCborError{Reason: "string read past end of slice"}
	}
	*offset += int(length)
	return nil
}
