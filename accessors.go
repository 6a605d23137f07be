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
	"math"
)

// ArrayReader is the ordered sequence of child Readers for a CBOR array,
// one per element, in wire order
type ArrayReader []*Reader

// MapReader is a string-keyed mapping to child Readers for a CBOR map.
// Keys are kept in wire order. On duplicate keys the first occurrence wins
// and later duplicates are silently dropped.
type MapReader struct {
	keys    []string
	entries map[string]*Reader
}

// Len returns the number of distinct keys in the map
func (m *MapReader) Len() int {
	return len(m.keys)
}

// Get returns the Reader for the given key, if present
func (m *MapReader) Get(key string) (*Reader, bool) {
	r, ok := m.entries[key]
	return r, ok
}

// Keys returns the distinct map keys in wire order
func (m *MapReader) Keys() []string {
	return m.keys
}

func (m *MapReader) insert(key string, value *Reader) {
	if _, ok := m.entries[key]; ok {
		return
	}
	m.keys = append(m.keys, key)
	m.entries[key] = value
}

// initial returns the first byte of this Reader's extent. A Reader is never
// empty, so this cannot fail.
func (r *Reader) initial() uint8 {
	return r.data[r.offset]
}

// TypeName returns the name of the type of this CBOR object: one of
// "null", "boolean", "integer", "float", "binary string", "UTF8 string",
// "array", "map" or "unknown type"
func (r *Reader) TypeName() string {
	initial := r.initial()
	switch majorType(initial) {
	case majorUnsignedInt, majorNegativeInt:
		return "integer"
	case majorByteString:
		return "binary string"
	case majorTextString:
		return "UTF8 string"
	case majorArray:
		return "array"
	case majorMap:
		return "map"
	case majorSimple:
		switch addInfo(initial) {
		case simpleFalse, simpleTrue:
			return "boolean"
		case simpleNull:
			return "null"
		case simpleDouble:
			return "float"
		}
	}
	return "unknown type"
}

// IsNull checks whether this object is null
func (r *Reader) IsNull() bool {
	return r.initial() == byteNull
}

// AsNull returns a type mismatch error unless this object is null
func (r *Reader) AsNull() error {
	if !r.IsNull() {
		return TypeMismatchError{Expected: "null", Actual: r.TypeName()}
	}
	return nil
}

// IsBool checks whether this object is a boolean
func (r *Reader) IsBool() bool {
	return r.initial()&0xfe == byteFalse
}

// AsBool returns the boolean value of this object
func (r *Reader) AsBool() (bool, error) {
	switch r.initial() {
	case byteFalse:
		return false, nil
	case byteTrue:
		return true, nil
	}
	return false, TypeMismatchError{Expected: "boolean", Actual: r.TypeName()}
}

// IsInt checks whether this object is an integer
func (r *Reader) IsInt() bool {
	return r.initial()&0xc0 == 0
}

// AsInt returns the integer value of this object. Wire integers whose
// unsigned magnitude cannot be represented as a signed 64-bit value are
// rejected rather than wrapped.
func (r *Reader) AsInt() (int64, error) {
	initial := r.initial()
	if majorType(initial) > majorNegativeInt {
		return 0, TypeMismatchError{Expected: "integer", Actual: r.TypeName()}
	}
	offset := 1
	value, err := r.readIntlike(addInfo(initial), &offset)
	if err != nil {
		return 0, err
	}
	negative := majorType(initial) == majorNegativeInt
	if value >= 1<<63 {
		return 0, OutOfRangeError{Magnitude: value, Negative: negative}
	}
	if negative {
		return -1 - int64(value), nil
	}
	return int64(value), nil
}

// IsFloat checks whether this object is a float. Only the 8-byte double
// form is supported.
func (r *Reader) IsFloat() bool {
	return r.initial() == byteDouble
}

// AsFloat returns the floating point value of this object, reassembled
// from big-endian wire order
func (r *Reader) AsFloat() (float64, error) {
	if !r.IsFloat() {
		return 0, TypeMismatchError{Expected: "float", Actual: r.TypeName()}
	}
	offset := 1
	value, err := r.readIntlike(simpleDouble, &offset)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(value), nil
}

// IsString checks whether this object is a UTF-8 text string
func (r *Reader) IsString() bool {
	return majorType(r.initial()) == majorTextString
}

// AsString returns the text content of this object, concatenating chunks
// for indefinite-length strings. Decoding is byte-transparent: conformance
// of the content to UTF-8 is the producer's responsibility.
func (r *Reader) AsString() (string, error) {
	if !r.IsString() {
		return "", TypeMismatchError{
			Expected: "UTF8 string",
			Actual:   r.TypeName(),
		}
	}
	var buf bytes.Buffer
	offset := 0
	if err := r.readStringlike(&offset, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsBinary checks whether this object is a byte string
func (r *Reader) IsBinary() bool {
	return majorType(r.initial()) == majorByteString
}

// AsBinary returns the byte content of this object, concatenating chunks
// for indefinite-length strings
func (r *Reader) AsBinary() ([]byte, error) {
	if !r.IsBinary() {
		return nil, TypeMismatchError{
			Expected: "binary string",
			Actual:   r.TypeName(),
		}
	}
	var buf bytes.Buffer
	offset := 0
	if err := r.readStringlike(&offset, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// readStringlike writes the content of the string at the given offset to
// buf, recursing for the chunks of indefinite-length strings. offset is
// moved to the end of the string.
func (r *Reader) readStringlike(offset *int, buf *bytes.Buffer) error {
	initial, err := r.readAt(*offset)
	if err != nil {
		return err
	}
	*offset++
	info := addInfo(initial)
	if info == infoIndefinite {
		for {
			b, err := r.readAt(*offset)
			if err != nil {
				return err
			}
			if b == byteBreak {
				*offset++
				return nil
			}
			if err := r.readStringlike(offset, buf); err != nil {
				return err
			}
		}
	}
	length, err := r.readIntlike(info, offset)
	if err != nil {
		return err
	}
	if length > uint64(r.length-*offset) {
		return MalformedCborError{Reason: "string read past end of slice"}
	}
	buf.Write(r.data[r.offset+*offset : r.offset+*offset+int(length)])
	*offset += int(length)
	return nil
}

// IsArray checks whether this object is an array
func (r *Reader) IsArray() bool {
	return majorType(r.initial()) == majorArray
}

// AsArray returns the array elements of this object as child Readers, in
// wire order. Definite- and indefinite-length arrays with the same elements
// produce equal results.
func (r *Reader) AsArray() (ArrayReader, error) {
	if !r.IsArray() {
		return nil, TypeMismatchError{Expected: "array", Actual: r.TypeName()}
	}
	info := addInfo(r.initial())
	offset := 1
	var ar ArrayReader
	if info == infoIndefinite {
		for {
			b, err := r.readAt(offset)
			if err != nil {
				return nil, err
			}
			if b == byteBreak {
				break
			}
			if err := r.readArrayItem(&offset, &ar); err != nil {
				return nil, err
			}
		}
	} else {
		size, err := r.readIntlike(info, &offset)
		if err != nil {
			return nil, err
		}
		for ; size > 0; size-- {
			if err := r.readArrayItem(&offset, &ar); err != nil {
				return nil, err
			}
		}
	}
	return ar, nil
}

// readArrayItem records the structural extent of the item at the given
// offset, appends a child Reader over it, and advances past the item
func (r *Reader) readArrayItem(offset *int, ar *ArrayReader) error {
	start := *offset
	if err := r.checkAndSeek(offset, 0); err != nil {
		return err
	}
	item, err := r.Slice(start, *offset-start)
	if err != nil {
		return err
	}
	*ar = append(*ar, item)
	return nil
}

// IsMap checks whether this object is a map
func (r *Reader) IsMap() bool {
	return majorType(r.initial()) == majorMap
}

// AsMap returns the map entries of this object as child Readers keyed by
// their decoded string keys, in wire order. A key that is not a string is a
// type mismatch. On duplicate keys the first occurrence wins.
func (r *Reader) AsMap() (*MapReader, error) {
	if !r.IsMap() {
		return nil, TypeMismatchError{Expected: "map", Actual: r.TypeName()}
	}
	info := addInfo(r.initial())
	offset := 1
	mr := &MapReader{entries: make(map[string]*Reader)}
	if info == infoIndefinite {
		for {
			b, err := r.readAt(offset)
			if err != nil {
				return nil, err
			}
			if b == byteBreak {
				break
			}
			if err := r.readMapItem(&offset, mr); err != nil {
				return nil, err
			}
		}
	} else {
		size, err := r.readIntlike(info, &offset)
		if err != nil {
			return nil, err
		}
		for ; size > 0; size-- {
			if err := r.readMapItem(&offset, mr); err != nil {
				return nil, err
			}
		}
	}
	return mr, nil
}

// readMapItem reads the key/value pair at the given offset into the map and
// advances past the pair. The key is decoded as a string up front.
func (r *Reader) readMapItem(offset *int, mr *MapReader) error {
	keyStart := *offset
	if err := r.checkAndSeek(offset, 0); err != nil {
		return err
	}
	dataStart := *offset
	if err := r.checkAndSeek(offset, 0); err != nil {
		return err
	}
	keyReader, err := r.Slice(keyStart, dataStart-keyStart)
	if err != nil {
		return err
	}
	key, err := keyReader.AsString()
	if err != nil {
		return err
	}
	value, err := r.Slice(dataStart, *offset-dataStart)
	if err != nil {
		return err
	}
	mr.insert(key, value)
	return nil
}
