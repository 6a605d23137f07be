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
	"encoding/binary"
	"io"
	"math"
)

// Writer streams a CBOR tree to an output sink. Structures are opened
// through Start and the append operations on ArrayWriter/MapWriter, and the
// Writer tracks the stack of currently open structures: at any instant only
// the handle for the top of that stack may emit bytes. Writing through a
// suspended parent or a closed handle fails with InactiveWriterError.
//
// Arrays and maps are always emitted in indefinite-length form, so no child
// counts need to be known in advance. Discarding a Writer with structures
// still open leaves a non-self-terminating byte stream that must not be
// treated as valid output.
//
// A Writer is a single sequential state machine and must be confined to one
// goroutine per in-flight serialization.
type Writer struct {
	w         io.Writer
	idCounter uint64
	stack     []uint64
}

// NewWriter creates a CBOR writer around the given output sink
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Start opens the toplevel map and returns its writer. This fails if a
// structure is already open. It is legal to call Start again after the
// toplevel map has been closed to write multiple objects back-to-back.
func (w *Writer) Start() (*MapWriter, error) {
	if len(w.stack) != 0 {
		return nil, AlreadyStartedError{}
	}
	if _, err := w.w.Write([]byte{byteIndefMap}); err != nil {
		return nil, err
	}
	return &MapWriter{newStructureWriter(w)}, nil
}

// structureWriter is the capability base shared by ArrayWriter and
// MapWriter: a token tied to one entry in the Writer's stack, valid for
// writing only while that entry is on top
type structureWriter struct {
	writer *Writer
	id     uint64
}

// newStructureWriter allocates an id, pushes it, and makes the new
// structure the active writer
func newStructureWriter(w *Writer) structureWriter {
	sw := structureWriter{
		writer: w,
		id:     w.idCounter,
	}
	w.stack = append(w.stack, sw.id)
	w.idCounter++
	return sw
}

// sink returns the output sink if and only if this is the active writer
func (s *structureWriter) sink() (io.Writer, error) {
	stack := s.writer.stack
	if len(stack) == 0 || stack[len(stack)-1] != s.id {
		return nil, InactiveWriterError{}
	}
	return s.writer.w, nil
}

// Close terminates this structure with a break byte and hands control back
// to the parent writer (or returns the Writer to idle if this was the
// toplevel map). Any further use of this handle, including a second Close,
// fails with InactiveWriterError, so deferred cleanup may ignore the error.
func (s *structureWriter) Close() error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	if _, err := sink.Write([]byte{byteBreak}); err != nil {
		return err
	}
	s.writer.stack = s.writer.stack[:len(s.writer.stack)-1]
	return nil
}

func (s *structureWriter) writeNull() error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	_, err = sink.Write([]byte{byteNull})
	return err
}

func (s *structureWriter) writeBool(value bool) error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	data := byteFalse
	if value {
		data = byteTrue
	}
	_, err = sink.Write([]byte{data})
	return err
}

// writeInt emits an integer in the shortest RFC 7049 form for its
// magnitude. The major type can be overridden from 0/1 to emit a string or
// structure header, in which case value must be non-negative.
func (s *structureWriter) writeInt(value int64, major uint8) error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	var magnitude uint64
	if value < 0 {
		major = majorNegativeInt
		magnitude = uint64(-(value + 1))
	} else {
		magnitude = uint64(value)
	}
	_, err = sink.Write(appendHead(nil, major, magnitude))
	return err
}

// writeFloat emits the 8-byte double form, byte-swapped to big-endian.
// Doubles are the only supported float format.
func (s *structureWriter) writeFloat(value float64) error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	data := binary.BigEndian.AppendUint64(
		[]byte{byteDouble},
		math.Float64bits(value),
	)
	_, err = sink.Write(data)
	return err
}

// writeString emits a definite-length UTF-8 text string
func (s *structureWriter) writeString(value string) error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	data := appendHead(nil, majorTextString, uint64(len(value)))
	_, err = sink.Write(append(data, value...))
	return err
}

// writeBinary emits a definite-length byte string
func (s *structureWriter) writeBinary(value []byte) error {
	sink, err := s.sink()
	if err != nil {
		return err
	}
	data := appendHead(nil, majorByteString, uint64(len(value)))
	_, err = sink.Write(append(data, value...))
	return err
}

// openArray emits an indefinite-length array header and suspends this
// writer in favor of the returned child
func (s *structureWriter) openArray() (*ArrayWriter, error) {
	sink, err := s.sink()
	if err != nil {
		return nil, err
	}
	if _, err := sink.Write([]byte{byteIndefArray}); err != nil {
		return nil, err
	}
	return &ArrayWriter{newStructureWriter(s.writer)}, nil
}

// openMap emits an indefinite-length map header and suspends this writer
// in favor of the returned child
func (s *structureWriter) openMap() (*MapWriter, error) {
	sink, err := s.sink()
	if err != nil {
		return nil, err
	}
	if _, err := sink.Write([]byte{byteIndefMap}); err != nil {
		return nil, err
	}
	return &MapWriter{newStructureWriter(s.writer)}, nil
}

// ArrayWriter appends values to an open CBOR array
type ArrayWriter struct {
	structureWriter
}

// AppendNull writes a null value to the array
func (a *ArrayWriter) AppendNull() error {
	return a.writeNull()
}

// AppendBool writes a boolean value to the array
func (a *ArrayWriter) AppendBool(value bool) error {
	return a.writeBool(value)
}

// AppendInt writes an integer value to the array
func (a *ArrayWriter) AppendInt(value int64) error {
	return a.writeInt(value, majorUnsignedInt)
}

// AppendFloat writes a double-precision float value to the array
func (a *ArrayWriter) AppendFloat(value float64) error {
	return a.writeFloat(value)
}

// AppendString writes a UTF-8 string value to the array
func (a *ArrayWriter) AppendString(value string) error {
	return a.writeString(value)
}

// AppendBinary writes a byte string value to the array
func (a *ArrayWriter) AppendBinary(value []byte) error {
	return a.writeBinary(value)
}

// AppendArray starts writing a nested array. The returned writer must be
// closed before the next value can be written to this array.
func (a *ArrayWriter) AppendArray() (*ArrayWriter, error) {
	return a.openArray()
}

// AppendMap starts writing a nested map. The returned writer must be
// closed before the next value can be written to this array.
func (a *ArrayWriter) AppendMap() (*MapWriter, error) {
	return a.openMap()
}

// MapWriter appends key/value pairs to an open CBOR map. Keys are written
// as definite-length UTF-8 strings immediately before their values, and the
// order of append calls is preserved on the wire.
type MapWriter struct {
	structureWriter
}

// AppendNull writes a null value to the map under the given key
func (m *MapWriter) AppendNull(key string) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeNull()
}

// AppendBool writes a boolean value to the map under the given key
func (m *MapWriter) AppendBool(key string, value bool) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeBool(value)
}

// AppendInt writes an integer value to the map under the given key
func (m *MapWriter) AppendInt(key string, value int64) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeInt(value, majorUnsignedInt)
}

// AppendFloat writes a double-precision float value to the map under the
// given key
func (m *MapWriter) AppendFloat(key string, value float64) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeFloat(value)
}

// AppendString writes a UTF-8 string value to the map under the given key
func (m *MapWriter) AppendString(key string, value string) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeString(value)
}

// AppendBinary writes a byte string value to the map under the given key
func (m *MapWriter) AppendBinary(key string, value []byte) error {
	if err := m.writeString(key); err != nil {
		return err
	}
	return m.writeBinary(value)
}

// AppendArray starts writing a nested array under the given key. The
// returned writer must be closed before the next value can be written to
// this map.
func (m *MapWriter) AppendArray(key string) (*ArrayWriter, error) {
	if err := m.writeString(key); err != nil {
		return nil, err
	}
	return m.openArray()
}

// AppendMap starts writing a nested map under the given key. The returned
// writer must be closed before the next value can be written to this map.
func (m *MapWriter) AppendMap(key string) (*MapWriter, error) {
	if err := m.writeString(key); err != nil {
		return nil, err
	}
	return m.openMap()
}
