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

// Package treecbor provides a lazy-slicing codec for tree-structured data
// in an RFC 7049 CBOR subset.
//
// # Reading
//
// NewReader validates an entire byte buffer up front and returns an
// immutable view over it. Extraction is lazy: AsArray and AsMap hand back
// child Readers that are (offset, length) views into the same shared
// buffer, so walking a large object only touches the parts the caller asks
// for. Because structural validation is front-loaded, every error returned
// by an accessor is a type or range error, never a structural one.
//
//	r, err := treecbor.NewReader(data)
//	if err != nil {
//	    return err
//	}
//	m, err := r.AsMap()
//	if err != nil {
//	    return err
//	}
//	if v, ok := m.Get("pi"); ok {
//	    pi, err := v.AsFloat()
//	    ...
//	}
//
// # Writing
//
// Writer streams an object out without buffering the tree: Start opens the
// toplevel map, AppendArray/AppendMap open nested structures, and only the
// most recently opened structure may write until it is closed. Appending
// through a suspended parent handle fails with InactiveWriterError, which
// keeps malformed nesting impossible without the caller tracking depth.
//
//	w := treecbor.NewWriter(&buf)
//	root, err := w.Start()
//	...
//	items, err := root.AppendArray("items")
//	...
//	items.Close()
//	root.Close()
//
// # Supported subset
//
// Major types 0-6 are fully supported; within major type 7 only false,
// true, null and double-precision floats are. The undefined simple value
// and half/single-precision floats are explicit errors rather than silent
// coercions. Semantic tags are structurally skipped, never interpreted.
//
// # Generic interop
//
// Decode and Encode bridge to arbitrary Go values via
// github.com/fxamacker/cbor/v2 for callers that want whole-value
// materialization instead of lazy slicing.
package treecbor
