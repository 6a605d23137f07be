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
	"fmt"
)

// DumpStructure generates an indented string representing the object behind
// a Reader for debugging purposes
func DumpStructure(r *Reader, prefix string) (string, error) {
	var ret bytes.Buffer
	switch {
	case r.IsNull():
		return prefix + "null,\n", nil
	case r.IsBool():
		v, err := r.AsBool()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%v,\n", prefix, v), nil
	case r.IsInt():
		v, err := r.AsInt()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s0x%x (%d),\n", prefix, v, v), nil
	case r.IsFloat():
		v, err := r.AsFloat()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%v,\n", prefix, v), nil
	case r.IsString():
		v, err := r.AsString()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s%q,\n", prefix, v), nil
	case r.IsBinary():
		v, err := r.AsBinary()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s<bytes> (length %d),\n", prefix, len(v)), nil
	case r.IsArray():
		items, err := r.AsArray()
		if err != nil {
			return "", err
		}
		ret.WriteString(prefix + "[\n")
		for _, item := range items {
			tmp, err := DumpStructure(item, prefix+"  ")
			if err != nil {
				return "", err
			}
			ret.WriteString(tmp)
		}
		ret.WriteString(prefix + "],\n")
	case r.IsMap():
		entries, err := r.AsMap()
		if err != nil {
			return "", err
		}
		ret.WriteString(prefix + "{\n")
		for _, key := range entries.Keys() {
			value, _ := entries.Get(key)
			tmp, err := DumpStructure(value, prefix+"  ")
			if err != nil {
				return "", err
			}
			ret.WriteString(fmt.Sprintf("%s%q =>\n%s", prefix+"  ", key, tmp))
		}
		ret.WriteString(prefix + "},\n")
	default:
		return fmt.Sprintf("%s<%s>,\n", prefix, r.TypeName()), nil
	}
	return ret.String(), nil
}
