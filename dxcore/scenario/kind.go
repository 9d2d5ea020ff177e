/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package scenario

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"dirpx.dev/dxview/dxcore/errors"
	"dirpx.dev/dxview/dxcore/model"
)

// Kind names the view a pipeline stage builds.
type Kind int

const (
	// KindFilter keeps the items containing Stage.Contains.
	KindFilter Kind = iota

	// KindSort orders items, descending when Stage.Descending is set.
	KindSort

	// KindSet keeps the first item of every Stage.Key.
	KindSet

	// KindConvert formats every item with Stage.Format.
	KindConvert

	// KindSeparate interleaves Stage.Separator.
	KindSeparate

	// KindConcat appends the stages named in Stage.With.
	KindConcat

	// KindGroup shows one "key(count)" entry per Stage.Key.
	KindGroup

	// KindExpand shows the document children beneath expanded items.
	KindExpand
)

var kindNames = [...]string{"filter", "sort", "set", "convert", "separate", "concat", "group", "expand"}

// ParseKind converts a stage kind name into a Kind.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return KindFilter, &errors.ParseError{Type: "Kind", Value: s}
}

// String returns the kind name, or "unknown".
func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is a defined constant.
func (k Kind) Valid() bool { return k >= KindFilter && k <= KindExpand }

// TypeName returns "Kind".
func (k Kind) TypeName() string { return "Kind" }

// Redacted returns String.
func (k Kind) Redacted() string { return k.String() }

// IsZero reports whether k is KindFilter.
func (k Kind) IsZero() bool { return k == KindFilter }

// Validate returns a *errors.ValidationError for undefined values.
func (k Kind) Validate() error {
	if !k.Valid() {
		return &errors.ValidationError{Type: "Kind", Reason: "invalid Kind value", Value: int(k)}
	}
	return nil
}

// MarshalJSON encodes the kind name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, &errors.MarshalError{Type: "Kind", Value: int(k)}
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &errors.UnmarshalError{Type: "Kind", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes the kind name.
func (k Kind) MarshalYAML() (any, error) {
	if !k.Valid() {
		return nil, &errors.MarshalError{Type: "Kind", Value: int(k)}
	}
	return k.String(), nil
}

// UnmarshalYAML decodes a kind name.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseKind(node.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

var _ model.Model = (*Kind)(nil)
