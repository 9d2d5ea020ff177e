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

// Op names the mutation a script step performs.
type Op int

const (
	// OpAppend appends Step.Items to the source.
	OpAppend Op = iota

	// OpInsert inserts Step.Items at Step.Index.
	OpInsert

	// OpRemove removes Step.Count items (default 1) at Step.Index.
	OpRemove

	// OpSet overwrites the items at Step.Index with Step.Items.
	OpSet

	// OpMove moves Step.Count items (default 1) from Step.Index so that they
	// start at Step.To.
	OpMove

	// OpClear removes every item.
	OpClear

	// OpReset replaces the source content with Step.Items.
	OpReset

	// OpExpand expands the children of Step.Item.
	OpExpand

	// OpCollapse collapses the children of Step.Item.
	OpCollapse
)

var opNames = [...]string{"append", "insert", "remove", "set", "move", "clear", "reset", "expand", "collapse"}

// ParseOp converts a step op name into an Op.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if s == name {
			return Op(i), nil
		}
	}
	return OpAppend, &errors.ParseError{Type: "Op", Value: s}
}

// String returns the op name, or "unknown".
func (o Op) String() string {
	if !o.Valid() {
		return "unknown"
	}
	return opNames[o]
}

// Valid reports whether o is a defined constant.
func (o Op) Valid() bool { return o >= OpAppend && o <= OpCollapse }

// TypeName returns "Op".
func (o Op) TypeName() string { return "Op" }

// Redacted returns String.
func (o Op) Redacted() string { return o.String() }

// IsZero reports whether o is OpAppend.
func (o Op) IsZero() bool { return o == OpAppend }

// Validate returns a *errors.ValidationError for undefined values.
func (o Op) Validate() error {
	if !o.Valid() {
		return &errors.ValidationError{Type: "Op", Reason: "invalid Op value", Value: int(o)}
	}
	return nil
}

// MarshalJSON encodes the op name.
func (o Op) MarshalJSON() ([]byte, error) {
	if !o.Valid() {
		return nil, &errors.MarshalError{Type: "Op", Value: int(o)}
	}
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an op name.
func (o *Op) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &errors.UnmarshalError{Type: "Op", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseOp(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalYAML encodes the op name.
func (o Op) MarshalYAML() (any, error) {
	if !o.Valid() {
		return nil, &errors.MarshalError{Type: "Op", Value: int(o)}
	}
	return o.String(), nil
}

// UnmarshalYAML decodes an op name.
func (o *Op) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseOp(node.Value)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

var _ model.Model = (*Op)(nil)
