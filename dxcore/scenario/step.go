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
	"fmt"
	"strings"

	"dirpx.dev/dxview/dxcore/errors"
)

// Step is one mutation of the scenario script.
type Step struct {
	Op    Op       `json:"op" yaml:"op"`
	Index int      `json:"index,omitempty" yaml:"index,omitempty"`
	Count int      `json:"count,omitempty" yaml:"count,omitempty"`
	To    int      `json:"to,omitempty" yaml:"to,omitempty"`
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`
	Item  string   `json:"item,omitempty" yaml:"item,omitempty"`
}

// TypeName returns "Step".
func (s Step) TypeName() string { return "Step" }

// count returns Count, defaulting to 1.
func (s Step) count() int {
	if s.Count == 0 {
		return 1
	}
	return s.Count
}

// Validate checks the fields the op reads. Indices are checked against the
// source when the step runs.
func (s Step) Validate() error {
	invalid := func(field, reason string, value any) error {
		return &errors.ValidationError{Type: "Step", Field: field, Reason: reason, Value: value}
	}

	if err := s.Op.Validate(); err != nil {
		return err
	}
	if s.Index < 0 {
		return invalid("Index", "must not be negative", s.Index)
	}
	if s.Count < 0 {
		return invalid("Count", "must not be negative", s.Count)
	}
	if s.To < 0 {
		return invalid("To", "must not be negative", s.To)
	}

	switch s.Op {
	case OpAppend, OpInsert, OpSet:
		if len(s.Items) == 0 {
			return invalid("Items", "must not be empty for "+s.Op.String(), nil)
		}
	case OpExpand, OpCollapse:
		if s.Item == "" {
			return invalid("Item", "must not be empty for "+s.Op.String(), nil)
		}
	}
	return nil
}

// String renders the step the way it reads in a document, for example
// "insert [x y] at 2" or "move 2 from 0 to 3".
func (s Step) String() string {
	items := "[" + strings.Join(s.Items, " ") + "]"
	switch s.Op {
	case OpAppend:
		return "append " + items
	case OpInsert:
		return fmt.Sprintf("insert %s at %d", items, s.Index)
	case OpRemove:
		return fmt.Sprintf("remove %d at %d", s.count(), s.Index)
	case OpSet:
		return fmt.Sprintf("set %s at %d", items, s.Index)
	case OpMove:
		return fmt.Sprintf("move %d from %d to %d", s.count(), s.Index, s.To)
	case OpClear:
		return "clear"
	case OpReset:
		return "reset " + items
	case OpExpand, OpCollapse:
		return s.Op.String() + " " + s.Item
	default:
		return s.Op.String()
	}
}
